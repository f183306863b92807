//go:generate go run go.uber.org/mock/mockgen -source=chat_index.go -destination=../mocks/mock_chat_index.go -package=mocks
package index

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/CodeMyMobile/jason-driver-FE-sub000/domain"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/domain/search"

	"github.com/blugelabs/bluge"
)

const (
	fieldContent = "content"
	fieldAuthor  = "author"
	fieldAt      = "at"
)

type IChatIndex interface {
	Index(message domain.ChatMessage) error
	Search(ctx context.Context, query search.Query) ([]Hit, error)
}

// Hit is one search result, newest first.
type Hit struct {
	ID      string    `json:"id"`
	Author  string    `json:"author"`
	Content string    `json:"content"`
	At      time.Time `json:"at"`
	Score   float64   `json:"score"`
}

// ChatIndex is the full-text index of censored chat content.
type ChatIndex struct {
	writer *bluge.Writer
	log    *slog.Logger
}

func NewChatIndex(writer *bluge.Writer, log *slog.Logger) *ChatIndex {
	return &ChatIndex{writer: writer, log: log}
}

func (c *ChatIndex) Index(message domain.ChatMessage) error {
	doc := bluge.NewDocument(message.ID.String()).
		AddField(bluge.NewTextField(fieldContent, message.Content).StoreValue()).
		AddField(bluge.NewKeywordField(fieldAuthor, strings.ToLower(message.Author)).StoreValue()).
		AddField(bluge.NewDateTimeField(fieldAt, message.At).StoreValue().Sortable())

	if err := c.writer.Update(doc.ID(), doc); err != nil {
		return fmt.Errorf("index message %s: %w", message.ID, err)
	}
	return nil
}

// Search matches the query terms against content, optionally restricted to
// one author. An empty query with an author lists that author's messages.
func (c *ChatIndex) Search(ctx context.Context, query search.Query) ([]Hit, error) {
	reader, err := c.writer.Reader()
	if err != nil {
		return nil, fmt.Errorf("open index reader: %w", err)
	}
	defer func() { _ = reader.Close() }()

	q := bluge.NewBooleanQuery()
	switch {
	case query.Terms != "":
		q.AddMust(bluge.NewMatchQuery(query.Terms).SetField(fieldContent))
	case query.Author == "":
		return nil, nil
	default:
		q.AddMust(bluge.NewMatchAllQuery())
	}
	if query.Author != "" {
		q.AddMust(bluge.NewTermQuery(strings.ToLower(query.Author)).SetField(fieldAuthor))
	}

	limit := query.Limit
	if limit <= 0 {
		limit = search.DefaultLimit
	}
	request := bluge.NewTopNSearch(limit, q).SortBy([]string{"-" + fieldAt})

	matches, err := reader.Search(ctx, request)
	if err != nil {
		return nil, fmt.Errorf("search %q: %w", query.RawInput, err)
	}

	var hits []Hit
	match, err := matches.Next()
	for err == nil && match != nil {
		hit := Hit{Score: match.Score}
		visitErr := match.VisitStoredFields(func(field string, value []byte) bool {
			switch field {
			case "_id":
				hit.ID = string(value)
			case fieldContent:
				hit.Content = string(value)
			case fieldAuthor:
				hit.Author = string(value)
			case fieldAt:
				if at, err := bluge.DecodeDateTime(value); err == nil {
					hit.At = at.UTC()
				}
			}
			return true
		})
		if visitErr != nil {
			c.log.Warn("Skipping unreadable search hit", "error", visitErr)
		} else {
			hits = append(hits, hit)
		}
		match, err = matches.Next()
	}
	if err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	return hits, nil
}
