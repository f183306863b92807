//go:generate go run go.uber.org/mock/mockgen -source=chat_service.go -destination=../mocks/mock_chat_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/CodeMyMobile/jason-driver-FE-sub000/contract"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/domain"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/domain/search"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/errors"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/index"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/moderation"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/repositories"

	"github.com/abadojack/whatlanggo"
	"github.com/google/uuid"
)

type IChatService interface {
	Post(ctx context.Context, cmd domain.PostChatCommand) (domain.ChatMessage, error)
	History(cursor *string) ([]domain.ChatMessage, *string, error)
	Search(ctx context.Context, rawQuery string) ([]index.Hit, error)
}

type ChatService struct {
	log              *slog.Logger
	repository       repositories.IMessageRepository
	index            index.IChatIndex
	moderator        moderation.Moderator
	publisher        contract.Publisher
	maxContentLength int
	now              func() time.Time
}

func NewChatService(
	log *slog.Logger,
	repository repositories.IMessageRepository,
	chatIndex index.IChatIndex,
	moderator moderation.Moderator,
	publisher contract.Publisher,
	maxContentLength int,
) *ChatService {
	return &ChatService{
		log:              log,
		repository:       repository,
		index:            chatIndex,
		moderator:        moderator,
		publisher:        publisher,
		maxContentLength: maxContentLength,
		now:              time.Now,
	}
}

// Post validates, censors, stores, indexes and broadcasts a chat message.
// The stored and broadcast content is the censored one.
func (s *ChatService) Post(ctx context.Context, cmd domain.PostChatCommand) (domain.ChatMessage, error) {
	cmd.Content = strings.TrimSpace(cmd.Content)
	if err := validate.Struct(cmd); err != nil {
		return domain.ChatMessage{}, fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	if s.maxContentLength > 0 && utf8.RuneCountInString(cmd.Content) > s.maxContentLength {
		return domain.ChatMessage{}, errors.ErrContentTooLong
	}

	content, censored := s.moderator.Censor(cmd.Content)
	if len(censored) > 0 {
		s.log.Info("Chat message censored", "author_id", cmd.AuthorID, "words", len(censored))
	}

	message := domain.ChatMessage{
		ID:            uuid.New(),
		AuthorID:      cmd.AuthorID,
		Author:        cmd.Author,
		Content:       content,
		Lang:          detectLang(cmd.Content),
		CensoredWords: censored,
		At:            s.now().UTC(),
	}

	if err := s.repository.StoreMessage(message); err != nil {
		return domain.ChatMessage{}, fmt.Errorf("store message: %w", err)
	}
	if err := s.index.Index(message); err != nil {
		s.log.Warn("Chat message not indexed", "id", message.ID, "error", err)
	}

	msg, err := domain.NewMessage(domain.ChatMessageType, message)
	if err != nil {
		return domain.ChatMessage{}, err
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.log.Warn("Chat message not broadcast", "id", message.ID, "error", err)
	}
	return message, nil
}

func (s *ChatService) History(cursor *string) ([]domain.ChatMessage, *string, error) {
	return s.repository.GetMessages(cursor)
}

func (s *ChatService) Search(ctx context.Context, rawQuery string) ([]index.Hit, error) {
	return s.index.Search(ctx, search.NewSearchQuery(rawQuery))
}

// detectLang returns the ISO 639-3 code when detection is reliable.
func detectLang(content string) string {
	info := whatlanggo.Detect(content)
	if !info.IsReliable() {
		return ""
	}
	return info.Lang.Iso6393()
}
