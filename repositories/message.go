//go:generate go run go.uber.org/mock/mockgen -source=message.go -destination=../mocks/mock_message_repository.go -package=mocks
package repositories

import (
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/CodeMyMobile/jason-driver-FE-sub000/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
	"github.com/samber/lo"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const chatPrefix = "chat:"

type IMessageRepository interface {
	StoreMessage(message domain.ChatMessage) error
	GetMessages(cursor *string) ([]domain.ChatMessage, *string, error)
}

type MessageRepository struct {
	db            *badger.DB
	log           *slog.Logger
	limitMessages *int
}

func NewMessageRepository(db *badger.DB, log *slog.Logger, limitMessages *int) MessageRepository {
	return MessageRepository{db: db, log: log, limitMessages: limitMessages}
}

// StoreMessage persists a chat message in BadgerDB.
// The key is formatted as "chat:{timestamp_padded}:{uuid}" so that a prefix
// scan is chronological, and two messages of the same nanosecond do not collide.
func (m MessageRepository) StoreMessage(message domain.ChatMessage) error {
	key := fmt.Sprintf("%s%019d:%s", chatPrefix, message.At.UnixNano(), message.ID)
	record, err := fromChatMessage(message)
	if err != nil {
		return err
	}
	bytes, err := proto.Marshal(record)
	if err != nil {
		return err
	}
	return m.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), bytes)
	})
}

// GetMessages returns one page of history, oldest first, ending at cursor
// (exclusive) or at the newest message when cursor is nil.
// The returned cursor points to the oldest message of the page.
func (m MessageRepository) GetMessages(cursor *string) ([]domain.ChatMessage, *string, error) {
	var byteMessages [][]byte
	var lastKey string
	err := m.db.View(func(txn *badger.Txn) error {
		prefix := []byte(chatPrefix)
		options := badger.DefaultIteratorOptions
		options.Reverse = true
		it := txn.NewIterator(options)
		defer it.Close()

		var seekKey []byte
		switch cursor {
		case nil:
			seekKey = append(prefix, []byte("9999999999999999999")...)
		default:
			seekKey = append(prefix, []byte(*cursor)...)
		}

		it.Seek(seekKey)
		if cursor != nil && it.ValidForPrefix(prefix) && string(it.Item().Key()[len(prefix):]) == *cursor {
			it.Next()
		}

		for ; it.ValidForPrefix(prefix); it.Next() {
			if m.limitMessages != nil && len(byteMessages) == *m.limitMessages {
				m.log.Debug(fmt.Sprintf("Maximum of %d message reached", *m.limitMessages))
				break
			}
			item := it.Item()
			lastKey = string(item.Key()[len(prefix):])
			value, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			byteMessages = append(byteMessages, value)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	messages := make([]domain.ChatMessage, 0, len(byteMessages))
	for _, b := range byteMessages {
		var record structpb.Struct
		if err = proto.Unmarshal(b, &record); err != nil {
			return nil, nil, err
		}
		message, err := toChatMessage(&record)
		if err != nil {
			return nil, nil, err
		}
		messages = append(messages, message)
	}
	if len(messages) == 0 {
		return messages, nil, nil
	}
	slices.Reverse(messages)
	return messages, &lastKey, nil
}

func fromChatMessage(message domain.ChatMessage) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"id":       message.ID.String(),
		"authorId": message.AuthorID,
		"author":   message.Author,
		"content":  message.Content,
		"lang":     message.Lang,
		"censored": lo.ToAnySlice(message.CensoredWords),
		"at":       message.At.UTC().Format(time.RFC3339Nano),
	})
}

func toChatMessage(record *structpb.Struct) (domain.ChatMessage, error) {
	fields := record.GetFields()
	parsedID, err := uuid.Parse(fields["id"].GetStringValue())
	if err != nil {
		return domain.ChatMessage{}, err
	}
	at, err := time.Parse(time.RFC3339Nano, fields["at"].GetStringValue())
	if err != nil {
		return domain.ChatMessage{}, err
	}
	var censored []string
	for _, v := range fields["censored"].GetListValue().GetValues() {
		censored = append(censored, v.GetStringValue())
	}
	return domain.ChatMessage{
		ID:            parsedID,
		AuthorID:      fields["authorId"].GetStringValue(),
		Author:        fields["author"].GetStringValue(),
		Content:       fields["content"].GetStringValue(),
		Lang:          fields["lang"].GetStringValue(),
		CensoredWords: censored,
		At:            at,
	}, nil
}
