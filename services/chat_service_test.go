package services

import (
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/CodeMyMobile/jason-driver-FE-sub000/domain"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/domain/search"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/errors"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/index"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/mocks"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/moderation"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type chatFixture struct {
	svc       *ChatService
	repo      *mocks.MockIMessageRepository
	index     *mocks.MockIChatIndex
	publisher *mocks.MockPublisher
}

func newChatFixture(t *testing.T, maxContentLength int) chatFixture {
	t.Helper()
	ctrl := gomock.NewController(t)
	mod, err := moderation.NewModerator([]string{"badger"}, '*', slog.Default())
	require.NoError(t, err)

	f := chatFixture{
		repo:      mocks.NewMockIMessageRepository(ctrl),
		index:     mocks.NewMockIChatIndex(ctrl),
		publisher: mocks.NewMockPublisher(ctrl),
	}
	f.svc = NewChatService(slog.Default(), f.repo, f.index, mod, f.publisher, maxContentLength)
	f.svc.now = func() time.Time { return time.Date(2026, 3, 14, 11, 0, 0, 0, time.UTC) }
	return f
}

func TestChatService_Post(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t, 200)

	var stored domain.ChatMessage
	f.repo.EXPECT().StoreMessage(gomock.Any()).DoAndReturn(func(m domain.ChatMessage) error {
		stored = m
		return nil
	})
	f.index.EXPECT().Index(gomock.Any()).Return(nil)
	var published domain.Message
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m domain.Message) error {
		published = m
		return nil
	})

	// When a driver posts a message with a censored word
	msg, err := f.svc.Post(context.Background(), domain.PostChatCommand{
		AuthorID: "d-1",
		Author:   "Alice",
		Content:  "  The customer has a badger in the garden and the delivery is waiting outside  ",
	})

	// Then the censored content is stored and broadcast
	req.NoError(err)
	req.Equal("The customer has a ****** in the garden and the delivery is waiting outside", msg.Content)
	req.Equal([]string{"badger"}, msg.CensoredWords)
	req.Equal("eng", msg.Lang)
	req.Equal(msg, stored)
	req.Equal(domain.ChatMessageType, published.Type)
	var payload domain.ChatMessage
	req.NoError(published.Unmarshal(&payload))
	req.Equal(msg.ID, payload.ID)
	req.Equal(msg.Content, payload.Content)
}

func TestChatService_Post_Rejections(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t, 10)

	// Empty content
	_, err := f.svc.Post(context.Background(), domain.PostChatCommand{Author: "Alice", Content: "   "})
	req.ErrorIs(err, errors.ErrInvalidPayload)

	// Missing author
	_, err = f.svc.Post(context.Background(), domain.PostChatCommand{Content: "hello"})
	req.ErrorIs(err, errors.ErrInvalidPayload)

	// Too long, counted in runes
	_, err = f.svc.Post(context.Background(), domain.PostChatCommand{Author: "Alice", Content: strings.Repeat("é", 11)})
	req.ErrorIs(err, errors.ErrContentTooLong)
}

func TestChatService_Post_IndexFailureIsNotFatal(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t, 0)

	f.repo.EXPECT().StoreMessage(gomock.Any()).Return(nil)
	f.index.EXPECT().Index(gomock.Any()).Return(context.Canceled)
	f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	_, err := f.svc.Post(context.Background(), domain.PostChatCommand{Author: "Bob", Content: "ok"})
	req.NoError(err)
}

func TestChatService_Search(t *testing.T) {
	req := require.New(t)
	f := newChatFixture(t, 0)

	hits := []index.Hit{{ID: "1", Author: "alice", Content: "door code"}}
	f.index.EXPECT().Search(gomock.Any(), search.NewSearchQuery("door --author alice")).Return(hits, nil)

	got, err := f.svc.Search(context.Background(), "door --author alice")
	req.NoError(err)
	req.Equal(hits, got)
}
