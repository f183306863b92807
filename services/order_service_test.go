package services

import (
	"context"
	stderrors "errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/CodeMyMobile/jason-driver-FE-sub000/domain"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/errors"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/mocks"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/repositories"

	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func newOrderService(t *testing.T) (*OrderService, *mocks.MockIOrderRepository, *mocks.MockPublisher) {
	ctrl := gomock.NewController(t)
	repo := mocks.NewMockIOrderRepository(ctrl)
	publisher := mocks.NewMockPublisher(ctrl)
	svc := NewOrderService(slog.Default(), repo, publisher)
	svc.now = func() time.Time { return time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC) }
	return svc, repo, publisher
}

// storedAs plays the repository side of Update against a stored order.
func storedAs(order domain.Order) func(string, func(*domain.Order) error) (domain.Order, error) {
	return func(_ string, fn func(*domain.Order) error) (domain.Order, error) {
		if err := fn(&order); err != nil {
			return domain.Order{}, err
		}
		return order, nil
	}
}

func TestOrderService_UpdateStatus(t *testing.T) {
	req := require.New(t)
	svc, repo, publisher := newOrderService(t)
	order := domain.Order{ID: "o-1", Reference: "ORD-1001", Status: domain.OrderAssigned}

	// Given an assigned order
	repo.EXPECT().Update("o-1", gomock.Any()).DoAndReturn(storedAs(order))
	var published domain.Message
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m domain.Message) error {
		published = m
		return nil
	})

	// When the driver picks it up
	updated, err := svc.UpdateStatus(context.Background(), "o-1", domain.OrderPickedUp)

	// Then the order is saved and broadcast as ORDER_UPDATED
	req.NoError(err)
	req.Equal(domain.OrderPickedUp, updated.Status)
	req.Equal(svc.now(), updated.UpdatedAt)
	req.Equal(domain.OrderUpdated, published.Type)
	var payload domain.Order
	req.NoError(published.Unmarshal(&payload))
	req.Equal(updated, payload)
}

func TestOrderService_UpdateStatus_Rejections(t *testing.T) {
	req := require.New(t)
	svc, repo, _ := newOrderService(t)

	// Unknown status never reaches the store
	_, err := svc.UpdateStatus(context.Background(), "o-1", "LOST")
	req.ErrorIs(err, errors.ErrInvalidStatus)

	// Unknown order
	repo.EXPECT().Update("missing", gomock.Any()).Return(domain.Order{}, errors.ErrOrderNotFound)
	_, err = svc.UpdateStatus(context.Background(), "missing", domain.OrderDelivered)
	req.ErrorIs(err, errors.ErrOrderNotFound)

	// Delivered orders are final, and nothing is published
	repo.EXPECT().Update("o-2", gomock.Any()).DoAndReturn(storedAs(domain.Order{ID: "o-2", Status: domain.OrderDelivered}))
	_, err = svc.UpdateStatus(context.Background(), "o-2", domain.OrderPending)
	req.ErrorIs(err, errors.ErrInvalidTransition)
}

func TestOrderService_ConcurrentUpdatesKeepFinalStatus(t *testing.T) {
	req := require.New(t)
	db, err := badger.Open(badger.DefaultOptions(t.TempDir()).WithLoggingLevel(badger.ERROR))
	req.NoError(err)
	t.Cleanup(func() { _ = db.Close() })

	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockPublisher(ctrl)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	repository := repositories.NewOrderRepository(db, slog.Default())
	svc := NewOrderService(slog.Default(), repository, publisher)

	for round := range 20 {
		// Given an order in transit
		id := "o-" + string(rune('a'+round))
		req.NoError(repository.Save(domain.Order{ID: id, Status: domain.OrderAssigned}))

		// When delivery and pick up race each other
		statuses := []domain.OrderStatus{
			domain.OrderDelivered, domain.OrderPickedUp, domain.OrderPickedUp, domain.OrderPickedUp,
		}
		errs := make([]error, len(statuses))
		var wg sync.WaitGroup
		for i, status := range statuses {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, errs[i] = svc.UpdateStatus(context.Background(), id, status)
			}()
		}
		wg.Wait()

		// Then a committed delivery is never overwritten
		req.NoError(errs[0])
		final, err := repository.Get(id)
		req.NoError(err)
		req.Equal(domain.OrderDelivered, final.Status)
		for _, err := range errs[1:] {
			if err != nil {
				req.True(stderrors.Is(err, errors.ErrInvalidTransition), "unexpected error: %v", err)
			}
		}
	}
}

func TestOrderService_PublishFailureStillSaves(t *testing.T) {
	req := require.New(t)
	svc, repo, publisher := newOrderService(t)

	repo.EXPECT().Update("o-1", gomock.Any()).DoAndReturn(storedAs(domain.Order{ID: "o-1", Status: domain.OrderPending})).Times(1)
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(context.DeadlineExceeded)

	_, err := svc.UpdateStatus(context.Background(), "o-1", domain.OrderAssigned)
	req.NoError(err)
}

func TestOrderService_List(t *testing.T) {
	req := require.New(t)
	svc, repo, _ := newOrderService(t)
	orders := []domain.Order{
		{ID: "o-1", Status: domain.OrderPending},
		{ID: "o-2", Status: domain.OrderDelivered},
		{ID: "o-3", Status: domain.OrderPending},
	}
	repo.EXPECT().List().Return(orders, nil).Times(2)

	all, err := svc.List(nil)
	req.NoError(err)
	req.Len(all, 3)

	pending, err := svc.List(lo.ToPtr(domain.OrderPending))
	req.NoError(err)
	req.Equal([]string{"o-1", "o-3"}, lo.Map(pending, func(o domain.Order, _ int) string { return o.ID }))
}

func TestOrderService_AttachSignature(t *testing.T) {
	req := require.New(t)
	svc, repo, publisher := newOrderService(t)

	repo.EXPECT().AttachSignature(gomock.Any()).DoAndReturn(func(s domain.Signature) (domain.Order, error) {
		req.Equal("o-1", s.OrderID)
		req.Equal("image/png", s.MimeType)
		return domain.Order{ID: "o-1", Status: domain.OrderDelivered, SignedAt: lo.ToPtr(s.CapturedAt)}, nil
	})
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

	order, err := svc.AttachSignature(context.Background(), "o-1", pngHeader)
	req.NoError(err)
	req.NotNil(order.SignedAt)
	req.Equal(svc.now(), *order.SignedAt)
}

func TestOrderService_AttachSignature_RejectsNonImage(t *testing.T) {
	req := require.New(t)
	svc, _, _ := newOrderService(t)

	// Given a text file pretending to be a signature
	_, err := svc.AttachSignature(context.Background(), "o-1", []byte("this is not an image"))

	// Then it is rejected before touching the store
	req.ErrorIs(err, errors.ErrInvalidSignature)
}
