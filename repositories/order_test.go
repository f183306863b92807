package repositories

import (
	stderrors "errors"
	"log/slog"
	"testing"
	"time"

	"github.com/CodeMyMobile/jason-driver-FE-sub000/domain"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/errors"

	"github.com/stretchr/testify/require"
)

func TestOrderRepository_SaveGetList(t *testing.T) {
	req := require.New(t)
	repository := NewOrderRepository(openTestDB(t), slog.Default())
	updatedAt := time.Date(2026, 3, 14, 8, 0, 0, 0, time.UTC)

	orders := []domain.Order{
		{ID: "o-2", Reference: "ORD-1002", Customer: "Bea", Address: "2 Main St", Status: domain.OrderPending,
			Items: []domain.OrderItem{{Name: "Pizza", Quantity: 1}}, UpdatedAt: updatedAt},
		{ID: "o-1", Reference: "ORD-1001", Customer: "Al", Address: "1 Main St", Status: domain.OrderAssigned,
			DriverID: "d-1", Items: []domain.OrderItem{{Name: "Soda", Quantity: 2}}, UpdatedAt: updatedAt},
	}
	for _, o := range orders {
		req.NoError(repository.Save(o))
	}

	got, err := repository.Get("o-1")
	req.NoError(err)
	req.Equal(orders[1], got)

	list, err := repository.List()
	req.NoError(err)
	req.Equal([]domain.Order{orders[1], orders[0]}, list)
}

func TestOrderRepository_NotFound(t *testing.T) {
	req := require.New(t)
	repository := NewOrderRepository(openTestDB(t), slog.Default())

	_, err := repository.Get("missing")
	req.ErrorIs(err, errors.ErrOrderNotFound)

	_, err = repository.GetSignature("missing")
	req.ErrorIs(err, errors.ErrSignatureNotFound)
}

func TestOrderRepository_Signature(t *testing.T) {
	req := require.New(t)
	repository := NewOrderRepository(openTestDB(t), slog.Default())
	req.NoError(repository.Save(domain.Order{ID: "o-1", Status: domain.OrderDelivered}))

	signature := domain.Signature{
		OrderID:    "o-1",
		MimeType:   "image/png",
		Image:      []byte{0x89, 'P', 'N', 'G'},
		CapturedAt: time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
	}
	order, err := repository.AttachSignature(signature)
	req.NoError(err)
	req.Equal(signature.CapturedAt, *order.SignedAt)

	got, err := repository.GetSignature("o-1")
	req.NoError(err)
	req.Equal(signature, got)
	stored, err := repository.Get("o-1")
	req.NoError(err)
	req.Equal(order, stored)
}

func TestOrderRepository_SignatureForUnknownOrderIsNotStored(t *testing.T) {
	req := require.New(t)
	repository := NewOrderRepository(openTestDB(t), slog.Default())

	_, err := repository.AttachSignature(domain.Signature{OrderID: "missing", Image: []byte{1}})
	req.ErrorIs(err, errors.ErrOrderNotFound)

	_, err = repository.GetSignature("missing")
	req.ErrorIs(err, errors.ErrSignatureNotFound)
}

func TestOrderRepository_Update(t *testing.T) {
	req := require.New(t)
	repository := NewOrderRepository(openTestDB(t), slog.Default())
	req.NoError(repository.Save(domain.Order{ID: "o-1", Status: domain.OrderPending}))

	// When the update succeeds it is persisted
	updated, err := repository.Update("o-1", func(o *domain.Order) error {
		o.Status = domain.OrderAssigned
		return nil
	})
	req.NoError(err)
	req.Equal(domain.OrderAssigned, updated.Status)

	// When the callback refuses, nothing changes
	refused := stderrors.New("refused")
	_, err = repository.Update("o-1", func(o *domain.Order) error {
		o.Status = domain.OrderCancelled
		return refused
	})
	req.ErrorIs(err, refused)

	stored, err := repository.Get("o-1")
	req.NoError(err)
	req.Equal(domain.OrderAssigned, stored.Status)

	_, err = repository.Update("missing", func(*domain.Order) error { return nil })
	req.ErrorIs(err, errors.ErrOrderNotFound)
}
