//go:generate go run go.uber.org/mock/mockgen -source=order_service.go -destination=../mocks/mock_order_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/CodeMyMobile/jason-driver-FE-sub000/contract"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/domain"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/domain/mimetypes"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/errors"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/repositories"

	"github.com/gabriel-vasile/mimetype"
	"github.com/samber/lo"
)

type IOrderService interface {
	List(status *domain.OrderStatus) ([]domain.Order, error)
	Get(id string) (domain.Order, error)
	UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error)
	AttachSignature(ctx context.Context, id string, image []byte) (domain.Order, error)
}

type OrderService struct {
	log        *slog.Logger
	repository repositories.IOrderRepository
	publisher  contract.Publisher
	now        func() time.Time
}

func NewOrderService(log *slog.Logger, repository repositories.IOrderRepository, publisher contract.Publisher) *OrderService {
	return &OrderService{log: log, repository: repository, publisher: publisher, now: time.Now}
}

// List returns every order, or only those in status when it is set.
func (s *OrderService) List(status *domain.OrderStatus) ([]domain.Order, error) {
	orders, err := s.repository.List()
	if err != nil {
		return nil, err
	}
	if status == nil {
		return orders, nil
	}
	return lo.Filter(orders, func(o domain.Order, _ int) bool { return o.Status == *status }), nil
}

func (s *OrderService) Get(id string) (domain.Order, error) {
	return s.repository.Get(id)
}

// UpdateStatus persists the new status and notifies every connected driver.
// DELIVERED and CANCELLED orders are final.
func (s *OrderService) UpdateStatus(ctx context.Context, id string, status domain.OrderStatus) (domain.Order, error) {
	if !status.Valid() {
		return domain.Order{}, fmt.Errorf("%w: %q", errors.ErrInvalidStatus, status)
	}

	order, err := s.repository.Update(id, func(order *domain.Order) error {
		if isFinal(order.Status) && order.Status != status {
			return fmt.Errorf("%w: %s -> %s", errors.ErrInvalidTransition, order.Status, status)
		}
		order.Status = status
		order.UpdatedAt = s.now().UTC()
		return nil
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.publish(ctx, order)
	return order, nil
}

// AttachSignature stores the proof of delivery. Only PNG and JPEG content
// is accepted, whatever the client claims.
func (s *OrderService) AttachSignature(ctx context.Context, id string, image []byte) (domain.Order, error) {
	detected := mimetype.Detect(image)
	mime, ok := mimetypes.MatchesAny(detected.String(), mimetypes.SignatureFormats)
	if !ok {
		return domain.Order{}, fmt.Errorf("%w: got %s", errors.ErrInvalidSignature, detected.String())
	}

	order, err := s.repository.AttachSignature(domain.Signature{
		OrderID:    id,
		MimeType:   string(mime),
		Image:      image,
		CapturedAt: s.now().UTC(),
	})
	if err != nil {
		return domain.Order{}, err
	}

	s.publish(ctx, order)
	return order, nil
}

// publish is best effort: the order is already committed.
func (s *OrderService) publish(ctx context.Context, order domain.Order) {
	msg, err := domain.NewMessage(domain.OrderUpdated, order)
	if err != nil {
		s.log.Error("Cannot encode order update", "order_id", order.ID, "error", err)
		return
	}
	if err := s.publisher.Publish(ctx, msg); err != nil {
		s.log.Warn("Order update not broadcast", "order_id", order.ID, "error", err)
	}
}

func isFinal(status domain.OrderStatus) bool {
	return status == domain.OrderDelivered || status == domain.OrderCancelled
}
