//go:generate go run go.uber.org/mock/mockgen -source=telemetry_service.go -destination=../mocks/mock_telemetry_service.go -package=mocks
package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/CodeMyMobile/jason-driver-FE-sub000/contract"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/domain"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/errors"
)

type ITelemetryService interface {
	Report(ctx context.Context, update domain.LocationUpdate) error
}

type TelemetryService struct {
	log       *slog.Logger
	publisher contract.Publisher
	now       func() time.Time
}

func NewTelemetryService(log *slog.Logger, publisher contract.Publisher) *TelemetryService {
	return &TelemetryService{log: log, publisher: publisher, now: time.Now}
}

// Report broadcasts a driver position. Positions are not stored.
func (s *TelemetryService) Report(ctx context.Context, update domain.LocationUpdate) error {
	if err := validate.Struct(update); err != nil {
		return fmt.Errorf("%w: %v", errors.ErrInvalidPayload, err)
	}
	if update.At.IsZero() {
		update.At = s.now().UTC()
	}

	msg, err := domain.NewMessage(domain.DriverBroadcast, update)
	if err != nil {
		return err
	}
	return s.publisher.Publish(ctx, msg)
}
