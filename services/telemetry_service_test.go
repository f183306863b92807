package services

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/CodeMyMobile/jason-driver-FE-sub000/domain"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/errors"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/mocks"

	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestTelemetryService_Report(t *testing.T) {
	req := require.New(t)
	ctrl := gomock.NewController(t)
	publisher := mocks.NewMockPublisher(ctrl)
	svc := NewTelemetryService(slog.Default(), publisher)
	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return now }

	var published domain.Message
	publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, m domain.Message) error {
		published = m
		return nil
	})

	// When a driver reports a position without timestamp
	err := svc.Report(context.Background(), domain.LocationUpdate{DriverID: "d-1", Lat: 48.85, Lng: 2.35, Heading: lo.ToPtr(90.0)})
	req.NoError(err)

	// Then it is broadcast as DRIVER_BROADCAST, stamped by the server
	req.Equal(domain.DriverBroadcast, published.Type)
	var update domain.LocationUpdate
	req.NoError(published.Unmarshal(&update))
	req.Equal("d-1", update.DriverID)
	req.Equal(now, update.At)
}

func TestTelemetryService_Report_Invalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewTelemetryService(slog.Default(), mocks.NewMockPublisher(ctrl))

	tests := []struct {
		name   string
		update domain.LocationUpdate
	}{
		{"missing driver", domain.LocationUpdate{Lat: 1, Lng: 1}},
		{"latitude out of range", domain.LocationUpdate{DriverID: "d-1", Lat: 91, Lng: 1}},
		{"longitude out of range", domain.LocationUpdate{DriverID: "d-1", Lat: 1, Lng: -181}},
		{"heading out of range", domain.LocationUpdate{DriverID: "d-1", Heading: lo.ToPtr(360.0)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorIs(t, svc.Report(context.Background(), tt.update), errors.ErrInvalidPayload)
		})
	}
}
