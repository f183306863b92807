// Package fixtures seeds a fresh store with the demo data of the mock CMS.
package fixtures

import (
	"log/slog"
	"time"

	"github.com/CodeMyMobile/jason-driver-FE-sub000/domain"
	"github.com/CodeMyMobile/jason-driver-FE-sub000/repositories"
)

// Orders returns the demo deliveries, all updated at now.
func Orders(now time.Time) []domain.Order {
	now = now.UTC()
	return []domain.Order{
		{
			ID: "ord-1001", Reference: "ORD-1001", Customer: "Maria Lopez",
			Address: "12 Harbor St, Springfield", Phone: "+1-555-0101",
			DriverID: "driver-1", Status: domain.OrderAssigned,
			Items:     []domain.OrderItem{{Name: "Margherita pizza", Quantity: 2}, {Name: "Lemonade", Quantity: 1}},
			UpdatedAt: now,
		},
		{
			ID: "ord-1002", Reference: "ORD-1002", Customer: "Tom Becker",
			Address: "48 Elm Ave, Springfield", Phone: "+1-555-0102",
			DriverID: "driver-1", Status: domain.OrderPickedUp,
			Items:     []domain.OrderItem{{Name: "Pad thai", Quantity: 1}},
			UpdatedAt: now,
		},
		{
			ID: "ord-1003", Reference: "ORD-1003", Customer: "Aisha Khan",
			Address:   "7 Orchard Rd, Shelbyville",
			Status:    domain.OrderPending,
			Items:     []domain.OrderItem{{Name: "Groceries box", Quantity: 1}},
			UpdatedAt: now,
		},
		{
			ID: "ord-1004", Reference: "ORD-1004", Customer: "Luc Martin",
			Address: "230 River Blvd, Springfield", Phone: "+1-555-0104",
			DriverID: "driver-2", Status: domain.OrderDelivered,
			Items:     []domain.OrderItem{{Name: "Flowers", Quantity: 1}},
			UpdatedAt: now,
		},
	}
}

// Seed stores the demo orders when no order exists yet. It reports how
// many orders were written.
func Seed(log *slog.Logger, orders repositories.IOrderRepository, now time.Time) (int, error) {
	existing, err := orders.List()
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		log.Debug("Store already populated, skipping fixtures", "orders", len(existing))
		return 0, nil
	}

	seeded := 0
	for _, o := range Orders(now) {
		if err := orders.Save(o); err != nil {
			return seeded, err
		}
		seeded++
	}
	log.Info("Fixtures seeded", "orders", seeded)
	return seeded, nil
}
