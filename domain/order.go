package domain

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderAssigned  OrderStatus = "ASSIGNED"
	OrderPickedUp  OrderStatus = "PICKED_UP"
	OrderDelivered OrderStatus = "DELIVERED"
	OrderCancelled OrderStatus = "CANCELLED"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderAssigned, OrderPickedUp, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

type OrderItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Order is a delivery assigned to a driver.
type Order struct {
	ID        string      `json:"id"`
	Reference string      `json:"reference"`
	Customer  string      `json:"customer"`
	Address   string      `json:"address"`
	Phone     string      `json:"phone,omitempty"`
	DriverID  string      `json:"driverId,omitempty"`
	Status    OrderStatus `json:"status"`
	Items     []OrderItem `json:"items"`
	SignedAt  *time.Time  `json:"signedAt,omitempty"`
	UpdatedAt time.Time   `json:"updatedAt"`
}

// Signature is the proof of delivery captured on the driver device.
type Signature struct {
	OrderID    string    `json:"orderId"`
	MimeType   string    `json:"mimeType"`
	Image      []byte    `json:"image"`
	CapturedAt time.Time `json:"capturedAt"`
}
