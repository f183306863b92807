package domain

import "time"

// LocationUpdate is the telemetry a driver device reports.
type LocationUpdate struct {
	DriverID string    `json:"driverId" validate:"required"`
	Lat      float64   `json:"lat" validate:"gte=-90,lte=90"`
	Lng      float64   `json:"lng" validate:"gte=-180,lte=180"`
	Heading  *float64  `json:"heading,omitempty" validate:"omitempty,gte=0,lt=360"`
	At       time.Time `json:"at"`
}
