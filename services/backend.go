package services

import (
	"context"

	"github.com/yeremiapane/restaurant-dashboard/models"
)

// ReservationUpdate is the body of PUT /api/reservations/{id}.
type ReservationUpdate struct {
	models.ReservationPatch
	TotalAmount *float64 `json:"total_amount,omitempty"`
}

// Backend is the REST API the dashboard session reads from and writes to.
type Backend interface {
	ListTables(ctx context.Context, date string) ([]models.Table, error)
	ListReservations(ctx context.Context, date string) ([]models.Reservation, error)
	CreateReservation(ctx context.Context, draft models.ReservationDraft) (models.Reservation, error)
	UpdateReservation(ctx context.Context, id string, upd ReservationUpdate) (models.Reservation, error)
	SearchCustomers(ctx context.Context, query string) ([]models.Customer, error)
}
