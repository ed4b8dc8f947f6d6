package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/yeremiapane/restaurant-dashboard/models"
)

// fakeBackend records calls. onCreate and onUpdate, when set, decide the
// outcome of writes and may block to hold a call in flight.
type fakeBackend struct {
	mu           sync.Mutex
	tables       []models.Table
	reservations []models.Reservation
	customers    []models.Customer
	listErr      error

	onCreate func(draft models.ReservationDraft) (models.Reservation, error)
	onUpdate func(id string, upd ReservationUpdate) (models.Reservation, error)

	creates int
	updates []ReservationUpdate
}

func (f *fakeBackend) ListTables(ctx context.Context, date string) ([]models.Table, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Table(nil), f.tables...), nil
}

func (f *fakeBackend) ListReservations(ctx context.Context, date string) ([]models.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]models.Reservation(nil), f.reservations...), nil
}

func (f *fakeBackend) CreateReservation(ctx context.Context, draft models.ReservationDraft) (models.Reservation, error) {
	f.mu.Lock()
	f.creates++
	n := f.creates
	hook := f.onCreate
	f.mu.Unlock()

	if hook != nil {
		return hook(draft)
	}
	return draft.Reservation(fmt.Sprintf("res-%d", n)), nil
}

func (f *fakeBackend) UpdateReservation(ctx context.Context, id string, upd ReservationUpdate) (models.Reservation, error) {
	f.mu.Lock()
	f.updates = append(f.updates, upd)
	hook := f.onUpdate
	f.mu.Unlock()

	if hook != nil {
		return hook(id, upd)
	}
	return models.Reservation{ID: id}, nil
}

func (f *fakeBackend) SearchCustomers(ctx context.Context, query string) ([]models.Customer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]models.Customer(nil), f.customers...), nil
}

func (f *fakeBackend) updateCalls() []ReservationUpdate {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ReservationUpdate(nil), f.updates...)
}

func (f *fakeBackend) createCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creates
}

type recorder struct {
	mu    sync.Mutex
	items []Notification
}

func (r *recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append(r.items, n)
}

func (r *recorder) all() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

func (r *recorder) last() Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}
	}
	return r.items[len(r.items)-1]
}

func (r *recorder) count(event string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, it := range r.items {
		if it.Event == event {
			n++
		}
	}
	return n
}

func floorPlan() []models.Table {
	return []models.Table{
		{ID: "t1", Number: 1, Capacity: 4, Status: models.TableEmpty},
		{ID: "t2", Number: 2, Capacity: 2, Status: models.TableEmpty},
		{ID: "t3", Number: 3, Capacity: 6, Status: models.TableOccupied},
		{ID: "t4", Number: 4, Capacity: 2, Status: models.TableBooked},
	}
}

func sampleReservations() []models.Reservation {
	return []models.Reservation{
		{ID: "r1", GuestName: "Ada", Date: "2024-05-01", Time: "19:00", PartySize: 4, TableID: "t1", Status: models.ReservationPending},
		{ID: "r2", GuestName: "Linus", Date: "2024-05-01", Time: "20:00", PartySize: 2, TableID: "t2", Status: models.ReservationConfirmed},
	}
}
