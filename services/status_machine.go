package services

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"

	"github.com/yeremiapane/restaurant-dashboard/models"
	"github.com/yeremiapane/restaurant-dashboard/utils"
)

// StatusMachine drives reservation lifecycle changes. It is permissive: any
// known status may follow any other, including leaving completed or
// cancelled. Moving to completed first opens a bill capture step.
type StatusMachine struct {
	store    *ReservationStore
	backend  Backend
	notifier Notifier

	mu      sync.Mutex
	billFor string
}

func NewStatusMachine(store *ReservationStore, backend Backend, notifier Notifier) *StatusMachine {
	return &StatusMachine{
		store:    store,
		backend:  backend,
		notifier: orDiscard(notifier),
	}
}

// SetStatus moves reservation id to target. For completed it only opens the
// bill capture step and returns a nil Settlement; ConfirmBill finishes the
// transition. Unknown reservations are ignored.
func (m *StatusMachine) SetStatus(ctx context.Context, id string, target models.ReservationStatus) (*Settlement, error) {
	if !target.Valid() {
		err := validationf(CodeUnknownStatus, "unknown reservation status %q", target)
		m.rejected(err)
		return nil, err
	}
	if _, ok := m.store.Get(id); !ok {
		return settled(nil), nil
	}

	if target == models.ReservationCompleted {
		m.mu.Lock()
		m.billFor = id
		m.mu.Unlock()

		m.notifier.Notify(Notification{
			Kind:    NotifyInfo,
			Event:   EventBillCaptureOpened,
			Message: "Enter the bill amount to complete the reservation",
			Data:    id,
		})
		return nil, nil
	}

	return m.transition(ctx, id, target, nil), nil
}

// PendingBill returns the reservation waiting for a bill amount.
func (m *StatusMachine) PendingBill() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.billFor, m.billFor != ""
}

// ConfirmBill parses raw and completes the reservation awaiting capture.
// Empty input means 0. Invalid input leaves the capture open and mutates
// nothing.
func (m *StatusMachine) ConfirmBill(ctx context.Context, raw string) (*Settlement, error) {
	m.mu.Lock()
	id := m.billFor
	m.mu.Unlock()

	if id == "" {
		m.rejected(ErrNoBillCapture)
		return nil, ErrNoBillCapture
	}

	amount, err := ParseBillAmount(raw)
	if err != nil {
		m.rejected(err)
		return nil, err
	}

	m.mu.Lock()
	if m.billFor == id {
		m.billFor = ""
	}
	m.mu.Unlock()

	if _, ok := m.store.Get(id); !ok {
		return settled(nil), nil
	}
	return m.transition(ctx, id, models.ReservationCompleted, &amount), nil
}

// CancelBill closes the capture step without changing anything.
func (m *StatusMachine) CancelBill() {
	m.mu.Lock()
	id := m.billFor
	m.billFor = ""
	m.mu.Unlock()

	if id != "" {
		m.notifier.Notify(Notification{Kind: NotifyInfo, Event: EventBillCaptureClosed, Data: id})
	}
}

// Complete opens the bill capture for id and confirms it with raw.
func (m *StatusMachine) Complete(ctx context.Context, id string, raw string) (*Settlement, error) {
	s, err := m.SetStatus(ctx, id, models.ReservationCompleted)
	if err != nil || s != nil {
		return s, err
	}
	return m.ConfirmBill(ctx, raw)
}

// ParseBillAmount accepts an empty string (0) or a finite, non-negative
// number.
func ParseBillAmount(raw string) (float64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0, validationf(CodeInvalidAmount, "invalid bill amount %q", raw)
	}
	return v, nil
}

func (m *StatusMachine) transition(ctx context.Context, id string, target models.ReservationStatus, bill *float64) *Settlement {
	fields := []string{fieldStatus}
	if bill != nil {
		fields = append(fields, fieldBillAmount)
	}
	var rev uint64

	update := OptimisticUpdate[struct{}]{
		Apply: func() {
			rev, _ = m.store.ApplyPending(id, fields, func(r *models.Reservation) {
				r.Status = target
				if bill != nil {
					r.BillAmount = floatPtr(*bill)
				}
			})
			statusTransitions.WithLabelValues(string(target)).Inc()

			msg := fmt.Sprintf("Reservation marked %s", target)
			if bill != nil {
				msg += " (bill " + utils.FormatAmount(*bill, "") + ")"
			}
			r, _ := m.store.Get(id)
			m.notifier.Notify(Notification{Kind: NotifySuccess, Event: EventReservationUpdated, Message: msg, Data: r})
		},
		Commit: func(ctx context.Context) error {
			upd := ReservationUpdate{TotalAmount: bill}
			upd.Status = &target
			_, err := m.backend.UpdateReservation(ctx, id, upd)
			return err
		},
		Restore: func(struct{}) {
			if !m.store.Settle(id, rev, fields, false) {
				utils.InfoLogger.Printf("Reservation %s has a newer change, keeping its state", id)
				return
			}
			optimisticRollbacks.WithLabelValues("status").Inc()
		},
		OnSettle: func(err error) {
			if err == nil {
				m.store.Settle(id, rev, fields, true)
				return
			}
			utils.ErrorLogger.Errorf("Reservation %s status %s failed: %v", id, target, err)
			r, _ := m.store.Get(id)
			m.notifier.Notify(Notification{
				Kind:    NotifyError,
				Event:   EventReservationFailed,
				Message: "Failed to update reservation: " + err.Error(),
				Data:    r,
			})
		},
	}
	return update.Run(ctx)
}

func (m *StatusMachine) rejected(err error) {
	countValidation(err)
	m.notifier.Notify(Notification{Kind: NotifyError, Event: EventValidationFailed, Message: err.Error()})
}

func floatPtr(v float64) *float64 {
	return &v
}
