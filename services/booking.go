package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/yeremiapane/restaurant-dashboard/models"
	"github.com/yeremiapane/restaurant-dashboard/utils"
)

// TempIDPrefix marks reservations that exist only locally until the backend
// assigns an id.
const TempIDPrefix = "temp-"

var validate = validator.New()

// Bookings creates reservations and edits their fields optimistically.
// Status changes go through StatusMachine.
type Bookings struct {
	store    *ReservationStore
	tables   *TableRegistry
	backend  Backend
	notifier Notifier
}

func NewBookings(store *ReservationStore, tables *TableRegistry, backend Backend, notifier Notifier) *Bookings {
	return &Bookings{
		store:    store,
		tables:   tables,
		backend:  backend,
		notifier: orDiscard(notifier),
	}
}

// Create validates draft, shows a temporary record at once and replaces it
// with the backend record, or discards it when the backend refuses. It
// returns the temporary id.
func (b *Bookings) Create(ctx context.Context, draft models.ReservationDraft) (string, *Settlement, error) {
	if err := b.validateDraft(draft); err != nil {
		b.rejected(err)
		return "", nil, err
	}

	tempID := TempIDPrefix + uuid.NewString()
	var created models.Reservation

	update := OptimisticUpdate[struct{}]{
		Snapshot: func() struct{} { return struct{}{} },
		Apply: func() {
			b.store.Add(draft.Reservation(tempID))
		},
		Commit: func(ctx context.Context) error {
			r, err := b.backend.CreateReservation(ctx, draft)
			created = r
			return err
		},
		Restore: func(struct{}) {
			b.store.Discard(tempID)
			optimisticRollbacks.WithLabelValues("create").Inc()
		},
		OnSettle: func(err error) {
			if err != nil {
				utils.ErrorLogger.Errorf("Creating reservation for %s failed: %v", draft.GuestName, err)
				b.notifier.Notify(Notification{
					Kind:    NotifyError,
					Event:   EventReservationFailed,
					Message: "Failed to create reservation: " + err.Error(),
					Data:    tempID,
				})
				return
			}
			b.store.Replace(tempID, created)
			b.notifier.Notify(Notification{
				Kind:    NotifySuccess,
				Event:   EventReservationCreated,
				Message: fmt.Sprintf("Reservation for %s created", created.GuestName),
				Data:    map[string]interface{}{"tempId": tempID, "reservation": created},
			})
		},
	}
	return tempID, update.Run(ctx), nil
}

// Edit applies a field patch optimistically. Status and bill amount are
// rejected here.
func (b *Bookings) Edit(ctx context.Context, id string, patch models.ReservationPatch) (*Settlement, error) {
	if patch.Status != nil || patch.BillAmount != nil {
		err := validationf(CodeMissingField, "status and bill amount change through status transitions")
		b.rejected(err)
		return nil, err
	}
	if err := validate.Struct(patch); err != nil {
		verr := fieldError(err)
		b.rejected(verr)
		return nil, verr
	}
	if patch.TableID != nil {
		if _, ok := b.tables.Get(*patch.TableID); !ok && b.tables.Len() > 0 {
			err := validationf(CodeMissingField, "unknown table %q", *patch.TableID)
			b.rejected(err)
			return nil, err
		}
	}
	if _, ok := b.store.Get(id); !ok {
		return settled(nil), nil
	}

	fields := patchFields(patch)
	var rev uint64
	update := OptimisticUpdate[struct{}]{
		Apply: func() {
			rev, _ = b.store.ApplyPending(id, fields, patch.Apply)
			r, _ := b.store.Get(id)
			b.notifier.Notify(Notification{Kind: NotifySuccess, Event: EventReservationUpdated, Message: "Reservation updated", Data: r})
		},
		Commit: func(ctx context.Context) error {
			_, err := b.backend.UpdateReservation(ctx, id, ReservationUpdate{ReservationPatch: patch})
			return err
		},
		Restore: func(struct{}) {
			if b.store.Settle(id, rev, fields, false) {
				optimisticRollbacks.WithLabelValues("edit").Inc()
			}
		},
		OnSettle: func(err error) {
			if err == nil {
				b.store.Settle(id, rev, fields, true)
				return
			}
			r, _ := b.store.Get(id)
			b.notifier.Notify(Notification{
				Kind:    NotifyError,
				Event:   EventReservationFailed,
				Message: "Failed to update reservation: " + err.Error(),
				Data:    r,
			})
		},
	}
	return update.Run(ctx), nil
}

func (b *Bookings) validateDraft(draft models.ReservationDraft) error {
	if err := validate.Struct(draft); err != nil {
		return fieldError(err)
	}
	if b.tables.Len() > 0 {
		if _, ok := b.tables.Get(draft.TableID); !ok {
			return validationf(CodeMissingField, "unknown table %q", draft.TableID)
		}
	}
	return nil
}

func (b *Bookings) rejected(err error) {
	countValidation(err)
	b.notifier.Notify(Notification{Kind: NotifyError, Event: EventValidationFailed, Message: err.Error()})
}

// fieldError turns validator output into a MissingField validation error
// naming the offending fields.
func fieldError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return validationf(CodeMissingField, "%v", err)
	}
	names := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		names = append(names, fe.Field())
	}
	return validationf(CodeMissingField, "invalid or missing fields: %s", strings.Join(names, ", "))
}
