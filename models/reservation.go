package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationSeated    ReservationStatus = "seated"
	ReservationCompleted ReservationStatus = "completed"
	ReservationCancelled ReservationStatus = "cancelled"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationSeated,
		ReservationCompleted, ReservationCancelled:
		return true
	}
	return false
}

// Reservation references its table by Table.ID only. Display numbers are
// resolved at the view and export boundary.
type Reservation struct {
	ID              string            `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CustomerID      *uint             `gorm:"index" json:"customerId,omitempty"`
	GuestName       string            `gorm:"type:varchar(255);not null" json:"guestName"`
	GuestEmail      string            `gorm:"type:varchar(255)" json:"guestEmail,omitempty"`
	Date            string            `gorm:"type:varchar(10);index;not null" json:"date"`
	Time            string            `gorm:"type:varchar(5);not null" json:"time"`
	EndTime         string            `gorm:"type:varchar(5)" json:"endTime,omitempty"`
	PartySize       int               `gorm:"not null" json:"partySize"`
	TableID         string            `gorm:"type:varchar(36);index" json:"tableId"`
	Status          ReservationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	SpecialRequests string            `gorm:"type:text" json:"specialRequests,omitempty"`
	BillAmount      *float64          `gorm:"type:decimal(10,2)" json:"billAmount,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = ReservationPending
	}
	return nil
}

// Clone returns a copy that does not share the BillAmount pointer.
func (r Reservation) Clone() Reservation {
	if r.BillAmount != nil {
		v := *r.BillAmount
		r.BillAmount = &v
	}
	return r
}

// ReservationPatch is a partial update. Nil fields are left untouched.
type ReservationPatch struct {
	GuestName       *string            `json:"guestName,omitempty"`
	GuestEmail      *string            `json:"guestEmail,omitempty"`
	Date            *string            `json:"date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Time            *string            `json:"time,omitempty" validate:"omitempty,datetime=15:04"`
	EndTime         *string            `json:"endTime,omitempty" validate:"omitempty,datetime=15:04"`
	PartySize       *int               `json:"partySize,omitempty" validate:"omitempty,gt=0"`
	TableID         *string            `json:"tableId,omitempty"`
	Status          *ReservationStatus `json:"status,omitempty"`
	SpecialRequests *string            `json:"specialRequests,omitempty"`
	BillAmount      *float64           `json:"billAmount,omitempty" validate:"omitempty,gte=0"`
}

// Apply merges the non-nil fields of p into r.
func (p ReservationPatch) Apply(r *Reservation) {
	if p.GuestName != nil {
		r.GuestName = *p.GuestName
	}
	if p.GuestEmail != nil {
		r.GuestEmail = *p.GuestEmail
	}
	if p.Date != nil {
		r.Date = *p.Date
	}
	if p.Time != nil {
		r.Time = *p.Time
	}
	if p.EndTime != nil {
		r.EndTime = *p.EndTime
	}
	if p.PartySize != nil {
		r.PartySize = *p.PartySize
	}
	if p.TableID != nil {
		r.TableID = *p.TableID
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.SpecialRequests != nil {
		r.SpecialRequests = *p.SpecialRequests
	}
	if p.BillAmount != nil {
		v := *p.BillAmount
		r.BillAmount = &v
	}
}

// ReservationDraft carries the fields needed to book a table.
type ReservationDraft struct {
	CustomerID      *uint  `json:"customerId,omitempty"`
	GuestName       string `json:"guestName" binding:"required" validate:"required"`
	GuestEmail      string `json:"guestEmail,omitempty" binding:"omitempty,email" validate:"omitempty,email"`
	Date            string `json:"date" binding:"required,datetime=2006-01-02" validate:"required,datetime=2006-01-02"`
	Time            string `json:"time" binding:"required,datetime=15:04" validate:"required,datetime=15:04"`
	EndTime         string `json:"endTime,omitempty" binding:"omitempty,datetime=15:04" validate:"omitempty,datetime=15:04"`
	PartySize       int    `json:"partySize" binding:"required,gt=0" validate:"required,gt=0"`
	TableID         string `json:"tableId" binding:"required" validate:"required"`
	SpecialRequests string `json:"specialRequests,omitempty"`
}

// Reservation builds a pending record from the draft.
func (d ReservationDraft) Reservation(id string) Reservation {
	return Reservation{
		ID:              id,
		CustomerID:      d.CustomerID,
		GuestName:       d.GuestName,
		GuestEmail:      d.GuestEmail,
		Date:            d.Date,
		Time:            d.Time,
		EndTime:         d.EndTime,
		PartySize:       d.PartySize,
		TableID:         d.TableID,
		Status:          ReservationPending,
		SpecialRequests: d.SpecialRequests,
	}
}
