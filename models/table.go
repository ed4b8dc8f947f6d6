package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TableStatus string

const (
	TableEmpty    TableStatus = "empty"
	TableOccupied TableStatus = "occupied"
	TableBooked   TableStatus = "booked"
)

// Valid reports whether s is one of the known seating statuses.
func (s TableStatus) Valid() bool {
	switch s {
	case TableEmpty, TableOccupied, TableBooked:
		return true
	}
	return false
}

type Table struct {
	ID        string      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Number    int         `gorm:"uniqueIndex;not null" json:"number"`
	Capacity  int         `gorm:"not null" json:"capacity"`
	Status    TableStatus `gorm:"type:varchar(20);not null;default:'empty'" json:"status"`
	Location  string      `gorm:"type:varchar(100)" json:"location,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`

	// LinkedWith holds the other members of the table's link group. It lives
	// only in the dashboard session and is never stored.
	LinkedWith []string `gorm:"-" json:"linkedWith,omitempty"`
}

func (t *Table) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = TableEmpty
	}
	return nil
}

// Clone returns a copy that does not share the LinkedWith slice.
func (t Table) Clone() Table {
	if t.LinkedWith != nil {
		t.LinkedWith = append([]string(nil), t.LinkedWith...)
	}
	return t
}
