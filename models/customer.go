package models

import (
	"time"
)

// Customer is a guest record. Reservations may point at one, but guest name
// and email are copied onto the reservation so walk-ins need no record.
type Customer struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Name       string    `gorm:"type:varchar(255);not null;index" json:"name"`
	Email      *string   `gorm:"type:varchar(255);index" json:"email,omitempty"`
	Phone      *string   `gorm:"type:varchar(50)" json:"phone,omitempty"`
	Notes      string    `gorm:"type:text" json:"notes,omitempty"`
	VisitCount int       `gorm:"not null;default:0" json:"visitCount"`
	CreatedAt  time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time `gorm:"not null" json:"updated_at"`
}
