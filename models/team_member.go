package models

import "time"

type TeamMember struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Email     string    `gorm:"type:varchar(255);unique;not null" json:"email"`
	Phone     string    `gorm:"type:varchar(50)" json:"phone,omitempty"`
	Role      string    `gorm:"type:varchar(30);not null" json:"role"`                    // manager, host, server, chef, bartender
	Status    string    `gorm:"type:varchar(20);not null;default:'active'" json:"status"` // active, inactive
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var TeamRoles = []string{"manager", "host", "server", "chef", "bartender"}
