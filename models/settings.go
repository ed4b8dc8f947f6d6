package models

import "time"

// Settings is stored as a single row with ID 1.
type Settings struct {
	ID                        uint      `gorm:"primaryKey" json:"-"`
	RestaurantName            string    `gorm:"type:varchar(255);not null" json:"restaurantName"`
	Timezone                  string    `gorm:"type:varchar(64);not null;default:'UTC'" json:"timezone"`
	Currency                  string    `gorm:"type:varchar(8);not null;default:'USD'" json:"currency"`
	DefaultReservationMinutes int       `gorm:"not null;default:90" json:"defaultReservationMinutes"`
	OpeningTime               string    `gorm:"type:varchar(5)" json:"openingTime"`
	ClosingTime               string    `gorm:"type:varchar(5)" json:"closingTime"`
	UpdatedAt                 time.Time `json:"updated_at"`
}

func DefaultSettings() Settings {
	return Settings{
		ID:                        1,
		RestaurantName:            "Demo Restaurant",
		Timezone:                  "UTC",
		Currency:                  "USD",
		DefaultReservationMinutes: 90,
		OpeningTime:               "11:00",
		ClosingTime:               "23:00",
	}
}
