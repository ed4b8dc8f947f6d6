package database

import (
	"errors"

	"github.com/yeremiapane/restaurant-dashboard/models"
	"github.com/yeremiapane/restaurant-dashboard/utils"
	"gorm.io/gorm"
)

// Migrate creates or updates the schema and makes sure the settings row
// exists.
func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Table{},
		&models.Reservation{},
		&models.Customer{},
		&models.TeamMember{},
		&models.Settings{},
	)
	if err != nil {
		return err
	}
	utils.InfoLogger.Println("AutoMigrate completed.")

	var settings models.Settings
	err = db.First(&settings, 1).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		defaults := models.DefaultSettings()
		return db.Create(&defaults).Error
	}
	return err
}

// SeedDemoData fills an empty database with a small floor plan, a few guests
// and a team so the demo user has something to work with.
func SeedDemoData(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Table{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	return db.Transaction(func(tx *gorm.DB) error {
		tables := []models.Table{
			{Number: 1, Capacity: 2, Location: "Window"},
			{Number: 2, Capacity: 4, Location: "Window"},
			{Number: 3, Capacity: 4, Location: "Main hall"},
			{Number: 4, Capacity: 6, Location: "Main hall"},
			{Number: 5, Capacity: 2, Location: "Bar"},
			{Number: 6, Capacity: 8, Location: "Terrace"},
		}
		if err := tx.Create(&tables).Error; err != nil {
			return err
		}

		email := func(s string) *string { return &s }
		customers := []models.Customer{
			{Name: "Ada Lovelace", Email: email("ada@example.com")},
			{Name: "Grace Hopper", Email: email("grace@example.com")},
			{Name: "Alan Turing", Phone: email("+44 20 7946 0000")},
		}
		if err := tx.Create(&customers).Error; err != nil {
			return err
		}

		team := []models.TeamMember{
			{Name: "Morgan Lee", Email: "morgan@restaurant.local", Role: "manager", Status: "active"},
			{Name: "Sam Rivera", Email: "sam@restaurant.local", Role: "host", Status: "active"},
			{Name: "Jo Park", Email: "jo@restaurant.local", Role: "chef", Status: "active"},
		}
		if err := tx.Create(&team).Error; err != nil {
			return err
		}

		utils.InfoLogger.Printf("Seeded %d tables, %d guests, %d team members", len(tables), len(customers), len(team))
		return nil
	})
}
