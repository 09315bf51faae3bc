package database

import (
	"log"

	"gorm.io/gorm"

	"eventsnap/internal/crypto"
	"eventsnap/internal/models"
)

// SeedDevData populates the database with development test data.
// Idempotent: skips if data already exists.
func SeedDevData(db *gorm.DB) error {
	var existingUser models.User
	result := db.Where("username = ?", "dev").First(&existingUser)
	if result.Error == nil {
		log.Println("Seed data already exists, skipping")
		return nil
	}

	user := models.User{
		Username:     "dev",
		PasswordHash: crypto.HashPassword("devpassword"),
		Permissions: []models.Permission{
			{Username: "dev", Capability: models.CapabilityCalendar},
			{Username: "dev", Capability: models.CapabilityImageGenerator},
		},
	}

	if err := db.Create(&user).Error; err != nil {
		return err
	}

	events := []models.CalendarEvent{
		{
			Title:       "Team Meeting",
			EventDate:   "2025-06-08",
			EventTime:   "2:00 PM",
			Location:    "Conference Room A",
			Description: "Weekly team sync",
			CreatedBy:   "dev",
		},
		{
			Title:       "Doctor Appointment",
			EventDate:   "June 10, 2025",
			EventTime:   "10:30 AM",
			Location:    "Medical Center",
			Description: "Annual checkup",
			CreatedBy:   "dev",
		},
	}

	if err := db.Create(&events).Error; err != nil {
		return err
	}

	log.Println("Seeded dev data: 1 user, 2 calendar events")
	return nil
}
