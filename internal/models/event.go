package models

import (
	"time"
)

// CalendarEvent is a user-confirmed, possibly AI-suggested calendar entry.
// Date, time, and location stay free text in whatever form the source
// produced; nothing here parses them into structured values.
type CalendarEvent struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	EventDate   string `json:"event_date"`
	EventTime   string `json:"event_time"`
	Location    string `json:"location"`
	Description string `json:"description"`

	// ExtractedText is the raw model response kept for audit and debugging.
	// Empty when the event was entered by hand.
	ExtractedText string `gorm:"type:text" json:"extracted_text"`

	CreatedBy string    `gorm:"index" json:"created_by"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
