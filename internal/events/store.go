// Package events persists calendar entries created by hand or confirmed
// from AI extraction.
package events

import (
	"errors"
	"log/slog"
	"time"

	"gorm.io/gorm"

	"eventsnap/internal/models"
)

// ErrNotFound is returned when the referenced event does not exist.
var ErrNotFound = errors.New("calendar event not found")

// EventFields carries the editable fields of a calendar entry. All of them
// stay free text; no date or time parsing happens anywhere in the store.
type EventFields struct {
	Title       string `json:"title"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// Stats summarizes the stored events.
type Stats struct {
	TotalEvents  int64            `json:"total_events"`
	RecentEvents int64            `json:"recent_events"`
	UserCounts   map[string]int64 `json:"user_counts"`
}

// Store persists calendar events on the shared database handle.
type Store struct {
	db  *gorm.DB
	log *slog.Logger
}

// NewStore creates an event store.
func NewStore(db *gorm.DB, log *slog.Logger) *Store {
	return &Store{db: db, log: log}
}

// AddEvent inserts a new entry. extractedText is the raw model response the
// event was reviewed from; pass "" for hand-entered events.
func (s *Store) AddEvent(fields EventFields, createdBy, extractedText string) error {
	event := models.CalendarEvent{
		Title:         fields.Title,
		EventDate:     fields.Date,
		EventTime:     fields.Time,
		Location:      fields.Location,
		Description:   fields.Description,
		ExtractedText: extractedText,
		CreatedBy:     createdBy,
	}

	if err := s.db.Create(&event).Error; err != nil {
		return err
	}

	s.log.Info("calendar event added", "id", event.ID, "title", event.Title, "created_by", createdBy)
	return nil
}

// ListEvents returns events newest first. An empty creator returns
// everything; otherwise only that creator's events.
func (s *Store) ListEvents(createdBy string) ([]models.CalendarEvent, error) {
	query := s.db.Order("created_at desc")
	if createdBy != "" {
		query = query.Where("created_by = ?", createdBy)
	}

	var events []models.CalendarEvent
	if err := query.Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

// UpdateEvent replaces the editable fields and refreshes updated_at. Empty
// strings are stored as given; an edit may legitimately blank a field.
func (s *Store) UpdateEvent(id uint, fields EventFields) error {
	result := s.db.Model(&models.CalendarEvent{}).Where("id = ?", id).Updates(map[string]interface{}{
		"title":       fields.Title,
		"event_date":  fields.Date,
		"event_time":  fields.Time,
		"location":    fields.Location,
		"description": fields.Description,
		"updated_at":  time.Now(),
	})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.log.Info("calendar event updated", "id", id)
	return nil
}

// DeleteEvent removes an entry. Deleting an unknown id reports ErrNotFound.
func (s *Store) DeleteEvent(id uint) error {
	result := s.db.Delete(&models.CalendarEvent{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	s.log.Info("calendar event deleted", "id", id)
	return nil
}

// Stats returns the total count, the count created within the last 7 days,
// and per-creator counts.
func (s *Store) Stats() (Stats, error) {
	stats := Stats{UserCounts: map[string]int64{}}

	if err := s.db.Model(&models.CalendarEvent{}).Count(&stats.TotalEvents).Error; err != nil {
		return Stats{}, err
	}

	cutoff := time.Now().AddDate(0, 0, -7)
	if err := s.db.Model(&models.CalendarEvent{}).
		Where("created_at >= ?", cutoff).
		Count(&stats.RecentEvents).Error; err != nil {
		return Stats{}, err
	}

	var rows []struct {
		CreatedBy string
		Count     int64
	}
	if err := s.db.Model(&models.CalendarEvent{}).
		Select("created_by, COUNT(*) as count").
		Group("created_by").
		Scan(&rows).Error; err != nil {
		return Stats{}, err
	}
	for _, row := range rows {
		stats.UserCounts[row.CreatedBy] = row.Count
	}

	return stats, nil
}
