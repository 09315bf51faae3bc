package events

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"eventsnap/internal/auth"
)

type createEventRequest struct {
	EventFields
	// ExtractedText carries the raw model response when the event comes out
	// of the extraction-review flow; hand-entered events leave it empty.
	ExtractedText string `json:"extracted_text"`
}

// ListEventsHandler returns saved events, optionally filtered by creator
// via the created_by query parameter.
func ListEventsHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		events, err := store.ListEvents(c.Query("created_by"))
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list events"})
			return
		}
		c.JSON(http.StatusOK, events)
	}
}

// CreateEventHandler saves an event with the session user as creator.
func CreateEventHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createEventRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if req.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
			return
		}

		session := auth.CurrentSession(c)
		if session == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		if err := store.AddEvent(req.EventFields, session.Username, req.ExtractedText); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save event"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"status": "event saved", "title": req.Title})
	}
}

// UpdateEventHandler replaces an event's editable fields.
func UpdateEventHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		var fields EventFields
		if err := c.ShouldBindJSON(&fields); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		if err := store.UpdateEvent(id, fields); err != nil {
			if errors.Is(err, ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update event"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "event updated"})
	}
}

// DeleteEventHandler removes an event. Ownership is not checked; any user
// who can reach this page may delete any event.
func DeleteEventHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		if err := store.DeleteEvent(id); err != nil {
			if errors.Is(err, ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete event"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"status": "event deleted"})
	}
}

// StatsHandler returns event counts for the admin dashboard.
func StatsHandler(store *Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := store.Stats()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to compute stats"})
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid event id"})
		return 0, false
	}
	return uint(id), true
}
