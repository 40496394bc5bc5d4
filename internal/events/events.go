package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/SAP-F-2025/school-directory/internal/models"
)

const (
	EventSource  = "school-directory"
	EventVersion = "1.0"

	SchoolCreated = "school.created"
)

// Event is the envelope published for every domain event
type Event struct {
	ID        string      `json:"id"`
	Type      string      `json:"type"`
	Source    string      `json:"source"`
	Version   string      `json:"version"`
	Timestamp time.Time   `json:"timestamp"`
	Data      interface{} `json:"data"`
}

// SchoolCreatedData is the payload of a school.created event
type SchoolCreatedData struct {
	School models.School `json:"school"`
}

// NewEvent wraps data in an envelope with a fresh id and timestamp
func NewEvent(eventType string, data interface{}) *Event {
	return &Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    EventSource,
		Version:   EventVersion,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

// NewSchoolCreatedEvent builds the event emitted after a school is stored
func NewSchoolCreatedEvent(school models.School) *Event {
	return NewEvent(SchoolCreated, SchoolCreatedData{School: school})
}
