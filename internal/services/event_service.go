package services

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quizdeck/quizdeck-be/internal/models"
	"github.com/quizdeck/quizdeck-be/internal/websocket"
	"github.com/rs/zerolog/log"
)

// maxEvents bounds the in-memory activity feed.
const maxEvents = 200

// EventServiceProvider defines the interface for event services.
type EventServiceProvider interface {
	Record(eventType, level, message string, userID *int64)
	Recent(limit int) []models.Event
}

// EventService keeps a bounded in-memory log of recent activity and pushes
// each new event to connected websocket clients. Events are not persisted;
// the feed starts empty on every boot.
type EventService struct {
	mu     sync.Mutex
	events []models.Event
	hub    *websocket.Hub
}

// NewEventService creates a new EventService broadcasting through hub.
func NewEventService(hub *websocket.Hub) *EventService {
	return &EventService{hub: hub}
}

// Record appends a new event and broadcasts it. Safe to call on a nil
// receiver, which turns the activity feed into a no-op.
func (s *EventService) Record(eventType, level, message string, userID *int64) {
	if s == nil {
		return
	}

	event := models.Event{
		ID:        uuid.New().String(),
		Type:      eventType,
		Level:     level,
		Message:   message,
		UserID:    userID,
		CreatedAt: time.Now().UTC(),
	}

	s.mu.Lock()
	s.events = append(s.events, event)
	if len(s.events) > maxEvents {
		s.events = s.events[len(s.events)-maxEvents:]
	}
	s.mu.Unlock()

	if s.hub != nil {
		payload, err := json.Marshal(websocket.Message{Action: "event", Payload: event})
		if err != nil {
			log.Error().Err(err).Msg("Failed to marshal event for broadcast")
			return
		}
		s.hub.Broadcast <- payload
	}
}

// Recent returns up to limit events, newest first.
func (s *EventService) Recent(limit int) []models.Event {
	if s == nil {
		return []models.Event{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if limit <= 0 || limit > len(s.events) {
		limit = len(s.events)
	}

	out := make([]models.Event, 0, limit)
	for i := len(s.events) - 1; i >= len(s.events)-limit; i-- {
		out = append(out, s.events[i])
	}
	return out
}
