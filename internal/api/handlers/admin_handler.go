package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/quizdeck/quizdeck-be/internal/services"
	"github.com/rs/zerolog/log"
)

// AdminHandler handles administrative requests over the user collection.
type AdminHandler struct {
	service services.UserServiceProvider
	events  services.EventServiceProvider
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(service services.UserServiceProvider, events services.EventServiceProvider) *AdminHandler {
	return &AdminHandler{service: service, events: events}
}

// List returns every user in admin view, with a total count.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	users := h.service.List()

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"users": users,
		"count": len(users),
	})
}

// Delete permanently removes a user account.
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseUserID(r)
	if err != nil {
		http.Error(w, "Invalid user id", http.StatusBadRequest)
		return
	}

	if err := h.service.Delete(id); err != nil {
		log.Warn().Err(err).Int64("user_id", id).Msg("Failed to delete user")
		http.Error(w, err.Error(), statusForServiceError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Reset wipes the entire user collection. Irreversible.
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.service.Reset()
	log.Warn().Msg("User collection reset by admin request")

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "All users deleted"})
}

// Events returns the most recent activity-feed entries.
func (h *AdminHandler) Events(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			limit = n
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(h.events.Recent(limit))
}
