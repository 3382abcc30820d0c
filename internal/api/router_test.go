package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/quizdeck/quizdeck-be/internal/auth"
	"github.com/quizdeck/quizdeck-be/internal/models"
	"github.com/quizdeck/quizdeck-be/internal/services"
	"github.com/quizdeck/quizdeck-be/internal/storage"
	"github.com/quizdeck/quizdeck-be/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) (http.Handler, *services.UserService) {
	t.Helper()

	hub := websocket.NewHub()
	go hub.Run()

	store := storage.New(filepath.Join(t.TempDir(), "users.json"))
	eventService := services.NewEventService(hub)
	userService := services.NewUserService(store, eventService)

	return NewRouter(hub, userService, eventService, "http://localhost:3000"), userService
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func registerAlice(t *testing.T, router http.Handler) models.PublicUser {
	t.Helper()

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username":        "alice",
		"email":           "alice@example.com",
		"password":        "secret123",
		"passwordConfirm": "secret123",
	}, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var user models.PublicUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	return user
}

func TestRegisterEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)

	user := registerAlice(t, router)
	assert.Equal(t, "alice", user.Username)
	assert.NotZero(t, user.ID)

	// The password hash never appears in the response.
	rec := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", user.ID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegisterPasswordMismatch(t *testing.T) {
	router, svc := newTestRouter(t)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username":        "alice",
		"email":           "alice@example.com",
		"password":        "secret123",
		"passwordConfirm": "different",
	}, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, svc.Count())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	router, _ := newTestRouter(t)
	registerAlice(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username":        "bob",
		"email":           "alice@example.com",
		"password":        "secret123",
		"passwordConfirm": "secret123",
	}, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	registerAlice(t, router)

	rec := doJSON(t, router, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "secret123",
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string            `json:"token"`
		User  models.PublicUser `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "alice@example.com",
		"password": "wrongpass",
	}, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "secret123",
	}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetUserEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)
	user := registerAlice(t, router)

	rec := doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", user.ID), nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/users/email/alice@example.com", nil, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/users/999", nil, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, router, http.MethodGet, "/api/v1/users/not-a-number", nil, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateStatsEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	user := registerAlice(t, router)

	rec := doJSON(t, router, http.MethodPut, fmt.Sprintf("/api/v1/users/%d/stats", user.ID), map[string]int{
		"gamesPlayed": 7,
	}, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.PublicUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 7, updated.Stats.GamesPlayed)
	assert.Equal(t, 0, updated.Stats.QuizzesCreated)
}

func TestAddQuizAndGameEndpoints(t *testing.T) {
	router, _ := newTestRouter(t)
	user := registerAlice(t, router)

	rec := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/quizzes", user.ID), map[string]string{"quizId": "quiz-1"}, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/games", user.ID), models.GameSubmission{
		QuizID: "quiz-1", Score: 8, MaxScore: 10, Percentage: 80,
	}, "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/users/%d", user.ID), nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var fetched models.PublicUser
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &fetched))
	assert.Equal(t, 1, fetched.Stats.QuizzesCreated)
	assert.Equal(t, 1, fetched.Stats.GamesPlayed)
	assert.Equal(t, 80, fetched.Stats.AverageScore)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/users/999/games", models.GameSubmission{}, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminEndpointsRequireToken(t *testing.T) {
	router, _ := newTestRouter(t)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/admin/users", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, router, http.MethodPost, "/api/v1/admin/reset", nil, "garbage-token")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminEndpoints(t *testing.T) {
	router, svc := newTestRouter(t)
	user := registerAlice(t, router)

	token, err := auth.GenerateJWT(user)
	require.NoError(t, err)

	rec := doJSON(t, router, http.MethodGet, "/api/v1/admin/users", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var listing struct {
		Users []models.AdminUserView `json:"users"`
		Count int                    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	assert.Equal(t, 1, listing.Count)
	require.Len(t, listing.Users, 1)
	assert.Equal(t, "alice", listing.Users[0].Username)
	assert.False(t, listing.Users[0].CreatedAt.IsZero())

	rec = doJSON(t, router, http.MethodGet, "/api/v1/admin/events?limit=5", nil, token)
	require.Equal(t, http.StatusOK, rec.Code)

	var events []models.Event
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.NotEmpty(t, events)
	assert.Equal(t, "user.registered", events[0].Type)

	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/admin/users/%d", user.ID), nil, token)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, 0, svc.Count())

	rec = doJSON(t, router, http.MethodDelete, fmt.Sprintf("/api/v1/admin/users/%d", user.ID), nil, token)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	registerAlice(t, router)
	rec = doJSON(t, router, http.MethodPost, "/api/v1/admin/reset", nil, token)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, svc.Count())
}

func TestHealthEndpoint(t *testing.T) {
	router, _ := newTestRouter(t)
	registerAlice(t, router)

	rec := doJSON(t, router, http.MethodGet, "/health", nil, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var status struct {
		Status string `json:"status"`
		Users  int    `json:"users"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, 1, status.Users)
}
