package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/quizdeck/quizdeck-be/internal/models"
	"github.com/quizdeck/quizdeck-be/internal/storage"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// MinPasswordLength is the minimum accepted password length at registration.
const MinPasswordLength = 6

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	Register(username, email, password string) (models.PublicUser, error)
	Login(email, password string) (models.PublicUser, error)
	GetByID(id int64) (models.PublicUser, error)
	GetByEmail(email string) (models.PublicUser, error)
	UpdateStats(id int64, patch models.StatsPatch) (models.PublicUser, error)
	AddQuiz(id int64, quizID string) error
	AddGameHistory(id int64, sub models.GameSubmission) error
	List() []models.AdminUserView
	Delete(id int64) error
	Reset()
	Count() int
}

// UserService owns the in-memory user collection and provides all account
// operations. Every mutation is flushed to the store before returning; a
// failed flush is logged but the in-memory change stands, so the process
// view stays authoritative until restart.
type UserService struct {
	mu     sync.Mutex
	users  []models.User
	store  *storage.Store
	stats  StatsAggregator
	events *EventService
	lastID int64
}

// NewUserService creates a UserService seeded from the store. The event
// service may be nil when no activity feed is wanted (e.g. in tests).
func NewUserService(store *storage.Store, events *EventService) *UserService {
	s := &UserService{
		users:  store.Load(),
		store:  store,
		events: events,
	}
	for _, u := range s.users {
		if u.ID > s.lastID {
			s.lastID = u.ID
		}
	}
	return s
}

// nextID returns a fresh numeric id. Ids are seeded from the wall clock in
// milliseconds but always strictly increase, so rapid successive
// registrations within the same instant cannot collide.
func (s *UserService) nextID() int64 {
	id := time.Now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// persist flushes the full collection. Durability is best-effort: the error
// is logged and swallowed, never turned into an operation failure.
func (s *UserService) persist() {
	if err := s.store.Save(s.users); err != nil {
		log.Error().Err(err).Str("path", s.store.Path()).Msg("Failed to persist user collection")
	}
}

func (s *UserService) indexByID(id int64) int {
	for i := range s.users {
		if s.users[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *UserService) indexByEmail(email string) int {
	for i := range s.users {
		if s.users[i].Email == email {
			return i
		}
	}
	return -1
}

// Register creates a new user account with zeroed stats and empty histories.
// Checks run in a fixed order; the first failing check wins.
func (s *UserService) Register(username, email, password string) (models.PublicUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if username == "" || email == "" || password == "" {
		return models.PublicUser{}, ErrMissingFields
	}
	if len(password) < MinPasswordLength {
		return models.PublicUser{}, ErrPasswordTooShort
	}
	if s.indexByEmail(email) >= 0 {
		return models.PublicUser{}, ErrEmailTaken
	}
	for i := range s.users {
		if s.users[i].Username == username {
			return models.PublicUser{}, ErrUsernameTaken
		}
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.PublicUser{}, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:           s.nextID(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hashedPassword),
		Quizzes:      []string{},
		GameHistory:  []models.GameRecord{},
		CreatedAt:    time.Now().UTC(),
	}

	s.users = append(s.users, user)
	s.persist()
	s.events.Record("user.registered", "info", fmt.Sprintf("User %s registered", username), &user.ID)

	return user.Public(), nil
}

// Login verifies credentials against the stored bcrypt hash.
func (s *UserService) Login(email, password string) (models.PublicUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByEmail(email)
	if i < 0 {
		return models.PublicUser{}, ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.users[i].PasswordHash), []byte(password)); err != nil {
		return models.PublicUser{}, ErrInvalidCredentials
	}
	return s.users[i].Public(), nil
}

// GetByID retrieves a single user by their id.
func (s *UserService) GetByID(id int64) (models.PublicUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByID(id)
	if i < 0 {
		return models.PublicUser{}, ErrUserNotFound
	}
	return s.users[i].Public(), nil
}

// GetByEmail retrieves a single user by their email.
func (s *UserService) GetByEmail(email string) (models.PublicUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByEmail(email)
	if i < 0 {
		return models.PublicUser{}, ErrUserNotFound
	}
	return s.users[i].Public(), nil
}

// UpdateStats merges the set fields of patch into the user's stats. This
// writes the cache directly without touching game history, so it can leave
// stats out of sync with the history it is derived from; AddGameHistory is
// the path that keeps them consistent.
func (s *UserService) UpdateStats(id int64, patch models.StatsPatch) (models.PublicUser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByID(id)
	if i < 0 {
		return models.PublicUser{}, ErrUserNotFound
	}

	stats := &s.users[i].Stats
	if patch.QuizzesCreated != nil {
		stats.QuizzesCreated = *patch.QuizzesCreated
	}
	if patch.GamesPlayed != nil {
		stats.GamesPlayed = *patch.GamesPlayed
	}
	if patch.AverageScore != nil {
		stats.AverageScore = *patch.AverageScore
	}
	if patch.HighScore != nil {
		stats.HighScore = *patch.HighScore
	}

	s.persist()
	return s.users[i].Public(), nil
}

// AddQuiz records that the user authored a quiz. Adding a quiz id that is
// already present is a successful no-op.
func (s *UserService) AddQuiz(id int64, quizID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByID(id)
	if i < 0 {
		return ErrUserNotFound
	}

	for _, q := range s.users[i].Quizzes {
		if q == quizID {
			return nil
		}
	}

	s.users[i].Quizzes = append(s.users[i].Quizzes, quizID)
	s.users[i].Stats.QuizzesCreated = len(s.users[i].Quizzes)

	s.persist()
	s.events.Record("quiz.added", "info", fmt.Sprintf("User %s created quiz %s", s.users[i].Username, quizID), &s.users[i].ID)
	return nil
}

// AddGameHistory appends a completed play-through and recomputes the stats
// aggregate. The recompute runs after the append, so the history is never
// empty when the mean is taken.
func (s *UserService) AddGameHistory(id int64, sub models.GameSubmission) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByID(id)
	if i < 0 {
		return ErrUserNotFound
	}

	record := models.GameRecord{
		ID:         uuid.New().String(),
		QuizID:     sub.QuizID,
		Score:      sub.Score,
		MaxScore:   sub.MaxScore,
		Percentage: sub.Percentage,
		Date:       time.Now().UTC(),
	}

	user := &s.users[i]
	user.GameHistory = append(user.GameHistory, record)
	s.stats.Recompute(user)

	s.persist()
	s.events.Record("game.recorded", "info", fmt.Sprintf("User %s finished quiz %s at %.0f%%", user.Username, sub.QuizID, sub.Percentage), &user.ID)
	return nil
}

// List returns the admin view of every user.
func (s *UserService) List() []models.AdminUserView {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := make([]models.AdminUserView, 0, len(s.users))
	for i := range s.users {
		views = append(views, s.users[i].AdminView())
	}
	return views
}

// Delete permanently removes a user. The freed email and username are
// immediately available to new registrations.
func (s *UserService) Delete(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexByID(id)
	if i < 0 {
		return ErrUserNotFound
	}

	username := s.users[i].Username
	s.users = append(s.users[:i], s.users[i+1:]...)

	s.persist()
	s.events.Record("user.deleted", "warn", fmt.Sprintf("User %s deleted", username), nil)
	return nil
}

// Reset unconditionally empties the collection and persists the empty state.
// There is no confirmation and no undo.
func (s *UserService) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = []models.User{}
	s.persist()
	s.events.Record("registry.reset", "warn", "User collection reset", nil)
}

// Count returns the number of registered users.
func (s *UserService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}
