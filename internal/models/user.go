package models

import "time"

// User represents a user account in the system. This is the persisted shape:
// the full record, including the password hash, as it appears in the data file.
type User struct {
	ID           int64        `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"password"` // bcrypt hash, never sent to clients
	Stats        Stats        `json:"stats"`
	Quizzes      []string     `json:"quizzes"`
	GameHistory  []GameRecord `json:"gameHistory"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// Stats is the derived aggregate kept on each user. It is a cache over
// Quizzes and GameHistory, recomputed whenever history changes; the direct
// update path (StatsPatch) can knowingly desynchronize it.
type Stats struct {
	QuizzesCreated int     `json:"quizzesCreated"`
	GamesPlayed    int     `json:"gamesPlayed"`
	AverageScore   int     `json:"averageScore"`
	HighScore      float64 `json:"highScore"`
}

// StatsPatch is a partial stats update. Nil fields are left untouched.
type StatsPatch struct {
	QuizzesCreated *int     `json:"quizzesCreated,omitempty"`
	GamesPlayed    *int     `json:"gamesPlayed,omitempty"`
	AverageScore   *int     `json:"averageScore,omitempty"`
	HighScore      *float64 `json:"highScore,omitempty"`
}

// GameRecord is one completed play-through of a quiz.
type GameRecord struct {
	ID         string    `json:"id"`
	QuizID     string    `json:"quizId"`
	Score      int       `json:"score"`
	MaxScore   int       `json:"maxScore"`
	Percentage float64   `json:"percentage"`
	Date       time.Time `json:"date"`
}

// GameSubmission is the caller-supplied part of a GameRecord. The record id
// and date are assigned at append time.
type GameSubmission struct {
	QuizID     string  `json:"quizId"`
	Score      int     `json:"score"`
	MaxScore   int     `json:"maxScore"`
	Percentage float64 `json:"percentage"`
}

// PublicUser is the redacted projection returned to clients.
type PublicUser struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Stats    Stats  `json:"stats"`
}

// AdminUserView is the projection returned by the admin listing: no password
// hash and no histories, but it does include the creation timestamp.
type AdminUserView struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Stats     Stats     `json:"stats"`
	CreatedAt time.Time `json:"createdAt"`
}

// Public returns the redacted projection of u.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Stats:    u.Stats,
	}
}

// AdminView returns the admin-listing projection of u.
func (u *User) AdminView() AdminUserView {
	return AdminUserView{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Stats:     u.Stats,
		CreatedAt: u.CreatedAt,
	}
}
