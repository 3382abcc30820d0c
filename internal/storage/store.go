package storage

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/quizdeck/quizdeck-be/internal/models"
	"github.com/rs/zerolog/log"
)

// Store persists the full user collection as a single JSON file. Every save
// overwrites the whole file; there is no partial update. The in-memory
// collection held by the service layer is authoritative; the file is a
// best-effort snapshot of it.
type Store struct {
	path string
}

// New creates a Store backed by the file at path.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the location of the backing file.
func (s *Store) Path() string {
	return s.path
}

// Load reads the user collection from disk. A missing, unreadable or
// unparseable file yields an empty collection; the failure is logged and
// absorbed so a corrupt file never prevents startup.
func (s *Store) Load() []models.User {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", s.path).Msg("Could not read data file, starting empty")
		}
		return []models.User{}
	}

	var users []models.User
	if err := json.Unmarshal(data, &users); err != nil {
		log.Warn().Err(err).Str("path", s.path).Msg("Could not parse data file, starting empty")
		return []models.User{}
	}
	if users == nil {
		users = []models.User{}
	}
	return users
}

// Save writes the full user collection to disk, creating the parent
// directory if needed. Callers log the returned error but treat the
// in-memory mutation as committed regardless.
func (s *Store) Save(users []models.User) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(users, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
