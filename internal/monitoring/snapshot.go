package monitoring

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// maxSnapshots is how many backup copies are kept before pruning.
const maxSnapshots = 10

// SnapshotScheduler periodically copies the data file into a backup
// directory. Write-through persistence already keeps the live file current;
// snapshots guard against the file itself being corrupted or deleted.
type SnapshotScheduler struct {
	dataFile  string
	backupDir string
	schedule  cron.Schedule
	nextRun   time.Time
	ticker    *time.Ticker
	done      chan bool
}

// NewSnapshotScheduler creates a scheduler from a standard cron expression.
func NewSnapshotScheduler(dataFile, backupDir, cronExpr string) (*SnapshotScheduler, error) {
	schedule, err := cron.ParseStandard(cronExpr)
	if err != nil {
		return nil, fmt.Errorf("invalid cron expression: %w", err)
	}

	return &SnapshotScheduler{
		dataFile:  dataFile,
		backupDir: backupDir,
		schedule:  schedule,
		nextRun:   schedule.Next(time.Now()),
		done:      make(chan bool),
	}, nil
}

// Run starts the scheduler's ticking loop.
func (s *SnapshotScheduler) Run() {
	log.Info().Time("next_run", s.nextRun).Msg("Starting snapshot scheduler")
	s.ticker = time.NewTicker(30 * time.Second)
	defer s.ticker.Stop()

	for {
		select {
		case <-s.done:
			log.Info().Msg("Stopping snapshot scheduler")
			return
		case now := <-s.ticker.C:
			if now.Before(s.nextRun) {
				continue
			}
			if err := s.snapshot(now); err != nil {
				log.Error().Err(err).Msg("Snapshot failed")
			}
			s.nextRun = s.schedule.Next(now)
		}
	}
}

// Stop halts the scheduler.
func (s *SnapshotScheduler) Stop() {
	s.done <- true
}

// snapshot copies the data file into the backup directory and prunes old
// copies. A missing data file is not an error; there is nothing to back up yet.
func (s *SnapshotScheduler) snapshot(now time.Time) error {
	data, err := os.ReadFile(s.dataFile)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	if err := os.MkdirAll(s.backupDir, 0755); err != nil {
		return err
	}

	name := fmt.Sprintf("users-%s.json", now.UTC().Format("20060102-150405"))
	path := filepath.Join(s.backupDir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return err
	}

	log.Info().Str("path", path).Msg("Snapshot written")
	return s.prune()
}

// prune removes the oldest snapshots beyond the retention limit.
func (s *SnapshotScheduler) prune() error {
	matches, err := filepath.Glob(filepath.Join(s.backupDir, "users-*.json"))
	if err != nil {
		return err
	}
	if len(matches) <= maxSnapshots {
		return nil
	}

	// Timestamped names sort chronologically.
	sort.Strings(matches)
	for _, path := range matches[:len(matches)-maxSnapshots] {
		if err := os.Remove(path); err != nil {
			return err
		}
	}
	return nil
}
