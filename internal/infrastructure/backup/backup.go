// Package backup takes verified snapshots of the SQLite database and keeps a
// bounded number of them on disk, optionally copying each one offsite.
package backup

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/trucklot/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	filePrefix = "trucklot-"
	fileSuffix = ".db"
	nameLayout = "20060102-150405"
)

// CoreTables must exist in every backup with the same row counts as the
// live database.
var CoreTables = []string{"customers", "trucks", "contracts", "invoices", "payments"}

// Uploader copies a finished backup somewhere else.
type Uploader interface {
	Put(ctx context.Context, name string, body io.ReadSeeker) (string, error)
}

// Result describes one completed backup.
type Result struct {
	Path      string           `json:"path"`
	Size      int64            `json:"size"`
	RowCounts map[string]int64 `json:"row_counts"`
	Pruned    []string         `json:"pruned"`
	RemoteKey string           `json:"remote_key,omitempty"`
}

// Service writes backups of one database into a directory.
type Service struct {
	db       *gorm.DB
	dir      string
	keep     int
	uploader Uploader
	logger   *zap.Logger
	now      func() time.Time
}

// Option configures a Service
type Option func(*Service)

// WithUploader sends every verified backup to u.
func WithUploader(u Uploader) Option {
	return func(s *Service) {
		s.uploader = u
	}
}

// NewService creates a new backup Service. keep below one keeps a single file.
func NewService(db *gorm.DB, dir string, keep int, logger *zap.Logger, opts ...Option) *Service {
	if keep < 1 {
		keep = 1
	}
	s := &Service{
		db:     db,
		dir:    dir,
		keep:   keep,
		logger: logger.Named("backup"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run snapshots the database with VACUUM INTO, verifies the copy, prunes
// old backups and uploads the new one when an uploader is set. A copy that
// fails verification is removed.
func (s *Service) Run(ctx context.Context) (*Result, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create backup dir: %w", err)
	}

	name := filePrefix + s.now().UTC().Format(nameLayout) + fileSuffix
	path := filepath.Join(s.dir, name)
	if _, err := os.Stat(path); err == nil {
		return nil, fmt.Errorf("backup %s already exists", path)
	}

	if err := s.db.WithContext(ctx).Exec("VACUUM INTO ?", path).Error; err != nil {
		return nil, fmt.Errorf("vacuum into %s: %w", path, err)
	}

	counts, err := s.verify(ctx, path)
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil {
			s.logger.Error("failed to remove unverified backup", zap.String("path", path), zap.Error(rmErr))
		}
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat backup: %w", err)
	}
	result := &Result{Path: path, Size: info.Size(), RowCounts: counts}

	result.Pruned, err = s.prune()
	if err != nil {
		return nil, err
	}

	if s.uploader != nil {
		result.RemoteKey, err = s.upload(ctx, path, name)
		if err != nil {
			return result, err
		}
	}

	s.logger.Info("backup completed",
		zap.String("path", path),
		zap.Int64("size", result.Size),
		zap.Int("pruned", len(result.Pruned)),
		zap.String("remote_key", result.RemoteKey),
	)
	return result, nil
}

// verify opens the copy read-only and checks integrity, foreign keys, the
// table list and core row counts against the live database.
func (s *Service) verify(ctx context.Context, path string) (map[string]int64, error) {
	snapshot, err := persistence.OpenReadOnly(path, s.logger)
	if err != nil {
		return nil, fmt.Errorf("open backup: %w", err)
	}
	defer snapshot.Close()
	copyDB := snapshot.DB.WithContext(ctx)

	if err := CheckIntegrity(copyDB); err != nil {
		return nil, err
	}

	liveTables, err := userTables(s.db.WithContext(ctx))
	if err != nil {
		return nil, err
	}
	copyTables, err := userTables(copyDB)
	if err != nil {
		return nil, err
	}
	if !slices.Equal(liveTables, copyTables) {
		return nil, fmt.Errorf("backup verification failed: table list mismatch (source=%v, backup=%v)", liveTables, copyTables)
	}

	counts := make(map[string]int64, len(CoreTables))
	for _, table := range CoreTables {
		if !slices.Contains(copyTables, table) {
			return nil, fmt.Errorf("backup verification failed: missing core table %q", table)
		}
		var live, copied int64
		if err := s.db.WithContext(ctx).Table(table).Count(&live).Error; err != nil {
			return nil, fmt.Errorf("count %s: %w", table, err)
		}
		if err := copyDB.Table(table).Count(&copied).Error; err != nil {
			return nil, fmt.Errorf("count %s in backup: %w", table, err)
		}
		if live != copied {
			return nil, fmt.Errorf("backup verification failed: row count mismatch for %q (source=%d, backup=%d)", table, live, copied)
		}
		counts[table] = copied
	}
	return counts, nil
}

// CheckIntegrity runs PRAGMA integrity_check and PRAGMA foreign_key_check.
func CheckIntegrity(db *gorm.DB) error {
	var integrity []string
	if err := db.Raw("PRAGMA integrity_check").Scan(&integrity).Error; err != nil {
		return fmt.Errorf("integrity check: %w", err)
	}
	if len(integrity) != 1 || !strings.EqualFold(integrity[0], "ok") {
		return fmt.Errorf("integrity check failed: %s", strings.Join(integrity, "; "))
	}

	var violations []map[string]any
	if err := db.Raw("PRAGMA foreign_key_check").Scan(&violations).Error; err != nil {
		return fmt.Errorf("foreign key check: %w", err)
	}
	if len(violations) > 0 {
		return fmt.Errorf("foreign key check failed with %d violation(s)", len(violations))
	}
	return nil
}

func userTables(db *gorm.DB) ([]string, error) {
	var names []string
	err := db.Raw(`SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name`).Scan(&names).Error
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	return names, nil
}

// List returns the backup files in the directory, newest first.
func (s *Service) List() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("read backup dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix) || !strings.HasSuffix(name, fileSuffix) {
			continue
		}
		if _, err := time.Parse(nameLayout, strings.TrimSuffix(strings.TrimPrefix(name, filePrefix), fileSuffix)); err != nil {
			continue
		}
		names = append(names, name)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(names)))
	return names, nil
}

func (s *Service) prune() ([]string, error) {
	names, err := s.List()
	if err != nil {
		return nil, err
	}
	pruned := []string{}
	if len(names) <= s.keep {
		return pruned, nil
	}
	for _, name := range names[s.keep:] {
		if err := os.Remove(filepath.Join(s.dir, name)); err != nil {
			return pruned, fmt.Errorf("prune %s: %w", name, err)
		}
		pruned = append(pruned, name)
	}
	return pruned, nil
}

func (s *Service) upload(ctx context.Context, path, name string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open backup for upload: %w", err)
	}
	defer f.Close()

	key, err := s.uploader.Put(ctx, name, f)
	if err != nil {
		return "", fmt.Errorf("upload backup: %w", err)
	}
	return key, nil
}
