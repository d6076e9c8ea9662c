package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// Backup errors.
var (
	ErrBackupNotFound  = errors.New("backup not found")
	ErrBackupExists    = errors.New("backup already exists")
	ErrBackupCorrupted = errors.New("backup integrity check failed")
	ErrInvalidBackupID = errors.New("invalid backup id: cannot contain path separators")
)

// maxAutoBackups is how many automatic backups are kept.
const maxAutoBackups = 5

// BackupInfo describes one backup on disk.
type BackupInfo struct {
	CreatedAt     time.Time      `json:"created_at"`
	RowCounts     map[string]int `json:"row_counts"`
	ID            string         `json:"id"`
	Description   string         `json:"description"`
	FileSize      int64          `json:"file_size"`
	SchemaVersion int            `json:"schema_version"`
	IsAuto        bool           `json:"is_auto"`
}

// Expenses returns the number of expenses captured in the backup.
func (b BackupInfo) Expenses() int {
	return b.RowCounts["expenses"]
}

// BackupManager creates and restores copies of the database file. Backups
// live next to the database in a "backups" directory, each as a .db file
// with a .meta.json sidecar.
type BackupManager struct {
	store *SQLiteStorage
	dir   string
	now   func() time.Time
}

// NewBackupManager creates the backup directory if needed.
func NewBackupManager(store *SQLiteStorage) (*BackupManager, error) {
	if store == nil {
		return nil, fmt.Errorf("%w: store", ErrNilParameter)
	}
	abs, err := filepath.Abs(store.Path())
	if err != nil {
		return nil, fmt.Errorf("failed to resolve database path: %w", err)
	}
	dir := filepath.Join(filepath.Dir(abs), "backups")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create backups directory: %w", err)
	}
	return &BackupManager{store: store, dir: dir, now: time.Now}, nil
}

// Dir returns the directory holding the backups.
func (m *BackupManager) Dir() string {
	return m.dir
}

func validBackupID(id string) error {
	if id == "" || strings.ContainsAny(id, `/\'";`) || strings.Contains(id, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidBackupID, id)
	}
	return nil
}

func (m *BackupManager) exists(id string) bool {
	dbPath, _ := m.paths(id)
	_, err := os.Stat(dbPath)
	return err == nil
}

func (m *BackupManager) paths(id string) (db, meta string) {
	return filepath.Join(m.dir, id+".db"), filepath.Join(m.dir, id+".meta.json")
}

// Create writes a consistent copy of the database. An empty id is replaced
// by a timestamped one.
func (m *BackupManager) Create(ctx context.Context, id, description string) (*BackupInfo, error) {
	return m.create(ctx, id, description, false)
}

// Auto creates an automatic backup before an operation and prunes old
// automatic backups.
func (m *BackupManager) Auto(ctx context.Context, operation string) (*BackupInfo, error) {
	base := fmt.Sprintf("auto-%s-%s", operation, m.now().Format("2006-01-02-150405"))
	id := base
	for i := 2; m.exists(id); i++ {
		id = fmt.Sprintf("%s-%d", base, i)
	}
	info, err := m.create(ctx, id, "Automatic backup before "+operation, true)
	if err != nil {
		return nil, fmt.Errorf("failed to create automatic backup: %w", err)
	}

	if err := m.prune(ctx); err != nil {
		slog.Warn("failed to prune automatic backups", "error", err)
	}
	return info, nil
}

func (m *BackupManager) create(ctx context.Context, id, description string, auto bool) (*BackupInfo, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if id == "" {
		id = "backup-" + m.now().Format("2006-01-02-150405")
	}
	if err := validBackupID(id); err != nil {
		return nil, err
	}

	dbPath, metaPath := m.paths(id)
	if _, err := os.Stat(dbPath); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrBackupExists, id)
	}

	version, err := m.store.SchemaVersion(ctx)
	if err != nil {
		return nil, err
	}
	counts := m.rowCounts(ctx)

	if _, err := m.store.db.ExecContext(ctx, "VACUUM INTO ?", dbPath); err != nil {
		return nil, fmt.Errorf("failed to write backup: %w", err)
	}

	stat, err := os.Stat(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat backup: %w", err)
	}

	info := &BackupInfo{
		ID:            id,
		CreatedAt:     m.now(),
		Description:   description,
		FileSize:      stat.Size(),
		RowCounts:     counts,
		SchemaVersion: version,
		IsAuto:        auto,
	}
	if err := saveBackupInfo(metaPath, info); err != nil {
		if rmErr := os.Remove(dbPath); rmErr != nil {
			slog.Error("failed to remove backup after metadata failure", "error", rmErr)
		}
		return nil, fmt.Errorf("failed to save backup metadata: %w", err)
	}

	slog.Info("Created backup", "id", id, "size", info.FileSize)
	return info, nil
}

func (m *BackupManager) rowCounts(ctx context.Context) map[string]int {
	queries := map[string]string{
		"expenses":   "SELECT COUNT(*) FROM expenses",
		"categories": "SELECT COUNT(*) FROM categories",
		"cards":      "SELECT COUNT(*) FROM cards",
		"budgets":    "SELECT COUNT(*) FROM budgets",
	}

	counts := make(map[string]int, len(queries))
	for table, query := range queries {
		var n int
		if err := m.store.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
			slog.Debug("failed to count rows", "table", table, "error", err)
		}
		counts[table] = n
	}
	return counts
}

// List returns all backups, newest first. Unreadable metadata is skipped.
func (m *BackupManager) List(_ context.Context) ([]BackupInfo, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backups directory: %w", err)
	}

	backups := make([]BackupInfo, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".meta.json") {
			continue
		}
		info, err := loadBackupInfo(filepath.Join(m.dir, entry.Name()))
		if err != nil {
			slog.Debug("skipping unreadable backup metadata", "file", entry.Name(), "error", err)
			continue
		}
		backups = append(backups, *info)
	}

	sort.SliceStable(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// Restore replaces the database file with a backup. The storage is closed
// and must be reopened by the caller.
func (m *BackupManager) Restore(ctx context.Context, id string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validBackupID(id); err != nil {
		return err
	}

	dbPath, _ := m.paths(id)
	if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrBackupNotFound, id)
		}
		return fmt.Errorf("failed to access backup: %w", err)
	}

	if err := verifyIntegrity(ctx, dbPath); err != nil {
		return fmt.Errorf("%w: %w", ErrBackupCorrupted, err)
	}

	if err := m.store.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	target := m.store.Path()
	safety := target + ".restore-backup"
	if err := copyFile(target, safety); err != nil {
		return fmt.Errorf("failed to save current database: %w", err)
	}

	if err := copyFile(dbPath, target); err != nil {
		if restoreErr := copyFile(safety, target); restoreErr != nil {
			slog.Error("failed to put back database after restore failure", "error", restoreErr)
		}
		return fmt.Errorf("failed to restore backup: %w", err)
	}

	// Stale WAL files belong to the replaced database.
	for _, suffix := range []string{"-wal", "-shm"} {
		if err := os.Remove(target + suffix); err != nil && !os.IsNotExist(err) {
			slog.Warn("failed to remove stale WAL file", "file", target+suffix, "error", err)
		}
	}
	if err := os.Remove(safety); err != nil {
		slog.Error("failed to remove restore safety copy", "error", err)
	}

	slog.Info("Restored backup", "id", id)
	return nil
}

// Delete removes a backup and its metadata.
func (m *BackupManager) Delete(_ context.Context, id string) error {
	if err := validBackupID(id); err != nil {
		return err
	}

	dbPath, metaPath := m.paths(id)
	if err := os.Remove(dbPath); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrBackupNotFound, id)
		}
		return fmt.Errorf("failed to remove backup: %w", err)
	}
	if err := os.Remove(metaPath); err != nil {
		slog.Debug("failed to remove backup metadata", "error", err, "path", metaPath)
	}
	return nil
}

func (m *BackupManager) prune(ctx context.Context) error {
	backups, err := m.List(ctx)
	if err != nil {
		return err
	}

	kept := 0
	for _, b := range backups {
		if !b.IsAuto {
			continue
		}
		kept++
		if kept > maxAutoBackups {
			if err := m.Delete(ctx, b.ID); err != nil {
				slog.Debug("failed to delete old automatic backup", "id", b.ID, "error", err)
			}
		}
	}
	return nil
}

func verifyIntegrity(ctx context.Context, path string) error {
	db, err := NewSQLiteStorage(path)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	var result string
	if err := db.db.QueryRowContext(ctx, "PRAGMA integrity_check").Scan(&result); err != nil {
		return err
	}
	if result != "ok" {
		return fmt.Errorf("integrity check: %s", result)
	}
	return nil
}

func copyFile(src, dst string) error {
	// #nosec G304 - paths come from the configured database location
	source, err := os.Open(filepath.Clean(src))
	if err != nil {
		return err
	}
	defer func() { _ = source.Close() }()

	tmp := dst + ".tmp"
	// #nosec G304
	out, err := os.Create(filepath.Clean(tmp))
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, source); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}

func saveBackupInfo(path string, info *BackupInfo) error {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

func loadBackupInfo(path string) (*BackupInfo, error) {
	// #nosec G304 - path is inside the backups directory
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	var info BackupInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}
