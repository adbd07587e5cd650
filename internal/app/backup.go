package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/Olprog59/go-clientbook/internal/repository/db"
)

const backupTask = "database_backup"

// ErrBackupUnsupported is returned for engines or DSNs that cannot be copied / Sauvegarde impossible
var ErrBackupUnsupported = errors.New("backup is only supported for file-based SQLite databases")

// startBackupRoutine starts automatic backup routine / Démarre la routine de backup automatique
func (c *Container) startBackupRoutine(ctx context.Context) {
	if c.databaseType() != db.SQLite || db.IsInMemorySQLite(c.Config.Database.DSN) {
		slog.Warn("backup enabled but not supported for this database, skipping",
			"type", c.databaseType(),
			"dsn", c.Config.Database.DSN,
		)
		return
	}
	if c.Config.Backup.Interval <= 0 {
		slog.Warn("backup enabled without a positive interval, skipping", "interval", c.Config.Backup.Interval)
		return
	}

	go func() {
		c.Metrics.SetBackgroundTaskStatus(backupTask, true)
		ticker := time.NewTicker(c.Config.Backup.Interval)
		defer ticker.Stop()

		slog.Info("automatic database backup enabled",
			"interval", c.Config.Backup.Interval,
			"retention_days", c.Config.Backup.RetentionDays,
		)

		for {
			select {
			case <-ticker.C:
				if path, err := c.PerformBackup(ctx); err != nil {
					slog.Error("backup failed", "err", err)
				} else {
					slog.Info("database backup completed", "path", path)
				}
				// Clean old backups after creating new one / Nettoie les anciens backups après création
				if _, err := c.CleanOldBackups(); err != nil {
					slog.Error("backup cleanup failed", "err", err)
				}
			case <-ctx.Done():
				c.Metrics.SetBackgroundTaskStatus(backupTask, false)
				slog.Info("backup goroutine stopped")
				return
			}
		}
	}()
}

// PerformBackup copies the SQLite file with VACUUM INTO and returns its path / Crée un backup de la base
func (c *Container) PerformBackup(ctx context.Context) (string, error) {
	if c.databaseType() != db.SQLite || db.IsInMemorySQLite(c.Config.Database.DSN) {
		return "", ErrBackupUnsupported
	}

	if err := os.MkdirAll(c.Config.Backup.Path, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}

	// Extract database filename from DSN / Extrait le nom du fichier depuis le DSN
	dbName := strings.TrimPrefix(c.Config.Database.DSN, "file:")
	if idx := strings.Index(dbName, "?"); idx > 0 {
		dbName = dbName[:idx]
	}

	timestamp := time.Now().Format("20060102-150405")
	backupFilename := fmt.Sprintf("%s.backup-%s.db", filepath.Base(dbName), timestamp)
	backupPath := filepath.Join(c.Config.Backup.Path, backupFilename)

	if _, err := c.DB.ExecContext(ctx, "VACUUM INTO ?", backupPath); err != nil {
		return "", fmt.Errorf("backup execution failed: %w", err)
	}

	return backupPath, nil
}

// CleanOldBackups removes backups older than the retention and returns how many / Supprime les anciens backups
func (c *Container) CleanOldBackups() (int, error) {
	if c.Config.Backup.RetentionDays <= 0 {
		return 0, nil
	}

	cutoffTime := time.Now().AddDate(0, 0, -c.Config.Backup.RetentionDays)

	entries, err := os.ReadDir(c.Config.Backup.Path)
	if err != nil {
		return 0, fmt.Errorf("failed to read backup directory: %w", err)
	}

	deletedCount := 0
	for _, entry := range entries {
		if entry.IsDir() || !isBackupFile(entry.Name()) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			slog.Warn("failed to get backup file info", "file", entry.Name(), "err", err)
			continue
		}

		if info.ModTime().Before(cutoffTime) {
			if err := os.Remove(filepath.Join(c.Config.Backup.Path, entry.Name())); err != nil {
				slog.Warn("failed to delete old backup", "file", entry.Name(), "err", err)
				continue
			}
			deletedCount++
			slog.Info("deleted old backup",
				"file", entry.Name(),
				"age_days", int(time.Since(info.ModTime()).Hours()/24),
			)
		}
	}

	return deletedCount, nil
}

func isBackupFile(name string) bool {
	return strings.Contains(name, ".backup-") && strings.HasSuffix(name, ".db")
}
