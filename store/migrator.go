package store

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pkg/errors"

	"github.com/landingchat/landingchat/internal/version"
)

// Schema versioning:
//
// The current schema version is stored in system_setting under
// schemaVersionSettingName. Fresh installations get the full schema from
// LATEST.sql; existing installations apply the incremental migration files
// between their recorded version and the target version.
//
// Migration files live at store/migration/{driver}/prod/{version}/NN__description.sql
// and are applied in lexicographic order inside a single transaction.

//go:embed migration
var migrationFS embed.FS

const (
	// MigrateFileNameSplit separates the patch number from the description
	// in a migration file name, e.g. "01__add_column.sql".
	MigrateFileNameSplit = "__"
	// LatestSchemaFileName holds the full schema for new installations.
	LatestSchemaFileName = "LATEST.sql"

	schemaVersionSettingName = "schema_version"

	modeProd = "prod"
	modeDemo = "demo"
)

// Migrate brings the database schema up to the current version. New
// installations get the full schema; existing prod installations get the
// incremental migrations between their version and the target.
func (s *Store) Migrate(ctx context.Context) error {
	if err := s.preMigrate(ctx); err != nil {
		return errors.Wrap(err, "failed to pre-migrate")
	}

	if s.profile.Mode != modeProd {
		// dev and demo modes start from a fresh LATEST.sql schema, no
		// incremental migrations to apply.
		return nil
	}

	currentSchemaVersion, err := s.getSchemaVersion(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to get current schema version")
	}
	targetSchemaVersion := version.GetSchemaVersion(s.profile.Mode)

	if !version.IsVersionGreaterThan(targetSchemaVersion, currentSchemaVersion) {
		return nil
	}
	if err := s.applyMigrations(ctx, currentSchemaVersion, targetSchemaVersion); err != nil {
		return errors.Wrap(err, "failed to apply migrations")
	}
	return nil
}

// preMigrate initializes a fresh database from LATEST.sql and records the
// schema version.
func (s *Store) preMigrate(ctx context.Context) error {
	initialized, err := s.driver.IsInitialized(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to check if database is initialized")
	}
	if initialized {
		return nil
	}

	buf, err := migrationFS.ReadFile(s.getMigrationBasePath() + "/" + LatestSchemaFileName)
	if err != nil {
		return errors.Wrap(err, "failed to read latest schema file")
	}

	slog.Info("initializing database schema", slog.String("driver", s.profile.Driver))
	if _, err := s.driver.GetDB().ExecContext(ctx, string(buf)); err != nil {
		return errors.Wrap(err, "failed to execute latest schema")
	}

	if err := s.upsertSchemaVersion(ctx, version.GetSchemaVersion(s.profile.Mode)); err != nil {
		return errors.Wrap(err, "failed to record schema version")
	}
	return nil
}

// applyMigrations runs every pending migration file in one transaction and
// records the new schema version on success.
func (s *Store) applyMigrations(ctx context.Context, currentSchemaVersion, targetSchemaVersion string) error {
	filePaths, err := fs.Glob(migrationFS, fmt.Sprintf("%s/*/*.sql", s.getMigrationBasePath()))
	if err != nil {
		return errors.Wrap(err, "failed to read migration files")
	}
	sort.Strings(filePaths)

	slog.Info("start migration",
		slog.String("current", currentSchemaVersion),
		slog.String("target", targetSchemaVersion))

	tx, err := s.driver.GetDB().BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "failed to start transaction")
	}
	defer tx.Rollback()

	applied := 0
	for _, filePath := range filePaths {
		fileVersion := filepath.Base(filepath.Dir(filePath))
		if !version.IsVersionGreaterThan(fileVersion, currentSchemaVersion) ||
			version.IsVersionGreaterThan(fileVersion, targetSchemaVersion) {
			continue
		}
		if !strings.Contains(filepath.Base(filePath), MigrateFileNameSplit) {
			return errors.Errorf("invalid migration file name: %s", filePath)
		}

		buf, err := migrationFS.ReadFile(filePath)
		if err != nil {
			return errors.Wrapf(err, "failed to read migration file %s", filePath)
		}
		slog.Info("applying migration", slog.String("file", filePath))
		if _, err := tx.ExecContext(ctx, string(buf)); err != nil {
			return errors.Wrapf(err, "failed to apply migration %s", filePath)
		}
		applied++
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit migrations")
	}
	if err := s.upsertSchemaVersion(ctx, targetSchemaVersion); err != nil {
		return errors.Wrap(err, "failed to record schema version")
	}

	slog.Info("migration completed", slog.Int("applied", applied), slog.String("version", targetSchemaVersion))
	return nil
}

func (s *Store) getMigrationBasePath() string {
	return fmt.Sprintf("migration/%s/prod", s.profile.Driver)
}

func (s *Store) getSchemaVersion(ctx context.Context) (string, error) {
	var value string
	stmt := "SELECT value FROM system_setting WHERE name = " + s.settingPlaceholder(1)
	err := s.driver.GetDB().QueryRowContext(ctx, stmt, schemaVersionSettingName).Scan(&value)
	if err != nil {
		return "", err
	}
	return value, nil
}

func (s *Store) upsertSchemaVersion(ctx context.Context, schemaVersion string) error {
	stmt := "INSERT INTO system_setting (name, value) VALUES (" +
		s.settingPlaceholder(1) + ", " + s.settingPlaceholder(2) +
		") ON CONFLICT (name) DO UPDATE SET value = EXCLUDED.value"
	_, err := s.driver.GetDB().ExecContext(ctx, stmt, schemaVersionSettingName, schemaVersion)
	return err
}

func (s *Store) settingPlaceholder(n int) string {
	if s.profile.Driver == "postgres" {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}
