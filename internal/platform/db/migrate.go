package db

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"regexp"
	"sort"
	"strconv"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// migrationLockID serialises concurrent runners (server and CLI) via an advisory lock.
const migrationLockID = 727_001

var migrationFile = regexp.MustCompile(`^(\d+)_([a-z0-9_]+)\.(up|down)\.sql$`)

// Migration is one versioned schema change.
type Migration struct {
	Version int64
	Name    string
	Up      string
	Down    string
}

// MigrationStatus reports whether a known migration has been applied.
type MigrationStatus struct {
	Version   int64      `json:"version"`
	Name      string     `json:"name"`
	Applied   bool       `json:"applied"`
	AppliedAt *time.Time `json:"applied_at,omitempty"`
}

// LoadMigrations discovers NNNN_name.up.sql / NNNN_name.down.sql pairs in fsys.
func LoadMigrations(fsys fs.FS) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("platform/db: read migrations: %w", err)
	}
	byVersion := make(map[int64]*Migration)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		m := migrationFile.FindStringSubmatch(entry.Name())
		if m == nil {
			continue
		}
		version, err := strconv.ParseInt(m[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("platform/db: migration %s: %w", entry.Name(), err)
		}
		body, err := fs.ReadFile(fsys, entry.Name())
		if err != nil {
			return nil, fmt.Errorf("platform/db: read %s: %w", entry.Name(), err)
		}
		mig, ok := byVersion[version]
		if !ok {
			mig = &Migration{Version: version, Name: m[2]}
			byVersion[version] = mig
		} else if mig.Name != m[2] {
			return nil, fmt.Errorf("platform/db: version %d used by %q and %q", version, mig.Name, m[2])
		}
		if m[3] == "up" {
			mig.Up = string(body)
		} else {
			mig.Down = string(body)
		}
	}

	migrations := make([]Migration, 0, len(byVersion))
	for _, mig := range byVersion {
		if mig.Up == "" {
			return nil, fmt.Errorf("platform/db: migration %d_%s has no up script", mig.Version, mig.Name)
		}
		migrations = append(migrations, *mig)
	}
	sort.Slice(migrations, func(i, j int) bool { return migrations[i].Version < migrations[j].Version })
	return migrations, nil
}

// Migrator applies and reverts embedded migrations, tracking them in schema_migrations.
type Migrator struct {
	pool       *pgxpool.Pool
	migrations []Migration
	logger     *slog.Logger
}

// NewMigrator loads the migrations from fsys.
func NewMigrator(pool *pgxpool.Pool, fsys fs.FS, logger *slog.Logger) (*Migrator, error) {
	migrations, err := LoadMigrations(fsys)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Migrator{pool: pool, migrations: migrations, logger: logger}, nil
}

// Run applies every pending migration in version order and returns the applied ones.
func (m *Migrator) Run(ctx context.Context) ([]MigrationStatus, error) {
	var applied []MigrationStatus
	err := m.locked(ctx, func(conn *pgxpool.Conn) error {
		done, err := appliedVersions(ctx, conn)
		if err != nil {
			return err
		}
		for _, mig := range m.migrations {
			if _, ok := done[mig.Version]; ok {
				continue
			}
			if err := m.apply(ctx, conn, mig); err != nil {
				return err
			}
			now := time.Now().UTC()
			applied = append(applied, MigrationStatus{Version: mig.Version, Name: mig.Name, Applied: true, AppliedAt: &now})
			m.logger.Info("migration applied", slog.Int64("version", mig.Version), slog.String("name", mig.Name))
		}
		return nil
	})
	return applied, err
}

// Revert rolls back the most recently applied migration. It returns nil when
// nothing is applied.
func (m *Migrator) Revert(ctx context.Context) (*MigrationStatus, error) {
	var reverted *MigrationStatus
	err := m.locked(ctx, func(conn *pgxpool.Conn) error {
		done, err := appliedVersions(ctx, conn)
		if err != nil {
			return err
		}
		for i := len(m.migrations) - 1; i >= 0; i-- {
			mig := m.migrations[i]
			if _, ok := done[mig.Version]; !ok {
				continue
			}
			if mig.Down == "" {
				return fmt.Errorf("platform/db: migration %d_%s is irreversible", mig.Version, mig.Name)
			}
			if err := m.rollback(ctx, conn, mig); err != nil {
				return err
			}
			reverted = &MigrationStatus{Version: mig.Version, Name: mig.Name}
			m.logger.Info("migration reverted", slog.Int64("version", mig.Version), slog.String("name", mig.Name))
			return nil
		}
		return nil
	})
	return reverted, err
}

// Status lists every known migration with its applied state.
func (m *Migrator) Status(ctx context.Context) ([]MigrationStatus, error) {
	var out []MigrationStatus
	err := m.locked(ctx, func(conn *pgxpool.Conn) error {
		done, err := appliedVersions(ctx, conn)
		if err != nil {
			return err
		}
		out = mergeStatus(m.migrations, done)
		return nil
	})
	return out, err
}

func mergeStatus(migrations []Migration, done map[int64]time.Time) []MigrationStatus {
	out := make([]MigrationStatus, 0, len(migrations))
	for _, mig := range migrations {
		st := MigrationStatus{Version: mig.Version, Name: mig.Name}
		if at, ok := done[mig.Version]; ok {
			at := at
			st.Applied = true
			st.AppliedAt = &at
		}
		out = append(out, st)
	}
	return out
}

func (m *Migrator) locked(ctx context.Context, fn func(*pgxpool.Conn) error) error {
	if m == nil || m.pool == nil {
		return errors.New("platform/db: migrator not configured")
	}
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("platform/db: acquire: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", migrationLockID); err != nil {
		return fmt.Errorf("platform/db: migration lock: %w", err)
	}
	defer func() {
		if _, err := conn.Exec(context.Background(), "SELECT pg_advisory_unlock($1)", migrationLockID); err != nil {
			m.logger.Warn("migration unlock", slog.Any("error", err))
		}
	}()

	if _, err := conn.Exec(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version BIGINT PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`); err != nil {
		return fmt.Errorf("platform/db: ensure schema_migrations: %w", err)
	}
	return fn(conn)
}

func appliedVersions(ctx context.Context, conn *pgxpool.Conn) (map[int64]time.Time, error) {
	rows, err := conn.Query(ctx, "SELECT version, applied_at FROM schema_migrations")
	if err != nil {
		return nil, fmt.Errorf("platform/db: read schema_migrations: %w", err)
	}
	defer rows.Close()
	done := make(map[int64]time.Time)
	for rows.Next() {
		var version int64
		var at time.Time
		if err := rows.Scan(&version, &at); err != nil {
			return nil, err
		}
		done[version] = at
	}
	return done, rows.Err()
}

func (m *Migrator) apply(ctx context.Context, conn *pgxpool.Conn, mig Migration) error {
	return pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, mig.Up); err != nil {
			return fmt.Errorf("platform/db: apply %d_%s: %w", mig.Version, mig.Name, err)
		}
		_, err := tx.Exec(ctx, "INSERT INTO schema_migrations (version, name) VALUES ($1, $2)", mig.Version, mig.Name)
		return err
	})
}

func (m *Migrator) rollback(ctx context.Context, conn *pgxpool.Conn, mig Migration) error {
	return pgx.BeginFunc(ctx, conn, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, mig.Down); err != nil {
			return fmt.Errorf("platform/db: revert %d_%s: %w", mig.Version, mig.Name, err)
		}
		_, err := tx.Exec(ctx, "DELETE FROM schema_migrations WHERE version = $1", mig.Version)
		return err
	})
}
