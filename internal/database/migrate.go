package database

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"embed"
	"encoding/hex"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationFiles embed.FS

const migrationLockKey int64 = 746295114

// Migration is one versioned schema change with its reverse.
type Migration struct {
	Version  int64
	Name     string
	Filename string
	Up       string
	Down     string
	Checksum string
}

// MigrationStatus reports whether an embedded migration has been applied.
type MigrationStatus struct {
	Version   int64
	Name      string
	Applied   bool
	AppliedAt time.Time
}

type appliedMigration struct {
	Version   int64
	Checksum  string
	AppliedAt time.Time
}

var (
	upFileRe   = regexp.MustCompile(`^V(\d+)__([A-Za-z0-9_.-]+)\.sql$`)
	downFileRe = regexp.MustCompile(`^U(\d+)__([A-Za-z0-9_.-]+)\.sql$`)
)

// Tables lists every table in creation order.
var Tables = []string{
	"users", "profiles", "interests", "skills", "user_interests", "user_skills",
	"careers", "career_skills", "resources", "resource_skills", "career_resources",
	"education_streams", "institutions", "programs", "career_streams", "career_programs",
	"recommendations", "roadmaps", "roadmap_steps", "assessments",
	"messages", "notifications", "uploads", "assignments", "submissions", "audit_logs",
	"mentors", "student_mentor_connections", "badges", "student_badges",
}

func knownTable(name string) bool {
	for _, t := range Tables {
		if t == name {
			return true
		}
	}
	return name == "schema_migrations"
}

// Migrations returns the embedded migrations for dialect in version order.
func Migrations(dialect Dialect) ([]Migration, error) {
	return loadMigrations(migrationFiles, path.Join("migrations", string(dialect)))
}

func loadMigrations(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read migrations: %w", err)
	}

	byVersion := map[int64]*Migration{}
	downs := map[int64]string{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		up := upFileRe.FindStringSubmatch(name)
		down := downFileRe.FindStringSubmatch(name)
		if up == nil && down == nil {
			continue
		}

		b, err := fs.ReadFile(fsys, path.Join(dir, name))
		if err != nil {
			return nil, err
		}
		text := strings.TrimSpace(string(b))
		if text == "" {
			return nil, fmt.Errorf("empty migration file: %s", name)
		}

		if down != nil {
			v, err := strconv.ParseInt(down[1], 10, 64)
			if err != nil {
				return nil, fmt.Errorf("invalid migration version: %s", name)
			}
			downs[v] = text
			continue
		}

		v, err := strconv.ParseInt(up[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid migration version: %s", name)
		}
		if _, dup := byVersion[v]; dup {
			return nil, fmt.Errorf("duplicate migration version: %d", v)
		}
		h := sha256.Sum256([]byte(text))
		byVersion[v] = &Migration{
			Version:  v,
			Name:     up[2],
			Filename: name,
			Up:       text,
			Checksum: hex.EncodeToString(h[:]),
		}
	}

	migs := make([]Migration, 0, len(byVersion))
	for v, m := range byVersion {
		d, ok := downs[v]
		if !ok {
			return nil, fmt.Errorf("migration %s has no down file", m.Filename)
		}
		m.Down = d
		migs = append(migs, *m)
	}
	for v := range downs {
		if _, ok := byVersion[v]; !ok {
			return nil, fmt.Errorf("down migration %d has no up file", v)
		}
	}

	sort.Slice(migs, func(i, j int) bool { return migs[i].Version < migs[j].Version })
	return migs, nil
}

// Apply creates every table, index, trigger and view that is not yet
// recorded in schema_migrations. Running it again is a no-op. An object
// that exists without a matching history entry fails with ErrSchemaConflict,
// as does a recorded version whose file has changed.
func (s *Store) Apply(ctx context.Context) error {
	migs, err := Migrations(s.dialect)
	if err != nil {
		return err
	}

	return s.withMigrationConn(ctx, func(conn *sql.Conn) error {
		applied, err := s.appliedMigrations(ctx, conn)
		if err != nil {
			return err
		}

		for _, m := range migs {
			if a, ok := applied[m.Version]; ok {
				if a.Checksum != m.Checksum {
					return &Error{
						Kind: ErrSchemaConflict,
						Err:  fmt.Errorf("migration checksum mismatch: version=%d name=%s", m.Version, m.Name),
					}
				}
				continue
			}

			if err := s.applyOne(ctx, conn, m); err != nil {
				return err
			}
			s.log.Info("migration applied", "version", m.Version, "name", m.Name)
		}
		return nil
	})
}

// Rollback reverts the last steps applied migrations, newest first.
// steps <= 0 reverts all of them.
func (s *Store) Rollback(ctx context.Context, steps int) error {
	migs, err := Migrations(s.dialect)
	if err != nil {
		return err
	}

	return s.withMigrationConn(ctx, func(conn *sql.Conn) error {
		applied, err := s.appliedMigrations(ctx, conn)
		if err != nil {
			return err
		}

		done := 0
		for i := len(migs) - 1; i >= 0; i-- {
			if steps > 0 && done >= steps {
				break
			}
			m := migs[i]
			if _, ok := applied[m.Version]; !ok {
				continue
			}
			if err := s.revertOne(ctx, conn, m); err != nil {
				return err
			}
			s.log.Info("migration rolled back", "version", m.Version, "name", m.Name)
			done++
		}
		return nil
	})
}

// Status lists every embedded migration and whether it has been applied.
func (s *Store) Status(ctx context.Context) ([]MigrationStatus, error) {
	migs, err := Migrations(s.dialect)
	if err != nil {
		return nil, err
	}

	var out []MigrationStatus
	err = s.withMigrationConn(ctx, func(conn *sql.Conn) error {
		applied, err := s.appliedMigrations(ctx, conn)
		if err != nil {
			return err
		}
		for _, m := range migs {
			st := MigrationStatus{Version: m.Version, Name: m.Name}
			if a, ok := applied[m.Version]; ok {
				st.Applied = true
				st.AppliedAt = a.AppliedAt
			}
			out = append(out, st)
		}
		return nil
	})
	return out, err
}

// withMigrationConn pins one connection for the whole run. On postgres it
// holds a session advisory lock so concurrent runners apply each version once.
func (s *Store) withMigrationConn(ctx context.Context, fn func(conn *sql.Conn) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	if s.dialect == Postgres {
		if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, migrationLockKey); err != nil {
			return fmt.Errorf("failed to take migration lock: %w", err)
		}
		defer func() {
			_, _ = conn.ExecContext(context.Background(), `SELECT pg_advisory_unlock($1)`, migrationLockKey)
		}()
	}

	if err := s.ensureSchemaMigrations(ctx, conn); err != nil {
		return err
	}
	return fn(conn)
}

func (s *Store) ensureSchemaMigrations(ctx context.Context, conn *sql.Conn) error {
	ddl := `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	checksum TEXT NOT NULL,
	applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`
	if s.dialect == Postgres {
		ddl = `
CREATE TABLE IF NOT EXISTS schema_migrations (
	version BIGINT PRIMARY KEY,
	name TEXT NOT NULL,
	checksum TEXT NOT NULL,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`
	}
	if _, err := conn.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("failed to create schema_migrations: %w", classify(err))
	}
	return nil
}

func (s *Store) appliedMigrations(ctx context.Context, conn *sql.Conn) (map[int64]appliedMigration, error) {
	rows, err := conn.QueryContext(ctx, `SELECT version, checksum, applied_at FROM schema_migrations`)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()

	out := map[int64]appliedMigration{}
	for rows.Next() {
		var a appliedMigration
		var at any
		if err := rows.Scan(&a.Version, &a.Checksum, &at); err != nil {
			return nil, err
		}
		a.AppliedAt, err = parseTime(at)
		if err != nil {
			return nil, err
		}
		out[a.Version] = a
	}
	return out, rows.Err()
}

func (s *Store) applyOne(ctx context.Context, conn *sql.Conn, m Migration) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return classify(err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, m.Up); err != nil {
		return fmt.Errorf("apply migration failed: version=%d file=%s: %w", m.Version, m.Filename, classify(err))
	}

	_, err = tx.ExecContext(ctx,
		s.rebind(`INSERT INTO schema_migrations (version, name, checksum, applied_at) VALUES (?, ?, ?, ?)`),
		m.Version, m.Name, m.Checksum, s.now(),
	)
	if err != nil {
		return classify(err)
	}
	return classify(tx.Commit())
}

func (s *Store) revertOne(ctx context.Context, conn *sql.Conn, m Migration) error {
	tx, err := conn.BeginTx(ctx, nil)
	if err != nil {
		return classify(err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, m.Down); err != nil {
		return fmt.Errorf("rollback migration failed: version=%d name=%s: %w", m.Version, m.Name, classify(err))
	}
	if _, err := tx.ExecContext(ctx, s.rebind(`DELETE FROM schema_migrations WHERE version = ?`), m.Version); err != nil {
		return classify(err)
	}
	return classify(tx.Commit())
}
