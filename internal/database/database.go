package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	_ "github.com/mattn/go-sqlite3"

	"github.com/khrees2412/careerpath/internal/config"
	"github.com/khrees2412/careerpath/internal/logger"
)

// Dialect selects the SQL flavour of the underlying store.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the data access layer. A Store returned by WithTx runs every
// query inside that transaction.
type Store struct {
	db      *sql.DB
	q       querier
	dialect Dialect
	log     *logger.Logger
	now     func() time.Time
	closers []func()
}

// New wraps an open database handle.
func New(db *sql.DB, dialect Dialect, log *logger.Logger) *Store {
	if log == nil {
		log = logger.Nop()
	}
	return &Store{
		db:      db,
		q:       db,
		dialect: dialect,
		log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Open connects to the store described by cfg and verifies the connection.
func Open(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*Store, error) {
	switch Dialect(cfg.Driver) {
	case SQLite:
		return openSQLite(ctx, cfg, log)
	case Postgres:
		return openPostgres(ctx, cfg, log)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// SQLiteDSN builds the DSN with the pragmas the schema depends on:
// foreign keys (cascades), a busy timeout and immediate transactions so
// concurrent writers serialize instead of failing with SQLITE_BUSY.
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL&_txlock=immediate", path)
}

func openSQLite(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(cfg.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", SQLiteDSN(cfg.Path))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if err := ping(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if log != nil {
		log.Debug("database opened", "driver", SQLite, "path", cfg.Path)
	}
	return New(db, SQLite, log), nil
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig, log *logger.Logger) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("invalid postgres dsn: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		pcfg.MaxConns = int32(cfg.MaxOpenConns)
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db := stdlib.OpenDBFromPool(pool)
	if err := ping(ctx, db); err != nil {
		db.Close()
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if log != nil {
		log.Debug("database opened", "driver", Postgres, "host", pcfg.ConnConfig.Host, "database", pcfg.ConnConfig.Database)
	}
	s := New(db, Postgres, log)
	s.closers = append(s.closers, pool.Close)
	return s, nil
}

func ping(ctx context.Context, db *sql.DB) error {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
	}
	return db.PingContext(ctx)
}

// Close closes the database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	for _, c := range s.closers {
		c()
	}
	return err
}

func (s *Store) Dialect() Dialect { return s.dialect }

// DB exposes the underlying handle for ad-hoc queries.
func (s *Store) DB() *sql.DB { return s.db }

// WithTx runs fn inside one transaction. It commits when fn returns nil and
// rolls back otherwise, so no partial write is ever visible.
func (s *Store) WithTx(ctx context.Context, fn func(tx *Store) error) error {
	if _, ok := s.q.(*sql.Tx); ok {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return classify(err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	txStore := *s
	txStore.q = tx
	if err := fn(&txStore); err != nil {
		return err
	}
	return classify(tx.Commit())
}

// rebind rewrites ? placeholders to $n for postgres.
func (s *Store) rebind(query string) string {
	if s.dialect != Postgres || !strings.Contains(query, "?") {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *Store) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	res, err := s.q.ExecContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, classify(err)
	}
	return res, nil
}

// execOne runs a statement that must touch at least one row.
func (s *Store) execOne(ctx context.Context, what string, query string, args ...any) error {
	res, err := s.exec(ctx, query, args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound(what)
	}
	return nil
}

func (s *Store) query(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := s.q.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, classify(err)
	}
	return rows, nil
}

func (s *Store) queryRow(ctx context.Context, query string, args ...any) *sql.Row {
	return s.q.QueryRowContext(ctx, s.rebind(query), args...)
}

// insert runs an INSERT and returns the generated id.
func (s *Store) insert(ctx context.Context, query string, args ...any) (int64, error) {
	var id int64
	if err := s.queryRow(ctx, query+" RETURNING id", args...).Scan(&id); err != nil {
		return 0, classify(err)
	}
	return id, nil
}

// count returns the number of rows of table matching where.
func (s *Store) count(ctx context.Context, table, where string, args ...any) (int, error) {
	q := "SELECT COUNT(*) FROM " + table
	if where != "" {
		q += " WHERE " + where
	}
	var n int
	if err := s.queryRow(ctx, q, args...).Scan(&n); err != nil {
		return 0, classify(err)
	}
	return n, nil
}

// Count returns the number of rows in table. Used by status output and tests.
func (s *Store) Count(ctx context.Context, table string) (int, error) {
	if !knownTable(table) {
		return 0, fmt.Errorf("unknown table %q", table)
	}
	return s.count(ctx, table, "")
}

func (s *Store) timestamp(t time.Time) time.Time {
	if t.IsZero() {
		return s.now()
	}
	return t.UTC()
}

// symbolWords keeps names that differ only in symbols apart, so "C" and
// "C++" get different slugs.
var symbolWords = map[string]string{"+": " plus", "#": " sharp"}

// slugify transliterates name to lowercase ASCII words joined by dashes.
func slugify(name string) string {
	return slug.Make(slug.Substitute(name, symbolWords))
}

// deriveSlug fills *dst from name when it is empty. A name with nothing to
// transliterate is a check violation.
func deriveSlug(dst *string, name string) error {
	if *dst == "" {
		*dst = slugify(name)
	}
	if *dst == "" {
		return &Error{Kind: ErrCheckViolation, Constraint: "slug", Err: fmt.Errorf("no slug can be derived from %q", name)}
	}
	return nil
}
