package database

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userObjects(t *testing.T, s *Store) int {
	t.Helper()
	var n int
	err := s.DB().QueryRow(`SELECT COUNT(*) FROM sqlite_master
		WHERE name NOT LIKE 'sqlite_%' AND name != 'schema_migrations'`).Scan(&n)
	require.NoError(t, err)
	return n
}

func TestApplyIsIdempotent(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Apply(ctx))
	objects := userObjects(t, s)
	require.NoError(t, s.Apply(ctx))
	assert.Equal(t, objects, userObjects(t, s))

	status, err := s.Status(ctx)
	require.NoError(t, err)
	require.Len(t, status, 5)
	for _, st := range status {
		assert.True(t, st.Applied, "version %d", st.Version)
		assert.False(t, st.AppliedAt.IsZero())
	}

	for _, table := range Tables {
		_, err := s.Count(ctx, table)
		assert.NoError(t, err, table)
	}
	_, err = s.DB().Exec(`SELECT * FROM latest_recommendations`)
	assert.NoError(t, err)
}

func TestApplyConflictsWithUnknownObject(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	_, err := s.DB().Exec(`CREATE TABLE users (id INTEGER PRIMARY KEY, nickname TEXT)`)
	require.NoError(t, err)

	err = s.Apply(ctx)
	assert.ErrorIs(t, err, ErrSchemaConflict)

	status, err := s.Status(ctx)
	require.NoError(t, err)
	for _, st := range status {
		assert.False(t, st.Applied)
	}
}

func TestApplyDetectsEditedMigration(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.DB().Exec(`UPDATE schema_migrations SET checksum = 'edited' WHERE version = 2`)
	require.NoError(t, err)

	assert.ErrorIs(t, s.Apply(ctx), ErrSchemaConflict)
}

func TestRollback(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.Rollback(ctx, 1))
	status, err := s.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status[3].Applied)
	assert.False(t, status[4].Applied)
	_, err = s.DB().Exec(`SELECT * FROM latest_recommendations`)
	assert.Error(t, err)

	require.NoError(t, s.Rollback(ctx, 0))
	assert.Zero(t, userObjects(t, s))

	// Rolling back an empty history is a no-op; the schema can come back.
	require.NoError(t, s.Rollback(ctx, 0))
	require.NoError(t, s.Apply(ctx))
	status, err = s.Status(ctx)
	require.NoError(t, err)
	assert.True(t, status[4].Applied)
}

func TestRollbackSeededSchema(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, s.Seed(ctx))

	require.NoError(t, s.Rollback(ctx, 0))
	assert.Zero(t, userObjects(t, s))
}

func TestDialectsDefineTheSameSchema(t *testing.T) {
	lite, err := Migrations(SQLite)
	require.NoError(t, err)
	pg, err := Migrations(Postgres)
	require.NoError(t, err)
	require.Len(t, pg, len(lite))

	liteAll, pgAll := "", ""
	for i := range lite {
		assert.Equal(t, lite[i].Version, pg[i].Version)
		assert.Equal(t, lite[i].Name, pg[i].Name)
		liteAll += lite[i].Up
		pgAll += pg[i].Up
	}

	for _, table := range Tables {
		stmt := "CREATE TABLE " + table + " ("
		assert.Contains(t, liteAll, stmt)
		assert.Contains(t, pgAll, stmt)
	}
	assert.Contains(t, pgAll, "CREATE VIEW latest_recommendations AS")
	assert.Equal(t, strings.Count(liteAll, "ON DELETE CASCADE"), strings.Count(pgAll, "ON DELETE CASCADE"))
	assert.Equal(t, strings.Count(liteAll, "ON DELETE SET NULL"), strings.Count(pgAll, "ON DELETE SET NULL"))
}

func TestLoadMigrations(t *testing.T) {
	t.Run("pairs up and down files", func(t *testing.T) {
		fsys := fstest.MapFS{
			"m/V2__second.sql": {Data: []byte("CREATE TABLE b (id INTEGER);")},
			"m/U2__second.sql": {Data: []byte("DROP TABLE b;")},
			"m/V1__first.sql":  {Data: []byte("CREATE TABLE a (id INTEGER);")},
			"m/U1__first.sql":  {Data: []byte("DROP TABLE a;")},
			"m/README.md":      {Data: []byte("ignored")},
		}
		migs, err := loadMigrations(fsys, "m")
		require.NoError(t, err)
		require.Len(t, migs, 2)
		assert.Equal(t, int64(1), migs[0].Version)
		assert.Equal(t, "first", migs[0].Name)
		assert.Equal(t, "DROP TABLE a;", migs[0].Down)
		assert.Len(t, migs[0].Checksum, 64)
	})

	t.Run("missing down file", func(t *testing.T) {
		fsys := fstest.MapFS{"m/V1__first.sql": {Data: []byte("SELECT 1;")}}
		_, err := loadMigrations(fsys, "m")
		assert.ErrorContains(t, err, "no down file")
	})

	t.Run("duplicate version", func(t *testing.T) {
		fsys := fstest.MapFS{
			"m/V1__first.sql": {Data: []byte("SELECT 1;")},
			"m/V1__again.sql": {Data: []byte("SELECT 2;")},
			"m/U1__first.sql": {Data: []byte("SELECT 3;")},
		}
		_, err := loadMigrations(fsys, "m")
		assert.ErrorContains(t, err, "duplicate migration version")
	})

	t.Run("empty file", func(t *testing.T) {
		fsys := fstest.MapFS{"m/V1__first.sql": {Data: []byte("  \n")}}
		_, err := loadMigrations(fsys, "m")
		assert.ErrorContains(t, err, "empty migration file")
	})
}
