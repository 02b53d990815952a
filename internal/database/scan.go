package database

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-sqlite3"
)

type scanner interface {
	Scan(dest ...any) error
}

// parseTime accepts what either driver hands back for a timestamp column.
// sqlite only converts to time.Time when the declared type is visible, which
// is not always the case for view columns.
func parseTime(v any) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, nil
	case time.Time:
		return t.UTC(), nil
	case []byte:
		return parseTimeString(string(t))
	case string:
		return parseTimeString(t)
	case int64:
		return time.Unix(t, 0).UTC(), nil
	}
	return time.Time{}, fmt.Errorf("unsupported timestamp type %T", v)
}

func parseTimeString(s string) (time.Time, error) {
	s = strings.TrimSuffix(strings.TrimSpace(s), "Z")
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range sqlite3.SQLiteTimestampFormats {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable timestamp %q", s)
}

// timeValue scans a timestamp column of either driver.
type timeValue struct{ t *time.Time }

func (v timeValue) Scan(src any) error {
	t, err := parseTime(src)
	if err != nil {
		return err
	}
	*v.t = t
	return nil
}

// nullTimeValue scans a nullable timestamp into a *time.Time.
type nullTimeValue struct{ t **time.Time }

func (v nullTimeValue) Scan(src any) error {
	if src == nil {
		*v.t = nil
		return nil
	}
	t, err := parseTime(src)
	if err != nil {
		return err
	}
	*v.t = &t
	return nil
}

func ts(t *time.Time) sql.Scanner { return timeValue{t} }

func nullTS(t **time.Time) sql.Scanner { return nullTimeValue{t} }

func int64Ptr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func nullID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}
