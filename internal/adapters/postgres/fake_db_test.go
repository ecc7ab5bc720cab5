package postgres_adapter

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *[]byte:
			*p = r.values[i].([]byte)
		case *string:
			*p = r.values[i].(string)
		default:
			return fmt.Errorf("unsupported scan target %T", d)
		}
	}
	return nil
}

type kvRow struct {
	value     string
	expiresAt *time.Time
}

// fakeDB понимает ровно те запросы, которые шлют адаптеры.
type fakeDB struct {
	mu     sync.Mutex
	drafts map[uuid.UUID][]byte
	kv     map[string]kvRow
	execs  []string
}

func newFakeDB() *fakeDB {
	return &fakeDB{drafts: map[uuid.UUID][]byte{}, kv: map[string]kvRow{}}
}

func (f *fakeDB) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.execs = append(f.execs, sql)

	switch {
	case strings.Contains(sql, "INSERT INTO wizard_drafts"):
		f.drafts[args[0].(uuid.UUID)] = args[4].([]byte)
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	case strings.Contains(sql, "DELETE FROM wizard_drafts"):
		id := args[0].(uuid.UUID)
		if _, ok := f.drafts[id]; !ok {
			return pgconn.NewCommandTag("DELETE 0"), nil
		}
		delete(f.drafts, id)
		return pgconn.NewCommandTag("DELETE 1"), nil
	case strings.Contains(sql, "INSERT INTO kv_store"):
		f.kv[args[0].(string)] = kvRow{value: args[1].(string), expiresAt: args[2].(*time.Time)}
		return pgconn.NewCommandTag("INSERT 0 1"), nil
	case strings.Contains(sql, "DELETE FROM kv_store"):
		delete(f.kv, args[0].(string))
		return pgconn.NewCommandTag("DELETE 1"), nil
	}
	return pgconn.NewCommandTag(""), nil
}

func (f *fakeDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch {
	case strings.Contains(sql, "FROM wizard_drafts"):
		data, ok := f.drafts[args[0].(uuid.UUID)]
		if !ok {
			return fakeRow{err: pgx.ErrNoRows}
		}
		return fakeRow{values: []any{data}}
	case strings.Contains(sql, "FROM kv_store"):
		row, ok := f.kv[args[0].(string)]
		now := args[1].(time.Time)
		if !ok || (row.expiresAt != nil && !row.expiresAt.After(now)) {
			return fakeRow{err: pgx.ErrNoRows}
		}
		return fakeRow{values: []any{row.value}}
	}
	return fakeRow{err: fmt.Errorf("unexpected query: %s", sql)}
}
