package preset

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gogpu/signkit"
)

//go:embed schema.sql
var schema string

// Store is a SQLite-backed preset repository. It is safe for concurrent
// use.
type Store struct {
	db *sql.DB
}

// Open opens or creates the preset database at path and applies the
// schema. The path ":memory:" opens a private in-memory database.
func Open(ctx context.Context, path string) (*Store, error) {
	dsn := ":memory:"
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("preset: mkdir db dir: %w", err)
		}
		dsn = fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", path)
	}
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("preset: open: %w", err)
	}
	// One connection: SQLite serializes writers, and an in-memory
	// database lives only as long as its connection.
	db.SetMaxOpenConns(1)

	s, err := New(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database and applies the schema.
func New(ctx context.Context, db *sql.DB) (*Store, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("preset: apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks that the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Save inserts or replaces a preset and returns it as stored.
func (s *Store) Save(ctx context.Context, p Preset) (Preset, error) {
	p, err := p.normalize()
	if err != nil {
		return Preset{}, err
	}
	rule, err := json.Marshal(p.Rule)
	if err != nil {
		return Preset{}, fmt.Errorf("preset: encode rule: %w", err)
	}
	limits, err := json.Marshal(p.Limits)
	if err != nil {
		return Preset{}, fmt.Errorf("preset: encode limits: %w", err)
	}
	p.UpdatedAt = time.Now().UTC().Truncate(time.Millisecond)

	_, err = s.db.ExecContext(ctx, `
        INSERT INTO presets (name, lighting, rule, limits, updated_at)
        VALUES (?, ?, ?, ?, ?)
        ON CONFLICT(name) DO UPDATE SET
            lighting = excluded.lighting,
            rule = excluded.rule,
            limits = excluded.limits,
            updated_at = excluded.updated_at
    `, p.Name, string(p.Lighting), string(rule), string(limits), p.UpdatedAt.Format(time.RFC3339Nano))
	if err != nil {
		return Preset{}, fmt.Errorf("preset: save %q: %w", p.Name, err)
	}
	signkit.Logger().Info("preset saved", "name", p.Name, "lighting", p.Lighting)
	return p, nil
}

// Get returns the preset with the given name.
func (s *Store) Get(ctx context.Context, name string) (Preset, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT name, lighting, rule, limits, updated_at
        FROM presets
        WHERE name = ?
    `, name)
	p, err := scanPreset(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Preset{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return p, err
}

// List returns every preset ordered by name.
func (s *Store) List(ctx context.Context) ([]Preset, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT name, lighting, rule, limits, updated_at
        FROM presets
        ORDER BY name
    `)
	if err != nil {
		return nil, fmt.Errorf("preset: list: %w", err)
	}
	defer rows.Close()

	out := []Preset{}
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("preset: list: %w", err)
	}
	return out, nil
}

// Delete removes the preset with the given name.
func (s *Store) Delete(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM presets WHERE name = ?`, name)
	if err != nil {
		return fmt.Errorf("preset: delete %q: %w", name, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	signkit.Logger().Info("preset deleted", "name", name)
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPreset(sc scanner) (Preset, error) {
	var (
		p                           Preset
		lighting, rule, limits, upd string
	)
	if err := sc.Scan(&p.Name, &lighting, &rule, &limits, &upd); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Preset{}, err
		}
		return Preset{}, fmt.Errorf("preset: scan: %w", err)
	}
	p.Lighting = signkit.LightingType(lighting)
	if err := json.Unmarshal([]byte(rule), &p.Rule); err != nil {
		return Preset{}, fmt.Errorf("preset: decode rule of %q: %w", p.Name, err)
	}
	if err := json.Unmarshal([]byte(limits), &p.Limits); err != nil {
		return Preset{}, fmt.Errorf("preset: decode limits of %q: %w", p.Name, err)
	}
	t, err := time.Parse(time.RFC3339Nano, upd)
	if err != nil {
		return Preset{}, fmt.Errorf("preset: decode time of %q: %w", p.Name, err)
	}
	p.UpdatedAt = t
	return p, nil
}
