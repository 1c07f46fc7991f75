// Package store keeps a history of saved plans in SQLite.
package store

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

	"github.com/google/uuid"
	"github.com/souradeepAsh/Knee-Preop-Planning/internal/plan"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

// ErrNotFound reports an unknown plan id
var ErrNotFound = errors.New("plan not found")

//go:embed migrations/001_init_plans.sql
var initSQL string

// timeLayout is fixed width so that created_at sorts as text in time order
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Plan is one saved planning result
type Plan struct {
	ID         uuid.UUID       `json:"id"`
	Name       string          `json:"name"`
	CreatedAt  time.Time       `json:"createdAt"`
	Parameters plan.Parameters `json:"parameters"`
	MedialMM   *float64        `json:"medialMm,omitempty"`
	LateralMM  *float64        `json:"lateralMm,omitempty"`

	// Snapshot is only populated by Get
	Snapshot *plan.Snapshot `json:"snapshot,omitempty"`
}

// Store is the plan history
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens or creates the database at path and applies the schema
func Open(ctx context.Context, path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir db dir: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, initSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply migration: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database
func (s *Store) Close() error {
	return s.db.Close()
}

// Save records snap under name
func (s *Store) Save(ctx context.Context, name string, snap plan.Snapshot) (Plan, error) {
	data, err := json.Marshal(snap)
	if err != nil {
		return Plan{}, fmt.Errorf("encode snapshot: %w", err)
	}

	p := Plan{
		ID:         uuid.New(),
		Name:       name,
		CreatedAt:  s.now().UTC(),
		Parameters: snap.Parameters,
	}
	if m := snap.Measurements; m != nil {
		p.MedialMM = &m.MedialMM
		p.LateralMM = &m.LateralMM
	}

	_, err = s.db.ExecContext(ctx, `
        INSERT INTO plans (id, name, created_at, varus_valgus, flexion_extension, resection_depth, medial_mm, lateral_mm, snapshot)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
    `,
		p.ID.String(),
		p.Name,
		p.CreatedAt.Format(timeLayout),
		p.Parameters.VarusValgus,
		p.Parameters.FlexionExtension,
		p.Parameters.ResectionDepth,
		p.MedialMM,
		p.LateralMM,
		string(data),
	)
	if err != nil {
		return Plan{}, fmt.Errorf("insert plan: %w", err)
	}
	return p, nil
}

// List returns saved plans, newest first, without their snapshots
func (s *Store) List(ctx context.Context) ([]Plan, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, name, created_at, varus_valgus, flexion_extension, resection_depth, medial_mm, lateral_mm
        FROM plans
        ORDER BY created_at DESC
    `)
	if err != nil {
		return nil, fmt.Errorf("list plans: %w", err)
	}
	defer rows.Close()

	var plans []Plan
	for rows.Next() {
		p, err := scanPlan(rows, nil)
		if err != nil {
			return nil, err
		}
		plans = append(plans, p)
	}
	return plans, rows.Err()
}

// Get returns one plan with its snapshot
func (s *Store) Get(ctx context.Context, id uuid.UUID) (Plan, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT id, name, created_at, varus_valgus, flexion_extension, resection_depth, medial_mm, lateral_mm, snapshot
        FROM plans
        WHERE id = ?
    `, id.String())

	var data string
	p, err := scanPlan(row, &data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Plan{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return Plan{}, err
	}

	var snap plan.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return Plan{}, fmt.Errorf("decode snapshot: %w", err)
	}
	p.Snapshot = &snap
	return p, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPlan(row scanner, snapshot *string) (Plan, error) {
	var (
		p         Plan
		id        string
		createdAt string
		medial    sql.NullFloat64
		lateral   sql.NullFloat64
	)
	dest := []any{
		&id, &p.Name, &createdAt,
		&p.Parameters.VarusValgus, &p.Parameters.FlexionExtension, &p.Parameters.ResectionDepth,
		&medial, &lateral,
	}
	if snapshot != nil {
		dest = append(dest, snapshot)
	}
	if err := row.Scan(dest...); err != nil {
		return Plan{}, err
	}

	var err error
	if p.ID, err = uuid.Parse(id); err != nil {
		return Plan{}, fmt.Errorf("parse id: %w", err)
	}
	if p.CreatedAt, err = time.Parse(timeLayout, createdAt); err != nil {
		return Plan{}, fmt.Errorf("parse created_at: %w", err)
	}
	if medial.Valid {
		p.MedialMM = &medial.Float64
	}
	if lateral.Valid {
		p.LateralMM = &lateral.Float64
	}
	return p, nil
}
