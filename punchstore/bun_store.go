package punchstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/attendly/go-punch-report/report"
)

// punchRow is the table mapping for one recorded scan event. The raw scan
// type stays free text; normalization happens in the report package.
type punchRow struct {
	bun.BaseModel `bun:"table:punches,alias:p"`

	ID           string    `bun:"id,pk"`
	EmployeeID   string    `bun:"employee_id"`
	EmployeeName string    `bun:"employee_name"`
	Designation  string    `bun:"designation"`
	Division     string    `bun:"division_name"`
	Section      string    `bun:"section_name"`
	Subsection   string    `bun:"sub_section_id"`
	EventDate    time.Time `bun:"event_date"`
	EventTime    string    `bun:"event_time"`
	ScanType     string    `bun:"scan_type"`
	DeviceID     string    `bun:"device_id"`
}

func (r punchRow) toPunch() report.Punch {
	return report.Punch{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		EmployeeName: r.EmployeeName,
		Designation:  r.Designation,
		Division:     r.Division,
		Section:      r.Section,
		Subsection:   r.Subsection,
		EventDate:    r.EventDate,
		EventTime:    r.EventTime,
		RawScanType:  r.ScanType,
		DeviceID:     r.DeviceID,
	}
}

// BunStore implements Store on top of a bun.DB.
type BunStore struct {
	db *bun.DB
}

// NewBunStore wraps an already-configured bun.DB.
func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db}
}

// NewPostgresStore opens a Postgres-backed store from a lib/pq DSN.
func NewPostgresStore(dsn string) (*BunStore, error) {
	sqldb, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	return NewBunStore(bun.NewDB(sqldb, pgdialect.New())), nil
}

// NewSQLiteStore opens a SQLite-backed store, handy for local deployments
// and tests. Use ":memory:" for an ephemeral database.
func NewSQLiteStore(dsn string) (*BunStore, error) {
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	return NewBunStore(bun.NewDB(sqldb, sqlitedialect.New())), nil
}

// DB exposes the underlying bun.DB for schema management.
func (s *BunStore) DB() *bun.DB {
	return s.db
}

// QueryPunches implements Store.
func (s *BunStore) QueryPunches(ctx context.Context, start, end time.Time, filter report.OrgFilter, employeeID string) ([]report.Punch, error) {
	var rows []punchRow
	q := s.db.NewSelect().
		Model(&rows).
		Where("p.event_date >= ?", start).
		Where("p.event_date <= ?", end)

	if filter.Division != "" {
		q = q.Where("p.division_name = ?", filter.Division)
	}
	if filter.Section != "" {
		q = q.Where("p.section_name = ?", filter.Section)
	}
	if filter.Subsection != "" {
		q = q.Where("p.sub_section_id = ?", filter.Subsection)
	}
	if employeeID != "" {
		q = q.Where("p.employee_id = ?", employeeID)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, fmt.Errorf("query punches: %w", err)
	}

	punches := make([]report.Punch, 0, len(rows))
	for _, r := range rows {
		punches = append(punches, r.toPunch())
	}
	return punches, nil
}
