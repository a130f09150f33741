/*
Package sqlite provides the SQLite-backed store for the final-pay engine.

PURPOSE:
  Persists termination cases, jurisdiction rule definitions, and the
  append-only case audit log. In production the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  termination_cases: One row per case; step column tracks wizard position
  state_rules:       Jurisdiction rule config JSON (versioned), backing the
                     data-driven rule provider
  case_events:       Append-only audit log of every case change

SUBMITTED-CASE IMMUTABILITY:
  UpdateCase refuses to touch a row whose stored step is 'submitted'.
  FinalizeCase is the only path that writes the submitted step, and it
  snapshots the breakdown JSON for the audit record at the same time.

AUDIT LOG:
  case_events is append-only: no UPDATE or DELETE statements exist for it.
  Step transitions, checklist toggles, and submission each append a row.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. SQLite is opened with WAL mode so
  readers don't block.

USAGE:
  store, err := sqlite.New("./data/finalpay.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - offboarding/case.go: the Case value persisted here
  - factory/rules.go: rule config JSON parsed from state_rules rows
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/saurellius/finalpay-engine/factory"
	"github.com/saurellius/finalpay-engine/offboarding"
	"github.com/saurellius/finalpay-engine/payroll"
	"github.com/saurellius/finalpay-engine/rules"
)

// Store implements case, rule, and audit persistence using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Termination cases (one row per offboarding wizard)
	CREATE TABLE IF NOT EXISTS termination_cases (
		id TEXT PRIMARY KEY,
		employee_id TEXT NOT NULL,
		termination_date TEXT,
		termination_type TEXT,
		last_work_date TEXT,
		jurisdiction TEXT,
		pto_hours TEXT NOT NULL DEFAULT '0',
		hourly_rate TEXT NOT NULL DEFAULT '0',
		regular_pay TEXT NOT NULL DEFAULT '0',
		reimbursements TEXT NOT NULL DEFAULT '0',
		garnishments TEXT NOT NULL DEFAULT '0',
		step TEXT NOT NULL,
		checklist_json TEXT NOT NULL DEFAULT '{}',
		breakdown_json TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		submitted_at TEXT
	);

	CREATE INDEX IF NOT EXISTS idx_cases_employee
		ON termination_cases(employee_id);
	CREATE INDEX IF NOT EXISTS idx_cases_step
		ON termination_cases(step);
	CREATE INDEX IF NOT EXISTS idx_cases_jurisdiction
		ON termination_cases(jurisdiction);

	-- Jurisdiction rules (versioned config JSON)
	CREATE TABLE IF NOT EXISTS state_rules (
		jurisdiction TEXT PRIMARY KEY,
		config_json TEXT NOT NULL,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	-- Case audit log (append-only)
	CREATE TABLE IF NOT EXISTS case_events (
		id TEXT PRIMARY KEY,
		case_id TEXT NOT NULL,
		event_type TEXT NOT NULL,
		detail TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_case_events_case
		ON case_events(case_id, created_at);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CASE STORE
// =============================================================================

// SaveCase inserts a new case row.
func (s *Store) SaveCase(ctx context.Context, c offboarding.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	checklistJSON, err := json.Marshal(c.Checklist)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO termination_cases
		(id, employee_id, termination_date, termination_type, last_work_date, jurisdiction,
		 pto_hours, hourly_rate, regular_pay, reimbursements, garnishments,
		 step, checklist_json, created_at, updated_at, submitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = s.db.ExecContext(ctx, query,
		c.ID,
		c.EmployeeID,
		dateString(c.TerminationDate),
		string(c.Type),
		dateString(c.LastWorkDate),
		c.Jurisdiction,
		c.PTOHoursRemaining.String(),
		c.HourlyRate.Value.String(),
		c.RegularPay.Value.String(),
		c.Reimbursements.Value.String(),
		c.Garnishments.Value.String(),
		string(c.Step),
		string(checklistJSON),
		c.CreatedAt.UTC().Format(time.RFC3339),
		c.UpdatedAt.UTC().Format(time.RFC3339),
		timeStringOrNil(c.SubmittedAt),
	)
	return err
}

// UpdateCase rewrites a draft case row. Rows already submitted are
// immutable and the update fails with offboarding.ErrCaseSubmitted.
func (s *Store) UpdateCase(ctx context.Context, c offboarding.Case) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	step, err := s.currentStep(ctx, c.ID)
	if err != nil {
		return err
	}
	if step == offboarding.StepSubmitted {
		return offboarding.ErrCaseSubmitted
	}
	if c.Step == offboarding.StepSubmitted {
		return fmt.Errorf("use FinalizeCase to submit: %w", offboarding.ErrInvalidTransition)
	}

	checklistJSON, err := json.Marshal(c.Checklist)
	if err != nil {
		return err
	}

	query := `
		UPDATE termination_cases SET
			termination_date = ?, termination_type = ?, last_work_date = ?, jurisdiction = ?,
			pto_hours = ?, hourly_rate = ?, regular_pay = ?, reimbursements = ?, garnishments = ?,
			step = ?, checklist_json = ?, updated_at = ?
		WHERE id = ?
	`
	_, err = s.db.ExecContext(ctx, query,
		dateString(c.TerminationDate),
		string(c.Type),
		dateString(c.LastWorkDate),
		c.Jurisdiction,
		c.PTOHoursRemaining.String(),
		c.HourlyRate.Value.String(),
		c.RegularPay.Value.String(),
		c.Reimbursements.Value.String(),
		c.Garnishments.Value.String(),
		string(c.Step),
		string(checklistJSON),
		c.UpdatedAt.UTC().Format(time.RFC3339),
		c.ID,
	)
	return err
}

// FinalizeCase writes the terminal submitted state together with the
// breakdown snapshot. This is the only write path for step='submitted'.
func (s *Store) FinalizeCase(ctx context.Context, c offboarding.Case, breakdown payroll.FinalPayBreakdown, dueDate rules.Date) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	step, err := s.currentStep(ctx, c.ID)
	if err != nil {
		return err
	}
	if step == offboarding.StepSubmitted {
		return offboarding.ErrCaseSubmitted
	}
	if !c.Submitted() {
		return fmt.Errorf("case %s is not submitted: %w", c.ID, offboarding.ErrInvalidTransition)
	}

	snapshot, err := json.Marshal(breakdownSnapshot{
		Breakdown: breakdown,
		DueDate:   dueDate,
	})
	if err != nil {
		return err
	}
	checklistJSON, err := json.Marshal(c.Checklist)
	if err != nil {
		return err
	}

	query := `
		UPDATE termination_cases SET
			step = ?, checklist_json = ?, breakdown_json = ?, updated_at = ?, submitted_at = ?
		WHERE id = ?
	`
	_, err = s.db.ExecContext(ctx, query,
		string(offboarding.StepSubmitted),
		string(checklistJSON),
		string(snapshot),
		c.UpdatedAt.UTC().Format(time.RFC3339),
		c.SubmittedAt.UTC().Format(time.RFC3339),
		c.ID,
	)
	return err
}

// breakdownSnapshot is the audit record stored at submission.
type breakdownSnapshot struct {
	Breakdown payroll.FinalPayBreakdown `json:"breakdown"`
	DueDate   rules.Date                `json:"due_date"`
}

// GetCase loads a case by ID.
func (s *Store) GetCase(ctx context.Context, id string) (offboarding.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, employee_id, termination_date, termination_type, last_work_date, jurisdiction,
		       pto_hours, hourly_rate, regular_pay, reimbursements, garnishments,
		       step, checklist_json, created_at, updated_at, submitted_at
		FROM termination_cases WHERE id = ?
	`, id)

	c, err := scanCase(row)
	if err == sql.ErrNoRows {
		return offboarding.Case{}, fmt.Errorf("case %s: %w", id, offboarding.ErrCaseNotFound)
	}
	return c, err
}

// BreakdownSnapshot returns the JSON breakdown stored at submission, or
// "" for cases not yet submitted.
func (s *Store) BreakdownSnapshot(ctx context.Context, id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var snapshot sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT breakdown_json FROM termination_cases WHERE id = ?`, id).Scan(&snapshot)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("case %s: %w", id, offboarding.ErrCaseNotFound)
	}
	if err != nil {
		return "", err
	}
	return snapshot.String, nil
}

// ListCases returns all cases, newest first.
func (s *Store) ListCases(ctx context.Context) ([]offboarding.Case, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, employee_id, termination_date, termination_type, last_work_date, jurisdiction,
		       pto_hours, hourly_rate, regular_pay, reimbursements, garnishments,
		       step, checklist_json, created_at, updated_at, submitted_at
		FROM termination_cases ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []offboarding.Case
	for rows.Next() {
		c, err := scanCase(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *Store) currentStep(ctx context.Context, id string) (offboarding.Step, error) {
	var step string
	err := s.db.QueryRowContext(ctx,
		`SELECT step FROM termination_cases WHERE id = ?`, id).Scan(&step)
	if err == sql.ErrNoRows {
		return "", fmt.Errorf("case %s: %w", id, offboarding.ErrCaseNotFound)
	}
	if err != nil {
		return "", err
	}
	return offboarding.Step(step), nil
}

// rowScanner abstracts *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCase(row rowScanner) (offboarding.Case, error) {
	var (
		c                              offboarding.Case
		termDate, lastWork             string
		termType, step, checklistJSON  string
		ptoHours, rate, regular        string
		reimb, garnish                 string
		createdAt, updatedAt           string
		submittedAt                    sql.NullString
	)

	err := row.Scan(&c.ID, &c.EmployeeID, &termDate, &termType, &lastWork, &c.Jurisdiction,
		&ptoHours, &rate, &regular, &reimb, &garnish,
		&step, &checklistJSON, &createdAt, &updatedAt, &submittedAt)
	if err != nil {
		return offboarding.Case{}, err
	}

	if c.TerminationDate, err = parseDate(termDate); err != nil {
		return offboarding.Case{}, err
	}
	if c.LastWorkDate, err = parseDate(lastWork); err != nil {
		return offboarding.Case{}, err
	}
	c.Type = rules.TerminationType(termType)

	if c.PTOHoursRemaining, err = decimal.NewFromString(ptoHours); err != nil {
		return offboarding.Case{}, fmt.Errorf("corrupt pto_hours for case %s: %w", c.ID, err)
	}
	if c.HourlyRate, err = payroll.ParseMoney(rate); err != nil {
		return offboarding.Case{}, fmt.Errorf("corrupt hourly_rate for case %s: %w", c.ID, err)
	}
	if c.RegularPay, err = payroll.ParseMoney(regular); err != nil {
		return offboarding.Case{}, fmt.Errorf("corrupt regular_pay for case %s: %w", c.ID, err)
	}
	if c.Reimbursements, err = payroll.ParseMoney(reimb); err != nil {
		return offboarding.Case{}, fmt.Errorf("corrupt reimbursements for case %s: %w", c.ID, err)
	}
	if c.Garnishments, err = payroll.ParseMoney(garnish); err != nil {
		return offboarding.Case{}, fmt.Errorf("corrupt garnishments for case %s: %w", c.ID, err)
	}

	if c.Step, err = offboarding.ParseStep(step); err != nil {
		return offboarding.Case{}, err
	}
	if err = json.Unmarshal([]byte(checklistJSON), &c.Checklist); err != nil {
		return offboarding.Case{}, fmt.Errorf("corrupt checklist for case %s: %w", c.ID, err)
	}

	if c.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return offboarding.Case{}, err
	}
	if c.UpdatedAt, err = time.Parse(time.RFC3339, updatedAt); err != nil {
		return offboarding.Case{}, err
	}
	if submittedAt.Valid && submittedAt.String != "" {
		if c.SubmittedAt, err = time.Parse(time.RFC3339, submittedAt.String); err != nil {
			return offboarding.Case{}, err
		}
	}
	return c, nil
}

// =============================================================================
// RULE STORE
// =============================================================================

// RuleRecord is a stored jurisdiction rule definition.
type RuleRecord struct {
	Jurisdiction string
	ConfigJSON   string
	Version      int
	UpdatedAt    time.Time
}

// SaveRule upserts a jurisdiction rule definition, bumping the version on
// replacement.
func (s *Store) SaveRule(ctx context.Context, jurisdiction, configJSON string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339)
	query := `
		INSERT INTO state_rules (jurisdiction, config_json, version, created_at, updated_at)
		VALUES (?, ?, 1, ?, ?)
		ON CONFLICT(jurisdiction) DO UPDATE SET
			config_json = excluded.config_json,
			version = state_rules.version + 1,
			updated_at = excluded.updated_at
	`
	_, err := s.db.ExecContext(ctx, query, rules.NormalizeCode(jurisdiction), configJSON, now, now)
	return err
}

// GetRule returns the stored definition for a jurisdiction, or nil when
// the store has none (callers fall back to the static table).
func (s *Store) GetRule(ctx context.Context, jurisdiction string) (*RuleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var r RuleRecord
	var updatedAt string
	err := s.db.QueryRowContext(ctx,
		`SELECT jurisdiction, config_json, version, updated_at FROM state_rules WHERE jurisdiction = ?`,
		rules.NormalizeCode(jurisdiction)).
		Scan(&r.Jurisdiction, &r.ConfigJSON, &r.Version, &updatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	r.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return &r, nil
}

// ListRules returns all stored rule definitions ordered by jurisdiction.
func (s *Store) ListRules(ctx context.Context) ([]RuleRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT jurisdiction, config_json, version, updated_at FROM state_rules ORDER BY jurisdiction`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []RuleRecord
	for rows.Next() {
		var r RuleRecord
		var updatedAt string
		if err := rows.Scan(&r.Jurisdiction, &r.ConfigJSON, &r.Version, &updatedAt); err != nil {
			return nil, err
		}
		r.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
		out = append(out, r)
	}
	return out, rows.Err()
}

// SeedDefaultRules inserts the built-in six-state definitions for any
// jurisdiction not already present. Idempotent.
func (s *Store) SeedDefaultRules(ctx context.Context) error {
	f := factory.NewRuleFactory()
	for _, def := range factory.DefaultRuleSet() {
		existing, err := s.GetRule(ctx, def.Jurisdiction)
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}
		rule, err := f.FromJSON(def)
		if err != nil {
			return err
		}
		configJSON, err := f.ToJSON(rule)
		if err != nil {
			return err
		}
		if err := s.SaveRule(ctx, rule.Jurisdiction, configJSON); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// AUDIT LOG (append-only)
// =============================================================================

// CaseEvent is one entry in the case audit log.
type CaseEvent struct {
	ID        string
	CaseID    string
	Type      string // created, updated, advanced, reverted, checklist_toggled, submitted
	Detail    string
	CreatedAt time.Time
}

// AppendEvent adds an audit entry. There is no update or delete path.
func (s *Store) AppendEvent(ctx context.Context, e CaseEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	createdAt := e.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO case_events (id, case_id, event_type, detail, created_at) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.CaseID, e.Type, e.Detail, createdAt.UTC().Format(time.RFC3339))
	return err
}

// ListEvents returns the audit trail for a case, oldest first.
func (s *Store) ListEvents(ctx context.Context, caseID string) ([]CaseEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, case_id, event_type, detail, created_at FROM case_events WHERE case_id = ? ORDER BY created_at, id`,
		caseID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CaseEvent
	for rows.Next() {
		var e CaseEvent
		var createdAt string
		if err := rows.Scan(&e.ID, &e.CaseID, &e.Type, &e.Detail, &createdAt); err != nil {
			return nil, err
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339, createdAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

// =============================================================================
// HELPERS
// =============================================================================

func dateString(d rules.Date) string {
	if d.IsZero() {
		return ""
	}
	return d.String()
}

func parseDate(s string) (rules.Date, error) {
	if s == "" {
		return rules.Date{}, nil
	}
	return rules.ParseDate(s)
}

func timeStringOrNil(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}
