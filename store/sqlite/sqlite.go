/*
Package sqlite provides the SQLite-backed implementation of the leave
engine storage interfaces.

PURPOSE:
  Implements leave.TxStore using SQLite. The same patterns apply to
  PostgreSQL in production - only minor SQL dialect differences.

KEY TABLES:
  leave_requests:     append-only leave ledger (status is the single
                      mutable column, written by the approval workflow)
  overtime_requests:  append-only overtime ledger, same shape
  approval_lines:     sequential approval slots; a CHECK constraint
                      enforces exactly-one-request reference
  allocations:        per (user, year) entitlement overrides
  profiles:           collaborator profile records and running counters
  holidays:           holiday calendar consumed by the converter

CONCURRENCY:
  Opened in WAL mode. Approval decisions use a compare-and-swap UPDATE
  (WHERE status = 'pending', affected-row count checked) so two racing
  approvers cannot both win. A mutex serializes write transactions, which
  SQLite requires anyway.

MIGRATION:
  Schema is auto-migrated on New(). For production use a versioned
  migration tool (golang-migrate, goose).

SEE ALSO:
  - leave/store.go: interface definitions and contracts
  - store/memory: in-memory implementation for tests
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/leave-engine/leave"
)

// Store implements leave.TxStore using SQLite.
type Store struct {
	*conn
	db *sql.DB
	mu sync.Mutex
}

// New opens (or creates) the database at the given path and migrates the
// schema. Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// One connection: SQLite serializes writers anyway, and a :memory:
	// path would otherwise get a separate empty database per pool conn.
	db.SetMaxOpenConns(1)

	s := &Store{conn: &conn{db: db}, db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error { return s.db.Close() }

// WithTx executes fn within a database transaction. fn's writes commit
// together or not at all.
func (s *Store) WithTx(ctx context.Context, fn func(leave.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&conn{db: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Leave ledger (append-only; status is the one workflow-mutable column)
	CREATE TABLE IF NOT EXISTS leave_requests (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		leave_type TEXT NOT NULL,
		request_type TEXT NOT NULL,
		original_id TEXT,
		start_date TEXT NOT NULL,
		end_date TEXT NOT NULL,
		start_time TEXT,
		end_time TEXT,
		total_days TEXT NOT NULL,
		overtime_request_id TEXT,
		substitutes_json TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		reason TEXT,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_leave_requests_owner
		ON leave_requests(owner_id);
	CREATE INDEX IF NOT EXISTS idx_leave_requests_original
		ON leave_requests(original_id) WHERE original_id IS NOT NULL;
	CREATE INDEX IF NOT EXISTS idx_leave_requests_start
		ON leave_requests(start_date);

	-- Overtime ledger, mirrors the leave lineage shape
	CREATE TABLE IF NOT EXISTS overtime_requests (
		id TEXT PRIMARY KEY,
		owner_id TEXT NOT NULL,
		request_type TEXT NOT NULL,
		original_id TEXT,
		work_date TEXT NOT NULL,
		start_time TEXT NOT NULL,
		end_time TEXT NOT NULL,
		total_hours TEXT NOT NULL,
		recognized_hours TEXT NOT NULL,
		recognized_days TEXT NOT NULL,
		is_holiday BOOLEAN NOT NULL DEFAULT FALSE,
		title TEXT,
		location TEXT,
		reason TEXT,
		planned_json TEXT,
		status TEXT NOT NULL DEFAULT 'pending',
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_overtime_requests_owner
		ON overtime_requests(owner_id);
	CREATE INDEX IF NOT EXISTS idx_overtime_requests_original
		ON overtime_requests(original_id) WHERE original_id IS NOT NULL;
	CREATE INDEX IF NOT EXISTS idx_overtime_requests_work_date
		ON overtime_requests(work_date);

	-- Approval lines: exactly one request reference per line
	CREATE TABLE IF NOT EXISTS approval_lines (
		id TEXT PRIMARY KEY,
		leave_request_id TEXT,
		overtime_request_id TEXT,
		approver_id TEXT NOT NULL,
		step_order INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'pending',
		comment TEXT,
		decided_at TEXT,
		created_at TEXT NOT NULL,
		CHECK ((leave_request_id IS NULL) <> (overtime_request_id IS NULL))
	);

	CREATE INDEX IF NOT EXISTS idx_approval_lines_approver_status
		ON approval_lines(approver_id, status);
	CREATE INDEX IF NOT EXISTS idx_approval_lines_leave
		ON approval_lines(leave_request_id) WHERE leave_request_id IS NOT NULL;
	CREATE INDEX IF NOT EXISTS idx_approval_lines_overtime
		ON approval_lines(overtime_request_id) WHERE overtime_request_id IS NOT NULL;

	-- Per (user, year) entitlement overrides
	CREATE TABLE IF NOT EXISTS allocations (
		user_id TEXT NOT NULL,
		year INTEGER NOT NULL,
		total_days TEXT NOT NULL,
		PRIMARY KEY (user_id, year)
	);

	-- Profiles with running counters
	CREATE TABLE IF NOT EXISTS profiles (
		user_id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		department TEXT,
		position TEXT,
		role TEXT,
		total_leave_days TEXT NOT NULL DEFAULT '0',
		used_leave_days TEXT NOT NULL DEFAULT '0',
		extra_leave_days TEXT NOT NULL DEFAULT '0',
		extra_used_leave_days TEXT NOT NULL DEFAULT '0',
		join_date TEXT,
		resigned_at TEXT
	);

	-- Holiday calendar
	CREATE TABLE IF NOT EXISTS holidays (
		date TEXT PRIMARY KEY,
		title TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// CONNECTION - all leave.Store methods, usable on *sql.DB or *sql.Tx
// =============================================================================

type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type conn struct {
	db dbtx
}

// =============================================================================
// LEAVE REQUESTS
// =============================================================================

const leaveRequestColumns = `id, owner_id, leave_type, request_type, original_id,
	start_date, end_date, start_time, end_time, total_days,
	overtime_request_id, substitutes_json, status, reason, created_at`

func (c *conn) InsertLeaveRequest(ctx context.Context, r leave.LeaveRequest) error {
	substitutes, err := json.Marshal(r.Substitutes)
	if err != nil {
		return fmt.Errorf("failed to encode substitutes: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO leave_requests (`+leaveRequestColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.OwnerID,
		r.LeaveType,
		r.RequestType,
		requestIDPtr(r.OriginalID),
		r.StartDate.String(),
		r.EndDate.String(),
		timeOfDayPtr(r.StartTime),
		timeOfDayPtr(r.EndTime),
		r.TotalDays.String(),
		requestIDPtr(r.OvertimeID),
		string(substitutes),
		r.Status,
		nullString(r.Reason),
		r.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert leave request: %w", err)
	}
	return nil
}

func (c *conn) GetLeaveRequest(ctx context.Context, id leave.RequestID) (*leave.LeaveRequest, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT `+leaveRequestColumns+` FROM leave_requests WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	r, err := scanLeaveRequest(rows)
	if err != nil {
		return nil, err
	}
	return &r, rows.Err()
}

func (c *conn) ListLeaveRequestsByOwner(ctx context.Context, owner leave.UserID) ([]leave.LeaveRequest, error) {
	return c.queryLeaveRequests(ctx,
		`SELECT `+leaveRequestColumns+` FROM leave_requests
		 WHERE owner_id = ? ORDER BY created_at ASC, id ASC`, owner)
}

func (c *conn) ListLeaveRequests(ctx context.Context) ([]leave.LeaveRequest, error) {
	return c.queryLeaveRequests(ctx,
		`SELECT `+leaveRequestColumns+` FROM leave_requests
		 ORDER BY created_at ASC, id ASC`)
}

func (c *conn) SetLeaveRequestStatus(ctx context.Context, id leave.RequestID, status leave.Status) error {
	res, err := c.db.ExecContext(ctx,
		`UPDATE leave_requests SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update leave request status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return leave.ErrNotFound
	}
	return nil
}

func (c *conn) queryLeaveRequests(ctx context.Context, query string, args ...any) ([]leave.LeaveRequest, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	var records []leave.LeaveRequest
	for rows.Next() {
		r, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func scanLeaveRequest(rows *sql.Rows) (leave.LeaveRequest, error) {
	var (
		r                       leave.LeaveRequest
		originalID, overtimeID  sql.NullString
		startDate, endDate      string
		startTime, endTime      sql.NullString
		totalDays               string
		substitutesJSON, reason sql.NullString
		createdAt               string
	)

	err := rows.Scan(
		&r.ID, &r.OwnerID, &r.LeaveType, &r.RequestType, &originalID,
		&startDate, &endDate, &startTime, &endTime, &totalDays,
		&overtimeID, &substitutesJSON, &r.Status, &reason, &createdAt,
	)
	if err != nil {
		return r, fmt.Errorf("failed to scan leave request: %w", err)
	}

	r.OriginalID = toRequestID(originalID)
	r.OvertimeID = toRequestID(overtimeID)
	r.StartDate, _ = leave.ParseDate(startDate)
	r.EndDate, _ = leave.ParseDate(endDate)
	r.StartTime = toTimeOfDay(startTime)
	r.EndTime = toTimeOfDay(endTime)
	r.TotalDays = parseDecimal(totalDays)
	r.Reason = reason.String
	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)

	if substitutesJSON.Valid && substitutesJSON.String != "" {
		if err := json.Unmarshal([]byte(substitutesJSON.String), &r.Substitutes); err != nil {
			return r, fmt.Errorf("failed to decode substitutes: %w", err)
		}
	}
	return r, nil
}

// =============================================================================
// OVERTIME REQUESTS
// =============================================================================

const overtimeRequestColumns = `id, owner_id, request_type, original_id, work_date,
	start_time, end_time, total_hours, recognized_hours, recognized_days,
	is_holiday, title, location, reason, planned_json, status, created_at`

func (c *conn) InsertOvertimeRequest(ctx context.Context, r leave.OvertimeRequest) error {
	planned, err := json.Marshal(r.PlannedWork)
	if err != nil {
		return fmt.Errorf("failed to encode planned work: %w", err)
	}

	_, err = c.db.ExecContext(ctx, `
		INSERT INTO overtime_requests (`+overtimeRequestColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID,
		r.OwnerID,
		r.RequestType,
		requestIDPtr(r.OriginalID),
		r.WorkDate.String(),
		r.StartTime.String(),
		r.EndTime.String(),
		r.TotalHours.String(),
		r.RecognizedHours.String(),
		r.RecognizedDays.String(),
		r.IsHoliday,
		nullString(r.Title),
		nullString(r.Location),
		nullString(r.Reason),
		string(planned),
		r.Status,
		r.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert overtime request: %w", err)
	}
	return nil
}

func (c *conn) GetOvertimeRequest(ctx context.Context, id leave.RequestID) (*leave.OvertimeRequest, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT `+overtimeRequestColumns+` FROM overtime_requests WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	r, err := scanOvertimeRequest(rows)
	if err != nil {
		return nil, err
	}
	return &r, rows.Err()
}

func (c *conn) ListOvertimeRequestsByOwner(ctx context.Context, owner leave.UserID) ([]leave.OvertimeRequest, error) {
	return c.queryOvertimeRequests(ctx,
		`SELECT `+overtimeRequestColumns+` FROM overtime_requests
		 WHERE owner_id = ? ORDER BY created_at ASC, id ASC`, owner)
}

func (c *conn) ListOvertimeRequests(ctx context.Context) ([]leave.OvertimeRequest, error) {
	return c.queryOvertimeRequests(ctx,
		`SELECT `+overtimeRequestColumns+` FROM overtime_requests
		 ORDER BY created_at ASC, id ASC`)
}

func (c *conn) SetOvertimeRequestStatus(ctx context.Context, id leave.RequestID, status leave.Status) error {
	res, err := c.db.ExecContext(ctx,
		`UPDATE overtime_requests SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update overtime request status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return leave.ErrNotFound
	}
	return nil
}

func (c *conn) queryOvertimeRequests(ctx context.Context, query string, args ...any) ([]leave.OvertimeRequest, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query overtime requests: %w", err)
	}
	defer rows.Close()

	var records []leave.OvertimeRequest
	for rows.Next() {
		r, err := scanOvertimeRequest(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

func scanOvertimeRequest(rows *sql.Rows) (leave.OvertimeRequest, error) {
	var (
		r                             leave.OvertimeRequest
		originalID                    sql.NullString
		workDate, startTime, endTime  string
		totalHours, recHours, recDays string
		title, location, reason       sql.NullString
		plannedJSON                   sql.NullString
		createdAt                     string
	)

	err := rows.Scan(
		&r.ID, &r.OwnerID, &r.RequestType, &originalID, &workDate,
		&startTime, &endTime, &totalHours, &recHours, &recDays,
		&r.IsHoliday, &title, &location, &reason, &plannedJSON,
		&r.Status, &createdAt,
	)
	if err != nil {
		return r, fmt.Errorf("failed to scan overtime request: %w", err)
	}

	r.OriginalID = toRequestID(originalID)
	r.WorkDate, _ = leave.ParseDate(workDate)
	r.StartTime, _ = leave.ParseTimeOfDay(startTime)
	r.EndTime, _ = leave.ParseTimeOfDay(endTime)
	r.TotalHours = parseDecimal(totalHours)
	r.RecognizedHours = parseDecimal(recHours)
	r.RecognizedDays = parseDecimal(recDays)
	r.Title = title.String
	r.Location = location.String
	r.Reason = reason.String
	r.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)

	if plannedJSON.Valid && plannedJSON.String != "" {
		if err := json.Unmarshal([]byte(plannedJSON.String), &r.PlannedWork); err != nil {
			return r, fmt.Errorf("failed to decode planned work: %w", err)
		}
	}
	return r, nil
}

// =============================================================================
// APPROVAL LINES
// =============================================================================

const approvalLineColumns = `id, leave_request_id, overtime_request_id,
	approver_id, step_order, status, comment, decided_at, created_at`

func (c *conn) InsertApprovalLine(ctx context.Context, l leave.ApprovalLine) error {
	var decidedAt *string
	if l.DecidedAt != nil {
		s := l.DecidedAt.UTC().Format(time.RFC3339Nano)
		decidedAt = &s
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO approval_lines (`+approvalLineColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.ID,
		requestIDPtr(l.LeaveRequestID),
		requestIDPtr(l.OvertimeRequestID),
		l.ApproverID,
		l.StepOrder,
		l.Status,
		nullString(l.Comment),
		decidedAt,
		l.CreatedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to insert approval line: %w", err)
	}
	return nil
}

func (c *conn) GetApprovalLine(ctx context.Context, id leave.LineID) (*leave.ApprovalLine, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT `+approvalLineColumns+` FROM approval_lines WHERE id = ?`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	l, err := scanApprovalLine(rows)
	if err != nil {
		return nil, err
	}
	return &l, rows.Err()
}

func (c *conn) ListApprovalLines(ctx context.Context, request leave.RequestID) ([]leave.ApprovalLine, error) {
	return c.queryApprovalLines(ctx,
		`SELECT `+approvalLineColumns+` FROM approval_lines
		 WHERE leave_request_id = ? OR overtime_request_id = ?
		 ORDER BY step_order ASC`, request, request)
}

func (c *conn) ListPendingLinesByApprover(ctx context.Context, approver leave.UserID) ([]leave.ApprovalLine, error) {
	return c.queryApprovalLines(ctx,
		`SELECT `+approvalLineColumns+` FROM approval_lines
		 WHERE approver_id = ? AND status = 'pending'
		 ORDER BY created_at ASC, step_order ASC`, approver)
}

// DecideLine is the compare-and-swap at the heart of the concurrency
// contract: the UPDATE only matches a pending row, and the affected-row
// count tells the caller whether it won the race.
func (c *conn) DecideLine(ctx context.Context, id leave.LineID, status leave.LineStatus, comment string, decidedAt time.Time) (bool, error) {
	res, err := c.db.ExecContext(ctx, `
		UPDATE approval_lines
		SET status = ?, comment = ?, decided_at = ?
		WHERE id = ? AND status = 'pending'`,
		status,
		nullString(comment),
		decidedAt.UTC().Format(time.RFC3339Nano),
		id,
	)
	if err != nil {
		return false, fmt.Errorf("failed to decide approval line: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (c *conn) queryApprovalLines(ctx context.Context, query string, args ...any) ([]leave.ApprovalLine, error) {
	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query approval lines: %w", err)
	}
	defer rows.Close()

	var lines []leave.ApprovalLine
	for rows.Next() {
		l, err := scanApprovalLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func scanApprovalLine(rows *sql.Rows) (leave.ApprovalLine, error) {
	var (
		l                   leave.ApprovalLine
		leaveID, overtimeID sql.NullString
		comment, decidedAt  sql.NullString
		createdAt           string
	)

	err := rows.Scan(
		&l.ID, &leaveID, &overtimeID, &l.ApproverID, &l.StepOrder,
		&l.Status, &comment, &decidedAt, &createdAt,
	)
	if err != nil {
		return l, fmt.Errorf("failed to scan approval line: %w", err)
	}

	l.LeaveRequestID = toRequestID(leaveID)
	l.OvertimeRequestID = toRequestID(overtimeID)
	l.Comment = comment.String
	l.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	if decidedAt.Valid {
		t, err := time.Parse(time.RFC3339Nano, decidedAt.String)
		if err == nil {
			l.DecidedAt = &t
		}
	}
	return l, nil
}

// =============================================================================
// ALLOCATIONS
// =============================================================================

func (c *conn) GetAllocation(ctx context.Context, user leave.UserID, year int) (*leave.AnnualLeaveAllocation, error) {
	var totalDays string
	err := c.db.QueryRowContext(ctx,
		`SELECT total_days FROM allocations WHERE user_id = ? AND year = ?`,
		user, year,
	).Scan(&totalDays)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &leave.AnnualLeaveAllocation{
		UserID:    user,
		Year:      year,
		TotalDays: parseDecimal(totalDays),
	}, nil
}

func (c *conn) SetAllocation(ctx context.Context, a leave.AnnualLeaveAllocation) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO allocations (user_id, year, total_days)
		VALUES (?, ?, ?)
		ON CONFLICT(user_id, year) DO UPDATE SET
			total_days = excluded.total_days`,
		a.UserID, a.Year, a.TotalDays.String(),
	)
	if err != nil {
		return fmt.Errorf("failed to set allocation: %w", err)
	}
	return nil
}

func (c *conn) ListAllocationsByYear(ctx context.Context, year int) ([]leave.AnnualLeaveAllocation, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT user_id, total_days FROM allocations WHERE year = ? ORDER BY user_id`,
		year,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var allocations []leave.AnnualLeaveAllocation
	for rows.Next() {
		var userID, totalDays string
		if err := rows.Scan(&userID, &totalDays); err != nil {
			return nil, err
		}
		allocations = append(allocations, leave.AnnualLeaveAllocation{
			UserID:    leave.UserID(userID),
			Year:      year,
			TotalDays: parseDecimal(totalDays),
		})
	}
	return allocations, rows.Err()
}

// =============================================================================
// PROFILES
// =============================================================================

const profileColumns = `user_id, name, department, position, role,
	total_leave_days, used_leave_days, extra_leave_days, extra_used_leave_days,
	join_date, resigned_at`

func (c *conn) GetProfile(ctx context.Context, user leave.UserID) (*leave.Profile, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE user_id = ?`, user)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		return nil, rows.Err()
	}
	p, err := scanProfile(rows)
	if err != nil {
		return nil, err
	}
	return &p, rows.Err()
}

func (c *conn) SaveProfile(ctx context.Context, p leave.Profile) error {
	var joinDate, resignedAt *string
	if !p.JoinDate.IsZero() {
		s := p.JoinDate.String()
		joinDate = &s
	}
	if p.ResignedAt != nil {
		s := p.ResignedAt.String()
		resignedAt = &s
	}

	_, err := c.db.ExecContext(ctx, `
		INSERT INTO profiles (`+profileColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			name = excluded.name,
			department = excluded.department,
			position = excluded.position,
			role = excluded.role,
			total_leave_days = excluded.total_leave_days,
			used_leave_days = excluded.used_leave_days,
			extra_leave_days = excluded.extra_leave_days,
			extra_used_leave_days = excluded.extra_used_leave_days,
			join_date = excluded.join_date,
			resigned_at = excluded.resigned_at`,
		p.UserID, p.Name,
		nullString(p.Department), nullString(p.Position), nullString(p.Role),
		p.TotalLeaveDays.String(), p.UsedLeaveDays.String(),
		p.ExtraLeaveDays.String(), p.ExtraUsedLeaveDays.String(),
		joinDate, resignedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}
	return nil
}

func (c *conn) ListProfiles(ctx context.Context) ([]leave.Profile, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT `+profileColumns+` FROM profiles ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var profiles []leave.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		profiles = append(profiles, p)
	}
	return profiles, rows.Err()
}

func scanProfile(rows *sql.Rows) (leave.Profile, error) {
	var (
		p                          leave.Profile
		department, position, role sql.NullString
		totalDays, usedDays        string
		extraDays, extraUsedDays   string
		joinDate, resignedAt       sql.NullString
	)

	err := rows.Scan(
		&p.UserID, &p.Name, &department, &position, &role,
		&totalDays, &usedDays, &extraDays, &extraUsedDays,
		&joinDate, &resignedAt,
	)
	if err != nil {
		return p, fmt.Errorf("failed to scan profile: %w", err)
	}

	p.Department = department.String
	p.Position = position.String
	p.Role = role.String
	p.TotalLeaveDays = parseDecimal(totalDays)
	p.UsedLeaveDays = parseDecimal(usedDays)
	p.ExtraLeaveDays = parseDecimal(extraDays)
	p.ExtraUsedLeaveDays = parseDecimal(extraUsedDays)
	if joinDate.Valid {
		p.JoinDate, _ = leave.ParseDate(joinDate.String)
	}
	if resignedAt.Valid {
		d, err := leave.ParseDate(resignedAt.String)
		if err == nil {
			p.ResignedAt = &d
		}
	}
	return p, nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (c *conn) ListHolidays(ctx context.Context, from, to leave.Date) ([]leave.Holiday, error) {
	rows, err := c.db.QueryContext(ctx,
		`SELECT date, title FROM holidays WHERE date >= ? AND date <= ? ORDER BY date ASC`,
		from.String(), to.String(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []leave.Holiday
	for rows.Next() {
		var dateStr, title string
		if err := rows.Scan(&dateStr, &title); err != nil {
			return nil, err
		}
		d, err := leave.ParseDate(dateStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse holiday date %q: %w", dateStr, err)
		}
		holidays = append(holidays, leave.Holiday{Date: d, Title: title})
	}
	return holidays, rows.Err()
}

func (c *conn) IsHoliday(ctx context.Context, d leave.Date) (bool, error) {
	var count int
	err := c.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM holidays WHERE date = ?`, d.String(),
	).Scan(&count)
	return count > 0, err
}

func (c *conn) SaveHoliday(ctx context.Context, h leave.Holiday) error {
	_, err := c.db.ExecContext(ctx, `
		INSERT INTO holidays (date, title) VALUES (?, ?)
		ON CONFLICT(date) DO UPDATE SET title = excluded.title`,
		h.Date.String(), h.Title,
	)
	return err
}

func (c *conn) DeleteHoliday(ctx context.Context, d leave.Date) error {
	_, err := c.db.ExecContext(ctx, `DELETE FROM holidays WHERE date = ?`, d.String())
	return err
}

// =============================================================================
// HELPERS
// =============================================================================

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func requestIDPtr(id *leave.RequestID) *string {
	if id == nil {
		return nil
	}
	s := string(*id)
	return &s
}

func toRequestID(s sql.NullString) *leave.RequestID {
	if !s.Valid || s.String == "" {
		return nil
	}
	id := leave.RequestID(s.String)
	return &id
}

func timeOfDayPtr(t *leave.TimeOfDay) *string {
	if t == nil {
		return nil
	}
	s := t.String()
	return &s
}

func toTimeOfDay(s sql.NullString) *leave.TimeOfDay {
	if !s.Valid || s.String == "" {
		return nil
	}
	t, err := leave.ParseTimeOfDay(s.String)
	if err != nil {
		return nil
	}
	return &t
}

func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
