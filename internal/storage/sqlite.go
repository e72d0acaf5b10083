package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite" // SQLite driver registration.

	"scholar_bot/internal/model"
	"scholar_bot/migrations"
)

// SQLite implements Storage backed by a SQLite database.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at dsn and runs pending migrations.
func NewSQLite(dsn string) (*SQLite, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if err := migrations.Run(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// Subscribe records a (user, scholarship) pair. The primary key makes the
// insert atomic; a pre-existing pair yields ErrAlreadySubscribed.
func (s *SQLite) Subscribe(ctx context.Context, userID int64, index int) error {
	res, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO subscriptions (user_id, scholarship_idx) VALUES (?, ?)`,
		userID, index,
	)
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrAlreadySubscribed
	}
	return nil
}

// Unsubscribe removes a pair and reports whether it existed.
func (s *SQLite) Unsubscribe(ctx context.Context, userID int64, index int) (bool, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM subscriptions WHERE user_id = ? AND scholarship_idx = ?`,
		userID, index,
	)
	if err != nil {
		return false, fmt.Errorf("delete subscription: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

// ListSubscriptions returns the catalog indexes a user is subscribed to,
// ascending.
func (s *SQLite) ListSubscriptions(ctx context.Context, userID int64) ([]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT scholarship_idx FROM subscriptions WHERE user_id = ? ORDER BY scholarship_idx`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query subscriptions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var indexes []int
	for rows.Next() {
		var idx int
		if err := rows.Scan(&idx); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		indexes = append(indexes, idx)
	}
	return indexes, rows.Err()
}

// ListAllSubscriptions returns every (user, index) pair, the scheduler's
// scan input.
func (s *SQLite) ListAllSubscriptions(ctx context.Context) ([]model.Subscription, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, scholarship_idx FROM subscriptions ORDER BY user_id, scholarship_idx`,
	)
	if err != nil {
		return nil, fmt.Errorf("query all subscriptions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var subs []model.Subscription
	for rows.Next() {
		var sub model.Subscription
		if err := rows.Scan(&sub.UserID, &sub.Index); err != nil {
			return nil, fmt.Errorf("scan subscription: %w", err)
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

// SaveProfile inserts or wholesale-replaces a user's profile.
func (s *SQLite) SaveProfile(ctx context.Context, p *model.UserProfile) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO user_profiles
		 (user_id, name, country, education_level, gpa, field_of_interest, career_goals, financial_need)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		p.UserID, p.Name, p.Country, p.Level, p.GPA, p.Field, p.CareerGoals, boolToInt(p.FinancialNeed),
	)
	if err != nil {
		return fmt.Errorf("save profile: %w", err)
	}
	return nil
}

// GetProfile returns a user's profile, or ErrNotFound.
func (s *SQLite) GetProfile(ctx context.Context, userID int64) (*model.UserProfile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT user_id, name, country, education_level, gpa, field_of_interest, career_goals, financial_need
		 FROM user_profiles WHERE user_id = ?`, userID,
	)
	var p model.UserProfile
	var finNeed int
	err := row.Scan(&p.UserID, &p.Name, &p.Country, &p.Level, &p.GPA, &p.Field, &p.CareerGoals, &finNeed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan profile: %w", err)
	}
	p.FinancialNeed = finNeed == 1
	return &p, nil
}

// ToggleChecklistItem flips one checklist item and returns the new state.
func (s *SQLite) ToggleChecklistItem(ctx context.Context, userID int64, index int) (bool, error) {
	var checked int
	err := s.db.QueryRowContext(ctx,
		`SELECT checked FROM checklist_progress WHERE user_id = ? AND item_idx = ?`,
		userID, index,
	).Scan(&checked)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return false, fmt.Errorf("query checklist item: %w", err)
	}

	newVal := 1
	if checked == 1 {
		newVal = 0
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO checklist_progress (user_id, item_idx, checked) VALUES (?, ?, ?)`,
		userID, index, newVal,
	)
	if err != nil {
		return false, fmt.Errorf("update checklist item: %w", err)
	}
	return newVal == 1, nil
}

// ChecklistState returns the checked flags a user has stored, keyed by item
// index. Items never touched are absent.
func (s *SQLite) ChecklistState(ctx context.Context, userID int64) (map[int]bool, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT item_idx, checked FROM checklist_progress WHERE user_id = ?`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query checklist: %w", err)
	}
	defer func() { _ = rows.Close() }()

	state := make(map[int]bool)
	for rows.Next() {
		var idx, checked int
		if err := rows.Scan(&idx, &checked); err != nil {
			return nil, fmt.Errorf("scan checklist item: %w", err)
		}
		state[idx] = checked == 1
	}
	return state, rows.Err()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
