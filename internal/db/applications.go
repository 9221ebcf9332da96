package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/tracker"
	"github.com/eshwarrathod01/resume-auto-apply-agent/internal/types"
)

// ApplicationStore is the tracker.Store of one session, backed by the
// application_records table. Records are ordered by position.
type ApplicationStore struct {
	db        *DB
	sessionID uuid.UUID
}

// Applications returns the application store for a session.
func (db *DB) Applications(sessionID uuid.UUID) *ApplicationStore {
	return &ApplicationStore{db: db, sessionID: sessionID}
}

var _ tracker.Store = (*ApplicationStore)(nil)

// Load returns the session's records in insertion order.
func (s *ApplicationStore) Load(ctx context.Context) ([]types.ApplicationRecord, error) {
	rows, err := s.db.pool.Query(ctx,
		`SELECT url, company, platform, applied_date, status
		 FROM application_records
		 WHERE session_id = $1
		 ORDER BY position`,
		s.sessionID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query applications: %w", err)
	}
	defer rows.Close()

	records := []types.ApplicationRecord{}
	for rows.Next() {
		var r types.ApplicationRecord
		var status string
		if err := rows.Scan(&r.URL, &r.Company, &r.Platform, &r.Date, &status); err != nil {
			return nil, fmt.Errorf("failed to scan application: %w", err)
		}
		r.Status = types.Status(status)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating applications: %w", err)
	}
	return records, nil
}

// Append inserts a record after the session's last position.
func (s *ApplicationStore) Append(ctx context.Context, record types.ApplicationRecord) error {
	_, err := s.db.pool.Exec(ctx,
		`INSERT INTO application_records (id, session_id, position, url, company, platform, applied_date, status)
		 SELECT $1, $2, COALESCE(MAX(position) + 1, 0), $3, $4, $5, $6, $7
		 FROM application_records WHERE session_id = $2`,
		uuid.New(), s.sessionID, record.URL, record.Company, record.Platform, record.Date, string(record.Status),
	)
	if err != nil {
		return fmt.Errorf("failed to insert application: %w", err)
	}
	return nil
}

// SetStatus updates the status of the record at position index.
func (s *ApplicationStore) SetStatus(ctx context.Context, index int, status types.Status) error {
	tag, err := s.db.pool.Exec(ctx,
		`UPDATE application_records SET status = $1, updated_at = NOW()
		 WHERE session_id = $2 AND position = $3`,
		string(status), s.sessionID, index,
	)
	if err != nil {
		return fmt.Errorf("failed to update application status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %d", tracker.ErrIndexOutOfRange, index)
	}
	return nil
}

// Replace swaps the session's records for records in one transaction.
func (s *ApplicationStore) Replace(ctx context.Context, records []types.ApplicationRecord) error {
	tx, err := s.db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM application_records WHERE session_id = $1`, s.sessionID); err != nil {
		return fmt.Errorf("failed to clear applications: %w", err)
	}

	rows := make([][]any, len(records))
	for i, r := range records {
		rows[i] = []any{uuid.New(), s.sessionID, i, r.URL, r.Company, r.Platform, r.Date, string(r.Status)}
	}
	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"application_records"},
		[]string{"id", "session_id", "position", "url", "company", "platform", "applied_date", "status"},
		pgx.CopyFromRows(rows),
	)
	if err != nil {
		return fmt.Errorf("failed to copy applications: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit applications: %w", err)
	}
	return nil
}

// Clear deletes every record of the session.
func (s *ApplicationStore) Clear(ctx context.Context) error {
	if _, err := s.db.pool.Exec(ctx, `DELETE FROM application_records WHERE session_id = $1`, s.sessionID); err != nil {
		return fmt.Errorf("failed to clear applications: %w", err)
	}
	return nil
}
