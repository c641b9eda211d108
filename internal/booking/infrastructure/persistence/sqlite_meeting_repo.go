package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/emZubair/Calendy/internal/booking/domain"
	"github.com/emZubair/Calendy/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// SQLiteMeetingRepository implements domain.Repository using SQLite.
// Timestamps are stored as RFC3339 text in UTC so that lexicographic
// comparison in SQL matches chronological order.
type SQLiteMeetingRepository struct {
	conn database.Connection
}

// NewSQLiteMeetingRepository creates a new SQLite meeting repository.
func NewSQLiteMeetingRepository(conn database.Connection) *SQLiteMeetingRepository {
	return &SQLiteMeetingRepository{conn: conn}
}

func (r *SQLiteMeetingRepository) executor(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

const sqliteMeetingColumns = `id, owner_id, title, start_time, end_time, duration_minutes,
	       reserver_name, reserver_email, created_at, updated_at`

// Save persists a meeting (insert or update).
func (r *SQLiteMeetingRepository) Save(ctx context.Context, meeting *domain.Meeting) error {
	query := `
		INSERT INTO meetings (
			id, owner_id, title, start_time, end_time, duration_minutes,
			reserver_name, reserver_email, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			title = excluded.title,
			start_time = excluded.start_time,
			end_time = excluded.end_time,
			duration_minutes = excluded.duration_minutes,
			reserver_name = excluded.reserver_name,
			reserver_email = excluded.reserver_email,
			updated_at = excluded.updated_at
	`

	_, err := r.executor(ctx).Exec(ctx, query,
		meeting.ID().String(),
		meeting.OwnerID().String(),
		meeting.Title(),
		formatTime(meeting.StartTime()),
		formatTime(meeting.EndTime()),
		int64(meeting.Duration()),
		nullString(meeting.ReserverName()),
		nullString(meeting.ReserverEmail()),
		formatTime(meeting.CreatedAt()),
		formatTime(meeting.UpdatedAt()),
	)
	return err
}

// FindByID retrieves a meeting by its ID.
func (r *SQLiteMeetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Meeting, error) {
	query := `SELECT ` + sqliteMeetingColumns + ` FROM meetings WHERE id = ?`

	row := r.executor(ctx).QueryRow(ctx, query, id.String())
	meeting, err := r.scanMeeting(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return meeting, nil
}

// FindByOwnerID retrieves all meetings owned by a user, earliest first.
func (r *SQLiteMeetingRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*domain.Meeting, error) {
	query := `SELECT ` + sqliteMeetingColumns + ` FROM meetings WHERE owner_id = ? ORDER BY start_time`

	rows, err := r.executor(ctx).Query(ctx, query, ownerID.String())
	if err != nil {
		return nil, err
	}
	return r.scanMeetings(rows)
}

// FindByOwnerContaining retrieves the owner's meetings whose span
// contains the instant, both endpoints included.
func (r *SQLiteMeetingRepository) FindByOwnerContaining(ctx context.Context, ownerID uuid.UUID, at time.Time) ([]*domain.Meeting, error) {
	query := `SELECT ` + sqliteMeetingColumns + `
		FROM meetings
		WHERE owner_id = ? AND start_time <= ? AND end_time >= ?
		ORDER BY start_time`

	instant := formatTime(at)
	rows, err := r.executor(ctx).Query(ctx, query, ownerID.String(), instant, instant)
	if err != nil {
		return nil, err
	}
	return r.scanMeetings(rows)
}

// FindAll retrieves every meeting, earliest first.
func (r *SQLiteMeetingRepository) FindAll(ctx context.Context) ([]*domain.Meeting, error) {
	query := `SELECT ` + sqliteMeetingColumns + ` FROM meetings ORDER BY start_time`

	rows, err := r.executor(ctx).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return r.scanMeetings(rows)
}

// FindBookable retrieves unreserved meetings starting at or after now.
func (r *SQLiteMeetingRepository) FindBookable(ctx context.Context, now time.Time) ([]*domain.Meeting, error) {
	query := `SELECT ` + sqliteMeetingColumns + `
		FROM meetings
		WHERE reserver_name IS NULL AND start_time >= ?
		ORDER BY start_time`

	rows, err := r.executor(ctx).Query(ctx, query, formatTime(now))
	if err != nil {
		return nil, err
	}
	return r.scanMeetings(rows)
}

// Delete removes a meeting. Deleting an absent ID is not an error.
func (r *SQLiteMeetingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.executor(ctx).Exec(ctx, `DELETE FROM meetings WHERE id = ?`, id.String())
	return err
}

func (r *SQLiteMeetingRepository) scanMeetings(rows database.Rows) ([]*domain.Meeting, error) {
	defer rows.Close()

	var meetings []*domain.Meeting
	for rows.Next() {
		meeting, err := r.scanMeeting(rows)
		if err != nil {
			return nil, err
		}
		meetings = append(meetings, meeting)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return meetings, nil
}

func (r *SQLiteMeetingRepository) scanMeeting(row database.Row) (*domain.Meeting, error) {
	var (
		id, ownerID, title          string
		startTime, endTime          string
		durationMinutes             int64
		reserverName, reserverEmail sql.NullString
		createdAt, updatedAt        string
	)

	err := row.Scan(&id, &ownerID, &title, &startTime, &endTime, &durationMinutes,
		&reserverName, &reserverEmail, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	meetingID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	owner, err := uuid.Parse(ownerID)
	if err != nil {
		return nil, err
	}
	start, err := parseTime(startTime)
	if err != nil {
		return nil, err
	}
	end, err := parseTime(endTime)
	if err != nil {
		return nil, err
	}
	created, err := parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateMeeting(
		meetingID,
		owner,
		title,
		start,
		end,
		domain.SlotDuration(durationMinutes),
		stringPtr(reserverName),
		stringPtr(reserverEmail),
		created,
		updated,
	), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTime(value string) (time.Time, error) {
	return time.Parse(time.RFC3339, value)
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func stringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	return &value.String
}
