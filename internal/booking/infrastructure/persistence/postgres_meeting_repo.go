package persistence

import (
	"context"
	"time"

	"github.com/emZubair/Calendy/internal/booking/domain"
	"github.com/emZubair/Calendy/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// PostgresMeetingRepository implements domain.Repository using PostgreSQL.
type PostgresMeetingRepository struct {
	conn database.Connection
}

// NewPostgresMeetingRepository creates a new PostgreSQL meeting repository.
func NewPostgresMeetingRepository(conn database.Connection) *PostgresMeetingRepository {
	return &PostgresMeetingRepository{conn: conn}
}

func (r *PostgresMeetingRepository) executor(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

const postgresMeetingColumns = `id, owner_id, title, start_time, end_time, duration_minutes,
	       reserver_name, reserver_email, created_at, updated_at`

// Save persists a meeting (insert or update).
func (r *PostgresMeetingRepository) Save(ctx context.Context, meeting *domain.Meeting) error {
	query := `
		INSERT INTO meetings (
			id, owner_id, title, start_time, end_time, duration_minutes,
			reserver_name, reserver_email, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			start_time = EXCLUDED.start_time,
			end_time = EXCLUDED.end_time,
			duration_minutes = EXCLUDED.duration_minutes,
			reserver_name = EXCLUDED.reserver_name,
			reserver_email = EXCLUDED.reserver_email,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.executor(ctx).Exec(ctx, query,
		meeting.ID(),
		meeting.OwnerID(),
		meeting.Title(),
		meeting.StartTime(),
		meeting.EndTime(),
		int(meeting.Duration()),
		meeting.ReserverName(),
		meeting.ReserverEmail(),
		meeting.CreatedAt(),
		meeting.UpdatedAt(),
	)
	return err
}

// FindByID retrieves a meeting by its ID.
func (r *PostgresMeetingRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Meeting, error) {
	query := `SELECT ` + postgresMeetingColumns + ` FROM meetings WHERE id = $1`

	row := r.executor(ctx).QueryRow(ctx, query, id)
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
func (r *PostgresMeetingRepository) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*domain.Meeting, error) {
	query := `SELECT ` + postgresMeetingColumns + ` FROM meetings WHERE owner_id = $1 ORDER BY start_time`

	rows, err := r.executor(ctx).Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	return r.scanMeetings(rows)
}

// FindByOwnerContaining retrieves the owner's meetings whose span
// contains the instant, both endpoints included.
func (r *PostgresMeetingRepository) FindByOwnerContaining(ctx context.Context, ownerID uuid.UUID, at time.Time) ([]*domain.Meeting, error) {
	query := `SELECT ` + postgresMeetingColumns + `
		FROM meetings
		WHERE owner_id = $1 AND start_time <= $2 AND end_time >= $2
		ORDER BY start_time`

	rows, err := r.executor(ctx).Query(ctx, query, ownerID, at)
	if err != nil {
		return nil, err
	}
	return r.scanMeetings(rows)
}

// FindAll retrieves every meeting, earliest first.
func (r *PostgresMeetingRepository) FindAll(ctx context.Context) ([]*domain.Meeting, error) {
	query := `SELECT ` + postgresMeetingColumns + ` FROM meetings ORDER BY start_time`

	rows, err := r.executor(ctx).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	return r.scanMeetings(rows)
}

// FindBookable retrieves unreserved meetings starting at or after now.
func (r *PostgresMeetingRepository) FindBookable(ctx context.Context, now time.Time) ([]*domain.Meeting, error) {
	query := `SELECT ` + postgresMeetingColumns + `
		FROM meetings
		WHERE reserver_name IS NULL AND start_time >= $1
		ORDER BY start_time`

	rows, err := r.executor(ctx).Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	return r.scanMeetings(rows)
}

// Delete removes a meeting. Deleting an absent ID is not an error.
func (r *PostgresMeetingRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.executor(ctx).Exec(ctx, `DELETE FROM meetings WHERE id = $1`, id)
	return err
}

func (r *PostgresMeetingRepository) scanMeetings(rows database.Rows) ([]*domain.Meeting, error) {
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

func (r *PostgresMeetingRepository) scanMeeting(row database.Row) (*domain.Meeting, error) {
	var (
		id, ownerID                 uuid.UUID
		title                       string
		startTime, endTime          time.Time
		durationMinutes             int
		reserverName, reserverEmail *string
		createdAt, updatedAt        time.Time
	)

	err := row.Scan(&id, &ownerID, &title, &startTime, &endTime, &durationMinutes,
		&reserverName, &reserverEmail, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateMeeting(
		id,
		ownerID,
		title,
		startTime,
		endTime,
		domain.SlotDuration(durationMinutes),
		reserverName,
		reserverEmail,
		createdAt,
		updatedAt,
	), nil
}
