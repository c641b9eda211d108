package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/emZubair/Calendy/internal/identity/domain"
	"github.com/emZubair/Calendy/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// SQLiteUserRepository implements domain.Repository using SQLite.
type SQLiteUserRepository struct {
	conn database.Connection
}

// NewSQLiteUserRepository creates a new SQLite user repository.
func NewSQLiteUserRepository(conn database.Connection) *SQLiteUserRepository {
	return &SQLiteUserRepository{conn: conn}
}

func (r *SQLiteUserRepository) executor(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

const sqliteUserColumns = `id, username, first_name, last_name, email, created_at, updated_at`

// Save persists a user (insert or update).
func (r *SQLiteUserRepository) Save(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, first_name, last_name, email, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			username = excluded.username,
			first_name = excluded.first_name,
			last_name = excluded.last_name,
			email = excluded.email,
			updated_at = excluded.updated_at
	`

	_, err := r.executor(ctx).Exec(ctx, query,
		user.ID().String(),
		user.Username().String(),
		user.FirstName(),
		user.LastName(),
		user.Email().String(),
		formatTime(user.CreatedAt()),
		formatTime(user.UpdatedAt()),
	)
	return err
}

// FindByID retrieves a user by their ID.
func (r *SQLiteUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + sqliteUserColumns + ` FROM users WHERE id = ?`

	row := r.executor(ctx).QueryRow(ctx, query, id.String())
	user, err := r.scanUser(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// FindByUsername retrieves a user by their exact username.
func (r *SQLiteUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + sqliteUserColumns + ` FROM users WHERE username = ?`

	row := r.executor(ctx).QueryRow(ctx, query, username)
	user, err := r.scanUser(row)
	if err != nil {
		if database.IsNoRows(err) {
			return nil, nil
		}
		return nil, err
	}
	return user, nil
}

// FindByIdentifier retrieves users whose username, first name or last
// name matches the identifier, case-insensitively. A blank identifier
// matches nobody.
func (r *SQLiteUserRepository) FindByIdentifier(ctx context.Context, identifier string) ([]*domain.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, nil
	}

	query := `SELECT ` + sqliteUserColumns + `
		FROM users
		WHERE LOWER(username) = LOWER(?)
		   OR LOWER(first_name) = LOWER(?)
		   OR LOWER(last_name) = LOWER(?)
		ORDER BY username`

	rows, err := r.executor(ctx).Query(ctx, query, identifier, identifier, identifier)
	if err != nil {
		return nil, err
	}
	return r.scanUsers(rows)
}

func (r *SQLiteUserRepository) scanUsers(rows database.Rows) ([]*domain.User, error) {
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		user, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *SQLiteUserRepository) scanUser(row database.Row) (*domain.User, error) {
	var (
		id, username         string
		firstName, lastName  string
		email                string
		createdAt, updatedAt string
	)

	err := row.Scan(&id, &username, &firstName, &lastName, &email, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	userID, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}
	name, err := domain.NewUsername(username)
	if err != nil {
		return nil, err
	}
	address, err := domain.NewEmail(email)
	if err != nil {
		return nil, err
	}
	created, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, err
	}

	return domain.RehydrateUser(userID, name, address, firstName, lastName, created, updated), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}
