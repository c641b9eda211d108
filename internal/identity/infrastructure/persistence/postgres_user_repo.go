package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/emZubair/Calendy/internal/identity/domain"
	"github.com/emZubair/Calendy/internal/shared/infrastructure/database"
	"github.com/google/uuid"
)

// PostgresUserRepository implements domain.Repository using PostgreSQL.
type PostgresUserRepository struct {
	conn database.Connection
}

// NewPostgresUserRepository creates a new PostgreSQL user repository.
func NewPostgresUserRepository(conn database.Connection) *PostgresUserRepository {
	return &PostgresUserRepository{conn: conn}
}

func (r *PostgresUserRepository) executor(ctx context.Context) database.Executor {
	return database.ExecutorFromContext(ctx, r.conn)
}

const postgresUserColumns = `id, username, first_name, last_name, email, created_at, updated_at`

// Save persists a user (insert or update).
func (r *PostgresUserRepository) Save(ctx context.Context, user *domain.User) error {
	query := `
		INSERT INTO users (id, username, first_name, last_name, email, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (id) DO UPDATE SET
			username = EXCLUDED.username,
			first_name = EXCLUDED.first_name,
			last_name = EXCLUDED.last_name,
			email = EXCLUDED.email,
			updated_at = EXCLUDED.updated_at
	`

	_, err := r.executor(ctx).Exec(ctx, query,
		user.ID(),
		user.Username().String(),
		user.FirstName(),
		user.LastName(),
		user.Email().String(),
		user.CreatedAt(),
		user.UpdatedAt(),
	)
	return err
}

// FindByID retrieves a user by their ID.
func (r *PostgresUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	query := `SELECT ` + postgresUserColumns + ` FROM users WHERE id = $1`

	row := r.executor(ctx).QueryRow(ctx, query, id)
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
func (r *PostgresUserRepository) FindByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT ` + postgresUserColumns + ` FROM users WHERE username = $1`

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
func (r *PostgresUserRepository) FindByIdentifier(ctx context.Context, identifier string) ([]*domain.User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return nil, nil
	}

	query := `SELECT ` + postgresUserColumns + `
		FROM users
		WHERE LOWER(username) = LOWER($1)
		   OR LOWER(first_name) = LOWER($1)
		   OR LOWER(last_name) = LOWER($1)
		ORDER BY username`

	rows, err := r.executor(ctx).Query(ctx, query, identifier)
	if err != nil {
		return nil, err
	}
	return r.scanUsers(rows)
}

func (r *PostgresUserRepository) scanUsers(rows database.Rows) ([]*domain.User, error) {
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

func (r *PostgresUserRepository) scanUser(row database.Row) (*domain.User, error) {
	var (
		id                   uuid.UUID
		username             string
		firstName, lastName  string
		email                string
		createdAt, updatedAt time.Time
	)

	err := row.Scan(&id, &username, &firstName, &lastName, &email, &createdAt, &updatedAt)
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

	return domain.RehydrateUser(id, name, address, firstName, lastName, createdAt, updatedAt), nil
}
