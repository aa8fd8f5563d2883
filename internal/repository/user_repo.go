package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/blog-platform-api/internal/database"
	"github.com/blog-platform-api/internal/models"
)

const userColumns = `u.id, u.name, u.email, u.password_hash, u.is_admin, u.is_banned,
	u.bio, u.avatar_url, u.cover_url, u.website, u.location, u.created_at, u.updated_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.IsAdmin, &user.IsBanned,
		&user.Bio, &user.AvatarURL, &user.CoverURL, &user.Website, &user.Location,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// userRepo is the concrete implementation of UserRepository
type userRepo struct {
	db *database.DB
}

// NewUserRepo creates a new user repository
func NewUserRepo(db *database.DB) UserRepository {
	return &userRepo{db: db}
}

// Create inserts a new user. is_admin is decided in the same statement:
// it is true only when the users table is empty. The table lock makes
// concurrent sign-ups wait, so only one of them can see an empty table.
func (r *userRepo) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, name, email, password_hash, is_admin, is_banned,
			bio, avatar_url, cover_url, website, location, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOT EXISTS (SELECT 1 FROM users), FALSE, $5, $6, $7, $8, $9, $10, $10)
		RETURNING is_admin
	`
	now := time.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = user.CreatedAt
	user.Email = strings.ToLower(user.Email)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, lockUsersForInsert); err != nil {
		return err
	}

	err = tx.QueryRowContext(ctx, query,
		user.ID, user.Name, user.Email, user.PasswordHash,
		user.Bio, user.AvatarURL, user.CoverURL, user.Website, user.Location,
		user.CreatedAt,
	).Scan(&user.IsAdmin)
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	if err != nil {
		return err
	}

	return tx.Commit()
}

// lockUsersForInsert conflicts with itself and with plain inserts, but not
// with readers.
const lockUsersForInsert = `LOCK TABLE users IN SHARE ROW EXCLUSIVE MODE`

// GetByID retrieves a user by ID
func (r *userRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users u WHERE u.id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return user, err
}

// GetByEmail retrieves a user by email, case-insensitively
func (r *userRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users u WHERE u.email = $1`, strings.ToLower(email)))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	return user, err
}

// UpdateProfile writes the editable profile fields
func (r *userRepo) UpdateProfile(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET name = $1, bio = $2, avatar_url = $3, cover_url = $4,
			website = $5, location = $6, updated_at = $7
		WHERE id = $8
	`
	user.UpdatedAt = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		user.Name, user.Bio, user.AvatarURL, user.CoverURL,
		user.Website, user.Location, user.UpdatedAt, user.ID,
	)
	return err
}

// SetBanned sets the banned flag; false is returned for an unknown user
func (r *userRepo) SetBanned(ctx context.Context, id string, banned bool) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_banned = $1, updated_at = NOW() WHERE id = $2`, banned, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// SetAdmin sets the admin flag; false is returned for an unknown user
func (r *userRepo) SetAdmin(ctx context.Context, id string, admin bool) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_admin = $1, updated_at = NOW() WHERE id = $2`, admin, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}

// List returns one page of users, newest first, and the total count
func (r *userRepo) List(ctx context.Context, page, limit int) ([]*models.User, int, error) {
	total, err := r.Count(ctx)
	if err != nil {
		return nil, 0, err
	}

	offset := 0
	if page > 1 {
		offset = (page - 1) * limit
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users u ORDER BY u.created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users, err := collectUsers(rows)
	return users, total, err
}

// ListAdminIDs returns the IDs of every admin
func (r *userRepo) ListAdminIDs(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id FROM users WHERE is_admin AND NOT is_banned`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Count returns the total number of users
func (r *userRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

// StreamAll streams all users for export
func (r *userRepo) StreamAll(ctx context.Context, callback func(*models.User) error) error {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users u ORDER BY u.created_at`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return err
		}
		if err := callback(user); err != nil {
			return err
		}
	}

	return rows.Err()
}

func collectUsers(rows *sql.Rows) ([]*models.User, error) {
	users := make([]*models.User, 0)
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}
