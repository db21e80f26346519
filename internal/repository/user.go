package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/muslimah-travel/internal/database"
	"github.com/deppfellow/muslimah-travel/internal/model"
	"github.com/deppfellow/muslimah-travel/internal/server"
	"github.com/jackc/pgx/v5"
)

const userColumns = `id, email, password, full_name, phone_number, avatar_url, avatar_public_id, role,
	reset_password_token, reset_password_expires, created_at, updated_at`

type UserRepository struct {
	server *server.Server
	q      database.Querier
}

func NewUserRepository(s *server.Server) *UserRepository {
	return &UserRepository{server: s, q: s.DB.Pool}
}

func (r *UserRepository) WithTx(tx pgx.Tx) *UserRepository {
	return &UserRepository{server: r.server, q: tx}
}

type CreateUserParams struct {
	Email        string
	PasswordHash string
	FullName     string
	PhoneNumber  *string
	Role         model.Role
}

func (r *UserRepository) Create(ctx context.Context, p CreateUserParams) (model.User, error) {
	rows, err := r.q.Query(ctx, `
		INSERT INTO users (email, password, full_name, phone_number, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		p.Email, p.PasswordHash, p.FullName, p.PhoneNumber, p.Role)
	return collectOne[model.User](rows, err, "users")
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (model.User, error) {
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return collectOne[model.User](rows, err, "users")
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	return collectOne[model.User](rows, err, "users")
}

// GetByResetToken ignores the expiry; callers decide what an expired
// token means.
func (r *UserRepository) GetByResetToken(ctx context.Context, token string) (model.User, error) {
	rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users WHERE reset_password_token = $1`, token)
	return collectOne[model.User](rows, err, "users")
}

// EmailTaken reports whether another user than excludeID owns email.
// Pass an empty excludeID to check against every user.
func (r *UserRepository) EmailTaken(ctx context.Context, email, excludeID string) (bool, error) {
	var taken bool
	err := r.q.QueryRow(ctx, `
		SELECT EXISTS(SELECT 1 FROM users WHERE email = $1 AND ($2 = '' OR id::text <> $2))`,
		email, excludeID).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return taken, nil
}

// Update applies set and returns the updated user. Empty sets are a 400.
func (r *UserRepository) Update(ctx context.Context, id string, set *database.UpdateSet) (model.User, error) {
	return database.UpdateTx[model.User](ctx, r.q, "users", id, set, userColumns)
}

func (r *UserRepository) SetAvatar(ctx context.Context, id string, url, publicID *string) (model.User, error) {
	set := database.NewUpdateSet().Add("avatar_url", url).Add("avatar_public_id", publicID)
	return r.Update(ctx, id, set)
}

// UpdatePassword stores hash and clears any pending reset token.
func (r *UserRepository) UpdatePassword(ctx context.Context, id, hash string) error {
	set := database.NewUpdateSet().
		Add("password", hash).
		Add("reset_password_token", nil).
		Add("reset_password_expires", nil)
	_, err := r.Update(ctx, id, set)
	return err
}

func (r *UserRepository) SetResetToken(ctx context.Context, id, token string, expires time.Time) error {
	set := database.NewUpdateSet().
		Add("reset_password_token", token).
		Add("reset_password_expires", expires)
	_, err := r.Update(ctx, id, set)
	return err
}

// List returns users with their booking counts, newest first. search
// matches name, email or phone.
func (r *UserRepository) List(ctx context.Context, search string, page model.PageQuery) (model.Page[model.UserSummary], error) {
	page = page.Normalize()

	var w where
	if search != "" {
		w.add("(u.full_name ILIKE ? OR u.email ILIKE ? OR u.phone_number ILIKE ?)", likePattern(search))
	}

	total, err := count(ctx, r.q, `SELECT COUNT(*) FROM users u `+w.String(), w.args...)
	if err != nil {
		return model.Page[model.UserSummary]{}, err
	}

	sql := fmt.Sprintf(`
		SELECT u.id, u.email, u.full_name, u.phone_number, u.role, u.created_at,
			(SELECT COUNT(*) FROM bookings b WHERE b.user_id = u.id) AS booking_count
		FROM users u
		%s
		ORDER BY u.created_at DESC
		LIMIT %s OFFSET %s`, w.String(), w.next(page.Limit), w.next(page.Offset()))

	rows, err := r.q.Query(ctx, sql, w.args...)
	items, err := collectAll[model.UserSummary](rows, err, "users")
	if err != nil {
		return model.Page[model.UserSummary]{}, err
	}

	return model.Page[model.UserSummary]{Items: items, Pagination: model.NewPagination(page, total)}, nil
}
