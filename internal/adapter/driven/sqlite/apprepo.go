package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/camdenr/trackhub/internal/domain/model"
	"github.com/camdenr/trackhub/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.AppStore  = (*AppRepo)(nil)
	_ driven.UserStore = (*UserRepo)(nil)
)

// AppRepo is the SQLite implementation of the AppStore port interface.
type AppRepo struct {
	db *DB
}

// NewAppRepo creates a new AppRepo backed by the given DB.
func NewAppRepo(db *DB) *AppRepo {
	return &AppRepo{db: db}
}

// Create inserts a new app descriptor and returns its id.
func (r *AppRepo) Create(ctx context.Context, app model.App) (int64, error) {
	const query = `INSERT INTO apps (name, status, created_at) VALUES (?, ?, ?)`

	result, err := r.db.Writer.ExecContext(ctx, query, app.Name, string(app.Status), app.CreatedAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("create app %q: %w", app.Name, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id for app %q: %w", app.Name, err)
	}

	return id, nil
}

// GetByID retrieves an app by id. Returns (nil, nil) if it does not exist.
func (r *AppRepo) GetByID(ctx context.Context, id int64) (*model.App, error) {
	const query = `SELECT id, name, status, created_at FROM apps WHERE id = ?`

	var app model.App
	var status, createdAt string
	err := r.db.Reader.QueryRowContext(ctx, query, id).Scan(&app.ID, &app.Name, &status, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get app %d: %w", id, err)
	}

	app.Status = model.AppStatus(status)
	app.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &app, nil
}

// UserRepo is the SQLite implementation of the UserStore port interface.
type UserRepo struct {
	db *DB
}

// NewUserRepo creates a new UserRepo backed by the given DB.
func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

// Create inserts a new user and returns its id.
func (r *UserRepo) Create(ctx context.Context, user model.User) (int64, error) {
	const query = `INSERT INTO users (email, name, created_at) VALUES (?, ?, ?)`

	result, err := r.db.Writer.ExecContext(ctx, query, user.Email, user.Name, user.CreatedAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("create user %q: %w", user.Email, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id for user %q: %w", user.Email, err)
	}

	return id, nil
}

// GetByID retrieves a user by id. Returns (nil, nil) if it does not exist.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*model.User, error) {
	const query = `SELECT id, email, name, created_at FROM users WHERE id = ?`

	var user model.User
	var createdAt string
	err := r.db.Reader.QueryRowContext(ctx, query, id).Scan(&user.ID, &user.Email, &user.Name, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get user %d: %w", id, err)
	}

	user.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}

	return &user, nil
}
