package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ledeuns/davical-cmdlnut/internal/database"
	"github.com/ledeuns/davical-cmdlnut/internal/model"
	"github.com/ledeuns/davical-cmdlnut/internal/repository"
)

// UserPostgres is a PostgreSQL implementation of repository.UserRepository.
// It uses database/sql with parameterized queries and contains no business logic.
type UserPostgres struct {
	db *sql.DB
}

// NewUserPostgres creates a new UserPostgres repository.
func NewUserPostgres(db *sql.DB) *UserPostgres {
	return &UserPostgres{db: db}
}

var _ repository.UserRepository = (*UserPostgres)(nil)

const userColumns = `u.user_no, p.principal_id, u.username, COALESCE(u.fullname, ''), COALESCE(u.email, ''),
		u.active, p.type_id, u.joined, u.updated, u.last_used, COALESCE(u.password, '')`

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(s scanner) (*model.User, error) {
	var (
		u                        model.User
		typeID                   int
		joined, updated, lastUse sql.NullTime
	)
	if err := s.Scan(
		&u.UserNo,
		&u.PrincipalID,
		&u.Username,
		&u.Fullname,
		&u.Email,
		&u.Active,
		&typeID,
		&joined,
		&updated,
		&lastUse,
		&u.Password,
	); err != nil {
		return nil, err
	}
	u.Type = model.PrincipalType(typeID)
	if joined.Valid {
		u.Joined = joined.Time
	}
	u.Updated = timePtr(updated)
	u.LastUsed = timePtr(lastUse)
	return &u, nil
}

func scanUsers(rows *sql.Rows) ([]model.User, error) {
	defer rows.Close()
	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

// Create inserts the usr row and its principal and returns the stored user.
func (r *UserPostgres) Create(ctx context.Context, u *model.User) (*model.User, error) {
	const qUser = `
		INSERT INTO usr (username, password, fullname, email, active, joined, updated)
		VALUES ($1, $2, $3, $4, $5, now(), now())
		RETURNING user_no, joined
	`
	const qPrincipal = `
		INSERT INTO principal (type_id, user_no, displayname)
		VALUES ($1, $2, $3)
		RETURNING principal_id
	`
	out := *u
	err := database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		if err := tx.QueryRowContext(ctx, qUser,
			u.Username,
			u.Password,
			u.Fullname,
			u.Email,
			u.Active,
		).Scan(&out.UserNo, &out.Joined); err != nil {
			return err
		}
		return tx.QueryRowContext(ctx, qPrincipal,
			int(u.Type),
			out.UserNo,
			u.Fullname,
		).Scan(&out.PrincipalID)
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByUsername fetches a single user by login name.
func (r *UserPostgres) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	q := `SELECT ` + userColumns + `
		FROM usr u
		JOIN principal p ON p.user_no = u.user_no
		WHERE u.username = $1`
	return scanUser(r.db.QueryRowContext(ctx, q, username))
}

// List returns users ordered by username.
func (r *UserPostgres) List(ctx context.Context, f repository.UserFilter) ([]model.User, error) {
	q := `SELECT ` + userColumns + `
		FROM usr u
		JOIN principal p ON p.user_no = u.user_no
		WHERE ($1 OR u.active) AND ($2 = 0 OR p.type_id = $2)
		ORDER BY u.username`
	rows, err := r.db.QueryContext(ctx, q, f.IncludeInactive, int(f.Type))
	if err != nil {
		return nil, err
	}
	return scanUsers(rows)
}

// Update writes the editable usr columns and the principal displayname.
func (r *UserPostgres) Update(ctx context.Context, u *model.User) error {
	const qUser = `
		UPDATE usr SET fullname = $2, email = $3, active = $4, updated = now()
		WHERE user_no = $1
	`
	const qPrincipal = `UPDATE principal SET displayname = $2 WHERE user_no = $1`
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, qUser, u.UserNo, u.Fullname, u.Email, u.Active)
		if err != nil {
			return err
		}
		if err := expectRows(res); err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, qPrincipal, u.UserNo, u.Fullname)
		return err
	})
}

// SetPassword stores an encoded password string.
func (r *UserPostgres) SetPassword(ctx context.Context, userNo int64, encoded string) error {
	const q = `UPDATE usr SET password = $2, updated = now() WHERE user_no = $1`
	res, err := r.db.ExecContext(ctx, q, userNo, encoded)
	if err != nil {
		return err
	}
	return expectRows(res)
}

// Delete removes a usr row.
func (r *UserPostgres) Delete(ctx context.Context, userNo int64) error {
	const q = `DELETE FROM usr WHERE user_no = $1`
	res, err := r.db.ExecContext(ctx, q, userNo)
	if err != nil {
		return err
	}
	return expectRows(res)
}

// AddRole grants the named role if not already held.
func (r *UserPostgres) AddRole(ctx context.Context, userNo int64, role string) error {
	const qRole = `SELECT role_no FROM roles WHERE role_name = $1`
	const qMember = `
		INSERT INTO role_member (role_no, user_no)
		SELECT $1::int, $2::int
		WHERE NOT EXISTS (SELECT 1 FROM role_member WHERE role_no = $1::int AND user_no = $2::int)
	`
	var roleNo int64
	if err := r.db.QueryRowContext(ctx, qRole, role).Scan(&roleNo); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("role %q: %w", role, sql.ErrNoRows)
		}
		return err
	}
	_, err := r.db.ExecContext(ctx, qMember, roleNo, userNo)
	return err
}

// RemoveRole revokes the named role.
func (r *UserPostgres) RemoveRole(ctx context.Context, userNo int64, role string) error {
	const q = `
		DELETE FROM role_member m USING roles r
		WHERE m.role_no = r.role_no AND m.user_no = $1 AND r.role_name = $2
	`
	res, err := r.db.ExecContext(ctx, q, userNo, role)
	if err != nil {
		return err
	}
	return expectRows(res)
}

// Roles lists the role names held by the user.
func (r *UserPostgres) Roles(ctx context.Context, userNo int64) ([]string, error) {
	const q = `
		SELECT r.role_name FROM role_member m
		JOIN roles r ON r.role_no = m.role_no
		WHERE m.user_no = $1
		ORDER BY r.role_name
	`
	rows, err := r.db.QueryContext(ctx, q, userNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	roles := make([]string, 0)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		roles = append(roles, name)
	}
	return roles, rows.Err()
}

// expectRows maps "nothing affected" to sql.ErrNoRows.
func expectRows(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
