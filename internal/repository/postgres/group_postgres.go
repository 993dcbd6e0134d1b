package postgres

import (
	"context"
	"database/sql"

	"github.com/ledeuns/davical-cmdlnut/internal/model"
	"github.com/ledeuns/davical-cmdlnut/internal/repository"
)

// GroupPostgres is a PostgreSQL implementation of repository.GroupRepository.
type GroupPostgres struct {
	db *sql.DB
}

// NewGroupPostgres creates a new GroupPostgres repository.
func NewGroupPostgres(db *sql.DB) *GroupPostgres {
	return &GroupPostgres{db: db}
}

var _ repository.GroupRepository = (*GroupPostgres)(nil)

// AddMember inserts a group_member row unless it exists.
func (r *GroupPostgres) AddMember(ctx context.Context, groupID, memberID int64) error {
	const q = `
		INSERT INTO group_member (group_id, member_id)
		SELECT $1::int, $2::int
		WHERE NOT EXISTS (SELECT 1 FROM group_member WHERE group_id = $1::int AND member_id = $2::int)
	`
	_, err := r.db.ExecContext(ctx, q, groupID, memberID)
	return err
}

// RemoveMember deletes a group_member row.
func (r *GroupPostgres) RemoveMember(ctx context.Context, groupID, memberID int64) error {
	const q = `DELETE FROM group_member WHERE group_id = $1 AND member_id = $2`
	res, err := r.db.ExecContext(ctx, q, groupID, memberID)
	if err != nil {
		return err
	}
	return expectRows(res)
}

// Members lists the users whose principals are in the group.
func (r *GroupPostgres) Members(ctx context.Context, groupID int64) ([]model.User, error) {
	q := `SELECT ` + userColumns + `
		FROM group_member gm
		JOIN principal p ON p.principal_id = gm.member_id
		JOIN usr u ON u.user_no = p.user_no
		WHERE gm.group_id = $1
		ORDER BY u.username`
	rows, err := r.db.QueryContext(ctx, q, groupID)
	if err != nil {
		return nil, err
	}
	return scanUsers(rows)
}

// Memberships lists the groups the principal belongs to.
func (r *GroupPostgres) Memberships(ctx context.Context, memberID int64) ([]model.User, error) {
	q := `SELECT ` + userColumns + `
		FROM group_member gm
		JOIN principal p ON p.principal_id = gm.group_id
		JOIN usr u ON u.user_no = p.user_no
		WHERE gm.member_id = $1
		ORDER BY u.username`
	rows, err := r.db.QueryContext(ctx, q, memberID)
	if err != nil {
		return nil, err
	}
	return scanUsers(rows)
}
