package repository

import (
	"context"

	"github.com/ledeuns/davical-cmdlnut/internal/model"
)

// GroupRepository manages group_member rows. Ids are principal ids.
type GroupRepository interface {
	// AddMember adds memberID to groupID; adding an existing member is a no-op.
	AddMember(ctx context.Context, groupID, memberID int64) error

	// RemoveMember removes a membership; sql.ErrNoRows if there was none.
	RemoveMember(ctx context.Context, groupID, memberID int64) error

	// Members lists the principals directly in the group.
	Members(ctx context.Context, groupID int64) ([]model.User, error)

	// Memberships lists the groups the principal directly belongs to.
	Memberships(ctx context.Context, memberID int64) ([]model.User, error)
}
