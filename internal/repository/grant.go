package repository

import (
	"context"

	"github.com/ledeuns/davical-cmdlnut/internal/model"
)

// GrantRepository manages rows of the grants table.
type GrantRepository interface {
	// Upsert sets the privileges of the grant identified by
	// (ByPrincipal | ByCollection, ToPrincipal), inserting it if absent.
	Upsert(ctx context.Context, g *model.Grant) error

	// Revoke deletes the grant identified like Upsert; sql.ErrNoRows if absent.
	Revoke(ctx context.Context, g *model.Grant) error

	// ListTo returns the grants held by the user, with names resolved.
	ListTo(ctx context.Context, userNo int64) ([]model.Grant, error)

	// ListFrom returns the grants given on the user's principal or collections.
	ListFrom(ctx context.Context, userNo int64) ([]model.Grant, error)
}
