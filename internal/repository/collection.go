package repository

import (
	"context"

	"github.com/ledeuns/davical-cmdlnut/internal/model"
)

// CollectionRepository defines data access for collection rows.
type CollectionRepository interface {
	// Create inserts a collection and returns it with ID, ETag and timestamps set.
	Create(ctx context.Context, c *model.Collection) (*model.Collection, error)

	// FindByPath returns the collection with the given dav_name.
	FindByPath(ctx context.Context, path string) (*model.Collection, error)

	// ListByUser returns the user's collections ordered by path.
	ListByUser(ctx context.Context, userNo int64) ([]model.Collection, error)

	// Delete removes a collection and, through DAViCal's foreign keys, its
	// contents. sql.ErrNoRows if nothing was deleted.
	Delete(ctx context.Context, id int64) error

	// Objects returns the stored resources of a collection ordered by path.
	Objects(ctx context.Context, id int64) ([]model.CollectionObject, error)
}
