package postgres

import (
	"context"
	"database/sql"

	"github.com/ledeuns/davical-cmdlnut/internal/model"
	"github.com/ledeuns/davical-cmdlnut/internal/repository"
)

// CollectionPostgres is a PostgreSQL implementation of repository.CollectionRepository.
type CollectionPostgres struct {
	db *sql.DB
}

// NewCollectionPostgres creates a new CollectionPostgres repository.
func NewCollectionPostgres(db *sql.DB) *CollectionPostgres {
	return &CollectionPostgres{db: db}
}

var _ repository.CollectionRepository = (*CollectionPostgres)(nil)

const collectionColumns = `collection_id, user_no, dav_name, COALESCE(parent_container, ''),
		COALESCE(dav_displayname, ''), COALESCE(description, ''),
		COALESCE(is_calendar, false), COALESCE(is_addressbook, false),
		COALESCE(dav_etag, ''), created, modified`

func scanCollection(s scanner) (*model.Collection, error) {
	var (
		c                     model.Collection
		isCal, isBook         bool
		created, modifiedTime sql.NullTime
	)
	if err := s.Scan(
		&c.ID,
		&c.UserNo,
		&c.Path,
		&c.ParentContainer,
		&c.DisplayName,
		&c.Description,
		&isCal,
		&isBook,
		&c.ETag,
		&created,
		&modifiedTime,
	); err != nil {
		return nil, err
	}
	c.Kind = model.KindOf(isCal, isBook)
	c.Created = created.Time
	c.Modified = modifiedTime.Time
	return &c, nil
}

// Create inserts a collection row and returns the stored record.
func (r *CollectionPostgres) Create(ctx context.Context, c *model.Collection) (*model.Collection, error) {
	const q = `
		INSERT INTO collection (user_no, parent_container, dav_name, dav_etag, dav_displayname,
			is_calendar, is_addressbook, resourcetypes, description, created, modified)
		VALUES ($1, $2, $3, md5($3::text || now()::text), $4, $5, $6, $7, $8, now(), now())
		RETURNING collection_id, dav_etag, created, modified
	`
	out := *c
	if err := r.db.QueryRowContext(ctx, q,
		c.UserNo,
		c.ParentContainer,
		c.Path,
		c.DisplayName,
		c.Kind == model.KindCalendar,
		c.Kind == model.KindAddressbook,
		c.Kind.ResourceTypes(),
		c.Description,
	).Scan(&out.ID, &out.ETag, &out.Created, &out.Modified); err != nil {
		return nil, err
	}
	return &out, nil
}

// FindByPath fetches a collection by dav_name.
func (r *CollectionPostgres) FindByPath(ctx context.Context, path string) (*model.Collection, error) {
	q := `SELECT ` + collectionColumns + ` FROM collection WHERE dav_name = $1`
	return scanCollection(r.db.QueryRowContext(ctx, q, path))
}

// ListByUser returns the user's collections ordered by path.
func (r *CollectionPostgres) ListByUser(ctx context.Context, userNo int64) ([]model.Collection, error) {
	q := `SELECT ` + collectionColumns + ` FROM collection WHERE user_no = $1 ORDER BY dav_name`
	rows, err := r.db.QueryContext(ctx, q, userNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]model.Collection, 0)
	for rows.Next() {
		c, err := scanCollection(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

// Delete removes a collection by ID.
func (r *CollectionPostgres) Delete(ctx context.Context, id int64) error {
	const q = `DELETE FROM collection WHERE collection_id = $1`
	res, err := r.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	return expectRows(res)
}

// Objects returns the caldav_data rows of a collection.
func (r *CollectionPostgres) Objects(ctx context.Context, id int64) ([]model.CollectionObject, error) {
	const q = `
		SELECT dav_name, COALESCE(caldav_type, ''), caldav_data
		FROM caldav_data
		WHERE collection_id = $1
		ORDER BY dav_name
	`
	rows, err := r.db.QueryContext(ctx, q, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	objs := make([]model.CollectionObject, 0)
	for rows.Next() {
		var o model.CollectionObject
		if err := rows.Scan(&o.Path, &o.Type, &o.Data); err != nil {
			return nil, err
		}
		objs = append(objs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return objs, nil
}
