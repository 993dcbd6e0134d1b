package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ledeuns/davical-cmdlnut/internal/database"
	"github.com/ledeuns/davical-cmdlnut/internal/model"
	"github.com/ledeuns/davical-cmdlnut/internal/privilege"
	"github.com/ledeuns/davical-cmdlnut/internal/repository"
)

// GrantPostgres is a PostgreSQL implementation of repository.GrantRepository.
type GrantPostgres struct {
	db *sql.DB
}

// NewGrantPostgres creates a new GrantPostgres repository.
func NewGrantPostgres(db *sql.DB) *GrantPostgres {
	return &GrantPostgres{db: db}
}

var _ repository.GrantRepository = (*GrantPostgres)(nil)

const grantSelect = `
		SELECT g.by_principal, g.by_collection, g.to_principal,
			COALESCE(g.privileges, 0::bit(24))::text,
			COALESCE(g.is_group, false),
			COALESCE(ou.username, cu.username, ''), COALESCE(c.dav_name, ''), COALESCE(tu.username, '')
		FROM grants g
		LEFT JOIN principal op ON op.principal_id = g.by_principal
		LEFT JOIN usr ou ON ou.user_no = op.user_no
		LEFT JOIN collection c ON c.collection_id = g.by_collection
		LEFT JOIN usr cu ON cu.user_no = c.user_no
		LEFT JOIN principal tp ON tp.principal_id = g.to_principal
		LEFT JOIN usr tu ON tu.user_no = tp.user_no`

func nullInt(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

// Upsert updates the grant's privileges, inserting the row if it is absent.
func (r *GrantPostgres) Upsert(ctx context.Context, g *model.Grant) error {
	const qUpdate = `
		UPDATE grants SET privileges = $4::int::bit(24), is_group = $5
		WHERE by_principal IS NOT DISTINCT FROM $1 AND by_collection IS NOT DISTINCT FROM $2
		  AND to_principal = $3
	`
	const qInsert = `
		INSERT INTO grants (by_principal, by_collection, to_principal, privileges, is_group)
		VALUES ($1, $2, $3, $4::int::bit(24), $5)
	`
	args := []any{nullInt(g.ByPrincipal), nullInt(g.ByCollection), g.ToPrincipal, int64(g.Privileges), g.IsGroup}
	return database.WithTx(ctx, r.db, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, qUpdate, args...)
		if err != nil {
			return err
		}
		n, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		_, err = tx.ExecContext(ctx, qInsert, args...)
		return err
	})
}

// Revoke deletes a grant.
func (r *GrantPostgres) Revoke(ctx context.Context, g *model.Grant) error {
	const q = `
		DELETE FROM grants
		WHERE by_principal IS NOT DISTINCT FROM $1 AND by_collection IS NOT DISTINCT FROM $2
		  AND to_principal = $3
	`
	res, err := r.db.ExecContext(ctx, q, nullInt(g.ByPrincipal), nullInt(g.ByCollection), g.ToPrincipal)
	if err != nil {
		return err
	}
	return expectRows(res)
}

// ListTo returns the grants held by a user.
func (r *GrantPostgres) ListTo(ctx context.Context, userNo int64) ([]model.Grant, error) {
	return r.list(ctx, grantSelect+` WHERE tp.user_no = $1 ORDER BY 6, 7`, userNo)
}

// ListFrom returns the grants given on a user's principal or collections.
func (r *GrantPostgres) ListFrom(ctx context.Context, userNo int64) ([]model.Grant, error) {
	return r.list(ctx, grantSelect+` WHERE op.user_no = $1 OR c.user_no = $1 ORDER BY 8, 7`, userNo)
}

func (r *GrantPostgres) list(ctx context.Context, q string, userNo int64) ([]model.Grant, error) {
	rows, err := r.db.QueryContext(ctx, q, userNo)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	grants := make([]model.Grant, 0)
	for rows.Next() {
		var (
			g        model.Grant
			byP, byC sql.NullInt64
			bits     string
		)
		if err := rows.Scan(&byP, &byC, &g.ToPrincipal, &bits, &g.IsGroup, &g.Owner, &g.Collection, &g.Grantee); err != nil {
			return nil, err
		}
		if byP.Valid {
			g.ByPrincipal = &byP.Int64
		}
		if byC.Valid {
			g.ByCollection = &byC.Int64
		}
		privs, err := privilege.FromBits(bits)
		if err != nil {
			return nil, fmt.Errorf("grant to principal %d: %w", g.ToPrincipal, err)
		}
		g.Privileges = uint32(privs)
		grants = append(grants, g)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return grants, nil
}
