// Package schema checks that a database carries the DAViCal schema this
// tool writes to. It never creates or alters tables: DAViCal's own
// update-davical-database script owns the schema.
package schema

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ledeuns/davical-cmdlnut/internal/logging"
	"github.com/ledeuns/davical-cmdlnut/internal/model"
)

// ErrSchemaMissing reports a table or revision row that is not there.
var ErrSchemaMissing = errors.New("DAViCal schema missing")

// RequiredTables are the tables the commands read or write.
var RequiredTables = []string{
	"usr",
	"principal",
	"collection",
	"caldav_data",
	"group_member",
	"grants",
	"roles",
	"role_member",
	"awl_db_revision",
}

// Report is the outcome of a successful Verify.
type Report struct {
	Tables   []string             `json:"tables" yaml:"tables"`
	Revision model.SchemaRevision `json:"revision" yaml:"revision"`
	Duration time.Duration        `json:"duration" yaml:"duration"`
}

// Verify checks every required table and reads the latest awl_db_revision row.
func Verify(ctx context.Context, db *sql.DB, logger *zap.Logger) (*Report, error) {
	start := time.Now()
	logger = logger.With(logging.Component("database"))
	logger.Debug("db_schema_check", logging.Status("starting"))

	for _, table := range RequiredTables {
		var exists bool
		if err := db.QueryRowContext(ctx, `SELECT to_regclass($1) IS NOT NULL`, table).Scan(&exists); err != nil {
			logger.Error("db_schema_check_failed",
				logging.Status(logging.StatusError),
				zap.String("table", table),
				zap.Error(err),
				logging.Duration(time.Since(start)),
			)
			return nil, fmt.Errorf("check table %s: %w", table, err)
		}
		if !exists {
			logger.Error("db_schema_check_failed",
				logging.Status(logging.StatusError),
				zap.String("table", table),
				logging.Duration(time.Since(start)),
			)
			return nil, fmt.Errorf("%w: table %s does not exist", ErrSchemaMissing, table)
		}
		logger.Debug("db_schema_table", logging.Status(logging.StatusSuccess), zap.String("table", table))
	}

	const q = `
		SELECT schema_major, schema_minor, schema_patch, COALESCE(schema_name, ''), applied_on
		FROM awl_db_revision
		ORDER BY schema_id DESC
		LIMIT 1
	`
	var (
		rev     model.SchemaRevision
		applied sql.NullTime
	)
	err := db.QueryRowContext(ctx, q).Scan(&rev.Major, &rev.Minor, &rev.Patch, &rev.Name, &applied)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: awl_db_revision is empty", ErrSchemaMissing)
		}
		return nil, fmt.Errorf("read schema revision: %w", err)
	}
	rev.AppliedOn = applied.Time

	rep := &Report{Tables: RequiredTables, Revision: rev, Duration: time.Since(start)}
	logger.Info("db_schema_check",
		logging.Status(logging.StatusSuccess),
		zap.String("revision", rev.String()),
		logging.Duration(rep.Duration),
	)
	return rep, nil
}
