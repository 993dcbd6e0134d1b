package schema

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func expectTables(mock sqlmock.Sqlmock, upTo int) {
	for _, table := range RequiredTables[:upTo] {
		mock.ExpectQuery("SELECT to_regclass").
			WithArgs(table).
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	}
}

func TestVerify(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	applied := time.Date(2023, 5, 1, 0, 0, 0, 0, time.UTC)
	expectTables(mock, len(RequiredTables))
	mock.ExpectQuery("SELECT schema_major, (.+) FROM awl_db_revision").
		WillReturnRows(sqlmock.NewRows([]string{"schema_major", "schema_minor", "schema_patch", "schema_name", "applied_on"}).
			AddRow(1, 3, 5, "Tweak grants", applied))

	rep, err := Verify(context.Background(), db, zap.NewNop())

	require.NoError(t, err)
	assert.Equal(t, "1.3.5", rep.Revision.String())
	assert.Equal(t, "Tweak grants", rep.Revision.Name)
	assert.Equal(t, applied, rep.Revision.AppliedOn)
	assert.Len(t, rep.Tables, len(RequiredTables))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerify_MissingTable(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectTables(mock, 2)
	mock.ExpectQuery("SELECT to_regclass").
		WithArgs("collection").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))

	_, err = Verify(context.Background(), db, zap.NewNop())

	assert.ErrorIs(t, err, ErrSchemaMissing)
	assert.Contains(t, err.Error(), "table collection")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestVerify_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT to_regclass").
		WithArgs("usr").
		WillReturnError(errors.New("permission denied"))

	_, err = Verify(context.Background(), db, zap.NewNop())

	assert.EqualError(t, err, "check table usr: permission denied")
}

func TestVerify_NoRevision(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	expectTables(mock, len(RequiredTables))
	mock.ExpectQuery("FROM awl_db_revision").
		WillReturnRows(sqlmock.NewRows([]string{"schema_major", "schema_minor", "schema_patch", "schema_name", "applied_on"}))

	_, err = Verify(context.Background(), db, zap.NewNop())

	assert.ErrorIs(t, err, ErrSchemaMissing)
	assert.Contains(t, err.Error(), "awl_db_revision is empty")
}
