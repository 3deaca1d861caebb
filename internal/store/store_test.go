package store

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"gilnokie-backend/internal/model"
)

// A helper function to create a mock database connection.
func newTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	gormDB, err := gorm.Open(postgres.New(postgres.Config{
		Conn: db,
	}), &gorm.Config{})
	require.NoError(t, err)

	return gormDB, mock
}

func TestGormStore_ListCustomers(t *testing.T) {
	active := true

	testCases := []struct {
		name             string
		filter           CustomerFilter
		mockExpectations func(mock sqlmock.Sqlmock)
		expectedNames    []string
	}{
		{
			name:   "no filter lists everyone by name",
			filter: CustomerFilter{},
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "customers" ORDER BY name ASC`)).
					WillReturnRows(sqlmock.NewRows([]string{"id", "name", "active"}).
						AddRow("c1", "Acme", true).
						AddRow("c2", "Zulu Mills", false))
			},
			expectedNames: []string{"Acme", "Zulu Mills"},
		},
		{
			name:   "active filter adds a predicate",
			filter: CustomerFilter{Active: &active},
			mockExpectations: func(mock sqlmock.Sqlmock) {
				mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "customers" WHERE active = $1 ORDER BY name ASC`)).
					WithArgs(true).
					WillReturnRows(sqlmock.NewRows([]string{"id", "name", "active"}).
						AddRow("c1", "Acme", true))
			},
			expectedNames: []string{"Acme"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			gormDB, mock := newTestDB(t)
			store := NewGormStore(gormDB)

			tc.mockExpectations(mock)

			customers, err := store.ListCustomers(context.Background(), tc.filter)
			require.NoError(t, err)

			names := make([]string, len(customers))
			for i, c := range customers {
				names[i] = c.Name
			}
			assert.Equal(t, tc.expectedNames, names)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestGormStore_CreateCustomer_UniqueViolation(t *testing.T) {
	gormDB, mock := newTestDB(t)
	store := NewGormStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO "customers"`)).
		WithArgs(Any{}, Any{}, Any{}, "Acme", nil, nil, nil, nil, nil, nil, true).
		WillReturnError(&pgconn.PgError{Code: "23505", Detail: "Key (name)=(Acme) already exists."})
	mock.ExpectRollback()

	err := store.CreateCustomer(context.Background(), &model.Customer{Name: "Acme", Active: true})
	assert.ErrorIs(t, err, ErrConflict)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_GetYarnType_NotFound(t *testing.T) {
	gormDB, mock := newTestDB(t)
	store := NewGormStore(gormDB)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "yarn_types" WHERE id = $1 ORDER BY "yarn_types"."id" LIMIT $2`)).
		WithArgs("missing", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := store.GetYarnType(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.EqualError(t, err, "Yarn type not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormStore_DeactivateMachine(t *testing.T) {
	gormDB, mock := newTestDB(t)
	store := NewGormStore(gormDB)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "machine_specifications" WHERE id = $1 AND deleted_at IS NULL`)).
		WithArgs("m1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "machine_number", "status"}).AddRow("m1", "Machine 8", model.MachineActive))
	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "machine_specifications" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "machine_specifications" WHERE id = $1`)).
		WithArgs("m1", "m1", 1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "machine_number", "status"}).AddRow("m1", "Machine 8", model.MachineInactive))
	mock.ExpectCommit()

	m, err := store.DeactivateMachine(context.Background(), "m1")
	require.NoError(t, err)
	assert.Equal(t, model.MachineInactive, m.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTranslate(t *testing.T) {
	testCases := []struct {
		name   string
		err    error
		target error
	}{
		{name: "record not found", err: gorm.ErrRecordNotFound, target: ErrNotFound},
		{name: "translated duplicate", err: gorm.ErrDuplicatedKey, target: ErrConflict},
		{name: "translated foreign key", err: gorm.ErrForeignKeyViolated, target: ErrInvalidReference},
		{name: "postgres unique", err: &pgconn.PgError{Code: "23505"}, target: ErrConflict},
		{name: "postgres foreign key", err: &pgconn.PgError{Code: "23503"}, target: ErrInvalidReference},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, translate(tc.err, "Customer"), tc.target)
		})
	}

	t.Run("nil stays nil", func(t *testing.T) {
		assert.NoError(t, translate(nil, "Customer"))
	})

	t.Run("validation errors pass through", func(t *testing.T) {
		err := translate(invalid("bad %s", "input"), "Customer")
		var ve *ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, "bad input", ve.Message)
	})

	t.Run("unknown errors are kept", func(t *testing.T) {
		boom := errors.New("connection reset")
		assert.Same(t, boom, translate(boom, "Customer"))
	})
}

// Any is a helper for sqlmock to match any argument.
type Any struct{}

// Match satisfies the sqlmock.Argument interface
func (a Any) Match(v driver.Value) bool {
	return true
}
