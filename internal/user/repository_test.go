package user

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

var userColumns = []string{"id", "name", "email", "password_hash", "role", "avatar_url", "details", "created_at"}

func setupUserMock(t *testing.T) (Repository, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(db, "sqlmock")
	repo := NewRepository(sqlxDB)

	closer := func() { sqlxDB.Close() }
	return repo, mock, closer
}

const insertUserQuery = `INSERT INTO users (name, email, password_hash, role, avatar_url, details) VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, name, email, password_hash, role, avatar_url, details, created_at`

func TestCreateGoerInsertsProfileRow(t *testing.T) {
	repo, mock, close := setupUserMock(t)
	defer close()

	now := time.Now()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(insertUserQuery)).
		WithArgs("Alice", "a@example.com", "hash", "goer", "", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "Alice", "a@example.com", "hash", "goer", "", []byte(`{}`), now))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO goers (user_id) VALUES ($1)")).
		WithArgs(1).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	u, err := repo.Create(context.Background(), &User{Name: "Alice", Email: "a@example.com", PasswordHash: "hash", Role: "goer"})
	require.NoError(t, err)
	require.Equal(t, 1, u.ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateOwnerSkipsProfileRow(t *testing.T) {
	repo, mock, close := setupUserMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(insertUserQuery)).
		WithArgs("Bob", "b@example.com", "hash", "owner", "", sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(2, "Bob", "b@example.com", "hash", "owner", "", []byte(`{"owner":{"business_name":"Iron","phone":""}}`), time.Now()))
	mock.ExpectCommit()

	u, err := repo.Create(context.Background(), &User{Name: "Bob", Email: "b@example.com", PasswordHash: "hash", Role: "owner"})
	require.NoError(t, err)
	require.NotNil(t, u.Details.Owner)
	require.Equal(t, "Iron", u.Details.Owner.BusinessName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateGoerRollsBackOnProfileFailure(t *testing.T) {
	repo, mock, close := setupUserMock(t)
	defer close()

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(insertUserQuery)).
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(3, "Cy", "c@example.com", "hash", "goer", "", []byte(`{}`), time.Now()))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO goers (user_id) VALUES ($1)")).
		WillReturnError(sqlmock.ErrCancelled)
	mock.ExpectRollback()

	_, err := repo.Create(context.Background(), &User{Name: "Cy", Email: "c@example.com", PasswordHash: "hash", Role: "goer"})
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestFindUser(t *testing.T) {
	repo, mock, close := setupUserMock(t)
	defer close()

	now := time.Now()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE LOWER(email) = LOWER($1)")).
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows(userColumns).AddRow(1, "Alice", "a@example.com", "hash", "goer", "", []byte(`{}`), now))

	fu, err := repo.FindByEmail(context.Background(), "a@example.com")
	require.NoError(t, err)
	require.Equal(t, "Alice", fu.Name)

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE id = $1")).
		WithArgs(9).
		WillReturnRows(sqlmock.NewRows(userColumns))

	_, err = repo.FindByID(context.Background(), 9)
	require.ErrorIs(t, err, ErrUserNotFound)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS(SELECT 1 FROM users WHERE LOWER(email) = LOWER($1))")).
		WithArgs("a@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	ok, err := repo.EmailExists(context.Background(), "a@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}
