package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"userapi/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

func newRepoWithMock(t *testing.T) (UserRepository, sqlmock.Sqlmock, *sqlx.DB) {
	t.Helper()
	mockDB, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	db := sqlx.NewDb(mockDB, "sqlmock")
	return NewUserRepository(db, zap.NewNop()), mock, db
}

func userColumns() []string {
	return []string{"id", "username", "email", "password_hash", "disabled", "created_at"}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^INSERT\s+INTO\s+users\s*\(username,\s*email,\s*password_hash\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id,\s*created_at$`

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(5), now)
	mock.ExpectQuery(q).
		WithArgs("Jane", "jane@example.com", "$2a$10$hash").
		WillReturnRows(rows)

	u := &models.User{Username: "Jane", Email: "jane@example.com", PasswordHash: "$2a$10$hash"}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if u.ID != 5 || !u.CreatedAt.Equal(now) {
		t.Fatalf("unexpected user: %+v", u)
	}
}

func TestCreate_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT\s+INTO\s+users`).
		WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &models.User{Username: "Jane", Email: "jane@example.com", PasswordHash: "h"})
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestGetByEmail_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*username,\s*email,\s*password_hash,\s*disabled,\s*created_at\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1$`

	rows := sqlmock.NewRows(userColumns()).
		AddRow(int64(1), "Jane", "jane@example.com", "$2a$10$hash", false, time.Now())
	mock.ExpectQuery(q).WithArgs("jane@example.com").WillReturnRows(rows)

	got, err := repo.GetByEmail(context.Background(), "jane@example.com")
	if err != nil {
		t.Fatalf("GetByEmail error: %v", err)
	}
	if got.ID != 1 || got.Email != "jane@example.com" || got.Disabled {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestGetByEmail_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(`SELECT\s+.*FROM\s+users\s+WHERE\s+email`).
		WithArgs("ghost@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "ghost@example.com")
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("want sql.ErrNoRows, got %v", err)
	}
}

func TestGetByID_Found(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+id,\s*username,\s*email,\s*password_hash,\s*disabled,\s*created_at\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1$`

	rows := sqlmock.NewRows(userColumns()).
		AddRow(int64(3), "Jane", "jane@example.com", "$2a$10$hash", false, time.Now())
	mock.ExpectQuery(q).WithArgs(int64(3)).WillReturnRows(rows)

	got, err := repo.GetByID(context.Background(), 3)
	if err != nil {
		t.Fatalf("GetByID error: %v", err)
	}
	if got.ID != 3 {
		t.Fatalf("unexpected user: %+v", got)
	}
}

func TestList(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(userColumns()).
		AddRow(int64(1), "Jane", "jane@example.com", "h1", false, time.Now()).
		AddRow(int64(2), "John", "john@example.com", "h2", true, time.Now())
	mock.ExpectQuery(`SELECT\s+.*FROM\s+users\s+ORDER\s+BY\s+id`).WillReturnRows(rows)

	users, err := repo.List(context.Background())
	if err != nil {
		t.Fatalf("List error: %v", err)
	}
	if len(users) != 2 || users[1].Username != "John" {
		t.Fatalf("unexpected users: %+v", users)
	}
}

func TestCountByEmail(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^SELECT\s+COUNT\(\*\)\s+FROM\s+users\s+WHERE\s+email\s*=\s*\$1$`

	mock.ExpectQuery(q).
		WithArgs("jane@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	count, err := repo.CountByEmail(context.Background(), "jane@example.com")
	if err != nil {
		t.Fatalf("CountByEmail error: %v", err)
	}
	if count != 1 {
		t.Fatalf("want count 1, got %d", count)
	}
}

func TestUpdatePassword(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+users\s+SET\s+password_hash\s*=\s*\$1,\s*disabled\s*=\s*FALSE\s+WHERE\s+id\s*=\s*\$2$`

	mock.ExpectExec(q).
		WithArgs("$2a$10$newhash", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdatePassword(context.Background(), 4, "$2a$10$newhash"); err != nil {
		t.Fatalf("UpdatePassword error: %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+users\s+SET\s+username\s*=\s*\$1,\s*email\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$3$`

	mock.ExpectExec(q).
		WithArgs("Jane Doe", "janenew@example.com", int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.UpdateProfile(context.Background(), 4, "Jane Doe", "janenew@example.com"); err != nil {
		t.Fatalf("UpdateProfile error: %v", err)
	}
}

func TestDisable_WritesSentinel(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^UPDATE\s+users\s+SET\s+disabled\s*=\s*TRUE,\s*password_hash\s*=\s*\$1\s+WHERE\s+id\s*=\s*\$2$`

	mock.ExpectExec(q).
		WithArgs(models.DisabledPasswordSentinel, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Disable(context.Background(), 4); err != nil {
		t.Fatalf("Disable error: %v", err)
	}
}

func TestDelete_ReportsRowsAffected(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	q := `(?s)^DELETE\s+FROM\s+users\s+WHERE\s+id\s*=\s*\$1$`

	mock.ExpectExec(q).WithArgs(int64(4)).WillReturnResult(sqlmock.NewResult(0, 1))
	affected, err := repo.Delete(context.Background(), 4)
	if err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if affected != 1 {
		t.Fatalf("want 1 row affected, got %d", affected)
	}

	mock.ExpectExec(q).WithArgs(int64(99)).WillReturnResult(sqlmock.NewResult(0, 0))
	affected, err = repo.Delete(context.Background(), 99)
	if err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if affected != 0 {
		t.Fatalf("want 0 rows affected, got %d", affected)
	}
}
