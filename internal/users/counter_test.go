package users

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "sqlmock"), mock
}

func TestCountUsers(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(countQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	c := New(db, time.Minute)
	for i := 0; i < 3; i++ {
		n, err := c.CountUsers(context.Background())
		if err != nil {
			t.Fatalf("CountUsers: %v", err)
		}
		if n != 3 {
			t.Fatalf("got %d users, want 3", n)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("cached count should need one query: %v", err)
	}
}

func TestCountUsersRequeriesAfterTTL(t *testing.T) {
	db, mock := newMock(t)
	q := regexp.QuoteMeta(countQuery)
	mock.ExpectQuery(q).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(q).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	clock := time.Unix(1_700_000_000, 0)
	c := New(db, time.Second)
	c.now = func() time.Time { return clock }

	if n, _ := c.CountUsers(context.Background()); n != 1 {
		t.Fatalf("first count = %d", n)
	}
	clock = clock.Add(2 * time.Second)
	if n, _ := c.CountUsers(context.Background()); n != 2 {
		t.Fatalf("count after TTL = %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestCountUsersErrorNotCached(t *testing.T) {
	db, mock := newMock(t)
	q := regexp.QuoteMeta(countQuery)
	mock.ExpectQuery(q).WillReturnError(errors.New("table missing"))
	mock.ExpectQuery(q).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	c := New(db, time.Minute)
	if _, err := c.CountUsers(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	n, err := c.CountUsers(context.Background())
	if err != nil || n != 7 {
		t.Fatalf("got (%d, %v), want (7, nil)", n, err)
	}
}

func TestInvalidate(t *testing.T) {
	db, mock := newMock(t)
	q := regexp.QuoteMeta(countQuery)
	mock.ExpectQuery(q).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(q).WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	c := New(db, time.Hour)
	c.CountUsers(context.Background())
	c.Invalidate()
	if n, _ := c.CountUsers(context.Background()); n != 2 {
		t.Fatalf("count after Invalidate = %d, want 2", n)
	}
}

func TestCountUsersIgnoresCallerCancellation(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta(countQuery)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := New(db, 0).CountUsers(ctx)
	if err != nil {
		t.Fatalf("cancelled caller should not fail the shared query: %v", err)
	}
	if n != 2 {
		t.Fatalf("got %d users, want 2", n)
	}
}

func TestMigrate(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec(regexp.QuoteMeta(createTable)).WillReturnResult(sqlmock.NewResult(0, 0))

	if err := New(db, 0).Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
