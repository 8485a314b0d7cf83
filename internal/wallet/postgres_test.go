package wallet

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// recordingDB captures the last query so tests can pin the SQL the
// repository sends without a live database.
type recordingDB struct {
	sql  string
	args []any
	scan func(dest ...any) error
}

func (d *recordingDB) Exec(context.Context, string, ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func (d *recordingDB) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, errors.New("not implemented")
}

func (d *recordingDB) QueryRow(_ context.Context, sql string, args ...any) pgx.Row {
	d.sql = sql
	d.args = args
	return rowFunc(d.scan)
}

type rowFunc func(dest ...any) error

func (f rowFunc) Scan(dest ...any) error { return f(dest...) }

func scanExists(value bool) func(dest ...any) error {
	return func(dest ...any) error {
		if b, ok := dest[0].(*bool); ok {
			*b = value
		}
		return nil
	}
}

func TestExistsByIBANIgnoresCase(t *testing.T) {
	db := &recordingDB{scan: scanExists(true)}
	repo := NewPostgresRepository(db)

	exists, err := repo.ExistsByIBAN(context.Background(), "tr330006100519786457841326")
	if err != nil {
		t.Fatalf("exists by iban: %v", err)
	}
	if !exists {
		t.Fatalf("expected exists")
	}
	if !strings.Contains(db.sql, "LOWER(iban) = LOWER($1)") {
		t.Fatalf("iban lookup is case sensitive: %s", db.sql)
	}
}

func TestExistsByOwnerAndNameIgnoresCase(t *testing.T) {
	db := &recordingDB{scan: scanExists(false)}
	repo := NewPostgresRepository(db)

	if _, err := repo.ExistsByOwnerAndName(context.Background(), 1, "Main"); err != nil {
		t.Fatalf("exists by owner and name: %v", err)
	}
	if !strings.Contains(db.sql, "LOWER(name) = LOWER($2)") {
		t.Fatalf("name lookup is case sensitive: %s", db.sql)
	}
}

func TestFindByIBANIgnoresCase(t *testing.T) {
	db := &recordingDB{scan: func(...any) error { return pgx.ErrNoRows }}
	repo := NewPostgresRepository(db)

	_, err := repo.FindByIBAN(context.Background(), "TR330006100519786457841326")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if !strings.Contains(db.sql, "LOWER(iban) = LOWER($1)") {
		t.Fatalf("iban lookup is case sensitive: %s", db.sql)
	}
}
