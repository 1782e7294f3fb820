package repository

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/deppfellow/crm-api/internal/config"
	"github.com/deppfellow/crm-api/internal/database"
	loggerPkg "github.com/deppfellow/crm-api/internal/logger"
	"github.com/deppfellow/crm-api/internal/model"
)

func TestWithoutStoreID(t *testing.T) {
	const id = "64b7f0c2a1b2c3d4e5f60718"

	tests := []struct {
		name    string
		fields  model.Person
		want    model.Person
		wantErr bool
	}{
		{"no _id", model.Person{"a": 1.0}, model.Person{"a": 1.0}, false},
		{"same _id is dropped", model.Person{"_id": id, "a": 1.0}, model.Person{"a": 1.0}, false},
		{"other _id", model.Person{"_id": "other"}, nil, true},
		{"non-string _id", model.Person{"_id": 7.0}, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := withoutStoreID(tt.fields, id)
			if tt.wantErr {
				if !errors.Is(err, errImmutableStoreID) {
					t.Fatalf("expected immutable _id error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error %v", err)
			}
			if len(got) != len(tt.want) || got["a"] != tt.want["a"] {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWithoutStoreID_LeavesInputAlone(t *testing.T) {
	fields := model.Person{"_id": "abc", "a": 1.0}

	if _, err := withoutStoreID(fields, "abc"); err != nil {
		t.Fatal(err)
	}
	if _, ok := fields["_id"]; !ok {
		t.Error("caller's map must not be modified")
	}
}

// newPostgresRepository connects to the database named by
// CRM_TEST_POSTGRES_URL and creates a throwaway table.
func newPostgresRepository(t *testing.T) *PostgresPersonRepository {
	t.Helper()

	uri := os.Getenv("CRM_TEST_POSTGRES_URL")
	if uri == "" {
		t.Skip("CRM_TEST_POSTGRES_URL not set")
	}

	cfg := config.Default()
	cfg.Store.Driver = config.StoreDriverPostgres
	cfg.Store.URI = uri
	cfg.Store.Collection = "persons_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]

	ctx := context.Background()
	log := zerolog.Nop()
	db, err := database.New(ctx, cfg, &log, &loggerPkg.LoggerService{})
	if err != nil {
		t.Fatalf("connecting: %v", err)
	}

	table := database.TableName(cfg.Store.Collection)
	ddl := `CREATE TABLE ` + table + ` (
		id   TEXT PRIMARY KEY,
		seq  BIGSERIAL NOT NULL,
		doc  JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`
	if _, err := db.Pool.Exec(ctx, ddl); err != nil {
		t.Fatalf("creating table: %v", err)
	}

	t.Cleanup(func() {
		_, _ = db.Pool.Exec(ctx, `DROP TABLE IF EXISTS `+table)
		_ = db.Close(ctx)
	})

	return NewPostgresPersonRepository(db.Pool, table)
}

func TestPostgresPersonRepository_Lifecycle(t *testing.T) {
	repo := newPostgresRepository(t)
	ctx := context.Background()

	id, err := repo.Insert(ctx, model.Person{"person_id": "42", "name": "Ada", "_id": "ignored"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	byStore, found, err := repo.FindByStoreID(ctx, id)
	if err != nil || !found || byStore["name"] != "Ada" || byStore["_id"] != id {
		t.Fatalf("FindByStoreID: %v found=%v err=%v", byStore, found, err)
	}

	res, err := repo.UpdateByPersonID(ctx, "42", model.Person{"name": "Ada"})
	if err != nil || res.MatchedCount != 1 || res.ModifiedCount != 0 {
		t.Errorf("no-op update: %+v err=%v", res, err)
	}

	res, err = repo.UpdateByPersonID(ctx, "42", model.Person{"email": "a@b.c"})
	if err != nil || res.MatchedCount != 1 || res.ModifiedCount != 1 {
		t.Errorf("merge update: %+v err=%v", res, err)
	}

	got, _, _ := repo.FindByPersonID(ctx, "42")
	if got["name"] != "Ada" || got["email"] != "a@b.c" {
		t.Errorf("expected merged document, got %v", got)
	}

	res, err = repo.UpdateByPersonID(ctx, "missing", model.Person{"a": 1.0})
	if err != nil || res.MatchedCount != 0 {
		t.Errorf("update without match: %+v err=%v", res, err)
	}

	n, err := repo.DeleteByPersonID(ctx, "42")
	if err != nil || n != 1 {
		t.Errorf("delete: n=%d err=%v", n, err)
	}
	if n, _ := repo.DeleteByPersonID(ctx, "42"); n != 0 {
		t.Errorf("second delete removed %d", n)
	}
}

func TestPostgresPersonRepository_StoreIDInUpdate(t *testing.T) {
	repo := newPostgresRepository(t)
	ctx := context.Background()

	id, err := repo.Insert(ctx, model.Person{"person_id": "42"})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	res, err := repo.UpdateByPersonID(ctx, "42", model.Person{"_id": id})
	if err != nil || res.MatchedCount != 1 || res.ModifiedCount != 0 {
		t.Errorf("same _id should be a no-op: %+v err=%v", res, err)
	}

	if _, err := repo.UpdateByPersonID(ctx, "42", model.Person{"_id": NewStoreID()}); !errors.Is(err, errImmutableStoreID) {
		t.Errorf("expected immutable _id error, got %v", err)
	}
}

func TestPostgresPersonRepository_PersonIDMatchesByType(t *testing.T) {
	repo := newPostgresRepository(t)
	ctx := context.Background()

	if _, err := repo.Insert(ctx, model.Person{"person_id": "42"}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if _, err := repo.UpdateByPersonID(ctx, "42", model.Person{"person_id": 42.0}); err != nil {
		t.Fatalf("UpdateByPersonID: %v", err)
	}

	if _, found, _ := repo.FindByPersonID(ctx, "42"); found {
		t.Error("a numeric person_id must not match its string form")
	}
}

func TestPostgresPersonRepository_FirstMatch(t *testing.T) {
	repo := newPostgresRepository(t)
	ctx := context.Background()

	first, _ := repo.Insert(ctx, model.Person{"person_id": "dup", "n": 1.0})
	second, _ := repo.Insert(ctx, model.Person{"person_id": "dup", "n": 2.0})

	got, _, _ := repo.FindByPersonID(ctx, "dup")
	if got["_id"] != first {
		t.Errorf("expected first inserted document, got %v", got)
	}

	if _, err := repo.DeleteByPersonID(ctx, "dup"); err != nil {
		t.Fatal(err)
	}
	got, _, _ = repo.FindByPersonID(ctx, "dup")
	if got["_id"] != second {
		t.Errorf("expected second document to remain, got %v", got)
	}

	all, err := repo.FindAll(ctx)
	if err != nil || len(all) != 1 {
		t.Errorf("FindAll: %v err=%v", all, err)
	}
}
