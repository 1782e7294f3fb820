package service

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/deppfellow/crm-api/internal/errs"
	"github.com/deppfellow/crm-api/internal/model"
	"github.com/deppfellow/crm-api/internal/repository/storetest"
)

func statusOf(t *testing.T, err error) int {
	t.Helper()
	var httpErr *errs.HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected *errs.HTTPError, got %T (%v)", err, err)
	}
	return httpErr.Status
}

func TestCreate_ForcesPersonIDFromPath(t *testing.T) {
	store := storetest.NewMemory()
	svc := NewPersonService(store)

	resp, err := svc.Create(context.Background(), "42", model.Person{"name": "Ada", "person_id": "99"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.PersonID != "42" || resp.ID == "" || resp.Message != "Person added successfully" {
		t.Errorf("unexpected response %+v", resp)
	}

	doc, err := svc.GetByPersonID(context.Background(), "42")
	if err != nil {
		t.Fatal(err)
	}
	if doc["name"] != "Ada" || doc.StoreID() != resp.ID {
		t.Errorf("unexpected stored document %v", doc)
	}
	if _, err := svc.GetByPersonID(context.Background(), "99"); statusOf(t, err) != http.StatusNotFound {
		t.Error("body person_id must not be stored")
	}
}

func TestCreate_DoesNotMutateInput(t *testing.T) {
	svc := NewPersonService(storetest.NewMemory())
	data := model.Person{"name": "Ada"}

	if _, err := svc.Create(context.Background(), "1", data); err != nil {
		t.Fatal(err)
	}
	if _, ok := data["person_id"]; ok {
		t.Error("caller's map was modified")
	}
}

func TestList_EmptyIsNotNil(t *testing.T) {
	persons, err := NewPersonService(storetest.NewMemory()).List(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if persons == nil || len(persons) != 0 {
		t.Errorf("expected empty non-nil slice, got %#v", persons)
	}
}

func TestGetByStoreID(t *testing.T) {
	ctx := context.Background()
	svc := NewPersonService(storetest.NewMemory())
	created, _ := svc.Create(ctx, "7", model.Person{"name": "Grace"})

	doc, err := svc.GetByStoreID(ctx, created.ID)
	if err != nil {
		t.Fatal(err)
	}
	if doc.PersonID() != "7" {
		t.Errorf("unexpected document %v", doc)
	}

	if _, err := svc.GetByStoreID(ctx, "64b7f0c2a1b2c3d4e5f60718"); statusOf(t, err) != http.StatusNotFound {
		t.Error("expected 404 for unknown id")
	}
	if _, err := svc.GetByStoreID(ctx, "not-hex"); statusOf(t, err) != http.StatusInternalServerError {
		t.Error("expected 500 for malformed id")
	}
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	svc := NewPersonService(storetest.NewMemory())
	_, _ = svc.Create(ctx, "42", model.Person{"name": "Ada", "age": int64(36)})

	resp, err := svc.Update(ctx, "42", model.Person{"name": "Ada L."})
	if err != nil {
		t.Fatal(err)
	}
	if resp.ModifiedCount != 1 || resp.Message != "Person updated successfully" {
		t.Errorf("unexpected response %+v", resp)
	}

	resp, err = svc.Update(ctx, "42", model.Person{"name": "Ada L."})
	if err != nil {
		t.Fatal(err)
	}
	if resp.ModifiedCount != 0 || resp.Message != "No changes made" {
		t.Errorf("expected no-op update, got %+v", resp)
	}

	doc, _ := svc.GetByPersonID(ctx, "42")
	if doc["age"] != int64(36) {
		t.Errorf("merge dropped untouched field: %v", doc)
	}

	if _, err := svc.Update(ctx, "missing", model.Person{"a": "b"}); statusOf(t, err) != http.StatusNotFound {
		t.Error("expected 404 for unknown person_id")
	}
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	svc := NewPersonService(storetest.NewMemory())
	_, _ = svc.Create(ctx, "42", model.Person{"name": "Ada"})

	resp, err := svc.Delete(ctx, "42")
	if err != nil {
		t.Fatal(err)
	}
	if resp.Message != "Person deleted successfully" || resp.PersonID != "42" {
		t.Errorf("unexpected response %+v", resp)
	}
	if _, err := svc.Delete(ctx, "42"); statusOf(t, err) != http.StatusNotFound {
		t.Error("expected 404 on second delete")
	}
}

func TestStoreErrorsBecome500WithRawMessage(t *testing.T) {
	ctx := context.Background()
	store := storetest.NewMemory()
	store.FindAllErr = func() error { return errors.New("connection refused") }
	store.InsertErr = func(model.Person) error { return errors.New("disk full") }

	svc := NewPersonService(store)

	_, err := svc.List(ctx)
	if statusOf(t, err) != http.StatusInternalServerError || err.Error() != "connection refused" {
		t.Errorf("unexpected error %v", err)
	}

	_, err = svc.Create(ctx, "1", model.Person{"a": int64(1)})
	if statusOf(t, err) != http.StatusInternalServerError || err.Error() != "disk full" {
		t.Errorf("unexpected error %v", err)
	}
}
