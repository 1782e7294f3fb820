package storetest

import (
	"context"
	"errors"
	"testing"

	"github.com/deppfellow/crm-api/internal/model"
)

func TestMemory_FirstMatchWins(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	firstID, _ := m.Insert(ctx, model.Person{"person_id": "1", "name": "first"})
	_, _ = m.Insert(ctx, model.Person{"person_id": "1", "name": "second"})

	got, found, err := m.FindByPersonID(ctx, "1")
	if err != nil || !found {
		t.Fatalf("expected a match, found=%v err=%v", found, err)
	}
	if got.StoreID() != firstID {
		t.Errorf("expected first inserted document, got %v", got)
	}

	n, _ := m.DeleteByPersonID(ctx, "1")
	if n != 1 || m.Len() != 1 {
		t.Fatalf("expected exactly one deletion, n=%d len=%d", n, m.Len())
	}
	left, _, _ := m.FindByPersonID(ctx, "1")
	if left["name"] != "second" {
		t.Errorf("expected the second document to survive, got %v", left)
	}
}

func TestMemory_UpdateMergesAndCountsChanges(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_, _ = m.Insert(ctx, model.Person{"person_id": "1", "name": "a", "age": int64(30)})

	res, err := m.UpdateByPersonID(ctx, "1", model.Person{"name": "b"})
	if err != nil {
		t.Fatal(err)
	}
	if res.MatchedCount != 1 || res.ModifiedCount != 1 {
		t.Errorf("unexpected result %+v", res)
	}

	res, _ = m.UpdateByPersonID(ctx, "1", model.Person{"name": "b"})
	if res.MatchedCount != 1 || res.ModifiedCount != 0 {
		t.Errorf("expected unchanged update to report 0 modified, got %+v", res)
	}

	doc, _, _ := m.FindByPersonID(ctx, "1")
	if doc["age"] != int64(30) || doc["name"] != "b" {
		t.Errorf("expected merge to keep untouched fields, got %v", doc)
	}
}

func TestMemory_ReturnsCopies(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	_, _ = m.Insert(ctx, model.Person{"person_id": "1", "nested": map[string]any{"k": "v"}})

	doc, _, _ := m.FindByPersonID(ctx, "1")
	doc["nested"].(map[string]any)["k"] = "changed"

	again, _, _ := m.FindByPersonID(ctx, "1")
	if again["nested"].(map[string]any)["k"] != "v" {
		t.Error("stored document was mutated through a returned copy")
	}
}

func TestMemory_ErrorHooks(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")
	m := NewMemory()
	m.FindAllErr = func() error { return boom }
	m.PingErr = func() error { return boom }

	if _, err := m.FindAll(ctx); !errors.Is(err, boom) {
		t.Errorf("expected hook error, got %v", err)
	}
	if err := m.Ping(ctx); !errors.Is(err, boom) {
		t.Errorf("expected hook error, got %v", err)
	}
}

func TestMemory_MalformedStoreID(t *testing.T) {
	if _, _, err := NewMemory().FindByStoreID(context.Background(), "xyz"); err == nil {
		t.Error("expected malformed id error")
	}
}
