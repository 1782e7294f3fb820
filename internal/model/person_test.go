package model

import (
	"errors"
	"testing"
)

func TestDecodePerson_PreservesIntegers(t *testing.T) {
	p, err := DecodePerson([]byte(`{"name":"Ada","age":36,"score":9.5,"tags":[1,"x"],"address":{"zip":10115}}`))
	if err != nil {
		t.Fatalf("DecodePerson: %v", err)
	}

	if age, ok := p["age"].(int64); !ok || age != 36 {
		t.Errorf("expected int64 36, got %T %v", p["age"], p["age"])
	}
	if score, ok := p["score"].(float64); !ok || score != 9.5 {
		t.Errorf("expected float64 9.5, got %T %v", p["score"], p["score"])
	}
	if tags := p["tags"].([]any); tags[0] != int64(1) {
		t.Errorf("expected nested array ints to be int64, got %T", tags[0])
	}
	if zip := p["address"].(map[string]any)["zip"]; zip != int64(10115) {
		t.Errorf("expected nested object ints to be int64, got %T", zip)
	}
}

func TestDecodePerson_Rejects(t *testing.T) {
	if _, err := DecodePerson([]byte(`[1,2]`)); !errors.Is(err, ErrNotAnObject) {
		t.Errorf("expected ErrNotAnObject for array, got %v", err)
	}
	if _, err := DecodePerson([]byte(`null`)); !errors.Is(err, ErrNotAnObject) {
		t.Errorf("expected ErrNotAnObject for null, got %v", err)
	}
	if _, err := DecodePerson([]byte(`{"a":`)); err == nil {
		t.Error("expected syntax error")
	}
	if _, err := DecodePerson([]byte(`{} {}`)); err == nil {
		t.Error("expected error for trailing data")
	}
}

func TestPerson_CloneIsDeep(t *testing.T) {
	p := Person{"name": "Ada", "address": map[string]any{"city": "London"}}
	c := p.Clone()

	c["address"].(map[string]any)["city"] = "Paris"
	if p["address"].(map[string]any)["city"] != "London" {
		t.Error("clone shares nested maps with the original")
	}
}

func TestPerson_Identifiers(t *testing.T) {
	p := Person{FieldStoreID: "65f0c0ffee", FieldPersonID: "42"}
	if p.StoreID() != "65f0c0ffee" || p.PersonID() != "42" {
		t.Errorf("unexpected identifiers %q %q", p.StoreID(), p.PersonID())
	}
}
