// Package model holds the person document and the payloads exchanged
// with API clients.
package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"math"
	"strconv"
)

const (
	// FieldStoreID is the store-assigned identifier, rendered as a string.
	FieldStoreID = "_id"

	// FieldPersonID is the caller-chosen identifier taken from the URL.
	FieldPersonID = "person_id"
)

// ErrNotAnObject is returned when a body is valid JSON but not an object.
var ErrNotAnObject = errors.New("request body must be a JSON object")

// Person is an open-ended person document. Besides arbitrary fields it
// carries "_id" (assigned by the store) and "person_id" (chosen by the caller).
type Person map[string]any

// StoreID returns the store-assigned identifier, if set.
func (p Person) StoreID() string {
	id, _ := p[FieldStoreID].(string)
	return id
}

// PersonID returns the caller-chosen identifier, if set.
func (p Person) PersonID() string {
	id, _ := p[FieldPersonID].(string)
	return id
}

// Clone returns a deep copy of the document.
func (p Person) Clone() Person {
	if p == nil {
		return nil
	}
	return cloneValue(map[string]any(p)).(map[string]any)
}

func cloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, inner := range t {
			out[k] = cloneValue(inner)
		}
		return out
	case Person:
		return Person(cloneValue(map[string]any(t)).(map[string]any))
	case []any:
		out := make([]any, len(t))
		for i, inner := range t {
			out[i] = cloneValue(inner)
		}
		return out
	default:
		return v
	}
}

// DecodePerson parses a JSON object into a Person.
//
// Integral numbers that fit in 64 bits are kept as int64 so stores do not
// turn 42 into 42.0; every other number becomes float64.
func DecodePerson(data []byte) (Person, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("request body must contain a single JSON value")
	}

	obj, ok := raw.(map[string]any)
	if !ok {
		return nil, ErrNotAnObject
	}
	return Person(normalizeNumbers(obj).(map[string]any)), nil
}

func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, inner := range t {
			t[k] = normalizeNumbers(inner)
		}
		return t
	case []any:
		for i, inner := range t {
			t[i] = normalizeNumbers(inner)
		}
		return t
	case json.Number:
		if i, err := strconv.ParseInt(t.String(), 10, 64); err == nil {
			return i
		}
		if f, err := t.Float64(); err == nil && !math.IsInf(f, 0) {
			return f
		}
		return t.String()
	default:
		return v
	}
}

// CreatePersonResponse is returned by POST /person/{id}.
type CreatePersonResponse struct {
	Message  string `json:"message"`
	ID       string `json:"id"`
	PersonID string `json:"person_id"`
}

// UpdatePersonResponse is returned by PUT /person/{id}.
//
// ModifiedCount is 0 when the record matched but no field changed.
type UpdatePersonResponse struct {
	Message       string `json:"message"`
	PersonID      string `json:"person_id"`
	ModifiedCount int64  `json:"modified_count"`
}

// DeletePersonResponse is returned by DELETE /person/{id}.
type DeletePersonResponse struct {
	Message  string `json:"message"`
	PersonID string `json:"person_id"`
}

// UpdateResult reports the outcome of a merge update at the store.
type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
}
