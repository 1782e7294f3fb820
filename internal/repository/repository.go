// Package repository handles all interactions with the document store.
//
// It hides the store's query language from the service layer. Every
// backend implements PersonRepository with the same first-match and
// merge-update semantics.
package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/deppfellow/crm-api/internal/model"
)

// PersonRepository is the data access contract for person documents.
//
// Lookups return found=false, not an error, when nothing matches.
// Operations keyed by person_id act on the first matching document in
// store order; person_id is not unique.
type PersonRepository interface {
	// FindAll returns every document in store order.
	FindAll(ctx context.Context) ([]model.Person, error)

	// FindByStoreID looks a document up by its store-assigned id.
	// A malformed id is an error.
	FindByStoreID(ctx context.Context, id string) (model.Person, bool, error)

	// FindByPersonID returns the first document whose person_id equals personID.
	FindByPersonID(ctx context.Context, personID string) (model.Person, bool, error)

	// Insert stores a new document and returns its store-assigned id.
	Insert(ctx context.Context, doc model.Person) (string, error)

	// UpdateByPersonID merges fields into the first document whose person_id
	// equals personID. Fields not mentioned are preserved.
	UpdateByPersonID(ctx context.Context, personID string, fields model.Person) (model.UpdateResult, error)

	// DeleteByPersonID removes the first document whose person_id equals
	// personID and returns the number of removed documents (0 or 1).
	DeleteByPersonID(ctx context.Context, personID string) (int64, error)

	// Ping checks that the store answers.
	Ping(ctx context.Context) error
}

// NewStoreID returns a fresh store id in ObjectID hex form.
func NewStoreID() string {
	return primitive.NewObjectID().Hex()
}

// ParseStoreID validates a store id. Every backend accepts exactly the
// 24-hex-digit ObjectID form.
func ParseStoreID(id string) (primitive.ObjectID, error) {
	return primitive.ObjectIDFromHex(id)
}
