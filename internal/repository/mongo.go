package repository

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/deppfellow/crm-api/internal/model"
)

// MongoPersonRepository stores persons in a MongoDB collection.
type MongoPersonRepository struct {
	coll *mongo.Collection
}

// NewMongoPersonRepository wraps a collection.
func NewMongoPersonRepository(coll *mongo.Collection) *MongoPersonRepository {
	return &MongoPersonRepository{coll: coll}
}

func (r *MongoPersonRepository) FindAll(ctx context.Context) ([]model.Person, error) {
	cursor, err := r.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, errors.WithStack(err)
	}

	var docs []bson.M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, errors.WithStack(err)
	}

	persons := make([]model.Person, 0, len(docs))
	for _, doc := range docs {
		persons = append(persons, fromBSON(doc))
	}
	return persons, nil
}

func (r *MongoPersonRepository) FindByStoreID(ctx context.Context, id string) (model.Person, bool, error) {
	oid, err := ParseStoreID(id)
	if err != nil {
		return nil, false, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoPersonRepository) FindByPersonID(ctx context.Context, personID string) (model.Person, bool, error) {
	return r.findOne(ctx, bson.M{model.FieldPersonID: personID})
}

func (r *MongoPersonRepository) findOne(ctx context.Context, filter bson.M) (model.Person, bool, error) {
	var doc bson.M
	err := r.coll.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.WithStack(err)
	}
	return fromBSON(doc), true, nil
}

func (r *MongoPersonRepository) Insert(ctx context.Context, doc model.Person) (string, error) {
	res, err := r.coll.InsertOne(ctx, bson.M(doc))
	if err != nil {
		return "", errors.WithStack(err)
	}
	return idString(res.InsertedID), nil
}

func (r *MongoPersonRepository) UpdateByPersonID(ctx context.Context, personID string, fields model.Person) (model.UpdateResult, error) {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{model.FieldPersonID: personID},
		bson.M{"$set": bson.M(fields)},
	)
	if err != nil {
		return model.UpdateResult{}, errors.WithStack(err)
	}
	return model.UpdateResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
	}, nil
}

func (r *MongoPersonRepository) DeleteByPersonID(ctx context.Context, personID string) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{model.FieldPersonID: personID})
	if err != nil {
		return 0, errors.WithStack(err)
	}
	return res.DeletedCount, nil
}

func (r *MongoPersonRepository) Ping(ctx context.Context) error {
	return r.coll.Database().Client().Ping(ctx, nil)
}

// fromBSON converts a decoded document into plain Go values that encode
// cleanly as JSON. ObjectIDs become hex strings.
func fromBSON(doc bson.M) model.Person {
	return model.Person(plain(map[string]any(doc)).(map[string]any))
}

func plain(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, inner := range t {
			out[k] = plain(inner)
		}
		return out
	case primitive.M:
		return plain(map[string]any(t))
	case primitive.D:
		out := make(map[string]any, len(t))
		for _, e := range t {
			out[e.Key] = plain(e.Value)
		}
		return out
	case primitive.A:
		out := make([]any, len(t))
		for i, inner := range t {
			out[i] = plain(inner)
		}
		return out
	case primitive.ObjectID:
		return t.Hex()
	default:
		return v
	}
}

// idString renders an inserted id. Callers may supply their own _id of any type.
func idString(id any) string {
	if oid, ok := id.(primitive.ObjectID); ok {
		return oid.Hex()
	}
	return fmt.Sprint(id)
}
