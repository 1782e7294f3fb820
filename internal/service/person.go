package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/deppfellow/crm-api/internal/errs"
	"github.com/deppfellow/crm-api/internal/model"
	"github.com/deppfellow/crm-api/internal/repository"
)

const errPersonNotFound = "Person not found"

// PersonService implements the person CRUD operations.
//
// Store failures surface as 500 errors carrying the store's own message;
// lookups that match nothing surface as 404 "Person not found".
type PersonService struct {
	repo repository.PersonRepository
}

func NewPersonService(repo repository.PersonRepository) *PersonService {
	return &PersonService{repo: repo}
}

// List returns every stored person, never nil.
func (s *PersonService) List(ctx context.Context) ([]model.Person, error) {
	persons, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, errs.NewInternalServerError(err)
	}
	if persons == nil {
		persons = []model.Person{}
	}
	return persons, nil
}

// GetByStoreID looks a person up by the store-assigned id. A malformed id
// is reported by the store and therefore ends up as a 500.
func (s *PersonService) GetByStoreID(ctx context.Context, id string) (model.Person, error) {
	person, found, err := s.repo.FindByStoreID(ctx, id)
	if err != nil {
		return nil, errs.NewInternalServerError(err)
	}
	if !found {
		return nil, errs.NewNotFoundError(errPersonNotFound)
	}
	return person, nil
}

// GetByPersonID returns the first person whose person_id matches.
func (s *PersonService) GetByPersonID(ctx context.Context, personID string) (model.Person, error) {
	person, found, err := s.repo.FindByPersonID(ctx, personID)
	if err != nil {
		return nil, errs.NewInternalServerError(err)
	}
	if !found {
		return nil, errs.NewNotFoundError(errPersonNotFound)
	}
	return person, nil
}

// Create stores data with person_id forced to the path value. Any
// person_id in the body is overwritten. Duplicate person_ids are allowed.
func (s *PersonService) Create(ctx context.Context, personID string, data model.Person) (*model.CreatePersonResponse, error) {
	doc := data.Clone()
	doc[model.FieldPersonID] = personID

	id, err := s.repo.Insert(ctx, doc)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("person_id", personID).Msg("Failed to add person")
		return nil, errs.NewInternalServerError(err)
	}

	zerolog.Ctx(ctx).Info().
		Str("person_id", personID).
		Str("store_id", id).
		Msgf("Person added successfully: %s", personID)

	return &model.CreatePersonResponse{
		Message:  "Person added successfully",
		ID:       id,
		PersonID: personID,
	}, nil
}

// Update merges data into the first person whose person_id matches.
// Fields absent from data keep their stored values.
func (s *PersonService) Update(ctx context.Context, personID string, data model.Person) (*model.UpdatePersonResponse, error) {
	result, err := s.repo.UpdateByPersonID(ctx, personID, data)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("person_id", personID).Msg("Failed to update person")
		return nil, errs.NewInternalServerError(err)
	}
	if result.MatchedCount == 0 {
		return nil, errs.NewNotFoundError(errPersonNotFound)
	}

	message := "Person updated successfully"
	if result.ModifiedCount == 0 {
		message = "No changes made"
	}

	zerolog.Ctx(ctx).Info().
		Str("person_id", personID).
		Int64("modified_count", result.ModifiedCount).
		Msgf("Person updated: %s", personID)

	return &model.UpdatePersonResponse{
		Message:       message,
		PersonID:      personID,
		ModifiedCount: result.ModifiedCount,
	}, nil
}

// Delete removes the first person whose person_id matches.
func (s *PersonService) Delete(ctx context.Context, personID string) (*model.DeletePersonResponse, error) {
	deleted, err := s.repo.DeleteByPersonID(ctx, personID)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Str("person_id", personID).Msg("Failed to delete person")
		return nil, errs.NewInternalServerError(err)
	}
	if deleted == 0 {
		return nil, errs.NewNotFoundError(errPersonNotFound)
	}

	zerolog.Ctx(ctx).Info().Str("person_id", personID).Msgf("Person deleted: %s", personID)

	return &model.DeletePersonResponse{
		Message:  "Person deleted successfully",
		PersonID: personID,
	}, nil
}

// Ping reports whether the store answers.
func (s *PersonService) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
