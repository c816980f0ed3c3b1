package memory

import (
	"context"
	"sort"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PetRepository struct {
	s *Store
}

var _ repositories.PetRepository = (*PetRepository)(nil)

func clonePet(p *models.Pet) *models.Pet {
	c := *p
	c.Photos = append([]string(nil), p.Photos...)
	if p.Age != nil {
		age := *p.Age
		c.Age = &age
	}
	return &c
}

func (r *PetRepository) CreatePet(_ context.Context, pet *models.Pet) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	pet.ID = primitive.NewObjectID()
	pet.CreatedAt = r.s.now()
	pet.UpdatedAt = pet.CreatedAt
	r.s.pets[pet.ID] = clonePet(pet)
	return nil
}

func (r *PetRepository) GetPetByID(_ context.Context, id primitive.ObjectID) (*models.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.pets[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	return clonePet(p), nil
}

func (r *PetRepository) GetPetsByIDs(_ context.Context, ids []primitive.ObjectID) ([]models.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.Pet
	for _, id := range ids {
		if p, ok := r.s.pets[id]; ok {
			out = append(out, *clonePet(p))
		}
	}
	return out, nil
}

func (r *PetRepository) ListPetsByOwner(_ context.Context, owner primitive.ObjectID) ([]models.Pet, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var out []models.Pet
	for _, p := range r.s.pets {
		if p.Owner == owner {
			out = append(out, *clonePet(p))
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return newerFirst(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID)
	})
	return out, nil
}

func (r *PetRepository) UpdatePet(_ context.Context, id primitive.ObjectID, patch models.PetPatch) (*models.Pet, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.pets[id]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Type != nil {
		p.Type = *patch.Type
	}
	if patch.Breed != nil {
		p.Breed = *patch.Breed
	}
	if patch.Age != nil {
		age := *patch.Age
		p.Age = &age
	}
	if patch.Description != nil {
		p.Description = *patch.Description
	}
	if patch.Photos != nil {
		p.Photos = append([]string(nil), patch.Photos...)
	}
	if patch.ProfilePicture != nil {
		p.ProfilePicture = *patch.ProfilePicture
	}
	p.UpdatedAt = r.s.now()
	return clonePet(p), nil
}

func (r *PetRepository) DeletePet(_ context.Context, id primitive.ObjectID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.pets[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.s.pets, id)
	return nil
}

func (r *PetRepository) CountPets(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.pets)), nil
}
