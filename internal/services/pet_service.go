package services

import (
	"context"
	"strings"

	"github.com/anonto42/petconnect/backend/internal/models"
	"github.com/anonto42/petconnect/backend/internal/repositories"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PetService struct {
	pets  repositories.PetRepository
	users repositories.UserRepository
}

func NewPetService(pets repositories.PetRepository, users repositories.UserRepository) *PetService {
	return &PetService{pets: pets, users: users}
}

func (s *PetService) Create(ctx context.Context, p models.Principal, req models.CreatePetRequest) (*models.Pet, error) {
	pet := &models.Pet{
		Name:           strings.TrimSpace(req.Name),
		Type:           req.Type,
		Breed:          strings.TrimSpace(req.Breed),
		Age:            req.Age,
		Description:    strings.TrimSpace(req.Description),
		Photos:         req.Photos,
		ProfilePicture: req.ProfilePicture,
		Owner:          p.UserID,
	}
	if pet.Photos == nil {
		pet.Photos = []string{}
	}
	if pet.ProfilePicture == "" && len(pet.Photos) > 0 {
		pet.ProfilePicture = pet.Photos[0]
	}

	if err := s.pets.CreatePet(ctx, pet); err != nil {
		return nil, storeErr(err, "pet")
	}
	if err := s.users.AddPet(ctx, p.UserID, pet.ID); err != nil {
		return nil, storeErr(err, "user")
	}
	return pet, nil
}

func (s *PetService) ListMine(ctx context.Context, p models.Principal) ([]models.Pet, error) {
	pets, err := s.pets.ListPetsByOwner(ctx, p.UserID)
	if err != nil {
		return nil, storeErr(err, "pets")
	}
	if pets == nil {
		pets = []models.Pet{}
	}
	return pets, nil
}

func (s *PetService) Get(ctx context.Context, id primitive.ObjectID) (*models.PetView, error) {
	pet, err := s.pets.GetPetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "pet")
	}
	view := &models.PetView{Pet: *pet}
	if owner, err := s.users.GetUserByID(ctx, pet.Owner); err == nil {
		compact := owner.ToCompact()
		view.OwnerInfo = &compact
	}
	return view, nil
}

func (s *PetService) owned(ctx context.Context, p models.Principal, id primitive.ObjectID, action string) (*models.Pet, error) {
	pet, err := s.pets.GetPetByID(ctx, id)
	if err != nil {
		return nil, storeErr(err, "pet")
	}
	if !p.CanModify(pet.Owner) {
		return nil, forbidden(action)
	}
	return pet, nil
}

func (s *PetService) Update(ctx context.Context, p models.Principal, id primitive.ObjectID, req models.UpdatePetRequest) (*models.Pet, error) {
	if _, err := s.owned(ctx, p, id, "edit this pet"); err != nil {
		return nil, err
	}
	pet, err := s.pets.UpdatePet(ctx, id, models.PetPatch{
		Name:           req.Name,
		Type:           req.Type,
		Breed:          req.Breed,
		Age:            req.Age,
		Description:    req.Description,
		Photos:         req.Photos,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		return nil, storeErr(err, "pet")
	}
	return pet, nil
}

// Delete removes the pet and its reference from the owner's account.
func (s *PetService) Delete(ctx context.Context, p models.Principal, id primitive.ObjectID) error {
	pet, err := s.owned(ctx, p, id, "delete this pet")
	if err != nil {
		return err
	}
	if err := s.pets.DeletePet(ctx, id); err != nil {
		return storeErr(err, "pet")
	}
	return storeErr(s.users.RemovePet(ctx, pet.Owner, id), "user")
}
