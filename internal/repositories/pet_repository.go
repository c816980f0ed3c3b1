package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/petconnect/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type PetRepository interface {
	CreatePet(ctx context.Context, pet *models.Pet) error
	GetPetByID(ctx context.Context, id primitive.ObjectID) (*models.Pet, error)
	GetPetsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Pet, error)
	ListPetsByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Pet, error)
	UpdatePet(ctx context.Context, id primitive.ObjectID, patch models.PetPatch) (*models.Pet, error)
	DeletePet(ctx context.Context, id primitive.ObjectID) error
	CountPets(ctx context.Context) (int64, error)
}

type MongoPetRepository struct {
	collection *mongo.Collection
}

func NewMongoPetRepository(db *mongo.Database) *MongoPetRepository {
	return &MongoPetRepository{collection: db.Collection("pets")}
}

func (r *MongoPetRepository) CreatePet(ctx context.Context, pet *models.Pet) error {
	pet.ID = primitive.NewObjectID()
	pet.CreatedAt = time.Now()
	pet.UpdatedAt = pet.CreatedAt
	if pet.Photos == nil {
		pet.Photos = []string{}
	}
	if _, err := r.collection.InsertOne(ctx, pet); err != nil {
		return fmt.Errorf("insert pet: %w", translate(err))
	}
	return nil
}

func (r *MongoPetRepository) GetPetByID(ctx context.Context, id primitive.ObjectID) (*models.Pet, error) {
	var pet models.Pet
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&pet); err != nil {
		return nil, translate(err)
	}
	return &pet, nil
}

func (r *MongoPetRepository) GetPetsByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.Pet, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	return r.find(ctx, bson.M{"_id": bson.M{"$in": ids}}, options.Find())
}

func (r *MongoPetRepository) ListPetsByOwner(ctx context.Context, owner primitive.ObjectID) ([]models.Pet, error) {
	return r.find(ctx, bson.M{"owner": owner}, options.Find().SetSort(newestFirst))
}

func (r *MongoPetRepository) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Pet, error) {
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var pets []models.Pet
	if err = cursor.All(ctx, &pets); err != nil {
		return nil, err
	}
	return pets, nil
}

func (r *MongoPetRepository) UpdatePet(ctx context.Context, id primitive.ObjectID, patch models.PetPatch) (*models.Pet, error) {
	set := bson.M{"updatedAt": time.Now()}
	if patch.Name != nil {
		set["name"] = *patch.Name
	}
	if patch.Type != nil {
		set["type"] = *patch.Type
	}
	if patch.Breed != nil {
		set["breed"] = *patch.Breed
	}
	if patch.Age != nil {
		set["age"] = *patch.Age
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Photos != nil {
		set["photos"] = patch.Photos
	}
	if patch.ProfilePicture != nil {
		set["profilePicture"] = *patch.ProfilePicture
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var pet models.Pet
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&pet); err != nil {
		return nil, translate(err)
	}
	return &pet, nil
}

func (r *MongoPetRepository) DeletePet(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoPetRepository) CountPets(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
