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

type CategoryRepository interface {
	CreateCategory(ctx context.Context, category *models.Category) error
	GetCategoryByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error)
	ListActiveCategories(ctx context.Context) ([]models.Category, error)
	UpdateCategory(ctx context.Context, id primitive.ObjectID, patch models.CategoryPatch) (*models.Category, error)
}

type MongoCategoryRepository struct {
	collection *mongo.Collection
}

func NewMongoCategoryRepository(db *mongo.Database) *MongoCategoryRepository {
	return &MongoCategoryRepository{collection: db.Collection("categories")}
}

func (r *MongoCategoryRepository) CreateCategory(ctx context.Context, category *models.Category) error {
	category.ID = primitive.NewObjectID()
	category.CreatedAt = time.Now()
	category.UpdatedAt = category.CreatedAt
	category.IsActive = true
	if _, err := r.collection.InsertOne(ctx, category); err != nil {
		return fmt.Errorf("insert category: %w", translate(err))
	}
	return nil
}

func (r *MongoCategoryRepository) GetCategoryByID(ctx context.Context, id primitive.ObjectID) (*models.Category, error) {
	var category models.Category
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&category); err != nil {
		return nil, translate(err)
	}
	return &category, nil
}

func (r *MongoCategoryRepository) ListActiveCategories(ctx context.Context) ([]models.Category, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"isActive": true}, options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var categories []models.Category
	if err = cursor.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *MongoCategoryRepository) UpdateCategory(ctx context.Context, id primitive.ObjectID, patch models.CategoryPatch) (*models.Category, error) {
	set := bson.M{"updatedAt": time.Now()}
	if patch.DisplayName != nil {
		set["displayName"] = *patch.DisplayName
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Icon != nil {
		set["icon"] = *patch.Icon
	}
	if patch.IsActive != nil {
		set["isActive"] = *patch.IsActive
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var category models.Category
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&category); err != nil {
		return nil, translate(err)
	}
	return &category, nil
}
