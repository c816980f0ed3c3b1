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

// CommentRepository defines the interface for comment data operations
type CommentRepository interface {
	CreateComment(ctx context.Context, comment *models.Comment) error
	GetCommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error)
	// ListByPost returns the active comments of a post, oldest first.
	ListByPost(ctx context.Context, postID primitive.ObjectID, skip, limit int64) ([]models.Comment, int64, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*models.Comment, error)
	SoftDeleteComment(ctx context.Context, id primitive.ObjectID) error
	DeleteComment(ctx context.Context, id primitive.ObjectID) error
	DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error)
	ToggleLike(ctx context.Context, id, userID primitive.ObjectID) (*models.Comment, error)
	AddReport(ctx context.Context, id primitive.ObjectID, report models.Report) error
	SetReportStatus(ctx context.Context, id primitive.ObjectID, index int, status models.ReportStatus, at time.Time) error
	CountComments(ctx context.Context) (int64, error)
}

// MongoCommentRepository implements CommentRepository for MongoDB
type MongoCommentRepository struct {
	collection *mongo.Collection
}

func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{collection: db.Collection("comments")}
}

func (r *MongoCommentRepository) CreateComment(ctx context.Context, comment *models.Comment) error {
	comment.ID = primitive.NewObjectID()
	comment.CreatedAt = time.Now()
	comment.UpdatedAt = comment.CreatedAt
	comment.IsActive = true
	comment.Likes = []primitive.ObjectID{}
	comment.Reports = []models.Report{}
	if _, err := r.collection.InsertOne(ctx, comment); err != nil {
		return fmt.Errorf("insert comment: %w", translate(err))
	}
	return nil
}

func (r *MongoCommentRepository) GetCommentByID(ctx context.Context, id primitive.ObjectID) (*models.Comment, error) {
	var comment models.Comment
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&comment); err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (r *MongoCommentRepository) ListByPost(ctx context.Context, postID primitive.ObjectID, skip, limit int64) ([]models.Comment, int64, error) {
	filter := bson.M{"post": postID, "isActive": true}
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().SetSkip(skip).SetLimit(limit).
		SetSort(bson.D{{Key: "createdAt", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var comments []models.Comment
	if err = cursor.All(ctx, &comments); err != nil {
		return nil, 0, err
	}
	return comments, total, nil
}

func (r *MongoCommentRepository) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*models.Comment, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"content": content, "updatedAt": time.Now()}}
	var comment models.Comment
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id, "isActive": true}, update, opts).Decode(&comment); err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (r *MongoCommentRepository) SoftDeleteComment(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoCommentRepository) DeleteComment(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoCommentRepository) DeleteByPost(ctx context.Context, postID primitive.ObjectID) (int64, error) {
	res, err := r.collection.DeleteMany(ctx, bson.M{"post": postID})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *MongoCommentRepository) ToggleLike(ctx context.Context, id, userID primitive.ObjectID) (*models.Comment, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var comment models.Comment
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id, "isActive": true}, toggleMembership("likes", userID), opts).Decode(&comment)
	if err != nil {
		return nil, translate(err)
	}
	return &comment, nil
}

func (r *MongoCommentRepository) AddReport(ctx context.Context, id primitive.ObjectID, report models.Report) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": id, "isActive": true}, bson.M{"$push": bson.M{"reports": report}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoCommentRepository) SetReportStatus(ctx context.Context, id primitive.ObjectID, index int, status models.ReportStatus, at time.Time) error {
	return setReportStatus(ctx, r.collection, id, index, status, at)
}

func (r *MongoCommentRepository) CountComments(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}
