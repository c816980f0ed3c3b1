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

// PostRepository defines the interface for post data operations
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	// GetPostByID returns the post regardless of its active flag.
	GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error)
	ListPosts(ctx context.Context, filter models.PostFilter, skip, limit int64) ([]models.Post, int64, error)
	CountPosts(ctx context.Context, filter models.PostFilter) (int64, error)
	UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*models.Post, error)
	SoftDeletePost(ctx context.Context, id primitive.ObjectID) error
	DeletePost(ctx context.Context, id primitive.ObjectID) error
	// ToggleLike flips userID's membership in the active post's like list in one
	// store operation and returns the persisted post.
	ToggleLike(ctx context.Context, id, userID primitive.ObjectID) (*models.Post, error)
	AddComment(ctx context.Context, postID, commentID primitive.ObjectID) error
	RemoveComment(ctx context.Context, postID, commentID primitive.ObjectID) error
	AddReport(ctx context.Context, id primitive.ObjectID, report models.Report) error
	SetReportStatus(ctx context.Context, id primitive.ObjectID, index int, status models.ReportStatus, at time.Time) error
}

// MongoPostRepository implements PostRepository for MongoDB
type MongoPostRepository struct {
	collection *mongo.Collection
}

// NewMongoPostRepository creates a new MongoPostRepository
func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{collection: db.Collection("posts")}
}

func (r *MongoPostRepository) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	post.CreatedAt = time.Now()
	post.UpdatedAt = post.CreatedAt
	post.IsActive = true
	if post.Media == nil {
		post.Media = []models.MediaItem{}
	}
	post.Likes = []primitive.ObjectID{}
	post.Comments = []primitive.ObjectID{}
	post.Reports = []models.Report{}
	if _, err := r.collection.InsertOne(ctx, post); err != nil {
		return fmt.Errorf("insert post: %w", translate(err))
	}
	return nil
}

func (r *MongoPostRepository) GetPostByID(ctx context.Context, id primitive.ObjectID) (*models.Post, error) {
	var post models.Post
	if err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&post); err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func postFilter(f models.PostFilter) bson.M {
	filter := bson.M{}
	if !f.IncludeInactive {
		filter["isActive"] = true
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.Authors != nil {
		filter["author"] = bson.M{"$in": f.Authors}
	}
	if f.Query != "" {
		filter["content"] = containsInsensitive(f.Query)
	}
	return filter
}

func (r *MongoPostRepository) ListPosts(ctx context.Context, f models.PostFilter, skip, limit int64) ([]models.Post, int64, error) {
	if f.Authors != nil && len(f.Authors) == 0 {
		return nil, 0, nil
	}
	filter := postFilter(f)
	total, err := r.collection.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	findOptions := options.Find().SetSkip(skip).SetLimit(limit).SetSort(newestFirst)
	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var posts []models.Post
	if err = cursor.All(ctx, &posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

func (r *MongoPostRepository) CountPosts(ctx context.Context, f models.PostFilter) (int64, error) {
	if f.Authors != nil && len(f.Authors) == 0 {
		return 0, nil
	}
	return r.collection.CountDocuments(ctx, postFilter(f))
}

func (r *MongoPostRepository) UpdateContent(ctx context.Context, id primitive.ObjectID, content string) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	update := bson.M{"$set": bson.M{"content": content, "updatedAt": time.Now()}}
	var post models.Post
	if err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id, "isActive": true}, update, opts).Decode(&post); err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

func (r *MongoPostRepository) SoftDeletePost(ctx context.Context, id primitive.ObjectID) error {
	return r.updateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"isActive": false, "updatedAt": time.Now()}})
}

func (r *MongoPostRepository) DeletePost(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoPostRepository) ToggleLike(ctx context.Context, id, userID primitive.ObjectID) (*models.Post, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var post models.Post
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id, "isActive": true}, toggleMembership("likes", userID), opts).Decode(&post)
	if err != nil {
		return nil, translate(err)
	}
	return &post, nil
}

// toggleMembership is a pipeline update that removes value from field when
// present and appends it otherwise.
func toggleMembership(field string, value primitive.ObjectID) mongo.Pipeline {
	current := bson.M{"$ifNull": bson.A{"$" + field, bson.A{}}}
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			field: bson.M{"$cond": bson.A{
				bson.M{"$in": bson.A{value, current}},
				bson.M{"$filter": bson.M{
					"input": current,
					"as":    "id",
					"cond":  bson.M{"$ne": bson.A{"$$id", value}},
				}},
				bson.M{"$concatArrays": bson.A{current, bson.A{value}}},
			}},
			"updatedAt": "$$NOW",
		}}},
	}
}

func (r *MongoPostRepository) AddComment(ctx context.Context, postID, commentID primitive.ObjectID) error {
	return r.updateOne(ctx, bson.M{"_id": postID}, bson.M{"$addToSet": bson.M{"comments": commentID}})
}

func (r *MongoPostRepository) RemoveComment(ctx context.Context, postID, commentID primitive.ObjectID) error {
	return r.updateOne(ctx, bson.M{"_id": postID}, bson.M{"$pull": bson.M{"comments": commentID}})
}

func (r *MongoPostRepository) AddReport(ctx context.Context, id primitive.ObjectID, report models.Report) error {
	return r.updateOne(ctx, bson.M{"_id": id, "isActive": true}, bson.M{"$push": bson.M{"reports": report}})
}

func (r *MongoPostRepository) SetReportStatus(ctx context.Context, id primitive.ObjectID, index int, status models.ReportStatus, at time.Time) error {
	return setReportStatus(ctx, r.collection, id, index, status, at)
}

func (r *MongoPostRepository) updateOne(ctx context.Context, filter, update bson.M) error {
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func setReportStatus(ctx context.Context, coll *mongo.Collection, id primitive.ObjectID, index int, status models.ReportStatus, at time.Time) error {
	path := fmt.Sprintf("reports.%d", index)
	res, err := coll.UpdateOne(ctx,
		bson.M{"_id": id, path: bson.M{"$exists": true}},
		bson.M{"$set": bson.M{path + ".status": status, path + ".reviewedAt": at}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
