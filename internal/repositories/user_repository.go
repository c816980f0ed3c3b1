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

// UserRepository defines the interface for account data operations
type UserRepository interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error)
	// FindByEmailOrUsername returns the first account holding either value.
	FindByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error)
	UpdateUser(ctx context.Context, id primitive.ObjectID, patch models.UserPatch) (*models.User, error)
	// DeleteUser removes the account and pulls its id from every follower and following list.
	DeleteUser(ctx context.Context, id primitive.ObjectID) error
	// SetFollow adds or removes the follower->target edge on both accounts together
	// and returns the target's resulting follower count.
	SetFollow(ctx context.Context, followerID, targetID primitive.ObjectID, follow bool) (int, error)
	AddPet(ctx context.Context, userID, petID primitive.ObjectID) error
	RemovePet(ctx context.Context, userID, petID primitive.ObjectID) error
	SearchUsers(ctx context.Context, query string, skip, limit int64) ([]models.User, int64, error)
	ListUsers(ctx context.Context, skip, limit int64) ([]models.User, int64, error)
	CountUsers(ctx context.Context, activeOnly bool) (int64, error)
}

// MongoUserRepository implements UserRepository for MongoDB
type MongoUserRepository struct {
	collection *mongo.Collection
}

// NewMongoUserRepository creates a new MongoUserRepository
func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{collection: db.Collection("users")}
}

func (r *MongoUserRepository) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	if user.Pets == nil {
		user.Pets = []primitive.ObjectID{}
	}
	if user.Followers == nil {
		user.Followers = []primitive.ObjectID{}
	}
	if user.Following == nil {
		user.Following = []primitive.ObjectID{}
	}
	if _, err := r.collection.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("insert user: %w", translate(err))
	}
	return nil
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.collection.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *MongoUserRepository) GetUserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) GetUserByFirebaseUID(ctx context.Context, uid string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"firebaseUid": uid})
}

func (r *MongoUserRepository) FindByEmailOrUsername(ctx context.Context, email, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"$or": bson.A{bson.M{"email": email}, bson.M{"username": username}}})
}

func (r *MongoUserRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	n, err := r.collection.CountDocuments(ctx, bson.M{"username": username}, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *MongoUserRepository) GetUsersByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	cursor, err := r.collection.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *MongoUserRepository) UpdateUser(ctx context.Context, id primitive.ObjectID, patch models.UserPatch) (*models.User, error) {
	set := bson.M{"updatedAt": time.Now()}
	if patch.FullName != nil {
		set["fullName"] = *patch.FullName
	}
	if patch.Bio != nil {
		set["bio"] = *patch.Bio
	}
	if patch.ProfilePicture != nil {
		set["profilePicture"] = *patch.ProfilePicture
	}
	if patch.Role != nil {
		set["role"] = *patch.Role
	}
	if patch.IsActive != nil {
		set["isActive"] = *patch.IsActive
	}
	if patch.Password != nil {
		set["password"] = *patch.Password
	}
	if patch.FirebaseUID != nil {
		set["firebaseUid"] = *patch.FirebaseUID
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var user models.User
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&user)
	if err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

func (r *MongoUserRepository) DeleteUser(ctx context.Context, id primitive.ObjectID) error {
	return r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		res, err := r.collection.DeleteOne(sc, bson.M{"_id": id})
		if err != nil {
			return err
		}
		if res.DeletedCount == 0 {
			return ErrNotFound
		}
		_, err = r.collection.UpdateMany(sc,
			bson.M{"$or": bson.A{bson.M{"followers": id}, bson.M{"following": id}}},
			bson.M{"$pull": bson.M{"followers": id, "following": id}},
		)
		return err
	})
}

func (r *MongoUserRepository) SetFollow(ctx context.Context, followerID, targetID primitive.ObjectID, follow bool) (int, error) {
	op := "$addToSet"
	if !follow {
		op = "$pull"
	}

	var count int
	err := r.withTransaction(ctx, func(sc mongo.SessionContext) error {
		now := time.Now()
		res, err := r.collection.UpdateOne(sc, bson.M{"_id": targetID},
			bson.M{op: bson.M{"followers": followerID}, "$set": bson.M{"updatedAt": now}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}
		res, err = r.collection.UpdateOne(sc, bson.M{"_id": followerID},
			bson.M{op: bson.M{"following": targetID}, "$set": bson.M{"updatedAt": now}})
		if err != nil {
			return err
		}
		if res.MatchedCount == 0 {
			return ErrNotFound
		}

		var target struct {
			Followers []primitive.ObjectID `bson:"followers"`
		}
		opts := options.FindOne().SetProjection(bson.M{"followers": 1})
		if err := r.collection.FindOne(sc, bson.M{"_id": targetID}, opts).Decode(&target); err != nil {
			return translate(err)
		}
		count = len(target.Followers)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

// withTransaction runs fn in a multi-document transaction. Requires a replica set.
func (r *MongoUserRepository) withTransaction(ctx context.Context, fn func(sc mongo.SessionContext) error) error {
	session, err := r.collection.Database().Client().StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	_, err = session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	return err
}

func (r *MongoUserRepository) AddPet(ctx context.Context, userID, petID primitive.ObjectID) error {
	return r.updatePets(ctx, userID, bson.M{"$addToSet": bson.M{"pets": petID}})
}

func (r *MongoUserRepository) RemovePet(ctx context.Context, userID, petID primitive.ObjectID) error {
	return r.updatePets(ctx, userID, bson.M{"$pull": bson.M{"pets": petID}})
}

func (r *MongoUserRepository) updatePets(ctx context.Context, userID primitive.ObjectID, update bson.M) error {
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": userID}, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MongoUserRepository) SearchUsers(ctx context.Context, query string, skip, limit int64) ([]models.User, int64, error) {
	filter := bson.M{
		"isActive": true,
		"$or": bson.A{
			bson.M{"username": containsInsensitive(query)},
			bson.M{"fullName": containsInsensitive(query)},
		},
	}
	return r.page(ctx, filter, skip, limit)
}

func (r *MongoUserRepository) ListUsers(ctx context.Context, skip, limit int64) ([]models.User, int64, error) {
	return r.page(ctx, bson.M{}, skip, limit)
}

func (r *MongoUserRepository) page(ctx context.Context, filter bson.M, skip, limit int64) ([]models.User, int64, error) {
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

	var users []models.User
	if err = cursor.All(ctx, &users); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *MongoUserRepository) CountUsers(ctx context.Context, activeOnly bool) (int64, error) {
	filter := bson.M{}
	if activeOnly {
		filter["isActive"] = true
	}
	return r.collection.CountDocuments(ctx, filter)
}
