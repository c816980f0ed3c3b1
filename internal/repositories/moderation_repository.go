package repositories

import (
	"context"
	"fmt"
	"strconv"

	"github.com/anonto42/petconnect/backend/internal/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// ModerationRepository serves the read-only admin views over stored content.
type ModerationRepository interface {
	// ListReports flattens post and comment reports into rows, newest first.
	// An empty status matches every row.
	ListReports(ctx context.Context, status models.ReportStatus, skip, limit int64) ([]models.ReportRow, int64, error)
	PostsByCategory(ctx context.Context) ([]models.CategoryCount, error)
	MostPopularPets(ctx context.Context, limit int64) ([]models.PetPopularity, error)
	CountReportedPosts(ctx context.Context) (int64, error)
}

type MongoModerationRepository struct {
	posts *mongo.Collection
	db    *mongo.Database
}

func NewMongoModerationRepository(db *mongo.Database) *MongoModerationRepository {
	return &MongoModerationRepository{posts: db.Collection("posts"), db: db}
}

type reportFacet struct {
	Rows []struct {
		TargetID primitive.ObjectID    `bson:"_id"`
		Type     models.ReportTarget   `bson:"type"`
		Index    int64                 `bson:"index"`
		Status   models.ReportStatus   `bson:"status"`
		Report   models.Report         `bson:"reports"`
		Reporter []models.ReporterInfo `bson:"reporter"`
	} `bson:"rows"`
	Total []struct {
		Count int64 `bson:"count"`
	} `bson:"total"`
}

func (r *MongoModerationRepository) ListReports(ctx context.Context, status models.ReportStatus, skip, limit int64) ([]models.ReportRow, int64, error) {
	project := func(kind models.ReportTarget) bson.D {
		return bson.D{{Key: "$project", Value: bson.M{"reports": 1, "type": bson.M{"$literal": kind}}}}
	}

	pipeline := mongo.Pipeline{
		project(models.TargetPost),
		{{Key: "$unionWith", Value: bson.M{
			"coll":     "comments",
			"pipeline": bson.A{project(models.TargetComment)},
		}}},
		{{Key: "$unwind", Value: bson.M{"path": "$reports", "includeArrayIndex": "index"}}},
		{{Key: "$addFields", Value: bson.M{"status": bson.M{"$ifNull": bson.A{"$reports.status", models.ReportPending}}}}},
	}
	if status != "" {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"status": status}}})
	}
	pipeline = append(pipeline,
		bson.D{{Key: "$sort", Value: bson.D{{Key: "reports.createdAt", Value: -1}, {Key: "_id", Value: -1}, {Key: "index", Value: -1}}}},
		bson.D{{Key: "$facet", Value: bson.M{
			"rows": bson.A{
				bson.M{"$skip": skip},
				bson.M{"$limit": limit},
				bson.M{"$lookup": bson.M{
					"from":         "users",
					"localField":   "reports.user",
					"foreignField": "_id",
					"as":           "reporter",
				}},
			},
			"total": bson.A{bson.M{"$count": "count"}},
		}}},
	)

	cursor, err := r.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, 0, fmt.Errorf("aggregate reports: %w", err)
	}
	defer cursor.Close(ctx)

	var facets []reportFacet
	if err := cursor.All(ctx, &facets); err != nil {
		return nil, 0, err
	}
	if len(facets) == 0 {
		return nil, 0, nil
	}

	facet := facets[0]
	var total int64
	if len(facet.Total) > 0 {
		total = facet.Total[0].Count
	}
	rows := make([]models.ReportRow, 0, len(facet.Rows))
	for _, row := range facet.Rows {
		out := models.ReportRow{
			ID:        row.TargetID.Hex() + "-" + strconv.FormatInt(row.Index, 10),
			Type:      row.Type,
			TargetID:  row.TargetID,
			Reason:    row.Report.Reason,
			Status:    row.Status,
			CreatedAt: row.Report.CreatedAt,
		}
		if len(row.Reporter) > 0 {
			reporter := row.Reporter[0]
			out.Reporter = &reporter
		}
		rows = append(rows, out)
	}
	return rows, total, nil
}

func (r *MongoModerationRepository) PostsByCategory(ctx context.Context) ([]models.CategoryCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isActive": true}}},
		{{Key: "$group", Value: bson.M{"_id": "$category", "count": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "count", Value: -1}, {Key: "_id", Value: 1}}}},
	}
	var out []models.CategoryCount
	if err := r.aggregate(ctx, pipeline, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoModerationRepository) MostPopularPets(ctx context.Context, limit int64) ([]models.PetPopularity, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.M{"isActive": true, "pet": bson.M{"$ne": nil}}}},
		{{Key: "$group", Value: bson.M{
			"_id":        "$pet",
			"likesCount": bson.M{"$sum": bson.M{"$size": bson.M{"$ifNull": bson.A{"$likes", bson.A{}}}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "likesCount", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: limit}},
		{{Key: "$lookup", Value: bson.M{"from": "pets", "localField": "_id", "foreignField": "_id", "as": "pet"}}},
		{{Key: "$unwind", Value: "$pet"}},
		{{Key: "$project", Value: bson.M{"likesCount": 1, "name": "$pet.name", "owner": "$pet.owner"}}},
	}
	var out []models.PetPopularity
	if err := r.aggregate(ctx, pipeline, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoModerationRepository) CountReportedPosts(ctx context.Context) (int64, error) {
	return r.posts.CountDocuments(ctx, bson.M{"reports.0": bson.M{"$exists": true}})
}

func (r *MongoModerationRepository) aggregate(ctx context.Context, pipeline mongo.Pipeline, out interface{}) error {
	cursor, err := r.posts.Aggregate(ctx, pipeline)
	if err != nil {
		return fmt.Errorf("aggregate posts: %w", err)
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}
