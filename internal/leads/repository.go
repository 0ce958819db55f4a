package leads

import (
	"context"
	"time"

	"github.com/ranihwanifactory/mya/internal/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store interface {
	// Create stores req, assigning its id and creation time, and returns the
	// stored record.
	Create(ctx context.Context, req ProjectRequest) (ProjectRequest, error)
	// List returns every request, newest first.
	List(ctx context.Context) ([]ProjectRequest, error)
}

type MongoRepository struct {
	col *mongo.Collection
	now func() time.Time
}

func NewRepository(col *mongo.Collection) *MongoRepository {
	return &MongoRepository{
		col: col,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (r *MongoRepository) Create(ctx context.Context, req ProjectRequest) (ProjectRequest, error) {
	req.ID = primitive.NewObjectID().Hex()
	req.CreatedAt = r.now()
	if _, err := r.col.InsertOne(ctx, req); err != nil {
		return ProjectRequest{}, db.FromMongo(err)
	}
	return req, nil
}

func (r *MongoRepository) List(ctx context.Context) ([]ProjectRequest, error) {
	opts := options.Find().SetSort(db.NewestFirst())

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, db.FromMongo(err)
	}
	defer cursor.Close(ctx)

	items := make([]ProjectRequest, 0)
	for cursor.Next(ctx) {
		var req ProjectRequest
		if err := cursor.Decode(&req); err != nil {
			return nil, db.FromMongo(err)
		}
		items = append(items, req)
	}
	if err := cursor.Err(); err != nil {
		return nil, db.FromMongo(err)
	}
	return items, nil
}
