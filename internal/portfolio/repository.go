package portfolio

import (
	"context"
	"time"

	"github.com/ranihwanifactory/mya/internal/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Store is the boundary to the portfolio collection. Implementations assign
// ids and timestamps, and report failures classified by the db package.
type Store interface {
	// List returns every item, newest created first.
	List(ctx context.Context) ([]Item, error)
	// Create stores item and returns the id assigned to it.
	Create(ctx context.Context, item Item) (string, error)
	// Update applies patch to the item with id and stamps its update time.
	// It returns db.ErrNotFound when no such item exists.
	Update(ctx context.Context, id string, patch Patch) error
	// Delete removes the item with id. Deleting a missing item is not an
	// error.
	Delete(ctx context.Context, id string) error
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

func (r *MongoRepository) List(ctx context.Context) ([]Item, error) {
	opts := options.Find().SetSort(db.NewestFirst())

	cursor, err := r.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, db.FromMongo(err)
	}
	defer cursor.Close(ctx)

	items := make([]Item, 0)
	for cursor.Next(ctx) {
		var item Item
		if err := cursor.Decode(&item); err != nil {
			return nil, db.FromMongo(err)
		}
		if item.Tags == nil {
			item.Tags = []string{}
		}
		items = append(items, item)
	}
	if err := cursor.Err(); err != nil {
		return nil, db.FromMongo(err)
	}

	return items, nil
}

func (r *MongoRepository) Create(ctx context.Context, item Item) (string, error) {
	now := r.now()
	item.ID = primitive.NewObjectID().Hex()
	item.CreatedAt = now
	item.UpdatedAt = now
	if item.Tags == nil {
		item.Tags = []string{}
	}

	if _, err := r.col.InsertOne(ctx, item); err != nil {
		return "", db.FromMongo(err)
	}
	return item.ID, nil
}

func (r *MongoRepository) Update(ctx context.Context, id string, patch Patch) error {
	set := patchToBSON(patch)
	set["updated_at"] = r.now()

	res, err := r.col.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
	if err != nil {
		return db.FromMongo(err)
	}
	if res.MatchedCount == 0 {
		return db.FromMongo(mongo.ErrNoDocuments)
	}
	return nil
}

func (r *MongoRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.col.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return db.FromMongo(err)
	}
	return nil
}

func patchToBSON(p Patch) bson.M {
	set := bson.M{}
	if p.Title != nil {
		set["title"] = *p.Title
	}
	if p.Description != nil {
		set["description"] = *p.Description
	}
	if p.ImageURL != nil {
		set["image_url"] = *p.ImageURL
	}
	if p.ProjectURL != nil {
		set["project_url"] = *p.ProjectURL
	}
	if p.Category != nil {
		set["category"] = *p.Category
	}
	if p.Tags != nil {
		set["tags"] = *p.Tags
	}
	if p.IsFeatured != nil {
		set["is_featured"] = *p.IsFeatured
	}
	return set
}
