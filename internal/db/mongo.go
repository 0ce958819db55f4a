package db

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	PortfoliosCollection      = "portfolios"
	ProjectRequestsCollection = "project_requests"
	UsersCollection           = "users"
)

// NewestFirst is the sort for list reads: newest created first. Documents
// created in the same millisecond are ordered by their ObjectID hex id, which
// grows with creation order.
func NewestFirst() bson.D {
	return bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}
}

type Collections struct {
	Portfolios      *mongo.Collection
	ProjectRequests *mongo.Collection
	Users           *mongo.Collection
}

// Connect dials uri and checks the server answers before returning.
func Connect(ctx context.Context, uri, dbName string) (*mongo.Client, *Collections, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetAppName("studio-api"))
	if err != nil {
		return nil, nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, nil, FromMongo(err)
	}

	database := client.Database(dbName)
	return client, &Collections{
		Portfolios:      database.Collection(PortfoliosCollection),
		ProjectRequests: database.Collection(ProjectRequestsCollection),
		Users:           database.Collection(UsersCollection),
	}, nil
}

// indexes lists the indexes every collection needs. Lists are read with
// NewestFirst, so that sort has an index of its own.
func indexes(cols *Collections) map[*mongo.Collection][]mongo.IndexModel {
	newestFirst := mongo.IndexModel{Keys: NewestFirst()}
	return map[*mongo.Collection][]mongo.IndexModel{
		cols.Portfolios: {
			newestFirst,
			{Keys: bson.D{{Key: "category", Value: 1}, {Key: "created_at", Value: -1}}},
		},
		cols.ProjectRequests: {
			newestFirst,
			{Keys: bson.D{{Key: "status", Value: 1}}},
		},
		cols.Users: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
	}
}

func EnsureIndexes(ctx context.Context, cols *Collections) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	for col, models := range indexes(cols) {
		if _, err := col.Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("indexes on %s: %w", col.Name(), FromMongo(err))
		}
	}
	return nil
}
