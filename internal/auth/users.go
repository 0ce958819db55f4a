package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ranihwanifactory/mya/internal/db"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type User struct {
	ID           string    `bson:"_id,omitempty" json:"id,omitempty" gorm:"primaryKey;size:36"`
	Email        string    `bson:"email" json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `bson:"password_hash" json:"-"`
	CreatedAt    time.Time `bson:"created_at" json:"created_at" gorm:"autoCreateTime:false"`
	UpdatedAt    time.Time `bson:"updated_at" json:"updated_at" gorm:"autoUpdateTime:false"`
}

func (User) TableName() string {
	return "users"
}

type UserStore interface {
	// FindByEmail returns db.ErrNotFound when no account uses email.
	FindByEmail(ctx context.Context, email string) (User, error)
	// Upsert creates the account or replaces its password hash.
	Upsert(ctx context.Context, email, passwordHash string) error
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Authenticate checks password against the stored hash for email. Unknown
// accounts and wrong passwords both yield ErrInvalidCredentials.
func Authenticate(ctx context.Context, store UserStore, email, password string) (*User, error) {
	user, err := store.FindByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, db.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if err := ComparePassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

type MongoUserStore struct {
	col *mongo.Collection
}

func NewMongoUserStore(col *mongo.Collection) *MongoUserStore {
	return &MongoUserStore{col: col}
}

func (s *MongoUserStore) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User
	if err := s.col.FindOne(ctx, bson.M{"email": NormalizeEmail(email)}).Decode(&user); err != nil {
		return User{}, db.FromMongo(err)
	}
	return user, nil
}

func (s *MongoUserStore) Upsert(ctx context.Context, email, passwordHash string) error {
	now := time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"password_hash": passwordHash,
			"updated_at":    now,
		},
		"$setOnInsert": bson.M{
			"_id":        primitive.NewObjectID().Hex(),
			"email":      NormalizeEmail(email),
			"created_at": now,
		},
	}
	_, err := s.col.UpdateOne(ctx, bson.M{"email": NormalizeEmail(email)}, update, options.Update().SetUpsert(true))
	return db.FromMongo(err)
}

type SQLUserStore struct {
	db *gorm.DB
}

func NewSQLUserStore(gdb *gorm.DB) *SQLUserStore {
	return &SQLUserStore{db: gdb}
}

func (s *SQLUserStore) FindByEmail(ctx context.Context, email string) (User, error) {
	var user User
	if err := s.db.WithContext(ctx).First(&user, "email = ?", NormalizeEmail(email)).Error; err != nil {
		return User{}, db.FromSQL(err)
	}
	return user, nil
}

func (s *SQLUserStore) Upsert(ctx context.Context, email, passwordHash string) error {
	now := time.Now().UTC()
	user := User{
		ID:           uuid.NewString(),
		Email:        NormalizeEmail(email),
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash", "updated_at"}),
	}).Create(&user).Error
	return db.FromSQL(err)
}
