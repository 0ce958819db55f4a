package leads

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ranihwanifactory/mya/internal/db"
	"gorm.io/gorm"
)

// Row is the SQL table layout of a ProjectRequest.
type Row struct {
	ID               string `gorm:"primaryKey;size:36"`
	AppName          string
	Category         string   `gorm:"not null"`
	SelectedFeatures []string `gorm:"serializer:json"`
	EstimatedPrice   int64
	ClientName       string
	ClientEmail      string `gorm:"not null"`
	Contact          string
	Description      string
	Status           string    `gorm:"index;not null"`
	CreatedAt        time.Time `gorm:"index;autoCreateTime:false"`
}

func (Row) TableName() string {
	return "project_requests"
}

type SQLRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewSQLRepository(gdb *gorm.DB) *SQLRepository {
	return &SQLRepository{
		db:  gdb,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (r *SQLRepository) WithClock(now func() time.Time) *SQLRepository {
	r.now = now
	return r
}

func (r *SQLRepository) Create(ctx context.Context, req ProjectRequest) (ProjectRequest, error) {
	req.ID = uuid.NewString()
	req.CreatedAt = r.now()
	row := Row(req)
	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return ProjectRequest{}, db.FromSQL(err)
	}
	return req, nil
}

func (r *SQLRepository) List(ctx context.Context) ([]ProjectRequest, error) {
	var rows []Row
	if err := r.db.WithContext(ctx).Order("created_at DESC, rowid DESC").Find(&rows).Error; err != nil {
		return nil, db.FromSQL(err)
	}
	items := make([]ProjectRequest, 0, len(rows))
	for _, row := range rows {
		req := ProjectRequest(row)
		if req.SelectedFeatures == nil {
			req.SelectedFeatures = []string{}
		}
		items = append(items, req)
	}
	return items, nil
}
