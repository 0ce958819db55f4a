package portfolio

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/ranihwanifactory/mya/internal/db"
	"gorm.io/gorm"
)

// Row is the SQL table layout of an Item.
type Row struct {
	ID          string `gorm:"primaryKey;size:36"`
	Title       string `gorm:"not null"`
	Description string
	ImageURL    string
	ProjectURL  string
	Category    string   `gorm:"index"`
	Tags        []string `gorm:"serializer:json"`
	IsFeatured  bool
	CreatedAt   time.Time `gorm:"index;autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime:false"`
}

func (Row) TableName() string {
	return "portfolios"
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

// WithClock replaces the clock used to stamp records.
func (r *SQLRepository) WithClock(now func() time.Time) *SQLRepository {
	r.now = now
	return r
}

func (r *SQLRepository) List(ctx context.Context) ([]Item, error) {
	var rows []Row
	if err := r.db.WithContext(ctx).Order("created_at DESC, rowid DESC").Find(&rows).Error; err != nil {
		return nil, db.FromSQL(err)
	}
	items := make([]Item, 0, len(rows))
	for _, row := range rows {
		items = append(items, row.item())
	}
	return items, nil
}

func (r *SQLRepository) Create(ctx context.Context, item Item) (string, error) {
	now := r.now()
	row := rowFromItem(item)
	row.ID = uuid.NewString()
	row.CreatedAt = now
	row.UpdatedAt = now

	if err := r.db.WithContext(ctx).Create(&row).Error; err != nil {
		return "", db.FromSQL(err)
	}
	return row.ID, nil
}

func (r *SQLRepository) Update(ctx context.Context, id string, patch Patch) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var row Row
		if err := tx.First(&row, "id = ?", id).Error; err != nil {
			return err
		}
		updated := rowFromItem(patch.Apply(row.item()))
		updated.ID = row.ID
		updated.CreatedAt = row.CreatedAt
		updated.UpdatedAt = r.now()
		return tx.Save(&updated).Error
	})
	return db.FromSQL(err)
}

func (r *SQLRepository) Delete(ctx context.Context, id string) error {
	return db.FromSQL(r.db.WithContext(ctx).Delete(&Row{}, "id = ?", id).Error)
}

func (row Row) item() Item {
	tags := row.Tags
	if tags == nil {
		tags = []string{}
	}
	return Item{
		ID:          row.ID,
		Title:       row.Title,
		Description: row.Description,
		ImageURL:    row.ImageURL,
		ProjectURL:  row.ProjectURL,
		Category:    row.Category,
		Tags:        tags,
		IsFeatured:  row.IsFeatured,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}
}

func rowFromItem(item Item) Row {
	return Row{
		ID:          item.ID,
		Title:       item.Title,
		Description: item.Description,
		ImageURL:    item.ImageURL,
		ProjectURL:  item.ProjectURL,
		Category:    item.Category,
		Tags:        item.Tags,
		IsFeatured:  item.IsFeatured,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   item.UpdatedAt,
	}
}
