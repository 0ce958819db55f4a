package portfolio

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

type Item struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Title       string    `bson:"title" json:"title"`
	Description string    `bson:"description" json:"description"`
	ImageURL    string    `bson:"image_url" json:"image_url"`
	ProjectURL  string    `bson:"project_url,omitempty" json:"project_url,omitempty"`
	Category    string    `bson:"category" json:"category"`
	Tags        []string  `bson:"tags" json:"tags"`
	IsFeatured  bool      `bson:"is_featured" json:"is_featured"`
	CreatedAt   time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time `bson:"updated_at" json:"updated_at"`
}

// Patch lists the fields of an update. Nil fields are left unchanged.
type Patch struct {
	Title       *string
	Description *string
	ImageURL    *string
	ProjectURL  *string
	Category    *string
	Tags        *[]string
	IsFeatured  *bool
}

func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.ImageURL == nil && p.ProjectURL == nil &&
		p.Category == nil && p.Tags == nil && p.IsFeatured == nil
}

// Apply returns item with the patch fields set.
func (p Patch) Apply(item Item) Item {
	if p.Title != nil {
		item.Title = *p.Title
	}
	if p.Description != nil {
		item.Description = *p.Description
	}
	if p.ImageURL != nil {
		item.ImageURL = *p.ImageURL
	}
	if p.ProjectURL != nil {
		item.ProjectURL = *p.ProjectURL
	}
	if p.Category != nil {
		item.Category = *p.Category
	}
	if p.Tags != nil {
		item.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.IsFeatured != nil {
		item.IsFeatured = *p.IsFeatured
	}
	return item
}

// TagList accepts either a JSON array of strings or a single comma-separated
// string, the way the admin form sends it.
type TagList []string

func (t *TagList) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*t = NormalizeTags(list)
		return nil
	}
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return errors.New("tags must be a list or a comma-separated string")
	}
	*t = NormalizeTags(strings.Split(raw, ","))
	return nil
}

// NormalizeTags trims every tag and drops empty ones, keeping order.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if tag = strings.TrimSpace(tag); tag != "" {
			out = append(out, tag)
		}
	}
	return out
}

type CreateRequest struct {
	Title       string  `json:"title" validate:"required,notblank,max=200"`
	Description string  `json:"description" validate:"required,notblank"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
	ProjectURL  string  `json:"project_url" validate:"omitempty,url"`
	Category    string  `json:"category" validate:"required,category"`
	Tags        TagList `json:"tags"`
	IsFeatured  bool    `json:"is_featured"`
}

type UpdateRequest struct {
	Title       *string  `json:"title" validate:"omitnil,notblank,max=200"`
	Description *string  `json:"description" validate:"omitnil,notblank"`
	ImageURL    *string  `json:"image_url" validate:"omitempty,url"`
	ProjectURL  *string  `json:"project_url" validate:"omitempty,url"`
	Category    *string  `json:"category" validate:"omitempty,category"`
	Tags        *TagList `json:"tags"`
	IsFeatured  *bool    `json:"is_featured"`
}

func (r CreateRequest) item() Item {
	tags := []string(r.Tags)
	if tags == nil {
		tags = []string{}
	}
	return Item{
		Title:       strings.TrimSpace(r.Title),
		Description: strings.TrimSpace(r.Description),
		ImageURL:    strings.TrimSpace(r.ImageURL),
		ProjectURL:  strings.TrimSpace(r.ProjectURL),
		Category:    strings.TrimSpace(r.Category),
		Tags:        tags,
		IsFeatured:  r.IsFeatured,
	}
}

func (r UpdateRequest) patch() Patch {
	var p Patch
	p.Title = trimmed(r.Title)
	p.Description = trimmed(r.Description)
	p.ImageURL = trimmed(r.ImageURL)
	p.ProjectURL = trimmed(r.ProjectURL)
	p.Category = trimmed(r.Category)
	if r.Tags != nil {
		tags := NormalizeTags(*r.Tags)
		p.Tags = &tags
	}
	p.IsFeatured = r.IsFeatured
	return p
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
