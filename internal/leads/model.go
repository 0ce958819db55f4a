package leads

import (
	"strings"
	"time"
)

// StatusPending is the status of every new request, awaiting follow-up by
// the studio.
const StatusPending = "pending"

// ProjectRequest is an estimator submission. It is written once and never
// changed by this service.
type ProjectRequest struct {
	ID               string    `bson:"_id,omitempty" json:"id"`
	AppName          string    `bson:"app_name" json:"app_name"`
	Category         string    `bson:"category" json:"category"`
	SelectedFeatures []string  `bson:"selected_features" json:"selected_features"`
	EstimatedPrice   int64     `bson:"estimated_price" json:"estimated_price"`
	ClientName       string    `bson:"client_name" json:"client_name"`
	ClientEmail      string    `bson:"client_email" json:"client_email"`
	Contact          string    `bson:"contact,omitempty" json:"contact,omitempty"`
	Description      string    `bson:"description" json:"description"`
	Status           string    `bson:"status" json:"status"`
	CreatedAt        time.Time `bson:"created_at" json:"created_at"`
}

// Draft is what a client fills in. The price is not part of it: it is
// derived from the catalog at submission.
type Draft struct {
	AppName     string
	Category    string
	Features    []string
	ClientName  string
	ClientEmail string
	Contact     string
	Description string
}

type SubmitRequest struct {
	AppName          string   `json:"app_name" validate:"max=120"`
	Category         string   `json:"category" validate:"required,category"`
	SelectedFeatures []string `json:"selected_features" validate:"max=32,dive,feature"`
	ClientName       string   `json:"client_name" validate:"max=120"`
	ClientEmail      string   `json:"client_email" validate:"required,email"`
	Contact          string   `json:"contact" validate:"max=60"`
	Description      string   `json:"description" validate:"max=4000"`
}

func (r SubmitRequest) draft() Draft {
	features := make([]string, 0, len(r.SelectedFeatures))
	for _, f := range r.SelectedFeatures {
		features = append(features, strings.TrimSpace(f))
	}
	return Draft{
		AppName:     strings.TrimSpace(r.AppName),
		Category:    strings.TrimSpace(r.Category),
		Features:    features,
		ClientName:  strings.TrimSpace(r.ClientName),
		ClientEmail: strings.TrimSpace(r.ClientEmail),
		Contact:     strings.TrimSpace(r.Contact),
		Description: strings.TrimSpace(r.Description),
	}
}
