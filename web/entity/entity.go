// Package entity defines the response shapes of the OnkoNavigátor HTTP API.
package entity

import (
	"time"

	"github.com/onkonavigator/onkonav/database/model"
)

// APIError is the standard error payload: a user-facing (localized) message
// plus optional field-level validation issues.
type APIError struct {
	Message string       `json:"message"`
	Issues  []FieldIssue `json:"issues,omitempty"`
}

// FieldIssue describes a single validation failure.
type FieldIssue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ArticleSummary is the projection returned by the public listing endpoint.
// The full content body is deliberately excluded.
type ArticleSummary struct {
	Id             string           `json:"id"`
	Title          string           `json:"title"`
	Slug           string           `json:"slug"`
	Excerpt        string           `json:"excerpt"`
	CancerTypes    model.StringList `json:"cancerTypes" gorm:"type:text"`
	Stages         model.StringList `json:"stages" gorm:"type:text"`
	Categories     model.StringList `json:"categories" gorm:"type:text"`
	TreatmentTypes model.StringList `json:"treatmentTypes" gorm:"type:text"`
	Tags           model.StringList `json:"tags" gorm:"type:text"`
	PublishedAt    *time.Time       `json:"publishedAt"`
	ViewCount      int64            `json:"viewCount"`
	ImageURL       *string          `json:"imageUrl" gorm:"column:image_url"`
}

// ArticlePage is a filtered page of results plus the total count matching the
// filters before pagination. Message carries a diagnostic when the page is
// degraded (store unavailable) or rejected (bad parameters).
type ArticlePage struct {
	Items   []ArticleSummary `json:"items"`
	Total   int64            `json:"total"`
	Message string           `json:"message,omitempty"`
	Issues  []FieldIssue     `json:"issues,omitempty"`
}

// AdminInfo is the safe projection of an admin account. No hash material.
type AdminInfo struct {
	Id        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

// AdminList is the payload of the bootstrap inspection endpoint.
type AdminList struct {
	Count   int         `json:"count"`
	Users   []AdminInfo `json:"users"`
	Message string      `json:"message"`
}

// Msg is a minimal confirmation payload.
type Msg struct {
	Message string `json:"message"`
}
