package model

import (
	"database/sql/driver"
	"time"

	"github.com/onkonavigator/onkonav/util/common"

	"github.com/goccy/go-json"
)

// StringList stores an ordered list of strings as a JSON array column.
// Order is preserved and no deduplication happens at this level.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	data, err := json.Marshal([]string(l))
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (l *StringList) Scan(value any) error {
	if value == nil {
		*l = StringList{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return common.NewErrorf("cannot scan %T into StringList", value)
	}
	if len(data) == 0 {
		*l = StringList{}
		return nil
	}
	return json.Unmarshal(data, (*[]string)(l))
}

// Contains reports exact membership.
func (l StringList) Contains(value string) bool {
	for _, item := range l {
		if item == value {
			return true
		}
	}
	return false
}

// Article is a unit of published or draft content with taxonomy classification.
type Article struct {
	Id      string `json:"id" gorm:"primaryKey;size:36"`
	Title   string `json:"title" gorm:"not null"`
	Slug    string `json:"slug" gorm:"uniqueIndex;not null"`
	Excerpt string `json:"excerpt"`
	Content string `json:"content"`

	CancerTypes    StringList `json:"cancerTypes" gorm:"type:text"`
	Stages         StringList `json:"stages" gorm:"type:text"`
	Categories     StringList `json:"categories" gorm:"type:text"`
	TreatmentTypes StringList `json:"treatmentTypes" gorm:"type:text"`
	Tags           StringList `json:"tags" gorm:"type:text"`

	ImageURL *string `json:"imageUrl" gorm:"column:image_url"`
	VideoURL *string `json:"videoUrl" gorm:"column:video_url"`

	IsDraft     bool       `json:"isDraft" gorm:"default:true"`
	IsPublished bool       `json:"isPublished" gorm:"default:false;index"`
	PublishedAt *time.Time `json:"publishedAt"`
	ViewCount   int64      `json:"viewCount" gorm:"default:0"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// AdminUser is an administrative account allowed to author articles.
type AdminUser struct {
	Id           string    `json:"id" gorm:"primaryKey;size:36"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	CreatedAt    time.Time `json:"createdAt"`
}
