package service

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/onkonavigator/onkonav/database"
	"github.com/onkonavigator/onkonav/database/model"
	"github.com/onkonavigator/onkonav/logger"
	"github.com/onkonavigator/onkonav/taxonomy"
	"github.com/onkonavigator/onkonav/web/entity"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Sort orders accepted by the public listing. Relevance scoring is not
// implemented; najrelevantnejsie falls back to newest-first.
const (
	SortNewest    = "najnovsie"
	SortMostRead  = "najcitanejsie"
	SortRelevance = "najrelevantnejsie"
)

const (
	defaultLimit = 10
	maxLimit     = 50
)

// ErrArticleNotFound covers both a missing article and an unpublished one
// requested by a public caller; the two are indistinguishable on purpose.
var ErrArticleNotFound = errors.New("article not found")

// ArticleService implements the query/filter pipeline and the authoring
// write path over the articles table.
type ArticleService struct{}

// ArticleFilter is the validated parameter set of the public listing.
type ArticleFilter struct {
	Q             string
	CancerType    string
	Stage         string
	Category      string
	TreatmentType string
	Tags          []string
	Sort          string
	Limit         int
	Offset        int
}

// ParseArticleFilter validates raw query parameters against the filter
// schema. Unknown parameters are ignored. A non-empty issue list means the
// request must be rejected with an empty result set.
func ParseArticleFilter(values url.Values) (*ArticleFilter, []entity.FieldIssue) {
	var issues []entity.FieldIssue

	f := &ArticleFilter{
		Q:             values.Get("q"),
		CancerType:    values.Get("cancerType"),
		Stage:         values.Get("stage"),
		Category:      values.Get("category"),
		TreatmentType: values.Get("treatmentType"),
		Sort:          values.Get("sort"),
		Limit:         defaultLimit,
		Offset:        0,
	}

	if raw := values.Get("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			tag = strings.TrimSpace(tag)
			if tag != "" {
				f.Tags = append(f.Tags, tag)
			}
		}
	}

	switch f.Sort {
	case "", SortNewest, SortMostRead, SortRelevance:
	default:
		issues = append(issues, entity.FieldIssue{Field: "sort", Message: "unknown sort order"})
	}
	if f.Sort == "" {
		f.Sort = SortRelevance
	}

	if raw := values.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > maxLimit {
			issues = append(issues, entity.FieldIssue{Field: "limit", Message: "must be an integer between 1 and 50"})
		} else {
			f.Limit = limit
		}
	}

	if raw := values.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil || offset < 0 {
			issues = append(issues, entity.FieldIssue{Field: "offset", Message: "must be a non-negative integer"})
		} else {
			f.Offset = offset
		}
	}

	if len(issues) > 0 {
		return nil, issues
	}
	return f, nil
}

// listContains restricts rows to those whose JSON list column contains the
// given value. The taxonomy columns and tags are JSON arrays of strings.
func listContains(column string, value string) (string, string) {
	return "EXISTS (SELECT 1 FROM json_each(articles." + column + ") WHERE json_each.value = ?)", value
}

func (s *ArticleService) buildSearchQuery(f *ArticleFilter) *gorm.DB {
	q := database.GetDB().Model(&model.Article{}).Where("is_published = ?", true)

	if f.CancerType != "" {
		cond, arg := listContains("cancer_types", f.CancerType)
		q = q.Where(cond, arg)
	}
	if f.Stage != "" {
		cond, arg := listContains("stages", f.Stage)
		q = q.Where(cond, arg)
	}
	if f.Category != "" {
		cond, arg := listContains("categories", f.Category)
		q = q.Where(cond, arg)
	}
	if f.TreatmentType != "" {
		cond, arg := listContains("treatment_types", f.TreatmentType)
		q = q.Where(cond, arg)
	}
	if len(f.Tags) > 0 {
		// at-least-one-match semantics
		q = q.Where("EXISTS (SELECT 1 FROM json_each(articles.tags) WHERE json_each.value IN ?)", f.Tags)
	}
	if f.Q != "" {
		like := "%" + strings.ToLower(f.Q) + "%"
		q = q.Where(
			"(LOWER(title) LIKE ? OR LOWER(excerpt) LIKE ? OR LOWER(content) LIKE ?"+
				" OR EXISTS (SELECT 1 FROM json_each(articles.tags) WHERE json_each.value = ?))",
			like, like, like, f.Q,
		)
	}

	return q
}

// Search runs the filtered, sorted, paginated published-only query and
// returns a page of projected items plus the total before pagination.
func (s *ArticleService) Search(f *ArticleFilter) (*entity.ArticlePage, error) {
	var total int64
	if err := s.buildSearchQuery(f).Count(&total).Error; err != nil {
		return nil, err
	}

	order := "published_at DESC"
	if f.Sort == SortMostRead {
		order = "view_count DESC"
	}

	items := make([]entity.ArticleSummary, 0, f.Limit)
	err := s.buildSearchQuery(f).
		Select("id, title, slug, excerpt, cancer_types, stages, categories, treatment_types, tags, published_at, view_count, image_url").
		Order(order).
		Limit(f.Limit).
		Offset(f.Offset).
		Find(&items).
		Error
	if err != nil {
		return nil, err
	}

	return &entity.ArticlePage{Items: items, Total: total}, nil
}

// ArticleCreate is the create payload of the authoring endpoint.
type ArticleCreate struct {
	Title          string   `json:"title"`
	Slug           string   `json:"slug"`
	Excerpt        string   `json:"excerpt"`
	Content        string   `json:"content"`
	CancerTypes    []string `json:"cancerTypes"`
	Stages         []string `json:"stages"`
	Categories     []string `json:"categories"`
	TreatmentTypes []string `json:"treatmentTypes"`
	Tags           []string `json:"tags"`
	ImageURL       string   `json:"imageUrl"`
	VideoURL       string   `json:"videoUrl"`
	IsDraft        *bool    `json:"isDraft"`
	IsPublished    *bool    `json:"isPublished"`
}

// Validate checks the create contract and returns field-level issues.
func (p *ArticleCreate) Validate() []entity.FieldIssue {
	var issues []entity.FieldIssue

	if utf8.RuneCountInString(p.Title) < 3 {
		issues = append(issues, entity.FieldIssue{Field: "title", Message: "must be at least 3 characters"})
	}
	if utf8.RuneCountInString(p.Slug) < 3 {
		issues = append(issues, entity.FieldIssue{Field: "slug", Message: "must be at least 3 characters"})
	}
	if utf8.RuneCountInString(p.Content) < 10 {
		issues = append(issues, entity.FieldIssue{Field: "content", Message: "must be at least 10 characters"})
	}
	if len(p.CancerTypes) == 0 {
		issues = append(issues, entity.FieldIssue{Field: "cancerTypes", Message: "at least one cancer type is required"})
	}
	if len(p.Categories) == 0 {
		issues = append(issues, entity.FieldIssue{Field: "categories", Message: "at least one category is required"})
	}
	if !validOptionalURL(p.ImageURL) {
		issues = append(issues, entity.FieldIssue{Field: "imageUrl", Message: "must be a valid URL"})
	}
	if !validOptionalURL(p.VideoURL) {
		issues = append(issues, entity.FieldIssue{Field: "videoUrl", Message: "must be a valid URL"})
	}

	return issues
}

// validOptionalURL accepts an empty string (absent) or an absolute URL.
func validOptionalURL(raw string) bool {
	if raw == "" {
		return true
	}
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// Create persists a new article. Draft by default; publishedAt is stamped
// iff the article is published at creation. The caller must have validated
// the payload and the admin session beforehand.
func (s *ArticleService) Create(p *ArticleCreate) (*model.Article, error) {
	db := database.GetDB()

	isDraft := true
	if p.IsDraft != nil {
		isDraft = *p.IsDraft
	}
	isPublished := p.IsPublished != nil && *p.IsPublished

	article := &model.Article{
		Id:             uuid.NewString(),
		Title:          p.Title,
		Slug:           p.Slug,
		Excerpt:        p.Excerpt,
		Content:        p.Content,
		CancerTypes:    model.StringList(p.CancerTypes),
		Stages:         model.StringList(p.Stages),
		Categories:     model.StringList(p.Categories),
		TreatmentTypes: model.StringList(p.TreatmentTypes),
		Tags:           model.StringList(p.Tags),
		ImageURL:       optionalURL(p.ImageURL),
		VideoURL:       optionalURL(p.VideoURL),
		IsDraft:        isDraft,
		IsPublished:    isPublished,
	}
	if isPublished {
		now := time.Now()
		article.PublishedAt = &now
	}

	logUnknownTerms(article)

	if err := db.Create(article).Error; err != nil {
		return nil, err
	}
	return article, nil
}

func optionalURL(raw string) *string {
	if raw == "" {
		return nil
	}
	return &raw
}

// logUnknownTerms reports taxonomy drift without rejecting the write; the
// vocabularies are advisory, not a foreign-key constraint.
func logUnknownTerms(article *model.Article) {
	check := func(kind taxonomy.Kind, values model.StringList) {
		for _, v := range values {
			if !taxonomy.Valid(kind, v) {
				logger.Debugf("article %s uses unknown %s value %q", article.Slug, kind, v)
			}
		}
	}
	check(taxonomy.KindCancerType, article.CancerTypes)
	check(taxonomy.KindStage, article.Stages)
	check(taxonomy.KindCategory, article.Categories)
	check(taxonomy.KindTreatmentType, article.TreatmentTypes)
}

// ArticleUpdate is the partial update payload; nil means "leave untouched".
type ArticleUpdate struct {
	Title          *string   `json:"title"`
	Slug           *string   `json:"slug"`
	Excerpt        *string   `json:"excerpt"`
	Content        *string   `json:"content"`
	CancerTypes    *[]string `json:"cancerTypes"`
	Stages         *[]string `json:"stages"`
	Categories     *[]string `json:"categories"`
	TreatmentTypes *[]string `json:"treatmentTypes"`
	Tags           *[]string `json:"tags"`
	ImageURL       *string   `json:"imageUrl"`
	VideoURL       *string   `json:"videoUrl"`
	IsDraft        *bool     `json:"isDraft"`
	IsPublished    *bool     `json:"isPublished"`
}

func (p *ArticleUpdate) isEmpty() bool {
	return p.Title == nil && p.Slug == nil && p.Excerpt == nil && p.Content == nil &&
		p.CancerTypes == nil && p.Stages == nil && p.Categories == nil &&
		p.TreatmentTypes == nil && p.Tags == nil && p.ImageURL == nil &&
		p.VideoURL == nil && p.IsDraft == nil && p.IsPublished == nil
}

// Validate checks the update contract: at least one field, and the same
// field shapes as creation for every field that is present.
func (p *ArticleUpdate) Validate() []entity.FieldIssue {
	if p.isEmpty() {
		return []entity.FieldIssue{{Field: "", Message: "at least one field is required"}}
	}

	var issues []entity.FieldIssue
	if p.Title != nil && utf8.RuneCountInString(*p.Title) < 3 {
		issues = append(issues, entity.FieldIssue{Field: "title", Message: "must be at least 3 characters"})
	}
	if p.Slug != nil && utf8.RuneCountInString(*p.Slug) < 3 {
		issues = append(issues, entity.FieldIssue{Field: "slug", Message: "must be at least 3 characters"})
	}
	if p.Content != nil && utf8.RuneCountInString(*p.Content) < 10 {
		issues = append(issues, entity.FieldIssue{Field: "content", Message: "must be at least 10 characters"})
	}
	if p.CancerTypes != nil && len(*p.CancerTypes) == 0 {
		issues = append(issues, entity.FieldIssue{Field: "cancerTypes", Message: "at least one cancer type is required"})
	}
	if p.Categories != nil && len(*p.Categories) == 0 {
		issues = append(issues, entity.FieldIssue{Field: "categories", Message: "at least one category is required"})
	}
	if p.ImageURL != nil && !validOptionalURL(*p.ImageURL) {
		issues = append(issues, entity.FieldIssue{Field: "imageUrl", Message: "must be a valid URL"})
	}
	if p.VideoURL != nil && !validOptionalURL(*p.VideoURL) {
		issues = append(issues, entity.FieldIssue{Field: "videoUrl", Message: "must be a valid URL"})
	}
	return issues
}

// Update applies a partial update. publishedAt is recomputed only when
// isPublished is present in the payload: stamped to now when publishing,
// cleared when unpublishing, untouched otherwise.
func (s *ArticleService) Update(id string, p *ArticleUpdate) (*model.Article, error) {
	db := database.GetDB()

	article := &model.Article{}
	err := db.Model(model.Article{}).Where("id = ?", id).First(article).Error
	if database.IsNotFound(err) {
		return nil, ErrArticleNotFound
	} else if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if p.Title != nil {
		updates["title"] = *p.Title
	}
	if p.Slug != nil {
		updates["slug"] = *p.Slug
	}
	if p.Excerpt != nil {
		updates["excerpt"] = *p.Excerpt
	}
	if p.Content != nil {
		updates["content"] = *p.Content
	}
	if p.CancerTypes != nil {
		updates["cancer_types"] = model.StringList(*p.CancerTypes)
	}
	if p.Stages != nil {
		updates["stages"] = model.StringList(*p.Stages)
	}
	if p.Categories != nil {
		updates["categories"] = model.StringList(*p.Categories)
	}
	if p.TreatmentTypes != nil {
		updates["treatment_types"] = model.StringList(*p.TreatmentTypes)
	}
	if p.Tags != nil {
		updates["tags"] = model.StringList(*p.Tags)
	}
	if p.ImageURL != nil {
		updates["image_url"] = optionalURL(*p.ImageURL)
	}
	if p.VideoURL != nil {
		updates["video_url"] = optionalURL(*p.VideoURL)
	}
	if p.IsDraft != nil {
		updates["is_draft"] = *p.IsDraft
	}
	if p.IsPublished != nil {
		updates["is_published"] = *p.IsPublished
		if *p.IsPublished {
			updates["published_at"] = time.Now()
		} else {
			updates["published_at"] = nil
		}
	}

	err = db.Model(model.Article{}).Where("id = ?", id).Updates(updates).Error
	if err != nil {
		return nil, err
	}

	updated := &model.Article{}
	if err := db.Model(model.Article{}).Where("id = ?", id).First(updated).Error; err != nil {
		return nil, err
	}
	logUnknownTerms(updated)
	return updated, nil
}

// GetByID returns the full article. Public callers only see published
// articles, and their reads increment the view counter through the store's
// atomic single-column update.
func (s *ArticleService) GetByID(id string, isAdmin bool) (*model.Article, error) {
	db := database.GetDB()

	article := &model.Article{}
	err := db.Model(model.Article{}).Where("id = ?", id).First(article).Error
	if database.IsNotFound(err) {
		return nil, ErrArticleNotFound
	} else if err != nil {
		return nil, err
	}

	if !isAdmin && !article.IsPublished {
		return nil, ErrArticleNotFound
	}

	if !isAdmin && article.IsPublished {
		err := db.Model(model.Article{}).
			Where("id = ?", id).
			UpdateColumn("view_count", gorm.Expr("view_count + ?", 1)).
			Error
		if err != nil {
			logger.Warning("view count increment err:", err)
		}
	}

	return article, nil
}

// Delete removes the article outright. No tombstone is kept.
func (s *ArticleService) Delete(id string) error {
	return database.GetDB().Where("id = ?", id).Delete(&model.Article{}).Error
}

// ListAll returns every article, drafts included, newest first. Admin only.
func (s *ArticleService) ListAll() ([]model.Article, error) {
	db := database.GetDB()

	var articles []model.Article
	err := db.Model(model.Article{}).
		Order("created_at DESC").
		Find(&articles).
		Error
	if err != nil {
		return nil, err
	}
	return articles, nil
}
