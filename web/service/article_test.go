package service

import (
	"net/url"
	"os"
	"testing"
	"time"

	"github.com/onkonavigator/onkonav/database"
	"github.com/onkonavigator/onkonav/database/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) {
	dbPath := "test.db"
	os.Remove(dbPath)
	require.NoError(t, database.InitDB(dbPath))
}

func teardown() {
	db, _ := database.GetDB().DB()
	db.Close()
	os.Remove("test.db")
}

func boolPtr(b bool) *bool    { return &b }
func strPtr(s string) *string { return &s }

func createPayload(slug string) *ArticleCreate {
	return &ArticleCreate{
		Title:       "Testovací článok",
		Slug:        slug,
		Content:     "Dostatočne dlhý obsah článku.",
		CancerTypes: []string{"Rakovina prsníka"},
		Categories:  []string{"TREATMENT"},
	}
}

func TestCreateDraftByDefault(t *testing.T) {
	setup(t)
	defer teardown()

	service := ArticleService{}
	article, err := service.Create(createPayload("prvy-clanok"))
	require.NoError(t, err)

	assert.True(t, article.IsDraft)
	assert.False(t, article.IsPublished)
	assert.Nil(t, article.PublishedAt)
	assert.NotEmpty(t, article.Id)
}

func TestCreatePublishedStampsPublishedAt(t *testing.T) {
	setup(t)
	defer teardown()

	service := ArticleService{}
	payload := createPayload("publikovany-clanok")
	payload.IsDraft = boolPtr(false)
	payload.IsPublished = boolPtr(true)

	article, err := service.Create(payload)
	require.NoError(t, err)

	assert.True(t, article.IsPublished)
	require.NotNil(t, article.PublishedAt)
	assert.WithinDuration(t, time.Now(), *article.PublishedAt, time.Minute)
}

func TestCreateValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *ArticleCreate)
		field  string
	}{
		{"short title", func(p *ArticleCreate) { p.Title = "ab" }, "title"},
		{"short slug", func(p *ArticleCreate) { p.Slug = "ab" }, "slug"},
		{"short content", func(p *ArticleCreate) { p.Content = "krátky" }, "content"},
		{"no cancer types", func(p *ArticleCreate) { p.CancerTypes = nil }, "cancerTypes"},
		{"no categories", func(p *ArticleCreate) { p.Categories = nil }, "categories"},
		{"bad image url", func(p *ArticleCreate) { p.ImageURL = "not-a-url" }, "imageUrl"},
		{"bad video url", func(p *ArticleCreate) { p.VideoURL = "::" }, "videoUrl"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload := createPayload("validacia")
			tc.mutate(payload)
			issues := payload.Validate()
			require.Len(t, issues, 1)
			assert.Equal(t, tc.field, issues[0].Field)
		})
	}
}

func TestCreateEmptyURLIsAbsent(t *testing.T) {
	setup(t)
	defer teardown()

	payload := createPayload("bez-obrazka")
	payload.ImageURL = ""
	assert.Empty(t, payload.Validate())

	service := ArticleService{}
	article, err := service.Create(payload)
	require.NoError(t, err)
	assert.Nil(t, article.ImageURL)
	assert.Nil(t, article.VideoURL)
}

func TestDuplicateSlugClassified(t *testing.T) {
	setup(t)
	defer teardown()

	service := ArticleService{}
	_, err := service.Create(createPayload("rovnaky-slug"))
	require.NoError(t, err)

	_, err = service.Create(createPayload("rovnaky-slug"))
	require.Error(t, err)
	assert.True(t, database.IsDuplicate(err))
}

func TestUpdateWithoutIsPublishedKeepsPublishedAt(t *testing.T) {
	setup(t)
	defer teardown()

	service := ArticleService{}
	payload := createPayload("stabilny-datum")
	payload.IsPublished = boolPtr(true)
	article, err := service.Create(payload)
	require.NoError(t, err)
	require.NotNil(t, article.PublishedAt)
	before := *article.PublishedAt

	updated, err := service.Update(article.Id, &ArticleUpdate{Title: strPtr("Nový titulok")})
	require.NoError(t, err)

	assert.Equal(t, "Nový titulok", updated.Title)
	require.NotNil(t, updated.PublishedAt)
	assert.WithinDuration(t, before, *updated.PublishedAt, time.Second)
}

func TestUpdateUnpublishClearsPublishedAt(t *testing.T) {
	setup(t)
	defer teardown()

	service := ArticleService{}
	payload := createPayload("stiahnuty-clanok")
	payload.IsPublished = boolPtr(true)
	article, err := service.Create(payload)
	require.NoError(t, err)

	updated, err := service.Update(article.Id, &ArticleUpdate{IsPublished: boolPtr(false)})
	require.NoError(t, err)
	assert.False(t, updated.IsPublished)
	assert.Nil(t, updated.PublishedAt)

	republished, err := service.Update(article.Id, &ArticleUpdate{IsPublished: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, republished.IsPublished)
	assert.NotNil(t, republished.PublishedAt)
}

func TestUpdateRejectsEmptyPayload(t *testing.T) {
	issues := (&ArticleUpdate{}).Validate()
	require.Len(t, issues, 1)
}

func TestUpdateMissingArticle(t *testing.T) {
	setup(t)
	defer teardown()

	service := ArticleService{}
	_, err := service.Update("neexistuje", &ArticleUpdate{Title: strPtr("Titulok")})
	assert.Equal(t, ErrArticleNotFound, err)
}

func TestTagsOrderRoundTrip(t *testing.T) {
	setup(t)
	defer teardown()

	service := ArticleService{}
	payload := createPayload("tagy")
	payload.Tags = []string{"b", "a", "b"}
	article, err := service.Create(payload)
	require.NoError(t, err)

	fetched, err := service.GetByID(article.Id, true)
	require.NoError(t, err)
	// order preserved, no deduplication by the service
	assert.Equal(t, model.StringList{"b", "a", "b"}, fetched.Tags)
}

func TestViewCountIncrement(t *testing.T) {
	setup(t)
	defer teardown()

	service := ArticleService{}
	payload := createPayload("pocitadlo")
	payload.IsPublished = boolPtr(true)
	article, err := service.Create(payload)
	require.NoError(t, err)

	_, err = service.GetByID(article.Id, false)
	require.NoError(t, err)
	_, err = service.GetByID(article.Id, false)
	require.NoError(t, err)

	// admin reads never count
	fetched, err := service.GetByID(article.Id, true)
	require.NoError(t, err)
	assert.Equal(t, int64(2), fetched.ViewCount)
}

func TestGetDraftHiddenFromPublic(t *testing.T) {
	setup(t)
	defer teardown()

	service := ArticleService{}
	article, err := service.Create(createPayload("skryty-draft"))
	require.NoError(t, err)

	_, err = service.GetByID(article.Id, false)
	assert.Equal(t, ErrArticleNotFound, err)

	fetched, err := service.GetByID(article.Id, true)
	require.NoError(t, err)
	assert.Equal(t, article.Id, fetched.Id)
}

func TestDelete(t *testing.T) {
	setup(t)
	defer teardown()

	service := ArticleService{}
	article, err := service.Create(createPayload("na-zmazanie"))
	require.NoError(t, err)

	require.NoError(t, service.Delete(article.Id))
	_, err = service.GetByID(article.Id, true)
	assert.Equal(t, ErrArticleNotFound, err)

	// deleting a missing article is not an error
	assert.NoError(t, service.Delete(article.Id))
}

func TestParseArticleFilter(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		valid   bool
		field   string
		inspect func(t *testing.T, f *ArticleFilter)
	}{
		{"defaults", "", true, "", func(t *testing.T, f *ArticleFilter) {
			assert.Equal(t, 10, f.Limit)
			assert.Equal(t, 0, f.Offset)
			assert.Equal(t, SortRelevance, f.Sort)
		}},
		{"limit at max", "limit=50", true, "", func(t *testing.T, f *ArticleFilter) {
			assert.Equal(t, 50, f.Limit)
		}},
		{"limit above max", "limit=51", false, "limit", nil},
		{"limit below min", "limit=0", false, "limit", nil},
		{"limit not a number", "limit=abc", false, "limit", nil},
		{"negative offset", "offset=-1", false, "offset", nil},
		{"unknown sort", "sort=najkrajsie", false, "sort", nil},
		{"tags split and trimmed", "tags=a,%20b%20,,c", true, "", func(t *testing.T, f *ArticleFilter) {
			assert.Equal(t, []string{"a", "b", "c"}, f.Tags)
		}},
		{"unknown params ignored", "foo=bar&limit=5", true, "", func(t *testing.T, f *ArticleFilter) {
			assert.Equal(t, 5, f.Limit)
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			values, err := url.ParseQuery(tc.query)
			require.NoError(t, err)

			f, issues := ParseArticleFilter(values)
			if !tc.valid {
				require.NotEmpty(t, issues)
				assert.Equal(t, tc.field, issues[0].Field)
				return
			}
			require.Empty(t, issues)
			if tc.inspect != nil {
				tc.inspect(t, f)
			}
		})
	}
}

func seedSearchFixtures(t *testing.T) ArticleService {
	service := ArticleService{}

	articles := []*ArticleCreate{
		{
			Title: "Liečba rakoviny prsníka", Slug: "liecba-prsnika",
			Content: "Obsah o liečbe rakoviny prsníka.", Excerpt: "O liečbe.",
			CancerTypes: []string{"Rakovina prsníka"},
			Categories:  []string{"TREATMENT"},
			Tags:        []string{"chemoterapia"},
			IsPublished: boolPtr(true),
		},
		{
			Title: "Diagnostika rakoviny pľúc", Slug: "diagnostika-pluc",
			Content: "Obsah o diagnostike rakoviny pľúc.",
			CancerTypes: []string{"Rakovina pľúc"},
			Categories:  []string{"DIAGNOSTICS"},
			Stages:      []string{"STAGE_II"},
			IsPublished: boolPtr(true),
		},
		{
			Title: "Podpora pri oboch diagnózach", Slug: "podpora-oboch",
			Content: "Obsah o podpore pacientov.",
			CancerTypes: []string{"Rakovina prsníka", "Rakovina pľúc"},
			Categories:  []string{"MENTAL_SUPPORT"},
			Tags:        []string{"podpora", "rodina"},
			IsPublished: boolPtr(true),
		},
		{
			Title: "Nepublikovaný koncept", Slug: "koncept",
			Content: "Tento koncept nesmie byť verejný.",
			CancerTypes: []string{"Rakovina pľúc"},
			Categories:  []string{"GENERAL_INFO"},
		},
	}
	for _, p := range articles {
		_, err := service.Create(p)
		require.NoError(t, err)
	}
	return service
}

func mustFilter(t *testing.T, query string) *ArticleFilter {
	values, err := url.ParseQuery(query)
	require.NoError(t, err)
	f, issues := ParseArticleFilter(values)
	require.Empty(t, issues)
	return f
}

func TestSearchPublishedOnly(t *testing.T) {
	setup(t)
	defer teardown()
	service := seedSearchFixtures(t)

	page, err := service.Search(mustFilter(t, ""))
	require.NoError(t, err)
	assert.Equal(t, int64(3), page.Total)
	assert.Len(t, page.Items, 3)
	for _, item := range page.Items {
		assert.NotEqual(t, "koncept", item.Slug)
	}
}

func TestSearchCancerTypeMembership(t *testing.T) {
	setup(t)
	defer teardown()
	service := seedSearchFixtures(t)

	page, err := service.Search(mustFilter(t, "cancerType=Rakovina+p%C4%BE%C3%BAc"))
	require.NoError(t, err)

	slugs := make([]string, 0, len(page.Items))
	for _, item := range page.Items {
		slugs = append(slugs, item.Slug)
	}
	assert.Equal(t, int64(2), page.Total)
	assert.ElementsMatch(t, []string{"diagnostika-pluc", "podpora-oboch"}, slugs)
}

func TestSearchTagsIntersect(t *testing.T) {
	setup(t)
	defer teardown()
	service := seedSearchFixtures(t)

	page, err := service.Search(mustFilter(t, "tags=rodina,neexistujuci"))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "podpora-oboch", page.Items[0].Slug)
}

func TestSearchFreeText(t *testing.T) {
	setup(t)
	defer teardown()
	service := seedSearchFixtures(t)

	// case-insensitive substring over title/content
	page, err := service.Search(mustFilter(t, "q=DIAGNOSTIKE"))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "diagnostika-pluc", page.Items[0].Slug)

	// exact tag match
	page, err = service.Search(mustFilter(t, "q=chemoterapia"))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "liecba-prsnika", page.Items[0].Slug)
}

func TestSearchSortMostRead(t *testing.T) {
	setup(t)
	defer teardown()
	service := seedSearchFixtures(t)

	page, err := service.Search(mustFilter(t, ""))
	require.NoError(t, err)
	readTwice := page.Items[1].Id
	for i := 0; i < 2; i++ {
		_, err := service.GetByID(readTwice, false)
		require.NoError(t, err)
	}

	page, err = service.Search(mustFilter(t, "sort=najcitanejsie"))
	require.NoError(t, err)
	require.NotEmpty(t, page.Items)
	assert.Equal(t, readTwice, page.Items[0].Id)
	assert.Equal(t, int64(2), page.Items[0].ViewCount)
}

func TestSearchPagination(t *testing.T) {
	setup(t)
	defer teardown()
	service := seedSearchFixtures(t)

	page, err := service.Search(mustFilter(t, "limit=2"))
	require.NoError(t, err)
	assert.Len(t, page.Items, 2)
	assert.Equal(t, int64(3), page.Total)

	page, err = service.Search(mustFilter(t, "limit=2&offset=2"))
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(3), page.Total)
}

func TestSearchProjectionExcludesContent(t *testing.T) {
	setup(t)
	defer teardown()
	service := seedSearchFixtures(t)

	page, err := service.Search(mustFilter(t, "q=diagnostike"))
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Diagnostika rakoviny pľúc", page.Items[0].Title)
	assert.NotEmpty(t, page.Items[0].CancerTypes)
}

func TestListAllIncludesDrafts(t *testing.T) {
	setup(t)
	defer teardown()
	service := seedSearchFixtures(t)

	articles, err := service.ListAll()
	require.NoError(t, err)
	assert.Len(t, articles, 4)
}
