package service

import (
	"context"
	"fmt"
	"net/url"
	"testing"
	"time"

	"github.com/andressep95/deen-service/internal/domain"
	"github.com/andressep95/deen-service/internal/repository"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestContentList_PublicHidesDeleted(t *testing.T) {
	repo := newStubContent[domain.Dua]()
	svc := NewDuaService(repo)

	raw := url.Values{"isDeleted": {"true"}, "searchTerm": {"rabbana"}, "page": {"2"}, "tags": {"morning"}, "english": {"mercy"}}

	_, _, err := svc.List(context.Background(), raw)
	require.NoError(t, err)
	assert.False(t, repo.lastOpts.AllowDeleted)
	assert.True(t, repo.lastOpts.SoftDelete)
	assert.Equal(t, "true", repo.lastParts.Filters.Get("isDeleted"))
	assert.Equal(t, "2", repo.lastParts.Pagination.Get("page"))
	assert.Equal(t, "morning", repo.lastParts.Filters.Get("tags"))
	// english is not a dua filter key, so it becomes a contains match.
	assert.Equal(t, "mercy", repo.lastParts.Additional.Get("english"))

	_, _, err = svc.ListAll(context.Background(), raw)
	require.NoError(t, err)
	assert.True(t, repo.lastOpts.AllowDeleted)
	assert.Equal(t, []string{"name", "arabic", "bangla", "english", "reference"}, repo.lastOpts.SearchFields)
}

func TestContentList_FilterKeysPerEntity(t *testing.T) {
	repo := newStubContent[domain.Tafsir]()
	svc := NewTafsirService(repo)

	_, _, err := svc.List(context.Background(), url.Values{"ayahId": {"2:255"}, "scholar": {"Ibn Kathir"}})
	require.NoError(t, err)
	assert.Equal(t, "2:255", repo.lastParts.Filters.Get("ayahId"))
	assert.Equal(t, "Ibn Kathir", repo.lastParts.Filters.Get("scholar"))
	assert.Empty(t, repo.lastParts.Additional)
}

func TestContentGet_NotFound(t *testing.T) {
	svc := NewDictionaryService(newStubContent[domain.DictionaryWord]())
	_, err := svc.Get(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCategoryCreate_Conflict(t *testing.T) {
	repo := &stubCategories{stubContent: newStubContent[domain.Category]()}
	svc := NewCategoryService(repo)

	c, err := svc.Create(context.Background(), uuid.New(), CreateCategoryRequest{Name: "  Fiqh "})
	require.NoError(t, err)
	assert.Equal(t, "Fiqh", c.Name)

	repo.createErr = fmt.Errorf("create categories: %w", repository.ErrConflict)
	_, err = svc.Create(context.Background(), uuid.New(), CreateCategoryRequest{Name: "Fiqh"})
	assert.ErrorIs(t, err, ErrCategoryExists)
}

func TestCategoryDelete_InUse(t *testing.T) {
	id := uuid.New()
	repo := &stubCategories{stubContent: newStubContent[domain.Category](), books: 3}
	repo.items[id] = &domain.Category{ID: id, Name: "Seerah"}
	svc := NewCategoryService(repo)

	assert.ErrorIs(t, svc.Delete(context.Background(), id), ErrCategoryInUse)
	assert.Empty(t, repo.deleted)

	repo.books = 0
	require.NoError(t, svc.Delete(context.Background(), id))
	assert.Equal(t, []uuid.UUID{id}, repo.deleted)
}

func TestBookCreate_MissingCategory(t *testing.T) {
	repo := newStubContent[domain.Book]()
	repo.createErr = repository.ErrInvalidReference
	svc := NewBookService(repo)

	_, err := svc.Create(context.Background(), uuid.New(), CreateBookRequest{
		Name:       "Riyad as-Salihin",
		Cover:      "https://cdn.example.com/riyad.png",
		CategoryID: uuid.NewString(),
	})
	assert.ErrorIs(t, err, ErrCategoryMissing)
}

func TestBookUpdate_OnlyProvidedFields(t *testing.T) {
	id := uuid.New()
	repo := newStubContent[domain.Book]()
	repo.items[id] = &domain.Book{ID: id}
	svc := NewBookService(repo)

	_, err := svc.Update(context.Background(), id, UpdateBookRequest{Name: ptr(" Bulugh al-Maram "), IsFeatured: ptr(false)})
	require.NoError(t, err)
	assert.Equal(t, repository.Changes{"name": "Bulugh al-Maram", "is_featured": false}, repo.lastChanges)
}

func TestContentSoftDelete(t *testing.T) {
	id := uuid.New()
	repo := newStubContent[domain.DictionaryWord]()
	repo.items[id] = &domain.DictionaryWord{ID: id, Word: "sabr"}
	svc := NewDictionaryService(repo)

	w, err := svc.SoftDelete(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "sabr", w.Word)

	_, err = svc.SoftDelete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBlogCreate(t *testing.T) {
	author := uuid.New()
	repo := newStubContent[domain.Blog]()
	svc := NewBlogService(repo)
	svc.now = func() time.Time { return testNow }

	b, err := svc.Create(context.Background(), author, CreateBlogRequest{Title: "Patience in Hardship!", Content: "...", IsPublished: true})
	require.NoError(t, err)
	assert.Equal(t, "patience-in-hardship", b.Slug)
	assert.Equal(t, author, b.AuthorID)
	require.NotNil(t, b.PublishedAt)
	assert.Equal(t, testNow, *b.PublishedAt)

	draft, err := svc.Create(context.Background(), author, CreateBlogRequest{Title: "Draft", Content: "..."})
	require.NoError(t, err)
	assert.Nil(t, draft.PublishedAt)

	repo.createErr = repository.ErrConflict
	_, err = svc.Create(context.Background(), author, CreateBlogRequest{Title: "Draft", Content: "..."})
	assert.ErrorIs(t, err, ErrSlugTaken)
}

func TestBlogUpdate_RetitleAndPublish(t *testing.T) {
	id := uuid.New()
	repo := newStubContent[domain.Blog]()
	repo.items[id] = &domain.Blog{ID: id}
	svc := NewBlogService(repo)
	svc.now = func() time.Time { return testNow }

	_, err := svc.Update(context.Background(), id, UpdateBlogRequest{Title: ptr("New Title"), IsPublished: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, "new-title", repo.lastChanges["slug"])
	assert.Equal(t, testNow, repo.lastChanges["published_at"])
	assert.Equal(t, true, repo.lastChanges["is_published"])
}

func TestBlogList_PublicShowsOnlyPublished(t *testing.T) {
	repo := newStubContent[domain.Blog]()
	svc := NewBlogService(repo)

	_, _, err := svc.List(context.Background(), url.Values{"isPublished": {"false"}})
	require.NoError(t, err)
	require.Len(t, repo.lastOpts.Where, 1)
	assert.Equal(t, `"is_published" = ?`, repo.lastOpts.Where[0].SQL)
	assert.Equal(t, []interface{}{true}, repo.lastOpts.Where[0].Args)

	_, _, err = svc.ListAll(context.Background(), url.Values{"isPublished": {"false"}})
	require.NoError(t, err)
	assert.Empty(t, repo.lastOpts.Where)
	assert.Equal(t, "false", repo.lastParts.Filters.Get("isPublished"))
}

func TestSurahCreateAndUpdate(t *testing.T) {
	id := uuid.New()
	repo := newStubContent[domain.Surah]()
	repo.items[id] = &domain.Surah{ID: id}
	svc := NewSurahService(repo)

	s, err := svc.Create(context.Background(), uuid.New(), CreateSurahRequest{
		Chapter: 2, TotalAyah: 286, Arabic: "البقرة", English: " Al-Baqarah ", Revelation: "Medinan",
	})
	require.NoError(t, err)
	assert.Equal(t, "Al-Baqarah", s.English)
	assert.Nil(t, s.Bangla)

	repo.createErr = repository.ErrConflict
	_, err = svc.Create(context.Background(), uuid.New(), CreateSurahRequest{Chapter: 2})
	assert.ErrorIs(t, err, ErrSurahExists)

	_, err = svc.Update(context.Background(), id, UpdateSurahRequest{TotalAyah: ptr(7), Bangla: ptr(" আল-ফাতিহা ")})
	require.NoError(t, err)
	assert.Equal(t, repository.Changes{"total_ayah": 7, "bangla": "আল-ফাতিহা"}, repo.lastChanges)

	repo.deleteErr = repository.ErrInUse
	assert.ErrorIs(t, svc.Delete(context.Background(), id), ErrSurahInUse)
}

func TestAyahCreate(t *testing.T) {
	repo := newStubContent[domain.Ayah]()
	svc := NewAyahService(repo)
	surah, para := uuid.New(), uuid.New()

	a, err := svc.Create(context.Background(), uuid.New(), CreateAyahRequest{
		SurahID: surah.String(), ParaID: ptr(para.String()), AyahNumber: 255, ArabicText: " اللَّهُ لَا إِلَٰهَ إِلَّا هُوَ ",
	})
	require.NoError(t, err)
	assert.Equal(t, surah, a.SurahID)
	require.NotNil(t, a.ParaID)
	assert.Equal(t, para, *a.ParaID)
	assert.Equal(t, "اللَّهُ لَا إِلَٰهَ إِلَّا هُوَ", a.ArabicText)

	noPara, err := svc.Create(context.Background(), uuid.New(), CreateAyahRequest{SurahID: surah.String(), AyahNumber: 1, ArabicText: "x"})
	require.NoError(t, err)
	assert.Nil(t, noPara.ParaID)

	repo.createErr = fmt.Errorf("create ayahs: %w", repository.ErrInvalidReference)
	_, err = svc.Create(context.Background(), uuid.New(), CreateAyahRequest{SurahID: uuid.NewString(), AyahNumber: 1, ArabicText: "x"})
	assert.ErrorIs(t, err, ErrAyahParent)

	repo.createErr = repository.ErrConflict
	_, err = svc.Create(context.Background(), uuid.New(), CreateAyahRequest{SurahID: surah.String(), AyahNumber: 255, ArabicText: "x"})
	assert.ErrorIs(t, err, ErrAyahExists)
}

func TestAyahList_BySurah(t *testing.T) {
	repo := newStubContent[domain.Ayah]()
	svc := NewAyahService(repo)
	surah := uuid.NewString()

	_, _, err := svc.List(context.Background(), url.Values{"surahId": {surah}, "searchTerm": {"mercy"}})
	require.NoError(t, err)
	assert.Equal(t, surah, repo.lastParts.Filters.Get("surahId"))
	assert.Empty(t, repo.lastParts.Additional)
	assert.Equal(t, "ayah_number", repo.lastOpts.DefaultSort)
	assert.Equal(t, "asc", repo.lastOpts.DefaultOrder)
}

func TestBookContentCreate_MissingBook(t *testing.T) {
	repo := newStubContent[domain.BookContent]()
	svc := NewBookContentService(repo)
	book := uuid.New()

	c, err := svc.Create(context.Background(), uuid.New(), CreateBookContentRequest{BookID: book.String(), Title: "Chapter One", Order: 1, Text: "..."})
	require.NoError(t, err)
	assert.Equal(t, book, c.BookID)
	assert.Equal(t, 1, c.Position)

	repo.createErr = repository.ErrInvalidReference
	_, err = svc.Create(context.Background(), uuid.New(), CreateBookContentRequest{BookID: uuid.NewString(), Title: "x", Order: 1, Text: "x"})
	assert.ErrorIs(t, err, ErrBookMissing)
}

func TestSlugify(t *testing.T) {
	id := uuid.MustParse("0a1b2c3d-0000-0000-0000-000000000000")

	tests := []struct {
		title string
		want  string
	}{
		{"Hello World", "hello-world"},
		{"  Trim -- dashes  ", "trim-dashes"},
		{"Surah 2: Al-Baqarah", "surah-2-al-baqarah"},
		{"ধৈর্য", "0a1b2c3d"},
		{"", "0a1b2c3d"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.title, id), tt.title)
	}
}
