package service

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/andressep95/deen-service/internal/domain"
	"github.com/andressep95/deen-service/internal/repository"
	"github.com/andressep95/deen-service/pkg/query"
	"github.com/google/uuid"
)

type (
	CategoryService   = ContentService[domain.Category, CreateCategoryRequest, UpdateCategoryRequest]
	BookService       = ContentService[domain.Book, CreateBookRequest, UpdateBookRequest]
	DictionaryService = ContentService[domain.DictionaryWord, CreateWordRequest, UpdateWordRequest]
	DuaService        = ContentService[domain.Dua, CreateDuaRequest, UpdateDuaRequest]
	TafsirService     = ContentService[domain.Tafsir, CreateTafsirRequest, UpdateTafsirRequest]
	BlogService       = ContentService[domain.Blog, CreateBlogRequest, UpdateBlogRequest]
)

func contentListing(search []string, defaultSort, defaultOrder string, extra ...string) Listing {
	return Listing{
		FilterKeys:   append([]string{query.KeySearchTerm, query.KeyIsDeleted}, extra...),
		SearchFields: search,
		SoftDelete:   true,
		DefaultSort:  defaultSort,
		DefaultOrder: defaultOrder,
	}
}

// Categories

type CreateCategoryRequest struct {
	Name string `json:"name" validate:"required,min=1,max=255"`
}

type UpdateCategoryRequest struct {
	Name *string `json:"name" validate:"omitempty,min=1,max=255"`
}

func NewCategoryService(repo repository.CategoryRepository) *CategoryService {
	return newContentService(repository.ContentRepository[domain.Category](repo), contentRules[domain.Category, CreateCategoryRequest, UpdateCategoryRequest]{
		listing: contentListing([]string{"name"}, "name", "asc"),
		build: func(_ uuid.UUID, req CreateCategoryRequest, now time.Time) *domain.Category {
			return &domain.Category{ID: uuid.New(), Name: strings.TrimSpace(req.Name), CreatedAt: now, UpdatedAt: now}
		},
		changes: func(req UpdateCategoryRequest, _ time.Time) repository.Changes {
			return repository.Changes{}.Set("name", trimmed(req.Name))
		},
		conflict: ErrCategoryExists,
		inUse:    ErrCategoryInUse,
		beforeDelete: func(ctx context.Context, id uuid.UUID) error {
			n, err := repo.CountBooks(ctx, id)
			if err != nil {
				return err
			}
			if n > 0 {
				return ErrCategoryInUse
			}
			return nil
		},
	})
}

// Books

type CreateBookRequest struct {
	Name        string  `json:"name" validate:"required,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Cover       string  `json:"cover" validate:"required,url"`
	CategoryID  string  `json:"categoryId" validate:"required,uuid"`
	IsFeatured  bool    `json:"isFeatured"`
}

type UpdateBookRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=5000"`
	Cover       *string `json:"cover" validate:"omitempty,url"`
	CategoryID  *string `json:"categoryId" validate:"omitempty,uuid"`
	IsFeatured  *bool   `json:"isFeatured"`
}

func NewBookService(repo repository.ContentRepository[domain.Book]) *BookService {
	return newContentService(repo, contentRules[domain.Book, CreateBookRequest, UpdateBookRequest]{
		listing: contentListing([]string{"name", "description"}, "created_at", "desc", "categoryId", "isFeatured"),
		build: func(_ uuid.UUID, req CreateBookRequest, now time.Time) *domain.Book {
			return &domain.Book{
				ID:          uuid.New(),
				Name:        strings.TrimSpace(req.Name),
				Description: req.Description,
				Cover:       req.Cover,
				CategoryID:  uuid.MustParse(req.CategoryID),
				IsFeatured:  req.IsFeatured,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
		},
		changes: func(req UpdateBookRequest, _ time.Time) repository.Changes {
			return repository.Changes{}.
				Set("name", trimmed(req.Name)).
				Set("description", req.Description).
				Set("cover", req.Cover).
				Set("category_id", req.CategoryID).
				Set("is_featured", req.IsFeatured)
		},
		badRef: ErrCategoryMissing,
	})
}

// Dictionary

type CreateWordRequest struct {
	Word          string `json:"word" validate:"required,min=1,max=255"`
	Definition    string `json:"definition" validate:"required"`
	Pronunciation string `json:"pronunciation" validate:"required"`
}

type UpdateWordRequest struct {
	Word          *string `json:"word" validate:"omitempty,min=1,max=255"`
	Definition    *string `json:"definition" validate:"omitempty,min=1"`
	Pronunciation *string `json:"pronunciation" validate:"omitempty,min=1"`
}

func NewDictionaryService(repo repository.ContentRepository[domain.DictionaryWord]) *DictionaryService {
	return newContentService(repo, contentRules[domain.DictionaryWord, CreateWordRequest, UpdateWordRequest]{
		listing: contentListing([]string{"word", "definition"}, "word", "asc", "word"),
		build: func(_ uuid.UUID, req CreateWordRequest, now time.Time) *domain.DictionaryWord {
			return &domain.DictionaryWord{
				ID:            uuid.New(),
				Word:          strings.TrimSpace(req.Word),
				Definition:    req.Definition,
				Pronunciation: req.Pronunciation,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
		},
		changes: func(req UpdateWordRequest, _ time.Time) repository.Changes {
			return repository.Changes{}.
				Set("word", trimmed(req.Word)).
				Set("definition", req.Definition).
				Set("pronunciation", req.Pronunciation)
		},
		conflict: ErrWordExists,
	})
}

// Duas

type CreateDuaRequest struct {
	Name            string  `json:"name" validate:"required,min=1,max=255"`
	Arabic          string  `json:"arabic" validate:"required"`
	Transliteration *string `json:"transliteration"`
	Bangla          string  `json:"bangla" validate:"required"`
	English         *string `json:"english"`
	Reference       *string `json:"reference"`
	Tags            *string `json:"tags"`
}

type UpdateDuaRequest struct {
	Name            *string `json:"name" validate:"omitempty,min=1,max=255"`
	Arabic          *string `json:"arabic" validate:"omitempty,min=1"`
	Transliteration *string `json:"transliteration"`
	Bangla          *string `json:"bangla" validate:"omitempty,min=1"`
	English         *string `json:"english"`
	Reference       *string `json:"reference"`
	Tags            *string `json:"tags"`
}

func NewDuaService(repo repository.ContentRepository[domain.Dua]) *DuaService {
	return newContentService(repo, contentRules[domain.Dua, CreateDuaRequest, UpdateDuaRequest]{
		listing: contentListing([]string{"name", "arabic", "bangla", "english", "reference"}, "created_at", "desc", "tags"),
		build: func(_ uuid.UUID, req CreateDuaRequest, now time.Time) *domain.Dua {
			return &domain.Dua{
				ID:              uuid.New(),
				Name:            strings.TrimSpace(req.Name),
				Arabic:          req.Arabic,
				Transliteration: req.Transliteration,
				Bangla:          req.Bangla,
				English:         req.English,
				Reference:       req.Reference,
				Tags:            req.Tags,
				CreatedAt:       now,
				UpdatedAt:       now,
			}
		},
		changes: func(req UpdateDuaRequest, _ time.Time) repository.Changes {
			return repository.Changes{}.
				Set("name", trimmed(req.Name)).
				Set("arabic", req.Arabic).
				Set("transliteration", req.Transliteration).
				Set("bangla", req.Bangla).
				Set("english", req.English).
				Set("reference", req.Reference).
				Set("tags", req.Tags)
		},
	})
}

// Tafsir

type CreateTafsirRequest struct {
	AyahID    string  `json:"ayahId" validate:"required,max=64"`
	Heading   *string `json:"heading"`
	SummaryBn *string `json:"summaryBn"`
	SummaryEn *string `json:"summaryEn"`
	DetailBn  *string `json:"detailBn"`
	DetailEn  *string `json:"detailEn"`
	Scholar   *string `json:"scholar" validate:"omitempty,max=255"`
	Reference *string `json:"reference"`
	Tags      *string `json:"tags"`
}

type UpdateTafsirRequest struct {
	Heading   *string `json:"heading"`
	SummaryBn *string `json:"summaryBn"`
	SummaryEn *string `json:"summaryEn"`
	DetailBn  *string `json:"detailBn"`
	DetailEn  *string `json:"detailEn"`
	Scholar   *string `json:"scholar" validate:"omitempty,max=255"`
	Reference *string `json:"reference"`
	Tags      *string `json:"tags"`
}

func NewTafsirService(repo repository.ContentRepository[domain.Tafsir]) *TafsirService {
	return newContentService(repo, contentRules[domain.Tafsir, CreateTafsirRequest, UpdateTafsirRequest]{
		listing: contentListing([]string{"heading", "summary_en", "summary_bn", "scholar"}, "created_at", "desc", "ayahId", "scholar", "tags"),
		build: func(_ uuid.UUID, req CreateTafsirRequest, now time.Time) *domain.Tafsir {
			return &domain.Tafsir{
				ID:        uuid.New(),
				AyahID:    strings.TrimSpace(req.AyahID),
				Heading:   req.Heading,
				SummaryBn: req.SummaryBn,
				SummaryEn: req.SummaryEn,
				DetailBn:  req.DetailBn,
				DetailEn:  req.DetailEn,
				Scholar:   req.Scholar,
				Reference: req.Reference,
				Tags:      req.Tags,
				CreatedAt: now,
				UpdatedAt: now,
			}
		},
		changes: func(req UpdateTafsirRequest, _ time.Time) repository.Changes {
			return repository.Changes{}.
				Set("heading", req.Heading).
				Set("summary_bn", req.SummaryBn).
				Set("summary_en", req.SummaryEn).
				Set("detail_bn", req.DetailBn).
				Set("detail_en", req.DetailEn).
				Set("scholar", req.Scholar).
				Set("reference", req.Reference).
				Set("tags", req.Tags)
		},
	})
}

// Blogs

type CreateBlogRequest struct {
	Title       string  `json:"title" validate:"required,min=1,max=255"`
	Thumbnail   *string `json:"thumbnail" validate:"omitempty,url"`
	Summary     *string `json:"summary" validate:"omitempty,max=1000"`
	Content     string  `json:"content" validate:"required"`
	IsPublished bool    `json:"isPublished"`
}

type UpdateBlogRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Thumbnail   *string `json:"thumbnail" validate:"omitempty,url"`
	Summary     *string `json:"summary" validate:"omitempty,max=1000"`
	Content     *string `json:"content" validate:"omitempty,min=1"`
	IsPublished *bool   `json:"isPublished"`
	IsFeatured  *bool   `json:"isFeatured"`
}

func NewBlogService(repo repository.ContentRepository[domain.Blog]) *BlogService {
	listing := contentListing([]string{"title", "summary", "content"}, "created_at", "desc", "slug", "isFeatured", "isPublished")
	listing.Public = []query.Predicate{{SQL: `"is_published" = ?`, Args: []interface{}{true}}}

	return newContentService(repo, contentRules[domain.Blog, CreateBlogRequest, UpdateBlogRequest]{
		listing: listing,
		build: func(actor uuid.UUID, req CreateBlogRequest, now time.Time) *domain.Blog {
			id := uuid.New()
			b := &domain.Blog{
				ID:          id,
				Title:       strings.TrimSpace(req.Title),
				Slug:        Slugify(req.Title, id),
				Thumbnail:   req.Thumbnail,
				Summary:     req.Summary,
				Content:     req.Content,
				AuthorID:    actor,
				IsPublished: req.IsPublished,
				CreatedAt:   now,
				UpdatedAt:   now,
			}
			if req.IsPublished {
				b.PublishedAt = &now
			}
			return b
		},
		changes: func(req UpdateBlogRequest, now time.Time) repository.Changes {
			c := repository.Changes{}.
				Set("title", trimmed(req.Title)).
				Set("thumbnail", req.Thumbnail).
				Set("summary", req.Summary).
				Set("content", req.Content).
				Set("is_published", req.IsPublished).
				Set("is_featured", req.IsFeatured)
			if req.Title != nil {
				c["slug"] = Slugify(*req.Title, uuid.New())
			}
			if req.IsPublished != nil && *req.IsPublished {
				c["published_at"] = now
			}
			return c
		},
		conflict: ErrSlugTaken,
	})
}

// Slugify lowercases title and joins its letters and digits with dashes.
// Titles with no ASCII letters or digits fall back to a prefix of id.
func Slugify(title string, id uuid.UUID) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(title) {
		if r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)) {
			sb.WriteRune(r)
			dash = false
			continue
		}
		if !dash && sb.Len() > 0 {
			sb.WriteByte('-')
			dash = true
		}
	}
	slug := strings.TrimSuffix(sb.String(), "-")
	if slug == "" {
		return id.String()[:8]
	}
	return slug
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	return &t
}

// Quran text

type (
	SurahService       = ContentService[domain.Surah, CreateSurahRequest, UpdateSurahRequest]
	ParaService        = ContentService[domain.Para, CreateParaRequest, UpdateParaRequest]
	AyahService        = ContentService[domain.Ayah, CreateAyahRequest, UpdateAyahRequest]
	BookContentService = ContentService[domain.BookContent, CreateBookContentRequest, UpdateBookContentRequest]
)

type CreateSurahRequest struct {
	Chapter    int     `json:"chapter" validate:"required,min=1,max=114"`
	TotalAyah  int     `json:"totalAyah" validate:"required,min=1"`
	Arabic     string  `json:"arabic" validate:"required,max=255"`
	English    string  `json:"english" validate:"required,max=255"`
	Bangla     *string `json:"bangla" validate:"omitempty,max=255"`
	History    *string `json:"history"`
	Revelation string  `json:"revelation" validate:"required,max=32"`
}

type UpdateSurahRequest struct {
	Chapter    *int    `json:"chapter" validate:"omitempty,min=1,max=114"`
	TotalAyah  *int    `json:"totalAyah" validate:"omitempty,min=1"`
	Arabic     *string `json:"arabic" validate:"omitempty,min=1,max=255"`
	English    *string `json:"english" validate:"omitempty,min=1,max=255"`
	Bangla     *string `json:"bangla" validate:"omitempty,max=255"`
	History    *string `json:"history"`
	Revelation *string `json:"revelation" validate:"omitempty,min=1,max=32"`
}

func NewSurahService(repo repository.ContentRepository[domain.Surah]) *SurahService {
	return newContentService(repo, contentRules[domain.Surah, CreateSurahRequest, UpdateSurahRequest]{
		listing: contentListing([]string{"arabic", "english", "bangla"}, "chapter", "asc", "chapter", "revelation"),
		build: func(_ uuid.UUID, req CreateSurahRequest, now time.Time) *domain.Surah {
			return &domain.Surah{
				ID:         uuid.New(),
				Chapter:    req.Chapter,
				TotalAyah:  req.TotalAyah,
				Arabic:     strings.TrimSpace(req.Arabic),
				English:    strings.TrimSpace(req.English),
				Bangla:     trimmed(req.Bangla),
				History:    req.History,
				Revelation: strings.TrimSpace(req.Revelation),
				CreatedAt:  now,
				UpdatedAt:  now,
			}
		},
		changes: func(req UpdateSurahRequest, _ time.Time) repository.Changes {
			return repository.Changes{}.
				Set("chapter", req.Chapter).
				Set("total_ayah", req.TotalAyah).
				Set("arabic", trimmed(req.Arabic)).
				Set("english", trimmed(req.English)).
				Set("bangla", trimmed(req.Bangla)).
				Set("history", req.History).
				Set("revelation", trimmed(req.Revelation))
		},
		conflict: ErrSurahExists,
		inUse:    ErrSurahInUse,
	})
}

type CreateParaRequest struct {
	Number  int     `json:"number" validate:"required,min=1,max=30"`
	English string  `json:"english" validate:"required,max=255"`
	Arabic  *string `json:"arabic" validate:"omitempty,max=255"`
	Bangla  *string `json:"bangla" validate:"omitempty,max=255"`
}

type UpdateParaRequest struct {
	Number  *int    `json:"number" validate:"omitempty,min=1,max=30"`
	English *string `json:"english" validate:"omitempty,min=1,max=255"`
	Arabic  *string `json:"arabic" validate:"omitempty,max=255"`
	Bangla  *string `json:"bangla" validate:"omitempty,max=255"`
}

func NewParaService(repo repository.ContentRepository[domain.Para]) *ParaService {
	return newContentService(repo, contentRules[domain.Para, CreateParaRequest, UpdateParaRequest]{
		listing: contentListing([]string{"arabic", "english", "bangla"}, "number", "asc", "number"),
		build: func(_ uuid.UUID, req CreateParaRequest, now time.Time) *domain.Para {
			return &domain.Para{
				ID:        uuid.New(),
				Number:    req.Number,
				English:   strings.TrimSpace(req.English),
				Arabic:    trimmed(req.Arabic),
				Bangla:    trimmed(req.Bangla),
				CreatedAt: now,
				UpdatedAt: now,
			}
		},
		changes: func(req UpdateParaRequest, _ time.Time) repository.Changes {
			return repository.Changes{}.
				Set("number", req.Number).
				Set("english", trimmed(req.English)).
				Set("arabic", trimmed(req.Arabic)).
				Set("bangla", trimmed(req.Bangla))
		},
		conflict: ErrParaExists,
		inUse:    ErrParaInUse,
	})
}

type CreateAyahRequest struct {
	SurahID       string  `json:"surahId" validate:"required,uuid"`
	ParaID        *string `json:"paraId" validate:"omitempty,uuid"`
	AyahNumber    int     `json:"ayahNumber" validate:"required,min=1"`
	ArabicText    string  `json:"arabicText" validate:"required"`
	Pronunciation *string `json:"pronunciation"`
	BanglaText    *string `json:"banglaText"`
	EnglishText   *string `json:"englishText"`
}

type UpdateAyahRequest struct {
	SurahID       *string `json:"surahId" validate:"omitempty,uuid"`
	ParaID        *string `json:"paraId" validate:"omitempty,uuid"`
	AyahNumber    *int    `json:"ayahNumber" validate:"omitempty,min=1"`
	ArabicText    *string `json:"arabicText" validate:"omitempty,min=1"`
	Pronunciation *string `json:"pronunciation"`
	BanglaText    *string `json:"banglaText"`
	EnglishText   *string `json:"englishText"`
}

func NewAyahService(repo repository.ContentRepository[domain.Ayah]) *AyahService {
	return newContentService(repo, contentRules[domain.Ayah, CreateAyahRequest, UpdateAyahRequest]{
		listing: contentListing([]string{"arabic_text", "bangla_text", "english_text"}, "ayah_number", "asc", "surahId", "paraId", "ayahNumber"),
		build: func(_ uuid.UUID, req CreateAyahRequest, now time.Time) *domain.Ayah {
			a := &domain.Ayah{
				ID:            uuid.New(),
				SurahID:       uuid.MustParse(req.SurahID),
				AyahNumber:    req.AyahNumber,
				ArabicText:    strings.TrimSpace(req.ArabicText),
				Pronunciation: req.Pronunciation,
				BanglaText:    req.BanglaText,
				EnglishText:   req.EnglishText,
				CreatedAt:     now,
				UpdatedAt:     now,
			}
			if req.ParaID != nil {
				para := uuid.MustParse(*req.ParaID)
				a.ParaID = &para
			}
			return a
		},
		changes: func(req UpdateAyahRequest, _ time.Time) repository.Changes {
			return repository.Changes{}.
				Set("surah_id", req.SurahID).
				Set("para_id", req.ParaID).
				Set("ayah_number", req.AyahNumber).
				Set("arabic_text", trimmed(req.ArabicText)).
				Set("pronunciation", req.Pronunciation).
				Set("bangla_text", req.BanglaText).
				Set("english_text", req.EnglishText)
		},
		conflict: ErrAyahExists,
		badRef:   ErrAyahParent,
	})
}

type CreateBookContentRequest struct {
	BookID string `json:"bookId" validate:"required,uuid"`
	Title  string `json:"title" validate:"required,max=255"`
	Order  int    `json:"order" validate:"required,min=1"`
	Text   string `json:"text" validate:"required,max=65535"`
}

type UpdateBookContentRequest struct {
	Title *string `json:"title" validate:"omitempty,min=1,max=255"`
	Order *int    `json:"order" validate:"omitempty,min=1"`
	Text  *string `json:"text" validate:"omitempty,min=1,max=65535"`
}

func NewBookContentService(repo repository.ContentRepository[domain.BookContent]) *BookContentService {
	return newContentService(repo, contentRules[domain.BookContent, CreateBookContentRequest, UpdateBookContentRequest]{
		listing: contentListing([]string{"title", "text"}, "position", "asc", "bookId"),
		build: func(_ uuid.UUID, req CreateBookContentRequest, now time.Time) *domain.BookContent {
			return &domain.BookContent{
				ID:        uuid.New(),
				BookID:    uuid.MustParse(req.BookID),
				Title:     strings.TrimSpace(req.Title),
				Position:  req.Order,
				Text:      req.Text,
				CreatedAt: now,
				UpdatedAt: now,
			}
		},
		changes: func(req UpdateBookContentRequest, _ time.Time) repository.Changes {
			return repository.Changes{}.
				Set("title", trimmed(req.Title)).
				Set("position", req.Order).
				Set("text", req.Text)
		},
		badRef: ErrBookMissing,
	})
}
