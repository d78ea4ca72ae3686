package domain

import (
	"time"

	"github.com/google/uuid"
)

type Category struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	IsDeleted bool      `json:"isDeleted" db:"is_deleted"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type Book struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	Cover       string    `json:"cover" db:"cover"`
	CategoryID  uuid.UUID `json:"categoryId" db:"category_id"`
	IsFeatured  bool      `json:"isFeatured" db:"is_featured"`
	IsDeleted   bool      `json:"isDeleted" db:"is_deleted"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

type DictionaryWord struct {
	ID            uuid.UUID `json:"id" db:"id"`
	Word          string    `json:"word" db:"word"`
	Definition    string    `json:"definition" db:"definition"`
	Pronunciation string    `json:"pronunciation" db:"pronunciation"`
	IsDeleted     bool      `json:"isDeleted" db:"is_deleted"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time `json:"updatedAt" db:"updated_at"`
}

type Dua struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Name            string    `json:"name" db:"name"`
	Arabic          string    `json:"arabic" db:"arabic"`
	Transliteration *string   `json:"transliteration,omitempty" db:"transliteration"`
	Bangla          string    `json:"bangla" db:"bangla"`
	English         *string   `json:"english,omitempty" db:"english"`
	Reference       *string   `json:"reference,omitempty" db:"reference"`
	Tags            *string   `json:"tags,omitempty" db:"tags"`
	IsDeleted       bool      `json:"isDeleted" db:"is_deleted"`
	CreatedAt       time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" db:"updated_at"`
}

// Tafsir is commentary on a single ayah. AyahID is an external reference.
type Tafsir struct {
	ID        uuid.UUID `json:"id" db:"id"`
	AyahID    string    `json:"ayahId" db:"ayah_id"`
	Heading   *string   `json:"heading,omitempty" db:"heading"`
	SummaryBn *string   `json:"summaryBn,omitempty" db:"summary_bn"`
	SummaryEn *string   `json:"summaryEn,omitempty" db:"summary_en"`
	DetailBn  *string   `json:"detailBn,omitempty" db:"detail_bn"`
	DetailEn  *string   `json:"detailEn,omitempty" db:"detail_en"`
	Scholar   *string   `json:"scholar,omitempty" db:"scholar"`
	Reference *string   `json:"reference,omitempty" db:"reference"`
	Tags      *string   `json:"tags,omitempty" db:"tags"`
	IsDeleted bool      `json:"isDeleted" db:"is_deleted"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

type Blog struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Slug        string     `json:"slug" db:"slug"`
	Thumbnail   *string    `json:"thumbnail,omitempty" db:"thumbnail"`
	Summary     *string    `json:"summary,omitempty" db:"summary"`
	Content     string     `json:"content" db:"content"`
	AuthorID    uuid.UUID  `json:"authorId" db:"author_id"`
	IsPublished bool       `json:"isPublished" db:"is_published"`
	IsFeatured  bool       `json:"isFeatured" db:"is_featured"`
	PublishedAt *time.Time `json:"publishedAt,omitempty" db:"published_at"`
	IsDeleted   bool       `json:"isDeleted" db:"is_deleted"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`
}
