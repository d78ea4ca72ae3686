package domain

import (
	"time"

	"github.com/google/uuid"
)

type Surah struct {
	ID         uuid.UUID `json:"id" db:"id"`
	Chapter    int       `json:"chapter" db:"chapter"`
	TotalAyah  int       `json:"totalAyah" db:"total_ayah"`
	Arabic     string    `json:"arabic" db:"arabic"`
	English    string    `json:"english" db:"english"`
	Bangla     *string   `json:"bangla,omitempty" db:"bangla"`
	History    *string   `json:"history,omitempty" db:"history"`
	Revelation string    `json:"revelation" db:"revelation"`
	IsDeleted  bool      `json:"isDeleted" db:"is_deleted"`
	CreatedAt  time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt" db:"updated_at"`
}

// Para is one of the thirty juz of the Quran.
type Para struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Number    int       `json:"number" db:"number"`
	English   string    `json:"english" db:"english"`
	Arabic    *string   `json:"arabic,omitempty" db:"arabic"`
	Bangla    *string   `json:"bangla,omitempty" db:"bangla"`
	IsDeleted bool      `json:"isDeleted" db:"is_deleted"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// Ayah is unique by (SurahID, AyahNumber).
type Ayah struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	SurahID       uuid.UUID  `json:"surahId" db:"surah_id"`
	ParaID        *uuid.UUID `json:"paraId,omitempty" db:"para_id"`
	AyahNumber    int        `json:"ayahNumber" db:"ayah_number"`
	ArabicText    string     `json:"arabicText" db:"arabic_text"`
	Pronunciation *string    `json:"pronunciation,omitempty" db:"pronunciation"`
	BanglaText    *string    `json:"banglaText,omitempty" db:"bangla_text"`
	EnglishText   *string    `json:"englishText,omitempty" db:"english_text"`
	IsDeleted     bool       `json:"isDeleted" db:"is_deleted"`
	CreatedAt     time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt     time.Time  `json:"updatedAt" db:"updated_at"`
}

// BookContent is one chapter of a book, read in Position order.
type BookContent struct {
	ID        uuid.UUID `json:"id" db:"id"`
	BookID    uuid.UUID `json:"bookId" db:"book_id"`
	Title     string    `json:"title" db:"title"`
	Position  int       `json:"order" db:"position"`
	Text      string    `json:"text" db:"text"`
	IsDeleted bool      `json:"isDeleted" db:"is_deleted"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
