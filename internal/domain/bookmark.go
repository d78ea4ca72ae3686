package domain

import (
	"time"

	"github.com/google/uuid"
)

type BookmarkType string

const (
	BookmarkTypeDua  BookmarkType = "DUA"
	BookmarkTypeAyah BookmarkType = "AYAH"
)

func (t BookmarkType) Valid() bool {
	return t == BookmarkTypeDua || t == BookmarkTypeAyah
}

type Bookmark struct {
	ID        uuid.UUID    `json:"id" db:"id"`
	UserID    uuid.UUID    `json:"userId" db:"user_id"`
	ItemID    string       `json:"itemId" db:"item_id"`
	ItemType  BookmarkType `json:"itemType" db:"item_type"`
	CreatedAt time.Time    `json:"createdAt" db:"created_at"`
}
