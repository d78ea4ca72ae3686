package service

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/andressep95/deen-service/internal/domain"
	"github.com/andressep95/deen-service/internal/repository"
	"github.com/andressep95/deen-service/pkg/query"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var bookmarkListing = Listing{
	FilterKeys:   []string{"itemType", "userId"},
	DefaultSort:  "created_at",
	DefaultOrder: "desc",
}

type CreateBookmarkRequest struct {
	ItemID   string              `json:"itemId" validate:"required,max=64"`
	ItemType domain.BookmarkType `json:"itemType" validate:"required,bookmark_type"`
}

type BookmarkService struct {
	repo  repository.BookmarkRepository
	duas  repository.ContentRepository[domain.Dua]
	ayahs repository.ContentRepository[domain.Ayah]
	log   logrus.FieldLogger
	now   func() time.Time
}

func NewBookmarkService(repo repository.BookmarkRepository, duas repository.ContentRepository[domain.Dua], ayahs repository.ContentRepository[domain.Ayah], log logrus.FieldLogger) *BookmarkService {
	return &BookmarkService{
		repo:  repo,
		duas:  duas,
		ayahs: ayahs,
		log:   log.WithField("component", "bookmark_service"),
		now:   time.Now,
	}
}

// Create bookmarks an item for user. The item must be a live dua or ayah.
func (s *BookmarkService) Create(ctx context.Context, user uuid.UUID, req CreateBookmarkRequest) (*domain.Bookmark, error) {
	id, err := uuid.Parse(strings.TrimSpace(req.ItemID))
	if err != nil {
		return nil, ErrBookmarkTarget
	}
	switch req.ItemType {
	case domain.BookmarkTypeDua:
		_, err = s.duas.GetByID(ctx, id)
	case domain.BookmarkTypeAyah:
		_, err = s.ayahs.GetByID(ctx, id)
	default:
		err = repository.ErrNotFound
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrBookmarkTarget
	}
	if err != nil {
		return nil, err
	}
	itemID := id.String()

	b := &domain.Bookmark{
		ID:        uuid.New(),
		UserID:    user,
		ItemID:    itemID,
		ItemType:  req.ItemType,
		CreatedAt: s.now(),
	}
	if err := s.repo.Create(ctx, b); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrBookmarkExists
		}
		return nil, err
	}
	return b, nil
}

// ListMine lists the caller's bookmarks. A userId parameter is ignored.
func (s *BookmarkService) ListMine(ctx context.Context, user uuid.UUID, raw url.Values) ([]domain.Bookmark, domain.Meta, error) {
	own := url.Values{}
	for k, v := range raw {
		if k != "userId" {
			own[k] = v
		}
	}
	parts := query.Partition(own, bookmarkListing.FilterKeys, query.PaginationKeys)
	opts := bookmarkListing.options(false)
	opts.Where = []query.Predicate{{SQL: `"user_id" = ?`, Args: []interface{}{user}}}
	return s.repo.List(ctx, parts, opts)
}

func (s *BookmarkService) ListAll(ctx context.Context, raw url.Values) ([]domain.Bookmark, domain.Meta, error) {
	parts := query.Partition(raw, bookmarkListing.FilterKeys, query.PaginationKeys)
	return s.repo.List(ctx, parts, bookmarkListing.options(false))
}

// GetMine hides bookmarks of other users behind ErrNotFound.
func (s *BookmarkService) GetMine(ctx context.Context, user, id uuid.UUID) (*domain.Bookmark, error) {
	b, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if b.UserID != user {
		return nil, ErrNotFound
	}
	return b, nil
}

func (s *BookmarkService) DeleteMine(ctx context.Context, user, id uuid.UUID) error {
	if _, err := s.GetMine(ctx, user, id); err != nil {
		return err
	}
	return s.Delete(ctx, id)
}

func (s *BookmarkService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	s.log.WithField("bookmark_id", id).Debug("bookmark deleted")
	return nil
}
