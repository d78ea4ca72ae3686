package service

import (
	"context"
	"errors"
	"net/url"
	"time"

	"github.com/andressep95/deen-service/internal/domain"
	"github.com/andressep95/deen-service/internal/repository"
	"github.com/andressep95/deen-service/pkg/query"
	"github.com/google/uuid"
)

// Listing is the per-entity configuration of a list endpoint.
type Listing struct {
	FilterKeys   []string
	SearchFields []string
	SoftDelete   bool
	DefaultSort  string
	DefaultOrder string
	// Columns limits which columns callers may filter or sort on. Empty
	// means every column of the table.
	Columns []string
	// Public is added to every public listing, e.g. only published posts.
	Public []query.Predicate
}

// options builds the builder options. Admin listings may select deleted rows
// and skip the Public predicates.
func (l Listing) options(admin bool) query.Options {
	opts := query.Options{
		SearchFields: l.SearchFields,
		SoftDelete:   l.SoftDelete,
		AllowDeleted: admin,
		DefaultSort:  l.DefaultSort,
		DefaultOrder: l.DefaultOrder,
		Columns:      l.Columns,
	}
	if !admin {
		opts.Where = append(opts.Where, l.Public...)
	}
	return opts
}

// contentRules adapts the generic service to one entity. C and U are the
// create and update request bodies.
type contentRules[T, C, U any] struct {
	listing Listing
	build   func(actor uuid.UUID, req C, now time.Time) *T
	changes func(req U, now time.Time) repository.Changes
	// conflict replaces repository.ErrConflict, badRef replaces
	// repository.ErrInvalidReference and inUse replaces repository.ErrInUse.
	conflict     error
	badRef       error
	inUse        error
	beforeDelete func(ctx context.Context, id uuid.UUID) error
}

// ContentService implements list, read, create, update, soft delete and hard
// delete for a content table.
type ContentService[T, C, U any] struct {
	repo  repository.ContentRepository[T]
	rules contentRules[T, C, U]
	now   func() time.Time
}

func newContentService[T, C, U any](repo repository.ContentRepository[T], rules contentRules[T, C, U]) *ContentService[T, C, U] {
	return &ContentService[T, C, U]{repo: repo, rules: rules, now: time.Now}
}

// List serves public listings; deleted rows are never visible and the
// entity's Public predicates always apply.
func (s *ContentService[T, C, U]) List(ctx context.Context, raw url.Values) ([]T, domain.Meta, error) {
	return s.list(ctx, raw, false)
}

// ListAll serves admin listings, which honour isDeleted=true.
func (s *ContentService[T, C, U]) ListAll(ctx context.Context, raw url.Values) ([]T, domain.Meta, error) {
	return s.list(ctx, raw, true)
}

func (s *ContentService[T, C, U]) list(ctx context.Context, raw url.Values, admin bool) ([]T, domain.Meta, error) {
	parts := query.Partition(raw, s.rules.listing.FilterKeys, query.PaginationKeys)
	return s.repo.List(ctx, parts, s.rules.listing.options(admin))
}

func (s *ContentService[T, C, U]) Get(ctx context.Context, id uuid.UUID) (*T, error) {
	item, err := s.repo.GetByID(ctx, id)
	return item, s.mapErr(err)
}

func (s *ContentService[T, C, U]) Create(ctx context.Context, actor uuid.UUID, req C) (*T, error) {
	item := s.rules.build(actor, req, s.now())
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, s.mapErr(err)
	}
	return item, nil
}

func (s *ContentService[T, C, U]) Update(ctx context.Context, id uuid.UUID, req U) (*T, error) {
	item, err := s.repo.Update(ctx, id, s.rules.changes(req, s.now()))
	return item, s.mapErr(err)
}

func (s *ContentService[T, C, U]) SoftDelete(ctx context.Context, id uuid.UUID) (*T, error) {
	item, err := s.repo.SoftDelete(ctx, id)
	return item, s.mapErr(err)
}

func (s *ContentService[T, C, U]) Delete(ctx context.Context, id uuid.UUID) error {
	if s.rules.beforeDelete != nil {
		if err := s.rules.beforeDelete(ctx, id); err != nil {
			return err
		}
	}
	return s.mapErr(s.repo.Delete(ctx, id))
}

func (s *ContentService[T, C, U]) mapErr(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrConflict) && s.rules.conflict != nil:
		return s.rules.conflict
	case errors.Is(err, repository.ErrInvalidReference) && s.rules.badRef != nil:
		return s.rules.badRef
	case errors.Is(err, repository.ErrInUse) && s.rules.inUse != nil:
		return s.rules.inUse
	default:
		return err
	}
}
