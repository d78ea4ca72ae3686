package postgres

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/andressep95/deen-service/internal/domain"
	"github.com/andressep95/deen-service/internal/repository"
	"github.com/andressep95/deen-service/pkg/query"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// contentRepository implements the CRUD shared by every soft-deletable table.
// Table and column names are compile-time constants.
type contentRepository[T any] struct {
	db      *sqlx.DB
	table   string
	columns []string
}

func newContentRepository[T any](db *sqlx.DB, table string, columns []string) *contentRepository[T] {
	return &contentRepository[T]{db: db, table: table, columns: columns}
}

var (
	categoryColumns = []string{"id", "name", "is_deleted", "created_at", "updated_at"}
	bookColumns     = []string{"id", "name", "description", "cover", "category_id", "is_featured", "is_deleted", "created_at", "updated_at"}
	wordColumns     = []string{"id", "word", "definition", "pronunciation", "is_deleted", "created_at", "updated_at"}
	duaColumns      = []string{"id", "name", "arabic", "transliteration", "bangla", "english", "reference", "tags", "is_deleted", "created_at", "updated_at"}
	tafsirColumns   = []string{"id", "ayah_id", "heading", "summary_bn", "summary_en", "detail_bn", "detail_en", "scholar", "reference", "tags", "is_deleted", "created_at", "updated_at"}
	blogColumns     = []string{"id", "title", "slug", "thumbnail", "summary", "content", "author_id", "is_published", "is_featured", "published_at", "is_deleted", "created_at", "updated_at"}

	surahColumns       = []string{"id", "chapter", "total_ayah", "arabic", "english", "bangla", "history", "revelation", "is_deleted", "created_at", "updated_at"}
	paraColumns        = []string{"id", "number", "english", "arabic", "bangla", "is_deleted", "created_at", "updated_at"}
	ayahColumns        = []string{"id", "surah_id", "para_id", "ayah_number", "arabic_text", "pronunciation", "bangla_text", "english_text", "is_deleted", "created_at", "updated_at"}
	bookContentColumns = []string{"id", "book_id", "title", "position", "text", "is_deleted", "created_at", "updated_at"}
)

func NewBookRepository(db *sqlx.DB) repository.ContentRepository[domain.Book] {
	return newContentRepository[domain.Book](db, "books", bookColumns)
}

func NewDictionaryRepository(db *sqlx.DB) repository.ContentRepository[domain.DictionaryWord] {
	return newContentRepository[domain.DictionaryWord](db, "dictionary_words", wordColumns)
}

func NewDuaRepository(db *sqlx.DB) repository.ContentRepository[domain.Dua] {
	return newContentRepository[domain.Dua](db, "duas", duaColumns)
}

func NewTafsirRepository(db *sqlx.DB) repository.ContentRepository[domain.Tafsir] {
	return newContentRepository[domain.Tafsir](db, "tafsirs", tafsirColumns)
}

func NewBlogRepository(db *sqlx.DB) repository.ContentRepository[domain.Blog] {
	return newContentRepository[domain.Blog](db, "blogs", blogColumns)
}

func NewSurahRepository(db *sqlx.DB) repository.ContentRepository[domain.Surah] {
	return newContentRepository[domain.Surah](db, "surahs", surahColumns)
}

func NewParaRepository(db *sqlx.DB) repository.ContentRepository[domain.Para] {
	return newContentRepository[domain.Para](db, "paras", paraColumns)
}

func NewAyahRepository(db *sqlx.DB) repository.ContentRepository[domain.Ayah] {
	return newContentRepository[domain.Ayah](db, "ayahs", ayahColumns)
}

func NewBookContentRepository(db *sqlx.DB) repository.ContentRepository[domain.BookContent] {
	return newContentRepository[domain.BookContent](db, "book_contents", bookContentColumns)
}

func (r *contentRepository[T]) Create(ctx context.Context, item *T) error {
	q := fmt.Sprintf("INSERT INTO %s (%s) VALUES (:%s)",
		r.table, strings.Join(r.columns, ", "), strings.Join(r.columns, ", :"))

	if _, err := r.db.NamedExecContext(ctx, q, item); err != nil {
		return translate(err, "create "+r.table)
	}
	return nil
}

func (r *contentRepository[T]) GetByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var item T
	q := fmt.Sprintf("SELECT * FROM %s WHERE id = $1 AND is_deleted = false", r.table)
	if err := r.db.GetContext(ctx, &item, q, id); err != nil {
		return nil, translate(err, "get "+r.table)
	}
	return &item, nil
}

func (r *contentRepository[T]) List(ctx context.Context, parts query.Parts, opts query.Options) ([]T, domain.Meta, error) {
	return list[T](ctx, r.db, r.table, parts, opts)
}

func (r *contentRepository[T]) Update(ctx context.Context, id uuid.UUID, changes repository.Changes) (*T, error) {
	if len(changes) == 0 {
		return r.GetByID(ctx, id)
	}
	return update[T](ctx, r.db, r.table, id, changes, "is_deleted = false")
}

func (r *contentRepository[T]) SoftDelete(ctx context.Context, id uuid.UUID) (*T, error) {
	var item T
	q := fmt.Sprintf(`UPDATE %s SET is_deleted = true, updated_at = NOW()
		WHERE id = $1 AND is_deleted = false RETURNING *`, r.table)
	if err := r.db.GetContext(ctx, &item, q, id); err != nil {
		return nil, translate(err, "soft delete "+r.table)
	}
	return &item, nil
}

func (r *contentRepository[T]) Delete(ctx context.Context, id uuid.UUID) error {
	return hardDelete(ctx, r.db, r.table, id)
}

func list[T any](ctx context.Context, db *sqlx.DB, table string, parts query.Parts, opts query.Options) ([]T, domain.Meta, error) {
	b := query.Build(parts, opts)

	items := []T{}
	q, args := b.SelectQuery("SELECT * FROM " + table)
	if err := db.SelectContext(ctx, &items, q, args...); err != nil {
		return nil, domain.Meta{}, translate(err, "list "+table)
	}

	var total int64
	cq, cargs := b.CountQuery("SELECT COUNT(*) FROM " + table)
	if err := db.GetContext(ctx, &total, cq, cargs...); err != nil {
		return nil, domain.Meta{}, translate(err, "count "+table)
	}

	return items, domain.Meta{Page: b.Page, Limit: b.Limit, Total: total}, nil
}

// update applies changes in a single statement. cond restricts which rows may
// be updated; a miss is reported as not found.
func update[T any](ctx context.Context, db *sqlx.DB, table string, id uuid.UUID, changes repository.Changes, cond string) (*T, error) {
	cols := make([]string, 0, len(changes))
	for c := range changes {
		cols = append(cols, c)
	}
	sort.Strings(cols)

	sets := make([]string, 0, len(cols)+1)
	args := make([]interface{}, 0, len(cols)+1)
	for _, c := range cols {
		sets = append(sets, pq.QuoteIdentifier(c)+" = ?")
		args = append(args, changes[c])
	}
	sets = append(sets, "updated_at = NOW()")
	args = append(args, id)

	q := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", table, strings.Join(sets, ", "))
	if cond != "" {
		q += " AND " + cond
	}
	q += " RETURNING *"

	var item T
	if err := db.GetContext(ctx, &item, sqlx.Rebind(sqlx.DOLLAR, q), args...); err != nil {
		return nil, translate(err, "update "+table)
	}
	return &item, nil
}

func hardDelete(ctx context.Context, db *sqlx.DB, table string, id uuid.UUID) error {
	res, err := db.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE id = $1", table), id)
	if err != nil {
		err = translate(err, "delete from "+table)
		if errors.Is(err, repository.ErrInvalidReference) {
			return repository.ErrInUse
		}
		return err
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
