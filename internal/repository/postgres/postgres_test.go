package postgres

import (
	"context"
	"database/sql"
	"net/url"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/andressep95/deen-service/internal/domain"
	"github.com/andressep95/deen-service/internal/repository"
	"github.com/andressep95/deen-service/pkg/query"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})
	return sqlx.NewDb(db, "postgres"), mock
}

func userRows(u domain.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "username", "email", "password_hash", "role", "status", "created_at", "updated_at"}).
		AddRow(u.ID.String(), u.Username, u.Email, u.PasswordHash, string(u.Role), string(u.Status), u.CreatedAt, u.UpdatedAt)
}

func TestUserRepository_FindByIDAndEmail(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	u := domain.User{ID: uuid.New(), Username: "amina", Email: "a@example.com", Role: domain.RoleModerator, Status: domain.UserStatusActive, CreatedAt: time.Now(), UpdatedAt: time.Now()}

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1 AND email = $2`)).
		WithArgs(u.ID.String(), u.Email).
		WillReturnRows(userRows(u))

	got, err := repo.FindByIDAndEmail(context.Background(), u.ID, u.Email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, domain.RoleModerator, got.Role)
}

func TestUserRepository_NotFound(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE id = $1 AND email = $2`)).
		WithArgs(id.String(), "x@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByIDAndEmail(context.Background(), id, "x@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestUserRepository_CreateConflict(t *testing.T) {
	db, mock := newMock(t)
	repo := NewUserRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO users`)).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

	err := repo.Create(context.Background(), &domain.User{ID: uuid.New()})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestContentRepository_ListAppliesPartition(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDuaRepository(db)

	raw := url.Values{"searchTerm": {"rain"}, "page": {"2"}, "limit": {"5"}, "tags": {"travel"}}
	parts := query.Partition(raw, []string{"searchTerm", "isDeleted"}, query.PaginationKeys)
	opts := query.Options{SearchFields: []string{"name", "english"}, SoftDelete: true, DefaultSort: "created_at", DefaultOrder: "desc"}

	where := `WHERE (strpos(lower("name"::text), lower($1)) > 0 OR strpos(lower("english"::text), lower($2)) > 0) AND "is_deleted" = $3 AND strpos(lower("tags"::text), lower($4)) > 0`
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM duas `+where+` ORDER BY "created_at" DESC LIMIT $5 OFFSET $6`)).
		WithArgs("rain", "rain", false, "travel", 5, 5).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "arabic", "transliteration", "bangla", "english", "reference", "tags", "is_deleted", "created_at", "updated_at"}).
			AddRow(uuid.NewString(), "Dua for rain", "ar", nil, "bn", "rain", nil, "travel", false, time.Now(), time.Now()))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT COUNT(*) FROM duas `+where)).
		WithArgs("rain", "rain", false, "travel").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(6))

	items, meta, err := repo.List(context.Background(), parts, opts)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Dua for rain", items[0].Name)
	assert.Nil(t, items[0].Transliteration)
	assert.Equal(t, domain.Meta{Page: 2, Limit: 5, Total: 6}, meta)
}

func TestContentRepository_UnknownColumnIsInternal(t *testing.T) {
	db, mock := newMock(t)
	repo := NewDuaRepository(db)

	parts := query.Partition(url.Values{"colour": {"red"}}, nil, query.PaginationKeys)
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM duas`)).
		WillReturnError(&pq.Error{Code: "42703", Message: `column "colour" does not exist`})

	_, _, err := repo.List(context.Background(), parts, query.Options{SoftDelete: true})
	require.Error(t, err)
	assert.NotErrorIs(t, err, repository.ErrNotFound)
	assert.NotErrorIs(t, err, repository.ErrConflict)
}

func TestContentRepository_UpdateBuildsSetClause(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCategoryRepository(db)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE categories SET "name" = $1, updated_at = NOW() WHERE id = $2 AND is_deleted = false RETURNING *`)).
		WithArgs("Fiqh", id.String()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "is_deleted", "created_at", "updated_at"}).
			AddRow(id.String(), "Fiqh", false, time.Now(), time.Now()))

	got, err := repo.Update(context.Background(), id, repository.Changes{"name": "Fiqh"})
	require.NoError(t, err)
	assert.Equal(t, "Fiqh", got.Name)
}

func TestContentRepository_SoftDeleteMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewBlogRepository(db)
	id := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`UPDATE blogs SET is_deleted = true`)).
		WithArgs(id.String()).
		WillReturnError(sql.ErrNoRows)

	_, err := repo.SoftDelete(context.Background(), id)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestContentRepository_DeleteReferencedRow(t *testing.T) {
	db, mock := newMock(t)
	repo := NewCategoryRepository(db)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM categories WHERE id = $1`)).
		WithArgs(id.String()).
		WillReturnError(&pq.Error{Code: "23503"})

	err := repo.Delete(context.Background(), id)
	assert.ErrorIs(t, err, repository.ErrInUse)
}

func TestAyahRepository_CreateMissingSurah(t *testing.T) {
	db, mock := newMock(t)
	repo := NewAyahRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO ayahs (id, surah_id, para_id, ayah_number, arabic_text, pronunciation, bangla_text, english_text, is_deleted, created_at, updated_at)`)).
		WillReturnError(&pq.Error{Code: "23503", Constraint: "ayahs_surah_id_fkey"})

	err := repo.Create(context.Background(), &domain.Ayah{ID: uuid.New(), SurahID: uuid.New(), AyahNumber: 1, ArabicText: "x"})
	assert.ErrorIs(t, err, repository.ErrInvalidReference)
}

func TestContentRepository_DeleteMissing(t *testing.T) {
	db, mock := newMock(t)
	repo := NewTafsirRepository(db)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM tafsirs WHERE id = $1`)).
		WithArgs(id.String()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.ErrorIs(t, repo.Delete(context.Background(), id), repository.ErrNotFound)
}

func TestPermissionRepository_DeleteRemovesGrantsFirst(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPermissionRepository(db)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM user_permissions WHERE permission_id = $1`)).
		WithArgs(id.String()).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM permissions WHERE id = $1`)).
		WithArgs(id.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.Delete(context.Background(), id))
}

func TestPermissionRepository_DeleteMissingRollsBack(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPermissionRepository(db)
	id := uuid.New()

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM user_permissions`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM permissions`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	assert.ErrorIs(t, repo.Delete(context.Background(), id), repository.ErrNotFound)
}

func TestPermissionRepository_AssignDuplicate(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPermissionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO user_permissions`)).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "user_permissions_pkey"})

	err := repo.Assign(context.Background(), &domain.UserPermission{UserID: uuid.New(), PermissionID: uuid.New()})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

func TestPermissionRepository_GetUserGrants(t *testing.T) {
	db, mock := newMock(t)
	repo := NewPermissionRepository(db)
	userID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`FROM user_permissions up`)).
		WithArgs(userID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"permission_id", "resource", "action", "assigned_by", "assigned_at"}).
			AddRow(uuid.NewString(), "DUA", "CREATE", nil, time.Now()))

	grants, err := repo.GetUserGrants(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, grants, 1)
	assert.Equal(t, domain.ResourceDua, grants[0].Resource)
	assert.Equal(t, domain.ActionCreate, grants[0].Action)
	assert.Nil(t, grants[0].AssignedBy)
}

func TestMigrate_AppliesPending(t *testing.T) {
	db, mock := newMock(t)
	log, _ := test.NewNullLogger()

	migrations, err := loadMigrations()
	require.NoError(t, err)
	require.Len(t, migrations, 4)

	mock.ExpectExec(regexp.QuoteMeta(`CREATE TABLE IF NOT EXISTS schema_migrations`)).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT version FROM schema_migrations`)).
		WillReturnRows(sqlmock.NewRows([]string{"version"}).AddRow(1))
	for _, m := range migrations[1:] {
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(m.SQL)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO schema_migrations`)).
			WithArgs(m.Version, m.Name).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()
	}

	require.NoError(t, Migrate(context.Background(), db, log))
}
