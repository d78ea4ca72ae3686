package handler

import (
	"github.com/andressep95/deen-service/internal/access"
	"github.com/andressep95/deen-service/internal/domain"
	"github.com/andressep95/deen-service/internal/handler/middleware"
	"github.com/andressep95/deen-service/internal/service"
	"github.com/gofiber/fiber/v2"
)

type Handlers struct {
	Auth       *AuthHandler
	User       *UserHandler
	Permission *PermissionHandler
	Bookmark   *BookmarkHandler
	Health     *HealthHandler

	Category   *ContentHandler[domain.Category, service.CreateCategoryRequest, service.UpdateCategoryRequest]
	Book       *ContentHandler[domain.Book, service.CreateBookRequest, service.UpdateBookRequest]
	Dictionary *ContentHandler[domain.DictionaryWord, service.CreateWordRequest, service.UpdateWordRequest]
	Dua        *ContentHandler[domain.Dua, service.CreateDuaRequest, service.UpdateDuaRequest]
	Tafsir     *ContentHandler[domain.Tafsir, service.CreateTafsirRequest, service.UpdateTafsirRequest]
	Blog       *ContentHandler[domain.Blog, service.CreateBlogRequest, service.UpdateBlogRequest]

	Surah       *ContentHandler[domain.Surah, service.CreateSurahRequest, service.UpdateSurahRequest]
	Para        *ContentHandler[domain.Para, service.CreateParaRequest, service.UpdateParaRequest]
	Ayah        *ContentHandler[domain.Ayah, service.CreateAyahRequest, service.UpdateAyahRequest]
	BookContent *ContentHandler[domain.BookContent, service.CreateBookContentRequest, service.UpdateBookContentRequest]
}

var (
	staff    = []domain.Role{domain.RoleAdmin, domain.RoleModerator}
	everyone = []domain.Role{domain.RoleAdmin, domain.RoleModerator, domain.RoleUser}
)

func SetupRoutes(app *fiber.App, h Handlers, gate middleware.Authorizer, loginLimiter, metrics fiber.Handler) {
	guard := func(req access.Requirement) fiber.Handler {
		return middleware.Require(gate, req)
	}

	// Operations (public)
	app.Get("/health", h.Health.Health)
	app.Get("/ready", h.Health.Ready)
	app.Get("/metrics", metrics)

	api := app.Group("/api/v1")

	// Auth
	api.Post("/register", h.Auth.Register)
	api.Post("/login", loginLimiter, h.Auth.Login)
	api.Post("/refresh-token", h.Auth.RefreshToken)
	api.Post("/logout", h.Auth.Logout)
	api.Post("/change-password", guard(middleware.Roles()), h.Auth.ChangePassword)

	// Users
	users := api.Group("/user")
	users.Get("/me", guard(middleware.Roles()), h.User.GetMe)
	users.Put("/me", guard(middleware.Roles()), h.User.UpdateMe)
	users.Get("/users", guard(middleware.Roles(domain.RoleAdmin)), h.User.ListUsers)
	users.Put("/status/:userId", guard(middleware.Grant(domain.ResourceUser, domain.ActionUpdate, domain.RoleAdmin)), h.User.UpdateStatus)

	// Permissions (admin only)
	perms := api.Group("/permission")
	perms.Post("/", guard(middleware.Grant(domain.ResourcePermission, domain.ActionCreate, domain.RoleAdmin)), h.Permission.Create)
	perms.Get("/", guard(middleware.Grant(domain.ResourcePermission, domain.ActionRead, domain.RoleAdmin)), h.Permission.List)
	perms.Post("/assign", guard(middleware.Grant(domain.ResourcePermission, domain.ActionCreate, domain.RoleAdmin)), h.Permission.Assign)
	perms.Get("/user/:userId", guard(middleware.Grant(domain.ResourcePermission, domain.ActionRead, domain.RoleAdmin)), h.Permission.UserGrants)
	perms.Delete("/remove", guard(middleware.Grant(domain.ResourcePermission, domain.ActionDelete, domain.RoleAdmin)), h.Permission.Revoke)
	perms.Delete("/:permissionId", guard(middleware.Grant(domain.ResourcePermission, domain.ActionDelete, domain.RoleAdmin)), h.Permission.Delete)

	// Content
	contentRoutes(api.Group("/category"), h.Category, domain.ResourceBookCategory, guard)
	bookContent := api.Group("/book/content")
	bookContent.Get("/book/:bookId", h.BookContent.ListBy("bookId", "bookId"))
	contentRoutes(bookContent, h.BookContent, domain.ResourceBook, guard)
	contentRoutes(api.Group("/book"), h.Book, domain.ResourceBook, guard)
	contentRoutes(api.Group("/dictionary"), h.Dictionary, domain.ResourceDictionary, guard)
	contentRoutes(api.Group("/dua"), h.Dua, domain.ResourceDua, guard)
	contentRoutes(api.Group("/tafsir"), h.Tafsir, domain.ResourceTafsir, guard)
	contentRoutes(api.Group("/blog"), h.Blog, domain.ResourceBlog, guard)

	// Quran text has no resource of its own; writes are gated by role.
	contentRoutes(api.Group("/surah"), h.Surah, "", guard)
	contentRoutes(api.Group("/para"), h.Para, "", guard)
	ayahs := api.Group("/ayah")
	ayahs.Get("/surah/:surahId", h.Ayah.ListBy("surahId", "surahId"))
	ayahs.Get("/para/:paraId", h.Ayah.ListBy("paraId", "paraId"))
	contentRoutes(ayahs, h.Ayah, "", guard)

	// Bookmarks
	bookmarks := api.Group("/bookmark")
	bookmarks.Post("/", guard(middleware.Grant(domain.ResourceBookmark, domain.ActionCreate, everyone...)), h.Bookmark.Create)
	bookmarks.Get("/me", guard(middleware.Grant(domain.ResourceBookmark, domain.ActionRead, everyone...)), h.Bookmark.ListMine)
	bookmarks.Get("/", guard(middleware.Grant(domain.ResourceBookmark, domain.ActionRead, domain.RoleAdmin)), h.Bookmark.ListAll)
	bookmarks.Delete("/admin/:bookmarkId", guard(middleware.Grant(domain.ResourceBookmark, domain.ActionDelete, domain.RoleAdmin)), h.Bookmark.Delete)
	bookmarks.Get("/:bookmarkId", guard(middleware.Grant(domain.ResourceBookmark, domain.ActionRead, everyone...)), h.Bookmark.GetMine)
	bookmarks.Delete("/:bookmarkId", guard(middleware.Grant(domain.ResourceBookmark, domain.ActionDelete, everyone...)), h.Bookmark.DeleteMine)
}

// contentRoutes mounts the seven routes every content module shares.
// Static paths are registered before /:id. An empty resource leaves only the
// role checks.
func contentRoutes[T, C, U any](r fiber.Router, h *ContentHandler[T, C, U], resource domain.Resource, guard func(access.Requirement) fiber.Handler) {
	r.Get("/all", h.List)
	r.Get("/admin/all", guard(middleware.Roles(staff...)), h.ListAll)
	r.Delete("/admin/:id", guard(middleware.Grant(resource, domain.ActionDelete, domain.RoleAdmin)), h.Delete)

	r.Post("/", guard(middleware.Grant(resource, domain.ActionCreate, staff...)), h.Create)
	r.Get("/:id", h.Get)
	r.Put("/:id", guard(middleware.Grant(resource, domain.ActionUpdate, staff...)), h.Update)
	r.Delete("/:id", guard(middleware.Grant(resource, domain.ActionDelete, staff...)), h.SoftDelete)
}
