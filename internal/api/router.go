package api

import (
	"database/sql"
	"net/http"

	"github.com/jkovac/inventar/internal/upload"
	webembed "github.com/jkovac/inventar/web"
)

// NewRouter creates the HTTP router with all endpoints registered.
// Route paths are kept compatible with the clients that consume them.
func NewRouter(db *sql.DB, jwtSecret string, uploads *upload.Store) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret, Uploads: uploads}
	itemsHandler := &ItemsHandler{DB: db, Uploads: uploads}
	categoriesHandler := &CategoriesHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	admin := func(h http.HandlerFunc) http.Handler {
		return authMW(RequireAdmin(h))
	}

	// Auth and profile.
	mux.HandleFunc("POST /auth/login", authHandler.Login)
	mux.Handle("POST /auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))
	mux.Handle("GET /auth/check", authMW(http.HandlerFunc(authHandler.Check)))
	mux.Handle("GET /auth/admin-check", admin(authHandler.AdminCheck))
	mux.Handle("GET /auth/me", authMW(http.HandlerFunc(authHandler.Me)))
	mux.Handle("GET /auth/admin-profile", admin(authHandler.GetProfile))
	mux.Handle("PUT /auth/admin-profile", admin(authHandler.SaveProfile))

	// Admin item routes.
	mux.Handle("GET /item/admin/all", admin(itemsHandler.AdminList))
	mux.Handle("GET /item/admin/stats", admin(itemsHandler.Stats))
	mux.Handle("GET /item/admin/{id}", admin(itemsHandler.Get))
	mux.Handle("POST /item/admin", admin(itemsHandler.Create))
	mux.Handle("PUT /item/admin/{id}", admin(itemsHandler.Update))
	mux.Handle("DELETE /item/admin/{id}", admin(itemsHandler.Delete))
	mux.Handle("PATCH /item/admin/restore/{id}", admin(itemsHandler.Restore))
	// GET alias kept for clients that cannot issue PATCH.
	mux.Handle("GET /item/admin/restore/{id}", admin(itemsHandler.Restore))

	// Public item routes.
	mux.HandleFunc("GET /item", itemsHandler.List)
	mux.HandleFunc("GET /item/{id}", itemsHandler.Get)
	mux.HandleFunc("GET /item/search/{term}", itemsHandler.Search)
	mux.HandleFunc("GET /item/autocomplete", itemsHandler.Autocomplete)
	mux.HandleFunc("GET /item/category/{categoryId}", itemsHandler.ByCategory)

	// Categories.
	mux.HandleFunc("GET /category", categoriesHandler.List)
	mux.Handle("POST /category", admin(categoriesHandler.Create))

	// Uploaded files and the embedded admin UI.
	mux.Handle("GET /uploads/", http.StripPrefix("/uploads/", http.FileServer(http.Dir(uploads.Dir))))
	mux.Handle("GET /admin/", http.StripPrefix("/admin/", http.FileServer(http.FS(webembed.StaticFS()))))

	return mux
}
