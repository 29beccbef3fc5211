package api

import (
	"database/sql"
	"log/slog"
	"net/http"

	"golang.org/x/crypto/bcrypt"

	"github.com/jkovac/inventar/internal/auth"
	"github.com/jkovac/inventar/internal/model"
	"github.com/jkovac/inventar/internal/store"
	"github.com/jkovac/inventar/internal/upload"
)

// AuthHandler handles authentication and admin profile endpoints.
type AuthHandler struct {
	DB        *sql.DB
	JWTSecret string
	Uploads   *upload.Store
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		jsonError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Email == "" || req.Password == "" {
		jsonError(w, http.StatusBadRequest, "email and password required")
		return
	}

	user, err := store.GetUserByEmail(r.Context(), h.DB, req.Email)
	if err != nil {
		slog.Error("failed to look up user", "error", err)
		jsonError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if user == nil || user.DeletedAt != nil || user.Status != model.StatusActive {
		jsonError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		slog.Warn("login failed", "email", req.Email, "remote", r.RemoteAddr)
		jsonError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	token, err := auth.GenerateToken(h.JWTSecret, user.ID, user.Email, user.Role)
	if err != nil {
		slog.Error("failed to generate token", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to generate token")
		return
	}

	slog.Info("user logged in", "email", user.Email, "role", user.Role)
	jsonResponse(w, http.StatusOK, envelope{
		"success": true,
		"token":   token,
		"user":    map[string]any{"id": user.ID, "role": user.Role},
	})
}

// Logout handles POST /auth/logout by revoking the presented token's JTI.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	if claims == nil || claims.ID == "" {
		jsonError(w, http.StatusUnauthorized, "not authenticated")
		return
	}

	if err := store.RevokeToken(r.Context(), h.DB, claims.ID, claims.ExpiresAt.Time); err != nil {
		slog.Error("failed to revoke token", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to log out")
		return
	}

	jsonMessage(w, http.StatusOK, "logged out")
}

// Check handles GET /auth/check.
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	jsonResponse(w, http.StatusOK, envelope{
		"success": true,
		"message": "User is authenticated",
		"user":    map[string]any{"id": claims.UserID, "role": claims.Role},
	})
}

// AdminCheck handles GET /auth/admin-check.
func (h *AuthHandler) AdminCheck(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	jsonResponse(w, http.StatusOK, envelope{
		"success": true,
		"message": "User is admin",
		"user":    map[string]any{"id": claims.UserID, "role": claims.Role},
	})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())
	jsonResponse(w, http.StatusOK, envelope{
		"success": true,
		"user":    map[string]any{"id": claims.UserID, "role": claims.Role},
	})
}

// GetProfile handles GET /auth/admin-profile.
func (h *AuthHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	profile, err := store.GetAdminProfile(r.Context(), h.DB, claims.UserID)
	if err != nil {
		slog.Error("failed to fetch admin profile", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to fetch admin profile")
		return
	}
	if profile == nil {
		jsonError(w, http.StatusNotFound, "admin profile not found")
		return
	}

	// Display name and initials are derived, never persisted.
	profile.Name = profile.DisplayName()
	jsonResponse(w, http.StatusOK, envelope{
		"success": true,
		"profile": struct {
			model.AdminProfile
			Initials string `json:"initials"`
		}{*profile, profile.Initials()},
	})
}

// SaveProfile handles PUT /auth/admin-profile (multipart, optional single image).
func (h *AuthHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	claims := GetClaims(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, upload.MaxFileSize+1<<20)
	if err := r.ParseMultipartForm(upload.MaxFileSize); err != nil {
		jsonError(w, http.StatusBadRequest, "file too large or invalid multipart form")
		return
	}

	in := store.ProfileInput{
		Title:       r.FormValue("title"),
		Fname:       r.FormValue("fname"),
		Lname:       r.FormValue("lname"),
		AddressLine: r.FormValue("addressline"),
		Town:        r.FormValue("town"),
		Phone:       r.FormValue("phone"),
	}

	if in.Fname == "" || in.Lname == "" {
		jsonError(w, http.StatusBadRequest, "missing required fields: fname, lname")
		return
	}

	// Image is optional. When absent, the stored path stays untouched.
	if files := r.MultipartForm.File["image"]; len(files) > 0 {
		path, err := h.Uploads.Save(files[0])
		if err != nil {
			uploadError(w, err)
			return
		}
		in.ImagePath = &path
	}

	if err := store.SaveAdminProfile(r.Context(), h.DB, claims.UserID, in); err != nil {
		slog.Error("failed to save admin profile", "error", err)
		jsonError(w, http.StatusInternalServerError, "failed to save admin profile")
		return
	}

	jsonMessage(w, http.StatusOK, "Admin profile saved successfully")
}
