package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/corarez/salt-factory-app-sub000/internal/httpx"
	"github.com/corarez/salt-factory-app-sub000/internal/models"
	"github.com/corarez/salt-factory-app-sub000/internal/store"
	"github.com/corarez/salt-factory-app-sub000/internal/validation"
)

type AdminHandler struct {
	DB     *gorm.DB
	Notify Notifier
}

func NewAdminHandler(db *gorm.DB, n Notifier) *AdminHandler {
	return &AdminHandler{DB: db, Notify: n}
}

type createAdminRequest struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type updateAdminRequest struct {
	FullName string `json:"fullName"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

type changePasswordRequest struct {
	Username        string `json:"username"`
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// List: GET /api/admins — the password hash is excluded by the model's
// json tag.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	admins, err := store.List[models.Admin](h.DB)
	if err != nil {
		writeStoreError(w, err, "")
		return
	}
	httpx.JSON(w, http.StatusOK, admins)
}

// Create: POST /api/admins — the password is hashed before it reaches the
// store and never returned.
func (h *AdminHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("fullName", req.FullName, v)
	validation.Required("username", req.Username, v)
	validation.Required("password", req.Password, v)
	validation.Required("role", req.Role, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "hash_failed", nil)
		return
	}
	admin := models.Admin{
		FullName: req.FullName,
		Username: strings.TrimSpace(req.Username),
		Password: string(hash),
		Role:     req.Role,
	}
	if err := store.Insert(h.DB, &admin); err != nil {
		writeStoreError(w, err, "username_already_exists")
		return
	}
	h.Notify.Publish("admin:added", admin)
	httpx.JSON(w, http.StatusCreated, admin)
}

// Update: PUT /api/admins/{id} — replaces profile fields; the password is
// only changed through ChangePassword.
func (h *AdminHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var req updateAdminRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("fullName", req.FullName, v)
	validation.Required("username", req.Username, v)
	validation.Required("role", req.Role, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	admin := models.Admin{
		FullName: req.FullName,
		Username: strings.TrimSpace(req.Username),
		Role:     req.Role,
	}
	if err := store.Replace(h.DB, id, &admin, "password"); err != nil {
		writeStoreError(w, err, "username_already_exists")
		return
	}
	h.Notify.Publish("admin:updated", admin)
	httpx.JSON(w, http.StatusOK, admin)
}

// Delete: DELETE /api/admins/{id}
func (h *AdminHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := store.Delete[models.Admin](h.DB, id); err != nil {
		writeStoreError(w, err, "")
		return
	}
	h.Notify.Publish("admin:deleted", id)
	httpx.NoContent(w)
}

// ChangePassword: PUT /api/admins/password — requires the current password;
// bcrypt's compare keeps the verification constant-effort.
func (h *AdminHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	v := validation.Violations{}
	validation.Required("username", req.Username, v)
	validation.Required("currentPassword", req.CurrentPassword, v)
	validation.Required("newPassword", req.NewPassword, v)
	if !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	var admin models.Admin
	if err := h.DB.Where("username = ?", req.Username).First(&admin).Error; err != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.CurrentPassword)) != nil {
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "hash_failed", nil)
		return
	}
	if err := h.DB.Model(&admin).Update("password", string(hash)).Error; err != nil {
		writeStoreError(w, err, "")
		return
	}
	h.Notify.Publish("admin:updated", admin)
	httpx.JSON(w, http.StatusOK, map[string]string{"status": "password_changed"})
}
