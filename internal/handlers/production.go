package handlers

import (
	"encoding/json"
	"net/http"

	"gorm.io/gorm"

	"github.com/corarez/salt-factory-app-sub000/internal/httpx"
	"github.com/corarez/salt-factory-app-sub000/internal/models"
	"github.com/corarez/salt-factory-app-sub000/internal/store"
	"github.com/corarez/salt-factory-app-sub000/internal/validation"
)

type ProductionHandler struct {
	DB     *gorm.DB
	Notify Notifier
}

func NewProductionHandler(db *gorm.DB, n Notifier) *ProductionHandler {
	return &ProductionHandler{DB: db, Notify: n}
}

func validateProduction(p *models.Production) validation.Violations {
	v := validation.Violations{}
	validation.Required("saltType", p.SaltType, v)
	validation.NonNegativeFloat("quantity", p.Quantity, v)
	validation.Required("date", p.Date, v)
	if p.Date != "" {
		validation.Date("date", p.Date, v)
	}
	return v
}

// List: GET /api/produced?month=&year=
func (h *ProductionHandler) List(w http.ResponseWriter, r *http.Request) {
	month, year := monthYearFilter(r)
	productions, err := store.ListByMonth[models.Production](h.DB, "date", month, year)
	if err != nil {
		writeStoreError(w, err, "")
		return
	}
	httpx.JSON(w, http.StatusOK, productions)
}

// Create: POST /api/produced
func (h *ProductionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var p models.Production
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := validateProduction(&p); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	p.ID = 0
	if err := store.Insert(h.DB, &p); err != nil {
		writeStoreError(w, err, "")
		return
	}
	h.Notify.Publish("production:added", p)
	httpx.JSON(w, http.StatusCreated, p)
}

// Update: PUT /api/produced/{id}
func (h *ProductionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var p models.Production
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := validateProduction(&p); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if err := store.Replace(h.DB, id, &p); err != nil {
		writeStoreError(w, err, "")
		return
	}
	h.Notify.Publish("production:updated", p)
	httpx.JSON(w, http.StatusOK, p)
}

// Delete: DELETE /api/produced/{id}
func (h *ProductionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := store.Delete[models.Production](h.DB, id); err != nil {
		writeStoreError(w, err, "")
		return
	}
	h.Notify.Publish("production:deleted", id)
	httpx.NoContent(w)
}
