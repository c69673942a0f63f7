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

type TransactionHandler struct {
	DB     *gorm.DB
	Notify Notifier
}

func NewTransactionHandler(db *gorm.DB, n Notifier) *TransactionHandler {
	return &TransactionHandler{DB: db, Notify: n}
}

func validateTransaction(t *models.Transaction) validation.Violations {
	v := validation.Violations{}
	validation.Required("type", t.Type, v)
	if t.Type != "" {
		validation.OneOf("type", t.Type, []string{models.TransactionSpend, models.TransactionEarning}, v)
	}
	validation.Required("title", t.Title, v)
	validation.PositiveFloat("price", t.Price, v)
	validation.Required("date", t.Date, v)
	if t.Date != "" {
		validation.Date("date", t.Date, v)
	}
	return v
}

// List: GET /api/transactions?month=&year=
func (h *TransactionHandler) List(w http.ResponseWriter, r *http.Request) {
	month, year := monthYearFilter(r)
	transactions, err := store.ListByMonth[models.Transaction](h.DB, "date", month, year)
	if err != nil {
		writeStoreError(w, err, "")
		return
	}
	httpx.JSON(w, http.StatusOK, transactions)
}

// Create: POST /api/transactions
func (h *TransactionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var t models.Transaction
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := validateTransaction(&t); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	t.ID = 0
	if err := store.Insert(h.DB, &t); err != nil {
		writeStoreError(w, err, "")
		return
	}
	h.Notify.Publish("transaction:added", t)
	httpx.JSON(w, http.StatusCreated, t)
}

// Update: PUT /api/transactions/{id}
func (h *TransactionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var t models.Transaction
	if err := json.NewDecoder(r.Body).Decode(&t); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := validateTransaction(&t); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if err := store.Replace(h.DB, id, &t); err != nil {
		writeStoreError(w, err, "")
		return
	}
	h.Notify.Publish("transaction:updated", t)
	httpx.JSON(w, http.StatusOK, t)
}

// Delete: DELETE /api/transactions/{id}
func (h *TransactionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := store.Delete[models.Transaction](h.DB, id); err != nil {
		writeStoreError(w, err, "")
		return
	}
	h.Notify.Publish("transaction:deleted", id)
	httpx.NoContent(w)
}
