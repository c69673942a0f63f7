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

type ArrivalHandler struct {
	DB     *gorm.DB
	Notify Notifier
}

func NewArrivalHandler(db *gorm.DB, n Notifier) *ArrivalHandler {
	return &ArrivalHandler{DB: db, Notify: n}
}

// validateArrival checks the required-field list for the arrived collection.
// Totals are client-computed and persisted verbatim, so they are not
// recomputed or cross-checked here.
func validateArrival(a *models.Arrival) validation.Violations {
	v := validation.Violations{}
	validation.NonNegativeFloat("quantity", a.Quantity, v)
	validation.Required("arrivedDate", a.ArrivedDate, v)
	validation.NonNegativeFloat("pricePerTon", a.PricePerTon, v)
	validation.Required("placeArrived", a.PlaceArrived, v)
	validation.Required("truckDriver", a.TruckDriver, v)
	validation.Required("invoiceId", a.InvoiceID, v)
	validation.Required("invoiceDate", a.InvoiceDate, v)
	validation.Required("senderName", a.SenderName, v)
	validation.NonNegativeFloat("feePerTon", a.FeePerTon, v)
	validation.Required("status", a.Status, v)
	validation.Required("addedBy", a.AddedBy, v)
	if a.ArrivedDate != "" {
		validation.Date("arrivedDate", a.ArrivedDate, v)
	}
	if a.InvoiceDate != "" {
		validation.Date("invoiceDate", a.InvoiceDate, v)
	}
	return v
}

// List: GET /api/arrived?month=&year=
func (h *ArrivalHandler) List(w http.ResponseWriter, r *http.Request) {
	month, year := monthYearFilter(r)
	arrivals, err := store.ListByMonth[models.Arrival](h.DB, "arrived_date", month, year)
	if err != nil {
		writeStoreError(w, err, "")
		return
	}
	httpx.JSON(w, http.StatusOK, arrivals)
}

// Create: POST /api/arrived
func (h *ArrivalHandler) Create(w http.ResponseWriter, r *http.Request) {
	var a models.Arrival
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := validateArrival(&a); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	a.ID = 0
	if err := store.Insert(h.DB, &a); err != nil {
		writeStoreError(w, err, "invoice_id_already_exists")
		return
	}
	h.Notify.Publish("arrival:added", a)
	httpx.JSON(w, http.StatusCreated, a)
}

// Update: PUT /api/arrived/{id} — full-record replace.
func (h *ArrivalHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var a models.Arrival
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := validateArrival(&a); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if err := store.Replace(h.DB, id, &a); err != nil {
		writeStoreError(w, err, "invoice_id_already_exists")
		return
	}
	h.Notify.Publish("arrival:updated", a)
	httpx.JSON(w, http.StatusOK, a)
}

// Delete: DELETE /api/arrived/{id}
func (h *ArrivalHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := store.Delete[models.Arrival](h.DB, id); err != nil {
		writeStoreError(w, err, "")
		return
	}
	h.Notify.Publish("arrival:deleted", id)
	httpx.NoContent(w)
}
