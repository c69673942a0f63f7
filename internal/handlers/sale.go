package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/corarez/salt-factory-app-sub000/internal/httpx"
	"github.com/corarez/salt-factory-app-sub000/internal/models"
	"github.com/corarez/salt-factory-app-sub000/internal/services"
	"github.com/corarez/salt-factory-app-sub000/internal/store"
	"github.com/corarez/salt-factory-app-sub000/internal/validation"
)

// saleChangedEvent is deliberately coarser than the per-entity topics: any
// Sale mutation invalidates the cached next-invoice-id on every client, so
// subscribers re-fetch the whole collection plus the sequencer value.
const saleChangedEvent = "sale:changed"

type SaleHandler struct {
	DB     *gorm.DB
	Notify Notifier
}

func NewSaleHandler(db *gorm.DB, n Notifier) *SaleHandler {
	return &SaleHandler{DB: db, Notify: n}
}

func validateSale(s *models.Sale) validation.Violations {
	v := validation.Violations{}
	validation.Required("buyerName", s.BuyerName, v)
	validation.Required("invoiceId", s.InvoiceID, v)
	validation.Required("date", s.Date, v)
	if s.Date != "" {
		validation.Date("date", s.Date, v)
	}
	if len(s.Items) == 0 {
		v["items"] = "required"
	}
	for _, it := range s.Items {
		if it.SaltType == "" {
			v["items"] = "missing_salt_type"
			break
		}
	}
	validation.Required("truckDriverName", s.TruckDriverName, v)
	validation.Required("truckNumber", s.TruckNumber, v)
	validation.Required("truckDriverPhone", s.TruckDriverPhone, v)
	validation.NonNegativeFloat("oldDebt", s.OldDebt, v)
	return v
}

// List: GET /api/sold — always the full collection, items deserialized.
func (h *SaleHandler) List(w http.ResponseWriter, r *http.Request) {
	sales, err := store.List[models.Sale](h.DB)
	if err != nil {
		writeStoreError(w, err, "")
		return
	}
	httpx.JSON(w, http.StatusOK, sales)
}

// Create: POST /api/sold
func (h *SaleHandler) Create(w http.ResponseWriter, r *http.Request) {
	var s models.Sale
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := validateSale(&s); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	s.ID = 0
	if err := store.Insert(h.DB, &s); err != nil {
		writeStoreError(w, err, "invoice_id_already_exists")
		return
	}
	h.Notify.Publish(saleChangedEvent, nil)
	httpx.JSON(w, http.StatusCreated, s)
}

// Update: PUT /api/sold/{id}
func (h *SaleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	var s models.Sale
	if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", nil)
		return
	}
	if v := validateSale(&s); !v.Empty() {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", v)
		return
	}
	if err := store.Replace(h.DB, id, &s); err != nil {
		writeStoreError(w, err, "invoice_id_already_exists")
		return
	}
	h.Notify.Publish(saleChangedEvent, nil)
	httpx.JSON(w, http.StatusOK, s)
}

// Delete: DELETE /api/sold/{id}
func (h *SaleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_id", nil)
		return
	}
	if err := store.Delete[models.Sale](h.DB, id); err != nil {
		writeStoreError(w, err, "")
		return
	}
	h.Notify.Publish(saleChangedEvent, nil)
	httpx.NoContent(w)
}

// NextInvoiceID: GET /api/sold/next-invoice-id — advisory pre-fill value for
// a new sale form.
func (h *SaleHandler) NextInvoiceID(w http.ResponseWriter, r *http.Request) {
	next, err := services.NextInvoiceID(h.DB, time.Now())
	if err != nil {
		writeStoreError(w, err, "")
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]string{"invoiceId": next})
}

// InvoiceIDs: GET /api/sold/invoice-ids — projection of just the invoiceId
// column across all sales.
func (h *SaleHandler) InvoiceIDs(w http.ResponseWriter, r *http.Request) {
	ids := []string{}
	if err := h.DB.Model(&models.Sale{}).Order("id asc").Pluck("invoice_id", &ids).Error; err != nil {
		writeStoreError(w, err, "")
		return
	}
	httpx.JSON(w, http.StatusOK, ids)
}
