package handlers

import (
	"net/http"

	"bharatparcel/apperrors"
	"bharatparcel/filters"
	"bharatparcel/logger"
	"bharatparcel/models"
	"bharatparcel/service"

	"github.com/julienschmidt/httprouter"
)

type QuotationHandler struct {
	responder
	service service.QuotationService
}

func NewQuotationHandler(svc service.QuotationService, log *logger.Logger) *QuotationHandler {
	return &QuotationHandler{responder: responder{log: log}, service: svc}
}

func (h *QuotationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in models.QuotationInput
	if !h.decode(w, r, &in) {
		return
	}
	q, err := h.service.Create(r.Context(), caller(r), &in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusCreated, "Quotation created successfully", q)
}

func (h *QuotationHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	rows, err := h.service.List(r.Context(), caller(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "", rows)
}

func (h *QuotationHandler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	q, err := h.service.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "", q)
}

func (h *QuotationHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var upd models.QuotationUpdate
	if !h.decode(w, r, &upd) {
		return
	}
	q, err := h.service.Update(r.Context(), ps.ByName("id"), &upd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "Quotation updated successfully", q)
}

func (h *QuotationHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "Quotation deleted successfully", nil)
}

func (h *QuotationHandler) StatusList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	status := filters.ParseStatusType(r.URL.Query().Get("type"))
	rows, err := h.service.StatusList(r.Context(), status, caller(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "", rows)
}

func (h *QuotationHandler) Count(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	status := filters.ParseStatusType(ps.ByName("type"))
	n, err := h.service.Count(r.Context(), status, caller(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "", map[string]any{"status": status, "count": n})
}

func (h *QuotationHandler) RevenueList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	status := filters.ParseStatusType(r.URL.Query().Get("type"))
	list, err := h.service.RevenueList(r.Context(), status, caller(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "", list)
}

func (h *QuotationHandler) TotalRevenue(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	total, err := h.service.TotalRevenue(r.Context(), caller(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "", map[string]string{"totalRevenue": total})
}

func (h *QuotationHandler) ListByDate(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body dateWindow
	if !h.decode(w, r, &body) {
		return
	}
	dates, err := body.Range()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rows, err := h.service.ListByDate(r.Context(), caller(r), dates)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "", rows)
}

// SetStatus toggles a quotation between active and cancelled.
func (h *QuotationHandler) SetStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var body struct {
		ActiveDelivery *bool `json:"activeDelivery"`
	}
	if !h.decode(w, r, &body) {
		return
	}
	if body.ActiveDelivery == nil {
		h.fail(w, r, apperrors.InvalidInput("activeDelivery is required"))
		return
	}
	q, err := h.service.SetActive(r.Context(), ps.ByName("id"), *body.ActiveDelivery)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "Quotation status updated successfully", q)
}

func (h *QuotationHandler) SendEmail(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.SendEmail(r.Context(), ps.ByName("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "Quotation email sent successfully", nil)
}

func (h *QuotationHandler) SendWhatsApp(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.SendWhatsApp(r.Context(), ps.ByName("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "Quotation confirmation sent successfully", nil)
}
