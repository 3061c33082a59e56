package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"bharatparcel/logger"
	"bharatparcel/service"
	"bharatparcel/summary"

	"github.com/julienschmidt/httprouter"
)

type ReportHandler struct {
	responder
	service service.ReportService
}

func NewReportHandler(svc service.ReportService, log *logger.Logger) *ReportHandler {
	return &ReportHandler{responder: responder{log: log}, service: svc}
}

func (h *ReportHandler) CustomerSummary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body dateWindow
	if !h.decode(w, r, &body) {
		return
	}
	dates, err := body.Range()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rows, err := h.service.CustomerSummary(r.Context(), dates)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "", rows)
}

func (h *ReportHandler) OverallSummary(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body dateWindow
	if !h.decode(w, r, &body) {
		return
	}
	dates, err := body.Range()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	out, err := h.service.OverallSummary(r.Context(), dates)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "", out)
}

func (h *ReportHandler) CAReport(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var q summary.CAQuery
	if !h.decode(w, r, &q) {
		return
	}
	dates, err := dateWindow{FromDate: q.FromDate, ToDate: q.ToDate}.Range()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	report, err := h.service.CAReport(r.Context(), q, dates)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, report.Message(), report)
}

func (h *ReportHandler) PaymentBreakdown(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body dateWindow
	if !h.decode(w, r, &body) {
		return
	}
	dates, err := body.Range()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	report, err := h.service.PaymentBreakdown(r.Context(), caller(r), dates)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "", report)
}

// Invoice streams the rendered PDF; the archive URL, when there is one, goes in a header.
func (h *ReportHandler) Invoice(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		CustomerName string `json:"customerName"`
		dateWindow
	}
	if !h.decode(w, r, &body) {
		return
	}
	dates, err := body.Range()
	if err != nil {
		h.fail(w, r, err)
		return
	}

	inv, err := h.service.Invoice(r.Context(), body.CustomerName, dates)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", inv.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(inv.PDF)))
	if inv.URL != "" {
		w.Header().Set("X-Invoice-URL", inv.URL)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(inv.PDF); err != nil {
		h.log.Error("failed to write invoice", "request_id", RequestID(r.Context()), "customer_id", inv.Customer.ID, "error", err)
	}
}
