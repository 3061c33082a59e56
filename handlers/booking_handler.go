package handlers

import (
	"net/http"

	"bharatparcel/filters"
	"bharatparcel/logger"
	"bharatparcel/models"
	"bharatparcel/service"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	responder
	service service.BookingService
}

func NewBookingHandler(svc service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{responder: responder{log: log}, service: svc}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in models.BookingInput
	if !h.decode(w, r, &in) {
		return
	}
	b, err := h.service.Create(r.Context(), caller(r), &in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusCreated, "Booking created successfully", b)
}

// CreatePublic takes a booking request from an unauthenticated third party.
func (h *BookingHandler) CreatePublic(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in models.BookingInput
	if !h.decode(w, r, &in) {
		return
	}
	b, err := h.service.CreatePublic(r.Context(), &in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusCreated, "Booking request submitted successfully", b)
}

func (h *BookingHandler) View(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	v, err := h.service.View(r.Context(), ps.ByName("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "", v)
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var upd models.BookingUpdate
	if !h.decode(w, r, &upd) {
		return
	}
	b, err := h.service.Update(r.Context(), ps.ByName("id"), &upd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "Booking updated successfully", b)
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	b, err := h.service.Delete(r.Context(), ps.ByName("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "Booking permanently deleted", b)
}

// StatusList lists bookings of the class named by ?type=; unknown types list requests.
func (h *BookingHandler) StatusList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	status := filters.ParseStatusType(r.URL.Query().Get("type"))
	rows, err := h.service.StatusList(r.Context(), status, caller(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "", rows)
}

func (h *BookingHandler) RevenueList(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	status := filters.ParseStatusType(r.URL.Query().Get("type"))
	list, err := h.service.RevenueList(r.Context(), status, caller(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "", list)
}

func (h *BookingHandler) Count(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	status := filters.ParseStatusType(ps.ByName("type"))
	n, err := h.service.Count(r.Context(), status, caller(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "", map[string]any{"status": status, "count": n})
}

func (h *BookingHandler) TotalRevenue(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	total, err := h.service.TotalRevenue(r.Context(), caller(r))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "", map[string]string{"totalRevenue": total})
}

func (h *BookingHandler) Pending(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	bookings, err := h.service.PendingPublic(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "", bookings)
}

func (h *BookingHandler) Approve(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	b, err := h.service.Approve(r.Context(), caller(r), ps.ByName("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "Booking approved successfully", b)
}

func (h *BookingHandler) Reject(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	b, err := h.service.Reject(r.Context(), caller(r), ps.ByName("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "Booking rejected successfully", b)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	b, err := h.service.Cancel(r.Context(), ps.ByName("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "Booking cancelled successfully", b)
}

func (h *BookingHandler) Activate(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	b, err := h.service.Activate(r.Context(), ps.ByName("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "Booking marked as active delivery", b)
}

func (h *BookingHandler) Deliver(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	b, err := h.service.MarkDelivered(r.Context(), ps.ByName("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "Booking marked as delivered", b)
}

func (h *BookingHandler) SendEmail(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.ResendConfirmation(r.Context(), ps.ByName("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "Booking confirmation email sent successfully", nil)
}

// SendWhatsApp sends free text to any number.
func (h *BookingHandler) SendWhatsApp(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var body struct {
		Phone   string `json:"phone"`
		Message string `json:"message"`
	}
	if !h.decode(w, r, &body) {
		return
	}
	if err := h.service.SendWhatsApp(r.Context(), body.Phone, body.Message); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "Message sent successfully", nil)
}

func (h *BookingHandler) SendBookingWhatsApp(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.SendBookingWhatsApp(r.Context(), ps.ByName("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "Booking confirmation sent successfully", nil)
}
