package handlers

import (
	"net/http"

	"bharatparcel/logger"
	"bharatparcel/models"
	"bharatparcel/service"

	"github.com/julienschmidt/httprouter"
)

type CustomerHandler struct {
	responder
	service service.CustomerService
}

func NewCustomerHandler(svc service.CustomerService, log *logger.Logger) *CustomerHandler {
	return &CustomerHandler{responder: responder{log: log}, service: svc}
}

func (h *CustomerHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var c models.Customer
	if !h.decode(w, r, &c) {
		return
	}
	created, err := h.service.Create(r.Context(), &c)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusCreated, "Customer created successfully", created)
}

func (h *CustomerHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	customers, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "", customers)
}

func (h *CustomerHandler) GetByEmail(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	c, err := h.service.GetByEmail(r.Context(), ps.ByName("email"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "", c)
}
