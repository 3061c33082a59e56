package handlers

import (
	"net/http"

	"bharatparcel/logger"
	"bharatparcel/models"
	"bharatparcel/service"

	"github.com/julienschmidt/httprouter"
)

type StationHandler struct {
	responder
	service service.StationService
}

func NewStationHandler(svc service.StationService, log *logger.Logger) *StationHandler {
	return &StationHandler{responder: responder{log: log}, service: svc}
}

func (h *StationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var st models.Station
	if !h.decode(w, r, &st) {
		return
	}
	created, err := h.service.Create(r.Context(), &st)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusCreated, "Station created successfully", created)
}

func (h *StationHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	rows, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "", rows)
}

func (h *StationHandler) Count(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	n, err := h.service.Count(r.Context())
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "", map[string]int64{"totalStations": n})
}

func (h *StationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	st, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "", st)
}

func (h *StationHandler) GetByName(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	st, err := h.service.GetByName(r.Context(), ps.ByName("name"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "", st)
}

func (h *StationHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var upd models.StationUpdate
	if !h.decode(w, r, &upd) {
		return
	}
	st, err := h.service.Update(r.Context(), ps.ByName("id"), &upd)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "Station updated successfully", st)
}

func (h *StationHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ok(w, r, http.StatusOK, "Station deleted successfully", nil)
}
