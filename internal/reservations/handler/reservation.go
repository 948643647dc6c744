// Package handler wires the reservation HTTP surface onto httprouter. The
// handlers stay thin: decode, resolve the actor, delegate to the service,
// translate the result.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"tabletop/internal/reservations/access"
	"tabletop/internal/reservations/service"
	"tabletop/pkg/config"
	apperrors "tabletop/pkg/errors"
	httputil "tabletop/pkg/http"
	"tabletop/pkg/model"
	"tabletop/pkg/sanitizer"
)

type ReservationHandler struct {
	service service.ReservationService
	cfg     *config.Config
}

func NewReservationHandler(svc service.ReservationService, cfg *config.Config) *ReservationHandler {
	return &ReservationHandler{service: svc, cfg: cfg}
}

func (h *ReservationHandler) RegisterRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodPost, "/api/v1/reservations", h.Create)
	router.HandlerFunc(http.MethodGet, "/api/v1/reservations", h.List)
	router.Handle(http.MethodGet, "/api/v1/reservations/id/:id", h.GetByID)
	router.Handle(http.MethodPost, "/api/v1/reservations/id/:id/cancel", h.Cancel)
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, err := access.FromRequest(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	var req model.ReservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.InvalidInput("Invalid JSON in request body"))
		return
	}

	detail, err := h.service.Create(r.Context(), actor, &req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteCreated(w, detail); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := access.FromRequest(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, apperrors.InvalidInput(err.Error()))
		return
	}
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	filter, err := buildReservationFilter(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	reservations, count, err := h.service.List(r.Context(), actor, filter, limit, offset)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WritePaginated(w, reservations, count, limit, offset); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *ReservationHandler) GetByID(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	actor, err := access.FromRequest(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	reservation, err := h.service.GetByID(r.Context(), actor, params.ByName("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, reservation); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *ReservationHandler) Cancel(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	actor, err := access.FromRequest(r)
	if err != nil {
		h.writeError(w, err)
		return
	}

	result, err := h.service.Cancel(r.Context(), actor, params.ByName("id"))
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, result); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *ReservationHandler) writeError(w http.ResponseWriter, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.cfg.Log.Error("Failed to write error response", "error", writeErr)
	}
}

func buildReservationFilter(r *http.Request) (*model.ReservationFilter, error) {
	query := r.URL.Query()

	filter := &model.ReservationFilter{
		MemberID:   query.Get("owner_id"),
		ResourceID: query.Get("resource_id"),
		Status:     sanitizer.NormalizeCode(query.Get("status")),
	}

	from, err := httputil.ExtractTime(r, "from")
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	filter.From = from

	to, err := httputil.ExtractTime(r, "to")
	if err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	filter.To = to

	return filter, nil
}
