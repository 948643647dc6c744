package handler

import (
	"net/http"

	"github.com/julienschmidt/httprouter"

	"tabletop/internal/reservations/service"
	"tabletop/pkg/config"
	apperrors "tabletop/pkg/errors"
	httputil "tabletop/pkg/http"
)

type ResourceHandler struct {
	service service.ResourceService
	cfg     *config.Config
}

func NewResourceHandler(svc service.ResourceService, cfg *config.Config) *ResourceHandler {
	return &ResourceHandler{service: svc, cfg: cfg}
}

func (h *ResourceHandler) RegisterRoutes(router *httprouter.Router) {
	router.HandlerFunc(http.MethodGet, "/api/v1/resources", h.List)
	router.HandlerFunc(http.MethodGet, "/api/v1/resources/availability", h.Availability)
}

func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	resources, err := h.service.ListActive(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, resources); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *ResourceHandler) Availability(w http.ResponseWriter, r *http.Request) {
	resourceID := r.URL.Query().Get("resource_id")

	from, err := httputil.ExtractTime(r, "from")
	if err != nil {
		h.writeError(w, apperrors.InvalidInput(err.Error()))
		return
	}
	to, err := httputil.ExtractTime(r, "to")
	if err != nil {
		h.writeError(w, apperrors.InvalidInput(err.Error()))
		return
	}
	if from == nil || to == nil {
		h.writeError(w, apperrors.InvalidInput("'from' and 'to' query parameters are required"))
		return
	}

	availability, err := h.service.Availability(r.Context(), resourceID, *from, *to)
	if err != nil {
		h.writeError(w, err)
		return
	}

	if err := httputil.WriteSuccess(w, availability); err != nil {
		h.cfg.Log.Error("Failed to write response", "error", err)
	}
}

func (h *ResourceHandler) writeError(w http.ResponseWriter, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.cfg.Log.Error("Failed to write error response", "error", writeErr)
	}
}
