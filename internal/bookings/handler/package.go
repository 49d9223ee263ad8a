package handler

import (
	"net/http"

	"safari/internal/bookings/service"
	httputil "safari/pkg/http"
	"safari/pkg/logger"

	"github.com/julienschmidt/httprouter"
)

type PackageHandler struct {
	service service.PackageService
	log     *logger.Logger
}

func NewPackageHandler(service service.PackageService, log *logger.Logger) *PackageHandler {
	return &PackageHandler{
		service: service,
		log:     log,
	}
}

func (h *PackageHandler) GetAll(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	packages, total, err := h.service.ListActive(r.Context(), limit, offset)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WritePaginated(w, packages, total, limit, offset)
}

func (h *PackageHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	pkg, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, pkg)
}

func (h *PackageHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/packages", h.GetAll)
	router.GET("/api/v1/packages/:id", h.GetByID)
}
