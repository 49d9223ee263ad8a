package handler

import (
	"net/http"

	"safari/internal/bookings/repository"
	httputil "safari/pkg/http"
	"safari/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// Accept is shared by the driver and guide routes; the role comes from the
// caller's token.
func (h *BookingHandler) Accept(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.SelfAssign(r.Context(), principal(r), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.Complete(r.Context(), principal(r), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) Queue(queue repository.Queue) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		bookings, err := h.service.Queue(r.Context(), principal(r), queue)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}

		httputil.WriteSuccess(w, bookings)
	}
}

func (h *BookingHandler) AssignDriver(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.AssignDriverRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.assign(w, r, model.RoleDriver, ps.ByName("id"), req.DriverID)
}

func (h *BookingHandler) AssignGuide(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req model.AssignGuideRequest
	if err := h.decodeAndValidate(r, &req); err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.assign(w, r, model.RoleGuide, ps.ByName("id"), req.GuideID)
}

func (h *BookingHandler) assign(w http.ResponseWriter, r *http.Request, role model.Role, id, assigneeID string) {
	booking, err := h.service.AdminAssign(r.Context(), principal(r), role, id, assigneeID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) AdminComplete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	booking, err := h.service.AdminComplete(r.Context(), principal(r), ps.ByName("id"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	httputil.WriteSuccess(w, booking)
}
