package handler

import (
	"safari/internal/bookings/repository"
	"safari/pkg/auth"
	"safari/pkg/model"

	"github.com/julienschmidt/httprouter"
)

const prefix = "/api/v1/bookings"

// Routes wires the booking and package endpoints behind the authorization
// gate.
type Routes struct {
	bookings *BookingHandler
	packages *PackageHandler
	gate     *auth.Gate
}

func NewRoutes(bookings *BookingHandler, packages *PackageHandler, gate *auth.Gate) *Routes {
	return &Routes{
		bookings: bookings,
		packages: packages,
		gate:     gate,
	}
}

func (rt *Routes) RegisterRoutes(router *httprouter.Router) {
	h := rt.bookings
	customer := rt.gate.Require(model.RoleCustomer)
	driver := rt.gate.Require(model.RoleDriver)
	guide := rt.gate.Require(model.RoleGuide)
	staff := rt.gate.Require(model.RoleAdmin, model.RoleStaff)
	admin := rt.gate.Require(model.RoleAdmin)
	anyone := rt.gate.Require()

	router.POST(prefix+"/stripe-checkout", customer(h.CreateCheckout))
	router.POST(prefix+"/cash", customer(h.CreateCash))
	router.POST(prefix+"/verify-payment", h.VerifyPayment)
	router.POST(prefix+"/stripe-webhook", h.StripeWebhook)

	router.GET(prefix+"/my", customer(h.GetMine))
	router.GET(prefix+"/id/:id", anyone(h.GetByID))
	router.GET(prefix, staff(h.GetAll))
	router.POST(prefix+"/cancel/:id", rt.gate.Require(model.RoleCustomer, model.RoleAdmin, model.RoleStaff)(h.Cancel))
	router.PUT(prefix+"/status/:id", staff(h.UpdateStatus))

	router.GET(prefix+"/driver/pending", driver(h.Queue(repository.QueuePending)))
	router.GET(prefix+"/driver/accepted", driver(h.Queue(repository.QueueAccepted)))
	router.GET(prefix+"/driver/completed", driver(h.Queue(repository.QueueCompleted)))
	router.POST(prefix+"/driver/accept/:id", driver(h.Accept))
	router.POST(prefix+"/driver/complete/:id", driver(h.Complete))

	router.GET(prefix+"/guide/available", guide(h.Queue(repository.QueuePending)))
	router.GET(prefix+"/guide/accepted", guide(h.Queue(repository.QueueAccepted)))
	router.GET(prefix+"/guide/completed", guide(h.Queue(repository.QueueCompleted)))
	router.POST(prefix+"/guide/accept/:id", guide(h.Accept))
	router.POST(prefix+"/guide/complete/:id", guide(h.Complete))

	router.POST(prefix+"/admin/assign-driver/:id", admin(h.AssignDriver))
	router.POST(prefix+"/admin/assign-guide/:id", admin(h.AssignGuide))
	router.POST(prefix+"/admin/complete/:id", admin(h.AdminComplete))

	rt.packages.RegisterRoutes(router)
}
