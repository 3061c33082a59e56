package routes

import (
	"net/http"

	"bharatparcel/handlers"
	"bharatparcel/logger"

	"github.com/julienschmidt/httprouter"
)

// Handlers groups everything the router dispatches to.
type Handlers struct {
	Auth       *handlers.Authenticator
	Health     *handlers.HealthHandler
	Users      *handlers.UserHandler
	Bookings   *handlers.BookingHandler
	Quotations *handlers.QuotationHandler
	Stations   *handlers.StationHandler
	Customers  *handlers.CustomerHandler
	Reports    *handlers.ReportHandler
}

// CORS middleware
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, "+handlers.RequestIDHeader)
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition, X-Invoice-URL, "+handlers.RequestIDHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func NewRouter(h Handlers, log *logger.Logger) http.Handler {
	router := httprouter.New()
	router.HandleOPTIONS = false
	auth := h.Auth.Require

	router.GET("/health", h.Health.Health)
	router.GET("/ready", h.Health.Ready)

	router.POST("/api/auth/signup", h.Users.Signup)
	router.POST("/api/auth/login", h.Users.Login)
	router.POST("/api/users", auth(h.Users.Signup))
	router.POST("/api/public/bookings", h.Bookings.CreatePublic)

	// Bookings
	router.POST("/api/bookings", auth(h.Bookings.Create))
	router.GET("/api/bookings/list", auth(h.Bookings.StatusList))
	router.GET("/api/bookings/revenue", auth(h.Bookings.RevenueList))
	router.GET("/api/bookings/total-revenue", auth(h.Bookings.TotalRevenue))
	router.GET("/api/bookings/count/:type", auth(h.Bookings.Count))
	router.GET("/api/bookings/pending", auth(h.Bookings.Pending))
	router.GET("/api/bookings/id/:id", auth(h.Bookings.View))
	router.PUT("/api/bookings/id/:id", auth(h.Bookings.Update))
	router.DELETE("/api/bookings/id/:id", auth(h.Bookings.Delete))
	router.PATCH("/api/bookings/id/:id/cancel", auth(h.Bookings.Cancel))
	router.PATCH("/api/bookings/id/:id/activate", auth(h.Bookings.Activate))
	router.PATCH("/api/bookings/id/:id/deliver", auth(h.Bookings.Deliver))
	router.PATCH("/api/bookings/id/:id/approve", auth(h.Bookings.Approve))
	router.PATCH("/api/bookings/id/:id/reject", auth(h.Bookings.Reject))
	router.POST("/api/bookings/id/:id/send-email", auth(h.Bookings.SendEmail))

	// Quotations
	router.POST("/api/quotations", auth(h.Quotations.Create))
	router.GET("/api/quotations", auth(h.Quotations.List))
	router.GET("/api/quotations/list", auth(h.Quotations.StatusList))
	router.GET("/api/quotations/revenue", auth(h.Quotations.RevenueList))
	router.GET("/api/quotations/total-revenue", auth(h.Quotations.TotalRevenue))
	router.GET("/api/quotations/count/:type", auth(h.Quotations.Count))
	router.POST("/api/quotations/by-date", auth(h.Quotations.ListByDate))
	router.GET("/api/quotations/id/:id", auth(h.Quotations.Get))
	router.PUT("/api/quotations/id/:id", auth(h.Quotations.Update))
	router.DELETE("/api/quotations/id/:id", auth(h.Quotations.Delete))
	router.PATCH("/api/quotations/id/:id/status", auth(h.Quotations.SetStatus))
	router.POST("/api/quotations/id/:id/send-email", auth(h.Quotations.SendEmail))

	// Stations
	router.POST("/api/stations", auth(h.Stations.Create))
	router.GET("/api/stations", auth(h.Stations.List))
	router.GET("/api/stations/count", auth(h.Stations.Count))
	router.GET("/api/stations/id/:id", auth(h.Stations.GetByID))
	router.PUT("/api/stations/id/:id", auth(h.Stations.Update))
	router.DELETE("/api/stations/id/:id", auth(h.Stations.Delete))
	router.GET("/api/stations/name/:name", auth(h.Stations.GetByName))

	// Customers
	router.POST("/api/customers", auth(h.Customers.Create))
	router.GET("/api/customers", auth(h.Customers.List))
	router.GET("/api/customers/email/:email", auth(h.Customers.GetByEmail))

	// Reports
	router.POST("/api/reports/booking-summary", auth(h.Reports.CustomerSummary))
	router.POST("/api/reports/overall-summary", auth(h.Reports.OverallSummary))
	router.POST("/api/reports/ca-report", auth(h.Reports.CAReport))
	router.POST("/api/reports/payments", auth(h.Reports.PaymentBreakdown))
	router.POST("/api/reports/invoice", auth(h.Reports.Invoice))

	// WhatsApp
	router.POST("/api/whatsapp/send", auth(h.Bookings.SendWhatsApp))
	router.POST("/api/whatsapp/send-booking/:id", auth(h.Bookings.SendBookingWhatsApp))
	router.POST("/api/whatsapp/send-quotation/:id", auth(h.Quotations.SendWhatsApp))

	var handler http.Handler = router
	handler = withCORS(handler)
	handler = handlers.RecoverWrapper(log)(handler)
	handler = handlers.RequestLogging(log)(handler)
	return handler
}
