package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"officehours/backend/internal/auth"
	"officehours/backend/internal/domain"
)

// NewRouter assembles the API surface. Route guards encode the role rules:
// professors manage windows and cancel, students book, either side may
// browse availability.
func NewRouter(identity identityService, booking bookingService, tokens *auth.Manager, log *slog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestLogger(log.With(slog.String("component", "http"))))

	authH := newAuthHandler(identity, log.With(slog.String("component", "auth")))
	availabilityH := newAvailabilityHandler(booking, log.With(slog.String("component", "availability")))
	appointmentsH := newAppointmentsHandler(booking, log.With(slog.String("component", "appointments")))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")

	authGroup := api.Group("/auth")
	{
		authGroup.POST("/register", authH.register)
		authGroup.POST("/login", authH.login)
		authGroup.GET("/profile", Authenticate(tokens), authH.profile)
	}

	availability := api.Group("/availability", Authenticate(tokens))
	{
		availability.POST("/add", RequireRole(domain.RoleProfessor), availabilityH.add)
		availability.DELETE("/remove/:windowId", RequireRole(domain.RoleProfessor), availabilityH.remove)
		availability.GET("/my-availability", RequireRole(domain.RoleProfessor), availabilityH.mine)
		availability.GET("/professor/:professorId", availabilityH.byProfessor)
		availability.GET("/all", availabilityH.all)
	}

	appointments := api.Group("/appointments", Authenticate(tokens))
	{
		appointments.POST("/book", RequireRole(domain.RoleStudent), appointmentsH.book)
		appointments.GET("/my-appointments", RequireRole(domain.RoleStudent), appointmentsH.mine)
		appointments.GET("/professor-appointments", RequireRole(domain.RoleProfessor), appointmentsH.forProfessor)
		appointments.PATCH("/cancel/:appointmentId", RequireRole(domain.RoleProfessor), appointmentsH.cancel)
	}

	return router
}

// bookingService is the full coordinator surface the router wires.
type bookingService interface {
	availabilityService
	appointmentsService
}
