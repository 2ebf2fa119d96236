package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"alcyxob/gym-admin/internal/ratelimit"
	"alcyxob/gym-admin/internal/service"
)

// Services are the dependencies of the HTTP API.
type Services struct {
	Auth     service.AuthService
	Members  service.MemberService
	Payments service.PaymentService
	Exercise service.ExerciseService
	Routines service.RoutineService
	Clients  service.ClientService
	Export   service.ExportService
}

// NewRouter creates a gin engine with the standard middleware chain and all routes.
func NewRouter(services Services, limiter ratelimit.Limiter, cookie CookieSettings) *gin.Engine {
	router := gin.New()
	router.Use(RequestID(), Logger(), Recovery(), ErrorHandler(), CORS())
	SetupRoutes(router, services, limiter, cookie)
	return router
}

func SetupRoutes(router *gin.Engine, services Services, limiter ratelimit.Limiter, cookie CookieSettings) {
	authHandler := NewAuthHandler(services.Auth)
	memberHandler := NewMemberHandler(services.Members)
	paymentHandler := NewPaymentHandler(services.Payments)
	exerciseHandler := NewExerciseHandler(services.Exercise)
	routineHandler := NewRoutineHandler(services.Routines)
	clientHandler := NewClientHandler(services.Clients, cookie)
	exportHandler := NewExportHandler(services.Export)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		apiV1.POST("/auth/login", LoginThrottle(limiter, "operator-login"), authHandler.Login)

		clientGroup := apiV1.Group("/client")
		{
			clientGroup.POST("/login", LoginThrottle(limiter, "client-login"), clientHandler.Login)
			clientGroup.POST("/logout", clientHandler.Logout)
			clientGroup.GET("/members/:memberId/routines",
				ClientSessionMiddleware(services.Clients, cookie.Name), clientHandler.Routines)
		}
	}

	protected := apiV1.Group("")
	protected.Use(AuthMiddleware(services.Auth))
	{
		protected.GET("/me", authHandler.Me)

		// --- Member Routes ---
		members := protected.Group("/members")
		{
			members.GET("", memberHandler.ListMembers)
			members.POST("", memberHandler.CreateMember)
			members.GET("/export", exportHandler.ExportMembers)
			members.POST("/export/archive", exportHandler.Archive)
			members.GET("/:id", memberHandler.GetMember)
			members.PUT("/:id", memberHandler.UpdateMember)
			members.PUT("/:id/intake", memberHandler.UpdateIntake)
			members.DELETE("/:id", memberHandler.DeleteMember)

			members.GET("/:id/payments", paymentHandler.History)
			members.POST("/:id/payments", paymentHandler.Record)
			members.POST("/:id/payments/toggle", paymentHandler.ToggleCurrent)
			members.POST("/:id/payments/:month/toggle", paymentHandler.ToggleMonth)

			members.GET("/:id/routines", routineHandler.ListVersions)
			members.POST("/:id/routines/duplicate", routineHandler.Duplicate)
			members.POST("/:id/routines/kind/:kind", routineHandler.CreateFromKind)
		}

		// --- Payment Routes ---
		payments := protected.Group("/payments")
		{
			payments.GET("/summary", paymentHandler.Summary)
			payments.GET("/plans", paymentHandler.Plans)
			payments.POST("/:id/void", paymentHandler.Void)
			payments.DELETE("/:id", paymentHandler.Delete)
		}

		// --- Exercise Routes ---
		exercises := protected.Group("/exercises")
		{
			exercises.GET("", exerciseHandler.ListExercises)
			exercises.POST("", exerciseHandler.CreateExercise)
			exercises.GET("/:id", exerciseHandler.GetExercise)
			exercises.DELETE("/:id", exerciseHandler.DeleteExercise)
		}

		// --- Routine Routes ---
		routines := protected.Group("/routines")
		{
			routines.GET("/:id", routineHandler.Editor)
			routines.POST("/:id/save", routineHandler.Save)
			routines.POST("/:id/edit", routineHandler.LegacyEdit) // Deprecated: use /save
			routines.PUT("/:id/comment", routineHandler.UpdateComment)
			routines.DELETE("/:id", routineHandler.Delete)
		}

		protected.GET("/templates", routineHandler.ListTemplates)
		protected.GET("/templates/:kind", routineHandler.GetTemplate)

		// --- Archived Export Routes ---
		exports := protected.Group("/exports")
		{
			exports.GET("", exportHandler.ListArchives)
			exports.GET("/:id", exportHandler.GetArchive)
			exports.DELETE("/:id", exportHandler.DeleteArchive)
		}
	}
}
