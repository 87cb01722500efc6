package routes

import (
	"ordesk/config"
	"ordesk/handlers"
	"ordesk/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// HandlerBundle groups the handlers the router needs.
type HandlerBundle struct {
	Wizard      *handlers.WizardHandler
	Directory   *handlers.DirectoryHandler
	Previews    *handlers.PreviewHandler
	Submissions *handlers.SubmissionHandler
}

// SetupCORS allows the dashboard origin to call the API.
func SetupCORS(r *gin.Engine) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.AppConfig.DashboardOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
}

// RegisterWizardRoutes registers all endpoints for the order-creation wizard.
func RegisterWizardRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/wizard")
	api.Use(middleware.OperatorAuthMiddleware())
	{
		api.POST("/session", hb.Wizard.StartSession)
		api.GET("/session/:sessionID", hb.Wizard.GetSession)
		api.DELETE("/session/:sessionID", hb.Wizard.CancelSession)
		api.POST("/session/:sessionID/next", hb.Wizard.NextStep)
		api.POST("/session/:sessionID/prev", hb.Wizard.PrevStep)
		api.PUT("/session/:sessionID/client", hb.Wizard.SelectClient)
		api.PUT("/session/:sessionID/details", hb.Wizard.SetServiceDetails)
		api.POST("/session/:sessionID/images", hb.Wizard.AttachImages)
		api.DELETE("/session/:sessionID/images/:index", hb.Wizard.RemoveImage)
		api.PUT("/session/:sessionID/partner", hb.Wizard.SelectPartner)
		api.PUT("/session/:sessionID/prestataires", hb.Wizard.SelectPrestataires)
		api.POST("/session/:sessionID/confirm", hb.Wizard.Confirm)
	}
}

// RegisterDirectoryRoutes registers the directory proxy endpoints.
func RegisterDirectoryRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api")
	api.Use(middleware.OperatorAuthMiddleware())
	{
		api.GET("/clients", hb.Directory.SearchClients)
		api.GET("/partners", hb.Directory.SearchPartners)
		api.GET("/prestataires", hb.Directory.ListPrestataires)
	}
}

// RegisterPreviewRoutes registers staged-preview serving.
func RegisterPreviewRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/previews")
	api.Use(middleware.OperatorAuthMiddleware())
	{
		api.GET("/:id", hb.Previews.GetPreview)
	}
}

// RegisterSubmissionRoutes registers the submission audit endpoints.
func RegisterSubmissionRoutes(r *gin.Engine, hb *HandlerBundle) {
	api := r.Group("/api/submissions")
	api.Use(middleware.OperatorAuthMiddleware())
	{
		api.GET("", hb.Submissions.ListRecent)
		api.GET("/order/:orderID", hb.Submissions.GetByOrderID)
	}
}

// RegisterHealthRoutes registers the liveness endpoint.
func RegisterHealthRoutes(r *gin.Engine) {
	r.GET("/healthz", handlers.HealthHandler)
}
