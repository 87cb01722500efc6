// File: ordesk/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ordesk/config"
	"ordesk/cron"
	"ordesk/database"
	submissionsRepo "ordesk/database/repository/submissions"
	"ordesk/handlers"
	"ordesk/middleware"
	"ordesk/routes"
	"ordesk/services/coreapi"
	"ordesk/services/staging"
	"ordesk/services/wizard"
	"ordesk/utils"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()

	stagingStore := buildStagingStore()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())
	routes.SetupCORS(router)

	// Collaborators.
	coreClient := coreapi.NewClient(
		config.AppConfig.CoreAPIBaseURL,
		config.AppConfig.CoreAPIToken,
		nil,
	)
	sessionStore := wizard.NewRedisSessionStore(
		utils.GetSessionCacheClient(),
		time.Duration(config.AppConfig.SessionTTLMinutes)*time.Minute,
	)
	subRepo := submissionsRepo.NewMongoSubmissionRepo()
	enqueuer := cron.NewEnqueuer()

	// services.
	wizardService := &wizard.DefaultWizardService{
		Sessions:    sessionStore,
		CoreAPI:     coreClient,
		Staging:     stagingStore,
		Submissions: subRepo,
		Retries:     enqueuer,
	}

	// handlers.
	hb := &routes.HandlerBundle{
		Wizard:      handlers.NewWizardHandler(wizardService),
		Directory:   handlers.NewDirectoryHandler(wizardService),
		Previews:    handlers.NewPreviewHandler(stagingStore),
		Submissions: handlers.NewSubmissionHandler(subRepo),
	}
	routes.RegisterWizardRoutes(router, hb)
	routes.RegisterDirectoryRoutes(router, hb)
	routes.RegisterPreviewRoutes(router, hb)
	routes.RegisterSubmissionRoutes(router, hb)
	routes.RegisterHealthRoutes(router)

	// Background workers.
	cron.InitRetryWorker(coreClient)
	cron.InitStagingSweeper(stagingStore, sessionStore, 10*time.Minute)

	srv := &http.Server{
		Addr:    ":" + config.AppConfig.AppPort,
		Handler: router,
	}

	go func() {
		logger.Sugar().Infof("ordesk listening on port %s", config.AppConfig.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("server failed: %v", err)
		}
	}()

	// Graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Errorf("forced shutdown: %v", err)
	}
	if err := enqueuer.Close(); err != nil {
		logger.Sugar().Warnf("failed to close retry queue client: %v", err)
	}
}

// buildStagingStore picks the preview staging backend from configuration.
func buildStagingStore() staging.Store {
	switch config.AppConfig.StagingBackend {
	case "cloudinary":
		cld, err := cloudinary.NewFromParams(
			viper.GetString("cloudinary.cloudName"),
			viper.GetString("cloudinary.apiKey"),
			viper.GetString("cloudinary.apiSecret"),
		)
		if err != nil {
			log.Fatalf("failed to initialize cloudinary staging: %v", err)
		}
		return staging.NewCloudinaryStore(cld, viper.GetString("cloudinary.stagingFolder"))
	default:
		store, err := staging.NewDiskStore(config.AppConfig.StagingDir)
		if err != nil {
			log.Fatalf("failed to initialize disk staging: %v", err)
		}
		return store
	}
}
