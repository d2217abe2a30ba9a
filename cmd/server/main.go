package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"arwear-backend/internal/blobstore"
	"arwear-backend/internal/catalog"
	"arwear-backend/internal/config"
	"arwear-backend/internal/database"
	"arwear-backend/internal/events"
	"arwear-backend/internal/handlers"
	"arwear-backend/internal/media"
	"arwear-backend/internal/middleware"
	"arwear-backend/internal/thumbnails"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := database.NewMigrator(db).Run(); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	blobs, err := blobstore.New(ctx, blobstore.Config{
		Endpoint:  cfg.MinioEndpoint,
		AccessKey: cfg.MinioAccessKey,
		SecretKey: cfg.MinioSecretKey,
		Bucket:    cfg.MinioBucket,
		UseSSL:    cfg.MinioUseSSL,
	})
	if err != nil {
		log.Fatalf("Failed to initialize blob store: %v", err)
	}

	catalogClient := catalog.NewClient(db)

	// The thumbnail pipeline is optional: without a broker, uploads simply
	// never get thumbnails attached.
	var publisher *events.Publisher
	var mediaService *media.Service
	if cfg.KafkaBroker != "" {
		publisher = events.NewPublisher(cfg.KafkaBroker, cfg.KafkaTopic)
		defer publisher.Close()
		mediaService = media.New(blobs, catalogClient, publisher)

		worker := thumbnails.NewWorker(cfg.KafkaBroker, cfg.KafkaTopic, "thumbnail-workers",
			blobs, catalogClient, cfg.ThumbnailMaxSize)
		go worker.Run(ctx)
	} else {
		log.Println("KAFKA_BROKER not set; thumbnail pipeline disabled")
		mediaService = media.New(blobs, catalogClient, nil)
	}

	animationsHandler := handlers.NewAnimationsHandler(mediaService)
	exploreHandler := handlers.NewExploreHandler(mediaService)
	libraryHandler := handlers.NewLibraryHandler(catalogClient, mediaService)
	usersHandler := handlers.NewUsersHandler(catalogClient)
	garmentsHandler := handlers.NewGarmentsHandler(catalogClient)
	authHandler := handlers.NewAuthHandler(catalogClient, cfg.JWTSecret)

	requireAuth := middleware.RequireAuth(cfg.JWTSecret, catalogClient)
	optionalAuth := middleware.OptionalAuth(cfg.JWTSecret, catalogClient)
	requireAdmin := middleware.RequireAdmin(cfg.AdminToken)

	router := gin.Default()

	router.GET("/health", handlers.HealthHandler)
	router.POST("/auth/token", authHandler.IssueToken)

	animations := router.Group("/animations")
	animations.POST("/", requireAuth, animationsHandler.Create)
	animations.GET("/", animationsHandler.List)
	animations.GET("/:animation_id", animationsHandler.Get)
	animations.GET("/:animation_id/file", optionalAuth, animationsHandler.GetFile)
	animations.DELETE("/:animation_id", requireAuth, animationsHandler.Delete)
	animations.DELETE("/", requireAdmin, animationsHandler.DeleteAll)

	router.GET("/explore/animations", exploreHandler.Animations)

	library := router.Group("/library", requireAuth)
	library.PUT("/:animation_id", libraryHandler.Add)
	library.POST("/:animation_id", libraryHandler.Add)
	library.GET("/list", libraryHandler.List)
	library.GET("/owned", libraryHandler.Owned)

	users := router.Group("/users")
	users.GET("/", usersHandler.List)
	users.POST("/", usersHandler.Create)
	users.GET("/:user_id", usersHandler.Get)
	users.PUT("/:user_id", usersHandler.Update)
	users.DELETE("/:user_id", usersHandler.Delete)
	users.GET("/:user_id/garments", usersHandler.ListGarments)
	users.POST("/:user_id/garments", usersHandler.AddGarment)

	garments := router.Group("/garments")
	garments.GET("/", garmentsHandler.List)
	garments.PUT("/:garment_id", requireAuth, garmentsHandler.SetAnimation)
	garments.DELETE("/", requireAdmin, garmentsHandler.DeleteAll)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}
