package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"photo-service/internal/auth"
	"photo-service/internal/db"
	"photo-service/internal/handlers"
	"photo-service/internal/idp"
	"photo-service/internal/mailer"
	"photo-service/internal/middleware"
	"photo-service/internal/notifier"
	"photo-service/internal/observability"
	"photo-service/internal/rabbitmq"
	"photo-service/internal/repositories"
	"photo-service/internal/telemetry"
	"photo-service/internal/ws"
)

const serviceName = "photo-service"

func main() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	database, err := db.Connect()
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}

	ctx := context.Background()
	shutdownTracing, err := observability.InitTracing(ctx, serviceName, os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"))
	if err != nil {
		log.Fatalf("failed to init tracing: %v", err)
	}
	defer func() {
		if err := shutdownTracing(ctx); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
	}()

	amqpURL := os.Getenv("AMQP_URL")
	exchange := getEnv("AMQP_EXCHANGE", "photo_service.events")
	publisher := rabbitmq.NewPublisher(amqpURL, exchange)
	defer publisher.Close()
	log.Printf("event publisher mode=%s", rabbitmq.PublisherMode(publisher))

	if obsPublisher, err := observability.NewAMQPPublisher(amqpURL, exchange); err != nil {
		log.Printf("observability publisher disabled: %v", err)
	} else {
		observability.SetPublisher(obsPublisher)
		defer obsPublisher.Close()
	}

	audit := telemetry.NewAuditEmitter(
		publisher,
		getEnv("AUDIT_ROUTING_KEY", "audit.photo_service"),
		serviceName,
		getEnv("ENVIRONMENT", "development"),
	)

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		log.Fatal("JWT_SECRET is required")
	}
	verifier := auth.NewVerifier(secret, 0, 0)

	userRepo := repositories.NewUserRepo(database)
	eventRepo := repositories.NewEventRepo(database)
	imageRepo := repositories.NewImageRepo(database)
	commentRepo := repositories.NewCommentRepo(database)
	reactionRepo := repositories.NewReactionRepo(database)
	notificationRepo := repositories.NewNotificationRepo(database)

	hub := ws.NewHub()
	notify := notifier.New(notificationRepo, hub, publisher)

	otpMailer := mailer.New(
		os.Getenv("SMTP_HOST"),
		getEnv("SMTP_PORT", "587"),
		os.Getenv("SMTP_USERNAME"),
		os.Getenv("SMTP_PASSWORD"),
		getEnv("SMTP_FROM", "noreply@photo-service.local"),
	)

	idpClient := idp.NewClient(idp.Config{
		AuthorizationURL: os.Getenv("IDP_AUTHORIZATION_URL"),
		TokenURL:         os.Getenv("IDP_TOKEN_URL"),
		UserInfoURL:      os.Getenv("IDP_USERINFO_URL"),
		ClientID:         os.Getenv("IDP_CLIENT_ID"),
		ClientSecret:     os.Getenv("IDP_CLIENT_SECRET"),
		RedirectURI:      os.Getenv("IDP_REDIRECT_URI"),
	})

	authHandler := handlers.NewAuthHandler(userRepo, verifier, otpMailer, idpClient, audit)
	eventHandler := handlers.NewEventHandler(eventRepo, imageRepo)
	imageHandler := handlers.NewImageHandler(imageRepo, eventRepo)
	commentHandler := handlers.NewCommentHandler(commentRepo, imageRepo, userRepo, notify)
	reactionHandler := handlers.NewReactionHandler(reactionRepo, imageRepo, userRepo, notify)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	notificationWS := ws.NewNotificationWSHandler(hub, verifier)

	router := gin.Default()
	router.Use(gin.Recovery())
	router.Use(observability.HTTPMetricsMiddleware())
	router.Use(otelgin.Middleware(serviceName))

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.POST("/auth/register", authHandler.Register)
	router.POST("/auth/verify-otp", authHandler.VerifyOTP)
	router.POST("/auth/login", authHandler.Login)
	router.POST("/auth/refresh", authHandler.Refresh)
	router.GET("/auth/oauth/authorize-url", authHandler.OAuthAuthorizeURL)
	router.POST("/auth/oauth/login", authHandler.OAuthLogin)

	authMiddleware := middleware.AuthMiddleware(verifier)

	router.GET("/users/me", authMiddleware, authHandler.Me)
	router.PATCH("/users/me", authMiddleware, authHandler.PatchProfile)
	router.GET("/users/search", authMiddleware, authHandler.SearchUsers)
	router.GET("/users/:username", authMiddleware, authHandler.GetProfile)

	router.GET("/events", authMiddleware, eventHandler.ListEvents)
	router.POST("/events", authMiddleware, eventHandler.CreateEvent)
	router.GET("/events/:event_id", authMiddleware, eventHandler.GetEvent)
	router.PATCH("/events/:event_id", authMiddleware, eventHandler.UpdateEvent)
	router.DELETE("/events/:event_id", authMiddleware, eventHandler.DeleteEvent)
	router.GET("/events/:event_id/albums", authMiddleware, eventHandler.ListAlbums)
	router.POST("/events/:event_id/albums", authMiddleware, eventHandler.CreateAlbum)
	router.DELETE("/albums/:album_id", authMiddleware, eventHandler.DeleteAlbum)

	router.GET("/images", authMiddleware, imageHandler.ListImages)
	router.POST("/images", authMiddleware, imageHandler.CreateImage)
	router.GET("/images/:image_id", authMiddleware, imageHandler.GetImage)
	router.PATCH("/images/:image_id", authMiddleware, imageHandler.UpdateImage)
	router.DELETE("/images/:image_id", authMiddleware, imageHandler.DeleteImage)

	router.GET("/images/:image_id/comments", authMiddleware, commentHandler.ListComments)
	router.POST("/images/:image_id/comments", authMiddleware, commentHandler.CreateComment)
	router.PATCH("/comments/:comment_id", authMiddleware, commentHandler.UpdateComment)
	router.DELETE("/comments/:comment_id", authMiddleware, commentHandler.DeleteComment)

	router.GET("/images/:image_id/reactions", authMiddleware, reactionHandler.GetReactionSummary)
	router.POST("/images/:image_id/reactions", authMiddleware, reactionHandler.CreateReaction)
	router.DELETE("/images/:image_id/reactions/:type", authMiddleware, reactionHandler.DeleteReaction)

	router.GET("/notifications", authMiddleware, notificationHandler.ListNotifications)
	router.DELETE("/notifications/:notification_id", authMiddleware, notificationHandler.DeleteNotification)

	router.GET("/ws/notifications", notificationWS.Handle)

	handlers.RegisterDebugRoutes(router, audit, hub, os.Getenv("DEBUG_ROUTES") == "true")

	port := getEnv("PORT", "8080")
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}
