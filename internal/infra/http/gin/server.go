package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"freeshare/internal/infra/config"
	"freeshare/internal/infra/obs"
)

type AdHTTP interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	MyAds(c *gin.Context)
	GivenAwayCount(c *gin.Context)
}

type ReservationHTTP interface {
	Reserve(c *gin.Context)
	JoinWaitingList(c *gin.Context)
	ClaimStreetFind(c *gin.Context)
	UpdateStatus(c *gin.Context)
	ListForAd(c *gin.Context)
	MyReservations(c *gin.Context)
}

type ChatHTTP interface {
	ListSessions(c *gin.Context)
	CreateSession(c *gin.Context)
	ListMessages(c *gin.Context)
	SendMessage(c *gin.Context)
	Close(c *gin.Context)
	CompleteExchange(c *gin.Context)
}

type NotificationHTTP interface {
	List(c *gin.Context)
	UnreadCount(c *gin.Context)
	MarkRead(c *gin.Context)
}

type AuthHTTP interface {
	Register(c *gin.Context)
	Login(c *gin.Context)
	Logout(c *gin.Context)
	Me(c *gin.Context)
}

type ImageHTTP interface {
	Upload(c *gin.Context)
}

type StreamHTTP interface {
	Connect(c *gin.Context)
}

type Handlers struct {
	Ads            AdHTTP
	Reservations   ReservationHTTP
	Chats          ChatHTTP
	Notifications  NotificationHTTP
	Auth           AuthHTTP
	Images         ImageHTTP
	Stream         StreamHTTP
	AuthMiddleware gin.HandlerFunc
}

func NewServer(cfg config.Config, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	mode := configureGinMode(cfg.Env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.LoggerMiddleware())
	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization", "Idempotency-Key"},
		ExposeHeaders: []string{
			"Content-Length",
			"Content-Type",
			"X-Request-ID",
		},
		MaxAge: 12 * time.Hour,
	}))
	if h.AuthMiddleware != nil {
		router.Use(h.AuthMiddleware)
	}

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Auth != nil {
		api.POST("/auth/register", h.Auth.Register)
		api.POST("/auth/login", h.Auth.Login)
		api.POST("/auth/logout", h.Auth.Logout)
		api.GET("/auth/me", h.Auth.Me)
	}
	if h.Ads != nil {
		api.GET("/ads", h.Ads.List)
		api.POST("/ads", h.Ads.Create)
		api.GET("/ads/:id", h.Ads.Get)
		api.PUT("/ads/:id", h.Ads.Update)
		api.DELETE("/ads/:id", h.Ads.Delete)
	}
	if h.Reservations != nil {
		api.POST("/ads/:id/reserve", h.Reservations.Reserve)
		api.POST("/ads/:id/waiting-list", h.Reservations.JoinWaitingList)
		api.POST("/ads/:id/claim", h.Reservations.ClaimStreetFind)
		api.GET("/ads/:id/reservations", h.Reservations.ListForAd)
		api.POST("/reservations/:id/accept", h.Reservations.UpdateStatus)
		api.POST("/reservations/:id/decline", h.Reservations.UpdateStatus)
		api.POST("/reservations/:id/cancel", h.Reservations.UpdateStatus)
	}
	if h.Chats != nil {
		api.GET("/chats", h.Chats.ListSessions)
		api.POST("/chats", h.Chats.CreateSession)
		api.GET("/chats/:id/messages", h.Chats.ListMessages)
		api.POST("/chats/:id/messages", h.Chats.SendMessage)
		api.POST("/chats/:id/close", h.Chats.Close)
		api.POST("/chats/:id/complete", h.Chats.CompleteExchange)
	}
	if h.Notifications != nil {
		api.GET("/notifications", h.Notifications.List)
		api.GET("/notifications/unread-count", h.Notifications.UnreadCount)
		api.POST("/notifications/:id/read", h.Notifications.MarkRead)
	}
	if h.Images != nil {
		api.POST("/images", h.Images.Upload)
	}
	if h.Ads != nil {
		meGroup := api.Group("/me")
		meGroup.GET("/ads", h.Ads.MyAds)
		meGroup.GET("/given-away", h.Ads.GivenAwayCount)
		if h.Reservations != nil {
			meGroup.GET("/reservations", h.Reservations.MyReservations)
		}
	}
	if h.Stream != nil {
		router.GET("/stream", h.Stream.Connect)
	}

	return &http.Server{Addr: cfg.HTTPAddr, Handler: router}
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}
