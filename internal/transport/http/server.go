package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/nourhb/video-chat/internal/auth"
	"github.com/nourhb/video-chat/internal/config"
	"github.com/nourhb/video-chat/internal/presence"
	"github.com/nourhb/video-chat/internal/rooms"
	"github.com/nourhb/video-chat/internal/service/consultations"
	"github.com/nourhb/video-chat/internal/store"
)

// Deps groups everything the HTTP layer needs.
type Deps struct {
	Coordinator   *rooms.Coordinator
	Registry      *rooms.Registry
	AuthService   *auth.Service
	Store         store.Store
	Consultations *consultations.Service
	Presence      *presence.Hub
}

// NewServer builds the HTTP server with all routes registered.
func NewServer(deps Deps, cfg *config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(LoggerMiddleware(logger))
	router.Use(CORSMiddleware())

	router.GET("/health", func(c *gin.Context) {
		c.String(stdhttp.StatusOK, "ok")
	})

	// Room booking surface: open, no auth. Patients reach it via links.
	roomHandlers := NewRoomHandlers(deps.Coordinator, deps.Registry, logger)
	open := router.Group("/rooms", RateLimitMiddleware(cfg.RoomRateLimit))
	open.POST("", roomHandlers.EnsureRoom)
	open.GET("", roomHandlers.RoomExists)
	open.GET("/ws", NewPresenceHandler(deps.Presence, logger))

	// Staff auth.
	authHandlers := NewAuthHandlers(deps.AuthService, logger)
	router.POST("/api/register", authHandlers.Register)
	router.POST("/api/login", authHandlers.Login)

	// Staff API, JWT-protected.
	api := router.Group("/api")
	api.Use(AuthMiddleware(deps.AuthService, logger))
	{
		patientHandlers := NewPatientHandlers(deps.Store, logger)
		api.POST("/patients", patientHandlers.Create)
		api.GET("/patients", patientHandlers.List)
		api.GET("/patients/:id", patientHandlers.Get)
		api.PUT("/patients/:id", patientHandlers.Update)
		api.DELETE("/patients/:id", patientHandlers.Delete)

		nurseHandlers := NewNurseHandlers(deps.Store, logger)
		api.GET("/nurses", nurseHandlers.List)

		consultationHandlers := NewConsultationHandlers(deps.Consultations, logger)
		api.POST("/consultations", consultationHandlers.Schedule)
		api.GET("/consultations", consultationHandlers.ListUpcoming)
		api.GET("/consultations/:id", consultationHandlers.Get)
		api.POST("/consultations/:id/room", consultationHandlers.OpenRoom)
		api.POST("/consultations/:id/cancel", consultationHandlers.Cancel)
		api.POST("/consultations/:id/complete", consultationHandlers.Complete)

		api.GET("/dashboard", consultationHandlers.Dashboard)
	}

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}
