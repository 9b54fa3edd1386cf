package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"wellness-tracker/internal/repository"
	"wellness-tracker/internal/service"
)

// Server exposes the ledger to the mobile client over JSON.
type Server struct {
	users      *repository.UserRepository
	sessions   *service.SessionManager
	activities *service.ActivityService
	moods      *service.MoodService
	secret     []byte
}

func NewServer(
	users *repository.UserRepository,
	sessions *service.SessionManager,
	activities *service.ActivityService,
	moods *service.MoodService,
	jwtSecret string,
) *Server {
	return &Server{
		users:      users,
		sessions:   sessions,
		activities: activities,
		moods:      moods,
		secret:     []byte(jwtSecret),
	}
}

// Router builds the gin engine with every route mounted.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery(), MetricsMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := r.Group("/api")
	api.Use(s.AuthMiddleware())
	{
		api.GET("/activities", s.listActivities)
		api.PUT("/activities/:id/progress", s.updateProgress)
		api.PUT("/activities/:id/playback", s.recordPlayback)
		api.POST("/activities/:id/favorite", s.toggleFavorite)

		api.GET("/progress/today", s.todayProgress)
		api.GET("/history", s.history)

		api.GET("/mood/today", s.todayMood)
		api.POST("/mood", s.saveMood)
		api.GET("/mood/history", s.moodHistory)

		api.DELETE("/session", s.logout)
	}

	return r
}
