package api

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"wellness-tracker/internal/ledger"
	"wellness-tracker/internal/service"
)

type progressRequest struct {
	Progress *int `json:"progress" binding:"required"`
}

type playbackRequest struct {
	PositionMS *int64 `json:"position_ms" binding:"required,min=0"`
	DurationMS int64  `json:"duration_ms" binding:"required,gt=0"`
}

type moodRequest struct {
	MoodIndex *int `json:"mood_index" binding:"required,min=0,max=4"`
}

func (s *Server) listActivities(c *gin.Context) {
	view := sessionFrom(c).Snapshot()
	c.JSON(http.StatusOK, gin.H{"categories": view.Catalog})
}

func (s *Server) updateProgress(c *gin.Context) {
	var body progressRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := sessionFrom(c)
	accepted, err := s.activities.UpdateProgress(c.Request.Context(), sess, c.Param("id"), *body.Progress)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"accepted": accepted, "daily": sess.Snapshot().Daily})
}

func (s *Server) recordPlayback(c *gin.Context) {
	var body playbackRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sess := sessionFrom(c)
	position := time.Duration(*body.PositionMS) * time.Millisecond
	duration := time.Duration(body.DurationMS) * time.Millisecond
	reported, accepted, err := s.activities.RecordPlayback(c.Request.Context(), sess, c.Param("id"), position, duration)
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reported": reported,
		"accepted": accepted,
		"progress": ledger.PlaybackPercent(position, duration),
		"daily":    sess.Snapshot().Daily,
	})
}

func (s *Server) toggleFavorite(c *gin.Context) {
	favorite, err := s.activities.ToggleFavorite(c.Request.Context(), sessionFrom(c), c.Param("id"))
	if err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"activity_id": c.Param("id"), "favorite": favorite})
}

func (s *Server) todayProgress(c *gin.Context) {
	sess := sessionFrom(c)
	s.sessions.Refresh(sess)
	c.JSON(http.StatusOK, sess.Snapshot().Daily)
}

func (s *Server) history(c *gin.Context) {
	view := sessionFrom(c).Snapshot()
	c.JSON(http.StatusOK, gin.H{"entries": view.History})
}

func (s *Server) todayMood(c *gin.Context) {
	sess := sessionFrom(c)
	s.sessions.Refresh(sess)
	view := sess.Snapshot()
	c.JSON(http.StatusOK, gin.H{"mood_index": view.TodayMood})
}

func (s *Server) saveMood(c *gin.Context) {
	var body moodRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := s.moods.SaveDailyMood(c.Request.Context(), sessionFrom(c), *body.MoodIndex); err != nil {
		s.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"mood_index": *body.MoodIndex})
}

func (s *Server) moodHistory(c *gin.Context) {
	view := sessionFrom(c).Snapshot()
	c.JSON(http.StatusOK, gin.H{"entries": view.MoodHistory})
}

func (s *Server) logout(c *gin.Context) {
	s.sessions.Logout(c.GetUint(ctxUserID))
	c.Status(http.StatusNoContent)
}

func (s *Server) respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ledger.ErrNoSession):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrUnknownActivity):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidMood):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrMoodAlreadyRecorded):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "storage unavailable"})
	}
}
