package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/orgball2608/insta-viewer/internal/domain"
	"github.com/orgball2608/insta-viewer/internal/instagram"
	"github.com/orgball2608/insta-viewer/internal/lookup"
	"github.com/orgball2608/insta-viewer/internal/ratelimit"
	"github.com/orgball2608/insta-viewer/pkg/config"
	"github.com/orgball2608/insta-viewer/pkg/logger"
	"go.uber.org/fx"
)

const imageCacheControl = "public, max-age=31536000"

type Opts struct {
	fx.In

	Config    *config.Config
	Logger    logger.Logger
	Instagram instagram.Client
	Images    instagram.ImageFetcher
	Lookups   lookup.Client
	Limiter   ratelimit.Limiter `optional:"true"`
}

// Server is the relay: it forwards profile, media and image requests to the platform.
type Server struct {
	config    *config.Config
	logger    logger.Logger
	instagram instagram.Client
	images    instagram.ImageFetcher
	lookups   lookup.Client
	limiter   ratelimit.Limiter
}

func New(opts Opts) *Server {
	return &Server{
		config:    opts.Config,
		logger:    opts.Logger.WithComponent("relay"),
		instagram: opts.Instagram,
		images:    opts.Images,
		lookups:   opts.Lookups,
		limiter:   opts.Limiter,
	}
}

func (s *Server) Routes() http.Handler {
	if s.config.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(requestID(), s.requestLogger(), gin.Recovery(), s.cors())
	if s.limiter != nil {
		engine.Use(s.rateLimit())
	}

	engine.GET("/healthz", s.handleHealthz)

	api := engine.Group("/api")
	api.GET("/profile/:username", s.handleProfile)
	api.GET("/instagram-profile/:username", s.handleProfile)
	api.GET("/media", s.handleMedia)
	api.GET("/instagram-media", s.handleMedia)
	api.GET("/proxy-image", s.handleProxyImage)
	api.GET("/lookups", s.handleLookups)
	return engine
}

func (s *Server) handleHealthz(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

func (s *Server) handleProfile(c *gin.Context) {
	username := c.Param("username")
	if !domain.ValidUsername(username) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid username"})
		return
	}

	ctx := c.Request.Context()
	body, err := s.instagram.ProfileInfo(ctx, username)
	s.recordLookup(ctx, username, body, err == nil)
	if err != nil {
		s.logger.Error("Profile request failed", "username", username, "error", err, "request_id", c.GetString(requestIDKey))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch Instagram profile"})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func (s *Server) handleMedia(c *gin.Context) {
	vars, err := instagram.ParseMediaVariables(c.Query("variables"))
	if err != nil {
		s.logger.Warn("Rejected media variables", "error", err, "request_id", c.GetString(requestIDKey))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch Instagram media"})
		return
	}

	body, err := s.instagram.TimelineMedia(c.Request.Context(), vars)
	if err != nil {
		s.logger.Error("Media request failed", "user_id", vars.ID, "error", err, "request_id", c.GetString(requestIDKey))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch Instagram media"})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

func (s *Server) handleProxyImage(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image URL is required"})
		return
	}

	img, err := s.images.FetchImage(c.Request.Context(), rawURL)
	if err != nil {
		s.logger.Error("Image proxy failed", "url", rawURL, "error", err, "request_id", c.GetString(requestIDKey))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to proxy image"})
		return
	}
	defer img.Body.Close()

	contentType := img.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.DataFromReader(http.StatusOK, img.ContentLength, contentType, img.Body, map[string]string{
		"Cache-Control": imageCacheControl,
	})
}

func (s *Server) handleLookups(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a number"})
			return
		}
		limit = n
	}

	lookups, err := s.lookups.Recent(c.Request.Context(), limit)
	if err != nil {
		s.logger.Error("Listing lookups failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list lookups"})
		return
	}

	c.JSON(http.StatusOK, lookups)
}

// recordLookup never fails the request it belongs to.
func (s *Server) recordLookup(ctx context.Context, username string, body []byte, success bool) {
	userID := ""
	if success {
		userID = instagram.PeekUserID(body)
	}
	if err := s.lookups.Record(ctx, username, userID, success); err != nil {
		s.logger.Warn("Failed to record lookup", "username", username, "error", err)
	}
}
