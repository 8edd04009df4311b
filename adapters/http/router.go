package http

import (
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/khoahotran/virtual-study-partner/internal/domain/course"
	"github.com/khoahotran/virtual-study-partner/internal/domain/playlist"
	"github.com/khoahotran/virtual-study-partner/internal/domain/teacher"
	"github.com/khoahotran/virtual-study-partner/pkg/logger"
)

type Handlers struct {
	Auth      *AuthHandler
	Profile   *ProfileHandler
	Courses   *CatalogHandler[*course.Course]
	Playlists *CatalogHandler[*playlist.Playlist]
	Teachers  *CatalogHandler[*teacher.Profile]
	Video     *VideoHandler
	Health    *HealthHandler
}

// NewRouter wires every route. staticDir, when set, must hold favicon.ico.
func NewRouter(h Handlers, staticDir string, log logger.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), AccessLog(log), CORS(), ErrorMiddleware(log))

	router.POST("/register", h.Auth.Register)
	router.POST("/login", h.Auth.Login)

	router.GET("/courses", h.Courses.List)
	router.POST("/courses", h.Courses.Add)
	router.GET("/playlists", h.Playlists.List)
	router.POST("/playlists", h.Playlists.Add)
	router.GET("/teachers", h.Teachers.List)
	router.POST("/teachers", h.Teachers.Add)

	router.PUT("/update-profile", h.Profile.UpdateProfile)
	router.POST("/watch-video", h.Video.WatchVideo)

	router.GET("/health", h.Health.Live)
	router.GET("/health/ready", h.Health.Ready)

	if staticDir != "" {
		router.StaticFile("/favicon.ico", filepath.Join(staticDir, "favicon.ico"))
	}
	return router
}
