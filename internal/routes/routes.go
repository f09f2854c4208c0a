package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/justsurfingit/skycareers/internal/auth"
	"github.com/justsurfingit/skycareers/internal/config"
	"github.com/justsurfingit/skycareers/internal/handlers"
	"github.com/justsurfingit/skycareers/internal/middleware"
	"github.com/justsurfingit/skycareers/internal/services"
	"github.com/justsurfingit/skycareers/internal/storage"
)

const sessionName = "skycareers_session"

type Deps struct {
	Config       *config.Config
	Applications *services.ApplicationService
	Jobs         *services.JobService
	Files        *storage.LocalStorage
	// Limiter guards the write endpoints. Nil disables rate limiting.
	Limiter middleware.Limiter
}

func SetupRoutes(d Deps) *gin.Engine {
	r := gin.Default()
	// Multipart bodies above this spill to disk; the resume limit is enforced by the service.
	r.MaxMultipartMemory = 8 << 20

	corsConfig := cors.DefaultConfig()
	if len(d.Config.CORSAllowedOrigins) == 0 || d.Config.CORSAllowedOrigins[0] == "*" {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = d.Config.CORSAllowedOrigins
		corsConfig.AllowCredentials = true
	}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization"}
	if d.Config.TrustedIdentityHdr != "" {
		corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, d.Config.TrustedIdentityHdr)
	}
	r.Use(cors.New(corsConfig))

	r.Use(sessions.Sessions(sessionName, cookie.NewStore([]byte(d.Config.SessionSecret))))
	r.Use(auth.Identify(d.Config.TrustedIdentityHdr))

	jobHandler := handlers.NewJobHandler(d.Jobs)
	appHandler := handlers.NewApplicationHandler(d.Applications)

	limited := func(h gin.HandlerFunc) []gin.HandlerFunc {
		return []gin.HandlerFunc{h}
	}
	if d.Limiter != nil {
		rl := middleware.RateLimit(d.Limiter, middleware.CallerKey(auth.ContextUserID))
		limited = func(h gin.HandlerFunc) []gin.HandlerFunc {
			return []gin.HandlerFunc{rl, h}
		}
	}

	api := r.Group("/api/v1")
	{
		api.GET("/health", handlers.HealthCheck)

		// Job Routes
		api.GET("/jobs", jobHandler.ListJobs)
		api.GET("/jobs/:id", jobHandler.GetJob)
		api.POST("/jobs", limited(jobHandler.CreateJob)...)

		// Application Routes
		api.POST("/jobs/:id/applications", limited(appHandler.Submit)...)
		api.GET("/applications", appHandler.ListMine)
		api.DELETE("/applications/:id", limited(appHandler.Withdraw)...)
	}

	if d.Files != nil {
		r.GET("/files/resumes/*key", handlers.NewFileHandler(d.Files).ServeResume)
	}
	return r
}
