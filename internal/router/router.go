package router

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hackpsu/admin-console/internal/config"
	"github.com/hackpsu/admin-console/internal/handler"
	"github.com/hackpsu/admin-console/internal/middleware"
	"github.com/hackpsu/admin-console/internal/response"
	"github.com/hackpsu/admin-console/internal/service"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Admin                *handler.AdminHandler
	Hacker               *handler.HackerHandler
	Event                *handler.EventHandler
	Location             *handler.LocationHandler
	Sponsor              *handler.SponsorHandler
	Member               *handler.MemberHandler
	OrganizerApplication *handler.OrganizerApplicationHandler
	Participant          *handler.ParticipantHandler
	ExtraCredit          *handler.ExtraCreditHandler
	Setting              *handler.SettingHandler
	Analytics            *handler.AnalyticsHandler
	WS                   *handler.WSHandler
	System               *handler.SystemHandler
	Screens              []*handler.ScreenHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
// ctx bounds background work owned by the router, such as the rate
// limiter's sweeper.
func SetupRouter(
	ctx context.Context,
	authService *service.AuthService,
	handlers *Handlers,
	cfg *config.Config,
	log zerolog.Logger,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.Metrics())

	// promhttp negotiates its own compression.
	router.Use(middleware.BrotliWithConfig(middleware.BrotliConfig{
		Quality:   middleware.DefaultBrotliConfig.Quality,
		MinLength: middleware.DefaultBrotliConfig.MinLength,
		Skipper:   func(c *gin.Context) bool { return c.Request.URL.Path == "/metrics" },
	}))

	router.GET("/health", handlers.System.Health)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	requireStaff := middleware.RequireStaffJWT(authService)
	mutation := middleware.NewRateLimiter(ctx, cfg.MutationRateLimit, time.Minute).Middleware()

	// ─── 1. WebSocket Group (token in query) ───────────────────────────
	ws := router.Group("/ws/v1/admin")
	ws.Use(requireStaff)
	{
		ws.GET("/invalidations", handlers.WS.InvalidationStream)
	}

	// ─── 2. Admin Group (staff JWT) ────────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(requireStaff, middleware.NoStore())
	{
		// Shell
		adminAPI.GET("/me", handlers.Admin.GetProfile)
		adminAPI.GET("/navigation", middleware.CacheControl("private, max-age=300"), handlers.Admin.Navigation)
		adminAPI.GET("/audit", handlers.Admin.RecentAudit)
		adminAPI.GET("/system/metrics", handlers.System.SystemMetricsSSE)

		// Hackers
		adminAPI.GET("/hackers", handlers.Hacker.ListHackers)
		adminAPI.GET("/hackers/ids", handlers.Hacker.HackerIDs)
		adminAPI.GET("/hackers/export", handlers.Hacker.ExportHackers)
		adminAPI.GET("/hackers/resumes", handlers.Hacker.DownloadAllResumes)
		adminAPI.GET("/hackers/:id", handlers.Hacker.GetHacker)
		adminAPI.GET("/hackers/:id/resume", handlers.Hacker.DownloadResume)
		adminAPI.PATCH("/hackers/:id", mutation, handlers.Hacker.UpdateHacker)
		adminAPI.DELETE("/hackers", mutation, handlers.Hacker.DeleteHackers)

		// Events
		adminAPI.GET("/events", handlers.Event.ListEvents)
		adminAPI.GET("/events/ids", handlers.Event.EventIDs)
		adminAPI.GET("/events/export", handlers.Event.ExportEvents)
		adminAPI.GET("/events/:id", handlers.Event.GetEvent)
		adminAPI.POST("/events", mutation, handlers.Event.CreateEvent)
		adminAPI.PATCH("/events/:id", mutation, handlers.Event.UpdateEvent)
		adminAPI.DELETE("/events", mutation, handlers.Event.DeleteEvents)

		// Locations
		adminAPI.GET("/locations", handlers.Location.ListLocations)
		adminAPI.GET("/locations/ids", handlers.Location.LocationIDs)
		adminAPI.GET("/locations/export", handlers.Location.ExportLocations)
		adminAPI.POST("/locations", mutation, handlers.Location.CreateLocation)
		adminAPI.PATCH("/locations", mutation, handlers.Location.SaveLocations)
		adminAPI.DELETE("/locations", mutation, handlers.Location.DeleteLocations)

		// Sponsorship
		adminAPI.GET("/sponsors", handlers.Sponsor.ListSponsors)
		adminAPI.GET("/sponsors/ids", handlers.Sponsor.SponsorIDs)
		adminAPI.GET("/sponsors/export", handlers.Sponsor.ExportSponsors)
		adminAPI.POST("/sponsors", mutation, handlers.Sponsor.CreateSponsor)
		adminAPI.PATCH("/sponsors/:id", mutation, handlers.Sponsor.UpdateSponsor)
		adminAPI.DELETE("/sponsors", mutation, handlers.Sponsor.DeleteSponsors)

		// Organizer applications
		orgApps := adminAPI.Group("/organizer-applications")
		{
			orgApps.GET("", handlers.OrganizerApplication.ListApplications)
			orgApps.GET("/export", handlers.OrganizerApplication.ExportApplications)
			orgApps.GET("/teams/:team", handlers.OrganizerApplication.ApplicationsByTeam)
			orgApps.GET("/:id", handlers.OrganizerApplication.GetApplication)
			orgApps.POST("/:id/accept", mutation, handlers.OrganizerApplication.AcceptApplication)
			orgApps.POST("/:id/reject", mutation, handlers.OrganizerApplication.RejectApplication)
		}

		// Participant applications
		adminAPI.GET("/participant-applications/:pool", handlers.Participant.ReviewApplicants)
		adminAPI.PATCH("/participant-applications/:pool/status", mutation, handlers.Participant.BulkUpdateApplicationStatus)
		adminAPI.PATCH("/registrations/:id/status", mutation, handlers.Participant.UpdateApplicationStatus)

		// Extra credit
		extraCredit := adminAPI.Group("/extra-credit")
		{
			extraCredit.GET("/classes", handlers.ExtraCredit.ListClasses)
			extraCredit.GET("/classes/ids", handlers.ExtraCredit.ClassIDs)
			extraCredit.GET("/classes/export", handlers.ExtraCredit.ExportClasses)
			extraCredit.POST("/classes", mutation, handlers.ExtraCredit.CreateClass)
			extraCredit.PATCH("/classes/:id", mutation, handlers.ExtraCredit.RenameClass)
			extraCredit.DELETE("/classes", mutation, handlers.ExtraCredit.DeleteClasses)
			extraCredit.GET("/assignments", handlers.ExtraCredit.ListAssignments)
			extraCredit.GET("/assignments/export", handlers.ExtraCredit.ExportAssignments)
		}

		// Analytics
		analytics := adminAPI.Group("/analytics")
		{
			analytics.GET("/summary", handlers.Analytics.Summary)
			analytics.GET("/events", handlers.Analytics.EventScans)
			analytics.GET("/events/export", handlers.Analytics.ExportEventScans)
			analytics.GET("/organizers", handlers.Analytics.OrganizerScans)
			analytics.GET("/organizers/export", handlers.Analytics.ExportOrganizerScans)
		}

		// Settings
		settings := adminAPI.Group("/settings")
		{
			settings.GET("/members", handlers.Member.ListMembers)
			settings.GET("/members/directory", handlers.Member.MemberDirectory)
			settings.GET("/members/options", handlers.Member.MemberOptions)
			settings.GET("/members/export", handlers.Member.ExportMembers)
			settings.POST("/members", mutation, handlers.Member.CreateMember)
			settings.PATCH("/members", mutation, handlers.Member.SaveMembers)
			settings.DELETE("/members", mutation, handlers.Member.DeleteMembers)

			settings.GET("/hackathons", handlers.Setting.ListHackathons)
			settings.GET("/hackathons/active", handlers.Setting.ActiveHackathon)
			settings.PATCH("/hackathons", mutation, handlers.Setting.SaveHackathons)

			settings.GET("/flags", handlers.Setting.ListFlags)
			settings.PATCH("/flags", mutation, handlers.Setting.SaveFlags)
		}

		// Shared table routes
		for _, screen := range handlers.Screens {
			adminAPI.GET(screen.Path()+"/columns", screen.Columns)
			adminAPI.POST(screen.Path()+"/selection", screen.Selection)
			adminAPI.POST(screen.Path()+"/refresh", mutation, screen.Refresh)
		}
	}

	return router
}
