package main

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/campusfm/songday/internal/catalog"
	"github.com/campusfm/songday/internal/http/api"
	adminapi "github.com/campusfm/songday/internal/http/api/admin/endpoints"
	authapi "github.com/campusfm/songday/internal/http/api/admin/auth/endpoints"
	studentapi "github.com/campusfm/songday/internal/http/api/student/endpoints"
	"github.com/campusfm/songday/internal/http/middleware"
	"github.com/campusfm/songday/internal/intake"
	"github.com/campusfm/songday/internal/model"
	"github.com/campusfm/songday/internal/moderation"
	"github.com/campusfm/songday/internal/storage"
	"github.com/campusfm/songday/internal/store"
	"github.com/campusfm/songday/internal/votes"
)

// RegisterRoutes sets up all application routes
func RegisterRoutes(
	r *gin.Engine,
	env Environment,
	st *store.Store,
	intakeSvc *intake.Service,
	ledger *votes.Ledger,
	reviewer *moderation.Reviewer,
	catalogClient *catalog.Client,
	audioCache storage.Storage,
) {
	// CORS
	r.Use(cors.New(cors.Config{
		AllowOriginFunc: func(origin string) bool { return true },
		AllowMethods: []string{
			"GET",
			"POST",
			"PUT",
			"DELETE",
			"OPTIONS",
			"HEAD",
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Type",
			"Authorization",
			"Accept",
		},
		AllowCredentials: true,
	}))

	// Public student surface; every request gets a voter session cookie.
	api.MountGroup(r, api.GroupConfig{
		Prefix:     "/api",
		Middleware: []gin.HandlerFunc{middleware.VoterSession()},
	},
		studentapi.RequestsModule(st, intakeSvc, ledger, catalogClient, audioCache),
	)

	// Admin login is public.
	api.MountGroup(r, api.GroupConfig{
		Prefix: "/api/admin",
	},
		authapi.AuthPublicModule(env.SecretKey, st),
	)

	// Playback surface: both roles.
	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: env.SecretKey,
		Store:     st,
	},
		authapi.AuthSessionModule(env.SecretKey, st),
		adminapi.PlaybackModule(st, catalogClient, audioCache),
	)

	// Destructive and moderation operations: admin role only.
	api.MountGroup(r, api.GroupConfig{
		Prefix:    "/api/admin",
		Auth:      true,
		SecretKey: env.SecretKey,
		Store:     st,
		Middleware: []gin.HandlerFunc{
			middleware.RoleRequired(model.RoleAdmin),
		},
	},
		adminapi.RequestAdminModule(st, catalogClient, audioCache),
		adminapi.ModerationModule(reviewer),
		adminapi.SystemModule(st),
	)

	// Cached audio files
	if !env.UseSpaces {
		r.Static(audioPublicPrefix, env.AudioCacheDir)
	}
}
