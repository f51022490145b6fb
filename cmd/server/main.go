package main

import (
	"context"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/campusfm/songday/internal/catalog"
	"github.com/campusfm/songday/internal/clock"
	"github.com/campusfm/songday/internal/http/middleware"
	"github.com/campusfm/songday/internal/intake"
	"github.com/campusfm/songday/internal/moderation"
	appredis "github.com/campusfm/songday/internal/redis"
	"github.com/campusfm/songday/internal/store"
	"github.com/campusfm/songday/internal/sweeper"
	"github.com/campusfm/songday/internal/votes"
)

const catalogTimeout = 10 * time.Second

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	env := LoadEnvironment()
	if env.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	clk := clock.Real{}

	st, err := store.New(env.DataDir, clk)
	if err != nil {
		log.Fatal().Err(err).Msg("could not open data directory")
	}
	SeedAdminAccounts(st, env)

	audioCache := InitStorage(env)

	catalogClient := catalog.NewClient(env.CatalogBaseURL, catalogTimeout)
	downloader := catalog.NewDownloader(catalogClient, audioCache)

	// Display notifier is optional; without a broker the services get nil
	// and skip publishing.
	var notifier *middleware.DisplayNotifier
	if env.MQTTBroker != "" {
		client, err := middleware.CreateMQTTClient(env.MQTTBroker, "songday-server")
		if err != nil {
			log.Fatal().Err(err).Msg("could not connect to MQTT broker")
		}
		notifier = middleware.NewDisplayNotifier(client)
	}

	var sessions votes.SessionStore
	if env.RedisAddress != "" {
		rdb := appredis.InitRedis(env.RedisAddress, env.RedisUsername, env.RedisPassword)
		sessions = votes.NewRedisSessions(rdb)
		log.Info().Str("addr", env.RedisAddress).Msg("voter sessions stored in redis")
	} else {
		sessions = votes.NewMemorySessions()
		log.Info().Msg("voter sessions stored in memory")
	}

	// A nil notifier is fine: ListChanged is a no-op without a client.
	intakeSvc := intake.NewService(st, clk, downloader, notifier)
	ledger := votes.NewLedger(st, sessions, notifier)

	completer := moderation.NewClient(env.ModerationBaseURL, env.ModerationAPIKey,
		env.ModerationModel, 60*time.Second)
	reviewer := moderation.NewReviewer(completer, st)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sweeper.New(st, audioCache, clk).Start(ctx)

	r := gin.Default()
	RegisterRoutes(r, env, st, intakeSvc, ledger, reviewer, catalogClient, audioCache)

	log.Info().Str("addr", env.ServerAddress).Msg("listening")
	if err := r.Run(env.ServerAddress); err != nil {
		log.Fatal().Err(err).Msg("server error")
	}
}
