package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof" // Register pprof handlers
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/willsigmon/castaway-council-sub000/internal/config"
	challengedomain "github.com/willsigmon/castaway-council-sub000/internal/modules/challenge/domain"
	challengeDB "github.com/willsigmon/castaway-council-sub000/internal/modules/challenge/repository/db"
	challengeMemory "github.com/willsigmon/castaway-council-sub000/internal/modules/challenge/repository/memory"
	challengeRedis "github.com/willsigmon/castaway-council-sub000/internal/modules/challenge/repository/redis"
	challengeUseCase "github.com/willsigmon/castaway-council-sub000/internal/modules/challenge/usecase"
	notifyRedis "github.com/willsigmon/castaway-council-sub000/internal/modules/notify/redis"
	notifyUseCase "github.com/willsigmon/castaway-council-sub000/internal/modules/notify/usecase"
	notifyWS "github.com/willsigmon/castaway-council-sub000/internal/modules/notify/ws"
	seasonHttp "github.com/willsigmon/castaway-council-sub000/internal/modules/season/adapter/http"
	seasondomain "github.com/willsigmon/castaway-council-sub000/internal/modules/season/domain"
	"github.com/willsigmon/castaway-council-sub000/internal/modules/season/machine"
	seasonDB "github.com/willsigmon/castaway-council-sub000/internal/modules/season/repository/db"
	seasonMemory "github.com/willsigmon/castaway-council-sub000/internal/modules/season/repository/memory"
	seasonUseCase "github.com/willsigmon/castaway-council-sub000/internal/modules/season/usecase"
	tribedomain "github.com/willsigmon/castaway-council-sub000/internal/modules/tribe/domain"
	tribeDB "github.com/willsigmon/castaway-council-sub000/internal/modules/tribe/repository/db"
	tribeMemory "github.com/willsigmon/castaway-council-sub000/internal/modules/tribe/repository/memory"
	tribeUseCase "github.com/willsigmon/castaway-council-sub000/internal/modules/tribe/usecase"
	votedomain "github.com/willsigmon/castaway-council-sub000/internal/modules/vote/domain"
	voteDB "github.com/willsigmon/castaway-council-sub000/internal/modules/vote/repository/db"
	voteMemory "github.com/willsigmon/castaway-council-sub000/internal/modules/vote/repository/memory"
	voteUseCase "github.com/willsigmon/castaway-council-sub000/internal/modules/vote/usecase"
	"github.com/willsigmon/castaway-council-sub000/pkg/apperr"
	"github.com/willsigmon/castaway-council-sub000/pkg/logger"
	"github.com/willsigmon/castaway-council-sub000/pkg/netutil"
	"github.com/willsigmon/castaway-council-sub000/pkg/retry"
)

func main() {
	pprofPort := flag.String("pprof-port", "", "Port to run pprof server on (e.g., 6060)")
	background := flag.Bool("d", false, "Run in background mode (disable console logging)")
	flag.Parse()

	// 1. Load Config
	cfg := config.LoadSeasonServiceConfig()

	// Initialize logger
	logger.InitWithFile(cfg.Log.Filename, cfg.Server.LogLevel, cfg.Log.Format, cfg.Log.EnableConsole && !*background)
	defer logger.Flush()

	if *pprofPort != "" {
		go func() {
			addr := "localhost:" + *pprofPort
			logger.InfoGlobal().Str("addr", addr).Msg("📈 Starting pprof server")
			if err := http.ListenAndServe(addr, nil); err != nil {
				logger.ErrorGlobal().Err(err).Msg("Failed to start pprof server")
			}
		}()
	}

	fmt.Printf("🏝️  Starting Castaway Council... Logs are being written to %s (rotating)\n", cfg.Log.Filename)
	logger.InfoGlobal().Msg("🏝️ Starting Castaway Council season service...")

	// 2. Initialize Infrastructure
	var (
		seasonRepo    seasondomain.SeasonRepository
		summaryRepo   seasondomain.SummaryRepository
		challengeRepo challengedomain.ChallengeRepository
		seedRepo      challengedomain.SeedRepository
		outcomeRepo   challengedomain.OutcomeRepository
		seedVault     challengedomain.SeedVault
		tribeRepo     tribedomain.TribeRepository
		voteRepo      votedomain.VoteRepository
	)

	rdb := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
	})
	defer rdb.Close()
	logger.InfoGlobal().Msg("✅ Redis connected")

	if cfg.RepoType == "db" {
		dbConnStr := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
			cfg.Database.Host, cfg.Database.Port, cfg.Database.User, cfg.Database.Password, cfg.Database.Name)

		db, err := gorm.Open(postgres.Open(dbConnStr), &gorm.Config{
			Logger: logger.NewGormLogger(),
		})
		if err != nil {
			logger.FatalGlobal().Err(err).Msg("Failed to connect to database")
		}

		sqlDB, err := db.DB()
		if err != nil {
			logger.FatalGlobal().Err(err).Msg("Failed to get database instance")
		}
		sqlDB.SetMaxIdleConns(10)
		sqlDB.SetMaxOpenConns(50)
		sqlDB.SetConnMaxLifetime(time.Hour)
		defer sqlDB.Close()

		if err := sqlDB.Ping(); err != nil {
			logger.FatalGlobal().Err(err).Msg("Failed to ping database")
		}

		if err := db.AutoMigrate(
			&seasondomain.Season{},
			&seasondomain.DailySummary{},
			&challengedomain.Challenge{},
			&challengedomain.SeedRecord{},
			&challengedomain.SubjectSeed{},
			&challengedomain.Outcome{},
			&tribedomain.Tribe{},
			&tribedomain.Member{},
			&votedomain.Vote{},
		); err != nil {
			logger.FatalGlobal().Err(err).Msg("Failed to migrate schema")
		}
		logger.InfoGlobal().Msg("✅ Database connected")

		seasonRepo = seasonDB.NewSeasonRepository(db)
		summaryRepo = seasonDB.NewSummaryRepository(db)
		challengeRepo = challengeDB.NewChallengeRepository(db)
		seedRepo = challengeDB.NewSeedRepository(db)
		outcomeRepo = challengeDB.NewOutcomeRepository(db)
		tribeRepo = tribeDB.NewTribeRepository(db)
		voteRepo = voteDB.NewVoteRepository(db)
		seedVault = challengeRedis.NewSeedVault(rdb)
		logger.InfoGlobal().Msg("✅ Repositories: Postgres + Redis seed vault")
	} else {
		seasonRepo = seasonMemory.NewSeasonRepository()
		summaryRepo = seasonMemory.NewSummaryRepository()
		challengeRepo = challengeMemory.NewChallengeRepository()
		seedRepo = challengeMemory.NewSeedRepository()
		outcomeRepo = challengeMemory.NewOutcomeRepository()
		tribeRepo = tribeMemory.NewTribeRepository()
		voteRepo = voteMemory.NewVoteRepository()
		seedVault = challengeMemory.NewSeedVault()
		logger.InfoGlobal().Msg("✅ Repositories: Memory")
	}

	// 3. Initialize Modules

	// Notify module (spectator feed + redis fan-out)
	hub := notifyWS.NewHub()
	go hub.Run()
	notifier := notifyUseCase.NewNotifyUseCase(
		notifyWS.NewNotifier(hub),
		notifyRedis.NewPublisher(rdb),
	)
	logger.InfoGlobal().Msg("✅ Notify module initialized")

	// Challenge module (commit-reveal contests)
	challengeUC := challengeUseCase.NewChallengeUseCase(challengeRepo, seedRepo, outcomeRepo, seedVault)
	logger.InfoGlobal().Msg("✅ Challenge module initialized")

	// Tribe + vote modules
	tribeUC := tribeUseCase.NewTribeUseCase(tribeRepo)
	tallyUC := voteUseCase.NewTallyUseCase(voteRepo, tribeRepo, votedomain.TieBreakPolicy(cfg.TieBreakPolicy))
	logger.InfoGlobal().Msg("✅ Tribe and vote modules initialized")

	// Season module (orchestrator + gateway)
	var gateway seasondomain.ActivityGateway = seasonUseCase.NewActivityUseCase(
		challengeRepo, challengeUC, tallyUC, tribeUC, tribeRepo, summaryRepo, notifier,
	)
	retrier := retry.New(retry.Config{
		MaxAttempts: cfg.Retry.MaxAttempts,
		BaseDelay:   cfg.Retry.BaseDelay,
		MaxDelay:    cfg.Retry.MaxDelay,
		Retryable:   apperr.IsTransient,
	})
	orchestrator := machine.NewOrchestrator(seasonRepo, gateway, retrier)
	seasonUC := seasonUseCase.NewSeasonUseCase(seasonRepo, orchestrator)
	logger.InfoGlobal().Msg("✅ Season module initialized")

	// Resume seasons the previous process left in flight
	resumed, err := seasonUC.Resume(context.Background())
	if err != nil {
		logger.FatalGlobal().Err(err).Msg("Failed to resume seasons")
	}
	if resumed > 0 {
		logger.InfoGlobal().Int("count", resumed).Msg("♻️ Resumed in-progress seasons")
	}

	// 4. Setup HTTP Server
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(logger.GinMiddleware())

	httpHandler := seasonHttp.NewHandler(seasonUC, challengeUC, tallyUC, tribeUC)
	httpHandler.RegisterRoutes(router.Group("/api"))
	seasonHttp.NewWSHandler(hub).RegisterRoutes(router)

	lis, httpPort, err := netutil.ListenWithFallback(cfg.Server.HTTPPort)
	if err != nil {
		logger.FatalGlobal().Err(err).Msg("Failed to open HTTP listener")
	}

	srv := &http.Server{Handler: router}

	logger.InfoGlobal().
		Int("http_port", httpPort).
		Str("api_url", fmt.Sprintf("http://localhost:%d/api/seasons", httpPort)).
		Str("ws_url", fmt.Sprintf("ws://localhost:%d/ws?season_id=SEASON_ID", httpPort)).
		Msg("🚀 Castaway Council running")

	go func() {
		if err := srv.Serve(lis); err != nil && err != http.ErrServerClosed {
			logger.FatalGlobal().Err(err).Msg("HTTP server failed")
		}
	}()

	// 5. Graceful Shutdown. Running seasons are left as-is on purpose:
	// their persisted {day, phase, phaseEndsAt} lets the next boot resume.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.InfoGlobal().Msg("🛑 Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.ErrorGlobal().Err(err).Msg("HTTP server forced to shutdown")
	}

	logger.InfoGlobal().Msg("🔌 Closing all WebSocket connections...")
	hub.Shutdown()

	logger.InfoGlobal().Msg("👋 Server exited properly")
}
