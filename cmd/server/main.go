package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/virtual-study-partner/adapters/event"
	httpAdapter "github.com/khoahotran/virtual-study-partner/adapters/http"
	"github.com/khoahotran/virtual-study-partner/adapters/persistence"
	"github.com/khoahotran/virtual-study-partner/internal/application/usecase"
	authUC "github.com/khoahotran/virtual-study-partner/internal/application/usecase/auth"
	catalogUC "github.com/khoahotran/virtual-study-partner/internal/application/usecase/catalog"
	profileUC "github.com/khoahotran/virtual-study-partner/internal/application/usecase/profile"
	videoUC "github.com/khoahotran/virtual-study-partner/internal/application/usecase/video"
	"github.com/khoahotran/virtual-study-partner/internal/config"
	"github.com/khoahotran/virtual-study-partner/internal/domain/course"
	"github.com/khoahotran/virtual-study-partner/internal/domain/playlist"
	"github.com/khoahotran/virtual-study-partner/internal/domain/teacher"
	"github.com/khoahotran/virtual-study-partner/pkg/auth"
	"github.com/khoahotran/virtual-study-partner/pkg/logger"
	"github.com/khoahotran/virtual-study-partner/pkg/tracing"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	appLogger := logger.NewZapLogger(cfg.App.Env)
	defer appLogger.Sync()
	if err != nil {
		appLogger.Fatal("cannot load config", err)
	}
	appLogger.Info("Start Virtual Study Partner API Server...", zap.String("env", cfg.App.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := tracing.NewTracerProvider(cfg, appLogger, "virtual-study-partner-api")
	if err != nil {
		appLogger.Fatal("cannot init tracer", err)
	}
	defer tp.Shutdown(context.Background())

	// Initialize dependencies
	store, err := persistence.OpenStore(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot open document store", err)
	}
	defer store.Close(context.Background())

	if err := persistence.EnsureIndexes(ctx, store); err != nil {
		appLogger.Fatal("cannot create indexes", err)
	}

	redisClient, err := persistence.NewRedisClient(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Redis", err)
	}
	readiness := map[string]httpAdapter.Pinger{"store": store}
	if redisClient != nil {
		defer redisClient.Close()
		readiness["redis"] = persistence.RedisPinger{Client: redisClient}
	}

	publisher, closePublisher, err := event.NewPublisher(cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot init Kafka", err)
	}
	defer closePublisher()

	// Repositories
	userRepo := persistence.NewUserRepo(store)
	courseRepo := persistence.NewCachedCatalogRepo(persistence.NewCourseRepo(store), redisClient, course.Kind, cfg.Redis.CatalogTTL, appLogger)
	playlistRepo := persistence.NewCachedCatalogRepo(persistence.NewPlaylistRepo(store), redisClient, playlist.Kind, cfg.Redis.CatalogTTL, appLogger)
	teacherRepo := persistence.NewCachedCatalogRepo(persistence.NewTeacherRepo(store), redisClient, teacher.Kind, cfg.Redis.CatalogTTL, appLogger)

	// Services
	hasher := auth.NewHasher(cfg.Auth.BcryptCost)

	// Use Cases
	registerUseCase := authUC.NewRegisterUseCase(userRepo, hasher, publisher, appLogger)
	loginUseCase := authUC.NewLoginUseCase(userRepo, hasher, publisher, appLogger)
	updateProfileUseCase := profileUC.NewUpdateProfileUseCase(userRepo, hasher, publisher, appLogger)
	courseUseCase := catalogUC.NewUseCase(courseRepo, course.Kind, appLogger)
	playlistUseCase := catalogUC.NewUseCase(playlistRepo, playlist.Kind, appLogger)
	teacherUseCase := catalogUC.NewUseCase(teacherRepo, teacher.Kind, appLogger)
	watchVideoUseCase := videoUC.NewWatchVideoUseCase(publisher, appLogger)

	// HTTP Handlers
	handlers := httpAdapter.Handlers{
		Auth:      httpAdapter.NewAuthHandler(registerUseCase, loginUseCase, appLogger),
		Profile:   httpAdapter.NewProfileHandler(updateProfileUseCase, appLogger),
		Courses:   httpAdapter.NewCatalogHandler(courseUseCase),
		Playlists: httpAdapter.NewCatalogHandler(playlistUseCase),
		Teachers:  httpAdapter.NewCatalogHandler(teacherUseCase),
		Video:     httpAdapter.NewVideoHandler(watchVideoUseCase),
		Health:    httpAdapter.NewHealthHandler(readiness, appLogger),
	}

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := httpAdapter.NewRouter(handlers, cfg.App.StaticDir, appLogger)

	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("Cannot run server", err)
			stop()
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
	// closePublisher runs deferred, after in-flight events are out
	if err := usecase.DrainPublishes(shutdownCtx); err != nil {
		appLogger.Warn("Pending events dropped at shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited")
}
