package main

import (
	"context"
	"embed"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"strconv"
	"syscall"
	"time"

	"github.com/Laisky/errors/v2"
	gmw "github.com/Laisky/gin-middlewares/v6"
	glog "github.com/Laisky/go-utils/v5/log"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"
	_ "github.com/joho/godotenv/autoload"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/songquanpeng/echobin/common"
	"github.com/songquanpeng/echobin/common/config"
	"github.com/songquanpeng/echobin/common/graceful"
	"github.com/songquanpeng/echobin/common/logger"
	"github.com/songquanpeng/echobin/middleware"
	"github.com/songquanpeng/echobin/monitor"
	"github.com/songquanpeng/echobin/router"
	"golang.org/x/sync/errgroup"
)

//go:embed web/*
var buildFS embed.FS

func main() {
	common.Init()
	logger.SetupLogger()

	logger.Logger.Info("echobin started", zap.String("version", common.Version))

	if os.Getenv("GIN_MODE") != gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize Prometheus monitoring
	if config.EnablePrometheusMetrics {
		startTime := time.Unix(common.StartTime, 0)
		if err := monitor.InitPrometheusMonitoring(common.Version, startTime.Format(time.RFC3339), runtime.Version(), startTime); err != nil {
			logger.Logger.Fatal("failed to initialize Prometheus monitoring", zap.Error(err))
		}
		logger.Logger.Info("Prometheus monitoring initialized")
	}

	logLevel := glog.LevelInfo
	if config.DebugEnabled {
		logLevel = glog.LevelDebug
	}

	// Initialize HTTP server
	server := gin.New()
	server.RedirectTrailingSlash = false
	server.HandleMethodNotAllowed = true
	server.Use(
		middleware.PanicRecover(),
		gmw.NewLoggerMiddleware(
			gmw.WithLoggerMwColored(),
			gmw.WithLevel(logLevel.String()),
			gmw.WithLogger(logger.Logger.Named("gin")),
		),
	)
	server.Use(middleware.RequestId())
	server.Use(middleware.CORS())
	server.Use(middleware.TrackInFlight())

	if config.EnablePrometheusMetrics {
		server.Use(middleware.PrometheusMiddleware())
		server.GET("/metrics", gin.WrapH(promhttp.Handler()))
		logger.Logger.Info("Prometheus metrics endpoint available at /metrics")
	}

	router.SetRouter(server, buildFS)

	port := config.ServerPort
	if port == "" {
		port = strconv.Itoa(*common.Port)
	}
	addr := net.JoinHostPort(config.BindHost, port)
	srv := &http.Server{
		Addr:    addr,
		Handler: server,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Logger.Info("server started", zap.String("address", "http://"+addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return errors.Wrap(err, "listen and serve")
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutdown server")
		}
		return graceful.Drain(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		logger.Logger.Fatal("server exited", zap.Error(err))
	}
	logger.Logger.Info("server stopped")
}
