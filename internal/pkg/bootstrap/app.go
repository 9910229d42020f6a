// internal/pkg/bootstrap/app.go
package bootstrap

import (
	"context"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"fraudgate/internal/pkg/logger"
	"fraudgate/internal/pkg/nacos"
	"fraudgate/internal/pkg/tracing"
	"fraudgate/internal/pkg/utils"
)

const shutdownTimeout = 10 * time.Second

type AppCtx struct {
	Router chi.Router
	Nacos  *nacos.Client // 未启用 Nacos 时为 nil
	Config *Config
}

// AppInfo 包含了启动一个微服务所需的所有特定信息。
type AppInfo struct {
	ServiceName      string
	Port             int
	RegisterHandlers func(appCtx AppCtx) error
	// OnShutdown 在 HTTP 服务器关闭之后调用，用于释放数据库、Redis、Kafka 等资源。
	OnShutdown func(ctx context.Context)
}

// StartService 封装了通用的启动和优雅关停逻辑，阻塞直到收到退出信号。
func StartService(info AppInfo) error {
	if err := Init(); err != nil {
		return err
	}
	cfg := GetCurrentConfig()
	logger.Init(cfg.App.LogLevel, cfg.App.LogPretty)

	if info.ServiceName == "" {
		info.ServiceName = cfg.App.Name
	}
	if info.Port == 0 {
		info.Port = cfg.App.Port
	}

	tp, err := tracing.InitTracerProvider(info.ServiceName, cfg.Infra.Jaeger.Endpoint)
	if err != nil {
		return err
	}

	var naming *nacos.Client
	var ip string
	if cfg.Infra.Nacos.Enabled {
		naming, err = nacos.NewNacosClient(cfg.Infra.Nacos.ServerAddrs, cfg.Infra.Nacos.Namespace, cfg.Infra.Nacos.Group)
		if err != nil {
			return err
		}
		ip, err = utils.GetOutboundIP()
		if err != nil {
			return err
		}
		if err := naming.RegisterServiceInstance(info.ServiceName, ip, info.Port); err != nil {
			return err
		}
	}

	router := chi.NewRouter()
	router.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer)
	if info.RegisterHandlers != nil {
		if err := info.RegisterHandlers(AppCtx{Router: router, Nacos: naming, Config: cfg}); err != nil {
			// 注册失败时释放已经打开的资源，服务器尚未启动
			cleanupCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			if naming != nil {
				if derr := naming.DeregisterServiceInstance(info.ServiceName, ip, info.Port); derr != nil {
					log.Error().Err(derr).Msg("deregister from nacos failed")
				}
			}
			if info.OnShutdown != nil {
				info.OnShutdown(cleanupCtx)
			}
			_ = tp.Shutdown(cleanupCtx)
			return err
		}
	}
	server := &http.Server{
		Addr:              ":" + strconv.Itoa(info.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("service", info.ServiceName).Int("port", info.Port).Msg("listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Str("service", info.ServiceName).Msg("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		// 后进先出：先从注册中心摘除，再关 HTTP，最后刷新 trace
		if naming != nil {
			if err := naming.DeregisterServiceInstance(info.ServiceName, ip, info.Port); err != nil {
				log.Error().Err(err).Msg("deregister from nacos failed")
			}
		}
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("http server shutdown failed")
		}
		if info.OnShutdown != nil {
			info.OnShutdown(shutdownCtx)
		}
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("tracer provider shutdown failed")
		}
		return nil
	})

	err = g.Wait()
	log.Info().Str("service", info.ServiceName).Msg("✅ gracefully shut down")
	return err
}
