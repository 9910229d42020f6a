// cmd/checkout-service/main.go
package main

import (
	"context"
	"slices"

	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"

	"fraudgate/internal/pkg/bootstrap"
	"fraudgate/internal/pkg/httpclient"
	"fraudgate/internal/pkg/mq"
	"fraudgate/internal/pkg/redis"
	"fraudgate/internal/service/fraud/application"
	"fraudgate/internal/service/fraud/application/pipeline"
	"fraudgate/internal/service/fraud/domain/port"
	"fraudgate/internal/service/fraud/infrastructure"
	"fraudgate/internal/service/fraud/infrastructure/adapter"
	"fraudgate/internal/service/fraud/interfaces"
	"fraudgate/internal/service/fraud/payload"
)

const serviceName = "checkout-service"

// main 函数是应用的"组装根" (Composition Root)：创建并组装所有依赖项，然后启动应用。
func main() {
	var closers []func() error

	err := bootstrap.StartService(bootstrap.AppInfo{
		ServiceName: serviceName,
		RegisterHandlers: func(appCtx bootstrap.AppCtx) error {
			cfg := appCtx.Config
			tracer := otel.Tracer(serviceName)

			// 1. 基础设施
			db, err := infrastructure.OpenMySQL(infrastructure.MySQLConfig{
				Addr:     cfg.Infra.MySQL.Addr,
				User:     cfg.Infra.MySQL.User,
				Password: cfg.Infra.MySQL.Password,
				Database: cfg.Infra.MySQL.Database,
			})
			if err != nil {
				return err
			}
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			closers = append(closers, sqlDB.Close)

			redisClient, err := redis.NewClient(cfg.Infra.Redis.Addr, cfg.Infra.Redis.Password, cfg.Infra.Redis.DB)
			if err != nil {
				return err
			}
			closers = append(closers, redisClient.Close)

			decisionWriter := mq.NewKafkaWriter(cfg.Infra.Kafka.Brokers, cfg.Infra.Kafka.DecisionTopic)
			decisionPublisher := adapter.NewDecisionKafkaAdapter(decisionWriter)
			closers = append(closers, decisionPublisher.Close)

			var resolver httpclient.Resolver = httpclient.StaticResolver{
				cfg.Fraud.ScoringService: cfg.Fraud.ScoringBaseURL,
				cfg.PSP.Service:          cfg.PSP.BaseURL,
			}
			if appCtx.Nacos != nil {
				resolver = appCtx.Nacos
			}
			httpClient := httpclient.NewClient(tracer, resolver)

			// 2. 风控决策
			assembler := payload.NewAssembler(
				payload.NewBasicInfoBuilder(),
				payload.NewCartBuilder(),
				payload.NewCustomerBuilder(
					adapter.NewSessionRedisResolver(redisClient),
					infrastructure.NewGormCustomerRepository(db),
				),
				payload.NewPaymentBuilder(),
			)
			guard := application.NewGuard(pipeline.Options{
				CallerHeader: cfg.Fraud.CallerHeader,
				MetadataKey:  cfg.Fraud.MetadataKey,
				Assembler:    assembler,
				Scoring:      adapter.NewScoringHTTPAdapter(httpClient, cfg.Fraud.ScoringService, cfg.Fraud.APIKey, cfg.Fraud.Timeout),
			}, tracer)

			// 3. 应用服务与接口
			placement := application.NewPlacementService(
				infrastructure.NewGormOrderRepository(db),
				adapter.NewPaymentRedisStore(redisClient),
				adapter.NewPSPHTTPAdapter(httpClient, cfg.PSP.Service),
				decisionPublisher,
				guard,
				tracer,
			).WithPaymentMethods(paymentMethodRegistry(cfg.Fraud.PaymentMethods))
			interfaces.NewCheckoutHandler(placement, tracer).RegisterRoutes(appCtx.Router)
			return nil
		},
		OnShutdown: func(ctx context.Context) {
			for _, closeFn := range closers {
				if err := closeFn(); err != nil {
					log.Error().Err(err).Msg("close resource failed")
				}
			}
		},
	})
	if err != nil {
		log.Fatal().Err(err).Msg("checkout service stopped")
	}
}

// paymentMethodRegistry 按提供方名称排序后合并，保证顺序稳定。
func paymentMethodRegistry(byProvider map[string][]string) port.PaymentMethodProvider {
	providers := make([]port.PaymentMethodProvider, 0, len(byProvider))
	names := make([]string, 0, len(byProvider))
	for name := range byProvider {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		providers = append(providers, application.StaticPaymentMethods(byProvider[name]))
	}
	return application.NewCompositePaymentMethodProvider(providers...)
}
