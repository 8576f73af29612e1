package main

import (
	"context"
	"net/http"
	"time"

	lambdaEvents "github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/guardianapis/product-switch/internal/api"
	v1 "github.com/guardianapis/product-switch/internal/api/v1"
	"github.com/guardianapis/product-switch/internal/billing"
	"github.com/guardianapis/product-switch/internal/config"
	"github.com/guardianapis/product-switch/internal/domain/productswitch"
	"github.com/guardianapis/product-switch/internal/logger"
	"github.com/guardianapis/product-switch/internal/notification"
	"github.com/guardianapis/product-switch/internal/s3"
	"github.com/guardianapis/product-switch/internal/sentry"
	"github.com/guardianapis/product-switch/internal/service"
	"github.com/guardianapis/product-switch/internal/types"
	"go.uber.org/fx"
)

func init() {
	// All date arithmetic is UTC end to end.
	time.Local = time.UTC
}

func main() {
	_ = godotenv.Load()

	app := fx.New(
		fx.Provide(
			config.NewConfig,
			provideLogger,
			sentry.NewSentryService,
			s3.NewStore,
			service.NewCatalogService,
			billing.NewClient,
			providePublisher,
			service.NewRegistry,
			service.NewServiceParams,
			service.NewProductSwitchService,
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(
			sentry.RegisterHooks,
			validateRegistry,
			startServer,
		),
	)

	app.Run()
}

func provideLogger(cfg *config.Configuration) (*logger.Logger, error) {
	return logger.NewLogger(cfg.Logging.Level)
}

func providePublisher(cfg *config.Configuration, log *logger.Logger) (notification.Publisher, error) {
	if !cfg.Notification.Enabled {
		return notification.NoopPublisher{}, nil
	}
	return notification.NewSQSPublisher(cfg, log)
}

func provideHandlers(svc service.ProductSwitchService, log *logger.Logger) api.Handlers {
	return api.Handlers{
		Switch: v1.NewSwitchHandler(svc, log),
		Health: v1.NewHealthHandler(log),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, log *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, log)
}

// The registry is static, so an incomplete or invalid handler table should
// stop the process before it serves a single request.
func validateRegistry(registry *productswitch.Registry) error {
	return registry.Validate()
}

func startServer(lc fx.Lifecycle, cfg *config.Configuration, r *gin.Engine, log *logger.Logger) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal, types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	case types.ModeAWSLambdaAPI:
		startAWSLambdaAPI(r)
	default:
		log.Fatalf("unknown deployment mode: %s", mode)
	}
}

func startAPIServer(lc fx.Lifecycle, r *gin.Engine, cfg *config.Configuration, log *logger.Logger) {
	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Infow("starting server", "address", cfg.Server.Address)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatalf("failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return server.Shutdown(ctx)
		},
	})
}

func startAWSLambdaAPI(r *gin.Engine) {
	ginLambda := ginadapter.New(r)
	lambda.Start(func(ctx context.Context, req lambdaEvents.APIGatewayProxyRequest) (lambdaEvents.APIGatewayProxyResponse, error) {
		return ginLambda.ProxyWithContext(ctx, req)
	})
}
