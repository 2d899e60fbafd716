package app

import (
	"context"
	nethttp "net/http"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/message/router/middleware"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"callcenter/internal/application/services"
	"callcenter/internal/config"
	"callcenter/internal/infrastructure/clients"
	"callcenter/internal/infrastructure/event_publisher"
	"callcenter/internal/interfaces/events"
	"callcenter/internal/interfaces/http"
	"callcenter/internal/observability"
	"callcenter/internal/repository"
)

type App struct {
	logger zerolog.Logger
	router *message.Router
	srv    *http.Server
}

func NewApp(cfg *config.Config, redisClient *redis.Client, logger zerolog.Logger) (*App, error) {
	watermillLogger := observability.NewWatermillLogger(logger)

	fallbackRepo := repository.NewFallbackRepo(redisClient)
	settingsRepo := repository.NewSettingsRepo(redisClient)
	activityRepo := repository.NewActivityRepo(redisClient)

	// a persisted endpoint wins over the configured default
	endpoint, err := settingsRepo.Endpoint(context.Background())
	if err != nil {
		return nil, err
	}
	if endpoint == "" {
		endpoint = cfg.Sheet.Endpoint
	}

	router, err := message.NewRouter(message.RouterConfig{}, watermillLogger)
	if err != nil {
		return nil, err
	}

	var publisher message.Publisher
	publisher, err = redisstream.NewPublisher(redisstream.PublisherConfig{
		Client: redisClient,
	}, watermillLogger)
	if err != nil {
		return nil, err
	}
	publisher = event_publisher.CorrelationPublisherDecorator{Publisher: publisher}

	eventBus, err := NewEventBus(publisher, watermillLogger)
	if err != nil {
		return nil, err
	}

	callService := services.NewCallService(
		endpoint,
		func(endpoint string) services.Gateway {
			return clients.NewSheetGateway(endpoint, nethttp.DefaultClient, logger)
		},
		fallbackRepo,
		settingsRepo,
		eventBus,
		logger,
	)

	srv := http.NewServer(echo.New(), cfg.HTTP.Addr, callService, activityRepo, logger)

	router.AddMiddleware(middleware.Recoverer)
	router.AddMiddleware(events.CorrelationIDMiddleware)
	router.AddMiddleware(events.LoggingMiddleware)

	processor, err := NewEventProcessor(router, redisClient, watermillLogger)
	if err != nil {
		return nil, err
	}
	err = processor.AddHandlers(
		events.TicketReceivedHandler(activityRepo),
		events.TicketBookedHandler(activityRepo),
	)
	if err != nil {
		return nil, err
	}

	return &App{
		logger: logger,
		router: router,
		srv:    srv,
	}, nil
}

func (a *App) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		a.logger.Info().Msg("starting router")
		return a.router.Run(ctx)
	})

	g.Go(func() error {
		<-a.router.Running()
		a.logger.Info().Msg("starting server")
		return a.srv.Start()
	})

	g.Go(func() error {
		<-ctx.Done()

		err := a.srv.Stop(context.Background())
		if err != nil {
			a.logger.Err(err).Msg("error stopping server")
		}
		return err
	})

	return g.Wait()
}

func NewEventBus(pub message.Publisher, logger watermill.LoggerAdapter) (*cqrs.EventBus, error) {
	return cqrs.NewEventBusWithConfig(
		pub,
		cqrs.EventBusConfig{
			GeneratePublishTopic: func(params cqrs.GenerateEventPublishTopicParams) (string, error) {
				return params.EventName, nil
			},
			Marshaler: cqrs.JSONMarshaler{
				GenerateName: cqrs.StructName,
			},
			Logger: logger,
		},
	)
}

func NewEventProcessor(
	router *message.Router,
	rdb *redis.Client,
	logger watermill.LoggerAdapter,
) (*cqrs.EventProcessor, error) {
	return cqrs.NewEventProcessorWithConfig(
		router,
		cqrs.EventProcessorConfig{
			GenerateSubscribeTopic: func(params cqrs.EventProcessorGenerateSubscribeTopicParams) (string, error) {
				return params.EventName, nil
			},
			SubscriberConstructor: func(params cqrs.EventProcessorSubscriberConstructorParams) (message.Subscriber, error) {
				return redisstream.NewSubscriber(redisstream.SubscriberConfig{
					Client:        rdb,
					ConsumerGroup: "svc-callcenter." + params.HandlerName,
				}, logger)
			},
			Marshaler: cqrs.JSONMarshaler{
				GenerateName: cqrs.StructName,
			},
			Logger: logger,
		},
	)
}
