package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	pkgkafka "contactbook/pkg/kafka"
	"contactbook/pkg/logger"
	pkgpostgres "contactbook/pkg/postgres"
	pkgredis "contactbook/pkg/redis"
	"contactbook/services/contact-service/config"
	httpDelivery "contactbook/services/contact-service/delivery/http"
	"contactbook/services/contact-service/domain/model"
	"contactbook/services/contact-service/domain/repository"
	"contactbook/services/contact-service/intent"
	kafkaRepository "contactbook/services/contact-service/repository/kafka"
	"contactbook/services/contact-service/repository/memory"
	"contactbook/services/contact-service/repository/oracle"
	pgRepository "contactbook/services/contact-service/repository/postgres"
	redisRepository "contactbook/services/contact-service/repository/redis"
	"contactbook/services/contact-service/usecase"
)

// app holds the wired use cases and everything that must be closed on exit
type app struct {
	cfg     *config.Config
	logger  logger.LoggerInterface
	users   usecase.UserUseCase
	chat    usecase.ChatUseCase
	closers []func() error
}

// newApp wires stores, locks, events and the oracle according to cfg
func newApp(ctx context.Context, cfg *config.Config, appLogger logger.LoggerInterface) (*app, error) {
	a := &app{cfg: cfg, logger: appLogger}
	ready := false
	defer func() {
		if !ready {
			_ = a.close()
		}
	}()

	store, err := a.userStore()
	if err != nil {
		return nil, err
	}

	opts := []usecase.UserUseCaseOption{}

	locker, err := a.emailLocker()
	if err != nil {
		return nil, err
	}
	opts = append(opts, usecase.WithEmailLocker(locker))

	publisher, err := a.eventPublisher()
	if err != nil {
		return nil, err
	}
	opts = append(opts, usecase.WithEventPublisher(publisher))

	intentOracle, err := a.newOracle(ctx)
	if err != nil {
		return nil, err
	}

	a.users = usecase.NewUserUseCase(store, appLogger, opts...)
	resolver := intent.NewResolver(intent.NewParser(), intentOracle, appLogger,
		intent.WithOracleTimeout(time.Duration(cfg.Oracle.Timeout)*time.Second))
	a.chat = usecase.NewChatUseCase(resolver, usecase.NewActionDispatcher(a.users, appLogger), appLogger)
	ready = true
	return a, nil
}

func (a *app) userStore() (repository.UserStore, error) {
	switch a.cfg.Storage.Driver {
	case config.DriverPostgres:
		client, err := openPostgres(a.cfg)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, client.Close)

		if a.cfg.Infrastructure.Postgres.AutoMigrate {
			if err := client.Migrate(&model.User{}); err != nil {
				return nil, err
			}
		}
		a.logger.Info("Using PostgreSQL contact store", "host", a.cfg.Infrastructure.Postgres.Host, "dbname", a.cfg.Infrastructure.Postgres.DBName)
		return pgRepository.NewUserRepository(client.GetDB(), a.logger), nil
	default:
		var opts []memory.Option
		if a.cfg.Storage.SeedSampleData {
			opts = append(opts, memory.WithSeed(memory.SampleUsers()...))
		}
		a.logger.Info("Using in-memory contact store", "seeded", a.cfg.Storage.SeedSampleData)
		return memory.NewUserStore(opts...), nil
	}
}

func openPostgres(cfg *config.Config) (pkgpostgres.PostgresClient, error) {
	pg := cfg.Infrastructure.Postgres
	client, err := pkgpostgres.NewPostgresClient(pkgpostgres.Config{
		Host:            pg.Host,
		Port:            pg.Port,
		User:            pg.User,
		Password:        pg.Password,
		DBName:          pg.DBName,
		Schema:          pg.Schema,
		SSLMode:         pg.SSLMode,
		MaxIdleConns:    pg.MaxIdleConns,
		MaxOpenConns:    pg.MaxOpenConns,
		ConnMaxIdleTime: pg.ConnMaxIdleTime,
		ConnMaxLifetime: pg.ConnMaxLifetime,
		Debug:           pg.Debug,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return client, nil
}

func (a *app) emailLocker() (repository.EmailLocker, error) {
	rc := a.cfg.Infrastructure.Redis
	if !rc.Enabled {
		return memory.NewEmailLocker(), nil
	}

	redisCfg := pkgredis.LockConfig(rc.Addrs...)
	redisCfg.Username = rc.Username
	redisCfg.Password = rc.Password
	redisCfg.DB = rc.DB
	if rc.PoolSize > 0 {
		redisCfg.PoolSize = rc.PoolSize
	}
	client, err := pkgredis.NewWithConfig(redisCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
	}
	a.closers = append(a.closers, client.Close)

	a.logger.Info("Using Redis email locks", "addrs", rc.Addrs)
	return redisRepository.NewEmailLocker(client, redisRepository.Config{
		TTL: time.Duration(rc.LockTTL) * time.Second,
	}, a.logger), nil
}

func (a *app) eventPublisher() (repository.UserEventPublisher, error) {
	kc := a.cfg.Infrastructure.Kafka
	if !kc.Enabled {
		return kafkaRepository.NewNoopPublisher(), nil
	}

	client, err := pkgkafka.NewWithConfig(pkgkafka.Config{
		Brokers:                kc.Brokers,
		ClientID:               kc.ClientID,
		AllowAutoTopicCreation: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Kafka client: %w", err)
	}

	publisher := kafkaRepository.NewUserEventPublisher(client, kc.Topics.UserEvents, a.logger)
	a.closers = append(a.closers, publisher.Close)

	a.logger.Info("Publishing user events", "brokers", kc.Brokers, "topic", kc.Topics.UserEvents)
	return publisher, nil
}

func (a *app) newOracle(ctx context.Context) (intent.Oracle, error) {
	oc := a.cfg.Oracle
	switch oc.Provider {
	case config.OracleGemini:
		o, err := oracle.NewGeminiOracle(ctx, oc.Gemini.APIKey, oc.Gemini.Model, a.logger)
		if err != nil {
			return nil, err
		}
		a.logger.Info("Using Gemini intent oracle", "model", oc.Gemini.Model)
		return o, nil
	case config.OracleHTTP:
		a.logger.Info("Using HTTP intent oracle", "base_url", oc.HTTP.BaseURL)
		return oracle.NewHTTPOracle(oracle.HTTPConfig{
			BaseURL:    oc.HTTP.BaseURL,
			Path:       oc.HTTP.Path,
			APIKey:     oc.HTTP.APIKey,
			RetryCount: oc.HTTP.RetryCount,
			Timeout:    time.Duration(oc.Timeout) * time.Second,
		}, a.logger), nil
	default:
		a.logger.Info("No intent oracle configured, using keyword matching only")
		return nil, nil
	}
}

// handler builds the HTTP routes over the wired use cases
func (a *app) handler() http.Handler {
	return httpDelivery.NewRouter(
		httpDelivery.NewUserHandler(a.users, a.logger),
		httpDelivery.NewChatHandler(a.chat, a.logger),
		httpDelivery.NewHealthHandler(a.logger),
		a.logger,
		a.cfg.Server.CORSOrigins,
	).SetupRoutes()
}

// close releases resources in reverse order of acquisition
func (a *app) close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
