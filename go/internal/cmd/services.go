package main

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/mcdev12/lineup/go/internal/dbconfig"
	"github.com/mcdev12/lineup/go/internal/formation/preset"
	"github.com/mcdev12/lineup/go/internal/formationapi"
	"github.com/rs/zerolog/log"
)

type Services struct {
	Formations *formationapi.Handler
	Health     *formationapi.HealthChecker
	Hub        *formationapi.Hub
	Publisher  *formationapi.JetStreamPublisher
}

// setupServices wires storage -> app -> handler, plus the change feed
func setupServices(ctx context.Context, config *Config, database *sql.DB, catalog *preset.Catalog) (*Services, error) {
	var repo formationapi.FormationRepository
	if database != nil {
		repo = formationapi.NewRepository(database)
	} else {
		log.Warn().Msg("using in-memory formation storage")
		repo = formationapi.NewMemoryRepository()
	}

	services := &Services{}
	var notifiers []formationapi.Notifier

	if config.Events.WebSocket {
		services.Hub = formationapi.NewHub(formationapi.DefaultHubConfig())
		go services.Hub.Start(ctx)

		if database != nil && config.Events.PostgresListen {
			if err := startChangeListener(ctx, repo, services.Hub); err != nil {
				return nil, err
			}
		} else {
			notifiers = append(notifiers, services.Hub)
		}
	}

	if config.Events.NATS.Enabled {
		jsConfig := formationapi.DefaultJetStreamConfig()
		if config.Events.NATS.URL != "" {
			jsConfig.URL = config.Events.NATS.URL
		}
		if config.Events.NATS.StreamName != "" {
			jsConfig.StreamName = config.Events.NATS.StreamName
		}
		if config.Events.NATS.SubjectPrefix != "" {
			jsConfig.SubjectPrefix = config.Events.NATS.SubjectPrefix
		}

		publisher, err := formationapi.NewJetStreamPublisher(jsConfig)
		if err != nil {
			return nil, fmt.Errorf("failed to create JetStream publisher: %w", err)
		}
		services.Publisher = publisher
		notifiers = append(notifiers, publisher)
		log.Info().Str("url", jsConfig.URL).Str("stream", jsConfig.StreamName).Msg("publishing formation events")
	}

	app := formationapi.NewApp(repo, catalog, clockwork.NewRealClock(), notifiers...)
	services.Formations = formationapi.NewHandler(app, services.Hub)

	var natsChecker formationapi.ConnectionChecker
	if services.Publisher != nil {
		natsChecker = services.Publisher
	}
	services.Health = formationapi.NewHealthChecker(database, natsChecker, services.Hub)
	return services, nil
}

func startChangeListener(ctx context.Context, repo formationapi.FormationRepository, hub *formationapi.Hub) error {
	cfg := formationapi.DefaultListenerConfig()
	cfg.DatabaseURL = dbconfig.NewConfigFromEnv().DSN()

	listener, err := formationapi.NewChangeListener(cfg, repo, hub)
	if err != nil {
		return fmt.Errorf("failed to start formation listener: %w", err)
	}
	go func() {
		if err := listener.Start(ctx); err != nil {
			log.Error().Err(err).Msg("formation listener stopped")
		}
	}()
	return nil
}

func (s *Services) Close() {
	if s.Publisher != nil {
		if err := s.Publisher.Close(); err != nil {
			log.Error().Err(err).Msg("failed to close JetStream publisher")
		}
	}
}
