package formationapi

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/lib/pq"
	"github.com/mcdev12/lineup/go/internal/models"
	"github.com/rs/zerolog/log"
)

type ListenerConfig struct {
	DatabaseURL          string        // Postgres DSN for LISTEN/NOTIFY
	NotifyChannel        string        // channel the formations trigger notifies on
	PingInterval         time.Duration
	MinReconnectInterval time.Duration
	MaxReconnectInterval time.Duration
}

func DefaultListenerConfig() ListenerConfig {
	return ListenerConfig{
		NotifyChannel:        "formation_changes",
		PingInterval:         90 * time.Second,
		MinReconnectInterval: 10 * time.Second,
		MaxReconnectInterval: time.Minute,
	}
}

type formationReader interface {
	GetFormation(ctx context.Context, teamID uuid.UUID) (*models.FormationSchema, error)
}

type notificationSource interface {
	NotificationChannel() <-chan *pq.Notification
	Ping() error
	Close() error
}

// ChangeListener turns formation row notifications into FormationSaved events,
// so saves made by any instance reach the local sink.
type ChangeListener struct {
	source notificationSource
	repo   formationReader
	sink   Notifier
	clock  clockwork.Clock
	cfg    ListenerConfig
}

func NewChangeListener(cfg ListenerConfig, repo formationReader, sink Notifier) (*ChangeListener, error) {
	l := pq.NewListener(
		cfg.DatabaseURL,
		cfg.MinReconnectInterval,
		cfg.MaxReconnectInterval,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.Error().Err(err).Msg("listener event")
			}
		},
	)
	if err := l.Listen(cfg.NotifyChannel); err != nil {
		l.Close()
		return nil, fmt.Errorf("failed to listen to channel: %w", err)
	}

	log.Info().
		Str("channel", cfg.NotifyChannel).
		Msg("listening for formation changes")

	return newChangeListener(l, repo, sink, clockwork.NewRealClock(), cfg), nil
}

func newChangeListener(source notificationSource, repo formationReader, sink Notifier, clock clockwork.Clock, cfg ListenerConfig) *ChangeListener {
	if cfg.PingInterval <= 0 {
		cfg.PingInterval = DefaultListenerConfig().PingInterval
	}
	return &ChangeListener{
		source: source,
		repo:   repo,
		sink:   sink,
		clock:  clock,
		cfg:    cfg,
	}
}

// Start handles notifications until ctx is done, then closes the listener
func (l *ChangeListener) Start(ctx context.Context) error {
	pingTicker := l.clock.NewTicker(l.cfg.PingInterval)
	defer pingTicker.Stop()

	notifications := l.source.NotificationChannel()
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("formation listener shutting down")
			return l.source.Close()
		case note := <-notifications:
			if note == nil {
				// connection was re-established; notifications sent meanwhile are lost
				continue
			}
			if err := l.handleNotification(ctx, note.Extra); err != nil {
				log.Error().Err(err).Msg("failed to handle formation notification")
			}
		case <-pingTicker.Chan():
			if err := l.source.Ping(); err != nil {
				log.Error().Err(err).Msg("failed to ping listener")
			}
		}
	}
}

// handleNotification reads the formation named by the payload and forwards it
func (l *ChangeListener) handleNotification(ctx context.Context, extra string) error {
	teamID, err := uuid.Parse(extra)
	if err != nil {
		return fmt.Errorf("invalid team id in notification: %w", err)
	}

	schema, err := l.repo.GetFormation(ctx, teamID)
	if err != nil {
		return fmt.Errorf("failed to read changed formation: %w", err)
	}

	event := newSavedEvent(teamID, *schema, l.clock.Now().UTC())
	if err := l.sink.FormationSaved(ctx, event); err != nil {
		return fmt.Errorf("failed to forward formation event: %w", err)
	}
	log.Debug().Str("team_id", teamID.String()).Msg("forwarded formation change")
	return nil
}
