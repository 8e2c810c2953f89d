package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fadedpez/friendbet/internal/api"
	"github.com/fadedpez/friendbet/internal/auth"
	"github.com/fadedpez/friendbet/internal/config"
	"github.com/fadedpez/friendbet/internal/logging"
	"github.com/fadedpez/friendbet/internal/metrics"
	"github.com/fadedpez/friendbet/pkg/entities"
	"github.com/fadedpez/friendbet/pkg/notify"
	"github.com/fadedpez/friendbet/pkg/repositories/activity"
	"github.com/fadedpez/friendbet/pkg/repositories/ledger"
	"github.com/fadedpez/friendbet/pkg/scheduler"
	"github.com/fadedpez/friendbet/pkg/services/betting"
	"github.com/fadedpez/friendbet/pkg/services/leaderboard"
	"github.com/fadedpez/friendbet/pkg/services/social"
	"github.com/fadedpez/friendbet/pkg/settlement"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "Address to listen on (overrides http.addr)")
	serveCmd.Flags().String("config", "", "Path to a TOML config file (overrides FRIENDBET_CONFIG)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the betting API",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		os.Setenv("FRIENDBET_CONFIG", path)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.HTTP.Addr = addr
	}

	logger, err := logging.New("friendbet", cfg.Environment)
	if err != nil {
		return fmt.Errorf("error creating logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := openStore(ctx, cfg.Storage, logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.NewMetrics(reg)

	sinks, clients, err := buildNotifier(ctx, cfg.Notify, repo, logger)
	if err != nil {
		return err
	}
	defer closeAll(clients, logger)
	dispatcher := notify.NewDispatcher(sinks, cfg.Notify.Workers, cfg.Notify.QueueSize,
		notify.WithLogger(logger),
		notify.WithErrorHandler(func(n *entities.Notification, err error) {
			for _, sink := range notify.FailedSinks(err) {
				m.NotificationFailed(sink)
			}
			logger.Warn("notification delivery failed",
				zap.String("user_id", n.UserID),
				zap.String("type", string(n.Type)),
				zap.Error(err))
		}),
	)
	defer dispatcher.Close()

	archive, err := openArchive(ctx, cfg.Elasticsearch, logger)
	if err != nil {
		return err
	}

	model, err := settlement.ModelByName(cfg.Settlement.Model)
	if err != nil {
		return err
	}

	bets := betting.NewService(repo, dispatcher,
		betting.WithLogger(logger),
		betting.WithModel(model),
		betting.WithArchive(archive),
		betting.WithMetrics(m),
		betting.WithRules(betting.Rules{
			BonusPercent:    cfg.Settlement.CreatorBonusPercent,
			PowerupValue:    cfg.Settlement.PowerupValue,
			PowerupDuration: cfg.Settlement.PowerupDuration,
		}),
	)
	board := leaderboard.NewService(repo)
	people := social.NewService(repo,
		social.WithLogger(logger),
		social.WithArchive(archive),
	)

	tokens := auth.NewTokenStore(cfg.Tokens).WithPersister(repo)
	server := api.NewServer(bets, board, people, tokens, logger)
	server.SetTokenIssuer(tokens)
	server.SetHealthCheck(repo.Ping)
	server.EnableMetrics(reg)

	sched := scheduler.NewScheduler(logger)
	if cfg.Scheduler.PowerupCleanupInterval > 0 {
		sched.AddTask("powerup-expiry", cfg.Scheduler.PowerupCleanupInterval,
			scheduler.PowerupExpiryTask(repo, m, logger, time.Now))
	}
	sched.Start(ctx)
	defer sched.Stop()

	httpServer := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening",
			zap.String("addr", cfg.HTTP.Addr),
			zap.String("storage", cfg.Storage.Type),
			zap.String("model", model.Name()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logging.LogError(logger, "error shutting down http server", err)
	}
	return nil
}

// openStore picks the ledger backend named by the storage config
func openStore(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (ledger.Repository, error) {
	switch cfg.Type {
	case config.StorageMemory:
		logger.Warn("using in-memory storage, data will be lost on restart")
		return ledger.NewMemoryRepository(), nil
	case config.StorageSQLite:
		logger.Info("opening sqlite storage", zap.String("path", cfg.SQLitePath))
		return ledger.NewSQLiteRepository(ctx, cfg.SQLitePath, logger)
	case config.StoragePostgres:
		logger.Info("opening postgres storage")
		return ledger.NewPostgresRepository(ctx, cfg.PostgresDSN, logger)
	default:
		return nil, fmt.Errorf("unknown storage type %q", cfg.Type)
	}
}

// buildNotifier always delivers to the inbox and adds every external sink
// that has an address configured. The returned clients must be closed after
// the dispatcher has drained.
func buildNotifier(ctx context.Context, cfg config.NotifyConfig, inbox notify.InboxStore, logger *zap.Logger) (*notify.Multi, []io.Closer, error) {
	multi := notify.NewMulti(notify.Sink{Name: "inbox", Notifier: notify.NewInbox(inbox)})
	var clients []io.Closer

	if cfg.DiscordToken != "" {
		session, err := notify.NewDiscordSession(cfg.DiscordToken)
		if err != nil {
			return nil, nil, fmt.Errorf("error creating discord session: %w", err)
		}
		multi.Add("discord", notify.NewDiscord(session, cfg.DiscordChannelID))
	}

	if len(cfg.KafkaBrokers) > 0 {
		writer := notify.NewKafkaWriter(cfg.KafkaBrokers, cfg.KafkaTopic)
		clients = append(clients, writer)
		multi.Add("kafka", notify.NewKafka(writer))
	}

	if cfg.RedisAddr != "" {
		client, err := notify.ConnectRedis(ctx, cfg.RedisAddr)
		if err != nil {
			closeAll(clients, logger)
			return nil, nil, fmt.Errorf("error connecting to redis: %w", err)
		}
		clients = append(clients, client)
		multi.Add("redis", notify.NewRedis(client))
	}

	logger.Info("notification sinks ready", zap.Strings("sinks", multi.Sinks()))
	return multi, clients, nil
}

func closeAll(clients []io.Closer, logger *zap.Logger) {
	for _, c := range clients {
		if err := c.Close(); err != nil {
			logging.LogError(logger, "error closing notification client", err)
		}
	}
}

// openArchive uses Elasticsearch when a URL is configured and keeps the
// activity feed in memory otherwise
func openArchive(ctx context.Context, cfg config.ElasticsearchConfig, logger *zap.Logger) (activity.Archive, error) {
	if cfg.URL == "" {
		return activity.NewMemoryArchive(), nil
	}

	archive, err := activity.NewElasticsearchArchive(ctx, activity.ElasticsearchConfig{
		URL:         cfg.URL,
		Username:    cfg.Username,
		Password:    cfg.Password,
		IndexPrefix: cfg.IndexPrefix,
	})
	if err != nil {
		return nil, fmt.Errorf("error connecting to elasticsearch: %w", err)
	}
	logger.Info("archiving settled bets to elasticsearch", zap.String("url", cfg.URL))
	return archive, nil
}
