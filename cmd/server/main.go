package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/Skotchmaster/stores_api/internal/claims"
	"github.com/Skotchmaster/stores_api/internal/config"
	"github.com/Skotchmaster/stores_api/internal/db"
	"github.com/Skotchmaster/stores_api/internal/es"
	"github.com/Skotchmaster/stores_api/internal/hash"
	"github.com/Skotchmaster/stores_api/internal/httpserver"
	"github.com/Skotchmaster/stores_api/internal/logging"
	"github.com/Skotchmaster/stores_api/internal/middleware/auth"
	"github.com/Skotchmaster/stores_api/internal/mykafka"
	"github.com/Skotchmaster/stores_api/internal/repo"
	"github.com/Skotchmaster/stores_api/internal/revocation"
	"github.com/Skotchmaster/stores_api/internal/search"
	"github.com/Skotchmaster/stores_api/internal/service"
	"github.com/Skotchmaster/stores_api/internal/tokens"
)

func main() {
	cfg := config.MustLoad()
	log := logging.New(cfg.LogLevel).With("service", cfg.ServiceName)
	slog.SetDefault(log)

	if err := run(cfg, log); err != nil {
		log.Error("server_exit", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	gdb, err := db.Open(initCtx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("db init: %w", err)
	}
	defer db.Close(gdb)

	if err := db.Migrate(gdb); err != nil {
		return err
	}

	r := repo.New(gdb)

	var registry interface {
		revocation.Registry
		revocation.Pruner
	}
	switch cfg.RevocationBackend {
	case config.RevocationDB:
		registry = revocation.NewStore(gdb)
	default:
		registry = revocation.NewMemory()
	}

	if cfg.RevocationPruneSchedule != "" {
		sched, err := revocation.NewScheduler(cfg.RevocationPruneSchedule, registry, log)
		if err != nil {
			return err
		}
		sched.Start()
		defer func() {
			stopCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
			defer stop()
			sched.Stop(stopCtx)
		}()
	}

	resolver := claims.Any(
		claims.NewStaticAdmins(cfg.AdminUserIDs...),
		claims.RoleLookup{Source: r},
	)
	issuer := tokens.NewIssuer(cfg.JWTSecret, cfg.AccessTTL, cfg.RefreshTTL, resolver)

	var events mykafka.Publisher = mykafka.Nop{}
	if len(cfg.KafkaBrokers) > 0 {
		events = mykafka.NewProducer(cfg.KafkaBrokers, cfg.KafkaUserTopic)
		log.Info("kafka_enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaUserTopic)
	}
	defer func() {
		if err := events.Close(); err != nil {
			log.Warn("kafka_close_failed", "error", err)
		}
	}()

	var index search.ItemIndex = search.Database{Repo: r}
	if cfg.ESURL != "" {
		client, err := es.NewClient(initCtx, es.Config{URL: cfg.ESURL, User: cfg.ESUser, Password: cfg.ESPassword}, log)
		if err != nil {
			return err
		}
		index = search.NewElastic(client, cfg.ESItemIndex)
	}

	authSvc, err := service.NewAuthService(r, hash.NewHasher(cfg.HashIterations), issuer, registry, events)
	if err != nil {
		return err
	}

	e := httpserver.New(log)
	httpserver.Register(e, &httpserver.Deps{
		Auth:              &httpserver.AuthHTTP{Svc: authSvc},
		Catalog:           &httpserver.CatalogHTTP{Svc: service.NewCatalogService(r, index)},
		Health:            &httpserver.HealthHTTP{DB: gdb},
		Verifier:          auth.NewVerifier(issuer, registry),
		ProtectUserDelete: cfg.ProtectUserDelete,
	})

	addr := ":" + strconv.Itoa(cfg.ServerPort)
	errCh := make(chan error, 1)
	go func() {
		log.Info("server_starting", "addr", addr, "revocation_backend", cfg.RevocationBackend)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("echo start: %w", err)
	case sig := <-stop:
		log.Info("server_stopping", "signal", sig.String())
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("echo shutdown: %w", err)
	}
	return nil
}
