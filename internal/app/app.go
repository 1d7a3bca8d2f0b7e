package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/notAbhay321/monkeytype-streak-notifier/assets"
	"github.com/notAbhay321/monkeytype-streak-notifier/internal/config"
	"github.com/notAbhay321/monkeytype-streak-notifier/internal/crypto"
	"github.com/notAbhay321/monkeytype-streak-notifier/internal/domain"
	"github.com/notAbhay321/monkeytype-streak-notifier/internal/profile"
	"github.com/notAbhay321/monkeytype-streak-notifier/internal/scheduler"
	"github.com/notAbhay321/monkeytype-streak-notifier/internal/session"
	"github.com/notAbhay321/monkeytype-streak-notifier/internal/store"
	"github.com/notAbhay321/monkeytype-streak-notifier/internal/telegram"
)

const sessionPruneInterval = time.Minute

type App struct {
	cfg      config.Config
	log      *zap.Logger
	bot      *tgbotapi.BotAPI
	httpSrv  *http.Server
	dir      store.Directory
	sessions *session.Store
	router   *telegram.Router
	sweeper  *scheduler.Sweeper
	sched    *scheduler.Scheduler // nil unless SWEEP_CRON is set
}

func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, fmt.Errorf("telegram: %w", err)
	}
	bot.Debug = false

	dir, err := openDirectory(ctx, cfg, log.Named("store"))
	if err != nil {
		return nil, err
	}

	templates, err := domain.ParseReminderTemplates(assets.Reminders())
	if err != nil {
		_ = dir.Close()
		return nil, err
	}

	profiles := profile.NewClient(cfg.ProfileURL, cfg.ProfileTimeout, log.Named("profile"))
	sessions := session.NewStore(cfg.SessionTTL)
	router := telegram.NewRouter(bot, log.Named("telegram"), dir, profiles, sessions)

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	a := &App{
		cfg:      cfg,
		log:      log,
		bot:      bot,
		httpSrv:  srv,
		dir:      dir,
		sessions: sessions,
		router:   router,
		sweeper:  scheduler.NewSweeper(dir, profiles, router, templates, log.Named("sweep")),
	}
	if cfg.SweepCron != "" && cfg.RunMode == config.ModePolling {
		if a.sched, err = scheduler.New(cfg.SweepCron, a.sweeper, log.Named("scheduler")); err != nil {
			_ = dir.Close()
			return nil, err
		}
	}
	return a, nil
}

// openDirectory opens the configured user directory backend.
func openDirectory(ctx context.Context, cfg config.Config, log *zap.Logger) (store.Directory, error) {
	var cipher store.CredentialCipher
	if cfg.CredentialKey != "" {
		s, err := crypto.NewSealer(cfg.CredentialKey)
		if err != nil {
			return nil, fmt.Errorf("CREDENTIAL_KEY: %w", err)
		}
		cipher = s
	}

	switch cfg.StoreDriver {
	case config.DriverSQLite:
		repo, err := store.OpenSQLite(ctx, cfg.DBPath, cipher)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		return repo, nil
	default:
		return store.OpenJSON(cfg.UsersFile, cipher, store.WithLogger(log)), nil
	}
}

// Sweep performs exactly one reminder pass.
func (a *App) Sweep(ctx context.Context) error {
	defer a.close()
	rep, err := a.sweeper.Sweep(ctx, time.Now())
	if err != nil {
		a.log.Error("sweep failed", zap.Error(err), zap.String("run", rep.RunID))
		return err
	}
	return nil
}

// Run serves Telegram updates until SIGINT/SIGTERM.
func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting streak bot",
		zap.String("mode", a.cfg.RunMode),
		zap.String("store", a.cfg.StoreDriver),
		zap.String("http", a.cfg.HTTPAddr),
		zap.String("bot", a.bot.Self.UserName),
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	cronDone := make(chan struct{})
	if a.sched != nil {
		go func() {
			defer close(cronDone)
			if err := a.sched.Run(ctx); err != nil {
				a.log.Error("scheduler error", zap.Error(err))
			}
		}()
	} else {
		close(cronDone)
	}

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	prune := time.NewTicker(sessionPruneInterval)
	defer prune.Stop()

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")
			a.bot.StopReceivingUpdates()

			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := a.httpSrv.Shutdown(shCtx)
			cancel()
			if err != nil {
				a.log.Warn("http server shutdown error", zap.Error(err))
			}
			<-cronDone
			a.close()
			return nil

		case <-prune.C:
			if n := a.sessions.Prune(); n > 0 {
				a.log.Debug("expired registration sessions", zap.Int("count", n))
			}

		case upd, ok := <-updCh:
			if !ok {
				a.log.Warn("updates channel closed")
				updCh = nil
				stop()
				continue
			}
			a.router.HandleUpdate(ctx, upd)
		}
	}
}

func (a *App) close() {
	if err := a.dir.Close(); err != nil {
		a.log.Warn("close directory", zap.Error(err))
	}
}
