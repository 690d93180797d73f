package app

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/jmjm940628-pixel/BossTimerBot/internal/config"
	"github.com/jmjm940628-pixel/BossTimerBot/internal/schedule"
	"github.com/jmjm940628-pixel/BossTimerBot/internal/scheduler"
	"github.com/jmjm940628-pixel/BossTimerBot/internal/storage"
	"github.com/jmjm940628-pixel/BossTimerBot/internal/telegram"
)

type App struct {
	cfg     config.Config
	log     *zap.Logger
	loc     *time.Location
	bot     *tgbotapi.BotAPI
	httpSrv *http.Server

	adapter storage.Adapter
	store   *schedule.Store
	router  *telegram.Router
	sched   *scheduler.Scheduler
}

func New(cfg config.Config, log *zap.Logger) (*App, error) {
	loc, err := time.LoadLocation(cfg.TZName)
	if err != nil {
		return nil, err
	}

	bot, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		return nil, err
	}
	bot.Debug = false

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      mux,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	}

	return &App{cfg: cfg, log: log, loc: loc, bot: bot, httpSrv: srv}, nil
}

func (a *App) Run(ctx context.Context) error {
	a.log.Info("starting boss timer bot",
		zap.String("tz", a.cfg.TZName),
		zap.String("storage", a.cfg.StorageDriver),
		zap.Duration("poll_interval", a.cfg.PollInterval),
		zap.Duration("pre_alert_window", a.cfg.PreAlertWindow),
		zap.String("http", a.cfg.HTTPAddr),
	)

	adapter, err := storage.Open(ctx, storage.Config{
		Driver: a.cfg.StorageDriver,
		Path:   a.cfg.DataPath,
	}, a.log)
	if err != nil {
		a.log.Error("open storage failed", zap.Error(err))
		return err
	}
	a.adapter = adapter

	a.store = schedule.New(adapter, a.log)
	if err := a.store.Load(ctx); err != nil {
		a.log.Error("schedule load failed", zap.Error(err))
		return err
	}

	a.router = telegram.NewRouter(a.bot, a.log, a.store, a.loc)
	msgr := telegram.NewMessenger(a.bot, a.log)
	a.sched = scheduler.New(a.store, a.log, msgr, msgr, a.cfg.PollInterval, a.cfg.PreAlertWindow)

	go func() {
		if err := a.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.log.Error("http server error", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		a.sched.Run(ctx)
	}()

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updCh := a.bot.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			a.log.Info("shutdown signal received")

			shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			err := a.httpSrv.Shutdown(shCtx)
			cancel()
			if err != nil {
				a.log.Warn("http server shutdown error", zap.Error(err))
			}

			// The scheduler may be mid-tick with a persist in flight;
			// let it finish before the adapter goes away.
			wg.Wait()
			if a.adapter != nil {
				_ = a.adapter.Close()
			}
			return nil

		case upd := <-updCh:
			a.router.HandleUpdate(ctx, upd)
		}
	}
}
