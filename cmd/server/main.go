package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"

	"github.com/yourname/sleepdash/internal"
	"github.com/yourname/sleepdash/internal/api"
	"github.com/yourname/sleepdash/internal/auth"
	"github.com/yourname/sleepdash/internal/config"
	"github.com/yourname/sleepdash/internal/provider"
	"github.com/yourname/sleepdash/internal/service"
	"github.com/yourname/sleepdash/internal/store"
)

type app struct {
	logger    internal.Logger
	store     store.Store
	sleepData *service.SleepDataService
}

func (a *app) Logger() internal.Logger              { return a.logger }
func (a *app) Store() store.Store                   { return a.store }
func (a *app) SleepData() *service.SleepDataService { return a.sleepData }

func main() {
	cfg := config.Load()

	logger, err := internal.NewLogger(cfg.Env, cfg.LogLevel)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	st, err := store.New(cfg.DBType, cfg.DBDSN, store.FilePaths{
		Entries:     cfg.FileEntries,
		Reminders:   cfg.FileReminders,
		Credentials: cfg.FileCredentials,
		Profile:     cfg.FileProfile,
		AppleHealth: cfg.FileAppleHealth,
	}, logger)
	if err != nil {
		logger.Fatalf("failed to init storage: %v", err)
	}

	sleepData := service.NewSleepDataService(logger,
		provider.NewFitbitClient(cfg.Fitbit, logger),
		provider.NewGoogleFitClient(cfg.GoogleFit, logger),
		provider.NewAppleHealthClient(st, logger),
	)

	a := &app{logger: logger, store: st, sleepData: sleepData}

	// The middleware validates locally in development and remotely
	// everywhere else; the provider has to match.
	var authProvider auth.Provider
	if cfg.Env == "development" {
		authProvider = auth.NewLocalAuthProvider(cfg.APIToken, logger)
	} else {
		authProvider = auth.NewRemoteAuthProvider(cfg.AuthServiceURL, logger)
	}
	r := api.NewRouter(a, authProvider, cfg)

	go func() {
		logger.Infof("Server running on %s", cfg.Addr)
		if err := r.Run(cfg.Addr); err != nil {
			logger.Fatalf("failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down, flushing storage")
	if err := st.Close(); err != nil {
		logger.Errorf("failed to close storage: %v", err)
	}
}
