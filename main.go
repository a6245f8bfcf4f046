package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"contently/auth"
	"contently/config"
	"contently/generator"
	"contently/logging"
	"contently/metrics"
	"contently/posts"
	"contently/scheduler"
	"contently/server"
	"contently/store"
)

func main() {
	logger := logging.NewLoggerWithService("contently")
	config.LoadEnv(logger)

	configPath := flag.String("config", "config/config.json", "path to config.json (optional)")
	addr := flag.String("addr", "", "http listen address (overrides config.server_addr and PORT)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.WithError(err).Fatal("Failed to load config")
	}
	if *addr != "" {
		cfg.ServerAddr = *addr
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("Failed to open database")
	}
	defer st.Close()
	logger.WithField("dialect", st.Dialect().Name).Info("Database ready")

	llm, err := buildLLM(ctx, cfg.LLM)
	if err != nil {
		logger.WithError(err).Fatal("Failed to build model client")
	}
	agent, err := generator.NewAgent(llm)
	if err != nil {
		logger.WithError(err).Fatal("Failed to build generator")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	genMetrics := metrics.NewGenerationMetrics(reg)

	svc, err := posts.NewService(st, agent, logger,
		posts.WithMetrics(genMetrics),
		posts.WithModelTimeout(cfg.Generation.ModelTimeout.Std()),
	)
	if err != nil {
		logger.WithError(err).Fatal("Failed to build post service")
	}

	sessions, err := auth.NewSessions([]byte(cfg.Auth.SessionSecret), cfg.Auth.SessionTTL.Std(),
		auth.WithRevocations(st))
	if err != nil {
		logger.WithError(err).Fatal("Failed to configure sessions")
	}
	var oauth *auth.OAuthProvider
	if cfg.Auth.ClientID != "" {
		oauth, err = auth.NewOAuthProvider(auth.OAuthConfig{
			ClientID:     cfg.Auth.ClientID,
			ClientSecret: cfg.Auth.ClientSecret,
			RedirectURL:  cfg.Auth.RedirectURL,
			AuthURL:      cfg.Auth.AuthURL,
			TokenURL:     cfg.Auth.TokenURL,
			UserInfoURL:  cfg.Auth.UserInfoURL,
			Scopes:       cfg.Auth.Scopes,
		})
		if err != nil {
			logger.WithError(err).Fatal("Failed to configure sign-in provider")
		}
	} else {
		logger.Warn("OAUTH_CLIENT_ID not set; browser sign-in is disabled")
	}

	sched := scheduler.New(logger)
	if err := sched.AddReconciler(cfg.Generation.ReconcileSchedule, svc, cfg.Generation.StaleAfter.Std()); err != nil {
		logger.WithError(err).Fatal("Failed to schedule reconciler")
	}
	// Posts left generating by a previous process are reclaimed before serving.
	if err := sched.RunNow(scheduler.ReconcileJobName, scheduler.ReconcileJob(svc, cfg.Generation.StaleAfter.Std())); err != nil {
		logger.WithError(err).Warn("Initial reconcile failed")
	}
	if err := sched.AddSessionPruner(cfg.Auth.PruneSchedule, st); err != nil {
		logger.WithError(err).Fatal("Failed to schedule session pruning")
	}
	sched.Start()
	for _, job := range sched.ListJobs() {
		logger.WithFields(logging.Fields{
			"job":      job.Name,
			"next_run": job.NextRun,
		}).Info("Scheduled job")
	}
	defer func() { <-sched.Stop().Done() }()

	srv, err := server.New(server.Deps{
		Posts:        svc,
		Sessions:     sessions,
		OAuth:        oauth,
		Store:        st,
		Gatherer:     reg,
		Logger:       logger,
		PublicURL:    cfg.PublicURL,
		CookieSecure: cfg.Auth.CookieSecure,
	})
	if err != nil {
		logger.WithError(err).Fatal("Failed to build HTTP server")
	}

	logger.WithFields(logging.Fields{
		"addr":         cfg.ServerAddr,
		"llm_provider": cfg.LLM.Provider,
		"llm_model":    cfg.LLM.Model,
	}).Info("Starting contently")
	if err := srv.Run(ctx, cfg.ServerAddr); err != nil {
		logger.WithError(err).Error("HTTP server stopped with error")
	}
}

func buildLLM(ctx context.Context, c config.LLMConfig) (generator.LLMClient, error) {
	return generator.NewLLM(ctx, generator.LLMSettings{
		Provider:  c.Provider,
		Model:     c.Model,
		APIKey:    c.APIKey,
		BaseURL:   c.BaseURL,
		MaxTokens: c.MaxTokens,
	})
}
