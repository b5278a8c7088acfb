package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/slack-go/slack"

	"holmes/internal/actions"
	"holmes/internal/alert"
	"holmes/internal/config"
	"holmes/internal/jobs"
	"holmes/internal/logging"
	"holmes/internal/metrics"
	"holmes/internal/render"
	"holmes/internal/server"
	"holmes/internal/slackbot"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := config.Load()
	logger := logging.Init(!cfg.IsDev(), logging.ParseLevel(cfg.LogLevel))

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	dir, err := config.LoadDirectory(cfg.ConfigFile)
	if err != nil {
		log.Fatalf("Failed to load directory: %v", err)
	}

	metrics.Init()

	// Slack client
	slackOpts := []slack.Option{slack.OptionDebug(cfg.SlackDebug)}
	if cfg.IsSocketMode() {
		slackOpts = append(slackOpts, slack.OptionAppLevelToken(cfg.SlackAppToken))
	}
	client := slack.New(cfg.SlackBotToken, slackOpts...)

	// Bot
	renderer := render.New(dir)
	classifier := alert.New(alert.DefaultPatterns)
	bot := slackbot.New(client, actions.Default(renderer, dir), renderer, classifier, slackbot.Options{
		MonitoredChannels:   cfg.MonitoredChannels,
		AllowDirectMessages: cfg.AllowDirectMessages,
		DispatchTimeout:     cfg.DispatchTimeout,
		Logger:              logger,
	})
	log.Printf("Watching %d channels, %d actions registered", len(cfg.MonitoredChannels), bot.Registry().Len())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connection checker
	checker := jobs.NewHealthChecker(client, cfg.HealthCheckInterval)
	if cfg.HealthCheckInterval > 0 {
		go checker.Start(ctx)
	} else {
		checker.Check(ctx)
	}

	// Socket Mode
	if cfg.IsSocketMode() {
		runner := slackbot.NewSocketRunner(client, bot, cfg.SlackDebug)
		go func() {
			if err := runner.Run(ctx); err != nil && ctx.Err() == nil {
				log.Printf("Socket mode error: %v", err)
			}
		}()
		log.Println("Socket mode enabled")
	}

	// HTTP server
	srv := server.New(cfg)
	srv.RegisterRoutes(server.Deps{
		Dispatcher: bot,
		Checker:    checker,
		Registry:   bot.Registry(),
		Renderer:   renderer,
		Classifier: classifier,
		Channels:   bot.MonitoredChannels(),
	})

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("HOLMES started on %s", cfg.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	cancel()
	if err := srv.Shutdown(); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}
	bot.Wait()
	log.Println("Server exited")
}
