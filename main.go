package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/travel-planner/api"
	"github.com/rpupo63/travel-planner/config"
	"github.com/rpupo63/travel-planner/database"
	"github.com/rpupo63/travel-planner/services"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Warning: Error loading .env file: %v\n", err)
	}

	c := config.New()
	setupLogger(c)
	log.Info().Msg("Initializing app...")

	startupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if path := config.GetString(c, "SSM_PARAMETER_PATH", ""); path != "" {
		if err := config.LoadSSM(startupCtx, c, path); err != nil {
			log.Fatal().Err(err).Str("path", path).Msg("Error loading SSM parameters")
		}
	}

	store, err := database.Open(startupCtx, c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error opening draft store")
	}
	db := database.New(store)
	defer db.Close()

	purger, err := database.NewPurger(store, config.GetString(c, "DRAFT_PURGE_SCHEDULE", database.DefaultPurgeSchedule))
	if err != nil {
		log.Fatal().Err(err).Msg("Error scheduling draft purge")
	}
	purger.Start()
	defer purger.Stop()

	client := services.NewTravelClient(
		config.GetString(c, "API_URL", services.DefaultBaseURL),
		services.WithTimeout(config.GetSeconds(c, "UPSTREAM_TIMEOUT_SECONDS", 30)),
		services.WithRateLimit(config.GetFloat(c, "UPSTREAM_RPS", 0), config.GetInt(c, "UPSTREAM_BURST", 10)),
	)

	errChannel := make(chan error, 2)

	server, err := api.NewServer(db, client, c)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing server")
	}

	go server.Start(errChannel)

	// Listen for interrupt signals to gracefully shutdown the server
	go listenToInterrupt(errChannel)

	fatalErr := <-errChannel
	log.Info().Msgf("Closing server: %v", fatalErr)

	server.ShutdownGracefully(30 * time.Second)
}

// setupLogger configures the global zerolog logger from LOG_LEVEL and APP_ENV.
func setupLogger(c map[string]string) {
	level, err := zerolog.ParseLevel(strings.ToLower(config.GetString(c, "LOG_LEVEL", "info")))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if strings.EqualFold(config.GetString(c, "APP_ENV", ""), "development") {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}

// listenToInterrupt waits for SIGINT or SIGTERM and then sends an error to the error channel.
func listenToInterrupt(errChannel chan<- error) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, syscall.SIGINT, syscall.SIGTERM)
	errChannel <- fmt.Errorf("%s", <-c)
}
