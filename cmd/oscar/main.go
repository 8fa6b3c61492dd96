package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/drewdunne/oscar/internal/config"
	"github.com/drewdunne/oscar/internal/logger"
	"github.com/drewdunne/oscar/internal/server"
	"github.com/drewdunne/oscar/internal/transport"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

var version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "serve":
		runServe(os.Args[2:])
	case "nats":
		runNATS(os.Args[2:])
	case "lambda":
		runLambda()
	case "version":
		fmt.Printf("oscar v%s\n", version)
	default:
		fmt.Printf("Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println("Usage: oscar <command> [options]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  serve    Serve the code hook over HTTP")
	fmt.Println("  nats     Serve the code hook over NATS request/reply")
	fmt.Println("  lambda   Run as an AWS Lambda code hook")
	fmt.Println("  version  Print version information")
}

// setup loads env files and config, then initializes logging.
func setup(name string, args []string) *config.Config {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	configPath := fs.String("config", "config.yaml", "Path to config file")
	envFile := fs.String("env-file", "", "Path to .env file (optional)")
	fs.Parse(args)

	if *envFile != "" {
		if err := godotenv.Load(*envFile); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not load env file %s: %v\n", *envFile, err)
		}
	} else {
		godotenv.Load(".env")
		godotenv.Load("/etc/oscar/oscar.env")
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	initLogger(cfg)
	return cfg
}

func initLogger(cfg *config.Config) {
	if err := logger.Initialize(cfg.Logging.Level); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
}

func runServe(args []string) {
	cfg := setup("serve", args)
	log := logger.Log
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to start", zap.Error(err))
	}
	defer a.Close()

	srv := server.New(cfg, a.router.Dispatch,
		server.WithLogger(log),
		server.WithProviders(a.providers),
	)
	if err := srv.ListenAndServe(ctx); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}

func runNATS(args []string) {
	cfg := setup("nats", args)
	log := logger.Log
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := newApp(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to start", zap.Error(err))
	}
	defer a.Close()

	nt, err := transport.NewNATSTransport(cfg, a.router.Dispatch, log)
	if err != nil {
		log.Fatal("failed to initialize NATS transport", zap.Error(err))
	}
	defer nt.Close()

	if err := nt.Start(); err != nil {
		log.Fatal("failed to start NATS transport", zap.Error(err))
	}

	<-ctx.Done()
	log.Info("shutting down")
}

// runLambda takes its config from the environment; Lambda ships no config
// file.
func runLambda() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	initLogger(cfg)
	log := logger.Log
	defer log.Sync()

	a, err := newApp(context.Background(), cfg, log)
	if err != nil {
		log.Fatal("failed to start", zap.Error(err))
	}
	defer a.Close()

	lambda.Start(a.router.Dispatch)
}
