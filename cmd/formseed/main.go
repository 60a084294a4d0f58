// Package main provides the formseed CLI: it launches and tears down a
// local Formbricks stack, generates synthetic seed data through an LLM,
// and pushes that data into the running instance.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/seedlabs/formseed/internal/config"
	"github.com/seedlabs/formseed/internal/errors"
	"github.com/seedlabs/formseed/internal/formbricks"
	"github.com/seedlabs/formseed/internal/generator"
	"github.com/seedlabs/formseed/internal/httpclient"
	"github.com/seedlabs/formseed/internal/llm"
	_ "github.com/seedlabs/formseed/internal/llm/openai"
	"github.com/seedlabs/formseed/internal/logger"
	"github.com/seedlabs/formseed/internal/observability"
	"github.com/seedlabs/formseed/internal/seed"
	"github.com/seedlabs/formseed/internal/seeder"
	"github.com/seedlabs/formseed/internal/stack"
	"github.com/seedlabs/formseed/internal/version"
)

const usage = `formseed - seed a local Formbricks instance with synthetic data

Usage:
  formseed [flags] <command>

Commands:
  up        clone the application repository (if needed) and start the stack
  down      stop and remove the stack
  status    show the stack's containers
  generate  ask the configured model for a seed bundle and save it
  seed      wait for readiness and push the saved bundle into the instance

Flags:
  -config string     path to config.yml (default: searched)
  -env-file string   path to a .env file (default: ./.env if present)
  -version           print version and exit
`

func main() {
	var (
		configFile  = flag.String("config", "", "path to config.yml")
		envFile     = flag.String("env-file", "", "path to a .env file")
		showVersion = flag.Bool("version", false, "print version and exit")
	)
	flag.Usage = func() { fmt.Fprint(os.Stderr, usage) }
	flag.Parse()

	if *showVersion {
		fmt.Println("formseed " + version.String())
		return
	}

	command := flag.Arg(0)
	if command == "" {
		flag.Usage()
		os.Exit(2)
	}

	var loadOpts []config.LoaderOption
	if *configFile != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(*configFile))
	}
	if *envFile != "" {
		loadOpts = append(loadOpts, config.WithEnvFile(*envFile))
	}

	cfg, err := config.Load(loadOpts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "formseed: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.Logging)
	log := logger.New(&cfg.Logging, cfg.Name)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		log.Warn("received shutdown signal")
		cancel()
	}()

	obs, err := observability.Init(ctx, observability.Config{
		ServiceName:    cfg.Name,
		ServiceVersion: version.Version,
		Environment:    cfg.Environment,
		Endpoint:       cfg.Observability.Endpoint,
		Insecure:       cfg.Observability.Insecure,
		Interval:       cfg.Observability.Interval,
	})
	if err != nil {
		log.Error("failed to initialize observability", logger.ErrorFields("init", err))
		os.Exit(1)
	}
	defer func() {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := obs.Shutdown(shutdownCtx); err != nil {
			log.Warn("observability shutdown failed", logger.ErrorFields("shutdown", err))
		}
	}()

	if err := run(ctx, command, cfg, log); err != nil {
		log.Error(err.Error(), logger.Fields("code", string(errors.CodeOf(err))))
		os.Exit(1)
	}
}

func run(ctx context.Context, command string, cfg *config.Config, log *logger.Logger) error {
	switch command {
	case "up":
		return runUp(ctx, cfg, log)
	case "down":
		return runDown(ctx, cfg, log)
	case "status":
		return runStatus(ctx, cfg, log)
	case "generate":
		return runGenerate(ctx, cfg, log)
	case "seed":
		return runSeed(ctx, cfg, log)
	default:
		flag.Usage()
		return fmt.Errorf("unknown command %q", command)
	}
}

func newStack(cfg *config.Config, log *logger.Logger) (*stack.Manager, error) {
	return stack.New(stack.Config{
		RepoURL:    cfg.Stack.RepoURL,
		Dir:        cfg.Stack.Dir,
		Project:    cfg.Stack.Project,
		DockerHost: cfg.Stack.DockerHost,
	}, log)
}

func runUp(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	m, err := newStack(cfg, log)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Up(ctx)
}

func runDown(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	m, err := newStack(cfg, log)
	if err != nil {
		return err
	}
	defer m.Close()
	return m.Down(ctx)
}

func runStatus(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	m, err := newStack(cfg, log)
	if err != nil {
		return err
	}
	defer m.Close()

	containers, err := m.Status(ctx)
	if err != nil {
		return err
	}
	if len(containers) == 0 {
		fmt.Println("no containers found; run 'formseed up' first")
		return nil
	}
	for _, c := range containers {
		fmt.Printf("%-40s %-12s %s\n", c.Name, c.Status, c.Image)
	}
	return nil
}

func runGenerate(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	if cfg.LLM.APIKey == "" {
		return errors.DependencyMissing("OPENAI_API_KEY", "export OPENAI_API_KEY or set llm.api_key")
	}

	adapter, err := llm.New(llm.Config{
		Dialect:   cfg.LLM.Dialect,
		BaseURL:   cfg.LLM.BaseURL,
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
		Timeout:   cfg.LLM.Timeout,
		Auth:      httpclient.BearerAuth(cfg.LLM.APIKey),
		Retry:     httpclient.DefaultRetryConfig(),
	})
	if err != nil {
		return err
	}

	log.Info("generating seed bundle", logger.Fields(
		logger.FieldModel, cfg.LLM.Model,
		logger.FieldPath, cfg.Seed.BundlePath,
	))
	return generator.New(adapter, log).GenerateToFile(ctx, cfg.Seed.BundlePath)
}

func runSeed(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	if cfg.Target.APIKey == "" {
		return errors.DependencyMissing("FORMBRICKS_API_KEY", "export FORMBRICKS_API_KEY or set target.api_key")
	}

	bundle, err := seed.Load(cfg.Seed.BundlePath)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeBundleNotFound) {
			return fmt.Errorf("%w; run 'formseed generate' first", err)
		}
		return err
	}

	client, err := formbricks.New(formbricks.Config{
		BaseURL:      cfg.Target.BaseURL,
		APIKey:       cfg.Target.APIKey,
		Timeout:      cfg.Target.Timeout,
		ProbeTimeout: cfg.Seed.ProbeTimeout,
	})
	if err != nil {
		return err
	}

	metrics, err := observability.NewMetrics()
	if err != nil {
		return err
	}

	s := seeder.New(client, seeder.Config{
		MaxAttempts: cfg.Seed.MaxAttempts,
		Interval:    cfg.Seed.Interval,
	}, log)

	ctx, span := observability.StartSpan(ctx, "seed.run")
	defer span.End()

	start := time.Now()
	report, err := s.Run(ctx, bundle)
	recordRun(ctx, metrics, report, time.Since(start))
	if err != nil {
		return err
	}

	// Item failures are reported but do not fail the command.
	fmt.Printf("seeding complete: %d/%d users, %d/%d surveys, %d/%d responses created\n",
		report.UsersCreated, report.UsersCreated+report.UsersFailed,
		report.SurveysCreated, report.SurveysCreated+report.SurveysFailed,
		report.ResponsesCreated, report.ResponsesCreated+report.ResponsesFailed)
	return nil
}

func recordRun(ctx context.Context, metrics *observability.Metrics, report *seeder.Report, elapsed time.Duration) {
	metrics.RecordProbes(ctx, report.ProbeAttempts, report.State != seeder.StateAborted)
	metrics.RecordItems(ctx, "user", report.UsersCreated, report.UsersFailed)
	metrics.RecordItems(ctx, "survey", report.SurveysCreated, report.SurveysFailed)
	metrics.RecordItems(ctx, "response", report.ResponsesCreated, report.ResponsesFailed)
	metrics.RecordRun(ctx, string(report.State), elapsed)
}
