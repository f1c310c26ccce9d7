// Copyright 2023 The lithic Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

// Command lithic-status checks the status of the Lithic API and,
// optionally, lists the accounts visible to the API key.
//
// Settings come from flags, LITHIC_* environment variables, a .env file
// and an optional configuration file, as described in package config.
//
//	lithic-status --environment sandbox --accounts
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gogama/lithic"
	"github.com/gogama/lithic/config"
	"github.com/gogama/lithic/tracing"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()
	if err := run(ctx, os.Args[1:], os.Stdout, logger); err != nil {
		logger.Error().Err(err).Msg("lithic-status failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer, logger zerolog.Logger) error {
	fs := pflag.NewFlagSet("lithic-status", pflag.ContinueOnError)
	configFile := fs.String("config", "", "configuration file (YAML, JSON or TOML)")
	envFile := fs.String("env-file", "", "env file to load instead of ./.env")
	accounts := fs.Bool("accounts", false, "also list all accounts")
	pageSize := fs.Int("page-size", 0, "accounts per page when listing")
	otlpEndpoint := fs.String("otlp-endpoint", "", "OTLP/HTTP trace endpoint host:port; tracing is off when empty")
	fs.String("api-key", "", "API key")
	fs.String("environment", "", "API environment: production or sandbox")
	fs.String("base-url", "", "API base URL, overriding the environment")
	fs.Int("max-retries", lithic.DefaultMaxRetries, "maximum retries per call")
	fs.Duration("timeout", 0, "timeout per attempt")
	fs.String("log-level", "", "log level of client calls")
	if err := fs.Parse(args); err != nil {
		return err
	}

	loadOpts := []config.LoadOption{config.WithFlags(fs)}
	if *configFile != "" {
		loadOpts = append(loadOpts, config.WithConfigFile(*configFile))
	}
	if *envFile != "" {
		loadOpts = append(loadOpts, config.WithEnvFile(*envFile))
	}
	cfg, err := config.Load(loadOpts...)
	if err != nil {
		return err
	}

	opts := cfg.Options()
	if *otlpEndpoint != "" {
		tp, err := newTracerProvider(ctx, *otlpEndpoint)
		if err != nil {
			return err
		}
		defer func() {
			if err := tp.Shutdown(context.Background()); err != nil {
				logger.Warn().Err(err).Msg("trace provider shutdown failed")
			}
		}()
		handlers := &lithic.HandlerGroup{}
		tracing.New(tracing.WithTracerProvider(tp)).Install(handlers)
		opts = append(opts, lithic.WithHandlers(handlers))
	}

	client, err := lithic.New(opts...)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()

	enc := json.NewEncoder(out)
	status, err := client.Status.Retrieve(ctx)
	if err != nil {
		return err
	}
	if err = enc.Encode(status); err != nil {
		return err
	}
	logger.Info().Str("base_url", client.BaseURL().String()).Str("status", status.Status).Msg("API status retrieved")

	if !*accounts {
		return nil
	}
	page, err := client.Accounts.List(ctx, lithic.AccountListParams{PageSize: *pageSize})
	if err != nil {
		return err
	}
	n := 0
	for account, err := range page.All(ctx) {
		if err != nil {
			return fmt.Errorf("listing accounts after %d: %w", n, err)
		}
		if err = enc.Encode(account); err != nil {
			return err
		}
		n++
	}
	logger.Info().Int("accounts", n).Msg("accounts listed")
	return nil
}

func newTracerProvider(ctx context.Context, endpoint string) (*sdktrace.TracerProvider, error) {
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure())
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}
	return sdktrace.NewTracerProvider(sdktrace.WithBatcher(exporter)), nil
}
