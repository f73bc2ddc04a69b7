package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/angeloszaimis/env-resolver/config"
	"github.com/angeloszaimis/env-resolver/pkg/httpclient"
	"github.com/angeloszaimis/env-resolver/pkg/logger"
)

// report is what the harness reads from stdout. Timeouts are in milliseconds.
type report struct {
	Env            string `json:"env"`
	AppURL         string `json:"appUrl"`
	ConnectTimeout int64  `json:"connectTimeout"`
	ReadTimeout    int64  `json:"readTimeout"`
}

func main() {
	if err := config.LoadDotEnv(".env"); err != nil {
		slog.Warn("failed to load .env file", slog.Any("err", err))
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Logging.AddSource, cfg.Selector(), cfg.Logging.Format, os.Stderr)

	if err := run(cfg, log, os.Stdout); err != nil {
		log.Error("failed to write configuration", slog.Any("err", err))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger, out io.Writer) error {
	table := cfg.Table()
	if err := table.Validate(); err != nil {
		return fmt.Errorf("environment table: %w", err)
	}

	resolver := config.NewResolver(table, log)

	var settings config.ClientSettings
	record := resolver.Resolve(cfg.Selector(), &settings)

	client := httpclient.New(settings)
	if t, ok := client.Transport.(*http.Transport); ok {
		log.Debug("http client configured",
			slog.Duration("connect_timeout", settings.ConnectTimeout),
			slog.Duration("read_timeout", settings.ReadTimeout),
			slog.Duration("tls_handshake_timeout", t.TLSHandshakeTimeout),
			slog.Duration("response_header_timeout", t.ResponseHeaderTimeout))
	}

	env := cfg.Selector()
	if env == "" {
		env = config.DefaultEnvironment
	}

	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(report{
		Env:            env,
		AppURL:         record.AppURL,
		ConnectTimeout: settings.ConnectTimeout.Milliseconds(),
		ReadTimeout:    settings.ReadTimeout.Milliseconds(),
	})
}
