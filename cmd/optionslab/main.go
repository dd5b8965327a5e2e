package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"

	"github.com/optionslab/optionslab-client/internal/app"
	"github.com/optionslab/optionslab-client/internal/config"
	"github.com/optionslab/optionslab-client/internal/logging"
	"github.com/optionslab/optionslab-client/internal/session"
)

const appKey = "app"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := newCLI().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "optionslab:", err)
		os.Exit(1)
	}
}

func newCLI() *cli.App {
	var closer io.Closer
	return &cli.App{
		Name:  "optionslab",
		Usage: "options strategy simulations from the terminal",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "optionslab.yaml", Usage: "path to config file"},
			&cli.StringFlag{Name: "env-file", Value: ".env", Usage: "dotenv file loaded before reading the environment"},
			&cli.StringFlag{Name: "environment", Usage: "preset: local|staging|production"},
			&cli.StringFlag{Name: "api-url", Usage: "override the REST API base URL"},
			&cli.StringFlag{Name: "log-level", Usage: "override the log level"},
			&cli.StringFlag{Name: "level", Usage: "override the experience level: NOVICE|INTERMEDIATE|ADVANCED|EXPERT"},
		},
		Before: func(c *cli.Context) error {
			a, cl, err := bootstrap(c)
			if err != nil {
				return err
			}
			closer = cl
			c.App.Metadata = map[string]interface{}{appKey: a}
			return nil
		},
		After: func(*cli.Context) error {
			if closer != nil {
				return closer.Close()
			}
			return nil
		},
		Commands: commands(),
	}
}

func bootstrap(c *cli.Context) (*app.App, io.Closer, error) {
	if err := config.LoadDotEnv(c.String("env-file")); err != nil {
		return nil, nil, fmt.Errorf("load %s: %w", c.String("env-file"), err)
	}

	cfg, err := config.LoadFile(c.String("config"))
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) || c.IsSet("config") {
			return nil, nil, fmt.Errorf("config: %w", err)
		}
		cfg = config.Default()
	}
	cfg.ApplyEnv()

	env := cfg.Environment
	if c.IsSet("environment") {
		env = c.String("environment")
	}
	if err := config.ApplyEnvironment(&cfg, env); err != nil {
		return nil, nil, err
	}
	if v := strings.TrimSpace(c.String("api-url")); v != "" {
		cfg.APIBaseURL = v
	}
	if v := strings.TrimSpace(c.String("log-level")); v != "" {
		cfg.LogLevel = v
	}
	if v := strings.TrimSpace(c.String("level")); v != "" {
		cfg.ExperienceLevel = strings.ToUpper(v)
	}

	log, closer, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, nil, err
	}

	path := cfg.SessionFile
	if path == "" {
		if path, err = session.DefaultPath(); err != nil {
			_ = closer.Close()
			return nil, nil, err
		}
	}
	store, err := session.OpenFileStore(path)
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}

	a, err := app.New(cfg, log, store)
	if err != nil {
		_ = closer.Close()
		return nil, nil, err
	}
	log.WithFields(logrus.Fields{
		"api":         cfg.APIBaseURL,
		"environment": cfg.Environment,
		"session":     store.Path(),
	}).Debug("optionslab ready")
	return a, closer, nil
}

func appFrom(c *cli.Context) *app.App {
	return c.App.Metadata[appKey].(*app.App)
}
