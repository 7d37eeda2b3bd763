// Package cmd wires the cobra command tree. The bare `newsroom` command runs
// the interactive TUI; subcommands offer headless access to the same client.
package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/newsroomhq/newsroom/internal/api"
	"github.com/newsroomhq/newsroom/internal/config"
	"github.com/newsroomhq/newsroom/internal/flow"
	"github.com/newsroomhq/newsroom/internal/log"
	"github.com/newsroomhq/newsroom/internal/session"
	"github.com/newsroomhq/newsroom/internal/tui"
)

var rootCmd = &cobra.Command{
	Use:   "newsroom",
	Short: "Terminal client for the newsroom publishing platform",
	Long: `newsroom is a terminal client for the newsroom publishing platform.
Readers browse articles, comment and like; journalists publish and edit.
Run it without arguments for the interactive interface, or use the
subcommands for headless access.

Configuration comes from NEWSROOM_* environment variables and the optional
config.yaml in the state directory (default ~/.newsroom).`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := bootstrap(true)
		if err != nil {
			return err
		}
		defer app.close()

		return tui.Run(app.cfg, app.client, app.store, app.controller, app.logger)
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command under the given context
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// deps bundles everything a command needs
type deps struct {
	cfg        *config.Config
	logger     *log.Logger
	client     *api.Client
	store      *session.Store
	controller *flow.Controller
}

func (d *deps) close() {
	d.store.Close()
	_ = d.logger.Close()
}

// bootstrap loads configuration and assembles the client stack. Interactive
// sessions log to a file because the TUI owns the terminal.
func bootstrap(interactive bool) (*deps, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureStateDir(); err != nil {
		return nil, err
	}

	var logger *log.Logger
	if interactive {
		logCfg, err := log.InteractiveConfig(cfg.LogPath(), log.ParseLevel(cfg.LogLevel))
		if err != nil {
			return nil, err
		}
		logger = log.New(logCfg)
	} else {
		logCfg := log.DefaultConfig()
		logCfg.Level = log.ParseLevel(cfg.LogLevel)
		logger = log.New(logCfg)
	}
	log.SetDefaultLogger(logger)

	client := api.NewClient(cfg.APIBaseURL, logger)

	store, err := session.New(session.NewFileSlot(cfg.CredentialsPath()), client, client, session.NewBus(), logger)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	controller := flow.NewController(client, store, logger)

	return &deps{
		cfg:        cfg,
		logger:     logger,
		client:     client,
		store:      store,
		controller: controller,
	}, nil
}
