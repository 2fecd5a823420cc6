// Command guide runs the conference attendee guide.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/spf13/cobra"

	"github.com/hupe1980/attendeeguide/config"
	"github.com/hupe1980/attendeeguide/internal/telemetry"
	"github.com/hupe1980/attendeeguide/model"
	"github.com/hupe1980/attendeeguide/server"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	localeFlag   string
	logLevelFlag string
	addrFlag     string
	markdownFlag bool
)

func main() {
	if err := newRootCmd(nil).Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree. llm overrides the configured provider
// when non-nil.
func newRootCmd(llm model.Model) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "guide",
		Short: "Conference attendee guide",
		Long: `guide answers attendee questions about weather, dining and sessions.

Start the HTTP service:  guide serve
Ask one question:        guide ask "what should I wear tomorrow?"`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&localeFlag, "locale", "", "response language (overrides GUIDE_LOCALE)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level (overrides GUIDE_LOG_LEVEL)")

	rootCmd.AddCommand(serveCmd(llm))
	rootCmd.AddCommand(askCmd(llm))
	return rootCmd
}

func loadConfig() (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if localeFlag != "" {
		cfg.Locale = localeFlag
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}
	return cfg, nil
}

func serveCmd(llm model.Model) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the invocation API over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			if addrFlag != "" {
				cfg.Addr = addrFlag
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			shutdown, err := telemetry.Setup(ctx, cfg.ServiceName, cfg.OTLPEndpoint)
			if err != nil {
				return fmt.Errorf("telemetry: %w", err)
			}
			defer func() {
				sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				_ = shutdown(sctx)
			}()

			a, err := build(ctx, cfg, llm)
			if err != nil {
				return err
			}
			defer a.Close()

			srv := server.New(a.hub,
				server.WithAddr(cfg.Addr),
				server.WithCatalog(a.catalog),
				server.WithLogger(a.logger.WithComponent("server")),
			)
			a.logger.Info("guide.serve", "addr", cfg.Addr, "provider", cfg.Provider, "session_id", srv.SessionID())
			return srv.ListenAndServe(ctx)
		},
	}
	cmd.Flags().StringVar(&addrFlag, "addr", "", "listen address (overrides GUIDE_ADDR)")
	return cmd
}

func askCmd(llm model.Model) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <prompt>",
		Short: "Run one message through a fresh session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			a, err := build(cmd.Context(), cfg, llm)
			if err != nil {
				return err
			}
			defer a.Close()

			env := a.hub.ProcessMessage(cmd.Context(), "", args[0])
			if markdownFlag {
				_, err = fmt.Fprint(cmd.OutOrStdout(), server.FormatMarkdown(a.catalog, env, args[0], time.Now()))
				return err
			}
			data, err := json.MarshalIndent(env, "", "  ")
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
	cmd.Flags().BoolVar(&markdownFlag, "markdown", false, "print the plan as markdown")
	return cmd
}
