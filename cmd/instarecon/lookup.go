package main

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"instarecon/pkg/config"
	"instarecon/pkg/errors"
	"instarecon/pkg/export"
	"instarecon/pkg/instagram"
	"instarecon/pkg/logger"
	"instarecon/pkg/recon"
	"instarecon/pkg/ui"
)

// lookupOptions are the flags of the root command
type lookupOptions struct {
	sessionID string
	username  string
	userID    string
	account   string
	output    string
	debug     bool
	noBanner  bool
}

// errNoSession is returned when no source provides a session ID
var errNoSession = stderrors.New("no session ID: pass -s/--sessionid, set INSTARECON_SESSION_ID or run 'instarecon auth login'")

// sessionSource looks up stored session tokens
type sessionSource interface {
	Session(name string) (string, error)
}

func runLookup(cmd *cobra.Command, global *globalOptions, opts *lookupOptions) error {
	cfg, err := loadConfig(cmd, global)
	if err != nil {
		return err
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()

	printer := ui.NewPrinter(cmd.OutOrStdout(), cfg.Output.NoColor)

	sessionID, err := resolveSession(cfg, func() (sessionSource, error) {
		return newCredentialManager()
	})
	if err != nil {
		return err
	}
	cfg.Instagram.SessionID = sessionID

	query := instagram.ByUsername(instagram.SanitizeUsername(opts.username))
	if cmd.Flags().Changed("id") {
		query = instagram.ByUserID(opts.userID)
	}

	if !cfg.Output.NoBanner {
		printer.PrintBanner()
	}
	printer.PrintStatus("🔍 Starting reconnaissance for %s", query)
	printer.PrintStatus("⏳ Gathering intelligence...")

	log.WithField("query", query.String()).Info("starting lookup")

	ctx := cmd.Context()
	client := instagram.NewClient(&cfg.Instagram, log)
	runner := recon.NewRunner(client, printer.Writer(), log, cfg.Output.Debug)

	res, err := runner.Run(ctx, query)
	if err != nil {
		if errors.IsCancelled(err) || ctx.Err() == context.Canceled {
			fmt.Fprintln(printer.Writer())
			fmt.Fprintln(printer.Writer())
			printer.PrintWarning("Operation cancelled by user")
			return nil
		}

		log.WithError(err).Debug("lookup failed")
		printer.PrintError("Error", err.Error())
		printer.PrintHint(errors.Hint(errors.TypeOf(err)))
		return errReported
	}

	if path := cfg.Output.ExportPath; path != "" {
		if err := export.Write(path, res); err != nil {
			printer.PrintError("Export failed", err.Error())
			return errReported
		}
		printer.PrintSuccess("Result exported to " + path)
	}

	return nil
}

// loadConfig layers defaults, config file, environment and the flags the
// user actually set
func loadConfig(cmd *cobra.Command, global *globalOptions) (*config.Config, error) {
	flags := make(map[string]interface{})

	cmd.Flags().Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "sessionid", "account", "output", "log-level":
			flags[f.Name] = f.Value.String()
		case "no-banner", "no-color", "debug":
			flags[f.Name] = f.Value.String() == "true"
		}
	})

	cfg, err := config.Load(global.configFile, flags)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveSession picks the session ID: an explicit flag or environment or
// config value first, then the stored account. The credential store is only
// opened when needed.
func resolveSession(cfg *config.Config, open func() (sessionSource, error)) (string, error) {
	if cfg.Instagram.SessionID != "" {
		return cfg.Instagram.SessionID, nil
	}

	store, err := open()
	if err != nil {
		if cfg.Instagram.Account != "" {
			return "", fmt.Errorf("failed to open credential store: %w", err)
		}
		return "", errNoSession
	}

	sessionID, err := store.Session(cfg.Instagram.Account)
	if err != nil {
		if cfg.Instagram.Account != "" {
			return "", fmt.Errorf("no stored session for account %q: %w", cfg.Instagram.Account, err)
		}
		return "", errNoSession
	}
	return sessionID, nil
}
