package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"fedadmin/internal/config"
	"fedadmin/internal/domain"
	"fedadmin/internal/errs"
	"fedadmin/internal/eventbus"
)

// app carries what the subcommands share. Configuration is loaded on
// first use so the dev commands run without a console config.
type app struct {
	v       *viper.Viper
	cfg     *config.Config
	bus     eventbus.EventBus
	logFile *os.File
}

// NewRootCmd creates the root fedadmin command with all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	root := &cobra.Command{
		Use:           "fedadmin",
		Short:         "fedadmin - federation administration console",
		Long:          "fedadmin administers the users, courts, tournaments and microsites of a sports federation platform.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.MaximumNArgs(1),
		RunE:          a.run(a.runTUI),
	}

	root.PersistentFlags().StringP("config", "c", "", "path to config file")
	root.PersistentFlags().String("api-url", "", "admin API base URL (overrides api.base_url)")
	root.PersistentFlags().String("token", "", "admin API bearer token (overrides api.token)")
	root.PersistentFlags().BoolP("verbose", "v", false, "also log to stderr")

	root.AddCommand(
		a.newTUICmd(),
		a.newExportCmd(),
		a.newNotifyCmd(),
		a.newBulkCmd(),
		newDevServerCmd(),
		newDevTokenCmd(),
	)
	return root
}

// config loads the console configuration with the standard precedence
// (flag > env > file > defaults) and opens the log file.
func (a *app) config(cmd *cobra.Command) (*config.Config, error) {
	if a.cfg != nil {
		return a.cfg, nil
	}

	config.SetDefaults(a.v)
	config.SetupEnv(a.v)

	cfgFile, _ := cmd.Flags().GetString("config")
	if _, err := config.ReadFile(a.v, cfgFile); err != nil {
		return nil, err
	}

	flags := cmd.Root().PersistentFlags()
	if err := a.v.BindPFlag("api.base_url", flags.Lookup("api-url")); err != nil {
		return nil, errs.Wrapf(err, errs.CodeConfigLoadFailure, "binding api-url flag")
	}
	if err := a.v.BindPFlag("api.token", flags.Lookup("token")); err != nil {
		return nil, errs.Wrapf(err, errs.CodeConfigLoadFailure, "binding token flag")
	}

	cfg, err := config.Decode(a.v)
	if err != nil {
		return nil, err
	}
	a.cfg = cfg

	verbose, _ := cmd.Flags().GetBool("verbose")
	if err := a.setupLogging(cfg.Log.File, verbose); err != nil {
		return nil, err
	}
	a.startAudit()
	return cfg, nil
}

// setupLogging sends the standard logger to path. The terminal belongs to
// the console, so nothing is written to stderr unless verbose is set.
func (a *app) setupLogging(path string, verbose bool) error {
	var out io.Writer = io.Discard
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
			return fmt.Errorf("creating log directory: %w", err)
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		a.logFile = f
		out = f
	}
	if verbose {
		out = io.MultiWriter(out, os.Stderr)
	}
	log.SetOutput(out)
	return nil
}

// startAudit logs every engine event: fetches, mutations, status changes,
// notifications and exports.
func (a *app) startAudit() {
	a.bus = eventbus.New()
	a.bus.SubscribeAll(func(e domain.DomainEvent) {
		log.Printf("audit: %s %+v", e.Type(), e)
	})
}

// run wraps a RunE so the log file and the bus are released however the
// command ends.
func (a *app) run(fn func(*cobra.Command, []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer a.close()
		return fn(cmd, args)
	}
}

func (a *app) close() {
	if a.bus != nil {
		a.bus.Close()
		a.bus = nil
	}
	if a.logFile != nil {
		log.SetOutput(os.Stderr)
		_ = a.logFile.Close()
		a.logFile = nil
	}
}
