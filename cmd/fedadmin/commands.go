package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"fedadmin/internal/devserver"
	"fedadmin/internal/engine"
	"fedadmin/internal/errs"
	"fedadmin/internal/sink"
	"fedadmin/internal/ui"
)

func (a *app) newTUICmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tui [domain]",
		Short: "Open the interactive console",
		Long:  "Open the terminal console. The optional domain (users, courts, tournaments, microsites) is the tab shown first.",
		Args:  cobra.MaximumNArgs(1),
		RunE:  a.run(a.runTUI),
	}
}

func (a *app) runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := a.config(cmd)
	if err != nil {
		return err
	}
	transport, err := newTransport(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	saver, err := sink.Open(ctx, cfg.Export.SinkConfig())
	if err != nil {
		return err
	}

	first := cfg.UI.DefaultDomain
	if len(args) == 1 {
		first = strings.ToLower(args[0])
	}

	model := ui.NewModel(ctx, ui.Options{
		Backends:  newBackends(transport),
		Saver:     saver,
		Publisher: a.bus,
		PageSize:  cfg.UI.PageSize,
		Domain:    first,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.SetProgram(p)

	log.Printf("console started against %s", transport.BaseURL())
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("running console: %w", err)
	}
	return nil
}

// headless resolves the shared parts of export, notify and bulk: the
// configuration, the domain runner and its filter.
func (a *app) headless(cmd *cobra.Command, domainName string) (runner, error) {
	cfg, err := a.config(cmd)
	if err != nil {
		return nil, err
	}
	transport, err := newTransport(cfg)
	if err != nil {
		return nil, err
	}
	r, err := newRunner(cmd.Context(), domainName, transport, cfg, a.bus)
	if err != nil {
		return nil, err
	}

	assignments, _ := cmd.Flags().GetStringSlice("filter")
	updates, err := engine.ParseAssignments(assignments)
	if err != nil {
		return nil, err
	}
	if err := r.Filter(updates); err != nil {
		return nil, err
	}
	return r, nil
}

func (a *app) newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export <domain>",
		Short: "Export a domain list to the configured sink",
		Long:  "Export every entity of a domain matching --filter as csv, excel or pdf. The file is saved with the export sink (export.sink).",
		Args:  cobra.ExactArgs(1),
		RunE:  a.run(a.runExport),
	}
	cmd.Flags().String("format", "csv", "csv, excel or pdf")
	cmd.Flags().StringSlice("filter", nil, "field=value filter, repeatable")
	return cmd
}

func (a *app) runExport(cmd *cobra.Command, args []string) error {
	formatName, _ := cmd.Flags().GetString("format")
	format, err := engine.ParseFormat(formatName)
	if err != nil {
		return err
	}
	r, err := a.headless(cmd, args[0])
	if err != nil {
		return err
	}
	saver, err := sink.Open(cmd.Context(), a.cfg.Export.SinkConfig())
	if err != nil {
		return err
	}
	location, err := r.Export(cmd.Context(), format, saver)
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Saved %s export of %d %s to %s\n", format, r.Loaded(), args[0], location)
	return nil
}

func (a *app) newNotifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notify <domain>",
		Short: "Send a notification",
		Long:  "Send a notification to explicit entity ids (--ids) or to a recipient class (--class). Class sends are scoped by --filter.",
		Args:  cobra.ExactArgs(1),
		RunE:  a.run(a.runNotify),
	}
	cmd.Flags().String("subject", "", "notification subject")
	cmd.Flags().String("body", "", "notification body")
	cmd.Flags().Int64Slice("ids", nil, "recipient entity ids")
	cmd.Flags().String("class", "", "recipient class")
	cmd.Flags().StringSlice("filter", nil, "field=value filter, repeatable")
	return cmd
}

func (a *app) runNotify(cmd *cobra.Command, args []string) error {
	subject, _ := cmd.Flags().GetString("subject")
	body, _ := cmd.Flags().GetString("body")
	ids, _ := cmd.Flags().GetInt64Slice("ids")
	class, _ := cmd.Flags().GetString("class")

	var target engine.Target
	switch {
	case len(ids) > 0 && class != "":
		return errs.New(errs.CodeCLIInputInvalid, "use either --ids or --class, not both")
	case len(ids) > 0:
		target = engine.Recipients{IDs: ids}
	case class != "":
		target = engine.RecipientClass{Name: class}
	default:
		return errs.New(errs.CodeCLIInputInvalid, "--ids or --class is required")
	}

	r, err := a.headless(cmd, args[0])
	if err != nil {
		return err
	}
	if err := r.Notify(cmd.Context(), target, subject, body); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Notification sent to %s\n", target.Describe())
	return nil
}

func (a *app) newBulkCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bulk <domain> <action>",
		Short: "Apply a bulk action to entity ids",
		Long:  "Apply a bulk action (e.g. approve, reject, suspend) to --ids. Actions that need a reason take --reason; suspensions also take --days.",
		Args:  cobra.ExactArgs(2),
		RunE:  a.run(a.runBulk),
	}
	cmd.Flags().Int64Slice("ids", nil, "target entity ids")
	cmd.Flags().String("reason", "", "reason, for actions that require one")
	cmd.Flags().Int("days", 0, "suspension length in days")
	return cmd
}

func (a *app) runBulk(cmd *cobra.Command, args []string) error {
	ids, _ := cmd.Flags().GetInt64Slice("ids")
	reason, _ := cmd.Flags().GetString("reason")
	days, _ := cmd.Flags().GetInt("days")
	if len(ids) == 0 {
		return errs.New(errs.CodeCLIInputInvalid, "--ids is required")
	}

	r, err := a.headless(cmd, args[0])
	if err != nil {
		return err
	}
	action, ok := r.Action(args[1])
	if !ok {
		return errs.New(errs.CodeCLIInputInvalid, fmt.Sprintf("unknown action %q for %s", args[1], args[0]))
	}

	var payload engine.Payload
	switch action.Payload {
	case engine.PayloadReasoned:
		payload = engine.Reasoned{Reason: reason}
	case engine.PayloadSuspension:
		payload = engine.Suspension{Reason: reason, Days: days}
	default:
		payload = engine.Plain{}
	}

	if err := r.Bulk(cmd.Context(), action.ID, ids, payload); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s applied to %d %s\n", action.Label, len(ids), args[0])
	return nil
}

func newDevServerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev-server",
		Short: "Run the local in-memory admin API",
		Long:  "Serve a seeded, in-memory implementation of the admin API. Settings come from FEDADMIN_DEV_* variables.",
		Args:  cobra.NoArgs,
		RunE:  runDevServer,
	}
	cmd.Flags().String("addr", "", "listen address (overrides FEDADMIN_DEV_ADDR)")
	return cmd
}

func runDevServer(cmd *cobra.Command, _ []string) error {
	cfg, err := devserver.LoadConfig()
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	return devserver.New(cfg).Run(ctx, func(addr string) {
		_, _ = fmt.Fprintf(out, "dev server listening on http://%s (%d rows per domain)\n", addr, cfg.Rows)
	})
}

func newDevTokenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev-token",
		Short: "Mint a bearer token for the dev server",
		Args:  cobra.NoArgs,
		RunE:  runDevToken,
	}
	cmd.Flags().String("subject", "admin", "token subject")
	cmd.Flags().Duration("ttl", 24*time.Hour, "token lifetime")
	return cmd
}

func runDevToken(cmd *cobra.Command, _ []string) error {
	cfg, err := devserver.LoadConfig()
	if err != nil {
		return err
	}
	subject, _ := cmd.Flags().GetString("subject")
	ttl, _ := cmd.Flags().GetDuration("ttl")
	token, err := devserver.MintToken([]byte(cfg.JWTSecret), subject, ttl, time.Now())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
