// Command ticketctl inspects the support ticket dashboard from a terminal.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"github.com/aymanbagabas/go-osc52/v2"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-dashboard/internal/config"
	"github.com/spec-kit/ticket-dashboard/internal/dashboard"
	"github.com/spec-kit/ticket-dashboard/internal/domain"
	"github.com/spec-kit/ticket-dashboard/internal/export"
	"github.com/spec-kit/ticket-dashboard/internal/observability"
	"github.com/spec-kit/ticket-dashboard/internal/persistence"
	"github.com/spec-kit/ticket-dashboard/internal/service"
	"github.com/spec-kit/ticket-dashboard/internal/source"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) == 0 {
		printUsage(stderr)
		return errors.New("missing command")
	}
	switch args[0] {
	case "summary":
		return runSummary(ctx, args[1:], stdout, stderr)
	case "export":
		return runExport(ctx, args[1:], stdout, stderr)
	case "copy":
		return runCopy(ctx, args[1:], stdout, stderr)
	case "help", "-h", "--help":
		printUsage(stdout)
		return nil
	default:
		printUsage(stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `ticketctl classifies support tickets and prints dashboard views.

Usage:
  ticketctl summary [--file PATH] [--config PATH]
  ticketctl export  [--out FILE] [--category LABEL] [--escalate-only] [--query TEXT]
  ticketctl copy    <ticket-id>

Tickets come from the configured source unless --file names a local ticket document.
`)
}

// sourceFlags are shared by every subcommand.
type sourceFlags struct {
	file       string
	configPath string
}

func (f *sourceFlags) add(flagSet *pflag.FlagSet) {
	flagSet.StringVar(&f.file, "file", "", "read tickets from this JSON document instead of the configured source")
	flagSet.StringVar(&f.configPath, "config", "", "config file (default: $CONFIG_PATH or config.yaml)")
}

// load fetches and classifies tickets. Unlike the server, a failed fetch is an error.
func (f sourceFlags) load(ctx context.Context) (service.State, error) {
	logger, err := observability.NewLogger(config.LoggerConfig{Level: "error"})
	if err != nil {
		return service.State{}, err
	}
	defer logger.Sync() //nolint:errcheck

	var (
		src     source.Source
		timeout = 10 * time.Second
	)
	if f.file != "" {
		src = source.NewFileSource(f.file)
	} else {
		cfg, err := f.config()
		if err != nil {
			return service.State{}, err
		}
		timeout = cfg.Source.FetchTimeout()

		pg, err := connectPostgres(ctx, cfg, logger)
		if err != nil {
			return service.State{}, err
		}
		defer pg.Close()

		src, err = source.New(cfg.Source, pg.PoolHandle())
		if err != nil {
			return service.State{}, err
		}
	}

	svc := service.NewDashboardService(service.DashboardDependencies{
		Source:       src,
		Logger:       logger,
		FetchTimeout: timeout,
	})
	return svc.Load(ctx)
}

func (f sourceFlags) config() (*config.Config, error) {
	if f.configPath != "" {
		return config.LoadFrom(f.configPath)
	}
	return config.Load()
}

func connectPostgres(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*persistence.Postgres, error) {
	if cfg.Source.NormalizedKind() != config.SourcePostgres {
		return &persistence.Postgres{}, nil
	}
	return persistence.NewPostgres(ctx, cfg.Postgres, logger)
}

func parseFlags(flagSet *pflag.FlagSet, args []string, stderr io.Writer) error {
	flagSet.SetOutput(stderr)
	return flagSet.Parse(args)
}

func runSummary(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var sf sourceFlags
	flagSet := pflag.NewFlagSet("summary", pflag.ContinueOnError)
	sf.add(flagSet)
	if err := parseFlags(flagSet, args, stderr); err != nil {
		return err
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}

	state, err := sf.load(ctx)
	if err != nil {
		return err
	}
	return writeSummary(stdout, state)
}

func writeSummary(w io.Writer, state service.State) error {
	fmt.Fprintf(w, "Tickets: %d (source: %s)\n\n", len(state.Tickets), state.Source)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CATEGORY\tCOUNT\tESCALATE")
	for _, option := range state.Options {
		if option.Label == domain.AllCategories {
			continue
		}
		marker := ""
		if option.Escalate {
			marker = "yes"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", option.Label, option.Count, marker)
	}
	return tw.Flush()
}

func runExport(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var (
		sf     sourceFlags
		out    string
		filter = dashboard.DefaultFilter()
	)
	flagSet := pflag.NewFlagSet("export", pflag.ContinueOnError)
	sf.add(flagSet)
	flagSet.StringVarP(&out, "out", "o", "", "write CSV to this file instead of stdout")
	flagSet.StringVar(&filter.Category, "category", domain.AllCategories, "category label, or All")
	flagSet.BoolVar(&filter.EscalateOnly, "escalate-only", false, "only tickets that require escalation")
	flagSet.StringVarP(&filter.Query, "query", "q", "", "case-insensitive text search")
	if err := parseFlags(flagSet, args, stderr); err != nil {
		return err
	}
	if flagSet.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", flagSet.Arg(0))
	}
	if filter.Category == "" {
		filter.Category = domain.AllCategories
	}

	state, err := sf.load(ctx)
	if err != nil {
		return err
	}
	csv := export.ToCSV(state.View(filter))

	if out == "" {
		_, err := fmt.Fprintln(stdout, csv)
		return err
	}
	if err := os.WriteFile(out, []byte(csv), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(stderr, "wrote %s\n", out)
	return nil
}

func runCopy(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	var sf sourceFlags
	flagSet := pflag.NewFlagSet("copy", pflag.ContinueOnError)
	sf.add(flagSet)
	if err := parseFlags(flagSet, args, stderr); err != nil {
		return err
	}
	if flagSet.NArg() != 1 {
		return errors.New("copy takes exactly one ticket id")
	}
	id := domain.TicketID(flagSet.Arg(0))

	state, err := sf.load(ctx)
	if err != nil {
		return err
	}
	ticket, ok := state.Find(id)
	if !ok {
		return fmt.Errorf("ticket %s not found", id)
	}

	fmt.Fprintln(stdout, ticket.Summary)
	copyToClipboard(stderr, ticket.Summary)
	return nil
}

// copyToClipboard emits an OSC 52 sequence. Terminals without support ignore it, and
// write errors are dropped.
func copyToClipboard(w io.Writer, text string) {
	seq := osc52.New(text)
	if os.Getenv("TMUX") != "" {
		seq = seq.Tmux()
	} else if os.Getenv("STY") != "" {
		seq = seq.Screen()
	}
	_, _ = seq.WriteTo(w)
}
