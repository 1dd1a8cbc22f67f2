package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sirupsen/logrus"

	"namecraft/backend/internal/ai"
	"namecraft/backend/internal/config"
	"namecraft/backend/internal/naming"
	"namecraft/backend/internal/store"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		logrus.Fatalf("namegen: %v", err)
	}
}

type options struct {
	description string
	industry    string
	style       string
	count       int
	offline     bool
	record      bool
	history     int
	asJSON      bool
	envFile     string
}

func parseFlags(args []string) (options, error) {
	var opts options
	fs := flag.NewFlagSet("namegen", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.description, "description", "", "Product description to name")
	fs.StringVar(&opts.industry, "industry", "", "Optional industry hint (tech, finance, healthcare, ...)")
	fs.StringVar(&opts.style, "style", "", "Optional style hint (modern, minimalist, playful, ...)")
	fs.IntVar(&opts.count, "count", naming.DefaultCount, "Number of names to generate (1-20)")
	fs.BoolVar(&opts.offline, "offline", false, "Skip the AI call and use the fallback pool")
	fs.BoolVar(&opts.record, "record", false, "Store the generation in the history store")
	fs.IntVar(&opts.history, "history", 0, "Print the N most recent history records and exit")
	fs.BoolVar(&opts.asJSON, "json", false, "Print JSON instead of one name per line")
	fs.StringVar(&opts.envFile, "env", ".env", "Optional env file")
	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	if opts.history > 0 {
		return opts, nil
	}
	if strings.TrimSpace(opts.description) == "" {
		return opts, errors.New("-description is required")
	}
	if opts.count < 1 || opts.count > 20 {
		return opts, fmt.Errorf("-count must be between 1 and 20, got %d", opts.count)
	}
	return opts, nil
}

func run(ctx context.Context, args []string, out io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := config.Load(opts.envFile)
	if err != nil {
		return err
	}
	if err := config.ConfigureLogging(cfg); err != nil {
		return err
	}

	if opts.history > 0 {
		return printHistory(ctx, cfg, opts, out)
	}

	var completer ai.Completer
	if !opts.offline {
		client, err := ai.NewClient(cfg.AI())
		if err != nil {
			return fmt.Errorf("ai client: %w (use -offline to skip the AI call)", err)
		}
		completer = client
	}

	result := naming.NewGenerator(completer, naming.Options{}).Generate(ctx, naming.Request{
		Description: opts.description,
		Industry:    opts.industry,
		Style:       opts.style,
		Count:       opts.count,
	})

	if opts.record {
		history, err := store.Connect(ctx, cfg.Store())
		if err != nil {
			return err
		}
		defer history.Close()
		record := store.NewHistoryRecord(opts.description, opts.industry, opts.style, result.Names)
		if err := history.SaveHistory(ctx, record); err != nil {
			logrus.WithError(err).Warn("save generation history")
		}
	}

	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{
			"names":           result.Names,
			"generated_count": len(result.Names),
			"source":          result.Source,
		})
	}
	for _, name := range result.Names {
		fmt.Fprintln(out, name)
	}
	return nil
}

func printHistory(ctx context.Context, cfg config.Config, opts options, out io.Writer) error {
	history, err := store.Connect(ctx, cfg.Store())
	if err != nil {
		return err
	}
	defer history.Close()

	records, err := history.RecentHistory(ctx, opts.history)
	if err != nil {
		return err
	}
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(records)
	}
	for _, record := range records {
		fmt.Fprintf(out, "%s  %s  %s\n", record.Timestamp.Format("2006-01-02 15:04:05"), record.Description, strings.Join(record.GeneratedNames, ", "))
	}
	return nil
}
