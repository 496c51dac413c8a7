// Command llmprovider executes a request document against the Anthropic Messages API.
//
//	llmprovider exec -f request.yaml --max-tokens 512
//	llmprovider supports claude-3-5-haiku-20241022
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/skosovsky/llmprovider"
	"github.com/skosovsky/llmprovider/adapter/anthropic"
	"github.com/skosovsky/llmprovider/ext/otelprovider"
	"github.com/skosovsky/llmprovider/requestfile"
)

// providerFactory builds the provider used by the commands; tests swap it.
type providerFactory func(logger *slog.Logger) llmprovider.Provider

func defaultProvider(logger *slog.Logger) llmprovider.Provider {
	return otelprovider.Wrap(anthropic.New(anthropic.WithLogger(logger)))
}

func main() {
	if err := newRootCmd(defaultProvider).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(newProvider providerFactory) *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:          "llmprovider",
		Short:        "Single-shot LLM request translator",
		SilenceUsage: true,
		Long: `Send a provider-neutral request document to an LLM backend and print
the normalized response as JSON.

The API key is read from ANTHROPIC_API_KEY unless the document's options
block sets api_key.`,
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")

	logger := func(cmd *cobra.Command) *slog.Logger {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
	}

	root.AddCommand(newExecCmd(newProvider, logger), newSupportsCmd(newProvider, logger))
	return root
}

// --- exec command ---

func newExecCmd(newProvider providerFactory, logger func(*cobra.Command) *slog.Logger) *cobra.Command {
	var (
		file        string
		model       string
		temperature float64
		maxTokens   int64
		timeout     time.Duration
		retries     int
	)
	cmd := &cobra.Command{
		Use:   "exec",
		Short: "Execute a request document",
		Long: `Parse a YAML or JSON request document, apply flag overrides and execute it.

Flags override the document's options block.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := requestfile.ParseFile(file)
			if err != nil {
				return err
			}
			override := &llmprovider.ExecutionOptions{Model: model, Timeout: timeout}
			if cmd.Flags().Changed("temperature") {
				override.Temperature = &temperature
			}
			if cmd.Flags().Changed("max-tokens") {
				override.MaxTokens = &maxTokens
			}
			if cmd.Flags().Changed("retries") {
				override.Retries = &retries
			}
			opts := doc.Options.Merge(override)

			log := logger(cmd)
			resp, err := newProvider(log).Execute(cmd.Context(), doc.Request, opts)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(resp)
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "request document (YAML or JSON)")
	cmd.Flags().StringVarP(&model, "model", "m", "", "override the model")
	cmd.Flags().Float64Var(&temperature, "temperature", 0, "sampling temperature")
	cmd.Flags().Int64Var(&maxTokens, "max-tokens", 0, "response token cap")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "per-request timeout passed to the client")
	cmd.Flags().IntVar(&retries, "retries", 0, "client retry budget")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

// --- supports command ---

func newSupportsCmd(newProvider providerFactory, logger func(*cobra.Command) *slog.Logger) *cobra.Command {
	return &cobra.Command{
		Use:   "supports <model>",
		Short: "Report whether a model is served by the provider",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), newProvider(logger(cmd)).SupportsModel(args[0]))
			return err
		},
	}
}
