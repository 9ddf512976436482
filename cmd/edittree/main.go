// Command edittree converts CoNLL-U lemmas to edit tree labels and back.
//
// Usage:
//
//	edittree lemma [INPUT] [OUTPUT]     store lemmas as edit tree labels in MISC
//	edittree apply [INPUT] [OUTPUT]     rewrite lemmas from edit tree labels
//	edittree explain FORM LEMMA         show the edit tree of one pair
//	edittree completion SHELL           generate a shell completion script
//
// INPUT and OUTPUT default to standard input and output.
package main

import (
	"log/slog"
	"os"
	"runtime"

	"github.com/cours-de-latin/edittree"
	"github.com/cours-de-latin/edittree/config"
	"github.com/spf13/cobra"
)

// app carries state shared by all subcommands once the root command has
// loaded the configuration.
type app struct {
	configPath string
	logLevel   string

	cfg    config.Config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "edittree",
		Short:         "Edit tree lemma label converters",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newLemmaCmd(a))
	rootCmd.AddCommand(newApplyCmd(a))
	rootCmd.AddCommand(newExplainCmd(a))

	return rootCmd
}

func (a *app) load(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	a.cfg = cfg
	a.logger = cfg.Logger(cmd.ErrOrStderr())
	return nil
}

// convertFlags are the flags shared by lemma and apply. Flags that were
// set override the configuration.
type convertFlags struct {
	strategy   string
	literal    string
	vocabulary string
	feature    string
	workers    int
}

func (f *convertFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.strategy, "backoff", "", "backoff strategy: form, constant or vocabulary")
	cmd.Flags().StringVar(&f.literal, "literal", "", "fallback string of the constant backoff")
	cmd.Flags().StringVar(&f.vocabulary, "vocabulary", "", "form<TAB>lemma file of the vocabulary backoff")
	cmd.Flags().StringVarP(&f.feature, "feature", "f", "", "name of the MISC feature used for the edit tree (default edit_tree)")
	cmd.Flags().IntVar(&f.workers, "workers", 0, "sentences processed in parallel (0 = one per CPU)")
}

// resolve overlays the flags set on cmd onto cfg and builds the codec.
func (f *convertFlags) resolve(cmd *cobra.Command, cfg config.Config) (config.Config, *edittree.Codec, error) {
	flags := cmd.Flags()
	if flags.Changed("backoff") {
		cfg.Backoff.Strategy = f.strategy
	}
	if flags.Changed("literal") {
		cfg.Backoff.Literal = f.literal
	}
	if flags.Changed("vocabulary") {
		cfg.Backoff.Vocabulary = f.vocabulary
	}
	if flags.Changed("feature") {
		cfg.Feature = f.feature
	}
	if flags.Changed("workers") {
		cfg.Workers = f.workers
	}
	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}
	if cfg.Workers == 0 {
		cfg.Workers = runtime.NumCPU()
	}

	b, err := cfg.BackoffStrategy()
	if err != nil {
		return cfg, nil, err
	}
	return cfg, edittree.New(b), nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		slog.Error("edittree failed", "err", err)
		os.Exit(1)
	}
}
