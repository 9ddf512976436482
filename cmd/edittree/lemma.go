package main

import (
	"github.com/cours-de-latin/edittree"
	"github.com/cours-de-latin/edittree/conllu"
	"github.com/spf13/cobra"
)

type lemmaOptions struct {
	convertFlags
	inventory string
}

func newLemmaCmd(a *app) *cobra.Command {
	opts := &lemmaOptions{}

	cmd := &cobra.Command{
		Use:   "lemma [INPUT] [OUTPUT]",
		Short: "Convert lemmas to edit trees",
		Long: `Reads a CoNLL-U treebank and stores, for every word, the edit tree that
rewrites its form into its lemma as a label in the MISC column.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLemma(cmd, a, opts, args)
		},
	}

	opts.register(cmd)
	cmd.Flags().StringVar(&opts.inventory, "inventory", "", "write the label inventory as YAML to this file")

	return cmd
}

func runLemma(cmd *cobra.Command, a *app, opts *lemmaOptions, args []string) error {
	cfg, codec, err := opts.resolve(cmd, a.cfg)
	if err != nil {
		return err
	}

	var (
		inv       *edittree.Inventory
		processed func([]*conllu.Sentence)
	)
	if opts.inventory != "" {
		inv = edittree.NewInventory()
		processed = func(batch []*conllu.Sentence) {
			conllu.AddLabels(inv, batch, cfg.Feature)
		}
	}

	input, output := argAt(args, 0), argAt(args, 1)
	a.logger.Debug("converting lemmas",
		"input", input, "output", output, "feature", cfg.Feature,
		"backoff", codec.Backoff.String(), "workers", cfg.Workers)

	stats, err := convert(cmd.Context(), convertOptions{
		input:     input,
		output:    output,
		batchSize: cfg.BatchSize,
		workers:   cfg.Workers,
		process: func(s *conllu.Sentence) (conllu.Stats, error) {
			return conllu.Annotate(s, codec, cfg.Feature), nil
		},
		processed: processed,
	}, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	attrs := []any{"sentences", stats.Sentences, "words", stats.Words, "backoff", stats.Backoff}
	if inv != nil {
		if err := inv.Save(opts.inventory); err != nil {
			return err
		}
		attrs = append(attrs, "labels", inv.Len())
	}
	a.logger.Info("converted lemmas to edit trees", attrs...)

	return nil
}

func argAt(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
