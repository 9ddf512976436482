package main

import (
	"github.com/cours-de-latin/edittree/conllu"
	"github.com/spf13/cobra"
)

func newApplyCmd(a *app) *cobra.Command {
	opts := &convertFlags{}

	cmd := &cobra.Command{
		Use:   "apply [INPUT] [OUTPUT]",
		Short: "Convert edit trees to lemmas",
		Long: `Reads a CoNLL-U treebank whose words carry an edit tree label in the MISC
column, typically predicted by a tagger, and replaces each lemma with the
result of applying the tree to the form. Words whose tree does not fit
their form get the backoff lemma.`,
		Args: cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runApply(cmd, a, opts, args)
		},
	}

	opts.register(cmd)
	return cmd
}

func runApply(cmd *cobra.Command, a *app, opts *convertFlags, args []string) error {
	cfg, codec, err := opts.resolve(cmd, a.cfg)
	if err != nil {
		return err
	}

	stats, err := convert(cmd.Context(), convertOptions{
		input:     argAt(args, 0),
		output:    argAt(args, 1),
		batchSize: cfg.BatchSize,
		workers:   cfg.Workers,
		process: func(s *conllu.Sentence) (conllu.Stats, error) {
			return conllu.Apply(s, codec, cfg.Feature)
		},
	}, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	a.logger.Info("applied edit trees",
		"sentences", stats.Sentences, "words", stats.Words,
		"backoff", stats.Backoff, "mismatch", stats.Mismatch)
	return nil
}
