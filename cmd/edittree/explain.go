package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/cours-de-latin/edittree"
	"github.com/sergi/go-diff/diffmatchpatch"
	"github.com/spf13/cobra"
)

func newExplainCmd(a *app) *cobra.Command {
	var flags convertFlags

	cmd := &cobra.Command{
		Use:   "explain FORM LEMMA",
		Short: "Show the edit tree of a form and lemma",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, codec, err := flags.resolve(cmd, a.cfg)
			if err != nil {
				return err
			}
			return explain(cmd.OutOrStdout(), codec, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&flags.strategy, "backoff", "", "backoff strategy: form, constant or vocabulary")
	cmd.Flags().StringVar(&flags.literal, "literal", "", "fallback string of the constant backoff")
	cmd.Flags().StringVar(&flags.vocabulary, "vocabulary", "", "form<TAB>lemma file of the vocabulary backoff")

	return cmd
}

func explain(w io.Writer, codec *edittree.Codec, form, lemma string) error {
	tree := codec.Tree(form, lemma)
	target, err := edittree.Decode(tree, form)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "form:   %s\n", form)
	fmt.Fprintf(w, "lemma:  %s\n", target)
	fmt.Fprintf(w, "label:  %s\n", edittree.Serialize(tree))
	fmt.Fprintf(w, "nodes:  %d (depth %d)\n", edittree.Nodes(tree), edittree.Depth(tree))
	fmt.Fprintf(w, "diff:   %s\n", charDiff(form, target))
	fmt.Fprintln(w, "tree:")
	describe(w, tree, []rune(form), "  ", "")
	return nil
}

// charDiff renders the character differences between a and b as
// "kept[-deleted-]{+inserted+}".
func charDiff(a, b string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(a, b, false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var sb strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			sb.WriteString(d.Text)
		case diffmatchpatch.DiffDelete:
			sb.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			sb.WriteString("{+" + d.Text + "+}")
		}
	}
	return sb.String()
}

// describe prints one line per node of t, which must fit form.
func describe(w io.Writer, t edittree.EditTree, form []rune, indent, role string) {
	switch t := t.(type) {
	case *edittree.MatchNode:
		middle := string(form[t.Pre : len(form)-t.Suf])
		fmt.Fprintf(w, "%s%smatch pre=%d suf=%d keep %q\n", indent, role, t.Pre, t.Suf, middle)
		if t.Left != nil {
			describe(w, t.Left, form[:t.Pre], indent+"  ", "left: ")
		}
		if t.Right != nil {
			describe(w, t.Right, form[len(form)-t.Suf:], indent+"  ", "right: ")
		}
	case *edittree.ReplaceNode:
		fmt.Fprintf(w, "%s%sreplace %q with %q\n", indent, role, t.Replacee, t.Replacement)
	default:
		fmt.Fprintf(w, "%s%sempty\n", indent, role)
	}
}
