package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cours-de-latin/edittree/conllu"
)

// openInput opens path for reading; "" and "-" mean stdin.
func openInput(path string, stdin io.Reader) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open input for reading: %w", err)
	}
	return f, nil
}

// createOutput opens path for writing; "" and "-" mean stdout.
func createOutput(path string, stdout io.Writer) (io.WriteCloser, error) {
	if path == "" || path == "-" {
		return nopWriteCloser{stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open output for writing: %w", err)
	}
	return f, nil
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }

// convertOptions describes one pass over a treebank. process runs on the
// sentences of a batch in parallel; processed, when set, then sees the
// whole batch in input order.
type convertOptions struct {
	input, output string
	batchSize     int
	workers       int
	process       func(*conllu.Sentence) (conllu.Stats, error)
	processed     func([]*conllu.Sentence)
}

// convert reads sentences in batches, processes every batch in parallel
// and writes the sentences back in their original order.
func convert(ctx context.Context, opts convertOptions, stdin io.Reader, stdout io.Writer) (conllu.Stats, error) {
	var total conllu.Stats

	in, err := openInput(opts.input, stdin)
	if err != nil {
		return total, err
	}
	defer in.Close()

	out, err := createOutput(opts.output, stdout)
	if err != nil {
		return total, err
	}

	r := conllu.NewReader(in)
	w := conllu.NewWriter(out)
	batch := make([]*conllu.Sentence, 0, opts.batchSize)

	flush := func() error {
		st, err := conllu.ProcessAll(ctx, batch, opts.workers, opts.process)
		if err != nil {
			return fmt.Errorf("batch starting at sentence %d: %w", total.Sentences+1, err)
		}
		total.Add(st)
		if opts.processed != nil {
			opts.processed(batch)
		}
		for _, s := range batch {
			if err := w.Write(s); err != nil {
				return fmt.Errorf("cannot write sentence: %w", err)
			}
		}
		batch = batch[:0]
		return nil
	}

	for {
		s, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			out.Close()
			return total, fmt.Errorf("cannot parse sentence: %w", err)
		}
		batch = append(batch, s)
		if len(batch) == opts.batchSize {
			if err := flush(); err != nil {
				out.Close()
				return total, err
			}
		}
	}

	if err := flush(); err != nil {
		out.Close()
		return total, err
	}
	if err := w.Flush(); err != nil {
		out.Close()
		return total, fmt.Errorf("cannot write output: %w", err)
	}
	return total, out.Close()
}
