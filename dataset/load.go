// load.go - Laden der Trainings- und Validierungsdateien
// Hauptfunktionen: Load, LoadSplit
package dataset

import (
	"context"
	"log/slog"
	"path/filepath"

	"golang.org/x/sync/errgroup"
)

// Options beschreibt Laengen und Pad-Wert fuer das Laden
type Options struct {
	ContextLength  int
	QuestionLength int
	// Pad ist der Index des Null-Vektors der Word-Vektor-Tabelle
	Pad int32
}

// Dateinamen im Daten-Verzeichnis, name ist "train" oder "val"
func contextFile(dir, name string) string  { return filepath.Join(dir, name+".ids.context") }
func questionFile(dir, name string) string { return filepath.Join(dir, name+".ids.question") }
func spanFile(dir, name string) string     { return filepath.Join(dir, name+".span") }

// LoadSplit liest Kontext, Frage und Spans eines Splits parallel
func LoadSplit(ctx context.Context, dir, name string, opts Options) (*Split, error) {
	var (
		contexts  *Sequences
		questions *Sequences
		labels    *OneHot
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		if err := ctx.Err(); err != nil {
			return err
		}
		contexts, err = ReadAndPadFile(contextFile(dir, name), opts.ContextLength, opts.Pad)
		return err
	})
	g.Go(func() (err error) {
		if err := ctx.Err(); err != nil {
			return err
		}
		questions, err = ReadAndPadFile(questionFile(dir, name), opts.QuestionLength, opts.Pad)
		return err
	})
	g.Go(func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		spans, err := ReadSpansFile(spanFile(dir, name))
		if err != nil {
			return err
		}
		labels, err = SpansToOneHot(spans, opts.ContextLength)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	split, err := NewSplit(contexts, questions, labels)
	if err != nil {
		return nil, err
	}

	slog.Debug("loaded split", "name", name, "samples", split.Len(),
		"context_length", opts.ContextLength, "question_length", opts.QuestionLength)
	return split, nil
}

// Load liest den Trainings- und den Validierungs-Split aus dir
func Load(ctx context.Context, dir string, opts Options) (train, val *Split, err error) {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		train, err = LoadSplit(ctx, dir, "train", opts)
		return err
	})
	g.Go(func() (err error) {
		val, err = LoadSplit(ctx, dir, "val", opts)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	return train, val, nil
}
