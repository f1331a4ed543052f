// MODUL: loop
// ZWECK: Trainingsschleife ueber Epochen mit Snapshots, Validierung und Plot-Hooks
// INPUT: Model, Trainings- und Validierungs-Split, Options
// OUTPUT: History mit allen Snapshots und Validierungen
// NEBENEFFEKTE: ruft Model.Step (veraendert das Modell), Plotter und Observer auf
// ABHAENGIGKEITEN: batch, dataset, metrics, progress
// HINWEISE: Ein unvollstaendiges Fenster am Epochenende wird verworfen, nicht gemittelt

package train

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"

	"github.com/spanqa/spanqa/batch"
	"github.com/spanqa/spanqa/dataset"
	"github.com/spanqa/spanqa/logutil"
	"github.com/spanqa/spanqa/metrics"
	"github.com/spanqa/spanqa/progress"
)

// DefaultReportEvery ist die Anzahl Schritte pro Snapshot
const DefaultReportEvery = 20

// ErrPredictionShape wird zurueckgegeben wenn das Modell nicht genau eine
// Vorhersage pro Sample liefert
var ErrPredictionShape = errors.New("train: prediction shape does not match batch")

// Options steuert einen Trainingslauf
type Options struct {
	Epochs    int
	BatchSize int
	// ReportEvery ist die Fenstergroesse fuer Snapshots (0 = DefaultReportEvery)
	ReportEvery int
	// Order gilt nur fuer den ersten Durchlauf der Trainingsdaten
	Order batch.Order
	Rand  *rand.Rand
}

// Option konfiguriert optionale Teile eines Loop
type Option func(*Loop)

// WithPlotter setzt den Plotter fuer Epochen- und End-Diagramme
func WithPlotter(p Plotter) Option {
	return func(l *Loop) { l.plotter = p }
}

// WithObserver fuegt einen Observer hinzu
func WithObserver(o Observer) Option {
	return func(l *Loop) { l.observers = append(l.observers, o) }
}

// WithProgress zeichnet pro Epoche einen Fortschrittsbalken nach w
func WithProgress(w io.Writer) Option {
	return func(l *Loop) { l.progress = w }
}

// Loop fuehrt das Training eines Model auf einem Split aus.
// Cursor, Permutation und Fenster gehoeren genau einem Loop.
type Loop struct {
	model Model
	train *dataset.Split
	val   *dataset.Split
	opts  Options

	plotter   Plotter
	observers []Observer
	progress  io.Writer

	cycler  *batch.Cycler
	window  metrics.Window
	history *History
}

// New prueft die Optionen und erstellt einen Loop
func New(model Model, train, val *dataset.Split, opts Options, options ...Option) (*Loop, error) {
	switch {
	case model == nil:
		return nil, errors.New("train: nil model")
	case train == nil || val == nil:
		return nil, errors.New("train: nil split")
	case opts.BatchSize < 1:
		return nil, fmt.Errorf("train: batch size must be positive, got %d", opts.BatchSize)
	case opts.Epochs < 0:
		return nil, fmt.Errorf("train: negative epoch count %d", opts.Epochs)
	case opts.ReportEvery < 0:
		return nil, fmt.Errorf("train: negative report interval %d", opts.ReportEvery)
	case opts.Rand == nil:
		return nil, batch.ErrNilRand
	}

	if opts.ReportEvery == 0 {
		opts.ReportEvery = DefaultReportEvery
	}

	l := &Loop{model: model, train: train, val: val, opts: opts}
	for _, o := range options {
		o(l)
	}
	return l, nil
}

// History gibt den Verlauf des laufenden oder letzten Trainings zurueck
func (l *Loop) History() *History {
	return l.history
}

// Run trainiert Options.Epochs Epochen. Zwischen zwei Schritten wird ctx
// geprueft; bei Abbruch wird der bisherige Verlauf mit ctx.Err() zurueckgegeben.
// Fehler des Modells werden unveraendert weitergegeben.
func (l *Loop) Run(ctx context.Context) (*History, error) {
	n := l.train.Len()

	cycler, err := batch.New(n, l.opts.Order, l.train.Context.Lengths(), l.opts.Rand)
	if err != nil {
		return nil, err
	}
	l.cycler = cycler
	l.history = &History{}

	steps := n / l.opts.BatchSize
	slog.Info("starting training", "samples", n, "validation_samples", l.val.Len(),
		"epochs", l.opts.Epochs, "batch_size", l.opts.BatchSize, "steps_per_epoch", steps,
		"order", l.opts.Order)

	for epoch := 1; epoch <= l.opts.Epochs; epoch++ {
		if err := l.runEpoch(ctx, epoch, steps); err != nil {
			return l.history, err
		}

		slog.Info("epoch finished, evaluating on validation split", "epoch", epoch)
		v, err := l.validate(ctx, epoch)
		if err != nil {
			return l.history, err
		}
		slog.Info("validation", "epoch", epoch, "loss", v.Loss, "EM_val", v.EM, "F1_val", v.F1)

		if l.plotter != nil {
			if err := l.plotter.PlotTraining(l.history, epoch); err != nil {
				return l.history, fmt.Errorf("plot training metrics: %w", err)
			}
		}
	}

	if l.plotter != nil {
		if err := l.plotter.PlotValidation(l.history); err != nil {
			return l.history, fmt.Errorf("plot validation metrics: %w", err)
		}
	}

	return l.history, nil
}

func (l *Loop) runEpoch(ctx context.Context, epoch, steps int) error {
	l.window.Reset()

	var bar *progress.Bar
	if l.progress != nil {
		bar = progress.NewBar(l.progress, fmt.Sprintf("epoch %d/%d", epoch, l.opts.Epochs), steps)
		defer bar.Stop()
	}

	for step := range steps {
		if err := ctx.Err(); err != nil {
			return err
		}

		b := l.train.Gather(l.cycler.Next(l.opts.BatchSize))
		res, err := l.model.Step(ctx, b)
		if err != nil {
			slog.Error("model step failed", "epoch", epoch, "step", step, "error", err)
			return err
		}

		em, f1, err := score(b, res)
		if err != nil {
			return fmt.Errorf("epoch %d step %d: %w", epoch, step, err)
		}
		l.window.Add(res.Loss, em, f1, res.GradNorm)
		logutil.Trace("training step", "epoch", epoch, "step", step, "batch", b.Len(),
			"loss", res.Loss, "EM", em, "f1", f1, "grad_norm", res.GradNorm)

		if l.window.Len() >= l.opts.ReportEvery {
			s := l.window.Mean()
			l.window.Reset()
			l.history.addSnapshot(s)

			if bar != nil {
				bar.SetPostfix("loss", s.Loss, "EM", s.EM, "f1", s.F1, "grad_norm", s.GradNorm)
			}
			for _, o := range l.observers {
				if err := o.ObserveSnapshot(epoch, step+1, s); err != nil {
					return fmt.Errorf("observe snapshot: %w", err)
				}
			}
		}

		if bar != nil {
			bar.Set(step + 1)
		}
	}

	if l.window.Len() > 0 {
		slog.Debug("dropping partial metric window", "epoch", epoch, "steps", l.window.Len())
	}
	return nil
}

// validate rechnet einen Forward-Durchlauf ueber den gesamten Validierungs-Split
func (l *Loop) validate(ctx context.Context, epoch int) (Validation, error) {
	if err := ctx.Err(); err != nil {
		return Validation{}, err
	}

	b := l.val.All()
	res, err := l.model.Evaluate(ctx, b)
	if err != nil {
		slog.Error("model evaluation failed", "epoch", epoch, "error", err)
		return Validation{}, err
	}

	em, f1, err := score(b, res)
	if err != nil {
		return Validation{}, fmt.Errorf("validation epoch %d: %w", epoch, err)
	}

	v := Validation{Loss: res.Loss, EM: em, F1: f1}
	l.history.addValidation(v)

	for _, o := range l.observers {
		if err := o.ObserveValidation(epoch, v); err != nil {
			return v, fmt.Errorf("observe validation: %w", err)
		}
	}
	return v, nil
}

func score(b *dataset.Batch, res Result) (em, f1 float64, err error) {
	if len(res.Start) != b.Len() || len(res.End) != b.Len() {
		return 0, 0, fmt.Errorf("%w: %d/%d predictions for %d samples",
			ErrPredictionShape, len(res.Start), len(res.End), b.Len())
	}

	if em, err = metrics.ExactMatch(b.Start, b.End, res.Start, res.End); err != nil {
		return em, 0, err
	}
	if f1, err = metrics.F1(b.Start, b.End, res.Start, res.End); err != nil {
		return em, f1, err
	}
	return em, f1, nil
}
