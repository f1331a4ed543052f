// model.go - Schnittstellen zwischen Trainingsschleife und Umgebung
// Hauptfunktionen: Model, Plotter, Observer
package train

import (
	"context"

	"github.com/spanqa/spanqa/dataset"
	"github.com/spanqa/spanqa/metrics"
)

// Result ist die Ausgabe eines Modell-Aufrufs fuer einen Batch.
// Start und End haben eine Vorhersage pro Sample.
type Result struct {
	Loss     float64
	Start    []int
	End      []int
	GradNorm float64
}

// Model ist das eigentliche Vorhersage-Netz.
// Step rechnet Forward und Backward und wendet den Gradientenschritt an,
// Evaluate rechnet nur Forward.
type Model interface {
	Step(ctx context.Context, b *dataset.Batch) (Result, error)
	Evaluate(ctx context.Context, b *dataset.Batch) (Result, error)
}

// Validation sind die Metriken eines vollen Validierungs-Durchlaufs
type Validation struct {
	Loss float64
	EM   float64
	F1   float64
}

// Plotter wird nach jeder Epoche und einmal am Ende aufgerufen
type Plotter interface {
	PlotTraining(h *History, epoch int) error
	PlotValidation(h *History) error
}

// Observer erhaelt jeden Snapshot und jede Validierung, z.B. zum Speichern
type Observer interface {
	ObserveSnapshot(epoch, step int, s metrics.Snapshot) error
	ObserveValidation(epoch int, v Validation) error
}
