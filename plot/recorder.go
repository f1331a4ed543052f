// recorder.go - Diagramme der Trainingsmetriken ins Figure-Verzeichnis schreiben
// Hauptfunktionen: Recorder.PlotTraining, Recorder.PlotValidation
package plot

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spanqa/spanqa/train"
)

// Dateinamen der Diagramme
const (
	FileTrainingLoss     = "training_losses_over_time.png"
	FileTrainingEM       = "training_EMs_over_time.png"
	FileTrainingF1       = "training_f1s_over_time.png"
	FileTrainingGradNorm = "training_grad_norms_over_time.png"
	FileValidationEM     = "EM_val_over_time.png"
	FileValidationF1     = "F1_val_over_time.png"
)

// Recorder implementiert train.Plotter und schreibt PNGs nach Dir.
// Jeder Aufruf ueberschreibt die vorherigen Dateien.
type Recorder struct {
	Dir    string
	Width  int
	Height int
}

var _ train.Plotter = (*Recorder)(nil)

// PlotTraining schreibt Loss, EM, F1 und Gradienten-Norm ueber die Epochen
func (r *Recorder) PlotTraining(h *train.History, epoch int) error {
	axis := h.EpochAxis(epoch)
	return r.write(
		r.chart(FileTrainingLoss, "epoch", "loss", axis, h.Loss),
		r.chart(FileTrainingEM, "epoch", "EM", axis, h.EM),
		r.chart(FileTrainingF1, "epoch", "F1", axis, h.F1),
		r.chart(FileTrainingGradNorm, "epoch", "gradient_norm", axis, h.GradNorm),
	)
}

// PlotValidation schreibt EM und F1 der Validierung pro Epoche
func (r *Recorder) PlotValidation(h *train.History) error {
	axis := h.ValidationAxis()
	return r.write(
		r.chart(FileValidationEM, "epoch", "EM_val", axis, h.ValEM),
		r.chart(FileValidationF1, "epoch", "F1_val", axis, h.ValF1),
	)
}

type namedChart struct {
	name  string
	chart *Chart
}

func (r *Recorder) chart(name, xlabel, ylabel string, x, y []float64) namedChart {
	return namedChart{name: name, chart: &Chart{
		XLabel: xlabel,
		YLabel: ylabel,
		X:      x,
		Y:      y,
		Width:  r.Width,
		Height: r.Height,
	}}
}

func (r *Recorder) write(charts ...namedChart) error {
	if err := os.MkdirAll(r.Dir, 0o755); err != nil {
		return err
	}

	for _, c := range charts {
		path := filepath.Join(r.Dir, c.name)
		if err := c.chart.WriteFile(path); err != nil {
			return err
		}
		slog.Debug("wrote chart", "path", path, "points", len(c.chart.Y))
	}
	return nil
}
