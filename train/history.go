// history.go - Verlauf der Trainings- und Validierungsmetriken
// Hauptfunktionen: History.EpochAxis
package train

import "github.com/spanqa/spanqa/metrics"

// History sammelt einen Punkt pro Snapshot-Fenster und einen pro Epoche
// fuer die Validierung. Eintraege werden nur angehaengt.
type History struct {
	Loss     []float64
	EM       []float64
	F1       []float64
	GradNorm []float64

	ValLoss []float64
	ValEM   []float64
	ValF1   []float64
}

func (h *History) addSnapshot(s metrics.Snapshot) {
	h.Loss = append(h.Loss, s.Loss)
	h.EM = append(h.EM, s.EM)
	h.F1 = append(h.F1, s.F1)
	h.GradNorm = append(h.GradNorm, s.GradNorm)
}

func (h *History) addValidation(v Validation) {
	h.ValLoss = append(h.ValLoss, v.Loss)
	h.ValEM = append(h.ValEM, v.EM)
	h.ValF1 = append(h.ValF1, v.F1)
}

// EpochAxis verteilt die bisherigen Snapshots gleichmaessig auf [0, epoch)
func (h *History) EpochAxis(epoch int) []float64 {
	n := len(h.Loss)
	axis := make([]float64, n)
	for i := range axis {
		axis[i] = float64(i) * float64(epoch) / float64(n)
	}
	return axis
}

// ValidationAxis gibt 1..n fuer die Validierungspunkte zurueck
func (h *History) ValidationAxis() []float64 {
	axis := make([]float64, len(h.ValEM))
	for i := range axis {
		axis[i] = float64(i + 1)
	}
	return axis
}
