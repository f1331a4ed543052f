// window.go - Rollende Metrik-Akkumulatoren
// Hauptfunktionen: Window.Add, Window.Mean, Window.Reset
package metrics

import "gonum.org/v1/gonum/stat"

// Snapshot ist ein Punkt der Trainings-Historie
type Snapshot struct {
	Loss     float64
	EM       float64
	F1       float64
	GradNorm float64
}

// Window sammelt die Skalare der Schritte bis zum naechsten Snapshot
type Window struct {
	losses    []float64
	ems       []float64
	f1s       []float64
	gradNorms []float64
}

// Add fuegt die Werte eines Schritts hinzu
func (w *Window) Add(loss, em, f1, gradNorm float64) {
	w.losses = append(w.losses, loss)
	w.ems = append(w.ems, em)
	w.f1s = append(w.f1s, f1)
	w.gradNorms = append(w.gradNorms, gradNorm)
}

// Len gibt die Anzahl der gesammelten Schritte zurueck
func (w *Window) Len() int {
	return len(w.losses)
}

// Mean gibt die Mittelwerte zurueck; ein leeres Fenster ergibt NaN
func (w *Window) Mean() Snapshot {
	return Snapshot{
		Loss:     stat.Mean(w.losses, nil),
		EM:       stat.Mean(w.ems, nil),
		F1:       stat.Mean(w.f1s, nil),
		GradNorm: stat.Mean(w.gradNorms, nil),
	}
}

// Reset leert das Fenster
func (w *Window) Reset() {
	w.losses = w.losses[:0]
	w.ems = w.ems[:0]
	w.f1s = w.f1s[:0]
	w.gradNorms = w.gradNorms[:0]
}
