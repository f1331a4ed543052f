// window_test.go - Unit Tests fuer das Metrik-Fenster
package metrics

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestWindow(t *testing.T) {
	var w Window
	if !math.IsNaN(w.Mean().Loss) {
		t.Errorf("leeres Fenster: Loss = %v, erwartet NaN", w.Mean().Loss)
	}

	w.Add(1, 0, 0.5, 4)
	w.Add(3, 1, 0.25, 2)

	if w.Len() != 2 {
		t.Fatalf("Len() = %d, erwartet 2", w.Len())
	}
	want := Snapshot{Loss: 2, EM: 0.5, F1: 0.375, GradNorm: 3}
	if diff := cmp.Diff(want, w.Mean()); diff != "" {
		t.Errorf("Mean() (-erwartet +erhalten):\n%s", diff)
	}

	w.Reset()
	if w.Len() != 0 {
		t.Errorf("Len() nach Reset = %d, erwartet 0", w.Len())
	}
}
