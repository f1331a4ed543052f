// MODUL: span
// ZWECK: Exact-Match und Span-Overlap-F1 zwischen Gold- und vorhergesagten Spans
// INPUT: One-Hot Gold-Start/End pro Sample, vorhergesagte Start/End-Indizes
// OUTPUT: Mittelwert ueber alle Samples
// NEBENEFFEKTE: keine
// ABHAENGIGKEITEN: errors, math (Standardbibliothek)
// HINWEISE: F1 wertet vertauschte Vorhersagen (end < start) wie den gedrehten Span

package metrics

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmptyDataset wird zurueckgegeben wenn keine Samples vorhanden sind.
	// Der zugehoerige Wert ist NaN.
	ErrEmptyDataset = errors.New("metrics: empty dataset")

	// ErrLengthMismatch wird zurueckgegeben wenn Gold und Vorhersage
	// unterschiedlich viele Samples haben
	ErrLengthMismatch = errors.New("metrics: length mismatch")
)

// Argmax gibt den ersten Index des groessten Eintrags zurueck (-1 fuer leere Zeilen)
func Argmax(row []int32) int {
	best := -1
	for i, v := range row {
		if best < 0 || v > row[best] {
			best = i
		}
	}
	return best
}

func validate(goldStart, goldEnd [][]int32, predStart, predEnd []int) error {
	n := len(goldStart)
	if len(goldEnd) != n || len(predStart) != n || len(predEnd) != n {
		return fmt.Errorf("%w: gold %d/%d, predicted %d/%d",
			ErrLengthMismatch, len(goldStart), len(goldEnd), len(predStart), len(predEnd))
	}
	if n == 0 {
		return ErrEmptyDataset
	}
	return nil
}

// ExactMatch gibt den Anteil der Samples zurueck, deren vorhergesagter
// Start und End beide dem Gold-Span entsprechen
func ExactMatch(goldStart, goldEnd [][]int32, predStart, predEnd []int) (float64, error) {
	if err := validate(goldStart, goldEnd, predStart, predEnd); err != nil {
		return math.NaN(), err
	}

	var matches int
	for i := range goldStart {
		if Argmax(goldStart[i]) == predStart[i] && Argmax(goldEnd[i]) == predEnd[i] {
			matches++
		}
	}
	return float64(matches) / float64(len(goldStart)), nil
}

// F1 gibt den mittleren Span-Overlap-F1 zurueck. Der vorhergesagte Bereich
// deckt [min(s, e), max(s, e)] ab, begrenzt auf die Kontextlaenge.
func F1(goldStart, goldEnd [][]int32, predStart, predEnd []int) (float64, error) {
	if err := validate(goldStart, goldEnd, predStart, predEnd); err != nil {
		return math.NaN(), err
	}

	var total float64
	for i := range goldStart {
		length := len(goldStart[i])
		gold := clip(interval{Argmax(goldStart[i]), Argmax(goldEnd[i])}, length)
		pred := clip(interval{min(predStart[i], predEnd[i]), max(predStart[i], predEnd[i])}, length)
		total += spanF1(gold, pred)
	}
	return total / float64(len(goldStart)), nil
}

// interval ist ein inklusiver Bereich, leer wenn lo > hi
type interval struct {
	lo, hi int
}

func (iv interval) size() int {
	return max(0, iv.hi-iv.lo+1)
}

func clip(iv interval, length int) interval {
	return interval{max(iv.lo, 0), min(iv.hi, length-1)}
}

func spanF1(gold, pred interval) float64 {
	overlap := interval{max(gold.lo, pred.lo), min(gold.hi, pred.hi)}.size()
	if overlap == 0 {
		return 0
	}

	precision := float64(overlap) / float64(pred.size())
	recall := float64(overlap) / float64(gold.size())
	return 2 * precision * recall / (precision + recall)
}
