// order.go - Reihenfolge des ersten Durchlaufs
// Hauptfunktionen: ParseOrder, Order.String
package batch

import (
	"fmt"
	"math"

	"github.com/agnivade/levenshtein"
)

// Order bestimmt die Permutation, mit der ein Cycler startet
type Order int

const (
	// Sequential startet mit der Identitaet
	Sequential Order = iota
	// ByLength startet aufsteigend nach Sample-Laenge (kurze Kontexte zuerst)
	ByLength
	// Random startet mit einer zufaelligen Permutation
	Random
)

var orderNames = map[Order]string{
	Sequential: "sequential",
	ByLength:   "by-length",
	Random:     "random",
}

func (o Order) String() string {
	if s, ok := orderNames[o]; ok {
		return s
	}
	return fmt.Sprintf("Order(%d)", int(o))
}

// ParseOrder liest einen Order-Namen; leer bedeutet Sequential.
// Bei unbekannten Namen schlaegt der Fehler den naechstliegenden vor.
func ParseOrder(s string) (Order, error) {
	if s == "" {
		return Sequential, nil
	}

	best, score := "", math.MaxInt
	for o, name := range orderNames {
		if name == s {
			return o, nil
		}
		if d := levenshtein.ComputeDistance(s, name); d < score || (d == score && name < best) {
			best, score = name, d
		}
	}

	return 0, fmt.Errorf("unknown order %q, did you mean %q?", s, best)
}
