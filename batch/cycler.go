// MODUL: cycler
// ZWECK: Batch-Indizes ueber einen Datensatz ausgeben, mit Neumischen am Ende eines Durchlaufs
// INPUT: Anzahl Samples, Start-Reihenfolge, optionale Laengen, Zufallsquelle
// OUTPUT: Index-Slices pro Batch
// NEBENEFFEKTE: veraendert Cursor und Permutation, zieht Zufallszahlen aus rng
// ABHAENGIGKEITEN: math/rand/v2, slices, cmp (Standardbibliothek)
// HINWEISE: Nur der erste Durchlauf nutzt die Start-Reihenfolge, jeder weitere ist zufaellig

package batch

import (
	"cmp"
	"errors"
	"fmt"
	"math/rand/v2"
	"slices"
)

// ErrNilRand wird zurueckgegeben wenn keine Zufallsquelle uebergeben wurde
var ErrNilRand = errors.New("batch: nil random source")

// Cycler haelt Cursor und Permutation ueber n Samples.
// Ein Cycler ist nicht fuer die gleichzeitige Nutzung gedacht.
type Cycler struct {
	n      int
	cursor int
	perm   []int
	rng    *rand.Rand
}

// New erstellt einen Cycler. lengths wird nur fuer ByLength benoetigt
// und muss dann genau n Eintraege haben.
func New(n int, order Order, lengths []int, rng *rand.Rand) (*Cycler, error) {
	if n < 0 {
		return nil, fmt.Errorf("batch: negative sample count %d", n)
	}
	if rng == nil {
		return nil, ErrNilRand
	}

	c := &Cycler{n: n, rng: rng}

	switch order {
	case Sequential:
		c.perm = make([]int, n)
		for i := range c.perm {
			c.perm[i] = i
		}
	case ByLength:
		if len(lengths) != n {
			return nil, fmt.Errorf("batch: %d lengths for %d samples", len(lengths), n)
		}
		c.perm = make([]int, n)
		for i := range c.perm {
			c.perm[i] = i
		}
		slices.SortStableFunc(c.perm, func(a, b int) int {
			return cmp.Compare(lengths[a], lengths[b])
		})
	case Random:
		c.perm = rng.Perm(n)
	default:
		return nil, fmt.Errorf("batch: unknown order %v", order)
	}

	return c, nil
}

// Next gibt die naechsten size Indizes zurueck. Ist der Durchlauf erschoepft,
// wird vorher neu gemischt. Der letzte Batch eines Durchlaufs kann kuerzer
// sein; der Cursor rueckt trotzdem um size vor.
func (c *Cycler) Next(size int) []int {
	if size <= 0 {
		return nil
	}

	if c.Exhausted() {
		c.perm = c.rng.Perm(c.n)
		c.cursor = 0
	}

	start, end := c.cursor, min(c.cursor+size, c.n)
	c.cursor += size

	return slices.Clone(c.perm[start:end])
}

// Exhausted meldet, ob der naechste Aufruf von Next neu mischt
func (c *Cycler) Exhausted() bool {
	return c.cursor >= c.n
}

// Len gibt die Anzahl der Samples zurueck
func (c *Cycler) Len() int {
	return c.n
}

// Cursor gibt die aktuelle Position im Durchlauf zurueck (kann n ueberschreiten)
func (c *Cycler) Cursor() int {
	return c.cursor
}
