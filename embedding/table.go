// table.go - Word-Vektor-Tabelle mit Null-Vektor fuer Padding
// Hauptfunktionen: Load, NewTable, Table.AppendPadding, Table.Row
package embedding

import (
	"errors"
	"log/slog"

	"gonum.org/v1/gonum/mat"
)

// ErrPaddingExists wird zurueckgegeben wenn AppendPadding zweimal aufgerufen wird
var ErrPaddingExists = errors.New("embedding: padding row already appended")

// Table haelt V Word-Vektoren der Dimension D als Zeilen
type Table struct {
	vectors *mat.Dense
	// PadIndex ist der Index des Null-Vektors, -1 solange keiner angehaengt wurde
	PadIndex int
}

// NewTable erstellt eine Tabelle ohne Padding-Zeile
func NewTable(vectors *mat.Dense) *Table {
	return &Table{vectors: vectors, PadIndex: -1}
}

// Load liest die Word-Vektoren aus path (.npz mit Eintrag key oder .npy)
func Load(path, key string) (*Table, error) {
	m, err := readArray(path, key)
	if err != nil {
		return nil, err
	}

	t := NewTable(m)
	v, d := t.Dims()
	slog.Info("loaded word vectors", "path", path, "vectors", v, "dim", d)
	return t, nil
}

// Dims gibt Anzahl und Dimension der Vektoren zurueck
func (t *Table) Dims() (v, d int) {
	return t.vectors.Dims()
}

// Vectors gibt die Matrix der Word-Vektoren zurueck
func (t *Table) Vectors() mat.Matrix {
	return t.vectors
}

// AppendPadding haengt einen Null-Vektor an und gibt seinen Index zurueck.
// Der Index ist die Zeilenzahl vor dem Anhaengen.
func (t *Table) AppendPadding() (int, error) {
	if t.PadIndex >= 0 {
		return t.PadIndex, ErrPaddingExists
	}

	v, d := t.Dims()
	grown := mat.NewDense(v+1, d, nil)
	grown.Slice(0, v, 0, d).(*mat.Dense).Copy(t.vectors)

	t.vectors = grown
	t.PadIndex = v
	slog.Debug("appended padding vector", "index", v, "vectors", v+1)
	return v, nil
}

// Row gibt den Vektor zu id zurueck; der Slice gehoert der Tabelle
func (t *Table) Row(id int) []float64 {
	return t.vectors.RawRowView(id)
}
