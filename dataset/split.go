// split.go - Datensatz-Splits und Batch-Zusammenstellung
// Hauptfunktionen: NewSplit, Split.Gather, Split.All
package dataset

import "fmt"

// Split haelt einen vollstaendigen Teil der Daten (train oder val).
// Nach dem Laden wird ein Split nur noch gelesen.
type Split struct {
	Context  *Sequences
	Question *Sequences
	Labels   *OneHot
}

// NewSplit prueft, dass alle drei Teile gleich viele Zeilen haben
func NewSplit(context, question *Sequences, labels *OneHot) (*Split, error) {
	if context.Len() != question.Len() || context.Len() != labels.Len() {
		return nil, fmt.Errorf("%w: %d contexts, %d questions, %d spans",
			ErrShapeMismatch, context.Len(), question.Len(), labels.Len())
	}
	if labels.Length != context.Length {
		return nil, fmt.Errorf("%w: labels have length %d, contexts %d",
			ErrShapeMismatch, labels.Length, context.Length)
	}
	return &Split{Context: context, Question: question, Labels: labels}, nil
}

// Len gibt die Anzahl der Samples zurueck
func (s *Split) Len() int {
	return s.Context.Len()
}

// Batch enthaelt die sechs Eingaben eines Modell-Schritts.
// Die Zeilen teilen sich den Speicher mit dem Split und duerfen nicht veraendert werden.
type Batch struct {
	ContextIDs   [][]int32
	ContextMask  [][]bool
	QuestionIDs  [][]int32
	QuestionMask [][]bool
	Start        [][]int32
	End          [][]int32
}

// Len gibt die Anzahl der Samples im Batch zurueck
func (b *Batch) Len() int {
	return len(b.ContextIDs)
}

// Gather stellt einen Batch aus den Zeilen indices zusammen
func (s *Split) Gather(indices []int) *Batch {
	b := &Batch{
		ContextIDs:   make([][]int32, len(indices)),
		ContextMask:  make([][]bool, len(indices)),
		QuestionIDs:  make([][]int32, len(indices)),
		QuestionMask: make([][]bool, len(indices)),
		Start:        make([][]int32, len(indices)),
		End:          make([][]int32, len(indices)),
	}
	for i, idx := range indices {
		b.ContextIDs[i] = s.Context.IDs[idx]
		b.ContextMask[i] = s.Context.Mask[idx]
		b.QuestionIDs[i] = s.Question.IDs[idx]
		b.QuestionMask[i] = s.Question.Mask[idx]
		b.Start[i] = s.Labels.Start[idx]
		b.End[i] = s.Labels.End[idx]
	}
	return b
}

// All gibt den gesamten Split als einen Batch zurueck
func (s *Split) All() *Batch {
	return &Batch{
		ContextIDs:   s.Context.IDs,
		ContextMask:  s.Context.Mask,
		QuestionIDs:  s.Question.IDs,
		QuestionMask: s.Question.Mask,
		Start:        s.Labels.Start,
		End:          s.Labels.End,
	}
}
