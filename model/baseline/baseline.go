// MODUL: baseline
// ZWECK: Einfaches Span-Modell aus Positions-Bias und Wortvektor-Projektion
// INPUT: dataset.Batch, embedding.Table
// OUTPUT: train.Result mit Loss, Vorhersagen und Gradienten-Norm
// NEBENEFFEKTE: Step aktualisiert die Parameter
// ABHAENGIGKEITEN: gonum floats, embedding, metrics, train
// HINWEISE: Die Frage wird ignoriert; das Modell dient als Referenz fuer die Trainingsschleife

package baseline

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"

	"gonum.org/v1/gonum/floats"

	"github.com/spanqa/spanqa/dataset"
	"github.com/spanqa/spanqa/embedding"
	"github.com/spanqa/spanqa/metrics"
	"github.com/spanqa/spanqa/train"
)

var (
	ErrEmptyBatch = errors.New("baseline: empty batch")
	ErrUnknownID  = errors.New("baseline: token id outside embedding table")
	ErrRowLength  = errors.New("baseline: context row has wrong length")
)

// minProb begrenzt -log p nach oben
const minProb = 1e-12

// head bewertet jede Kontext-Position mit pos[j] + u·e_j
type head struct {
	pos []float64
	u   []float64
}

func newHead(length, dim int, rng *rand.Rand) head {
	h := head{pos: make([]float64, length), u: make([]float64, dim)}
	if rng != nil {
		for i := range h.u {
			h.u[i] = rng.NormFloat64() * 0.01
		}
	}
	return h
}

func (h head) logits(out []float64, vecs [][]float64) {
	for j, v := range vecs {
		out[j] = h.pos[j] + floats.Dot(h.u, v)
	}
}

func (h head) zero() head {
	return head{pos: make([]float64, len(h.pos)), u: make([]float64, len(h.u))}
}

// Model implementiert train.Model
type Model struct {
	table        *embedding.Table
	length       int
	learningRate float64

	start, end head
}

var _ train.Model = (*Model)(nil)

// New erstellt ein Modell fuer Kontexte der Laenge length.
// rng initialisiert die Projektionen; nil laesst sie bei null.
func New(table *embedding.Table, length int, learningRate float64, rng *rand.Rand) (*Model, error) {
	if table == nil {
		return nil, errors.New("baseline: nil embedding table")
	}
	if length <= 0 {
		return nil, fmt.Errorf("baseline: context length must be positive, got %d", length)
	}
	if learningRate <= 0 {
		return nil, fmt.Errorf("baseline: learning rate must be positive, got %g", learningRate)
	}

	_, dim := table.Dims()
	return &Model{
		table:        table,
		length:       length,
		learningRate: learningRate,
		start:        newHead(length, dim, rng),
		end:          newHead(length, dim, rng),
	}, nil
}

// Step rechnet Forward und Backward und wendet einen Gradientenschritt an
func (m *Model) Step(ctx context.Context, b *dataset.Batch) (train.Result, error) {
	gs, ge := m.start.zero(), m.end.zero()
	res, err := m.forward(ctx, b, &gs, &ge)
	if err != nil {
		return res, err
	}

	res.GradNorm = math.Sqrt(sumSquares(gs.pos) + sumSquares(gs.u) + sumSquares(ge.pos) + sumSquares(ge.u))

	floats.AddScaled(m.start.pos, -m.learningRate, gs.pos)
	floats.AddScaled(m.start.u, -m.learningRate, gs.u)
	floats.AddScaled(m.end.pos, -m.learningRate, ge.pos)
	floats.AddScaled(m.end.u, -m.learningRate, ge.u)
	return res, nil
}

// Evaluate rechnet nur Forward
func (m *Model) Evaluate(ctx context.Context, b *dataset.Batch) (train.Result, error) {
	return m.forward(ctx, b, nil, nil)
}

// forward summiert die Gradienten nach gs/ge, falls nicht nil
func (m *Model) forward(ctx context.Context, b *dataset.Batch, gs, ge *head) (train.Result, error) {
	n := b.Len()
	if n == 0 {
		return train.Result{}, ErrEmptyBatch
	}

	res := train.Result{Start: make([]int, n), End: make([]int, n)}
	vecs := make([][]float64, m.length)
	scores := make([]float64, m.length)
	probs := make([]float64, m.length)
	allowed := make([]bool, m.length)
	scale := 1 / float64(n)

	var loss float64
	for i := range n {
		if err := ctx.Err(); err != nil {
			return train.Result{}, err
		}
		if err := m.lookup(vecs, b.ContextIDs[i]); err != nil {
			return train.Result{}, fmt.Errorf("sample %d: %w", i, err)
		}
		mask := b.ContextMask[i]

		for _, hd := range []struct {
			h    head
			g    *head
			gold []int32
			pred []int
		}{
			{m.start, gs, b.Start[i], res.Start},
			{m.end, ge, b.End[i], res.End},
		} {
			hd.h.logits(scores, vecs)
			hd.pred[i] = argmax(scores, mask)

			y := metrics.Argmax(hd.gold)
			if len(hd.gold) != m.length {
				return train.Result{}, fmt.Errorf("sample %d: %w: label has %d positions", i, ErrRowLength, len(hd.gold))
			}
			positions(allowed, mask, y)
			softmax(probs, scores, allowed)
			loss -= math.Log(math.Max(probs[y], minProb))

			if hd.g == nil {
				continue
			}
			for j, ok := range allowed {
				if !ok {
					continue
				}
				d := probs[j]
				if j == y {
					d--
				}
				d *= scale
				hd.g.pos[j] += d
				floats.AddScaled(hd.g.u, d, vecs[j])
			}
		}
	}

	res.Loss = loss * scale
	return res, nil
}

// lookup schreibt die Wortvektoren der Zeile nach vecs
func (m *Model) lookup(vecs [][]float64, ids []int32) error {
	if len(ids) != m.length {
		return fmt.Errorf("%w: %d, want %d", ErrRowLength, len(ids), m.length)
	}
	v, _ := m.table.Dims()
	for j, id := range ids {
		if id < 0 || int(id) >= v {
			return fmt.Errorf("%w: %d at position %d (table has %d rows)", ErrUnknownID, id, j, v)
		}
		vecs[j] = m.table.Row(int(id))
	}
	return nil
}

// positions markiert die echten Positionen plus die Gold-Position.
// Ohne echte Position sind alle Positionen erlaubt.
func positions(allowed, mask []bool, gold int) {
	found := false
	for j := range allowed {
		allowed[j] = mask[j]
		found = found || mask[j]
	}
	if !found {
		for j := range allowed {
			allowed[j] = true
		}
	}
	allowed[gold] = true
}

func softmax(p, s []float64, allowed []bool) {
	best := math.Inf(-1)
	for j, ok := range allowed {
		if ok && s[j] > best {
			best = s[j]
		}
	}

	var sum float64
	for j, ok := range allowed {
		p[j] = 0
		if ok {
			p[j] = math.Exp(s[j] - best)
			sum += p[j]
		}
	}
	floats.Scale(1/sum, p)
}

// argmax ueber die echten Positionen, ohne echte Position ueber alle
func argmax(s []float64, mask []bool) int {
	best := -1
	for j, ok := range mask {
		if ok && (best < 0 || s[j] > s[best]) {
			best = j
		}
	}
	if best < 0 {
		best = floats.MaxIdx(s)
	}
	return best
}

func sumSquares(v []float64) float64 {
	return floats.Dot(v, v)
}
