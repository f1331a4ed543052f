package baseline

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"testing"

	"gonum.org/v1/gonum/mat"

	"github.com/spanqa/spanqa/dataset"
	"github.com/spanqa/spanqa/embedding"
	"github.com/spanqa/spanqa/metrics"
)

func testTable(t *testing.T) *embedding.Table {
	t.Helper()
	table := embedding.NewTable(mat.NewDense(3, 2, []float64{
		1, 0,
		0, 1,
		0, 0,
	}))
	if _, err := table.AppendPadding(); err != nil {
		t.Fatal(err)
	}
	return table
}

func oneHot(length, idx int) []int32 {
	row := make([]int32, length)
	row[idx] = 1
	return row
}

// testBatch: Start liegt auf Token 0, End auf Token 1
func testBatch() *dataset.Batch {
	const pad = 3
	ids := [][]int32{
		{0, 1, 2, 2, 2},
		{2, 0, 2, 1, 2},
		{2, 2, 1, 0, 2},
		{1, 2, 0, 2, pad},
	}
	starts := []int{0, 1, 3, 2}
	ends := []int{1, 3, 2, 0}

	b := &dataset.Batch{}
	for i, row := range ids {
		mask := make([]bool, len(row))
		for j, id := range row {
			mask[j] = id != pad
		}
		b.ContextIDs = append(b.ContextIDs, row)
		b.ContextMask = append(b.ContextMask, mask)
		b.QuestionIDs = append(b.QuestionIDs, []int32{2})
		b.QuestionMask = append(b.QuestionMask, []bool{true})
		b.Start = append(b.Start, oneHot(5, starts[i]))
		b.End = append(b.End, oneHot(5, ends[i]))
	}
	return b
}

func TestStepLearns(t *testing.T) {
	ctx := context.Background()
	m, err := New(testTable(t), 5, 0.5, rand.New(rand.NewPCG(1, 2)))
	if err != nil {
		t.Fatal(err)
	}
	b := testBatch()

	first, err := m.Step(ctx, b)
	if err != nil {
		t.Fatal(err)
	}
	if first.GradNorm <= 0 {
		t.Errorf("GradNorm = %v, erwartet > 0", first.GradNorm)
	}

	var last float64
	for range 300 {
		res, err := m.Step(ctx, b)
		if err != nil {
			t.Fatal(err)
		}
		last = res.Loss
	}
	if last >= first.Loss {
		t.Fatalf("Loss nicht gesunken: erst %v, zuletzt %v", first.Loss, last)
	}

	res, err := m.Evaluate(ctx, b)
	if err != nil {
		t.Fatal(err)
	}
	em, err := metrics.ExactMatch(b.Start, b.End, res.Start, res.End)
	if err != nil {
		t.Fatal(err)
	}
	if em != 1 {
		t.Errorf("EM = %v, erwartet 1 (Start %v, End %v)", em, res.Start, res.End)
	}
}

func TestEvaluateKeepsParameters(t *testing.T) {
	ctx := context.Background()
	m, err := New(testTable(t), 5, 0.5, rand.New(rand.NewPCG(3, 4)))
	if err != nil {
		t.Fatal(err)
	}
	b := testBatch()

	a, err := m.Evaluate(ctx, b)
	if err != nil {
		t.Fatal(err)
	}
	c, err := m.Evaluate(ctx, b)
	if err != nil {
		t.Fatal(err)
	}
	if a.Loss != c.Loss {
		t.Errorf("Evaluate hat Parameter veraendert: %v != %v", a.Loss, c.Loss)
	}
	if a.GradNorm != 0 {
		t.Errorf("Evaluate GradNorm = %v, erwartet 0", a.GradNorm)
	}
}

func TestUniformLoss(t *testing.T) {
	// ohne Initialisierung sind alle Scores gleich: Loss = 2*log(#erlaubte Positionen)
	m, err := New(testTable(t), 5, 0.1, nil)
	if err != nil {
		t.Fatal(err)
	}
	res, err := m.Evaluate(context.Background(), testBatch())
	if err != nil {
		t.Fatal(err)
	}
	want := (3*2*math.Log(5) + 2*math.Log(4)) / 4
	if math.Abs(res.Loss-want) > 1e-9 {
		t.Errorf("Loss = %v, erwartet %v", res.Loss, want)
	}
}

func TestGradientMatchesFiniteDifference(t *testing.T) {
	ctx := context.Background()
	b := testBatch()
	const lr, eps = 1e-3, 1e-6

	params := []struct {
		name string
		get  func(m *Model) *float64
	}{
		{"start.pos[2]", func(m *Model) *float64 { return &m.start.pos[2] }},
		{"end.pos[0]", func(m *Model) *float64 { return &m.end.pos[0] }},
		{"start.u[0]", func(m *Model) *float64 { return &m.start.u[0] }},
		{"end.u[1]", func(m *Model) *float64 { return &m.end.u[1] }},
	}

	for _, p := range params {
		t.Run(p.name, func(t *testing.T) {
			m, err := New(testTable(t), 5, lr, rand.New(rand.NewPCG(5, 6)))
			if err != nil {
				t.Fatal(err)
			}
			v := p.get(m)
			orig := *v

			*v = orig + eps
			plus, err := m.Evaluate(ctx, b)
			if err != nil {
				t.Fatal(err)
			}
			*v = orig - eps
			minus, err := m.Evaluate(ctx, b)
			if err != nil {
				t.Fatal(err)
			}
			*v = orig
			numeric := (plus.Loss - minus.Loss) / (2 * eps)

			if _, err := m.Step(ctx, b); err != nil {
				t.Fatal(err)
			}
			analytic := (orig - *v) / lr

			if math.Abs(numeric-analytic) > 1e-5 {
				t.Errorf("Gradient = %v, numerisch %v", analytic, numeric)
			}
		})
	}
}

func TestPredictionsOnRealPositions(t *testing.T) {
	m, err := New(testTable(t), 5, 0.1, nil)
	if err != nil {
		t.Fatal(err)
	}
	// Position 4 ist Padding und bekommt den hoechsten Bias
	m.start.pos[4] = 10
	m.end.pos[4] = 10

	b := testBatch()
	res, err := m.Evaluate(context.Background(), b)
	if err != nil {
		t.Fatal(err)
	}
	if res.Start[3] == 4 || res.End[3] == 4 {
		t.Errorf("Vorhersage auf Padding: Start %d, End %d", res.Start[3], res.End[3])
	}
	if res.Start[0] != 4 {
		t.Errorf("Start[0] = %d, erwartet 4", res.Start[0])
	}

	// Zeile ohne echte Position: argmax ueber alle
	for j := range b.ContextMask[3] {
		b.ContextMask[3][j] = false
	}
	res, err = m.Evaluate(context.Background(), b)
	if err != nil {
		t.Fatal(err)
	}
	if res.Start[3] != 4 {
		t.Errorf("Start[3] = %d, erwartet 4", res.Start[3])
	}
}

func TestErrors(t *testing.T) {
	ctx := context.Background()
	m, err := New(testTable(t), 5, 0.1, nil)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := m.Step(ctx, &dataset.Batch{}); !errors.Is(err, ErrEmptyBatch) {
		t.Errorf("leerer Batch: erwartet ErrEmptyBatch, got %v", err)
	}

	b := testBatch()
	b.ContextIDs[1] = []int32{0, 1, 9, 2, 2}
	if _, err := m.Step(ctx, b); !errors.Is(err, ErrUnknownID) {
		t.Errorf("unbekannte ID: erwartet ErrUnknownID, got %v", err)
	}

	b = testBatch()
	b.ContextIDs[0] = b.ContextIDs[0][:3]
	if _, err := m.Evaluate(ctx, b); !errors.Is(err, ErrRowLength) {
		t.Errorf("kurze Zeile: erwartet ErrRowLength, got %v", err)
	}

	canceled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := m.Step(canceled, testBatch()); !errors.Is(err, context.Canceled) {
		t.Errorf("erwartet context.Canceled, got %v", err)
	}

	for _, tc := range []struct {
		name   string
		table  *embedding.Table
		length int
		lr     float64
	}{
		{"nil table", nil, 5, 0.1},
		{"zero length", testTable(t), 0, 0.1},
		{"zero learning rate", testTable(t), 5, 0},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := New(tc.table, tc.length, tc.lr, nil); err == nil {
				t.Error("erwartet Fehler, got nil")
			}
		})
	}
}
