// loop_test.go - Unit Tests fuer die Trainingsschleife
package train

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/spanqa/spanqa/batch"
	"github.com/spanqa/spanqa/dataset"
	"github.com/spanqa/spanqa/metrics"
)

// makeSplit erzeugt n Samples mit Kontextlaenge 4; Sample i hat Span (i%4, i%4)
// und i%4+1 echte Kontext-Tokens
func makeSplit(t *testing.T, n int) *dataset.Split {
	t.Helper()
	const length = 4

	ctx := &dataset.Sequences{Length: length}
	q := &dataset.Sequences{Length: 2}
	var spans []dataset.Span
	for i := range n {
		ids, mask := make([]int32, length), make([]bool, length)
		for j := range i%length + 1 {
			ids[j], mask[j] = int32(i), true
		}
		ctx.IDs, ctx.Mask = append(ctx.IDs, ids), append(ctx.Mask, mask)
		q.IDs, q.Mask = append(q.IDs, []int32{1, 2}), append(q.Mask, []bool{true, true})
		spans = append(spans, dataset.Span{Start: i % length, End: i % length})
	}

	labels, err := dataset.SpansToOneHot(spans, length)
	if err != nil {
		t.Fatal(err)
	}
	split, err := dataset.NewSplit(ctx, q, labels)
	if err != nil {
		t.Fatal(err)
	}
	return split
}

// fakeModel sagt den Gold-Span voraus und zeichnet Batches auf
type fakeModel struct {
	batches  []int
	ids      [][]int32
	evals    int
	failAt   int
	err      error
	short    bool
	onStep   func(step int)
	wrongEnd bool
}

func (m *fakeModel) predict(b *dataset.Batch) Result {
	res := Result{Loss: 1, GradNorm: 2}
	for i := range b.Len() {
		s, e := metrics.Argmax(b.Start[i]), metrics.Argmax(b.End[i])
		if m.wrongEnd {
			e = (e + 1) % len(b.End[i])
		}
		res.Start = append(res.Start, s)
		res.End = append(res.End, e)
	}
	if m.short {
		res.Start = res.Start[:0]
	}
	return res
}

func (m *fakeModel) Step(_ context.Context, b *dataset.Batch) (Result, error) {
	step := len(m.batches)
	m.batches = append(m.batches, b.Len())
	m.ids = append(m.ids, b.ContextIDs...)
	if m.onStep != nil {
		m.onStep(step)
	}
	if m.err != nil && step == m.failAt {
		return Result{}, m.err
	}
	return m.predict(b), nil
}

func (m *fakeModel) Evaluate(_ context.Context, b *dataset.Batch) (Result, error) {
	m.evals++
	res := m.predict(b)
	res.GradNorm = 0
	return res, nil
}

type recorder struct {
	training   []int
	validation int
	snapshots  [][2]int
	vals       []Validation
}

func (r *recorder) PlotTraining(h *History, epoch int) error {
	r.training = append(r.training, epoch)
	return nil
}

func (r *recorder) PlotValidation(h *History) error {
	r.validation++
	return nil
}

func (r *recorder) ObserveSnapshot(epoch, step int, s metrics.Snapshot) error {
	r.snapshots = append(r.snapshots, [2]int{epoch, step})
	return nil
}

func (r *recorder) ObserveValidation(epoch int, v Validation) error {
	r.vals = append(r.vals, v)
	return nil
}

func opts(epochs, batchSize int) Options {
	return Options{Epochs: epochs, BatchSize: batchSize, Rand: rand.New(rand.NewPCG(1, 2))}
}

// TestRun testet Snapshots, Validierung und Plot-Aufrufe ueber mehrere Epochen
func TestRun(t *testing.T) {
	model := &fakeModel{}
	rec := &recorder{}

	// 50 Samples, Batch 2: 25 Schritte, ein Snapshot pro Epoche, 5 Schritte verworfen
	l, err := New(model, makeSplit(t, 50), makeSplit(t, 7), opts(3, 2), WithPlotter(rec), WithObserver(rec))
	if err != nil {
		t.Fatal(err)
	}

	h, err := l.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() Fehler: %v", err)
	}

	if len(model.batches) != 75 {
		t.Errorf("Schritte = %d, erwartet 75", len(model.batches))
	}
	if model.evals != 3 {
		t.Errorf("Validierungen = %d, erwartet 3", model.evals)
	}
	if diff := cmp.Diff([]float64{1, 1, 1}, h.Loss); diff != "" {
		t.Errorf("Loss-Historie (-erwartet +erhalten):\n%s", diff)
	}
	if diff := cmp.Diff([]float64{1, 1, 1}, h.ValF1); diff != "" {
		t.Errorf("ValF1-Historie (-erwartet +erhalten):\n%s", diff)
	}
	if diff := cmp.Diff([][2]int{{1, 20}, {2, 20}, {3, 20}}, rec.snapshots); diff != "" {
		t.Errorf("Snapshots (-erwartet +erhalten):\n%s", diff)
	}
	if diff := cmp.Diff([]int{1, 2, 3}, rec.training); diff != "" {
		t.Errorf("PlotTraining-Aufrufe (-erwartet +erhalten):\n%s", diff)
	}
	if rec.validation != 1 {
		t.Errorf("PlotValidation-Aufrufe = %d, erwartet 1", rec.validation)
	}
	if l.History() != h {
		t.Error("History() sollte den Verlauf von Run() liefern")
	}
}

// TestRunMetrics testet EM und F1 bei falschem End-Index
func TestRunMetrics(t *testing.T) {
	model := &fakeModel{wrongEnd: true}
	o := opts(1, 1)
	o.ReportEvery = 4

	l, err := New(model, makeSplit(t, 8), makeSplit(t, 4), o)
	if err != nil {
		t.Fatal(err)
	}
	h, err := l.Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	if len(h.EM) != 2 {
		t.Fatalf("Snapshots = %d, erwartet 2", len(h.EM))
	}
	for i := range h.EM {
		if h.EM[i] != 0 {
			t.Errorf("EM[%d] = %v, erwartet 0", i, h.EM[i])
		}
		// Gold ist ein Token, Vorhersage zwei Tokens mit einem Treffer ausser bei Umbruch auf 0
		if h.F1[i] <= 0 || h.F1[i] >= 1 {
			t.Errorf("F1[%d] = %v, erwartet zwischen 0 und 1", i, h.F1[i])
		}
	}
}

// TestRunCursorCarriesOver testet, dass der Rest eines Durchlaufs in der naechsten Epoche kommt
func TestRunCursorCarriesOver(t *testing.T) {
	model := &fakeModel{}
	l, err := New(model, makeSplit(t, 5), makeSplit(t, 2), opts(2, 2))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]int{2, 2, 1, 2}, model.batches); diff != "" {
		t.Errorf("Batch-Groessen (-erwartet +erhalten):\n%s", diff)
	}
	// erster Durchlauf ist sequentiell: Kontext-Ids 0..4
	for i := range 5 {
		if model.ids[i][0] != int32(i) {
			t.Errorf("Sample %d hat Id %d, erwartet %d", i, model.ids[i][0], i)
		}
	}
}

// TestRunByLength testet kurze Kontexte zuerst
func TestRunByLength(t *testing.T) {
	model := &fakeModel{}
	o := opts(1, 8)
	o.Order = batch.ByLength

	l, err := New(model, makeSplit(t, 8), makeSplit(t, 1), o)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.Run(context.Background()); err != nil {
		t.Fatal(err)
	}

	var first []int32
	for _, ids := range model.ids {
		first = append(first, ids[0])
	}
	// Laengen sind i%4+1, stabil sortiert
	if diff := cmp.Diff([]int32{0, 4, 1, 5, 2, 6, 3, 7}, first); diff != "" {
		t.Errorf("Reihenfolge (-erwartet +erhalten):\n%s", diff)
	}
}

// TestRunStepError testet die unveraenderte Weitergabe von Modell-Fehlern
func TestRunStepError(t *testing.T) {
	boom := errors.New("boom")
	model := &fakeModel{failAt: 2, err: boom}
	rec := &recorder{}

	l, err := New(model, makeSplit(t, 10), makeSplit(t, 2), opts(2, 1), WithPlotter(rec))
	if err != nil {
		t.Fatal(err)
	}

	_, err = l.Run(context.Background())
	if err != boom {
		t.Errorf("Run() Fehler = %v, erwartet unveraendert %v", err, boom)
	}
	if len(model.batches) != 3 {
		t.Errorf("Schritte = %d, erwartet 3 (kein Retry)", len(model.batches))
	}
	if len(rec.training) != 0 || rec.validation != 0 {
		t.Error("nach Fehler sollte nicht geplottet werden")
	}
}

// TestRunCancel testet den Abbruch zwischen zwei Schritten
func TestRunCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	model := &fakeModel{onStep: func(step int) {
		if step == 4 {
			cancel()
		}
	}}

	l, err := New(model, makeSplit(t, 20), makeSplit(t, 2), opts(3, 1))
	if err != nil {
		t.Fatal(err)
	}

	h, err := l.Run(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run() Fehler = %v, erwartet context.Canceled", err)
	}
	if len(model.batches) != 5 {
		t.Errorf("Schritte = %d, erwartet 5", len(model.batches))
	}
	if h == nil {
		t.Error("Run() sollte den bisherigen Verlauf zurueckgeben")
	}
}

// TestRunPredictionShape testet fehlende Vorhersagen
func TestRunPredictionShape(t *testing.T) {
	l, err := New(&fakeModel{short: true}, makeSplit(t, 4), makeSplit(t, 2), opts(1, 2))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.Run(context.Background()); !errors.Is(err, ErrPredictionShape) {
		t.Errorf("Run() Fehler = %v, erwartet ErrPredictionShape", err)
	}
}

// TestRunEmptyValidation testet, dass ein leerer Validierungs-Split gemeldet wird
func TestRunEmptyValidation(t *testing.T) {
	l, err := New(&fakeModel{}, makeSplit(t, 4), makeSplit(t, 0), opts(1, 2))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := l.Run(context.Background()); !errors.Is(err, metrics.ErrEmptyDataset) {
		t.Errorf("Run() Fehler = %v, erwartet ErrEmptyDataset", err)
	}
}

// TestNewValidation testet ungueltige Optionen
func TestNewValidation(t *testing.T) {
	split := makeSplit(t, 4)
	tests := []struct {
		name string
		opts Options
	}{
		{"batch null", Options{Epochs: 1, BatchSize: 0, Rand: rand.New(rand.NewPCG(1, 1))}},
		{"epochen negativ", Options{Epochs: -1, BatchSize: 1, Rand: rand.New(rand.NewPCG(1, 1))}},
		{"report negativ", Options{Epochs: 1, BatchSize: 1, ReportEvery: -1, Rand: rand.New(rand.NewPCG(1, 1))}},
		{"ohne rand", Options{Epochs: 1, BatchSize: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(&fakeModel{}, split, split, tt.opts); err == nil {
				t.Error("New() sollte fehlschlagen")
			}
		})
	}
}

// TestEpochAxis testet die Verteilung der Snapshots auf die Epochen
func TestEpochAxis(t *testing.T) {
	h := &History{Loss: []float64{1, 2, 3, 4}}
	if diff := cmp.Diff([]float64{0, 0.5, 1, 1.5}, h.EpochAxis(2)); diff != "" {
		t.Errorf("EpochAxis (-erwartet +erhalten):\n%s", diff)
	}
	if got := (&History{}).EpochAxis(3); len(got) != 0 {
		t.Errorf("EpochAxis ohne Punkte = %v, erwartet leer", got)
	}
}
