// span_test.go - Unit Tests fuer ReadSpans und SpansToOneHot
package dataset

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// TestSpansToOneHot testet die Referenz-Fixture
func TestSpansToOneHot(t *testing.T) {
	spans := []Span{{1, 2}, {2, 4}, {1, 1}, {0, 0}}

	o, err := SpansToOneHot(spans, 5)
	if err != nil {
		t.Fatalf("SpansToOneHot() Fehler: %v", err)
	}

	wantStart := [][]int32{
		{0, 1, 0, 0, 0},
		{0, 0, 1, 0, 0},
		{0, 1, 0, 0, 0},
		{1, 0, 0, 0, 0},
	}
	wantEnd := [][]int32{
		{0, 0, 1, 0, 0},
		{0, 0, 0, 0, 1},
		{0, 1, 0, 0, 0},
		{1, 0, 0, 0, 0},
	}

	if diff := cmp.Diff(wantStart, o.Start); diff != "" {
		t.Errorf("Start abweichend (-erwartet +erhalten):\n%s", diff)
	}
	if diff := cmp.Diff(wantEnd, o.End); diff != "" {
		t.Errorf("End abweichend (-erwartet +erhalten):\n%s", diff)
	}
}

// TestSpansToOneHotProperty prueft Zeilensumme 2 und Rueckgewinnung per argmax
func TestSpansToOneHotProperty(t *testing.T) {
	const length = 6
	var spans []Span
	for s := range length {
		for e := s; e < length; e++ {
			spans = append(spans, Span{s, e})
		}
	}

	o, err := SpansToOneHot(spans, length)
	if err != nil {
		t.Fatalf("SpansToOneHot() Fehler: %v", err)
	}

	for i, span := range spans {
		var sum int32
		start, end := -1, -1
		for j := range length {
			sum += o.Start[i][j] + o.End[i][j]
			if o.Start[i][j] == 1 {
				start = j
			}
			if o.End[i][j] == 1 {
				end = j
			}
		}
		if sum != 2 {
			t.Errorf("span %v: Summe = %d, erwartet 2", span, sum)
		}
		if start != span.Start || end != span.End {
			t.Errorf("span %v: dekodiert (%d, %d)", span, start, end)
		}
	}
}

// TestSpansToOneHotOutOfRange testet die Bereichspruefung
func TestSpansToOneHotOutOfRange(t *testing.T) {
	tests := []struct {
		name  string
		spans []Span
		row   int
		value int
	}{
		{"end zu gross", []Span{{0, 1}, {2, 5}}, 1, 5},
		{"start negativ", []Span{{-1, 2}}, 0, -1},
		{"start zu gross", []Span{{7, 2}}, 0, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := SpansToOneHot(tt.spans, 5)
			if !errors.Is(err, ErrIndexOutOfRange) {
				t.Fatalf("Fehler = %v, erwartet ErrIndexOutOfRange", err)
			}
			var oor *IndexOutOfRangeError
			if !errors.As(err, &oor) {
				t.Fatalf("Fehler %T ist kein *IndexOutOfRangeError", err)
			}
			if oor.Row != tt.row || oor.Value != tt.value || oor.Length != 5 {
				t.Errorf("Fehler = %+v, erwartet Row %d Value %d", oor, tt.row, tt.value)
			}
		})
	}
}

// TestReadSpans testet das Parsen der Span-Datei
func TestReadSpans(t *testing.T) {
	spans, err := ReadSpans(strings.NewReader("1 2\n\n 2   4 \n0 0\n"))
	if err != nil {
		t.Fatalf("ReadSpans() Fehler: %v", err)
	}
	if diff := cmp.Diff([]Span{{1, 2}, {2, 4}, {0, 0}}, spans); diff != "" {
		t.Errorf("Spans abweichend (-erwartet +erhalten):\n%s", diff)
	}
}

// TestReadSpansMalformed testet ungueltige Span-Zeilen
func TestReadSpansMalformed(t *testing.T) {
	for _, input := range []string{"1\n", "1 2 3\n", "1 a\n", "1.5 2\n"} {
		t.Run(strings.TrimSpace(input), func(t *testing.T) {
			if _, err := ReadSpans(strings.NewReader(input)); !errors.Is(err, ErrMalformedInput) {
				t.Errorf("ReadSpans(%q) Fehler = %v, erwartet ErrMalformedInput", input, err)
			}
		})
	}
}
