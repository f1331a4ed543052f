// span.go - Antwort-Spans lesen und One-Hot kodieren
// Hauptfunktionen: ReadSpans, ReadSpansFile, SpansToOneHot
package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Span ist ein inklusiver Bereich [Start, End] von Kontext-Positionen
type Span struct {
	Start int
	End   int
}

// OneHot enthaelt die Start- und End-Vektoren fuer N Spans.
// Jede Zeile hat Length Eintraege mit genau einer 1.
type OneHot struct {
	Length int
	Start  [][]int32
	End    [][]int32
}

// Len gibt die Anzahl der Zeilen zurueck
func (o *OneHot) Len() int {
	return len(o.Start)
}

// ReadSpans liest zwei Ganzzahlen (start end) pro Zeile.
// Leere Zeilen werden uebersprungen.
func ReadSpans(r io.Reader) ([]Span, error) {
	var spans []Span

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		if len(fields) != 2 {
			return nil, &MalformedInputError{Line: line, Token: scanner.Text()}
		}

		var span [2]int
		for i, field := range fields {
			n, err := strconv.Atoi(field)
			if err != nil {
				return nil, &MalformedInputError{Line: line, Token: field}
			}
			span[i] = n
		}
		spans = append(spans, Span{Start: span[0], End: span[1]})
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return spans, nil
}

// ReadSpansFile ist ReadSpans fuer eine Datei
func ReadSpansFile(path string) ([]Span, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	spans, err := ReadSpans(f)
	if err != nil {
		var malformed *MalformedInputError
		if errors.As(err, &malformed) {
			malformed.Path = path
			return nil, malformed
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return spans, nil
}

// SpansToOneHot kodiert Start und End jedes Spans unabhaengig als
// One-Hot-Vektor der Laenge length
func SpansToOneHot(spans []Span, length int) (*OneHot, error) {
	o := &OneHot{
		Length: length,
		Start:  make([][]int32, len(spans)),
		End:    make([][]int32, len(spans)),
	}

	for i, span := range spans {
		for _, v := range []int{span.Start, span.End} {
			if v < 0 || v >= length {
				return nil, &IndexOutOfRangeError{Row: i, Value: v, Length: length}
			}
		}

		start, end := make([]int32, length), make([]int32, length)
		start[span.Start], end[span.End] = 1, 1
		o.Start[i], o.End[i] = start, end
	}

	return o, nil
}
