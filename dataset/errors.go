// MODUL: errors
// ZWECK: Fehler-Definitionen fuer das Laden und Kodieren von Datensaetzen
// INPUT: Dateipfad, Zeile, Token bzw. Index
// OUTPUT: error-Werte, pruefbar mit errors.Is / errors.As
// NEBENEFFEKTE: keine
// ABHAENGIGKEITEN: errors, fmt (Standardbibliothek)
// HINWEISE: Alle Fehler hier sind fatal, es gibt keinen Teil-Datensatz

package dataset

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput wird zurueckgegeben wenn ein Token keine gueltige Id ist
	ErrMalformedInput = errors.New("malformed input")

	// ErrIndexOutOfRange wird zurueckgegeben wenn ein Span ausserhalb des Kontexts liegt
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrShapeMismatch wird zurueckgegeben wenn Kontext, Frage und Spans
	// unterschiedlich viele Zeilen haben
	ErrShapeMismatch = errors.New("shape mismatch")
)

// MalformedInputError beschreibt ein nicht lesbares Token
type MalformedInputError struct {
	Path  string
	Line  int
	Token string
}

func (e *MalformedInputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("line %d: %v: %q", e.Line, ErrMalformedInput, e.Token)
	}
	return fmt.Sprintf("%s:%d: %v: %q", e.Path, e.Line, ErrMalformedInput, e.Token)
}

func (e *MalformedInputError) Unwrap() error {
	return ErrMalformedInput
}

// IndexOutOfRangeError beschreibt einen Span-Index ausserhalb von [0, Length)
type IndexOutOfRangeError struct {
	Row    int
	Value  int
	Length int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("span %d: %v: %d not in [0, %d)", e.Row, ErrIndexOutOfRange, e.Value, e.Length)
}

func (e *IndexOutOfRangeError) Unwrap() error {
	return ErrIndexOutOfRange
}
