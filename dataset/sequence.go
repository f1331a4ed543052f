// sequence.go - Einlesen und Padden von Id-Sequenzen
// Hauptfunktionen: ReadAndPad, ReadAndPadFile
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

// maxLineSize begrenzt die Laenge einer einzelnen Zeile
const maxLineSize = 16 << 20

// Sequences enthaelt N Zeilen fester Laenge mit paralleler Maske.
// Mask[i][j] ist true genau fuer die echten (nicht gepaddeten) Positionen.
type Sequences struct {
	Length int
	IDs    [][]int32
	Mask   [][]bool
}

// Len gibt die Anzahl der Zeilen zurueck
func (s *Sequences) Len() int {
	return len(s.IDs)
}

// Lengths gibt pro Zeile die Anzahl echter Tokens zurueck
func (s *Sequences) Lengths() []int {
	lengths := make([]int, len(s.Mask))
	for i, row := range s.Mask {
		for _, ok := range row {
			if ok {
				lengths[i]++
			}
		}
	}
	return lengths
}

// ReadAndPad liest eine Id-Sequenz pro Zeile, kuerzt auf length und
// fuellt rechts mit pad auf. Ueberzaehlige Ids werden verworfen.
func ReadAndPad(r io.Reader, length int, pad int32) (*Sequences, error) {
	if length < 0 {
		return nil, fmt.Errorf("negative sequence length %d", length)
	}

	seqs := &Sequences{Length: length}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())

		ids := make([]int32, length)
		mask := make([]bool, length)
		for j, field := range fields {
			id, err := parseID(field)
			if err != nil {
				return nil, &MalformedInputError{Line: line, Token: field}
			}
			if j < length {
				ids[j] = id
				mask[j] = true
			}
		}
		for j := min(len(fields), length); j < length; j++ {
			ids[j] = pad
		}

		seqs.IDs = append(seqs.IDs, ids)
		seqs.Mask = append(seqs.Mask, mask)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return seqs, nil
}

// ReadAndPadFile ist ReadAndPad fuer eine Datei
func ReadAndPadFile(path string, length int, pad int32) (*Sequences, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	seqs, err := ReadAndPad(f, length, pad)
	if err != nil {
		var malformed *MalformedInputError
		if errors.As(err, &malformed) {
			malformed.Path = path
			return nil, malformed
		}
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return seqs, nil
}

// parseID akzeptiert nur nicht-negative Ganzzahlen im int32-Bereich
func parseID(s string) (int32, error) {
	n, err := strconv.ParseInt(s, 10, 32)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, fmt.Errorf("negative id %d", n)
	}
	return int32(n), nil
}
