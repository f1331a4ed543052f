// MODUL: npy
// ZWECK: NumPy .npy- und .npz-Dateien mit 2-D Float-Arrays lesen
// INPUT: io.Reader bzw. Dateipfad und Array-Name
// OUTPUT: *mat.Dense mit den Werten als float64
// NEBENEFFEKTE: Dateisystem-Lesezugriff bei Load
// ABHAENGIGKEITEN: gonum.org/v1/gonum/mat, github.com/x448/float16 (extern), archive/zip
// HINWEISE: Unterstuetzt <f2, <f4, <f8 in C-Reihenfolge, Header-Versionen 1 bis 3

package embedding

import (
	"archive/zip"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/x448/float16"
	"gonum.org/v1/gonum/mat"
)

var npyMagic = []byte("\x93NUMPY")

var (
	// ErrNotNPY wird zurueckgegeben wenn die Daten nicht mit dem npy-Header beginnen
	ErrNotNPY = errors.New("embedding: not a npy array")

	// ErrUnsupportedArray wird fuer nicht unterstuetzte dtypes, Formen oder Reihenfolgen zurueckgegeben
	ErrUnsupportedArray = errors.New("embedding: unsupported array")
)

// header ist der geparste Python-Dict-Header eines npy-Arrays
type header struct {
	descr   string
	fortran bool
	shape   []int
}

// ReadNPY liest ein 2-D Float-Array
func ReadNPY(r io.Reader) (*mat.Dense, error) {
	h, err := readHeader(r)
	if err != nil {
		return nil, err
	}

	if h.fortran {
		return nil, fmt.Errorf("%w: fortran order", ErrUnsupportedArray)
	}
	if len(h.shape) != 2 || h.shape[0] < 1 || h.shape[1] < 1 {
		return nil, fmt.Errorf("%w: shape %v", ErrUnsupportedArray, h.shape)
	}

	rows, cols := h.shape[0], h.shape[1]
	data := make([]float64, rows*cols)

	switch h.descr {
	case "<f2":
		raw := make([]uint16, len(data))
		if err := binary.Read(r, binary.LittleEndian, raw); err != nil {
			return nil, fmt.Errorf("read float16 data: %w", err)
		}
		for i, v := range raw {
			data[i] = float64(float16.Frombits(v).Float32())
		}
	case "<f4":
		raw := make([]uint32, len(data))
		if err := binary.Read(r, binary.LittleEndian, raw); err != nil {
			return nil, fmt.Errorf("read float32 data: %w", err)
		}
		for i, v := range raw {
			data[i] = float64(math.Float32frombits(v))
		}
	case "<f8":
		if err := binary.Read(r, binary.LittleEndian, data); err != nil {
			return nil, fmt.Errorf("read float64 data: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: dtype %q", ErrUnsupportedArray, h.descr)
	}

	return mat.NewDense(rows, cols, data), nil
}

func readHeader(r io.Reader) (header, error) {
	prefix := make([]byte, len(npyMagic)+2)
	if _, err := io.ReadFull(r, prefix); err != nil {
		return header{}, fmt.Errorf("%w: %v", ErrNotNPY, err)
	}
	if !bytes.Equal(prefix[:len(npyMagic)], npyMagic) {
		return header{}, ErrNotNPY
	}

	var size int
	switch major := prefix[len(npyMagic)]; major {
	case 1:
		var n uint16
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return header{}, err
		}
		size = int(n)
	case 2, 3:
		var n uint32
		if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
			return header{}, err
		}
		size = int(n)
	default:
		return header{}, fmt.Errorf("%w: version %d", ErrUnsupportedArray, major)
	}

	raw := make([]byte, size)
	if _, err := io.ReadFull(r, raw); err != nil {
		return header{}, fmt.Errorf("read npy header: %w", err)
	}
	return parseHeader(string(raw))
}

// parseHeader liest z.B. "{'descr': '<f4', 'fortran_order': False, 'shape': (3, 2), }"
func parseHeader(s string) (header, error) {
	var h header

	descr, ok := dictValue(s, "descr")
	if !ok {
		return h, fmt.Errorf("%w: header without descr", ErrNotNPY)
	}
	h.descr = strings.Trim(descr, `'"`)

	if fortran, ok := dictValue(s, "fortran_order"); ok {
		h.fortran = fortran == "True"
	}

	shape, ok := dictValue(s, "shape")
	if !ok {
		return h, fmt.Errorf("%w: header without shape", ErrNotNPY)
	}
	for _, dim := range strings.Split(strings.Trim(shape, "()"), ",") {
		dim = strings.TrimSpace(dim)
		if dim == "" {
			continue
		}
		n, err := strconv.Atoi(dim)
		if err != nil {
			return h, fmt.Errorf("%w: shape %q", ErrNotNPY, shape)
		}
		h.shape = append(h.shape, n)
	}

	return h, nil
}

// dictValue gibt den Rohwert zu key aus einem Python-Dict-Literal zurueck
func dictValue(s, key string) (string, bool) {
	_, rest, ok := strings.Cut(s, "'"+key+"':")
	if !ok {
		return "", false
	}
	rest = strings.TrimSpace(rest)

	if strings.HasPrefix(rest, "(") {
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			return "", false
		}
		return rest[:end+1], true
	}

	end := strings.IndexAny(rest, ",}")
	if end < 0 {
		return "", false
	}
	return strings.TrimSpace(rest[:end]), true
}

// readArray liest path als .npz (Eintrag key) oder als einzelnes .npy
func readArray(path, key string) (*mat.Dense, error) {
	if !strings.EqualFold(filepath.Ext(path), ".npz") {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadNPY(f)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		return nil, err
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != key+".npy" && f.Name != key {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, err
		}
		defer rc.Close()
		return ReadNPY(rc)
	}

	return nil, fmt.Errorf("%s: no array %q", path, key)
}
