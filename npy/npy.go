// Package npy reads and writes NumPy .npy files holding float64 arrays of
// any rank in C order. Rank-2 data interoperates with sbinet/npyio and
// numpy's own np.save/np.load; this package exists because npyio only
// serializes vectors and gonum matrices, not rank-3 batches.
package npy

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var magic = []byte("\x93NUMPY")

var shapeRe = regexp.MustCompile(`'shape':\s*\(([^)]*)\)`)

// Write serializes data with the given shape as a version 1.0 .npy file.
// data is the C-order flattening of the array; its length must equal the
// product of the shape dimensions.
func Write(w io.Writer, shape []int, data []float64) error {
	if len(shape) == 0 {
		return fmt.Errorf("npy: empty shape")
	}

	n := 1
	for _, dim := range shape {
		if dim < 0 {
			return fmt.Errorf("npy: negative dimension %d", dim)
		}
		n *= dim
	}
	if n != len(data) {
		return fmt.Errorf("npy: shape %v holds %d elements, got %d", shape, n, len(data))
	}

	header := fmt.Sprintf("{'descr': '<f8', 'fortran_order': False, 'shape': %s, }", shapeString(shape))

	// Pad so the data section starts on a 64-byte boundary, as numpy does
	preamble := len(magic) + 2 + 2
	padded := preamble + len(header) + 1
	if rem := padded % 64; rem != 0 {
		header += strings.Repeat(" ", 64-rem)
	}
	header += "\n"

	if _, err := w.Write(magic); err != nil {
		return fmt.Errorf("npy: writing magic: %w", err)
	}
	if _, err := w.Write([]byte{1, 0}); err != nil {
		return fmt.Errorf("npy: writing version: %w", err)
	}
	if err := binary.Write(w, binary.LittleEndian, uint16(len(header))); err != nil {
		return fmt.Errorf("npy: writing header length: %w", err)
	}
	if _, err := io.WriteString(w, header); err != nil {
		return fmt.Errorf("npy: writing header: %w", err)
	}

	buf := make([]byte, 8*len(data))
	for i, v := range data {
		binary.LittleEndian.PutUint64(buf[8*i:], math.Float64bits(v))
	}
	if _, err := w.Write(buf); err != nil {
		return fmt.Errorf("npy: writing data: %w", err)
	}

	return nil
}

// Read parses a version 1.0 or 2.0 .npy file of little-endian float64
// values, returning the array shape and its C-order flattening.
func Read(r io.Reader) ([]int, []float64, error) {
	head := make([]byte, len(magic)+2)
	if _, err := io.ReadFull(r, head); err != nil {
		return nil, nil, fmt.Errorf("npy: reading preamble: %w", err)
	}
	if string(head[:len(magic)]) != string(magic) {
		return nil, nil, fmt.Errorf("npy: bad magic")
	}

	// Version 1.0 stores the header length in 2 bytes, 2.0 in 4.
	var headerLen uint32
	switch head[len(magic)] {
	case 1:
		var size [2]byte
		if _, err := io.ReadFull(r, size[:]); err != nil {
			return nil, nil, fmt.Errorf("npy: reading header size: %w", err)
		}
		headerLen = uint32(binary.LittleEndian.Uint16(size[:]))
	case 2:
		var size [4]byte
		if _, err := io.ReadFull(r, size[:]); err != nil {
			return nil, nil, fmt.Errorf("npy: reading header size: %w", err)
		}
		headerLen = binary.LittleEndian.Uint32(size[:])
	default:
		return nil, nil, fmt.Errorf("npy: unsupported version %d.%d", head[len(magic)], head[len(magic)+1])
	}
	headerBytes := make([]byte, headerLen)
	if _, err := io.ReadFull(r, headerBytes); err != nil {
		return nil, nil, fmt.Errorf("npy: reading header: %w", err)
	}
	header := string(headerBytes)

	if !strings.Contains(header, "'descr': '<f8'") {
		return nil, nil, fmt.Errorf("npy: unsupported dtype in header %q", strings.TrimSpace(header))
	}
	if strings.Contains(header, "'fortran_order': True") {
		return nil, nil, fmt.Errorf("npy: fortran order not supported")
	}

	shape, err := parseShape(header)
	if err != nil {
		return nil, nil, err
	}

	n := 1
	for _, dim := range shape {
		n *= dim
	}

	buf := make([]byte, 8*n)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, nil, fmt.Errorf("npy: reading data: %w", err)
	}

	data := make([]float64, n)
	for i := range data {
		data[i] = math.Float64frombits(binary.LittleEndian.Uint64(buf[8*i:]))
	}

	return shape, data, nil
}

func shapeString(shape []int) string {
	if len(shape) == 1 {
		return fmt.Sprintf("(%d,)", shape[0])
	}

	parts := make([]string, len(shape))
	for i, dim := range shape {
		parts[i] = strconv.Itoa(dim)
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

func parseShape(header string) ([]int, error) {
	m := shapeRe.FindStringSubmatch(header)
	if m == nil {
		return nil, fmt.Errorf("npy: no shape in header %q", strings.TrimSpace(header))
	}

	var shape []int
	for _, part := range strings.Split(m[1], ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		dim, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("npy: bad shape dimension %q: %w", part, err)
		}
		shape = append(shape, dim)
	}
	if len(shape) == 0 {
		return nil, fmt.Errorf("npy: scalar arrays not supported")
	}

	return shape, nil
}
