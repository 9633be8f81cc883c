package mesh

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/go-gl/mathgl/mgl32"
)

var (
	// ErrUnsupportedFormat is returned for data that is neither binary nor ASCII STL.
	ErrUnsupportedFormat = errors.New("unsupported mesh format")
	// ErrTruncated is returned when a binary STL ends before its declared triangle count.
	ErrTruncated = errors.New("truncated STL data")
)

const (
	stlHeaderSize   = 80
	stlTriangleSize = 50 // normal + 3 vertices (12 float32) + attribute count
)

// Load reads an STL file from disk.
func Load(path string) (*Mesh, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	m, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return m, nil
}

// Decode parses binary or ASCII STL data. Stored facet normals are ignored and
// recomputed from the winding, like computeVertexNormals on a fresh geometry.
func Decode(data []byte) (*Mesh, error) {
	if isBinarySTL(data) {
		return decodeBinary(data)
	}
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("solid")) {
		return decodeASCII(bytes.NewReader(data))
	}
	if len(data) >= stlHeaderSize+4 {
		return decodeBinary(data)
	}
	return nil, ErrUnsupportedFormat
}

// isBinarySTL checks the size implied by the triangle count. Many exporters
// start binary headers with "solid", so the prefix alone is not enough.
func isBinarySTL(data []byte) bool {
	if len(data) < stlHeaderSize+4 {
		return false
	}
	n := binary.LittleEndian.Uint32(data[stlHeaderSize:])
	return uint64(len(data)) == uint64(stlHeaderSize+4)+uint64(n)*stlTriangleSize
}

func decodeBinary(data []byte) (*Mesh, error) {
	n := int(binary.LittleEndian.Uint32(data[stlHeaderSize:]))
	body := data[stlHeaderSize+4:]
	if len(body) < n*stlTriangleSize {
		return nil, fmt.Errorf("%w: want %d triangles, have bytes for %d", ErrTruncated, n, len(body)/stlTriangleSize)
	}

	positions := make([]mgl32.Vec3, 0, n*3)
	for i := 0; i < n; i++ {
		rec := body[i*stlTriangleSize:]
		// Skip the 12-byte stored normal
		for v := 0; v < 3; v++ {
			off := 12 + v*12
			positions = append(positions, mgl32.Vec3{
				readF32(rec[off:]),
				readF32(rec[off+4:]),
				readF32(rec[off+8:]),
			})
		}
	}
	return New(positions), nil
}

func readF32(b []byte) float32 {
	return math.Float32frombits(binary.LittleEndian.Uint32(b))
}

func decodeASCII(r io.Reader) (*Mesh, error) {
	var positions []mgl32.Vec3
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 || fields[0] != "vertex" {
			continue
		}
		if len(fields) != 4 {
			return nil, fmt.Errorf("line %d: malformed vertex", line)
		}
		var v mgl32.Vec3
		for k := 0; k < 3; k++ {
			f, err := strconv.ParseFloat(fields[k+1], 32)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			v[k] = float32(f)
		}
		positions = append(positions, v)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(positions)%3 != 0 {
		return nil, fmt.Errorf("%w: %d vertices is not a whole number of triangles", ErrTruncated, len(positions))
	}
	return New(positions), nil
}

// EncodeBinary writes the mesh as binary STL.
func EncodeBinary(w io.Writer, m *Mesh) error {
	header := make([]byte, stlHeaderSize+4)
	copy(header, "binary STL")
	binary.LittleEndian.PutUint32(header[stlHeaderSize:], uint32(m.TriangleCount()))
	if _, err := w.Write(header); err != nil {
		return err
	}

	rec := make([]byte, stlTriangleSize)
	for i := 0; i < m.TriangleCount(); i++ {
		a, b, c := m.Triangle(i)
		var n mgl32.Vec3
		if len(m.Normals) > i*3 {
			n = m.Normals[i*3]
		}
		for k, v := range []mgl32.Vec3{n, a, b, c} {
			for j := 0; j < 3; j++ {
				binary.LittleEndian.PutUint32(rec[k*12+j*4:], math.Float32bits(v[j]))
			}
		}
		if _, err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
