// Package dense implements the row-major dense matrix used throughout the
// module. A single flat buffer with explicit dimensions keeps the distance
// and gradient kernels cache-friendly; rows are contiguous sub-slices.
package dense

import (
	"fmt"

	"github.com/hupe1980/tsnego/internal/floats"
)

// ErrShape indicates inconsistent or invalid matrix dimensions.
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrShape struct {
	Rows   int
	Cols   int
	Reason string
	cause  error
}

func (e *ErrShape) Error() string {
	return fmt.Sprintf("invalid shape %dx%d: %s", e.Rows, e.Cols, e.Reason)
}

func (e *ErrShape) Unwrap() error { return e.cause }

// Dense is a row-major dense matrix of fixed shape. The zero value is not
// usable; construct with New or Zeros.
type Dense[F floats.Float] struct {
	rows, cols int
	data       []F
}

// New creates a rows x cols matrix backed by data. If data is nil a zeroed
// buffer is allocated; otherwise len(data) must equal rows*cols and the
// matrix takes ownership of the slice (no copy).
func New[F floats.Float](rows, cols int, data []F) (*Dense[F], error) {
	if rows <= 0 || cols <= 0 {
		return nil, &ErrShape{Rows: rows, Cols: cols, Reason: "dimensions must be positive"}
	}

	if data == nil {
		data = make([]F, rows*cols)
	} else if len(data) != rows*cols {
		return nil, &ErrShape{Rows: rows, Cols: cols, Reason: fmt.Sprintf("backing slice has %d elements, want %d", len(data), rows*cols)}
	}

	return &Dense[F]{rows: rows, cols: cols, data: data}, nil
}

// Zeros creates a zeroed rows x cols matrix. It panics on non-positive
// dimensions; use New when dimensions come from untrusted input.
func Zeros[F floats.Float](rows, cols int) *Dense[F] {
	m, err := New[F](rows, cols, nil)
	if err != nil {
		panic(err)
	}

	return m
}

// Dims returns the number of rows and columns.
func (m *Dense[F]) Dims() (rows, cols int) {
	return m.rows, m.cols
}

// Rows returns the number of rows.
func (m *Dense[F]) Rows() int { return m.rows }

// Cols returns the number of columns.
func (m *Dense[F]) Cols() int { return m.cols }

// IsSquare reports whether the matrix is square.
func (m *Dense[F]) IsSquare() bool { return m.rows == m.cols }

// At returns the element at row i, column j.
func (m *Dense[F]) At(i, j int) F {
	return m.data[i*m.cols+j]
}

// Set assigns the element at row i, column j.
func (m *Dense[F]) Set(i, j int, v F) {
	m.data[i*m.cols+j] = v
}

// Row returns row i as a sub-slice of the backing buffer. Mutations are
// visible in the matrix.
func (m *Dense[F]) Row(i int) []F {
	return m.data[i*m.cols : (i+1)*m.cols]
}

// Data returns the backing buffer in row-major order. Mutations are visible
// in the matrix.
func (m *Dense[F]) Data() []F { return m.data }

// Clone returns a deep copy.
func (m *Dense[F]) Clone() *Dense[F] {
	data := make([]F, len(m.data))
	copy(data, m.data)

	return &Dense[F]{rows: m.rows, cols: m.cols, data: data}
}
