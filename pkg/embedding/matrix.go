package embedding

// Matrix is a dense row-major (N, D) buffer of embeddings. Row i holds the
// embedding for input i, or stays all-zero if that input's batch failed after
// all retries. Callers inspecting partial results use ZeroRow.
type Matrix struct {
	data []float32
	rows int
	dim  int
}

// NewMatrix allocates a zero-initialized matrix of the given shape.
func NewMatrix(rows, dim int) *Matrix {
	return &Matrix{
		data: make([]float32, rows*dim),
		rows: rows,
		dim:  dim,
	}
}

// Rows returns the number of rows (input texts).
func (m *Matrix) Rows() int { return m.rows }

// Dim returns the embedding dimensionality.
func (m *Matrix) Dim() int { return m.dim }

// Row returns row i as a slice view into the matrix buffer.
func (m *Matrix) Row(i int) []float32 {
	return m.data[i*m.dim : (i+1)*m.dim]
}

// SetRow copies vec into row i. vec must have length Dim.
func (m *Matrix) SetRow(i int, vec []float32) {
	copy(m.data[i*m.dim:(i+1)*m.dim], vec)
}

// ZeroRow reports whether row i is all zeros, the marker for a row whose
// batch was never embedded.
func (m *Matrix) ZeroRow(i int) bool {
	for _, v := range m.Row(i) {
		if v != 0 {
			return false
		}
	}
	return true
}

// ZeroRows returns the indices of all zero rows, in order.
func (m *Matrix) ZeroRows() []int {
	var zs []int
	for i := 0; i < m.rows; i++ {
		if m.ZeroRow(i) {
			zs = append(zs, i)
		}
	}
	return zs
}
