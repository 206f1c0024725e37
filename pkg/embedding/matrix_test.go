package embedding_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/coastwise/gcpkit/pkg/embedding"
)

func TestMatrixShape(t *testing.T) {
	m := embedding.NewMatrix(3, 4)

	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, 4, m.Dim())
	assert.Len(t, m.Row(0), 4)
}

func TestMatrixZeroInitialized(t *testing.T) {
	m := embedding.NewMatrix(2, 3)

	for i := 0; i < m.Rows(); i++ {
		assert.True(t, m.ZeroRow(i), "row %d should start zero", i)
	}
	assert.Equal(t, []int{0, 1}, m.ZeroRows())
}

func TestMatrixSetRow(t *testing.T) {
	m := embedding.NewMatrix(2, 3)

	m.SetRow(1, []float32{1, 2, 3})

	assert.True(t, m.ZeroRow(0))
	assert.False(t, m.ZeroRow(1))
	assert.Equal(t, []float32{1, 2, 3}, m.Row(1))
	assert.Equal(t, []int{0}, m.ZeroRows())
}

func TestMatrixEmpty(t *testing.T) {
	m := embedding.NewMatrix(0, 8)

	assert.Equal(t, 0, m.Rows())
	assert.Empty(t, m.ZeroRows())
}
