package tabular_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coastwise/gcpkit/pkg/tabular"
)

func TestRowSetAppend(t *testing.T) {
	rs := tabular.New("name", "count")
	rs.Append("alpha", 1)
	rs.Append("beta", 2)

	assert.Equal(t, 2, rs.NumRows())
	assert.Equal(t, 2, rs.NumCols())
	assert.Equal(t, []any{"beta", 2}, rs.Rows[1])
}

func TestRowSetWriteCSV(t *testing.T) {
	rs := tabular.New("a", "b")
	rs.Append("x", 1)
	rs.Append(nil, 2.5)

	var sb strings.Builder
	require.NoError(t, rs.WriteCSV(&sb))

	lines := strings.Split(strings.TrimSpace(sb.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "a,b", lines[0])
	assert.Equal(t, "x,1", lines[1])
	assert.Equal(t, ",2.5", lines[2])
}

func TestRowSetEmpty(t *testing.T) {
	rs := tabular.New("only")

	assert.Equal(t, 0, rs.NumRows())
	assert.Equal(t, "only\n", rs.String())
}
