package storage

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/require"
)

// captureDiagnostics routes the diagnostic sink into a buffer for the
// duration of the test.
func captureDiagnostics(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	SetLogger(slog.New(slog.NewTextHandler(&buf, nil)))
	t.Cleanup(func() { SetLogger(nil) })
	return &buf
}

type dimDef struct {
	name                string
	kind                DimensionKind
	array, chunk, shard uint32
}

var xyzct = []dimDef{
	{"x", DimensionSpatial, 64, 16, 2},
	{"y", DimensionSpatial, 48, 16, 1},
	{"z", DimensionSpatial, 6, 2, 3},
	{"c", DimensionChannel, 3, 1, 1},
	{"t", DimensionTime, 0, 5, 2},
}

func pushDims(t *testing.T, l *Dimensions, defs []dimDef) {
	t.Helper()
	for _, s := range defs {
		require.NoError(t, l.Insert(l.Count(), s.name, s.kind, s.array, s.chunk, s.shard))
	}
}

func names(t *testing.T, l *Dimensions) []string {
	t.Helper()
	out := make([]string, 0, l.Count())
	for i := 0; i < l.Count(); i++ {
		d, err := l.Get(i)
		require.NoError(t, err)
		out = append(out, d.Name.String())
	}
	return out
}

// scanCount counts populated slots from index 0 up to the first empty one
// and fails the test if a populated slot follows an empty one.
func scanCount(t *testing.T, l *Dimensions) int {
	t.Helper()
	n := 0
	for n < len(l.data) && !l.data[n].IsEmpty() {
		n++
	}
	for i := n; i < len(l.data); i++ {
		require.Truef(t, l.data[i].IsEmpty(), "slot %d populated after empty slot %d", i, n)
	}
	return n
}
