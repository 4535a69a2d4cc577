package storage

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorCarriesCodeComponentAndFields(t *testing.T) {
	var l Dimensions
	err := l.Insert(3, "x", DimensionSpatial, 1, 1, 1)

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.False(t, errors.Is(err, ErrOutOfRange))
	assert.Equal(t, CodeDimensionsInsertGap, CodeOf(err))
	assert.Equal(t, componentDimensions, ComponentOf(err))
	assert.Equal(t, 3, FieldsOf(err)["index"])
	assert.Contains(t, err.Error(), "insert index 3")
}

func TestCodeOfForeignErrors(t *testing.T) {
	assert.Equal(t, Code(""), CodeOf(nil))
	assert.Equal(t, Code(""), CodeOf(errors.New("plain")))
	assert.Nil(t, FieldsOf(nil))
	assert.Nil(t, FieldsOf(errors.New("plain")))
	assert.Equal(t, "", ComponentOf(errors.New("plain")))
}

func TestEveryFailureReachesTheSink(t *testing.T) {
	logs := captureDiagnostics(t)

	var p StorageProperties
	_ = p.SetAppendDimension(0)
	_, _ = p.Dimensions.Get(0)
	_, _ = ParseDimensionKind("bogus")

	out := logs.String()
	assert.Contains(t, out, "level=ERROR")
	assert.Contains(t, out, "code="+string(CodePropertiesAppendInvalid))
	assert.Contains(t, out, "code="+string(CodeDimensionsGetRange))
	assert.Contains(t, out, "code="+string(CodeDimensionKindInvalid))
	assert.Contains(t, out, "component=properties")
}

func TestSetLoggerNilRestoresDefault(t *testing.T) {
	SetLogger(slog.New(slog.DiscardHandler))
	SetLogger(nil)
	assert.Same(t, slog.Default(), logger())
}
