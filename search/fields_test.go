package search

import (
	"testing"

	"bikefit/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldResolver_Lookup(t *testing.T) {
	r := NewFieldResolver("a", "b", "c")

	v, ok := r.Lookup(map[string]string{"b": "2", "c": "3"})
	assert.True(t, ok)
	assert.Equal(t, "2", v)

	_, ok = r.Lookup(map[string]string{"a": "", "z": "9"})
	assert.False(t, ok)

	_, ok = r.Lookup(nil)
	assert.False(t, ok)
}

func TestFieldResolver_Number(t *testing.T) {
	assert.Equal(t, domain.Num(73.5), SeatTubeAngleField.Number(map[string]string{"seatTubeAngle": "73.5"}))
	assert.Equal(t, domain.Number{}, SeatTubeAngleField.Number(map[string]string{"sta": "steep"}))
}

func TestRecordFromFields(t *testing.T) {
	rec, err := RecordFromFields(map[string]string{
		"Brand":    "Specialized",
		"Model":    "Tarmac",
		"Size":     "54",
		"Reach":    "383",
		"Stack":    "544",
		"category": "race",
		"material": "carbon",
		"sr_ratio": "1.42",
	})
	require.NoError(t, err)
	assert.Equal(t, "Specialized", rec.Brand)
	assert.Equal(t, "Tarmac", rec.Model)
	assert.Equal(t, "54", rec.Size)
	assert.Equal(t, 383.0, rec.Reach)
	assert.Equal(t, 544.0, rec.Stack)
	assert.Equal(t, "race", rec.Style)
	assert.Equal(t, "carbon", rec.Material)
	assert.Equal(t, "1.42", rec.Fields["sr_ratio"])

	_, err = RecordFromFields(map[string]string{"brand": "X", "reach": "380"})
	assert.Error(t, err)
}
