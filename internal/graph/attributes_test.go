package graph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttributeTypedAccess(t *testing.T) {
	attr := IntAttr(42)
	assert.Equal(t, AttrInt, attr.Kind())

	v, err := attr.Int()
	require.NoError(t, err)
	assert.EqualValues(t, 42, v)

	_, err = attr.Float()
	assert.ErrorIs(t, err, ErrAttributeType)
	_, err = attr.Str()
	assert.ErrorIs(t, err, ErrAttributeType)
	_, err = attr.Ints()
	assert.ErrorIs(t, err, ErrAttributeType)
}

func TestAttributeVectors(t *testing.T) {
	ints, err := IntsAttr([]int64{1, 2, 3}).Ints()
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3}, ints)

	floats, err := FloatsAttr([]float64{0.5, 1.5}).Floats()
	require.NoError(t, err)
	assert.Equal(t, []float64{0.5, 1.5}, floats)

	strs, err := StringsAttr([]string{"a", "b"}).Strings()
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, strs)
}

func TestAttributeMapAccess(t *testing.T) {
	am := NewAttributeMap()
	am.SetInt(AttrNameAxis, 1)
	am.SetFloat(AttrNameAlpha, 0.2)
	am.SetString("mode", "reflect")
	am.SetInts(AttrNamePerm, []int64{1, 0})

	assert.Equal(t, 4, am.Len())
	assert.True(t, am.Has(AttrNameAxis))
	assert.False(t, am.Has("missing"))

	axis, err := am.GetInt(AttrNameAxis)
	require.NoError(t, err)
	assert.EqualValues(t, 1, axis)

	_, err = am.GetInt("missing")
	assert.ErrorIs(t, err, ErrMissingAttribute)

	_, err = am.GetInt(AttrNameAlpha)
	assert.ErrorIs(t, err, ErrAttributeType)

	mode, ok := am.TryGetString("mode")
	assert.True(t, ok)
	assert.Equal(t, "reflect", mode)

	_, ok = am.TryGetInt("mode")
	assert.False(t, ok)
}

func TestAttributeMapInsertionOrder(t *testing.T) {
	am := NewAttributeMap()
	am.SetInt("c", 3)
	am.SetInt("a", 1)
	am.SetInt("b", 2)

	assert.Equal(t, []string{"c", "a", "b"}, am.Keys())
	assert.Equal(t, "{c=3, a=1, b=2}", am.String())

	// Overwriting keeps the original position.
	am.SetInt("c", 30)
	assert.Equal(t, []string{"c", "a", "b"}, am.Keys())
	v, _ := am.GetInt("c")
	assert.EqualValues(t, 30, v)
}

func TestAttributeMapDeleteClear(t *testing.T) {
	am := NewAttributeMap()
	am.SetInt("a", 1)
	am.SetInt("b", 2)

	assert.True(t, am.Delete("a"))
	assert.False(t, am.Delete("a"))
	assert.Equal(t, 1, am.Len())

	am.Clear()
	assert.Equal(t, 0, am.Len())
	assert.Equal(t, "{}", am.String())
}

func TestAttributeMapClone(t *testing.T) {
	am := NewAttributeMap()
	am.SetInt("axis", 2)
	am.SetInts("pads", []int64{1, 1})

	clone := am.Clone()
	if diff := cmp.Diff(am.Keys(), clone.Keys()); diff != "" {
		t.Fatalf("clone key order mismatch (-want +got):\n%s", diff)
	}

	// Vector payloads are independent copies.
	pads, err := clone.GetInts("pads")
	require.NoError(t, err)
	pads[0] = 99
	original, err := am.GetInts("pads")
	require.NoError(t, err)
	assert.EqualValues(t, 1, original[0])
}
