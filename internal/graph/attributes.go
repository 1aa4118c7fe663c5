package graph

import (
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// AttrKind identifies which variant an Attribute holds.
type AttrKind int

// Attribute variants.
const (
	AttrInt AttrKind = iota
	AttrFloat
	AttrString
	AttrInts
	AttrFloats
	AttrStrings
)

// String returns a human-readable name for the attribute kind.
func (k AttrKind) String() string {
	switch k {
	case AttrInt:
		return "int"
	case AttrFloat:
		return "float"
	case AttrString:
		return "string"
	case AttrInts:
		return "ints"
	case AttrFloats:
		return "floats"
	case AttrStrings:
		return "strings"
	default:
		return "invalid"
	}
}

// Common attribute names used by operator implementations.
const (
	AttrNameAxis    = "axis"
	AttrNameAxes    = "axes"
	AttrNameAlpha   = "alpha"
	AttrNameBeta    = "beta"
	AttrNameEpsilon = "epsilon"
	AttrNameKeepDim = "keepdim"
	AttrNamePads    = "pads"
	AttrNameStrides = "strides"
	AttrNameShape   = "shape"
	AttrNamePerm    = "perm"
)

// Attribute is a kind-tagged scalar or vector value attached to a node or
// graph.
type Attribute struct {
	kind    AttrKind
	i       int64
	f       float64
	s       string
	ints    []int64
	floats  []float64
	strings []string
}

// IntAttr creates an int attribute.
func IntAttr(v int64) Attribute { return Attribute{kind: AttrInt, i: v} }

// FloatAttr creates a float attribute.
func FloatAttr(v float64) Attribute { return Attribute{kind: AttrFloat, f: v} }

// StringAttr creates a string attribute.
func StringAttr(v string) Attribute { return Attribute{kind: AttrString, s: v} }

// IntsAttr creates an int-vector attribute.
func IntsAttr(v []int64) Attribute { return Attribute{kind: AttrInts, ints: v} }

// FloatsAttr creates a float-vector attribute.
func FloatsAttr(v []float64) Attribute { return Attribute{kind: AttrFloats, floats: v} }

// StringsAttr creates a string-vector attribute.
func StringsAttr(v []string) Attribute { return Attribute{kind: AttrStrings, strings: v} }

// Kind returns the variant the attribute holds.
func (a Attribute) Kind() AttrKind {
	return a.kind
}

// Int returns the int value, or ErrAttributeType for other kinds.
func (a Attribute) Int() (int64, error) {
	if a.kind != AttrInt {
		return 0, fmt.Errorf("%w: have %s, want int", ErrAttributeType, a.kind)
	}
	return a.i, nil
}

// Float returns the float value, or ErrAttributeType for other kinds.
func (a Attribute) Float() (float64, error) {
	if a.kind != AttrFloat {
		return 0, fmt.Errorf("%w: have %s, want float", ErrAttributeType, a.kind)
	}
	return a.f, nil
}

// String returns the string value for AttrString attributes; for other
// kinds it returns a debug rendering of the variant.
func (a Attribute) String() string {
	switch a.kind {
	case AttrInt:
		return fmt.Sprintf("%d", a.i)
	case AttrFloat:
		return fmt.Sprintf("%g", a.f)
	case AttrString:
		return a.s
	case AttrInts:
		return fmt.Sprintf("%v", a.ints)
	case AttrFloats:
		return fmt.Sprintf("%v", a.floats)
	case AttrStrings:
		return fmt.Sprintf("%v", a.strings)
	default:
		return "<invalid>"
	}
}

// Str returns the string value, or ErrAttributeType for other kinds.
func (a Attribute) Str() (string, error) {
	if a.kind != AttrString {
		return "", fmt.Errorf("%w: have %s, want string", ErrAttributeType, a.kind)
	}
	return a.s, nil
}

// Ints returns the int-vector value, or ErrAttributeType for other kinds.
func (a Attribute) Ints() ([]int64, error) {
	if a.kind != AttrInts {
		return nil, fmt.Errorf("%w: have %s, want ints", ErrAttributeType, a.kind)
	}
	return a.ints, nil
}

// Floats returns the float-vector value, or ErrAttributeType for other kinds.
func (a Attribute) Floats() ([]float64, error) {
	if a.kind != AttrFloats {
		return nil, fmt.Errorf("%w: have %s, want floats", ErrAttributeType, a.kind)
	}
	return a.floats, nil
}

// Strings returns the string-vector value, or ErrAttributeType for other
// kinds.
func (a Attribute) Strings() ([]string, error) {
	if a.kind != AttrStrings {
		return nil, fmt.Errorf("%w: have %s, want strings", ErrAttributeType, a.kind)
	}
	return a.strings, nil
}

// AttributeMap is an insertion-ordered map of named attributes. Iteration
// and String are deterministic in insertion order.
type AttributeMap struct {
	m *orderedmap.OrderedMap[string, Attribute]
}

// NewAttributeMap creates an empty attribute map.
func NewAttributeMap() *AttributeMap {
	return &AttributeMap{m: orderedmap.New[string, Attribute]()}
}

// Set stores an attribute under name, replacing any existing entry.
func (am *AttributeMap) Set(name string, attr Attribute) {
	am.m.Set(name, attr)
}

// SetInt stores an int attribute.
func (am *AttributeMap) SetInt(name string, v int64) { am.Set(name, IntAttr(v)) }

// SetFloat stores a float attribute.
func (am *AttributeMap) SetFloat(name string, v float64) { am.Set(name, FloatAttr(v)) }

// SetString stores a string attribute.
func (am *AttributeMap) SetString(name string, v string) { am.Set(name, StringAttr(v)) }

// SetInts stores an int-vector attribute.
func (am *AttributeMap) SetInts(name string, v []int64) { am.Set(name, IntsAttr(v)) }

// SetFloats stores a float-vector attribute.
func (am *AttributeMap) SetFloats(name string, v []float64) { am.Set(name, FloatsAttr(v)) }

// SetStrings stores a string-vector attribute.
func (am *AttributeMap) SetStrings(name string, v []string) { am.Set(name, StringsAttr(v)) }

// Get returns the attribute stored under name.
func (am *AttributeMap) Get(name string) (Attribute, error) {
	attr, ok := am.m.Get(name)
	if !ok {
		return Attribute{}, fmt.Errorf("%w: %q", ErrMissingAttribute, name)
	}
	return attr, nil
}

// GetInt returns the int attribute stored under name.
func (am *AttributeMap) GetInt(name string) (int64, error) {
	attr, err := am.Get(name)
	if err != nil {
		return 0, err
	}
	return attr.Int()
}

// GetFloat returns the float attribute stored under name.
func (am *AttributeMap) GetFloat(name string) (float64, error) {
	attr, err := am.Get(name)
	if err != nil {
		return 0, err
	}
	return attr.Float()
}

// GetString returns the string attribute stored under name.
func (am *AttributeMap) GetString(name string) (string, error) {
	attr, err := am.Get(name)
	if err != nil {
		return "", err
	}
	return attr.Str()
}

// GetInts returns the int-vector attribute stored under name.
func (am *AttributeMap) GetInts(name string) ([]int64, error) {
	attr, err := am.Get(name)
	if err != nil {
		return nil, err
	}
	return attr.Ints()
}

// GetFloats returns the float-vector attribute stored under name.
func (am *AttributeMap) GetFloats(name string) ([]float64, error) {
	attr, err := am.Get(name)
	if err != nil {
		return nil, err
	}
	return attr.Floats()
}

// GetStrings returns the string-vector attribute stored under name.
func (am *AttributeMap) GetStrings(name string) ([]string, error) {
	attr, err := am.Get(name)
	if err != nil {
		return nil, err
	}
	return attr.Strings()
}

// TryGetInt returns the int attribute and true, or (0, false) when absent
// or of a different kind.
func (am *AttributeMap) TryGetInt(name string) (int64, bool) {
	v, err := am.GetInt(name)
	return v, err == nil
}

// TryGetFloat returns the float attribute and true, or (0, false) when
// absent or of a different kind.
func (am *AttributeMap) TryGetFloat(name string) (float64, bool) {
	v, err := am.GetFloat(name)
	return v, err == nil
}

// TryGetString returns the string attribute and true, or ("", false) when
// absent or of a different kind.
func (am *AttributeMap) TryGetString(name string) (string, bool) {
	v, err := am.GetString(name)
	return v, err == nil
}

// Has reports whether an attribute is stored under name.
func (am *AttributeMap) Has(name string) bool {
	_, ok := am.m.Get(name)
	return ok
}

// Delete removes the attribute stored under name, reporting whether it
// existed.
func (am *AttributeMap) Delete(name string) bool {
	_, existed := am.m.Delete(name)
	return existed
}

// Clear removes all attributes.
func (am *AttributeMap) Clear() {
	am.m = orderedmap.New[string, Attribute]()
}

// Len returns the number of attributes.
func (am *AttributeMap) Len() int {
	return am.m.Len()
}

// Keys returns attribute names in insertion order.
func (am *AttributeMap) Keys() []string {
	keys := make([]string, 0, am.m.Len())
	for pair := am.m.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Clone returns a deep copy preserving insertion order. Vector payloads are
// copied.
func (am *AttributeMap) Clone() *AttributeMap {
	clone := NewAttributeMap()
	for pair := am.m.Oldest(); pair != nil; pair = pair.Next() {
		attr := pair.Value
		switch attr.kind {
		case AttrInts:
			attr.ints = append([]int64(nil), attr.ints...)
		case AttrFloats:
			attr.floats = append([]float64(nil), attr.floats...)
		case AttrStrings:
			attr.strings = append([]string(nil), attr.strings...)
		}
		clone.m.Set(pair.Key, attr)
	}
	return clone
}

// String renders the map as {name=value, ...} in insertion order.
func (am *AttributeMap) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	first := true
	for pair := am.m.Oldest(); pair != nil; pair = pair.Next() {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		fmt.Fprintf(&sb, "%s=%s", pair.Key, pair.Value.String())
	}
	sb.WriteByte('}')
	return sb.String()
}
