package models

import "strings"

// Value is the attribute value of a variable or variable type as read from the schema.
// It is one of Scalar, List, Pairs or *ExtensionObject.
type Value interface {
	value()
}

// Scalar is a leaf value kept in its textual form.
type Scalar string

// List is an ordered sequence of values.
type List []Value

// Pair is one named entry of a nested sub-structure.
type Pair struct {
	Key   string
	Value Value
}

// Pairs is an ordered sub-structure.
type Pairs []Pair

// ExtensionObject is a structured value with its type name and ordered fields.
type ExtensionObject struct {
	TypeName string
	TypeID   string
	Fields   Pairs
}

func (Scalar) value()           {}
func (List) value()             {}
func (Pairs) value()            {}
func (*ExtensionObject) value() {}

// Get returns the value of the first pair named key.
func (p Pairs) Get(key string) (Value, bool) {
	for _, pair := range p {
		if pair.Key == key {
			return pair.Value, true
		}
	}
	return nil, false
}

// Text returns the text of the first scalar pair named key, or "".
func (p Pairs) Text(key string) string {
	if v, ok := p.Get(key); ok {
		if s, ok := v.(Scalar); ok {
			return string(s)
		}
	}
	return ""
}

const listOfPrefix = "ListOf"

// ValueType names the declared type of a value: a builtin type name or a
// structure name, optionally prefixed by ListOf.
type ValueType string

// IsList reports whether the tag has the ListOf prefix.
func (t ValueType) IsList() bool {
	return strings.HasPrefix(string(t), listOfPrefix) && len(t) > len(listOfPrefix)
}

// Element strips one ListOf prefix. Tags without the prefix are returned as is.
func (t ValueType) Element() ValueType {
	if t.IsList() {
		return t[len(listOfPrefix):]
	}
	return t
}

// ListOf returns the array tag of t.
func (t ValueType) ListOf() ValueType {
	return ValueType(listOfPrefix) + t
}
