package addrspace

import "github.com/awcullen/opcua/ua"

// VariantType is the builtin type id of a variant value.
type VariantType byte

const (
	VariantTypeNull VariantType = iota
	VariantTypeBoolean
	VariantTypeSByte
	VariantTypeByte
	VariantTypeInt16
	VariantTypeUInt16
	VariantTypeInt32
	VariantTypeUInt32
	VariantTypeInt64
	VariantTypeUInt64
	VariantTypeFloat
	VariantTypeDouble
	VariantTypeString
	VariantTypeDateTime
	VariantTypeGUID
	VariantTypeByteString
	VariantTypeXMLElement
	VariantTypeNodeID
	VariantTypeExpandedNodeID
	VariantTypeStatusCode
	VariantTypeQualifiedName
	VariantTypeLocalizedText
	VariantTypeExtensionObject
	VariantTypeDataValue
	VariantTypeVariant
	VariantTypeDiagnosticInfo
)

// Variant is a value tagged with its builtin type. For arrays Type is the element type.
type Variant struct {
	Value ua.Variant
	Type  VariantType
}

func NewVariant(value ua.Variant, t VariantType) Variant {
	return Variant{Value: value, Type: t}
}

// Structure is a structured value of a data type without a Go type of its own.
type Structure struct {
	TypeName string
	TypeID   ua.ExpandedNodeID
	Fields   []Field
}

// Field is one named field of a Structure.
type Field struct {
	Name  string
	Value ua.Variant
}

// Field returns the value of the field named name.
func (s Structure) Field(name string) (ua.Variant, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f.Value, true
		}
	}
	return nil, false
}

// unwrap returns the plain value a Variant attribute holds.
func unwrap(v ua.Variant) ua.Variant {
	if vv, ok := v.(Variant); ok {
		return vv.Value
	}
	return v
}
