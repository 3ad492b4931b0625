package models

import "time"

// Header describes the model a schema document publishes.
type Header struct {
	ModelURI        string    `json:"ModelUri"`
	Version         string    `json:"Version"`
	PublicationDate time.Time `json:"PublicationDate"`
	// Part is the logical part name, e.g. "Services" for Opc.Ua.NodeSet2.Services.xml.
	Part string `json:"Part"`
}

// AliasTable maps alias names to full NodeId strings.
type AliasTable map[string]string

// Resolve returns the NodeId an alias stands for.
func (a AliasTable) Resolve(alias string) (string, bool) {
	id, ok := a[alias]
	return id, ok
}

// StructureDef is a structured data type known to the type catalog.
type StructureDef struct {
	Name string `yaml:"name"`
	// ID is the NodeId of the data type node defining the structure, if any.
	ID string `yaml:"id,omitempty"`
	// IsEnum marks an enumeration definition. Its fields are the enum values.
	IsEnum bool `yaml:"-"`
	// GoType is the Go type generated values use, e.g. "ua.Argument". Empty for
	// structures only known from a schema document.
	GoType string     `yaml:"goType,omitempty"`
	Fields []FieldDef `yaml:"fields"`
}

// FieldDef is one field of a structure.
type FieldDef struct {
	Name    string `yaml:"name"`
	GoName  string `yaml:"goName,omitempty"`
	Type    string `yaml:"type"`
	IsArray bool   `yaml:"array,omitempty"`
	// Cast wraps the literal into a named Go type, e.g. "ua.NodeClass".
	Cast string `yaml:"cast,omitempty"`
}

// Tag returns the value type the field resolves to.
func (f FieldDef) Tag() ValueType {
	if f.IsArray {
		return ValueType(f.Type).ListOf()
	}
	return ValueType(f.Type)
}

// BuiltinType is an OPC UA builtin type with its Go rendering.
type BuiltinType struct {
	ID     uint32 `yaml:"id"`
	Name   string `yaml:"name"`
	GoType string `yaml:"goType"`
}

// DataTypeDef is a well-known data type that is not a builtin. Base names the
// builtin its values are encoded as, if any.
type DataTypeDef struct {
	ID   uint32 `yaml:"id"`
	Name string `yaml:"name"`
	Base string `yaml:"base,omitempty"`
}
