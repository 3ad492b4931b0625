package models

import "github.com/google/uuid"

// IDKind tells which identifier variant of a NodeID is populated.
type IDKind uint8

const (
	IDNumeric IDKind = iota
	IDString
	IDGUID
	IDOpaque
)

// NodeID is a decoded node identifier.
type NodeID struct {
	Kind         IDKind
	Namespace    uint16
	NamespaceURI string
	ServerIndex  *uint32

	Numeric uint32
	String  string
	GUID    uuid.UUID
	Opaque  []byte
}

// IsExpanded reports whether the identifier carries a namespace URI or server index.
func (id NodeID) IsExpanded() bool {
	return id.NamespaceURI != "" || id.ServerIndex != nil
}
