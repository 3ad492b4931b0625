package models

// Node type tags as they appear in a NodeSet document.
const (
	NodeTypeObject        = "UAObject"
	NodeTypeObjectType    = "UAObjectType"
	NodeTypeVariable      = "UAVariable"
	NodeTypeVariableType  = "UAVariableType"
	NodeTypeMethod        = "UAMethod"
	NodeTypeReferenceType = "UAReferenceType"
	NodeTypeDataType      = "UADataType"
	NodeTypeView          = "UAView"
)

// NodeRecord is one node of the schema, normalized for code generation.
// Identifiers, aliases and data types are kept as text and decoded when emitted.
type NodeRecord struct {
	NodeType    string `json:"NodeType"`
	NodeID      string `json:"NodeId"`
	BrowseName  string `json:"BrowseName"`
	DisplayName string `json:"DisplayName"`
	Description string `json:"Description,omitempty"`

	// Parent and ParentLink are both set or both empty. ParentLink is an alias
	// name or a full NodeId.
	Parent     string `json:"Parent,omitempty"`
	ParentLink string `json:"ParentLink,omitempty"`
	TypeDef    string `json:"TypeDef,omitempty"`

	// DataType is an alias, a builtin type name or a NodeId. Empty means String.
	DataType string `json:"DataType,omitempty"`

	Value     Value     `json:"-"`
	ValueType ValueType `json:"ValueType,omitempty"`

	ValueRank               *int32   `json:"ValueRank,omitempty"`
	AccessLevel             *uint8   `json:"AccessLevel,omitempty"`
	UserAccessLevel         *uint8   `json:"UserAccessLevel,omitempty"`
	ArrayDimensions         []uint32 `json:"ArrayDimensions,omitempty"`
	MinimumSamplingInterval *float64 `json:"MinimumSamplingInterval,omitempty"`
	EventNotifier           uint8    `json:"EventNotifier,omitempty"`
	IsAbstract              bool     `json:"IsAbstract,omitempty"`
	Symmetric               bool     `json:"Symmetric,omitempty"`
	InverseName             string   `json:"InverseName,omitempty"`

	References []ReferenceRecord `json:"References,omitempty"`
}

// HasParent reports whether the record names a parent node.
func (n *NodeRecord) HasParent() bool {
	return n.Parent != ""
}

// ReferenceRecord is one outgoing or incoming reference of a node.
type ReferenceRecord struct {
	IsForward     bool   `json:"IsForward"`
	ReferenceType string `json:"ReferenceType"`
	Target        string `json:"Target"`
	// TargetClass is the node class of Target when the schema defines it.
	TargetClass string `json:"TargetClass,omitempty"`
}

// NodeClassOf maps a node type tag to its node class name.
func NodeClassOf(nodeType string) string {
	switch nodeType {
	case NodeTypeObject:
		return "Object"
	case NodeTypeObjectType:
		return "ObjectType"
	case NodeTypeVariable:
		return "Variable"
	case NodeTypeVariableType:
		return "VariableType"
	case NodeTypeMethod:
		return "Method"
	case NodeTypeReferenceType:
		return "ReferenceType"
	case NodeTypeDataType:
		return "DataType"
	case NodeTypeView:
		return "View"
	}
	return ""
}
