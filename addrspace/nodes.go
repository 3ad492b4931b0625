// Package addrspace holds the types generated address-space code is written
// against, and a NodeManager backed by an OPC UA server.
package addrspace

import "github.com/awcullen/opcua/ua"

// NodeManager receives the nodes and references of a generated address space.
type NodeManager interface {
	AddNodes(items ...AddNodesItem) error
	AddReferences(items ...AddReferencesItem) error
}

// NodeClass identifies the class of a node.
type NodeClass int32

const (
	NodeClassUnspecified   NodeClass = 0
	NodeClassObject        NodeClass = 1
	NodeClassVariable      NodeClass = 2
	NodeClassMethod        NodeClass = 4
	NodeClassObjectType    NodeClass = 8
	NodeClassVariableType  NodeClass = 16
	NodeClassReferenceType NodeClass = 32
	NodeClassDataType      NodeClass = 64
	NodeClassView          NodeClass = 128
)

func (c NodeClass) String() string {
	switch c {
	case NodeClassObject:
		return "Object"
	case NodeClassVariable:
		return "Variable"
	case NodeClassMethod:
		return "Method"
	case NodeClassObjectType:
		return "ObjectType"
	case NodeClassVariableType:
		return "VariableType"
	case NodeClassReferenceType:
		return "ReferenceType"
	case NodeClassDataType:
		return "DataType"
	case NodeClassView:
		return "View"
	}
	return "Unspecified"
}

// AddNodesItem requests the creation of one node.
type AddNodesItem struct {
	ParentNodeID       ua.ExpandedNodeID
	ReferenceTypeID    ua.NodeID
	RequestedNewNodeID ua.ExpandedNodeID
	BrowseName         ua.QualifiedName
	NodeClass          NodeClass
	NodeAttributes     NodeAttributes
	TypeDefinition     ua.ExpandedNodeID
}

// AddReferencesItem requests the creation of one reference.
type AddReferencesItem struct {
	SourceNodeID    ua.ExpandedNodeID
	ReferenceTypeID ua.NodeID
	IsForward       bool
	TargetNodeID    ua.ExpandedNodeID
	TargetNodeClass NodeClass
}

// NodeAttributes is one of the *Attributes types of this package.
type NodeAttributes interface {
	nodeClass() NodeClass
}

type ObjectAttributes struct {
	DisplayName   ua.LocalizedText
	Description   ua.LocalizedText
	EventNotifier byte
}

type ObjectTypeAttributes struct {
	DisplayName ua.LocalizedText
	Description ua.LocalizedText
	IsAbstract  bool
}

// VariableAttributes describe a variable. Nil pointers take the server defaults:
// scalar value rank, readable access and no minimum sampling interval.
type VariableAttributes struct {
	DisplayName             ua.LocalizedText
	Description             ua.LocalizedText
	Value                   ua.Variant
	DataType                ua.NodeID
	ValueRank               *int32
	ArrayDimensions         []uint32
	AccessLevel             *byte
	UserAccessLevel         *byte
	MinimumSamplingInterval *float64
	Historizing             bool
}

type VariableTypeAttributes struct {
	DisplayName     ua.LocalizedText
	Description     ua.LocalizedText
	Value           ua.Variant
	DataType        ua.NodeID
	ValueRank       *int32
	ArrayDimensions []uint32
	IsAbstract      bool
	AccessLevel     *byte
	UserAccessLevel *byte
}

type MethodAttributes struct {
	DisplayName ua.LocalizedText
	Description ua.LocalizedText
	Executable  bool
}

type ReferenceTypeAttributes struct {
	DisplayName ua.LocalizedText
	Description ua.LocalizedText
	InverseName ua.LocalizedText
	IsAbstract  bool
	Symmetric   bool
}

type DataTypeAttributes struct {
	DisplayName ua.LocalizedText
	Description ua.LocalizedText
	IsAbstract  bool
}

func (ObjectAttributes) nodeClass() NodeClass        { return NodeClassObject }
func (ObjectTypeAttributes) nodeClass() NodeClass    { return NodeClassObjectType }
func (VariableAttributes) nodeClass() NodeClass      { return NodeClassVariable }
func (VariableTypeAttributes) nodeClass() NodeClass  { return NodeClassVariableType }
func (MethodAttributes) nodeClass() NodeClass        { return NodeClassMethod }
func (ReferenceTypeAttributes) nodeClass() NodeClass { return NodeClassReferenceType }
func (DataTypeAttributes) nodeClass() NodeClass      { return NodeClassDataType }

// Int32 returns a pointer to v.
func Int32(v int32) *int32 { return &v }

// Byte returns a pointer to v.
func Byte(v byte) *byte { return &v }

// Float64 returns a pointer to v.
func Float64(v float64) *float64 { return &v }
