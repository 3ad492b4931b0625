package addrspace

import (
	"sync"
	"time"

	"github.com/awcullen/opcua/server"
	"github.com/awcullen/opcua/ua"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ErrUnknownNode is returned when a reference names a source node the server does not hold.
var ErrUnknownNode = errors.New("unknown node")

// namespaceManager is the part of server.NamespaceManager the node manager uses.
type namespaceManager interface {
	Add(nsu string) uint16
	NamespaceUris() []string
	FindNode(id ua.NodeID) (server.Node, bool)
	AddNode(node server.Node) error
}

// ServerNodeManager adds generated nodes and references to an OPC UA server.
type ServerNodeManager struct {
	sync.Mutex
	srv        *server.Server
	ns         namespaceManager
	historian  server.HistoryReadWriter
	nodesAdded *prometheus.CounterVec
	refsAdded  prometheus.Counter
}

// NewServerNodeManager returns a NodeManager for srv. Metrics are registered
// with reg when it is not nil.
func NewServerNodeManager(srv *server.Server, reg prometheus.Registerer) *ServerNodeManager {
	return newServerNodeManager(srv, srv.NamespaceManager(), srv.Historian(), reg)
}

func newServerNodeManager(srv *server.Server, ns namespaceManager, historian server.HistoryReadWriter, reg prometheus.Registerer) *ServerNodeManager {
	factory := promauto.With(reg)
	return &ServerNodeManager{
		srv:       srv,
		ns:        ns,
		historian: historian,
		nodesAdded: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "uanodegen",
			Name:      "nodes_added_total",
			Help:      "Number of address space nodes added, by node class.",
		}, []string{"node_class"}),
		refsAdded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "uanodegen",
			Name:      "references_added_total",
			Help:      "Number of address space references added.",
		}),
	}
}

// AddNodes implements the NodeManager interface. Each node is created with a
// reference to its parent and its type definition.
func (m *ServerNodeManager) AddNodes(items ...AddNodesItem) error {
	m.Lock()
	defer m.Unlock()
	for _, item := range items {
		node, err := m.newNode(item)
		if err != nil {
			return err
		}
		if err := m.ns.AddNode(node); err != nil {
			return errors.Wrapf(err, "adding node %s", node.NodeID())
		}
		m.nodesAdded.WithLabelValues(item.NodeClass.String()).Inc()
	}
	return nil
}

// AddReferences implements the NodeManager interface.
func (m *ServerNodeManager) AddReferences(items ...AddReferencesItem) error {
	m.Lock()
	defer m.Unlock()
	for _, item := range items {
		source := m.resolve(item.SourceNodeID)
		node, ok := m.ns.FindNode(source)
		if !ok {
			return errors.Wrapf(ErrUnknownNode, "reference source %s", item.SourceNodeID)
		}
		ref := ua.NewReference(item.ReferenceTypeID, !item.IsForward, m.local(item.TargetNodeID))
		if !hasReference(node.References(), ref) {
			node.SetReferences(append(node.References(), ref))
		}
		if target, ok := m.ns.FindNode(ua.ToNodeID(ref.TargetID, m.ns.NamespaceUris())); ok {
			inverse := ua.NewReference(item.ReferenceTypeID, item.IsForward, ua.NewExpandedNodeID(source))
			if !hasReference(target.References(), inverse) {
				target.SetReferences(append(target.References(), inverse))
			}
		}
		m.refsAdded.Inc()
	}
	return nil
}

func (m *ServerNodeManager) newNode(item AddNodesItem) (server.Node, error) {
	id := m.resolve(item.RequestedNewNodeID)
	if id == nil {
		return nil, errors.Errorf("node %s has no valid id", item.RequestedNewNodeID)
	}
	var refs []ua.Reference
	if item.ParentNodeID.NodeID != nil && item.ReferenceTypeID != nil {
		refs = append(refs, ua.NewReference(item.ReferenceTypeID, true, m.local(item.ParentNodeID)))
	}
	if item.TypeDefinition.NodeID != nil {
		refs = append(refs, ua.NewReference(ua.ReferenceTypeIDHasTypeDefinition, false, m.local(item.TypeDefinition)))
	}

	switch attrs := item.NodeAttributes.(type) {
	case ObjectAttributes:
		return server.NewObjectNode(m.srv, id, item.BrowseName, attrs.DisplayName, attrs.Description, nil, refs, attrs.EventNotifier), nil
	case ObjectTypeAttributes:
		return server.NewObjectTypeNode(m.srv, id, item.BrowseName, attrs.DisplayName, attrs.Description, nil, refs, attrs.IsAbstract), nil
	case VariableAttributes:
		minInterval := 0.0
		if attrs.MinimumSamplingInterval != nil {
			minInterval = *attrs.MinimumSamplingInterval
		}
		return server.NewVariableNode(m.srv, id, item.BrowseName, attrs.DisplayName, attrs.Description, nil, refs,
			dataValue(attrs.Value), dataType(attrs.DataType), valueRank(attrs.ValueRank), dims(attrs.ArrayDimensions),
			accessLevel(attrs.AccessLevel), minInterval, attrs.Historizing, m.historian), nil
	case VariableTypeAttributes:
		return server.NewVariableTypeNode(m.srv, id, item.BrowseName, attrs.DisplayName, attrs.Description, nil, refs,
			dataValue(attrs.Value), dataType(attrs.DataType), valueRank(attrs.ValueRank), dims(attrs.ArrayDimensions), attrs.IsAbstract), nil
	case MethodAttributes:
		return server.NewMethodNode(m.srv, id, item.BrowseName, attrs.DisplayName, attrs.Description, nil, refs, attrs.Executable), nil
	case ReferenceTypeAttributes:
		return server.NewReferenceTypeNode(m.srv, id, item.BrowseName, attrs.DisplayName, attrs.Description, nil, refs, attrs.IsAbstract, attrs.Symmetric, attrs.InverseName), nil
	case DataTypeAttributes:
		return server.NewDataTypeNode(m.srv, id, item.BrowseName, attrs.DisplayName, attrs.Description, nil, refs, attrs.IsAbstract, nil), nil
	}
	return nil, errors.Errorf("node %s: unsupported attributes %T", id, item.NodeAttributes)
}

// resolve maps an expanded id to a local NodeId, registering its namespace URI.
func (m *ServerNodeManager) resolve(id ua.ExpandedNodeID) ua.NodeID {
	if id.NamespaceURI != "" {
		m.ns.Add(id.NamespaceURI)
	}
	return ua.ToNodeID(id, m.ns.NamespaceUris())
}

// local drops the namespace URI of local targets so the server can look them up.
func (m *ServerNodeManager) local(id ua.ExpandedNodeID) ua.ExpandedNodeID {
	if id.ServerIndex != 0 {
		return id
	}
	return ua.NewExpandedNodeID(m.resolve(id))
}

func hasReference(refs []ua.Reference, ref ua.Reference) bool {
	for _, r := range refs {
		if r.ReferenceTypeID == ref.ReferenceTypeID && r.IsInverse == ref.IsInverse && r.TargetID == ref.TargetID {
			return true
		}
	}
	return false
}

func dataValue(v ua.Variant) ua.DataValue {
	value := unwrap(v)
	if value == nil {
		return ua.DataValue{}
	}
	now := time.Now().UTC()
	return ua.NewDataValue(value, 0, now, 0, now, 0)
}

func dataType(id ua.NodeID) ua.NodeID {
	if id == nil {
		return ua.DataTypeIDBaseDataType
	}
	return id
}

func valueRank(rank *int32) int32 {
	if rank == nil {
		return ua.ValueRankScalar
	}
	return *rank
}

func dims(d []uint32) []uint32 {
	if d == nil {
		return []uint32{}
	}
	return d
}

func accessLevel(level *byte) byte {
	if level == nil {
		return ua.AccessLevelsCurrentRead
	}
	return *level
}
