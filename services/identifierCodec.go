package services

import (
	"encoding/base64"
	"strconv"
	"strings"

	"github.com/amine-amaach/simulators/uanodegen/services/models"
	"github.com/awcullen/opcua/ua"
	"github.com/dave/jennifer/jen"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ParseNodeID decodes the textual NodeId form, e.g. "ns=2;s=Demo.Temp" or
// "nsu=urn:demo;i=1001". The namespace URI wins over the namespace index and
// exactly one of the i, s, g or b keys must be present.
// A ';' inside a string identifier is not supported.
func ParseNodeID(text string) (models.NodeID, error) {
	var id models.NodeID
	identifiers := 0
	for _, seg := range strings.Split(text, ";") {
		if strings.TrimSpace(seg) == "" {
			continue
		}
		key, val, ok := strings.Cut(seg, "=")
		if !ok {
			return models.NodeID{}, errors.Wrapf(ErrMalformedIdentifier, "%q: segment %q has no value", text, seg)
		}
		key = strings.TrimSpace(key)
		if key != "s" {
			val = strings.TrimSpace(val)
		}
		switch key {
		case "ns":
			ns, err := strconv.ParseUint(val, 10, 16)
			if err != nil {
				return models.NodeID{}, errors.Wrapf(ErrMalformedIdentifier, "%q: namespace index %q", text, val)
			}
			id.Namespace = uint16(ns)
		case "nsu":
			id.NamespaceURI = val
		case "srv", "svr":
			srv, err := strconv.ParseUint(val, 10, 32)
			if err != nil {
				return models.NodeID{}, errors.Wrapf(ErrMalformedIdentifier, "%q: server index %q", text, val)
			}
			idx := uint32(srv)
			id.ServerIndex = &idx
		case "i":
			n, err := strconv.ParseUint(val, 10, 32)
			if err != nil {
				return models.NodeID{}, errors.Wrapf(ErrMalformedIdentifier, "%q: numeric identifier %q", text, val)
			}
			id.Kind, id.Numeric = models.IDNumeric, uint32(n)
			identifiers++
		case "s":
			id.Kind, id.String = models.IDString, val
			identifiers++
		case "g":
			g, err := uuid.Parse(val)
			if err != nil {
				return models.NodeID{}, errors.Wrapf(ErrMalformedIdentifier, "%q: guid identifier: %v", text, err)
			}
			id.Kind, id.GUID = models.IDGUID, g
			identifiers++
		case "b":
			b, err := base64.StdEncoding.DecodeString(val)
			if err != nil {
				return models.NodeID{}, errors.Wrapf(ErrMalformedIdentifier, "%q: opaque identifier: %v", text, err)
			}
			id.Kind, id.Opaque = models.IDOpaque, b
			identifiers++
		default:
			return models.NodeID{}, errors.Wrapf(ErrMalformedIdentifier, "%q: unknown key %q", text, key)
		}
	}
	if identifiers != 1 {
		return models.NodeID{}, errors.Wrapf(ErrMalformedIdentifier, "%q: want exactly one of i, s, g or b", text)
	}
	if id.NamespaceURI != "" {
		id.Namespace = 0
	}
	return id, nil
}

// EncodeNodeID renders the constructor expression of a local NodeId.
func EncodeNodeID(id models.NodeID) (jen.Code, error) {
	if id.IsExpanded() {
		return nil, errors.Wrapf(ErrExpandedIdentifier, "%s", FormatNodeID(id))
	}
	return localNodeID(id), nil
}

// EncodeExpandedNodeID renders an ExpandedNodeId expression. Namespace URI and
// server index are kept when present.
func EncodeExpandedNodeID(id models.NodeID) jen.Code {
	if !id.IsExpanded() {
		return jen.Qual(uaPkg, "NewExpandedNodeID").Call(localNodeID(id))
	}
	fields := jen.Dict{jen.Id("NodeID"): localNodeID(id)}
	if id.NamespaceURI != "" {
		fields[jen.Id("NamespaceURI")] = jen.Lit(id.NamespaceURI)
	}
	if id.ServerIndex != nil {
		fields[jen.Id("ServerIndex")] = jen.Lit(int(*id.ServerIndex))
	}
	return jen.Qual(uaPkg, "ExpandedNodeID").Values(fields)
}

func localNodeID(id models.NodeID) jen.Code {
	ns := jen.Lit(int(id.Namespace))
	switch id.Kind {
	case models.IDString:
		return jen.Qual(uaPkg, "NewNodeIDString").Call(ns, jen.Lit(id.String))
	case models.IDGUID:
		return jen.Qual(uaPkg, "NewNodeIDGUID").Call(ns, jen.Qual(uuidPkg, "MustParse").Call(jen.Lit(id.GUID.String())))
	case models.IDOpaque:
		return jen.Qual(uaPkg, "NewNodeIDOpaque").Call(ns, jen.Qual(uaPkg, "ByteString").Call(jen.Lit(string(id.Opaque))))
	default:
		return jen.Qual(uaPkg, "NewNodeIDNumeric").Call(ns, jen.Lit(int(id.Numeric)))
	}
}

// FormatNodeID returns the textual form of a decoded NodeId.
func FormatNodeID(id models.NodeID) string {
	var b strings.Builder
	if id.ServerIndex != nil {
		b.WriteString("svr=" + strconv.FormatUint(uint64(*id.ServerIndex), 10) + ";")
	}
	if id.NamespaceURI != "" {
		b.WriteString("nsu=" + id.NamespaceURI + ";")
	} else if id.Namespace != 0 {
		b.WriteString("ns=" + strconv.Itoa(int(id.Namespace)) + ";")
	}
	switch id.Kind {
	case models.IDString:
		b.WriteString("s=" + id.String)
	case models.IDGUID:
		b.WriteString("g=" + id.GUID.String())
	case models.IDOpaque:
		b.WriteString("b=" + base64.StdEncoding.EncodeToString(id.Opaque))
	default:
		b.WriteString("i=" + strconv.FormatUint(uint64(id.Numeric), 10))
	}
	return b.String()
}

// ParseQualifiedName decodes "idx:name". Without a numeric index prefix the
// namespace index is 0 and the whole text is the name.
func ParseQualifiedName(text string) ua.QualifiedName {
	return ua.ParseQualifiedName(text)
}

// EncodeQualifiedName renders the constructor expression of a QualifiedName.
func EncodeQualifiedName(qn ua.QualifiedName) jen.Code {
	return jen.Qual(uaPkg, "NewQualifiedName").Call(jen.Lit(int(qn.NamespaceIndex)), jen.Lit(qn.Name))
}
