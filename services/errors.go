package services

import "github.com/pkg/errors"

var (
	// ErrMalformedIdentifier is returned for a NodeId without exactly one identifier key.
	ErrMalformedIdentifier = errors.New("malformed node identifier")
	// ErrExpandedIdentifier is returned when a namespace URI or server index is
	// used where only a local NodeId fits.
	ErrExpandedIdentifier = errors.New("expanded node identifier not allowed here")
	// ErrUnknownAttribute is returned when an extension object field is not
	// part of its structure.
	ErrUnknownAttribute = errors.New("unknown structure attribute")
	// ErrInvalidValue is returned when a value cannot be read as its declared type.
	ErrInvalidValue = errors.New("invalid value for declared type")
	// ErrUnresolvedAlias is returned when a reference type alias is not in the alias table.
	ErrUnresolvedAlias = errors.New("unresolved alias")
	// ErrUnsupportedNodeType is reported for node types the generator skips.
	ErrUnsupportedNodeType = errors.New("unsupported node type")
	// ErrInvalidNodeSet is returned when a schema document cannot be decoded.
	ErrInvalidNodeSet = errors.New("invalid nodeset document")
)
