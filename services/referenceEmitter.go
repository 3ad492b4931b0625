package services

import (
	"strings"

	"github.com/amine-amaach/simulators/uanodegen/services/models"
	"github.com/dave/jennifer/jen"
	"github.com/pkg/errors"
)

type referenceEmitter struct {
	aliases models.AliasTable
}

func NewReferenceEmitter(aliases models.AliasTable) *referenceEmitter {
	return &referenceEmitter{aliases: aliases}
}

// Emit returns the statements adding the references of rec, in schema order,
// as one batch. It returns nil when rec has no references.
func (e *referenceEmitter) Emit(rec models.NodeRecord) ([]jen.Code, error) {
	if len(rec.References) == 0 {
		return nil, nil
	}
	source, err := resolveNodeID(e.aliases, rec.NodeID)
	if err != nil {
		return nil, err
	}
	items := make([]jen.Code, 0, len(rec.References))
	for i, ref := range rec.References {
		item, err := e.reference(source, ref)
		if err != nil {
			return nil, errors.WithMessagef(err, "reference #%d of %s", i, rec.NodeID)
		}
		items = append(items, item)
	}
	return []jen.Code{
		jen.Id("refs").Op(":=").Index().Qual(addrspacePkg, "AddReferencesItem").Custom(multiline, items...),
		jen.If(
			jen.Err().Op(":=").Id("server").Dot("AddReferences").Call(jen.Id("refs").Op("...")),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Err())),
	}, nil
}

func (e *referenceEmitter) reference(source models.NodeID, ref models.ReferenceRecord) (jen.Code, error) {
	refTypeID, err := resolveNodeID(e.aliases, ref.ReferenceType)
	if err != nil {
		return nil, err
	}
	refType, err := EncodeNodeID(refTypeID)
	if err != nil {
		return nil, err
	}
	target, err := resolveNodeID(e.aliases, ref.Target)
	if err != nil {
		return nil, err
	}
	return jen.Custom(multiline, keyed(
		[]string{"IsForward", "ReferenceTypeID", "SourceNodeID", "TargetNodeClass", "TargetNodeID"},
		[]jen.Code{
			jen.Lit(ref.IsForward),
			refType,
			EncodeExpandedNodeID(source),
			nodeClass(ref.TargetClass),
			EncodeExpandedNodeID(target),
		},
	)...), nil
}

// resolveNodeID decodes text as a NodeId, looking bare names up in the alias table.
func resolveNodeID(aliases models.AliasTable, text string) (models.NodeID, error) {
	if !strings.Contains(text, "=") {
		target, ok := aliases.Resolve(text)
		if !ok {
			return models.NodeID{}, errors.Wrapf(ErrUnresolvedAlias, "%q", text)
		}
		text = target
	}
	return ParseNodeID(text)
}

// nodeClass renders the NodeClass constant of a class name. Unknown classes
// are rendered as unspecified.
func nodeClass(class string) jen.Code {
	switch class {
	case "Object", "ObjectType", "Variable", "VariableType", "Method", "ReferenceType", "DataType", "View":
		return jen.Qual(addrspacePkg, "NodeClass"+class)
	}
	return jen.Qual(addrspacePkg, "NodeClassUnspecified")
}
