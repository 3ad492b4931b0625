package services

import (
	"strings"

	"github.com/amine-amaach/simulators/uanodegen/ports"
	"github.com/amine-amaach/simulators/uanodegen/services/models"
	"github.com/dave/jennifer/jen"
	"github.com/pkg/errors"
)

type attribute struct {
	name  string
	value jen.Code
}

// attributeBag is the ordered set of attributes a node is created with.
// Absent optional attributes are never added.
type attributeBag []attribute

func (b *attributeBag) add(name string, value jen.Code) {
	*b = append(*b, attribute{name: name, value: value})
}

func (b attributeBag) names() []string {
	out := make([]string, len(b))
	for i, a := range b {
		out[i] = a.name
	}
	return out
}

func (b attributeBag) code(typeName string) jen.Code {
	values := make([]jen.Code, len(b))
	for i, a := range b {
		values[i] = a.value
	}
	return jen.Qual(addrspacePkg, typeName).Custom(multiline, keyed(b.names(), values)...)
}

type nodeEmitter struct {
	aliases models.AliasTable
	catalog ports.CatalogPort
	values  *valueEncoder
	refs    *referenceEmitter
}

func NewNodeEmitter(aliases models.AliasTable, catalog ports.CatalogPort, values *valueEncoder, refs *referenceEmitter) *nodeEmitter {
	return &nodeEmitter{
		aliases: aliases,
		catalog: catalog,
		values:  values,
		refs:    refs,
	}
}

// Emit appends the code creating rec and its references to g.
func (e *nodeEmitter) Emit(g *jen.Group, rec models.NodeRecord) error {
	attrs, err := e.Attributes(rec)
	if err != nil {
		return err
	}
	class := models.NodeClassOf(rec.NodeType)
	item, err := e.addNodesItem(rec, class)
	if err != nil {
		return errors.WithMessagef(err, "node %s", rec.NodeID)
	}
	refs, err := e.refs.Emit(rec)
	if err != nil {
		return err
	}

	stmts := []jen.Code{
		jen.Id("attrs").Op(":=").Add(attrs.code(class + "Attributes")),
		jen.Id("node").Op(":=").Add(item),
		jen.If(
			jen.Err().Op(":=").Id("server").Dot("AddNodes").Call(jen.Id("node")),
			jen.Err().Op("!=").Nil(),
		).Block(jen.Return(jen.Err())),
	}
	g.Comment(rec.BrowseName + " " + rec.NodeID)
	g.Block(append(stmts, refs...)...)
	return nil
}

// Attributes builds the attribute bag of rec according to its node type.
func (e *nodeEmitter) Attributes(rec models.NodeRecord) (attributeBag, error) {
	var (
		bag attributeBag
		err error
	)
	switch rec.NodeType {
	case models.NodeTypeObject:
		bag = e.objectAttributes(rec)
	case models.NodeTypeObjectType:
		bag = e.objectTypeAttributes(rec)
	case models.NodeTypeVariable:
		bag, err = e.variableAttributes(rec)
	case models.NodeTypeVariableType:
		bag, err = e.variableTypeAttributes(rec)
	case models.NodeTypeMethod:
		bag = e.methodAttributes(rec)
	case models.NodeTypeReferenceType:
		bag = e.referenceTypeAttributes(rec)
	case models.NodeTypeDataType:
		bag = e.dataTypeAttributes(rec)
	default:
		return nil, errors.Wrapf(ErrUnsupportedNodeType, "%s %s", rec.NodeType, rec.NodeID)
	}
	if err != nil {
		return nil, errors.WithMessagef(err, "node %s", rec.NodeID)
	}
	return bag, nil
}

func (e *nodeEmitter) common(bag *attributeBag, rec models.NodeRecord) {
	if rec.Description != "" {
		bag.add("Description", localizedText(models.Scalar(rec.Description)))
	}
	bag.add("DisplayName", localizedText(models.Scalar(rec.DisplayName)))
}

func (e *nodeEmitter) objectAttributes(rec models.NodeRecord) attributeBag {
	var bag attributeBag
	e.common(&bag, rec)
	bag.add("EventNotifier", jen.Lit(int(rec.EventNotifier)))
	return bag
}

func (e *nodeEmitter) objectTypeAttributes(rec models.NodeRecord) attributeBag {
	var bag attributeBag
	e.common(&bag, rec)
	bag.add("IsAbstract", jen.Lit(rec.IsAbstract))
	return bag
}

func (e *nodeEmitter) variableAttributes(rec models.NodeRecord) (attributeBag, error) {
	var bag attributeBag
	e.common(&bag, rec)
	if err := e.variableCommon(&bag, rec); err != nil {
		return nil, err
	}
	e.accessLevels(&bag, rec)
	if rec.MinimumSamplingInterval != nil {
		bag.add("MinimumSamplingInterval", jen.Qual(addrspacePkg, "Float64").Call(jen.Lit(*rec.MinimumSamplingInterval)))
	}
	return bag, nil
}

func (e *nodeEmitter) variableTypeAttributes(rec models.NodeRecord) (attributeBag, error) {
	var bag attributeBag
	e.common(&bag, rec)
	if err := e.variableCommon(&bag, rec); err != nil {
		return nil, err
	}
	if rec.IsAbstract {
		bag.add("IsAbstract", jen.True())
	}
	e.accessLevels(&bag, rec)
	return bag, nil
}

// variableCommon adds the value, data type and shape shared by variables and variable types.
func (e *nodeEmitter) variableCommon(bag *attributeBag, rec models.NodeRecord) error {
	if rec.Value != nil {
		value, err := e.values.Encode(rec.Value, rec.ValueType)
		if err != nil {
			return err
		}
		bag.add("Value", value)
	}
	dataType, err := e.DataType(rec.DataType)
	if err != nil {
		return err
	}
	bag.add("DataType", dataType)
	if rec.ValueRank != nil {
		bag.add("ValueRank", jen.Qual(addrspacePkg, "Int32").Call(jen.Lit(int(*rec.ValueRank))))
	}
	if rec.ArrayDimensions != nil {
		dims := make([]jen.Code, len(rec.ArrayDimensions))
		for i, d := range rec.ArrayDimensions {
			dims[i] = jen.Lit(int(d))
		}
		bag.add("ArrayDimensions", jen.Index().Uint32().Values(dims...))
	}
	return nil
}

func (e *nodeEmitter) accessLevels(bag *attributeBag, rec models.NodeRecord) {
	if rec.AccessLevel != nil {
		bag.add("AccessLevel", jen.Qual(addrspacePkg, "Byte").Call(jen.Lit(int(*rec.AccessLevel))))
	}
	if rec.UserAccessLevel != nil {
		bag.add("UserAccessLevel", jen.Qual(addrspacePkg, "Byte").Call(jen.Lit(int(*rec.UserAccessLevel))))
	}
}

func (e *nodeEmitter) methodAttributes(rec models.NodeRecord) attributeBag {
	var bag attributeBag
	e.common(&bag, rec)
	return bag
}

func (e *nodeEmitter) referenceTypeAttributes(rec models.NodeRecord) attributeBag {
	var bag attributeBag
	e.common(&bag, rec)
	if rec.InverseName != "" {
		bag.add("InverseName", localizedText(models.Scalar(rec.InverseName)))
	}
	if rec.IsAbstract {
		bag.add("IsAbstract", jen.True())
	}
	if rec.Symmetric {
		bag.add("Symmetric", jen.True())
	}
	return bag
}

func (e *nodeEmitter) dataTypeAttributes(rec models.NodeRecord) attributeBag {
	var bag attributeBag
	e.common(&bag, rec)
	bag.add("IsAbstract", jen.Lit(rec.IsAbstract))
	return bag
}

// DataType renders a data type reference: empty means String, a NodeId is
// decoded, builtin names become ua constants and aliases are resolved.
func (e *nodeEmitter) DataType(text string) (jen.Code, error) {
	if text == "" {
		return jen.Qual(uaPkg, "DataTypeIDString"), nil
	}
	if strings.Contains(text, "=") {
		id, err := ParseNodeID(text)
		if err != nil {
			return nil, err
		}
		return EncodeNodeID(id)
	}
	if b, ok := e.catalog.Builtin(text); ok {
		return jen.Qual(uaPkg, "DataTypeID"+goName(dataTypeName(b))), nil
	}
	if target, ok := e.aliases.Resolve(text); ok {
		id, err := ParseNodeID(target)
		if err != nil {
			return nil, err
		}
		return EncodeNodeID(id)
	}
	if n, ok := e.catalog.DataTypeID(text); ok {
		return jen.Qual(uaPkg, "NewNodeIDNumeric").Call(jen.Lit(0), jen.Lit(int(n))), nil
	}
	return jen.Qual(uaPkg, "DataTypeID"+goName(text)), nil
}

func dataTypeName(b models.BuiltinType) string {
	switch b.ID {
	case 22:
		return "Structure"
	case 24:
		return "BaseDataType"
	}
	return b.Name
}

func (e *nodeEmitter) addNodesItem(rec models.NodeRecord, class string) (jen.Code, error) {
	id, err := resolveNodeID(e.aliases, rec.NodeID)
	if err != nil {
		return nil, err
	}
	keys := []string{"RequestedNewNodeID", "BrowseName", "NodeClass"}
	values := []jen.Code{
		EncodeExpandedNodeID(id),
		EncodeQualifiedName(ParseQualifiedName(rec.BrowseName)),
		nodeClass(class),
	}
	if rec.HasParent() {
		parent, err := resolveNodeID(e.aliases, rec.Parent)
		if err != nil {
			return nil, err
		}
		keys = append(keys, "ParentNodeID")
		values = append(values, EncodeExpandedNodeID(parent))
		if rec.ParentLink != "" {
			link, err := resolveNodeID(e.aliases, rec.ParentLink)
			if err != nil {
				return nil, err
			}
			linkCode, err := EncodeNodeID(link)
			if err != nil {
				return nil, err
			}
			keys = append(keys, "ReferenceTypeID")
			values = append(values, linkCode)
		}
	}
	if rec.TypeDef != "" {
		typeDef, err := resolveNodeID(e.aliases, rec.TypeDef)
		if err != nil {
			return nil, err
		}
		keys = append(keys, "TypeDefinition")
		values = append(values, EncodeExpandedNodeID(typeDef))
	}
	keys = append(keys, "NodeAttributes")
	values = append(values, jen.Id("attrs"))
	return jen.Qual(addrspacePkg, "AddNodesItem").Custom(multiline, keyed(keys, values)...), nil
}
