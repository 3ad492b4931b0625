package services

import (
	"bytes"
	"strings"
	"testing"

	"github.com/amine-amaach/simulators/uanodegen/services/models"
	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestNodeEmitter(t *testing.T) *nodeEmitter {
	t.Helper()
	catalog := testCatalog(t)
	aliases := demoAliases()
	return NewNodeEmitter(aliases, catalog, NewValueEncoder(NewTypeResolver(catalog)), NewReferenceEmitter(aliases))
}

func emit(t *testing.T, e *nodeEmitter, rec models.NodeRecord) string {
	t.Helper()
	f := jen.NewFile("generated")
	f.ImportName(uaPkg, "ua")
	f.ImportName(addrspacePkg, "addrspace")
	f.Func().Id("body").Params(jen.Id("server").Qual(addrspacePkg, "NodeManager")).Error().BlockFunc(func(g *jen.Group) {
		require.NoError(t, e.Emit(g, rec))
		g.Return(jen.Nil())
	})
	var buf bytes.Buffer
	require.NoError(t, f.Render(&buf))
	return buf.String()
}

func TestNodeEmitterAttributes(t *testing.T) {
	e := newTestNodeEmitter(t)

	t.Run("variable without optional attributes", func(t *testing.T) {
		bag, err := e.Attributes(models.NodeRecord{NodeType: models.NodeTypeVariable, NodeID: "ns=2;s=V", DisplayName: "V", DataType: "Double"})
		require.NoError(t, err)
		assert.Equal(t, []string{"DisplayName", "DataType"}, bag.names())
	})

	t.Run("variable with every optional attribute", func(t *testing.T) {
		rank := int32(1)
		level := uint8(3)
		interval := 250.0
		bag, err := e.Attributes(models.NodeRecord{
			NodeType:                models.NodeTypeVariable,
			NodeID:                  "ns=2;s=V",
			DisplayName:             "V",
			Description:             "a variable",
			DataType:                "Double",
			Value:                   models.List{models.Scalar("1")},
			ValueType:               "ListOfDouble",
			ValueRank:               &rank,
			ArrayDimensions:         []uint32{0},
			AccessLevel:             &level,
			UserAccessLevel:         &level,
			MinimumSamplingInterval: &interval,
		})
		require.NoError(t, err)
		assert.Equal(t, []string{
			"Description", "DisplayName", "Value", "DataType", "ValueRank", "ArrayDimensions",
			"AccessLevel", "UserAccessLevel", "MinimumSamplingInterval",
		}, bag.names())
	})

	t.Run("object and type attributes", func(t *testing.T) {
		bag, err := e.Attributes(models.NodeRecord{NodeType: models.NodeTypeObject, DisplayName: "O"})
		require.NoError(t, err)
		assert.Equal(t, []string{"DisplayName", "EventNotifier"}, bag.names())

		bag, err = e.Attributes(models.NodeRecord{NodeType: models.NodeTypeObjectType, DisplayName: "OT"})
		require.NoError(t, err)
		assert.Equal(t, []string{"DisplayName", "IsAbstract"}, bag.names())

		bag, err = e.Attributes(models.NodeRecord{NodeType: models.NodeTypeDataType, DisplayName: "DT", IsAbstract: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"DisplayName", "IsAbstract"}, bag.names())

		bag, err = e.Attributes(models.NodeRecord{NodeType: models.NodeTypeMethod, DisplayName: "M"})
		require.NoError(t, err)
		assert.Equal(t, []string{"DisplayName"}, bag.names())
	})

	t.Run("reference type flags only when set", func(t *testing.T) {
		bag, err := e.Attributes(models.NodeRecord{NodeType: models.NodeTypeReferenceType, DisplayName: "R"})
		require.NoError(t, err)
		assert.Equal(t, []string{"DisplayName"}, bag.names())

		bag, err = e.Attributes(models.NodeRecord{NodeType: models.NodeTypeReferenceType, DisplayName: "R", InverseName: "InvR", IsAbstract: true, Symmetric: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"DisplayName", "InverseName", "IsAbstract", "Symmetric"}, bag.names())
	})

	t.Run("variable type marks abstract only when set", func(t *testing.T) {
		bag, err := e.Attributes(models.NodeRecord{NodeType: models.NodeTypeVariableType, DisplayName: "VT", DataType: "Double"})
		require.NoError(t, err)
		assert.Equal(t, []string{"DisplayName", "DataType"}, bag.names())

		bag, err = e.Attributes(models.NodeRecord{NodeType: models.NodeTypeVariableType, DisplayName: "VT", DataType: "Double", IsAbstract: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"DisplayName", "DataType", "IsAbstract"}, bag.names())
	})

	t.Run("view is unsupported", func(t *testing.T) {
		_, err := e.Attributes(models.NodeRecord{NodeType: models.NodeTypeView, NodeID: "ns=2;i=5000"})
		assert.ErrorIs(t, err, ErrUnsupportedNodeType)
	})

	t.Run("invalid value aborts the node", func(t *testing.T) {
		_, err := e.Attributes(models.NodeRecord{NodeType: models.NodeTypeVariable, DataType: "Int32", Value: models.Scalar("abc"), ValueType: "Int32"})
		assert.ErrorIs(t, err, ErrInvalidValue)
	})
}

func TestNodeEmitterDataType(t *testing.T) {
	e := newTestNodeEmitter(t)
	cases := map[string]string{
		"":             "ua.DataTypeIDString",
		"Double":       "ua.DataTypeIDDouble",
		"BaseDataType": "ua.DataTypeIDBaseDataType",
		"Structure":    "ua.DataTypeIDStructure",
		"i=887":        "ua.NewNodeIDNumeric(0, 887)",
		"ns=2;i=3001":  "ua.NewNodeIDNumeric(2, 3001)",
		"Duration":     "ua.NewNodeIDNumeric(0, 290)",
		"UtcTime":      "ua.NewNodeIDNumeric(0, 294)",
	}
	for text, want := range cases {
		code, err := e.DataType(text)
		require.NoError(t, err, text)
		assert.Contains(t, render(t, code), want, text)
	}

	_, err := e.DataType("nsu=urn:demo;i=1")
	assert.ErrorIs(t, err, ErrExpandedIdentifier)
}

func TestNodeEmitterEmit(t *testing.T) {
	e := newTestNodeEmitter(t)
	level := uint8(3)
	out := emit(t, e, models.NodeRecord{
		NodeType:    models.NodeTypeVariable,
		NodeID:      "ns=2;s=Demo.Temp",
		BrowseName:  "2:Temp",
		DisplayName: "Temp",
		Parent:      "ns=2;s=Demo",
		ParentLink:  "HasComponent",
		TypeDef:     "i=63",
		DataType:    "Double",
		Value:       models.Scalar("21.5"),
		ValueType:   "Double",
		AccessLevel: &level,
		References: []models.ReferenceRecord{
			{IsForward: true, ReferenceType: "HasProperty", Target: "ns=2;s=Demo.Temp.EngineeringUnits", TargetClass: "Variable"},
		},
	})

	assert.Contains(t, out, "// 2:Temp ns=2;s=Demo.Temp")
	assert.Contains(t, out, "addrspace.VariableAttributes{")
	assert.Contains(t, out, "addrspace.NewVariant(21.5, addrspace.VariantTypeDouble)")
	assert.Contains(t, out, "ua.DataTypeIDDouble")
	assert.Contains(t, out, "addrspace.Byte(3)")
	assert.Contains(t, out, `ua.NewExpandedNodeID(ua.NewNodeIDString(2, "Demo.Temp"))`)
	assert.Contains(t, out, `ua.NewQualifiedName(2, "Temp")`)
	assert.Contains(t, out, "addrspace.NodeClassVariable")
	assert.Contains(t, out, "ua.NewNodeIDNumeric(0, 47)")
	assert.Contains(t, out, "ua.NewExpandedNodeID(ua.NewNodeIDNumeric(0, 63))")
	assert.Contains(t, out, "server.AddNodes(node)")
	assert.Contains(t, out, "server.AddReferences(refs...)")
	assert.Less(t, strings.Index(out, "server.AddNodes(node)"), strings.Index(out, "server.AddReferences(refs...)"))
}

func TestNodeEmitterUnresolvedParent(t *testing.T) {
	e := newTestNodeEmitter(t)
	err := e.Emit(&jen.Group{}, models.NodeRecord{
		NodeType:    models.NodeTypeObject,
		NodeID:      "ns=2;s=Orphan",
		BrowseName:  "2:Orphan",
		DisplayName: "Orphan",
		Parent:      "ns=2;s=Demo",
		ParentLink:  "NoSuchLink",
	})
	assert.ErrorIs(t, err, ErrUnresolvedAlias)
}
