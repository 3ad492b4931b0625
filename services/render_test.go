package services

import (
	"bytes"
	"testing"

	"github.com/amine-amaach/simulators/uanodegen/services/models"
	"github.com/dave/jennifer/jen"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// render formats an expression inside a throwaway file and returns the source.
func render(t *testing.T, code jen.Code) string {
	t.Helper()
	f := jen.NewFile("generated")
	f.ImportName(uaPkg, "ua")
	f.ImportName(uuidPkg, "uuid")
	f.ImportName(addrspacePkg, "addrspace")
	f.Var().Id("_").Op("=").Add(code)
	var buf bytes.Buffer
	require.NoError(t, f.Render(&buf))
	return buf.String()
}

// renderBody formats statements inside a function body.
func renderBody(t *testing.T, stmts ...jen.Code) string {
	t.Helper()
	f := jen.NewFile("generated")
	f.ImportName(uaPkg, "ua")
	f.ImportName(addrspacePkg, "addrspace")
	f.Func().Id("body").Params(jen.Id("server").Qual(addrspacePkg, "NodeManager")).Error().Block(
		append(stmts, jen.Return(jen.Nil()))...,
	)
	var buf bytes.Buffer
	require.NoError(t, f.Render(&buf))
	return buf.String()
}

func testCatalog(t *testing.T) *catalogService {
	t.Helper()
	c, err := NewCatalogService(zap.NewNop().Sugar())
	require.NoError(t, err)
	return c
}

func demoAliases() models.AliasTable {
	return models.AliasTable{
		"Double":            "i=11",
		"String":            "i=12",
		"Organizes":         "i=35",
		"HasTypeDefinition": "i=40",
		"HasProperty":       "i=46",
		"HasComponent":      "i=47",
		"R1":                "i=35",
		"R2":                "i=46",
		"R3":                "i=47",
	}
}
