package services

import (
	"testing"

	"github.com/amine-amaach/simulators/uanodegen/services/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseNodeID(t *testing.T) {
	t.Run("numeric without namespace defaults to zero", func(t *testing.T) {
		id, err := ParseNodeID("i=85")
		require.NoError(t, err)
		assert.Equal(t, models.IDNumeric, id.Kind)
		assert.Equal(t, uint16(0), id.Namespace)
		assert.Equal(t, uint32(85), id.Numeric)
	})

	t.Run("string identifier keeps its text verbatim", func(t *testing.T) {
		id, err := ParseNodeID("ns=2;s= Demo.Temp ")
		require.NoError(t, err)
		assert.Equal(t, models.IDString, id.Kind)
		assert.Equal(t, uint16(2), id.Namespace)
		assert.Equal(t, " Demo.Temp ", id.String)
	})

	t.Run("guid and opaque identifiers", func(t *testing.T) {
		id, err := ParseNodeID("ns=3;g=09087e75-8e5e-499b-954f-f2a9603db28a")
		require.NoError(t, err)
		assert.Equal(t, models.IDGUID, id.Kind)
		assert.Equal(t, uuid.MustParse("09087e75-8e5e-499b-954f-f2a9603db28a"), id.GUID)

		id, err = ParseNodeID("b=AQID")
		require.NoError(t, err)
		assert.Equal(t, models.IDOpaque, id.Kind)
		assert.Equal(t, []byte{1, 2, 3}, id.Opaque)
	})

	t.Run("namespace uri and server index are kept", func(t *testing.T) {
		id, err := ParseNodeID("svr=1;nsu=urn:demo;i=1001")
		require.NoError(t, err)
		assert.True(t, id.IsExpanded())
		assert.Equal(t, "urn:demo", id.NamespaceURI)
		require.NotNil(t, id.ServerIndex)
		assert.Equal(t, uint32(1), *id.ServerIndex)

		id, err = ParseNodeID("srv=4;i=1")
		require.NoError(t, err)
		assert.Equal(t, uint32(4), *id.ServerIndex)
	})

	t.Run("malformed identifiers are rejected", func(t *testing.T) {
		for _, text := range []string{"", "ns=2", "ns=2;i=1;s=x", "ns=x;i=1", "i=abc", "q=1", "ns=2;Demo", "g=not-a-guid", "b=!!"} {
			_, err := ParseNodeID(text)
			assert.ErrorIs(t, err, ErrMalformedIdentifier, text)
		}
	})

	t.Run("format round trips", func(t *testing.T) {
		for _, text := range []string{"i=85", "ns=2;s=Demo.Temp", "ns=3;g=09087e75-8e5e-499b-954f-f2a9603db28a", "ns=1;b=AQID", "nsu=urn:demo;i=7", "svr=2;ns=1;i=9"} {
			id, err := ParseNodeID(text)
			require.NoError(t, err)
			assert.Equal(t, text, FormatNodeID(id))
		}
	})
}

func TestEncodeNodeID(t *testing.T) {
	t.Run("numeric and string constructors", func(t *testing.T) {
		id, _ := ParseNodeID("i=85")
		code, err := EncodeNodeID(id)
		require.NoError(t, err)
		assert.Contains(t, render(t, code), "ua.NewNodeIDNumeric(0, 85)")

		id, _ = ParseNodeID("ns=2;s=Demo.Temp")
		code, err = EncodeNodeID(id)
		require.NoError(t, err)
		assert.Contains(t, render(t, code), `ua.NewNodeIDString(2, "Demo.Temp")`)
	})

	t.Run("guid uses uuid", func(t *testing.T) {
		id, _ := ParseNodeID("ns=3;g=09087e75-8e5e-499b-954f-f2a9603db28a")
		code, err := EncodeNodeID(id)
		require.NoError(t, err)
		assert.Contains(t, render(t, code), `ua.NewNodeIDGUID(3, uuid.MustParse("09087e75-8e5e-499b-954f-f2a9603db28a"))`)
	})

	t.Run("expanded identifier is refused where a local one fits", func(t *testing.T) {
		id, _ := ParseNodeID("nsu=urn:demo;i=1")
		_, err := EncodeNodeID(id)
		assert.ErrorIs(t, err, ErrExpandedIdentifier)
	})

	t.Run("expanded form keeps namespace uri", func(t *testing.T) {
		id, _ := ParseNodeID("i=85")
		assert.Contains(t, render(t, EncodeExpandedNodeID(id)), "ua.NewExpandedNodeID(ua.NewNodeIDNumeric(0, 85))")

		id, _ = ParseNodeID("nsu=urn:demo;i=1001")
		out := render(t, EncodeExpandedNodeID(id))
		assert.Contains(t, out, "ua.ExpandedNodeID{")
		assert.Contains(t, out, `NamespaceURI: "urn:demo"`)
		assert.Regexp(t, `NodeID:\s+ua\.NewNodeIDNumeric\(0, 1001\)`, out)
	})
}

func TestQualifiedName(t *testing.T) {
	cases := []struct {
		text string
		ns   uint16
		name string
	}{
		{"2:Temp", 2, "Temp"},
		{"EngineeringUnits", 0, "EngineeringUnits"},
		{"0:Server", 0, "Server"},
		{"1:a:b", 1, "a:b"},
		{"x:y", 0, "x:y"},
	}
	for _, c := range cases {
		qn := ParseQualifiedName(c.text)
		assert.Equal(t, c.ns, qn.NamespaceIndex, c.text)
		assert.Equal(t, c.name, qn.Name, c.text)
	}
	assert.Contains(t, render(t, EncodeQualifiedName(ParseQualifiedName("2:Temp"))), `ua.NewQualifiedName(2, "Temp")`)
}
