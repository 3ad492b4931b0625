package services

import (
	"strings"
	"testing"

	"github.com/amine-amaach/simulators/uanodegen/services/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEncoder(t *testing.T) *valueEncoder {
	t.Helper()
	return NewValueEncoder(NewTypeResolver(testCatalog(t)))
}

func TestValueEncoderScalars(t *testing.T) {
	enc := newTestEncoder(t)

	cases := []struct {
		name  string
		value models.Value
		tag   models.ValueType
		want  string
	}{
		{"double becomes a typed variant", models.Scalar("21.5"), "Double", "addrspace.NewVariant(21.5, addrspace.VariantTypeDouble)"},
		{"int32 literal is typed", models.Scalar(" 42 "), "Int32", "addrspace.NewVariant(int32(42), addrspace.VariantTypeInt32)"},
		{"boolean", models.Scalar("true"), "Boolean", "addrspace.NewVariant(true, addrspace.VariantTypeBoolean)"},
		{"string stays a plain literal", models.Scalar("hello"), "String", `"hello"`},
		{"byte string is base64 decoded", models.Scalar("AQID"), "ByteString", `ua.ByteString("\x01\x02\x03")`},
		{"localized text", models.Pairs{{Key: "Locale", Value: models.Scalar("en")}, {Key: "Text", Value: models.Scalar("Hi")}}, "LocalizedText", `ua.NewLocalizedText("Hi", "en")`},
		{"unknown tag keeps the raw text", models.Scalar("opaque"), "Mystery", `"opaque"`},
		{"enumeration value in name form", models.Scalar("Running_0"), "ServerState", "addrspace.NewVariant(int32(0), addrspace.VariantTypeInt32)"},
		{"status code", models.Scalar("0x80000000"), "StatusCode", "ua.StatusCode(2147483648)"},
		{"positive infinity", models.Scalar("INF"), "Double", "addrspace.NewVariant(math.Inf(1), addrspace.VariantTypeDouble)"},
		{"negative infinity", models.Scalar("-INF"), "Double", "addrspace.NewVariant(math.Inf(-1), addrspace.VariantTypeDouble)"},
		{"not a number", models.Scalar("NaN"), "Double", "addrspace.NewVariant(math.NaN(), addrspace.VariantTypeDouble)"},
		{"float infinity is converted", models.Scalar("INF"), "Float", "addrspace.NewVariant(float32(math.Inf(1)), addrspace.VariantTypeFloat)"},
		{"float negative infinity is converted", models.Scalar("-INF"), "Float", "float32(math.Inf(-1))"},
		{"float not a number is converted", models.Scalar("NaN"), "Float", "float32(math.NaN())"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			code, err := enc.Encode(c.value, c.tag)
			require.NoError(t, err)
			assert.Contains(t, render(t, code), c.want)
		})
	}
}

func TestValueEncoderLists(t *testing.T) {
	enc := newTestEncoder(t)

	t.Run("list prefix is stripped for the element type", func(t *testing.T) {
		code, err := enc.Encode(models.List{models.Scalar("1"), models.Scalar("2")}, "ListOfInt32")
		require.NoError(t, err)
		assert.Contains(t, render(t, code), "addrspace.NewVariant([]int32{int32(1), int32(2)}, addrspace.VariantTypeInt32)")
	})

	t.Run("list of strings", func(t *testing.T) {
		code, err := enc.Encode(models.List{models.Scalar("alpha"), models.Scalar("beta")}, "ListOfString")
		require.NoError(t, err)
		assert.Contains(t, render(t, code), `addrspace.NewVariant([]string{"alpha", "beta"}, addrspace.VariantTypeString)`)
	})

	t.Run("list of extension objects keeps order", func(t *testing.T) {
		value := models.List{
			&models.ExtensionObject{TypeName: "Range", Fields: models.Pairs{{Key: "Low", Value: models.Scalar("1.5")}, {Key: "High", Value: models.Scalar("9.5")}}},
			&models.ExtensionObject{TypeName: "Range", Fields: models.Pairs{{Key: "Low", Value: models.Scalar("2.5")}, {Key: "High", Value: models.Scalar("8.5")}}},
		}
		code, err := enc.Encode(value, "ListOfExtensionObject")
		require.NoError(t, err)
		out := render(t, code)
		assert.Contains(t, out, "[]ua.ExtensionObject{")
		assert.Equal(t, 2, strings.Count(out, "ua.Range{"))
		assert.Less(t, strings.Index(out, "1.5"), strings.Index(out, "2.5"))
	})

	t.Run("list of localized text", func(t *testing.T) {
		code, err := enc.Encode(models.List{models.Scalar("a"), models.Scalar("b")}, "ListOfLocalizedText")
		require.NoError(t, err)
		out := render(t, code)
		assert.Contains(t, out, "[]ua.LocalizedText{")
		assert.Contains(t, out, `ua.NewLocalizedText("b", "")`)
	})
}

func TestValueEncoderUnknownTags(t *testing.T) {
	enc := newTestEncoder(t)

	t.Run("every list item is kept", func(t *testing.T) {
		code, err := enc.Encode(models.List{models.Scalar("a"), models.Scalar("b"), models.Scalar("c")}, "ListOfVendorThing")
		require.NoError(t, err)
		assert.Contains(t, render(t, code), `[]string{"a", "b", "c"}`)
	})

	t.Run("nested elements become generic structures", func(t *testing.T) {
		value := models.Pairs{
			{Key: "Code", Value: models.Scalar("7")},
			{Key: "Tags", Value: models.List{models.Scalar("x"), models.Pairs{{Key: "Inner", Value: models.Scalar("y")}}}},
		}
		code, err := enc.Encode(value, "VendorThing")
		require.NoError(t, err)
		out := render(t, code)
		assert.Contains(t, out, "addrspace.Structure{")
		assert.Contains(t, out, `"Code"`)
		assert.Contains(t, out, `"7"`)
		assert.Contains(t, out, "[]ua.Variant{")
		assert.Contains(t, out, `"Inner"`)
		assert.Contains(t, out, `"y"`)
	})

	t.Run("unknown extension object keeps its type and fields", func(t *testing.T) {
		code, err := enc.Encode(&models.ExtensionObject{
			TypeName: "VendorRecord",
			TypeID:   "ns=3;i=77",
			Fields:   models.Pairs{{Key: "Serial", Value: models.Scalar("A-1")}},
		}, "VendorThing")
		require.NoError(t, err)
		out := render(t, code)
		assert.Contains(t, out, `"VendorRecord"`)
		assert.Contains(t, out, "ua.NewExpandedNodeID(ua.NewNodeIDNumeric(3, 77))")
		assert.Contains(t, out, `"A-1"`)
	})

	t.Run("variant fields keep nested content", func(t *testing.T) {
		catalog := testCatalog(t)
		catalog.Extend([]models.StructureDef{{
			Name:   "Envelope",
			Fields: []models.FieldDef{{Name: "Payload", Type: "BaseDataType"}},
		}}, nil)
		enc := NewValueEncoder(NewTypeResolver(catalog))
		code, err := enc.Encode(&models.ExtensionObject{
			TypeName: "Envelope",
			Fields:   models.Pairs{{Key: "Payload", Value: models.List{models.Scalar("1"), models.Scalar("2")}}},
		}, "ExtensionObject")
		require.NoError(t, err)
		assert.Contains(t, render(t, code), `[]string{"1", "2"}`)
	})
}

func TestValueEncoderExtensionObjects(t *testing.T) {
	t.Run("argument fields are emitted in document order", func(t *testing.T) {
		enc := newTestEncoder(t)
		arg := &models.ExtensionObject{
			TypeName: "Argument",
			TypeID:   "i=297",
			Fields: models.Pairs{
				{Key: "Name", Value: models.Scalar("Speed")},
				{Key: "DataType", Value: models.Pairs{{Key: "Identifier", Value: models.Scalar("i=11")}}},
				{Key: "ValueRank", Value: models.Scalar("-1")},
				{Key: "ArrayDimensions", Value: models.Scalar("")},
				{Key: "Description", Value: models.Pairs{{Key: "Text", Value: models.Scalar("speed setpoint")}}},
			},
		}
		code, err := enc.Encode(arg, "ExtensionObject")
		require.NoError(t, err)
		out := render(t, code)
		assert.Contains(t, out, "ua.Argument{")
		assert.Contains(t, out, `"Speed"`)
		assert.Contains(t, out, "ua.NewNodeIDNumeric(0, 11)")
		assert.Contains(t, out, "int32(-1)")
		assert.Contains(t, out, "[]uint32{}")
		assert.Contains(t, out, `ua.NewLocalizedText("speed setpoint", "")`)
		assert.Less(t, strings.Index(out, "Name:"), strings.Index(out, "DataType:"))
		assert.Less(t, strings.Index(out, "ValueRank:"), strings.Index(out, "Description:"))
	})

	t.Run("nested structures and enum casts", func(t *testing.T) {
		enc := newTestEncoder(t)
		axis := &models.ExtensionObject{
			TypeName: "AxisInformation",
			Fields: models.Pairs{
				{Key: "EURange", Value: models.Pairs{{Key: "Low", Value: models.Scalar("0.5")}, {Key: "High", Value: models.Scalar("100.5")}}},
				{Key: "AxisScaleType", Value: models.Scalar("Log_1")},
				{Key: "AxisSteps", Value: models.List{models.Scalar("1.5"), models.Scalar("2.5")}},
			},
		}
		code, err := enc.Encode(axis, "ExtensionObject")
		require.NoError(t, err)
		out := render(t, code)
		assert.Contains(t, out, "ua.AxisInformation{")
		assert.Contains(t, out, "ua.Range{")
		assert.Contains(t, out, "ua.AxisScaleEnumeration(int32(1))")
		assert.Contains(t, out, "[]float64{1.5, 2.5}")
	})

	t.Run("document structures use the generic form", func(t *testing.T) {
		catalog := testCatalog(t)
		catalog.Extend([]models.StructureDef{{
			Name:   "Point",
			ID:     "ns=2;i=3001",
			Fields: []models.FieldDef{{Name: "X", Type: "Double"}, {Name: "Y", Type: "Double"}},
		}}, nil)
		enc := NewValueEncoder(NewTypeResolver(catalog))
		code, err := enc.Encode(&models.ExtensionObject{
			TypeName: "Point",
			TypeID:   "ns=2;i=3002",
			Fields:   models.Pairs{{Key: "X", Value: models.Scalar("1.5")}, {Key: "Y", Value: models.Scalar("2.5")}},
		}, "ExtensionObject")
		require.NoError(t, err)
		out := render(t, code)
		assert.Contains(t, out, "addrspace.Structure{")
		assert.Contains(t, out, `"Point"`)
		assert.Contains(t, out, "ua.NewExpandedNodeID(ua.NewNodeIDNumeric(2, 3002))")
		assert.Contains(t, out, "[]addrspace.Field{")
		assert.Less(t, strings.Index(out, `"X"`), strings.Index(out, `"Y"`))
	})

	t.Run("unknown field is reported", func(t *testing.T) {
		enc := newTestEncoder(t)
		_, err := enc.Encode(&models.ExtensionObject{
			TypeName: "Range",
			Fields:   models.Pairs{{Key: "Middle", Value: models.Scalar("1")}},
		}, "ExtensionObject")
		assert.ErrorIs(t, err, ErrUnknownAttribute)
	})

	t.Run("unknown structure is reported", func(t *testing.T) {
		enc := newTestEncoder(t)
		_, err := enc.Encode(&models.ExtensionObject{TypeName: "Nope"}, "ExtensionObject")
		assert.ErrorIs(t, err, ErrUnknownAttribute)
	})
}

func TestValueEncoderInvalidValues(t *testing.T) {
	enc := newTestEncoder(t)
	for tag, text := range map[models.ValueType]string{
		"Int32":    "abc",
		"Byte":     "300",
		"Boolean":  "maybe",
		"Double":   "1.2.3",
		"DateTime": "yesterday",
		"Guid":     "xyz",
	} {
		_, err := enc.Encode(models.Scalar(text), tag)
		assert.ErrorIs(t, err, ErrInvalidValue, string(tag))
	}
}

func TestGoName(t *testing.T) {
	assert.Equal(t, "NamespaceURI", goName("NamespaceUri"))
	assert.Equal(t, "UnitID", goName("UnitId"))
	assert.Equal(t, "ProductURI", goName("ProductUri"))
	assert.Equal(t, "DataType", goName("DataType"))
	assert.Equal(t, "EURange", goName("EURange"))
}
