package services

import (
	"encoding/base64"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/amine-amaach/simulators/uanodegen/services/models"
	"github.com/dave/jennifer/jen"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// valueEncoder renders schema values as Go literal expressions.
type valueEncoder struct {
	types *typeResolver
}

func NewValueEncoder(types *typeResolver) *valueEncoder {
	return &valueEncoder{types: types}
}

// Encode renders the Value attribute of a variable or variable type declared as tag.
func (e *valueEncoder) Encode(v models.Value, tag models.ValueType) (jen.Code, error) {
	switch tag {
	case "String":
		return jen.Lit(scalarText(v)), nil
	case "Bytes", "ByteString", "ByteArray":
		return byteString(scalarText(v)), nil
	case "ListOfExtensionObject":
		items := []jen.Code{}
		for _, item := range listItems(v) {
			code, err := e.extensionObject(item)
			if err != nil {
				return nil, err
			}
			items = append(items, code)
		}
		return jen.Index().Qual(uaPkg, "ExtensionObject").Custom(multiline, items...), nil
	case "ExtensionObject":
		return e.extensionObject(v)
	case "ListOfLocalizedText":
		items := []jen.Code{}
		for _, item := range listItems(v) {
			items = append(items, localizedText(item))
		}
		return jen.Index().Qual(uaPkg, "LocalizedText").Custom(multiline, items...), nil
	case "LocalizedText":
		return localizedText(v), nil
	}

	elem := tag.Element()
	enc, ok := e.types.Encoding(elem)
	if !ok {
		if _, isStruct := e.types.Structure(string(elem)); !isStruct {
			return e.raw(v)
		}
	}
	var raw jen.Code
	if tag.IsList() {
		items := []jen.Code{}
		for _, item := range listItems(v) {
			code, err := e.literal(item, elem)
			if err != nil {
				return nil, err
			}
			items = append(items, code)
		}
		raw = jen.Index().Add(e.goType(string(elem))).Values(items...)
	} else {
		code, err := e.literal(v, elem)
		if err != nil {
			return nil, err
		}
		raw = code
	}
	variantType := "ExtensionObject"
	if ok {
		variantType = variantTypeName(enc)
	}
	return jen.Qual(addrspacePkg, "NewVariant").Call(raw, jen.Qual(addrspacePkg, "VariantType"+goName(variantType))), nil
}

// literal renders a single value of type tag without a variant wrapper.
func (e *valueEncoder) literal(v models.Value, tag models.ValueType) (jen.Code, error) {
	if eo, ok := v.(*models.ExtensionObject); ok {
		return e.extensionObject(eo)
	}
	enc, ok := e.types.Encoding(tag)
	if !ok {
		if pairs, isPairs := v.(models.Pairs); isPairs {
			if _, known := e.types.Structure(string(tag)); known {
				return e.structure(string(tag), "", pairs)
			}
		}
		return e.raw(v)
	}

	text := strings.TrimSpace(scalarText(v))
	invalid := func(err error) error {
		return errors.Wrapf(ErrInvalidValue, "%q as %s: %v", text, tag, err)
	}
	switch enc.Name {
	case "Boolean":
		b, err := strconv.ParseBool(strings.ToLower(text))
		if err != nil {
			return nil, invalid(err)
		}
		return jen.Lit(b), nil
	case "SByte", "Int16", "Int32", "Int64":
		bits := map[string]int{"SByte": 8, "Int16": 16, "Int32": 32, "Int64": 64}[enc.Name]
		n, err := strconv.ParseInt(enumText(text), 10, bits)
		if err != nil {
			return nil, invalid(err)
		}
		switch bits {
		case 8:
			return jen.Lit(int8(n)), nil
		case 16:
			return jen.Lit(int16(n)), nil
		case 32:
			return jen.Lit(int32(n)), nil
		}
		return jen.Lit(n), nil
	case "Byte", "UInt16", "UInt32", "UInt64":
		bits := map[string]int{"Byte": 8, "UInt16": 16, "UInt32": 32, "UInt64": 64}[enc.Name]
		n, err := strconv.ParseUint(text, 10, bits)
		if err != nil {
			return nil, invalid(err)
		}
		switch bits {
		case 8:
			return jen.Lit(uint8(n)), nil
		case 16:
			return jen.Lit(uint16(n)), nil
		case 32:
			return jen.Lit(uint32(n)), nil
		}
		return jen.Lit(n), nil
	case "Float":
		f, err := strconv.ParseFloat(text, 32)
		if err != nil {
			return nil, invalid(err)
		}
		return floatLit(f, 32), nil
	case "Double":
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return nil, invalid(err)
		}
		return floatLit(f, 64), nil
	case "String":
		return jen.Lit(scalarText(v)), nil
	case "DateTime":
		t, err := time.Parse(time.RFC3339Nano, text)
		if err != nil {
			return nil, invalid(err)
		}
		t = t.UTC()
		return jen.Qual("time", "Date").Call(
			jen.Lit(t.Year()), jen.Qual("time", "Month").Call(jen.Lit(int(t.Month()))), jen.Lit(t.Day()),
			jen.Lit(t.Hour()), jen.Lit(t.Minute()), jen.Lit(t.Second()), jen.Lit(t.Nanosecond()),
			jen.Qual("time", "UTC"),
		), nil
	case "Guid":
		g, err := uuid.Parse(text)
		if err != nil {
			return nil, invalid(err)
		}
		return jen.Qual(uuidPkg, "MustParse").Call(jen.Lit(g.String())), nil
	case "ByteString":
		return byteString(text), nil
	case "XmlElement":
		return jen.Qual(uaPkg, "XMLElement").Call(jen.Lit(scalarText(v))), nil
	case "NodeId":
		id, err := ParseNodeID(text)
		if err != nil {
			return nil, err
		}
		return EncodeNodeID(id)
	case "ExpandedNodeId":
		id, err := ParseNodeID(text)
		if err != nil {
			return nil, err
		}
		return EncodeExpandedNodeID(id), nil
	case "StatusCode":
		n, err := strconv.ParseUint(text, 0, 32)
		if err != nil {
			return nil, invalid(err)
		}
		return jen.Qual(uaPkg, "StatusCode").Call(jen.Lit(int(n))), nil
	case "QualifiedName":
		if pairs, ok := v.(models.Pairs); ok {
			ns, err := strconv.ParseUint(strings.TrimSpace(pairs.Text("NamespaceIndex")), 10, 16)
			if err != nil && pairs.Text("NamespaceIndex") != "" {
				return nil, invalid(err)
			}
			return jen.Qual(uaPkg, "NewQualifiedName").Call(jen.Lit(int(ns)), jen.Lit(pairs.Text("Name"))), nil
		}
		return EncodeQualifiedName(ParseQualifiedName(text)), nil
	case "LocalizedText":
		return localizedText(v), nil
	case "Structure", "ExtensionObject":
		if pairs, ok := v.(models.Pairs); ok {
			if _, known := e.types.Structure(string(tag)); known {
				return e.structure(string(tag), "", pairs)
			}
		}
	}
	return e.raw(v)
}

// raw renders a value whose type is not known by its shape alone: text stays a
// string, lists become slices and nested elements become generic structures.
func (e *valueEncoder) raw(v models.Value) (jen.Code, error) {
	switch t := v.(type) {
	case models.List:
		items := make([]jen.Code, 0, len(t))
		texts := true
		for _, item := range t {
			code, err := e.raw(item)
			if err != nil {
				return nil, err
			}
			if _, ok := item.(models.Scalar); !ok {
				texts = false
			}
			items = append(items, code)
		}
		if texts {
			return jen.Index().String().Values(items...), nil
		}
		return jen.Index().Qual(uaPkg, "Variant").Values(items...), nil
	case models.Pairs:
		return e.rawStructure("", "", t)
	case *models.ExtensionObject:
		if _, known := e.types.Structure(t.TypeName); known {
			return e.extensionObject(t)
		}
		return e.rawStructure(t.TypeName, t.TypeID, t.Fields)
	case nil:
		return jen.Lit(""), nil
	}
	return jen.Lit(scalarText(v)), nil
}

func (e *valueEncoder) rawStructure(name, typeID string, fields models.Pairs) (jen.Code, error) {
	generic := make([]jen.Code, 0, len(fields))
	for _, p := range fields {
		code, err := e.raw(p.Value)
		if err != nil {
			return nil, err
		}
		generic = append(generic, jen.Values(jen.Dict{jen.Id("Name"): jen.Lit(p.Key), jen.Id("Value"): code}))
	}
	head := []string{}
	headValues := []jen.Code{}
	if name != "" {
		head = append(head, "TypeName")
		headValues = append(headValues, jen.Lit(name))
	}
	if typeID != "" {
		id, err := ParseNodeID(typeID)
		if err != nil {
			return nil, err
		}
		head = append(head, "TypeID")
		headValues = append(headValues, EncodeExpandedNodeID(id))
	}
	head = append(head, "Fields")
	headValues = append(headValues, jen.Index().Qual(addrspacePkg, "Field").Custom(multiline, generic...))
	return jen.Qual(addrspacePkg, "Structure").Custom(multiline, keyed(head, headValues)...), nil
}

// floatLit renders a float of the given bit size. Infinities and NaN have no Go
// literal form and go through package math.
func floatLit(f float64, bits int) jen.Code {
	var code *jen.Statement
	switch {
	case math.IsInf(f, 1):
		code = jen.Qual("math", "Inf").Call(jen.Lit(1))
	case math.IsInf(f, -1):
		code = jen.Qual("math", "Inf").Call(jen.Lit(-1))
	case math.IsNaN(f):
		code = jen.Qual("math", "NaN").Call()
	default:
		if bits == 32 {
			return jen.Lit(float32(f))
		}
		return jen.Lit(f)
	}
	if bits == 32 {
		return jen.Float32().Call(code)
	}
	return code
}

func (e *valueEncoder) extensionObject(v models.Value) (jen.Code, error) {
	eo, ok := v.(*models.ExtensionObject)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidValue, "%T is not an extension object", v)
	}
	return e.structure(eo.TypeName, eo.TypeID, eo.Fields)
}

// structure renders a structured value field by field, recursing into nested
// structures through their declared field types.
func (e *valueEncoder) structure(name, typeID string, fields models.Pairs) (jen.Code, error) {
	def, ok := e.types.Structure(name)
	if !ok {
		return nil, errors.Wrapf(ErrUnknownAttribute, "structure %q is not in the type catalog", name)
	}
	keys := make([]string, 0, len(fields))
	names := make([]string, 0, len(fields))
	values := make([]jen.Code, 0, len(fields))
	for _, p := range fields {
		tag, err := e.types.ResolveFieldType(name, p.Key)
		if err != nil {
			return nil, err
		}
		f, _ := e.types.Field(name, p.Key)
		code, err := e.field(f, tag, p.Value)
		if err != nil {
			return nil, errors.WithMessagef(err, "%s.%s", name, p.Key)
		}
		keys = append(keys, fieldGoName(f))
		names = append(names, f.Name)
		values = append(values, code)
	}
	if def.GoType != "" {
		return goTypeCode(def.GoType).Custom(multiline, keyed(keys, values)...), nil
	}

	generic := []jen.Code{}
	for i, n := range names {
		generic = append(generic, jen.Values(jen.Dict{jen.Id("Name"): jen.Lit(n), jen.Id("Value"): values[i]}))
	}
	head := []string{"TypeName"}
	headValues := []jen.Code{jen.Lit(name)}
	if typeID != "" {
		id, err := ParseNodeID(typeID)
		if err != nil {
			return nil, err
		}
		head = append(head, "TypeID")
		headValues = append(headValues, EncodeExpandedNodeID(id))
	}
	head = append(head, "Fields")
	headValues = append(headValues, jen.Index().Qual(addrspacePkg, "Field").Custom(multiline, generic...))
	return jen.Qual(addrspacePkg, "Structure").Custom(multiline, keyed(head, headValues)...), nil
}

// field renders one structure field. Array fields accept a list, a sub-structure
// of element entries or a single scalar. NodeId fields accept a single-entry
// sub-structure holding the identifier.
func (e *valueEncoder) field(f models.FieldDef, tag models.ValueType, v models.Value) (jen.Code, error) {
	if tag.IsList() {
		elem := tag.Element()
		items := []jen.Code{}
		for _, item := range listItems(v) {
			code, err := e.literal(item, elem)
			if err != nil {
				return nil, err
			}
			items = append(items, code)
		}
		return jen.Index().Add(e.goType(string(elem))).Values(items...), nil
	}
	code, err := e.literal(v, tag)
	if err != nil {
		return nil, err
	}
	if f.Cast != "" {
		return goTypeCode(f.Cast).Call(code), nil
	}
	return code, nil
}

// goType returns the Go type of values of the named type.
func (e *valueEncoder) goType(name string) jen.Code {
	if enc, ok := e.types.Encoding(models.ValueType(name)); ok {
		return goTypeCode(enc.GoType)
	}
	if def, ok := e.types.Structure(name); ok {
		if def.GoType != "" {
			return goTypeCode(def.GoType)
		}
		return jen.Qual(addrspacePkg, "Structure")
	}
	return jen.Qual(uaPkg, "Variant")
}

func goTypeCode(goType string) *jen.Statement {
	pkg, name, ok := strings.Cut(goType, ".")
	if !ok {
		return jen.Id(goType)
	}
	switch pkg {
	case "ua":
		return jen.Qual(uaPkg, name)
	case "uuid":
		return jen.Qual(uuidPkg, name)
	case "addrspace":
		return jen.Qual(addrspacePkg, name)
	case "time":
		return jen.Qual("time", name)
	}
	return jen.Id(goType)
}

func variantTypeName(b models.BuiltinType) string {
	switch b.ID {
	case 22:
		return "ExtensionObject"
	case 24:
		return "Variant"
	}
	return b.Name
}

func localizedText(v models.Value) jen.Code {
	if pairs, ok := v.(models.Pairs); ok {
		return jen.Qual(uaPkg, "NewLocalizedText").Call(jen.Lit(pairs.Text("Text")), jen.Lit(pairs.Text("Locale")))
	}
	return jen.Qual(uaPkg, "NewLocalizedText").Call(jen.Lit(scalarText(v)), jen.Lit(""))
}

// byteString decodes base64 text. Text that is not base64 is kept verbatim.
func byteString(text string) jen.Code {
	raw := text
	if b, err := base64.StdEncoding.DecodeString(strings.TrimSpace(text)); err == nil {
		raw = string(b)
	}
	return jen.Qual(uaPkg, "ByteString").Call(jen.Lit(raw))
}

// scalarText unwraps single-entry containers down to their text.
func scalarText(v models.Value) string {
	switch t := v.(type) {
	case models.Scalar:
		return string(t)
	case models.Pairs:
		if len(t) > 0 {
			return scalarText(t[0].Value)
		}
	case models.List:
		if len(t) == 1 {
			return scalarText(t[0])
		}
	}
	return ""
}

func listItems(v models.Value) []models.Value {
	switch t := v.(type) {
	case models.List:
		return t
	case models.Pairs:
		items := make([]models.Value, 0, len(t))
		for _, p := range t {
			items = append(items, p.Value)
		}
		return items
	case models.Scalar:
		if strings.TrimSpace(string(t)) == "" {
			return nil
		}
		return []models.Value{t}
	case nil:
		return nil
	}
	return []models.Value{v}
}

// enumText accepts the "Name_7" form enumeration values are sometimes written in.
func enumText(text string) string {
	if _, err := strconv.ParseInt(text, 10, 64); err == nil {
		return text
	}
	if i := strings.LastIndex(text, "_"); i >= 0 {
		return text[i+1:]
	}
	return text
}

func fieldGoName(f models.FieldDef) string {
	if f.GoName != "" {
		return f.GoName
	}
	return goName(f.Name)
}

var initialisms = map[string]string{"Id": "ID", "Uri": "URI", "Url": "URL", "Guid": "GUID", "Xml": "XML"}

// goName applies Go initialisms to an OPC UA name, e.g. NamespaceUri -> NamespaceURI.
func goName(name string) string {
	var b strings.Builder
	start := 0
	flush := func(end int) {
		word := name[start:end]
		if r, ok := initialisms[word]; ok {
			word = r
		}
		b.WriteString(word)
		start = end
	}
	for i := 1; i < len(name); i++ {
		if name[i] >= 'A' && name[i] <= 'Z' {
			flush(i)
		}
	}
	flush(len(name))
	return b.String()
}
