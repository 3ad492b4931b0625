package services

import (
	"encoding/xml"
	"strconv"
	"strings"
	"time"

	"github.com/amine-amaach/simulators/uanodegen/services/models"
	"github.com/amine-amaach/simulators/uanodegen/utils"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// xmlElement is a generic XML element tree node.
type xmlElement struct {
	XMLName  xml.Name
	Attrs    []xml.Attr   `xml:",any,attr"`
	Content  string       `xml:",chardata"`
	Children []xmlElement `xml:",any"`
}

func (e *xmlElement) attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

func (e *xmlElement) child(name string) *xmlElement {
	for i := range e.Children {
		if e.Children[i].XMLName.Local == name {
			return &e.Children[i]
		}
	}
	return nil
}

func (e *xmlElement) childText(name string) string {
	if c := e.child(name); c != nil {
		return c.Content
	}
	return ""
}

// nodesetService reads NodeSet2 XML documents. It implements the SchemaPort interface.
type nodesetService struct {
	logger     *zap.SugaredLogger
	header     models.Header
	aliases    models.AliasTable
	records    []models.NodeRecord
	structures []models.StructureDef
}

func NewNodeSetService(logger *zap.SugaredLogger) *nodesetService {
	return &nodesetService{logger: logger, aliases: models.AliasTable{}}
}

// Load reads and decodes the NodeSet file at path.
func (svc *nodesetService) Load(fs afero.Fs, path string) error {
	buf, err := afero.ReadFile(fs, path)
	if err != nil {
		return errors.Wrapf(err, "reading %s", path)
	}
	if err := svc.Decode(buf); err != nil {
		return errors.WithMessage(err, path)
	}
	svc.header.Part = PartName(path)
	svc.logger.Infow(utils.Colorize("NodeSet loaded 📄", utils.Cyan),
		"file", path, "aliases", len(svc.aliases), "nodes", len(svc.records), "structures", len(svc.structures))
	return nil
}

// Decode decodes a NodeSet document held in memory.
func (svc *nodesetService) Decode(buf []byte) error {
	var root xmlElement
	if err := xml.Unmarshal(buf, &root); err != nil {
		return errors.Wrapf(ErrInvalidNodeSet, "%v", err)
	}
	if root.XMLName.Local != "UANodeSet" {
		return errors.Wrapf(ErrInvalidNodeSet, "root element is %q", root.XMLName.Local)
	}

	svc.header = models.Header{}
	svc.aliases = models.AliasTable{}
	svc.records = nil
	svc.structures = nil

	if mdl := root.child("Models"); mdl != nil {
		if m := mdl.child("Model"); m != nil {
			svc.header.ModelURI, _ = m.attr("ModelUri")
			svc.header.Version, _ = m.attr("Version")
			if date, ok := m.attr("PublicationDate"); ok {
				if t, err := time.Parse(time.RFC3339, date); err == nil {
					svc.header.PublicationDate = t
				}
			}
		}
	}
	if aliases := root.child("Aliases"); aliases != nil {
		for i := range aliases.Children {
			a := &aliases.Children[i]
			name, _ := a.attr("Alias")
			svc.aliases[name] = strings.TrimSpace(a.Content)
		}
	}

	for i := range root.Children {
		el := &root.Children[i]
		if !strings.HasPrefix(el.XMLName.Local, "UA") {
			continue
		}
		rec, err := svc.record(el)
		if err != nil {
			return err
		}
		svc.records = append(svc.records, rec)
		if rec.NodeType == models.NodeTypeDataType {
			if def := el.child("Definition"); def != nil {
				svc.structures = append(svc.structures, structureDef(rec, def))
			}
		}
	}
	if len(svc.records) == 0 {
		return errors.Wrap(ErrInvalidNodeSet, "document has no nodes")
	}
	svc.threadTargetClasses()
	return nil
}

func (svc *nodesetService) record(el *xmlElement) (models.NodeRecord, error) {
	rec := models.NodeRecord{NodeType: el.XMLName.Local}
	rec.NodeID, _ = el.attr("NodeId")
	rec.BrowseName, _ = el.attr("BrowseName")
	rec.DisplayName = el.childText("DisplayName")
	rec.Description = el.childText("Description")
	rec.InverseName = el.childText("InverseName")
	rec.DataType, _ = el.attr("DataType")
	rec.Parent, _ = el.attr("ParentNodeId")
	rec.IsAbstract = boolAttr(el, "IsAbstract")
	rec.Symmetric = boolAttr(el, "Symmetric")

	invalid := func(attr, text string, err error) error {
		return errors.Wrapf(ErrInvalidNodeSet, "%s %s: %s=%q: %v", rec.NodeType, rec.NodeID, attr, text, err)
	}
	if v, ok := el.attr("ValueRank"); ok {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return rec, invalid("ValueRank", v, err)
		}
		rank := int32(n)
		rec.ValueRank = &rank
	}
	for _, name := range []string{"AccessLevel", "UserAccessLevel", "EventNotifier"} {
		v, ok := el.attr(name)
		if !ok {
			continue
		}
		n, err := strconv.ParseUint(v, 10, 8)
		if err != nil {
			return rec, invalid(name, v, err)
		}
		b := uint8(n)
		switch name {
		case "AccessLevel":
			rec.AccessLevel = &b
		case "UserAccessLevel":
			rec.UserAccessLevel = &b
		default:
			rec.EventNotifier = b
		}
	}
	if v, ok := el.attr("MinimumSamplingInterval"); ok {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return rec, invalid("MinimumSamplingInterval", v, err)
		}
		rec.MinimumSamplingInterval = &f
	}
	if v, ok := el.attr("ArrayDimensions"); ok {
		rec.ArrayDimensions = []uint32{}
		for _, d := range strings.Split(v, ",") {
			if strings.TrimSpace(d) == "" {
				continue
			}
			n, err := strconv.ParseUint(strings.TrimSpace(d), 10, 32)
			if err != nil {
				return rec, invalid("ArrayDimensions", v, err)
			}
			rec.ArrayDimensions = append(rec.ArrayDimensions, uint32(n))
		}
	}
	if value := el.child("Value"); value != nil && len(value.Children) > 0 {
		v := &value.Children[0]
		rec.ValueType = models.ValueType(v.XMLName.Local)
		rec.Value = decodeValue(v)
	}

	if refs := el.child("References"); refs != nil {
		svc.references(&rec, refs)
	}
	return rec, nil
}

// references splits the references of a node into its type definition, its
// parent link and the remaining references, which keep their order.
func (svc *nodesetService) references(rec *models.NodeRecord, refs *xmlElement) {
	linked := false
	for i := range refs.Children {
		r := &refs.Children[i]
		ref := models.ReferenceRecord{IsForward: true, Target: strings.TrimSpace(r.Content)}
		ref.ReferenceType, _ = r.attr("ReferenceType")
		if v, ok := r.attr("IsForward"); ok && strings.EqualFold(v, "false") {
			ref.IsForward = false
		}
		if ref.IsForward && svc.isReferenceType(ref.ReferenceType, "HasTypeDefinition", "i=40") && rec.TypeDef == "" {
			rec.TypeDef = ref.Target
			continue
		}
		if !ref.IsForward && !linked && (rec.Parent == "" || rec.Parent == ref.Target) {
			rec.Parent = ref.Target
			rec.ParentLink = ref.ReferenceType
			linked = true
			continue
		}
		rec.References = append(rec.References, ref)
	}
}

func (svc *nodesetService) isReferenceType(refType, alias, id string) bool {
	if refType == alias || refType == id {
		return true
	}
	target, ok := svc.aliases.Resolve(refType)
	return ok && target == id
}

// threadTargetClasses fills the target node class of references whose target
// the document defines.
func (svc *nodesetService) threadTargetClasses() {
	classes := make(map[string]string, len(svc.records))
	for _, rec := range svc.records {
		classes[rec.NodeID] = models.NodeClassOf(rec.NodeType)
	}
	for i := range svc.records {
		for j := range svc.records[i].References {
			ref := &svc.records[i].References[j]
			target := ref.Target
			if id, ok := svc.aliases.Resolve(target); ok {
				target = id
			}
			ref.TargetClass = classes[target]
		}
	}
}

// Header implements the SchemaPort interface.
func (svc *nodesetService) Header() models.Header {
	return svc.header
}

// Aliases implements the SchemaPort interface.
func (svc *nodesetService) Aliases() models.AliasTable {
	return svc.aliases
}

// Records implements the SchemaPort interface.
func (svc *nodesetService) Records() []models.NodeRecord {
	return svc.records
}

// Structures implements the SchemaPort interface.
func (svc *nodesetService) Structures() []models.StructureDef {
	return svc.structures
}

func boolAttr(el *xmlElement, name string) bool {
	v, _ := el.attr(name)
	return strings.EqualFold(v, "true")
}

// decodeValue turns a value element into the Value sum type: ListOf elements
// become lists, extension objects keep their body type, elements with children
// become sub-structures and leaves keep their text.
func decodeValue(el *xmlElement) models.Value {
	name := el.XMLName.Local
	switch {
	case models.ValueType(name).IsList():
		list := models.List{}
		for i := range el.Children {
			list = append(list, decodeValue(&el.Children[i]))
		}
		return list
	case name == "ExtensionObject":
		eo := &models.ExtensionObject{}
		if typeID := el.child("TypeId"); typeID != nil {
			eo.TypeID = strings.TrimSpace(typeID.childText("Identifier"))
		}
		if body := el.child("Body"); body != nil && len(body.Children) > 0 {
			s := &body.Children[0]
			eo.TypeName = s.XMLName.Local
			eo.Fields = models.Pairs{}
			for i := range s.Children {
				eo.Fields = append(eo.Fields, models.Pair{Key: s.Children[i].XMLName.Local, Value: decodeValue(&s.Children[i])})
			}
		}
		return eo
	case len(el.Children) > 0:
		pairs := models.Pairs{}
		for i := range el.Children {
			pairs = append(pairs, models.Pair{Key: el.Children[i].XMLName.Local, Value: decodeValue(&el.Children[i])})
		}
		return pairs
	}
	return models.Scalar(el.Content)
}

// structureDef reads the Definition of a data type node. Definitions whose
// fields carry values and no data types are enumerations.
func structureDef(rec models.NodeRecord, def *xmlElement) models.StructureDef {
	name, ok := def.attr("Name")
	if !ok {
		name = rec.BrowseName
	}
	s := models.StructureDef{Name: ParseQualifiedName(name).Name, ID: rec.NodeID}
	enum := len(def.Children) > 0
	for i := range def.Children {
		f := &def.Children[i]
		if f.XMLName.Local != "Field" {
			continue
		}
		field := models.FieldDef{}
		field.Name, _ = f.attr("Name")
		field.Type, _ = f.attr("DataType")
		if rank, ok := f.attr("ValueRank"); ok {
			if n, err := strconv.Atoi(rank); err == nil && n >= 1 {
				field.IsArray = true
			}
		}
		_, hasValue := f.attr("Value")
		if !hasValue || field.Type != "" {
			enum = false
		}
		s.Fields = append(s.Fields, field)
	}
	s.IsEnum = enum
	return s
}
