package services

import (
	_ "embed"
	"sort"
	"strings"

	"github.com/amine-amaach/simulators/uanodegen/services/models"
	"github.com/amine-amaach/simulators/uanodegen/utils"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

//go:embed catalog/standard.yaml
var standardCatalog []byte

type catalogFile struct {
	Builtins     []models.BuiltinType  `yaml:"builtins"`
	DataTypes    []models.DataTypeDef  `yaml:"dataTypes"`
	Enumerations []string              `yaml:"enumerations"`
	Structures   []models.StructureDef `yaml:"structures"`
}

type catalogService struct {
	builtins   map[string]models.BuiltinType
	builtinIDs map[uint32]string
	dataTypes  map[string]models.DataTypeDef
	typeIDs    map[uint32]string
	enums      map[string]bool
	structures map[string]models.StructureDef
	order      []string
}

// NewCatalogService loads the embedded standard catalog, then every extra YAML
// document in order. Later documents override structures of the same name.
func NewCatalogService(logger *zap.SugaredLogger, extra ...[]byte) (*catalogService, error) {
	c := &catalogService{
		builtins:   map[string]models.BuiltinType{},
		builtinIDs: map[uint32]string{},
		dataTypes:  map[string]models.DataTypeDef{},
		typeIDs:    map[uint32]string{},
		enums:      map[string]bool{},
		structures: map[string]models.StructureDef{},
	}
	docs := append([][]byte{standardCatalog}, extra...)
	for i, doc := range docs {
		var f catalogFile
		if err := yaml.Unmarshal(doc, &f); err != nil {
			return nil, errors.Wrapf(err, "decoding type catalog #%d", i)
		}
		c.load(f)
	}
	logger.Debugw(utils.Colorize("Type catalog loaded 📚", utils.Cyan),
		"builtins", len(c.builtinIDs), "structures", len(c.structures), "enumerations", len(c.enums))
	return c, nil
}

func (c *catalogService) load(f catalogFile) {
	for _, b := range f.Builtins {
		c.builtins[b.Name] = b
		if _, ok := c.builtinIDs[b.ID]; !ok {
			c.builtinIDs[b.ID] = b.Name
		}
	}
	for _, d := range f.DataTypes {
		c.dataTypes[d.Name] = d
		c.typeIDs[d.ID] = d.Name
	}
	for _, e := range f.Enumerations {
		c.enums[e] = true
	}
	for _, s := range f.Structures {
		c.addStructure(s)
	}
}

func (c *catalogService) addStructure(s models.StructureDef) {
	if _, ok := c.structures[s.Name]; !ok {
		c.order = append(c.order, s.Name)
	}
	c.structures[s.Name] = s
}

// Extend adds the data types a schema document defines. Field types given as
// aliases or NodeIds are turned into type names; enumerations become Int32 types.
// Structures already in the catalog are kept.
func (c *catalogService) Extend(defs []models.StructureDef, aliases models.AliasTable) {
	docNames := map[string]string{}
	for _, d := range defs {
		if d.ID != "" {
			docNames[d.ID] = d.Name
		}
		if d.IsEnum {
			c.enums[d.Name] = true
		}
	}
	for _, d := range defs {
		if d.IsEnum {
			continue
		}
		if _, ok := c.structures[d.Name]; ok {
			continue
		}
		fields := make([]models.FieldDef, len(d.Fields))
		for i, f := range d.Fields {
			f.Type = c.typeName(f.Type, aliases, docNames)
			fields[i] = f
		}
		d.Fields = fields
		c.addStructure(d)
	}
}

// typeName turns a data type reference into a type name.
func (c *catalogService) typeName(ref string, aliases models.AliasTable, docNames map[string]string) string {
	if ref == "" {
		return "BaseDataType"
	}
	text := ref
	if !strings.Contains(text, "=") {
		target, ok := aliases.Resolve(text)
		if !ok {
			return text
		}
		text = target
	}
	if name, ok := docNames[text]; ok {
		return name
	}
	id, err := ParseNodeID(text)
	if err != nil || id.Kind != models.IDNumeric || id.Namespace != 0 || id.IsExpanded() {
		return ref
	}
	if name, ok := c.builtinIDs[id.Numeric]; ok {
		return name
	}
	if name, ok := c.typeIDs[id.Numeric]; ok {
		return name
	}
	return ref
}

// Structures implements the CatalogPort interface.
func (c *catalogService) Structures() []models.StructureDef {
	out := make([]models.StructureDef, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.structures[name])
	}
	return out
}

// Structure implements the CatalogPort interface.
func (c *catalogService) Structure(name string) (models.StructureDef, bool) {
	s, ok := c.structures[name]
	return s, ok
}

// Builtin implements the CatalogPort interface.
func (c *catalogService) Builtin(name string) (models.BuiltinType, bool) {
	b, ok := c.builtins[name]
	return b, ok
}

// Encoding implements the CatalogPort interface.
func (c *catalogService) Encoding(name string) (models.BuiltinType, bool) {
	if b, ok := c.builtins[name]; ok {
		return b, true
	}
	if c.enums[name] {
		return c.builtins["Int32"], true
	}
	if d, ok := c.dataTypes[name]; ok && d.Base != "" {
		return c.Encoding(d.Base)
	}
	return models.BuiltinType{}, false
}

// DataTypeID implements the CatalogPort interface.
func (c *catalogService) DataTypeID(name string) (uint32, bool) {
	if b, ok := c.builtins[name]; ok {
		return b.ID, true
	}
	d, ok := c.dataTypes[name]
	return d.ID, ok
}

// Enumerations returns the enumeration names, sorted.
func (c *catalogService) Enumerations() []string {
	out := make([]string, 0, len(c.enums))
	for e := range c.enums {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}
