package services

import (
	"github.com/amine-amaach/simulators/uanodegen/ports"
	"github.com/amine-amaach/simulators/uanodegen/services/models"
	"github.com/pkg/errors"
)

type fieldKey struct {
	structure string
	field     string
}

// typeResolver maps (structure, field) pairs to the field's declared value type.
// The map is built once and never changes.
type typeResolver struct {
	catalog ports.CatalogPort
	fields  map[fieldKey]models.FieldDef
}

func NewTypeResolver(catalog ports.CatalogPort) *typeResolver {
	r := &typeResolver{
		catalog: catalog,
		fields:  map[fieldKey]models.FieldDef{},
	}
	for _, s := range catalog.Structures() {
		for _, f := range s.Fields {
			r.fields[fieldKey{s.Name, f.Name}] = f
		}
	}
	return r
}

// ResolveFieldType returns the declared type of a structure field. Array fields
// resolve to their ListOf tag.
func (r *typeResolver) ResolveFieldType(structName, fieldName string) (models.ValueType, error) {
	f, err := r.Field(structName, fieldName)
	if err != nil {
		return "", err
	}
	return f.Tag(), nil
}

// Field returns the full field definition.
func (r *typeResolver) Field(structName, fieldName string) (models.FieldDef, error) {
	f, ok := r.fields[fieldKey{structName, fieldName}]
	if !ok {
		return models.FieldDef{}, errors.Wrapf(ErrUnknownAttribute, "%s.%s", structName, fieldName)
	}
	return f, nil
}

// Structure returns the catalog entry of a structured type.
func (r *typeResolver) Structure(name string) (models.StructureDef, bool) {
	return r.catalog.Structure(name)
}

// Encoding returns the builtin a tag's values are written as.
func (r *typeResolver) Encoding(tag models.ValueType) (models.BuiltinType, bool) {
	return r.catalog.Encoding(string(tag))
}
