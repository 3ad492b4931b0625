package ports

import "github.com/amine-amaach/simulators/uanodegen/services/models"

// CatalogPort answers structural questions about OPC UA data types.
type CatalogPort interface {

	// Structures returns every structure known to the catalog.
	Structures() []models.StructureDef

	// Structure returns the structure named name.
	Structure(name string) (models.StructureDef, bool)

	// Builtin returns the builtin type named name.
	Builtin(name string) (models.BuiltinType, bool)

	// Encoding returns the builtin a type's values are encoded as. Builtins
	// encode as themselves, enumerations as Int32.
	Encoding(name string) (models.BuiltinType, bool)

	// DataTypeID returns the namespace 0 numeric id of a well-known data type.
	DataTypeID(name string) (uint32, bool)
}
