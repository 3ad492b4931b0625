package ports

import "github.com/amine-amaach/simulators/uanodegen/services/models"

// SchemaPort describes a decoded address-space schema the generator consumes.
type SchemaPort interface {

	// Header returns the model description of the schema document.
	Header() models.Header

	// Aliases returns the alias table. It is complete before the first record is read.
	Aliases() models.AliasTable

	// Records returns the node records in document order.
	Records() []models.NodeRecord

	// Structures returns the structured data types the document defines.
	Structures() []models.StructureDef
}
