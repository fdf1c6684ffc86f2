package storage

import "context"

// Document es el contenido semiestructurado de un documento. El ID no forma parte del contenido:
// es la llave con la que se guarda.
type Document map[string]any

// Entry par (id, documento) devuelto por List.
type Entry struct {
	ID   string
	Data Document
}

// Store es el puerto hacia el almacén de documentos. Las implementaciones deben ser seguras
// para uso concurrente.
type Store interface {
	// Get devuelve (nil, false, nil) si el documento no existe.
	Get(ctx context.Context, collection, id string) (Document, bool, error)
	// Set crea o reemplaza el documento completo.
	Set(ctx context.Context, collection, id string, doc Document) error
	Delete(ctx context.Context, collection, id string) error
	// List devuelve hasta limit documentos en el orden que defina el almacén.
	List(ctx context.Context, collection string, limit int) ([]Entry, error)
	Close() error
}
