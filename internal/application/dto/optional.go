package dto

import (
	"bytes"
	"encoding/json"
)

// Optional distingue en JSON un campo ausente, un null explícito y un valor.
type Optional[T any] struct {
	Value   T
	Present bool
	Null    bool
}

// Some construye un Optional presente con valor.
func Some[T any](v T) Optional[T] {
	return Optional[T]{Value: v, Present: true}
}

// UnmarshalJSON solo se invoca cuando la clave aparece en el objeto.
func (o *Optional[T]) UnmarshalJSON(data []byte) error {
	o.Present = true
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		o.Null = true
		return nil
	}
	return json.Unmarshal(data, &o.Value)
}

// Ptr devuelve el valor si está presente y no es null; nil en otro caso.
func (o Optional[T]) Ptr() *T {
	if !o.Present || o.Null {
		return nil
	}
	v := o.Value
	return &v
}
