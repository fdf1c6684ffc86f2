package dto

import "time"

// CreateCustomerRequest entrada para crear un cliente.
type CreateCustomerRequest struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     *string `json:"email"`
}

// UpdateCustomerRequest actualización parcial. Los campos ausentes o null no se modifican.
// id y created_at no existen aquí: no se pueden sobrescribir.
type UpdateCustomerRequest struct {
	FirstName Optional[string] `json:"first_name" swaggertype:"string"`
	LastName  Optional[string] `json:"last_name" swaggertype:"string"`
	Email     Optional[string] `json:"email" swaggertype:"string"`
}

// CustomerResponse salida de un cliente. email se serializa como null si no hay.
type CustomerResponse struct {
	ID        string    `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     *string   `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
