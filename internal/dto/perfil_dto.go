package dto

type CompletarPerfilRequest struct {
	Nombre   string `json:"nombre"   validate:"required,min=2,max=100"`
	Apellido string `json:"apellido" validate:"required,min=2,max=100"`
	Celular  string `json:"celular"  validate:"required,numeric,min=10,max=12"`
	RolID    int    `json:"rol_id"   validate:"required,oneof=2 3"`
}

type PerfilResponse struct {
	ID             int    `json:"id"`
	Nombre         string `json:"nombre"`
	Apellido       string `json:"apellido"`
	Email          string `json:"email"`
	Celular        string `json:"celular"`
	Rol            string `json:"rol"`
	ReabrirCarrito bool   `json:"reabrir_carrito"`
}
