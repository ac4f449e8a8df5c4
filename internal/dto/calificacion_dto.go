package dto

type CrearCalificacionRequest struct {
	VendedorID int `json:"id_vendedor" validate:"required,min=1"`
	Valor      int `json:"valor"       validate:"required,min=1,max=5"`
}

type CalificacionResponse struct {
	ID         int    `json:"id"`
	VendedorID int    `json:"id_vendedor"`
	Valor      int    `json:"valor"`
	Fecha      string `json:"fecha"`
}
