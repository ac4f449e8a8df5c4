package dto

type CheckoutResponse struct {
	PedidoID  int    `json:"pedido_id"`
	InitPoint string `json:"init_point"`
}
