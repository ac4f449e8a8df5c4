package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rows of the precomputed reporting views. Each struct is the explicit schema
// of one view; GORM scans by column name and fails on type mismatches.

// Stock status labels produced by v_inventory_status.
const (
	StockBajo     = "BAJO"
	StockSinStock = "SIN STOCK"
)

type VentasVendedor struct {
	VendedorID       int             `gorm:"column:vendor_id" json:"vendor_id"`
	VendedorNombre   string          `gorm:"column:vendor_name" json:"vendor_name"`
	VendedorApellido string          `gorm:"column:vendor_lastname" json:"vendor_lastname"`
	CantidadPedidos  int             `gorm:"column:orders_count" json:"orders_count"`
	VentasBrutas     decimal.Decimal `gorm:"column:gross_sales" json:"gross_sales"`
	ItemsVendidos    int             `gorm:"column:total_items_sold" json:"total_items_sold"`
}

func (VentasVendedor) TableName() string { return "v_vendor_sales_summary" }

type VentasCategoria struct {
	CategoriaID     int             `gorm:"column:category_id" json:"category_id"`
	CategoriaNombre string          `gorm:"column:category_name" json:"category_name"`
	ItemsVendidos   int             `gorm:"column:total_items_sold" json:"total_items_sold"`
	Ingresos        decimal.Decimal `gorm:"column:total_revenue" json:"total_revenue"`
}

func (VentasCategoria) TableName() string { return "v_category_sales" }

type ResumenPedido struct {
	PedidoID         int             `gorm:"column:order_id" json:"order_id"`
	FechaPedido      time.Time       `gorm:"column:order_date" json:"order_date"`
	EstadoPedido     string          `gorm:"column:order_state" json:"order_state"`
	ClienteID        int             `gorm:"column:id_customer" json:"id_customer"`
	ClienteNombre    string          `gorm:"column:customer_name" json:"customer_name"`
	ClienteApellido  string          `gorm:"column:customer_lastname" json:"customer_lastname"`
	PagoID           string          `gorm:"column:id_payment" json:"id_payment"`
	EstadoPago       string          `gorm:"column:payment_status" json:"payment_status"`
	MetodoPagoNombre *string         `gorm:"column:payment_method_name" json:"payment_method_name"`
	TotalItems       int             `gorm:"column:total_items" json:"total_items"`
	TotalPedido      decimal.Decimal `gorm:"column:order_total" json:"order_total"`
}

func (ResumenPedido) TableName() string { return "v_order_summary" }

type EstadoInventario struct {
	ProductoID      string `gorm:"column:product_id" json:"product_id"`
	ProductoNombre  string `gorm:"column:product_name" json:"product_name"`
	CategoriaNombre string `gorm:"column:category_name" json:"category_name"`
	VendedorID      int    `gorm:"column:vendor_id" json:"vendor_id"`
	VendedorNombre  string `gorm:"column:vendor_name" json:"vendor_name"`
	Stock           int    `gorm:"column:stock" json:"stock"`
	EstadoStock     string `gorm:"column:stock_status" json:"stock_status"`
}

func (EstadoInventario) TableName() string { return "v_inventory_status" }

// StockCritico reports whether the row counts towards low-stock KPIs.
func (e EstadoInventario) StockCritico() bool {
	return e.EstadoStock == StockBajo || e.EstadoStock == StockSinStock
}

type CalificacionVendedor struct {
	VendedorID       int             `gorm:"column:vendor_id" json:"vendor_id"`
	VendedorNombre   string          `gorm:"column:vendor_name" json:"vendor_name"`
	VendedorApellido string          `gorm:"column:vendor_lastname" json:"vendor_lastname"`
	CantidadCalif    int             `gorm:"column:ratings_count" json:"ratings_count"`
	PromedioCalif    decimal.Decimal `gorm:"column:avg_rating" json:"avg_rating"`
}

func (CalificacionVendedor) TableName() string { return "v_vendor_ratings" }

type ItemPedidoDetallado struct {
	ItemID           int             `gorm:"column:order_item_id" json:"order_item_id"`
	PedidoID         int             `gorm:"column:order_id" json:"order_id"`
	FechaPedido      time.Time       `gorm:"column:order_date" json:"order_date"`
	EstadoPedido     string          `gorm:"column:order_state" json:"order_state"`
	Cantidad         int             `gorm:"column:quantity" json:"quantity"`
	PrecioTotal      decimal.Decimal `gorm:"column:total_price" json:"total_price"`
	ProductoID       string          `gorm:"column:product_id" json:"product_id"`
	ProductoNombre   string          `gorm:"column:product_name" json:"product_name"`
	VendedorID       int             `gorm:"column:vendor_id" json:"vendor_id"`
	CategoriaID      int             `gorm:"column:category_id" json:"category_id"`
	CategoriaNombre  string          `gorm:"column:category_name" json:"category_name"`
	ClienteID        int             `gorm:"column:customer_id" json:"customer_id"`
	ClienteNombre    string          `gorm:"column:customer_name" json:"customer_name"`
	ClienteApellido  string          `gorm:"column:customer_lastname" json:"customer_lastname"`
	PagoID           string          `gorm:"column:payment_id" json:"payment_id"`
	EstadoPago       string          `gorm:"column:payment_status" json:"payment_status"`
	MetodoPagoID     *int            `gorm:"column:payment_method_id" json:"payment_method_id"`
	MetodoPagoNombre *string         `gorm:"column:payment_method_name" json:"payment_method_name"`
}

func (ItemPedidoDetallado) TableName() string { return "v_order_items_detailed" }

type ProductoCatalogo struct {
	ProductoID       string          `gorm:"column:product_id" json:"product_id"`
	ProductoNombre   string          `gorm:"column:product_name" json:"product_name"`
	Precio           decimal.Decimal `gorm:"column:price" json:"price"`
	Stock            int             `gorm:"column:stock" json:"stock"`
	CreatedAt        time.Time       `gorm:"column:created_at" json:"created_at"`
	CategoriaID      int             `gorm:"column:category_id" json:"category_id"`
	CategoriaNombre  string          `gorm:"column:category_name" json:"category_name"`
	VendedorID       int             `gorm:"column:vendor_id" json:"vendor_id"`
	VendedorNombre   string          `gorm:"column:vendor_name" json:"vendor_name"`
	VendedorApellido string          `gorm:"column:vendor_lastname" json:"vendor_lastname"`
	ImagenPrincipal  *string         `gorm:"column:main_image_url" json:"main_image_url"`
}

func (ProductoCatalogo) TableName() string { return "v_product_catalog" }
