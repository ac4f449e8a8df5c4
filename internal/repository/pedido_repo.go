package repository

import (
	"context"

	"bogogo/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PedidoRepository writes the checkout records and reads orders back.
// The *Tx methods must run inside the transaction opened by the caller.
type PedidoRepository interface {
	CreatePagoTx(tx *gorm.DB, p *model.Pago) error
	CreatePedidoTx(tx *gorm.DB, p *model.Pedido) error
	// CreateItemsTx inserts all items with a single batched statement.
	CreateItemsTx(tx *gorm.DB, items []model.PedidoItem) error

	FindByID(ctx context.Context, id int) (*model.Pedido, error)
	ListByCliente(ctx context.Context, clienteID int) ([]model.Pedido, error)

	// DB exposes the underlying *gorm.DB so services can open transactions.
	DB() *gorm.DB
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) DB() *gorm.DB { return r.db }

func (r *pedidoRepo) CreatePagoTx(tx *gorm.DB, p *model.Pago) error {
	return tx.Create(p).Error
}

func (r *pedidoRepo) CreatePedidoTx(tx *gorm.DB, p *model.Pedido) error {
	return tx.Omit(clause.Associations).Create(p).Error
}

func (r *pedidoRepo) CreateItemsTx(tx *gorm.DB, items []model.PedidoItem) error {
	return tx.Omit(clause.Associations).CreateInBatches(&items, len(items)).Error
}

func (r *pedidoRepo) FindByID(ctx context.Context, id int) (*model.Pedido, error) {
	var p model.Pedido
	err := r.db.WithContext(ctx).
		Preload("Pago").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") }).
		Preload("Items.Producto").
		First(&p, id).Error
	return &p, err
}

func (r *pedidoRepo) ListByCliente(ctx context.Context, clienteID int) ([]model.Pedido, error) {
	var pedidos []model.Pedido
	err := r.db.WithContext(ctx).
		Preload("Pago").
		Preload("Items.Producto").
		Where("id_customer = ?", clienteID).
		Order("created_at DESC").
		Find(&pedidos).Error
	return pedidos, err
}
