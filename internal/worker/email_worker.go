package worker

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"bogogo/internal/infra"
	"bogogo/internal/model"
	"bogogo/internal/repository"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Mailer is the subset of *infra.Mailer the workers use.
type Mailer interface {
	Enviar(to, subject, text, html string) error
	EnviarRecibo(to, subject, body, pdfPath string) error
}

var _ Mailer = (*infra.Mailer)(nil)

// EmailWorker handles the confirmation, order-confirmation and receipt jobs.
type EmailWorker struct {
	mailer    Mailer
	pedidos   repository.PedidoRepository
	usuarios  repository.UsuarioRepository
	reciboDir string
	generar   func(*model.Pedido, *model.Usuario, string) (string, error)
}

func NewEmailWorker(mailer Mailer, pedidos repository.PedidoRepository, usuarios repository.UsuarioRepository, reciboDir string) *EmailWorker {
	return &EmailWorker{
		mailer:    mailer,
		pedidos:   pedidos,
		usuarios:  usuarios,
		reciboDir: reciboDir,
		generar:   infra.GenerarReciboPDF,
	}
}

// Registrar binds the worker's handlers to p.
func (w *EmailWorker) Registrar(p *Pool) {
	p.Register(JobConfirmacion, w.Confirmacion)
	p.Register(JobPedidoConfirmado, w.PedidoConfirmado)
	p.Register(JobRecibo, w.Recibo)
}

func (w *EmailWorker) Confirmacion(_ context.Context, raw json.RawMessage) error {
	var p ConfirmacionPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		log.Error().Err(err).Msg("email_worker: invalid confirmation payload")
		return nil
	}
	if p.Email == "" {
		log.Warn().Msg("email_worker: confirmation without email, skipping")
		return nil
	}

	saludo := "Hola"
	if p.Nombre != "" {
		saludo += " " + p.Nombre
	}
	text := fmt.Sprintf("%s,\n\nConfirma tu cuenta de BOGOGO en el siguiente enlace:\n%s\n", saludo, p.Enlace)
	if err := w.mailer.Enviar(p.Email, "Confirma tu cuenta", text, ""); err != nil {
		return fmt.Errorf("enviando confirmacion: %w", err)
	}
	return nil
}

func (w *EmailWorker) PedidoConfirmado(ctx context.Context, raw json.RawMessage) error {
	pedido, cliente, err := w.cargar(ctx, raw)
	if pedido == nil || err != nil {
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Hola %s,\n\nRecibimos tu orden #%d. Te avisaremos cuando el pago se confirme.\n\n", cliente.Nombre, pedido.ID)
	total := decimal.Zero
	for _, it := range pedido.Items {
		fmt.Fprintf(&b, "- %s x%d: $%s\n", nombreItem(it), it.Cantidad, it.PrecioTotal.StringFixed(2))
		total = total.Add(it.PrecioTotal)
	}
	fmt.Fprintf(&b, "\nTotal: $%s\n", total.StringFixed(2))

	if err := w.mailer.Enviar(cliente.Email, fmt.Sprintf("Orden #%d recibida", pedido.ID), b.String(), ""); err != nil {
		return fmt.Errorf("enviando orden %d: %w", pedido.ID, err)
	}
	return nil
}

// Recibo mails the PDF receipt of a paid order. Orders not yet paid are
// skipped without retry.
func (w *EmailWorker) Recibo(ctx context.Context, raw json.RawMessage) error {
	pedido, cliente, err := w.cargar(ctx, raw)
	if pedido == nil || err != nil {
		return err
	}
	if pedido.Estado != model.PedidoPagado {
		log.Warn().Int("order_id", pedido.ID).Str("state", pedido.Estado).Msg("email_worker: receipt for unpaid order, skipping")
		return nil
	}

	path, err := w.generar(pedido, cliente, w.reciboDir)
	if err != nil {
		return err
	}
	body := fmt.Sprintf("Hola %s,\n\nAdjuntamos el recibo de tu orden #%d.\n\n¡Gracias por comprar en BOGOGO!\n", cliente.Nombre, pedido.ID)
	if err := w.mailer.EnviarRecibo(cliente.Email, fmt.Sprintf("Recibo de tu orden #%d", pedido.ID), body, path); err != nil {
		return fmt.Errorf("enviando recibo %d: %w", pedido.ID, err)
	}
	log.Info().Int("order_id", pedido.ID).Msg("email_worker: receipt sent")
	return nil
}

// cargar resolves the order and its customer. A nil order with a nil error
// means the job cannot succeed and is dropped.
func (w *EmailWorker) cargar(ctx context.Context, raw json.RawMessage) (*model.Pedido, *model.Usuario, error) {
	var p PedidoPayload
	if err := json.Unmarshal(raw, &p); err != nil || p.PedidoID <= 0 {
		log.Error().Err(err).Str("payload", string(raw)).Msg("email_worker: invalid order payload")
		return nil, nil, nil
	}

	pedido, err := w.pedidos.FindByID(ctx, p.PedidoID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn().Int("order_id", p.PedidoID).Msg("email_worker: order not found, dropping job")
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("cargando orden %d: %w", p.PedidoID, err)
	}

	cliente, err := w.usuarios.FindByID(ctx, pedido.ClienteID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		log.Warn().Int("order_id", pedido.ID).Int("customer_id", pedido.ClienteID).Msg("email_worker: customer not found, dropping job")
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("cargando cliente %d: %w", pedido.ClienteID, err)
	}
	if cliente.Email == "" {
		log.Warn().Int("order_id", pedido.ID).Msg("email_worker: customer without email, dropping job")
		return nil, nil, nil
	}
	return pedido, cliente, nil
}

func nombreItem(it model.PedidoItem) string {
	if it.Producto != nil && it.Producto.Nombre != "" {
		return it.Producto.Nombre
	}
	return "Producto"
}
