package infra

import (
	"fmt"
	"os"
	"path/filepath"

	"bogogo/internal/model"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"
)

// GenerarReciboPDF writes the receipt of a paid order to dir/recibo_{id}.pdf
// and returns its path. Item names come from the joined product; a missing
// product prints as "Producto".
func GenerarReciboPDF(pedido *model.Pedido, cliente *model.Usuario, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("pdf: create dir: %w", err)
	}
	filePath := filepath.Join(dir, fmt.Sprintf("recibo_%d.pdf", pedido.ID))

	pdf := fpdf.New("P", "mm", "A5", "")
	pdf.SetMargins(10, 10, 10)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, _ := pdf.GetPageSize()
	contentW := pageW - 20

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(contentW, 9, "BOGOGO", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(contentW, 5, tr("Recibo de compra"), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(contentW, 5, tr(fmt.Sprintf("Orden N° %d", pedido.ID)), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 8)
	pdf.CellFormat(contentW, 5, pedido.CreatedAt.Format("02/01/2006 15:04"), "", 1, "L", false, 0, "")
	if cliente != nil {
		pdf.CellFormat(contentW, 5, tr(cliente.Nombre+" "+cliente.Apellido), "", 1, "L", false, 0, "")
	}
	estadoPago := ""
	if pedido.Pago != nil {
		estadoPago = pedido.Pago.Estado
	}
	pdf.CellFormat(contentW, 5, tr("Pago: "+model.EstadoPagoLegible(estadoPago)), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	col1 := contentW * 0.60
	col2 := contentW * 0.12
	col3 := contentW * 0.28

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(col1, 6, "Producto", "B", 0, "L", false, 0, "")
	pdf.CellFormat(col2, 6, "Cant", "B", 0, "C", false, 0, "")
	pdf.CellFormat(col3, 6, "Total", "B", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	total := decimal.Zero
	for _, it := range pedido.Items {
		nombre := "Producto"
		if it.Producto != nil && it.Producto.Nombre != "" {
			nombre = it.Producto.Nombre
		}
		if r := []rune(nombre); len(r) > 40 {
			nombre = string(r[:39]) + "..."
		}
		pdf.CellFormat(col1, 5, tr(nombre), "", 0, "L", false, 0, "")
		pdf.CellFormat(col2, 5, fmt.Sprintf("x%d", it.Cantidad), "", 0, "C", false, 0, "")
		pdf.CellFormat(col3, 5, "$"+it.PrecioTotal.StringFixed(2), "", 1, "R", false, 0, "")
		total = total.Add(it.PrecioTotal)
	}

	pdf.Ln(2)
	pdf.Line(10, pdf.GetY(), pageW-10, pdf.GetY())
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(col1+col2, 7, "TOTAL", "", 0, "L", false, 0, "")
	pdf.CellFormat(col3, 7, "$"+total.StringFixed(2), "", 1, "R", false, 0, "")

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.CellFormat(contentW, 5, tr("¡Gracias por comprar en BOGOGO!"), "", 1, "C", false, 0, "")

	if err := pdf.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("pdf: write file: %w", err)
	}
	return filePath, nil
}
