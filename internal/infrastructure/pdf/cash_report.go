// Package pdf genera el relatório de fechamento de caixa.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Marca + Empresa      │  Loja + Fecha de cierre      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: abertura / vendas / suprimentos / sangrias         │
//	│           esperado / contado / divergencia                   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  MOVIMIENTOS: Hora | Tipo | Motivo | Operador | Valor        │
//	│  VENTAS: Hora | Venta | Formas de pago | Dinheiro+PIX        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR con el id de la sesión + firmas                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/moda-retail/internal/application/cash"
	"github.com/jhoicas/moda-retail/internal/domain/cashsession"
	"github.com/jhoicas/moda-retail/internal/domain/entity"
	"github.com/jhoicas/moda-retail/pkg/money"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	defaultPrimary = &props.Color{Red: 31, Green: 41, Blue: 55}
	colorGray      = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite     = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorShort     = &props.Color{Red: 185, Green: 28, Blue: 28}
	colorSurplus   = &props.Color{Red: 21, Green: 128, Blue: 61}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// CashReportGenerator implementa cash.ReportGenerator usando Maroto v2.
type CashReportGenerator struct{}

// NewCashReportGenerator construye el generador.
func NewCashReportGenerator() *CashReportGenerator { return &CashReportGenerator{} }

// GenerateCashReport genera el PDF y devuelve sus bytes.
func (g *CashReportGenerator) GenerateCashReport(_ context.Context, r cash.Report) ([]byte, error) {
	if r.Session == nil {
		return nil, fmt.Errorf("pdf: relatório sin sesión")
	}
	primary := parseHexColor(r.Brand.PrimaryColor, defaultPrimary)
	companyName := ""
	if r.Company != nil {
		companyName = r.Company.Name
	}

	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Fechamento de caixa", true).
		WithAuthor(nonEmpty(companyName, r.Brand.DisplayName), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(r, primary))
	m.AddRows(line.NewRow(1, props.Line{Color: primary, Thickness: 0.5}))
	m.AddRows(summaryRow(r.Session, r.Divergence, primary))
	m.AddRows(line.NewRow(1, props.Line{Color: primary, Thickness: 0.3}))

	m.AddRows(sectionTitle("MOVIMENTOS DO CAIXA", primary))
	m.AddRows(tableHeaderRow(primary, "Hora", "Tipo", "Motivo", "Operador", "Valor"))
	m.AddRows(movementRows(r.Movements)...)

	m.AddRows(row.New(4))
	m.AddRows(sectionTitle("VENDAS DO PERÍODO", primary))
	m.AddRows(tableHeaderRow(primary, "Hora", "Venda", "Formas de pagamento", "Total", "Dinheiro + PIX"))
	m.AddRows(saleRows(r.Sales)...)

	m.AddRows(row.New(4))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(footerRow(r.Session))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: marca y empresa (izq), loja y período (der).
func headerRow(r cash.Report, primary *props.Color) core.Row {
	s := r.Session
	storeName := s.StoreID
	if r.Store != nil {
		storeName = r.Store.Name
	}
	period := "Aberto " + s.OpenedAt.Format("02/01/2006 15:04")
	if s.ClosedAt != nil {
		period += " · Fechado " + s.ClosedAt.Format("02/01/2006 15:04")
	}
	companyName := ""
	if r.Company != nil {
		companyName = r.Company.Name
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(r.Brand.DisplayName, companyName), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: primary, Top: 1,
			}),
			text.New(companyName, props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("FECHAMENTO DE CAIXA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: primary, Top: 1,
			}),
			text.New(storeName, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 7,
			}),
			text.New(period, props.Text{Size: 7, Align: align.Right, Top: 14, Color: colorGray}),
		),
	)
}

// summaryRow: fórmula del esperado y resultado del conteo.
func summaryRow(s *entity.CashSession, status cashsession.DivergenceStatus, primary *props.Color) core.Row {
	label := func(v string) core.Component {
		return text.New(v, props.Text{Size: 9, Align: align.Right, Right: 2})
	}
	value := func(v string) core.Component {
		return text.New(v, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	statusColor := primary
	switch status {
	case cashsession.DivergenceShort:
		statusColor = colorShort
	case cashsession.DivergenceSurplus:
		statusColor = colorSurplus
	}
	return row.New(34).Add(
		col.New(3).Add(
			label("Abertura:"),
			label("Vendas dinheiro/PIX:"),
			label("Suprimentos:"),
			label("Sangrias:"),
		),
		col.New(3).Add(
			value(money.Format(s.OpeningAmount)),
			value(money.Format(s.CashSales)),
			value(money.Format(s.CashIn)),
			value("-"+money.Format(s.CashOut)),
		),
		col.New(3).Add(
			label("Esperado:"),
			label("Contado:"),
			text.New("Divergência:", props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 2, Color: statusColor}),
		),
		col.New(3).Add(
			value(money.Format(s.ExpectedCash)),
			value(money.Format(s.ClosingAmount)),
			text.New(fmt.Sprintf("%s (%s)", money.Format(s.Divergence), status), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Right: 1, Color: statusColor,
			}),
		),
	)
}

func sectionTitle(title string, primary *props.Color) core.Row {
	return row.New(6).Add(col.New(12).Add(
		text.New(title, props.Text{Style: fontstyle.Bold, Size: 8, Color: primary, Top: 1}),
	))
}

// tableHeaderRow: cabecera de 5 columnas (2/2/4/2/2).
func tableHeaderRow(primary *props.Color, labels ...string) core.Row {
	sizes := []int{2, 2, 4, 2, 2}
	cols := make([]core.Col, 0, len(labels))
	for i, l := range labels {
		a := align.Left
		if i >= 3 {
			a = align.Right
		}
		cols = append(cols, col.New(sizes[i]).Add(text.New(l, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorWhite, Top: 2, Left: 1, Right: 1,
		})))
	}
	return row.New(8).WithStyle(&props.Cell{BackgroundColor: primary}).Add(cols...)
}

func cell(size int, v string, a align.Type) core.Col {
	return col.New(size).Add(text.New(v, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
}

// movementRows: una fila por movimiento del libro.
func movementRows(movs []*entity.CashMovement) []core.Row {
	if len(movs) == 0 {
		return []core.Row{emptyRow("Sem movimentos")}
	}
	out := make([]core.Row, 0, len(movs))
	for _, mv := range movs {
		out = append(out, row.New(6).Add(
			cell(2, mv.CreatedAt.Format("15:04"), align.Left),
			cell(2, movementLabel(mv.Kind), align.Left),
			cell(4, nonEmpty(mv.Reason, "—"), align.Left),
			cell(2, mv.Actor, align.Right),
			cell(2, money.Format(mv.Amount), align.Right),
		))
	}
	return out
}

// saleRows: una fila por venta con su parte en dinheiro/PIX.
func saleRows(sales []*entity.Sale) []core.Row {
	if len(sales) == 0 {
		return []core.Row{emptyRow("Sem vendas no período")}
	}
	out := make([]core.Row, 0, len(sales)+1)
	cashTotal := decimal.Zero
	for _, s := range sales {
		methods := make([]string, 0, len(s.Payments))
		for _, p := range s.Payments {
			methods = append(methods, string(p.Method))
		}
		cashLike := s.CashLikeTotal()
		cashTotal = cashTotal.Add(cashLike)
		out = append(out, row.New(6).Add(
			cell(2, s.FinalizedAt.Format("15:04"), align.Left),
			cell(2, shortID(s.ID), align.Left),
			cell(4, strings.Join(methods, ", "), align.Left),
			cell(2, money.Format(s.Total), align.Right),
			cell(2, money.Format(cashLike), align.Right),
		))
	}
	out = append(out, row.New(7).Add(
		col.New(10).Add(text.New("Total dinheiro + PIX:", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 1})),
		col.New(2).Add(text.New(money.Format(cashTotal), props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 1})),
	))
	return out
}

// footerRow: QR con el id de la sesión y espacio para firmas.
func footerRow(s *entity.CashSession) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(s.ID, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Sessão "+s.ID, props.Text{Size: 7, Top: 2, Left: 3, Color: colorGray}),
			text.New(fmt.Sprintf("Aberto por %s · Fechado por %s", s.OpenedBy, nonEmpty(s.ClosedBy, "—")), props.Text{
				Size: 8, Top: 8, Left: 3,
			}),
			text.New("_____________________________          _____________________________", props.Text{Size: 8, Top: 26, Left: 3}),
			text.New("Operador                                              Conferente", props.Text{Size: 7, Top: 31, Left: 3, Color: colorGray}),
		),
	)
}

func emptyRow(msg string) core.Row {
	return row.New(6).Add(col.New(12).Add(text.New(msg, props.Text{Size: 8, Color: colorGray, Top: 1, Left: 1})))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func movementLabel(k entity.CashMovementKind) string {
	switch k {
	case entity.CashMovementOpening:
		return "Abertura"
	case entity.CashMovementIn:
		return "Suprimento"
	case entity.CashMovementOut:
		return "Sangria"
	case entity.CashMovementClosing:
		return "Fechamento"
	}
	return string(k)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// parseHexColor convierte "#RRGGBB"; cualquier otro formato devuelve fallback.
func parseHexColor(hex string, fallback *props.Color) *props.Color {
	if len(hex) != 7 || hex[0] != '#' {
		return fallback
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return fallback
	}
	return &props.Color{Red: int(v >> 16 & 0xff), Green: int(v >> 8 & 0xff), Blue: int(v & 0xff)}
}
