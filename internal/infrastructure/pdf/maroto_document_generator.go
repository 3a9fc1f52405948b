// Package pdf génère les documents aval des ventes validées avec Maroto v2 :
// facture A4 pour le canal DEPOT, ticket de caisse 80 mm pour le canal STORE.
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
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

	"github.com/locauto225/gestock-api/internal/application/sales"
	"github.com/locauto225/gestock-api/internal/domain/entity"
)

var (
	colorPrimary = &props.Color{Red: 16, Green: 78, Blue: 60}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// CompanyInfo figure sur les en-têtes de documents (configuration, pas en base).
type CompanyInfo struct {
	Name    string
	Address string
	Phone   string
}

// MarotoDocumentGenerator implémente sales.DocumentGenerator avec Maroto v2.
type MarotoDocumentGenerator struct {
	company CompanyInfo
}

var _ sales.DocumentGenerator = (*MarotoDocumentGenerator)(nil)

func NewMarotoDocumentGenerator(company CompanyInfo) *MarotoDocumentGenerator {
	return &MarotoDocumentGenerator{company: company}
}

// Generate produit le document du canal de la vente. La référence reprend le
// numéro de vente : FAC-<numéro> pour une facture, TIC-<numéro> pour un ticket.
func (g *MarotoDocumentGenerator) Generate(
	_ context.Context,
	sale *entity.Sale,
	customer *entity.Customer,
	products map[string]*entity.Product,
) (*sales.Document, error) {
	switch sale.Channel {
	case entity.SaleChannelDepot:
		pdf, err := g.invoice(sale, customer, products)
		if err != nil {
			return nil, err
		}
		return &sales.Document{Ref: "FAC-" + sale.Number, PDF: pdf}, nil
	case entity.SaleChannelStore:
		pdf, err := g.receipt(sale, customer, products)
		if err != nil {
			return nil, err
		}
		return &sales.Document{Ref: "TIC-" + sale.Number, PDF: pdf}, nil
	default:
		return nil, fmt.Errorf("canal de vente inconnu : %s", sale.Channel)
	}
}

// invoice génère la facture A4 du canal DEPOT.
func (g *MarotoDocumentGenerator) invoice(
	sale *entity.Sale,
	customer *entity.Customer,
	products map[string]*entity.Product,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Facture "+sale.Number, true).
		WithAuthor(g.company.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.invoiceHeader(sale))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.partyRow(customer))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(invoiceTableHeader())
	for _, r := range invoiceTableRows(sale, products) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(invoiceTotalRow(sale))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("générer la facture : %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *MarotoDocumentGenerator) invoiceHeader(sale *entity.Sale) core.Row {
	date := sale.CreatedAt.Format("02/01/2006")
	if sale.PostedAt != nil {
		date = sale.PostedAt.Format("02/01/2006")
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(g.company.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(strings.TrimSpace(g.company.Address+"  "+g.company.Phone), props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("FACTURE", props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("FAC-"+sale.Number, props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 8,
			}),
			text.New("Date : "+date, props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func (g *MarotoDocumentGenerator) partyRow(customer *entity.Customer) core.Row {
	name, phone := "Client de passage", ""
	if customer != nil {
		name, phone = customer.Name, customer.Phone
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("CLIENT", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(strings.TrimSpace(name+"  "+phone), props.Text{
				Style: fontstyle.Bold, Size: 10, Top: 6,
			}),
		),
	)
}

func invoiceTableHeader() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qté", 1, align.Center),
		h("Désignation", 6, align.Left),
		h("P.U.", 2, align.Right),
		h("Montant", 3, align.Right),
	)
}

func invoiceTableRows(sale *entity.Sale, products map[string]*entity.Product) []core.Row {
	result := make([]core.Row, 0, len(sale.Lines))
	for _, l := range sale.Lines {
		result = append(result, row.New(7).Add(
			col.New(1).Add(text.New(
				fmt.Sprintf("%d", l.Qty),
				props.Text{Size: 8, Align: align.Center, Top: 1},
			)),
			col.New(6).Add(text.New(
				productName(products, l.ProductID),
				props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1},
			)),
			col.New(2).Add(text.New(
				formatMoney(l.UnitPrice),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
			col.New(3).Add(text.New(
				formatMoney(l.UnitPrice.Mul(decimal.NewFromInt(l.Qty))),
				props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1},
			)),
		))
	}
	return result
}

func invoiceTotalRow(sale *entity.Sale) core.Row {
	return row.New(10).Add(
		col.New(6),
		col.New(3).Add(text.New("TOTAL :", props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: colorPrimary, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New(formatMoney(sale.Total())+" FCFA", props.Text{
			Style: fontstyle.Bold, Size: 11, Align: align.Right, Color: colorPrimary, Right: 1, Top: 2,
		})),
	)
}

// receipt génère le ticket de caisse 80 mm du canal STORE.
func (g *MarotoDocumentGenerator) receipt(
	sale *entity.Sale,
	customer *entity.Customer,
	products map[string]*entity.Product,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithDimensions(80, 200).
		WithLeftMargin(4).WithRightMargin(4).
		WithTopMargin(4).WithBottomMargin(4).
		WithDefaultFont(&props.Font{Family: "courier", Size: 8}).
		WithTitle("Ticket "+sale.Number, true).
		Build()

	m := maroto.New(cfg)

	date := sale.CreatedAt.Format("02/01/2006 15:04")
	if sale.PostedAt != nil {
		date = sale.PostedAt.Format("02/01/2006 15:04")
	}

	m.AddRows(
		row.New(6).Add(col.New(12).Add(text.New(g.company.Name, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Center,
		}))),
		row.New(4).Add(col.New(12).Add(text.New(g.company.Phone, props.Text{
			Size: 7, Align: align.Center, Color: colorGray,
		}))),
		row.New(5).Add(col.New(12).Add(text.New("TIC-"+sale.Number+"  "+date, props.Text{
			Size: 7, Align: align.Center,
		}))),
	)
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))

	for _, l := range sale.Lines {
		m.AddRows(row.New(4).Add(
			col.New(7).Add(text.New(
				fmt.Sprintf("%d x %s", l.Qty, productName(products, l.ProductID)),
				props.Text{Size: 7, Align: align.Left},
			)),
			col.New(5).Add(text.New(
				formatMoney(l.UnitPrice.Mul(decimal.NewFromInt(l.Qty))),
				props.Text{Size: 7, Align: align.Right},
			)),
		))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(row.New(6).Add(
		col.New(5).Add(text.New("TOTAL", props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Left,
		})),
		col.New(7).Add(text.New(formatMoney(sale.Total())+" FCFA", props.Text{
			Style: fontstyle.Bold, Size: 9, Align: align.Right,
		})),
	))
	m.AddRows(row.New(6).Add(col.New(12).Add(text.New("Merci de votre visite", props.Text{
		Size: 7, Align: align.Center, Color: colorGray, Top: 2,
	}))))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("générer le ticket : %w", err)
	}
	return doc.GetBytes(), nil
}

func productName(products map[string]*entity.Product, id string) string {
	if p, ok := products[id]; ok {
		return p.Name
	}
	return id
}

// formatMoney insère des espaces de milliers dans un montant sans décimales.
// Ex : 25000 → "25 000"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(0)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	n := len(s)
	if n > 3 {
		buf := make([]byte, 0, n+n/3)
		for i := 0; i < n; i++ {
			if i > 0 && (n-i)%3 == 0 {
				buf = append(buf, ' ')
			}
			buf = append(buf, s[i])
		}
		s = string(buf)
	}
	if neg {
		return "-" + s
	}
	return s
}
