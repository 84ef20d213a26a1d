// Package pdf gera o documento de proposta comercial enviado ao lead.
package pdf

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/shopspring/decimal"
	"github.com/xavierca1/ligue-pipeline/internal/entity"
)

// ProposalRenderer usa as fontes core do PDF (Helvetica) com tradução cp1252,
// suficiente para acentos do português sem depender de TTF em disco.
type ProposalRenderer struct {
	CompanyName string
}

func NewProposalRenderer(companyName string) *ProposalRenderer {
	return &ProposalRenderer{CompanyName: companyName}
}

func (g *ProposalRenderer) Render(w io.Writer, p *entity.Proposal, lead *entity.Lead) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTitle(tr(p.Title), false)
	pdf.SetAuthor(tr(g.CompanyName), false)
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 20)

	pdf.AliasNbPages("")
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 10, tr(fmt.Sprintf("%s  ·  Página %d/{nb}", g.CompanyName, pdf.PageNo())),
			"", 0, "C", false, 0, "")
	})
	pdf.AddPage()

	// ===== Cabeçalho
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr("PROPOSTA COMERCIAL"), "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 7, tr(p.Title), "", 1, "C", false, 0, "")
	hr(pdf)

	// ===== Cliente
	sectionTitle(pdf, tr("Cliente"))
	kvLine(pdf, tr("Nome"), tr(lead.Name))
	if lead.Company != "" {
		kvLine(pdf, tr("Empresa"), tr(lead.Company))
	}
	if lead.Email != "" {
		kvLine(pdf, tr("E-mail"), lead.Email)
	}
	kvLine(pdf, tr("Data"), p.CreatedAt.Format("02/01/2006"))
	kvLine(pdf, tr("Status"), string(p.Status))
	pdf.Ln(2)
	hr(pdf)

	// ===== Itens
	sectionTitle(pdf, tr("Itens"))
	widths := []float64{80, 20, 35, 35}
	header := []string{"Descrição", "Qtd", "Preço unit.", "Total"}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	for i, h := range header {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(widths[i], 7, tr(h), "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range p.Items {
		pdf.CellFormat(widths[0], 7, tr(truncate(item.Description, 45)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[1], 7, formatQuantity(item.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[2], 7, money(item.UnitPrice), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[3], 7, money(item.Total()), "1", 1, "R", false, 0, "")
	}

	// ===== Totais
	pdf.Ln(2)
	labelW := widths[0] + widths[1] + widths[2]
	totalLine(pdf, labelW, widths[3], "Subtotal", money(p.Subtotal()), false)
	if p.Discount > 0 {
		totalLine(pdf, labelW, widths[3], "Desconto", "- "+money(p.Discount), false)
	}
	totalLine(pdf, labelW, widths[3], "Total", money(p.GrandTotal()), true)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("erro ao gerar pdf: %w", err)
	}
	return nil
}

func sectionTitle(pdf *gofpdf.Fpdf, s string) {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 7, s, "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
}

func kvLine(pdf *gofpdf.Fpdf, key, val string) {
	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(35, 6, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 6, val, "", 1, "L", false, 0, "")
}

func totalLine(pdf *gofpdf.Fpdf, labelW, valueW float64, label, value string, bold bool) {
	style := ""
	if bold {
		style = "B"
	}
	pdf.SetFont("Helvetica", style, 11)
	pdf.CellFormat(labelW, 7, label, "", 0, "R", false, 0, "")
	pdf.CellFormat(valueW, 7, value, "", 1, "R", false, 0, "")
}

func hr(pdf *gofpdf.Fpdf) {
	y := pdf.GetY() + 1.5
	pdf.SetLineWidth(0.2)
	pdf.Line(20, y, 190, y)
	pdf.SetY(y + 2)
}

func money(v float64) string {
	s := decimal.NewFromFloat(v).StringFixed(2)
	return "R$ " + strings.Replace(s, ".", ",", 1)
}

func formatQuantity(q float64) string {
	return decimal.NewFromFloat(q).String()
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
