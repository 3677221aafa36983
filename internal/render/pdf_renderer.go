package render

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/smallbiznis/invoicegen/internal/document/domain"
)

const (
	pageLeft      = 15.0
	pageRight     = 195.0
	watermarkText = "FREE PLAN"
)

var defaultAccent = rgb{17, 24, 39}

type rgb struct{ r, g, b int }

// PDFRenderer lays a validated payload into a fixed A4 template. Totals are
// recomputed from line items; caller-supplied aggregates never reach the page.
type PDFRenderer struct{}

func NewRenderer() Renderer {
	return &PDFRenderer{}
}

func (r *PDFRenderer) RenderPDF(input RenderInput) (Artifact, error) {
	payload := input.Payload
	if !payload.DocumentType.Valid() {
		return Artifact{}, &RenderError{Stage: "input", Err: errors.New("unknown document type")}
	}
	if len(payload.Items) == 0 {
		return Artifact{}, &RenderError{Stage: "input", Err: errors.New("no line items")}
	}

	accent := defaultAccent
	footerNote := ""
	if input.Premium && payload.Branding != nil {
		if parsed, ok := parseHexColor(payload.Branding.AccentColor); ok {
			accent = parsed
		}
		footerNote = strings.TrimSpace(payload.Branding.FooterNote)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	// Pinned creation date keeps identical input byte-identical.
	pdf.SetCreationDate(time.Unix(0, 0).UTC())
	pdf.SetAutoPageBreak(true, 20)

	if !input.Premium {
		pdf.SetHeaderFunc(func() {
			drawWatermark(pdf)
		})
	}

	pdf.AddPage()
	drawHeader(pdf, payload, accent)
	drawParties(pdf, payload)
	drawItems(pdf, payload, accent)
	drawTotals(pdf, payload)
	drawFooter(pdf, payload, footerNote)

	if pdf.Err() {
		return Artifact{}, &RenderError{Stage: "layout", Err: pdf.Error()}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return Artifact{}, &RenderError{Stage: "output", Err: err}
	}

	raw := buf.Bytes()
	return Artifact{Bytes: raw, Size: len(raw)}, nil
}

// drawWatermark paints the diagonal free-tier overlay. Registered as the page
// header so every page carries it.
func drawWatermark(pdf *gofpdf.Fpdf) {
	pdf.SetFont("Arial", "B", 60)
	pdf.SetTextColor(225, 225, 225)
	pdf.TransformBegin()
	pdf.TransformRotate(45, 105, 150)
	pdf.Text(45, 160, watermarkText)
	pdf.TransformEnd()
	pdf.SetTextColor(0, 0, 0)
}

func drawHeader(pdf *gofpdf.Fpdf, payload domain.Payload, accent rgb) {
	pdf.SetTextColor(accent.r, accent.g, accent.b)
	pdf.SetFont("Arial", "B", 22)
	pdf.SetXY(pageLeft, 18)
	pdf.CellFormat(0, 10, payload.DocumentType.Title(), "", 1, "L", false, 0, "")

	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Arial", "", 11)
	pdf.SetX(pageLeft)
	pdf.CellFormat(0, 6, "No. "+payload.DocumentNumber, "", 1, "L", false, 0, "")
	if payload.IssueDate != "" {
		pdf.SetX(pageLeft)
		pdf.CellFormat(0, 6, "Issued: "+payload.IssueDate, "", 1, "L", false, 0, "")
	}
	if payload.DueDate != "" {
		pdf.SetX(pageLeft)
		pdf.CellFormat(0, 6, "Due: "+payload.DueDate, "", 1, "L", false, 0, "")
	}

	pdf.SetDrawColor(accent.r, accent.g, accent.b)
	pdf.SetLineWidth(0.6)
	y := pdf.GetY() + 2
	pdf.Line(pageLeft, y, pageRight, y)
	pdf.SetY(y + 6)
}

func drawParties(pdf *gofpdf.Fpdf, payload domain.Payload) {
	startY := pdf.GetY()

	pdf.SetFont("Arial", "B", 10)
	pdf.SetXY(pageLeft, startY)
	pdf.CellFormat(85, 5, "FROM", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	writePartyLines(pdf, pageLeft, payload.Issuer)
	leftEnd := pdf.GetY()

	pdf.SetFont("Arial", "B", 10)
	pdf.SetXY(110, startY)
	pdf.CellFormat(85, 5, "BILL TO", "", 1, "L", false, 0, "")
	pdf.SetFont("Arial", "", 10)
	writePartyLines(pdf, 110, payload.Customer)
	rightEnd := pdf.GetY()

	if leftEnd > rightEnd {
		pdf.SetY(leftEnd + 6)
	} else {
		pdf.SetY(rightEnd + 6)
	}
}

func writePartyLines(pdf *gofpdf.Fpdf, x float64, party domain.Party) {
	lines := []string{party.Name, party.Address, party.Email, party.Phone}
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		pdf.SetX(x)
		pdf.CellFormat(85, 5, line, "", 1, "L", false, 0, "")
	}
}

func drawItems(pdf *gofpdf.Fpdf, payload domain.Payload, accent rgb) {
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(accent.r, accent.g, accent.b)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetX(pageLeft)
	pdf.CellFormat(80, 7, "DESCRIPTION", "", 0, "L", true, 0, "")
	pdf.CellFormat(25, 7, "QTY", "", 0, "R", true, 0, "")
	pdf.CellFormat(30, 7, "UNIT PRICE", "", 0, "R", true, 0, "")
	pdf.CellFormat(15, 7, "TAX %", "", 0, "R", true, 0, "")
	pdf.CellFormat(30, 7, "AMOUNT", "", 1, "R", true, 0, "")

	pdf.SetFont("Arial", "", 10)
	pdf.SetTextColor(0, 0, 0)
	for _, item := range payload.Items {
		pdf.SetX(pageLeft)
		pdf.CellFormat(80, 7, item.Description, "B", 0, "L", false, 0, "")
		pdf.CellFormat(25, 7, formatQuantity(item.Quantity), "B", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, formatMoney(item.UnitPrice, payload.Currency), "B", 0, "R", false, 0, "")
		pdf.CellFormat(15, 7, formatQuantity(item.TaxRate), "B", 0, "R", false, 0, "")
		pdf.CellFormat(30, 7, formatMoney(item.Amount(), payload.Currency), "B", 1, "R", false, 0, "")
	}
	pdf.Ln(4)
}

func drawTotals(pdf *gofpdf.Fpdf, payload domain.Payload) {
	totals := payload.ComputeTotals()

	pdf.SetFont("Arial", "", 10)
	writeTotalRow(pdf, "Subtotal", formatMoney(totals.Subtotal, payload.Currency))
	if totals.Tax != 0 {
		writeTotalRow(pdf, "Tax", formatMoney(totals.Tax, payload.Currency))
	}
	pdf.SetFont("Arial", "B", 12)
	writeTotalRow(pdf, "Total", formatMoney(totals.Total, payload.Currency))
}

func writeTotalRow(pdf *gofpdf.Fpdf, label, value string) {
	pdf.SetX(110)
	pdf.CellFormat(45, 7, label, "", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, value, "", 1, "R", false, 0, "")
}

func drawFooter(pdf *gofpdf.Fpdf, payload domain.Payload, footerNote string) {
	if strings.TrimSpace(payload.Notes) != "" {
		pdf.Ln(6)
		pdf.SetFont("Arial", "I", 9)
		pdf.SetX(pageLeft)
		pdf.MultiCell(pageRight-pageLeft, 5, payload.Notes, "", "L", false)
	}
	if footerNote != "" {
		pdf.Ln(4)
		pdf.SetFont("Arial", "", 8)
		pdf.SetTextColor(107, 114, 128)
		pdf.SetX(pageLeft)
		pdf.MultiCell(pageRight-pageLeft, 4, footerNote, "", "L", false)
		pdf.SetTextColor(0, 0, 0)
	}
}

func formatMoney(amount float64, currency string) string {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "USD"
	}
	return fmt.Sprintf("%s %.2f", currency, amount)
}

func formatQuantity(value float64) string {
	formatted := strconv.FormatFloat(value, 'f', 2, 64)
	formatted = strings.TrimRight(strings.TrimRight(formatted, "0"), ".")
	if formatted == "" {
		return "0"
	}
	return formatted
}

func parseHexColor(value string) (rgb, bool) {
	value = strings.TrimSpace(value)
	if len(value) != 7 || value[0] != '#' {
		return rgb{}, false
	}
	parsed, err := strconv.ParseUint(value[1:], 16, 32)
	if err != nil {
		return rgb{}, false
	}
	return rgb{
		r: int(parsed >> 16 & 0xff),
		g: int(parsed >> 8 & 0xff),
		b: int(parsed & 0xff),
	}, true
}
