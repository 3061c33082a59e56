package utils

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"strconv"

	"bharatparcel/config"
	"bharatparcel/models"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/phpdave11/gofpdf"
)

// InvoiceRenderer turns invoice data into a PDF document.
type InvoiceRenderer interface {
	RenderInvoice(ctx context.Context, data *models.InvoicePDFData) ([]byte, error)
}

// NewInvoiceRenderer picks the renderer named by PDF_RENDERER.
func NewInvoiceRenderer(cfg *config.Config) InvoiceRenderer {
	if cfg.PDFRenderer == config.RendererChrome {
		return NewChromeInvoiceRenderer()
	}
	return FPDFInvoiceRenderer{}
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// FPDFInvoiceRenderer draws the invoice directly with gofpdf.
type FPDFInvoiceRenderer struct{}

func (FPDFInvoiceRenderer) RenderInvoice(_ context.Context, d *models.InvoicePDFData) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Tax Invoice", false)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "TAX INVOICE", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.Cell(0, 6, d.CompanyName)
	pdf.Ln(6)
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 5, d.CompanyAddress, "", "", false)
	pdf.Cell(0, 6, "GSTIN: "+d.CompanyGSTIN)
	pdf.Ln(10)

	pdf.Cell(0, 6, "Party Name: "+d.PartyName)
	pdf.Ln(6)
	pdf.Cell(0, 6, "Email: "+d.PartyEmail)
	pdf.Ln(10)

	widths := []float64{12, 25, 68, 28, 28, 28}
	header := []string{"SR", "Date", "Receiver", "Amount", "CGST", "SGST"}
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(235, 235, 235)
	for i, h := range header {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, l := range d.Lines {
		pdf.CellFormat(widths[0], 7, strconv.Itoa(l.SNo), "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[1], 7, l.Date, "1", 0, "C", false, 0, "")
		pdf.CellFormat(widths[2], 7, l.Receiver, "1", 0, "L", false, 0, "")
		pdf.CellFormat(widths[3], 7, money(l.Amount), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[4], 7, money(l.CGST), "1", 0, "R", false, 0, "")
		pdf.CellFormat(widths[5], 7, money(l.SGST), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(widths[0]+widths[1]+widths[2], 7, "TOTAL", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[3], 7, money(d.TotalAmount), "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[4], 7, money(d.TotalCGST), "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[5], 7, money(d.TotalSGST), "1", 0, "R", false, 0, "")
	pdf.Ln(12)

	pdf.Cell(0, 7, "GRAND TOTAL: Rs. "+money(d.GrandTotal))
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 6, "Amount in Words: "+d.TotalWords, "", "", false)
	pdf.Ln(12)
	pdf.CellFormat(0, 6, "For "+d.CompanyName, "", 1, "R", false, 0, "")
	pdf.CellFormat(0, 6, "DIRECTOR", "", 1, "R", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to write invoice pdf: %w", err)
	}
	return buf.Bytes(), nil
}

//go:embed templates/invoice.html
var templateFS embed.FS

// ChromeInvoiceRenderer renders the HTML invoice template with headless Chrome.
type ChromeInvoiceRenderer struct {
	tmpl *template.Template
}

func NewChromeInvoiceRenderer() *ChromeInvoiceRenderer {
	tmpl := template.Must(template.New("invoice.html").
		Funcs(template.FuncMap{"money": money}).
		ParseFS(templateFS, "templates/invoice.html"))
	return &ChromeInvoiceRenderer{tmpl: tmpl}
}

func (r *ChromeInvoiceRenderer) renderHTML(d *models.InvoicePDFData) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.Execute(&buf, d); err != nil {
		return "", fmt.Errorf("failed to render invoice template: %w", err)
	}
	return buf.String(), nil
}

func (r *ChromeInvoiceRenderer) RenderInvoice(ctx context.Context, d *models.InvoicePDFData) ([]byte, error) {
	html, err := r.renderHTML(d)
	if err != nil {
		return nil, err
	}

	ctx, cancel := chromedp.NewContext(ctx)
	defer cancel()

	var pdfBuf []byte
	err = chromedp.Run(ctx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			frameTree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(frameTree.Frame.ID, html).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			pdfBuf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(8.27).  // A4 width
				WithPaperHeight(11.7). // A4 height
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to print invoice: %w", err)
	}
	return pdfBuf, nil
}
