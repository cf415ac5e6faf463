package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/freightworks/quotation-service/internal/models"

	"github.com/jung-kurt/gofpdf"
)

// Generator отрисовывает PDF котировки в каталог загрузок. Котировка хранит
// только относительный URL вида /uploads/<file>, поэтому каталог можно
// переносить без миграции данных.
type Generator struct {
	UploadDir string
}

// NewGenerator создаёт новый экземпляр Generator.
func NewGenerator(uploadDir string) *Generator {
	return &Generator{UploadDir: uploadDir}
}

// FilePath возвращает путь на диске для относительного URL артефакта.
func (g *Generator) FilePath(pdfURL string) string {
	return filepath.Join(g.UploadDir, filepath.Base(pdfURL))
}

// Render отрисовывает PDF и возвращает относительный URL файла. Для
// анонимной котировки user может быть nil.
func (g *Generator) Render(ctx context.Context, quote *models.Quote, user *models.User) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := os.MkdirAll(g.UploadDir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}

	filename := fmt.Sprintf("quote_%s_%d.pdf", quote.ID, time.Now().UnixMilli())
	filePath := filepath.Join(g.UploadDir, filename)

	customerName, customerEmail := "Guest", "N/A"
	if user != nil {
		customerName, customerEmail = user.Name, user.Email
	}

	doc := gofpdf.New("P", "mm", "A4", "")
	doc.SetMargins(18, 18, 18)
	doc.AddPage()

	doc.SetFont("Helvetica", "B", 22)
	doc.CellFormat(0, 12, "FREIGHT QUOTATION", "", 1, "C", false, 0, "")
	doc.SetFont("Helvetica", "", 9)
	doc.SetTextColor(102, 102, 102)
	doc.CellFormat(0, 6, "Professional Freight Rate Quote", "", 1, "C", false, 0, "")
	doc.Ln(4)

	switch quote.QuoteStatus {
	case models.ApprovedQuote:
		doc.SetFillColor(144, 238, 144)
	case models.RejectedQuote:
		doc.SetFillColor(255, 182, 198)
	default:
		doc.SetFillColor(255, 215, 0)
	}
	doc.SetTextColor(0, 0, 0)
	doc.SetFont("Helvetica", "B", 10)
	doc.CellFormat(46, 9, "Status: "+strings.ToUpper(string(quote.QuoteStatus)), "", 1, "C", true, 0, "")
	doc.Ln(4)

	section := func(title string) {
		doc.SetFont("Helvetica", "B", 10)
		doc.SetTextColor(51, 51, 51)
		doc.CellFormat(0, 6, title, "", 1, "L", false, 0, "")
		doc.SetFont("Helvetica", "", 9)
		doc.SetTextColor(0, 0, 0)
	}
	line := func(format string, args ...interface{}) {
		doc.CellFormat(0, 5, fmt.Sprintf(format, args...), "", 1, "L", false, 0, "")
	}

	section("QUOTE INFORMATION")
	line("Quote ID: %s", quote.ID)
	line("Date: %s", quote.CreatedAt.Format("02 Jan 2006"))
	line("Customer: %s", customerName)
	line("Email: %s", customerEmail)
	doc.Ln(3)

	section("ROUTE")
	line("From: %s, %s", quote.OriginCity, quote.OriginCountry)
	line("To: %s, %s", quote.DestinationCity, quote.DestinationCountry)
	doc.Ln(3)

	section("SHIPMENT DETAILS")
	line("Weight: %.2f kg", quote.Weight)
	if quote.Volume != nil {
		line("Volume: %.2f m3", *quote.Volume)
	}
	line("Transport: %s", strings.ToUpper(string(quote.ModeOfTransport)))
	line("Delivery: %s", quote.DeliveryType)
	line("Shipment Date: %s", quote.ShipmentDate.Format("02 Jan 2006"))
	if quote.SpecialServices != "" {
		line("Special Services: %s", quote.SpecialServices)
	}
	doc.Ln(3)

	section("PRICING")
	line("Base Cost: $%.2f", quote.BaseCost)
	line("Fuel Surcharge: $%.2f", quote.Surcharges.Fuel)
	if quote.Surcharges.Urgency > 0 {
		line("Urgency Surcharge: $%.2f", quote.Surcharges.Urgency)
	}
	if quote.Surcharges.SpecialServices > 0 {
		line("Special Services Fee: $%.2f", quote.Surcharges.SpecialServices)
	}
	doc.Ln(2)

	doc.SetDrawColor(153, 153, 153)
	x, y := doc.GetX(), doc.GetY()
	doc.Line(x, y, 192, y)
	doc.Ln(3)

	doc.SetFont("Helvetica", "B", 13)
	doc.SetTextColor(220, 38, 38)
	doc.CellFormat(0, 8, fmt.Sprintf("TOTAL: $%.2f %s", quote.TotalPrice, quote.Currency), "", 1, "L", false, 0, "")

	doc.Ln(8)
	doc.SetFont("Helvetica", "", 8)
	doc.SetTextColor(153, 153, 153)
	doc.CellFormat(0, 4, "This quotation is valid for 30 days from the issue date.", "", 1, "C", false, 0, "")
	doc.CellFormat(0, 4, "Contact us to proceed with booking.", "", 1, "C", false, 0, "")

	if err := doc.OutputFileAndClose(filePath); err != nil {
		return "", fmt.Errorf("failed to write pdf: %w", err)
	}
	return "/uploads/" + filename, nil
}
