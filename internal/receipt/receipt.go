package receipt

import (
	"bytes"
	"fmt"
	"time"

	"pitch-booking/internal/data/entity"
	"pitch-booking/pkg/utils"

	"github.com/phpdave11/gofpdf"
)

// Data is everything printed on a booking receipt.
type Data struct {
	Booking  *entity.Booking
	Pitch    *entity.Pitch
	Payments []*entity.Payment
	IssuedAt time.Time
}

// Build renders a single-page A4 receipt and returns the PDF bytes and a filename.
func Build(d Data) ([]byte, string, error) {
	if d.Booking == nil || d.Pitch == nil {
		return nil, "", fmt.Errorf("receipt needs a booking and its pitch")
	}
	b := d.Booking

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Booking Receipt "+b.OrderID, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "BOOKING RECEIPT")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	line(pdf, "Order ID", b.OrderID)
	line(pdf, "Issued", d.IssuedAt.Format("2006-01-02 15:04"))
	line(pdf, "Status", string(b.Status))
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Customer")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	line(pdf, "Name", b.CustomerName)
	line(pdf, "Phone", b.CustomerPhone)
	line(pdf, "Email", b.CustomerEmail)
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Slot")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	line(pdf, "Pitch", d.Pitch.Name)
	line(pdf, "Location", d.Pitch.Location)
	line(pdf, "Date", b.BookingDate.Format("2006-01-02"))
	line(pdf, "Time", fmt.Sprintf("%02d:00 - %02d:00", b.Hour, b.Hour+1))
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Amounts")
	pdf.Ln(7)
	pdf.SetFont("Helvetica", "", 12)
	line(pdf, "Price", utils.FormatMoney(b.Price))
	if b.DiscountCode != nil {
		line(pdf, "Discount ("+*b.DiscountCode+")", "-"+utils.FormatMoney(b.DiscountValue))
	}
	line(pdf, "Deposit paid", utils.FormatMoney(b.PaidAmount))
	pdf.SetFont("Helvetica", "B", 12)
	line(pdf, "Due at the pitch", utils.FormatMoney(b.RemainingAmount))

	if len(d.Payments) > 0 {
		pdf.Ln(4)
		pdf.SetFont("Helvetica", "", 10)
		for _, p := range d.Payments {
			pdf.MultiCell(0, 6, fmt.Sprintf("%s  %s  %s  %s (%s)",
				p.CreatedAt.Format("2006-01-02 15:04"), p.Provider, p.TransactionID,
				utils.FormatMoney(p.Amount), p.Status), "", "", false)
		}
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Please arrive 10 minutes before your slot. The remaining amount is paid at the pitch.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", fmt.Errorf("render receipt %s: %w", b.OrderID, err)
	}

	return buf.Bytes(), fmt.Sprintf("RECEIPT_%s.pdf", b.OrderID), nil
}

func line(pdf *gofpdf.Fpdf, label, value string) {
	pdf.Cell(45, 7, label)
	pdf.Cell(0, 7, ": "+value)
	pdf.Ln(7)
}
