// Package export renders search results as downloadable documents.
package export

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"github.com/alex-user-go/voyage/internal/booking"
	"github.com/alex-user-go/voyage/internal/travel"
)

// ItineraryPDF renders the recommendations and option table of rs as an A4 PDF.
func ItineraryPDF(req travel.SearchRequest, rs *travel.ResultSet, generated time.Time) ([]byte, error) {
	if rs == nil {
		return nil, errors.New("no result set to export")
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.SetCreationDate(generated)
	pdf.SetTitle(fmt.Sprintf("%s to %s", req.Origin, req.Destination), true)
	pdf.AddPage()

	// Core fonts are cp1252; city and provider names arrive as UTF-8.
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	// Header bar
	pdf.SetFillColor(13, 24, 37)
	pdf.Rect(0, 0, 210, 26, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(15, 7)
	pdf.CellFormat(120, 10, "Voyage", "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.SetXY(15, 16)
	pdf.CellFormat(180, 6, "Travel options summary. Not a booking confirmation.", "", 1, "L", false, 0, "")

	pdf.SetY(32)
	pdf.SetTextColor(0, 0, 0)

	section := func(title string) {
		pdf.SetFillColor(13, 24, 37)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(180, 8, "  "+tr(title), "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(50, 7, tr(label), "", 0, "L", false, 0, "")
		pdf.SetTextColor(20, 20, 20)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(130, 7, tr(value), "", 1, "L", false, 0, "")
	}

	section("Trip")
	row("Route", fmt.Sprintf("%s to %s", req.Origin, req.Destination))
	row("Mode", string(req.Mode))
	row("Departure", readableDate(req.DepartureDate))
	if req.TripType == travel.RoundTrip {
		row("Return", readableDate(req.ReturnDate))
	}
	row("Generated", generated.Format("02 Jan 2006, 15:04 MST"))
	pdf.Ln(4)

	section("Recommendations")
	recs := rs.Recommendations
	row("Best", describe(recs.Best))
	row("Cheapest", describe(recs.Cheapest))
	row("Fastest", describe(recs.Fastest))
	row("Prices", fmt.Sprintf("lowest %s, average %s, highest %s",
		money(rs.PriceStats.Lowest), money(rs.PriceStats.Average), money(rs.PriceStats.Highest)))
	pdf.Ln(4)

	section("All options")
	widths := []float64{34, 22, 22, 22, 24, 56}
	headers := []string{"Provider", "Departs", "Arrives", "Duration", "Price", "Amenities"}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 233, 238)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 9)
	for _, o := range rs.Options {
		cells := []string{
			o.Provider,
			o.Departure.Time,
			o.Arrival.Time,
			o.Duration,
			money(o.Price),
			strings.Join(o.Amenities, ", "),
		}
		for i, c := range cells {
			pdf.CellFormat(widths[i], 7, truncate(pdf, tr(c), widths[i]-2), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	for _, o := range rs.Options {
		if u := booking.URL(o); u != booking.NoURL {
			pdf.CellFormat(180, 5, tr(fmt.Sprintf("%s: %s", o.Provider, u)), "", 1, "L", false, 0, u)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF output failed: %w", err)
	}
	return buf.Bytes(), nil
}

func describe(o *travel.Option) string {
	if o == nil {
		return "N/A"
	}
	return fmt.Sprintf("%s, %s to %s (%s), %s", o.Provider, o.Departure.Time, o.Arrival.Time, o.Duration, money(o.Price))
}

func money(amount int) string {
	return fmt.Sprintf("INR %d", amount)
}

func readableDate(d *time.Time) string {
	if d == nil {
		return "N/A"
	}
	return d.Format("02 Jan 2006 (Mon)")
}

// truncate shortens the cp1252 string s with a trailing ".." until it fits
// width. s is cut bytewise since each byte is one glyph.
func truncate(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}
	b := s
	for len(b) > 0 && pdf.GetStringWidth(b+"..") > width {
		b = b[:len(b)-1]
	}
	return b + ".."
}
