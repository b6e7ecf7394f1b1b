package services

import (
	"bytes"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"

	"tripplanner/database"
)

type blockKind int

const (
	blockText blockKind = iota
	blockHeading
	blockSubheading
	blockBullet
)

type textBlock struct {
	kind blockKind
	text string
}

var (
	tagPattern   = regexp.MustCompile(`(?s)<(/?)([a-zA-Z0-9]+)[^>]*>`)
	spacePattern = regexp.MustCompile(`[ \t\r\n]+`)
)

// htmlBlocks flattens generated itinerary HTML into headings, bullets and paragraphs.
// Unknown tags are dropped; their text is kept.
func htmlBlocks(src string) []textBlock {
	var (
		blocks []textBlock
		cur    strings.Builder
		kind   = blockText
	)

	flush := func() {
		text := strings.TrimSpace(spacePattern.ReplaceAllString(html.UnescapeString(cur.String()), " "))
		if text != "" {
			blocks = append(blocks, textBlock{kind: kind, text: text})
		}
		cur.Reset()
		kind = blockText
	}

	last := 0
	for _, m := range tagPattern.FindAllStringSubmatchIndex(src, -1) {
		cur.WriteString(src[last:m[0]])
		last = m[1]

		closing := src[m[2]:m[3]] == "/"
		switch strings.ToLower(src[m[4]:m[5]]) {
		case "h1", "h2":
			flush()
			if !closing {
				kind = blockHeading
			}
		case "h3", "h4":
			flush()
			if !closing {
				kind = blockSubheading
			}
		case "li":
			flush()
			if !closing {
				kind = blockBullet
			}
		case "p", "div", "br", "ul", "ol", "tr":
			flush()
		}
	}
	cur.WriteString(src[last:])
	flush()

	return blocks
}

// RenderTripPDF lays out a saved trip as an A4 document.
func RenderTripPDF(trip database.SavedTrip) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(20, 20, 20)
	pdf.SetAutoPageBreak(true, 25)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetFooterFunc(func() {
		pdf.SetY(-18)
		pdf.SetDrawColor(200, 200, 200)
		pdf.SetLineWidth(0.3)
		pdf.Line(20, pdf.GetY(), 190, pdf.GetY())
		pdf.SetFont("Helvetica", "I", 8)
		pdf.SetTextColor(150, 150, 150)
		pdf.CellFormat(0, 8,
			fmt.Sprintf("AI-generated itinerary. Prices are estimates and subject to change.   Page %d", pdf.PageNo()),
			"", 0, "C", false, 0, "")
	})

	pdf.AddPage()

	// ── Header Bar ───────────────────────────────────────────
	pdf.SetFillColor(13, 24, 37)
	pdf.Rect(0, 0, 210, 28, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(20, 8)
	pdf.CellFormat(170, 10, tr(trip.Destination), "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(212, 168, 67)
	pdf.SetXY(20, 18)
	pdf.CellFormat(170, 6, "AI-Powered Travel Itinerary", "", 1, "L", false, 0, "")

	pdf.SetY(35)

	// ── Section Helper ───────────────────────────────────────
	sectionHeader := func(title string) {
		pdf.SetFillColor(13, 24, 37)
		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 11)
		pdf.CellFormat(170, 8, "  "+tr(title), "", 1, "L", true, 0, "")
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(2)
	}

	row := func(label, value string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(55, 7, label, "", 0, "L", false, 0, "")
		pdf.SetTextColor(20, 20, 20)
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(115, 7, tr(value), "", 1, "L", false, 0, "")
	}

	// ── Trip Overview ─────────────────────────────────────────
	sectionHeader("Trip Overview")
	row("Destination", trip.Destination)
	row("Dates", fmt.Sprintf("%s - %s", trip.StartDate.Format("02 Jan 2006 (Mon)"), trip.EndDate.Format("02 Jan 2006 (Mon)")))
	row("Duration", fmt.Sprintf("%d days", TripDuration(trip.StartDate, trip.EndDate)))
	row("Travelling as", CompanionPhrases.Phrase(trip.Companions))
	row("Activities", joinPhrases(ActivityPhrases.Phrases(trip.Activities)))
	if trip.OriginLocation != nil && trip.TransportationMode != nil {
		row("Travel", fmt.Sprintf("From %s by %s", *trip.OriginLocation, *trip.TransportationMode))
	}
	row("Generated", trip.CreatedAt.UTC().Format("02 Jan 2006, 15:04 UTC"))
	pdf.Ln(4)

	// ── Itinerary ─────────────────────────────────────────────
	sectionHeader("Itinerary")
	for _, b := range htmlBlocks(trip.TripHTML) {
		switch b.kind {
		case blockHeading:
			pdf.Ln(2)
			pdf.SetFont("Helvetica", "B", 13)
			pdf.SetTextColor(13, 24, 37)
			pdf.MultiCell(170, 6, tr(b.text), "", "L", false)
			pdf.Ln(1)
		case blockSubheading:
			pdf.SetFont("Helvetica", "B", 11)
			pdf.SetTextColor(40, 40, 40)
			pdf.MultiCell(170, 5.5, tr(b.text), "", "L", false)
		case blockBullet:
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetTextColor(40, 40, 40)
			pdf.SetX(25)
			pdf.MultiCell(165, 5, tr("- "+b.text), "", "L", false)
		default:
			pdf.SetFont("Helvetica", "", 10)
			pdf.SetTextColor(40, 40, 40)
			pdf.MultiCell(170, 5, tr(b.text), "", "L", false)
			pdf.Ln(1)
		}
	}

	// ── Write to buffer ───────────────────────────────────────
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("PDF output failed: %w", err)
	}
	return buf.Bytes(), nil
}

// PDFFilename is the attachment name offered for a trip download.
func PDFFilename(trip database.SavedTrip) string {
	name := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '-'
		}
	}, trip.Destination)
	name = strings.Trim(name, "-")
	if name == "" {
		name = "trip"
	}
	return fmt.Sprintf("%s-%s.pdf", name, trip.StartDate.Format(time.DateOnly))
}
