// Package report renders the printable field briefing document handed to
// on-site municipal workers. It consumes an already-resolved issue: the
// image URL must be a presigned GET URL, not a stored storage reference.
package report

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// Briefing is the resolved issue data the document is built from.
type Briefing struct {
	TrackingID  string
	Status      string
	Department  string
	Location    string
	Title       string
	Description string
	ReportedAt  time.Time
	// ImageURL is a presigned GET URL for the issue photo; empty when the
	// report has no photo. Fetching is best effort.
	ImageURL string
	// AdminURL is the portal link encoded in the QR code.
	AdminURL string
}

const imageFetchTimeout = 5 * time.Second

// statusColor maps a lifecycle status to its RGB highlight in the metadata
// table.
func statusColor(status string) (r, g, b int) {
	switch status {
	case "pending":
		return 0x6B, 0x72, 0x80
	case "in_progress":
		return 0xD9, 0x77, 0x06
	case "escalated":
		return 0xB9, 0x1C, 0x1C
	case "resolved":
		return 0x15, 0x80, 0x3D
	default:
		return 0, 0, 0
	}
}

// BuildBriefing renders the A4 briefing PDF and returns its bytes.
func BuildBriefing(b Briefing) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 28, 15)
	pdf.SetAutoPageBreak(true, 22)

	pdf.SetHeaderFunc(func() {
		// Black brand band across the top.
		pdf.SetFillColor(0, 0, 0)
		pdf.Rect(0, 0, 210, 20, "F")

		pdf.SetTextColor(255, 255, 255)
		pdf.SetFont("Helvetica", "B", 16)
		pdf.Text(15, 9, "ReportMitra")
		pdf.SetFont("Helvetica", "", 8)
		pdf.Text(15, 15, "CIVIC | CONNECT | RESOLVE")

		pdf.SetFont("Helvetica", "B", 11)
		title := "Issue Field Briefing Report"
		pdf.Text(210-15-pdf.GetStringWidth(title), 12, title)

		pdf.SetTextColor(0, 0, 0)
	})

	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d", pdf.PageNo()), "", 0, "L", false, 0, "")
	})

	pdf.AddPage()

	// Purpose line.
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(120, 120, 120)
	pdf.MultiCell(0, 5, "This document is generated to assist on-site municipal workers with issue verification, safety assessment, and resolution.", "", "L", false)
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(4)

	// Metadata table.
	meta := []struct {
		label, value string
		colored      bool
	}{
		{"Tracking ID", b.TrackingID, false},
		{"Status", strings.ToUpper(b.Status), true},
		{"Department", b.Department, false},
		{"Location", b.Location, false},
		{"Reported On", b.ReportedAt.Format("02 Jan 2006, 03:04 PM"), false},
	}
	pdf.SetDrawColor(150, 150, 150)
	for _, row := range meta {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(245, 245, 245)
		pdf.CellFormat(45, 8, row.label, "1", 0, "L", true, 0, "")

		pdf.SetFont("Helvetica", "", 9)
		if row.colored {
			r, g, bl := statusColor(b.Status)
			pdf.SetTextColor(r, g, bl)
		}
		pdf.CellFormat(135, 8, row.value, "1", 1, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	sectionHeader := func(text string) {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.CellFormat(0, 7, text, "", 1, "L", false, 0, "")
		pdf.Ln(1)
	}

	sectionHeader("Issue Title")
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 6, b.Title, "", "L", false)

	sectionHeader("Issue Description")
	pdf.SetFillColor(249, 250, 251)
	pdf.SetFont("Helvetica", "", 10)
	pdf.MultiCell(0, 6, b.Description, "1", "L", true)

	sectionHeader("Issue Image (On-site Reference)")
	if b.ImageURL != "" {
		if imgData, imgType, err := fetchImage(b.ImageURL); err == nil {
			name := "issue_photo"
			pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: imgType}, bytes.NewReader(imgData))
			pdf.ImageOptions(name, 45, pdf.GetY(), 120, 0, true, gofpdf.ImageOptions{ImageType: imgType}, 0, "")
		} else {
			pdf.SetFont("Helvetica", "I", 9)
			pdf.CellFormat(0, 6, "Image unavailable.", "", 1, "L", false, 0, "")
		}
	} else {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, 6, "No image attached to this report.", "", 1, "L", false, 0, "")
	}

	sectionHeader("Allocated To (Fill on-site)")
	pdf.SetDrawColor(0, 0, 0)
	pdf.Rect(15, pdf.GetY(), 180, 14, "D")
	pdf.Ln(16)

	if b.AdminURL != "" {
		sectionHeader("Quick Access (Admin Reference)")
		if qrPNG, err := qrcode.Encode(b.AdminURL, qrcode.Medium, 256); err == nil {
			pdf.RegisterImageOptionsReader("qr", gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
			pdf.ImageOptions("qr", 15, pdf.GetY(), 28, 28, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
			pdf.SetY(pdf.GetY() + 30)
		}
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, 6, "Scan to view issue details on the ReportMitra Admin Portal.", "", 1, "L", false, 0, "")
	}

	pdf.Ln(8)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, "Verified by ReportMitra - Admin Side", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 6, "Official municipal record generated digitally.", "", 1, "L", false, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("rendering briefing PDF: %w", err)
	}
	return buf.Bytes(), nil
}

// fetchImage downloads the issue photo via its presigned URL. Errors are
// reported so the caller can degrade to a placeholder; a missing photo never
// fails the document.
func fetchImage(url string) (data []byte, imgType string, err error) {
	client := &http.Client{Timeout: imageFetchTimeout}
	resp, err := client.Get(url)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("image fetch returned %s", resp.Status)
	}

	data, err = io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}

	imgType = "JPG"
	if strings.Contains(resp.Header.Get("Content-Type"), "png") {
		imgType = "PNG"
	}
	return data, imgType, nil
}
