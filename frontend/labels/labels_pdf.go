package labels

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"

	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/code128"
	"github.com/boombuler/barcode/qr"
	"github.com/jung-kurt/gofpdf"

	"proptrack/models"
)

// Snapshot field truncation widths, tuned for a 2x1in label.
const (
	maxCultivarChars  = 25
	maxClientChars    = 20
	maxStagesChars    = 30
	maxPathogensChars = 35
)

const inchPerMM = 1.0 / 25.4

// RenderSheet lays a label batch out on US Letter pages. Every label
// carries the same code (the batch token resolves to one snapshot);
// only the cultivar numbering differs.
func RenderSheet(lb models.LabelBatch, opts PrintOptions) ([]byte, error) {
	if lb.NumLabels <= 0 {
		return nil, fmt.Errorf("no labels to render")
	}
	if opts.LabelWidth <= 0 || opts.LabelHeight <= 0 || opts.LabelsPerRow <= 0 {
		return nil, fmt.Errorf("invalid label layout")
	}
	labelsPerCol := int(10 / opts.LabelHeight)
	if labelsPerCol < 1 {
		labelsPerCol = 1
	}
	labelsPerPage := opts.LabelsPerRow * labelsPerCol

	codePNG, codeW, codeH, err := renderCodePNG(lb, opts)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "in", "Letter", "")
	pdf.SetTitle("Explant Labels", false)
	pdf.SetAutoPageBreak(false, 0)

	imgOpt := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	imageName := "label-code-" + lb.Token
	pdf.RegisterImageOptionsReader(imageName, imgOpt, bytes.NewReader(codePNG))

	pageW, pageH := pdf.GetPageSize()
	leftMargin := (pageW - float64(opts.LabelsPerRow)*opts.LabelWidth) / 2
	topMargin := (pageH - float64(labelsPerCol)*opts.LabelHeight) / 2

	lineH := 7.0 / 72 // 7pt leading
	for i := int64(0); i < lb.NumLabels; i++ {
		pageIdx := int(i) % labelsPerPage
		if pageIdx == 0 {
			pdf.AddPage()
		}
		row := pageIdx / opts.LabelsPerRow
		col := pageIdx % opts.LabelsPerRow
		x := leftMargin + float64(col)*opts.LabelWidth
		y := topMargin + float64(row)*opts.LabelHeight

		pdf.ImageOptions(imageName, x+2*inchPerMM, y+(opts.LabelHeight-codeH)/2, codeW, codeH, false, imgOpt, 0, "")

		textX := x + codeW + 4*inchPerMM
		textY := y + 4*inchPerMM

		if opts.IncludeCultivar {
			numbered := fmt.Sprintf("%s - %d", lb.Cultivar, opts.StartNumber+i)
			pdf.SetFont("Helvetica", "B", 6)
			pdf.Text(textX, textY, truncate(numbered, maxCultivarChars))
			textY += lineH
		}
		if opts.IncludeClient {
			pdf.SetFont("Helvetica", "", 5)
			pdf.Text(textX, textY, "Client: "+truncate(lb.ClientName, maxClientChars))
			textY += lineH
		}
		if opts.IncludeOrderDate {
			pdf.SetFont("Helvetica", "", 5)
			pdf.Text(textX, textY, "Order: "+lb.OrderDate)
			textY += lineH
		}
		if opts.IncludeInitDate {
			pdf.SetFont("Helvetica", "", 5)
			pdf.Text(textX, textY, "Init: "+lb.InitiationDate)
			textY += lineH
		}
		if opts.IncludeStages {
			pdf.SetFont("Helvetica", "", 5)
			pdf.Text(textX, textY, "Stage: "+truncate(lb.Stages, maxStagesChars))
			textY += lineH
		}
		if opts.IncludeExplants {
			explants := "N/A"
			if lb.NumExplants != nil {
				explants = fmt.Sprintf("%d", *lb.NumExplants)
			}
			pdf.SetFont("Helvetica", "", 5)
			pdf.Text(textX, textY, "Explants: "+explants)
			textY += lineH
		}
		if opts.IncludePathogens {
			pathogens := "none"
			if lb.PathogenStatus != nil && *lb.PathogenStatus != "" {
				pathogens = truncate(*lb.PathogenStatus, maxPathogensChars)
			}
			pdf.SetFont("Helvetica", "", 4)
			pdf.Text(textX, textY, "Pathogens: "+pathogens)
		}
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// renderCodePNG returns the code image plus its placed size in inches.
func renderCodePNG(lb models.LabelBatch, opts PrintOptions) ([]byte, float64, float64, error) {
	if opts.CodeType == CodeBarcode {
		raw, err := renderCode128PNG(lb.Token, 600, 200)
		if err != nil {
			return nil, 0, 0, err
		}
		return raw, 1.2, 0.4, nil
	}
	payload, err := PayloadFromBatch(lb).Encode()
	if err != nil {
		return nil, 0, 0, err
	}
	raw, err := renderQRPNG(payload, 400)
	if err != nil {
		return nil, 0, 0, err
	}
	return raw, 0.7, 0.7, nil
}

func renderQRPNG(value string, size int) ([]byte, error) {
	code, err := qr.Encode(value, qr.M, qr.Auto)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, size, size)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, toNRGBA(scaled)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderCode128PNG(value string, width, height int) ([]byte, error) {
	code, err := code128.Encode(value)
	if err != nil {
		return nil, err
	}
	scaled, err := barcode.Scale(code, width, height)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, toNRGBA(scaled)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func toNRGBA(src image.Image) *image.NRGBA {
	bounds := src.Bounds()
	dst := image.NewNRGBA(bounds)
	draw.Draw(dst, bounds, src, bounds.Min, draw.Src)
	return dst
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
