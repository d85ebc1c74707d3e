package labels

import (
	"bytes"
	"strings"
	"testing"

	"proptrack/models"
)

func sampleBatch() models.LabelBatch {
	pathogens := "Hop Latent Viroid"
	explants := int64(100)
	return models.LabelBatch{
		ID:             1,
		OrderID:        1,
		Token:          "0d1f7a3c-9a1b-4a2e-8c3d-5e6f7a8b9c0d",
		ClientName:     "Green Valley",
		Cultivar:       "Blue Dream",
		OrderDate:      "2025-01-10",
		InitiationDate: "2025-01-15",
		Stages:         "Initiation, Multiplication",
		PathogenStatus: &pathogens,
		NumExplants:    &explants,
		NumLabels:      10,
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	raw, err := PayloadFromBatch(sampleBatch()).Encode()
	if err != nil {
		t.Fatalf("encode payload: %v", err)
	}
	for _, key := range []string{`"uuid"`, `"client"`, `"cultivar"`, `"order_date"`, `"init_date"`, `"stages"`, `"pathogens"`, `"num_explants"`} {
		if !strings.Contains(raw, key) {
			t.Fatalf("payload missing %s: %s", key, raw)
		}
	}

	p, err := DecodePayload(raw)
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	if p.Token != "0d1f7a3c-9a1b-4a2e-8c3d-5e6f7a8b9c0d" || p.Client != "Green Valley" {
		t.Fatalf("round trip lost data: %+v", p)
	}
	if p.NumExplants == nil || *p.NumExplants != 100 {
		t.Fatalf("explant count lost: %+v", p.NumExplants)
	}
}

func TestPayloadNullPathogens(t *testing.T) {
	lb := sampleBatch()
	lb.PathogenStatus = nil
	raw, err := PayloadFromBatch(lb).Encode()
	if err != nil {
		t.Fatalf("encode payload: %v", err)
	}
	if !strings.Contains(raw, `"pathogens":null`) {
		t.Fatalf("absent pathogens should encode as null: %s", raw)
	}
}

func TestRenderSheetQR(t *testing.T) {
	raw, err := RenderSheet(sampleBatch(), DefaultPrintOptions())
	if err != nil {
		t.Fatalf("render sheet: %v", err)
	}
	if !bytes.HasPrefix(raw, []byte("%PDF")) {
		t.Fatalf("output is not a PDF: %q", raw[:8])
	}
}

func TestRenderSheetBarcode(t *testing.T) {
	opts := DefaultPrintOptions()
	opts.CodeType = CodeBarcode
	raw, err := RenderSheet(sampleBatch(), opts)
	if err != nil {
		t.Fatalf("render barcode sheet: %v", err)
	}
	if !bytes.HasPrefix(raw, []byte("%PDF")) {
		t.Fatalf("output is not a PDF: %q", raw[:8])
	}
}

func TestRenderSheetRejectsBadLayout(t *testing.T) {
	opts := DefaultPrintOptions()
	opts.LabelsPerRow = 0
	if _, err := RenderSheet(sampleBatch(), opts); err == nil {
		t.Fatal("expected rejection of zero labels per row")
	}
	lb := sampleBatch()
	lb.NumLabels = 0
	if _, err := RenderSheet(lb, DefaultPrintOptions()); err == nil {
		t.Fatal("expected rejection of an empty batch")
	}
}

func TestRenderCSVNumbersLabels(t *testing.T) {
	lb := sampleBatch()
	lb.NumLabels = 3
	raw, err := RenderCSV(lb, 5)
	if err != nil {
		t.Fatalf("render csv: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header plus 3 rows, got %d lines", len(lines))
	}
	if lines[0] != "cultivar,client_name,order_date,initiation_date,stages,num_explants,pathogen_status,uuid" {
		t.Fatalf("unexpected header: %q", lines[0])
	}
	if !strings.HasPrefix(lines[1], "Blue Dream - 5,") || !strings.HasPrefix(lines[3], "Blue Dream - 7,") {
		t.Fatalf("labels not numbered from start: %v", lines[1:])
	}
}
