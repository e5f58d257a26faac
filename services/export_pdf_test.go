package services

import (
	"testing"
	"time"
)

func TestGeneratePDF_Quote(t *testing.T) {
	data := BuildQuoteExport(sampleQuote(t).Snapshot(), time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC))

	result, err := GeneratePDF(data)
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GeneratePDF() returned empty bytes")
	}
	// PDF files start with %PDF
	if len(result) > 4 && string(result[:5]) != "%PDF-" {
		t.Errorf("result does not start with PDF header, got %q", string(result[:5]))
	}
}

func TestGeneratePDF_EmptyItems(t *testing.T) {
	data := ExportData{
		Title:       "Empty Quote",
		CreatedDate: "15 Jan 2025",
		Rows:        []ExportRow{},
	}

	result, err := GeneratePDF(data)
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	if len(result) == 0 {
		t.Fatal("GeneratePDF() returned empty bytes")
	}
}

func TestGeneratePDF_ManyRows(t *testing.T) {
	q := &Quote{newID: sequentialIDs()}
	for i := 0; i < 60; i++ {
		q.AddItem(mustBuild(t, Selection{ProductID: "gutter", Pieces: 1, LengthCm: float64(50 + i*10)}))
	}

	result, err := GeneratePDF(BuildQuoteExport(q.Snapshot(), time.Now()))
	if err != nil {
		t.Fatalf("GeneratePDF() error = %v", err)
	}
	if len(result) < 5 || string(result[:5]) != "%PDF-" {
		t.Error("multi-page quote did not render as PDF")
	}
}
