package ir

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestNewDocument(t *testing.T) {
	doc := NewDocument()

	if doc.Version != FormatVersion {
		t.Errorf("expected version %s, got %s", FormatVersion, doc.Version)
	}
	if doc.ID == "" {
		t.Error("expected generated document id")
	}
	if len(doc.Blocks) != 0 {
		t.Errorf("expected empty document, got %d blocks", len(doc.Blocks))
	}
}

func TestNewBlock(t *testing.T) {
	b := NewBlock("b1", 100, "Hello, World!")

	if b.Type != BlockTypeUnknown {
		t.Errorf("expected unknown type, got %s", b.Type)
	}
	if b.Index != 100 {
		t.Errorf("expected index 100, got %d", b.Index)
	}
}

func TestBlock_Flags(t *testing.T) {
	b := NewBlock("b1", 100, "")

	if b.Flag(MetaHasFigure) {
		t.Error("expected unset flag to be false")
	}

	b.SetFlag(MetaHasFigure, true)
	if !b.Flag(MetaHasFigure) {
		t.Error("expected has_figure flag to be set")
	}
	if !b.HasAnchor() {
		t.Error("expected figure-anchored block to report an anchor")
	}
}

func TestBlock_MetaFloat(t *testing.T) {
	b := NewBlock("b1", 100, "text")

	if _, ok := b.MetaFloat(MetaNLPConfidence); ok {
		t.Error("expected missing key to report absence")
	}

	b.SetMeta(MetaNLPConfidence, 0.7)
	v, ok := b.MetaFloat(MetaNLPConfidence)
	if !ok || v != 0.7 {
		t.Errorf("expected 0.7, got %v (ok=%v)", v, ok)
	}

	// JSON decoding and direct assignment both happen in practice.
	b.SetMeta(MetaNLPConfidence, 1)
	v, ok = b.MetaFloat(MetaNLPConfidence)
	if !ok || v != 1.0 {
		t.Errorf("expected int to coerce to 1.0, got %v (ok=%v)", v, ok)
	}
}

func TestBlock_ClassifyClampsConfidence(t *testing.T) {
	b := NewBlock("b1", 100, "text")

	b.Classify(BlockTypeBody, 1.4, "test")
	if b.Confidence != 1.0 {
		t.Errorf("expected confidence clamped to 1.0, got %f", b.Confidence)
	}

	b.Classify(BlockTypeBody, -0.2, "test")
	if b.Confidence != 0.0 {
		t.Errorf("expected confidence clamped to 0.0, got %f", b.Confidence)
	}
}

func TestDocument_CheckInvariants(t *testing.T) {
	doc := NewDocument()
	doc.AddBlock(NewBlock("b1", 100, "one"))
	doc.AddBlock(NewBlock("b2", 200, "two"))

	if err := doc.CheckInvariants(); err != nil {
		t.Fatalf("expected valid document, got %v", err)
	}

	doc.AddBlock(NewBlock("b1", 300, "dup id"))
	err := doc.CheckInvariants()
	if err == nil {
		t.Fatal("expected duplicate id to be rejected")
	}
	if !errors.Is(err, ErrInvariant) {
		t.Errorf("expected ErrInvariant, got %v", err)
	}
}

func TestDocument_CheckInvariants_IndexOrder(t *testing.T) {
	doc := NewDocument()
	doc.AddBlock(NewBlock("b1", 200, "one"))
	doc.AddBlock(NewBlock("b2", 200, "same index"))

	if err := doc.CheckInvariants(); !errors.Is(err, ErrInvariant) {
		t.Errorf("expected ErrInvariant for duplicate index, got %v", err)
	}

	doc.Blocks[1].Index = 100
	if err := doc.CheckInvariants(); !errors.Is(err, ErrInvariant) {
		t.Errorf("expected ErrInvariant for decreasing index, got %v", err)
	}
}

func TestDocument_Clone(t *testing.T) {
	doc := NewDocument()
	b := NewBlock("b1", 100, "original")
	b.SetFlag(MetaHasFigure, true)
	doc.AddBlock(b)

	snapshot := doc.Clone()
	doc.Blocks[0].Text = "mutated"
	doc.Blocks[0].SetFlag(MetaHasFigure, false)

	if snapshot.Blocks[0].Text != "original" {
		t.Error("expected clone to be unaffected by mutation")
	}
	if !snapshot.Blocks[0].Flag(MetaHasFigure) {
		t.Error("expected cloned metadata to be independent")
	}
}

func TestDocument_MedianFontSize(t *testing.T) {
	doc := NewDocument()
	sizes := []float64{10, 10, 12, 24, 10}
	for i, s := range sizes {
		b := NewBlock("b"+string(rune('a'+i)), (i+1)*100, "text")
		b.Style.FontSize = s
		doc.AddBlock(b)
	}

	if got := doc.MedianFontSize(); got != 10 {
		t.Errorf("expected median 10, got %f", got)
	}
}

func TestDocument_MedianFontSize_Empty(t *testing.T) {
	doc := NewDocument()
	if got := doc.MedianFontSize(); got != 0 {
		t.Errorf("expected 0 for empty document, got %f", got)
	}
}

func TestHeadingForLevel(t *testing.T) {
	tests := []struct {
		level    int
		expected BlockType
	}{
		{0, BlockTypeHeading1},
		{1, BlockTypeHeading1},
		{2, BlockTypeHeading2},
		{3, BlockTypeHeading3},
		{4, BlockTypeHeading4},
		{7, BlockTypeHeading4},
	}

	for _, tc := range tests {
		if got := HeadingForLevel(tc.level); got != tc.expected {
			t.Errorf("HeadingForLevel(%d) = %s, want %s", tc.level, got, tc.expected)
		}
	}
}

func TestDocument_JSONSerialization(t *testing.T) {
	doc := NewDocument()
	doc.Metadata.Title = "Test Document"

	b := NewBlock("b1", 100, "Introduction")
	b.Classify(BlockTypeHeading1, 0.9, "numbering")
	b.Level = 1
	doc.AddBlock(b)

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		t.Fatalf("failed to marshal: %v", err)
	}

	var restored Document
	if err := json.Unmarshal(data, &restored); err != nil {
		t.Fatalf("failed to unmarshal: %v", err)
	}

	if restored.Metadata.Title != doc.Metadata.Title {
		t.Errorf("title mismatch: expected %s, got %s", doc.Metadata.Title, restored.Metadata.Title)
	}
	if len(restored.Blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(restored.Blocks))
	}
	if restored.Blocks[0].Type != BlockTypeHeading1 {
		t.Errorf("expected heading_1, got %s", restored.Blocks[0].Type)
	}
}
