package normalize

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roboco-io/manustruct/internal/config"
	"github.com/roboco-io/manustruct/internal/ir"
)

func newNormalizer() *Normalizer {
	return New(config.DefaultScoring(), nil)
}

func docFrom(texts ...string) *ir.Document {
	doc := ir.NewDocument()
	for i, text := range texts {
		doc.AddBlock(ir.NewBlock(fmt.Sprintf("b%d", i+1), (i+1)*100, text))
	}
	return doc
}

func TestCleanText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"smart quotes", "“quoted” and ‘single’", `"quoted" and 'single'`},
		{"dashes", "pre–post and em—dash", "pre-post and em--dash"},
		{"nbsp", "a b", "a b"},
		{"multi space", "a    b", "a b"},
		{"multi newline", "a\n\n\n\nb", "a\n\nb"},
		{"already clean", "Nothing to do here.", "Nothing to do here."},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, cleanText(tc.input))
		})
	}
}

func TestCleanText_Idempotent(t *testing.T) {
	inputs := []string{
		"“Smart” – text with   space\n\n\n\nand more",
		"plain text",
		"1 Introduction",
	}
	for _, in := range inputs {
		once := cleanText(in)
		assert.Equal(t, once, cleanText(once), "cleanText must be idempotent for %q", in)
	}
}

func TestRepairText(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		repaired bool
	}{
		{"1ntroduction", "1 Introduction", true},
		{"2ethods", "2 Methods", true},
		{"3.1esults", "3.1 Results", true},
		{"1 Introduction", "1 Introduction", false},
		{"10 items were tested", "10 items were tested", false},
		{"Introduction", "Introduction", false},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got, ok := repairText(tc.input)
			assert.Equal(t, tc.repaired, ok)
			assert.Equal(t, tc.expected, got)
		})
	}
}

func TestSplitGlued(t *testing.T) {
	head, tail, ok := splitGlued("1 IntroductionScientific progress depends on careful work.")
	require.True(t, ok)
	assert.Equal(t, "1 Introduction", head)
	assert.Equal(t, "Scientific progress depends on careful work.", tail)
}

func TestSplitGlued_NoMatch(t *testing.T) {
	cases := []string{
		"1 Introduction",                   // nothing glued
		"Scientific progress depends on.",  // no heading prefix
		"IntroductionX",                    // tail too short, no punctuation
		"The introduction explains things", // keyword not at start
	}
	for _, text := range cases {
		_, _, ok := splitGlued(text)
		assert.False(t, ok, "expected no split for %q", text)
	}
}

func TestRun_SplitCreatesDerivedBlock(t *testing.T) {
	doc := docFrom("1 IntroductionScientific progress depends on careful measurement.", "Next paragraph.")

	require.NoError(t, newNormalizer().Run(doc))

	require.Len(t, doc.Blocks, 3)
	assert.Equal(t, "1 Introduction", doc.Blocks[0].Text)
	assert.Equal(t, "b1", doc.Blocks[0].ID)
	assert.Equal(t, 100, doc.Blocks[0].Index)

	derived := doc.Blocks[1]
	assert.Equal(t, "b1-split", derived.ID)
	assert.Equal(t, 101, derived.Index)
	assert.Equal(t, "Scientific progress depends on careful measurement.", derived.Text)
}

func TestRun_SplitSkipsAnchoredBlocks(t *testing.T) {
	doc := docFrom("1 IntroductionScientific progress depends on careful measurement.")
	doc.Blocks[0].SetFlag(ir.MetaHasFigure, true)

	require.NoError(t, newNormalizer().Run(doc))

	require.Len(t, doc.Blocks, 1)
	assert.Contains(t, doc.Blocks[0].Text, "IntroductionScientific")
}

func TestRun_SplitRequiresIndexGap(t *testing.T) {
	doc := ir.NewDocument()
	doc.AddBlock(ir.NewBlock("b1", 100, "1 IntroductionScientific progress depends on careful measurement."))
	doc.AddBlock(ir.NewBlock("b2", 101, "No gap here."))

	require.NoError(t, newNormalizer().Run(doc))

	require.Len(t, doc.Blocks, 2)
	assert.Contains(t, doc.Blocks[0].Warnings[0], "no index gap")
}

func TestRun_ConsolidateWrappedHeading(t *testing.T) {
	doc := ir.NewDocument()
	a := ir.NewBlock("b1", 100, "4 Experimental")
	a.Style = ir.Style{Bold: true, FontSize: 14}
	b := ir.NewBlock("b2", 200, "Evaluation Setup")
	b.Style = ir.Style{Bold: true, FontSize: 14}
	body := ir.NewBlock("b3", 300, "We ran the benchmark on a dedicated machine with pinned cores.")
	body.Style = ir.Style{FontSize: 10}
	doc.AddBlock(a)
	doc.AddBlock(b)
	doc.AddBlock(body)

	require.NoError(t, newNormalizer().Run(doc))

	require.Len(t, doc.Blocks, 2)
	assert.Equal(t, "4 Experimental Evaluation Setup", doc.Blocks[0].Text)
}

func TestRun_NoConsolidateAcrossPunctuation(t *testing.T) {
	doc := ir.NewDocument()
	a := ir.NewBlock("b1", 100, "A short sentence.")
	a.Style = ir.Style{Bold: true}
	b := ir.NewBlock("b2", 200, "Another short one")
	b.Style = ir.Style{Bold: true}
	doc.AddBlock(a)
	doc.AddBlock(b)

	require.NoError(t, newNormalizer().Run(doc))

	require.Len(t, doc.Blocks, 2)
}

func TestRun_DeduplicateDropsExactlyOne(t *testing.T) {
	doc := docFrom("Repeated paragraph text.", "Repeated paragraph text.", "Different text.")
	before := len(doc.Blocks)

	require.NoError(t, newNormalizer().Run(doc))

	assert.Equal(t, before-1, len(doc.Blocks))
	require.NotEmpty(t, doc.Blocks[0].Warnings)
	assert.Contains(t, doc.Blocks[0].Warnings[0], "duplicate")
}

func TestRun_DifferentStyleIsNotDuplicate(t *testing.T) {
	doc := docFrom("Same text.", "Same text.")
	doc.Blocks[1].Style.Bold = true

	require.NoError(t, newNormalizer().Run(doc))

	assert.Len(t, doc.Blocks, 2)
}

func TestRun_FilterDropsEmptyOrphans(t *testing.T) {
	doc := docFrom("Real content.", "   ", "")
	doc.Blocks[2].SetFlag(ir.MetaHasEquation, true)

	require.NoError(t, newNormalizer().Run(doc))

	require.Len(t, doc.Blocks, 2)
	assert.Equal(t, "Real content.", doc.Blocks[0].Text)
	assert.True(t, doc.Blocks[1].Flag(ir.MetaHasEquation), "anchored empty block must survive")
}

func TestRun_NoLossOfNonWhitespaceText(t *testing.T) {
	texts := []string{
		"A Study of Manuscript Automation",
		"John Doe, Jane Smith",
		"Abstract",
		"This paper examines automated manuscript structuring in detail.",
		"1 Introduction",
		"Scientific progress depends on careful measurement.",
	}
	doc := docFrom(texts...)

	require.NoError(t, newNormalizer().Run(doc))

	surviving := make(map[string]bool)
	for _, b := range doc.Blocks {
		surviving[b.Text] = true
	}
	for _, text := range texts {
		assert.True(t, surviving[text], "text %q must survive normalization", text)
	}
}

func TestRun_Idempotent(t *testing.T) {
	doc := docFrom(
		"“Smart quotes” everywhere",
		"1 IntroductionScientific progress depends on careful measurement.",
		"Body text follows here.",
		"Body text follows here.",
		"3iscussion",
		"   ",
	)

	n := newNormalizer()
	require.NoError(t, n.Run(doc))

	first := make([]string, len(doc.Blocks))
	for i, b := range doc.Blocks {
		first[i] = b.Text
	}

	require.NoError(t, n.Run(doc))
	require.Len(t, doc.Blocks, len(first))
	for i, b := range doc.Blocks {
		assert.Equal(t, first[i], b.Text)
	}
}

func TestRun_InvariantsHoldAfterStage(t *testing.T) {
	doc := docFrom(
		"1 IntroductionScientific progress depends on careful measurement.",
		"More text.",
		"More text.",
		"  ",
	)

	require.NoError(t, newNormalizer().Run(doc))
	require.NoError(t, doc.CheckInvariants())
}
