package structure

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roboco-io/manustruct/internal/config"
	"github.com/roboco-io/manustruct/internal/contract"
	"github.com/roboco-io/manustruct/internal/ir"
)

func newDetector() *Detector {
	return New(config.DefaultScoring(), contract.Default(), "ieee", nil)
}

func docFrom(texts ...string) *ir.Document {
	doc := ir.NewDocument()
	for i, text := range texts {
		doc.AddBlock(ir.NewBlock(fmt.Sprintf("b%d", i+1), (i+1)*100, text))
	}
	return doc
}

func TestMatchNumbering(t *testing.T) {
	tests := []struct {
		text  string
		depth int
		ok    bool
	}{
		{"1 Introduction", 1, true},
		{"1. Introduction", 1, true},
		{"2.3 Analysis", 2, true},
		{"1.2.3 Deep Section", 3, true},
		{"IV. Evaluation", 1, true},
		{"Introduction", 0, false},
		{"a) item", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.text, func(t *testing.T) {
			depth, ok := MatchNumbering(tc.text)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.depth, depth)
		})
	}
}

func TestMatchKeyword(t *testing.T) {
	kw, major, ok := MatchKeyword("Introduction")
	require.True(t, ok)
	assert.True(t, major)
	assert.Equal(t, "Introduction", kw)

	kw, major, ok = MatchKeyword("3 Related Work")
	require.True(t, ok)
	assert.False(t, major)
	assert.Equal(t, "Related Work", kw)

	_, _, ok = MatchKeyword("The introduction of new methods")
	assert.False(t, ok)
}

func TestRejectHeading(t *testing.T) {
	cfg := config.DefaultScoring()
	tests := []struct {
		name     string
		text     string
		rejected bool
	}{
		{"pronoun opener", "This paper proposes a new method for inference", true},
		{"sentence punctuation", "A plain sentence about nothing in particular.", true},
		{"multi sentence", "First thought. Second Thought here", true},
		{"caption marker", "Figure 3: Pipeline Overview", true},
		{"citation bracket", "[12] Doe, J. et al.", true},
		{"numbered citation", "1. Doe, J. Advances in Parsing (2019)", true},
		{"numbered heading ok", "1. Introduction", false},
		{"keyword ok", "Methods", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, rejected := RejectHeading(tc.text, cfg)
			assert.Equal(t, tc.rejected, rejected)
		})
	}
}

func TestRejectHeading_TooLong(t *testing.T) {
	long := ""
	for len(long) <= 120 {
		long += "Word "
	}
	_, rejected := RejectHeading(long, config.DefaultScoring())
	assert.True(t, rejected)
}

func TestEvaluate_Numbering(t *testing.T) {
	b := ir.NewBlock("b1", 100, "2.1 Related Work")
	sig := Evaluate(b, 10, Position{}, config.DefaultScoring())

	assert.True(t, sig.Numbered)
	assert.Equal(t, 2, sig.Level)
	assert.GreaterOrEqual(t, sig.Score, 0.8)
}

func TestEvaluate_StyleOutlier(t *testing.T) {
	b := ir.NewBlock("b1", 100, "Unnumbered Heading Text")
	b.Style = ir.Style{Bold: true, FontSize: 16}

	sig := Evaluate(b, 10, Position{}, config.DefaultScoring())

	// large font (0.5) + bold (0.3)
	assert.InDelta(t, 0.8, sig.Score, 0.001)
}

func TestEvaluate_PositionNeverCreatesCandidate(t *testing.T) {
	cfg := config.DefaultScoring()
	b := ir.NewBlock("b1", 100, "Short Isolated Line")
	b.SetFlag(ir.MetaBlankBefore, true)
	b.SetFlag(ir.MetaBlankAfter, true)
	pos := Position{Isolated: true, BlankBefore: true, BlankAfter: true}

	sig := Evaluate(b, 10, pos, cfg)

	// fallback alone stays below the heading threshold
	assert.Less(t, sig.Score, cfg.HeadingThreshold)
}

func TestPosition_BoostCapped(t *testing.T) {
	cfg := config.DefaultScoring()
	pos := Position{IsFirst: true, Isolated: true, BlankBefore: true, BlankAfter: true, Ratio: 0}

	boost := pos.Boost(cfg)
	assert.LessOrEqual(t, boost, cfg.PositionBoostMax)
	assert.Greater(t, boost, 0.0)
}

func TestPosition_BoostFollowsConfiguredWeights(t *testing.T) {
	cfg := config.DefaultScoring()
	cfg.PositionFirstBoost = 0.2
	cfg.PositionIsolatedBoost = 0
	cfg.PositionBlankBoost = 0.07
	cfg.PositionEarlyBoost = 0
	cfg.PositionBoostMax = 1.0

	first := Position{IsFirst: true, Ratio: 0.5}
	assert.InDelta(t, 0.2, first.Boost(cfg), 0.001)

	spaced := Position{BlankBefore: true, BlankAfter: false, Ratio: 0.5}
	assert.InDelta(t, 0.07, spaced.Boost(cfg), 0.001)

	cfg.PositionBlankBoost = 0
	assert.InDelta(t, 0.0, spaced.Boost(cfg), 0.001,
		"zeroed weights disable the boost entirely")
}

func TestStripNumbering(t *testing.T) {
	assert.Equal(t, "Introduction", StripNumbering("1 Introduction"))
	assert.Equal(t, "Related Work", StripNumbering("2.1 Related Work"))
	assert.Equal(t, "Evaluation", StripNumbering("IV. Evaluation"))
	assert.Equal(t, "Abstract", StripNumbering("Abstract"))
}

func TestRun_TitleRule(t *testing.T) {
	doc := docFrom(
		"A Study of Manuscript Automation",
		"John Doe, Jane Smith",
	)

	require.NoError(t, newDetector().Run(doc))

	title := doc.Blocks[0]
	assert.Equal(t, ir.BlockTypeTitle, title.Type)
	assert.Equal(t, 0, title.Level)
	assert.Equal(t, 1.0, title.Confidence)

	// Author line gains no heading candidacy.
	assert.False(t, doc.Blocks[1].Flag(ir.MetaHeadingCandidate))
}

func TestRun_TitleRule_NumberedFirstBlockIsNotTitle(t *testing.T) {
	doc := docFrom("1 Introduction", "Body text follows without terminal punct")

	require.NoError(t, newDetector().Run(doc))

	assert.NotEqual(t, ir.BlockTypeTitle, doc.Blocks[0].Type)
	assert.True(t, doc.Blocks[0].Flag(ir.MetaHeadingCandidate))
}

func TestRun_HierarchyParents(t *testing.T) {
	doc := docFrom(
		"A Study of Manuscript Automation",
		"2 Background",
		"Some prose about the field without a final stop",
		"2.1 Related Work",
		"More prose on related approaches without a final stop",
	)

	require.NoError(t, newDetector().Run(doc))

	background := doc.Blocks[1]
	related := doc.Blocks[3]

	require.True(t, background.Flag(ir.MetaHeadingCandidate))
	require.True(t, related.Flag(ir.MetaHeadingCandidate))

	assert.Equal(t, 1, background.Level)
	assert.Equal(t, 2, related.Level)
	assert.Equal(t, background.ID, related.ParentID)

	// IEEE contract rewrites Related Work to Background.
	assert.Equal(t, "Background", related.SectionName)
}

func TestRun_SectionNameInheritance(t *testing.T) {
	doc := docFrom(
		"A Study of Manuscript Automation",
		"Front matter prose before any heading",
		"1 Introduction",
		"Body paragraph inside the introduction",
	)

	require.NoError(t, newDetector().Run(doc))

	assert.Empty(t, doc.Blocks[1].SectionName, "blocks before the first heading carry no section name")
	assert.Equal(t, "Introduction", doc.Blocks[2].SectionName)
	assert.Equal(t, "Introduction", doc.Blocks[3].SectionName)
}

func TestRun_AnchoredEmptyInheritsSectionName(t *testing.T) {
	doc := docFrom(
		"A Study of Manuscript Automation",
		"1 Introduction",
		"",
		"Prose after the figure anchor without a final stop",
	)
	doc.Blocks[2].SetFlag(ir.MetaHasFigure, true)

	require.NoError(t, newDetector().Run(doc))

	assert.Equal(t, "Introduction", doc.Blocks[2].SectionName)
	assert.Equal(t, "Introduction", doc.Blocks[3].SectionName)
}

func TestRun_PronounOpenerGuard(t *testing.T) {
	doc := docFrom(
		"A Study of Manuscript Automation",
		"1 Introduction",
		"This paper proposes a new method for structure recovery.",
	)
	styled := doc.Blocks[2]
	styled.Style = ir.Style{Bold: true, FontSize: 16}

	require.NoError(t, newDetector().Run(doc))

	assert.False(t, styled.Flag(ir.MetaHeadingCandidate),
		"narrative opener must be rejected despite heading-like styling")
}

func TestRun_AbstractSafetyLookback(t *testing.T) {
	doc := docFrom(
		"A Study of Manuscript Automation",
		"Abstract",
		"Large Styled Fragment",
		"1 Introduction",
	)
	// Abstract body fragment styled like a heading.
	doc.Blocks[2].Style = ir.Style{Bold: true, FontSize: 18}
	for _, b := range doc.Blocks {
		if b.Style.FontSize == 0 {
			b.Style.FontSize = 10
		}
	}

	require.NoError(t, newDetector().Run(doc))

	assert.True(t, doc.Blocks[1].Flag(ir.MetaHeadingCandidate), "Abstract keyword is a candidate")
	assert.False(t, doc.Blocks[2].Flag(ir.MetaHeadingCandidate),
		"style evidence alone cannot open a section inside the abstract")
	assert.True(t, doc.Blocks[3].Flag(ir.MetaHeadingCandidate), "numbered heading ends the abstract")
}

func TestRun_LevelJumpWarning(t *testing.T) {
	doc := docFrom(
		"A Study of Manuscript Automation",
		"1 Introduction",
		"1.1.1 Deep Jump",
	)

	require.NoError(t, newDetector().Run(doc))

	deep := doc.Blocks[2]
	require.True(t, deep.Flag(ir.MetaHeadingCandidate))
	assert.Equal(t, 3, deep.Level)
	require.NotEmpty(t, deep.Warnings)
	assert.Contains(t, deep.Warnings[0], "level jumps")
}

func TestRun_SkipsPageFurniture(t *testing.T) {
	doc := docFrom(
		"A Study of Manuscript Automation",
		"1 Introduction",
		"Journal of Examples Vol 3",
	)
	doc.Blocks[2].SetFlag(ir.MetaIsHeader, true)
	doc.Blocks[2].Style = ir.Style{Bold: true, FontSize: 18}

	require.NoError(t, newDetector().Run(doc))

	furniture := doc.Blocks[2]
	assert.False(t, furniture.Flag(ir.MetaHeadingCandidate))
	assert.Empty(t, furniture.SectionName, "page furniture is excluded from section logic")
}

func TestRun_ParentLevelStrictlyLess(t *testing.T) {
	doc := docFrom(
		"A Study of Manuscript Automation",
		"1 Introduction",
		"1.1 Motivation",
		"2 Background",
		"2.1 Related Work",
		"2.1.1 Surveys",
		"3 Methods",
	)

	require.NoError(t, newDetector().Run(doc))

	for _, b := range doc.Blocks {
		if b.ParentID == "" {
			continue
		}
		parent := doc.BlockByID(b.ParentID)
		require.NotNil(t, parent)
		assert.Less(t, parent.Level, b.Level,
			"parent %s must enclose %s", parent.Text, b.Text)
	}
}
