package classify

import (
	"testing"

	"commentscan/internal/extract"
	"commentscan/internal/languages"
	"commentscan/internal/oracle"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubJudge 按文本返回预设判定，未登记的文本视为无法解析。
type stubJudge struct {
	verdicts map[string]oracle.Verdict
	calls    []string
}

func (s *stubJudge) Classify(_ *languages.Language, text string) oracle.Verdict {
	s.calls = append(s.calls, text)
	if verdict, ok := s.verdicts[text]; ok {
		return verdict
	}
	return oracle.SyntaxInvalid
}

func newRealClassifier(t *testing.T) *Classifier {
	t.Helper()

	o, err := oracle.New(oracle.DefaultOptions())
	require.NoError(t, err)
	return New(o, languages.Python())
}

func block(lines ...string) extract.CommentBlock {
	return extract.CommentBlock{Lines: lines}
}

func TestSingleLineBlock(t *testing.T) {
	classifier := newRealClassifier(t)

	code := classifier.Block(block("x = 1"))
	assert.Equal(t, AllCode, code.Kind)
	assert.Equal(t, 1, code.Code)

	prose := classifier.Block(block("This explains the function above."))
	assert.Equal(t, AllNatural, prose.Kind)
	assert.Equal(t, 1, prose.Natural)

	trivial := classifier.Block(block("value"))
	assert.Equal(t, AllNatural, trivial.Kind)
	assert.Equal(t, oracle.NoCode, trivial.Verdict)
}

func TestSingleLineNeverExcluded(t *testing.T) {
	judge := &stubJudge{verdicts: map[string]oracle.Verdict{"huge": oracle.ResourceExhausted}}
	classifier := New(judge, languages.Python())

	result := classifier.Block(block("huge"))

	assert.Equal(t, AllNatural, result.Kind)
	assert.Equal(t, 1, result.Total())
}

func TestMultiLineBlockParsesAsWhole(t *testing.T) {
	classifier := newRealClassifier(t)

	result := classifier.Block(block("if ready:", "    start()", "else: stop()"))

	assert.Equal(t, AllCode, result.Kind)
	assert.Equal(t, 3, result.Code)
	assert.Equal(t, 0, result.Natural)
	assert.Equal(t, 3, result.Total())
}

func TestMultiLineFallbackPartialCount(t *testing.T) {
	classifier := newRealClassifier(t)

	result := classifier.Block(block(
		"Compute the totals here",
		"total = a + b",
		"and then return them",
	))

	assert.Equal(t, PartialCount, result.Kind)
	assert.Equal(t, 1, result.Code)
	assert.Equal(t, 2, result.Natural)
	assert.Equal(t, 3, result.Total())
}

func TestFallbackTreatsDanglingHeaderAsNatural(t *testing.T) {
	classifier := newRealClassifier(t)

	result := classifier.Block(block("x = 1", "if y:"))

	assert.Equal(t, PartialCount, result.Kind)
	assert.Equal(t, oracle.SyntaxInvalid, result.Verdict)
	assert.Equal(t, 1, result.Code)
	assert.Equal(t, 1, result.Natural)
}

func TestFallbackDeductsBlankLines(t *testing.T) {
	judge := &stubJudge{verdicts: map[string]oracle.Verdict{"x = 1": oracle.SubstantiveCode}}
	classifier := New(judge, languages.Python())

	result := classifier.Region(extract.LiteralRegion{Lines: []string{"intro text", "   ", "x = 1"}})

	assert.Equal(t, PartialCount, result.Kind)
	assert.Equal(t, 1, result.Blank)
	assert.Equal(t, 1, result.Code)
	assert.Equal(t, 1, result.Natural)
	assert.Equal(t, 2, result.Total())
	assert.True(t, result.Tally().Balanced())
}

func TestBlankCountDoesNotLeakBetweenUnits(t *testing.T) {
	judge := &stubJudge{}
	classifier := New(judge, languages.Python())

	first := classifier.Region(extract.LiteralRegion{Lines: []string{"a b", "", "c d"}})
	second := classifier.Region(extract.LiteralRegion{Lines: []string{"a b", "c d"}})

	assert.Equal(t, 1, first.Blank)
	assert.Equal(t, 0, second.Blank)
	assert.Equal(t, 2, second.Total())
}

func TestMultiLineResourceExhaustedIsExcluded(t *testing.T) {
	judge := &stubJudge{verdicts: map[string]oracle.Verdict{"a\nb": oracle.ResourceExhausted}}
	classifier := New(judge, languages.Python())

	result := classifier.Block(block("a", "b"))

	assert.Equal(t, Excluded, result.Kind)
	assert.Equal(t, 0, result.Total())
	assert.Equal(t, int64(0), result.Tally().Total)
	assert.Len(t, judge.calls, 1)
}

func TestMultiLineNoCodeIsNatural(t *testing.T) {
	judge := &stubJudge{verdicts: map[string]oracle.Verdict{"alpha\nbeta": oracle.NoCode}}
	classifier := New(judge, languages.Python())

	result := classifier.Block(block("alpha", "beta"))

	assert.Equal(t, AllNatural, result.Kind)
	assert.Equal(t, 2, result.Natural)
}

func TestSingleLineRegionTakesMultiLinePath(t *testing.T) {
	judge := &stubJudge{verdicts: map[string]oracle.Verdict{"big": oracle.ResourceExhausted}}
	classifier := New(judge, languages.Python())

	result := classifier.Region(extract.LiteralRegion{Lines: []string{"big"}})

	assert.Equal(t, Excluded, result.Kind)
}

func TestEmptyRegion(t *testing.T) {
	judge := &stubJudge{}
	classifier := New(judge, languages.Python())

	result := classifier.Region(extract.LiteralRegion{})

	assert.Equal(t, 0, result.Total())
	assert.Empty(t, judge.calls)
}

func TestClassificationIsIdempotent(t *testing.T) {
	classifier := newRealClassifier(t)
	unit := block("Compute the totals here", "total = a + b", "", "and then return them")

	first := classifier.Block(unit)
	second := classifier.Block(unit)

	assert.Equal(t, first, second)
}

func TestFileSummaryBalanced(t *testing.T) {
	classifier := newRealClassifier(t)
	units := extract.Result{
		Blocks: []extract.CommentBlock{
			block("x = 1"),
			block("This explains the function above."),
			block("Compute the totals here", "total = a + b", "and then return them"),
		},
		Regions: []extract.LiteralRegion{
			{Lines: []string{"Return the total.", "Raises nothing."}},
			{},
		},
	}

	summary := classifier.File(units)

	assert.Equal(t, 3, summary.Blocks)
	assert.Equal(t, 1, summary.Regions)
	assert.Equal(t, int64(7), summary.Tally.Total)
	assert.Equal(t, int64(2), summary.Tally.Code)
	assert.True(t, summary.Tally.Balanced())
}

func TestText(t *testing.T) {
	classifier := newRealClassifier(t)

	assert.Equal(t, AllCode, classifier.Text("x = 1").Kind)
	assert.Equal(t, AllCode, classifier.Text("for item in items:\n    handle(item)\n").Kind)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "partial_count", PartialCount.String())
	assert.Equal(t, "kind(7)", Kind(7).String())
}
