package extract

import (
	"strings"
	"testing"

	"commentscan/internal/languages"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlocksGroupConsecutiveComments(t *testing.T) {
	lines := []string{
		"# -*- coding: utf-8 -*-",
		"# x = 1",
		"# y = 2",
		"value = 3",
		"    # note",
	}

	blocks := Blocks(lines, languages.Python(), nil)

	require.Len(t, blocks, 2)
	assert.Equal(t, 1, blocks[0].Start)
	assert.Equal(t, []string{"x = 1", "y = 2"}, blocks[0].Lines)
	assert.Equal(t, "x = 1\ny = 2", blocks[0].Text())
	assert.Equal(t, 4, blocks[1].Start)
	assert.Equal(t, 1, blocks[1].Len())
}

func TestPragmaOnlySkippedOnFirstLine(t *testing.T) {
	lines := []string{"x = 1", "# -*- coding: utf-8 -*-"}

	blocks := Blocks(lines, languages.Python(), nil)

	require.Len(t, blocks, 1)
	assert.Equal(t, []string{"-*- coding: utf-8 -*-"}, blocks[0].Lines)
}

func TestEmptyCommentLinesAreSkipped(t *testing.T) {
	lines := []string{"# first", "#", "#    ", "# second"}

	blocks := Blocks(lines, languages.Python(), nil)

	require.Len(t, blocks, 1)
	assert.Equal(t, []string{"first", "second"}, blocks[0].Lines)
}

func TestBlankOnlyBlockProducesNothing(t *testing.T) {
	blocks := Blocks([]string{"#", "#   ", "#\t"}, languages.Python(), nil)
	assert.Empty(t, blocks)
}

func TestBlocksAreDedented(t *testing.T) {
	lines := []string{
		"#     if ready:",
		"#         start()",
	}

	blocks := Blocks(lines, languages.Python(), nil)

	require.Len(t, blocks, 1)
	assert.Equal(t, []string{"if ready:", "    start()"}, blocks[0].Lines)
}

func TestPythonRegions(t *testing.T) {
	text := strings.Join([]string{
		"def f():",
		`    """`,
		"    Return x.",
		"",
		"    Extra detail.",
		`    """`,
		"    return x",
		"s = '''a = 1'''",
	}, "\n")

	regions := Regions(text, languages.Python())

	require.Len(t, regions, 2)
	assert.Equal(t, 1, regions[0].Start)
	assert.Equal(t, 5, regions[0].End)
	assert.Equal(t, []string{"Return x.", "Extra detail."}, regions[0].Lines)
	assert.Equal(t, []string{"a = 1"}, regions[1].Lines)
	assert.Equal(t, 7, regions[1].Start)
}

func TestJavaScriptRegionsStripDecoration(t *testing.T) {
	text := strings.Join([]string{
		"/**",
		" * Adds two numbers.",
		" *",
		" * const total = add(1, 2);",
		" */",
		"function add(a, b) { return a + b; }",
	}, "\n")

	regions := Regions(text, languages.JavaScript())

	require.Len(t, regions, 1)
	assert.Equal(t, []string{"Adds two numbers.", "const total = add(1, 2);"}, regions[0].Lines)
}

func TestOverlapPolicies(t *testing.T) {
	lines := []string{
		`"""`,
		"# x = 1",
		`"""`,
		"# y = 2",
	}
	python := languages.Python()

	independent := Extract(lines, python, OverlapIndependent)
	assert.Len(t, independent.Blocks, 2)
	require.Len(t, independent.Regions, 1)
	assert.Equal(t, []string{"# x = 1"}, independent.Regions[0].Lines)

	deduped := Extract(lines, python, OverlapDedupe)
	require.Len(t, deduped.Blocks, 1)
	assert.Equal(t, []string{"y = 2"}, deduped.Blocks[0].Lines)
	assert.Len(t, deduped.Regions, 1)
}

func TestParseOverlap(t *testing.T) {
	overlap, err := ParseOverlap("")
	require.NoError(t, err)
	assert.Equal(t, OverlapIndependent, overlap)

	overlap, err = ParseOverlap(" DEDUPE ")
	require.NoError(t, err)
	assert.Equal(t, OverlapDedupe, overlap)

	_, err = ParseOverlap("merge")
	assert.Error(t, err)
}
