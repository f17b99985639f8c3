package classify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuildPrompt_Deterministic(t *testing.T) {
	cats := testSnapshot()
	assert.Equal(t, BuildPrompt(cats, "pothole"), BuildPrompt(cats, "pothole"))
	assert.Equal(t, BuildPrompt(cats, ""), BuildPrompt(cats, ""))
}

func TestBuildPrompt_RendersEveryCategory(t *testing.T) {
	p := BuildPrompt(testSnapshot(), "")
	for _, want := range []string{
		"ID: 1\n", `Name: "Pothole"`, `Group: "Roads"`, "Example Issues: holes, sinkholes", "Response Window: 3 - 14 days",
		"ID: 2\n", `Name: "Streetlight Outage"`, `Group: "Lighting"`, "Response Window: 1 - 7 days",
		"ID: 7\n", `Name: "Graffiti"`, `Group: "Public Spaces"`, "Response Window: 5 - 30 days",
	} {
		assert.Contains(t, p, want)
	}
}

func TestBuildPrompt_RepeatsValidSetNearSchema(t *testing.T) {
	p := BuildPrompt(testSnapshot(), "")
	format := p[strings.Index(p, "RESPONSE FORMAT"):]
	assert.Contains(t, format, "VALID CATEGORY IDs: 1, 2, 7")
	assert.Contains(t, format, `VALID CATEGORY NAMES: "Pothole", "Streetlight Outage", "Graffiti"`)
	assert.Contains(t, format, `"category_id": <integer, one of: 1, 2, 7>`)
	for _, field := range resultFields {
		assert.Contains(t, format, `"`+field+`"`)
	}
}

func TestBuildPrompt_FormulaAndRubric(t *testing.T) {
	p := BuildPrompt(testSnapshot(), "")
	assert.Contains(t, p, "due_date_days = max_response_days - ((severity - 1) / 4) * (max_response_days - min_response_days)")
	assert.Contains(t, p, "Round to the nearest whole number")
	for _, level := range []string{"1 - COSMETIC", "2 - LOW", "3 - MODERATE", "4 - HIGH", "5 - CRITICAL"} {
		assert.Contains(t, p, level)
	}
}

func TestBuildPrompt_RejectionScenarios(t *testing.T) {
	p := BuildPrompt(testSnapshot(), "")
	for _, scenario := range []string{
		"IMAGE-DESCRIPTION MISMATCH",
		"NOT A MUNICIPAL ISSUE",
		"FRAUDULENT OR STAGED",
		"STOCK OR DUPLICATE PHOTO",
		"UNIDENTIFIABLE",
	} {
		assert.Contains(t, p, scenario)
	}
	assert.Contains(t, p, "Rejected reports MUST still carry")
}

func TestBuildPrompt_DescriptionBlock(t *testing.T) {
	cats := testSnapshot()

	with := BuildPrompt(cats, `pothole near "Main St"`)
	assert.Contains(t, with, `The citizen wrote: "pothole near \"Main St\""`)
	assert.Contains(t, with, "You MUST verify that the image is relevant")
	assert.NotContains(t, with, "No description was provided")

	for _, empty := range []string{"", "   ", "\n\t"} {
		without := BuildPrompt(cats, empty)
		assert.Contains(t, without, "No description was provided")
		assert.Contains(t, without, "set image_matches_description to true")
		assert.NotContains(t, without, "The citizen wrote")
	}
}
