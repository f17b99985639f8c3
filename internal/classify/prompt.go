package classify

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"civicsight/internal/taxonomy"
)

const (
	promptVersion = "civicsight-classify-v1"
	rule          = "================================================================\n"
	categoryRule  = "  ----------------------------------------\n"
)

// BuildPrompt renders the classification prompt for one request. It performs
// no I/O; the same snapshot and description always produce the same text.
func BuildPrompt(cats taxonomy.Snapshot, description string) string {
	ids := joinIDs(cats)
	names := joinNames(cats)

	var buf bytes.Buffer
	section(&buf, "CIVICSIGHT MUNICIPAL ISSUE CLASSIFIER")
	buf.WriteString(strings.TrimSpace(`
You are the first automated triage step for a city's issue reporting service.
A citizen photographed something in a public place. Your answer is stored in the
municipal reports database and decides which department is dispatched and how fast.

Examine the whole image: ground surface, structures, signage, vegetation,
utilities, and anything in the background. Then:
  1. Identify the most prominent public infrastructure problem. If several are
     visible, classify the most severe one.
  2. Judge the safety risk to pedestrians, cyclists and drivers.
  3. Pick EXACTLY ONE category from the list below. Example issues are guidance;
     the visible problem does not have to match them literally.
  4. Calibrate your confidence to how clearly the problem is visible.
  5. Check the image against the citizen's description, if one was given.
  6. Decide whether this is a genuine municipal issue at all.
`))
	buf.WriteString("\n\n")

	section(&buf, "CATEGORIES")
	for i, c := range cats {
		if i > 0 {
			buf.WriteString("\n")
		}
		buf.WriteString(categoryRule)
		buf.WriteString(fmt.Sprintf("  ID: %d\n", c.ID))
		buf.WriteString(fmt.Sprintf("  Name: %s\n", strconv.Quote(c.Name)))
		buf.WriteString(fmt.Sprintf("  Group: %s\n", strconv.Quote(c.Group)))
		buf.WriteString(fmt.Sprintf("  Example Issues: %s\n", c.ExampleIssues))
		buf.WriteString(fmt.Sprintf("  Response Window: %d - %d days\n", c.MinResponseDays, c.MaxResponseDays))
	}
	buf.WriteString(categoryRule)
	buf.WriteString("\n")

	section(&buf, "CITIZEN DESCRIPTION")
	writeDescriptionBlock(&buf, description)
	buf.WriteString("\n")

	section(&buf, "SEVERITY SCALE")
	buf.WriteString(`  1 - COSMETIC: minor visual issue, no safety risk or functional impact.
      E.g. a small graffiti tag, slightly faded road paint.
  2 - LOW: noticeable issue with minimal risk that may worsen over time.
      E.g. a hairline road crack, minor litter.
  3 - MODERATE: needs attention within the standard timeframe; some
      inconvenience or minor risk. E.g. a medium pothole, an overflowing bin,
      a leaning sign.
  4 - HIGH: risk of injury or major inconvenience; needs priority response.
      E.g. a deep pothole on a busy road, a large branch over a sidewalk.
  5 - CRITICAL: immediate hazard needing emergency response.
      E.g. a downed power line, an open manhole on the road, a burst water
      main, a collapsed road surface.
`)
	buf.WriteString("\n")

	section(&buf, "DUE DATE")
	buf.WriteString(`Use this exact formula with the chosen category's response window:

  due_date_days = max_response_days - ((severity - 1) / 4) * (max_response_days - min_response_days)

Round to the nearest whole number. Severity 5 gives min_response_days,
severity 1 gives max_response_days, severity 3 the midpoint.
`)
	buf.WriteString("\n")

	section(&buf, "PRIORITY")
	buf.WriteString(`  severity 1 or 2 -> "low"
  severity 3      -> "medium"
  severity 4      -> "high"
  severity 5      -> "critical"
`)
	buf.WriteString("\n")

	section(&buf, "RESPONSE FORMAT")
	buf.WriteString("Respond with ONLY a single JSON object. No markdown, no code fences,\n")
	buf.WriteString("no text before or after it.\n\n")
	buf.WriteString(fmt.Sprintf("VALID CATEGORY IDs: %s\n", ids))
	buf.WriteString(fmt.Sprintf("VALID CATEGORY NAMES: %s\n\n", names))
	buf.WriteString("{\n")
	buf.WriteString(fmt.Sprintf("  \"category_id\": <integer, one of: %s>,\n", ids))
	buf.WriteString(`  "category_name": "<exact name of the chosen category>",
  "category_group": "<exact group of the chosen category>",
  "severity": <integer 1-5>,
  "confidence": <number 0.0-1.0, two decimals>,
  "ai_description": "<1-2 sentences, under 200 characters, describing what is actually visible>",
  "due_date_days": <integer from the formula above>,
  "suggested_priority": "<low|medium|high|critical>",
  "is_valid_report": <boolean, true only for a genuine municipal issue that matches the description>,
  "rejection_reason": "<string when is_valid_report is false, otherwise null>",
  "image_matches_description": <boolean, true when no description was given or the image matches it>
}
`)
	buf.WriteString("\n")

	section(&buf, "REJECTION SCENARIOS (is_valid_report = false)")
	buf.WriteString(`  1. IMAGE-DESCRIPTION MISMATCH: the description names something the image
     does not show.
     rejection_reason: "Image does not match description. Description mentions [X] but image shows [Y]."
  2. NOT A MUNICIPAL ISSUE: food, selfies, pets, indoor scenes, personal items,
     memes, screenshots, or anything unrelated to public infrastructure.
     rejection_reason: "Image does not show a municipal infrastructure issue. Image appears to show [what you see]."
  3. FRAUDULENT OR STAGED: the image is staged, edited or AI-generated to fake an issue.
     rejection_reason: "Image appears to be [staged/manipulated/AI-generated]. Not a genuine field report."
  4. STOCK OR DUPLICATE PHOTO: the image looks downloaded rather than taken on site.
     rejection_reason: "Image appears to be a stock photo or downloaded image, not a genuine on-site photograph."
  5. UNIDENTIFIABLE: too blurry, dark or obscured to identify any issue.
     rejection_reason: "Image quality too poor to identify any municipal issue. Please retake the photo with better lighting/focus."

Rejected reports MUST still carry category_id, category_name, category_group,
severity, confidence and ai_description for audit logging. Use the closest
matching category, severity 1, and your real confidence in what you see.
`)
	buf.WriteString("\n")

	section(&buf, "RULES")
	buf.WriteString(fmt.Sprintf("  1. category_id MUST be one of: %s. Never invent categories or ids.\n", ids))
	buf.WriteString(fmt.Sprintf("  2. category_name MUST be one of: %s, matching the chosen id.\n", names))
	buf.WriteString(`  3. If is_valid_report is false, rejection_reason MUST NOT be null.
  4. If is_valid_report is true, rejection_reason MUST be null.
  5. If image_matches_description is false, is_valid_report MUST be false.
  6. ai_description describes what is in the image whether or not the report is valid.
  7. Output nothing but the JSON object.
`)
	return buf.String()
}

func section(buf *bytes.Buffer, title string) {
	buf.WriteString(rule)
	buf.WriteString("  " + title + "\n")
	buf.WriteString(rule)
	buf.WriteString("\n")
}

func writeDescriptionBlock(buf *bytes.Buffer, description string) {
	if strings.TrimSpace(description) == "" {
		buf.WriteString(`No description was provided. Classify from the image alone, skip the
description check, and set image_matches_description to true.
`)
		return
	}
	buf.WriteString(fmt.Sprintf("The citizen wrote: %s\n\n", strconv.Quote(description)))
	buf.WriteString(`You MUST verify that the image is relevant to this description:
  - Does the image show anything related to what the citizen described?
  - Would a reasonable person agree the image matches it? Minor wording
    differences are fine ("hole in road" for a pothole).
  - Could this be a fake or misleading report?
The IMAGE is the source of truth. If it does not match the description:
  - set image_matches_description to false
  - set is_valid_report to false
  - give a rejection_reason explaining the mismatch
  - still fill the classification fields from what the image actually shows
`)
}

func joinIDs(cats taxonomy.Snapshot) string {
	ids := cats.IDs()
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, ", ")
}

func joinNames(cats taxonomy.Snapshot) string {
	names := cats.Names()
	parts := make([]string, len(names))
	for i, n := range names {
		parts[i] = strconv.Quote(n)
	}
	return strings.Join(parts, ", ")
}
