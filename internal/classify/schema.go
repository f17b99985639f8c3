package classify

import "google.golang.org/genai"

var resultFields = []string{
	"category_id",
	"category_name",
	"category_group",
	"severity",
	"confidence",
	"ai_description",
	"due_date_days",
	"suggested_priority",
	"is_valid_report",
	"rejection_reason",
	"image_matches_description",
}

// responseSchema constrains model output to the Result shape. All fields are
// required; rejection_reason may be null.
func responseSchema() *genai.Schema {
	nullable := true
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"category_id":               {Type: genai.TypeInteger},
			"category_name":             {Type: genai.TypeString},
			"category_group":            {Type: genai.TypeString},
			"severity":                  {Type: genai.TypeInteger},
			"confidence":                {Type: genai.TypeNumber},
			"ai_description":            {Type: genai.TypeString},
			"due_date_days":             {Type: genai.TypeInteger},
			"suggested_priority":        {Type: genai.TypeString, Enum: []string{"low", "medium", "high", "critical"}},
			"is_valid_report":           {Type: genai.TypeBoolean},
			"rejection_reason":          {Type: genai.TypeString, Nullable: &nullable},
			"image_matches_description": {Type: genai.TypeBoolean},
		},
		Required:         append([]string(nil), resultFields...),
		PropertyOrdering: append([]string(nil), resultFields...),
	}
}
