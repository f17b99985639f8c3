package classify

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"
	"unicode/utf8"

	"google.golang.org/genai"
)

const excerptLimit = 500

var (
	leadingFence  = regexp.MustCompile("(?i)^```(?:json)?\\s*")
	trailingFence = regexp.MustCompile("\\s*```$")
)

// Extract pulls the answer text out of a model response: the first part with
// text that is not a thought, else the last part with any text. Markdown
// fences are removed.
func Extract(resp *genai.GenerateContentResponse) (string, error) {
	raw := answerText(responseParts(resp))
	if raw == "" {
		return "", ErrEmptyModelOutput
	}
	return StripCodeFences(raw), nil
}

// StripCodeFences removes a leading ```json or ``` and a trailing ```.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	s = leadingFence.ReplaceAllString(s, "")
	s = trailingFence.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

func responseParts(resp *genai.GenerateContentResponse) []*genai.Part {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil
	}
	cand := resp.Candidates[0]
	if cand == nil || cand.Content == nil {
		return nil
	}
	return cand.Content.Parts
}

func answerText(parts []*genai.Part) string {
	for _, p := range parts {
		if p != nil && p.Text != "" && !p.Thought {
			return p.Text
		}
	}
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] != nil && parts[i].Text != "" {
			return parts[i].Text
		}
	}
	return ""
}

// decodeObject parses text as exactly one JSON object.
func decodeObject(text string) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewBufferString(text))
	dec.UseNumber()
	var out map[string]any
	if err := dec.Decode(&out); err != nil {
		return nil, malformed(text, err)
	}
	if out == nil {
		return nil, malformed(text, errors.New("not a JSON object"))
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, malformed(text, errors.New("trailing data after JSON object"))
	}
	return out, nil
}

func malformed(text string, cause error) error {
	return fmt.Errorf("%w: %v. Raw: %s", ErrMalformedJSON, cause, truncate(text, excerptLimit))
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
