package vision

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kaptinlin/jsonschema"
)

const (
	maxTitleLength       = 100
	maxDescriptionLength = 500
)

// responseSchema pins the extraction response contract: a JSON array.
// Element-level tolerance stays in the loop on purpose; models sometimes
// mix junk elements or return numbers where strings were asked for, and
// one bad element must not discard the rest.
var responseSchema = mustCompileSchema(`{"type": "array"}`)

func mustCompileSchema(source string) *jsonschema.Schema {
	schema, err := jsonschema.NewCompiler().Compile([]byte(source))
	if err != nil {
		panic(err)
	}
	return schema
}

// parseEvents parses the model's response text into validated drafts.
// Elements without a title are dropped; titles and descriptions are
// length-capped at the extraction boundary.
func parseEvents(raw string) ([]EventDraft, error) {
	text := stripFence(strings.TrimSpace(raw))

	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, fmt.Errorf("response is not valid JSON: %w", err)
	}

	if result := responseSchema.Validate(parsed); !result.IsValid() {
		return nil, fmt.Errorf("response is not a JSON array")
	}

	elements := parsed.([]any)
	drafts := make([]EventDraft, 0, len(elements))
	for _, element := range elements {
		object, ok := element.(map[string]any)
		if !ok {
			continue
		}

		title := truncate(coerceString(object["title"]), maxTitleLength)
		if title == "" {
			continue
		}

		drafts = append(drafts, EventDraft{
			Title:       title,
			Date:        coerceString(object["date"]),
			Time:        coerceString(object["time"]),
			Location:    coerceString(object["location"]),
			Description: truncate(coerceString(object["description"]), maxDescriptionLength),
		})
	}

	return drafts, nil
}

// stripFence removes a Markdown code fence wrapped around the payload.
func stripFence(s string) string {
	if strings.HasPrefix(s, "```json") {
		s = strings.ReplaceAll(s, "```json", "")
		s = strings.ReplaceAll(s, "```", "")
	} else if strings.HasPrefix(s, "```") {
		s = strings.ReplaceAll(s, "```", "")
	}
	return strings.TrimSpace(s)
}

func coerceString(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func truncate(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
