package formatting

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrParseFailed indicates content could not be decoded as JSON either
// directly or from within a markdown code fence.
var ErrParseFailed = errors.New("failed to parse response")

var fencedJSON = regexp.MustCompile("(?s)```(?:json)?\\s*\n?(.*?)\n?```")

// Parse decodes content into T. Model responses often wrap their JSON in a
// markdown fence, so when direct decoding fails the first fenced block is
// extracted and tried again.
func Parse[T any](content string) (T, error) {
	var out T
	content = strings.TrimSpace(content)

	if json.Unmarshal([]byte(content), &out) == nil {
		return out, nil
	}

	if m := fencedJSON.FindStringSubmatch(content); len(m) >= 2 {
		inner := strings.TrimSpace(m[1])
		if json.Unmarshal([]byte(inner), &out) == nil {
			return out, nil
		}
	}

	return out, fmt.Errorf("%w: %s", ErrParseFailed, content)
}
