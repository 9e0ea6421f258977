package client

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/menta2k/poeticapic/pkg/types"
)

var (
	reBlock    = regexp.MustCompile(`(?s)/\*.*?\*/`)
	reLine     = regexp.MustCompile(`(?m)^\s*//.*$`)
	reTrailing = regexp.MustCompile(`,(\s*[}\]])`)
	reBullet   = regexp.MustCompile(`^\s*(?:[-*•]|\d+[.)])\s*`)
)

// ParseTags extracts a tag list from a model reply. JSON objects of the form
// {"tags": [...]} are preferred; anything else is read as a comma or newline
// separated list. A reply with no usable tags yields an empty result, not an
// error.
func ParseTags(raw string) *types.TagResult {
	clean := SanitizeModelJSON(raw)
	if strings.HasPrefix(clean, "{") {
		var res types.TagResult
		if err := json.Unmarshal([]byte(clean), &res); err == nil {
			res.Tags = normalize(res.Tags)
			return &res
		}
	}

	fields := strings.FieldsFunc(strings.TrimSpace(raw), func(r rune) bool {
		return r == ',' || r == '\n' || r == ';'
	})
	return &types.TagResult{Tags: normalize(fields)}
}

func normalize(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = reBullet.ReplaceAllString(t, "")
		t = strings.ToLower(strings.Trim(strings.TrimSpace(t), `"'.`+"`"))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// SanitizeModelJSON removes code fences, comments and trailing commas and
// keeps only the outermost {...} of a reply.
func SanitizeModelJSON(raw string) string {
	raw = strings.TrimSpace(raw)

	if strings.HasPrefix(raw, "```") {
		if i := strings.Index(raw, "\n"); i >= 0 {
			raw = raw[i+1:]
		}
		if j := strings.LastIndex(raw, "```"); j >= 0 {
			raw = raw[:j]
		}
	}
	raw = strings.TrimSpace(raw)
	raw = strings.Trim(raw, "`")

	raw = reBlock.ReplaceAllString(raw, "")
	raw = reLine.ReplaceAllString(raw, "")
	raw = reTrailing.ReplaceAllString(raw, "$1")

	if start := strings.Index(raw, "{"); start >= 0 {
		if end := strings.LastIndex(raw, "}"); end > start {
			raw = raw[start : end+1]
		}
	}
	return strings.TrimSpace(raw)
}
