package bedrock

import (
	"regexp"
	"strings"
)

// dateVersionSuffix matches trailing ids like "-20241022-v2".
var dateVersionSuffix = regexp.MustCompile(`-\d{8}-v\d+$`)

// modelAliases collapses long-form family names to the short form some
// gateway paths expect. Data, not logic: extend by appending pairs.
// Applied in order after prefix/suffix stripping.
var modelAliases = [][2]string{
	{"claude-3-5-sonnet", "claude-35-sonnet"},
	{"claude-3-5-haiku", "claude-35-haiku"},
	{"claude-3-7-sonnet", "claude-37-sonnet"},
}

// CanonicalModelName reduces a fully qualified model identifier like
// "us.anthropic.claude-3-5-sonnet-20241022-v2:0" to the bare family name a
// path-based gateway expects ("claude-35-sonnet"). Pure and deterministic,
// idempotent, and fail-open: strings that match none of the recognized
// separators pass through unchanged.
func CanonicalModelName(modelID string) string {
	name := modelID

	// region/vendor prefix, e.g. "us.anthropic."
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	// revision suffix, e.g. ":0"
	if idx := strings.Index(name, ":"); idx >= 0 {
		name = name[:idx]
	}
	name = dateVersionSuffix.ReplaceAllString(name, "")
	for _, alias := range modelAliases {
		name = strings.ReplaceAll(name, alias[0], alias[1])
	}
	return name
}
