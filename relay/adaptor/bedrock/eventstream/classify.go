package eventstream

import (
	"github.com/Laisky/errors/v2"
	"github.com/tidwall/gjson"
)

// Kind is the semantic event type inferred from a raw payload's shape.
type Kind int

const (
	KindUnknown Kind = iota
	// KindMessageStart opens the stream (assistant role announcement).
	KindMessageStart
	// KindContentDelta carries a text fragment.
	KindContentDelta
	// KindBlockStop closes the current content block.
	KindBlockStop
	// KindMessageStop terminates the message with a stop reason.
	KindMessageStop
	// KindMetadata carries token usage and latency metrics.
	KindMetadata
	// KindTagged is a payload that already names its own type.
	KindTagged
)

// Event is a classified raw payload reduced to the fields the stream
// translator consumes.
type Event struct {
	Kind         Kind
	Text         string // KindContentDelta
	StopReason   string // KindMessageStop
	Type         string // KindTagged: the payload's own type field
	InputTokens  int64  // KindMetadata
	OutputTokens int64  // KindMetadata
	Raw          []byte
}

// ErrUnparsablePayload marks an extracted payload that is not valid JSON.
// Callers skip the unit and keep the stream alive.
var ErrUnparsablePayload = errors.New("unparsable event payload")

// classifyRules map payload shapes to semantic events, evaluated in order.
// The raw framing carries no explicit type tag, so these are best-effort
// heuristics over observed traffic; keep them here, in one list, so they can
// be amended without touching the byte scanner or the translator.
var classifyRules = []struct {
	name  string
	match func(p gjson.Result) bool
	build func(p gjson.Result, raw []byte) Event
}{
	{
		// a self-describing payload (native client-dialect event inside the
		// framing) passes through under its own name
		name:  "tagged",
		match: func(p gjson.Result) bool { return p.Get("type").Exists() },
		build: func(p gjson.Result, raw []byte) Event {
			return Event{Kind: KindTagged, Type: p.Get("type").String(), Raw: raw}
		},
	},
	{
		name:  "message start",
		match: func(p gjson.Result) bool { return p.Get("role").String() == "assistant" },
		build: func(p gjson.Result, raw []byte) Event {
			return Event{Kind: KindMessageStart, Raw: raw}
		},
	},
	{
		name:  "content delta",
		match: func(p gjson.Result) bool { return p.Get("delta.text").Exists() },
		build: func(p gjson.Result, raw []byte) Event {
			return Event{Kind: KindContentDelta, Text: p.Get("delta.text").String(), Raw: raw}
		},
	},
	{
		// a minimal payload carrying nothing but a block index
		name: "block stop",
		match: func(p gjson.Result) bool {
			return blockIndex(p).Exists() && !p.Get("delta").Exists() && keyCount(p) <= 2
		},
		build: func(p gjson.Result, raw []byte) Event {
			return Event{Kind: KindBlockStop, Raw: raw}
		},
	},
	{
		name:  "message stop",
		match: func(p gjson.Result) bool { return p.Get("stopReason").Exists() },
		build: func(p gjson.Result, raw []byte) Event {
			return Event{Kind: KindMessageStop, StopReason: p.Get("stopReason").String(), Raw: raw}
		},
	},
	{
		name: "metadata",
		match: func(p gjson.Result) bool {
			return p.Get("metrics").Exists() && p.Get("usage").Exists()
		},
		build: func(p gjson.Result, raw []byte) Event {
			return Event{
				Kind:         KindMetadata,
				InputTokens:  p.Get("usage.inputTokens").Int(),
				OutputTokens: p.Get("usage.outputTokens").Int(),
				Raw:          raw,
			}
		},
	},
}

// Classify infers the semantic event kind of one extracted payload.
// Payloads matching no rule come back as KindUnknown with a nil error;
// only invalid JSON is an error.
func Classify(payload []byte) (Event, error) {
	if !gjson.ValidBytes(payload) {
		return Event{}, errors.Wrapf(ErrUnparsablePayload, "%.64s", payload)
	}
	p := gjson.ParseBytes(payload)
	for _, rule := range classifyRules {
		if rule.match(p) {
			return rule.build(p, payload), nil
		}
	}
	return Event{Kind: KindUnknown, Raw: payload}, nil
}

func blockIndex(p gjson.Result) gjson.Result {
	if idx := p.Get("contentBlockIndex"); idx.Exists() {
		return idx
	}
	return p.Get("index")
}

func keyCount(p gjson.Result) int {
	n := 0
	p.ForEach(func(_, _ gjson.Result) bool {
		n++
		return true
	})
	return n
}
