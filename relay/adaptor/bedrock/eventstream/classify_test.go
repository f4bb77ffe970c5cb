package eventstream

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name     string
		payload  string
		expected Event
	}{
		{
			name:     "assistant role announcement starts the message",
			payload:  `{"role":"assistant"}`,
			expected: Event{Kind: KindMessageStart},
		},
		{
			name:     "delta text",
			payload:  `{"contentBlockIndex":0,"delta":{"text":"hello"}}`,
			expected: Event{Kind: KindContentDelta, Text: "hello"},
		},
		{
			name:     "index-only payload is a block stop",
			payload:  `{"contentBlockIndex":0}`,
			expected: Event{Kind: KindBlockStop},
		},
		{
			name:     "short index key is also a block stop",
			payload:  `{"index":2,"p":"x"}`,
			expected: Event{Kind: KindBlockStop},
		},
		{
			name:     "stop reason terminates the message",
			payload:  `{"stopReason":"max_tokens"}`,
			expected: Event{Kind: KindMessageStop, StopReason: "max_tokens"},
		},
		{
			name:    "metrics plus usage is metadata",
			payload: `{"metrics":{"latencyMs":321},"usage":{"inputTokens":10,"outputTokens":25,"totalTokens":35}}`,
			expected: Event{
				Kind:         KindMetadata,
				InputTokens:  10,
				OutputTokens: 25,
			},
		},
		{
			name:     "self-describing payload passes through tagged",
			payload:  `{"type":"content_block_delta","index":0,"delta":{"type":"text_delta","text":"x"}}`,
			expected: Event{Kind: KindTagged, Type: "content_block_delta"},
		},
		{
			name:     "unrecognized shape is unknown, not an error",
			payload:  `{"something":"else","entirely":true,"third":1}`,
			expected: Event{Kind: KindUnknown},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			evt, err := Classify([]byte(tc.payload))
			require.NoError(t, err)
			tc.expected.Raw = []byte(tc.payload)
			assert.Equal(t, tc.expected, evt)
		})
	}
}

func TestClassify_DeltaWinsOverIndex(t *testing.T) {
	// a delta payload carrying an index must classify as delta, not block stop
	evt, err := Classify([]byte(`{"contentBlockIndex":1,"delta":{"text":"t"}}`))
	require.NoError(t, err)
	assert.Equal(t, KindContentDelta, evt.Kind)
}

func TestClassify_MalformedJSON(t *testing.T) {
	_, err := Classify([]byte(`{"delta":{"text":`))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnparsablePayload)
}
