package advisor

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAdvice(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want Advice
	}{
		{
			name: "valid prefix",
			raw:  "VALID a domesticated feline.",
			want: Advice{Verdict: VerdictValid, Text: "a domesticated feline."},
		},
		{
			name: "invalid prefix",
			raw:  "INVALID not found in the dictionary.",
			want: Advice{Verdict: VerdictInvalid, Text: "not found in the dictionary."},
		},
		{
			name: "prefix with colon",
			raw:  "VALID: a domesticated feline.",
			want: Advice{Verdict: VerdictValid, Text: "a domesticated feline."},
		},
		{
			name: "lowercase prefix",
			raw:  "valid a domesticated feline.",
			want: Advice{Verdict: VerdictValid, Text: "a domesticated feline."},
		},
		{
			name: "no verdict",
			raw:  "A short word of uncertain origin.",
			want: Advice{Verdict: VerdictNone, Text: "A short word of uncertain origin."},
		},
		{
			name: "verdict only",
			raw:  "VALID",
			want: Advice{Verdict: VerdictValid, Text: ""},
		},
		{
			name: "surrounding whitespace",
			raw:  "  INVALID  nope  ",
			want: Advice{Verdict: VerdictInvalid, Text: "nope"},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ParseAdvice(tc.raw))
		})
	}
}

func TestLookupResolvesFreshResult(t *testing.T) {
	fn := func(ctx context.Context, word string) (string, error) {
		return "VALID a word.", nil
	}

	l := StartLookup(context.Background(), "CAT", fn)
	text, ok := l.Resolve("CAT")
	require.True(t, ok)
	assert.Equal(t, "VALID a word.", text)
}

func TestLookupDiscardsStaleResult(t *testing.T) {
	fn := func(ctx context.Context, word string) (string, error) {
		return "VALID a word.", nil
	}

	// The user typed something else while the lookup was in flight.
	l := StartLookup(context.Background(), "CAT", fn)
	_, ok := l.Resolve("CATS")
	assert.False(t, ok, "result for a superseded word must be dropped")
}

func TestLookupFailureReportsNoAdvice(t *testing.T) {
	fn := func(ctx context.Context, word string) (string, error) {
		return "", errors.New("provider down")
	}

	l := StartLookup(context.Background(), "CAT", fn)
	_, ok := l.Resolve("CAT")
	assert.False(t, ok)
}

func TestDefineShortWordSkipsLookup(t *testing.T) {
	// Words under two letters never hit the provider; a nil inner client
	// would panic if they did.
	c := &Client{}
	text, err := c.Define(context.Background(), "a")
	require.NoError(t, err)
	assert.Empty(t, text)
}

func TestDefineLive(t *testing.T) {
	key := os.Getenv("GEMINI_API_KEY")
	if key == "" {
		t.Skip("GEMINI_API_KEY not set, skipping integration test")
	}

	ctx := context.Background()
	c, err := New(ctx, key, os.Getenv("GEMINI_MODEL"))
	require.NoError(t, err)

	text, err := c.Define(ctx, "CAT")
	require.NoError(t, err)
	require.NotEmpty(t, text)

	adv := ParseAdvice(text)
	t.Logf("advice: verdict=%q text=%q", adv.Verdict, adv.Text)
}
