package normalizer

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestNormalize_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want Envelope
	}{
		{
			name: "fenced normal reply is promoted",
			raw:  "```json\n{\"response_type\":\"normal\",\"data\":{\"response\":\"hello\"}}\n```",
			want: Envelope{
				"response_type": "normal",
				"data":          map[string]any{"response": "hello", "message": "hello"},
				"message":       "hello",
			},
		},
		{
			name: "bare create-coin passes through",
			raw:  `{"response_type":"create-coin","data":{"name":"Test","symbol":"TST"}}`,
			want: Envelope{
				"response_type": "create-coin",
				"data":          map[string]any{"name": "Test", "symbol": "TST"},
			},
		},
		{
			name: "free text falls back",
			raw:  "Sure! Here's info: no JSON here at all.",
			want: Envelope{"response": "Sure! Here's info: no JSON here at all."},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(tc.raw)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Normalize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNormalize_WireShape(t *testing.T) {
	got := Normalize("```json\n{\"response_type\":\"normal\",\"data\":{\"response\":\"hello\"}}\n```")

	b, err := json.Marshal(got)
	require.NoError(t, err)
	require.JSONEq(t, `{"response_type":"normal","data":{"response":"hello","message":"hello"},"message":"hello"}`, string(b))
}

func TestExtract_StrategySelection(t *testing.T) {
	n := New()

	tests := []struct {
		name         string
		raw          string
		wantStrategy string
		wantType     string
	}{
		{
			name:         "fence without language tag",
			raw:          "Here you go:\n```\n{\"response_type\":\"token-research\",\"data\":{\"address\":\"0xabc\",\"target\":\"token\"}}\n```\nEnjoy.",
			wantStrategy: "fenced",
			wantType:     TypeTokenResearch,
		},
		{
			name:         "bare object with surrounding whitespace",
			raw:          "\n  {\"response_type\":\"normal\",\"data\":{\"response\":\"hi\"}}  \n",
			wantStrategy: "whole",
			wantType:     TypeNormal,
		},
		{
			name:         "object embedded in prose",
			raw:          `Sure thing! {"response_type":"normal","data":{"response":"hi"}} Let me know.`,
			wantStrategy: "greedy",
			wantType:     TypeNormal,
		},
		{
			name:         "two objects in prose picks the first",
			raw:          `First {"response_type":"normal","data":{"response":"one"}} and then {"response_type":"normal","data":{"response":"two"}}`,
			wantStrategy: "balanced",
			wantType:     TypeNormal,
		},
		{
			name:         "broken fence recovered from prose",
			raw:          "```json\n{oops}\n```\nActually: {\"response_type\":\"normal\",\"data\":{\"response\":\"ok\"}}",
			wantStrategy: "balanced",
			wantType:     TypeNormal,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := n.Extract(tc.raw)
			require.Equal(t, tc.wantStrategy, res.Strategy)
			require.Equal(t, tc.wantType, res.Envelope.ResponseType())
		})
	}
}

func TestExtract_FenceWinsOverProseExample(t *testing.T) {
	raw := "A reply looks like {\"response_type\":\"normal\",\"data\":{\"response\":\"example\"}}.\n" +
		"```json\n{\"response_type\":\"normal\",\"data\":{\"response\":\"real\"}}\n```"

	got := Normalize(raw)
	require.Equal(t, "real", got["message"])
}

func TestExtract_TwoObjectsPicksFirst(t *testing.T) {
	got := Normalize(`First {"response_type":"normal","data":{"response":"one"}} and then {"response_type":"normal","data":{"response":"two"}}`)
	require.Equal(t, "one", got.Message())
}

func TestExtract_FallbackKeepsRawBytes(t *testing.T) {
	raws := []string{
		"  leading and trailing space \n\n",
		"braces but no json: {not: valid}",
		"```json\n{\"unterminated\": \n```",
		"42",
		`["a","b"]`,
		`"just a string"`,
		"null",
	}

	for _, raw := range raws {
		res := New().Normalize(raw)
		require.True(t, res.Fallback(), "raw=%q", raw)
		require.Equal(t, Envelope{"response": raw}, res.Envelope)
	}
}

func TestExtract_InvalidKnownVariantFallsBack(t *testing.T) {
	tests := []string{
		`{"response_type":"normal"}`,
		`{"response_type":"normal","data":{"response":7}}`,
		`{"response_type":"token-research","data":{"address":"0xabc","target":"wallet"}}`,
		`{"response_type":"token-research","data":{"target":"token"}}`,
		`{"response_type":"create-coin"}`,
		`{"response_type":"create-coin","data":"Moon"}`,
		`{"response_type":"create-coin","data":{"name":42}}`,
		`{"response_type":"create-coin","data":{"currency":["ZORA"]}}`,
		`{"response_type":"create-coin","data":{"name":"A","symbol":"B","links":"x.com"}}`,
	}

	for _, raw := range tests {
		res := New().Normalize(raw)
		require.True(t, res.Fallback(), "raw=%s", raw)
		require.NotEmpty(t, res.Rejected)
		require.Equal(t, raw, res.Envelope["response"])
	}
}

func TestExtract_PartialCreateCoinPassesThrough(t *testing.T) {
	tests := []string{
		"```json\n{\"response_type\":\"create-coin\",\"data\":{\"description\":\"a coin for my cat\",\"currency\":\"ZORA\"}}\n```",
		`{"response_type":"create-coin","data":{"name":"NoSymbol"}}`,
		`{"response_type":"create-coin","data":{}}`,
	}

	for _, raw := range tests {
		res := New().Normalize(raw)
		require.False(t, res.Fallback(), "raw=%s", raw)
		require.Equal(t, TypeCreateCoin, res.Envelope.ResponseType())

		coin, err := res.Envelope.CreateCoin()
		require.NoError(t, err)
		require.Equal(t, DefaultCurrency, coin.WithDefaults().Currency)
	}

	res := New().Normalize(tests[0])
	coin, err := res.Envelope.CreateCoin()
	require.NoError(t, err)
	require.Equal(t, "a coin for my cat", coin.Description)
	require.Empty(t, coin.Name)
}

func TestExtract_UnknownOrMissingTypePassesThrough(t *testing.T) {
	tests := []struct {
		raw  string
		want Envelope
	}{
		{`{"response_type":"portfolio","data":{"x":1}}`, Envelope{"response_type": "portfolio", "data": map[string]any{"x": json.Number("1")}}},
		{`{"foo":"bar"}`, Envelope{"foo": "bar"}},
	}

	for _, tc := range tests {
		got := Normalize(tc.raw)
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Errorf("Normalize(%s) mismatch (-want +got):\n%s", tc.raw, diff)
		}
	}
}

func TestNormalize_PreservesNumbersAndExtraFields(t *testing.T) {
	raw := "```json\n{\"response_type\":\"create-coin\",\"data\":{\"name\":\"Moon\",\"symbol\":\"MOON\",\"initialPurchaseAmount\":0.010},\"predict-performance\":true}\n```"

	got := Normalize(raw)
	b, err := json.Marshal(got)
	require.NoError(t, err)
	require.Contains(t, string(b), `"initialPurchaseAmount":0.010`)
	require.Equal(t, true, got["predict-performance"])
}

func TestNormalize_Idempotent(t *testing.T) {
	raws := []string{
		"```json\n{\"response_type\":\"normal\",\"data\":{\"response\":\"hello\"}}\n```",
		`text {"response_type":"create-coin","data":{"name":"A","symbol":"B"}} text`,
		"no json",
	}

	for _, raw := range raws {
		first := Normalize(raw)
		second := Normalize(raw)
		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("Normalize(%q) not idempotent:\n%s", raw, diff)
		}
	}
}

func TestNormalize_CustomStrategies(t *testing.T) {
	n := New(Strategy{Name: "whole", Apply: WholeText})

	res := n.Normalize("```json\n{\"response_type\":\"normal\",\"data\":{\"response\":\"hi\"}}\n```")
	require.True(t, res.Fallback())
}

func TestBuild_NormalPromotesMessage(t *testing.T) {
	for _, text := range []string{"X", "", "multi\nline"} {
		in := Envelope{
			"response_type": "normal",
			"data":          map[string]any{"response": text, "mood": "calm"},
		}

		out := Build(in)
		require.Equal(t, text, out["message"])
		require.Equal(t, text, out.Data()["message"])
		require.Equal(t, "calm", out.Data()["mood"])
	}
}

func TestBuild_DoesNotMutateInput(t *testing.T) {
	data := map[string]any{"response": "hi"}
	in := Envelope{"response_type": "normal", "data": data}

	_ = Build(in)

	require.Len(t, in, 2)
	require.Len(t, data, 1)
	_, hasMessage := in["message"]
	require.False(t, hasMessage)
}

func TestBuild_OtherVariantsUnchanged(t *testing.T) {
	in := Envelope{
		"response_type": "token-research",
		"data":          map[string]any{"address": "0xabc", "target": "creator"},
	}
	require.Empty(t, cmp.Diff(in, Build(in)))
}

func TestMatchBrace_IgnoresBracesInStrings(t *testing.T) {
	s := `{"a":"}{","b":"\"}"}`
	require.Equal(t, len(s)-1, matchBrace(s, 0))
	require.Equal(t, -1, matchBrace(`{"a":1`, 0))
}
