package normalizer

import (
	"encoding/json"
	"errors"
	"io"
	"regexp"
	"strings"
)

// Strategy tries to recover a JSON object from a raw reply.
type Strategy struct {
	Name  string
	Apply func(raw string) (Envelope, bool)
}

var (
	fencePattern      = regexp.MustCompile("```(?:json)?\\s*(\\{[\\s\\S]*?\\})\\s*```")
	greedyPattern     = regexp.MustCompile(`\{[\s\S]*\}`)
	errTrailingTokens = errors.New("trailing data after object")
)

// DefaultStrategies is the extraction order. Fenced blocks win over brace
// scanning so a JSON example quoted in prose is not mistaken for the answer.
var DefaultStrategies = []Strategy{
	{Name: "fenced", Apply: FencedBlock},
	{Name: "whole", Apply: WholeText},
	{Name: "greedy", Apply: GreedySpan},
	{Name: "balanced", Apply: BalancedObject},
}

// FencedBlock parses the first ``` or ```json fenced object.
func FencedBlock(raw string) (Envelope, bool) {
	m := fencePattern.FindStringSubmatch(raw)
	if m == nil {
		return nil, false
	}
	return decodeObject(m[1])
}

// WholeText parses the entire reply as one object.
func WholeText(raw string) (Envelope, bool) {
	return decodeObject(raw)
}

// GreedySpan parses everything from the first '{' to the last '}'.
func GreedySpan(raw string) (Envelope, bool) {
	span := greedyPattern.FindString(raw)
	if span == "" {
		return nil, false
	}
	return decodeObject(span)
}

// BalancedObject parses the first brace-balanced object that is valid JSON.
// Braces inside string literals are ignored.
func BalancedObject(raw string) (Envelope, bool) {
	start := strings.IndexByte(raw, '{')
	for start >= 0 {
		if end := matchBrace(raw, start); end > start {
			if obj, ok := decodeObject(raw[start : end+1]); ok {
				return obj, true
			}
		}
		next := strings.IndexByte(raw[start+1:], '{')
		if next < 0 {
			break
		}
		start += next + 1
	}
	return nil, false
}

// matchBrace returns the index of the brace closing the one at start, or -1.
func matchBrace(s string, start int) int {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// decodeObject strictly parses s as a single JSON object.
func decodeObject(s string) (Envelope, bool) {
	obj, err := parseObject(strings.TrimSpace(s))
	if err != nil || obj == nil {
		return nil, false
	}
	return obj, true
}

func parseObject(s string) (Envelope, error) {
	dec := json.NewDecoder(strings.NewReader(s))
	dec.UseNumber()
	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errTrailingTokens
	}
	return Envelope(obj), nil
}
