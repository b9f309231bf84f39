package normalizer

import (
	"fmt"
	"strings"
)

// ValidationError reports a known variant whose payload is unusable.
type ValidationError struct {
	ResponseType string
	Reason       string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s payload: %s", e.ResponseType, e.Reason)
}

// Validate checks the payload of known variants. Envelopes without a
// discriminator, or with one we do not know, are left to the frontend.
func Validate(e Envelope) error {
	t := e.ResponseType()
	if !e.Known() {
		return nil
	}

	data := e.Data()
	if data == nil {
		return &ValidationError{ResponseType: t, Reason: "data must be an object"}
	}

	switch t {
	case TypeNormal:
		if _, ok := data["response"].(string); !ok {
			return &ValidationError{ResponseType: t, Reason: "data.response must be a string"}
		}
	case TypeCreateCoin:
		// Partial payloads prefill the coin form; only present fields are checked.
		for _, field := range []string{"name", "symbol", "description", "currency"} {
			if v, ok := data[field]; ok && v != nil {
				if _, isString := v.(string); !isString {
					return &ValidationError{ResponseType: t, Reason: "data." + field + " must be a string"}
				}
			}
		}
		if links, ok := data["links"]; ok && links != nil {
			if _, isList := links.([]any); !isList {
				return &ValidationError{ResponseType: t, Reason: "data.links must be a list"}
			}
		}
	case TypeTokenResearch:
		if s, _ := data["address"].(string); strings.TrimSpace(s) == "" {
			return &ValidationError{ResponseType: t, Reason: "data.address is required"}
		}
		target, _ := data["target"].(string)
		if target != TargetToken && target != TargetCreator {
			return &ValidationError{ResponseType: t, Reason: fmt.Sprintf("data.target %q is not token or creator", target)}
		}
	}
	return nil
}
