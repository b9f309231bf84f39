// Package normalizer turns a free-text model reply into the action envelope the
// frontend consumes.
package normalizer

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Known response_type values.
const (
	TypeNormal        = "normal"
	TypeCreateCoin    = "create-coin"
	TypeTokenResearch = "token-research"
)

// Research targets carried by token-research payloads.
const (
	TargetToken   = "token"
	TargetCreator = "creator"
)

// DefaultCurrency is the trading currency used when a create-coin payload omits one.
const DefaultCurrency = "ZORA"

// Envelope is the normalized JSON object returned to the frontend. Numbers are
// kept as json.Number so they round-trip verbatim.
type Envelope map[string]any

// Fallback wraps a reply that carried no usable JSON.
func Fallback(raw string) Envelope {
	return Envelope{"response": raw}
}

// ResponseType returns the discriminator, or "" when absent or not a string.
func (e Envelope) ResponseType() string {
	t, _ := e["response_type"].(string)
	return t
}

// Data returns the payload object, or nil when absent.
func (e Envelope) Data() map[string]any {
	d, _ := e["data"].(map[string]any)
	return d
}

// Known reports whether the envelope carries one of the known variants.
func (e Envelope) Known() bool {
	switch e.ResponseType() {
	case TypeNormal, TypeCreateCoin, TypeTokenResearch:
		return true
	}
	return false
}

// Link is a social link attached to a coin.
type Link struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

// Amount accepts either a JSON string or a JSON number.
type Amount string

func (a *Amount) UnmarshalJSON(b []byte) error {
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = Amount(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("amount: %w", err)
	}
	*a = Amount(n.String())
	return nil
}

// CreateCoinData is the typed view of a create-coin payload.
type CreateCoinData struct {
	Name                  string `json:"name"`
	Symbol                string `json:"symbol"`
	Description           string `json:"description,omitempty"`
	AssetType             string `json:"assetType,omitempty"`
	Links                 []Link `json:"links"`
	Currency              string `json:"currency,omitempty"`
	InitialPurchaseAmount Amount `json:"initialPurchaseAmount,omitempty"`
}

// WithDefaults fills the point-of-use defaults the coin form relies on.
func (d CreateCoinData) WithDefaults() CreateCoinData {
	if strings.TrimSpace(d.Currency) == "" {
		d.Currency = DefaultCurrency
	}
	if d.Links == nil {
		d.Links = []Link{}
	}
	return d
}

// TokenResearchData is the typed view of a token-research payload.
type TokenResearchData struct {
	Address string `json:"address"`
	Target  string `json:"target"`
}

// NavigationPath returns the frontend route the research result points at.
func (d TokenResearchData) NavigationPath() string {
	switch d.Target {
	case TargetToken:
		return "/coin/" + d.Address
	case TargetCreator:
		return "/profile/" + d.Address
	}
	return ""
}

// CreateCoin decodes the payload of a create-coin envelope.
func (e Envelope) CreateCoin() (CreateCoinData, error) {
	var d CreateCoinData
	if e.ResponseType() != TypeCreateCoin {
		return d, fmt.Errorf("envelope is %q, not %q", e.ResponseType(), TypeCreateCoin)
	}
	err := decodeData(e, &d)
	return d, err
}

// TokenResearch decodes the payload of a token-research envelope.
func (e Envelope) TokenResearch() (TokenResearchData, error) {
	var d TokenResearchData
	if e.ResponseType() != TypeTokenResearch {
		return d, fmt.Errorf("envelope is %q, not %q", e.ResponseType(), TypeTokenResearch)
	}
	err := decodeData(e, &d)
	return d, err
}

// Message returns the human-readable text of the envelope: the promoted
// message, the normal-variant response, or the fallback text.
func (e Envelope) Message() string {
	if m, ok := e["message"].(string); ok {
		return m
	}
	if r, ok := e.Data()["response"].(string); ok {
		return r
	}
	r, _ := e["response"].(string)
	return r
}

func decodeData(e Envelope, v any) error {
	data, ok := e["data"]
	if !ok {
		return fmt.Errorf("envelope has no data")
	}
	b, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal data: %w", err)
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
