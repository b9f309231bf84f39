package normalizer

// Result is the outcome of normalizing one reply.
type Result struct {
	Envelope Envelope
	// Strategy names the extraction strategy that succeeded, "" on fallback.
	Strategy string
	// Rejected holds validation failures of candidates that parsed but were discarded.
	Rejected []error
}

// Fallback reports whether no structured JSON could be recovered.
func (r Result) Fallback() bool {
	return r.Strategy == ""
}

// Normalizer runs extraction strategies in order and builds the envelope from
// the first candidate that parses and validates.
type Normalizer struct {
	strategies []Strategy
}

// New returns a Normalizer using the given strategies, or DefaultStrategies when none are given.
func New(strategies ...Strategy) *Normalizer {
	if len(strategies) == 0 {
		strategies = DefaultStrategies
	}
	return &Normalizer{strategies: strategies}
}

// Extract returns the first valid object recovered from raw, or the fallback wrapper.
func (n *Normalizer) Extract(raw string) Result {
	var res Result
	for _, s := range n.strategies {
		obj, ok := s.Apply(raw)
		if !ok {
			continue
		}
		if err := Validate(obj); err != nil {
			res.Rejected = append(res.Rejected, err)
			continue
		}
		res.Envelope = obj
		res.Strategy = s.Name
		return res
	}
	res.Envelope = Fallback(raw)
	return res
}

// Normalize extracts and builds the envelope for raw.
func (n *Normalizer) Normalize(raw string) Result {
	res := n.Extract(raw)
	if !res.Fallback() {
		res.Envelope = Build(res.Envelope)
	}
	return res
}

var defaultNormalizer = New()

// Normalize runs the default strategies over raw and returns the envelope.
func Normalize(raw string) Envelope {
	return defaultNormalizer.Normalize(raw).Envelope
}

// Build applies variant-specific promotion. For normal replies the text in
// data.response is copied to both message and data.message; every other
// envelope is returned as is. The input is never modified.
func Build(e Envelope) Envelope {
	if e.ResponseType() != TypeNormal {
		return e
	}
	data := e.Data()
	if data == nil {
		return e
	}
	text := data["response"]

	promoted := make(map[string]any, len(data)+1)
	for k, v := range data {
		promoted[k] = v
	}
	promoted["message"] = text

	out := make(Envelope, len(e)+1)
	for k, v := range e {
		out[k] = v
	}
	out["data"] = promoted
	out["message"] = text
	return out
}
