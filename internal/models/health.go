package models

type HealthResponse struct {
	Status             string `json:"status"`
	Service            string `json:"service"`
	Provider           string `json:"provider"`
	ProviderConfigured bool   `json:"provider_configured"`
}

type EndpointInfo struct {
	Method      string `json:"method"`
	URL         string `json:"url"`
	Description string `json:"description"`
	Body        any    `json:"body,omitempty"`
}

type InfoResponse struct {
	Service   string                  `json:"service"`
	Version   string                  `json:"version"`
	Endpoints map[string]EndpointInfo `json:"endpoints"`
}
