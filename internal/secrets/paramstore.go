package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
)

var ErrEmptySecret = errors.New("secret value is empty")

type ssmAPI interface {
	GetParameter(ctx context.Context, in *ssm.GetParameterInput, optFns ...func(*ssm.Options)) (*ssm.GetParameterOutput, error)
}

// ParamStore reads SecureString parameters from AWS Systems Manager.
type ParamStore struct {
	api ssmAPI
}

// NewParamStore builds a client from the default AWS credential chain.
func NewParamStore(ctx context.Context) (*ParamStore, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return &ParamStore{api: ssm.NewFromConfig(cfg)}, nil
}

func (p *ParamStore) Get(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", errors.New("parameter name is required")
	}

	decrypt := true
	out, err := p.api.GetParameter(ctx, &ssm.GetParameterInput{
		Name:           &name,
		WithDecryption: &decrypt,
	})
	if err != nil {
		return "", fmt.Errorf("failed to get parameter %q: %w", name, err)
	}
	if out == nil || out.Parameter == nil || out.Parameter.Value == nil {
		return "", fmt.Errorf("parameter %q: %w", name, ErrEmptySecret)
	}
	return *out.Parameter.Value, nil
}

// ResolveAPIKey reads the provider key stored under name. The parameter holds
// either the bare key or a JSON object {"token": "..."}.
func (p *ParamStore) ResolveAPIKey(ctx context.Context, name string) (string, error) {
	raw, err := p.Get(ctx, name)
	if err != nil {
		return "", err
	}
	return parseAPIKey(raw)
}

func parseAPIKey(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "{") {
		var payload struct {
			Token string `json:"token"`
		}
		if err := json.Unmarshal([]byte(raw), &payload); err != nil {
			return "", fmt.Errorf("failed to parse secret payload: %w", err)
		}
		raw = strings.TrimSpace(payload.Token)
	}
	if raw == "" {
		return "", ErrEmptySecret
	}
	return raw, nil
}
