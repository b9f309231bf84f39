package secrets

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/aws/aws-sdk-go-v2/service/ssm/types"
	"github.com/stretchr/testify/require"
)

type fakeSSM struct {
	out     *ssm.GetParameterOutput
	err     error
	gotName string
	decrypt bool
}

func (f *fakeSSM) GetParameter(_ context.Context, in *ssm.GetParameterInput, _ ...func(*ssm.Options)) (*ssm.GetParameterOutput, error) {
	f.gotName = *in.Name
	f.decrypt = *in.WithDecryption
	return f.out, f.err
}

func paramOutput(v string) *ssm.GetParameterOutput {
	return &ssm.GetParameterOutput{Parameter: &types.Parameter{Value: &v}}
}

func TestParamStore_ResolveAPIKey(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{"bare key", "AIza-secret", "AIza-secret"},
		{"bare key with newline", "AIza-secret\n", "AIza-secret"},
		{"json payload", `{"token":"AIza-json"}`, "AIza-json"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			api := &fakeSSM{out: paramOutput(tc.value)}
			p := &ParamStore{api: api}

			key, err := p.ResolveAPIKey(context.Background(), " /coinchat/gemini ")
			require.NoError(t, err)
			require.Equal(t, tc.want, key)
			require.Equal(t, "/coinchat/gemini", api.gotName)
			require.True(t, api.decrypt)
		})
	}
}

func TestParamStore_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := (&ParamStore{api: &fakeSSM{}}).Get(ctx, "  ")
	require.ErrorContains(t, err, "required")

	_, err = (&ParamStore{api: &fakeSSM{err: errors.New("AccessDenied")}}).Get(ctx, "p")
	require.ErrorContains(t, err, "AccessDenied")

	_, err = (&ParamStore{api: &fakeSSM{out: &ssm.GetParameterOutput{}}}).Get(ctx, "p")
	require.ErrorIs(t, err, ErrEmptySecret)

	_, err = (&ParamStore{api: &fakeSSM{out: paramOutput(`{"token":""}`)}}).ResolveAPIKey(ctx, "p")
	require.ErrorIs(t, err, ErrEmptySecret)

	_, err = (&ParamStore{api: &fakeSSM{out: paramOutput(`{"token":`)}}).ResolveAPIKey(ctx, "p")
	require.Error(t, err)
}
