package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/server"
	"github.com/stretchr/testify/require"
)

// runResponse mirrors RunResult with concrete JSON types for decoding.
type runResponse struct {
	Value    any    `json:"value"`
	Text     string `json:"text"`
	Type     string `json:"type"`
	Output   string `json:"output"`
	Bindings []struct {
		Name  string `json:"name"`
		Value any    `json:"value"`
		Type  string `json:"type"`
	} `json:"bindings"`
}

func newClient(t *testing.T) *jrpc2.Client {
	t.Helper()
	loc := server.NewLocal(NewAssigner("v1.2.3"), nil)
	t.Cleanup(func() { _ = loc.Close() })
	return loc.Client
}

func TestRun(t *testing.T) {
	cli := newClient(t)
	ctx := context.Background()

	var res runResponse
	err := cli.CallResult(ctx, "stimpl.run", RunParams{
		Program: json.RawMessage(`{"program": [
			{"assign": {"name": "x", "value": {"int": 5}}},
			{"assign": {"name": "y", "value": {"float": 1.5}}},
			{"print": {"variable": "x"}}
		]}`),
	}, &res)
	require.NoError(t, err)

	require.Equal(t, float64(5), res.Value)
	require.Equal(t, "5", res.Text)
	require.Equal(t, "Integer", res.Type)
	require.Equal(t, "5\n", res.Output)

	require.Len(t, res.Bindings, 2)
	require.Equal(t, "y", res.Bindings[0].Name)
	require.Equal(t, 1.5, res.Bindings[0].Value)
	require.Equal(t, "FloatingPoint", res.Bindings[0].Type)
	require.Equal(t, "x", res.Bindings[1].Name)
}

func TestRunDebug(t *testing.T) {
	cli := newClient(t)

	var res runResponse
	err := cli.CallResult(context.Background(), "stimpl.run", RunParams{
		Program: json.RawMessage(`{"unit": null}`),
		Debug:   true,
	}, &res)
	require.NoError(t, err)

	require.Nil(t, res.Value)
	require.Equal(t, "Unit", res.Text)
	require.Equal(t, "Unit", res.Type)
	require.Empty(t, res.Bindings)
	require.Equal(t, "program: UnitLiteral()\nfinal_value: (Unit, Unit)\nfinal_state: \n", res.Output)
}

func TestRunErrors(t *testing.T) {
	cli := newClient(t)

	for _, tt := range []struct {
		name    string
		program string
		code    jrpc2.Code
	}{
		{"syntax", `{"variable": "x"}`, CodeSyntaxError},
		{"unknown kind", `{"frobnicate": 1}`, CodeSyntaxError},
		{"type", `{"not": {"int": 1}}`, CodeTypeError},
		{"math", `{"divide": [{"int": 1}, {"int": 0}]}`, CodeMathError},
		{"malformed", `{"assign": {"name": "x"}}`, jrpc2.InvalidParams},
		{"missing", ``, jrpc2.InvalidParams},
	} {
		t.Run(tt.name, func(t *testing.T) {
			params := map[string]any{}
			if tt.program != "" {
				params["program"] = json.RawMessage(tt.program)
			}

			_, err := cli.Call(context.Background(), "stimpl.run", params)
			require.Error(t, err)

			var rpcErr *jrpc2.Error
			require.True(t, errors.As(err, &rpcErr), "%T: %v", err, err)
			require.Equal(t, tt.code, rpcErr.Code)
		})
	}
}

func TestVersion(t *testing.T) {
	cli := newClient(t)

	var res VersionResult
	require.NoError(t, cli.CallResult(context.Background(), "stimpl.version", nil, &res))
	require.Equal(t, "v1.2.3", res.Version)
}
