// Package rpc exposes the evaluator as a JSON-RPC 2.0 service.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"

	"github.com/vito/stimpl/pkg/ioctx"
	"github.com/vito/stimpl/pkg/stimpl"
)

// Error codes for evaluation failures, one per error kind.
const (
	CodeSyntaxError jrpc2.Code = -32001
	CodeTypeError   jrpc2.Code = -32002
	CodeMathError   jrpc2.Code = -32003
)

// RunParams are the parameters of stimpl.run. Program is a program document
// in its JSON form.
type RunParams struct {
	Program json.RawMessage `json:"program"`
	Debug   bool            `json:"debug,omitempty"`
}

// Binding is one entry of the final environment, most recent first.
type Binding struct {
	Name  string       `json:"name"`
	Value stimpl.Value `json:"value"`
	Type  string       `json:"type"`
}

// RunResult is the result of stimpl.run.
type RunResult struct {
	Value    stimpl.Value `json:"value"`
	Text     string       `json:"text"`
	Type     string       `json:"type"`
	Output   string       `json:"output"`
	Bindings []Binding    `json:"bindings"`
}

// VersionResult is the result of stimpl.version.
type VersionResult struct {
	Version string `json:"version"`
}

type service struct {
	version string
}

// NewAssigner returns the method table served by `stimpl serve`.
func NewAssigner(version string) handler.Map {
	s := &service{version: version}
	return handler.Map{
		"stimpl.run":     handler.New(s.run),
		"stimpl.version": handler.New(s.versionInfo),
	}
}

func (s *service) versionInfo(ctx context.Context) (VersionResult, error) {
	return VersionResult{Version: s.version}, nil
}

func (s *service) run(ctx context.Context, params RunParams) (RunResult, error) {
	if len(bytes.TrimSpace(params.Program)) == 0 {
		return RunResult{}, jrpc2.Errorf(jrpc2.InvalidParams, "missing program")
	}

	program, err := stimpl.DecodeBytes("request", params.Program)
	if err != nil {
		var evalErr *stimpl.EvalError
		if errors.As(err, &evalErr) {
			return RunResult{}, toRPCError(evalErr)
		}
		return RunResult{}, jrpc2.Errorf(jrpc2.InvalidParams, "%s", err.Error())
	}

	logger := ioctx.LoggerFromContext(ctx)
	logger.DebugContext(ctx, "run request", "program", program.String())

	var output bytes.Buffer
	ctx = ioctx.StdoutToContext(ctx, &output)

	result, err := stimpl.Run(ctx, program, params.Debug)
	if err != nil {
		var evalErr *stimpl.EvalError
		if errors.As(err, &evalErr) {
			return RunResult{}, toRPCError(evalErr)
		}
		return RunResult{}, err
	}

	bindings := []Binding{}
	for b := range result.Env.Bindings() {
		bindings = append(bindings, Binding{
			Name:  b.Name,
			Value: b.Value,
			Type:  b.Type.String(),
		})
	}

	return RunResult{
		Value:    result.Value,
		Text:     result.Value.String(),
		Type:     result.Type.String(),
		Output:   output.String(),
		Bindings: bindings,
	}, nil
}

func toRPCError(err *stimpl.EvalError) error {
	code := CodeSyntaxError
	switch err.Kind {
	case stimpl.TypeErrorKind:
		code = CodeTypeError
	case stimpl.MathErrorKind:
		code = CodeMathError
	}
	return jrpc2.Errorf(code, "%s", err.Error())
}
