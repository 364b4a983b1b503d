package stimpl

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/kr/pretty"
	"golang.org/x/sync/errgroup"

	"github.com/vito/stimpl/pkg/ioctx"
)

// Run evaluates program starting from the empty environment. With debug
// set, the program text, final result and final environment are written to
// the context's stdout after evaluation.
func Run(ctx context.Context, program Node, debug bool) (Result, error) {
	logger := ioctx.LoggerFromContext(ctx)
	if debug {
		logger.DebugContext(ctx, "evaluating program", "ast", pretty.Sprint(program))
	}

	result, err := Evaluate(ctx, program, NewEnv())
	if err != nil {
		return Result{}, err
	}

	logger.DebugContext(ctx, "evaluation completed",
		"value", valueString(result.Value),
		"type", result.Type.String(),
		"bindings", result.Env.Len())

	if debug {
		if err := WriteDiagnostics(ioctx.StdoutFromContext(ctx), program, result); err != nil {
			return Result{}, err
		}
	}

	return result, nil
}

// WriteDiagnostics writes the debug dump for a finished run.
func WriteDiagnostics(w io.Writer, program Node, result Result) error {
	_, err := fmt.Fprintf(w, "program: %s\nfinal_value: %s\nfinal_state: %s\n",
		nodeString(program), result, result.Env)
	return err
}

// RunFile decodes the program document at path and runs it.
func RunFile(ctx context.Context, path string, debug bool) (Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return Result{}, fmt.Errorf("failed to open program: %w", err)
	}
	defer f.Close() //nolint:errcheck

	program, err := Decode(path, f)
	if err != nil {
		return Result{}, err
	}

	return Run(ctx, program, debug)
}

// RunOptions configures RunFiles.
type RunOptions struct {
	// Parallel bounds how many programs evaluate at once. Zero or less
	// means no bound.
	Parallel int
	Debug    bool
}

// RunFiles runs each program independently and concurrently. Each
// program's output is buffered and written to the context's stdout in
// argument order once all have finished. Every failure is reported; one
// failing program does not stop the others.
func RunFiles(ctx context.Context, paths []string, opts RunOptions) error {
	outputs := make([]bytes.Buffer, len(paths))
	errs := make([]error, len(paths))

	eg, gctx := errgroup.WithContext(ctx)
	if opts.Parallel > 0 {
		eg.SetLimit(opts.Parallel)
	}

	for i, path := range paths {
		eg.Go(func() error {
			runCtx := ioctx.StdoutToContext(gctx, &outputs[i])
			if _, err := RunFile(runCtx, path, opts.Debug); err != nil {
				var evalErr *EvalError
				var decodeErr *DecodeError
				switch {
				case errors.As(err, &evalErr) && evalErr.Location != nil:
					errs[i] = err
				case errors.As(err, &decodeErr):
					errs[i] = err
				default:
					errs[i] = fmt.Errorf("%s: %w", path, err)
				}
			}
			// a cancelled parent stops everything still queued
			return gctx.Err()
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}

	stdout := ioctx.StdoutFromContext(ctx)
	for i := range outputs {
		if _, err := outputs[i].WriteTo(stdout); err != nil {
			return fmt.Errorf("writing output of %s: %w", paths[i], err)
		}
	}

	return errors.Join(errs...)
}
