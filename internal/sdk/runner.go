package sdk

import (
	"bytes"
	"context"
	"os/exec"
)

// Output holds the captured streams of a finished tool invocation.
type Output struct {
	Stdout []byte
	Stderr []byte
}

// Runner executes an SDK tool and captures its output. Tests substitute a
// stub so no real binaries are needed.
type Runner interface {
	Run(ctx context.Context, tool string, args ...string) (Output, error)
}

// CmdRunner invokes tools through os/exec.
type CmdRunner struct{}

func (CmdRunner) Run(ctx context.Context, tool string, args ...string) (Output, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, tool, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return Output{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}, err
}

var _ Runner = CmdRunner{}
