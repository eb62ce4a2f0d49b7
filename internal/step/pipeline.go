package step

import (
	"context"
	"log/slog"

	"github.com/max-moser/invenio-cli/internal/process"
)

// Pipeline executes an ordered list of steps, halting at the first failure.
type Pipeline struct {
	logger *slog.Logger
}

// NewPipeline constructs a Pipeline that emits step progress through logger.
func NewPipeline(logger *slog.Logger) *Pipeline {
	return &Pipeline{logger: logger}
}

// Run executes the steps strictly in order. Each step's message is emitted
// before the step runs. The first step reporting a non-zero status aborts the
// run and its result becomes the overall outcome; no later step executes and
// no completed step is rolled back. When every step succeeds, the outcome is
// the last step's result.
func (p *Pipeline) Run(ctx context.Context, steps []Step) process.Result {
	result := process.Success("")

	for _, s := range steps {
		if msg := s.Message(); msg != "" && p.logger != nil {
			p.logger.Info(msg)
		}

		result = s.Execute(ctx)
		if !result.OK() {
			if p.logger != nil {
				p.logger.Error("step failed", "step", s.Message(), "status", result.StatusCode, "error", result.Error)
			}
			return result
		}
		if p.logger != nil {
			p.logger.Debug("step succeeded", "step", s.Message())
		}
	}

	return result
}
