// ABOUTME: Scripted correction services for offline fidelity benchmarks
// ABOUTME: Deterministic stand-ins for the real providers; nothing leaves the process

package fidelity

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harper/transcript-tidy/internal/llm"
)

// ErrScriptedFailure is the error FailingCorrector produces at its
// configured call
var ErrScriptedFailure = errors.New("scripted correction failure")

// newCorrector builds the scripted corrector a scenario names
func newCorrector(kind string) (llm.CorrectionService, error) {
	switch kind {
	case "echo":
		return &EchoCorrector{}, nil
	case "polish":
		return &PolishCorrector{}, nil
	default:
		return nil, fmt.Errorf("unknown corrector %q (supported: echo, polish)", kind)
	}
}

// EchoCorrector returns chunk text unchanged. Merging echoed chunks must
// reproduce the normalized input exactly, which pins the chunk and merge
// arithmetic end to end.
type EchoCorrector struct{}

// Clean returns the text as-is
func (e *EchoCorrector) Clean(ctx context.Context, text, priorContext string) (string, error) {
	return text, nil
}

// Name identifies the corrector in logs and checkpoints
func (e *EchoCorrector) Name() string {
	return "scripted/echo"
}

// fillerTokens are the hesitation markers PolishCorrector strips
var fillerTokens = map[string]bool{
	"um":  true,
	"uh":  true,
	"er":  true,
	"ah":  true,
	"hmm": true,
}

// PolishCorrector drops hesitation fillers token by token, the smallest
// deterministic edit that still changes seam text the way a real
// correction service would.
type PolishCorrector struct{}

// Clean removes filler tokens and rejoins the rest with single spaces
func (p *PolishCorrector) Clean(ctx context.Context, text, priorContext string) (string, error) {
	words := strings.Fields(text)
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if fillerTokens[strings.ToLower(strings.Trim(w, ",.!?;:"))] {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " "), nil
}

// Name identifies the corrector in logs and checkpoints
func (p *PolishCorrector) Name() string {
	return "scripted/polish"
}

// FailingCorrector delegates to Inner for FailAt calls and then fails
// every call after that, simulating a provider outage mid-run.
type FailingCorrector struct {
	Inner  llm.CorrectionService
	FailAt int
	calls  int
}

// Clean fails once the configured number of calls has succeeded
func (f *FailingCorrector) Clean(ctx context.Context, text, priorContext string) (string, error) {
	if f.calls >= f.FailAt {
		return "", ErrScriptedFailure
	}
	f.calls++
	return f.Inner.Clean(ctx, text, priorContext)
}

// Name identifies the corrector in logs and checkpoints
func (f *FailingCorrector) Name() string {
	return "scripted/failing"
}
