package voice

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Default words-per-minute of espeak and say is 175; utterances are spoken at
// 90% of it.
const wordsPerMinute = "158"

// synthesizer describes one text-to-speech program. The text is always fed
// on stdin so that plan lines starting with "-" are never read as options.
type synthesizer struct {
	name string
	args []string
}

var synthesizers = []synthesizer{
	{name: "espeak-ng", args: []string{"-s", wordsPerMinute, "--stdin"}},
	{name: "espeak", args: []string{"-s", wordsPerMinute, "--stdin"}},
	{name: "say", args: []string{"-r", wordsPerMinute, "-f", "-"}},
	// spd-say takes a relative rate in [-100, 100]; -w waits for the speech to end.
	{name: "spd-say", args: []string{"-w", "-r", "-10", "-e"}},
}

// ExecEngine speaks through the first text-to-speech program found on PATH.
type ExecEngine struct {
	path  string
	synth synthesizer
}

// NewExecEngine probes PATH. The returned engine reports Available() == false
// when no supported program is installed.
func NewExecEngine() *ExecEngine {
	for _, s := range synthesizers {
		if path, err := exec.LookPath(s.name); err == nil {
			return &ExecEngine{path: path, synth: s}
		}
	}
	return &ExecEngine{}
}

func (e *ExecEngine) Available() bool {
	return e.path != ""
}

// Name is the program in use, empty when unavailable.
func (e *ExecEngine) Name() string {
	return e.synth.name
}

func (e *ExecEngine) Speak(ctx context.Context, text string, started func()) error {
	if !e.Available() {
		return fmt.Errorf("no speech synthesizer found")
	}

	cmd := exec.CommandContext(ctx, e.path, e.synth.args...)
	cmd.Stdin = strings.NewReader(text)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", e.synth.name, err)
	}
	started()

	// Wait returns only after the process has exited, so a cancelled
	// utterance is silent by the time Speak returns.
	if err := cmd.Wait(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%s exited: %w", e.synth.name, err)
	}
	return nil
}
