package voice

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// installSynthesizer puts a shell script named espeak-ng first on PATH. It
// records its arguments and whatever it reads on stdin.
func installSynthesizer(t *testing.T, exitCode string) (argsFile, textFile string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell scripts are not executable on windows")
	}

	dir := t.TempDir()
	argsFile = filepath.Join(dir, "args")
	textFile = filepath.Join(dir, "text")
	script := "#!/bin/sh\n" +
		"printf '%s\\n' \"$@\" > '" + argsFile + "'\n" +
		"cat > '" + textFile + "'\n" +
		"exit " + exitCode + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "espeak-ng"), []byte(script), 0o755))
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
	return argsFile, textFile
}

func TestExecEngineSpeaksTextOnStdin(t *testing.T) {
	argsFile, textFile := installSynthesizer(t, "0")

	e := NewExecEngine()
	require.True(t, e.Available())
	assert.Equal(t, "espeak-ng", e.Name())

	text := "- Squats 3x10\n- Bench press 4x8"
	started := false
	require.NoError(t, e.Speak(context.Background(), text, func() { started = true }))
	assert.True(t, started)

	spoken, err := os.ReadFile(textFile)
	require.NoError(t, err)
	assert.Equal(t, text, string(spoken))

	args, err := os.ReadFile(argsFile)
	require.NoError(t, err)
	assert.Equal(t, "-s\n158\n--stdin\n", string(args))
}

func TestExecEngineReportsExitFailure(t *testing.T) {
	installSynthesizer(t, "3")

	e := NewExecEngine()
	require.True(t, e.Available())
	err := e.Speak(context.Background(), "Stay consistent", func() {})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "espeak-ng exited")
}
