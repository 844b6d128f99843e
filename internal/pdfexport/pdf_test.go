package pdfexport

import (
	"bytes"
	"strings"
	"testing"

	"FitAICoach/internal/models"
	"github.com/go-pdf/fpdf"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrite(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, models.Plan{Workout: "Squats 3x10", Diet: "Chicken and rice", Tips: "Stay consistent"})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestLongPlanBreaksPages(t *testing.T) {
	lines := make([]string, 120)
	for i := range lines {
		lines[i] = "- Squats 3x10, rest 90 seconds between sets"
	}

	short := Build(models.Plan{Workout: "Squats 3x10"})
	require.NoError(t, short.Error())
	assert.Equal(t, 1, short.PageCount())

	long := Build(models.Plan{Workout: strings.Join(lines, "\n"), Diet: "Oats"})
	require.NoError(t, long.Error())
	assert.Greater(t, long.PageCount(), 1)
}

func TestEmptySectionsSkipped(t *testing.T) {
	pdf := Build(models.Plan{Tips: "Only tips"})
	require.NoError(t, pdf.Error())
	assert.Equal(t, 1, pdf.PageCount())
}

func TestWriteFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, WriteFile(fs, DefaultFileName, models.Plan{Diet: "Oats • berries"}))

	data, err := afero.ReadFile(fs, DefaultFileName)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
}

func TestEncode(t *testing.T) {
	tr := fpdf.New("P", "mm", "A4", "").UnicodeTranslatorFromDescriptor("")

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "ascii", in: "- Squats 3x10", want: "- Squats 3x10"},
		{name: "bullet", in: "• Oats", want: "\x95 Oats"},
		{name: "latin", in: "Café", want: "Caf\xe9"},
		{name: "emoji dropped", in: "Stay strong 💪🔥!", want: "Stay strong !"},
		{name: "carriage return dropped", in: "a\r\nb", want: "a\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, encode(tr, tt.in))
		})
	}
}

func TestWrap(t *testing.T) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont(fontFamily, "", bodySize)

	assert.Equal(t, []string{"short line", "", "next"}, wrap(pdf, "short line\n\nnext\n", textWidth))

	long := strings.Repeat("squat ", 60)
	lines := wrap(pdf, long, textWidth)
	require.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.LessOrEqual(t, pdf.GetStringWidth(line), textWidth, line)
	}
	assert.Equal(t, strings.Fields(long), strings.Fields(strings.Join(lines, " ")))

	word := strings.Repeat("x", 300)
	lines = wrap(pdf, word, textWidth)
	require.Greater(t, len(lines), 1)
	for _, line := range lines {
		assert.LessOrEqual(t, pdf.GetStringWidth(line), textWidth)
	}
	assert.Equal(t, word, strings.Join(lines, ""), "an overlong word is cut, not lost")
}

func TestBuildWithBulletsAndEmoji(t *testing.T) {
	var buf bytes.Buffer
	err := Write(&buf, models.Plan{
		Workout: "• Squats 3x10 💪\n• Lunges 3x12",
		Diet:    "– Grilled chicken with rice 🍗\n• Café au lait",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
