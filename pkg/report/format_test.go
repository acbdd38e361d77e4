package report

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatString(t *testing.T) {
	assert.Equal(t, "auto", FormatAuto.String())
	assert.Equal(t, "term", FormatTerminal.String())
	assert.Equal(t, "text", FormatText.String())
	assert.Equal(t, "unknown", Format(99).String())
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected Format
		wantErr  bool
	}{
		{"auto", FormatAuto, false},
		{"", FormatAuto, false},
		{"term", FormatTerminal, false},
		{"TERMINAL", FormatTerminal, false},
		{"text", FormatText, false},
		{"plain", FormatText, false},
		{"json", FormatAuto, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestDetectFormat(t *testing.T) {
	t.Run("NO_COLOR forces text", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		assert.Equal(t, FormatText, DetectFormat(os.Stdout))
	})

	t.Run("regular file is not a terminal", func(t *testing.T) {
		t.Setenv("NO_COLOR", "")
		f, err := os.CreateTemp(t.TempDir(), "out")
		require.NoError(t, err)
		defer func() { _ = f.Close() }()

		assert.Equal(t, FormatText, DetectFormat(f))
	})

	t.Run("explicit formats are kept", func(t *testing.T) {
		assert.Equal(t, FormatTerminal, FormatTerminal.Resolve(nil))
		assert.Equal(t, FormatText, FormatText.Resolve(nil))
	})
}

func TestParseStyles(t *testing.T) {
	styles, err := ParseStyles(embeddedStyles)
	require.NoError(t, err)
	for _, name := range []string{"Created", "Replaced", "Skipped", "Failed", "Setting", "Name", "Path", "Reason"} {
		assert.Contains(t, styles, name)
	}

	_, err = ParseStyles([]byte("colors: [unclosed"))
	assert.Error(t, err)

	// unknown names fall back to an unstyled style
	assert.Equal(t, "plain", Styles{}.Get("Missing").Render("plain"))
}
