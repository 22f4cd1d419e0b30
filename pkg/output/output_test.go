package output_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/scawful/barista/pkg/output"
	"github.com/scawful/barista/pkg/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestFormatString(t *testing.T) {
	tests := []struct {
		format   output.Format
		expected string
	}{
		{output.FormatAuto, "auto"},
		{output.FormatTerminal, "term"},
		{output.FormatText, "text"},
		{output.FormatJSON, "json"},
		{output.FormatYAML, "yaml"},
		{output.Format(999), "unknown"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, tt.format.String())
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input    string
		expected output.Format
		wantErr  bool
	}{
		{"", output.FormatAuto, false},
		{"auto", output.FormatAuto, false},
		{"TERM", output.FormatTerminal, false},
		{"plain", output.FormatText, false},
		{"json", output.FormatJSON, false},
		{"yml", output.FormatYAML, false},
		{"xml", output.FormatAuto, true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := output.ParseFormat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
			assert.Equal(t, tt.expected == output.FormatJSON || tt.expected == output.FormatYAML, got.Structured())
		})
	}
}

func TestNew_AutoOnBufferIsText(t *testing.T) {
	p := output.New(&bytes.Buffer{}, output.FormatAuto)
	assert.Equal(t, output.FormatText, p.Format())
	assert.False(t, p.Color())
}

type sample struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

func TestEmit(t *testing.T) {
	v := sample{Name: "icon_manager", Count: 2}

	t.Run("json", func(t *testing.T) {
		var buf bytes.Buffer
		err := output.New(&buf, output.FormatJSON).Emit(v, func() error { t.Fatal("human output used"); return nil })
		require.NoError(t, err)
		var got sample
		require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, v, got)
	})

	t.Run("yaml", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, output.New(&buf, output.FormatYAML).Emit(v, nil))
		var got sample
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
		assert.Equal(t, v, got)
	})

	t.Run("text", func(t *testing.T) {
		var buf bytes.Buffer
		err := output.New(&buf, output.FormatText).Emit(v, func() error {
			_, err := fmt.Fprint(&buf, "human")
			return err
		})
		require.NoError(t, err)
		assert.Equal(t, "human", buf.String())
	})
}

func TestMessage_TextStripsMarkup(t *testing.T) {
	var buf bytes.Buffer
	p := output.New(&buf, output.FormatText)
	require.NoError(t, p.Messagef("[path]%s[/path] is [success]ready[/success]", "~/.config/sketchybar"))
	assert.Equal(t, "~/.config/sketchybar is ready\n", buf.String())
}

func TestStatus_Text(t *testing.T) {
	var buf bytes.Buffer
	p := output.New(&buf, output.FormatText)
	err := p.Status("Bootstrap", []style.StatusLine{
		{Label: "sketchybarrc", Status: style.StatusCreated, Detail: "~/.config/sketchybar/sketchybarrc"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Bootstrap\n  created   : sketchybarrc   : ~/.config/sketchybar/sketchybarrc\n", buf.String())
}

func TestStatus_TextStripsTitleMarkup(t *testing.T) {
	var buf bytes.Buffer
	p := output.New(&buf, output.FormatText)
	err := p.Status("[binaries]Binaries[/binaries]", []style.StatusLine{
		{Label: "system", Status: style.StatusOK, Detail: "2 of 2 placed in /usr/local/bin"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Binaries\n  ok        : system         : 2 of 2 placed in /usr/local/bin\n", buf.String())
}

func TestMarkdown(t *testing.T) {
	md := "## Next steps\n\n1. Start services\n"

	var text bytes.Buffer
	require.NoError(t, output.New(&text, output.FormatText).Markdown(md))
	assert.Equal(t, md, text.String())

	var js bytes.Buffer
	require.NoError(t, output.New(&js, output.FormatJSON).Markdown(md))
	var got map[string]string
	require.NoError(t, json.Unmarshal(js.Bytes(), &got))
	assert.Equal(t, md, got["text"])

	var term bytes.Buffer
	require.NoError(t, output.New(&term, output.FormatTerminal).Markdown(md))
	assert.Contains(t, term.String(), "Next steps")
}

func TestError(t *testing.T) {
	var text bytes.Buffer
	require.NoError(t, output.New(&text, output.FormatText).Error(fmt.Errorf("build failed")))
	assert.Equal(t, "Error: build failed\n", text.String())

	var js bytes.Buffer
	require.NoError(t, output.New(&js, output.FormatJSON).Error(fmt.Errorf("build failed")))
	assert.JSONEq(t, `{"error":"build failed"}`, js.String())
}
