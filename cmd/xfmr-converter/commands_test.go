package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"xfmr-converter/internal/cgmes"
	"xfmr-converter/internal/network"
)

const validDoc = `
regulatingControls:
  - {id: RC1, enabled: true, mode: voltage}
transformers:
  - id: T1
    ends:
      - r: 1
        x: 10
        ratedU: 400
        terminal: T1-1
        ratioTapChanger:
          id: RTC1
          lowStep: 1
          highStep: 3
          neutralStep: 2
          step: 2
          stepVoltageIncrement: 1.25
          regulatingControlId: RC1
          controlEnabled: true
      - {r: 0, x: 0, ratedU: 220, terminal: T1-2}
  - id: T3
    ends:
      - {r: 1, x: 10, ratedU: 400}
      - {r: 1, x: 10, ratedU: 200}
      - {r: 1, x: 10, ratedU: 20}
`

const invalidDoc = `
transformers:
  - id: BROKEN
    ends:
      - {r: 1, x: 10, ratedU: 400}
`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var out, errOut bytes.Buffer

	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	err := cmd.Execute()

	return out.String(), errOut.String(), err
}

func TestConvert_ToStdout(t *testing.T) {
	input := writeFile(t, "doc.yaml", validDoc)

	out, errOut, err := execute(t, "convert", "--input", input)
	require.NoError(t, err, errOut)

	var store network.Store
	require.NoError(t, yaml.Unmarshal([]byte(out), &store))
	require.Len(t, store.TwoWindingsTransformers, 1)
	require.Len(t, store.ThreeWindingsTransformers, 1)

	rtc := store.TwoWindingsTransformers[0].RatioTapChanger
	require.NotNil(t, rtc)
	assert.Equal(t, "RTC1", rtc.ID)
	assert.True(t, rtc.Regulating)
	assert.Len(t, rtc.Steps, 3)

	require.Len(t, store.Regulations, 1)
	assert.Equal(t, "RC1", store.Regulations[0].Ratio.RegulatingControlID)

	assert.Contains(t, errOut, "converted 2 of 2 transformers")
}

func TestConvert_ToFilesWithChart(t *testing.T) {
	input := writeFile(t, "doc.yaml", validDoc)
	dir := t.TempDir()
	output := filepath.Join(dir, "net", "network.yaml")
	html := filepath.Join(dir, "charts", "steps.html")

	out, _, err := execute(t, "convert", "-i", input, "-o", output, "--chart", html, "--workers", "1")
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	assert.Contains(t, string(data), "id: T1")

	page, err := os.ReadFile(html)
	require.NoError(t, err)
	assert.Contains(t, string(page), "T1 RTC1")
}

func TestConvert_WithConfig(t *testing.T) {
	input := writeFile(t, "doc.yaml", validDoc)
	config := writeFile(t, "config.yaml", "xfmr2:\n  structuralRatio: END2\n")

	out, _, err := execute(t, "convert", "-i", input, "-c", config)
	require.NoError(t, err)

	var store network.Store
	require.NoError(t, yaml.Unmarshal([]byte(out), &store))
	assert.InDelta(t, 0.3025, store.TwoWindingsTransformers[0].R, 1e-12)
}

func TestConvert_Dump(t *testing.T) {
	input := writeFile(t, "doc.yaml", validDoc)

	_, errOut, err := execute(t, "convert", "-i", input, "--dump")
	require.NoError(t, err)
	assert.Contains(t, errOut, "convert.Result")
}

func TestConvert_RefusesInvalidDocument(t *testing.T) {
	input := writeFile(t, "doc.yaml", invalidDoc)

	out, errOut, err := execute(t, "convert", "-i", input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "refusing to convert invalid document")
	assert.Contains(t, errOut, "expected 2 or 3 ends, got 1")
	assert.Empty(t, out)
}

func TestConvert_InvalidLogLevel(t *testing.T) {
	input := writeFile(t, "doc.yaml", validDoc)

	_, _, err := execute(t, "--log-level", "loud", "convert", "-i", input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid log level "loud"`)
}

func TestConvert_RequiresInput(t *testing.T) {
	_, _, err := execute(t, "convert")
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		input := writeFile(t, "doc.yaml", validDoc)

		out, _, err := execute(t, "validate", "-i", input)
		require.NoError(t, err)
		assert.Contains(t, out, "2 transformers, valid")
	})

	t.Run("invalid", func(t *testing.T) {
		input := writeFile(t, "doc.yaml", invalidDoc)

		_, errOut, err := execute(t, "validate", "-i", input)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "1 errors")
		assert.Contains(t, errOut, "[ends_count]")
	})

	t.Run("normalize", func(t *testing.T) {
		input := writeFile(t, "doc.yaml", validDoc)
		normalized := filepath.Join(t.TempDir(), "normalized.yaml")

		_, _, err := execute(t, "validate", "-i", input, "--normalize", normalized)
		require.NoError(t, err)

		doc, err := cgmes.LoadFile(normalized)
		require.NoError(t, err)
		assert.Equal(t, "1", doc.Version)
		require.Len(t, doc.Transformers, 2)
		assert.Equal(t, "T1", doc.Transformers[0].Name)

		data, err := os.ReadFile(normalized)
		require.NoError(t, err)
		assert.Contains(t, string(data), "version: \"1\"")
		assert.Contains(t, string(data), "name: T3")
	})

	t.Run("normalize skipped for invalid document", func(t *testing.T) {
		input := writeFile(t, "doc.yaml", invalidDoc)
		normalized := filepath.Join(t.TempDir(), "normalized.yaml")

		_, _, err := execute(t, "validate", "-i", input, "--normalize", normalized)
		require.Error(t, err)
		assert.NoFileExists(t, normalized)
	})

	t.Run("missing file", func(t *testing.T) {
		_, _, err := execute(t, "validate", "-i", filepath.Join(t.TempDir(), "none.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read transformer file")
	})
}

func TestConfig(t *testing.T) {
	out, _, err := execute(t, "config")
	require.NoError(t, err)

	assert.Contains(t, out, "xfmr2:")
	assert.Contains(t, out, "xfmr3:")
	assert.Contains(t, out, "END1_END2")
}
