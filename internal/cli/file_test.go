package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func isolateEnv(t *testing.T) {
	t.Helper()
	t.Setenv("SUPABASE_URL", "")
	t.Setenv("REDIS_ENABLED", "false")
	t.Setenv("PROMPT_TEMPLATES_FILE", "")
	t.Setenv("BATCH_MAX_WORKERS", "4")
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd(zap.NewNop())
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestCSVCommand(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "prompts.csv")
	output := filepath.Join(dir, "enhanced.csv")
	require.NoError(t, os.WriteFile(input, []byte("prompt,model\nexplain quantum computing,gpt4\n,\nwrite a short story,\n"), 0o644))

	out, err := execute(t, "csv", "--input", input, "--output", output, "--batch-size", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "Processed 3 prompts")
	assert.Contains(t, out, "(2 successful, 1 failed)")
	assert.Contains(t, out, "Results saved to "+output)

	f, err := os.Open(output)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "explain quantum computing", rows[1][0])
	assert.Equal(t, "true", rows[1][3])
	assert.Equal(t, "false", rows[2][3])
	assert.NotEmpty(t, rows[2][4])
}

func TestProcessCommandDetectsJSON(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	input := filepath.Join(dir, "prompts.json")
	output := filepath.Join(dir, "enhanced.json")
	require.NoError(t, os.WriteFile(input, []byte(`["summarize this article", {"prompt": "debug my code", "model": "claude"}]`), 0o644))

	out, err := execute(t, "process", "--input", input, "--output", output)
	require.NoError(t, err)
	assert.Contains(t, out, "(2 successful, 0 failed)")

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var results []map[string]any
	require.NoError(t, json.Unmarshal(data, &results))
	require.Len(t, results, 2)
	assert.Equal(t, "summarize this article", results[0]["original"])
	assert.Equal(t, map[string]any{"prompt": "debug my code", "model": "claude"}, results[1]["original"])
	assert.Equal(t, true, results[1]["success"])
}

func TestFileCommandErrors(t *testing.T) {
	isolateEnv(t)
	dir := t.TempDir()
	txt := filepath.Join(dir, "prompts.txt")
	require.NoError(t, os.WriteFile(txt, []byte("hello"), 0o644))
	csvFile := filepath.Join(dir, "prompts.csv")
	require.NoError(t, os.WriteFile(csvFile, []byte("prompt\nhello\n"), 0o644))

	tests := []struct {
		name string
		args []string
	}{
		{name: "missing input flag", args: []string{"csv"}},
		{name: "unknown extension", args: []string{"process", "--input", txt}},
		{name: "missing file", args: []string{"json", "--input", filepath.Join(dir, "nope.json")}},
		{name: "bad batch size", args: []string{"csv", "--input", csvFile, "--batch-size", "0"}},
		{name: "remove source without storage", args: []string{"csv", "--input", csvFile, "--remove-source"}},
		{name: "storage disabled", args: []string{"csv", "--input", "prompts.csv", "--from-storage"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}
