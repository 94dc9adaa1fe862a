package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRealMain(t *testing.T) {
	cnfg := writeTestFile(t, t.TempDir(), "config.yaml", "logging:\n  console_level: info\n")

	emptyDir := t.TempDir()

	headerOnly := t.TempDir()
	writeTestFile(t, headerOnly, "a.csv", "MARGINALPDBCPT;\n*\n")

	oneRow := t.TempDir()
	writeTestFile(t, oneRow, "a.csv", "2024;01;15;10;45.50;x;y\n")

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout []string
		wantStderr []string
		notStdout  []string
	}{
		{
			name:       "no flags prints usage",
			args:       nil,
			wantCode:   0,
			wantStderr: []string{"Usage of omie-prices", "-analyze"},
		},
		{
			name:     "help",
			args:     []string{"-h"},
			wantCode: 0,
		},
		{
			name:     "unknown flag",
			args:     []string{"--nope"},
			wantCode: 2,
		},
		{
			name:       "no matching files",
			args:       []string{"--config", cnfg, "--analyze", "--dir", emptyDir},
			wantCode:   1,
			wantStdout: []string{"No files found matching the criteria *.csv in path " + emptyDir},
		},
		{
			name:      "no valid rows",
			args:      []string{"--config", cnfg, "--analyze", "--dir", headerOnly},
			wantCode:  1,
			notStdout: []string{"Overall Average Price"},
		},
		{
			name:     "bad day does not stop the analysis",
			args:     []string{"--config", cnfg, "--get-day", "2024-13-45", "--analyze", "--dir", oneRow},
			wantCode: 0,
			wantStdout: []string{
				"Hour: 10, Average Cost: 45.50, Standard Deviation: 0.00",
				"Overall Average Price: 45.50",
			},
			wantStderr: []string{"invalid day"},
		},
		{
			name:       "graph",
			args:       []string{"--config", cnfg, "--analyze", "--graph", "--dir", oneRow, "--file", "*.csv"},
			wantCode:   0,
			wantStdout: []string{"Overall Average Price: 45.50", "Average price per hour 10-10"},
		},
		{
			name:     "missing config file",
			args:     []string{"--config", filepath.Join(emptyDir, "missing.yaml"), "--analyze"},
			wantCode: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := realMain(tt.args, &stdout, &stderr)

			assert.Equal(t, tt.wantCode, code, "stdout: %s\nstderr: %s", stdout.String(), stderr.String())
			for _, s := range tt.wantStdout {
				assert.Contains(t, stdout.String(), s)
			}
			for _, s := range tt.notStdout {
				assert.NotContains(t, stdout.String(), s)
			}
			for _, s := range tt.wantStderr {
				assert.Contains(t, stderr.String(), s)
			}
		})
	}
}
