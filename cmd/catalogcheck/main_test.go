// SPDX-License-Identifier: MIT

package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magiavventure/go-common/pkg/catalog"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// TestCatalogCheckCLI runs the command in-process with various catalog files
func TestCatalogCheckCLI(t *testing.T) {
	yamlFile := writeFile(t, "errors.yaml", `
errors:
  not-found:
    code: "CAT-404"
    status: 404
    message: "category not found"
  category-name-taken:
    code: "CAT-409"
    status: 409
    message: "name '%s' is taken"
`)
	tomlFile := writeFile(t, "errors.toml", `
[errors.not-found]
code = "CAT-404-B"
status = 404
`)
	partial := writeFile(t, "partial.yaml", `
errors:
  unknown-error: {code: "UE", status: 500}
`)
	unknownField := writeFile(t, "typo.yaml", `
errors:
  not-found: {code: "NF", stauts: 404}
`)

	tests := []struct {
		name       string
		args       []string
		wantExit   int
		wantStdout []string
		wantStderr string
	}{
		{
			name:       "defaults only",
			wantExit:   0,
			wantStdout: []string{"GEN-500", "catalog is valid", "defaults"},
		},
		{
			name:       "yaml overrides defaults",
			args:       []string{"-f", yamlFile},
			wantExit:   0,
			wantStdout: []string{"CAT-404", "category-name-taken", "catalog is valid"},
		},
		{
			name:       "later file wins",
			args:       []string{"-f", yamlFile, "-f", tomlFile},
			wantExit:   0,
			wantStdout: []string{"CAT-404-B"},
		},
		{
			name:       "missing reserved keys without defaults",
			args:       []string{"--no-defaults", "-f", partial},
			wantExit:   1,
			wantStderr: "not-found",
		},
		{
			name:       "unknown field in file",
			args:       []string{"-f", unknownField},
			wantExit:   1,
			wantStderr: "Catalog error",
		},
		{
			name:       "missing file",
			args:       []string{"-f", filepath.Join(t.TempDir(), "absent.yaml")},
			wantExit:   1,
			wantStderr: "Catalog error",
		},
		{
			name:       "nothing to check",
			args:       []string{"--no-defaults"},
			wantExit:   2,
			wantStderr: "nothing to check",
		},
		{
			name:       "unknown flag",
			args:       []string{"--bogus"},
			wantExit:   2,
			wantStderr: "unknown flag",
		},
		{
			name:       "positional arguments rejected",
			args:       []string{"errors.yaml"},
			wantExit:   2,
			wantStderr: "Usage:",
		},
		{
			name:       "version",
			args:       []string{"--version"},
			wantExit:   0,
			wantStdout: []string{Version},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			code := run(tt.args, &stdout, &stderr)

			assert.Equal(t, tt.wantExit, code, "stderr: %s", stderr.String())
			for _, want := range tt.wantStdout {
				assert.Contains(t, stdout.String(), want)
			}
			if tt.wantStderr != "" {
				assert.Contains(t, stderr.String(), tt.wantStderr)
			}
		})
	}
}

func TestCatalogCheckCLI_JSON(t *testing.T) {
	var stdout, stderr bytes.Buffer
	code := run([]string{"--json"}, &stdout, &stderr)
	require.Equal(t, 0, code, stderr.String())

	var entries []catalog.Entry
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &entries))
	require.Len(t, entries, catalog.Build(catalog.Defaults()).Len())
	assert.Equal(t, "bad-request", entries[0].Key)
}
