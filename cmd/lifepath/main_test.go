package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func writeExample(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	out, err := execute(t, "example", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Example bundle written to "+path)
	return path
}

func TestExampleAndValidate(t *testing.T) {
	path := writeExample(t, t.TempDir(), "bundle.yaml")

	out, err := execute(t, "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, `"Graduate in Austin" is valid (10 years, 5 milestones)`)
}

func TestValidate_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: broken\nstart_age: -3\n"), 0644))

	_, err := execute(t, "validate", path)
	require.Error(t, err)
}

func TestProject(t *testing.T) {
	dir := t.TempDir()
	path := writeExample(t, dir, "bundle.yaml")

	out, err := execute(t, "project", path, "--format", "summary")
	require.NoError(t, err)
	assert.Contains(t, out, "LIFE PATH SCENARIO SUMMARY")
	assert.Contains(t, out, "Graduate in Austin")
	assert.NotContains(t, out, "Recommended:")
}

func TestProject_WritesFile(t *testing.T) {
	dir := t.TempDir()
	path := writeExample(t, dir, "bundle.yaml")
	report := filepath.Join(dir, "report.csv")

	out, err := execute(t, "project", path, "--format", "csv", "--out", report)
	require.NoError(t, err)
	assert.Contains(t, out, "Report written to "+report)
	assert.FileExists(t, report)
}

func TestProject_WithTables(t *testing.T) {
	dir := t.TempDir()
	path := writeExample(t, dir, "bundle.yaml")
	locations := filepath.Join(dir, "locations.csv")
	require.NoError(t, os.WriteFile(locations, []byte("postal_code,city,state,income_adjustment_factor,cost_of_living_index\n78701,Austin,TX,1.05,110\n"), 0644))
	careers := filepath.Join(dir, "careers.csv")
	require.NoError(t, os.WriteFile(careers, []byte("occupation,p10,p25,p50,p75,p90\nSoftware Developer,90000,110000,140000,170000,210000\n"), 0644))

	out, err := execute(t, "project", path, "--format", "json", "--locations", locations, "--careers", careers)
	require.NoError(t, err)
	assert.Contains(t, out, `"city": "Austin"`)
	assert.Contains(t, out, `"salary": "140000"`)
}

func TestProject_Errors(t *testing.T) {
	dir := t.TempDir()
	path := writeExample(t, dir, "bundle.yaml")

	tests := []struct {
		name string
		args []string
	}{
		{"unknown format", []string{"project", path, "--format", "pdf"}},
		{"bad log level", []string{"project", path, "--log-level", "loud"}},
		{"missing locations file", []string{"project", path, "--locations", filepath.Join(dir, "none.csv")}},
		{"missing bundle", []string{"project", filepath.Join(dir, "none.yaml")}},
		{"no arguments", []string{"project"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestCompare(t *testing.T) {
	dir := t.TempDir()
	first := writeExample(t, dir, "first.yaml")
	second := writeExample(t, dir, "second.yaml")

	out, err := execute(t, "compare", first, second, "--format", "console")
	require.NoError(t, err)
	assert.Contains(t, out, "SCENARIO 1: Graduate in Austin")
	assert.Contains(t, out, "SCENARIO 2: Graduate in Austin")
	assert.Contains(t, out, "Recommended: Graduate in Austin")

	_, err = execute(t, "compare", first)
	assert.Error(t, err, "compare needs at least two bundles")
}

func TestCompare_All(t *testing.T) {
	dir := t.TempDir()
	first := writeExample(t, dir, "first.yaml")
	second := writeExample(t, dir, "second.yaml")

	out, err := execute(t, "compare", first, second, "--format", "all", "--out", filepath.Join(dir, "cmp.txt"))
	require.NoError(t, err)
	assert.Contains(t, out, filepath.Join(dir, "cmp.txt"))
	assert.FileExists(t, filepath.Join(dir, "cmp.csv"))
}
