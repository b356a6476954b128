package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pantrytrack/backend/internal/domain"
)

func TestRun_ParseOnly(t *testing.T) {
	var stdout, stderr bytes.Buffer
	stdin := strings.NewReader("2 lbs apples $4.50\nSUBTOTAL $4.50")

	err := run(context.Background(), []string{"--parse-only"}, stdin, &stdout, &stderr)
	require.NoError(t, err)

	var out parseOutput
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &out))
	assert.Equal(t, domain.LayoutGeneric, out.Layout)
	require.Len(t, out.Items, 1)
	assert.Equal(t, "Apples", out.Items[0].Name)
	assert.Equal(t, 2.0, out.Items[0].Quantity)
	assert.Equal(t, "lbs", out.Items[0].Unit)
}

func TestRun_ScanWithInventoryFile(t *testing.T) {
	dir := t.TempDir()
	invPath := filepath.Join(dir, "inventory.json")
	receiptPath := filepath.Join(dir, "receipt.txt")

	require.NoError(t, os.WriteFile(invPath, []byte(`{
		"pantry": [{"id": "1", "name": "Peanut Butter", "category": "Pantry Staples", "unit": "jar"}],
		"shoppingList": []
	}`), 0o644))
	require.NoError(t, os.WriteFile(receiptPath, []byte("aarut butler $5.99\nTOTAL $5.99"), 0o644))

	var stdout, stderr bytes.Buffer
	err := run(context.Background(),
		[]string{"--file", receiptPath, "--inventory-file", invPath},
		strings.NewReader(""), &stdout, &stderr)
	require.NoError(t, err)

	var result domain.ScanResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
	require.Len(t, result.Results, 1)
	assert.Equal(t, "Peanut Butter", result.Results[0].Name)
	assert.Equal(t, domain.SourcePantry, result.Results[0].Source)
}

func TestRun_NothingRecognized(t *testing.T) {
	dir := t.TempDir()
	invPath := filepath.Join(dir, "inventory.json")
	require.NoError(t, os.WriteFile(invPath, []byte(`{"pantry": [], "shoppingList": []}`), 0o644))

	var stdout, stderr bytes.Buffer
	err := run(context.Background(),
		[]string{"--inventory-file", invPath},
		strings.NewReader("SUBTOTAL $45.32\nVISA"), &stdout, &stderr)
	assert.ErrorIs(t, err, domain.ErrNothingRecognized)

	var result domain.ScanResult
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &result))
	assert.Empty(t, result.Results)
}

func TestRun_Errors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"--nope"}},
		{"missing receipt file", []string{"--file", filepath.Join(t.TempDir(), "missing.txt")}},
		{"unknown provider", []string{"--llm-provider", "mystery", "--inventory-file", "x.json"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			err := run(context.Background(), tc.args, strings.NewReader("3 Bananas"), &stdout, &stderr)
			assert.Error(t, err)
		})
	}
}
