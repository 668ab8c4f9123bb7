// Package integration holds end-to-end tests that run every input source
// through the container-wired pipeline.
package integration

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bscpro/bank-export/internal/config"
	"bscpro/bank-export/internal/container"
	"bscpro/bank-export/internal/export"
	"bscpro/bank-export/internal/logging"
	"bscpro/bank-export/internal/pipeline"
)

const iban = "NL20INGB0001234567"

var exportTime = time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)

var sources = map[string]string{
	"afschrift.json": `{"bank": "ING", "rekeningnummer": "` + iban + `", "transactions": [
  {"date": "15-01-2024", "description": "Albert Heijn 1234 Amsterdam", "amount": -85.43},
  {"date": "16-01-2024", "description": "Factuur 2024-001", "amount": "250,00"}
]}`,
	"afschrift.csv": "Datum;Omschrijving;Bedrag\n" +
		"15-01-2024;Albert Heijn 1234 Amsterdam;-85,43\n" +
		"16-01-2024;Factuur 2024-001;250,00\n",
	"afschrift.txt": `ING Bank N.V.
Rekeningnummer NL20 INGB 0001 2345 67
15-01-2024 Albert Heijn 1234 Amsterdam -85,43
16-01-2024 Factuur 2024-001 250,00 Bij
`,
}

func setup(t *testing.T) (*container.Container, *pipeline.Service) {
	t.Helper()
	cfg := &config.Config{}
	cfg.Rules.Backend = config.BackendMemory
	cfg.Rules.DefaultUser = "local"
	cfg.Rules.SeedDefaults = true

	c, err := container.NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	opts := c.GetExportOptions()
	opts.Clock = export.FixedClock(exportTime)
	return c, c.PipelineWithOptions(opts)
}

func runFile(t *testing.T, c *container.Container, svc *pipeline.Service, path, format string) *pipeline.Output {
	t.Helper()
	in, err := c.GetLoader().Load(context.Background(), path)
	require.NoError(t, err)
	in.Format = format
	in.User.UserID = "local"
	if in.IBAN == "" {
		in.IBAN = iban
	}
	out, err := svc.Run(context.Background(), in)
	require.NoError(t, err)
	return out
}

// TestCrossSourceConsistency checks that the same statement produces the
// same CSV export whatever file type it arrives in.
func TestCrossSourceConsistency(t *testing.T) {
	c, svc := setup(t)
	dir := t.TempDir()

	results := make(map[string]string)
	for name, content := range sources {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		results[name] = string(runFile(t, c, svc, path, export.FormatCSV).Result.Bytes)
	}

	reference := results["afschrift.json"]
	assert.Contains(t, reference, "Boodschappen")
	assert.Contains(t, reference, iban)
	for name, got := range results {
		assert.Equal(t, reference, got, "CSV export of %s differs", name)
	}
}

// TestCAMTRoundTrip feeds our own CAMT.053 export back in as a statement.
func TestCAMTRoundTrip(t *testing.T) {
	c, svc := setup(t)
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "afschrift.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(sources["afschrift.json"]), 0o600))

	camt := runFile(t, c, svc, jsonPath, export.FormatCAMT)
	camtPath := filepath.Join(dir, camt.Result.Filename)
	require.NoError(t, os.WriteFile(camtPath, camt.Result.Bytes, 0o600))

	fromJSON := runFile(t, c, svc, jsonPath, export.FormatCSV)
	fromCAMT := runFile(t, c, svc, camtPath, export.FormatCSV)

	assert.Equal(t, iban, fromCAMT.Batch.IBAN)
	assert.Equal(t, string(fromJSON.Result.Bytes), string(fromCAMT.Result.Bytes))
}

// TestClassificationIsStablePerSource checks that rule matches do not
// depend on transaction ids, which differ between sources.
func TestClassificationIsStablePerSource(t *testing.T) {
	c, svc := setup(t)
	dir := t.TempDir()

	for name, content := range sources {
		path := filepath.Join(dir, name)
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

		out := runFile(t, c, svc, path, export.FormatMT940)
		require.Len(t, out.Batch.Transactions, 2, name)
		first := out.Batch.Classifications[out.Batch.Transactions[0].ID]
		assert.Equal(t, "4610", first.GrootboekCode, name)
	}
}
