package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bscpro/bank-export/cmd/root"
	"bscpro/bank-export/internal/config"
	"bscpro/bank-export/internal/container"
	"bscpro/bank-export/internal/logging"
	"bscpro/bank-export/internal/models"
)

const statement = `ING Bank N.V.
Rekeningnummer NL20 INGB 0001 2345 67
15-01-2024  Albert Heijn 1234 Amsterdam          -85,43
16-01-2024  Factuur 2024-001                      250,00 Bij
`

func testContainer(t *testing.T) *container.Container {
	t.Helper()
	cfg := &config.Config{}
	cfg.Rules.Backend = config.BackendMemory
	cfg.Rules.DefaultUser = "local"
	cfg.Rules.SeedDefaults = true
	c, err := container.NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func writeStatement(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o600))
	return path
}

func TestClassify_Table(t *testing.T) {
	c := testContainer(t)
	flags := root.CommonFlags{Input: writeStatement(t, t.TempDir(), "afschrift.txt", statement)}

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), c, flags, false, &out))

	text := out.String()
	assert.Contains(t, text, "CATEGORIE")
	assert.Contains(t, text, "Boodschappen")
	assert.Contains(t, text, "4610")
	assert.Contains(t, text, models.UnclassifiedCategory)
}

func TestClassify_JSON(t *testing.T) {
	c := testContainer(t)
	flags := root.CommonFlags{Input: writeStatement(t, t.TempDir(), "afschrift.txt", statement)}

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), c, flags, true, &out))

	var rows []classifiedRow
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, models.MethodRuleMatch, rows[0].Classification.Method)
	assert.Equal(t, models.BTW9, rows[0].Classification.BTWRate)
	assert.NotEmpty(t, rows[0].Trust.Level)
	assert.Equal(t, models.MethodFallback, rows[1].Classification.Method)
}

func TestClassify_OtherUserHasNoRules(t *testing.T) {
	c := testContainer(t)
	flags := root.CommonFlags{Input: writeStatement(t, t.TempDir(), "afschrift.txt", statement), User: "someone-else"}

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), c, flags, true, &out))

	var rows []classifiedRow
	require.NoError(t, json.Unmarshal(out.Bytes(), &rows))
	for _, r := range rows {
		assert.Equal(t, models.MethodFallback, r.Classification.Method)
	}
}
