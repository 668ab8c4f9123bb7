package rules

import (
	"bytes"
	"context"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bscpro/bank-export/internal/config"
	"bscpro/bank-export/internal/container"
	"bscpro/bank-export/internal/logging"
	"bscpro/bank-export/internal/models"
	"bscpro/bank-export/internal/pipelineerror"
	"bscpro/bank-export/internal/store"
)

func testContainer(t *testing.T) *container.Container {
	t.Helper()
	cfg := &config.Config{}
	cfg.Rules.Backend = config.BackendMemory
	cfg.Rules.DefaultUser = "local"
	c, err := container.NewContainerWithLogger(cfg, logging.NewMockLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRules_AddListDelete(t *testing.T) {
	c := testContainer(t)
	ctx := context.Background()

	created, err := add(ctx, c, "u1", parseFlags(t, "add", "--grootboek", "4400", "--category", "Onderhoud", "--keyword", "Bouwmarkt"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, models.MatchContains, created.MatchType)
	assert.Equal(t, models.DefaultRulePriority, created.Priority)

	var out bytes.Buffer
	require.NoError(t, list(ctx, c, "u1", false, &out))
	assert.Contains(t, out.String(), "Bouwmarkt")
	assert.Contains(t, out.String(), "Onderhoud")

	require.NoError(t, c.GetRuleStore().DeleteRule(ctx, "u1", created.ID))

	out.Reset()
	require.NoError(t, list(ctx, c, "u1", false, &out))
	assert.NotContains(t, out.String(), "Bouwmarkt")

	out.Reset()
	require.NoError(t, list(ctx, c, "u1", true, &out))
	assert.Contains(t, out.String(), "Bouwmarkt")
	assert.Contains(t, out.String(), "false")
}

func TestRules_AddInvalid(t *testing.T) {
	c := testContainer(t)

	_, err := add(context.Background(), c, "u1", parseFlags(t, "add", "--keyword", "x", "--grootboek", "4400", "--btw", "17"))
	assert.True(t, pipelineerror.IsInputError(err))
}

// parseFlags builds the rule patch of the add or update subcommand from args.
// A keyword flag stands in for the positional KEYWORD of add.
func parseFlags(t *testing.T, mode string, args ...string) store.RulePatch {
	t.Helper()
	var f ruleFlags
	fs := pflag.NewFlagSet(mode, pflag.ContinueOnError)
	f.register(fs)
	fs.StringVarP(&f.keyword, "keyword", "k", "", "")
	fs.BoolVar(&f.active, "active", true, "")
	require.NoError(t, fs.Parse(args))
	return f.patch(fs, mode == "add")
}

func TestRuleFlags_Patch(t *testing.T) {
	p := parseFlags(t, "update", "--priority", "0", "--active=false")
	require.NotNil(t, p.Priority)
	assert.Equal(t, 0, *p.Priority)
	require.NotNil(t, p.IsActive)
	assert.False(t, *p.IsActive)
	assert.Nil(t, p.Keyword)
	assert.Nil(t, p.GrootboekCode)
	assert.Nil(t, p.BTWPercentage)
	assert.Nil(t, p.MatchType)

	p = parseFlags(t, "add", "--keyword", "kpn", "--grootboek", "4520")
	require.NotNil(t, p.BTWPercentage)
	assert.Equal(t, "21", *p.BTWPercentage)
	require.NotNil(t, p.Priority)
	assert.Equal(t, models.DefaultRulePriority, *p.Priority)
	assert.Nil(t, p.IsActive)
}

func TestRules_Update(t *testing.T) {
	c := testContainer(t)
	ctx := context.Background()

	created, err := add(ctx, c, "u1", parseFlags(t, "add", "--keyword", "ns", "--grootboek", "4330", "--btw", "9"))
	require.NoError(t, err)

	updated, err := update(ctx, c, "u1", created.ID, parseFlags(t, "update", "--keyword", "NS ", "--match", "starts_with", "--priority", "0"))
	require.NoError(t, err)
	assert.Equal(t, "NS ", updated.Keyword)
	assert.Equal(t, models.MatchStartsWith, updated.MatchType)
	assert.Equal(t, 0, updated.Priority)
	assert.Equal(t, "4330", updated.GrootboekCode)
	assert.Equal(t, "9", updated.BTWPercentage)

	var out bytes.Buffer
	require.NoError(t, writeTable(&out, updated))
	assert.Contains(t, out.String(), "starts_with")

	_, err = update(ctx, c, "u1", "missing", parseFlags(t, "update", "--priority", "5"))
	assert.ErrorIs(t, err, store.ErrRuleNotFound)
	_, err = update(ctx, c, "u1", created.ID, parseFlags(t, "update"))
	assert.True(t, pipelineerror.IsInputError(err))
}

func TestRules_Seed(t *testing.T) {
	c := testContainer(t)
	ctx := context.Background()

	added, err := seed(ctx, c, "u2")
	require.NoError(t, err)
	assert.Equal(t, len(store.DefaultRules()), added)

	again, err := seed(ctx, c, "u2")
	require.NoError(t, err)
	assert.Zero(t, again)
}

func TestRules_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, sub := range Cmd.Commands() {
		names[sub.Name()] = true
	}
	assert.Equal(t, map[string]bool{"list": true, "add": true, "update": true, "delete": true, "seed": true}, names)
	assert.NotNil(t, addCmd.Flags().Lookup("grootboek"))
	assert.NotNil(t, updateCmd.Flags().Lookup("keyword"))
	assert.NotNil(t, updateCmd.Flags().Lookup("active"))
}
