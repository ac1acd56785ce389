package rules

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"momoledger/momo-ingest/cmd/root"
	"momoledger/momo-ingest/internal/models"
	"momoledger/momo-ingest/internal/store"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRules_PrintsConfiguredRules(t *testing.T) {
	dir := t.TempDir()
	original := root.SharedFlags
	t.Cleanup(func() { root.SharedFlags = original })

	rulesFile := filepath.Join(dir, "categories.yaml")
	require.NoError(t, os.WriteFile(rulesFile, []byte("school: [Fees, tuition]\nrent: [landlord]\n"), 0600))
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log:\n  level: error\ncategorization:\n  rules_file: \""+rulesFile+"\"\n"), 0600))
	root.SharedFlags = root.CommonFlags{ConfigFile: cfgPath}

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	require.NoError(t, rulesFunc(cmd, nil))

	parsed, err := store.ParseRules(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, []models.CategoryRule{
		{Name: "school", Keywords: []string{"fees", "tuition"}},
		{Name: "rent", Keywords: []string{"landlord"}},
	}, parsed.Rules)
}

func TestRules_BuiltInFallback(t *testing.T) {
	dir := t.TempDir()
	original := root.SharedFlags
	t.Cleanup(func() { root.SharedFlags = original })

	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log:\n  level: error\n"), 0600))
	root.SharedFlags = root.CommonFlags{ConfigFile: cfgPath}

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	require.NoError(t, rulesFunc(cmd, nil))

	parsed, err := store.ParseRules(out.Bytes())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultRuleSet().Rules, parsed.Rules)
}
