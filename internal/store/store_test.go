package store

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"momoledger/momo-ingest/internal/logging"
	"momoledger/momo-ingest/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
}

func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "test.yaml")
	writeFile(t, testFile, "categories: []")

	store := NewRuleStore("", logging.NewMockLogger())

	file, err := store.FindConfigFile(testFile)
	assert.NoError(t, err)
	assert.Equal(t, testFile, file)

	_, err = store.FindConfigFile(filepath.Join(dir, "nonexistent.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestFindConfigFile_RelativeLocations(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.MkdirAll("config", 0750))
	writeFile(t, filepath.Join("config", "rules.yaml"), "x: [y]")

	file, err := NewRuleStore("", nil).FindConfigFile("rules.yaml")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("config", "rules.yaml"), file)
}

func TestLoadRules_Canonical(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "categories.yaml")
	writeFile(t, file, `
categories:
  - name: Payment
    keywords: ["Payment", " bill ", ""]
  - name: airtime
    keywords: [airtime]
`)

	rules, err := NewRuleStore(file, logging.NewMockLogger()).LoadRules()
	require.NoError(t, err)
	require.Len(t, rules.Rules, 2)
	assert.Equal(t, "payment", rules.Rules[0].Name)
	assert.Equal(t, []string{"payment", "bill"}, rules.Rules[0].Keywords)
	assert.Equal(t, "airtime", rules.Rules[1].Name)
}

func TestLoadRules_AlternativeLayouts(t *testing.T) {
	tests := []struct {
		name    string
		content string
		names   []string
	}{
		{
			name:    "bare list",
			content: "- name: deposit\n  keywords: [deposit]\n- name: query\n  keywords: [balance]\n",
			names:   []string{"deposit", "query"},
		},
		{
			name:    "name to keywords map keeps file order",
			content: "withdrawal: [withdraw, cashout]\ndeposit: [deposit]\nairtime: [airtime]\n",
			names:   []string{"withdrawal", "deposit", "airtime"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules, err := ParseRules([]byte(tt.content))
			require.NoError(t, err)
			var names []string
			for _, r := range rules.Rules {
				names = append(names, r.Name)
			}
			assert.Equal(t, tt.names, names)
		})
	}
}

func TestLoadRules_MissingFileFallsBack(t *testing.T) {
	logger := logging.NewMockLogger()
	rules, err := NewRuleStore(filepath.Join(t.TempDir(), "missing.yaml"), logger).LoadRules()
	require.NoError(t, err)
	assert.Equal(t, models.DefaultRuleSet(), rules)
	assert.True(t, logger.HasEntry("WARN", "Rules file not found, using built-in rules"))
}

func TestLoadRules_NoFileConfigured(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("HOME", t.TempDir())

	logger := logging.NewMockLogger()
	rules, err := NewRuleStore("", logger).LoadRules()
	require.NoError(t, err)
	assert.Equal(t, models.DefaultRuleSet(), rules)
	assert.Empty(t, logger.GetEntriesByLevel("WARN"))
}

func TestLoadRules_Malformed(t *testing.T) {
	dir := t.TempDir()

	bad := filepath.Join(dir, "bad.yaml")
	writeFile(t, bad, "categories: [unclosed")
	_, err := NewRuleStore(bad, nil).LoadRules()
	assert.Error(t, err)

	unnamed := filepath.Join(dir, "unnamed.yaml")
	writeFile(t, unnamed, "categories:\n  - keywords: [x]\n")
	_, err = NewRuleStore(unnamed, nil).LoadRules()
	assert.Error(t, err)

	scalar := filepath.Join(dir, "scalar.yaml")
	writeFile(t, scalar, "just a string")
	_, err = NewRuleStore(scalar, nil).LoadRules()
	assert.Error(t, err)
}

func TestWriteRules_RoundTrip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRules(&buf, models.DefaultRuleSet()))
	assert.Contains(t, buf.String(), "categories:")

	parsed, err := ParseRules(buf.Bytes())
	require.NoError(t, err)
	assert.Equal(t, models.DefaultRuleSet(), parsed)
}

func TestMockRuleStore(t *testing.T) {
	m := &MockRuleStore{Rules: models.DefaultRuleSet()}
	rules, err := m.LoadRules()
	require.NoError(t, err)
	rules.Rules[0].Name = "changed"
	assert.NotEqual(t, "changed", m.Rules.Rules[0].Name)
	assert.Equal(t, 1, m.Loads)
}

// chdir changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which requires Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
