package classify

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"momoledger/momo-ingest/cmd/root"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyCommand_Metadata(t *testing.T) {
	assert.Equal(t, "classify [file]", Cmd.Use)
	assert.Contains(t, Cmd.Short, "without storing anything")

	flag := Cmd.Flags().Lookup("sample")
	require.NotNil(t, flag)
	assert.Equal(t, "n", flag.Shorthand)
	assert.Equal(t, "10", flag.DefValue)
}

func TestClassify_PrintsPreviewWithoutStorage(t *testing.T) {
	dir := t.TempDir()
	original := root.SharedFlags
	originalSample := SampleSize
	t.Cleanup(func() {
		root.SharedFlags = original
		SampleSize = originalSample
	})

	dbPath := filepath.Join(dir, "momo.db")
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("log:\n  level: error\nstorage:\n  dsn: \""+dbPath+"\"\n"), 0600))
	root.SharedFlags = root.CommonFlags{ConfigFile: cfgPath}
	SampleSize = 1

	var out bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&out)
	require.NoError(t, classifyFunc(cmd, []string{filepath.Join("testdata", "sms-backup.xml")}))

	text := out.String()
	assert.Contains(t, text, "3 messages declared, 3 present")
	assert.Contains(t, text, "IncomingMoney")
	assert.Contains(t, text, "50000.00 RWF")
	assert.NotContains(t, text, "75000.00 RWF", "sample is limited to one transaction")

	_, err := os.Stat(dbPath)
	assert.True(t, os.IsNotExist(err), "classify must not open storage")
}

func TestClassify_InvalidArchive(t *testing.T) {
	dir := t.TempDir()
	original := root.SharedFlags
	t.Cleanup(func() { root.SharedFlags = original })

	bad := filepath.Join(dir, "bad.xml")
	require.NoError(t, os.WriteFile(bad, []byte("not xml at all"), 0600))
	root.SharedFlags = root.CommonFlags{ConfigFile: filepath.Join(dir, "config.yaml")}
	require.NoError(t, os.WriteFile(root.SharedFlags.ConfigFile, []byte("log:\n  level: error\n"), 0600))

	err := classifyFunc(&cobra.Command{}, []string{bad})
	assert.Error(t, err)
}
