package xmlutils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleBackup = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<smses count="2">
  <sms address="M-Money" date="1715351400000" type="1" body="You have received 5,000 RWF from Jane (*********123)." readable_date="May 10, 2024 2:30:00 PM" />
  <sms address="MTN" date="1715351460000" type="1" body="Your new balance: 1,000 RWF" readable_date="May 10, 2024 2:31:00 PM" />
</smses>`

func TestGetOrEmpty(t *testing.T) {
	tests := []struct {
		name     string
		slice    []string
		index    int
		expected string
	}{
		{name: "valid index returns value", slice: []string{"a", "b", "c"}, index: 1, expected: "b"},
		{name: "first index", slice: []string{"first", "second"}, index: 0, expected: "first"},
		{name: "index out of bounds returns empty", slice: []string{"a", "b"}, index: 5, expected: ""},
		{name: "negative index returns empty", slice: []string{"a"}, index: -1, expected: ""},
		{name: "nil slice returns empty", slice: nil, index: 0, expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetOrEmpty(tt.slice, tt.index))
		})
	}
}

func TestExtractFromXML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.xml")
	require.NoError(t, os.WriteFile(path, []byte(sampleBackup), 0600))

	root, err := LoadXMLFile(path)
	require.NoError(t, err)
	xp := DefaultSMSBackupXPaths()

	count, err := ExtractFromXML(root, xp.Count)
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, count)

	addresses, err := ExtractFromXML(root, xp.Message.Address)
	require.NoError(t, err)
	assert.Equal(t, []string{"M-Money", "MTN"}, addresses)

	bodies, err := ExtractFromXML(root, xp.Message.Body)
	require.NoError(t, err)
	require.Len(t, bodies, 2)
	assert.Contains(t, bodies[0], "5,000 RWF")
}

func TestExtractFromXML_InvalidXPath(t *testing.T) {
	root, err := ParseXML(strings.NewReader(sampleBackup))
	require.NoError(t, err)

	_, err = ExtractFromXML(root, "///[")
	assert.Error(t, err)
}

func TestLoadXMLFile_Errors(t *testing.T) {
	_, err := LoadXMLFile(filepath.Join(t.TempDir(), "missing.xml"))
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "broken.xml")
	require.NoError(t, os.WriteFile(path, []byte("<smses><sms"), 0600))
	_, err = LoadXMLFile(path)
	assert.Error(t, err)
}

func TestParseXML_DeclaredCharset(t *testing.T) {
	// "Montant reçu" encoded as ISO-8859-1
	doc := "<?xml version=\"1.0\" encoding=\"ISO-8859-1\"?>\n<smses count=\"1\"><sms address=\"MoMo\" body=\"Montant re\xe7u 100 RWF\"/></smses>"

	root, err := ParseXML(strings.NewReader(doc))
	require.NoError(t, err)

	bodies, err := ExtractFromXML(root, DefaultSMSBackupXPaths().Message.Body)
	require.NoError(t, err)
	assert.Equal(t, []string{"Montant reçu 100 RWF"}, bodies)
}

func TestRootElement(t *testing.T) {
	name, err := RootElement(strings.NewReader(sampleBackup))
	require.NoError(t, err)
	assert.Equal(t, ElementRoot, name)

	name, err = RootElement(strings.NewReader("<?xml version=\"1.0\"?><!-- c --><html></html>"))
	require.NoError(t, err)
	assert.Equal(t, "html", name)

	_, err = RootElement(strings.NewReader(""))
	assert.Error(t, err)
}

func TestCleanText(t *testing.T) {
	assert.Equal(t, "a b c", CleanText("  a\n\tb   c "))
	assert.Equal(t, "", CleanText(""))
}
