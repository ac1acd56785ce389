package xmlutils

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/net/html/charset"
	"gopkg.in/xmlpath.v2"
)

// NewDecoder returns an xml.Decoder that honours the encoding declared in the
// XML prolog (UTF-8, ISO-8859-1, windows-1252, UTF-16 ...).
func NewDecoder(r io.Reader) *xml.Decoder {
	d := xml.NewDecoder(r)
	d.CharsetReader = charset.NewReaderLabel
	d.Strict = false
	return d
}

// ParseXML parses a document into an xmlpath tree.
func ParseXML(r io.Reader) (*xmlpath.Node, error) {
	root, err := xmlpath.ParseDecoder(NewDecoder(r))
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML: %w", err)
	}
	return root, nil
}

// LoadXMLFile loads an XML file and returns the XML root node
func LoadXMLFile(xmlFilePath string) (root *xmlpath.Node, err error) {
	file, err := os.Open(xmlFilePath) // #nosec G304 -- path supplied by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to open XML file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close XML file: %w", closeErr)
		}
	}()

	root, err = ParseXML(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse XML file %s: %w", xmlFilePath, err)
	}

	return root, nil
}

// ExtractFromXML extracts values from an XML node using an XPath expression
func ExtractFromXML(root *xmlpath.Node, xpath string) ([]string, error) {
	path, err := xmlpath.Compile(xpath)
	if err != nil {
		return nil, fmt.Errorf("failed to compile XPath: %w", err)
	}

	var values []string
	iter := path.Iter(root)
	for iter.Next() {
		values = append(values, iter.Node().String())
	}

	return values, nil
}

// RootElement returns the local name of the first element in the stream
// without reading the rest of the document.
func RootElement(r io.Reader) (string, error) {
	d := NewDecoder(r)
	for {
		tok, err := d.Token()
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("no root element found")
		}
		if err != nil {
			return "", fmt.Errorf("failed to read XML: %w", err)
		}
		if start, ok := tok.(xml.StartElement); ok {
			return start.Name.Local, nil
		}
	}
}

// GetOrEmpty returns the value at the specified index in a slice, or an empty string if the index is out of bounds
func GetOrEmpty(slice []string, index int) string {
	if index >= 0 && index < len(slice) {
		return slice[index]
	}
	return ""
}

// CleanText collapses whitespace and newlines in XML text content.
func CleanText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
