package smsbackup

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"momoledger/momo-ingest/internal/parsererror"
	"momoledger/momo-ingest/internal/xmlutils"
)

// ExpectedFormat describes the accepted archive layout in format errors.
const ExpectedFormat = "SMS Backup & Restore XML (<smses><sms .../></smses>)"

const snippetLength = 80

// ValidateFormat checks that path is an SMS backup archive by reading only up
// to its root element.
func ValidateFormat(path string) (err error) {
	file, err := os.Open(path) // #nosec G304 -- path supplied by the operator
	if err != nil {
		return fmt.Errorf("failed to open archive: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close archive: %w", closeErr)
		}
	}()

	root, rootErr := xmlutils.RootElement(file)
	if rootErr == nil && root == xmlutils.ElementRoot {
		return nil
	}

	msg := fmt.Sprintf("root element is <%s>", root)
	if rootErr != nil {
		msg = rootErr.Error()
	}
	return &parsererror.InvalidFormatError{
		FilePath:             path,
		ExpectedFormat:       ExpectedFormat,
		ActualContentSnippet: headSnippet(path),
		Msg:                  msg,
	}
}

func headSnippet(path string) string {
	file, err := os.Open(path) // #nosec G304 -- path supplied by the operator
	if err != nil {
		return ""
	}
	defer func() { _ = file.Close() }()

	buf := make([]byte, snippetLength*4)
	n, _ := io.ReadFull(file, buf)
	return parsererror.Truncate(string(buf[:n]), snippetLength)
}

// ArchiveInfo is the header-level description of an archive.
type ArchiveInfo struct {
	DeclaredCount int
	Messages      int
	Senders       map[string]int
}

// Inspect loads the archive as an XPath tree and reports the declared and
// actual message counts and the messages per sender address.
func Inspect(path string) (*ArchiveInfo, error) {
	root, err := xmlutils.LoadXMLFile(path)
	if err != nil {
		return nil, err
	}
	xp := xmlutils.DefaultSMSBackupXPaths()

	counts, err := xmlutils.ExtractFromXML(root, xp.Count)
	if err != nil {
		return nil, err
	}
	addresses, err := xmlutils.ExtractFromXML(root, xp.Message.Address)
	if err != nil {
		return nil, err
	}

	info := &ArchiveInfo{Senders: make(map[string]int)}
	if declared := xmlutils.GetOrEmpty(counts, 0); declared != "" {
		if n, convErr := strconv.Atoi(declared); convErr == nil {
			info.DeclaredCount = n
		}
	}
	for _, addr := range addresses {
		info.Senders[xmlutils.CleanText(addr)]++
	}
	info.Messages = len(addresses)

	return info, nil
}
