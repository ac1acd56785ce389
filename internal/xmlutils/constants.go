// Package xmlutils provides XML-related utility functions used throughout the application.
package xmlutils

// SMSBackup contains the XPath expressions for SMS Backup & Restore archives.
type SMSBackup struct {
	Root     string
	Count    string
	Messages string

	// Message attributes, relative to the document root
	Message struct {
		Address      string
		Date         string
		Body         string
		ReadableDate string
		Type         string
	}
}

// Element and attribute names of an SMS backup archive
const (
	ElementRoot    = "smses"
	ElementMessage = "sms"

	AttrCount        = "count"
	AttrAddress      = "address"
	AttrDate         = "date"
	AttrBody         = "body"
	AttrReadableDate = "readable_date"
	AttrType         = "type"
)

// DefaultSMSBackupXPaths returns the XPath expressions for the standard layout.
func DefaultSMSBackupXPaths() SMSBackup {
	x := SMSBackup{}

	x.Root = "/smses"
	x.Count = "/smses/@count"
	x.Messages = "/smses/sms"

	x.Message.Address = "/smses/sms/@address"
	x.Message.Date = "/smses/sms/@date"
	x.Message.Body = "/smses/sms/@body"
	x.Message.ReadableDate = "/smses/sms/@readable_date"
	x.Message.Type = "/smses/sms/@type"

	return x
}
