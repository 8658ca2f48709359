package dirlist

import (
	"strconv"
	"strings"
)

// Entry describes a single child of a listed directory.
type Entry struct {
	// Filename is the bare entry name. Set by the flat strategy.
	Filename string `json:"filename,omitempty"`
	// Path is "parent/name". Set by the nested and walk strategies.
	Path string `json:"path,omitempty"`
	// IsDir indicates whether the entry is a directory.
	IsDir bool `json:"isdir"`
	// Size is the size in bytes, nil when unknown or for directories.
	Size *int64 `json:"size,omitempty"`
	// Exists is always true for listed entries.
	Exists bool `json:"exists"`
	// MIME is the probed content type, nil when the probe was inconclusive.
	MIME *string `json:"mime,omitempty"`
}

// Name returns the identifier of the entry, whichever strategy produced it.
func (e Entry) Name() string {
	if e.Path != "" {
		return e.Path
	}

	return e.Filename
}

// SizeValue returns the size and whether it is known.
func (e Entry) SizeValue() (int64, bool) {
	if e.Size == nil {
		return 0, false
	}

	return *e.Size, true
}

// MIMEValue returns the content type and whether it is known.
func (e Entry) MIMEValue() (string, bool) {
	if e.MIME == nil {
		return "", false
	}

	return *e.MIME, true
}

// Equal reports whether two entries carry the same values.
func (e Entry) Equal(o Entry) bool {
	if e.Filename != o.Filename || e.Path != o.Path || e.IsDir != o.IsDir || e.Exists != o.Exists {
		return false
	}

	lhsSize, lhsOK := e.SizeValue()
	rhsSize, rhsOK := o.SizeValue()

	if lhsOK != rhsOK || lhsSize != rhsSize {
		return false
	}

	lhsMIME, lhsOK := e.MIMEValue()
	rhsMIME, rhsOK := o.MIMEValue()

	return lhsOK == rhsOK && lhsMIME == rhsMIME
}

// String renders the entry as {key=value, ...}, leaving out absent fields.
func (e Entry) String() string {
	fields := make([]string, 0, 5)

	if e.Path != "" {
		fields = append(fields, "path="+e.Path)
	} else {
		fields = append(fields, "filename="+e.Filename)
	}

	fields = append(fields, "isdir="+strconv.FormatBool(e.IsDir))

	if size, ok := e.SizeValue(); ok {
		fields = append(fields, "size="+strconv.FormatInt(size, 10))
	}

	fields = append(fields, "exists="+strconv.FormatBool(e.Exists))

	if mime, ok := e.MIMEValue(); ok {
		fields = append(fields, "mime="+mime)
	}

	return "{" + strings.Join(fields, ", ") + "}"
}

// Last returns the final entry of a listing. The boolean is false for an
// empty listing.
func Last(entries []Entry) (Entry, bool) {
	if len(entries) == 0 {
		return Entry{}, false
	}

	return entries[len(entries)-1], true
}

// describeLast renders the final entry for log output.
func describeLast(entries []Entry) string {
	last, ok := Last(entries)
	if !ok {
		return "<none>"
	}

	return last.String()
}
