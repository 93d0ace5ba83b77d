package fontdl

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
)

// ArchiveExt is the extension given to every downloaded archive.
const ArchiveExt = ".zip"

// rowArity is the number of positional fields the provider sends per row.
const rowArity = 8

// Row is one search result as returned by the provider.
//
// The provider sends rows as positional string arrays. Only ID and ShortName
// carry meaning for downloading; the remaining fields are passed through as
// opaque strings and their names describe what they appear to contain.
type Row struct {
	ID          string `json:"id"`
	FullName    string `json:"fullName"`
	ShortName   string `json:"shortName"`
	TypeSlug    string `json:"typeSlug"`
	TypeLabel   string `json:"typeLabel"`
	AuthorSlug  string `json:"authorSlug"`
	AuthorLabel string `json:"authorLabel"`
	SizeLabel   string `json:"sizeLabel"`

	// Extra holds any trailing positions beyond the known eight.
	Extra []string `json:"extra,omitempty"`
}

// UnmarshalJSON decodes a row from its positional array form.
func (r *Row) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return WrapError(EDECODE, err, "row is not an array")
	}
	if len(raw) < rowArity {
		return Errorf(EPROTOCOL, "row has %d fields, want at least %d", len(raw), rowArity)
	}

	fields := make([]string, len(raw))
	for i, v := range raw {
		s, err := scalarString(v)
		if err != nil {
			return WrapError(EDECODE, err, "row field %d", i)
		}
		fields[i] = s
	}

	*r = Row{
		ID:          fields[0],
		FullName:    fields[1],
		ShortName:   fields[2],
		TypeSlug:    fields[3],
		TypeLabel:   fields[4],
		AuthorSlug:  fields[5],
		AuthorLabel: fields[6],
		SizeLabel:   fields[7],
	}
	if len(fields) > rowArity {
		r.Extra = fields[rowArity:]
	}
	return nil
}

// Fields returns the row in its positional wire order.
func (r Row) Fields() []string {
	fields := []string{
		r.ID, r.FullName, r.ShortName, r.TypeSlug,
		r.TypeLabel, r.AuthorSlug, r.AuthorLabel, r.SizeLabel,
	}
	return append(fields, r.Extra...)
}

// Filename returns the archive file name for the row.
// Example: author "acme", short name "foo-bold", id "123" → acme-foo-bold-123.zip
func (r Row) Filename() string {
	return r.AuthorSlug + "-" + r.ShortName + "-" + r.ID + ArchiveExt
}

// Destination returns the path the row's archive is written to inside dir.
// Rows whose fields would produce a name that is not a plain file name
// (path separators, "..", absolute paths) are rejected with EPROTOCOL.
func Destination(dir string, r Row) (string, error) {
	name := r.Filename()
	if strings.ContainsAny(name, `/\`) || !filepath.IsLocal(name) || filepath.Base(name) != name {
		return "", Errorf(EPROTOCOL, "row %q yields unsafe file name %q", r.ID, name)
	}
	return filepath.Join(dir, name), nil
}

// scalarString converts a JSON string, number, or null into a string.
func scalarString(v json.RawMessage) (string, error) {
	v = bytes.TrimSpace(v)
	if len(v) == 0 || bytes.Equal(v, []byte("null")) {
		return "", nil
	}
	if v[0] == '"' {
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(v, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}
