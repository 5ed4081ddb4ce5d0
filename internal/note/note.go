// Package note defines the note model and its on-disk markdown format.
// A note is YAML frontmatter (title, tags, timestamps) followed by a
// markdown body. The format is identical whether the file is later
// encrypted or kept plain, so parsing never needs to know which storage
// representation it came from.
package note

import (
	"bytes"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// IDLayout is the time layout a note identifier is derived from. Identifiers
// have second resolution and are immutable once assigned.
const IDLayout = "20060102150405"

var (
	// ErrBadFrontmatter indicates the note content is missing or has a
	// malformed YAML frontmatter block.
	ErrBadFrontmatter = errors.New("malformed note frontmatter")
	// ErrBadID indicates an identifier that is not a 14-digit timestamp.
	ErrBadID = errors.New("invalid note id")
)

// Note is the unit of content.
type Note struct {
	ID        string    // derived from Created, YYYYMMDDHHmmss
	Title     string
	Tags      []string
	Created   time.Time
	Modified  time.Time
	SourceURL string    // set for imported web content
	ClippedAt time.Time // set for imported web content
	Body      string    // markdown, opaque to the index when encrypted
	IsPlain   bool      // unencrypted on-disk representation
}

// New creates a note with an identifier derived from created.
func New(title, body string, created time.Time) *Note {
	created = created.Truncate(time.Second)
	return &Note{
		ID:       IDFromTime(created),
		Title:    title,
		Body:     body,
		Created:  created,
		Modified: created,
	}
}

// IDFromTime derives the canonical identifier for a creation time.
func IDFromTime(t time.Time) string {
	return t.Format(IDLayout)
}

// ParseID validates an identifier and returns the creation time it encodes.
func ParseID(id string) (time.Time, error) {
	if len(id) != len(IDLayout) {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadID, id)
	}
	t, err := time.ParseInLocation(IDLayout, id, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrBadID, id)
	}
	return t, nil
}

// RelPath returns the storage path for an identifier, relative to the notes
// (or plain mirror) root: YYYY/MM/<id>.md for plain, YYYY/MM/<id>.md.gpg
// otherwise. It is a pure function of id, so the store and the index can
// never disagree about where a note lives.
func RelPath(id string, plain bool) (string, error) {
	t, err := ParseID(id)
	if err != nil {
		return "", err
	}
	name := id + ".md"
	if !plain {
		name += ".gpg"
	}
	return path.Join(t.Format("2006"), t.Format("01"), name), nil
}

// IDFromPath extracts the identifier from a storage path. Returns an error
// if the basename does not encode a valid identifier.
func IDFromPath(p string) (string, error) {
	base := path.Base(p)
	base = strings.TrimSuffix(base, ".gpg")
	base = strings.TrimSuffix(base, ".md")
	if _, err := ParseID(base); err != nil {
		return "", err
	}
	return base, nil
}

// frontmatter is the YAML projection of note metadata.
type frontmatter struct {
	Title     string   `yaml:"title"`
	Tags      []string `yaml:"tags"`
	Created   string   `yaml:"created"`
	Modified  string   `yaml:"modified"`
	SourceURL string   `yaml:"source_url,omitempty"`
	ClippedAt string   `yaml:"clipped_at,omitempty"`
}

const fence = "---"

// Marshal renders the note as frontmatter plus body.
func (n *Note) Marshal() ([]byte, error) {
	fm := frontmatter{
		Title:    n.Title,
		Tags:     n.Tags,
		Created:  n.Created.Format(time.RFC3339),
		Modified: n.Modified.Format(time.RFC3339),
	}
	if fm.Tags == nil {
		fm.Tags = []string{}
	}
	if n.SourceURL != "" {
		fm.SourceURL = n.SourceURL
	}
	if !n.ClippedAt.IsZero() {
		fm.ClippedAt = n.ClippedAt.Format(time.RFC3339)
	}

	meta, err := yaml.Marshal(fm)
	if err != nil {
		return nil, fmt.Errorf("marshal frontmatter: %w", err)
	}

	var b bytes.Buffer
	b.WriteString(fence + "\n")
	b.Write(meta)
	b.WriteString(fence + "\n\n")
	b.WriteString(n.Body)
	if !strings.HasSuffix(n.Body, "\n") {
		b.WriteString("\n")
	}
	return b.Bytes(), nil
}

// Parse reads frontmatter plus body back into a Note. The identifier is not
// stored in the frontmatter; callers set it from the filename (IDFromPath)
// or derive it from Created.
func Parse(data []byte) (*Note, error) {
	s := string(data)
	if !strings.HasPrefix(s, fence+"\n") {
		return nil, fmt.Errorf("%w: missing opening fence", ErrBadFrontmatter)
	}
	rest := s[len(fence)+1:]
	end := strings.Index(rest, "\n"+fence)
	if end < 0 {
		return nil, fmt.Errorf("%w: missing closing fence", ErrBadFrontmatter)
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(rest[:end+1]), &fm); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadFrontmatter, err)
	}

	body := rest[end+1+len(fence):]
	body = strings.TrimPrefix(body, "\n")
	body = strings.TrimPrefix(body, "\n")

	n := &Note{
		Title: fm.Title,
		Tags:  fm.Tags,
		Body:  body,
	}
	if fm.Title == "" {
		n.Title = "Untitled"
	}
	n.Created = parseTime(fm.Created)
	n.Modified = parseTime(fm.Modified)
	if n.Modified.IsZero() {
		n.Modified = n.Created
	}
	n.SourceURL = fm.SourceURL
	n.ClippedAt = parseTime(fm.ClippedAt)
	if !n.Created.IsZero() {
		n.ID = IDFromTime(n.Created)
	}
	return n, nil
}

// parseTime accepts RFC3339 or a bare ISO timestamp without zone, which the
// earliest vault versions wrote. Zero time on failure; callers treat missing
// timestamps as "unknown" rather than erroring out of a bulk scan.
func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.Local); err == nil {
		return t
	}
	return time.Time{}
}

// Touch updates the modified timestamp.
func (n *Note) Touch() {
	n.Modified = time.Now().Truncate(time.Second)
}

// HasTag reports whether the note carries the exact tag.
func (n *Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// AddTag appends a tag if not already present.
func (n *Note) AddTag(tag string) {
	if tag == "" || n.HasTag(tag) {
		return
	}
	n.Tags = append(n.Tags, tag)
}
