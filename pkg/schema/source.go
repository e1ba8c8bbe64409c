package schema

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Source identifies where a schema document originated so parse errors can
// name the file, fs entry or URL they came from.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile   SourceKind = "file"
	SourceKindFS     SourceKind = "fs"
	SourceKindURL    SourceKind = "url"
	SourceKindInline SourceKind = "inline"
)

type source struct {
	kind     SourceKind
	location string
}

func (s source) Kind() SourceKind { return s.kind }
func (s source) Location() string { return s.location }

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return source{kind: SourceKindFile, location: filepath.Clean(path)}
}

// SourceFromFS returns a Source identifying a resource inside an fs.FS.
func SourceFromFS(name string) Source {
	return source{kind: SourceKindFS, location: name}
}

// SourceFromURL returns a Source backed by a remote URL. Invalid URLs yield
// nil.
func SourceFromURL(raw string) Source {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || parsed.Scheme == "" {
		return nil
	}
	return source{kind: SourceKindURL, location: parsed.String()}
}

// Inline labels documents built in memory (tests, HTTP bodies).
func Inline(name string) Source {
	if strings.TrimSpace(name) == "" {
		name = "inline"
	}
	return source{kind: SourceKindInline, location: name}
}

func describe(src Source) string {
	if src == nil {
		return "inline"
	}
	return fmt.Sprintf("%s %s", src.Kind(), src.Location())
}
