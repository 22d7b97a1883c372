// Package purl provides Package URL (PURL) parsing utilities.
// PURLs are a standardized way to identify software packages across ecosystems.
// See: https://github.com/package-url/purl-spec
//
// This package is used by the OSS info extractors to recover dependency
// coordinates from SBOM components that carry a package URL but incomplete
// group/name/version fields.
package purl

import (
	"fmt"
	"net/url"
	"strings"
)

// PURL represents a parsed Package URL
type PURL struct {
	Type      string // package ecosystem, e.g. "maven", "npm", "golang"
	Namespace string // group or scope; may be empty
	Name      string
	Version   string // may be empty
}

// String renders the PURL in canonical form: pkg:type/namespace/name@version
func (p *PURL) String() string {
	var b strings.Builder
	b.WriteString("pkg:")
	b.WriteString(p.Type)
	if p.Namespace != "" {
		b.WriteString("/")
		b.WriteString(url.PathEscape(p.Namespace))
	}
	b.WriteString("/")
	b.WriteString(url.PathEscape(p.Name))
	if p.Version != "" {
		b.WriteString("@")
		b.WriteString(url.PathEscape(p.Version))
	}
	return b.String()
}

// Parse decodes a package URL string. Qualifiers and subpath are ignored;
// only type, namespace, name and version are retained.
func Parse(raw string) (*PURL, error) {
	rest, ok := strings.CutPrefix(raw, "pkg:")
	if !ok {
		return nil, fmt.Errorf("not a package URL: %q", raw)
	}

	// Strip qualifiers and subpath
	if i := strings.IndexAny(rest, "?#"); i >= 0 {
		rest = rest[:i]
	}

	rest = strings.TrimPrefix(rest, "/") // tolerate pkg://type/... form

	version := ""
	if i := strings.LastIndex(rest, "@"); i >= 0 {
		version = unescape(rest[i+1:])
		rest = rest[:i]
	}

	segments := strings.Split(rest, "/")
	if len(segments) < 2 || segments[0] == "" {
		return nil, fmt.Errorf("malformed package URL: %q", raw)
	}

	p := &PURL{
		Type:    segments[0],
		Name:    unescape(segments[len(segments)-1]),
		Version: version,
	}
	if len(segments) > 2 {
		parts := make([]string, 0, len(segments)-2)
		for _, s := range segments[1 : len(segments)-1] {
			parts = append(parts, unescape(s))
		}
		p.Namespace = strings.Join(parts, "/")
	}

	if p.Name == "" {
		return nil, fmt.Errorf("package URL has no name: %q", raw)
	}
	return p, nil
}

// unescape decodes percent-encoding, keeping the raw segment on failure.
func unescape(s string) string {
	decoded, err := url.PathUnescape(s)
	if err != nil {
		return s
	}
	return decoded
}
