// Package params turns a raw backend descriptor into a flat parameter
// mapping.
//
// Two descriptor forms are supported: a flat delimited parameter string
// (key=value pairs separated by semicolons) and a single-level XML document
// whose child elements each become one key/value pair. Both forms produce
// the same uniform map[string]string, with key order irrelevant.
package params

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedDescriptor is returned when a flat parameter string cannot
	// be fully parsed. A partially populated mapping is never returned.
	ErrMalformedDescriptor = errors.New("malformed backend descriptor")

	// ErrDocumentParse is returned when a descriptor document is malformed,
	// unreachable, or contains markup rejected by untrusted-input hardening.
	ErrDocumentParse = errors.New("descriptor document parse failure")
)

// pairSeparator delimits key=value entries in a flat descriptor.
const pairSeparator = ";"

// Parse splits a flat parameter string into a key/value mapping.
//
// Entries are separated by semicolons. A key with no "=" maps to the empty
// string. Empty entries (as produced by a trailing separator) are skipped.
// An entry with an empty key fails with ErrMalformedDescriptor; nothing is
// returned in that case.
func Parse(descriptor string) (map[string]string, error) {
	out := make(map[string]string)
	for _, entry := range strings.Split(descriptor, pairSeparator) {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}

		key, value, _ := strings.Cut(entry, "=")
		key = strings.TrimSpace(key)
		if key == "" {
			return nil, fmt.Errorf("%w: entry %q has no key", ErrMalformedDescriptor, entry)
		}

		out[key] = strings.TrimSpace(value)
	}
	return out, nil
}

// Format renders a parameter mapping back into flat descriptor form. Intended
// for diagnostics; key order is not guaranteed.
func Format(params map[string]string) string {
	entries := make([]string, 0, len(params))
	for key, value := range params {
		entries = append(entries, key+"="+value)
	}
	return strings.Join(entries, pairSeparator)
}
