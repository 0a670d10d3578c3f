package params

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
)

// maxDocumentSize caps how much of a descriptor document is read (1MB).
const maxDocumentSize = 1024 * 1024

// ParseDocument extracts a parameter mapping from a single-level XML
// document. Each child element of the root becomes one entry: the element
// name is the key and its text content is the value.
//
// The input is treated as untrusted. DOCTYPE declarations (and with them any
// external entity definitions) are rejected with ErrDocumentParse, and
// undefined entity references fail the parse. Malformed markup also fails
// with ErrDocumentParse.
func ParseDocument(r io.Reader) (map[string]string, error) {
	dec := xml.NewDecoder(io.LimitReader(r, maxDocumentSize))

	out := make(map[string]string)
	depth := 0
	sawRoot := false
	var key string
	var text strings.Builder

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDocumentParse, err)
		}

		switch t := tok.(type) {
		case xml.Directive:
			// DOCTYPE and entity declarations are never legitimate in a
			// descriptor document.
			return nil, fmt.Errorf("%w: document contains a markup declaration", ErrDocumentParse)
		case xml.StartElement:
			depth++
			if depth == 1 {
				sawRoot = true
			}
			if depth == 2 {
				key = t.Name.Local
				text.Reset()
			}
		case xml.CharData:
			if depth >= 2 {
				text.Write(t)
			}
		case xml.EndElement:
			if depth == 2 {
				out[key] = strings.TrimSpace(text.String())
			}
			depth--
		}
	}

	if depth != 0 {
		return nil, fmt.Errorf("%w: unbalanced document", ErrDocumentParse)
	}
	if !sawRoot {
		return nil, fmt.Errorf("%w: document has no root element", ErrDocumentParse)
	}
	return out, nil
}

// FetchDocument resolves a document locator and parses the document it
// points at. http and https locators are fetched with the given client;
// file URLs and plain paths are read from the local file system. Fetch and
// parse failures are both reported as ErrDocumentParse so a caller sees one
// failure mode for the document variant.
func FetchDocument(ctx context.Context, client *http.Client, locator string) (map[string]string, error) {
	u, err := url.Parse(locator)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid locator %q: %v", ErrDocumentParse, locator, err)
	}

	switch u.Scheme {
	case "http", "https":
		if client == nil {
			client = http.DefaultClient
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, locator, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDocumentParse, err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("%w: fetching %q: %v", ErrDocumentParse, locator, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("%w: fetching %q: unexpected status %s", ErrDocumentParse, locator, resp.Status)
		}
		return ParseDocument(resp.Body)
	case "file", "":
		path := u.Path
		if path == "" {
			path = u.Opaque
		}
		if path == "" {
			path = locator
		}
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("%w: opening %q: %v", ErrDocumentParse, locator, err)
		}
		defer f.Close()
		return ParseDocument(f)
	default:
		return nil, fmt.Errorf("%w: unsupported locator scheme %q", ErrDocumentParse, u.Scheme)
	}
}
