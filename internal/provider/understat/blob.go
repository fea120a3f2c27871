package understat

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"regexp"

	"github.com/PuerkitoBio/goquery"
)

// blobRe matches `var playersData = JSON.parse('...')`.
var blobRe = regexp.MustCompile(`(\w+)\s*=\s*JSON\.parse\('((?:[^'\\]|\\.)*)'\)`)

// extractBlobs returns every JSON.parse payload in the page's scripts,
// keyed by variable name and unescaped to plain JSON.
func extractBlobs(page []byte) (map[string][]byte, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, fmt.Errorf("parse league page: %w", err)
	}

	blobs := map[string][]byte{}
	var firstErr error
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		for _, m := range blobRe.FindAllStringSubmatch(s.Text(), -1) {
			raw, err := unescape(m[2])
			if err != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("%s: %w", m[1], err)
				}
				continue
			}
			blobs[m[1]] = raw
		}
	})
	if len(blobs) == 0 && firstErr != nil {
		return nil, firstErr
	}
	return blobs, nil
}

// unescape decodes a JavaScript single-quoted string body. Understat
// hex-escapes every structural byte (\x5B, \x22, ...).
func unescape(s string) ([]byte, error) {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			out = append(out, c)
			continue
		}
		if i+1 >= len(s) {
			return nil, fmt.Errorf("dangling escape at %d", i)
		}
		i++
		switch s[i] {
		case 'x':
			if i+2 >= len(s) {
				return nil, fmt.Errorf("short hex escape at %d", i)
			}
			b, err := hex.DecodeString(s[i+1 : i+3])
			if err != nil {
				return nil, fmt.Errorf("hex escape at %d: %w", i, err)
			}
			out = append(out, b[0])
			i += 2
		case 'n':
			out = append(out, '\n')
		case 't':
			out = append(out, '\t')
		default:
			out = append(out, s[i])
		}
	}
	return out, nil
}
