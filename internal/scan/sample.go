package scan

import (
	"bytes"
	"errors"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html"
)

const (
	DefaultSampleBytes  = 4096
	maxBinaryCheckBytes = 512
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var charReplacementMap = map[string]string{
	"‘": "'", "’": "'", "“": "\"", "”": "\"",
	"–": "-", "—": "--", "…": "...", " ": " ",
	"": "'", "": "'", "": "\"", "": "\"",
}

// Sampler reads bounded, cleaned text prefixes of files.
type Sampler struct {
	MaxBytes int
}

func NewSampler(maxBytes int) *Sampler {
	if maxBytes <= 0 {
		maxBytes = DefaultSampleBytes
	}
	return &Sampler{MaxBytes: maxBytes}
}

// Sample returns up to MaxBytes of cleaned text from the file. Binary files
// sample as the empty string without error; read failures are returned so
// the caller can degrade to name-only classification.
func (s *Sampler) Sample(path, ext string) (string, error) {
	binary, err := IsLikelyBinary(path)
	if err != nil {
		return "", err
	}
	if binary {
		return "", nil
	}

	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	buf := make([]byte, s.MaxBytes)
	n, err := io.ReadFull(f, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", err
	}
	raw := buf[:n]

	if ext == ".html" || ext == ".htm" {
		if text := htmlText(raw); text != "" {
			return CleanText([]byte(text)), nil
		}
	}
	return CleanText(raw), nil
}

// IsLikelyBinary sniffs the first bytes of the file for NUL.
func IsLikelyBinary(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	buf := make([]byte, maxBinaryCheckBytes)
	n, err := f.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	return bytes.Contains(buf[:n], []byte{0}), nil
}

// CleanText strips a UTF-8 BOM, repairs invalid UTF-8, and normalizes the
// usual smart-quote suspects.
func CleanText(raw []byte) string {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if !utf8.Valid(raw) {
		raw = bytes.ToValidUTF8(raw, []byte(string(utf8.RuneError)))
	}
	str := string(raw)
	for bad, good := range charReplacementMap {
		str = strings.ReplaceAll(str, bad, good)
	}
	return strings.TrimSpace(str)
}

// htmlText extracts visible text from an HTML document, skipping script,
// style, and chrome elements. Returns "" when parsing yields nothing.
func htmlText(raw []byte) string {
	doc, err := html.Parse(bytes.NewReader(raw))
	if err != nil {
		return ""
	}

	ignore := map[string]bool{
		"script": true, "style": true, "head": true, "nav": true,
		"footer": true, "aside": true, "noscript": true,
	}

	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n == nil {
			return
		}
		if n.Type == html.ElementNode && ignore[n.Data] {
			return
		}
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return b.String()
}
