// Package encoding turns legacy code-page input into UTF-8 readers.
package encoding

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var ErrUnknownCharset = errors.New("unknown charset")

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// charsets maps the names price databases declare to decoders. ANSI is the
// Windows Western code page.
var charsets = map[string]encoding.Encoding{
	"850":          charmap.CodePage850,
	"437":          charmap.CodePage437,
	"ANSI":         charmap.Windows1252,
	"WINDOWS-1252": charmap.Windows1252,
	"ISO-8859-1":   charmap.ISO8859_1,
	"ISO-8859-15":  charmap.ISO8859_15,
	"UTF-8":        unicode.UTF8,
}

// Lookup returns the decoder for a declared charset name. Names are matched
// case-insensitively.
func Lookup(name string) (encoding.Encoding, error) {
	enc, ok := charsets[strings.ToUpper(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCharset, name)
	}

	return enc, nil
}

// NewCharsetReader decodes r from the declared charset. An empty name means
// the input did not declare one and NewUTF8Reader detection is used.
func NewCharsetReader(r io.Reader, name string) (io.Reader, error) {
	if strings.TrimSpace(name) == "" {
		return NewUTF8Reader(r)
	}

	enc, err := Lookup(name)
	if err != nil {
		return nil, err
	}

	return transform.NewReader(r, enc.NewDecoder()), nil
}

// NewUTF8Reader guesses the encoding of r and returns a UTF-8 reader.
//
// Detection order:
//  1. BOM (a UTF-8 BOM is stripped, UTF-16 LE/BE is decoded)
//  2. valid UTF-8 is returned as-is
//  3. chardet heuristics
//  4. Windows-1252
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReader(r)

	buf, err := br.Peek(4096)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("peek: %w", err)
	}

	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, nil
	case bytes.HasPrefix(buf, bomUTF16LE):
		return transform.NewReader(br, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()), nil
	case bytes.HasPrefix(buf, bomUTF16BE):
		return transform.NewReader(br, unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()), nil
	case utf8.Valid(buf):
		return br, nil
	}

	result, err := chardet.NewTextDetector().DetectBest(buf)
	if err == nil {
		switch result.Charset {
		case "UTF-8":
			return br, nil
		case "ISO-8859-15":
			return transform.NewReader(br, charmap.ISO8859_15.NewDecoder()), nil
		case "IBM850":
			return transform.NewReader(br, charmap.CodePage850.NewDecoder()), nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), nil
}
