// Package bc3 reads FIEBDC-3 price databases (.bc3), the exchange format
// used by Spanish construction budgeting software.
package bc3

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	enc "github.com/MrJamesThe3rd/archdesk/internal/encoding"
	"github.com/MrJamesThe3rd/archdesk/internal/pricelist"
)

var (
	ErrNoConcepts    = errors.New("no concepts found")
	ErrInvalidRecord = errors.New("invalid record")
)

const (
	recordSep   = "~"
	fieldSep    = "|"
	subfieldSep = `\`
)

// Parser reads ~V, ~C, ~T and ~D records. Other record types are skipped.
type Parser struct{}

func NewParser() *Parser {
	return &Parser{}
}

func (p *Parser) Parse(r io.Reader) (*pricelist.PriceList, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read bc3: %w", err)
	}

	charset := declaredCharset(raw)

	utf8r, err := enc.NewCharsetReader(bytes.NewReader(raw), charset)
	if err != nil {
		return nil, fmt.Errorf("decode bc3: %w", err)
	}

	content, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("decode bc3: %w", err)
	}

	b := newBuilder()
	b.list.Charset = charset

	for n, rec := range strings.Split(string(content), recordSep)[1:] {
		rec = strings.TrimRight(rec, " \t\r\n")
		if rec == "" {
			continue
		}

		fields := strings.Split(rec, fieldSep)

		if err := b.apply(strings.TrimSpace(fields[0]), fields[1:]); err != nil {
			return nil, fmt.Errorf("%w: record %d: %w", ErrInvalidRecord, n+1, err)
		}
	}

	if len(b.list.Concepts) == 0 {
		return nil, ErrNoConcepts
	}

	return b.list, nil
}

// declaredCharset reads the charset field of the ~V record from the raw
// bytes. The record itself is plain ASCII in every code page it may
// declare.
func declaredCharset(raw []byte) string {
	i := bytes.Index(raw, []byte(recordSep+"V"+fieldSep))
	if i < 0 {
		return ""
	}

	rec := raw[i+1:]
	if j := bytes.Index(rec, []byte(recordSep)); j >= 0 {
		rec = rec[:j]
	}

	fields := strings.Split(string(rec), fieldSep)

	return strings.TrimSpace(field(fields, 5))
}

type builder struct {
	list  *pricelist.PriceList
	index map[string]int
}

func newBuilder() *builder {
	return &builder{
		list:  &pricelist.PriceList{},
		index: make(map[string]int),
	}
}

// concept returns the concept with code, creating it in file order.
func (b *builder) concept(code string) *pricelist.Concept {
	if i, ok := b.index[code]; ok {
		return &b.list.Concepts[i]
	}

	b.list.Concepts = append(b.list.Concepts, pricelist.Concept{Code: code})
	b.index[code] = len(b.list.Concepts) - 1

	return &b.list.Concepts[len(b.list.Concepts)-1]
}

func (b *builder) apply(kind string, fields []string) error {
	switch kind {
	case "V":
		b.list.Owner = strings.TrimSpace(field(fields, 0))
		b.list.Version = strings.TrimSpace(subfield(field(fields, 1), 0))
		b.list.Program = strings.TrimSpace(field(fields, 2))
	case "C":
		return b.applyConcept(fields)
	case "T":
		code, _, _ := normalizeCode(field(fields, 0))
		if code == "" {
			return errors.New("~T without code")
		}

		text := strings.ReplaceAll(field(fields, 1), "\r\n", "\n")
		b.concept(code).Text = strings.TrimSpace(text)
	case "D":
		return b.applyDecomposition(fields)
	}

	return nil
}

func (b *builder) applyConcept(fields []string) error {
	code, chapter, root := normalizeCode(subfield(field(fields, 0), 0))
	if code == "" {
		return errors.New("~C without code")
	}

	price, err := parseNumber(firstSubfield(field(fields, 3)), decimal.Zero)
	if err != nil {
		return fmt.Errorf("~C %s: invalid price: %w", code, err)
	}

	kind := pricelist.KindUnclassified
	if s := strings.TrimSpace(field(fields, 5)); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			kind = pricelist.Kind(n)
		}
	}

	c := b.concept(code)
	c.Unit = strings.TrimSpace(field(fields, 1))
	c.Summary = strings.TrimSpace(field(fields, 2))
	c.Price = price
	c.Date = parseDate(firstSubfield(field(fields, 4)))
	c.Kind = kind
	c.Chapter = chapter || root
	c.Root = root

	return nil
}

func (b *builder) applyDecomposition(fields []string) error {
	parent, _, _ := normalizeCode(field(fields, 0))
	if parent == "" {
		return errors.New("~D without parent code")
	}

	parts := strings.Split(field(fields, 1), subfieldSep)

	var comps []pricelist.Component

	for i := 0; i < len(parts); i += 3 {
		code, _, _ := normalizeCode(parts[i])
		if code == "" {
			continue
		}

		factor, err := parseNumber(at(parts, i+1), decimal.NewFromInt(1))
		if err != nil {
			return fmt.Errorf("~D %s: invalid factor for %s: %w", parent, code, err)
		}

		yield, err := parseNumber(at(parts, i+2), decimal.NewFromInt(1))
		if err != nil {
			return fmt.Errorf("~D %s: invalid yield for %s: %w", parent, code, err)
		}

		comps = append(comps, pricelist.Component{Code: code, Factor: factor, Yield: yield})
	}

	b.concept(parent).Components = comps

	return nil
}

// normalizeCode strips the chapter (#) and root (##) markers.
func normalizeCode(s string) (code string, chapter, root bool) {
	code = strings.TrimSpace(s)

	switch {
	case strings.HasSuffix(code, "##"):
		return strings.TrimSuffix(code, "##"), true, true
	case strings.HasSuffix(code, "#"):
		return strings.TrimSuffix(code, "#"), true, false
	}

	return code, false, false
}

// parseNumber accepts both "1234.56" and "1234,56". Empty input yields def.
func parseNumber(s string, def decimal.Decimal) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return def, nil
	}

	if !strings.Contains(s, ".") {
		s = strings.ReplaceAll(s, ",", ".")
	}

	return decimal.NewFromString(s)
}

// parseDate reads DDMMYYYY, DDMMYY or MMYY. Two-digit years below 80 are in
// this century. Unparseable dates are dropped.
func parseDate(s string) *time.Time {
	s = strings.TrimSpace(s)

	var day, month, year int

	var err error

	switch len(s) {
	case 8:
		day, month, year, err = splitDate(s[0:2], s[2:4], s[4:8])
	case 6:
		day, month, year, err = splitDate(s[0:2], s[2:4], s[4:6])
	case 4:
		day, month, year, err = splitDate("01", s[0:2], s[2:4])
	default:
		return nil
	}

	if err != nil || month < 1 || month > 12 || day < 1 || day > 31 {
		return nil
	}

	if len(s) != 8 {
		if year < 80 {
			year += 2000
		} else {
			year += 1900
		}
	}

	return new(time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC))
}

func splitDate(d, m, y string) (int, int, int, error) {
	day, err := strconv.Atoi(d)
	if err != nil {
		return 0, 0, 0, err
	}

	month, err := strconv.Atoi(m)
	if err != nil {
		return 0, 0, 0, err
	}

	year, err := strconv.Atoi(y)
	if err != nil {
		return 0, 0, 0, err
	}

	return day, month, year, nil
}

func field(fields []string, i int) string {
	return at(fields, i)
}

func subfield(s string, i int) string {
	return at(strings.Split(s, subfieldSep), i)
}

func firstSubfield(s string) string {
	for _, p := range strings.Split(s, subfieldSep) {
		if strings.TrimSpace(p) != "" {
			return p
		}
	}

	return ""
}

func at(parts []string, i int) string {
	if i < 0 || i >= len(parts) {
		return ""
	}

	return parts[i]
}
