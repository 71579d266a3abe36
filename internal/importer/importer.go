package importer

import (
	"errors"
	"io"

	"github.com/MrJamesThe3rd/archdesk/internal/pricelist"
)

var ErrUnknownFormat = errors.New("unknown format")

type Format string

const (
	FormatBC3 Format = "bc3"
)

type Importer interface {
	Parse(r io.Reader) (*pricelist.PriceList, error)
}
