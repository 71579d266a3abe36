package importer

import (
	"fmt"
	"io"

	"github.com/MrJamesThe3rd/archdesk/internal/importer/bc3"
	"github.com/MrJamesThe3rd/archdesk/internal/pricelist"
)

type Service struct {
	bc3Importer Importer
}

func NewService() *Service {
	return &Service{
		bc3Importer: bc3.NewParser(),
	}
}

func (s *Service) Import(format Format, r io.Reader) (*pricelist.PriceList, error) {
	var importer Importer

	switch format {
	case FormatBC3:
		importer = s.bc3Importer
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownFormat, format)
	}

	return importer.Parse(r)
}
