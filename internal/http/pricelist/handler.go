package pricelist

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/archdesk/internal/encoding"
	"github.com/MrJamesThe3rd/archdesk/internal/importer"
	"github.com/MrJamesThe3rd/archdesk/internal/importer/bc3"
	"github.com/MrJamesThe3rd/archdesk/internal/metrics"
	"github.com/MrJamesThe3rd/archdesk/internal/pricelist"
)

const maxUploadSize = 32 << 20

type Handler struct {
	svc *importer.Service
}

func NewHandler(svc *importer.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/import", h.importFile)
}

type conceptResponse struct {
	pricelist.Concept
	Kind   string           `json:"kind"`
	Amount *decimal.Decimal `json:"amount,omitempty"` // decomposed concepts only
}

type priceListResponse struct {
	Owner    string            `json:"owner"`
	Program  string            `json:"program"`
	Version  string            `json:"version"`
	Charset  string            `json:"charset"`
	Roots    []string          `json:"roots"`
	Concepts []conceptResponse `json:"concepts"`
}

func toResponse(l *pricelist.PriceList) priceListResponse {
	resp := priceListResponse{
		Owner:    l.Owner,
		Program:  l.Program,
		Version:  l.Version,
		Charset:  l.Charset,
		Roots:    []string{},
		Concepts: make([]conceptResponse, len(l.Concepts)),
	}

	for _, c := range l.Roots() {
		resp.Roots = append(resp.Roots, c.Code)
	}

	for i, c := range l.Concepts {
		cr := conceptResponse{Concept: c, Kind: c.Kind.String()}

		if len(c.Components) > 0 {
			if amount, ok := l.Amount(c.Code); ok {
				cr.Amount = &amount
			}
		}

		resp.Concepts[i] = cr
	}

	return resp
}

func (h *Handler) importFile(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		http.Error(w, "failed to parse form: "+err.Error(), http.StatusBadRequest)
		return
	}

	format := importer.Format(r.FormValue("format"))
	if format == "" {
		format = importer.FormatBC3
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, "missing file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	list, err := h.svc.Import(format, file)
	if err != nil {
		switch {
		case errors.Is(err, importer.ErrUnknownFormat),
			errors.Is(err, bc3.ErrNoConcepts),
			errors.Is(err, encoding.ErrUnknownCharset),
			errors.Is(err, bc3.ErrInvalidRecord):
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		default:
			slog.Error("failed to import price list", "file", header.Filename, "error", err)
			http.Error(w, "internal error", http.StatusInternalServerError)
		}

		return
	}

	metrics.ImportedConcepts.Add(float64(len(list.Concepts)))
	slog.Info("imported price list", "file", header.Filename, "format", format, "concepts", len(list.Concepts))

	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(toResponse(list)); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}
