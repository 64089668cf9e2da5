// Package handler exposes the sale domain over HTTP with JSON bodies.
package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/go-faster/errors"
	"github.com/go-faster/jx"
	"github.com/shopspring/decimal"

	"github.com/salekit/sale-api/internal/domain/catalog"
	"github.com/salekit/sale-api/internal/domain/customer"
	"github.com/salekit/sale-api/internal/domain/order"
	"github.com/salekit/sale-api/internal/domain/pricelist"
	"github.com/salekit/sale-api/internal/domain/pricing"
)

// Handler routes API requests to the domain services.
type Handler struct {
	orders     *order.Service
	priceLists *pricelist.Service
	products   catalog.Repository
	customers  customer.Repository
}

// NewHandler constructs a Handler with the required domain dependencies.
func NewHandler(
	orders *order.Service,
	priceLists *pricelist.Service,
	products catalog.Repository,
	customers customer.Repository,
) *Handler {
	return &Handler{
		orders:     orders,
		priceLists: priceLists,
		products:   products,
		customers:  customers,
	}
}

// AddRoutes registers all API routes on the mux. Paths are rooted at /api.
func (h *Handler) AddRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/orders", h.createOrder)
	mux.HandleFunc("GET /api/orders/{id}", h.getOrder)
	mux.HandleFunc("POST /api/orders/{id}/lines", h.addLine)
	mux.HandleFunc("POST /api/orders/{id}/compute", h.computeOrder)
	mux.HandleFunc("POST /api/orders/{id}/transition", h.transitionOrder)
	mux.HandleFunc("PUT /api/lines/{id}", h.updateLine)

	mux.HandleFunc("POST /api/price-lists", h.createPriceList)
	mux.HandleFunc("POST /api/price-lists/{id}/items", h.createPriceListItem)

	mux.HandleFunc("GET /api/products", h.listProducts)
	mux.HandleFunc("POST /api/products", h.createProduct)
	mux.HandleFunc("GET /api/products/{code}", h.getProduct)

	mux.HandleFunc("POST /api/customers", h.createCustomer)
	mux.HandleFunc("GET /api/customers/{id}", h.getCustomer)
	mux.HandleFunc("POST /api/customers/{id}/addresses", h.addAddress)
	mux.HandleFunc("GET /api/customers/{id}/addresses", h.listAddresses)
}

// writeJSON sends the encoder's buffer with the given status code.
func writeJSON(w http.ResponseWriter, status int, e *jx.Encoder) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(e.Bytes())
}

// writeError sends a {"code": ..., "message": ...} body.
func writeError(w http.ResponseWriter, status int, msg string) {
	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("code", func(e *jx.Encoder) { e.Int(status) })
		e.Field("message", func(e *jx.Encoder) { e.Str(msg) })
	})
	writeJSON(w, status, &e)
}

// writeDomainError maps a domain error to an HTTP status. Validation errors
// on the request are 400, computation and consistency violations 422,
// missing entities 404, forbidden workflow changes 409. Anything else is an
// opaque 500.
func writeDomainError(w http.ResponseWriter, err error) {
	var lineErr *order.LineError
	var priceErr *order.PriceNotFoundError
	var transErr *order.TransitionError

	switch {
	case errors.Is(err, order.ErrCodeRequired),
		errors.Is(err, order.ErrChannelRequired),
		errors.Is(err, order.ErrInvalidQuantity):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &lineErr),
		errors.As(err, &priceErr),
		errors.Is(err, pricing.ErrTaxRange),
		errors.Is(err, pricing.ErrTaxMismatch),
		errors.Is(err, pricing.ErrDiscountAmountRange),
		errors.Is(err, pricing.ErrDiscountPercentRange):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &transErr),
		errors.Is(err, order.ErrNoLines),
		errors.Is(err, pricelist.ErrDuplicateItem):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, order.ErrNotFound),
		errors.Is(err, pricelist.ErrNotFound),
		errors.Is(err, catalog.ErrNotFound),
		errors.Is(err, customer.ErrNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeBody reads the request body and decodes its top-level object with
// decodeField, skipping unknown keys.
func decodeBody(r *http.Request, decodeField func(d *jx.Decoder, key string) error) error {
	body, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, 1<<20))
	if err != nil {
		return errors.Wrap(err, "read body")
	}
	d := jx.DecodeBytes(body)
	return d.Obj(func(d *jx.Decoder, key string) error {
		if err := decodeField(d, key); err != nil {
			return errors.Wrapf(err, "decode %q", key)
		}
		return nil
	})
}

// decodeDecimal reads a decimal from a JSON number or a quoted number string.
func decodeDecimal(d *jx.Decoder) (decimal.Decimal, error) {
	n, err := d.Num()
	if err != nil {
		return decimal.Decimal{}, err
	}
	s := strings.Trim(n.String(), `"`)
	return decimal.NewFromString(s)
}

func encodeDecimal(e *jx.Encoder, v decimal.Decimal) {
	e.Num(jx.Num(v.String()))
}
