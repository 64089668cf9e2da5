package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/google/uuid"

	"github.com/salekit/sale-api/internal/domain/catalog"
)

func (h *Handler) listProducts(w http.ResponseWriter, r *http.Request) {
	items, err := h.products.List(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var e jx.Encoder
	e.Arr(func(e *jx.Encoder) {
		for i := range items {
			encodeProduct(e, &items[i])
		}
	})
	writeJSON(w, http.StatusOK, &e)
}

func (h *Handler) getProduct(w http.ResponseWriter, r *http.Request) {
	item, err := h.products.GetByCode(r.Context(), r.PathValue("code"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var e jx.Encoder
	encodeProduct(&e, item)
	writeJSON(w, http.StatusOK, &e)
}

func (h *Handler) createProduct(w http.ResponseWriter, r *http.Request) {
	item := catalog.Item{ID: uuid.New().String()}
	err := decodeBody(r, func(d *jx.Decoder, key string) (err error) {
		switch key {
		case "code":
			item.Code, err = d.Str()
		case "name":
			item.Name, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil || item.Code == "" {
		writeError(w, http.StatusBadRequest, "code required")
		return
	}

	if err := h.products.Create(r.Context(), &item); err != nil {
		writeDomainError(w, err)
		return
	}

	var e jx.Encoder
	encodeProduct(&e, &item)
	writeJSON(w, http.StatusCreated, &e)
}

func encodeProduct(e *jx.Encoder, item *catalog.Item) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(item.ID) })
		e.Field("code", func(e *jx.Encoder) { e.Str(item.Code) })
		e.Field("name", func(e *jx.Encoder) { e.Str(item.Name) })
	})
}
