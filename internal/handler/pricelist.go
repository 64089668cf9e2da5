package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/salekit/sale-api/internal/domain/pricelist"
)

func (h *Handler) createPriceList(w http.ResponseWriter, r *http.Request) {
	var code, name string
	err := decodeBody(r, func(d *jx.Decoder, key string) (err error) {
		switch key {
		case "code":
			code, err = d.Str()
		case "name":
			name, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil || code == "" {
		writeError(w, http.StatusBadRequest, "code required")
		return
	}

	pl, err := h.priceLists.CreateList(r.Context(), code, name)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var e jx.Encoder
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(pl.ID) })
		e.Field("code", func(e *jx.Encoder) { e.Str(pl.Code) })
		e.Field("name", func(e *jx.Encoder) { e.Str(pl.Name) })
	})
	writeJSON(w, http.StatusCreated, &e)
}

func (h *Handler) createPriceListItem(w http.ResponseWriter, r *http.Request) {
	req := pricelist.CreateItemRequest{PriceListID: r.PathValue("id")}
	err := decodeBody(r, func(d *jx.Decoder, key string) (err error) {
		switch key {
		case "item_id":
			req.ItemID, err = d.Str()
		case "unit_price":
			req.UnitPrice, err = decodeDecimal(d)
		case "unit_price_untaxed":
			req.UnitPriceUntaxed, err = decodeDecimal(d)
		case "unit_tax":
			req.UnitTax, err = decodeDecimal(d)
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.ItemID == "" {
		writeError(w, http.StatusBadRequest, "item_id required")
		return
	}

	item, err := h.priceLists.CreateItem(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var e jx.Encoder
	encodePriceListItem(&e, item)
	writeJSON(w, http.StatusCreated, &e)
}

func encodePriceListItem(e *jx.Encoder, item *pricelist.Item) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(item.ID) })
		e.Field("price_list_id", func(e *jx.Encoder) { e.Str(item.PriceListID) })
		e.Field("item_id", func(e *jx.Encoder) { e.Str(item.ItemID) })
		e.Field("unit_price_untaxed", func(e *jx.Encoder) { encodeDecimal(e, item.UnitPriceUntaxed) })
		e.Field("unit_price", func(e *jx.Encoder) { encodeDecimal(e, item.UnitPrice) })
		e.Field("unit_tax", func(e *jx.Encoder) { encodeDecimal(e, item.UnitTax) })
	})
}
