package handler

import (
	"net/http"

	"github.com/go-faster/jx"

	"github.com/salekit/sale-api/internal/domain/order"
)

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req order.CreateOrderRequest
	err := decodeBody(r, func(d *jx.Decoder, key string) (err error) {
		switch key {
		case "code":
			req.Code, err = d.Str()
		case "channel":
			req.Channel, err = d.Str()
		case "delivery_method":
			req.DeliveryMethod, err = d.Str()
		case "customer_id":
			req.CustomerID, err = d.Str()
		case "customer_address_id":
			req.CustomerAddressID, err = d.Str()
		case "delivery_address_id":
			req.DeliveryAddressID, err = d.Str()
		case "price_list_id":
			req.PriceListID, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	o, err := h.orders.CreateOrder(r.Context(), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var e jx.Encoder
	encodeOrder(&e, o)
	writeJSON(w, http.StatusCreated, &e)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.GetOrder(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var e jx.Encoder
	encodeOrder(&e, o)
	writeJSON(w, http.StatusOK, &e)
}

func (h *Handler) addLine(w http.ResponseWriter, r *http.Request) {
	req, err := decodeLineRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	line, err := h.orders.AddLine(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var e jx.Encoder
	encodeLine(&e, line)
	writeJSON(w, http.StatusCreated, &e)
}

func (h *Handler) updateLine(w http.ResponseWriter, r *http.Request) {
	req, err := decodeLineRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	line, err := h.orders.UpdateLine(r.Context(), r.PathValue("id"), req)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var e jx.Encoder
	encodeLine(&e, line)
	writeJSON(w, http.StatusOK, &e)
}

func (h *Handler) computeOrder(w http.ResponseWriter, r *http.Request) {
	o, err := h.orders.RecomputeTotals(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var e jx.Encoder
	encodeOrder(&e, o)
	writeJSON(w, http.StatusOK, &e)
}

func (h *Handler) transitionOrder(w http.ResponseWriter, r *http.Request) {
	var state string
	err := decodeBody(r, func(d *jx.Decoder, key string) (err error) {
		switch key {
		case "state":
			state, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil || state == "" {
		writeError(w, http.StatusBadRequest, "state required")
		return
	}

	o, err := h.orders.Transition(r.Context(), r.PathValue("id"), order.State(state))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var e jx.Encoder
	encodeOrder(&e, o)
	writeJSON(w, http.StatusOK, &e)
}

func decodeLineRequest(r *http.Request) (order.LineRequest, error) {
	var req order.LineRequest
	err := decodeBody(r, func(d *jx.Decoder, key string) (err error) {
		switch key {
		case "item_id":
			req.ItemID, err = d.Str()
		case "quantity":
			req.Quantity, err = d.Int()
		case "unit_price_untaxed":
			req.UnitPriceUntaxed, err = decodeDecimal(d)
		case "unit_price":
			req.UnitPrice, err = decodeDecimal(d)
		case "unit_tax":
			req.UnitTax, err = decodeDecimal(d)
		case "amount_discount_untaxed":
			req.AmountDiscountUntaxed, err = decodeDecimal(d)
		case "amount_discount_percentage_untaxed":
			req.AmountDiscountPercentageUntaxed, err = decodeDecimal(d)
		case "amount_discount":
			req.AmountDiscount, err = decodeDecimal(d)
		case "amount_discount_percentage":
			req.AmountDiscountPercentage, err = decodeDecimal(d)
		case "properties":
			raw, rawErr := d.Raw()
			if rawErr != nil {
				return rawErr
			}
			req.Properties, err = decodeProperties(raw)
		default:
			err = d.Skip()
		}
		return err
	})
	return req, err
}

// decodeProperties turns a raw JSON object into a flat property map. Nested
// values stay as raw JSON strings.
func decodeProperties(raw jx.Raw) (map[string]any, error) {
	props := make(map[string]any)
	d := jx.DecodeBytes(raw)
	err := d.Obj(func(d *jx.Decoder, key string) error {
		switch d.Next() {
		case jx.String:
			s, err := d.Str()
			if err != nil {
				return err
			}
			props[key] = s
		case jx.Number:
			n, err := d.Num()
			if err != nil {
				return err
			}
			f, err := n.Float64()
			if err != nil {
				return err
			}
			props[key] = f
		case jx.Bool:
			b, err := d.Bool()
			if err != nil {
				return err
			}
			props[key] = b
		default:
			v, err := d.Raw()
			if err != nil {
				return err
			}
			props[key] = v.String()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return props, nil
}

func encodeOrder(e *jx.Encoder, o *order.Order) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(o.ID) })
		e.Field("code", func(e *jx.Encoder) { e.Str(o.Code) })
		e.Field("channel", func(e *jx.Encoder) { e.Str(o.Channel) })
		e.Field("delivery_method", func(e *jx.Encoder) { e.Str(o.DeliveryMethod) })
		e.Field("customer_id", func(e *jx.Encoder) { e.Str(o.CustomerID) })
		e.Field("customer_address_id", func(e *jx.Encoder) { e.Str(o.CustomerAddressID) })
		e.Field("delivery_address_id", func(e *jx.Encoder) { e.Str(o.DeliveryAddressID) })
		e.Field("price_list_id", func(e *jx.Encoder) { e.Str(o.PriceListID) })
		e.Field("state", func(e *jx.Encoder) { e.Str(string(o.State)) })
		e.Field("amount_untaxed", func(e *jx.Encoder) { encodeDecimal(e, o.AmountUntaxed) })
		e.Field("amount_tax", func(e *jx.Encoder) { encodeDecimal(e, o.AmountTax) })
		e.Field("amount_total", func(e *jx.Encoder) { encodeDecimal(e, o.AmountTotal) })
		e.Field("lines", func(e *jx.Encoder) {
			e.Arr(func(e *jx.Encoder) {
				for _, l := range o.Lines {
					encodeLine(e, l)
				}
			})
		})
	})
}

func encodeLine(e *jx.Encoder, l *order.Line) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(l.ID) })
		e.Field("order_id", func(e *jx.Encoder) { e.Str(l.OrderID) })
		e.Field("item_id", func(e *jx.Encoder) { e.Str(l.ItemID) })
		e.Field("quantity", func(e *jx.Encoder) { e.Int(l.Quantity) })
		e.Field("unit_price_untaxed", func(e *jx.Encoder) { encodeDecimal(e, l.UnitPriceUntaxed) })
		e.Field("unit_price", func(e *jx.Encoder) { encodeDecimal(e, l.UnitPrice) })
		e.Field("unit_tax", func(e *jx.Encoder) { encodeDecimal(e, l.UnitTax) })
		e.Field("amount_discount_untaxed", func(e *jx.Encoder) { encodeDecimal(e, l.AmountDiscountUntaxed) })
		e.Field("amount_discount_percentage_untaxed", func(e *jx.Encoder) { encodeDecimal(e, l.AmountDiscountPercentageUntaxed) })
		e.Field("amount_discount", func(e *jx.Encoder) { encodeDecimal(e, l.AmountDiscount) })
		e.Field("amount_discount_percentage", func(e *jx.Encoder) { encodeDecimal(e, l.AmountDiscountPercentage) })
		e.Field("amount_untaxed", func(e *jx.Encoder) { encodeDecimal(e, l.AmountUntaxed) })
		e.Field("amount_tax", func(e *jx.Encoder) { encodeDecimal(e, l.AmountTax) })
		e.Field("amount_total", func(e *jx.Encoder) { encodeDecimal(e, l.AmountTotal) })
	})
}
