package handler

import (
	"net/http"

	"github.com/go-faster/jx"
	"github.com/google/uuid"

	"github.com/salekit/sale-api/internal/domain/customer"
)

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	c := customer.Customer{ID: uuid.New().String()}
	err := decodeBody(r, func(d *jx.Decoder, key string) (err error) {
		switch key {
		case "name":
			c.Name, err = d.Str()
		case "email":
			c.Email, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil || c.Name == "" {
		writeError(w, http.StatusBadRequest, "name required")
		return
	}

	if err := h.customers.Create(r.Context(), &c); err != nil {
		writeDomainError(w, err)
		return
	}

	var e jx.Encoder
	encodeCustomer(&e, &c)
	writeJSON(w, http.StatusCreated, &e)
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.customers.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var e jx.Encoder
	encodeCustomer(&e, c)
	writeJSON(w, http.StatusOK, &e)
}

func (h *Handler) addAddress(w http.ResponseWriter, r *http.Request) {
	a := customer.Address{
		ID:         uuid.New().String(),
		CustomerID: r.PathValue("id"),
	}
	err := decodeBody(r, func(d *jx.Decoder, key string) (err error) {
		switch key {
		case "street":
			a.Street, err = d.Str()
		case "zip":
			a.Zip, err = d.Str()
		case "city":
			a.City, err = d.Str()
		case "country":
			a.Country, err = d.Str()
		default:
			err = d.Skip()
		}
		return err
	})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	// The customer must exist before an address can be attached.
	if _, err := h.customers.GetByID(r.Context(), a.CustomerID); err != nil {
		writeDomainError(w, err)
		return
	}

	if err := h.customers.AddAddress(r.Context(), &a); err != nil {
		writeDomainError(w, err)
		return
	}

	var e jx.Encoder
	encodeAddress(&e, &a)
	writeJSON(w, http.StatusCreated, &e)
}

func (h *Handler) listAddresses(w http.ResponseWriter, r *http.Request) {
	addrs, err := h.customers.ListAddresses(r.Context(), r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}

	var e jx.Encoder
	e.Arr(func(e *jx.Encoder) {
		for i := range addrs {
			encodeAddress(e, &addrs[i])
		}
	})
	writeJSON(w, http.StatusOK, &e)
}

func encodeCustomer(e *jx.Encoder, c *customer.Customer) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(c.ID) })
		e.Field("name", func(e *jx.Encoder) { e.Str(c.Name) })
		e.Field("email", func(e *jx.Encoder) { e.Str(c.Email) })
	})
}

func encodeAddress(e *jx.Encoder, a *customer.Address) {
	e.Obj(func(e *jx.Encoder) {
		e.Field("id", func(e *jx.Encoder) { e.Str(a.ID) })
		e.Field("customer_id", func(e *jx.Encoder) { e.Str(a.CustomerID) })
		e.Field("street", func(e *jx.Encoder) { e.Str(a.Street) })
		e.Field("zip", func(e *jx.Encoder) { e.Str(a.Zip) })
		e.Field("city", func(e *jx.Encoder) { e.Str(a.City) })
		e.Field("country", func(e *jx.Encoder) { e.Str(a.Country) })
	})
}
