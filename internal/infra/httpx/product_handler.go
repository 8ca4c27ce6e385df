package httpx

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jcmexdev/backoffice-api/internal/core/app"
	"github.com/jcmexdev/backoffice-api/internal/infra/httpx/middlewares"
)

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req CreateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	expiration, ok := parseOptionalDate(req.ExpirationDate)
	if !ok {
		writeError(w, http.StatusBadRequest, "validation_error", "expiration_date must be dd-mm-yyyy")
		return
	}

	actor, _ := middlewares.ActorFromContext(r.Context())

	product, err := h.products.Create(r.Context(), actor.UID, app.NewProduct{
		Description:    req.Description,
		Price:          decimal.NewFromFloat(req.Price),
		Barcode:        req.Barcode,
		Section:        req.Section,
		Stock:          req.Stock,
		ExpirationDate: expiration,
		Images:         req.Images,
	})
	if err != nil {
		writeFault(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, mapProductToResponse(product))
}

func (h *Handler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}

	product, err := h.products.Get(r.Context(), id)
	if err != nil {
		writeFault(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapProductToResponse(product))
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	in := app.ListProductsInput{
		Page:        queryInt(r, "page"),
		Limit:       queryInt(r, "limit"),
		Description: r.URL.Query().Get("description"),
		Barcode:     r.URL.Query().Get("barcode"),
		Section:     r.URL.Query().Get("section"),
	}

	if raw := r.URL.Query().Get("min_price"); raw != "" {
		p, err := decimal.NewFromString(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "min_price must be a number")
			return
		}
		in.MinPrice = &p
	}
	if raw := r.URL.Query().Get("max_price"); raw != "" {
		p, err := decimal.NewFromString(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_error", "max_price must be a number")
			return
		}
		in.MaxPrice = &p
	}
	if raw := r.URL.Query().Get("available"); raw != "" {
		available := raw == "true" || raw == "1"
		in.Available = &available
	}

	products, page, limit, err := h.products.List(r.Context(), in)
	if err != nil {
		writeFault(w, r, err)
		return
	}

	out := ProductListResponse{Page: page, Limit: limit, Products: make([]ProductResponse, len(products))}
	for i, p := range products {
		out.Products[i] = mapProductToResponse(p)
	}
	writeJSON(w, http.StatusOK, out)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}

	var req UpdateProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return
	}

	in := app.UpdateProductInput{
		Description: req.Description,
		Barcode:     req.Barcode,
		Section:     req.Section,
		Stock:       req.Stock,
		Images:      req.Images,
	}
	if req.Price != nil {
		p := decimal.NewFromFloat(*req.Price)
		in.Price = &p
	}
	if req.ExpirationDate != nil {
		expiration, ok := parseOptionalDate(req.ExpirationDate)
		if !ok {
			writeError(w, http.StatusBadRequest, "validation_error", "expiration_date must be dd-mm-yyyy")
			return
		}
		in.ExpirationDate = expiration
	}

	product, err := h.products.Update(r.Context(), id, in)
	if err != nil {
		writeFault(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, mapProductToResponse(product))
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "not_found", "product not found")
		return
	}

	if err := h.products.Delete(r.Context(), id); err != nil {
		writeFault(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func parseOptionalDate(raw *string) (*time.Time, bool) {
	if raw == nil || *raw == "" {
		return nil, true
	}
	t, err := time.Parse(dateLayout, *raw)
	if err != nil {
		return nil, false
	}
	return &t, true
}
