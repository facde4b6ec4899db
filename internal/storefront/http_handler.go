package storefront

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"bookstore/internal/book"
	"bookstore/internal/httpx"
	"bookstore/internal/platform/bookservice"
	"bookstore/internal/query"
)

type HTTPHandler struct {
	svc *Service
}

func NewHTTPHandler(svc *Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

// Routes registers the storefront endpoints on mux.
func (h *HTTPHandler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", h.Health)
	mux.HandleFunc("GET /readyz", h.Ready)
	mux.HandleFunc("GET /v1/books", h.List)
	mux.HandleFunc("GET /v1/books/search", h.Search)
	mux.HandleFunc("GET /v1/books/{id}", h.GetByID)
	mux.HandleFunc("GET /v1/facets", h.Facets)
	mux.HandleFunc("POST /v1/catalog/reload", h.Reload)
}

type listRequest struct {
	Q        string   `query:"q" validate:"max=200"`
	Genre    string   `query:"genre" validate:"max=100"`
	MinPrice *float64 `query:"min_price" validate:"omitempty,gte=0"`
	MaxPrice *float64 `query:"max_price" validate:"omitempty,gte=0"`
	InStock  string   `query:"in_stock" validate:"omitempty,oneof=true false in_stock out_of_stock"`
	Page     int      `query:"page" validate:"gte=1"`
}

func parseListRequest(values url.Values) (listRequest, []httpx.ErrorDetail) {
	req := listRequest{
		Q:       values.Get("q"),
		Genre:   values.Get("genre"),
		InStock: values.Get("in_stock"),
		Page:    1,
	}

	var details []httpx.ErrorDetail
	parseFloat := func(key string) *float64 {
		raw := values.Get(key)
		if raw == "" {
			return nil
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			details = append(details, httpx.ErrorDetail{Field: key, Message: key + " must be a number"})
			return nil
		}
		return &v
	}
	req.MinPrice = parseFloat("min_price")
	req.MaxPrice = parseFloat("max_price")

	if raw := values.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			details = append(details, httpx.ErrorDetail{Field: "page", Message: "page must be an integer"})
		} else {
			req.Page = page
		}
	}

	if len(details) > 0 {
		return req, details
	}
	return req, httpx.ValidateStruct(req)
}

// List handles GET /v1/books
// @Summary Browse the storefront catalog
// @Description Search, filter and paginate the loaded catalog
// @Tags books
// @Produce json
// @Param q query string false "Title or author substring"
// @Param genre query string false "Exact genre"
// @Param min_price query number false "Lower price bound"
// @Param max_price query number false "Upper price bound"
// @Param in_stock query string false "true or false"
// @Param page query int false "Page number" default(1)
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Router /v1/books [get]
func (h *HTTPHandler) List(w http.ResponseWriter, r *http.Request) {
	req, details := parseListRequest(r.URL.Query())
	if len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters", details)
		return
	}

	// The validator already restricted in_stock to parseable values.
	stock, _ := query.ParseStockFilter(req.InStock)

	view, state := h.svc.Browse(Params{
		Search:   req.Q,
		Genre:    req.Genre,
		MinPrice: req.MinPrice,
		MaxPrice: req.MaxPrice,
		Stock:    stock,
		Page:     req.Page,
	})

	httpx.JSONSuccess(w, r, view, map[string]any{
		"page":        view.CurrentPage,
		"page_size":   view.ItemsPerPage,
		"total":       view.TotalResults,
		"total_pages": view.TotalPages,
		"first_item":  view.FirstItem(),
		"last_item":   view.LastItem(),
		"pages":       query.PageWindow(view.CurrentPage, view.TotalPages),
		"filters":     state,
	})
}

type searchRequest struct {
	Q string `query:"q" validate:"required,max=200"`
}

// Search handles GET /v1/books/search
// @Summary Search the catalog source directly
// @Description Title or author match answered by the catalog backend, unpaginated
// @Tags books
// @Produce json
// @Param q query string true "Search term"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 400 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /v1/books/search [get]
func (h *HTTPHandler) Search(w http.ResponseWriter, r *http.Request) {
	req := searchRequest{Q: r.URL.Query().Get("q")}
	if details := httpx.ValidateStruct(req); len(details) > 0 {
		httpx.JSONError(w, r, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters", details)
		return
	}

	books, err := h.svc.SearchRemote(r.Context(), req.Q)
	if err != nil {
		if bookservice.IsNetworkError(err) {
			httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", "Failed to search books. Please try again.", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccess(w, r, books, map[string]any{"total": len(books)})
}

// GetByID handles GET /v1/books/{id}
// @Summary Get book details
// @Tags books
// @Produce json
// @Param id path string true "Book ID"
// @Success 200 {object} httpx.SuccessResponse
// @Failure 404 {object} httpx.ErrorResponse
// @Failure 502 {object} httpx.ErrorResponse
// @Router /v1/books/{id} [get]
func (h *HTTPHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		httpx.JSONError(w, r, http.StatusBadRequest, "BAD_REQUEST", "Book ID is required", nil)
		return
	}

	b, err := h.svc.Book(r.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, book.ErrNotFound):
			httpx.JSONError(w, r, http.StatusNotFound, "NOT_FOUND", "Book not found", nil)
		case bookservice.IsNetworkError(err):
			httpx.JSONError(w, r, http.StatusBadGateway, "UPSTREAM_ERROR", "Failed to fetch book details. Please try again.", nil)
		default:
			httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		}
		return
	}
	httpx.JSONSuccess(w, r, b, nil)
}

// Facets handles GET /v1/facets
func (h *HTTPHandler) Facets(w http.ResponseWriter, r *http.Request) {
	httpx.JSONSuccess(w, r, h.svc.Facets(), nil)
}

// Reload handles POST /v1/catalog/reload
func (h *HTTPHandler) Reload(w http.ResponseWriter, r *http.Request) {
	n, err := h.svc.Load(r.Context())
	if err != nil {
		var lerr *LoadError
		if errors.As(err, &lerr) {
			httpx.JSONError(w, r, http.StatusBadGateway, "LOAD_ERROR", "Failed to fetch books. Please try again.", nil)
			return
		}
		httpx.JSONError(w, r, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error", nil)
		return
	}
	httpx.JSONSuccessAccepted(w, r, map[string]int{"books": n})
}

func (h *HTTPHandler) Health(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready reports 200 once a catalog load has succeeded.
func (h *HTTPHandler) Ready(w http.ResponseWriter, r *http.Request) {
	st := h.svc.Status()
	if !st.Loaded {
		httpx.JSONError(w, r, http.StatusServiceUnavailable, "NOT_READY", "Catalog not loaded", nil)
		return
	}
	httpx.JSONSuccess(w, r, st, nil)
}
