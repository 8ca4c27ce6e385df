package httpx

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jcmexdev/backoffice-api/internal/core/app"
	"github.com/jcmexdev/backoffice-api/internal/core/domain/fault"
)

// Handler handles incoming HTTP requests for the back-office domain.
type Handler struct {
	orders   *app.OrderService
	products *app.ProductService
	clients  *app.ClientService
	users    *app.UserService
}

// NewHandler initializes the handler with its required application services.
func NewHandler(
	orders *app.OrderService,
	products *app.ProductService,
	clients *app.ClientService,
	users *app.UserService,
) *Handler {
	return &Handler{
		orders:   orders,
		products: products,
		clients:  clients,
		users:    users,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, ErrorResponse{
		Error:   code,
		Message: msg,
	})
}

// writeFault maps a typed domain failure to its response code. Untyped
// errors are logged and answered as opaque 500s.
func writeFault(w http.ResponseWriter, r *http.Request, err error) {
	switch fault.KindOf(err) {
	case fault.KindNotFound:
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case fault.KindInsufficientStock:
		writeError(w, http.StatusBadRequest, "insufficient_stock", err.Error())
	case fault.KindValidation:
		writeError(w, http.StatusBadRequest, "validation_error", err.Error())
	case fault.KindConflict:
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case fault.KindUnauthorized:
		writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	case fault.KindForbidden:
		writeError(w, http.StatusForbidden, "forbidden", err.Error())
	default:
		slog.ErrorContext(r.Context(), "internal error", "path", r.URL.Path, "error", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "")
	}
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	return id, err == nil && id > 0
}

// queryInt returns 0 when the parameter is absent or malformed; the
// pagination clamp turns 0 into the defaults.
func queryInt(r *http.Request, name string) int {
	v, _ := strconv.Atoi(r.URL.Query().Get(name))
	return v
}

// queryInt64Ptr parses an optional integer query parameter. A malformed
// value is an error, not a silently unfiltered list.
func queryInt64Ptr(r *http.Request, name string) (*int64, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be an integer", name)
	}
	return &v, nil
}
