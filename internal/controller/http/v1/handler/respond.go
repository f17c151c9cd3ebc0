package v1

import (
	"encoding/json"
	"log/slog"
	"net/http"

	v1 "github.com/evermart/placement_service/internal/controller/http/v1/middleware"
	"github.com/evermart/placement_service/internal/domain/entity"
	"github.com/evermart/placement_service/internal/errors"
)

func actorFromContext(r *http.Request) (entity.Actor, bool) {
	actor, ok := r.Context().Value(v1.Key("actor")).(entity.Actor)
	return actor, ok
}

// writeDomainError maps error codes of the placement core to statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch errors.Code(err) {
	case errors.ErrValidation:
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.ErrNoDataFound:
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.ErrConflict:
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.ErrUpload:
		http.Error(w, err.Error(), http.StatusBadGateway)
	case errors.ErrForbidden:
		http.Error(w, err.Error(), http.StatusForbidden)
	case errors.ErrUnauthorized:
		http.Error(w, err.Error(), http.StatusUnauthorized)
	default:
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("error marshalling response", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}
