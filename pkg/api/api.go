// Package api holds the shared pieces of the coordinator's HTTP surface:
// response encoding and the error-to-status mapping.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	pkgerrors "github.com/absmach/federator/pkg/errors"
)

const (
	OffsetKey = "offset"
	LimitKey  = "limit"
	DefOffset = 0
	DefLimit  = 100

	ContentType = "application/json"

	MaxLimitSize = 100
)

// Response lets endpoint responses carry their status code and headers.
type Response interface {
	Code() int
	Headers() map[string]string
	Empty() bool
}

func EncodeResponse(_ context.Context, w http.ResponseWriter, response any) error {
	if ar, ok := response.(Response); ok {
		for k, v := range ar.Headers() {
			w.Header().Set(k, v)
		}
		w.Header().Set("Content-Type", ContentType)
		w.WriteHeader(ar.Code())

		if ar.Empty() {
			return nil
		}
	}

	return json.NewEncoder(w).Encode(response)
}

func EncodeError(_ context.Context, err error, w http.ResponseWriter) {
	w.Header().Set("Content-Type", ContentType)
	switch {
	case errors.Is(err, pkgerrors.ErrEmptyKey),
		errors.Is(err, pkgerrors.ErrMissingID),
		errors.Is(err, pkgerrors.ErrInvalidQueryParams),
		errors.Is(err, pkgerrors.ErrInvalidData):
		w.WriteHeader(http.StatusBadRequest)
	case errors.Is(err, pkgerrors.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.Is(err, pkgerrors.ErrEntityExists):
		w.WriteHeader(http.StatusConflict)
	default:
		w.WriteHeader(http.StatusInternalServerError)
	}

	if encErr := json.NewEncoder(w).Encode(map[string]string{"error": err.Error()}); encErr != nil {
		w.WriteHeader(http.StatusInternalServerError)
	}
}

// ReadNumQuery parses an unsigned numeric query parameter, falling back
// to def when absent.
func ReadNumQuery(r *http.Request, key string, def uint64) (uint64, error) {
	values := r.URL.Query()[key]
	switch len(values) {
	case 0:
		return def, nil
	case 1:
		v, err := strconv.ParseUint(values[0], 10, 64)
		if err != nil {
			return 0, errors.Join(pkgerrors.ErrInvalidQueryParams, err)
		}

		return v, nil
	default:
		return 0, pkgerrors.ErrInvalidQueryParams
	}
}
