package request

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/princekumarofficial/portfolio-service/internal/types"
)

// maxJSONBody caps JSON request bodies.
const maxJSONBody = 1 << 20

// PathInt64 parses a positive integer path value.
func PathInt64(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w: invalid %s %q", types.ErrInvalidInput, name, raw)
	}
	return id, nil
}

// DecodeJSON reads the request body into v and rejects unknown fields.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.DisallowUnknownFields()

	err := dec.Decode(v)
	if errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: request body cannot be empty", types.ErrInvalidInput)
	}
	if err != nil {
		return fmt.Errorf("%w: %s", types.ErrInvalidInput, err.Error())
	}
	return nil
}
