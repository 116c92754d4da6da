package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"examiner-registry-backend/internal/domain"
	"examiner-registry-backend/internal/logger"
	"examiner-registry-backend/internal/repository"
	"examiner-registry-backend/internal/security"
)

const maxBodyBytes = 16 << 20

var validate = newValidator()

// newValidator reports field errors by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type errorResponse struct {
	Error  string            `json:"error"`
	IDs    []string          `json:"ids,omitempty"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeError maps service errors onto HTTP status codes.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	body := errorResponse{Error: err.Error()}

	var vErr *domain.ValidationError
	if errors.As(err, &vErr) {
		body.Error = vErr.Message
		body.IDs = vErr.IDs
	}
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		body.Error = "invalid request"
		body.Fields = make(map[string]string, len(fieldErrs))
		for _, fe := range fieldErrs {
			body.Fields[fe.Field()] = fe.Tag()
		}
	}
	if status == http.StatusInternalServerError {
		logger.Error("Request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		body.Error = "internal error"
	}
	writeJSON(w, status, body)
}

func statusFor(err error) int {
	var (
		vErr      *domain.ValidationError
		fieldErrs validator.ValidationErrors
		allocErr  *domain.AllocationError
		commitErr *domain.StoreCommitError
		syntaxErr *json.SyntaxError
		typeErr   *json.UnmarshalTypeError
		sizeErr   *http.MaxBytesError
	)
	switch {
	case errors.As(err, &vErr), errors.As(err, &fieldErrs), errors.As(err, &syntaxErr), errors.As(err, &typeErr):
		return http.StatusBadRequest
	case errors.As(err, &sizeErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, security.ErrNoIdentity):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.As(err, &allocErr):
		return http.StatusServiceUnavailable
	case errors.Is(err, repository.ErrUniqueViolation), errors.Is(err, repository.ErrAlreadyExists):
		return http.StatusConflict
	case errors.As(err, &commitErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeJSON reads a bounded JSON body into dst and validates it when dst is a struct.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.NewValidationError("request body is required")
		}
		var sizeErr *http.MaxBytesError
		if errors.As(err, &sizeErr) {
			return fmt.Errorf("failed to decode request body: %w", err)
		}
		return domain.NewValidationError(fmt.Sprintf("malformed request body: %v", err))
	}
	if err := validate.Struct(dst); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return nil
		}
		return err
	}
	return nil
}
