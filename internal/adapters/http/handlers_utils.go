package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/easysewa/booking-service/internal/domain"
	"github.com/easysewa/booking-service/internal/ports"
	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
)

const (
	maxJSONBodyBytes      = 1 << 20
	maxMultipartBodyBytes = (domain.MaxBusImages + 1) * domain.MaxImageSizeBytes
	multipartMemoryBytes  = 8 << 20
)

func decodeBody(r *http.Request, dst any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxJSONBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return err
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("request body must contain a single JSON value")
	}
	return nil
}

// bindJSON decodes the body strictly and runs struct validation.
func (h *Handler) bindJSON(r *http.Request, dst any) error {
	if err := decodeBody(r, dst); err != nil {
		return err
	}
	return h.check(dst)
}

func (h *Handler) check(dst any) error {
	if err := h.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return errors.New(describeValidation(verrs[0]))
		}
		return err
	}
	return nil
}

func describeValidation(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return "Please provide a valid email"
	case "min":
		if fe.Kind().String() == "string" {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s]", field, fe.Param())
	case "uuid":
		return field + " must be a valid id"
	case "url":
		return field + " must be a valid URL"
	case "len":
		return fmt.Sprintf("%s must be %s characters", field, fe.Param())
	default:
		return field + " is invalid"
	}
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(strings.ToLower(r.Header.Get("Content-Type")), "multipart/form-data")
}

func parseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxMultipartBodyBytes)
	if err := r.ParseMultipartForm(multipartMemoryBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errors.New("upload exceeds the allowed size")
		}
		return fmt.Errorf("invalid multipart form: %w", err)
	}
	return nil
}

// formFiles reads up to limit files of field and sniffs their content type.
func formFiles(r *http.Request, field string, limit int) ([]ports.ImageUpload, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	headers := r.MultipartForm.File[field]
	if len(headers) > limit {
		return nil, fmt.Errorf("at most %d files allowed for %s", limit, field)
	}
	out := make([]ports.ImageUpload, 0, len(headers))
	for _, fh := range headers {
		upload, err := readUpload(fh)
		if err != nil {
			return nil, err
		}
		out = append(out, upload)
	}
	return out, nil
}

func formFile(r *http.Request, field string) (*ports.ImageUpload, error) {
	files, err := formFiles(r, field, 1)
	if err != nil || len(files) == 0 {
		return nil, err
	}
	return &files[0], nil
}

func readUpload(fh *multipart.FileHeader) (ports.ImageUpload, error) {
	if fh.Size > domain.MaxImageSizeBytes {
		return ports.ImageUpload{}, fmt.Errorf("%s exceeds the 5MB limit", fh.Filename)
	}
	f, err := fh.Open()
	if err != nil {
		return ports.ImageUpload{}, fmt.Errorf("open %s: %w", fh.Filename, err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, domain.MaxImageSizeBytes+1))
	if err != nil {
		return ports.ImageUpload{}, fmt.Errorf("read %s: %w", fh.Filename, err)
	}
	if int64(len(data)) > domain.MaxImageSizeBytes {
		return ports.ImageUpload{}, fmt.Errorf("%s exceeds the 5MB limit", fh.Filename)
	}
	return ports.ImageUpload{
		Filename:    fh.Filename,
		ContentType: mimetype.Detect(data).String(),
		Size:        int64(len(data)),
		Body:        bytes.NewReader(data),
	}, nil
}

// formList accepts a JSON array, a comma separated string or repeated form values.
func formList(r *http.Request, field string) []string {
	values := r.MultipartForm.Value[field]
	if len(values) == 0 {
		return nil
	}
	if len(values) == 1 {
		raw := strings.TrimSpace(values[0])
		var parsed []string
		if strings.HasPrefix(raw, "[") && json.Unmarshal([]byte(raw), &parsed) == nil {
			return parsed
		}
		if raw == "" {
			return nil
		}
		return strings.Split(raw, ",")
	}
	return values
}

func formInt(r *http.Request, field string) (int, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a number", field)
	}
	return n, nil
}

func parseIntDefault(raw string, fallback int) int {
	if strings.TrimSpace(raw) == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

// readIP returns the peer address of the connection. Forwarded headers are only honoured
// when the router runs behind a trusted proxy, where middleware.RealIP rewrites RemoteAddr.
func readIP(r *http.Request) string {
	addr := strings.TrimSpace(r.RemoteAddr)
	if host, _, err := net.SplitHostPort(addr); err == nil {
		return host
	}
	return addr
}

func writeMappedError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	status, code, msg := mapDomainError(err)
	logHTTPOperationError(ctx, operation, status, code, msg, err)
	writeError(w, status, code, msg)
}

func writeValidationError(ctx context.Context, w http.ResponseWriter, operation string, err error) {
	code := "VALIDATION_ERROR"
	msg := err.Error()
	logHTTPOperationError(ctx, operation, http.StatusBadRequest, code, msg, err)
	writeError(w, http.StatusBadRequest, code, msg)
}

func writeMissingBearerError(ctx context.Context, w http.ResponseWriter, operation string) {
	code := "UNAUTHORIZED"
	msg := "Not authorized, no token"
	logHTTPOperationError(ctx, operation, http.StatusUnauthorized, code, msg, nil)
	writeError(w, http.StatusUnauthorized, code, msg)
}
