package middleware

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	errors "github.com/frahmantamala/docdraft/internal"
	"github.com/frahmantamala/docdraft/internal/transport"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers"
	"github.com/getkin/kin-openapi/routers/gorillamux"
)

// RequestValidator checks requests against an OpenAPI 3 document before they
// reach a handler. Paths the document does not describe pass through.
type RequestValidator struct {
	router routers.Router
	base   *transport.BaseHandler
}

func NewRequestValidator(spec []byte, logger *slog.Logger) (*RequestValidator, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(spec)
	if err != nil {
		return nil, fmt.Errorf("load openapi document: %w", err)
	}
	if err := doc.Validate(context.Background()); err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, fmt.Errorf("build openapi router: %w", err)
	}
	return &RequestValidator{router: router, base: transport.NewBaseHandler(logger)}, nil
}

func (v *RequestValidator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, pathParams, err := v.router.FindRoute(r)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, transport.MaxRequestBody)
		}
		input := &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: pathParams,
			Route:      route,
			Options: &openapi3filter.Options{
				AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
			},
		}
		if err := openapi3filter.ValidateRequest(r.Context(), input); err != nil {
			v.base.WriteAppError(w, toValidationError(err))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func toValidationError(err error) *errors.AppError {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return transport.ErrBodyTooLarge
	}

	field := "body"
	message := err.Error()

	var reqErr *openapi3filter.RequestError
	if stderrors.As(err, &reqErr) {
		if reqErr.Parameter != nil {
			field = reqErr.Parameter.Name
		}
		if reqErr.Err != nil {
			message = reqErr.Err.Error()
		} else if reqErr.Reason != "" {
			message = reqErr.Reason
		}
	}

	var schemaErr *openapi3.SchemaError
	if stderrors.As(err, &schemaErr) {
		if pointer := schemaErr.JSONPointer(); len(pointer) > 0 {
			field = strings.Join(pointer, ".")
		}
		message = schemaErr.Reason
	}

	return errors.NewValidationFieldError(field, message, errors.ErrCodeValidationFailed)
}
