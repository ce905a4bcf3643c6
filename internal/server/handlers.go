package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/agbru/gsmul/internal/config"
	"github.com/agbru/gsmul/internal/digits"
	apperrors "github.com/agbru/gsmul/internal/errors"
)

// multiplyParams is a validated /multiply request, whatever its method.
type multiplyParams struct {
	x, y digits.Digits
	base int
	algo string
}

// handleHealth responds to health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}

// handleAlgorithms returns the registered multiplier names.
func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	s.writeJSONResponse(w, http.StatusOK, map[string]any{
		"algorithms": s.factory.List(),
	})
}

// handleMultiply multiplies two operands given either as query parameters
// (GET) or as a JSON MultiplyRequest (POST).
//
// Invalid operands, bases and oversized inputs are answered with 400. An
// unknown algorithm or a failed multiplication is answered with 200 and the
// error field set.
func (s *Server) handleMultiply(w http.ResponseWriter, r *http.Request) {
	var (
		params multiplyParams
		err    error
	)
	switch r.Method {
	case http.MethodGet:
		params, err = parseMultiplyQuery(r)
	case http.MethodPost:
		params, err = s.decodeMultiplyBody(w, r)
	default:
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	if err != nil {
		var parseErr RequestParseError
		if errors.As(err, &parseErr) {
			s.writeErrorResponse(w, parseErr.StatusCode, parseErr.Message)
		} else {
			s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		}
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	start := time.Now()
	product, err := s.service.Multiply(ctx, params.algo, params.x, params.y, params.base)
	duration := time.Since(start)

	if errors.Is(err, apperrors.ErrInvalidInput) {
		s.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	s.writeJSONResponse(w, http.StatusOK, buildMultiplyResponse(params, product, duration, err))
}

// parseMultiplyQuery reads x, y, base and algo from the query string.
// Operands use the digits.Parse syntax: a numeral such as "1024" or a
// digit list such as "[1, 0, 2, 4]" or "1:0:2:4".
func parseMultiplyQuery(r *http.Request) (multiplyParams, error) {
	q := r.URL.Query()
	params := multiplyParams{base: digits.DefaultBase, algo: q.Get("algo")}
	if params.algo == "" {
		params.algo = config.DefaultAlgo
	}

	if bs := q.Get("base"); bs != "" {
		base, err := strconv.Atoi(bs)
		if err != nil {
			return params, RequestParseError{
				Message:    "Invalid 'base' parameter: must be an integer",
				StatusCode: http.StatusBadRequest,
			}
		}
		params.base = base
	}
	if err := digits.ValidateBase(params.base); err != nil {
		return params, RequestParseError{Message: err.Error(), StatusCode: http.StatusBadRequest}
	}

	for _, op := range []struct {
		name string
		dst  *digits.Digits
	}{{"x", &params.x}, {"y", &params.y}} {
		text := q.Get(op.name)
		if text == "" {
			return params, RequestParseError{
				Message:    fmt.Sprintf("Missing '%s' parameter", op.name),
				StatusCode: http.StatusBadRequest,
			}
		}
		d, err := digits.Parse(text, params.base)
		if err != nil {
			return params, RequestParseError{
				Message:    fmt.Sprintf("Invalid '%s' parameter: %v", op.name, err),
				StatusCode: http.StatusBadRequest,
			}
		}
		*op.dst = d
	}

	return params, nil
}

// decodeMultiplyBody reads a MultiplyRequest from the body. Digit values are
// validated by the multiplier itself.
func (s *Server) decodeMultiplyBody(w http.ResponseWriter, r *http.Request) (multiplyParams, error) {
	if s.securityConfig.MaxBodyBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, s.securityConfig.MaxBodyBytes)
	}

	var req MultiplyRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return multiplyParams{}, RequestParseError{
				Message:    fmt.Sprintf("Request body exceeds %d bytes", tooLarge.Limit),
				StatusCode: http.StatusRequestEntityTooLarge,
			}
		}
		return multiplyParams{}, RequestParseError{
			Message:    "Invalid JSON body: " + err.Error(),
			StatusCode: http.StatusBadRequest,
		}
	}

	params := multiplyParams{
		x:    digits.Digits(req.X),
		y:    digits.Digits(req.Y),
		base: req.Base,
		algo: req.Algorithm,
	}
	if params.base == 0 {
		params.base = digits.DefaultBase
	}
	if params.algo == "" {
		params.algo = config.DefaultAlgo
	}
	return params, nil
}

// buildMultiplyResponse constructs the response for a finished request.
func buildMultiplyResponse(params multiplyParams, product digits.Digits, duration time.Duration, err error) Response {
	resp := Response{
		X:         params.x,
		Y:         params.y,
		Base:      params.base,
		Algorithm: params.algo,
		Duration:  duration.String(),
	}

	if err != nil {
		resp.Error = err.Error()
	} else {
		resp.Product = product
		resp.Text = digits.Format(product, params.base)
	}

	return resp
}

// writeJSONResponse writes data as JSON with the given status code.
func (s *Server) writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encoding JSON response", err)
	}
}

// writeErrorResponse writes a standardized error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	s.writeJSONResponse(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}
