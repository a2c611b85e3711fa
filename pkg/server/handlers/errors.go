package handlers

import (
	"errors"
	"net/http"

	"mercator-hq/querygate/pkg/gateway"
	"mercator-hq/querygate/pkg/odata"
)

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	// Error is a human-readable message. For injection rejections it is
	// always odata.InjectionMessage.
	Error string `json:"error"`

	// Param names the offending parameter, if any.
	Param string `json:"param,omitempty"`

	// Code is a machine-readable error code.
	Code string `json:"code,omitempty"`
}

// Error code constants.
const (
	CodeMissingURI       = "missing_uri"
	CodeNotFound         = "not_found"
	CodeInvalidParameter = "invalid_parameter"
	CodeNotAllowed       = "not_allowed"
	CodeForbiddenPattern = "forbidden_pattern"
	CodeMethodNotAllowed = "method_not_allowed"
	CodeInternalError    = "internal_error"
)

// HandleError maps a gateway error to a status code and response body.
//
// Mapping:
//   - gateway.ErrResourceNotFound: 404 {"error":"resource not found"}
//   - odata.FormatError, odata.WhitelistViolation: 400 with the error message
//   - odata.InjectionPatternDetected: 400 with the fixed message
//   - anything else: 500 with a generic message
func HandleError(err error) (int, *ErrorResponse) {
	if errors.Is(err, gateway.ErrResourceNotFound) {
		return http.StatusNotFound, &ErrorResponse{Error: gateway.ErrResourceNotFound.Error()}
	}

	var ip *odata.InjectionPatternDetected
	if errors.As(err, &ip) {
		return http.StatusBadRequest, &ErrorResponse{
			Error: odata.InjectionMessage,
			Param: ip.Param,
			Code:  CodeForbiddenPattern,
		}
	}

	var wv *odata.WhitelistViolation
	if errors.As(err, &wv) {
		return http.StatusBadRequest, &ErrorResponse{
			Error: wv.Error(),
			Param: wv.Param,
			Code:  CodeNotAllowed,
		}
	}

	var fe *odata.FormatError
	if errors.As(err, &fe) {
		return http.StatusBadRequest, &ErrorResponse{
			Error: fe.Error(),
			Param: fe.Param,
			Code:  CodeInvalidParameter,
		}
	}

	return http.StatusInternalServerError, &ErrorResponse{
		Error: "an internal error occurred",
		Code:  CodeInternalError,
	}
}
