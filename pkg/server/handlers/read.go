package handlers

import (
	"context"
	"net/http"

	"mercator-hq/querygate/pkg/gateway"
	"mercator-hq/querygate/pkg/telemetry/logging"
)

// URIParam is the query parameter carrying the resource URI. The resource
// URI has its own percent-escapes, so clients encode it once more:
//
//	GET /read?uri=entity%3Ffilter%3Dprice%2520gt%252010
const URIParam = "uri"

// Reader is the part of the gateway the handlers need.
type Reader interface {
	Read(ctx context.Context, uri string) (*gateway.Result, error)
	Explain(ctx context.Context, uri string) (*gateway.Plan, error)
}

// ReadHandler serves resource reads.
type ReadHandler struct {
	reader Reader
	logger *logging.Logger
}

// NewReadHandler creates a ReadHandler.
func NewReadHandler(reader Reader, logger *logging.Logger) *ReadHandler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &ReadHandler{reader: reader, logger: logger}
}

// ServeHTTP handles GET {read_path}?uri=...
func (h *ReadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	uri, ok := resourceURI(w, r)
	if !ok {
		return
	}

	result, err := h.reader.Read(r.Context(), uri)
	if err != nil {
		h.writeError(r.Context(), w, err)
		return
	}

	if err := WriteJSONResponse(w, http.StatusOK, &ReadResponse{
		Resource: result.Resource,
		Columns:  result.Columns,
		Count:    len(result.Rows),
		Rows:     result.Rows,
	}); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to write response", "error", err)
	}
}

func (h *ReadHandler) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	status, body := HandleError(err)
	if writeErr := WriteErrorResponse(w, status, body); writeErr != nil {
		h.logger.ErrorContext(ctx, "failed to write error response", "error", writeErr)
	}
}

// ExplainHandler returns the validated query and planned SQL without
// executing anything.
type ExplainHandler struct {
	reader Reader
	logger *logging.Logger
}

// NewExplainHandler creates an ExplainHandler.
func NewExplainHandler(reader Reader, logger *logging.Logger) *ExplainHandler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &ExplainHandler{reader: reader, logger: logger}
}

// ServeHTTP handles GET {explain_path}?uri=...
func (h *ExplainHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	uri, ok := resourceURI(w, r)
	if !ok {
		return
	}

	plan, err := h.reader.Explain(r.Context(), uri)
	if err != nil {
		status, body := HandleError(err)
		_ = WriteErrorResponse(w, status, body)
		return
	}

	if err := WriteJSONResponse(w, http.StatusOK, NewExplainResponse(plan)); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to write response", "error", err)
	}
}

// resourceURI checks the method and extracts the uri parameter, writing the
// error response itself when either is wrong.
func resourceURI(w http.ResponseWriter, r *http.Request) (string, bool) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		_ = WriteErrorResponse(w, http.StatusMethodNotAllowed, &ErrorResponse{
			Error: "method not allowed",
			Code:  CodeMethodNotAllowed,
		})
		return "", false
	}

	uri := r.URL.Query().Get(URIParam)
	if uri == "" {
		_ = WriteErrorResponse(w, http.StatusBadRequest, &ErrorResponse{
			Error: `missing required query parameter "uri"`,
			Param: URIParam,
			Code:  CodeMissingURI,
		})
		return "", false
	}
	return uri, true
}
