package httphandler

import (
	"net/http"

	// Packages
	httprequest "github.com/mutablelogic/go-server/pkg/httprequest"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	openapi "github.com/mutablelogic/go-server/pkg/openapi/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
	relay "github.com/newjec/bizbrain/pkg/relay"
	schema "github.com/newjec/bizbrain/pkg/schema"
	sse "github.com/newjec/bizbrain/pkg/sse"
)

///////////////////////////////////////////////////////////////////////////////
// HANDLER FUNCTIONS

// Path: /analyze-stream
func AnalyzeHandler(analyzer *relay.Relay) (string, http.HandlerFunc, *openapi.PathItem) {
	return "/analyze-stream", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost:
				var req schema.AnalyzeRequest
				if err := httprequest.Read(r, &req); err != nil {
					_ = httpresponse.Error(w, err)
					return
				}

				// Validation failures are rejected as JSON before any
				// frame is written; once streaming begins the status
				// line is already on the wire.
				if req.CompanyName == "" {
					_ = httpresponse.Error(w, httpresponse.ErrBadRequest.With("companyName is required"))
					return
				}

				stream := sse.NewWriter(w)
				if stream == nil {
					_ = httpresponse.Error(w, httpresponse.ErrInternalError.With("streaming unsupported"))
					return
				}

				// terminal events are emitted by the relay itself
				_ = analyzer.Analyze(r.Context(), req.CompanyName, func(event *schema.Event) error {
					return stream.Write(event)
				})
			default:
				_ = httpresponse.Error(w, httpresponse.Err(http.StatusMethodNotAllowed), r.Method)
			}
		}, types.Ptr(openapi.PathItem{
			Post: &openapi.Operation{
				Description: "Start a streaming company analysis",
			},
		})
}
