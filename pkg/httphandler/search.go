package httphandler

import (
	"net/http"

	// Packages
	httprequest "github.com/mutablelogic/go-server/pkg/httprequest"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	openapi "github.com/mutablelogic/go-server/pkg/openapi/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
	schema "github.com/newjec/bizbrain/pkg/schema"
	websearch "github.com/newjec/bizbrain/pkg/websearch"
)

///////////////////////////////////////////////////////////////////////////////
// HANDLER FUNCTIONS

// Path: /search
func SearchHandler(searcher *websearch.Aggregator) (string, http.HandlerFunc, *openapi.PathItem) {
	return "/search", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost:
				var req schema.SearchRequest
				if err := httprequest.Read(r, &req); err != nil {
					_ = httpresponse.Error(w, err)
					return
				}
				if req.Query == "" {
					_ = httpresponse.Error(w, httpresponse.ErrBadRequest.With("query is required"))
					return
				}

				response, err := searcher.Search(r.Context(), req.Query)
				if err != nil {
					_ = httpresponse.Error(w, httpErr(err))
					return
				}
				_ = httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), response)
			default:
				_ = httpresponse.Error(w, httpresponse.Err(http.StatusMethodNotAllowed), r.Method)
			}
		}, types.Ptr(openapi.PathItem{
			Post: &openapi.Operation{
				Description: "Run one query through the search fallback chain",
			},
		})
}
