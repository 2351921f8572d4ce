package httphandler

import (
	"net/http"

	// Packages
	httprequest "github.com/mutablelogic/go-server/pkg/httprequest"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	openapi "github.com/mutablelogic/go-server/pkg/openapi/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
	chat "github.com/newjec/bizbrain/pkg/chat"
	schema "github.com/newjec/bizbrain/pkg/schema"
	sse "github.com/newjec/bizbrain/pkg/sse"
)

///////////////////////////////////////////////////////////////////////////////
// HANDLER FUNCTIONS

// Path: /chat
func ChatHandler(assistant *chat.Chat) (string, http.HandlerFunc, *openapi.PathItem) {
	return "/chat", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost:
				var req schema.ChatRequest
				if err := httprequest.Read(r, &req); err != nil {
					_ = httpresponse.Error(w, err)
					return
				}

				// guardrails reject before any frame is written
				if err := assistant.Validate(req.Message); err != nil {
					_ = httpresponse.Error(w, httpErr(err))
					return
				}

				stream := sse.NewWriter(w)
				if stream == nil {
					_ = httpresponse.Error(w, httpresponse.ErrInternalError.With("streaming unsupported"))
					return
				}

				_ = assistant.Stream(r.Context(), req.Message, func(delta *schema.ChatDelta) error {
					return stream.Write(delta)
				})
			default:
				_ = httpresponse.Error(w, httpresponse.Err(http.StatusMethodNotAllowed), r.Method)
			}
		}, types.Ptr(openapi.PathItem{
			Post: &openapi.Operation{
				Description: "Send a message to the assistant and stream the reply",
			},
		})
}
