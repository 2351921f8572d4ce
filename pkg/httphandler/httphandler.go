/*
httphandler exposes the service endpoints: the analysis stream, the
plain chat channel, web search, and the PowerPoint proxy.
*/
package httphandler

import (
	"errors"
	"net/http"

	// Packages
	server "github.com/mutablelogic/go-server"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	openapi "github.com/mutablelogic/go-server/pkg/openapi/schema"
	bizbrain "github.com/newjec/bizbrain"
	chat "github.com/newjec/bizbrain/pkg/chat"
	pptx "github.com/newjec/bizbrain/pkg/pptx"
	relay "github.com/newjec/bizbrain/pkg/relay"
	websearch "github.com/newjec/bizbrain/pkg/websearch"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Router interface {
	RegisterFunc(path string, handler http.HandlerFunc, middleware bool, spec *openapi.PathItem) error
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

func RegisterHandlers(analyzer *relay.Relay, assistant *chat.Chat, searcher *websearch.Aggregator, slides *pptx.Client, router server.HTTPRouter, middleware bool) error {
	var result error

	// Convenience function to register a handler and accumulate any errors
	register := func(path string, handler http.HandlerFunc, spec *openapi.PathItem) {
		result = errors.Join(result, router.(Router).RegisterFunc(path, handler, middleware, spec))
	}

	// Register handlers
	register(AnalyzeHandler(analyzer))
	register(ChatHandler(assistant))
	register(SearchHandler(searcher))
	register(GeneratePowerPointHandler(slides))
	register(DownloadPowerPointHandler(slides))
	register(CleanupPowerPointHandler(slides))

	// Return any errors
	return result
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

// httpErr converts a bizbrain.Err to an httpresponse.Err, preserving
// the original error message. Unknown error codes map to 500.
func httpErr(err error) error {
	var appErr bizbrain.Err
	if !errors.As(err, &appErr) {
		return err
	}
	switch appErr {
	case bizbrain.ErrNotFound:
		return httpresponse.ErrNotFound.With(err)
	case bizbrain.ErrBadParameter:
		return httpresponse.ErrBadRequest.With(err)
	case bizbrain.ErrConflict:
		return httpresponse.ErrConflict.With(err)
	case bizbrain.ErrNotImplemented:
		return httpresponse.ErrNotImplemented.With(err)
	default:
		return httpresponse.ErrInternalError.With(err)
	}
}
