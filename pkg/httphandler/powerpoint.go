package httphandler

import (
	"fmt"
	"io"
	"net/http"
	"net/url"

	// Packages
	httprequest "github.com/mutablelogic/go-server/pkg/httprequest"
	httpresponse "github.com/mutablelogic/go-server/pkg/httpresponse"
	openapi "github.com/mutablelogic/go-server/pkg/openapi/schema"
	types "github.com/mutablelogic/go-server/pkg/types"
	pptx "github.com/newjec/bizbrain/pkg/pptx"
	schema "github.com/newjec/bizbrain/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// HANDLER FUNCTIONS

// Path: /generate-powerpoint
func GeneratePowerPointHandler(slides *pptx.Client) (string, http.HandlerFunc, *openapi.PathItem) {
	return "/generate-powerpoint", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPost:
				var req schema.GeneratePowerPointRequest
				if err := httprequest.Read(r, &req); err != nil {
					_ = httpresponse.Error(w, err)
					return
				}

				response, err := slides.Generate(r.Context(), req.CompanyName, req.AnalysisData)
				if err != nil {
					_ = httpresponse.Error(w, httpErr(err))
					return
				}
				response.DownloadUrl = "/download-powerpoint/" + url.PathEscape(response.FileId)
				_ = httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), response)
			default:
				_ = httpresponse.Error(w, httpresponse.Err(http.StatusMethodNotAllowed), r.Method)
			}
		}, types.Ptr(openapi.PathItem{
			Post: &openapi.Operation{
				Description: "Generate a presentation from analysis data",
			},
		})
}

// Path: /download-powerpoint/{file}
func DownloadPowerPointHandler(slides *pptx.Client) (string, http.HandlerFunc, *openapi.PathItem) {
	return "/download-powerpoint/{file}", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet:
				fileId := r.PathValue("file")
				body, err := slides.Download(r.Context(), fileId)
				if err != nil {
					_ = httpresponse.Error(w, httpErr(err))
					return
				}
				defer body.Close()

				w.Header().Set("Content-Type", pptx.ContentType)
				w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileId+".pptx"))
				_, _ = io.Copy(w, body)
			default:
				_ = httpresponse.Error(w, httpresponse.Err(http.StatusMethodNotAllowed), r.Method)
			}
		}, types.Ptr(openapi.PathItem{
			Get: &openapi.Operation{
				Description: "Download a generated presentation",
			},
		})
}

// Path: /cleanup-powerpoint/{file}
func CleanupPowerPointHandler(slides *pptx.Client) (string, http.HandlerFunc, *openapi.PathItem) {
	return "/cleanup-powerpoint/{file}", func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodDelete:
				fileId := r.PathValue("file")
				if err := slides.Cleanup(r.Context(), fileId); err != nil {
					_ = httpresponse.Error(w, httpErr(err))
					return
				}
				_ = httpresponse.JSON(w, http.StatusOK, httprequest.Indent(r), map[string]string{"status": "ok"})
			default:
				_ = httpresponse.Error(w, httpresponse.Err(http.StatusMethodNotAllowed), r.Method)
			}
		}, types.Ptr(openapi.PathItem{
			Delete: &openapi.Operation{
				Description: "Delete a generated presentation from the backend",
			},
		})
}
