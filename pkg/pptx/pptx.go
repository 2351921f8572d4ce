/*
pptx is the proxy to the external PowerPoint-generation service. The
service is a black box collaborator: generate and cleanup are JSON
operations, download is a binary passthrough.
*/
package pptx

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"

	// Packages
	client "github.com/mutablelogic/go-client"
	bizbrain "github.com/newjec/bizbrain"
	schema "github.com/newjec/bizbrain/pkg/schema"
)

///////////////////////////////////////////////////////////////////////////////
// TYPES

type Client struct {
	*client.Client
	base string
	http *http.Client
}

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

// ContentType of a downloaded presentation
const ContentType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

///////////////////////////////////////////////////////////////////////////////
// LIFECYCLE

// New creates a client for the PowerPoint backend at the given base URL
func New(backendUrl string, opts ...client.ClientOpt) (*Client, error) {
	if _, err := url.Parse(backendUrl); err != nil || backendUrl == "" {
		return nil, bizbrain.ErrBadParameter.With("backend url is required")
	}
	opts = append([]client.ClientOpt{client.OptEndpoint(backendUrl)}, opts...)
	c, err := client.New(opts...)
	if err != nil {
		return nil, err
	}
	return &Client{c, backendUrl, &http.Client{}}, nil
}

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Generate asks the backend to build a presentation from the analysis
// data, returning the file handle for download.
func (c *Client) Generate(ctx context.Context, companyName string, analysis *schema.AnalysisData) (*schema.GeneratePowerPointResponse, error) {
	if companyName == "" {
		return nil, bizbrain.ErrBadParameter.With("company_name is required")
	}

	request, err := client.NewJSONRequest(schema.GeneratePowerPointRequest{
		CompanyName:  companyName,
		AnalysisData: analysis,
	})
	if err != nil {
		return nil, err
	}

	var response schema.GeneratePowerPointResponse
	if err := c.DoWithContext(ctx, request, &response, client.OptPath("generate-powerpoint")); err != nil {
		return nil, err
	}
	return &response, nil
}

// Download streams the generated file. The caller owns the returned
// reader and must close it. The binary body is passed through without
// buffering, so this bypasses the JSON client.
func (c *Client) Download(ctx context.Context, fileId string) (io.ReadCloser, error) {
	if !IsFileId(fileId) {
		return nil, bizbrain.ErrBadParameter.Withf("invalid file id %q", fileId)
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, fmt.Sprintf("%s/download/%s", c.base, url.PathEscape(fileId)), nil)
	if err != nil {
		return nil, err
	}
	response, err := c.http.Do(request)
	if err != nil {
		return nil, err
	}
	if response.StatusCode != http.StatusOK {
		response.Body.Close()
		if response.StatusCode == http.StatusNotFound {
			return nil, bizbrain.ErrNotFound.Withf("file %q", fileId)
		}
		return nil, bizbrain.ErrInternalServerError.Withf("download returned %s", response.Status)
	}
	return response.Body, nil
}

// Cleanup deletes the generated file from the backend
func (c *Client) Cleanup(ctx context.Context, fileId string) error {
	if !IsFileId(fileId) {
		return bizbrain.ErrBadParameter.Withf("invalid file id %q", fileId)
	}

	request, err := client.NewJSONRequestEx(http.MethodDelete, struct{}{}, client.ContentTypeAny)
	if err != nil {
		return err
	}
	return c.DoWithContext(ctx, request, nil, client.OptPath("cleanup", fileId))
}
