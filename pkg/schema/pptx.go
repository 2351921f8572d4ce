package schema

///////////////////////////////////////////////////////////////////////////////
// TYPES

// GeneratePowerPointRequest is forwarded verbatim to the generation backend.
type GeneratePowerPointRequest struct {
	CompanyName  string        `json:"company_name"`
	AnalysisData *AnalysisData `json:"analysis_data"`
}

// GeneratePowerPointResponse identifies a generated file on the backend.
type GeneratePowerPointResponse struct {
	FileId      string `json:"file_id"`
	CompanyName string `json:"company_name"`
	DownloadUrl string `json:"download_url,omitempty"`
}
