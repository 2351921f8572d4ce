package schema

///////////////////////////////////////////////////////////////////////////////
// TYPES

// AnalyzeRequest starts one company analysis stream.
type AnalyzeRequest struct {
	CompanyName string `json:"companyName"`
}

// ChatRequest is one plain chat turn.
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatDelta is one frame on the plain chat channel. The terminal frame
// has Done set; an error frame carries both Error and Done.
type ChatDelta struct {
	Content string `json:"content"`
	Done    bool   `json:"done"`
	Error   string `json:"error,omitempty"`
}
