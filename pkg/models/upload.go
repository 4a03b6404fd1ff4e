package models

// UploadStatusSuccess is the only status value the uploader treats as success.
const UploadStatusSuccess = "success"

// UploadResponse is the JSON body returned by the backend's /upload.
type UploadResponse struct {
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

func (r UploadResponse) Success() bool {
	return r.Status == UploadStatusSuccess
}
