package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/kiranshivaraju/shopdash/internal/api/response"
	"github.com/kiranshivaraju/shopdash/internal/upload"
	"github.com/kiranshivaraju/shopdash/pkg/models"
)

const maxUploadBytes = 32 << 20

// Uploader forwards a chosen file to the shop backend.
type Uploader interface {
	Submit(ctx context.Context, filename string, r io.Reader) (models.UploadResponse, error)
	State() upload.State
}

// NewUploadHandler returns an http.HandlerFunc for POST /api/v1/upload.
// The file arrives in the multipart field "file".
func NewUploadHandler(svc Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

		var (
			filename string
			body     io.Reader
		)
		file, header, err := r.FormFile("file")
		switch {
		case err == nil:
			defer file.Close()
			filename, body = header.Filename, file
		case errors.Is(err, http.ErrMissingFile):
		default:
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				response.Error(w, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE",
					"The file exceeds the upload limit", map[string]int64{"limit_bytes": tooLarge.Limit})
				return
			}
			response.Error(w, http.StatusBadRequest, "INVALID_REQUEST",
				"Expected a multipart form with a file field", nil)
			return
		}

		resp, err := svc.Submit(r.Context(), filename, body)
		if err != nil {
			switch {
			case errors.Is(err, upload.ErrNoFile):
				response.Error(w, http.StatusBadRequest, "NO_FILE", upload.MessageNoFile, nil)
			case errors.Is(err, upload.ErrRejected):
				msg := resp.Error
				if msg == "" {
					msg = upload.MessageFailed
				}
				response.Error(w, http.StatusUnprocessableEntity, "UPLOAD_REJECTED", "Error: "+msg, nil)
			default:
				writeBackendError(w, err)
			}
			return
		}

		response.JSON(w, resp)
	}
}

// NewUploadStateHandler returns an http.HandlerFunc for GET /api/v1/upload.
func NewUploadStateHandler(svc Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		response.JSON(w, svc.State())
	}
}
