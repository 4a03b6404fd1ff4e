// Package upload forwards shop data files to the backend and reports the
// outcome to the user.
package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/kiranshivaraju/shopdash/internal/notify"
	"github.com/kiranshivaraju/shopdash/pkg/models"
)

const Controller = "uploader"

const (
	MessageNoFile  = "Please select a file first"
	MessageSuccess = "File uploaded and processed successfully!"
	MessageFailed  = "Upload failed"
)

var (
	// ErrNoFile is returned when no file was chosen. Nothing is sent.
	ErrNoFile = errors.New("no file selected")
	// ErrRejected is returned when the backend answered without success.
	ErrRejected = errors.New("upload rejected")
)

// Backend accepts the upload.
type Backend interface {
	Upload(ctx context.Context, filename string, r io.Reader) (models.UploadResponse, error)
}

// Refresher is asked to refresh the dashboard after a successful upload.
type Refresher interface {
	RefreshAsync(trigger string) error
}

// State mirrors the form: the busy indicator and the submit control.
type State struct {
	Busy           bool `json:"busy"`
	SubmitDisabled bool `json:"submit_disabled"`
}

// Uploader submits files one request at a time per call.
type Uploader struct {
	backend   Backend
	refresher Refresher
	notifier  notify.Notifier
	inflight  atomic.Int32
}

// New creates an Uploader. refresher and notifier may be nil.
func New(backend Backend, refresher Refresher, notifier notify.Notifier) *Uploader {
	if notifier == nil {
		notifier = notify.Nop{}
	}
	return &Uploader{backend: backend, refresher: refresher, notifier: notifier}
}

// State reports whether a request is outstanding.
func (u *Uploader) State() State {
	busy := u.inflight.Load() > 0
	return State{Busy: busy, SubmitDisabled: busy}
}

// Submit sends the file. The busy indicator is set for the duration of the
// request and cleared on every return path.
func (u *Uploader) Submit(ctx context.Context, filename string, r io.Reader) (models.UploadResponse, error) {
	if filename == "" || r == nil {
		u.notify(ctx, notify.LevelError, MessageNoFile)
		return models.UploadResponse{}, ErrNoFile
	}

	u.inflight.Add(1)
	defer u.inflight.Add(-1)

	resp, err := u.backend.Upload(ctx, filename, r)
	if err != nil {
		slog.Error("upload error", "controller", Controller, "filename", filename, "error", err)
		u.notify(ctx, notify.LevelError, fmt.Sprintf("%s: %v", MessageFailed, err))
		return resp, err
	}
	if !resp.Success() {
		msg := resp.Error
		if msg == "" {
			msg = MessageFailed
		}
		slog.Warn("upload rejected", "controller", Controller, "filename", filename, "reason", msg)
		u.notify(ctx, notify.LevelError, "Error: "+msg)
		return resp, fmt.Errorf("%w: %s", ErrRejected, msg)
	}

	slog.Info("file uploaded", "controller", Controller, "filename", filename)
	u.notify(ctx, notify.LevelSuccess, MessageSuccess)
	if u.refresher != nil {
		if err := u.refresher.RefreshAsync(models.TriggerUpload); err != nil {
			slog.Debug("post-upload refresh skipped", "controller", Controller, "error", err)
		}
	}
	return resp, nil
}

func (u *Uploader) notify(ctx context.Context, level notify.Level, msg string) {
	if err := u.notifier.Notify(context.WithoutCancel(ctx), notify.New(Controller, level, msg)); err != nil {
		slog.Warn("delivering notification", "controller", Controller, "error", err)
	}
}
