package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/twels/front/internal/ocr"
	"github.com/twels/front/internal/store"
)

const uploadField = "uploadImage"

// uploadImageHandler receives the camera/file form, asks the OCR service for
// the formula and renders the page with the recognized LaTeX in the input.
func (s *stateStore) uploadImageHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Upload.MaxBytes)
	if err := r.ParseMultipartForm(s.cfg.Upload.MaxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.renderUploadNotice(w, r, http.StatusRequestEntityTooLarge, "The image is too large.")
			return
		}
		s.renderUploadNotice(w, r, http.StatusBadRequest, "The upload could not be read.")
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile(uploadField)
	if err != nil {
		// No file chosen: show the empty page like a plain visit.
		s.renderUploadNotice(w, r, http.StatusOK, "")
		return
	}
	defer file.Close()

	if !s.allow.Allowed(header.Filename) {
		s.renderUploadNotice(w, r, http.StatusUnsupportedMediaType, "Only image files can be uploaded.")
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.renderUploadNotice(w, r, http.StatusBadRequest, "The upload could not be read.")
		return
	}

	latex, ok, err := s.ocr.Recognize(ctx, data, header.Header.Get("Content-Type"))
	if err != nil {
		slog.Error("recognize uploaded image", "filename", header.Filename, "error", err)
		notice := "The formula could not be recognized right now."
		if errors.Is(err, ocr.ErrNotConfigured) {
			notice = "Image search is not available on this server."
		}
		s.renderUploadNotice(w, r, http.StatusBadGateway, notice)
		return
	}

	if s.db != nil {
		if _, err := s.db.RecordUpload(ctx, store.UploadRecord{
			Filename:   header.Filename,
			SizeBytes:  int64(len(data)),
			Recognized: ok,
			Latex:      latex,
		}); err != nil {
			slog.Error("record upload", "error", err)
		}
	}

	p, _, err := s.buildPage(ctx, "")
	if err != nil {
		http.Error(w, "render page failed", http.StatusInternalServerError)
		return
	}
	view := s.newIndexView(p)
	if ok {
		latex = strings.TrimSpace(latex)
		if err := p.SetInput(ctx, latex); err != nil {
			slog.Warn("render recognized formula", "error", err)
		}
		view = s.newIndexView(p)
		view.OCR = latex
	} else {
		view.OCR = " "
		view.Notice = "No formula was found in the image."
	}
	slog.Info("image upload", "filename", header.Filename, "bytes", len(data), "recognized", ok)
	s.renderIndex(w, http.StatusOK, view)
}

func (s *stateStore) renderUploadNotice(w http.ResponseWriter, r *http.Request, status int, notice string) {
	p, _, err := s.buildPage(r.Context(), "")
	if err != nil {
		http.Error(w, "render page failed", http.StatusInternalServerError)
		return
	}
	view := s.newIndexView(p)
	view.Notice = notice
	s.renderIndex(w, status, view)
}

