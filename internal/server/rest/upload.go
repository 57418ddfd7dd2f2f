package rest

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/recipebox/internal/server/assets"
)

const (
	imageFormField       = "image"
	sniffLen             = 512 // bytes http.DetectContentType looks at
	multipartMemoryLimit = 8 << 20
)

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

// acceptUpload parses multipart bodies, stores at most one image found in
// the "image" field and exposes its key to next. Non-multipart requests pass
// through untouched.
func (s *Server) acceptUpload(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !isMultipart(r) {
			next.ServeHTTP(w, r)
			return
		}

		if s.config.MaxUploadSize > 0 {
			r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadSize)
		}

		if err := r.ParseMultipartForm(multipartMemoryLimit); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				uploadsTotal.WithLabelValues("too_large").Inc()
				s.writeError(w, r, http.StatusRequestEntityTooLarge, "Payload too large",
					"The uploaded file exceeds the size limit")
				return
			}
			s.writeError(w, r, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}
		defer func() { _ = r.MultipartForm.RemoveAll() }()

		file, header, err := r.FormFile(imageFormField)
		if errors.Is(err, http.ErrMissingFile) {
			next.ServeHTTP(w, r)
			return
		}
		if err != nil {
			s.writeError(w, r, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}
		defer file.Close()

		head := make([]byte, sniffLen)
		n, err := io.ReadFull(file, head)
		if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
			s.writeError(w, r, http.StatusBadRequest, "Invalid request body", err.Error())
			return
		}
		head = head[:n]

		contentType := http.DetectContentType(head)
		if !strings.HasPrefix(contentType, "image/") {
			uploadsTotal.WithLabelValues("rejected").Inc()
			s.writeError(w, r, http.StatusBadRequest, "Invalid image", "Only image files are allowed")
			return
		}

		key := assets.NewKey(filepath.Ext(header.Filename))
		body := io.MultiReader(bytes.NewReader(head), file)
		if err := s.deps.Assets.Save(r.Context(), key, body, contentType); err != nil {
			uploadsTotal.WithLabelValues("failed").Inc()
			s.logger.Error(r.Context(), "image upload failed", "key", key, "error", err)
			s.writeError(w, r, http.StatusInternalServerError, "Internal server error", "")
			return
		}

		uploadsTotal.WithLabelValues("stored").Inc()
		s.logger.Debug(r.Context(), "image stored", "key", key, "content_type", contentType)

		ctx := context.WithValue(r.Context(), contextKeyImageKey, key)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

// discardUpload retires an image stored for a request that was rejected
// before reaching the service.
func (s *Server) discardUpload(ctx context.Context) {
	if key := uploadedImageKey(ctx); key != "" && s.deps.Janitor != nil {
		s.deps.Janitor.Retire(ctx, key)
	}
}
