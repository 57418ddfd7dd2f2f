package rest

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/dmitrijs2005/recipebox/internal/common"
	"github.com/dmitrijs2005/recipebox/internal/server/assets"
)

// handleAsset serves a stored image. Stores that can presign get a
// redirect; the rest are streamed.
func (s *Server) handleAsset(w http.ResponseWriter, r *http.Request) {
	key := r.PathValue("key")

	if p, ok := s.deps.Assets.(assets.Presigner); ok {
		url, err := p.PresignGet(r.Context(), key, s.config.PresignTTL)
		if err != nil {
			s.writeFault(w, r, err, nil)
			return
		}
		http.Redirect(w, r, url, http.StatusFound)
		return
	}

	rc, info, err := s.deps.Assets.Open(r.Context(), key)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, assets.ErrInvalidKey) {
			s.writeError(w, r, http.StatusNotFound, "Image not found", "")
			return
		}
		s.writeFault(w, r, err, nil)
		return
	}
	defer rc.Close()

	if info.ContentType != "" {
		w.Header().Set("Content-Type", info.ContentType)
	}

	if rs, ok := rc.(io.ReadSeeker); ok {
		http.ServeContent(w, r, key, time.Time{}, rs)
		return
	}

	if info.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	if _, err := io.Copy(w, rc); err != nil {
		s.logger.Warn(r.Context(), "image stream interrupted", "key", key, "error", err)
	}
}
