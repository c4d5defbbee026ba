package api

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/smearlab/pixelsort/pkg/buildinfo"
	"github.com/smearlab/pixelsort/pkg/cache"
	"github.com/smearlab/pixelsort/pkg/errors"
	"github.com/smearlab/pixelsort/pkg/imageio"
	"github.com/smearlab/pixelsort/pkg/observability"
	"github.com/smearlab/pixelsort/pkg/pipeline"
	"github.com/smearlab/pixelsort/pkg/preset"
	"github.com/smearlab/pixelsort/pkg/raster"
)

// sortRequest is the JSON body of POST /v1/sort. Multipart requests carry
// the same fields as form values, with the image as an "image" file part
// instead of a URL.
type sortRequest struct {
	URL     string          `json:"url"`
	Preset  string          `json:"preset"`
	Format  string          `json:"format"`
	Quality int             `json:"quality"`
	Options json.RawMessage `json:"options"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.presets)
}

func (s *Server) handleSort(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)

	req, img, err := s.parseSortRequest(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	opts := pipeline.NewOptions()
	if req.Preset != "" {
		p, err := preset.Find(s.presets, req.Preset)
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		p.Apply(&opts)
	}
	if len(req.Options) > 0 {
		if err := json.Unmarshal(req.Options, &opts); err != nil {
			s.writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed options"))
			return
		}
	}
	opts.Logger = s.logger

	result, err := s.runner.Execute(r.Context(), img, opts)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	format := strings.ToLower(req.Format)
	if format == "" {
		format = "png"
	}

	payload, err := s.encodeResult(r.Context(), result.Image, format, req.Quality)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cacheState := "miss"
	if result.CacheInfo.ResultHit {
		cacheState = "hit"
	}
	w.Header().Set("Content-Type", mimeType(format))
	w.Header().Set("X-Pixelsort-Spans", strconv.Itoa(result.Stats.SpanCount))
	w.Header().Set("X-Pixelsort-Selected", strconv.Itoa(result.Stats.SelectedPixels))
	w.Header().Set("X-Pixelsort-Cache", cacheState)
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

// encodeResult encodes img in the requested format, going through the
// artifact cache when one is configured. Encoding happens before any
// response bytes are written so a bad format still yields a clean error
// status.
func (s *Server) encodeResult(ctx context.Context, img *raster.Image, format string, quality int) ([]byte, error) {
	key := ""
	if s.artifacts != nil {
		if data, err := img.MarshalBinary(); err == nil {
			key = s.keyer.ArtifactKey(cache.Hash(data), cache.ArtifactKeyOpts{
				Format:  format,
				Quality: quality,
			})
			if cached, hit, err := s.artifacts.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				return cached, nil
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
	}

	var buf bytes.Buffer
	if err := imageio.Encode(&buf, img, format, imageio.SaveOptions{Quality: quality}); err != nil {
		return nil, err
	}
	if key != "" {
		if err := s.artifacts.Set(ctx, key, buf.Bytes(), cache.TTLArtifact); err == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", buf.Len())
		}
	}
	return buf.Bytes(), nil
}

// parseSortRequest extracts the request fields and source image from either
// a multipart upload or a JSON body.
func (s *Server) parseSortRequest(r *http.Request) (sortRequest, *raster.Image, error) {
	var req sortRequest

	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		if err := r.ParseMultipartForm(s.maxUpload); err != nil {
			return req, nil, wrapBodyError(err)
		}
		req.Preset = r.FormValue("preset")
		req.Format = r.FormValue("format")
		if q := r.FormValue("quality"); q != "" {
			n, err := strconv.Atoi(q)
			if err != nil {
				return req, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed quality %q", q)
			}
			req.Quality = n
		}
		if o := r.FormValue("options"); o != "" {
			req.Options = json.RawMessage(o)
		}

		file, _, err := r.FormFile("image")
		if err != nil {
			return req, nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "an image file part is required")
		}
		defer file.Close()

		img, err := imageio.Decode(file)
		if err != nil {
			return req, nil, err
		}
		return req, img, nil
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		return req, nil, wrapBodyError(err)
	}
	if req.URL == "" {
		return req, nil, errors.New(errors.ErrCodeInvalidInput, "url is required")
	}
	img, err := s.loader.Load(r.Context(), req.URL)
	if err != nil {
		return req, nil, err
	}
	return req, img, nil
}

// wrapBodyError maps body read failures, keeping the over-limit case
// distinguishable for its 413 status.
func wrapBodyError(err error) error {
	var maxErr *http.MaxBytesError
	if stderrors.As(err, &maxErr) {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "request body exceeds %d bytes", maxErr.Limit)
	}
	return errors.Wrap(errors.ErrCodeInvalidInput, err, "malformed request body")
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusForError(err)
	if status >= 500 {
		s.logger.Error("request failed", "error", err, "request_id", requestIDFromContext(r.Context()))
	}
	writeJSON(w, status, errorResponse{
		Error:     errors.UserMessage(err),
		Code:      string(errors.GetCode(err)),
		RequestID: requestIDFromContext(r.Context()),
	})
}

func statusForError(err error) int {
	var maxErr *http.MaxBytesError
	if stderrors.As(err, &maxErr) {
		return http.StatusRequestEntityTooLarge
	}

	code := errors.GetCode(err)
	switch {
	case code == errors.ErrCodeDecode, code == errors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case code == errors.ErrCodeNetwork:
		return http.StatusBadGateway
	case strings.HasPrefix(string(code), "INVALID_"):
		return http.StatusBadRequest
	case strings.HasSuffix(string(code), "NOT_FOUND"):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func mimeType(format string) string {
	f := strings.ToLower(format)
	switch f {
	case "jpg":
		f = "jpeg"
	case "tif":
		f = "tiff"
	}
	return "image/" + f
}
