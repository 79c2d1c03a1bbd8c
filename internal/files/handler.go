package files

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/httplog/v3"

	"github.com/filedrop/gateway/internal/errs"
	"github.com/filedrop/gateway/internal/middleware"
	"github.com/filedrop/gateway/internal/response"
)

// multipartOverhead is the room left for boundaries and part headers on top
// of MaxFileSize when capping the upload body.
const multipartOverhead = 1 << 20

// Handler holds HTTP handlers for file endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a new files Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type uploadResponse struct {
	Key string `json:"key" example:"uploads/my_file.pdf"`
	URL string `json:"url" example:"https://bucket.s3.amazonaws.com/uploads/my_file.pdf?X-Amz-Expires=60"`
}

type linkResponse struct {
	URL string `json:"url" example:"https://bucket.s3.amazonaws.com/uploads/my_file.pdf?X-Amz-Expires=60"`
}

// Upload godoc
//
//	@Summary		Upload a file
//	@Description	Store an image or PDF (max 10 MiB) under uploads/ and return its key with a 60 second download link. Whitespace in the filename becomes "_" and other unsafe characters are dropped; an existing object with the same key is overwritten.
//	@Tags			files
//	@Accept			multipart/form-data
//	@Produce		json
//	@Security		BearerAuth
//	@Param			file	formData	file	true	"File to upload"
//	@Success		201		{object}	uploadResponse
//	@Failure		400		{object}	response.ErrorBody
//	@Failure		401		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/files/upload [post]
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	logCaller(r)
	r.Body = http.MaxBytesReader(w, r.Body, MaxFileSize+multipartOverhead)

	file, header, err := r.FormFile("file")
	if err != nil {
		if isTooLarge(err) {
			response.BadRequest(w, "file too large: the limit is "+strconv.FormatInt(MaxFileSize, 10)+" bytes")
			return
		}
		response.BadRequest(w, `no file provided under "file" field`)
		return
	}
	defer file.Close()
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll() //nolint:errcheck
	}

	payload, err := io.ReadAll(file)
	if err != nil {
		response.BadRequest(w, "could not read uploaded file")
		return
	}

	// A client hanging up must not abort a put that is already under way.
	ctx := context.WithoutCancel(r.Context())

	key, err := h.svc.Upload(ctx, UploadInput{
		Payload:     payload,
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
	}, DefaultFolder)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	httplog.SetAttrs(r.Context(), slog.String("file.key", key))

	url, err := h.svc.Link(ctx, key, DefaultLinkTTL)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, uploadResponse{Key: key, URL: url})
}

// List godoc
//
//	@Summary		List files
//	@Description	List stored objects under a prefix, newest first. Without a prefix parameter the uploads/ folder is listed; an empty prefix lists the whole bucket.
//	@Tags			files
//	@Produce		json
//	@Security		BearerAuth
//	@Param			prefix	query		string	false	"Key prefix"	default(uploads/)
//	@Success		200		{array}		StoredObject
//	@Failure		401		{object}	response.ErrorBody
//	@Failure		500		{object}	response.ErrorBody
//	@Router			/files [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	logCaller(r)
	q := r.URL.Query()
	prefix := DefaultFolder
	if q.Has("prefix") {
		prefix = q.Get("prefix")
	}

	objs, err := h.svc.List(r.Context(), prefix)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, objs)
}

// Link godoc
//
//	@Summary		Get a download link
//	@Description	Issue a presigned GET URL for a key. The key is not checked for existence.
//	@Tags			files
//	@Produce		json
//	@Security		BearerAuth
//	@Param			key			query		string	true	"Object key"
//	@Param			expiresIn	query		int		false	"Link lifetime in seconds"	default(60)
//	@Success		200			{object}	linkResponse
//	@Failure		400			{object}	response.ErrorBody
//	@Failure		401			{object}	response.ErrorBody
//	@Failure		500			{object}	response.ErrorBody
//	@Router			/files/url [get]
func (h *Handler) Link(w http.ResponseWriter, r *http.Request) {
	logCaller(r)
	q := r.URL.Query()
	key := q.Get("key")
	if strings.TrimSpace(key) == "" {
		response.BadRequest(w, `missing "key" query parameter`)
		return
	}

	expiresIn, err := ParseExpiresIn(q.Get("expiresIn"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	url, err := h.svc.Link(r.Context(), key, expiresIn)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.OK(w, linkResponse{URL: url})
}

// ParseExpiresIn reads the expiresIn query value. An empty value means
// DefaultLinkTTL; anything but a positive integer is invalid input.
func ParseExpiresIn(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultLinkTTL, nil
	}
	secs, err := strconv.Atoi(raw)
	if err != nil || secs <= 0 {
		return 0, errs.InvalidInput(`"expiresIn" must be a positive integer number of seconds`)
	}
	return secs, nil
}

// logCaller adds the authenticated caller to the request log line.
func logCaller(r *http.Request) {
	if id, ok := middleware.IdentityFrom(r.Context()); ok {
		httplog.SetAttrs(r.Context(), slog.String("user.email", id.Email))
	}
}

func isTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
