package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"careerfolio/internal/auth"
	"careerfolio/internal/records"
	"careerfolio/internal/validation"
)

type fileRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

// uploadKey holds the *validation.File read by ReadUpload.
const uploadKey = "upload"

// multipartOverhead is the room left above a kind's ceiling for multipart
// framing and other form fields.
const multipartOverhead = 1 << 20

// ReadUpload reads the chosen file's metadata from a multipart "file" field
// or a JSON description. It runs ahead of Serialize so a slow body never
// holds the workspace lock, and it caps the body just above the kind's
// ceiling. File contents are never stored.
func (h *Handler) ReadUpload(c *gin.Context) {
	kind, err := records.ParseKind(c.Param("kind"))
	if err != nil {
		fail(c, err)
		c.Abort()
		return
	}
	rule, _ := validation.RuleFor(kind)
	limit := rule.MaxBytes + multipartOverhead
	if c.Request.ContentLength > limit {
		h.tooLarge(c, kind)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)

	file, err := chosenFile(c)
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &mbe):
		h.tooLarge(c, kind)
		return
	case err != nil:
		badRequest(c, err.Error())
		c.Abort()
		return
	}
	c.Set(uploadKey, file)
	c.Next()
}

// tooLarge rejects an oversized body with the same 413 ValidateUpload gives.
func (h *Handler) tooLarge(c *gin.Context, kind records.Kind) {
	fail(c, validation.TooLarge(kind))
	c.Abort()
}

// SubmitArtifact replaces the kind's artifact with the file ReadUpload found.
func (h *Handler) SubmitArtifact(c *gin.Context) {
	kind, err := records.ParseKind(c.Param("kind"))
	if err != nil {
		fail(c, err)
		return
	}
	file, _ := c.MustGet(uploadKey).(*validation.File)
	art, err := h.artifacts.Submit(c.Request.Context(), kind, file)
	if err != nil {
		fail(c, err)
		return
	}
	v, err := h.render(c)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"artifact": art, "view": v})
}

// CancelArtifact withdraws a pending artifact. Anything else is left as is.
func (h *Handler) CancelArtifact(c *gin.Context) {
	kind, err := records.ParseKind(c.Param("kind"))
	if err != nil {
		fail(c, err)
		return
	}
	changed, err := h.artifacts.Cancel(c.Request.Context(), kind)
	if err != nil {
		fail(c, err)
		return
	}
	v, err := h.render(c)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"changed": changed, "view": v})
}

const (
	defaultEventLimit = 50
	maxEventLimit     = 500
)

// Events lists the signed-in account's recorded artifact events.
func (h *Handler) Events(c *gin.Context) {
	if h.history == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "event history not configured"})
		return
	}
	limit := defaultEventLimit
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 {
			limit = min(parsed, maxEventLimit)
		}
	}
	events, err := h.history.ListByEmail(c.Request.Context(), c.GetString(auth.EmailKey), limit)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events})
}

// chosenFile reads the file metadata from the request. A nil file means
// nothing was chosen.
func chosenFile(c *gin.Context) (*validation.File, error) {
	if c.ContentType() == "multipart/form-data" {
		header, err := c.FormFile("file")
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, err
		}
		if err != nil {
			return nil, errors.New("invalid multipart body")
		}
		return &validation.File{
			Name: header.Filename,
			Type: header.Header.Get("Content-Type"),
			Size: header.Size,
		}, nil
	}

	if c.Request.ContentLength == 0 {
		return nil, nil
	}
	var req fileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return nil, err
		}
		return nil, errors.New("invalid file body")
	}
	if req.Name == "" {
		return nil, nil
	}
	if req.Size < 0 {
		return nil, errors.New("file size must not be negative")
	}
	return &validation.File{Name: req.Name, Type: req.Type, Size: req.Size}, nil
}
