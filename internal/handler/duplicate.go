package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	infralogger "github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/validator"
)

// DuplicateRequest is the optional JSON body of the duplicate endpoint.
type DuplicateRequest struct {
	TargetPostType string `json:"target_post_type"`
}

// DuplicateResponse is returned on success.
type DuplicateResponse struct {
	Success     bool   `json:"success"`
	NewPostID   int64  `json:"new_post_id"`
	EditURL     string `json:"edit_url"`
	IsTransform bool   `json:"is_transform"`
}

// Duplicate handles POST /duplicate-as/v1/duplicate/:id.
func (h *Handler) Duplicate(c *gin.Context) {
	p := h.printer(c)

	id, ok := parseRecordID(c.Param("id"))
	if !ok {
		respondError(c, http.StatusBadRequest, CodeInvalidParam, "Invalid parameter(s): id")
		return
	}

	var body DuplicateRequest
	if err := c.ShouldBindJSON(&body); err != nil && !errors.Is(err, io.EOF) {
		respondError(c, http.StatusBadRequest, CodeInvalidParam, "Invalid parameter(s): target_post_type")
		return
	}

	caller, ctx := principal(c)
	newID, res, err := h.run(ctx, validator.Request{
		SourceID:   id,
		TargetType: sanitizeSlug(body.TargetPostType),
		Principal:  caller,
	})
	if err != nil {
		code, status := classify(err)
		if status == http.StatusInternalServerError {
			h.log(ctx).Error("Duplication failed",
				infralogger.Int64("source_id", id),
				infralogger.Error(err),
			)
		}
		respondError(c, status, code, userMessage(p, err))
		return
	}

	c.JSON(http.StatusOK, DuplicateResponse{
		Success:     true,
		NewPostID:   newID,
		EditURL:     h.editLink(newID),
		IsTransform: res.IsTransform(),
	})
}

// parseRecordID accepts positive decimal IDs.
func parseRecordID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// sanitizeSlug lowercases s and keeps only a-z, 0-9, '_' and '-'.
func sanitizeSlug(s string) string {
	s = strings.ToLower(s)
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return -1
		}
	}, s)
}
