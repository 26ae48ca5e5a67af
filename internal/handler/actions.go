package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	infralogger "github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/actions"
)

// ActionsResponse lists the row actions of a record.
type ActionsResponse struct {
	Actions []actions.Action `json:"actions"`
}

// Actions handles GET /duplicate-as/v1/actions/:id.
func (h *Handler) Actions(c *gin.Context) {
	p := h.printer(c)

	id, ok := parseRecordID(c.Param("id"))
	if !ok {
		respondError(c, http.StatusBadRequest, CodeInvalidParam, "Invalid parameter(s): id")
		return
	}

	rec, err := h.records.GetRecord(c.Request.Context(), id)
	if err != nil {
		code, status := classify(err)
		if status == http.StatusInternalServerError {
			h.log(c.Request.Context()).Error("Failed to load record", infralogger.Int64("record_id", id), infralogger.Error(err))
		}
		respondError(c, status, code, userMessage(p, err))
		return
	}

	caller, _ := principal(c)
	list := h.actions.Build(rec, caller, p)
	if list == nil {
		list = []actions.Action{}
	}
	c.JSON(http.StatusOK, ActionsResponse{Actions: list})
}
