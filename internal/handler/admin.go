package handler

import (
	"context"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"
	"golang.org/x/text/message"

	infralogger "github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/actions"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/i18n"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/validator"
)

var errorPage = template.Must(template.New("error").Parse(`<!DOCTYPE html>
<html lang="{{.Lang}}">
<head><meta charset="utf-8"><title>{{.Title}}</title></head>
<body>
<h1>{{.Title}}</h1>
<p>{{.Message}}</p>
<p><a href="javascript:history.back()">{{.Back}}</a></p>
</body>
</html>
`))

type errorPageData struct {
	Lang    string
	Title   string
	Message string
	Back    string
}

// AdminDuplicate handles GET /admin/duplicate?post=ID&_token=T.
func (h *Handler) AdminDuplicate(c *gin.Context) {
	p := h.printer(c)

	id, ok := parseRecordID(c.Query("post"))
	if !ok {
		h.renderError(c, p, http.StatusBadRequest, p.Sprintf(i18n.MsgNoRecord))
		return
	}

	caller, ctx := principal(c)
	if err := h.signer.Verify(c.Query("_token"), actions.DuplicateScope(id), caller.Subject, h.now()); err != nil {
		h.log(ctx).Warn("Rejected admin duplicate link", infralogger.Int64("record_id", id), infralogger.Error(err))
		h.renderError(c, p, http.StatusForbidden, p.Sprintf(i18n.MsgSecurityCheck))
		return
	}

	h.adminRun(ctx, c, p, validator.Request{SourceID: id, Principal: caller})
}

// AdminTransform handles GET /admin/transform?post=ID&target_type=SLUG&_token=T.
func (h *Handler) AdminTransform(c *gin.Context) {
	p := h.printer(c)

	id, ok := parseRecordID(c.Query("post"))
	target := sanitizeSlug(c.Query("target_type"))
	if !ok || target == "" {
		h.renderError(c, p, http.StatusBadRequest, p.Sprintf(i18n.MsgMissingParams))
		return
	}

	caller, ctx := principal(c)
	scope := actions.TransformScope(id, target)
	if err := h.signer.Verify(c.Query("_token"), scope, caller.Subject, h.now()); err != nil {
		h.log(ctx).Warn("Rejected admin transform link",
			infralogger.Int64("record_id", id),
			infralogger.String("target_type", target),
			infralogger.Error(err),
		)
		h.renderError(c, p, http.StatusForbidden, p.Sprintf(i18n.MsgSecurityCheck))
		return
	}

	h.adminRun(ctx, c, p, validator.Request{SourceID: id, TargetType: target, Principal: caller})
}

// adminRun duplicates and redirects to the editor, or renders the error page.
func (h *Handler) adminRun(ctx context.Context, c *gin.Context, p *message.Printer, req validator.Request) {
	newID, _, err := h.run(ctx, req)
	if err != nil {
		_, status := classify(err)
		if status == http.StatusInternalServerError {
			h.log(ctx).Error("Duplication failed",
				infralogger.Int64("source_id", req.SourceID),
				infralogger.String("target_type", req.TargetType),
				infralogger.Error(err),
			)
		}
		h.renderError(c, p, status, userMessage(p, err))
		return
	}

	c.Redirect(http.StatusFound, h.editLink(newID))
}

// renderError writes the blocking HTML error page with the translated msg.
func (h *Handler) renderError(c *gin.Context, p *message.Printer, status int, msg string) {
	c.Render(status, render.HTML{
		Template: errorPage,
		Name:     "error",
		Data: errorPageData{
			Lang:    h.translator.Match(c.GetHeader("Accept-Language")).String(),
			Title:   p.Sprintf(i18n.MsgErrorTitle),
			Message: msg,
			Back:    p.Sprintf(i18n.MsgBackToList),
		},
	})
	c.Abort()
}
