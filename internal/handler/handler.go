// Package handler implements the duplicate-as HTTP endpoints: the JSON API
// used by the editor and the signed admin links used by list views.
package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/text/message"

	"github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/actiontoken"
	infrajwt "github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/jwt"
	infralogger "github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/actions"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/auth"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/i18n"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/telemetry"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/validator"
)

// Validator checks duplication requests.
type Validator interface {
	Validate(ctx context.Context, req validator.Request) (*validator.Result, error)
}

// Duplicator performs accepted requests.
type Duplicator interface {
	Duplicate(ctx context.Context, res *validator.Result, principal auth.Principal) (int64, error)
}

// Config holds the handler's collaborators.
type Config struct {
	Validator  Validator
	Duplicator Duplicator
	Records    validator.RecordGetter
	Actions    *actions.Builder
	Signer     *actiontoken.Signer
	Translator *i18n.Translator
	// EditLink returns the editor URL of a record.
	EditLink func(recordID int64) string
	Metrics  *telemetry.Metrics
	Logger   infralogger.Logger
}

// Handler serves duplication requests.
type Handler struct {
	validator  Validator
	duplicator Duplicator
	records    validator.RecordGetter
	actions    *actions.Builder
	signer     *actiontoken.Signer
	translator *i18n.Translator
	editLink   func(int64) string
	metrics    *telemetry.Metrics
	logger     infralogger.Logger
	now        func() time.Time
}

// New creates a Handler.
func New(cfg Config) *Handler {
	log := cfg.Logger
	if log == nil {
		log = infralogger.NewNop()
	}
	return &Handler{
		validator:  cfg.Validator,
		duplicator: cfg.Duplicator,
		records:    cfg.Records,
		actions:    cfg.Actions,
		signer:     cfg.Signer,
		translator: cfg.Translator,
		editLink:   cfg.EditLink,
		metrics:    cfg.Metrics,
		logger:     log,
		now:        time.Now,
	}
}

// principal returns the caller stored by the JWT middleware and a request
// context carrying it.
func principal(c *gin.Context) (auth.Principal, context.Context) {
	var p auth.Principal
	if claims, ok := infrajwt.GetClaims(c); ok {
		p = auth.FromClaims(claims)
	}
	return p, auth.WithPrincipal(c.Request.Context(), p)
}

// log returns the request-scoped logger, falling back to the handler's own.
func (h *Handler) log(ctx context.Context) infralogger.Logger {
	return infralogger.FromContextOr(ctx, h.logger)
}

func (h *Handler) printer(c *gin.Context) *message.Printer {
	return h.translator.Printer(h.translator.Match(c.GetHeader("Accept-Language")))
}

// run validates req and duplicates on success.
func (h *Handler) run(ctx context.Context, req validator.Request) (int64, *validator.Result, error) {
	res, err := h.validator.Validate(ctx, req)
	if err != nil {
		if rej, ok := validator.AsRejection(err); ok {
			h.metrics.ObserveRejection(errorCode(rej.Kind))
		}
		return 0, nil, err
	}

	newID, err := h.duplicator.Duplicate(ctx, res, req.Principal)
	if err != nil {
		return 0, res, err
	}
	return newID, res, nil
}
