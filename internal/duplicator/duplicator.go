// Package duplicator creates the draft copy of a validated record and copies
// its terms, attributes and primary image.
package duplicator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	infralogger "github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/auth"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/blocks"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/copier"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/hooks"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/models"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/registry"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/telemetry"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/validator"
)

// Store creates records and serves the copy steps.
type Store interface {
	copier.Store
	CreateRecord(ctx context.Context, draft models.Draft) (int64, error)
}

// Duplicator runs a duplication for an accepted request.
type Duplicator struct {
	store     Store
	types     *registry.Registry
	hooks     *hooks.Hooks
	copier    *copier.Copier
	telemetry *telemetry.Provider
	logger    infralogger.Logger
}

// Config holds the Duplicator's collaborators. Hooks and Telemetry may be nil.
type Config struct {
	Store        Store
	Types        *registry.Registry
	Hooks        *hooks.Hooks
	ExcludedKeys []string
	Telemetry    *telemetry.Provider
	Logger       infralogger.Logger
}

// New returns a Duplicator.
func New(cfg Config) *Duplicator {
	log := cfg.Logger
	if log == nil {
		log = infralogger.NewNop()
	}
	return &Duplicator{
		store:     cfg.Store,
		types:     cfg.Types,
		hooks:     cfg.Hooks,
		copier:    copier.New(cfg.Store, cfg.Types, cfg.Hooks, cfg.ExcludedKeys, log),
		telemetry: cfg.Telemetry,
		logger:    log,
	}
}

// Duplicate stores a draft copy of res.Record and returns its ID. Only a
// failure to store the draft is returned, wrapped around
// models.ErrDuplicationFailed. Copy step and listener failures, panics
// included, are logged and counted.
//
// The request-scoped logger in ctx, when present, is used for all lines.
func (d *Duplicator) Duplicate(ctx context.Context, res *validator.Result, principal auth.Principal) (int64, error) {
	src := res.Record
	finalType := res.FinalType()
	kind := telemetry.Kind(res.IsTransform())
	metrics := d.telemetry.MetricsOrNil()
	start := time.Now()

	ctx, span := d.telemetry.StartSpan(ctx, "duplicator.Duplicate",
		attribute.Int64("record.source_id", src.ID),
		attribute.String("record.source_type", src.Type),
		attribute.String("record.target_type", finalType),
	)
	defer span.End()

	log := infralogger.FromContextOr(ctx, d.logger).With(
		infralogger.Int64("source_id", src.ID),
		infralogger.String("source_type", src.Type),
		infralogger.String("target_type", finalType),
	)

	body := src.Body
	if res.IsTransform() {
		merged, err := blocks.Merge(d.types.Template(finalType), body)
		if err != nil {
			// An unusable template leaves the body as it was.
			log.Warn("Template merge failed", infralogger.Error(err))
		} else {
			body = merged
		}
	}

	cc := hooks.CopyContext{FromID: src.ID, SourceType: src.Type, TargetType: finalType}

	draft := models.DraftFrom(src, finalType, body)
	draft.AuthorID = principal.Subject
	draft = d.hooks.FilterDraft(ctx, draft, src, cc)
	// Hooks may change the content but not the state of the new record.
	draft.Status = models.StatusDraft
	draft.Type = finalType

	newID, err := d.store.CreateRecord(ctx, draft)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "create record")
		metrics.ObserveDuplication(kind, telemetry.OutcomeFailed, time.Since(start))
		log.Error("Failed to create duplicate", infralogger.Error(err))
		return 0, fmt.Errorf("%w: %w", models.ErrDuplicationFailed, err)
	}
	cc.ToID = newID
	span.SetAttributes(attribute.Int64("record.new_id", newID))
	log = log.With(infralogger.Int64("new_id", newID))

	d.runStep(log, telemetry.StepClassification, func() error { return d.copier.CopyClassification(ctx, cc) })
	d.runStep(log, telemetry.StepAttributes, func() error { return d.copier.CopyAttributes(ctx, cc) })
	d.runStep(log, telemetry.StepPrimaryImage, func() error { return d.copier.CopyPrimaryImage(ctx, cc) })

	if errs := d.hooks.NotifyAfterDuplicate(ctx, newID, src.ID, cc); len(errs) > 0 {
		metrics.ObserveCopyFailure(telemetry.StepAfterDuplicate)
		log.Warn("After-duplicate listeners failed", infralogger.Error(errors.Join(errs...)))
	}

	metrics.ObserveDuplication(kind, telemetry.OutcomeSuccess, time.Since(start))
	log.Info("Record duplicated",
		infralogger.Bool("is_transform", res.IsTransform()),
		infralogger.Duration("took", time.Since(start)),
	)
	return newID, nil
}

// runStep runs one copy step. The record already exists, so a failing or
// panicking step must not stop the ones after it.
func (d *Duplicator) runStep(log infralogger.Logger, step string, fn func() error) {
	if err := hooks.Recover(step, fn); err != nil {
		d.telemetry.MetricsOrNil().ObserveCopyFailure(step)
		log.Warn("Copy step failed", infralogger.String("step", step), infralogger.Error(err))
	}
}
