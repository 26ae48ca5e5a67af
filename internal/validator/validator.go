// Package validator decides whether a duplication request may proceed.
//
// A request moves through a fixed sequence of checks:
//
//	Unvalidated -> SourceChecked -> SupportChecked -> PermissionChecked -> TargetChecked -> Valid
//
// The first failing check stops the sequence with a *Rejection. The
// TargetChecked step only runs when a different content type is requested.
package validator

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/jonesrussell/north-cloud/duplicate-as/internal/auth"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/i18n"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/models"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/registry"
)

// State is a step of the validation sequence.
type State int

const (
	Unvalidated State = iota
	SourceChecked
	SupportChecked
	PermissionChecked
	TargetChecked
	Valid
)

func (s State) String() string {
	switch s {
	case Unvalidated:
		return "unvalidated"
	case SourceChecked:
		return "source_checked"
	case SupportChecked:
		return "support_checked"
	case PermissionChecked:
		return "permission_checked"
	case TargetChecked:
		return "target_checked"
	case Valid:
		return "valid"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Rejection is a failed check. Kind is one of the models sentinel errors;
// Message is an i18n key for the caller-facing text.
type Rejection struct {
	// Failed is the state whose check did not pass.
	Failed  State
	Kind    error
	Message string
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("%s: %v", r.Failed, r.Kind)
}

func (r *Rejection) Unwrap() error {
	return r.Kind
}

// AsRejection extracts a *Rejection from err.
func AsRejection(err error) (*Rejection, bool) {
	var r *Rejection
	ok := errors.As(err, &r)
	return r, ok
}

// Request is a duplication request. An empty TargetType, or the source's own
// type, asks for a plain duplicate.
type Request struct {
	SourceID   int64
	TargetType string
	Principal  auth.Principal
}

// Result is an accepted request.
type Result struct {
	Record *models.Record
	// TargetType is empty for a plain duplicate.
	TargetType string
}

// IsTransform reports whether the duplicate changes content type.
func (r *Result) IsTransform() bool {
	return r.TargetType != ""
}

// FinalType is the content type of the record that will be created.
func (r *Result) FinalType() string {
	if r.TargetType != "" {
		return r.TargetType
	}
	return r.Record.Type
}

// RecordGetter loads records.
type RecordGetter interface {
	GetRecord(ctx context.Context, id int64) (*models.Record, error)
}

// Validator runs the checks.
type Validator struct {
	records RecordGetter
	types   *registry.Registry
	authz   auth.Authorizer
}

// New returns a Validator.
func New(records RecordGetter, types *registry.Registry, authz auth.Authorizer) *Validator {
	return &Validator{records: records, types: types, authz: authz}
}

// Validate returns a Result, a *Rejection, or a storage error.
func (v *Validator) Validate(ctx context.Context, req Request) (*Result, error) {
	state := Unvalidated
	reject := func(kind error, msg string) (*Result, error) {
		return nil, &Rejection{Failed: state + 1, Kind: kind, Message: msg}
	}

	rec, err := v.records.GetRecord(ctx, req.SourceID)
	switch {
	case errors.Is(err, models.ErrNotFound):
		return reject(models.ErrNotFound, i18n.MsgNotFound)
	case err != nil:
		return nil, fmt.Errorf("load record %d: %w", req.SourceID, err)
	}
	state = SourceChecked

	if !v.types.IsDuplicationSupported(rec.Type) {
		return reject(models.ErrTypeNotSupported, i18n.MsgTypeNotSupported)
	}
	state = SupportChecked

	target := req.TargetType
	if target == rec.Type {
		target = ""
	}

	if !v.authz.CanEdit(req.Principal, rec) {
		return reject(models.ErrForbidden, i18n.MsgCannotDuplicate)
	}
	if target == "" && !v.authz.CanCreate(req.Principal, rec.Type) {
		return reject(models.ErrForbidden, i18n.MsgCannotDuplicate)
	}
	state = PermissionChecked

	if target != "" {
		if !v.types.Exists(target) {
			return reject(models.ErrTargetNotAllowed, i18n.MsgTargetMissing)
		}
		if !v.authz.CanCreate(req.Principal, target) {
			return reject(models.ErrForbidden, i18n.MsgCannotCreateTarget)
		}
		if !slices.Contains(v.types.TransformTargets(rec.Type), target) {
			return reject(models.ErrTargetNotAllowed, i18n.MsgTransformForbidden)
		}
	}

	return &Result{Record: rec, TargetType: target}, nil
}
