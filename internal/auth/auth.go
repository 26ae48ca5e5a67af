// Package auth decides whether a caller may edit or create records, from the
// capability names carried in the caller's token.
package auth

import (
	"slices"

	infrajwt "github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/jwt"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/models"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/registry"
)

// Principal is an authenticated caller.
type Principal struct {
	Subject      string
	Capabilities []string
}

// FromClaims builds a Principal from token claims.
func FromClaims(c *infrajwt.Claims) Principal {
	return Principal{Subject: c.Sub, Capabilities: slices.Clone(c.Capabilities)}
}

// Has reports whether p holds capability.
func (p Principal) Has(capability string) bool {
	return capability != "" && slices.Contains(p.Capabilities, capability)
}

// Authorizer answers permission questions for the validator and row actions.
type Authorizer interface {
	CanEdit(p Principal, rec *models.Record) bool
	CanCreate(p Principal, contentType string) bool
}

// CapabilityAuthorizer checks the capability names declared per content type.
type CapabilityAuthorizer struct {
	types *registry.Registry
}

// NewCapabilityAuthorizer returns an authorizer over types.
func NewCapabilityAuthorizer(types *registry.Registry) *CapabilityAuthorizer {
	return &CapabilityAuthorizer{types: types}
}

// CanEdit requires the type's edit capability for the caller's own records
// and its edit_others capability for anyone else's.
func (a *CapabilityAuthorizer) CanEdit(p Principal, rec *models.Record) bool {
	ct, ok := a.types.Lookup(rec.Type)
	if !ok {
		return false
	}
	if rec.AuthorID != "" && rec.AuthorID == p.Subject {
		return p.Has(ct.Capabilities.Edit)
	}
	return p.Has(ct.Capabilities.EditOthers)
}

// CanCreate requires the type's create capability.
func (a *CapabilityAuthorizer) CanCreate(p Principal, contentType string) bool {
	ct, ok := a.types.Lookup(contentType)
	return ok && p.Has(ct.Capabilities.Create)
}
