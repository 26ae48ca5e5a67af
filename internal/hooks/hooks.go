// Package hooks holds the extension points run during a duplication. Each
// point is an ordered list of callbacks; every callback receives the output
// of the previous one. Hooks are registered before the server starts and
// only read afterwards, so a Hooks value needs no locking. A nil *Hooks runs
// nothing and returns inputs unchanged.
package hooks

import (
	"context"

	"github.com/jonesrussell/north-cloud/duplicate-as/internal/models"
)

// CopyContext identifies the duplication a hook is running for.
type CopyContext struct {
	FromID     int64
	ToID       int64
	SourceType string
	TargetType string
}

// IsTransform reports whether the copy changes the content type.
func (c CopyContext) IsTransform() bool {
	return c.SourceType != c.TargetType
}

type (
	// DraftFilter adjusts the draft before it is stored. ToID is zero. Any
	// field may change except Status and Type: the stored record is always a
	// draft of the validated target type.
	DraftFilter func(ctx context.Context, draft models.Draft, src *models.Record, cc CopyContext) models.Draft

	// TaxonomyFilter narrows or extends the taxonomies to copy.
	TaxonomyFilter func(ctx context.Context, taxonomies []string, cc CopyContext) []string

	// TermFilter adjusts the term IDs copied for one taxonomy.
	TermFilter func(ctx context.Context, termIDs []int64, taxonomy string, cc CopyContext) []int64

	// ExcludedKeysFilter adjusts the attribute keys that are never copied.
	ExcludedKeysFilter func(ctx context.Context, keys []string, cc CopyContext) []string

	// AttributeValueFilter transforms one decoded attribute value.
	AttributeValueFilter func(ctx context.Context, value any, key string, cc CopyContext) any

	// ImageFilter overrides the primary image reference; 0 suppresses it.
	ImageFilter func(ctx context.Context, imageID int64, cc CopyContext) int64

	// AfterDuplicate is notified once a duplication has completed.
	AfterDuplicate func(ctx context.Context, newID, sourceID int64, cc CopyContext) error
)

// Hooks is the set of registered callbacks.
type Hooks struct {
	draft          []DraftFilter
	taxonomies     []TaxonomyFilter
	terms          []TermFilter
	excludedKeys   []ExcludedKeysFilter
	attributeValue []AttributeValueFilter
	image          []ImageFilter
	after          []AfterDuplicate
}

// New returns an empty Hooks.
func New() *Hooks {
	return &Hooks{}
}

// OnDraft registers a draft filter.
func (h *Hooks) OnDraft(f DraftFilter) *Hooks {
	h.draft = append(h.draft, f)
	return h
}

// OnTaxonomies registers a taxonomy filter.
func (h *Hooks) OnTaxonomies(f TaxonomyFilter) *Hooks {
	h.taxonomies = append(h.taxonomies, f)
	return h
}

// OnTerms registers a per-taxonomy term filter.
func (h *Hooks) OnTerms(f TermFilter) *Hooks {
	h.terms = append(h.terms, f)
	return h
}

// OnExcludedKeys registers an excluded attribute keys filter.
func (h *Hooks) OnExcludedKeys(f ExcludedKeysFilter) *Hooks {
	h.excludedKeys = append(h.excludedKeys, f)
	return h
}

// OnAttributeValue registers an attribute value filter.
func (h *Hooks) OnAttributeValue(f AttributeValueFilter) *Hooks {
	h.attributeValue = append(h.attributeValue, f)
	return h
}

// OnPrimaryImage registers a primary image filter.
func (h *Hooks) OnPrimaryImage(f ImageFilter) *Hooks {
	h.image = append(h.image, f)
	return h
}

// OnAfterDuplicate registers a listener notified after each duplication.
func (h *Hooks) OnAfterDuplicate(f AfterDuplicate) *Hooks {
	h.after = append(h.after, f)
	return h
}

// FilterDraft runs the draft filters in registration order.
func (h *Hooks) FilterDraft(ctx context.Context, draft models.Draft, src *models.Record, cc CopyContext) models.Draft {
	if h == nil {
		return draft
	}
	for _, f := range h.draft {
		draft = f(ctx, draft, src, cc)
	}
	return draft
}

// FilterTaxonomies runs the taxonomy filters in registration order.
func (h *Hooks) FilterTaxonomies(ctx context.Context, taxonomies []string, cc CopyContext) []string {
	if h == nil {
		return taxonomies
	}
	for _, f := range h.taxonomies {
		taxonomies = f(ctx, taxonomies, cc)
	}
	return taxonomies
}

// FilterTerms runs the term filters for taxonomy in registration order.
func (h *Hooks) FilterTerms(ctx context.Context, termIDs []int64, taxonomy string, cc CopyContext) []int64 {
	if h == nil {
		return termIDs
	}
	for _, f := range h.terms {
		termIDs = f(ctx, termIDs, taxonomy, cc)
	}
	return termIDs
}

// FilterExcludedKeys runs the excluded keys filters in registration order.
func (h *Hooks) FilterExcludedKeys(ctx context.Context, keys []string, cc CopyContext) []string {
	if h == nil {
		return keys
	}
	for _, f := range h.excludedKeys {
		keys = f(ctx, keys, cc)
	}
	return keys
}

// HasAttributeValueFilters reports whether any attribute value filter is registered.
func (h *Hooks) HasAttributeValueFilters() bool {
	return h != nil && len(h.attributeValue) > 0
}

// FilterAttributeValue runs the attribute value filters for key in registration order.
func (h *Hooks) FilterAttributeValue(ctx context.Context, value any, key string, cc CopyContext) any {
	if h == nil {
		return value
	}
	for _, f := range h.attributeValue {
		value = f(ctx, value, key, cc)
	}
	return value
}

// FilterPrimaryImage runs the image filters in registration order.
func (h *Hooks) FilterPrimaryImage(ctx context.Context, imageID int64, cc CopyContext) int64 {
	if h == nil {
		return imageID
	}
	for _, f := range h.image {
		imageID = f(ctx, imageID, cc)
	}
	return imageID
}

// NotifyAfterDuplicate calls every listener, even when earlier ones fail or
// panic, and returns the errors it collected.
func (h *Hooks) NotifyAfterDuplicate(ctx context.Context, newID, sourceID int64, cc CopyContext) []error {
	if h == nil {
		return nil
	}
	var errs []error
	for _, f := range h.after {
		if err := callListener(ctx, f, newID, sourceID, cc); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}

func callListener(ctx context.Context, f AfterDuplicate, newID, sourceID int64, cc CopyContext) error {
	return Recover("after_duplicate", func() error {
		return f(ctx, newID, sourceID, cc)
	})
}
