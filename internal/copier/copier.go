// Package copier copies the parts of a record that live outside its row:
// taxonomy terms, custom attributes and the primary image.
package copier

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"slices"

	infralogger "github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/hooks"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/models"
)

// DefaultExcludedKeys are bookkeeping attributes that never carry over.
// The primary image has its own copy step.
var DefaultExcludedKeys = []string{"_edit_last", "_edit_lock", models.PrimaryImageKey}

// Store is the storage the copier reads from and writes to.
type Store interface {
	ObjectTerms(ctx context.Context, recordID int64, taxonomy string) ([]int64, error)
	SetObjectTerms(ctx context.Context, recordID int64, taxonomy string, termIDs []int64) error
	Attributes(ctx context.Context, recordID int64) ([]models.Attribute, error)
	AddAttribute(ctx context.Context, recordID int64, key, value string) error
	PrimaryImage(ctx context.Context, recordID int64) (int64, error)
	SetPrimaryImage(ctx context.Context, recordID, imageID int64) error
}

// Taxonomies answers which taxonomies a content type has.
type Taxonomies interface {
	Taxonomies(slug string) []string
	HasTaxonomy(slug, taxonomy string) bool
}

// Copier runs the three copy steps.
type Copier struct {
	store        Store
	taxonomies   Taxonomies
	hooks        *hooks.Hooks
	excludedKeys []string
	logger       infralogger.Logger
}

// New returns a Copier. extraExcluded is added to DefaultExcludedKeys.
func New(store Store, taxonomies Taxonomies, h *hooks.Hooks, extraExcluded []string, log infralogger.Logger) *Copier {
	excluded := slices.Concat(DefaultExcludedKeys, extraExcluded)
	return &Copier{
		store:        store,
		taxonomies:   taxonomies,
		hooks:        h,
		excludedKeys: excluded,
		logger:       log,
	}
}

// CopyClassification copies the terms of every taxonomy shared by the source
// and target types. Taxonomies whose terms cannot be read, or that have no
// terms, are skipped. Existing terms on the new record are replaced.
func (c *Copier) CopyClassification(ctx context.Context, cc hooks.CopyContext) error {
	shared := intersect(c.taxonomies.Taxonomies(cc.SourceType), c.taxonomies.Taxonomies(cc.TargetType))
	shared = c.hooks.FilterTaxonomies(ctx, shared, cc)

	var errs []error
	for _, taxonomy := range shared {
		if !c.taxonomies.HasTaxonomy(cc.TargetType, taxonomy) {
			continue
		}

		termIDs, err := c.store.ObjectTerms(ctx, cc.FromID, taxonomy)
		if err != nil {
			infralogger.FromContextOr(ctx, c.logger).Debug("Skipping taxonomy, terms unreadable",
				infralogger.String("taxonomy", taxonomy),
				infralogger.Int64("record_id", cc.FromID),
				infralogger.Error(err),
			)
			continue
		}
		if len(termIDs) == 0 {
			continue
		}

		termIDs = c.hooks.FilterTerms(ctx, termIDs, taxonomy, cc)
		if len(termIDs) == 0 {
			continue
		}

		if err := c.store.SetObjectTerms(ctx, cc.ToID, taxonomy, termIDs); err != nil {
			errs = append(errs, fmt.Errorf("set %s terms: %w", taxonomy, err))
		}
	}
	return errors.Join(errs...)
}

// CopyAttributes appends every non-excluded attribute value of the source
// to the new record. Multi-valued keys keep all values in stored order.
// Values are written unchanged unless an attribute value filter alters them.
func (c *Copier) CopyAttributes(ctx context.Context, cc hooks.CopyContext) error {
	attrs, err := c.store.Attributes(ctx, cc.FromID)
	if err != nil {
		return fmt.Errorf("read attributes: %w", err)
	}
	if len(attrs) == 0 {
		return nil
	}

	excluded := c.hooks.FilterExcludedKeys(ctx, slices.Clone(c.excludedKeys), cc)

	var errs []error
	for _, attr := range attrs {
		if slices.Contains(excluded, attr.Key) {
			continue
		}

		encoded, err := c.attributeValue(ctx, attr, cc)
		if err != nil {
			errs = append(errs, fmt.Errorf("attribute %s: %w", attr.Key, err))
			continue
		}

		if err := c.store.AddAttribute(ctx, cc.ToID, attr.Key, encoded); err != nil {
			errs = append(errs, fmt.Errorf("add attribute %s: %w", attr.Key, err))
		}
	}
	return errors.Join(errs...)
}

// attributeValue returns the value to store for attr on the new record. The
// stored text is kept byte for byte unless a filter changes the value.
func (c *Copier) attributeValue(ctx context.Context, attr models.Attribute, cc hooks.CopyContext) (string, error) {
	if !c.hooks.HasAttributeValueFilters() {
		return attr.Value, nil
	}

	filtered := c.hooks.FilterAttributeValue(ctx, models.DecodeAttributeValue(attr.Value), attr.Key, cc)
	// Filters may modify the decoded value in place; compare with a fresh decode.
	if reflect.DeepEqual(filtered, models.DecodeAttributeValue(attr.Value)) {
		return attr.Value, nil
	}
	return models.EncodeAttributeValue(filtered)
}

// CopyPrimaryImage sets the source's primary image on the new record unless
// the image filter returns 0.
func (c *Copier) CopyPrimaryImage(ctx context.Context, cc hooks.CopyContext) error {
	imageID, err := c.store.PrimaryImage(ctx, cc.FromID)
	if err != nil {
		return fmt.Errorf("read primary image: %w", err)
	}

	imageID = c.hooks.FilterPrimaryImage(ctx, imageID, cc)
	if imageID == 0 {
		return nil
	}

	if err := c.store.SetPrimaryImage(ctx, cc.ToID, imageID); err != nil {
		return fmt.Errorf("set primary image: %w", err)
	}
	return nil
}

func intersect(source, target []string) []string {
	out := make([]string, 0, len(source))
	for _, t := range source {
		if slices.Contains(target, t) && !slices.Contains(out, t) {
			out = append(out, t)
		}
	}
	return out
}
