// Package registry holds the content types known to the service and what
// each of them may be duplicated into. A Registry is built once at startup
// and is safe for concurrent reads.
package registry

import (
	"errors"
	"fmt"
	"slices"

	"github.com/jonesrussell/north-cloud/duplicate-as/internal/models"
)

var (
	ErrEmptySlug     = errors.New("content type slug is empty")
	ErrDuplicateSlug = errors.New("content type registered twice")
)

// Capabilities names the permissions guarding a content type.
type Capabilities struct {
	Edit       string `yaml:"edit"`
	EditOthers string `yaml:"edit_others"`
	Create     string `yaml:"create"`
}

// Declaration describes a content type as configured.
type Declaration struct {
	Slug         string                `yaml:"slug"`
	Label        string                `yaml:"label"`
	DuplicateAs  Support               `yaml:"duplicate_as"`
	Taxonomies   []string              `yaml:"taxonomies"`
	Template     []models.TemplateNode `yaml:"template"`
	Capabilities Capabilities          `yaml:"capabilities"`
}

// ContentType is a registered, resolved declaration.
type ContentType struct {
	Slug         string
	Label        string
	Supported    bool
	Targets      []string
	Taxonomies   []string
	Template     []models.TemplateNode
	Capabilities Capabilities
}

// Registry maps slugs to content types.
type Registry struct {
	order []string
	types map[string]*ContentType
}

// New registers decls in order. Transform targets naming an unregistered
// slug are dropped; the declaring type stays supported.
func New(decls []Declaration) (*Registry, error) {
	r := &Registry{types: make(map[string]*ContentType, len(decls))}

	for _, d := range decls {
		if d.Slug == "" {
			return nil, ErrEmptySlug
		}
		if _, ok := r.types[d.Slug]; ok {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateSlug, d.Slug)
		}
		r.order = append(r.order, d.Slug)
		r.types[d.Slug] = &ContentType{
			Slug:         d.Slug,
			Label:        labelOrSlug(d),
			Supported:    d.DuplicateAs.Enabled,
			Targets:      slices.Clone(d.DuplicateAs.Targets),
			Taxonomies:   slices.Clone(d.Taxonomies),
			Template:     d.Template,
			Capabilities: capabilitiesWithDefaults(d.Slug, d.Capabilities),
		}
	}

	for _, ct := range r.types {
		if !ct.Supported {
			ct.Targets = nil
			continue
		}
		ct.Targets = slices.DeleteFunc(ct.Targets, func(slug string) bool {
			_, ok := r.types[slug]
			return !ok
		})
	}

	return r, nil
}

func labelOrSlug(d Declaration) string {
	if d.Label != "" {
		return d.Label
	}
	return d.Slug
}

func capabilitiesWithDefaults(slug string, c Capabilities) Capabilities {
	if c.Edit == "" {
		c.Edit = "edit_" + slug + "s"
	}
	if c.EditOthers == "" {
		c.EditOthers = "edit_others_" + slug + "s"
	}
	if c.Create == "" {
		c.Create = c.Edit
	}
	return c
}

// Lookup returns a copy of the content type registered under slug.
func (r *Registry) Lookup(slug string) (ContentType, bool) {
	ct, ok := r.types[slug]
	if !ok {
		return ContentType{}, false
	}
	out := *ct
	out.Targets = slices.Clone(ct.Targets)
	out.Taxonomies = slices.Clone(ct.Taxonomies)
	return out, true
}

// Exists reports whether slug is registered.
func (r *Registry) Exists(slug string) bool {
	_, ok := r.types[slug]
	return ok
}

// IsDuplicationSupported reports whether records of slug may be duplicated.
func (r *Registry) IsDuplicationSupported(slug string) bool {
	ct, ok := r.types[slug]
	return ok && ct.Supported
}

// TransformTargets returns the ordered transform targets of slug. It is
// empty for unknown, unsupported and duplicate-only types.
func (r *Registry) TransformTargets(slug string) []string {
	ct, ok := r.types[slug]
	if !ok {
		return nil
	}
	return slices.Clone(ct.Targets)
}

// AllowsSimpleDuplicate reports whether a same-type copy is offered: the type
// is supported and either declares no targets or lists itself.
func (r *Registry) AllowsSimpleDuplicate(slug string) bool {
	ct, ok := r.types[slug]
	if !ok || !ct.Supported {
		return false
	}
	return len(ct.Targets) == 0 || slices.Contains(ct.Targets, slug)
}

// Taxonomies returns the taxonomies registered on slug, in declaration order.
func (r *Registry) Taxonomies(slug string) []string {
	if ct, ok := r.types[slug]; ok {
		return slices.Clone(ct.Taxonomies)
	}
	return nil
}

// HasTaxonomy reports whether taxonomy is registered on slug.
func (r *Registry) HasTaxonomy(slug, taxonomy string) bool {
	ct, ok := r.types[slug]
	return ok && slices.Contains(ct.Taxonomies, taxonomy)
}

// Template returns the default template of slug. Callers must not modify it.
func (r *Registry) Template(slug string) []models.TemplateNode {
	if ct, ok := r.types[slug]; ok {
		return ct.Template
	}
	return nil
}

// Types returns all content types in registration order.
func (r *Registry) Types() []ContentType {
	out := make([]ContentType, 0, len(r.order))
	for _, slug := range r.order {
		ct, _ := r.Lookup(slug)
		out = append(out, ct)
	}
	return out
}

// DefaultDeclarations are used when the configuration declares no content
// types: pages can be duplicated, posts can become pages, posts or events
// (the events type is dropped unless registered).
func DefaultDeclarations() []Declaration {
	return []Declaration{
		{
			Slug:        "post",
			Label:       "Post",
			DuplicateAs: SupportTargets("page", "post", "gatherpress_event"),
			Taxonomies:  []string{"category", "post_tag"},
		},
		{
			Slug:        "page",
			Label:       "Page",
			DuplicateAs: SupportSimple(),
		},
	}
}
