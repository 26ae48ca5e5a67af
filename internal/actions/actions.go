// Package actions builds the signed "Duplicate" and "Duplicate as <Type>"
// links offered next to a record in list views.
package actions

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/message"

	"github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/actiontoken"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/auth"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/i18n"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/models"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/registry"
)

const (
	DuplicatePath = "/admin/duplicate"
	TransformPath = "/admin/transform"

	keyDuplicate       = "duplicate_as_duplicate"
	keyTransformPrefix = "duplicate_as_transform_"
)

// Action is one row action link.
type Action struct {
	Key       string `json:"key"`
	Label     string `json:"label"`
	AriaLabel string `json:"aria_label"`
	URL       string `json:"url"`
}

// DuplicateScope is the token action for a plain duplicate of recordID.
func DuplicateScope(recordID int64) string {
	return keyDuplicate + "_" + strconv.FormatInt(recordID, 10)
}

// TransformScope is the token action for turning recordID into target.
func TransformScope(recordID int64, target string) string {
	return keyTransformPrefix + strconv.FormatInt(recordID, 10) + "_" + target
}

// Builder renders row actions.
type Builder struct {
	types   *registry.Registry
	authz   auth.Authorizer
	signer  *actiontoken.Signer
	baseURL string
	now     func() time.Time
}

// NewBuilder returns a Builder whose links point below adminBaseURL.
func NewBuilder(types *registry.Registry, authz auth.Authorizer, signer *actiontoken.Signer, adminBaseURL string) *Builder {
	return &Builder{
		types:   types,
		authz:   authz,
		signer:  signer,
		baseURL: strings.TrimSuffix(adminBaseURL, "/"),
		now:     time.Now,
	}
}

// Build returns the actions p may take on rec, labelled with printer. A
// "Duplicate" action comes first when a same-type copy is offered; one
// transform action follows per target p can create, in declared order.
func (b *Builder) Build(rec *models.Record, p auth.Principal, printer *message.Printer) []Action {
	if !b.types.IsDuplicationSupported(rec.Type) || !b.authz.CanEdit(p, rec) {
		return nil
	}

	title := rec.Title
	if title == "" {
		title = printer.Sprintf(i18n.MsgUntitled)
	}
	issued := b.now()

	var out []Action
	if b.types.AllowsSimpleDuplicate(rec.Type) && b.authz.CanCreate(p, rec.Type) {
		token := b.signer.Sign(DuplicateScope(rec.ID), p.Subject, issued)
		out = append(out, Action{
			Key:       keyDuplicate,
			Label:     printer.Sprintf(i18n.MsgDuplicate),
			AriaLabel: printer.Sprintf(i18n.MsgDuplicateAria, title),
			URL:       b.link(DuplicatePath, rec.ID, "", token),
		})
	}

	for _, target := range b.types.TransformTargets(rec.Type) {
		if target == rec.Type || !b.authz.CanCreate(p, target) {
			continue
		}
		ct, ok := b.types.Lookup(target)
		if !ok {
			continue
		}

		token := b.signer.Sign(TransformScope(rec.ID, target), p.Subject, issued)
		out = append(out, Action{
			Key:       keyTransformPrefix + target,
			Label:     printer.Sprintf(i18n.MsgDuplicateAs, ct.Label),
			AriaLabel: printer.Sprintf(i18n.MsgDuplicateAsAria, title, ct.Label),
			URL:       b.link(TransformPath, rec.ID, target, token),
		})
	}
	return out
}

func (b *Builder) link(path string, recordID int64, target, token string) string {
	q := url.Values{}
	q.Set("post", strconv.FormatInt(recordID, 10))
	if target != "" {
		q.Set("target_type", target)
	}
	q.Set("_token", token)
	return b.baseURL + path + "?" + q.Encode()
}
