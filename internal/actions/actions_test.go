package actions_test

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"

	"github.com/jonesrussell/north-cloud/duplicate-as/infrastructure/actiontoken"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/actions"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/auth"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/i18n"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/models"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/registry"
)

const secret = "row-action-secret"

func newBuilder(t *testing.T) (*actions.Builder, *actiontoken.Signer) {
	t.Helper()

	types, err := registry.New([]registry.Declaration{
		{Slug: "post", Label: "Post", DuplicateAs: registry.SupportTargets("page", "post", "event")},
		{Slug: "page", Label: "Page", DuplicateAs: registry.SupportSimple()},
		{Slug: "event", Label: "Event"},
		{Slug: "note", Label: "Note", DuplicateAs: registry.SupportTargets("page")},
	})
	require.NoError(t, err)

	signer := actiontoken.NewSigner(secret, time.Hour)
	return actions.NewBuilder(types, auth.NewCapabilityAuthorizer(types), signer, "https://cms.example.com/"), signer
}

func newTranslator(t *testing.T) *i18n.Translator {
	t.Helper()
	tr, err := i18n.New()
	require.NoError(t, err)
	return tr
}

func TestBuild_DuplicateAndAllowedTargets(t *testing.T) {
	t.Parallel()

	b, signer := newBuilder(t)
	tr := newTranslator(t)
	p := auth.Principal{Subject: "42", Capabilities: []string{"edit_posts", "edit_others_posts", "edit_pages"}}
	rec := &models.Record{ID: 7, Type: "post", Title: "Launch", AuthorID: "9"}

	got := b.Build(rec, p, tr.Printer(language.English))
	require.Len(t, got, 2)

	assert.Equal(t, "duplicate_as_duplicate", got[0].Key)
	assert.Equal(t, "Duplicate", got[0].Label)
	assert.Equal(t, "Duplicate “Launch”", got[0].AriaLabel)

	assert.Equal(t, "duplicate_as_transform_page", got[1].Key)
	assert.Equal(t, "Duplicate as Page", got[1].Label)
	assert.Equal(t, "Duplicate “Launch” as Page", got[1].AriaLabel)

	u, err := url.Parse(got[0].URL)
	require.NoError(t, err)
	assert.Equal(t, "cms.example.com", u.Host)
	assert.Equal(t, actions.DuplicatePath, u.Path)
	assert.Equal(t, "7", u.Query().Get("post"))
	require.NoError(t, signer.Verify(u.Query().Get("_token"), actions.DuplicateScope(7), "42", time.Now()))

	u, err = url.Parse(got[1].URL)
	require.NoError(t, err)
	assert.Equal(t, actions.TransformPath, u.Path)
	assert.Equal(t, "page", u.Query().Get("target_type"))
	require.NoError(t, signer.Verify(u.Query().Get("_token"), actions.TransformScope(7, "page"), "42", time.Now()))
	assert.ErrorIs(t,
		signer.Verify(u.Query().Get("_token"), actions.TransformScope(7, "page"), "someone-else", time.Now()),
		actiontoken.ErrInvalid,
	)
}

func TestBuild_TargetsOnlyHasNoDuplicate(t *testing.T) {
	t.Parallel()

	b, _ := newBuilder(t)
	tr := newTranslator(t)
	p := auth.Principal{Subject: "42", Capabilities: []string{"edit_notes", "edit_pages"}}
	rec := &models.Record{ID: 3, Type: "note", AuthorID: "42"}

	got := b.Build(rec, p, tr.Printer(language.English))
	require.Len(t, got, 1)
	assert.Equal(t, "duplicate_as_transform_page", got[0].Key)
	assert.Equal(t, "Duplicate “(no title)” as Page", got[0].AriaLabel)
}

func TestBuild_NoActions(t *testing.T) {
	t.Parallel()

	b, _ := newBuilder(t)
	tr := newTranslator(t)

	tests := []struct {
		name string
		rec  *models.Record
		p    auth.Principal
	}{
		{
			name: "unsupported type",
			rec:  &models.Record{ID: 1, Type: "event", AuthorID: "42"},
			p:    auth.Principal{Subject: "42", Capabilities: []string{"edit_events"}},
		},
		{
			name: "cannot edit someone else's record",
			rec:  &models.Record{ID: 1, Type: "page", AuthorID: "9"},
			p:    auth.Principal{Subject: "42", Capabilities: []string{"edit_pages"}},
		},
		{
			name: "unknown type",
			rec:  &models.Record{ID: 1, Type: "widget"},
			p:    auth.Principal{Subject: "42", Capabilities: []string{"edit_widgets"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Empty(t, b.Build(tt.rec, tt.p, tr.Printer(language.English)))
		})
	}
}

func TestBuild_GermanLabels(t *testing.T) {
	t.Parallel()

	b, _ := newBuilder(t)
	tr := newTranslator(t)
	p := auth.Principal{Subject: "42", Capabilities: []string{"edit_posts", "edit_pages"}}
	rec := &models.Record{ID: 7, Type: "post", Title: "Start", AuthorID: "42"}

	got := b.Build(rec, p, tr.Printer(language.German))
	require.Len(t, got, 2)
	assert.Equal(t, "Duplizieren", got[0].Label)
	assert.Equal(t, "Duplizieren als Page", got[1].Label)
}

func TestScopes(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "duplicate_as_duplicate_7", actions.DuplicateScope(7))
	assert.Equal(t, "duplicate_as_transform_7_page", actions.TransformScope(7, "page"))
}
