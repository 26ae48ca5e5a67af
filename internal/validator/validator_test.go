package validator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/duplicate-as/internal/auth"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/i18n"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/models"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/registry"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/testhelpers"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/validator"
)

type mockRecords struct {
	mock.Mock
}

func (m *mockRecords) GetRecord(ctx context.Context, id int64) (*models.Record, error) {
	args := m.Called(ctx, id)
	rec, _ := args.Get(0).(*models.Record)
	return rec, args.Error(1)
}

func newRegistry(t *testing.T) *registry.Registry {
	t.Helper()
	r, err := registry.New([]registry.Declaration{
		{Slug: "post", DuplicateAs: registry.SupportTargets("page", "post")},
		{Slug: "page", DuplicateAs: registry.SupportSimple()},
		{Slug: "event", DuplicateAs: registry.SupportTargets("page"), Capabilities: registry.Capabilities{Create: "create_events"}},
		{Slug: "attachment"},
	})
	require.NoError(t, err)
	return r
}

func newValidator(t *testing.T) *validator.Validator {
	t.Helper()
	store := testhelpers.NewMemoryStore()
	store.Seed(models.Record{ID: 1, Type: "post", AuthorID: "author"}, nil)
	store.Seed(models.Record{ID: 2, Type: "page", AuthorID: "author"}, nil)
	store.Seed(models.Record{ID: 3, Type: "attachment", AuthorID: "author"}, nil)
	store.Seed(models.Record{ID: 4, Type: "event", AuthorID: "author"}, nil)
	types := newRegistry(t)
	return validator.New(store, types, auth.NewCapabilityAuthorizer(types))
}

var editor = auth.Principal{
	Subject: "editor",
	Capabilities: []string{
		"edit_posts", "edit_others_posts", "edit_pages", "edit_others_pages",
		"edit_events", "edit_others_events",
	},
}

func TestValidate_Accepts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		req           validator.Request
		wantTarget    string
		wantFinal     string
		wantTransform bool
	}{
		{name: "plain duplicate", req: validator.Request{SourceID: 1, Principal: editor}, wantFinal: "post"},
		{name: "own type is plain", req: validator.Request{SourceID: 1, TargetType: "post", Principal: editor}, wantFinal: "post"},
		{name: "transform", req: validator.Request{SourceID: 1, TargetType: "page", Principal: editor}, wantTarget: "page", wantFinal: "page", wantTransform: true},
		{name: "simple type", req: validator.Request{SourceID: 2, Principal: editor}, wantFinal: "page"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := newValidator(t).Validate(context.Background(), tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.req.SourceID, res.Record.ID)
			assert.Equal(t, tt.wantTarget, res.TargetType)
			assert.Equal(t, tt.wantFinal, res.FinalType())
			assert.Equal(t, tt.wantTransform, res.IsTransform())
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	t.Parallel()

	onlyOwnPosts := auth.Principal{Subject: "author", Capabilities: []string{"edit_posts"}}
	noPageCreate := auth.Principal{Subject: "editor", Capabilities: []string{"edit_posts", "edit_others_posts"}}
	eventEditorNoEventCreate := auth.Principal{Subject: "author", Capabilities: []string{"edit_events"}}

	tests := []struct {
		name    string
		req     validator.Request
		kind    error
		failed  validator.State
		message string
	}{
		{
			name: "missing record", req: validator.Request{SourceID: 99, Principal: editor},
			kind: models.ErrNotFound, failed: validator.SourceChecked, message: i18n.MsgNotFound,
		},
		{
			name: "unsupported type", req: validator.Request{SourceID: 3, Principal: editor},
			kind: models.ErrTypeNotSupported, failed: validator.SupportChecked, message: i18n.MsgTypeNotSupported,
		},
		{
			name: "cannot edit others", req: validator.Request{SourceID: 1, Principal: auth.Principal{Subject: "x", Capabilities: []string{"edit_posts"}}},
			kind: models.ErrForbidden, failed: validator.PermissionChecked, message: i18n.MsgCannotDuplicate,
		},
		{
			name: "plain duplicate needs create on source", req: validator.Request{SourceID: 4, Principal: eventEditorNoEventCreate},
			kind: models.ErrForbidden, failed: validator.PermissionChecked, message: i18n.MsgCannotDuplicate,
		},
		{
			name: "unknown target", req: validator.Request{SourceID: 1, TargetType: "ghost", Principal: editor},
			kind: models.ErrTargetNotAllowed, failed: validator.TargetChecked, message: i18n.MsgTargetMissing,
		},
		{
			name: "cannot create target", req: validator.Request{SourceID: 1, TargetType: "page", Principal: noPageCreate},
			kind: models.ErrForbidden, failed: validator.TargetChecked, message: i18n.MsgCannotCreateTarget,
		},
		{
			name: "target not listed", req: validator.Request{SourceID: 2, TargetType: "post", Principal: editor},
			kind: models.ErrTargetNotAllowed, failed: validator.TargetChecked, message: i18n.MsgTransformForbidden,
		},
		{
			name: "own record, target not creatable", req: validator.Request{SourceID: 1, TargetType: "event", Principal: onlyOwnPosts},
			kind: models.ErrForbidden, failed: validator.TargetChecked, message: i18n.MsgCannotCreateTarget,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := newValidator(t).Validate(context.Background(), tt.req)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, tt.kind)

			rej, ok := validator.AsRejection(err)
			require.True(t, ok)
			assert.Equal(t, tt.failed, rej.Failed)
			assert.Equal(t, tt.message, rej.Message)
		})
	}
}

func TestValidate_TransformDoesNotNeedCreateOnSource(t *testing.T) {
	t.Parallel()

	// An event editor who may create pages but not events can still turn an
	// event into a page.
	p := auth.Principal{Subject: "author", Capabilities: []string{"edit_pages", "edit_others_events"}}
	types := newRegistry(t)
	store := testhelpers.NewMemoryStore()
	store.Seed(models.Record{ID: 4, Type: "event", AuthorID: "someone"}, nil)

	res, err := validator.New(store, types, auth.NewCapabilityAuthorizer(types)).
		Validate(context.Background(), validator.Request{SourceID: 4, TargetType: "page", Principal: p})
	require.NoError(t, err)
	assert.Equal(t, "page", res.FinalType())
}

func TestValidate_StorageError(t *testing.T) {
	t.Parallel()

	records := &mockRecords{}
	dbErr := errors.New("connection reset")
	records.On("GetRecord", mock.Anything, int64(1)).Return(nil, dbErr)

	types := newRegistry(t)
	_, err := validator.New(records, types, auth.NewCapabilityAuthorizer(types)).
		Validate(context.Background(), validator.Request{SourceID: 1, Principal: editor})

	require.ErrorIs(t, err, dbErr)
	_, isRejection := validator.AsRejection(err)
	assert.False(t, isRejection)
	records.AssertExpectations(t)
}

func TestState_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "permission_checked", validator.PermissionChecked.String())
	assert.Equal(t, "state(42)", validator.State(42).String())
}
