package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/north-cloud/duplicate-as/internal/models"
	"github.com/jonesrussell/north-cloud/duplicate-as/internal/validator"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err    error
		code   string
		status int
	}{
		{models.ErrNotFound, CodePostNotFound, http.StatusNotFound},
		{&validator.Rejection{Kind: models.ErrTypeNotSupported}, CodeTypeNotAllowed, http.StatusForbidden},
		{&validator.Rejection{Kind: models.ErrTargetNotAllowed}, CodeInvalidTarget, http.StatusForbidden},
		{&validator.Rejection{Kind: models.ErrForbidden}, CodeForbidden, http.StatusForbidden},
		{fmt.Errorf("%w: insert failed", models.ErrDuplicationFailed), CodeDuplicationFailed, http.StatusInternalServerError},
		{fmt.Errorf("load record 1: %w", errors.New("timeout")), CodeDuplicationFailed, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		code, status := classify(tt.err)
		assert.Equal(t, tt.code, code, tt.err.Error())
		assert.Equal(t, tt.status, status, tt.err.Error())
	}
}

func TestSanitizeSlug(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "gatherpress_event", sanitizeSlug("GatherPress_Event"))
	assert.Equal(t, "pagescript", sanitizeSlug("Page<script>"))
	assert.Equal(t, "my-type", sanitizeSlug("my-type!"))
	assert.Empty(t, sanitizeSlug("../"))
}

func TestParseRecordID(t *testing.T) {
	t.Parallel()

	id, ok := parseRecordID("42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	for _, raw := range []string{"", "0", "-3", "4x", "99999999999999999999"} {
		_, ok := parseRecordID(raw)
		assert.False(t, ok, raw)
	}
}
