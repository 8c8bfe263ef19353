package errs_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"fedadmin/internal/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCarriesCodeAndFields(t *testing.T) {
	err := errs.New(errs.CodeActionInvalid, "select at least one row",
		errs.FieldDomain("users"), errs.FieldAction("approve"))

	require.Error(t, err)
	assert.Equal(t, errs.CodeActionInvalid, errs.CodeOf(err))
	assert.True(t, errs.HasCode(err, errs.CodeActionInvalid))
	assert.True(t, errs.IsValidation(err))
	assert.False(t, errs.IsBusy(err))
	assert.Contains(t, err.Error(), "select at least one row")

	fields := errs.FieldsOf(err)
	assert.Equal(t, "users", fields["domain"])
	assert.Equal(t, "approve", fields["action"])
}

func TestWrapPreservesCause(t *testing.T) {
	root := stderrors.New("connection reset")
	err := errs.Wrap(root, errs.CodeFetchFailure, "fetching users")

	require.Error(t, err)
	assert.ErrorIs(t, err, root)
	assert.Equal(t, errs.CodeFetchFailure, errs.CodeOf(err))
	assert.False(t, errs.IsValidation(err))
}

func TestWrapNilReturnsNil(t *testing.T) {
	assert.NoError(t, errs.Wrap(nil, errs.CodeFetchFailure, "noop"))
	assert.NoError(t, errs.Wrapf(nil, errs.CodeFetchFailure, "noop %d", 1))
}

func TestBusyCode(t *testing.T) {
	err := errs.Errorf(errs.CodeActionBusy, "export %s already running", "csv")
	assert.True(t, errs.IsBusy(err))
	assert.Contains(t, err.Error(), "export csv already running")
}

func TestPlainErrorsHaveNoCode(t *testing.T) {
	err := fmt.Errorf("plain")
	assert.Equal(t, errs.Code(""), errs.CodeOf(err))
	assert.Nil(t, errs.FieldsOf(err))
	assert.False(t, errs.HasCode(nil, errs.CodeFetchFailure))
}

func TestMessageSurfacesRemoteMessageVerbatim(t *testing.T) {
	remote := errs.NewRemote(http.StatusConflict, "User 42 is already suspended")
	wrapped := errs.Wrap(fmt.Errorf("bulk users: %w", remote), errs.CodeMutationFailure, "running approve")

	assert.Equal(t, "User 42 is already suspended", errs.Message(wrapped))

	got, ok := errs.AsRemote(wrapped)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, got.Status)
}

func TestNewRemoteFallsBackToStatusText(t *testing.T) {
	remote := errs.NewRemote(http.StatusBadGateway, "  ")
	assert.Equal(t, "Bad Gateway", remote.Message)
	assert.Contains(t, remote.Error(), "502")
}

func TestMessageOfLocalError(t *testing.T) {
	assert.Equal(t, "", errs.Message(nil))
	assert.Equal(t, "boom", errs.Message(stderrors.New("boom")))
}
