package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSourceError(t *testing.T) {
	err := NewSourceErrorf(http.StatusBadGateway, "unexpected status").AddEndpoint("https://example.org/sparql")
	assert.True(t, IsSourceError(err))
	assert.False(t, IsSourceUnavailableError(err))
	assert.Contains(t, err.Error(), "502")

	httpErr := err.ToHTTPError()
	assert.Equal(t, http.StatusBadGateway, httperror.GetStatusCode(httpErr))
}

func TestSourceErrorWithoutStatus(t *testing.T) {
	err := NewSourceError(0, "failed to decode response")
	assert.Equal(t, "source error: failed to decode response", err.Error())
}

func TestSourceUnavailableError(t *testing.T) {
	err := NewSourceUnavailableError(3, "query timed out")
	assert.True(t, IsSourceUnavailableError(err))
	assert.False(t, IsSourceError(err))
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, http.StatusServiceUnavailable, httperror.GetStatusCode(err.ToHTTPError()))
}

func TestValidationError(t *testing.T) {
	err := NewValidationErrorf("%q is not a valid entity identifier", "van-gogh").AddField("artist")
	require.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "field 'artist'")
	assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(err.ToHTTPError()))
}

func TestIsCheckersRejectForeignErrors(t *testing.T) {
	plain := fmt.Errorf("wrapped: %w", errors.New("boom"))
	assert.False(t, IsSourceError(plain))
	assert.False(t, IsSourceUnavailableError(plain))
	assert.False(t, IsValidationError(plain))
}
