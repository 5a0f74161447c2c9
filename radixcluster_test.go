package radixcluster_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	radixcluster "github.com/kevwan/radixcluster"
)

func TestClientExceptionWrapsUnderlyingError(t *testing.T) {
	underlying := errors.New("boom")
	e := radixcluster.WrapClientException("malformed redirect", underlying)
	assert.ErrorIs(t, e, underlying)
	assert.Contains(t, e.Error(), "malformed redirect")
	assert.Contains(t, e.Error(), "boom")
}

func TestClientExceptionWithoutWrappedError(t *testing.T) {
	e := radixcluster.NewClientException("redirection loop exceeded depth cap")
	assert.Equal(t, "radixcluster: redirection loop exceeded depth cap", e.Error())
	assert.Nil(t, e.Unwrap())
}

func TestErrNotSupportedIsStable(t *testing.T) {
	assert.True(t, errors.Is(radixcluster.ErrNotSupported, radixcluster.ErrNotSupported))
}
