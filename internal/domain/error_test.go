package domain_test

import (
	"errors"
	"testing"

	"github.com/dukerupert/taxreport/internal/domain"
	"github.com/stretchr/testify/assert"
)

func Test_Error_Formatting(t *testing.T) {
	err := domain.Errorf(domain.EINVALID, "config.load", "missing %s", "STRIPE_API_KEY")
	assert.Equal(t, "config.load: missing STRIPE_API_KEY", err.Error())

	bare := domain.Invalid("", "bad input")
	assert.Equal(t, "bad input", bare.Error())
}

func Test_ErrorCode(t *testing.T) {
	assert.Equal(t, "", domain.ErrorCode(nil))
	assert.Equal(t, domain.EINTERNAL, domain.ErrorCode(errors.New("plain")))
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(domain.NotFound("billing.get_charge", "charge", "ch_1")))
	assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(domain.Unauthorized("billing.list", "bad key")))
}

func Test_WrapError_PreservesCause(t *testing.T) {
	cause := errors.New("connection reset")
	wrapped := domain.WrapError(cause, domain.EUNAVAILABLE, "billing.list_invoices", "payment API unreachable")

	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, domain.EUNAVAILABLE, domain.ErrorCode(wrapped))
	assert.Contains(t, wrapped.Error(), "billing.list_invoices")

	assert.Nil(t, domain.WrapError(nil, domain.EINTERNAL, "op", "never happens"))
}

func Test_IsCode(t *testing.T) {
	err := domain.Internal(errors.New("boom"), "report.run", "unexpected failure")

	assert.True(t, domain.IsCode(err, domain.EINTERNAL))
	assert.False(t, domain.IsCode(err, domain.EINVALID))
}
