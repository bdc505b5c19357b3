package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatPendID(t *testing.T) {
	assert.Equal(t, "ID-00080", FormatPendID("80"))
	assert.Equal(t, "ID-00080", FormatPendID("ID-00080"), "already formatted input stays unchanged")
	assert.Equal(t, "ID-00080", FormatPendID(FormatPendID("80")), "formatting is idempotent")
	assert.Equal(t, "ID-123456", FormatPendID("123456"), "ids wider than the pad are kept whole")
	assert.Equal(t, "ID-00007", FormatPendIDInt(7))
}

func TestStatusValid(t *testing.T) {
	for _, s := range AllStatuses {
		assert.True(t, s.Valid(), "status %q", s)
	}
	assert.False(t, Status("Fechada").Valid())
	assert.False(t, Status("").Valid())
}

func TestStatusTerminal(t *testing.T) {
	assert.True(t, StatusResolvido.Terminal())
	assert.True(t, StatusRejeitada.Terminal())
	assert.False(t, StatusTriagem.Terminal())
	assert.False(t, StatusEmAndamento.Terminal())
}
