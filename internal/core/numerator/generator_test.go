package numerator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	period := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "HD-2026-00042", Format(DefaultConfig(PrefixInvoice), period, 42))
	assert.Equal(t, "DH-007", Format(Config{Prefix: PrefixOrder, PadWidth: 3}, period, 7))
}

func TestSequenceKey(t *testing.T) {
	period := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, "BG_2026", SequenceKey(DefaultConfig(PrefixQuote), period))
	assert.Equal(t, "PN_2026_03", SequenceKey(Config{Prefix: PrefixPurchase, ResetPeriod: "month"}, period))
	assert.Equal(t, "PN", SequenceKey(Config{Prefix: PrefixPurchase, ResetPeriod: "never"}, period))
}
