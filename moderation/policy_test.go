package moderation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShopperRemovalEligible(t *testing.T) {
	assert.False(t, ShopperRemovalEligible(0, 3))
	assert.False(t, ShopperRemovalEligible(2, 3))
	assert.True(t, ShopperRemovalEligible(3, 3))
	assert.True(t, ShopperRemovalEligible(7, 3))
}

func TestOwnerRemovalEligible(t *testing.T) {
	assert.False(t, OwnerRemovalEligible(4, 5))
	assert.True(t, OwnerRemovalEligible(5, 5))
	assert.True(t, OwnerRemovalEligible(12, 5))
}

func TestConfigNormalized(t *testing.T) {
	cfg := Config{}.normalized()
	assert.Equal(t, DefaultConfig(), cfg)

	cfg = Config{ShopperWarningThreshold: 10, OwnerReportThreshold: -1}.normalized()
	assert.Equal(t, 10, cfg.ShopperWarningThreshold)
	assert.Equal(t, DefaultConfig().OwnerReportThreshold, cfg.OwnerReportThreshold)
}
