package moderation

// Config carries the escalation thresholds. They are explicit constructor
// input, not ambient globals; main.go sources them from the environment.
type Config struct {
	// ShopperWarningThreshold is the warning count at which an admin may
	// remove a shopper.
	ShopperWarningThreshold int
	// OwnerReportThreshold is the summed report count across an owner's
	// shops at which an admin may remove the owner.
	OwnerReportThreshold int
}

func DefaultConfig() Config {
	return Config{
		ShopperWarningThreshold: 3,
		OwnerReportThreshold:    5,
	}
}

func (c Config) normalized() Config {
	def := DefaultConfig()
	if c.ShopperWarningThreshold <= 0 {
		c.ShopperWarningThreshold = def.ShopperWarningThreshold
	}
	if c.OwnerReportThreshold <= 0 {
		c.OwnerReportThreshold = def.OwnerReportThreshold
	}
	return c
}

// ShopperRemovalEligible reports whether a shopper's warning count makes
// them removable. Crossing the threshold never removes anyone by itself;
// an admin must still invoke the removal.
func ShopperRemovalEligible(warningCount, threshold int) bool {
	return warningCount >= threshold
}

// OwnerRemovalEligible is the owner-side rule, over the summed report
// count of all their shops.
func OwnerRemovalEligible(reportTotal, threshold int) bool {
	return reportTotal >= threshold
}
