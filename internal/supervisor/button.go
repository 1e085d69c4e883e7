package supervisor

import (
	"context"
	"time"
)

// ResetButtonPort is the physical factory-reset button. The real
// implementation polls a GPIO; this package only defines the contract.
type ResetButtonPort interface {
	Pressed() bool
}

// FactoryResetHoldDuration is the minimum hold time for the boot-time
// button check (spec §4.H: "held for >= 2 s on boot").
const FactoryResetHoldDuration = 2 * time.Second

// CheckFactoryResetOnBoot polls button every poll interval for up to
// FactoryResetHoldDuration; it returns true only if the button stayed
// pressed for the whole window. Callers run this once at startup, before
// deciding the boot mode.
func CheckFactoryResetOnBoot(ctx context.Context, button ResetButtonPort, poll time.Duration) bool {
	if button == nil || !button.Pressed() {
		return false
	}
	deadline := time.Now().Add(FactoryResetHoldDuration)
	ticker := time.NewTicker(poll)
	defer ticker.Stop()

	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return false
		case <-ticker.C:
			if !button.Pressed() {
				return false
			}
		}
	}
	return true
}
