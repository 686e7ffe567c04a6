package preference

import (
	"fmt"
	"time"
)

// KeyNarrationMuted stores whether drawn numbers are read out.
const KeyNarrationMuted = "narration_muted"

// Preference is a persisted on/off switch for the whole installation.
type Preference struct {
	Key       string
	Enabled   bool
	UpdatedAt time.Time
}

func (p Preference) Validate() error {
	if p.Key == "" {
		return fmt.Errorf("preference key is required")
	}

	return nil
}
