package expiry

import (
	"fmt"
	"time"

	"github.com/Makepad-fr/laundry/internal/model"
)

const day = 24 * time.Hour

// Status is the countdown label and how loudly to show it.
type Status struct {
	Label    string
	Severity model.Severity
}

// Classify bands the time left until expiration:
// more than 7 days is normal, 3-7 days a warning, anything closer is danger.
func Classify(expiration, now time.Time) Status {
	diff := expiration.Sub(now)
	if diff < 0 {
		return Status{Label: "Expired", Severity: model.SeverityDanger}
	}
	days := int(diff / day)
	hours := int((diff % day) / time.Hour)

	switch {
	case days > 7:
		return Status{Label: fmt.Sprintf("%d days left", days), Severity: model.SeverityNormal}
	case days > 2:
		return Status{Label: fmt.Sprintf("%d days left", days), Severity: model.SeverityWarning}
	case days > 0:
		return Status{Label: fmt.Sprintf("%dd %dh left", days, hours), Severity: model.SeverityDanger}
	}
	return Status{Label: fmt.Sprintf("%dh left", hours), Severity: model.SeverityDanger}
}
