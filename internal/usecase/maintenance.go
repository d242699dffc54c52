package usecase

import (
	"math"

	"flightdesk-service/internal/domain/entity"
)

// Maintenance check cycle constants. Checks repeat over a 600-hour cycle;
// the checks table renders progress over a fixed 100-hour window.
const (
	checkCycleHours    = 600.0
	checkWindowHours   = 100.0
	CheckWarningHours  = 50.0
	CheckCriticalHours = 25.0
)

// CheckCategory is the maintenance inspection tier (A lightest, D heaviest)
type CheckCategory string

const (
	CheckA CheckCategory = "A"
	CheckB CheckCategory = "B"
	CheckC CheckCategory = "C"
	CheckD CheckCategory = "D"
)

// CheckSeverity is the display state of an upcoming check
type CheckSeverity string

const (
	SeverityOK       CheckSeverity = "ok"
	SeverityWarning  CheckSeverity = "warning"
	SeverityCritical CheckSeverity = "critical"
)

// CheckClassification describes an aircraft's next scheduled check
type CheckClassification struct {
	Category  CheckCategory `json:"category"`
	Remaining float64       `json:"remaining"` // hours; negative when overdue
	Progress  float64       `json:"progress"`  // 0..100 over the 100-hour window
	Severity  CheckSeverity `json:"severity"`
}

// ClassifyCheck determines the category of the aircraft's next check from
// its position in the 600-hour cycle, the remaining margin (not clamped, so
// overdue aircraft go negative), and the progress bar value for the checks
// table.
func ClassifyCheck(ac entity.Aircraft) CheckClassification {
	var category CheckCategory
	switch math.Mod(ac.NextCheckHours, checkCycleHours) {
	case 0:
		category = CheckD
	case 200:
		category = CheckB
	case 400:
		category = CheckC
	default:
		category = CheckA
	}

	remaining := ac.NextCheckHours - ac.CurrentHours
	progress := clampPercent((1 - remaining/checkWindowHours) * 100)

	return CheckClassification{
		Category:  category,
		Remaining: remaining,
		Progress:  progress,
		Severity:  severityFor(remaining),
	}
}

// OverviewProgress is the coarse ratio bar shown on fleet overview cards.
// It deliberately differs from the checks-table window formula; the two
// displays have different tolerances and are not interchangeable.
func OverviewProgress(ac entity.Aircraft) float64 {
	return clampPercent(ac.CurrentHours / math.Max(ac.NextCheckHours, 1) * 100)
}

func severityFor(remaining float64) CheckSeverity {
	switch {
	case remaining < CheckCriticalHours:
		return SeverityCritical
	case remaining < CheckWarningHours:
		return SeverityWarning
	default:
		return SeverityOK
	}
}

func clampPercent(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
