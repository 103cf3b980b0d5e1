package provider

import (
	"strings"

	"github.com/yourname/sleepdash/internal"
)

// Stage classification. Numeric codes are checked first against the
// provider's own enum, then the stage name is keyword-matched. Fallbacks
// differ per provider on purpose: Fitbit keeps the raw level name, the
// integer-coded providers report "Unknown".

type stage struct {
	Type     int
	TypeName string
}

// Google Fit sleep segment values, com.google.sleep.segment.
var googleStages = map[int]stage{
	1: {internal.StageAwake, "Awake (during sleep cycle)"},
	2: {internal.StageUnspecified, "Sleep"},
	3: {internal.StageInBed, "Out-of-bed"},
	4: {internal.StageLight, "Light sleep"},
	5: {internal.StageDeep, "Deep sleep"},
	6: {internal.StageREM, "REM"},
}

// Apple HealthKit sleep analysis values 0-5. Core sleep is HealthKit's
// name for light sleep.
var appleStages = map[int]stage{
	0: {internal.StageInBed, "InBed"},
	1: {internal.StageUnspecified, "Asleep"},
	2: {internal.StageAwake, "Awake"},
	3: {internal.StageLight, "Core"},
	4: {internal.StageDeep, "Deep"},
	5: {internal.StageREM, "REM"},
}

// classifyGoogleStage maps a Google Fit segment value to its canonical
// stage. Unknown values fall back to generic sleep, "Unknown".
func classifyGoogleStage(value int) stage {
	if s, ok := googleStages[value]; ok {
		return s
	}
	return stage{internal.StageUnspecified, "Unknown"}
}

// classifyAppleStage maps a HealthKit sleep analysis value to its
// canonical stage. Unknown values fall back to generic sleep, "Unknown".
func classifyAppleStage(value int) stage {
	if s, ok := appleStages[value]; ok {
		return s
	}
	return stage{internal.StageUnspecified, "Unknown"}
}

// classifyStageName keyword-matches a stage name, case-insensitive. The
// "sleep" check runs last so "Light sleep" and "Deep sleep" land in their
// detailed buckets. Unmatched names fall back to generic sleep keeping the
// raw name, which is how Fitbit levels like "restless" are reported.
func classifyStageName(name string) stage {
	lower := strings.ToLower(name)
	switch {
	case strings.Contains(lower, "wake"):
		return stage{internal.StageAwake, name}
	case strings.Contains(lower, "light"):
		return stage{internal.StageLight, name}
	case strings.Contains(lower, "deep"):
		return stage{internal.StageDeep, name}
	case strings.Contains(lower, "rem"):
		return stage{internal.StageREM, name}
	default:
		return stage{internal.StageUnspecified, name}
	}
}
