package action

// clampDurationReduction enforces the spec §4.2 invariant that
// duration_reduction never shortens a timed action by more than 90%.
func clampDurationReduction(reduction float64) float64 {
	if reduction > 0.9 {
		return 0.9
	}
	if reduction < 0 {
		return 0
	}
	return reduction
}

// effectiveDuration applies a clamped reduction to a declared duration,
// rounding down but never below 1 month.
func effectiveDuration(durationMonths int, reduction float64) int {
	reduction = clampDurationReduction(reduction)
	d := int(float64(durationMonths) * (1 - reduction))
	if d < 1 {
		d = 1
	}
	return d
}

// timedComplete implements the TimedAction completion condition the spec
// mandates over the older long_action decorator's off-by-one variant
// (spec §9 Open Questions: "adopt the TimedAction semantics").
func timedComplete(clockNow, startMonth, durationMonths int) bool {
	return clockNow-startMonth >= durationMonths-1
}

// timedState is the per-execution state every Timed action instance
// embeds, with its own save/load pair (spec §4.2 "Save hooks").
type timedState struct {
	StartMonth        int
	DurationMonths    int
	DurationReduction float64
	started           bool
}

func (s *timedState) saveData() map[string]any {
	return map[string]any{
		"start_month":        s.StartMonth,
		"duration_months":    s.DurationMonths,
		"duration_reduction": s.DurationReduction,
	}
}

func (s *timedState) loadData(data map[string]any) {
	if v, ok := data["start_month"].(int); ok {
		s.StartMonth = v
	} else if v, ok := data["start_month"].(float64); ok {
		s.StartMonth = int(v)
	}
	if v, ok := data["duration_months"].(int); ok {
		s.DurationMonths = v
	} else if v, ok := data["duration_months"].(float64); ok {
		s.DurationMonths = int(v)
	}
	if v, ok := data["duration_reduction"].(float64); ok {
		s.DurationReduction = v
	}
	s.started = true
}

func (s *timedState) complete(clockNow int) bool {
	return timedComplete(clockNow, s.StartMonth, effectiveDuration(s.DurationMonths, s.DurationReduction))
}
