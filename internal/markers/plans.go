package markers

import (
	"fmt"
	"regexp"
	"strconv"
)

// Plan is one requested image insertion point: a timestamp (canonical MM:SS
// or a legacy frame_NNN index) and an optional caption.
type Plan struct {
	Timestamp   string `json:"timestamp"`
	Description string `json:"description"`
}

var (
	// Canonical model output: ![caption](images/MM:SS.jpg)
	canonicalImagePattern = regexp.MustCompile(`!\[([^\]]*)\]\(images/(\d{2}:\d{2})\.jpg\)`)
	// Older model output: ![caption](images/frame_N.jpg)
	legacyImagePattern = regexp.MustCompile(`!\[([^\]]*)\]\(images/frame_(\d+)\.jpg\)`)
	// Oldest annotation style: [IMAGE: MM:SS]. The first alternative
	// matches a marker already wrapped in an unresolved comment so the
	// resolver never wraps it a second time.
	inlineMarkerPattern = regexp.MustCompile(`<!--\s*\[IMAGE:\s*\d{2}:\d{2}\]\s*-->|\[IMAGE:\s*(\d{2}:\d{2})\]`)
)

// ExtractPlans scans marked prose for image references. Canonical MM:SS
// references win; the legacy frame_NNN form is honored only when no
// canonical reference exists, never additively.
func ExtractPlans(content string) []Plan {
	var plans []Plan

	for _, m := range canonicalImagePattern.FindAllStringSubmatch(content, -1) {
		plans = append(plans, Plan{Timestamp: m[2], Description: m[1]})
	}
	if len(plans) > 0 {
		return plans
	}

	for _, m := range legacyImagePattern.FindAllStringSubmatch(content, -1) {
		index, err := strconv.Atoi(m[2])
		if err != nil {
			continue
		}
		plans = append(plans, Plan{
			Timestamp:   fmt.Sprintf("frame_%03d", index),
			Description: m[1],
		})
	}
	return plans
}

// Timestamps returns the canonical MM:SS stamps among the plans, preserving
// order. Legacy frame_NNN plans carry no video position and are skipped.
func Timestamps(plans []Plan) []Timestamp {
	out := make([]Timestamp, 0, len(plans))
	for _, plan := range plans {
		ts, err := ParseTimestamp(plan.Timestamp)
		if err != nil {
			continue
		}
		out = append(out, ts)
	}
	return out
}
