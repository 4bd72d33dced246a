package render

// SortPosition is the total order key of the global pass registry. Passes
// are drawn in ascending SortPosition; declaration order is that order.
type SortPosition int

const (
	SortFirst SortPosition = iota
	SortZFill
	SortInteraction
	SortFullbright
	SortTranslucent
	SortOverlayFirst
	SortOverlayLast
	SortGUI0
	SortGUI1
	SortPointFirst
	SortPointLast
	SortHighlight
	SortLast
)

var sortNames = [...]string{
	SortFirst:        "FIRST",
	SortZFill:        "ZFILL",
	SortInteraction:  "INTERACTION",
	SortFullbright:   "FULLBRIGHT",
	SortTranslucent:  "TRANSLUCENT",
	SortOverlayFirst: "OVERLAY_FIRST",
	SortOverlayLast:  "OVERLAY_LAST",
	SortGUI0:         "GUI0",
	SortGUI1:         "GUI1",
	SortPointFirst:   "POINT_FIRST",
	SortPointLast:    "POINT_LAST",
	SortHighlight:    "HIGHLIGHT",
	SortLast:         "LAST",
}

func (s SortPosition) String() string {
	if s >= 0 && int(s) < len(sortNames) {
		return sortNames[s]
	}
	return "SORT(?)"
}
