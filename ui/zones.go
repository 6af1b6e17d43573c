package ui

import "fmt"

// Zone ID constants for bubblezone hit detection.
// Used both in render paths (zone.Mark) and input paths (zone.Get().InBounds).
const (
	ZoneSidebar     = "zone-sidebar"
	ZoneTaskList    = "zone-task-list"
	ZoneDetailPane  = "zone-detail-pane"
	ZoneFilterAll   = "zone-filter-all"
	ZoneFilterToday = "zone-filter-today"
	ZoneFilterWeek  = "zone-filter-week"
)

// FilterZoneIDs maps filter index to zone ID, in tab order.
var FilterZoneIDs = [3]string{ZoneFilterAll, ZoneFilterToday, ZoneFilterWeek}

// SidebarRowZoneID returns the zone ID for a sidebar project row.
func SidebarRowZoneID(idx int) string {
	return fmt.Sprintf("zone-sidebar-row-%d", idx)
}

// TaskRowZoneID returns the zone ID for a task list row by its visible index.
func TaskRowZoneID(idx int) string {
	return fmt.Sprintf("zone-task-row-%d", idx)
}
