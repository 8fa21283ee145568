package runstatus

import "strings"

const (
	Planning  = "Planning outputs"
	Rendering = "Rendering"
	Complete  = "Complete"
	Failed    = "Failed"
	Watching  = "Watching for changes"
)

func Key(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}
