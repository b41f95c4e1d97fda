package simplex

import "fmt"

// sprintf is a thin indirection so Config.log has one place to change the
// formatting strategy; kept separate from fmt.Sprintf only so log.go stays
// the single file that knows about message formatting.
func sprintf(format string, args ...interface{}) string {
	return fmt.Sprintf(format, args...)
}
