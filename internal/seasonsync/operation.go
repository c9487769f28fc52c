package seasonsync

import (
	"fmt"
	"strings"
)

// Operation names one refresh of the synchronized state.
type Operation string

const (
	OpAll       Operation = "all"
	OpSchedule  Operation = "schedule"
	OpWorld     Operation = "world"
	OpStats     Operation = "stats"
	OpSummaries Operation = "summaries"
)

// Operations lists the individual refreshes in the order RefreshAll starts them.
var Operations = []Operation{OpSchedule, OpWorld, OpStats, OpSummaries}

// ParseOperation maps a name to an Operation. An empty name means OpAll.
func ParseOperation(name string) (Operation, error) {
	switch op := Operation(strings.ToLower(strings.TrimSpace(name))); op {
	case "":
		return OpAll, nil
	case OpAll, OpSchedule, OpWorld, OpStats, OpSummaries:
		return op, nil
	default:
		return "", fmt.Errorf("unknown refresh operation %q", name)
	}
}
