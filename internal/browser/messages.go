package browser

import "github.com/rxtech-lab/argo-signals/internal/types"

// ReportLoadedMsg carries a report read from disk.
type ReportLoadedMsg struct {
	Report types.Report
}

// LoadErrorMsg indicates a report could not be read.
type LoadErrorMsg struct {
	Err error
}
