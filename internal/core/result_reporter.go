package core

import (
	"strings"

	"github.com/DecoyJoe/whitesource-plugin/internal/types"
)

// ResultReporter formats service results onto the build transcript. The line
// ordering and content of ReportUpdate is an observable contract: operators
// parse these lines from the build log.
type ResultReporter struct {
	log BuildLog
}

// NewResultReporter creates a ResultReporter writing to the given log sink.
func NewResultReporter(log BuildLog) *ResultReporter {
	if log == nil {
		log = SilentBuildLog{}
	}
	return &ResultReporter{log: log}
}

// ReportVerdict writes the policy check conclusion.
func (r *ResultReporter) ReportVerdict(verdict *types.ComplianceVerdict) {
	if !verdict.HasRejections() {
		r.log.Info("All dependencies conform with open source policies.")
		return
	}

	r.log.Error("%d librar(ies) rejected by organization policies:", len(verdict.RejectedLibraries))
	for _, lib := range verdict.RejectedLibraries {
		line := lib.Name
		if lib.Version != "" {
			line += " " + lib.Version
		}
		if lib.PolicyName != "" {
			line += " (policy: " + lib.PolicyName + ")"
		}
		r.log.Error("  %s", line)
	}
}

// ReportUpdate writes the structured inventory update result: organization
// name, then created projects (count and identifiers), then updated projects
// (count and identifiers), in that order.
func (r *ResultReporter) ReportUpdate(result *types.InventoryUpdateResult) {
	r.log.Info("White Source update results: ")
	r.log.Info("White Source organization: %s", result.Organization)
	r.log.Info("%d Newly created projects:", len(result.CreatedProjects))
	r.log.Info("%s", strings.Join(result.CreatedProjects, ","))
	r.log.Info("%d existing projects were updated:", len(result.UpdatedProjects))
	r.log.Info("%s", strings.Join(result.UpdatedProjects, ","))
}
