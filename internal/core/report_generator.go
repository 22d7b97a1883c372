package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/DecoyJoe/whitesource-plugin/internal/types"
	"github.com/DecoyJoe/whitesource-plugin/internal/version"
)

const reportSchemaVersion = "1.0"

// ReportGenerator renders a policy check verdict into a report artifact that
// the host build can attach. Returns the artifact path.
type ReportGenerator interface {
	Generate(verdict *types.ComplianceVerdict, projectName, buildNumber, destDir string) (string, error)
}

// Compile-time interface satisfaction check.
var _ ReportGenerator = (*PolicyCheckReportGenerator)(nil)

// PolicyCheckReportGenerator writes the policy check report as a JSON artifact
// plus a plain-text summary next to it.
type PolicyCheckReportGenerator struct{}

// NewPolicyCheckReportGenerator creates a PolicyCheckReportGenerator.
func NewPolicyCheckReportGenerator() *PolicyCheckReportGenerator {
	return &PolicyCheckReportGenerator{}
}

// policyCheckReport is the JSON shape of the report artifact.
type policyCheckReport struct {
	SchemaVersion string                  `json:"schema_version"`
	Generator     string                  `json:"generator"`
	Timestamp     string                  `json:"timestamp"`
	Project       string                  `json:"project"`
	BuildNumber   string                  `json:"build_number"`
	Organization  string                  `json:"organization"`
	Result        string                  `json:"result"` // PASS or FAIL
	Rejections    []types.RejectedLibrary `json:"rejections"`
}

// Generate implements ReportGenerator
func (g *PolicyCheckReportGenerator) Generate(verdict *types.ComplianceVerdict, projectName, buildNumber, destDir string) (string, error) {
	if err := os.MkdirAll(destDir, 0755); err != nil {
		return "", fmt.Errorf("create report directory: %w", err)
	}

	result := "PASS"
	if verdict.HasRejections() {
		result = "FAIL"
	}

	report := policyCheckReport{
		SchemaVersion: reportSchemaVersion,
		Generator:     "whitesource-plugin " + version.GetVersion(),
		Timestamp:     time.Now().UTC().Format(time.RFC3339),
		Project:       projectName,
		BuildNumber:   buildNumber,
		Organization:  verdict.Organization,
		Result:        result,
		Rejections:    verdict.RejectedLibraries,
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal policy check report: %w", err)
	}

	artifactPath := filepath.Join(destDir, "policy-check-report.json")
	if err := os.WriteFile(artifactPath, data, 0644); err != nil {
		return "", fmt.Errorf("write policy check report: %w", err)
	}

	summaryPath := filepath.Join(destDir, "policy-check-report.txt")
	if err := os.WriteFile(summaryPath, []byte(g.summary(&report)), 0644); err != nil {
		return "", fmt.Errorf("write policy check summary: %w", err)
	}

	return artifactPath, nil
}

// summary renders the human-readable companion to the JSON artifact.
func (g *PolicyCheckReportGenerator) summary(report *policyCheckReport) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Policy check report for %s #%s\n", report.Project, report.BuildNumber)
	fmt.Fprintf(&b, "Organization: %s\n", report.Organization)
	fmt.Fprintf(&b, "Result: %s\n", report.Result)
	if len(report.Rejections) == 0 {
		b.WriteString("No rejected libraries.\n")
		return b.String()
	}

	fmt.Fprintf(&b, "%d rejected librar(ies):\n", len(report.Rejections))
	for _, r := range report.Rejections {
		line := r.Name
		if r.Version != "" {
			line += " " + r.Version
		}
		if r.PolicyName != "" {
			line += " (policy: " + r.PolicyName + ")"
		}
		fmt.Fprintf(&b, "  - %s\n", line)
	}
	return b.String()
}
