package core

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/DecoyJoe/whitesource-plugin/internal/types"
)

// ============================================================================
// recordingBuildLog
// ============================================================================

// recordingBuildLog captures transcript lines for assertions
type recordingBuildLog struct {
	mu         sync.Mutex
	InfoLines  []string
	ErrorLines []string
}

// Info implements BuildLog
func (l *recordingBuildLog) Info(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.InfoLines = append(l.InfoLines, fmt.Sprintf(format, args...))
}

// Error implements BuildLog
func (l *recordingBuildLog) Error(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.ErrorLines = append(l.ErrorLines, fmt.Sprintf(format, args...))
}

func (l *recordingBuildLog) containsInfo(line string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.InfoLines {
		if s == line {
			return true
		}
	}
	return false
}

func (l *recordingBuildLog) containsError(line string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, s := range l.ErrorLines {
		if s == line {
			return true
		}
	}
	return false
}

// ============================================================================
// MockComplianceClient
// ============================================================================

// checkCall records one CheckPolicyCompliance invocation
type checkCall struct {
	OrgToken       string
	Product        string
	ProductVersion string
	Inventory      []types.ProjectInfo
	ForceCheckAll  bool
}

// updateCall records one UpdateInventory invocation
type updateCall struct {
	OrgToken       string
	RequesterEmail string
	Product        string
	ProductVersion string
	Inventory      []types.ProjectInfo
}

// MockComplianceClient implements ComplianceClient interface for testing
type MockComplianceClient struct {
	CheckFunc  func(orgToken, product, productVersion string, inventory []types.ProjectInfo, forceCheckAll bool) (*types.ComplianceVerdict, error)
	UpdateFunc func(orgToken, requesterEmail, product, productVersion string, inventory []types.ProjectInfo) (*types.InventoryUpdateResult, error)

	// Call tracking
	CheckCalls    []checkCall
	UpdateCalls   []updateCall
	ShutdownCalls int
}

// CheckPolicyCompliance implements ComplianceClient
func (m *MockComplianceClient) CheckPolicyCompliance(_ context.Context, orgToken, product, productVersion string, inventory []types.ProjectInfo, forceCheckAll bool) (*types.ComplianceVerdict, error) {
	m.CheckCalls = append(m.CheckCalls, checkCall{
		OrgToken:       orgToken,
		Product:        product,
		ProductVersion: productVersion,
		Inventory:      inventory,
		ForceCheckAll:  forceCheckAll,
	})
	if m.CheckFunc != nil {
		return m.CheckFunc(orgToken, product, productVersion, inventory, forceCheckAll)
	}
	return &types.ComplianceVerdict{Organization: "test-org"}, nil
}

// UpdateInventory implements ComplianceClient
func (m *MockComplianceClient) UpdateInventory(_ context.Context, orgToken, requesterEmail, product, productVersion string, inventory []types.ProjectInfo) (*types.InventoryUpdateResult, error) {
	m.UpdateCalls = append(m.UpdateCalls, updateCall{
		OrgToken:       orgToken,
		RequesterEmail: requesterEmail,
		Product:        product,
		ProductVersion: productVersion,
		Inventory:      inventory,
	})
	if m.UpdateFunc != nil {
		return m.UpdateFunc(orgToken, requesterEmail, product, productVersion, inventory)
	}
	return &types.InventoryUpdateResult{Organization: "test-org"}, nil
}

// Shutdown implements ComplianceClient
func (m *MockComplianceClient) Shutdown() {
	m.ShutdownCalls++
}

// ============================================================================
// MockExtractor
// ============================================================================

// MockExtractor implements OSSInfoExtractor and TopLevelNamer for testing
type MockExtractor struct {
	ExtractFunc func() ([]types.ProjectInfo, error)
	TopName     string

	ExtractCalls int
}

// Extract implements OSSInfoExtractor
func (m *MockExtractor) Extract() ([]types.ProjectInfo, error) {
	m.ExtractCalls++
	if m.ExtractFunc != nil {
		return m.ExtractFunc()
	}
	return nil, nil
}

// TopMostProjectName implements TopLevelNamer
func (m *MockExtractor) TopMostProjectName() string {
	return m.TopName
}

// ============================================================================
// Test helpers
// ============================================================================

// testInventory builds a minimal single-project inventory
func testInventory() []types.ProjectInfo {
	return []types.ProjectInfo{{
		Coordinates: types.Coordinates{ArtifactID: "app", Version: "1.0.0"},
		Dependencies: []types.DependencyInfo{
			{GroupID: "junit", ArtifactID: "junit", Version: "4.13", SHA1: "dead"},
		},
	}}
}

// newTestOrchestrator wires an orchestrator around mock collaborators with
// ambient proxy lookup disabled.
func newTestOrchestrator(client ComplianceClient, extractor OSSInfoExtractor, reportGen ReportGenerator, log BuildLog) *PipelineOrchestrator {
	return NewPipelineOrchestratorWith(
		func(cfg types.EffectiveConfig) ComplianceClient { return client },
		func(bctx types.BuildContext, job *types.JobConfig, l BuildLog) (OSSInfoExtractor, error) {
			return extractor, nil
		},
		reportGen,
		func() *AmbientProxy { return nil },
		log,
	)
}

// successBuildContext builds a BuildContext for a succeeded multi-module build
func successBuildContext(t *testing.T) types.BuildContext {
	return types.BuildContext{
		PriorSucceeded: true,
		Kind:           types.BuildKindMultiModule,
		ProjectName:    "app",
		BuildNumber:    42,
		WorkspaceDir:   t.TempDir(),
		ReportDir:      t.TempDir(),
	}
}
