package core

import (
	"context"
	"strconv"
	"strings"

	"github.com/DecoyJoe/whitesource-plugin/internal/types"
)

// PipelineOrchestrator drives one post-build publisher run: it gates on the
// prior build outcome, resolves layered configuration, collects the project
// inventory, optionally checks it against organization policies, and reports
// it to the compliance service. All failures are resolved to a BuildOutcome
// here; nothing escapes to the host runtime.
type PipelineOrchestrator struct {
	clientFactory    ClientFactory
	extractorFactory ExtractorFactory
	reportGen        ReportGenerator
	ambientProxy     func() *AmbientProxy
	reporter         *ResultReporter
	log              BuildLog
}

// NewPipelineOrchestrator creates an orchestrator with default dependencies.
func NewPipelineOrchestrator(log BuildLog) *PipelineOrchestrator {
	if log == nil {
		log = SilentBuildLog{}
	}
	return &PipelineOrchestrator{
		clientFactory:    func(cfg types.EffectiveConfig) ComplianceClient { return NewComplianceClient(cfg) },
		extractorFactory: NewExtractorForKind,
		reportGen:        NewPolicyCheckReportGenerator(),
		ambientProxy:     LookupAmbientProxy,
		reporter:         NewResultReporter(log),
		log:              log,
	}
}

// NewPipelineOrchestratorWith creates an orchestrator with injected
// dependencies (useful for testing).
func NewPipelineOrchestratorWith(
	clientFactory ClientFactory,
	extractorFactory ExtractorFactory,
	reportGen ReportGenerator,
	ambientProxy func() *AmbientProxy,
	log BuildLog,
) *PipelineOrchestrator {
	if log == nil {
		log = SilentBuildLog{}
	}
	if ambientProxy == nil {
		ambientProxy = LookupAmbientProxy
	}
	return &PipelineOrchestrator{
		clientFactory:    clientFactory,
		extractorFactory: extractorFactory,
		reportGen:        reportGen,
		ambientProxy:     ambientProxy,
		reporter:         NewResultReporter(log),
		log:              log,
	}
}

// Run executes the publisher pipeline for one finished build and returns the
// outcome to apply to the host build record.
//
// Configuration gaps (failed prior stage, legacy build kind, missing API
// token, empty inventory) are informational no-ops. Policy rejections and
// unrecognized build kinds always fail the build. Service and transport
// errors fail the build only when fail-on-error is enabled.
func (p *PipelineOrchestrator) Run(ctx context.Context, bctx types.BuildContext, job *types.JobConfig, global *types.GlobalConfig) types.BuildOutcome {
	return p.run(ctx, bctx, job, global, false)
}

// Check executes only the policy compliance half of the pipeline: inventory is
// collected and checked against organization policies, but never submitted.
// With policy checking disabled in both configuration layers it still checks,
// using the new-dependencies scope.
func (p *PipelineOrchestrator) Check(ctx context.Context, bctx types.BuildContext, job *types.JobConfig, global *types.GlobalConfig) types.BuildOutcome {
	return p.run(ctx, bctx, job, global, true)
}

func (p *PipelineOrchestrator) run(ctx context.Context, bctx types.BuildContext, job *types.JobConfig, global *types.GlobalConfig, checkOnly bool) types.BuildOutcome {
	p.log.Info("Updating White Source")

	if !bctx.PriorSucceeded {
		p.log.Info("Build failed. Skipping update.")
		return types.OutcomeContinue
	}

	if bctx.Kind == types.BuildKindLegacyMultiModule {
		p.log.Info("Legacy multi-module jobs are not supported in this version. See plugin documentation.")
		return types.OutcomeContinue
	}

	// make sure we have an organization token
	apiToken := global.APIToken
	if strings.TrimSpace(job.APIToken) != "" {
		apiToken = job.APIToken
	}
	if strings.TrimSpace(apiToken) == "" {
		p.log.Info("No API token configured. Skipping update.")
		return types.OutcomeContinue
	}

	mode, checkAllLibraries := ResolvePolicyCheck(job.CheckPolicies, global.CheckPolicies)

	p.log.Info("Collecting OSS usage information")
	extractor, err := p.extractorFactory(bctx, job, p.log)
	if err != nil {
		// An unrecognized kind is a misconfiguration, not an absence of data.
		p.log.Error("%v", err)
		return types.OutcomeFailed
	}

	inventory, err := extractor.Extract()
	if err != nil {
		p.log.Error("Failed to collect open source usage information: %v", err)
		return types.OutcomeFailed
	}

	productNameOrToken := job.Product
	if strings.TrimSpace(productNameOrToken) == "" && bctx.Kind == types.BuildKindMultiModule {
		if namer, ok := extractor.(TopLevelNamer); ok {
			productNameOrToken = namer.TopMostProjectName()
		}
	}

	if len(inventory) == 0 {
		p.log.Info("No open source information found.")
		return types.OutcomeContinue
	}

	proxy := ResolveProxy(global, p.ambientProxy())
	effective := ResolveEffectiveConfig(job, global, proxy)

	client := p.clientFactory(effective)
	defer client.Shutdown()

	if checkOnly && mode == types.PolicyCheckDisabled {
		mode = types.PolicyCheckNewOnly
	}

	if mode != types.PolicyCheckDisabled {
		p.log.Info("Checking policies")
		verdict, err := client.CheckPolicyCompliance(ctx, apiToken, productNameOrToken, job.ProductVersion, inventory, checkAllLibraries)
		if err != nil {
			return p.stopOnError(effective.FailOnError, err)
		}

		p.generateReport(verdict, bctx)

		if verdict.HasRejections() {
			p.reporter.ReportVerdict(verdict)
			p.log.Error("Open source rejected by organization policies.")
			return types.OutcomeFailed
		}

		p.log.Info("All dependencies conform with open source policies.")
	}

	if checkOnly {
		return types.OutcomeContinue
	}

	p.log.Info("Sending to White Source")
	result, err := client.UpdateInventory(ctx, apiToken, job.RequesterEmail, productNameOrToken, job.ProductVersion, inventory)
	if err != nil {
		return p.stopOnError(effective.FailOnError, err)
	}

	p.reporter.ReportUpdate(result)
	return types.OutcomeContinue
}

// generateReport renders the policy check report artifact. Best-effort: a
// report failure never changes the run's outcome.
func (p *PipelineOrchestrator) generateReport(verdict *types.ComplianceVerdict, bctx types.BuildContext) {
	if p.reportGen == nil {
		return
	}
	p.log.Info("Generating policy check report")
	artifactPath, err := p.reportGen.Generate(verdict, bctx.ProjectName, strconv.Itoa(bctx.BuildNumber), bctx.ReportDir)
	if err != nil {
		p.log.Error("Failed to generate policy check report: %v", err)
		return
	}
	p.log.Info("Policy check report: %s", artifactPath)
}

// stopOnError converts a service or transport error into a build outcome per
// the fail-on-error rule.
func (p *PipelineOrchestrator) stopOnError(failOnError bool, err error) types.BuildOutcome {
	p.log.Error("White Source Publisher failure: %v", err)
	if failOnError {
		return types.OutcomeConditionalFailure
	}
	return types.OutcomeContinue
}
