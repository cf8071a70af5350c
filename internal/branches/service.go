package branches

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/temirov/git-branch-cleaner/internal/inventory"
	"github.com/temirov/git-branch-cleaner/internal/ui"
)

const (
	interactionNotConfiguredMessageConstant = "interaction not configured"
	fetchProgressTemplateConstant           = "Fetching %s..."
	fetchSucceededTemplateConstant          = "Fetched %s"
	fetchFailedTemplateConstant             = "Failed to fetch %s!"
	fetchErrorTemplateConstant              = "unable to fetch %s: %w"
	confirmationErrorTemplateConstant       = "unable to read confirmation: %w"
	selectionErrorTemplateConstant          = "unable to read selection: %w"
	deletionProgressMessageConstant         = "Deleting branches..."
	deletionSucceededMessageConstant        = "Successfully deleted branches!"
	deletionFailedMessageConstant           = "Failed to delete some branches!"
	confirmationPromptTemplateConstant      = "Are you sure you want to delete %d branches?"
	dryRunNoticeConstant                    = "Dry run mode: No branches will be deleted."
	deletionCancelledMessageConstant        = "Deletion cancelled."
	selectionCancelledMessageConstant       = "Selection cancelled."
	noBranchesSelectedMessageConstant       = "No branches selected for deletion."
	noBranchesFoundMessageConstant          = "No branches found."
	noStaleBranchesMessageConstant          = "No stale branches found!"
	noMergedBranchesMessageConstant         = "No merged branches found to clean up!"
	noDeletableBranchesMessageConstant      = "No branches available to delete!"
	noRemoteBranchesMessageConstant         = "No remote branches found to clean up!"
	mergedCandidatesHeaderConstant          = "Merged branches that can be deleted:"
	staleCandidatesHeaderConstant           = "Stale branches:"
	remoteCandidatesHeaderConstant          = "Remote branches that can be deleted:"
	requestedCandidatesHeaderConstant       = "Branches to delete:"
	selectionTitleConstant                  = "Select branches to delete"
	allBranchesLabelConstant                = "branches"
	mergedBranchesLabelConstant             = "merged branches"
	staleBranchesLabelConstant              = "stale branches"
	remoteBranchesLabelConstant             = "remote branches"
	flowStartedMessageConstant              = "branch flow started"
	flowCandidatesMessageConstant           = "branch candidates classified"
	logFieldFlowConstant                    = "flow"
	logFieldCandidateCountConstant          = "candidate_count"
	logFieldDeletedCountConstant            = "deleted_count"
	logFieldSkippedCountConstant            = "skipped_count"
	logFieldFailedCountConstant             = "failed_count"
	deletionFinishedMessageConstant         = "branch deletion finished"
)

// ErrInteractionNotConfigured indicates the service was created without an interaction surface.
var ErrInteractionNotConfigured = errors.New(interactionNotConfiguredMessageConstant)

// BranchGateway lists and deletes branches of one repository.
type BranchGateway interface {
	BranchDeleter
	FetchAllBranches(executionContext context.Context) (inventory.Collection, error)
	FetchMergedBranches(executionContext context.Context) (inventory.Collection, error)
	FetchRemoteBranches(executionContext context.Context) (inventory.Collection, error)
}

// Interaction shows progress and listings and collects decisions from the user.
type Interaction interface {
	Output() io.Writer
	Palette() ui.Palette
	StartProgress(message string) ui.Progress
	Confirm(prompt string) (bool, error)
	SelectMany(executionContext context.Context, title string, options []ui.SelectOption) ([]string, error)
}

// ListOptions controls read-only listings.
type ListOptions struct {
	Verbose bool
}

// CleanupOptions controls the list-then-delete flows.
type CleanupOptions struct {
	Verbose    bool
	AutoDelete bool
	DryRun     bool
	AssumeYes  bool
	Force      bool
}

// DeleteOptions controls the delete flow.
type DeleteOptions struct {
	Names     []string
	Force     bool
	DryRun    bool
	AssumeYes bool
}

type fetchFunction func(executionContext context.Context) (inventory.Collection, error)

type cleanupPlan struct {
	flowName         string
	fetchLabel       string
	fetch            fetchFunction
	selectCandidates func(collection inventory.Collection) []inventory.Branch
	header           string
	emptyMessage     string
	remote           bool
	options          CleanupOptions
}

// Service runs the branch commands against one repository.
type Service struct {
	logger      *zap.Logger
	gateway     BranchGateway
	interaction Interaction
	policy      inventory.ProtectionPolicy
	workflow    *DeletionWorkflow
	renderer    reportRenderer
}

// NewService wires a Service; a nil logger disables logging.
func NewService(logger *zap.Logger, gateway BranchGateway, interaction Interaction, policy inventory.ProtectionPolicy) (*Service, error) {
	if gateway == nil {
		return nil, ErrGatewayNotConfigured
	}
	if interaction == nil {
		return nil, ErrInteractionNotConfigured
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	workflow, workflowError := NewDeletionWorkflow(logger, gateway, policy)
	if workflowError != nil {
		return nil, workflowError
	}

	return &Service{
		logger:      logger,
		gateway:     gateway,
		interaction: interaction,
		policy:      policy,
		workflow:    workflow,
		renderer:    newReportRenderer(interaction.Output(), interaction.Palette()),
	}, nil
}

// ListAll prints every local branch, marking the current one and highlighting stale ones.
func (service *Service) ListAll(executionContext context.Context) error {
	collection, fetchError := service.fetch(executionContext, allBranchesLabelConstant, service.gateway.FetchAllBranches)
	if fetchError != nil {
		return fetchError
	}

	classifiedBranches := inventory.SelectAll(collection)
	if len(classifiedBranches) == 0 {
		service.renderer.renderMessage(noBranchesFoundMessageConstant)
		return nil
	}
	service.renderer.renderClassified(classifiedBranches)
	return nil
}

// ListStale prints branches whose upstream is gone.
func (service *Service) ListStale(executionContext context.Context, options ListOptions) error {
	collection, fetchError := service.fetch(executionContext, staleBranchesLabelConstant, service.gateway.FetchAllBranches)
	if fetchError != nil {
		return fetchError
	}

	staleBranches := inventory.SelectStale(collection)
	if len(staleBranches) == 0 {
		service.renderer.renderMessage(noStaleBranchesMessageConstant)
		return nil
	}
	service.renderer.renderCandidates(staleCandidatesHeaderConstant, staleBranches, options.Verbose)
	return nil
}

// CleanMerged deletes local branches merged into HEAD. Merged branches are never force-deleted.
func (service *Service) CleanMerged(executionContext context.Context, options CleanupOptions) error {
	options.Force = false
	return service.runCleanup(executionContext, cleanupPlan{
		flowName:   "clean-merged",
		fetchLabel: mergedBranchesLabelConstant,
		fetch:      service.gateway.FetchMergedBranches,
		selectCandidates: func(collection inventory.Collection) []inventory.Branch {
			return inventory.SelectMerged(collection, service.policy)
		},
		header:       mergedCandidatesHeaderConstant,
		emptyMessage: noMergedBranchesMessageConstant,
		options:      options,
	})
}

// CleanStale deletes local branches whose upstream is gone, skipping protected names.
func (service *Service) CleanStale(executionContext context.Context, options CleanupOptions) error {
	return service.runCleanup(executionContext, cleanupPlan{
		flowName:   "clean-stale",
		fetchLabel: staleBranchesLabelConstant,
		fetch:      service.gateway.FetchAllBranches,
		selectCandidates: func(collection inventory.Collection) []inventory.Branch {
			return lo.Reject(inventory.SelectStale(collection), func(branch inventory.Branch, _ int) bool {
				return service.policy.IsProtected(branch.Name)
			})
		},
		header:       staleCandidatesHeaderConstant,
		emptyMessage: noStaleBranchesMessageConstant,
		options:      options,
	})
}

// CleanRemote deletes remote-tracking branches of the configured remote on that remote.
func (service *Service) CleanRemote(executionContext context.Context, options CleanupOptions) error {
	return service.runCleanup(executionContext, cleanupPlan{
		flowName:   "clean-remote",
		fetchLabel: remoteBranchesLabelConstant,
		fetch:      service.gateway.FetchRemoteBranches,
		selectCandidates: func(collection inventory.Collection) []inventory.Branch {
			return inventory.SelectRemoteDeletable(collection, service.policy)
		},
		header:       remoteCandidatesHeaderConstant,
		emptyMessage: noRemoteBranchesMessageConstant,
		remote:       true,
		options:      options,
	})
}

// Delete removes the named branches, or lets the user pick among deletable branches when no names are given.
func (service *Service) Delete(executionContext context.Context, options DeleteOptions) error {
	if len(options.Names) > 0 {
		service.logger.Debug(flowStartedMessageConstant, zap.String(logFieldFlowConstant, "delete"), zap.Int(logFieldCandidateCountConstant, len(options.Names)))
		if options.DryRun {
			service.renderer.renderCandidates(requestedCandidatesHeaderConstant, namesToBranches(options.Names), false)
			service.renderer.renderNotice(dryRunNoticeConstant)
			return nil
		}
		service.deleteAndReport(executionContext, options.Names, options.Force, false)
		return nil
	}

	collection, fetchError := service.fetch(executionContext, allBranchesLabelConstant, service.gateway.FetchAllBranches)
	if fetchError != nil {
		return fetchError
	}

	deletableBranches := inventory.SelectDeletable(collection, service.policy)
	if len(deletableBranches) == 0 {
		service.renderer.renderMessage(noDeletableBranchesMessageConstant)
		return nil
	}

	selectedNames, selectionError := service.interaction.SelectMany(executionContext, selectionTitleConstant, buildSelectOptions(deletableBranches))
	if selectionError != nil {
		if errors.Is(selectionError, ui.ErrPromptCancelled) {
			service.renderer.renderNotice(selectionCancelledMessageConstant)
			return nil
		}
		return fmt.Errorf(selectionErrorTemplateConstant, selectionError)
	}
	if len(selectedNames) == 0 {
		service.renderer.renderNotice(noBranchesSelectedMessageConstant)
		return nil
	}

	if options.DryRun {
		service.renderer.renderCandidates(requestedCandidatesHeaderConstant, namesToBranches(selectedNames), false)
		service.renderer.renderNotice(dryRunNoticeConstant)
		return nil
	}

	proceed, confirmationError := service.confirmDeletion(len(selectedNames), options.AssumeYes)
	if confirmationError != nil || !proceed {
		return confirmationError
	}

	service.deleteAndReport(executionContext, selectedNames, options.Force, false)
	return nil
}

func (service *Service) runCleanup(executionContext context.Context, plan cleanupPlan) error {
	service.logger.Debug(flowStartedMessageConstant, zap.String(logFieldFlowConstant, plan.flowName))

	collection, fetchError := service.fetch(executionContext, plan.fetchLabel, plan.fetch)
	if fetchError != nil {
		return fetchError
	}

	candidates := plan.selectCandidates(collection)
	service.logger.Debug(flowCandidatesMessageConstant, zap.String(logFieldFlowConstant, plan.flowName), zap.Int(logFieldCandidateCountConstant, len(candidates)))
	if len(candidates) == 0 {
		service.renderer.renderMessage(plan.emptyMessage)
		return nil
	}

	service.renderer.renderCandidates(plan.header, candidates, plan.options.Verbose)
	if plan.options.DryRun {
		service.renderer.renderNotice(dryRunNoticeConstant)
		return nil
	}

	proceed, confirmationError := service.confirmDeletion(len(candidates), plan.options.AutoDelete || plan.options.AssumeYes)
	if confirmationError != nil || !proceed {
		return confirmationError
	}

	service.deleteAndReport(executionContext, inventory.Names(candidates), plan.options.Force, plan.remote)
	return nil
}

func (service *Service) fetch(executionContext context.Context, label string, fetch fetchFunction) (inventory.Collection, error) {
	progress := service.interaction.StartProgress(fmt.Sprintf(fetchProgressTemplateConstant, label))
	collection, fetchError := fetch(executionContext)
	if fetchError != nil {
		progress.Fail(fmt.Sprintf(fetchFailedTemplateConstant, label))
		return inventory.Collection{}, fmt.Errorf(fetchErrorTemplateConstant, label, fetchError)
	}
	progress.Succeed(fmt.Sprintf(fetchSucceededTemplateConstant, label))
	return collection, nil
}

// confirmDeletion reports whether to proceed; a declined or cancelled prompt prints a notice and returns false.
func (service *Service) confirmDeletion(count int, skipPrompt bool) (bool, error) {
	if skipPrompt {
		return true, nil
	}

	confirmed, confirmationError := service.interaction.Confirm(fmt.Sprintf(confirmationPromptTemplateConstant, count))
	if confirmationError != nil && !errors.Is(confirmationError, ui.ErrPromptCancelled) {
		return false, fmt.Errorf(confirmationErrorTemplateConstant, confirmationError)
	}
	if confirmationError != nil || !confirmed {
		service.renderer.renderNotice(deletionCancelledMessageConstant)
		return false, nil
	}
	return true, nil
}

func (service *Service) deleteAndReport(executionContext context.Context, names []string, force bool, remote bool) {
	progress := service.interaction.StartProgress(deletionProgressMessageConstant)

	var results []DeletionResult
	if remote {
		results = service.workflow.ExecuteRemoteDeletion(executionContext, names)
	} else {
		results = service.workflow.ExecuteDeletion(executionContext, names, force)
	}

	summary := Summarize(results)
	if summary.Failed > 0 {
		progress.Fail(deletionFailedMessageConstant)
	} else {
		progress.Succeed(deletionSucceededMessageConstant)
	}

	service.logger.Info(
		deletionFinishedMessageConstant,
		zap.Int(logFieldDeletedCountConstant, summary.Deleted),
		zap.Int(logFieldSkippedCountConstant, summary.Skipped),
		zap.Int(logFieldFailedCountConstant, summary.Failed),
	)
	service.renderer.renderResults(results)
}

func buildSelectOptions(branches []inventory.Branch) []ui.SelectOption {
	return lo.Map(branches, func(branch inventory.Branch, _ int) ui.SelectOption {
		return ui.SelectOption{Value: branch.Name, Label: branch.Name, Detail: branch.LastCommitSummary}
	})
}

func namesToBranches(names []string) []inventory.Branch {
	return lo.Map(names, func(name string, _ int) inventory.Branch {
		return inventory.Branch{Name: name}
	})
}
