package branches

import (
	"errors"
	"fmt"
	"io"

	"github.com/temirov/git-branch-cleaner/internal/gitrepo"
	"github.com/temirov/git-branch-cleaner/internal/inventory"
	"github.com/temirov/git-branch-cleaner/internal/ui"
)

const (
	currentBranchPrefixConstant       = "* "
	otherBranchPrefixConstant         = "  "
	candidatePrefixConstant           = "  - "
	listingHeaderTemplateConstant     = "%s\n"
	listingLineTemplateConstant       = "%s%s\n"
	lastCommitLineTemplateConstant    = "    Last commit: %s\n"
	upstreamLineTemplateConstant      = "    Upstream: %s (gone)\n"
	messageLineTemplateConstant       = "%s\n"
	deletedLineTemplateConstant       = "%s Deleted branch: %s\n"
	skippedLineTemplateConstant       = "%s Skipping %s branch: %s\n"
	failedLineTemplateConstant        = "%s Failed to delete branch %s: %s\n"
	summaryLineTemplateConstant       = "Deleted %d, skipped %d, failed %d\n"
	deletedMarkerConstant             = "✔"
	skippedMarkerConstant             = "-"
	failedMarkerConstant              = "✖"
	notFullyMergedHintConstant        = "not fully merged (use --force to delete anyway)"
	notFoundHintConstant              = "branch not found"
	unknownFailureDescriptionConstant = "unknown error"
	missingCommitSummaryConstant      = "(no commit message)"
)

// reportRenderer writes listings and deletion reports to the console output.
type reportRenderer struct {
	writer  io.Writer
	palette ui.Palette
}

func newReportRenderer(writer io.Writer, palette ui.Palette) reportRenderer {
	return reportRenderer{writer: writer, palette: palette}
}

func (renderer reportRenderer) renderClassified(classifiedBranches []inventory.ClassifiedBranch) {
	for _, classifiedBranch := range classifiedBranches {
		branchName := classifiedBranch.Branch.Name
		switch classifiedBranch.DisplayClass {
		case inventory.DisplayClassCurrent:
			renderer.printf(listingLineTemplateConstant, currentBranchPrefixConstant, renderer.palette.Current(branchName))
		case inventory.DisplayClassStale:
			renderer.printf(listingLineTemplateConstant, otherBranchPrefixConstant, renderer.palette.Stale(branchName))
		default:
			renderer.printf(listingLineTemplateConstant, otherBranchPrefixConstant, branchName)
		}
	}
}

func (renderer reportRenderer) renderCandidates(header string, candidates []inventory.Branch, verbose bool) {
	renderer.printf(listingHeaderTemplateConstant, renderer.palette.Warning(header))
	for _, candidate := range candidates {
		renderer.printf(listingLineTemplateConstant, candidatePrefixConstant, renderer.palette.Header(candidate.Name))
		if !verbose {
			continue
		}
		if candidate.UpstreamStatus == inventory.UpstreamStatusGone && len(candidate.Upstream) > 0 {
			renderer.printf(upstreamLineTemplateConstant, renderer.palette.Stale(candidate.Upstream))
		}
		renderer.printf(lastCommitLineTemplateConstant, renderer.palette.Muted(describeCommitSummary(candidate.LastCommitSummary)))
	}
}

func (renderer reportRenderer) renderMessage(message string) {
	renderer.printf(messageLineTemplateConstant, message)
}

func (renderer reportRenderer) renderNotice(message string) {
	renderer.printf(messageLineTemplateConstant, renderer.palette.Warning(message))
}

func (renderer reportRenderer) renderResults(results []DeletionResult) DeletionSummary {
	for _, result := range results {
		switch result.Outcome {
		case OutcomeDeleted:
			renderer.printf(deletedLineTemplateConstant, renderer.palette.Success(deletedMarkerConstant), result.Name)
		case OutcomeSkipped:
			renderer.printf(skippedLineTemplateConstant, renderer.palette.Warning(skippedMarkerConstant), result.SkipReason, result.Name)
		case OutcomeFailed:
			renderer.printf(failedLineTemplateConstant, renderer.palette.Failure(failedMarkerConstant), result.Name, describeDeletionFailure(result.Err))
		}
	}

	summary := Summarize(results)
	renderer.printf(summaryLineTemplateConstant, summary.Deleted, summary.Skipped, summary.Failed)
	return summary
}

func (renderer reportRenderer) printf(template string, arguments ...any) {
	_, _ = fmt.Fprintf(renderer.writer, template, arguments...)
}

func describeDeletionFailure(deletionError error) string {
	switch {
	case deletionError == nil:
		return unknownFailureDescriptionConstant
	case errors.Is(deletionError, gitrepo.ErrBranchNotFullyMerged):
		return notFullyMergedHintConstant
	case errors.Is(deletionError, gitrepo.ErrBranchNotFound):
		return notFoundHintConstant
	default:
		return deletionError.Error()
	}
}

func describeCommitSummary(summary string) string {
	if len(summary) == 0 {
		return missingCommitSummaryConstant
	}
	return summary
}
