package gitrepo

import (
	"strings"

	"github.com/temirov/git-branch-cleaner/internal/inventory"
)

const (
	listingLineSeparatorConstant  = "\n"
	listingFieldSeparatorConstant = "\x00"
	currentBranchMarkerConstant   = "*"
	goneTrackingMarkerConstant    = "[gone]"
	carriageReturnConstant        = "\r"
	listingFieldCountConstant     = 6
)

const (
	listingFieldHead = iota
	listingFieldName
	listingFieldUpstream
	listingFieldTrack
	listingFieldSubject
	listingFieldSymbolicReference
)

// parseBranchListing converts for-each-ref output into branches, skipping symbolic references.
func parseBranchListing(output string) []inventory.Branch {
	branches := []inventory.Branch{}
	for _, line := range strings.Split(output, listingLineSeparatorConstant) {
		trimmedLine := strings.TrimSuffix(line, carriageReturnConstant)
		if len(strings.TrimSpace(trimmedLine)) == 0 {
			continue
		}

		fields := strings.SplitN(trimmedLine, listingFieldSeparatorConstant, listingFieldCountConstant)
		for len(fields) < listingFieldCountConstant {
			fields = append(fields, "")
		}

		branchName := strings.TrimSpace(fields[listingFieldName])
		if len(branchName) == 0 || len(strings.TrimSpace(fields[listingFieldSymbolicReference])) > 0 {
			continue
		}

		upstream := strings.TrimSpace(fields[listingFieldUpstream])
		branches = append(branches, inventory.Branch{
			Name:              branchName,
			IsCurrent:         strings.TrimSpace(fields[listingFieldHead]) == currentBranchMarkerConstant,
			UpstreamStatus:    resolveUpstreamStatus(upstream, fields[listingFieldTrack]),
			Upstream:          upstream,
			LastCommitSummary: strings.TrimSpace(fields[listingFieldSubject]),
		})
	}
	return branches
}

func resolveUpstreamStatus(upstream string, track string) inventory.UpstreamStatus {
	if len(upstream) == 0 {
		return inventory.UpstreamStatusNone
	}
	if strings.TrimSpace(track) == goneTrackingMarkerConstant {
		return inventory.UpstreamStatusGone
	}
	return inventory.UpstreamStatusTracking
}
