package inventory

import (
	"github.com/samber/lo"
)

// DisplayClass determines how a branch is rendered in a full listing.
type DisplayClass string

// Display classes for SelectAll.
const (
	DisplayClassCurrent DisplayClass = DisplayClass("current")
	DisplayClassStale   DisplayClass = DisplayClass("stale")
	DisplayClassNormal  DisplayClass = DisplayClass("normal")
)

// ClassifiedBranch pairs a branch with its display class.
type ClassifiedBranch struct {
	Branch       Branch
	DisplayClass DisplayClass
}

// SelectDeletable returns branches that are neither protected nor current.
func SelectDeletable(collection Collection, policy ProtectionPolicy) []Branch {
	return lo.Filter(collection.Branches(), func(branch Branch, _ int) bool {
		return isDeletionCandidate(collection, policy, branch)
	})
}

// SelectMerged applies the deletable rule to a collection fetched with the merged filter.
func SelectMerged(mergedCollection Collection, policy ProtectionPolicy) []Branch {
	return SelectDeletable(mergedCollection, policy)
}

// SelectStale returns branches whose upstream is gone, excluding the current branch.
// Protected names are not filtered here.
func SelectStale(collection Collection) []Branch {
	return lo.Filter(collection.Branches(), func(branch Branch, _ int) bool {
		return branch.UpstreamStatus == UpstreamStatusGone && branch.Name != collection.CurrentName()
	})
}

// SelectAll classifies every branch for display; current takes precedence over stale.
func SelectAll(collection Collection) []ClassifiedBranch {
	return lo.Map(collection.Branches(), func(branch Branch, _ int) ClassifiedBranch {
		return ClassifiedBranch{Branch: branch, DisplayClass: classifyForDisplay(collection, branch)}
	})
}

// SelectRemoteDeletable returns remote-tracking branches of the policy's remote that are not protected.
func SelectRemoteDeletable(remoteCollection Collection, policy ProtectionPolicy) []Branch {
	return lo.Filter(remoteCollection.Branches(), func(branch Branch, _ int) bool {
		return policy.BelongsToRemote(branch.Name) && !policy.IsProtectedRemote(branch.Name)
	})
}

// Names projects branches onto their names.
func Names(branches []Branch) []string {
	return lo.Map(branches, func(branch Branch, _ int) string {
		return branch.Name
	})
}

func isDeletionCandidate(collection Collection, policy ProtectionPolicy, branch Branch) bool {
	if policy.IsProtected(branch.Name) {
		return false
	}
	if branch.IsCurrent || branch.Name == collection.CurrentName() {
		return false
	}
	return true
}

func classifyForDisplay(collection Collection, branch Branch) DisplayClass {
	if branch.IsCurrent || branch.Name == collection.CurrentName() {
		return DisplayClassCurrent
	}
	if branch.UpstreamStatus == UpstreamStatusGone {
		return DisplayClassStale
	}
	return DisplayClassNormal
}
