package inventory

import (
	"errors"
	"fmt"
)

const (
	duplicateBranchNameMessageConstant      = "duplicate branch name"
	multipleCurrentBranchesMessageConstant  = "more than one current branch"
	duplicateBranchNameTemplateConstant     = "%w: %s"
	multipleCurrentBranchesTemplateConstant = "%w: %s and %s"
)

// UpstreamStatus describes the relationship of a branch with its upstream.
type UpstreamStatus string

// Known upstream states.
const (
	UpstreamStatusTracking UpstreamStatus = UpstreamStatus("tracking")
	UpstreamStatusGone     UpstreamStatus = UpstreamStatus("gone")
	UpstreamStatusNone     UpstreamStatus = UpstreamStatus("none")
)

// ErrDuplicateBranchName indicates two entries share the same name.
var ErrDuplicateBranchName = errors.New(duplicateBranchNameMessageConstant)

// ErrMultipleCurrentBranches indicates more than one entry is marked current.
var ErrMultipleCurrentBranches = errors.New(multipleCurrentBranchesMessageConstant)

// Branch is a single local or remote-tracking branch as reported by git.
type Branch struct {
	Name              string
	IsCurrent         bool
	UpstreamStatus    UpstreamStatus
	Upstream          string
	LastCommitSummary string
}

// Collection is an ordered, name-indexed set of branches with at most one current entry.
type Collection struct {
	orderedNames  []string
	branchesByKey map[string]Branch
	currentName   string
}

// NewCollection validates the provided branches and keeps their order.
func NewCollection(branches []Branch) (Collection, error) {
	collection := Collection{
		orderedNames:  make([]string, 0, len(branches)),
		branchesByKey: make(map[string]Branch, len(branches)),
	}

	for _, branch := range branches {
		if _, exists := collection.branchesByKey[branch.Name]; exists {
			return Collection{}, fmt.Errorf(duplicateBranchNameTemplateConstant, ErrDuplicateBranchName, branch.Name)
		}
		if branch.IsCurrent {
			if len(collection.currentName) > 0 {
				return Collection{}, fmt.Errorf(multipleCurrentBranchesTemplateConstant, ErrMultipleCurrentBranches, collection.currentName, branch.Name)
			}
			collection.currentName = branch.Name
		}
		collection.orderedNames = append(collection.orderedNames, branch.Name)
		collection.branchesByKey[branch.Name] = branch
	}

	return collection, nil
}

// CurrentName returns the checked-out branch name, or an empty string when none is current.
func (collection Collection) CurrentName() string {
	return collection.currentName
}

// Branches returns a copy of the entries in presentation order.
func (collection Collection) Branches() []Branch {
	branches := make([]Branch, 0, len(collection.orderedNames))
	for _, name := range collection.orderedNames {
		branches = append(branches, collection.branchesByKey[name])
	}
	return branches
}

// Lookup returns the branch with the given name.
func (collection Collection) Lookup(name string) (Branch, bool) {
	branch, found := collection.branchesByKey[name]
	return branch, found
}

// Len reports the number of entries.
func (collection Collection) Len() int {
	return len(collection.orderedNames)
}

// IsEmpty reports whether the collection has no entries.
func (collection Collection) IsEmpty() bool {
	return collection.Len() == 0
}
