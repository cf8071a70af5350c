package branches_test

import (
	"bytes"
	"context"
	"io"

	"github.com/temirov/git-branch-cleaner/internal/inventory"
	"github.com/temirov/git-branch-cleaner/internal/ui"
)

type deletionCall struct {
	name       string
	force      bool
	remote     bool
	remoteName string
}

type fakeBranchGateway struct {
	allBranches      []inventory.Branch
	mergedBranches   []inventory.Branch
	remoteBranches   []inventory.Branch
	fetchError       error
	deletionFailures map[string]error
	fetchCount       int
	deletionCalls    []deletionCall
}

func (gateway *fakeBranchGateway) FetchAllBranches(executionContext context.Context) (inventory.Collection, error) {
	return gateway.fetch(gateway.allBranches)
}

func (gateway *fakeBranchGateway) FetchMergedBranches(executionContext context.Context) (inventory.Collection, error) {
	return gateway.fetch(gateway.mergedBranches)
}

func (gateway *fakeBranchGateway) FetchRemoteBranches(executionContext context.Context) (inventory.Collection, error) {
	return gateway.fetch(gateway.remoteBranches)
}

func (gateway *fakeBranchGateway) DeleteLocal(executionContext context.Context, name string, force bool) error {
	gateway.deletionCalls = append(gateway.deletionCalls, deletionCall{name: name, force: force})
	return gateway.deletionFailures[name]
}

func (gateway *fakeBranchGateway) DeleteRemote(executionContext context.Context, remoteName string, qualifiedName string) error {
	gateway.deletionCalls = append(gateway.deletionCalls, deletionCall{name: qualifiedName, remote: true, remoteName: remoteName})
	return gateway.deletionFailures[qualifiedName]
}

func (gateway *fakeBranchGateway) fetch(branches []inventory.Branch) (inventory.Collection, error) {
	gateway.fetchCount++
	if gateway.fetchError != nil {
		return inventory.Collection{}, gateway.fetchError
	}
	return inventory.NewCollection(branches)
}

func (gateway *fakeBranchGateway) deletedNames() []string {
	names := make([]string, 0, len(gateway.deletionCalls))
	for _, call := range gateway.deletionCalls {
		names = append(names, call.name)
	}
	return names
}

type recordedProgress struct {
	started  string
	finished string
	failed   bool
}

type fakeProgress struct {
	record *recordedProgress
}

func (progress fakeProgress) Succeed(message string) {
	progress.record.finished = message
}

func (progress fakeProgress) Fail(message string) {
	progress.record.finished = message
	progress.record.failed = true
}

type fakeInteraction struct {
	output          *bytes.Buffer
	confirmAnswer   bool
	confirmError    error
	selection       []string
	selectionError  error
	confirmPrompts  []string
	offeredOptions  []ui.SelectOption
	selectCallCount int
	progressRecords []*recordedProgress
}

func newFakeInteraction() *fakeInteraction {
	return &fakeInteraction{output: &bytes.Buffer{}}
}

func (interaction *fakeInteraction) Output() io.Writer {
	return interaction.output
}

func (interaction *fakeInteraction) Palette() ui.Palette {
	return ui.NewPalette(interaction.output)
}

func (interaction *fakeInteraction) StartProgress(message string) ui.Progress {
	record := &recordedProgress{started: message}
	interaction.progressRecords = append(interaction.progressRecords, record)
	return fakeProgress{record: record}
}

func (interaction *fakeInteraction) Confirm(prompt string) (bool, error) {
	interaction.confirmPrompts = append(interaction.confirmPrompts, prompt)
	return interaction.confirmAnswer, interaction.confirmError
}

func (interaction *fakeInteraction) SelectMany(executionContext context.Context, title string, options []ui.SelectOption) ([]string, error) {
	interaction.selectCallCount++
	interaction.offeredOptions = append([]ui.SelectOption{}, options...)
	return interaction.selection, interaction.selectionError
}

func localBranch(name string, current bool, status inventory.UpstreamStatus) inventory.Branch {
	upstream := ""
	if status != inventory.UpstreamStatusNone {
		upstream = "origin/" + name
	}
	return inventory.Branch{Name: name, IsCurrent: current, UpstreamStatus: status, Upstream: upstream, LastCommitSummary: "work on " + name}
}

func remoteBranch(qualifiedName string) inventory.Branch {
	return inventory.Branch{Name: qualifiedName, UpstreamStatus: inventory.UpstreamStatusNone}
}
