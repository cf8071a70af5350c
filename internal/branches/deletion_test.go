package branches_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/temirov/git-branch-cleaner/internal/branches"
	"github.com/temirov/git-branch-cleaner/internal/gitrepo"
	"github.com/temirov/git-branch-cleaner/internal/inventory"
)

const (
	featureABranchConstant      = "feature-a"
	featureBBranchConstant      = "feature-b"
	featureCBranchConstant      = "feature-c"
	mainBranchConstant          = "main"
	masterBranchConstant        = "master"
	originFeatureBranchConstant = "origin/feature-a"
	originMainBranchConstant    = "origin/main"
	branchLogFieldConstant      = "branch"
	deletedLogMessageConstant   = "branch deleted"
	failedLogMessageConstant    = "branch deletion failed"
	skippedLogMessageConstant   = "branch skipped"
)

func newNotFullyMergedError(name string) error {
	return &gitrepo.OperationError{
		Operation: gitrepo.OperationDeleteLocal,
		Reference: name,
		Reason:    gitrepo.ReasonNotFullyMerged,
		Err:       errors.New("exit status 1"),
	}
}

func TestNewDeletionWorkflowRequiresDeleter(testInstance *testing.T) {
	workflow, creationError := branches.NewDeletionWorkflow(zap.NewNop(), nil, inventory.NewProtectionPolicy(""))
	require.ErrorIs(testInstance, creationError, branches.ErrGatewayNotConfigured)
	require.Nil(testInstance, workflow)
}

func TestDeletionWorkflowExecuteDeletion(testInstance *testing.T) {
	testCases := []struct {
		name             string
		names            []string
		force            bool
		failures         map[string]error
		expectedOutcomes []branches.DeletionOutcome
		expectedCalls    []deletionCall
		expectedSummary  branches.DeletionSummary
	}{
		{
			name:             "empty_input_yields_empty_results",
			names:            []string{},
			expectedOutcomes: []branches.DeletionOutcome{},
			expectedCalls:    nil,
		},
		{
			name:             "protected_name_skipped_without_gateway_call",
			names:            []string{mainBranchConstant, featureABranchConstant},
			expectedOutcomes: []branches.DeletionOutcome{branches.OutcomeSkipped, branches.OutcomeDeleted},
			expectedCalls:    []deletionCall{{name: featureABranchConstant}},
			expectedSummary:  branches.DeletionSummary{Deleted: 1, Skipped: 1},
		},
		{
			name:             "failure_does_not_stop_remaining_names",
			names:            []string{featureABranchConstant, featureBBranchConstant, featureCBranchConstant},
			failures:         map[string]error{featureBBranchConstant: newNotFullyMergedError(featureBBranchConstant)},
			expectedOutcomes: []branches.DeletionOutcome{branches.OutcomeDeleted, branches.OutcomeFailed, branches.OutcomeDeleted},
			expectedCalls:    []deletionCall{{name: featureABranchConstant}, {name: featureBBranchConstant}, {name: featureCBranchConstant}},
			expectedSummary:  branches.DeletionSummary{Deleted: 2, Failed: 1},
		},
		{
			name:             "force_flag_forwarded",
			names:            []string{featureABranchConstant, masterBranchConstant},
			force:            true,
			expectedOutcomes: []branches.DeletionOutcome{branches.OutcomeDeleted, branches.OutcomeSkipped},
			expectedCalls:    []deletionCall{{name: featureABranchConstant, force: true}},
			expectedSummary:  branches.DeletionSummary{Deleted: 1, Skipped: 1},
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(subTest *testing.T) {
			gateway := &fakeBranchGateway{deletionFailures: testCase.failures}
			workflow, creationError := branches.NewDeletionWorkflow(zap.NewNop(), gateway, inventory.NewProtectionPolicy(""))
			require.NoError(subTest, creationError)

			results := workflow.ExecuteDeletion(context.Background(), testCase.names, testCase.force)

			require.Len(subTest, results, len(testCase.names))
			outcomes := make([]branches.DeletionOutcome, 0, len(results))
			for index, result := range results {
				require.Equal(subTest, testCase.names[index], result.Name)
				outcomes = append(outcomes, result.Outcome)
			}
			require.Equal(subTest, testCase.expectedOutcomes, outcomes)
			require.Equal(subTest, testCase.expectedCalls, gateway.deletionCalls)
			require.Equal(subTest, testCase.expectedSummary, branches.Summarize(results))
		})
	}
}

func TestDeletionWorkflowRecordsSkipReasonAndError(testInstance *testing.T) {
	failure := newNotFullyMergedError(featureBBranchConstant)
	gateway := &fakeBranchGateway{deletionFailures: map[string]error{featureBBranchConstant: failure}}
	workflow, creationError := branches.NewDeletionWorkflow(nil, gateway, inventory.NewProtectionPolicy(""))
	require.NoError(testInstance, creationError)

	results := workflow.ExecuteDeletion(context.Background(), []string{masterBranchConstant, featureBBranchConstant}, false)

	require.Equal(testInstance, branches.SkipReasonProtected, results[0].SkipReason)
	require.NoError(testInstance, results[0].Err)
	require.ErrorIs(testInstance, results[1].Err, gitrepo.ErrBranchNotFullyMerged)
}

func TestDeletionWorkflowExecuteRemoteDeletion(testInstance *testing.T) {
	gateway := &fakeBranchGateway{}
	workflow, creationError := branches.NewDeletionWorkflow(zap.NewNop(), gateway, inventory.NewProtectionPolicy(""))
	require.NoError(testInstance, creationError)

	results := workflow.ExecuteRemoteDeletion(context.Background(), []string{originMainBranchConstant, originFeatureBranchConstant})

	require.Equal(testInstance, branches.OutcomeSkipped, results[0].Outcome)
	require.Equal(testInstance, branches.OutcomeDeleted, results[1].Outcome)
	require.Equal(testInstance, []deletionCall{{name: originFeatureBranchConstant, remote: true, remoteName: inventory.DefaultRemoteName}}, gateway.deletionCalls)
}

func TestDeletionWorkflowExecuteRemoteDeletionPassesConfiguredRemote(testInstance *testing.T) {
	gateway := &fakeBranchGateway{}
	workflow, creationError := branches.NewDeletionWorkflow(zap.NewNop(), gateway, inventory.NewProtectionPolicy("team/origin"))
	require.NoError(testInstance, creationError)

	results := workflow.ExecuteRemoteDeletion(context.Background(), []string{"team/origin/main", "team/origin/feature"})

	require.Equal(testInstance, branches.OutcomeSkipped, results[0].Outcome)
	require.Equal(testInstance, branches.OutcomeDeleted, results[1].Outcome)
	require.Equal(testInstance, []deletionCall{{name: "team/origin/feature", remote: true, remoteName: "team/origin"}}, gateway.deletionCalls)
}

func TestDeletionWorkflowLogsOutcomes(testInstance *testing.T) {
	observedCore, observedLogs := observer.New(zapcore.DebugLevel)
	gateway := &fakeBranchGateway{deletionFailures: map[string]error{featureBBranchConstant: newNotFullyMergedError(featureBBranchConstant)}}
	workflow, creationError := branches.NewDeletionWorkflow(zap.New(observedCore), gateway, inventory.NewProtectionPolicy(""))
	require.NoError(testInstance, creationError)

	workflow.ExecuteDeletion(context.Background(), []string{mainBranchConstant, featureABranchConstant, featureBBranchConstant}, false)

	entries := observedLogs.All()
	require.Len(testInstance, entries, 3)

	expected := []struct {
		message string
		level   zapcore.Level
		branch  string
	}{
		{message: skippedLogMessageConstant, level: zapcore.InfoLevel, branch: mainBranchConstant},
		{message: deletedLogMessageConstant, level: zapcore.InfoLevel, branch: featureABranchConstant},
		{message: failedLogMessageConstant, level: zapcore.WarnLevel, branch: featureBBranchConstant},
	}
	for index, expectation := range expected {
		require.Equal(testInstance, expectation.message, entries[index].Message)
		require.Equal(testInstance, expectation.level, entries[index].Level)
		require.Equal(testInstance, expectation.branch, entries[index].ContextMap()[branchLogFieldConstant])
	}
}
