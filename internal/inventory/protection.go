package inventory

import (
	"strings"
)

const (
	// DefaultRemoteName is the remote used when none is configured.
	DefaultRemoteName                    = "origin"
	masterBranchNameConstant             = "master"
	mainBranchNameConstant               = "main"
	remoteQualifiedNameSeparatorConstant = "/"
)

// ProtectionPolicy decides which branch names must never be deleted.
type ProtectionPolicy struct {
	remoteName string
}

// NewProtectionPolicy builds a policy whose remote-qualified names use remoteName.
// A blank remote name falls back to DefaultRemoteName.
func NewProtectionPolicy(remoteName string) ProtectionPolicy {
	trimmedRemoteName := strings.TrimSpace(remoteName)
	if len(trimmedRemoteName) == 0 {
		trimmedRemoteName = DefaultRemoteName
	}
	return ProtectionPolicy{remoteName: trimmedRemoteName}
}

// RemoteName reports the remote whose branches are protected.
func (policy ProtectionPolicy) RemoteName() string {
	if len(policy.remoteName) == 0 {
		return DefaultRemoteName
	}
	return policy.remoteName
}

// IsProtected reports whether a local branch name is protected.
func (policy ProtectionPolicy) IsProtected(name string) bool {
	return name == masterBranchNameConstant || name == mainBranchNameConstant
}

// IsProtectedRemote reports whether a remote-qualified branch name is protected.
func (policy ProtectionPolicy) IsProtectedRemote(qualifiedName string) bool {
	remotePrefix := policy.RemoteName() + remoteQualifiedNameSeparatorConstant
	if !strings.HasPrefix(qualifiedName, remotePrefix) {
		return false
	}
	return policy.IsProtected(strings.TrimPrefix(qualifiedName, remotePrefix))
}

// BelongsToRemote reports whether a remote-qualified name lives on the policy's remote.
func (policy ProtectionPolicy) BelongsToRemote(qualifiedName string) bool {
	remotePrefix := policy.RemoteName() + remoteQualifiedNameSeparatorConstant
	return strings.HasPrefix(qualifiedName, remotePrefix) && len(qualifiedName) > len(remotePrefix)
}
