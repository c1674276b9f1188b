package service

import (
	"context"

	"github.com/pageza/userprofile/backend/internal/logger"
)

// AccessPolicy decides who may create a profile on behalf of whom.
type AccessPolicy struct {
	adminGroup string
}

// NewAccessPolicy creates a policy granting members of adminGroup access to
// every profile.
func NewAccessPolicy(adminGroup string) *AccessPolicy {
	return &AccessPolicy{adminGroup: adminGroup}
}

// CanModifyProfile allows users to act on themselves and admins to act on
// anyone. Lookup failures deny.
func (p *AccessPolicy) CanModifyProfile(ctx context.Context, repo ProfileRepository, actorID, targetID uint) bool {
	if actorID == targetID {
		return true
	}

	group, err := repo.FindGroupNameForUser(ctx, actorID)
	if err != nil {
		logger.FromContext(ctx).Debug("group lookup failed, denying", "actor_id", actorID, "error", err)
		return false
	}
	return group == p.adminGroup
}
