package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Dishu223/fairshare-splitapp/internal/models"
	"github.com/Dishu223/fairshare-splitapp/internal/store"
)

// GroupService manages expense groups and their member lists.
type GroupService struct {
	groups store.GroupStore
	logger *slog.Logger
}

// NewGroupService creates a new group service.
func NewGroupService(groups store.GroupStore, logger *slog.Logger) *GroupService {
	return &GroupService{groups: groups, logger: logger}
}

// CreateGroup creates a new group seeded with the implicit "You" member. The
// name is trimmed; an empty name is rejected before any write.
func (s *GroupService) CreateGroup(ctx context.Context, actorID, name string) (*models.Group, error) {
	if actorID == "" {
		return nil, ErrUnauthenticated
	}

	group, err := models.NewGroup(strings.TrimSpace(name), actorID)
	if err != nil {
		return nil, err
	}

	if err := s.groups.CreateGroup(ctx, group); err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	s.logger.Info("Group created", "group_id", group.ID, "name", group.Name, "actor_id", actorID)
	return group, nil
}

// GetGroup retrieves a group by ID.
func (s *GroupService) GetGroup(ctx context.Context, groupID string) (*models.Group, error) {
	return s.groups.GetGroup(ctx, groupID)
}

// ListGroups retrieves all groups, newest first.
func (s *GroupService) ListGroups(ctx context.Context) ([]models.Group, error) {
	return s.groups.ListGroups(ctx)
}

// AddMember appends a member name to the group if it is not already present.
// Adding an existing name is a no-op, not an error. Existing transactions are
// untouched; equal splits recompute against the grown member list.
func (s *GroupService) AddMember(ctx context.Context, groupID, member string) error {
	member = strings.TrimSpace(member)
	if member == "" {
		return models.ErrEmptyMemberName
	}

	if _, err := s.groups.GetGroup(ctx, groupID); err != nil {
		return err
	}

	if err := s.groups.AddGroupMember(ctx, groupID, member); err != nil {
		return fmt.Errorf("failed to add member: %w", err)
	}

	s.logger.Info("Member added", "group_id", groupID, "member", member)
	return nil
}

// DeleteGroup hard-deletes a group and all its transactions. Only the
// creator or a current member (by display name) may delete a group.
func (s *GroupService) DeleteGroup(ctx context.Context, actorID, displayName, groupID string) error {
	if actorID == "" {
		return ErrUnauthenticated
	}

	group, err := s.groups.GetGroup(ctx, groupID)
	if err != nil {
		return err
	}

	if group.CreatedBy != actorID && !group.HasMember(displayName) {
		return ErrPermissionDenied
	}

	if err := s.groups.DeleteGroup(ctx, groupID); err != nil {
		return err
	}

	s.logger.Info("Group deleted", "group_id", groupID, "actor_id", actorID)
	return nil
}
