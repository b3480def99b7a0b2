package services

import (
	"context"
	"errors"

	"github.com/oomip/gatherly/pkg/logger"
	"gorm.io/gorm"
)

// GroupFormer maintains the groups linked to a gathering as members join.
// Rules, applied after each successful join:
//
//   - no linked groups yet and at least GroupMinFormation members: seed one
//     group from the full member list and link it
//   - a linked group at GroupSpawnSize members: spawn a copy, add the joiner
//     to the copy, link the copy
//   - a linked group between GroupSpawnSize (exclusive) and GroupMaxMembers
//     (exclusive): add the joiner to it
type GroupFormer struct {
	gatherings *GatheringService
	groups     *GroupService
}

func NewGroupFormer(db *gorm.DB) *GroupFormer {
	return &GroupFormer{
		gatherings: NewGatheringService(db),
		groups:     NewGroupService(db),
	}
}

// Process handles one formation task. Missing gatherings are dropped without
// error; a retried task must not fail forever on a deleted record.
func (f *GroupFormer) Process(ctx context.Context, task *GroupFormTask) error {
	gathering, err := f.gatherings.GetByID(task.GatheringID)
	if err != nil {
		var nf *NotFoundError
		if errors.As(err, &nf) {
			logger.Warnf("[GroupFormer] gathering %s gone, dropping task", task.GatheringID)
			return nil
		}
		return err
	}

	if len(gathering.Groups) == 0 {
		if len(gathering.Members) < GroupMinFormation {
			return nil
		}
		group, err := f.groups.Create(&CreateGroupRequest{Members: gathering.Members})
		if err != nil {
			return err
		}
		return f.gatherings.AddGroup(gathering.ID, group.ID)
	}

	for _, groupID := range gathering.Groups {
		group, err := f.groups.GetByID(groupID)
		if err != nil {
			var nf *NotFoundError
			if errors.As(err, &nf) {
				continue
			}
			return err
		}

		switch {
		case len(group.Members) == GroupSpawnSize:
			spawned, err := f.groups.Create(&CreateGroupRequest{Members: group.Members})
			if err != nil {
				return err
			}
			if err := f.groups.AddMember(spawned.ID, task.UserID); err != nil {
				return err
			}
			if err := f.gatherings.AddGroup(gathering.ID, spawned.ID); err != nil {
				var linked *GroupAlreadyLinkedError
				if !errors.As(err, &linked) {
					return err
				}
			}
		case len(group.Members) > GroupSpawnSize && len(group.Members) < GroupMaxMembers:
			if err := f.groups.AddMember(groupID, task.UserID); err != nil {
				return err
			}
		}
	}

	return nil
}
