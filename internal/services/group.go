package services

import (
	"errors"

	"github.com/oomip/gatherly/internal/models"
	"gorm.io/gorm"
)

// Group size window for auto-formation: a group spawns a copy once it would
// outgrow itself and stops accepting members at the upper bound.
const (
	GroupSpawnSize    = 2
	GroupMaxMembers   = 8
	GroupMinFormation = 3
)

// GroupService is a thin CRUD wrapper over auto-formed groups.
type GroupService struct {
	db *gorm.DB
}

func NewGroupService(db *gorm.DB) *GroupService {
	return &GroupService{db: db}
}

type CreateGroupRequest struct {
	Members []string `json:"members" binding:"required"`
}

type UpdateGroupRequest struct {
	Members []string `json:"members"`
}

// Create inserts a new group with the given members, deduplicated in order.
func (s *GroupService) Create(req *CreateGroupRequest) (*models.Group, error) {
	members := dedupe(req.Members)
	group := models.Group{Members: members}
	if err := s.db.Create(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

// GetByID returns the group or a NotFoundError.
func (s *GroupService) GetByID(id string) (*models.Group, error) {
	var group models.Group
	if err := s.db.First(&group, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "group not found"}
		}
		return nil, err
	}
	return &group, nil
}

// List returns all groups. When memberID is non-empty only groups containing
// that member are returned.
func (s *GroupService) List(memberID string) ([]models.Group, error) {
	query := s.db.Model(&models.Group{})
	if memberID != "" {
		query = query.Where("members LIKE ?", "%\""+memberID+"\"%")
	}

	var groups []models.Group
	if err := query.Order("created_at").Find(&groups).Error; err != nil {
		return nil, err
	}
	return groups, nil
}

// AddMember appends a user to the group. Existing members are a no-op.
func (s *GroupService) AddMember(id, userID string) error {
	group, err := s.GetByID(id)
	if err != nil {
		return err
	}

	if group.Members.Contains(userID) {
		return nil
	}
	if len(group.Members) >= GroupMaxMembers {
		return errors.New("group is full")
	}

	group.Members = group.Members.Append(userID)
	return s.db.Model(group).Update("members", group.Members).Error
}

// Update replaces the group's member list.
func (s *GroupService) Update(id string, req *UpdateGroupRequest) (*models.Group, error) {
	group, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	if req.Members != nil {
		group.Members = dedupe(req.Members)
		if err := s.db.Model(group).Update("members", group.Members).Error; err != nil {
			return nil, err
		}
	}
	return group, nil
}

// Delete removes a group.
func (s *GroupService) Delete(id string) error {
	result := s.db.Delete(&models.Group{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{Message: "group not found"}
	}
	return nil
}

func dedupe(ids []string) models.IDList {
	out := models.IDList{}
	for _, id := range ids {
		if !out.Contains(id) {
			out = out.Append(id)
		}
	}
	return out
}
