package services

import (
	"errors"

	"github.com/oomip/gatherly/internal/models"
	"gorm.io/gorm"
)

// GatheringService owns the gathering lifecycle: creation, membership,
// group linkage and the editability rule. A gathering is editable only while
// its author is the sole member; the state is derived from the membership
// count on every call, never stored.
type GatheringService struct {
	db    *gorm.DB
	locks *keyedMutex
}

func NewGatheringService(db *gorm.DB) *GatheringService {
	return &GatheringService{
		db:    db,
		locks: newKeyedMutex(),
	}
}

type CreateGatheringRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Date        string `json:"date"`
}

// UpdateGatheringRequest is a partial update: empty fields mean "unchanged".
// Clearing a field back to empty is not supported through this request.
type UpdateGatheringRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Location    string `json:"location"`
	Date        string `json:"date"`
}

type GatheringListRequest struct {
	Name     string `form:"name"`
	Location string `form:"location"`
}

// Create inserts a new gathering with the author as its sole member.
func (s *GatheringService) Create(req *CreateGatheringRequest, authorID string) (*models.Gathering, error) {
	gathering := models.Gathering{
		Name:        req.Name,
		Description: req.Description,
		Location:    req.Location,
		Date:        req.Date,
		Members:     models.IDList{authorID},
		Groups:      models.IDList{},
		Author:      authorID,
	}

	if err := s.db.Create(&gathering).Error; err != nil {
		return nil, err
	}

	return &gathering, nil
}

// GetByID returns the gathering or a NotFoundError.
func (s *GatheringService) GetByID(id string) (*models.Gathering, error) {
	var gathering models.Gathering
	if err := s.db.First(&gathering, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "gathering not found"}
		}
		return nil, err
	}
	return &gathering, nil
}

// List returns gatherings matching the optional name/location filters,
// newest first.
func (s *GatheringService) List(req *GatheringListRequest) ([]models.Gathering, error) {
	query := s.db.Model(&models.Gathering{})

	if req.Name != "" {
		query = query.Where("name LIKE ?", "%"+req.Name+"%")
	}
	if req.Location != "" {
		query = query.Where("location LIKE ?", "%"+req.Location+"%")
	}

	var gatherings []models.Gathering
	if err := query.Order("created_at DESC").Find(&gatherings).Error; err != nil {
		return nil, err
	}
	return gatherings, nil
}

// GetMembers returns the ordered member IDs of a gathering.
func (s *GatheringService) GetMembers(id string) (models.IDList, error) {
	gathering, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}
	return gathering.Members, nil
}

// GetGatheringsOfMember returns every gathering whose member list contains
// the user. The members column is a JSON array of quoted IDs, so a LIKE on
// the quoted ID is an exact membership match.
func (s *GatheringService) GetGatheringsOfMember(userID string) ([]models.Gathering, error) {
	var gatherings []models.Gathering
	pattern := "%\"" + userID + "\"%"
	if err := s.db.Where("members LIKE ?", pattern).Order("created_at DESC").Find(&gatherings).Error; err != nil {
		return nil, err
	}
	return gatherings, nil
}

// GetEditableGatheringsOfMember returns the gatherings the user authored that
// are still editable (sole member).
func (s *GatheringService) GetEditableGatheringsOfMember(userID string) ([]models.Gathering, error) {
	var authored []models.Gathering
	if err := s.db.Where("author = ?", userID).Order("created_at DESC").Find(&authored).Error; err != nil {
		return nil, err
	}

	editable := make([]models.Gathering, 0, len(authored))
	for _, g := range authored {
		if g.Editable() {
			editable = append(editable, g)
		}
	}
	return editable, nil
}

// Update overwrites any subset of the free-text fields. Editability is NOT
// checked here; callers guard with CanEdit first.
func (s *GatheringService) Update(id string, req *UpdateGatheringRequest) (*models.Gathering, error) {
	gathering, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.Description != "" {
		updates["description"] = req.Description
	}
	if req.Location != "" {
		updates["location"] = req.Location
	}
	if req.Date != "" {
		updates["date"] = req.Date
	}

	if len(updates) > 0 {
		if err := s.db.Model(gathering).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return gathering, nil
}

// AddMember appends a user to the gathering's member list. Fails if the user
// is already a member or the gathering is at capacity. The mutation is
// serialized per gathering so two concurrent joins cannot both pass the
// capacity check against a stale read.
func (s *GatheringService) AddMember(id, userID string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	gathering, err := s.GetByID(id)
	if err != nil {
		return err
	}

	if gathering.Members.Contains(userID) {
		return &AlreadyMemberError{Member: userID, GatheringID: id}
	}
	if len(gathering.Members) >= models.MaxGatheringMembers {
		return &TooManyMembersError{GatheringID: id, Max: models.MaxGatheringMembers}
	}

	gathering.Members = gathering.Members.Append(userID)
	return s.db.Model(gathering).Update("members", gathering.Members).Error
}

// RemoveMember removes the first occurrence of the user from the member
// list. The author cannot leave their own gathering.
func (s *GatheringService) RemoveMember(id, userID string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	gathering, err := s.GetByID(id)
	if err != nil {
		return err
	}

	if !gathering.Members.Contains(userID) {
		return &NotFoundError{Message: "member is not in gathering"}
	}
	if userID == gathering.Author {
		return &AuthorCannotLeaveError{GatheringID: id}
	}

	gathering.Members = gathering.Members.RemoveFirst(userID)
	return s.db.Model(gathering).Update("members", gathering.Members).Error
}

// AddGroup links a group to the gathering.
func (s *GatheringService) AddGroup(id, groupID string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	gathering, err := s.GetByID(id)
	if err != nil {
		return err
	}

	if gathering.Groups.Contains(groupID) {
		return &GroupAlreadyLinkedError{GroupID: groupID, GatheringID: id}
	}

	gathering.Groups = gathering.Groups.Append(groupID)
	return s.db.Model(gathering).Update("groups", gathering.Groups).Error
}

// RemoveGroup unlinks a group from the gathering.
func (s *GatheringService) RemoveGroup(id, groupID string) error {
	unlock := s.locks.Lock(id)
	defer unlock()

	gathering, err := s.GetByID(id)
	if err != nil {
		return err
	}

	if !gathering.Groups.Contains(groupID) {
		return &NotFoundError{Message: "group is not in gathering"}
	}

	gathering.Groups = gathering.Groups.RemoveFirst(groupID)
	return s.db.Model(gathering).Update("groups", gathering.Groups).Error
}

// CanEdit returns nil if the user may edit or delete the gathering: the
// gathering must exist, still have a single member, and the user must be its
// author. The checks run in that order.
func (s *GatheringService) CanEdit(userID, id string) error {
	gathering, err := s.GetByID(id)
	if err != nil {
		return err
	}

	if len(gathering.Members) > 1 {
		return &UneditableError{GatheringID: id}
	}
	if gathering.Author != userID {
		return &AuthorMismatchError{UserID: userID, GatheringID: id}
	}
	return nil
}

// Delete removes the gathering and returns its name at deletion time.
func (s *GatheringService) Delete(id string) (string, error) {
	gathering, err := s.GetByID(id)
	if err != nil {
		return "", err
	}

	name := gathering.Name
	if err := s.db.Delete(gathering).Error; err != nil {
		return "", err
	}
	return name, nil
}

// IsMemberOf reports whether the user is in the gathering's member list.
func (s *GatheringService) IsMemberOf(userID, id string) (bool, error) {
	gathering, err := s.GetByID(id)
	if err != nil {
		return false, err
	}
	return gathering.Members.Contains(userID), nil
}

// IsGroupOf reports whether the group is linked to the gathering.
func (s *GatheringService) IsGroupOf(groupID, id string) (bool, error) {
	gathering, err := s.GetByID(id)
	if err != nil {
		return false, err
	}
	return gathering.Groups.Contains(groupID), nil
}
