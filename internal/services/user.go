package services

import (
	"errors"

	"github.com/oomip/gatherly/internal/models"
	"github.com/oomip/gatherly/internal/utils"
	"gorm.io/gorm"
)

// DeletedUsername is shown in place of a username that no longer resolves.
const DeletedUsername = "DELETED_USER"

// ErrUsernameTaken is returned when a registration or rename collides with
// an existing username.
var ErrUsernameTaken = errors.New("username already taken")

// UserService is the user directory: account CRUD plus ID-to-username
// resolution for display.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=100"`
	Password string `json:"password" binding:"required,min=6"`
}

type UpdateUserRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Create registers a new user with a bcrypt-hashed password.
func (s *UserService) Create(req *CreateUserRequest) (*models.User, error) {
	var count int64
	s.db.Model(&models.User{}).Where("username = ?", req.Username).Count(&count)
	if count > 0 {
		return nil, ErrUsernameTaken
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := models.User{
		Username: req.Username,
		Password: hash,
	}
	if err := s.db.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID returns the user or a NotFoundError.
func (s *UserService) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "user not found"}
		}
		return nil, err
	}
	return &user, nil
}

// GetByUsername returns the user or a NotFoundError.
func (s *UserService) GetByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "user not found"}
		}
		return nil, err
	}
	return &user, nil
}

// List returns all users.
func (s *UserService) List() ([]models.User, error) {
	var users []models.User
	if err := s.db.Order("created_at").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// IdsToUsernames resolves a list of user IDs to usernames in one query,
// preserving input order. IDs that no longer resolve map to DeletedUsername.
func (s *UserService) IdsToUsernames(ids []string) ([]string, error) {
	if len(ids) == 0 {
		return []string{}, nil
	}

	var users []models.User
	if err := s.db.Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}

	byID := make(map[string]string, len(users))
	for _, u := range users {
		byID[u.ID] = u.Username
	}

	names := make([]string, len(ids))
	for i, id := range ids {
		if name, ok := byID[id]; ok {
			names[i] = name
		} else {
			names[i] = DeletedUsername
		}
	}
	return names, nil
}

// Authenticate verifies credentials and returns the user.
func (s *UserService) Authenticate(username, password string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.New("invalid username or password")
		}
		return nil, err
	}

	if !utils.CheckPassword(password, user.Password) {
		return nil, errors.New("invalid username or password")
	}
	return &user, nil
}

// Update changes the username and/or password of a user.
func (s *UserService) Update(id string, req *UpdateUserRequest) (*models.User, error) {
	user, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Username != "" && req.Username != user.Username {
		var count int64
		s.db.Model(&models.User{}).Where("username = ?", req.Username).Count(&count)
		if count > 0 {
			return nil, ErrUsernameTaken
		}
		updates["username"] = req.Username
	}
	if req.Password != "" {
		hash, err := utils.HashPassword(req.Password)
		if err != nil {
			return nil, err
		}
		updates["password"] = hash
	}

	if len(updates) > 0 {
		if err := s.db.Model(user).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return user, nil
}

// Delete removes a user account.
func (s *UserService) Delete(id string) error {
	result := s.db.Delete(&models.User{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{Message: "user not found"}
	}
	return nil
}
