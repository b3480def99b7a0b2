package services

import (
	"errors"

	"github.com/oomip/gatherly/internal/models"
	"gorm.io/gorm"
)

// PostService is a thin CRUD wrapper with an author guard on mutation.
type PostService struct {
	db *gorm.DB
}

func NewPostService(db *gorm.DB) *PostService {
	return &PostService{db: db}
}

type CreatePostRequest struct {
	Content string `json:"content" binding:"required"`
	Options string `json:"options"`
}

type UpdatePostRequest struct {
	Content string `json:"content"`
	Options string `json:"options"`
}

// Create inserts a new post authored by the given user.
func (s *PostService) Create(authorID string, req *CreatePostRequest) (*models.Post, error) {
	post := models.Post{
		Author:  authorID,
		Content: req.Content,
		Options: req.Options,
	}
	if err := s.db.Create(&post).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// GetByID returns the post or a NotFoundError.
func (s *PostService) GetByID(id string) (*models.Post, error) {
	var post models.Post
	if err := s.db.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Message: "post not found"}
		}
		return nil, err
	}
	return &post, nil
}

// List returns all posts, newest first.
func (s *PostService) List() ([]models.Post, error) {
	var posts []models.Post
	if err := s.db.Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// ListByAuthor returns the posts of one author, newest first.
func (s *PostService) ListByAuthor(authorID string) ([]models.Post, error) {
	var posts []models.Post
	if err := s.db.Where("author = ?", authorID).Order("created_at DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// IsAuthor returns nil if the user authored the post.
func (s *PostService) IsAuthor(userID, postID string) error {
	post, err := s.GetByID(postID)
	if err != nil {
		return err
	}
	if post.Author != userID {
		return &PostAuthorMismatchError{UserID: userID, PostID: postID}
	}
	return nil
}

// Update overwrites any subset of the post's content and options. Callers
// guard with IsAuthor first.
func (s *PostService) Update(id string, req *UpdatePostRequest) (*models.Post, error) {
	post, err := s.GetByID(id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Content != "" {
		updates["content"] = req.Content
	}
	if req.Options != "" {
		updates["options"] = req.Options
	}

	if len(updates) > 0 {
		if err := s.db.Model(post).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return post, nil
}

// Delete removes a post.
func (s *PostService) Delete(id string) error {
	result := s.db.Delete(&models.Post{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return &NotFoundError{Message: "post not found"}
	}
	return nil
}
