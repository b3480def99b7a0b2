package services

import "fmt"

// Domain errors carry the offending IDs so the handler layer can resolve them
// to display names before formatting a user-facing message. Each kind maps to
// one formatter registered at startup (see handlers.ErrorRenderer).

// Error kinds.
const (
	KindNotFound          = "not_found"
	KindAlreadyMember     = "already_member"
	KindCapacityExceeded  = "capacity_exceeded"
	KindGroupLinked       = "group_already_linked"
	KindAuthorMismatch    = "author_mismatch"
	KindLocked            = "locked"
	KindAuthorCannotLeave = "author_cannot_leave"
	KindPostAuthor        = "post_author_mismatch"
)

// DomainError is implemented by every typed service error.
type DomainError interface {
	error
	Kind() string
}

// NotFoundError signals that a referenced record does not exist.
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string { return e.Message }
func (e *NotFoundError) Kind() string  { return KindNotFound }

// AlreadyMemberError signals a join by an existing member.
type AlreadyMemberError struct {
	Member      string
	GatheringID string
}

func (e *AlreadyMemberError) Error() string {
	return fmt.Sprintf("member %s is already a member of gathering %s", e.Member, e.GatheringID)
}
func (e *AlreadyMemberError) Kind() string { return KindAlreadyMember }

// TooManyMembersError signals a join against a full gathering.
type TooManyMembersError struct {
	GatheringID string
	Max         int
}

func (e *TooManyMembersError) Error() string {
	return fmt.Sprintf("gathering %s cannot have more than %d members", e.GatheringID, e.Max)
}
func (e *TooManyMembersError) Kind() string { return KindCapacityExceeded }

// GroupAlreadyLinkedError signals a group link that already exists.
type GroupAlreadyLinkedError struct {
	GroupID     string
	GatheringID string
}

func (e *GroupAlreadyLinkedError) Error() string {
	return fmt.Sprintf("group %s is already in gathering %s", e.GroupID, e.GatheringID)
}
func (e *GroupAlreadyLinkedError) Kind() string { return KindGroupLinked }

// AuthorMismatchError signals an edit or delete by a non-author.
type AuthorMismatchError struct {
	UserID      string
	GatheringID string
}

func (e *AuthorMismatchError) Error() string {
	return fmt.Sprintf("%s is not the author of gathering %s", e.UserID, e.GatheringID)
}
func (e *AuthorMismatchError) Kind() string { return KindAuthorMismatch }

// UneditableError signals an edit or delete against a gathering with more
// than one member.
type UneditableError struct {
	GatheringID string
}

func (e *UneditableError) Error() string {
	return fmt.Sprintf("gathering %s cannot be edited when there are multiple members", e.GatheringID)
}
func (e *UneditableError) Kind() string { return KindLocked }

// AuthorCannotLeaveError signals an attempt to remove the author from their
// own gathering.
type AuthorCannotLeaveError struct {
	GatheringID string
}

func (e *AuthorCannotLeaveError) Error() string {
	return fmt.Sprintf("the author cannot leave gathering %s", e.GatheringID)
}
func (e *AuthorCannotLeaveError) Kind() string { return KindAuthorCannotLeave }

// PostAuthorMismatchError signals a post mutation by a non-author.
type PostAuthorMismatchError struct {
	UserID string
	PostID string
}

func (e *PostAuthorMismatchError) Error() string {
	return fmt.Sprintf("%s is not the author of post %s", e.UserID, e.PostID)
}
func (e *PostAuthorMismatchError) Kind() string { return KindPostAuthor }
