package handlers

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/oomip/gatherly/internal/services"
	"github.com/oomip/gatherly/pkg/response"
)

// ErrorRenderer turns domain errors into user-facing responses. One
// formatter per error kind, registered once at construction; formatters
// resolve the IDs carried by the error into display names.
type ErrorRenderer struct {
	users      *services.UserService
	gatherings *services.GatheringService
	formatters map[string]func(services.DomainError) *response.AppError
}

func NewErrorRenderer(users *services.UserService, gatherings *services.GatheringService) *ErrorRenderer {
	r := &ErrorRenderer{
		users:      users,
		gatherings: gatherings,
		formatters: make(map[string]func(services.DomainError) *response.AppError),
	}

	r.formatters[services.KindNotFound] = func(err services.DomainError) *response.AppError {
		return response.NewNotFound(err.Error())
	}

	r.formatters[services.KindAlreadyMember] = func(err services.DomainError) *response.AppError {
		e := err.(*services.AlreadyMemberError)
		return response.NewConflict(fmt.Sprintf("%s is already a member of %q!",
			r.username(e.Member), r.gatheringName(e.GatheringID)))
	}

	r.formatters[services.KindCapacityExceeded] = func(err services.DomainError) *response.AppError {
		e := err.(*services.TooManyMembersError)
		return response.NewForbidden(fmt.Sprintf("%q cannot have more than %d members!",
			r.gatheringName(e.GatheringID), e.Max))
	}

	r.formatters[services.KindGroupLinked] = func(err services.DomainError) *response.AppError {
		e := err.(*services.GroupAlreadyLinkedError)
		return response.NewConflict(fmt.Sprintf("group %s is already in %q!",
			e.GroupID, r.gatheringName(e.GatheringID)))
	}

	r.formatters[services.KindAuthorMismatch] = func(err services.DomainError) *response.AppError {
		e := err.(*services.AuthorMismatchError)
		return response.NewForbidden(fmt.Sprintf("%s is not the author of %q!",
			r.username(e.UserID), r.gatheringName(e.GatheringID)))
	}

	r.formatters[services.KindLocked] = func(err services.DomainError) *response.AppError {
		e := err.(*services.UneditableError)
		return response.NewForbidden(fmt.Sprintf("%q cannot be edited when there are multiple members!",
			r.gatheringName(e.GatheringID)))
	}

	r.formatters[services.KindAuthorCannotLeave] = func(err services.DomainError) *response.AppError {
		e := err.(*services.AuthorCannotLeaveError)
		return response.NewForbidden(fmt.Sprintf("the author cannot leave %q!",
			r.gatheringName(e.GatheringID)))
	}

	r.formatters[services.KindPostAuthor] = func(err services.DomainError) *response.AppError {
		e := err.(*services.PostAuthorMismatchError)
		return response.NewForbidden(fmt.Sprintf("%s is not the author of post %s!",
			r.username(e.UserID), e.PostID))
	}

	return r
}

// Render writes the response for err. Domain errors go through the
// registered formatter for their kind; anything else is a 500.
func (r *ErrorRenderer) Render(c *gin.Context, err error) {
	if domainErr, ok := err.(services.DomainError); ok {
		if format, ok := r.formatters[domainErr.Kind()]; ok {
			response.Error(c, format(domainErr))
			return
		}
	}
	response.Error(c, err)
}

// username resolves a user ID for display, falling back to the raw ID.
func (r *ErrorRenderer) username(id string) string {
	if user, err := r.users.GetByID(id); err == nil {
		return user.Username
	}
	return id
}

// gatheringName resolves a gathering ID for display, falling back to the raw ID.
func (r *ErrorRenderer) gatheringName(id string) string {
	if gathering, err := r.gatherings.GetByID(id); err == nil {
		return gathering.Name
	}
	return id
}
