package services

import "github.com/oomip/gatherly/internal/models"

// UserDirectory resolves user IDs to display names. Satisfied by
// *UserService; kept as an interface so the formatter stays a pure
// transformation over whatever directory backs it.
type UserDirectory interface {
	GetUserByID(id string) (*models.User, error)
	IdsToUsernames(ids []string) ([]string, error)
}

// directoryAdapter lets *UserService satisfy UserDirectory without renaming
// its GetByID method.
type directoryAdapter struct {
	users *UserService
}

func (d directoryAdapter) GetUserByID(id string) (*models.User, error) {
	return d.users.GetByID(id)
}

func (d directoryAdapter) IdsToUsernames(ids []string) ([]string, error) {
	return d.users.IdsToUsernames(ids)
}

// ResponseFormatter converts raw records into display form: author and
// member IDs become usernames. It is stateless and read-only.
type ResponseFormatter struct {
	dir UserDirectory
}

func NewResponseFormatter(users *UserService) *ResponseFormatter {
	return &ResponseFormatter{dir: directoryAdapter{users: users}}
}

// NewResponseFormatterWithDirectory builds a formatter over an arbitrary
// directory implementation.
func NewResponseFormatterWithDirectory(dir UserDirectory) *ResponseFormatter {
	return &ResponseFormatter{dir: dir}
}

// GatheringView is a gathering with IDs resolved to usernames.
type GatheringView struct {
	models.Gathering
	Author  string   `json:"author"`
	Members []string `json:"members"`
}

// PostView is a post with the author ID resolved to a username.
type PostView struct {
	models.Post
	Author string `json:"author"`
}

// Gathering formats a single gathering. Nil passes through unchanged.
func (f *ResponseFormatter) Gathering(g *models.Gathering) (*GatheringView, error) {
	if g == nil {
		return nil, nil
	}

	author, err := f.dir.GetUserByID(g.Author)
	if err != nil {
		return nil, err
	}
	members, err := f.dir.IdsToUsernames(g.Members)
	if err != nil {
		return nil, err
	}

	return &GatheringView{
		Gathering: *g,
		Author:    author.Username,
		Members:   members,
	}, nil
}

// Gatherings formats a list of gatherings. Authors are resolved with a
// single batched lookup; output order mirrors input order.
func (f *ResponseFormatter) Gatherings(gatherings []models.Gathering) ([]GatheringView, error) {
	authorIDs := make([]string, len(gatherings))
	for i, g := range gatherings {
		authorIDs[i] = g.Author
	}

	authors, err := f.dir.IdsToUsernames(authorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]GatheringView, len(gatherings))
	for i, g := range gatherings {
		members, err := f.dir.IdsToUsernames(g.Members)
		if err != nil {
			return nil, err
		}
		views[i] = GatheringView{
			Gathering: g,
			Author:    authors[i],
			Members:   members,
		}
	}
	return views, nil
}

// Post formats a single post. Nil passes through unchanged.
func (f *ResponseFormatter) Post(p *models.Post) (*PostView, error) {
	if p == nil {
		return nil, nil
	}

	author, err := f.dir.GetUserByID(p.Author)
	if err != nil {
		return nil, err
	}
	return &PostView{Post: *p, Author: author.Username}, nil
}

// Posts formats a list of posts with one batched author lookup.
func (f *ResponseFormatter) Posts(posts []models.Post) ([]PostView, error) {
	authorIDs := make([]string, len(posts))
	for i, p := range posts {
		authorIDs[i] = p.Author
	}

	authors, err := f.dir.IdsToUsernames(authorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]PostView, len(posts))
	for i, p := range posts {
		views[i] = PostView{Post: p, Author: authors[i]}
	}
	return views, nil
}

// Usernames reduces a user list to its usernames.
func (f *ResponseFormatter) Usernames(users []models.User) []string {
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = u.Username
	}
	return names
}
