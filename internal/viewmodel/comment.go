package viewmodel

import (
	"net/url"

	"github.com/dealhive/dealhive/domain"
)

// UserViewModel is the display projection of a comment author.
type UserViewModel struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// CommentViewModel is the display projection of one comment.
type CommentViewModel struct {
	ID    int64         `json:"id"`
	User  UserViewModel `json:"user"`
	Text  string        `json:"text"`
	Likes int64         `json:"likes"`
	Time  string        `json:"time"`
}

const fallbackName = "Member"

// generatedAvatarURL is deterministic per username so a user without an
// uploaded avatar always renders the same placeholder.
func generatedAvatarURL(username string) string {
	return "https://ui-avatars.com/api/?name=" + url.QueryEscape(username)
}

// MapComment projects a raw comment record into its display form. Missing
// author data degrades to fallbacks, never to an error.
func MapComment(raw *domain.Comment) CommentViewModel {
	vm := CommentViewModel{
		ID:    raw.ID,
		Text:  raw.Text,
		Likes: raw.Likes,
		Time:  raw.CreatedAt.Format(DateTimeFormat),
	}

	user := raw.User
	if user == nil {
		vm.User = UserViewModel{
			ID:     raw.UserID,
			Name:   fallbackName,
			Avatar: generatedAvatarURL(fallbackName),
		}
		return vm
	}

	name := user.Name
	if name == "" {
		name = user.Username
	}
	if name == "" {
		name = fallbackName
	}

	avatar := user.Avatar
	if avatar == "" {
		seed := user.Username
		if seed == "" {
			seed = name
		}
		avatar = generatedAvatarURL(seed)
	}

	vm.User = UserViewModel{
		ID:     user.ID,
		Name:   name,
		Avatar: avatar,
	}
	return vm
}
