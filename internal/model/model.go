// Package model defines the domain types used across the application.
package model

import "time"

// Author identifies who wrote a reported post.
type Author struct {
	ID        string
	Name      string
	AvatarURL string
}

// ReportedPost is a discussion post flagged for moderator review,
// normalized from the wire representation: its body is already a
// plain-text preview and its container has been classified.
type ReportedPost struct {
	ID          string
	Title       string
	Body        string
	ImageURL    string
	CreatedAt   time.Time
	Author      Author
	ThreadID    string
	Container   Container
	IsReply     bool
	IsLocked    bool
	PollAnswers []string
	HasQuiz     bool
}

// Container is the parent context of a post: a forum category, an
// article's comment section, or a user's message wall. The set of
// implementations is closed; code handling containers switches on the
// concrete type and treats anything else as an error.
type Container interface {
	isContainer()
}

// Forum is a discussion forum category, carrying its display name.
type Forum struct {
	Name string
}

// ArticleComment is the comment section of an article page.
type ArticleComment struct {
	PageID string
}

// Wall is a user's message wall, identified by the owning user.
type Wall struct {
	OwnerID string
}

func (Forum) isContainer()          {}
func (ArticleComment) isContainer() {}
func (Wall) isContainer()           {}

// Article describes a resolved article page.
type Article struct {
	Title       string
	RelativeURL string
}

// User describes a resolved user account.
type User struct {
	Username string
}

// ContainerIndex maps the page and user ids referenced by one poll
// batch to their display data. It is rebuilt every cycle and must not
// be carried across cycles: article titles and usernames can change.
type ContainerIndex struct {
	Articles map[string]Article
	Users    map[string]User
}
