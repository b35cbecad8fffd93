// Package discord formats reported posts as webhook embeds and
// delivers them in bounded batches.
package discord

import (
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/sacrificing/Fandom-Report-Bot/internal/adf"
	"github.com/sacrificing/Fandom-Report-Bot/internal/model"
)

// Discord's embed field limits.
const (
	maxAuthorLen = 256
	maxTitleLen  = 256
	maxDescLen   = 500
	maxFieldLen  = 1024
)

const noTitlePlaceholder = "(no title)"

// Status glyphs, always rendered in this order.
const (
	glyphLocked = "🔒"
	glyphReply  = "💬"
	glyphPoll   = "📊"
	glyphQuiz   = "❓"
)

// Embed builds the notification embed for one reported post. It fails
// when the post references a container the index cannot resolve.
func Embed(post model.ReportedPost, idx model.ContainerIndex, wikiURL string) (*discordgo.MessageEmbed, error) {
	footer, err := footerText(post, idx)
	if err != nil {
		return nil, err
	}
	target, err := postURL(post, idx, wikiURL)
	if err != nil {
		return nil, err
	}

	e := &discordgo.MessageEmbed{
		URL:       target,
		Timestamp: post.CreatedAt.UTC().Format(time.RFC3339),
		Footer:    &discordgo.MessageEmbedFooter{Text: footer},
		Author: &discordgo.MessageEmbedAuthor{
			Name:    adf.Truncate(post.Author.Name, maxAuthorLen),
			IconURL: post.Author.AvatarURL,
		},
	}
	if post.Author.ID != "" {
		e.Author.URL = wikiURL + "/f/u/" + post.Author.ID
	}

	switch {
	case post.Title != "":
		e.Title = adf.Truncate(post.Title, maxTitleLen)
		e.Description = adf.Truncate(post.Body, maxDescLen)
	case post.Body != "":
		e.Title = adf.Truncate(post.Body, maxTitleLen)
	default:
		e.Title = noTitlePlaceholder
	}

	if len(post.PollAnswers) > 0 {
		lines := make([]string, 0, len(post.PollAnswers))
		for _, a := range post.PollAnswers {
			lines = append(lines, "• "+a)
		}
		e.Fields = []*discordgo.MessageEmbedField{{
			Name:  "Poll",
			Value: adf.Truncate(strings.Join(lines, "\n"), maxFieldLen),
		}}
	}

	if post.ImageURL != "" {
		e.Image = &discordgo.MessageEmbedImage{URL: post.ImageURL}
	}

	return e, nil
}

// footerText renders the status glyphs (locked, reply, poll, quiz)
// followed by a human-readable container label.
func footerText(post model.ReportedPost, idx model.ContainerIndex) (string, error) {
	var b strings.Builder
	if post.IsLocked {
		b.WriteString(glyphLocked)
	}
	if post.IsReply {
		b.WriteString(glyphReply)
	}
	if len(post.PollAnswers) > 0 {
		b.WriteString(glyphPoll)
	}
	if post.HasQuiz {
		b.WriteString(glyphQuiz)
	}
	if b.Len() > 0 {
		b.WriteString(" ")
	}

	switch c := post.Container.(type) {
	case model.Forum:
		b.WriteString("Discussions • " + c.Name)
	case model.ArticleComment:
		article, ok := idx.Articles[c.PageID]
		if !ok {
			return "", fmt.Errorf("article %s not in container index", c.PageID)
		}
		b.WriteString("Article comment • " + article.Title)
	case model.Wall:
		user, ok := idx.Users[c.OwnerID]
		if !ok {
			return "", fmt.Errorf("wall owner %s not in container index", c.OwnerID)
		}
		b.WriteString("Message Wall • " + user.Username)
	default:
		return "", fmt.Errorf("unhandled container type %T", post.Container)
	}
	return b.String(), nil
}

// postURL builds the link back to the reported post on the wiki.
func postURL(post model.ReportedPost, idx model.ContainerIndex, wikiURL string) (string, error) {
	switch c := post.Container.(type) {
	case model.Forum:
		u := wikiURL + "/f/p/" + post.ThreadID
		if post.IsReply {
			u += "/r/" + post.ID
		}
		return u, nil
	case model.ArticleComment:
		article, ok := idx.Articles[c.PageID]
		if !ok {
			return "", fmt.Errorf("article %s not in container index", c.PageID)
		}
		u := wikiURL + article.RelativeURL + "?commentId=" + post.ThreadID
		if post.IsReply {
			u += "&replyId=" + post.ID
		}
		return u + "#articleComments", nil
	case model.Wall:
		user, ok := idx.Users[c.OwnerID]
		if !ok {
			return "", fmt.Errorf("wall owner %s not in container index", c.OwnerID)
		}
		u := wikiURL + "/wiki/Message_Wall:" + strings.ReplaceAll(user.Username, " ", "_") +
			"?threadId=" + post.ThreadID
		if post.IsReply {
			u += "#" + post.ID
		}
		return u, nil
	default:
		return "", fmt.Errorf("unhandled container type %T", post.Container)
	}
}
