// Package poller drives the report pipeline: fetch, filter, resolve,
// format, dispatch, persist. One pass per timer tick.
package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/sacrificing/Fandom-Report-Bot/internal/adf"
	"github.com/sacrificing/Fandom-Report-Bot/internal/discord"
	"github.com/sacrificing/Fandom-Report-Bot/internal/fandom"
	"github.com/sacrificing/Fandom-Report-Bot/internal/model"
	"github.com/sacrificing/Fandom-Report-Bot/internal/storage"
)

// Fetcher is the wiki-platform surface the poller depends on.
type Fetcher interface {
	EnsureSession(ctx context.Context) error
	ReportedPosts(ctx context.Context) ([]fandom.Post, []fandom.WallOwner, error)
	ResolveContainers(ctx context.Context, pageIDs, userIDs []string) (model.ContainerIndex, error)
}

// Sender delivers an ordered list of embeds, batching as needed.
type Sender interface {
	SendBatches(ctx context.Context, embeds []*discordgo.MessageEmbed) error
}

// Poller runs the poll loop. Ticks are serialized: a slow cycle delays
// the next one rather than overlapping it, so the seen set and the
// per-cycle container index have a single writer.
type Poller struct {
	client   Fetcher
	store    storage.Storage
	sender   Sender
	log      *slog.Logger
	wikiURL  string
	interval time.Duration
	seen     map[string]struct{}
}

// New creates a Poller.
func New(client Fetcher, store storage.Storage, sender Sender, wikiURL string, interval time.Duration, log *slog.Logger) *Poller {
	return &Poller{
		client:   client,
		store:    store,
		sender:   sender,
		log:      log,
		wikiURL:  wikiURL,
		interval: interval,
		seen:     make(map[string]struct{}),
	}
}

// Run authenticates, loads the seen-post set and polls until ctx is
// cancelled. The cache load is best-effort: a broken cache means a
// fresh start, not a dead process.
func (p *Poller) Run(ctx context.Context) {
	if err := p.client.EnsureSession(ctx); err != nil {
		p.log.Error("session setup aborted", "error", err)
		return
	}

	ids, err := p.store.Load(ctx)
	if err != nil {
		p.log.Warn("load seen cache failed, starting empty", "error", err)
	}
	for _, id := range ids {
		p.seen[id] = struct{}{}
	}
	p.log.Info("poller started", "known_posts", len(p.seen), "interval", p.interval)

	p.tick(ctx)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			p.tick(ctx)
		}
	}
}

// tick runs one full poll cycle. Any failure abandons the cycle; the
// next scheduled tick is the retry mechanism.
func (p *Poller) tick(ctx context.Context) {
	posts, owners, err := p.client.ReportedPosts(ctx)
	if err != nil {
		p.handleTickError(ctx, "fetch reported posts", err)
		return
	}

	fresh, pageIDs, userIDs := p.filter(posts, owners)

	idx := model.ContainerIndex{}
	if len(pageIDs) > 0 || len(userIDs) > 0 {
		idx, err = p.client.ResolveContainers(ctx, pageIDs, userIDs)
		if err != nil {
			p.handleTickError(ctx, "resolve containers", err)
			return
		}
	}

	embeds := make([]*discordgo.MessageEmbed, 0, len(fresh))
	for _, post := range fresh {
		e, err := discord.Embed(post, idx, p.wikiURL)
		if err != nil {
			p.log.Error("format post", "post_id", post.ID, "error", err)
			continue
		}
		embeds = append(embeds, e)
	}

	// The feed arrives newest first; flip it so moderators read each
	// batch in chronological order.
	slices.Reverse(embeds)

	if len(embeds) > 0 {
		if err := p.sender.SendBatches(ctx, embeds); err != nil {
			p.log.Error("dispatch notifications", "count", len(embeds), "error", err)
		} else {
			p.log.Info("delivered reported posts", "count", len(embeds))
		}
	}

	// Persist even after a failed dispatch: the ids were marked during
	// filtering and must survive a restart (at-most-once delivery).
	p.persist(ctx)
}

func (p *Poller) handleTickError(ctx context.Context, stage string, err error) {
	if errors.Is(err, fandom.ErrUnauthenticated) {
		p.log.Warn("session rejected, re-authenticating", "stage", stage)
		if err := p.client.EnsureSession(ctx); err != nil {
			p.log.Error("re-authentication aborted", "error", err)
		}
		return
	}
	p.log.Error(stage, "error", err)
}

// filter drops deleted and already-seen posts, marks the survivors
// seen, and converts them to domain posts while collecting the page
// and user ids that need resolving.
func (p *Poller) filter(posts []fandom.Post, owners []fandom.WallOwner) ([]model.ReportedPost, []string, []string) {
	var fresh []model.ReportedPost
	pages := make(map[string]struct{})
	users := make(map[string]struct{})

	for _, wp := range posts {
		if wp.IsDeleted {
			continue
		}
		if _, ok := p.seen[wp.ID]; ok {
			continue
		}
		// Marked seen before delivery: a post that later fails to
		// format or send is not retried.
		p.seen[wp.ID] = struct{}{}

		container, err := containerFor(wp, owners)
		if err != nil {
			p.log.Error("classify container", "post_id", wp.ID, "error", err)
			continue
		}
		switch c := container.(type) {
		case model.ArticleComment:
			pages[c.PageID] = struct{}{}
		case model.Wall:
			users[c.OwnerID] = struct{}{}
		}

		fresh = append(fresh, toDomain(wp, container))
	}

	return fresh, slices.Sorted(maps.Keys(pages)), slices.Sorted(maps.Keys(users))
}

// containerFor classifies a wire post into its container variant. Wall
// posts require a matching entry in the companion wall-owners list; a
// missing entry is an error, not a blind lookup.
func containerFor(wp fandom.Post, owners []fandom.WallOwner) (model.Container, error) {
	switch wp.ContainerType {
	case fandom.ContainerForum:
		return model.Forum{Name: wp.ForumName}, nil
	case fandom.ContainerArticleComment:
		return model.ArticleComment{PageID: wp.ContainerID}, nil
	case fandom.ContainerWall:
		for _, o := range owners {
			if o.WallContainerID == wp.ContainerID {
				return model.Wall{OwnerID: o.UserID}, nil
			}
		}
		return nil, fmt.Errorf("no wall owner for container %s", wp.ContainerID)
	default:
		return nil, fmt.Errorf("unknown container type %q", wp.ContainerType)
	}
}

func toDomain(wp fandom.Post, container model.Container) model.ReportedPost {
	body := adf.PlainText(wp.JSONModel)
	if body == "" {
		body = wp.RawContent
	}

	post := model.ReportedPost{
		ID:        wp.ID,
		Title:     wp.Title,
		Body:      body,
		CreatedAt: time.Unix(wp.CreationDate.EpochSecond, 0),
		Author: model.Author{
			ID:        wp.CreatedBy.ID,
			Name:      wp.CreatedBy.Name,
			AvatarURL: wp.CreatedBy.AvatarURL,
		},
		ThreadID:  wp.ThreadID,
		Container: container,
		IsReply:   wp.IsReply,
		IsLocked:  wp.IsLocked,
		HasQuiz:   wp.HasQuiz(),
	}
	if len(wp.Embedded.ContentImages) > 0 {
		post.ImageURL = wp.Embedded.ContentImages[0].URL
	}
	if wp.Poll != nil {
		for _, a := range wp.Poll.Answers {
			post.PollAnswers = append(post.PollAnswers, a.Text)
		}
	}
	return post
}

// persist snapshots the seen set to storage. Failures are logged and
// otherwise ignored; the next cycle overwrites with corrected state.
func (p *Poller) persist(ctx context.Context) {
	ids := slices.Sorted(maps.Keys(p.seen))
	if err := p.store.Save(ctx, ids); err != nil {
		p.log.Error("save seen cache", "error", err)
	}
}
