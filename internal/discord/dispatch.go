package discord

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"
)

// batchSize is the most embeds Discord accepts in one webhook call.
const batchSize = 10

// webhookExecutor is the slice of discordgo.Session the dispatcher needs.
type webhookExecutor interface {
	WebhookExecute(webhookID, token string, wait bool, data *discordgo.WebhookParams, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// Dispatcher submits formatted embeds to a single Discord webhook in
// batches of at most ten, pacing calls to stay under the webhook rate
// limit.
type Dispatcher struct {
	session webhookExecutor
	id      string
	token   string
	limiter *rate.Limiter
	log     *slog.Logger
}

// NewDispatcher creates a Dispatcher for the given webhook.
func NewDispatcher(webhookID, token string, log *slog.Logger) (*Dispatcher, error) {
	// Webhook execution is unauthenticated beyond the webhook token, so
	// the session carries no bot token.
	session, err := discordgo.New("")
	if err != nil {
		return nil, fmt.Errorf("create discord session: %w", err)
	}
	return &Dispatcher{
		session: session,
		id:      webhookID,
		token:   token,
		limiter: rate.NewLimiter(rate.Every(time.Second), 2),
		log:     log,
	}, nil
}

// SendBatches splits embeds into consecutive batches and executes one
// webhook call per batch, in order. The first transport error is
// returned unchanged; batching adds no retries and no suppression.
func (d *Dispatcher) SendBatches(ctx context.Context, embeds []*discordgo.MessageEmbed) error {
	for start := 0; start < len(embeds); start += batchSize {
		end := min(start+batchSize, len(embeds))
		if err := d.limiter.Wait(ctx); err != nil {
			return err
		}
		if _, err := d.session.WebhookExecute(d.id, d.token, true, &discordgo.WebhookParams{
			Embeds: embeds[start:end],
		}); err != nil {
			return fmt.Errorf("execute webhook: %w", err)
		}
		d.log.Debug("sent webhook batch", "count", end-start)
	}
	return nil
}
