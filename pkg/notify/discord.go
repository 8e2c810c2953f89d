package notify

import (
	"context"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/fadedpez/friendbet/pkg/entities"
)

// ChannelSender is the part of a Discord session the notifier needs
type ChannelSender interface {
	ChannelMessageSend(channelID string, content string, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// NewDiscordSession creates a bot session for posting notifications
func NewDiscordSession(token string) (*discordgo.Session, error) {
	s, err := discordgo.New("Bot " + token)
	if err != nil {
		return nil, fmt.Errorf("error creating discord session: %w", err)
	}
	return s, nil
}

// Discord posts notifications to a channel
type Discord struct {
	sender    ChannelSender
	channelID string
}

// Ensure *discordgo.Session can back the notifier
var _ ChannelSender = (*discordgo.Session)(nil)

func NewDiscord(sender ChannelSender, channelID string) *Discord {
	return &Discord{sender: sender, channelID: channelID}
}

// Notify implements Notifier
func (d *Discord) Notify(ctx context.Context, n *entities.Notification) error {
	if _, err := d.sender.ChannelMessageSend(d.channelID, FormatDiscord(n), discordgo.WithContext(ctx)); err != nil {
		return fmt.Errorf("error sending discord message: %w", err)
	}
	return nil
}

// FormatDiscord renders a notification as Discord markdown
func FormatDiscord(n *entities.Notification) string {
	content := fmt.Sprintf("**%s**\n%s", n.Title, n.Message)
	if n.Link != "" {
		content += "\n" + n.Link
	}
	return content
}
