package discord

import (
	"context"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/KirkDiggler/dobbelen/internal/services/game"
	"github.com/KirkDiggler/dobbelen/internal/services/synchronizer"
)

// messenger is the part of the Discord session the announcer writes with
type messenger interface {
	ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
	ChannelMessageEditEmbed(channelID, messageID string, embed *discordgo.MessageEmbed, options ...discordgo.RequestOption) (*discordgo.Message, error)
}

// announcer keeps one live table message per channel in step with the session
type announcer struct {
	messenger   messenger
	gameService game.Service
	tables      *tables
	logger      *zap.Logger
	channelID   string
	gameID      string
}

// run renders every published snapshot until the game ends, the table is
// replaced or the subscription is dropped
func (a *announcer) run(sub *synchronizer.Subscription, stop <-chan struct{}) {
	defer a.unsubscribe(sub.ID)

	for {
		select {
		case snap, ok := <-sub.C:
			if !ok {
				return
			}
			a.render(snap.ViewFor(""))
			if snap.State.IsGameEnded() {
				return
			}
		case <-stop:
			return
		}
	}
}

// render posts the table message the first time and edits it afterwards
func (a *announcer) render(snap *synchronizer.Snapshot) {
	embed := renderTable(snap)

	if messageID := a.tables.messageFor(a.channelID, a.gameID); messageID != "" {
		_, err := a.messenger.ChannelMessageEditEmbed(a.channelID, messageID, embed)
		if err == nil {
			return
		}
		a.logger.Debug("table message edit failed, reposting",
			zap.String("game_id", a.gameID),
			zap.String("message_id", messageID),
			zap.Error(err))
	}

	msg, err := a.messenger.ChannelMessageSendEmbed(a.channelID, embed)
	if err != nil {
		a.logger.Warn("failed to post table message",
			zap.String("game_id", a.gameID),
			zap.String("channel_id", a.channelID),
			zap.Error(err))
		return
	}
	a.tables.setMessage(a.channelID, a.gameID, msg.ID)
}

func (a *announcer) unsubscribe(subID string) {
	err := a.gameService.Unsubscribe(context.Background(), &game.UnsubscribeInput{
		GameID:         a.gameID,
		SubscriptionID: subID,
	})
	if err != nil {
		a.logger.Debug("announcer unsubscribe failed",
			zap.String("game_id", a.gameID),
			zap.Error(err))
	}
}
