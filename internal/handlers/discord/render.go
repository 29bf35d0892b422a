package discord

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"

	"github.com/KirkDiggler/dobbelen/internal/models"
	"github.com/KirkDiggler/dobbelen/internal/services/game"
	"github.com/KirkDiggler/dobbelen/internal/services/synchronizer"
)

var faces = [...]string{"?", "⚀", "⚁", "⚂", "⚃", "⚄", "⚅"}

// face renders a die value
func face(v int) string {
	if v < models.MinFace || v > models.MaxFace {
		return faces[0]
	}
	return faces[v]
}

// renderDice renders a hand as die faces
func renderDice(dice []int) string {
	if len(dice) == 0 {
		return "no dice"
	}
	parts := make([]string, len(dice))
	for i, d := range dice {
		parts[i] = face(d)
	}
	return strings.Join(parts, " ")
}

// renderBid renders a bid as "3 × ⚄"
func renderBid(b *synchronizer.BidView) string {
	if b == nil {
		return "none"
	}
	return fmt.Sprintf("%d × %s", b.Quantity, face(b.FaceValue))
}

// playerName finds a display name in a snapshot
func playerName(snap *synchronizer.Snapshot, playerID string) string {
	for _, p := range snap.Players {
		if p.ID == playerID {
			return p.Name
		}
	}
	return "someone"
}

// renderTable builds the public table embed from a spectator snapshot
func renderTable(snap *synchronizer.Snapshot) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:  "Liar's Dice",
		Color:  colorTable,
		Footer: &discordgo.MessageEmbedFooter{Text: fmt.Sprintf("game %s · v%d", snap.SessionID, snap.Version)},
	}
	if snap.RoundNumber > 0 {
		embed.Title = fmt.Sprintf("Liar's Dice · Round %d", snap.RoundNumber)
	}

	switch snap.State {
	case models.GameStateWaiting:
		embed.Description = "Waiting for players. `/dice join` to sit down, `/dice start` to deal."
	case models.GameStateInProgress:
		embed.Description = fmt.Sprintf("%d dice on the table. %s to act.", snap.TotalDice, playerName(snap, snap.TurnPlayerID))
	case models.GameStateRoundEnded:
		embed.Description = "Round over."
		if snap.CoolDown {
			embed.Description += " Look at those dice..."
		} else {
			embed.Description += " `/dice continue` for the next round."
		}
	case models.GameStateGameEnded:
		embed.Description = fmt.Sprintf("🏆 %s wins the game!", playerName(snap, snap.WinnerID))
		embed.Color = colorWin
	}

	var seats strings.Builder
	for _, p := range snap.Players {
		marker := "▫️"
		switch {
		case p.Eliminated:
			marker = "💀"
		case p.ID == snap.TurnPlayerID:
			marker = "▶️"
		case p.ID == snap.DealerID:
			marker = "🎩"
		}
		fmt.Fprintf(&seats, "%s **%s** · %d dice · %d tokens", marker, p.Name, p.DieCount, p.WinTokens)
		if p.ActorKind.IsScripted() {
			seats.WriteString(" · 🤖")
		}
		if len(p.Dice) > 0 {
			fmt.Fprintf(&seats, " · %s", renderDice(p.Dice))
		}
		seats.WriteString("\n")
	}
	embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: "Players", Value: seats.String()})

	if snap.CurrentBid != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Standing bid",
			Value:  fmt.Sprintf("%s by %s", renderBid(snap.CurrentBid), playerName(snap, snap.CurrentBid.PlayerID)),
			Inline: true,
		})
	}
	if snap.LastAction != nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "Last action",
			Value: describeLastAction(snap),
		})
	}

	return embed
}

// describeLastAction narrates the most recent accepted action
func describeLastAction(snap *synchronizer.Snapshot) string {
	la := snap.LastAction
	if la == nil {
		return ""
	}
	actor := playerName(snap, la.PlayerID)
	bid := fmt.Sprintf("%d × %s", la.BidQuantity, face(la.BidFaceValue))

	var b strings.Builder
	switch la.Kind {
	case models.ActionKindRaise:
		fmt.Fprintf(&b, "%s bids %s.", actor, bid)
	case models.ActionKindDoubt:
		fmt.Fprintf(&b, "%s doubts %s. There were %d.", actor, bid, la.ActualCount)
	case models.ActionKindSpotOn:
		fmt.Fprintf(&b, "%s calls spot-on on %s. There were %d.", actor, bid, la.ActualCount)
	}
	if la.PenalizedPlayerID != "" {
		fmt.Fprintf(&b, " %s loses a die.", playerName(snap, la.PenalizedPlayerID))
	}
	if la.TokenPlayerID != "" {
		fmt.Fprintf(&b, " %s takes a token.", playerName(snap, la.TokenPlayerID))
	}
	if la.EliminatedPlayerID != "" {
		fmt.Fprintf(&b, " %s is out!", playerName(snap, la.EliminatedPlayerID))
	}
	return b.String()
}

// renderHand describes a player's own dice
func renderHand(snap *synchronizer.Snapshot, playerID string) string {
	for _, p := range snap.Players {
		if p.ID != playerID {
			continue
		}
		if p.Eliminated {
			return "You're out of dice."
		}
		if snap.RoundNumber == 0 {
			return "The dice haven't been rolled yet."
		}
		return fmt.Sprintf("Your dice: %s", renderDice(p.Dice))
	}
	return "You're not at this table."
}

// userMessage turns a service error into something a player can act on
func userMessage(err error) string {
	var gameErr game.GameError
	if !errors.As(err, &gameErr) {
		return "Something went wrong, try again."
	}

	switch gameErr {
	case game.ErrInvalidBid:
		return "That bid doesn't beat the standing one. Raise the quantity, or keep it and pick a higher face."
	case game.ErrNotYourTurn:
		return "It's not your turn."
	case game.ErrPlayerEliminated:
		return "You're out of dice for this game."
	case game.ErrRoundNotAwaitingBid:
		return "The round isn't taking bids right now."
	case game.ErrSessionNotFound:
		return "No game at this table. `/dice new` to start one."
	case game.ErrGameAlreadyEnded:
		return "This game is over. `/dice new` for another."
	default:
		return gameErr.Error()
	}
}
