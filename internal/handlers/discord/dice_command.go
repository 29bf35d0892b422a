package discord

import (
	"context"
	"errors"
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/KirkDiggler/dobbelen/internal/models"
	"github.com/KirkDiggler/dobbelen/internal/services/game"
	"github.com/KirkDiggler/dobbelen/internal/services/synchronizer"
)

// Subcommands of /dice
const (
	subNew      = "new"
	subJoin     = "join"
	subStart    = "start"
	subBid      = "bid"
	subDoubt    = "doubt"
	subSpotOn   = "spoton"
	subContinue = "continue"
	subHand     = "hand"
	subTable    = "table"
)

// maxBots is how many scripted seats /dice new may add
const maxBots = 5

// DiceCommand handles the /dice command
type DiceCommand struct {
	BaseCommand
	gameService game.Service
	tables      *tables
	logger      *zap.Logger
}

// NewDiceCommand creates a new dice command handler
func NewDiceCommand(gameService game.Service, logger *zap.Logger) *DiceCommand {
	minQuantity := float64(1)
	minFace := float64(models.MinFace)
	maxFace := float64(models.MaxFace)
	minBots := float64(0)
	botLimit := float64(maxBots)

	return &DiceCommand{
		BaseCommand: BaseCommand{
			Name:        "dice",
			Description: "Liar's dice",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subNew,
					Description: "Open a new table in this channel",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "bots",
							Description: "Scripted players to seat",
							MinValue:    &minBots,
							MaxValue:    botLimit,
						},
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "level",
							Description: "How sharp the bots are",
							Choices: []*discordgo.ApplicationCommandOptionChoice{
								{Name: "easy", Value: string(models.ActorKindScriptedEasy)},
								{Name: "medium", Value: string(models.ActorKindScriptedMedium)},
							},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subJoin,
					Description: "Sit down at this channel's table",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subStart,
					Description: "Deal the first round",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subBid,
					Description: "Raise the standing bid",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "quantity",
							Description: "How many dice",
							Required:    true,
							MinValue:    &minQuantity,
						},
						{
							Type:        discordgo.ApplicationCommandOptionInteger,
							Name:        "face",
							Description: "Which face",
							Required:    true,
							MinValue:    &minFace,
							MaxValue:    maxFace,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subDoubt,
					Description: "Call the standing bid too high",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subSpotOn,
					Description: "Call the standing bid exactly right",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subContinue,
					Description: "Deal the next round",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subHand,
					Description: "Peek at your dice",
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        subTable,
					Description: "Show the table",
				},
			},
		},
		gameService: gameService,
		tables:      newTables(),
		logger:      logger,
	}
}

// Handle processes a Discord interaction for the dice command
func (c *DiceCommand) Handle(s *discordgo.Session, i *discordgo.InteractionCreate) error {
	if i.Type != discordgo.InteractionApplicationCommand {
		return nil
	}

	data := i.ApplicationCommandData()
	if data.Name != c.Name || len(data.Options) == 0 {
		return nil
	}

	sub := data.Options[0]
	userID, username := invoker(i)
	ctx := context.Background()

	switch sub.Name {
	case subNew:
		return c.handleNew(ctx, s, i, userID, username, sub.Options)
	case subJoin:
		return c.handleJoin(ctx, s, i, userID, username)
	case subStart:
		return c.handleStart(ctx, s, i, userID)
	case subBid:
		return c.handleBid(ctx, s, i, userID, sub.Options)
	case subDoubt, subSpotOn:
		return c.handleChallenge(ctx, s, i, userID, sub.Name)
	case subContinue:
		return c.handleContinue(ctx, s, i, userID)
	case subHand:
		return c.handleHand(ctx, s, i, userID)
	case subTable:
		return c.handleTable(ctx, s, i)
	default:
		return RespondWithError(s, i, "Unknown subcommand.")
	}
}

// Close stops every channel announcer
func (c *DiceCommand) Close() {
	c.tables.closeAll()
}

// reject answers a failed command privately and logs unexpected failures
func (c *DiceCommand) reject(s *discordgo.Session, i *discordgo.InteractionCreate, action string, err error) error {
	var gameErr game.GameError
	if !errors.As(err, &gameErr) {
		c.logger.Error("dice command failed",
			zap.String("action", action),
			zap.String("channel_id", i.ChannelID),
			zap.Error(err))
	}
	return RespondWithError(s, i, userMessage(err))
}

func (c *DiceCommand) handleNew(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, userID, username string, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	bots := 0
	level := models.ActorKindScriptedMedium
	for _, opt := range opts {
		switch opt.Name {
		case "bots":
			bots = int(opt.IntValue())
		case "level":
			level = models.ActorKind(opt.StringValue())
		}
	}
	if bots < 0 || bots > maxBots {
		return RespondWithError(s, i, fmt.Sprintf("Pick between 0 and %d bots.", maxBots))
	}

	seats := []game.SeatInput{{Name: username, ActorKind: models.ActorKindHuman}}
	for n := 1; n <= bots; n++ {
		seats = append(seats, game.SeatInput{Name: fmt.Sprintf("Bot %d", n), ActorKind: level})
	}

	out, err := c.gameService.CreateGame(ctx, &game.CreateGameInput{Players: seats, Lobby: true})
	if err != nil {
		return c.reject(s, i, subNew, err)
	}

	tbl := c.tables.open(i.ChannelID, out.GameID)
	c.tables.seat(i.ChannelID, userID, out.PlayerIDs[0])

	sub, err := c.gameService.Subscribe(ctx, &game.SubscribeInput{GameID: out.GameID})
	if err != nil {
		c.logger.Warn("table will not update live",
			zap.String("game_id", out.GameID),
			zap.Error(err))
	} else {
		a := &announcer{
			messenger:   s,
			gameService: c.gameService,
			tables:      c.tables,
			logger:      c.logger,
			channelID:   i.ChannelID,
			gameID:      out.GameID,
		}
		go a.run(sub.Subscription, tbl.stop)
	}

	c.logger.Info("table opened",
		zap.String("channel_id", i.ChannelID),
		zap.String("game_id", out.GameID),
		zap.Int("bots", bots))

	return RespondWithMessage(s, i, fmt.Sprintf("🎲 %s opened a table. `/dice join` to sit down.", username))
}

func (c *DiceCommand) handleJoin(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, userID, username string) error {
	gameID, ok := c.tables.gameFor(i.ChannelID)
	if !ok {
		return RespondWithError(s, i, userMessage(game.ErrSessionNotFound))
	}
	if _, seated := c.tables.playerFor(i.ChannelID, userID); seated {
		return RespondWithError(s, i, "You're already at this table.")
	}

	out, err := c.gameService.JoinGame(ctx, &game.JoinGameInput{
		GameID:     gameID,
		PlayerName: username,
		ActorKind:  models.ActorKindHuman,
	})
	if err != nil {
		return c.reject(s, i, subJoin, err)
	}
	c.tables.seat(i.ChannelID, userID, out.PlayerID)

	return RespondWithMessage(s, i, fmt.Sprintf("%s sits down.", username))
}

// seated resolves the invoking user's player at the channel table
func (c *DiceCommand) seated(s *discordgo.Session, i *discordgo.InteractionCreate, userID string) (string, string, bool) {
	gameID, ok := c.tables.gameFor(i.ChannelID)
	if !ok {
		_ = RespondWithError(s, i, userMessage(game.ErrSessionNotFound))
		return "", "", false
	}
	playerID, ok := c.tables.playerFor(i.ChannelID, userID)
	if !ok {
		_ = RespondWithError(s, i, "You're not at this table. `/dice join` first.")
		return "", "", false
	}
	return gameID, playerID, true
}

func (c *DiceCommand) handleStart(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, userID string) error {
	gameID, playerID, ok := c.seated(s, i, userID)
	if !ok {
		return nil
	}

	out, err := c.gameService.StartRound(ctx, &game.StartRoundInput{GameID: gameID, PlayerID: playerID})
	if err != nil {
		return c.reject(s, i, subStart, err)
	}

	return RespondWithEphemeralMessage(s, i, "Dice are rolled. "+renderHand(out.Snapshot, playerID))
}

func (c *DiceCommand) handleBid(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, userID string, opts []*discordgo.ApplicationCommandInteractionDataOption) error {
	gameID, playerID, ok := c.seated(s, i, userID)
	if !ok {
		return nil
	}

	var quantity, faceValue int
	for _, opt := range opts {
		switch opt.Name {
		case "quantity":
			quantity = int(opt.IntValue())
		case "face":
			faceValue = int(opt.IntValue())
		}
	}

	out, err := c.gameService.Bid(ctx, &game.BidInput{
		GameID:    gameID,
		PlayerID:  playerID,
		Quantity:  quantity,
		FaceValue: faceValue,
	})
	if err != nil {
		return c.reject(s, i, subBid, err)
	}

	return RespondWithMessage(s, i, describeLastAction(out.Snapshot))
}

func (c *DiceCommand) handleChallenge(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, userID, action string) error {
	gameID, playerID, ok := c.seated(s, i, userID)
	if !ok {
		return nil
	}

	var snap *synchronizer.Snapshot
	if action == subDoubt {
		out, err := c.gameService.Doubt(ctx, &game.DoubtInput{GameID: gameID, PlayerID: playerID})
		if err != nil {
			return c.reject(s, i, action, err)
		}
		snap = out.Snapshot
	} else {
		out, err := c.gameService.SpotOn(ctx, &game.SpotOnInput{GameID: gameID, PlayerID: playerID})
		if err != nil {
			return c.reject(s, i, action, err)
		}
		snap = out.Snapshot
	}

	return RespondWithEmbed(s, i, describeLastAction(snap), renderTable(snap))
}

func (c *DiceCommand) handleContinue(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, userID string) error {
	gameID, playerID, ok := c.seated(s, i, userID)
	if !ok {
		return nil
	}

	out, err := c.gameService.Continue(ctx, &game.ContinueInput{GameID: gameID, PlayerID: playerID})
	if err != nil {
		return c.reject(s, i, subContinue, err)
	}

	return RespondWithEphemeralMessage(s, i, fmt.Sprintf("Round %d. %s", out.Snapshot.RoundNumber, renderHand(out.Snapshot, playerID)))
}

func (c *DiceCommand) handleHand(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate, userID string) error {
	gameID, playerID, ok := c.seated(s, i, userID)
	if !ok {
		return nil
	}

	out, err := c.gameService.GetSnapshot(ctx, &game.GetSnapshotInput{GameID: gameID, PlayerID: playerID})
	if err != nil {
		return c.reject(s, i, subHand, err)
	}

	return RespondWithEphemeralMessage(s, i, renderHand(out.Snapshot, playerID))
}

func (c *DiceCommand) handleTable(ctx context.Context, s *discordgo.Session, i *discordgo.InteractionCreate) error {
	gameID, ok := c.tables.gameFor(i.ChannelID)
	if !ok {
		return RespondWithError(s, i, userMessage(game.ErrSessionNotFound))
	}

	out, err := c.gameService.GetSnapshot(ctx, &game.GetSnapshotInput{GameID: gameID})
	if err != nil {
		return c.reject(s, i, subTable, err)
	}

	return RespondWithEmbed(s, i, "", renderTable(out.Snapshot))
}
