package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"

	"github.com/KirkDiggler/dobbelen/internal/services/game"
)

// BotError is a typed construction error
type BotError string

func (e BotError) Error() string {
	return string(e)
}

const (
	ErrNilConfig      = BotError("config cannot be nil")
	ErrEmptyToken     = BotError("token cannot be empty")
	ErrNilGameService = BotError("game service cannot be nil")
	ErrNilLogger      = BotError("logger cannot be nil")
)

// Bot represents the Discord bot instance
type Bot struct {
	session    *discordgo.Session
	commands   map[string]CommandHandler
	commandIDs map[string]string
	dice       *DiceCommand
	logger     *zap.Logger
	config     *Config
}

// Config holds the configuration for the bot
type Config struct {
	// Discord bot token
	Token string

	// Application ID for the bot
	ApplicationID string

	// Optional guild ID for development (server-specific commands)
	GuildID string

	GameService game.Service
	Logger      *zap.Logger
}

// New creates a new Discord bot
func New(cfg *Config) (*Bot, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	if cfg.Token == "" {
		return nil, ErrEmptyToken
	}
	if cfg.GameService == nil {
		return nil, ErrNilGameService
	}
	if cfg.Logger == nil {
		return nil, ErrNilLogger
	}

	session, err := discordgo.New("Bot " + cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	bot := &Bot{
		session:    session,
		commands:   make(map[string]CommandHandler),
		commandIDs: make(map[string]string),
		dice:       NewDiceCommand(cfg.GameService, cfg.Logger),
		logger:     cfg.Logger,
		config:     cfg,
	}

	session.AddHandler(bot.handleInteraction)

	return bot, nil
}

// Start opens the Discord connection and registers commands
func (b *Bot) Start() error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	if err := b.RegisterCommand(b.dice); err != nil {
		return fmt.Errorf("failed to register dice command: %w", err)
	}

	b.logger.Info("discord bot running")
	return nil
}

// Stop removes registered commands, stops table announcers and closes the connection
func (b *Bot) Stop() error {
	b.dice.Close()

	appID := b.appID()
	for cmdName, cmdID := range b.commandIDs {
		if err := b.session.ApplicationCommandDelete(appID, b.config.GuildID, cmdID); err != nil {
			b.logger.Warn("failed to delete command",
				zap.String("command", cmdName),
				zap.String("command_id", cmdID),
				zap.Error(err))
		}
	}

	return b.session.Close()
}

func (b *Bot) appID() string {
	if b.config.ApplicationID != "" {
		return b.config.ApplicationID
	}
	return b.session.State.User.ID
}

// RegisterCommand registers a command with Discord, per guild when GuildID is set
func (b *Bot) RegisterCommand(cmd CommandHandler) error {
	createdCmd, err := b.session.ApplicationCommandCreate(b.appID(), b.config.GuildID, cmd.GetCommand())
	if err != nil {
		return fmt.Errorf("failed to create command %s: %w", cmd.GetName(), err)
	}

	b.commands[cmd.GetName()] = cmd
	b.commandIDs[cmd.GetName()] = createdCmd.ID
	b.logger.Info("registered command",
		zap.String("command", cmd.GetName()),
		zap.String("command_id", createdCmd.ID),
		zap.String("guild_id", b.config.GuildID))

	return nil
}

// handleInteraction dispatches slash commands
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	name := i.ApplicationCommandData().Name
	h, ok := b.commands[name]
	if !ok {
		return
	}
	if err := h.Handle(s, i); err != nil {
		b.logger.Error("error handling command",
			zap.String("command", name),
			zap.String("channel_id", i.ChannelID),
			zap.Error(err))
	}
}
