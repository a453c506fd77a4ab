// Package handlers wires gateway events into the admission pipeline.
package handlers

import (
	"fmt"
	"log"
	"time"

	"groovebot/bot"
	"groovebot/commands"
	"groovebot/dispatch"
	"groovebot/model"
	"groovebot/pipeline"
	"groovebot/player"
	"groovebot/utils"

	"github.com/bwmarrin/discordgo"
)

// sessionProvider adapts the player manager to the admission chain's
// session lookup.
type sessionProvider struct {
	players *player.Manager
}

func (p sessionProvider) GetActiveSession(guildID string) (pipeline.Session, bool) {
	session, ok := p.players.GetActiveSession(guildID)
	if !ok {
		return nil, false
	}
	return session, true
}

// Register builds the admission pipeline, installs the builtin commands
// and attaches the gateway event handlers.
func Register(b *bot.Bot) {
	platform := &discordPlatform{session: b.Session}

	b.Pipe = pipeline.New(b.Cfg, b.Registry, b.Store, platform,
		sessionProvider{players: b.Players}, b.Cooldowns, b.Limiter, b.Dispatcher)

	b.Pipe.OnMention = func(ctx *model.Context, prefix string) {
		ctx.ReplyEmbed(commands.GreetingEmbed(prefix))
	}
	b.Pipe.OnHelp = func(ctx *model.Context, cmd *model.Command) {
		ctx.ReplyEmbed(commands.HelpEmbed(cmd))
	}

	commands.RegisterAll(b.Registry, &commands.Deps{
		Cfg:      b.Cfg,
		Store:    b.Store,
		Players:  b.Players,
		Pipe:     b.Pipe,
		Platform: platform,
		Monitor:  b.Monitor,
		Cache:    b.Cache,
		Queue:    b.Queue,
		Breakers: b.Breakers,
		Session:  b.Session,
		Registry: b.Registry,
		Resolve:  player.ResolveQuery,
	})

	b.Dispatcher.Audit = auditLogger(b)
	b.Dispatcher.PriorityOf = priorityOf(b)

	b.Session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		log.Printf("Logged in as: %v#%v", s.State.User.Username, s.State.User.Discriminator)
		utils.LogInfo(s, b.Cfg.LogChannelID, "System", "Startup", "Bot has started successfully.")
	})
	b.Session.AddHandler(messageCreate(b))
}

func messageCreate(b *bot.Bot) func(s *discordgo.Session, m *discordgo.MessageCreate) {
	return func(s *discordgo.Session, m *discordgo.MessageCreate) {
		if m.Author == nil || m.Author.Bot {
			return
		}
		if s.State.User != nil && m.Author.ID == s.State.User.ID {
			return
		}

		defer func() {
			if r := recover(); r != nil {
				log.Printf("Panic handling message %s: %v", m.ID, r)
				b.Monitor.RecordError("handler", fmt.Sprintf("panic: %v", r))
			}
		}()

		ctx := &model.Context{
			UserID:    m.Author.ID,
			GuildID:   m.GuildID,
			ChannelID: m.ChannelID,
			MessageID: m.ID,
			Content:   m.Content,
			Replier: &messageReplier{
				session:   s,
				channelID: m.ChannelID,
				messageID: m.ID,
			},
		}
		if m.Member != nil {
			ctx.MemberRoles = m.Member.Roles
		}
		for _, user := range m.Mentions {
			ctx.Mentions = append(ctx.Mentions, user.ID)
		}
		for _, attachment := range m.Attachments {
			ctx.Attachments = append(ctx.Attachments, attachment.URL)
		}

		b.Pipe.Handle(ctx)
	}
}

// auditLogger reports failed dispatches to the log channel.
func auditLogger(b *bot.Bot) func(dispatch.AuditEntry) {
	return func(e dispatch.AuditEntry) {
		if e.Err == nil {
			return
		}
		utils.LogError(b.Session, b.Cfg.LogChannelID, "Dispatch", e.Command,
			fmt.Sprintf("user %s in guild %s failed after %s: %v",
				e.UserID, e.GuildID, e.Duration.Round(time.Millisecond), e.Err))
	}
}

// priorityOf ranks queued work: admins first, premium next, everyone
// else behind them.
func priorityOf(b *bot.Bot) func(ctx *model.Context) int {
	return func(ctx *model.Context) int {
		if b.Cfg.IsAdmin(ctx.UserID) {
			return 2
		}
		premium, err := b.Store.IsPremium(ctx.UserID)
		if err != nil {
			log.Printf("Premium lookup failed for %s: %v", ctx.UserID, err)
			return 0
		}
		if premium {
			return 1
		}
		return 0
	}
}
