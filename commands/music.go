package commands

import (
	"fmt"
	"strings"
	"time"

	"groovebot/model"
	"groovebot/player"
	"groovebot/utils"

	"github.com/bwmarrin/discordgo"
)

func playCommand(d *Deps) *model.Command {
	return &model.Command{
		Name:         "play",
		Aliases:      []string{"p"},
		Description:  "Queue a track by URL or search query.",
		Usage:        "play <url or query>",
		BotPerms:     discordgo.PermissionEmbedLinks,
		Requirements: []model.Requirement{model.RequiresVoice},
		Cooldown:     3 * time.Second,
		Run: func(ctx *model.Context, args []string) error {
			if len(args) == 0 {
				return ctx.Reply("Tell me what to play: `play <url or query>`.")
			}
			query := strings.Join(args, " ")

			track, err := d.resolveTrack(query)
			if err != nil {
				return fmt.Errorf("resolve %q: %w", query, err)
			}
			track.RequestedBy = ctx.UserID

			voice, _, err := d.Platform.UserVoiceChannel(ctx.GuildID, ctx.UserID)
			if err != nil {
				return fmt.Errorf("voice state for %s: %w", ctx.UserID, err)
			}

			session := d.Players.Open(ctx.GuildID, voice)
			position := session.Enqueue(track)
			if position == 0 {
				return ctx.ReplyEmbed(trackEmbed("Now playing", track))
			}
			return ctx.Reply(fmt.Sprintf("Queued **%s** at position %d.", track.Title, position))
		},
	}
}

func skipCommand(d *Deps) *model.Command {
	return &model.Command{
		Name:         "skip",
		Aliases:      []string{"s", "next"},
		Description:  "Skip the current track.",
		Usage:        "skip",
		Requirements: []model.Requirement{model.RequiresSameVoice, model.RequiresPlaying},
		Run: func(ctx *model.Context, _ []string) error {
			session, _ := d.Players.GetActiveSession(ctx.GuildID)
			next, ok := session.Skip()
			if !ok {
				d.Players.Close(ctx.GuildID)
				return ctx.Reply("Skipped. The queue is empty, so I stopped.")
			}
			return ctx.Reply(fmt.Sprintf("Skipped. Now playing **%s**.", next.Title))
		},
	}
}

func stopCommand(d *Deps) *model.Command {
	return &model.Command{
		Name:         "stop",
		Aliases:      []string{"leave", "dc"},
		Description:  "Stop playback and clear the queue.",
		Usage:        "stop",
		Requirements: []model.Requirement{model.RequiresSameVoice, model.RequiresSession},
		Run: func(ctx *model.Context, _ []string) error {
			d.Players.Close(ctx.GuildID)
			return ctx.React("👋")
		},
	}
}

func pauseCommand(d *Deps) *model.Command {
	return &model.Command{
		Name:         "pause",
		Description:  "Pause the current track.",
		Usage:        "pause",
		Requirements: []model.Requirement{model.RequiresSameVoice, model.RequiresPlaying},
		Run: func(ctx *model.Context, _ []string) error {
			session, _ := d.Players.GetActiveSession(ctx.GuildID)
			session.Pause()
			return ctx.React("⏸️")
		},
	}
}

func resumeCommand(d *Deps) *model.Command {
	return &model.Command{
		Name:         "resume",
		Aliases:      []string{"unpause"},
		Description:  "Resume a paused track.",
		Usage:        "resume",
		Requirements: []model.Requirement{model.RequiresSameVoice, model.RequiresSession},
		Run: func(ctx *model.Context, _ []string) error {
			session, _ := d.Players.GetActiveSession(ctx.GuildID)
			if !session.Resume() {
				return ctx.Reply("There is nothing to resume.")
			}
			return ctx.React("▶️")
		},
	}
}

func nowPlayingCommand(d *Deps) *model.Command {
	return &model.Command{
		Name:         "nowplaying",
		Aliases:      []string{"np"},
		Description:  "Show the current track.",
		Usage:        "nowplaying",
		BotPerms:     discordgo.PermissionEmbedLinks,
		Requirements: []model.Requirement{model.RequiresSession},
		Run: func(ctx *model.Context, _ []string) error {
			session, _ := d.Players.GetActiveSession(ctx.GuildID)
			current, ok := session.Current()
			if !ok {
				return ctx.Reply("Nothing is playing right now.")
			}
			return ctx.ReplyEmbed(trackEmbed("Now playing", current))
		},
	}
}

func queueCommand(d *Deps) *model.Command {
	return &model.Command{
		Name:         "queue",
		Aliases:      []string{"q"},
		Description:  "Show the upcoming tracks.",
		Usage:        "queue",
		BotPerms:     discordgo.PermissionEmbedLinks,
		Requirements: []model.Requirement{model.RequiresSession},
		Run: func(ctx *model.Context, _ []string) error {
			session, _ := d.Players.GetActiveSession(ctx.GuildID)
			upcoming := session.Queue()
			if len(upcoming) == 0 {
				return ctx.Reply("The queue is empty.")
			}

			var lines []string
			for i, track := range upcoming {
				lines = append(lines, fmt.Sprintf("%d. **%s** (requested by <@%s>)", i+1, track.Title, track.RequestedBy))
			}
			return ctx.ReplyEmbed(&discordgo.MessageEmbed{
				Title:       fmt.Sprintf("Queue (%d tracks)", len(upcoming)),
				Description: strings.Join(lines, "\n"),
				Color:       embedColor,
			})
		},
	}
}

func trackEmbed(title string, track player.Track) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       title,
		Description: fmt.Sprintf("**%s**", track.Title),
		Color:       embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Requested by", Value: fmt.Sprintf("<@%s>", track.RequestedBy), Inline: true},
		},
	}
	if track.URL != "" {
		embed.URL = track.URL
	}
	if track.Duration > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Duration", Value: utils.FormatDuration(track.Duration), Inline: true,
		})
	}
	return embed
}
