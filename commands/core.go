package commands

import (
	"fmt"
	"strings"
	"time"

	"groovebot/model"

	"github.com/bwmarrin/discordgo"
)

const embedColor = 0x5865F2 // Discord Blurple

func pingCommand(d *Deps) *model.Command {
	return &model.Command{
		Name:        "ping",
		Description: "Check whether the bot is alive and how slow it is.",
		Usage:       "ping",
		Run: func(ctx *model.Context, _ []string) error {
			if d.Session != nil {
				return ctx.Reply(fmt.Sprintf("Pong! Gateway latency: %s", d.Session.HeartbeatLatency().Round(time.Millisecond)))
			}
			return ctx.Reply("Pong!")
		},
	}
}

func helpCommand(d *Deps) *model.Command {
	return &model.Command{
		Name:        "help",
		Aliases:     []string{"h", "commands"},
		Description: "List every command, or show details for one.",
		Usage:       "help [command]",
		BotPerms:    discordgo.PermissionEmbedLinks,
		Run: func(ctx *model.Context, args []string) error {
			if len(args) > 0 {
				cmd, ok := d.Registry.Resolve(args[0])
				if !ok {
					return ctx.Reply(fmt.Sprintf("I don't know a command called `%s`.", args[0]))
				}
				return ctx.ReplyEmbed(HelpEmbed(cmd))
			}
			return ctx.ReplyEmbed(OverviewEmbed(d.Registry))
		},
	}
}

// HelpEmbed renders the detail card for one command. Also used when an
// invocation carries an inline help flag.
func HelpEmbed(cmd *model.Command) *discordgo.MessageEmbed {
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Command: %s", cmd.Name),
		Description: cmd.Description,
		Color:       embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Usage", Value: fmt.Sprintf("`%s`", cmd.Usage), Inline: true},
		},
	}
	if len(cmd.Aliases) > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Aliases", Value: strings.Join(cmd.Aliases, ", "), Inline: true,
		})
	}
	if cmd.Cooldown > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Cooldown", Value: cmd.Cooldown.String(), Inline: true,
		})
	}
	if cmd.Level > model.LevelEveryone {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name: "Restricted to", Value: cmd.Level.String(), Inline: true,
		})
	}
	return embed
}

// OverviewEmbed renders the full command list.
func OverviewEmbed(r *Registry) *discordgo.MessageEmbed {
	var lines []string
	for _, cmd := range r.All() {
		lines = append(lines, fmt.Sprintf("`%s` - %s", cmd.Name, cmd.Description))
	}
	return &discordgo.MessageEmbed{
		Title:       "Commands",
		Description: strings.Join(lines, "\n"),
		Color:       embedColor,
	}
}

// GreetingEmbed is sent when a message is nothing but a mention of the bot.
func GreetingEmbed(prefix string) *discordgo.MessageEmbed {
	return &discordgo.MessageEmbed{
		Title:       "Hi there!",
		Description: fmt.Sprintf("My prefix here is `%s`. Try `%shelp` to see what I can do.", prefix, prefix),
		Color:       embedColor,
	}
}
