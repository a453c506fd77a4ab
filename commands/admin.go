package commands

import (
	"fmt"
	"strings"

	"groovebot/model"
)

func prefixCommand(d *Deps) *model.Command {
	return &model.Command{
		Name:        "prefix",
		Description: "Show or change the command prefix for this server.",
		Usage:       "prefix [new prefix|reset]",
		Level:       model.LevelServerStaff,
		Run: func(ctx *model.Context, args []string) error {
			if len(args) == 0 {
				prefix, ok, err := d.Store.GuildPrefix(ctx.GuildID)
				if err != nil {
					return fmt.Errorf("prefix lookup for guild %s: %w", ctx.GuildID, err)
				}
				if !ok {
					prefix = d.Cfg.Settings.Prefix
				}
				return ctx.Reply(fmt.Sprintf("The prefix here is `%s`.", prefix))
			}

			if args[0] == "reset" {
				if err := d.Store.SetGuildPrefix(ctx.GuildID, ""); err != nil {
					return fmt.Errorf("reset prefix for guild %s: %w", ctx.GuildID, err)
				}
				return ctx.Reply(fmt.Sprintf("Prefix reset to the default `%s`.", d.Cfg.Settings.Prefix))
			}

			prefix := args[0]
			if len(prefix) > 5 {
				return ctx.Reply("Prefixes are limited to 5 characters.")
			}
			if err := d.Store.SetGuildPrefix(ctx.GuildID, prefix); err != nil {
				return fmt.Errorf("set prefix for guild %s: %w", ctx.GuildID, err)
			}
			return ctx.Reply(fmt.Sprintf("Prefix changed to `%s`.", prefix))
		},
	}
}

func staffRolesCommand(d *Deps) *model.Command {
	return &model.Command{
		Name:        "staffroles",
		Description: "Show or set the roles treated as server staff.",
		Usage:       "staffroles [role id ...|clear]",
		Level:       model.LevelServerAdmin,
		Run: func(ctx *model.Context, args []string) error {
			if len(args) == 0 {
				roles, err := d.Store.ServerStaffRoles(ctx.GuildID)
				if err != nil {
					return fmt.Errorf("staff roles for guild %s: %w", ctx.GuildID, err)
				}
				if len(roles) == 0 {
					return ctx.Reply("No server staff roles are configured.")
				}
				return ctx.Reply(fmt.Sprintf("Server staff roles: %s", strings.Join(roles, ", ")))
			}

			if args[0] == "clear" {
				args = nil
			}
			if err := d.Store.SetServerStaffRoles(ctx.GuildID, args); err != nil {
				return fmt.Errorf("set staff roles for guild %s: %w", ctx.GuildID, err)
			}
			return ctx.React("✅")
		},
	}
}

func blacklistCommand(d *Deps) *model.Command {
	return &model.Command{
		Name:        "blacklist",
		Description: "Block or unblock a user from the bot entirely.",
		Usage:       "blacklist <add|remove> <user id>",
		Level:       model.LevelAdmin,
		Run: func(ctx *model.Context, args []string) error {
			if len(args) < 2 {
				return ctx.Reply("Usage: `blacklist <add|remove> <user id>`.")
			}
			userID := strings.Trim(args[1], "<@!>")

			switch args[0] {
			case "add":
				if d.Cfg.IsAdmin(userID) {
					return ctx.Reply("You cannot blacklist an admin.")
				}
				if err := d.Store.Blacklist(userID); err != nil {
					return fmt.Errorf("blacklist %s: %w", userID, err)
				}
			case "remove":
				if err := d.Store.Unblacklist(userID); err != nil {
					return fmt.Errorf("unblacklist %s: %w", userID, err)
				}
			default:
				return ctx.Reply("Usage: `blacklist <add|remove> <user id>`.")
			}
			return ctx.React("✅")
		},
	}
}

func ignoreChannelCommand(d *Deps) *model.Command {
	return &model.Command{
		Name:        "ignorechannel",
		Aliases:     []string{"ignore"},
		Description: "Toggle command handling in a channel.",
		Usage:       "ignorechannel [channel id]",
		Level:       model.LevelAdmin,
		Run: func(ctx *model.Context, args []string) error {
			channelID := ctx.ChannelID
			if len(args) > 0 {
				channelID = strings.Trim(args[0], "<#>")
			}

			ignored, err := d.Store.IsIgnoredChannel(channelID)
			if err != nil {
				return fmt.Errorf("ignored lookup for %s: %w", channelID, err)
			}
			if ignored {
				if err := d.Store.UnignoreChannel(channelID); err != nil {
					return fmt.Errorf("unignore %s: %w", channelID, err)
				}
				return ctx.Reply(fmt.Sprintf("Commands re-enabled in <#%s>.", channelID))
			}
			if err := d.Store.IgnoreChannel(channelID); err != nil {
				return fmt.Errorf("ignore %s: %w", channelID, err)
			}
			return ctx.Reply(fmt.Sprintf("Commands disabled in <#%s>.", channelID))
		},
	}
}

func premiumCommand(d *Deps) *model.Command {
	return &model.Command{
		Name:        "premium",
		Description: "Grant or revoke a user's premium tier.",
		Usage:       "premium <grant|revoke> <user id>",
		Level:       model.LevelAdmin,
		Run: func(ctx *model.Context, args []string) error {
			if len(args) < 2 {
				return ctx.Reply("Usage: `premium <grant|revoke> <user id>`.")
			}
			userID := strings.Trim(args[1], "<@!>")

			switch args[0] {
			case "grant":
				if err := d.Store.SetPremium(userID, true); err != nil {
					return fmt.Errorf("grant premium to %s: %w", userID, err)
				}
			case "revoke":
				if err := d.Store.SetPremium(userID, false); err != nil {
					return fmt.Errorf("revoke premium from %s: %w", userID, err)
				}
			default:
				return ctx.Reply("Usage: `premium <grant|revoke> <user id>`.")
			}
			return ctx.React("✅")
		},
	}
}

func maintenanceCommand(d *Deps) *model.Command {
	return &model.Command{
		Name:        "maintenance",
		Aliases:     []string{"maint"},
		Description: "Toggle maintenance mode.",
		Usage:       "maintenance <on|off>",
		Level:       model.LevelOwner,
		Run: func(ctx *model.Context, args []string) error {
			if len(args) == 0 {
				state := "off"
				if d.Pipe.InMaintenance() {
					state = "on"
				}
				return ctx.Reply(fmt.Sprintf("Maintenance mode is %s.", state))
			}

			switch args[0] {
			case "on":
				d.Pipe.SetMaintenance(true)
				return ctx.Reply("Maintenance mode enabled. Only privileged and premium users can run commands.")
			case "off":
				d.Pipe.SetMaintenance(false)
				return ctx.Reply("Maintenance mode disabled.")
			default:
				return ctx.Reply("Usage: `maintenance <on|off>`.")
			}
		},
	}
}
