package pipeline

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"groovebot/model"
	"groovebot/utils"

	"github.com/bwmarrin/discordgo"
)

// baselinePerms is what the bot needs in a channel before it can answer at all.
const baselinePerms = discordgo.PermissionViewChannel | discordgo.PermissionSendMessages

// ignoredNoticeTTL is how long the ignored-channel notice stays up.
const ignoredNoticeTTL = 7 * time.Second

// helpFlags are the reserved inline help arguments.
var helpFlags = map[string]bool{"-h": true, "--help": true}

// Handle runs one invocation through the full admission chain. Aborts are
// normal control flow; the returned Outcome names the terminating stage.
func (p *Pipeline) Handle(ctx *model.Context) Outcome {
	// 1. Blacklist: silent abort, before any other stage so blacklisted
	// subjects never see a response or trigger side effects.
	if blacklisted, err := p.store.IsBlacklisted(ctx.UserID); err != nil {
		log.Printf("Blacklist lookup failed for %s: %v", ctx.UserID, err)
	} else if blacklisted {
		return Outcome{Stage: StageBlacklist}
	}

	// 2. Baseline bot capability: without view+send there is no point
	// continuing, and no way to say so.
	botPerms, err := p.platform.BotPermissions(ctx.ChannelID)
	if err != nil {
		log.Printf("Bot permission lookup failed in channel %s: %v", ctx.ChannelID, err)
		return Outcome{Stage: StageBotAccess}
	}
	if botPerms&baselinePerms != baselinePerms {
		return Outcome{Stage: StageBotAccess}
	}

	// 3. A message that is exactly a mention of the bot branches to the
	// greeting handler instead of command resolution.
	prefix := p.effectivePrefix(ctx)
	if p.isBareMention(ctx.Content) {
		if p.OnMention != nil {
			p.OnMention(ctx, prefix)
		}
		return Outcome{Stage: StageMention}
	}

	// 4. Prefix and command resolution.
	cmd, args, ok := p.resolve(ctx, prefix)
	if !ok {
		return Outcome{Stage: StageResolve}
	}

	privileged := p.cfg.IsAdmin(ctx.UserID)

	// Tiered rate limit, checked alongside the cooldown stage. Shared
	// mutable state; the check is a single atomic increment-then-compare.
	if limit := p.limiter.Check(ctx.UserID, "command"); limit.Limited {
		ctx.Reply(fmt.Sprintf("You are sending commands too fast (%s tier). Try again in %s.",
			limit.Tier, utils.FormatDuration(time.Until(limit.ResetAt))))
		return Outcome{Stage: StageRateLimit, Command: cmd}
	}

	// 5. Cooldown, skipped entirely for owners/admins.
	if !privileged {
		cooldown := p.cooldowns.CheckAndRecord(cmd.Name, ctx.UserID, cmd.Cooldown)
		if cooldown.OnCooldown {
			if cooldown.Notify {
				ctx.Reply(fmt.Sprintf("`%s` is on cooldown, wait %s.", cmd.Name, utils.FormatDuration(cooldown.Remaining)))
			}
			return Outcome{Stage: StageCooldown, Command: cmd}
		}
	}

	// 6. Channel permissions the command itself needs from the bot.
	if cmd.BotPerms != 0 && botPerms&cmd.BotPerms != cmd.BotPerms {
		missing := permissionNames(cmd.BotPerms &^ botPerms)
		ctx.Reply(fmt.Sprintf("I am missing the following permissions for `%s`: %s.",
			cmd.Name, strings.Join(missing, ", ")))
		return Outcome{Stage: StageChannelPerms, Command: cmd}
	}

	// 7. Platform permissions the subject must hold, unless privileged.
	if cmd.UserPerms != 0 && !privileged {
		userPerms, err := p.platform.UserPermissions(ctx.UserID, ctx.ChannelID)
		if err != nil {
			log.Printf("User permission lookup failed for %s in %s: %v", ctx.UserID, ctx.ChannelID, err)
			userPerms = 0
		}
		if userPerms&cmd.UserPerms != cmd.UserPerms {
			missing := permissionNames(cmd.UserPerms &^ userPerms)
			ctx.Reply(fmt.Sprintf("You need the following permissions for `%s`: %s.",
				cmd.Name, strings.Join(missing, ", ")))
			return Outcome{Stage: StageUserPerms, Command: cmd}
		}
	}

	// 8. Role tier and ignored-channel checks. The external lookups are
	// independent, so they run concurrently and are evaluated afterwards
	// in fixed priority order.
	facts := p.gatherSubjectFacts(ctx)

	if facts.ignoredChannel && !privileged {
		ctx.ReplyTransient("Commands are disabled in this channel.", ignoredNoticeTTL)
		return Outcome{Stage: StageIgnored, Command: cmd}
	}

	level := p.resolveLevel(ctx, facts)
	if level < cmd.Level {
		ctx.Reply(fmt.Sprintf("`%s` is restricted to %s.", cmd.Name, cmd.Level))
		return Outcome{Stage: StageTier, Command: cmd}
	}

	// 9. Maintenance gate: premium bypasses maintenance only, nothing else.
	if p.InMaintenance() && !privileged && !facts.premium {
		if p.OnMaintenance != nil {
			p.OnMaintenance(ctx)
		} else {
			ctx.Reply("The bot is under maintenance, please try again later.")
		}
		return Outcome{Stage: StageMaintenance, Command: cmd}
	}

	// 10. Inline help flag redirects to the help renderer.
	if len(args) > 0 && helpFlags[args[0]] {
		if p.OnHelp != nil {
			p.OnHelp(ctx, cmd)
		}
		return Outcome{Stage: StageHelp, Command: cmd}
	}

	// 11–12. Voice and session requirements, evaluated in declaration-
	// independent fixed order.
	if outcome, aborted := p.checkRequirements(ctx, cmd); aborted {
		return outcome
	}

	// 13. NSFW-flagged commands need an eligible channel.
	if cmd.NSFW {
		info, err := p.platform.ChannelInfo(ctx.ChannelID)
		if err != nil {
			log.Printf("Channel info lookup failed for %s: %v", ctx.ChannelID, err)
		}
		if err != nil || info.IsThread || !info.NSFW {
			ctx.Reply(fmt.Sprintf("`%s` can only be used in an NSFW-marked channel.", cmd.Name))
			return Outcome{Stage: StageNSFW, Command: cmd}
		}
	}

	// 14. Every stage passed; hand off to the dispatcher.
	if p.dispatch != nil {
		p.dispatch.Dispatch(ctx, cmd, args)
	}
	return Outcome{Stage: StageExecute, Allowed: true, Command: cmd}
}

// effectivePrefix resolves the guild override, falling back to the global
// default.
func (p *Pipeline) effectivePrefix(ctx *model.Context) string {
	if ctx.GuildID != "" {
		if override, ok, err := p.store.GuildPrefix(ctx.GuildID); err != nil {
			log.Printf("Prefix lookup failed for guild %s: %v", ctx.GuildID, err)
		} else if ok {
			return override
		}
	}
	return p.cfg.Settings.Prefix
}

func (p *Pipeline) isBareMention(content string) bool {
	trimmed := strings.TrimSpace(content)
	botID := p.platform.BotUserID()
	return trimmed == "<@"+botID+">" || trimmed == "<@!"+botID+">"
}

// resolve strips the effective prefix (guild override > global default >
// bot mention > none for no-prefix subjects) and resolves the first token
// against the registry.
func (p *Pipeline) resolve(ctx *model.Context, prefix string) (*model.Command, []string, bool) {
	content := strings.TrimSpace(ctx.Content)
	botID := p.platform.BotUserID()

	var rest string
	switch {
	case prefix != "" && strings.HasPrefix(content, prefix):
		rest = content[len(prefix):]
	case strings.HasPrefix(content, "<@"+botID+">"):
		rest = content[len("<@"+botID+">"):]
	case strings.HasPrefix(content, "<@!"+botID+">"):
		rest = content[len("<@!"+botID+">"):]
	default:
		noPrefix, err := p.store.HasNoPrefix(ctx.UserID)
		if err != nil {
			log.Printf("No-prefix lookup failed for %s: %v", ctx.UserID, err)
		}
		if !noPrefix {
			return nil, nil, false
		}
		rest = content
	}

	fields := strings.Fields(rest)
	if len(fields) == 0 {
		return nil, nil, false
	}
	cmd, ok := p.registry.Resolve(strings.ToLower(fields[0]))
	if !ok {
		return nil, nil, false
	}
	return cmd, fields[1:], true
}

// subjectFacts are the store-backed attributes stages 8–9 consume.
type subjectFacts struct {
	moderator        bool
	staff            bool
	premium          bool
	ignoredChannel   bool
	serverStaffRoles []string
}

// gatherSubjectFacts fetches the independent store lookups concurrently.
func (p *Pipeline) gatherSubjectFacts(ctx *model.Context) subjectFacts {
	var facts subjectFacts
	var wg sync.WaitGroup

	lookup := func(dst *bool, name string, fn func() (bool, error)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			value, err := fn()
			if err != nil {
				log.Printf("%s lookup failed for %s: %v", name, ctx.UserID, err)
				return
			}
			*dst = value
		}()
	}

	lookup(&facts.moderator, "Moderator", func() (bool, error) { return p.store.IsModerator(ctx.UserID) })
	lookup(&facts.staff, "Staff", func() (bool, error) { return p.store.IsStaff(ctx.UserID) })
	lookup(&facts.premium, "Premium", func() (bool, error) { return p.store.IsPremium(ctx.UserID) })
	lookup(&facts.ignoredChannel, "Ignored-channel", func() (bool, error) { return p.store.IsIgnoredChannel(ctx.ChannelID) })

	wg.Add(1)
	go func() {
		defer wg.Done()
		roles, err := p.store.ServerStaffRoles(ctx.GuildID)
		if err != nil {
			log.Printf("Server-staff lookup failed for guild %s: %v", ctx.GuildID, err)
			return
		}
		facts.serverStaffRoles = roles
	}()

	wg.Wait()
	return facts
}

// resolveLevel evaluates the gathered facts in fixed priority order:
// owner > admin > moderator > staff > server admin > server staff.
func (p *Pipeline) resolveLevel(ctx *model.Context, facts subjectFacts) model.Level {
	switch {
	case p.cfg.IsOwner(ctx.UserID):
		return model.LevelOwner
	case p.cfg.IsAdmin(ctx.UserID):
		return model.LevelAdmin
	case facts.moderator:
		return model.LevelModerator
	case facts.staff:
		return model.LevelStaff
	}

	userPerms, err := p.platform.UserPermissions(ctx.UserID, ctx.ChannelID)
	if err != nil {
		log.Printf("User permission lookup failed for %s: %v", ctx.UserID, err)
	}
	if userPerms&(discordgo.PermissionAdministrator|discordgo.PermissionManageServer) != 0 {
		return model.LevelServerAdmin
	}

	for _, roleID := range ctx.MemberRoles {
		for _, staffRole := range facts.serverStaffRoles {
			if roleID == staffRole {
				return model.LevelServerStaff
			}
		}
	}
	return model.LevelEveryone
}

// checkRequirements evaluates the command's declared voice/session
// requirements one by one, in fixed order regardless of declaration order.
func (p *Pipeline) checkRequirements(ctx *model.Context, cmd *model.Command) (Outcome, bool) {
	needsVoice := cmd.Requires(model.RequiresVoice) || cmd.Requires(model.RequiresSameVoice)

	var userVoice string
	if needsVoice {
		channel, connected, err := p.platform.UserVoiceChannel(ctx.GuildID, ctx.UserID)
		if err != nil {
			log.Printf("Voice state lookup failed for %s: %v", ctx.UserID, err)
		}
		if err != nil || !connected {
			ctx.Reply(fmt.Sprintf("You need to be in a voice channel to use `%s`.", cmd.Name))
			return Outcome{Stage: StageVoice, Command: cmd}, true
		}
		userVoice = channel
	}

	session, hasSession := p.sessions.GetActiveSession(ctx.GuildID)

	if cmd.Requires(model.RequiresSameVoice) && hasSession && session.ChannelID() != userVoice {
		ctx.Reply(fmt.Sprintf("You need to be in my voice channel to use `%s`.", cmd.Name))
		return Outcome{Stage: StageVoice, Command: cmd}, true
	}

	if (cmd.Requires(model.RequiresSession) || cmd.Requires(model.RequiresPlaying)) && !hasSession {
		ctx.Reply("There is no active session in this server.")
		return Outcome{Stage: StageSession, Command: cmd}, true
	}

	if cmd.Requires(model.RequiresPlaying) && !session.IsPlaying() {
		ctx.Reply("Nothing is playing right now.")
		return Outcome{Stage: StageSession, Command: cmd}, true
	}

	return Outcome{}, false
}

// permissionNames renders a permission bitset as readable names.
func permissionNames(perms int64) []string {
	named := []struct {
		bit  int64
		name string
	}{
		{discordgo.PermissionViewChannel, "View Channel"},
		{discordgo.PermissionSendMessages, "Send Messages"},
		{discordgo.PermissionEmbedLinks, "Embed Links"},
		{discordgo.PermissionAttachFiles, "Attach Files"},
		{discordgo.PermissionAddReactions, "Add Reactions"},
		{discordgo.PermissionManageMessages, "Manage Messages"},
		{discordgo.PermissionManageChannels, "Manage Channels"},
		{discordgo.PermissionManageServer, "Manage Server"},
		{discordgo.PermissionVoiceConnect, "Connect"},
		{discordgo.PermissionVoiceSpeak, "Speak"},
		{discordgo.PermissionAdministrator, "Administrator"},
	}

	var names []string
	for _, p := range named {
		if perms&p.bit != 0 {
			names = append(names, p.name)
		}
	}
	if len(names) == 0 && perms != 0 {
		names = append(names, fmt.Sprintf("0x%x", perms))
	}
	return names
}
