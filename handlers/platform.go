package handlers

import (
	"errors"
	"fmt"

	"groovebot/pipeline"

	"github.com/bwmarrin/discordgo"
)

// discordPlatform answers the admission chain's gateway lookups from the
// session state, falling back to the REST API where the state has gaps.
type discordPlatform struct {
	session *discordgo.Session
}

func (p *discordPlatform) BotUserID() string {
	if p.session.State.User == nil {
		return ""
	}
	return p.session.State.User.ID
}

func (p *discordPlatform) BotPermissions(channelID string) (int64, error) {
	return p.session.UserChannelPermissions(p.BotUserID(), channelID)
}

func (p *discordPlatform) UserPermissions(userID, channelID string) (int64, error) {
	return p.session.UserChannelPermissions(userID, channelID)
}

func (p *discordPlatform) UserVoiceChannel(guildID, userID string) (string, bool, error) {
	vs, err := p.session.State.VoiceState(guildID, userID)
	if err != nil {
		if errors.Is(err, discordgo.ErrStateNotFound) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("voice state for %s in %s: %w", userID, guildID, err)
	}
	if vs.ChannelID == "" {
		return "", false, nil
	}
	return vs.ChannelID, true, nil
}

func (p *discordPlatform) ChannelInfo(channelID string) (pipeline.ChannelInfo, error) {
	ch, err := p.session.State.Channel(channelID)
	if err != nil {
		ch, err = p.session.Channel(channelID)
		if err != nil {
			return pipeline.ChannelInfo{}, fmt.Errorf("channel %s: %w", channelID, err)
		}
	}
	return pipeline.ChannelInfo{
		NSFW:     ch.NSFW,
		IsThread: ch.IsThread(),
	}, nil
}
