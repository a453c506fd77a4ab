package handlers

import (
	"time"

	"groovebot/utils"

	"github.com/bwmarrin/discordgo"
)

// messageReplier binds the reply capability to one triggering message.
type messageReplier struct {
	session   *discordgo.Session
	channelID string
	messageID string
}

func (r *messageReplier) Reply(content string) error {
	return utils.SendReply(r.session, r.channelID, r.messageID, content)
}

func (r *messageReplier) ReplyEmbed(embed *discordgo.MessageEmbed) error {
	return utils.SendEmbed(r.session, r.channelID, embed)
}

func (r *messageReplier) ReplyTransient(content string, deleteAfter time.Duration) error {
	return utils.SendTransient(r.session, r.channelID, content, deleteAfter)
}

func (r *messageReplier) React(emoji string) error {
	return utils.React(r.session, r.channelID, r.messageID, emoji)
}
