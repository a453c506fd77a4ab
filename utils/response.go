package utils

import (
	"log"
	"time"

	"github.com/bwmarrin/discordgo"
)

// SendReply sends a reply referencing the triggering message.
func SendReply(s *discordgo.Session, channelID, messageID, content string) error {
	_, err := s.ChannelMessageSendReply(channelID, content, &discordgo.MessageReference{
		MessageID: messageID,
		ChannelID: channelID,
	})
	if err != nil {
		log.Printf("Error sending reply in channel %s: %v", channelID, err)
	}
	return err
}

// SendEmbed sends an embed to a channel.
func SendEmbed(s *discordgo.Session, channelID string, embed *discordgo.MessageEmbed) error {
	_, err := s.ChannelMessageSendEmbed(channelID, embed)
	if err != nil {
		log.Printf("Error sending embed in channel %s: %v", channelID, err)
	}
	return err
}

// SendTransient sends a message and deletes it again after deleteAfter.
// Used for notices in ignored channels.
func SendTransient(s *discordgo.Session, channelID, content string, deleteAfter time.Duration) error {
	msg, err := s.ChannelMessageSend(channelID, content)
	if err != nil {
		log.Printf("Error sending transient message in channel %s: %v", channelID, err)
		return err
	}
	time.AfterFunc(deleteAfter, func() {
		if err := s.ChannelMessageDelete(channelID, msg.ID); err != nil {
			log.Printf("Error deleting transient message %s: %v", msg.ID, err)
		}
	})
	return nil
}

// React adds a reaction to a message.
func React(s *discordgo.Session, channelID, messageID, emoji string) error {
	err := s.MessageReactionAdd(channelID, messageID, emoji)
	if err != nil {
		log.Printf("Error adding reaction in channel %s: %v", channelID, err)
	}
	return err
}
