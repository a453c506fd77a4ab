package model

import (
	"time"

	"github.com/bwmarrin/discordgo"
)

// Replier is the reply/send capability attached to an invocation.
// The event-handling layer provides a Discord-backed implementation;
// tests substitute an in-memory one.
type Replier interface {
	Reply(content string) error
	ReplyEmbed(embed *discordgo.MessageEmbed) error
	// ReplyTransient sends a reply that is deleted again after the given
	// duration (used for ignored-channel notices).
	ReplyTransient(content string, deleteAfter time.Duration) error
	React(emoji string) error
}

// Context 是每次调用的上下文，创建后不跨调用共享
type Context struct {
	UserID      string
	GuildID     string
	ChannelID   string
	MessageID   string
	Content     string
	MemberRoles []string
	Mentions    []string
	Attachments []string

	Replier
}
