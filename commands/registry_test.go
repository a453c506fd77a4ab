package commands

import (
	"errors"
	"testing"
	"time"

	"groovebot/model"
	"groovebot/perf"
	"groovebot/pipeline"
	"groovebot/player"

	"github.com/bwmarrin/discordgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingReplier struct {
	replies []string
	embeds  []*discordgo.MessageEmbed
	reacts  []string
}

func (r *recordingReplier) Reply(content string) error {
	r.replies = append(r.replies, content)
	return nil
}

func (r *recordingReplier) ReplyEmbed(embed *discordgo.MessageEmbed) error {
	r.embeds = append(r.embeds, embed)
	return nil
}

func (r *recordingReplier) ReplyTransient(string, time.Duration) error { return nil }

func (r *recordingReplier) React(emoji string) error {
	r.reacts = append(r.reacts, emoji)
	return nil
}

func TestRegistryResolvesNamesAndAliases(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	cmd := &model.Command{Name: "Play", Aliases: []string{"P"}}
	r.Register(cmd)

	for _, name := range []string{"play", "PLAY", "p"} {
		got, ok := r.Resolve(name)
		require.True(t, ok, name)
		assert.Same(t, cmd, got)
	}

	_, ok := r.Resolve("pause")
	assert.False(t, ok)
}

func TestRegistryAllIsSortedWithoutAliases(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	r.Register(&model.Command{Name: "skip", Aliases: []string{"s"}})
	r.Register(&model.Command{Name: "help"})
	r.Register(&model.Command{Name: "play"})

	all := r.All()
	require.Len(t, all, 3)
	assert.Equal(t, "help", all[0].Name)
	assert.Equal(t, "play", all[1].Name)
	assert.Equal(t, "skip", all[2].Name)
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	r.Register(&model.Command{Name: "play"})
	assert.Panics(t, func() { r.Register(&model.Command{Name: "play"}) })
	assert.Panics(t, func() { r.Register(&model.Command{Name: "pause", Aliases: []string{"play"}}) })
}

func TestResolveTrackCachesResults(t *testing.T) {
	t.Parallel()

	calls := 0
	d := &Deps{
		Cache:    perf.NewCache(10, time.Minute),
		Breakers: perf.NewBreakerRegistry(3, 1, time.Second),
		Resolve: func(query string) (player.Track, error) {
			calls++
			return player.Track{Title: query}, nil
		},
	}

	first, err := d.resolveTrack("Some Song")
	require.NoError(t, err)
	assert.Equal(t, "Some Song", first.Title)

	// Case-insensitive cache hit, resolver not called again.
	second, err := d.resolveTrack("some song")
	require.NoError(t, err)
	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, 1, calls)
}

func TestResolveTrackFailuresAreNotCached(t *testing.T) {
	t.Parallel()

	calls := 0
	d := &Deps{
		Cache:    perf.NewCache(10, time.Minute),
		Breakers: perf.NewBreakerRegistry(10, 1, time.Second),
		Resolve: func(string) (player.Track, error) {
			calls++
			return player.Track{}, errors.New("upstream unavailable")
		},
	}

	_, err := d.resolveTrack("oops")
	require.Error(t, err)
	_, err = d.resolveTrack("oops")
	require.Error(t, err)
	assert.Equal(t, 2, calls)
}

func TestMaintenanceCommandToggles(t *testing.T) {
	t.Parallel()

	cfg := &model.Config{Settings: model.Settings{Prefix: "!"}}
	pipe := pipeline.New(cfg, nil, nil, nil, nil, nil, nil, nil)
	d := &Deps{Cfg: cfg, Pipe: pipe}
	cmd := maintenanceCommand(d)

	replier := &recordingReplier{}
	ctx := &model.Context{UserID: "owner", Replier: replier}

	require.NoError(t, cmd.Run(ctx, []string{"on"}))
	assert.True(t, pipe.InMaintenance())

	require.NoError(t, cmd.Run(ctx, nil))
	assert.Contains(t, replier.replies[len(replier.replies)-1], "on")

	require.NoError(t, cmd.Run(ctx, []string{"off"}))
	assert.False(t, pipe.InMaintenance())
}

func TestBlacklistCommandProtectsAdmins(t *testing.T) {
	t.Parallel()

	cfg := &model.Config{AdminUserIDs: []string{"admin"}}
	d := &Deps{Cfg: cfg}
	cmd := blacklistCommand(d)

	replier := &recordingReplier{}
	ctx := &model.Context{UserID: "admin", Replier: replier}

	require.NoError(t, cmd.Run(ctx, []string{"add", "admin"}))
	require.Len(t, replier.replies, 1)
	assert.Contains(t, replier.replies[0], "cannot blacklist")
}

func TestHelpEmbedIncludesMetadata(t *testing.T) {
	t.Parallel()

	embed := HelpEmbed(&model.Command{
		Name:        "play",
		Aliases:     []string{"p"},
		Description: "Queue a track.",
		Usage:       "play <query>",
		Cooldown:    3 * time.Second,
		Level:       model.LevelStaff,
	})

	require.NotNil(t, embed)
	names := make([]string, 0, len(embed.Fields))
	for _, f := range embed.Fields {
		names = append(names, f.Name)
	}
	assert.Contains(t, names, "Usage")
	assert.Contains(t, names, "Aliases")
	assert.Contains(t, names, "Cooldown")
	assert.Contains(t, names, "Restricted to")
}
