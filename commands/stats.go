package commands

import (
	"fmt"
	"runtime"
	"strings"
	"time"

	"groovebot/model"
	"groovebot/perf"
	"groovebot/utils"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

func statsCommand(d *Deps) *model.Command {
	return &model.Command{
		Name:        "stats",
		Description: "Show pipeline and performance statistics.",
		Usage:       "stats",
		Level:       model.LevelStaff,
		BotPerms:    discordgo.PermissionEmbedLinks,
		Run: func(ctx *model.Context, _ []string) error {
			health := d.Monitor.Health()
			cmds := d.Monitor.Bucket(perf.BucketCommands)
			cacheStats := d.Cache.Stats()
			queueStats := d.Queue.Stats()

			var breakerLines []string
			for _, b := range d.Breakers.Snapshot() {
				breakerLines = append(breakerLines, fmt.Sprintf("%s: %s (%d/%d failed, %d rejected)",
					b.Name, b.State, b.Failures, b.Total, b.Rejected))
			}
			if len(breakerLines) == 0 {
				breakerLines = []string{"none"}
			}

			hitRate := 0.0
			if total := cacheStats.Hits + cacheStats.Misses; total > 0 {
				hitRate = float64(cacheStats.Hits) / float64(total) * 100
			}

			embed := &discordgo.MessageEmbed{
				Title: "Bot statistics",
				Color: embedColor,
				Fields: []*discordgo.MessageEmbedField{
					{Name: "Health", Value: string(health.Status), Inline: true},
					{Name: "Uptime", Value: utils.FormatDuration(health.Uptime), Inline: true},
					{Name: "Errors", Value: fmt.Sprintf("%d", health.ErrorCount), Inline: true},
					{Name: "Commands", Value: fmt.Sprintf("%d run, %d failed, avg %s",
						cmds.Count, cmds.Failures, cmds.Avg.Round(time.Millisecond)), Inline: false},
					{Name: "p95 latency", Value: d.Monitor.Percentile(perf.BucketCommands, 95).Round(time.Millisecond).String(), Inline: true},
					{Name: "Sessions", Value: fmt.Sprintf("%d", d.Players.Count()), Inline: true},
					{Name: "Cache", Value: fmt.Sprintf("%d/%d entries, %.1f%% hits, %d evictions",
						cacheStats.Size, cacheStats.MaxSize, hitRate, cacheStats.Evictions), Inline: false},
					{Name: "Queue", Value: fmt.Sprintf("%d running, %d waiting, %d done, %d timeouts",
						queueStats.Running, queueStats.Waiting, queueStats.Completed, queueStats.Timeouts), Inline: false},
					{Name: "Breakers", Value: strings.Join(breakerLines, "\n"), Inline: false},
				},
			}
			return ctx.ReplyEmbed(embed)
		},
	}
}

func sysInfoCommand(d *Deps) *model.Command {
	return &model.Command{
		Name:        "sysinfo",
		Description: "Show host and runtime information.",
		Usage:       "sysinfo",
		Level:       model.LevelAdmin,
		BotPerms:    discordgo.PermissionEmbedLinks,
		Run: func(ctx *model.Context, _ []string) error {
			cpuCount, _ := cpu.Counts(true)
			cpuPercent, _ := cpu.Percent(0, false)
			vm, _ := mem.VirtualMemory()
			hostInfo, _ := host.Info()

			cpuUsage := "n/a"
			if len(cpuPercent) > 0 {
				cpuUsage = fmt.Sprintf("%.1f%%", cpuPercent[0])
			}

			latency := "n/a"
			guilds := "n/a"
			if d.Session != nil {
				latency = d.Session.HeartbeatLatency().String()
				guilds = fmt.Sprintf("%d", len(d.Session.State.Guilds))
			}

			embed := &discordgo.MessageEmbed{
				Title: "System information",
				Color: embedColor,
				Fields: []*discordgo.MessageEmbedField{
					{Name: "OS", Value: fmt.Sprintf("%s %s", hostInfo.Platform, hostInfo.PlatformVersion), Inline: true},
					{Name: "Kernel", Value: hostInfo.KernelVersion, Inline: true},
					{Name: "Go", Value: runtime.Version(), Inline: true},
					{Name: "CPUs", Value: fmt.Sprintf("%d", cpuCount), Inline: true},
					{Name: "CPU usage", Value: cpuUsage, Inline: true},
					{Name: "Memory", Value: fmt.Sprintf("%.1f%% (%d MB / %d MB)",
						vm.UsedPercent, vm.Used/1024/1024, vm.Total/1024/1024), Inline: true},
					{Name: "Gateway latency", Value: latency, Inline: true},
					{Name: "Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
					{Name: "Guilds", Value: guilds, Inline: true},
				},
				Footer: &discordgo.MessageEmbedFooter{
					Text: fmt.Sprintf("Uptime %s", utils.FormatDuration(d.Monitor.Uptime())),
				},
			}
			return ctx.ReplyEmbed(embed)
		},
	}
}
