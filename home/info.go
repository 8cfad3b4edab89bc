package home

import (
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/leeineian/hearth/sys"
)

const (
	infoColor       = 0x0099FF
	infoTitle       = "🤖 Bot Information"
	infoDescription = "A Discord bot that welcomes new members and responds to commands!"
	infoFooter      = "Made with disgo"
)

func init() {
	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:                     "info",
		Description:              "Shows bot information",
		DefaultMemberPermissions: everyone(),
	}, handleInfo)
}

func handleInfo(s sys.Session, i sys.Interaction) error {
	embed := discord.NewEmbedBuilder().
		SetColor(infoColor).
		SetTitle(infoTitle).
		SetDescription(infoDescription).
		AddField("📊 Servers", fmt.Sprintf("%d", s.GuildCount()), true).
		AddField("👥 Users", fmt.Sprintf("%d", s.UserCount()), true).
		AddField("🏓 Ping", fmt.Sprintf("%dms", s.Latency().Round(time.Millisecond).Milliseconds()), true).
		SetFooterText(infoFooter).
		SetTimestamp(time.Now()).
		Build()

	return i.CreateMessage(discord.NewMessageCreate().
		AddEmbeds(embed))
}
