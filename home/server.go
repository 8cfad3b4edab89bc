package home

import (
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/leeineian/hearth/sys"
)

const serverColor = 0x00FF00

func init() {
	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:                     "server",
		Description:              "Displays server information",
		DefaultMemberPermissions: everyone(),
	}, handleServer)
}

func handleServer(s sys.Session, i sys.Interaction) error {
	guildID := i.GuildID()
	if guildID == nil {
		return i.CreateMessage(sys.ErrorReply(sys.ErrServerGuildOnly))
	}

	guild, ok := s.Guild(*guildID)
	if !ok {
		return fmt.Errorf("guild %s: %w", *guildID, sys.ErrGuildNotCached)
	}

	builder := discord.NewEmbedBuilder().
		SetColor(serverColor).
		SetTitle("📋 "+guild.Name).
		AddField("👥 Members", fmt.Sprintf("%d", guild.MemberCount), true).
		AddField("📅 Created", fmt.Sprintf("<t:%d:F>", guild.ID.Time().Unix()), true).
		AddField("👑 Owner", discord.UserMention(guild.OwnerID), true).
		SetFooterText("Server ID: "+guild.ID.String()).
		SetTimestamp(time.Now())

	if icon := guild.IconURL(); icon != nil {
		builder.SetThumbnail(*icon)
	}

	return i.CreateMessage(discord.NewMessageCreate().
		AddEmbeds(builder.Build()))
}
