package home

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/leeineian/hearth/sys"
)

func init() {
	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:                     "ping",
		Description:              "Replies with Pong!",
		DefaultMemberPermissions: everyone(),
	}, handlePing)
}

func handlePing(_ sys.Session, i sys.Interaction) error {
	return i.CreateMessage(discord.NewMessageCreate().
		WithContent(sys.MsgPingReply))
}
