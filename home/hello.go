package home

import (
	"fmt"

	"github.com/disgoorg/disgo/discord"
	"github.com/leeineian/hearth/sys"
)

func init() {
	sys.RegisterCommand(discord.SlashCommandCreate{
		Name:                     "hello",
		Description:              "Says hello to the user",
		DefaultMemberPermissions: everyone(),
	}, handleHello)
}

func handleHello(_ sys.Session, i sys.Interaction) error {
	return i.CreateMessage(discord.NewMessageCreate().
		WithContent(fmt.Sprintf(sys.MsgHelloReply, i.User().Username)))
}
