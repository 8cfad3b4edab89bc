package home

import (
	"fmt"
	"time"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/leeineian/hearth/sys"
)

const (
	welcomeColor = 0x808080
	welcomeTitle = "🌟 Welcome!"
)

// WelcomePermissions is what the bot needs in the welcome channel.
const WelcomePermissions = discord.PermissionSendMessages | discord.PermissionEmbedLinks

// Welcomer posts the welcome embed when a member joins.
type Welcomer struct {
	cfg sys.WelcomeConfig
	now func() time.Time
}

func NewWelcomer(cfg sys.WelcomeConfig) *Welcomer {
	return &Welcomer{cfg: cfg, now: time.Now}
}

// Handle runs the welcome guards and sends the message. Failures are logged
// and never propagate.
func (w *Welcomer) Handle(s sys.Session, guildID snowflake.ID, member discord.Member) {
	defer func() {
		if r := recover(); r != nil {
			sys.LogError(sys.MsgWelcomeSendFail, r)
		}
	}()

	guildName := guildID.String()
	memberCount := 0
	if guild, ok := s.Guild(guildID); ok {
		guildName = guild.Name
		memberCount = guild.MemberCount
	}

	channel, ok := s.Channel(guildID, w.cfg.ChannelID)
	if !ok {
		sys.LogWelcomeWarn(sys.MsgWelcomeChannelMissing, guildName)
		return
	}

	if !s.SelfPermissions(channel).Has(WelcomePermissions) {
		sys.LogWelcomeWarn(sys.MsgWelcomeNoPermissions, guildName)
		return
	}

	if err := s.CreateMessage(channel.ID, w.Message(guildName, memberCount, member)); err != nil {
		sys.LogError(sys.MsgWelcomeSendFail, err)
		return
	}

	sys.LogWelcome(sys.MsgWelcomeSent, member.User.Tag())
}

// Message builds the welcome message. The mention also goes in the content
// so the member is pinged even when the client fails to render the embed.
func (w *Welcomer) Message(guildName string, memberCount int, member discord.Member) discord.MessageCreate {
	description := fmt.Sprintf("Welcome %s, to **%s**! ♡\n\nFollow the rules! %s\nChat in %s\nOwner is %s",
		member.User.Mention(),
		guildName,
		discord.ChannelMention(w.cfg.RulesChannelID),
		discord.ChannelMention(w.cfg.ChatChannelID),
		discord.UserMention(w.cfg.OwnerID),
	)

	embed := discord.NewEmbedBuilder().
		SetColor(welcomeColor).
		SetTitle(welcomeTitle).
		SetDescription(description).
		SetThumbnail(member.User.EffectiveAvatarURL(discord.WithSize(256))).
		SetImage(w.cfg.BannerURL).
		SetFooterText(fmt.Sprintf("Member #%d", memberCount)).
		SetTimestamp(w.now()).
		Build()

	return discord.NewMessageCreate().
		WithContent(member.User.Mention()).
		AddEmbeds(embed)
}
