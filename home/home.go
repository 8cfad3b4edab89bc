// Package home holds the slash commands and the member welcome handler.
// Commands register themselves into the default router from init.
package home

import (
	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/omit"
)

// everyone sends an explicit null so a bulk overwrite also clears any
// permission override an admin set on a previous registration.
func everyone() omit.Omit[*discord.Permissions] {
	return omit.New[*discord.Permissions](nil)
}
