package builtin

import (
	"remindbot/commands"
)

// ThemeColor is the accent colour of informational embeds
const ThemeColor = 0x8fb677

// Specs returns the built-in command set
func Specs() []commands.CommandSpec {
	return []commands.CommandSpec{
		{Name: "help", Handler: Help, PermissionExempt: true},
		{Name: "info", Handler: Info, PermissionExempt: true},
		{Name: "donate", Handler: Donate, PermissionExempt: true},
		{Name: "dashboard", Handler: Dashboard, PermissionExempt: true},
		{Name: "clock", Handler: Clock},
		{Name: "prefix", Handler: Prefix, RequireManageGuild: true},
		// exempt so that a blacklisted channel can be re-enabled from within it
		{Name: "blacklist", Handler: Blacklist, PermissionExempt: true, RequireManageGuild: true},
		{Name: "timezone", Handler: Timezone},
		{Name: "lang", Handler: Lang},
		{Name: "meridian", Handler: Meridian},
		{Name: "pause", Handler: Pause, RequireManageGuild: true},
		{Name: "timer", Handler: Timer},
	}
}

// Register adds every built-in command to the registry
func Register(registry *commands.Registry) error {
	for _, spec := range Specs() {
		if err := registry.Register(spec); err != nil {
			return err
		}
	}
	return nil
}
