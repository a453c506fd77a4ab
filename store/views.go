package store

import "strings"

// Key prefixes for the scoped views. Kept short since every admission pass
// touches several of them.
const (
	prefixBlacklist   = "blacklist:"
	prefixIgnored     = "ignored:"
	prefixPremium     = "premium:"
	prefixModerator   = "moderator:"
	prefixStaff       = "staff:"
	prefixServerStaff = "serverstaff:"
	prefixGuildPrefix = "prefix:"
	prefixNoPrefix    = "noprefix:"
)

func (s *Store) IsBlacklisted(userID string) (bool, error) {
	return s.Has(prefixBlacklist + userID)
}

func (s *Store) Blacklist(userID string) error {
	return s.Set(prefixBlacklist+userID, "1")
}

func (s *Store) Unblacklist(userID string) error {
	return s.Delete(prefixBlacklist + userID)
}

func (s *Store) IsIgnoredChannel(channelID string) (bool, error) {
	return s.Has(prefixIgnored + channelID)
}

func (s *Store) IgnoreChannel(channelID string) error {
	return s.Set(prefixIgnored+channelID, "1")
}

func (s *Store) UnignoreChannel(channelID string) error {
	return s.Delete(prefixIgnored + channelID)
}

func (s *Store) IsPremium(userID string) (bool, error) {
	return s.Has(prefixPremium + userID)
}

func (s *Store) SetPremium(userID string, premium bool) error {
	if premium {
		return s.Set(prefixPremium+userID, "1")
	}
	return s.Delete(prefixPremium + userID)
}

func (s *Store) IsModerator(userID string) (bool, error) {
	return s.Has(prefixModerator + userID)
}

func (s *Store) IsStaff(userID string) (bool, error) {
	return s.Has(prefixStaff + userID)
}

// ServerStaffRoles returns the role ids marked as server staff for a guild.
func (s *Store) ServerStaffRoles(guildID string) ([]string, error) {
	value, ok, err := s.Get(prefixServerStaff + guildID)
	if err != nil || !ok {
		return nil, err
	}
	var roles []string
	for _, id := range strings.Split(value, ",") {
		if id = strings.TrimSpace(id); id != "" {
			roles = append(roles, id)
		}
	}
	return roles, nil
}

func (s *Store) SetServerStaffRoles(guildID string, roleIDs []string) error {
	if len(roleIDs) == 0 {
		return s.Delete(prefixServerStaff + guildID)
	}
	return s.Set(prefixServerStaff+guildID, strings.Join(roleIDs, ","))
}

// GuildPrefix returns the per-guild prefix override, if one is set.
func (s *Store) GuildPrefix(guildID string) (string, bool, error) {
	return s.Get(prefixGuildPrefix + guildID)
}

func (s *Store) SetGuildPrefix(guildID, prefix string) error {
	if prefix == "" {
		return s.Delete(prefixGuildPrefix + guildID)
	}
	return s.Set(prefixGuildPrefix+guildID, prefix)
}

// HasNoPrefix reports whether the user holds the no-prefix privilege
// (their messages resolve commands without any prefix).
func (s *Store) HasNoPrefix(userID string) (bool, error) {
	return s.Has(prefixNoPrefix + userID)
}

func (s *Store) SetNoPrefix(userID string, enabled bool) error {
	if enabled {
		return s.Set(prefixNoPrefix+userID, "1")
	}
	return s.Delete(prefixNoPrefix + userID)
}
