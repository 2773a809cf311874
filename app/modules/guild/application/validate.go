package guildservice

import (
	"fmt"
	"net/url"
	"strings"
	"unicode"

	guildtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/guild"
)

// Limits on guild-configurable values.
const (
	MaxTeamCapacity  = 25
	MaxHistoryLimit  = 100
	MaxTeamPrefixLen = 16
)

func validateCapacity(n int) error {
	if n < 1 || n > MaxTeamCapacity {
		return fmt.Errorf("%w: team capacity must be between 1 and %d", ErrInvalidConfig, MaxTeamCapacity)
	}
	return nil
}

// validatePrefix rejects prefixes that would make issued identifiers
// ambiguous: the numeric suffix must be the only trailing digits.
func validatePrefix(p string) error {
	switch {
	case p == "":
		return fmt.Errorf("%w: team prefix is required", ErrInvalidConfig)
	case len(p) > MaxTeamPrefixLen:
		return fmt.Errorf("%w: team prefix is longer than %d characters", ErrInvalidConfig, MaxTeamPrefixLen)
	case strings.ContainsFunc(p, unicode.IsSpace):
		return fmt.Errorf("%w: team prefix contains whitespace", ErrInvalidConfig)
	case unicode.IsDigit(rune(p[len(p)-1])):
		return fmt.Errorf("%w: team prefix must not end in a digit", ErrInvalidConfig)
	}
	return nil
}

func validateHistoryLimit(n int) error {
	if n < 1 || n > MaxHistoryLimit {
		return fmt.Errorf("%w: history limit must be between 1 and %d", ErrInvalidConfig, MaxHistoryLimit)
	}
	return nil
}

// validateSubmissionURL accepts an empty value (unset) or an absolute http(s) URL.
func validateSubmissionURL(raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("%w: submission URL must be an absolute http(s) URL", ErrInvalidConfig)
	}
	return nil
}

func validateConfig(cfg *guildtypes.GuildConfig) error {
	if err := validateCapacity(cfg.TeamCapacity); err != nil {
		return err
	}
	if err := validatePrefix(cfg.TeamPrefix); err != nil {
		return err
	}
	if err := validateHistoryLimit(cfg.HistoryLimit); err != nil {
		return err
	}
	return validateSubmissionURL(cfg.SubmissionURL)
}
