package guildservice

import (
	"context"
	"errors"
	"fmt"
	"strings"

	guildevents "github.com/Black-And-White-Club/roster-bot/app/modules/guild/events"
	guilddb "github.com/Black-And-White-Club/roster-bot/app/modules/guild/infrastructure/repositories"
	"github.com/Black-And-White-Club/roster-bot/pkg/results"
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
	"github.com/uptrace/bun"
)

// UpdateGuildConfig applies the non-nil changes and reports which fields
// actually changed.
func (s *GuildService) UpdateGuildConfig(ctx context.Context, guildID sharedtypes.GuildID, changes ConfigChanges) (GuildConfigUpdateResult, error) {
	return withTelemetry(s, ctx, "UpdateGuildConfig", guildID, func(ctx context.Context) (GuildConfigUpdateResult, error) {
		if guildID == "" {
			return failure[*ConfigUpdate](ErrInvalidGuildID), nil
		}
		fields, err := normalizeChanges(changes)
		if err != nil {
			return failure[*ConfigUpdate](err), nil
		}

		var result GuildConfigUpdateResult
		err = s.runInTx(ctx, func(ctx context.Context, db bun.IDB) error {
			current, err := s.repo.GetConfig(ctx, db, guildID)
			if errors.Is(err, guilddb.ErrNotFound) {
				result = failure[*ConfigUpdate](ErrGuildConfigNotFound)
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to load guild config: %w", err)
			}

			updated := *current
			var changed []string
			if fields.TeamCapacity != nil && *fields.TeamCapacity != current.TeamCapacity {
				updated.TeamCapacity = *fields.TeamCapacity
				changed = append(changed, guildevents.FieldTeamCapacity)
			} else {
				fields.TeamCapacity = nil
			}
			if fields.TeamPrefix != nil && *fields.TeamPrefix != current.TeamPrefix {
				updated.TeamPrefix = *fields.TeamPrefix
				changed = append(changed, guildevents.FieldTeamPrefix)
			} else {
				fields.TeamPrefix = nil
			}
			if fields.SubmissionURL != nil && *fields.SubmissionURL != current.SubmissionURL {
				updated.SubmissionURL = *fields.SubmissionURL
				changed = append(changed, guildevents.FieldSubmissionURL)
			} else {
				fields.SubmissionURL = nil
			}
			if fields.HistoryLimit != nil && *fields.HistoryLimit != current.HistoryLimit {
				updated.HistoryLimit = *fields.HistoryLimit
				changed = append(changed, guildevents.FieldHistoryLimit)
			} else {
				fields.HistoryLimit = nil
			}

			if !fields.IsEmpty() {
				if err := s.repo.UpdateConfig(ctx, db, guildID, fields); err != nil {
					return fmt.Errorf("failed to update guild config: %w", err)
				}
			}
			result = results.SuccessResult[*ConfigUpdate, error](&ConfigUpdate{Config: &updated, UpdatedFields: changed})
			return nil
		})
		return result, err
	})
}

// normalizeChanges trims and validates the requested values.
func normalizeChanges(c ConfigChanges) (*guilddb.UpdateFields, error) {
	fields := &guilddb.UpdateFields{
		TeamCapacity:  c.TeamCapacity,
		HistoryLimit:  c.HistoryLimit,
		TeamPrefix:    trimmed(c.TeamPrefix),
		SubmissionURL: trimmed(c.SubmissionURL),
	}
	if fields.IsEmpty() {
		return nil, fmt.Errorf("%w: no fields to update", ErrInvalidConfig)
	}
	if fields.TeamCapacity != nil {
		if err := validateCapacity(*fields.TeamCapacity); err != nil {
			return nil, err
		}
	}
	if fields.TeamPrefix != nil {
		if err := validatePrefix(*fields.TeamPrefix); err != nil {
			return nil, err
		}
	}
	if fields.HistoryLimit != nil {
		if err := validateHistoryLimit(*fields.HistoryLimit); err != nil {
			return nil, err
		}
	}
	if fields.SubmissionURL != nil {
		if err := validateSubmissionURL(*fields.SubmissionURL); err != nil {
			return nil, err
		}
	}
	return fields, nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
