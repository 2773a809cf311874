// Package teamhttp exposes read-only roster exports over HTTP.
package teamhttp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	teamservice "github.com/Black-And-White-Club/roster-bot/app/modules/team/application"
	teamdomain "github.com/Black-And-White-Club/roster-bot/app/modules/team/domain"
	teamevents "github.com/Black-And-White-Club/roster-bot/app/modules/team/events"
	"github.com/Black-And-White-Club/roster-bot/app/modules/team/infrastructure/parsers"
	"github.com/Black-And-White-Club/roster-bot/pkg/observability/attr"
	sharedtypes "github.com/Black-And-White-Club/roster-bot/pkg/types/shared"
	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Options configures the export routes.
type Options struct {
	// Token guards every route when set.
	Token string
	// RequestsPerSecond and Burst size the per-IP limiter.
	RequestsPerSecond float64
	Burst             int
}

// Handlers serves team exports.
type Handlers struct {
	service teamservice.Service
	logger  *slog.Logger
	tracer  trace.Tracer
}

func NewHandlers(service teamservice.Service, logger *slog.Logger, tracer trace.Tracer) *Handlers {
	return &Handlers{service: service, logger: logger, tracer: tracer}
}

// Mount registers the export routes under /guilds/{guildID}/teams.
func (h *Handlers) Mount(r chi.Router, opts Options) {
	if opts.RequestsPerSecond <= 0 {
		opts.RequestsPerSecond = 5
	}
	if opts.Burst <= 0 {
		opts.Burst = 10
	}
	limiter := NewIPRateLimiter(rate.Limit(opts.RequestsPerSecond), opts.Burst)

	r.Route("/guilds/{guildID}/teams", func(r chi.Router) {
		r.Use(RateLimitMiddleware(limiter))
		r.Use(TokenMiddleware(opts.Token))

		r.Get("/", h.HandleListTeams)
		r.Get("/export.txt", h.HandleExportText)
		r.Get("/export.xlsx", h.HandleExportXLSX)
		r.Get("/{teamID}", h.HandleGetTeam)
	})
}

func (h *Handlers) HandleListTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "TeamHTTP.HandleListTeams")
	defer span.End()

	teams, err := h.service.DumpTeams(ctx, guildID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	views := make([]teamevents.TeamViewV1, len(teams))
	for i, t := range teams {
		views[i] = view(t)
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handlers) HandleGetTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "TeamHTTP.HandleGetTeam")
	defer span.End()

	team, err := h.service.GetTeam(ctx, guildID(r), teamdomain.TeamID(chi.URLParam(r, "teamID")))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, view(team))
}

// HandleExportText serves the same "<team> <member>" lines as /teamdump.
func (h *Handlers) HandleExportText(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "TeamHTTP.HandleExportText")
	defer span.End()

	teams, err := h.service.DumpTeams(ctx, guildID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := parsers.WriteDumpText(&buf, teams); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", attachment(guildID(r), "txt"))
	_, _ = w.Write(buf.Bytes())
}

func (h *Handlers) HandleExportXLSX(w http.ResponseWriter, r *http.Request) {
	ctx, span := h.tracer.Start(r.Context(), "TeamHTTP.HandleExportXLSX")
	defer span.End()

	teams, err := h.service.DumpTeams(ctx, guildID(r))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	var buf bytes.Buffer
	if err := parsers.WriteDumpXLSX(&buf, teams); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", attachment(guildID(r), "xlsx"))
	_, _ = w.Write(buf.Bytes())
}

func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, teamdomain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, teamdomain.ErrInvalidTeamID):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid team id"})
	default:
		h.logger.ErrorContext(r.Context(), "Team export failed",
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func guildID(r *http.Request) sharedtypes.GuildID {
	return sharedtypes.GuildID(chi.URLParam(r, "guildID"))
}

func attachment(guildID sharedtypes.GuildID, ext string) string {
	return fmt.Sprintf("attachment; filename=%q", fmt.Sprintf("teams-%s.%s", guildID, ext))
}

func view(t *teamdomain.Team) teamevents.TeamViewV1 {
	members := t.Members
	if members == nil {
		members = []sharedtypes.DiscordID{}
	}
	return teamevents.TeamViewV1{
		ID:          string(t.ID),
		Name:        t.Name,
		Members:     members,
		Confirmed:   t.Confirmed,
		HasPassword: t.Password != nil,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
