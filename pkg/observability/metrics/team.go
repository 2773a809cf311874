package metrics

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// TeamMetrics adds roster-specific counters to OperationMetrics.
type TeamMetrics interface {
	OperationMetrics
	RecordTeamCreated(ctx context.Context, guildID string)
	RecordTeamDeleted(ctx context.Context, guildID string)
	RecordInvitationsSent(ctx context.Context, guildID string, count int)
	RecordInvitationsRejected(ctx context.Context, guildID, reason string)
}

type teamMetrics struct {
	OperationMetrics
	created  *prometheus.CounterVec
	deleted  *prometheus.CounterVec
	invites  *prometheus.CounterVec
	rejected *prometheus.CounterVec
}

// NewTeamMetrics registers the team counters on reg.
func NewTeamMetrics(reg prometheus.Registerer, namespace string) (TeamMetrics, error) {
	ops, err := NewOperationMetrics(reg, namespace, "team")
	if err != nil {
		return nil, err
	}

	m := &teamMetrics{
		OperationMetrics: ops,
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "team",
			Name:      "teams_created_total",
			Help:      "Teams created, including administrative registrations.",
		}, []string{"guild_id"}),
		deleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "team",
			Name:      "teams_deleted_total",
			Help:      "Teams deleted after draining or by an administrator.",
		}, []string{"guild_id"}),
		invites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "team",
			Name:      "invitations_sent_total",
			Help:      "Invitations delivered to students.",
		}, []string{"guild_id"}),
		rejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "team",
			Name:      "invitations_rejected_total",
			Help:      "Per-invitee rejections during create or invite.",
		}, []string{"guild_id", "reason"}),
	}

	for _, c := range []prometheus.Collector{m.created, m.deleted, m.invites, m.rejected} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *teamMetrics) RecordTeamCreated(_ context.Context, guildID string) {
	m.created.WithLabelValues(guildID).Inc()
}

func (m *teamMetrics) RecordTeamDeleted(_ context.Context, guildID string) {
	m.deleted.WithLabelValues(guildID).Inc()
}

func (m *teamMetrics) RecordInvitationsSent(_ context.Context, guildID string, count int) {
	m.invites.WithLabelValues(guildID).Add(float64(count))
}

func (m *teamMetrics) RecordInvitationsRejected(_ context.Context, guildID, reason string) {
	m.rejected.WithLabelValues(guildID, reason).Inc()
}
