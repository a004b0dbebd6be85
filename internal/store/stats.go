package store

import (
	"context"

	"gorm.io/gorm"

	"github.com/dev-surajtapkeer/voxora/internal/model"
)

// recentAgentLimit bounds the recent-agents section of the dashboard.
const recentAgentLimit = 5

// DashboardSnapshot computes the dashboard aggregate inside a single
// transaction so the counts are mutually consistent. Empty collections yield
// a zero-filled snapshot, not an error.
func (s *Store) DashboardSnapshot(ctx context.Context) (*model.DashboardStats, error) {
	stats := &model.DashboardStats{
		TeamStats:    []model.TeamStat{},
		RecentAgents: []model.RecentAgent{},
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var teamCount, agentCount, onlineCount, pendingCount int64

		if err := tx.Model(&teamRow{}).Count(&teamCount).Error; err != nil {
			return err
		}
		if err := tx.Model(&agentRow{}).Count(&agentCount).Error; err != nil {
			return err
		}
		if err := tx.Model(&agentRow{}).
			Where("presence = ?", string(model.PresenceOnline)).
			Count(&onlineCount).Error; err != nil {
			return err
		}
		if err := tx.Model(&agentRow{}).
			Where("invite_status = ?", string(model.InvitePending)).
			Count(&pendingCount).Error; err != nil {
			return err
		}

		stats.Overview = model.Overview{
			TotalTeams:     int(teamCount),
			TotalAgents:    int(agentCount),
			OnlineAgents:   int(onlineCount),
			PendingInvites: int(pendingCount),
		}

		var teams []teamRow
		if err := tx.Order("created_at ASC").Find(&teams).Error; err != nil {
			return err
		}

		type teamAgg struct {
			TeamID string
			Total  int
			Online int
		}
		var aggs []teamAgg
		if err := tx.Model(&agentRow{}).
			Select("team_id, COUNT(*) AS total, SUM(CASE WHEN presence = ? THEN 1 ELSE 0 END) AS online", string(model.PresenceOnline)).
			Where("team_id IS NOT NULL").
			Group("team_id").
			Scan(&aggs).Error; err != nil {
			return err
		}

		byTeam := make(map[string]teamAgg, len(aggs))
		for _, a := range aggs {
			byTeam[a.TeamID] = a
		}

		for _, t := range teams {
			agg := byTeam[t.ID]
			stats.TeamStats = append(stats.TeamStats, model.TeamStat{
				ID:           t.ID,
				Name:         t.Name,
				Color:        t.Color,
				AgentCount:   agg.Total,
				OnlineAgents: agg.Online,
			})
		}

		var recent []agentRow
		if err := tx.Order("created_at DESC").
			Limit(recentAgentLimit).
			Find(&recent).Error; err != nil {
			return err
		}
		for _, a := range recent {
			stats.RecentAgents = append(stats.RecentAgents, model.RecentAgent{
				ID:           a.ID,
				Name:         a.Name,
				Email:        a.Email,
				Role:         model.AgentRole(a.Role),
				InviteStatus: model.InviteStatus(a.InviteStatus),
				CreatedAt:    a.CreatedAt,
			})
		}

		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
