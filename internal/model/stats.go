package model

import "time"

// Overview holds the headline dashboard counts.
type Overview struct {
	TotalTeams     int `json:"totalTeams"`
	TotalAgents    int `json:"totalAgents"`
	OnlineAgents   int `json:"onlineAgents"`
	PendingInvites int `json:"pendingInvites"`
}

// TeamStat holds per-team agent counts, ordered by team creation.
type TeamStat struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Color        string `json:"color"`
	AgentCount   int    `json:"agentCount"`
	OnlineAgents int    `json:"onlineAgents"`
}

// RecentAgent is a dashboard row for a recently created agent.
type RecentAgent struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Email        string       `json:"email"`
	Role         AgentRole    `json:"role"`
	InviteStatus InviteStatus `json:"inviteStatus"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// DashboardStats is a point-in-time aggregate snapshot for the admin
// dashboard. All sections come from a single storage read so the numbers are
// mutually consistent.
type DashboardStats struct {
	Overview     Overview      `json:"overview"`
	TeamStats    []TeamStat    `json:"teamStats"`
	RecentAgents []RecentAgent `json:"recentAgents"`
}
