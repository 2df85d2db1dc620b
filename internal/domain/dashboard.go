package domain

type DashboardStats struct {
	TotalEmployees      int                `json:"totalEmployees"`
	CompletedInterviews int                `json:"entretiensRealises"`
	UpcomingInterviews  int                `json:"entretiensAVenir"`
	EmployeesToSchedule int                `json:"entretiensAPlanifier"`
	GoalsByStatus       map[GoalStatus]int `json:"objectifsParStatut"`
}
