package model

// UserStats 个人累计统计
type UserStats struct {
	SessionsPlayed   int64 `json:"sessionsPlayed"`
	SessionsPassed   int64 `json:"sessionsPassed"`
	TotalStars       int   `json:"totalStars"`
	SkillsCompleted  int64 `json:"skillsCompleted"`
	RewardsEarned    int64 `json:"rewardsEarned"`
	TotalTimeSeconds int64 `json:"totalTimeSeconds"`
}

// SubjectDashboard 首页单个学科的进度概览
type SubjectDashboard struct {
	SubjectID       string `json:"subjectId"`
	SubjectName     string `json:"subjectName"`
	ImageURL        string `json:"imageUrl,omitempty"`
	TotalSkills     int64  `json:"totalSkills"`
	SkillsStarted   int64  `json:"skillsStarted"`
	SkillsCompleted int64  `json:"skillsCompleted"`
	StarsEarned     int    `json:"starsEarned"`
}

// DashboardStats 首页聚合
type DashboardStats struct {
	Subjects       []SubjectDashboard `json:"subjects"`
	RecentSessions []UserSessionLog   `json:"recentSessions"`
	Stats          UserStats          `json:"stats"`
}

// SkillReportRow 区间报表中单个技能的聚合行
type SkillReportRow struct {
	SkillID      string  `json:"skillId"`
	SkillName    string  `json:"skillName"`
	Attempts     int64   `json:"attempts"`
	Passed       int64   `json:"passed"`
	AverageScore float64 `json:"averageScore"`
	TimeSeconds  int64   `json:"timeSeconds"`
}

// PeriodReport 按时间段聚合的学习报表
type PeriodReport struct {
	From   string           `json:"from"`
	To     string           `json:"to"`
	Skills []SkillReportRow `json:"skills"`
}

// RecommendedSkill 推荐继续学习的技能
type RecommendedSkill struct {
	Skill       Skill `json:"skill"`
	NextSession int   `json:"nextSession"`
}
