package util

// 同步推送/标记已同步允许触达的表，闭集，禁止自由拼接表名
var SyncableTables = map[string]bool{
	"user_session_logs":   true,
	"user_skill_progress": true,
	"rewards":             true,
}

// 调试清库时额外覆盖的内容表
var ContentTables = []string{
	"subjects",
	"skills",
	"questions",
	"user_subjects",
	"sync_state",
}
