package util

import "errors"

var (
	ErrNoAuthToken          = errors.New("no auth token stored")
	ErrSkillNotFound        = errors.New("skill not found")
	ErrSubjectNotFound      = errors.New("subject not found")
	ErrInvalidSessionNumber = errors.New("invalid session number")
	ErrSessionNotRecorded   = errors.New("会话未记录，本地写入失败")
	ErrWipeDisabled         = errors.New("wipe is only available in debug mode")
	ErrTableNotAllowed      = errors.New("table not in sync allowlist")
)
