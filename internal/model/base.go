package model

import (
	"github.com/google/uuid"
)

// GenerateID 本地新建行的主键，与服务端下发的 id 同为不透明字符串
func GenerateID() string {
	return uuid.New().String()
}
