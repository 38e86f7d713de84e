package errors

import "errors"

// ErrNoRowsAffected 更新目标行不存在：事务内零行受影响，需整体回滚
var ErrNoRowsAffected = errors.New("未匹配到任何记录")
