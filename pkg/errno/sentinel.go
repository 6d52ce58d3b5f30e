package errno

import "errors"

// 哨兵错误, 用errors.Is匹配
var (
	// ErrJobCancelled 任务被用户取消, 各阶段检查点返回该错误终止处理
	ErrJobCancelled = errors.New("job cancelled")
)
