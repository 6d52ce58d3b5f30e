package service

import (
	"context"

	"videogen-service/ddd/domain/vo"
)

// StageContext 一个工作项在某阶段执行时的上下文
type StageContext struct {
	// JobUUID 关联键
	JobUUID string
	// Payload 当前最新版本的载荷文档
	Payload *vo.JobPayload
	// Checkpoint 协作式取消检查点: 重读队列项的取消标记,
	// 已取消时返回errno.ErrJobCancelled。处理器在每次外部昂贵调用前后调用它。
	Checkpoint func(ctx context.Context) error
	// Progress 上报队列自身的进度通道(0-100)
	Progress func(pct int)
}

// StageHandler 一个流水线阶段的处理器. 只负责"做工作"并把结果合并进载荷;
// 推进流水线(写状态/入队下一阶段)由完成事件的监听方负责。
type StageHandler interface {
	Stage() vo.Step
	Execute(ctx context.Context, sc *StageContext) (*vo.JobPayload, error)
}
