package vo

// Step 流水线阶段
type Step string

const (
	// StepNone 任务刚创建, 尚未进入任何阶段
	StepNone Step = ""
	// StepEnhance 脚本增强(SSML)
	StepEnhance Step = "ssml-enhance"
	// StepTTS 语音合成
	StepTTS Step = "tts"
	// StepAlign 强制对齐/转录
	StepAlign Step = "align"
	// StepContentAnalysis 内容分析
	StepContentAnalysis Step = "content-analysis"
	// StepMusic 配乐生成
	StepMusic Step = "music"
	// StepComposite 合成
	StepComposite Step = "composite"
	// StepRender 渲染
	StepRender Step = "render"
	// StepCompleted 全部阶段完成
	StepCompleted Step = "completed"
)

// stageOrder 固定阶段顺序, 每个阶段只入队它的直接后继
var stageOrder = []Step{
	StepEnhance,
	StepTTS,
	StepAlign,
	StepContentAnalysis,
	StepMusic,
	StepComposite,
	StepRender,
}

// Stages 返回按顺序排列的处理阶段(不含none/completed)
func Stages() []Step {
	out := make([]Step, len(stageOrder))
	copy(out, stageOrder)
	return out
}

// FirstStage 流水线入口阶段
func FirstStage() Step {
	return stageOrder[0]
}

// Next 返回后继阶段; 最后一个处理阶段的后继是StepCompleted
func (s Step) Next() (Step, bool) {
	if s == StepNone {
		return FirstStage(), true
	}
	for i, st := range stageOrder {
		if st != s {
			continue
		}
		if i == len(stageOrder)-1 {
			return StepCompleted, true
		}
		return stageOrder[i+1], true
	}
	return StepNone, false
}

// IsStage 是否为一个实际的处理阶段
func (s Step) IsStage() bool {
	for _, st := range stageOrder {
		if st == s {
			return true
		}
	}
	return false
}

// IsValid 检查阶段是否有效
func (s Step) IsValid() bool {
	return s == StepNone || s == StepCompleted || s.IsStage()
}

// String 返回阶段字符串
func (s Step) String() string {
	return string(s)
}
