package vo

// Segment 对齐产出的时间段, 行/句/标记子串共用
type Segment struct {
	Text    string `json:"text"`
	StartMs int64  `json:"start_ms"`
	EndMs   int64  `json:"end_ms"`
}

// MarkedSpan 脚本中需要独立计时的标记子串(图片/引文/免责声明)
type MarkedSpan struct {
	Kind    string `json:"kind"`
	Text    string `json:"text"`
	Name    string `json:"name,omitempty"`
	StartMs int64  `json:"start_ms"`
	EndMs   int64  `json:"end_ms"`
}

// TextContext 为每行附带前后文, 供下游提示词使用
type TextContext struct {
	Before  string `json:"before"`
	Current string `json:"current"`
	After   string `json:"after"`
}
