package vo

// ImageUpload 用户上传的图片, Name对应脚本中标记的图片名
type ImageUpload struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// VideoSelection 内容分析为某一行选中的素材
type VideoSelection struct {
	RowIndex int    `json:"row_index"`
	VideoURL string `json:"video_url"`
}

// JobPayload 流水线载荷文档. 每个阶段下载最新版本, 合并自己的输出后上传新版本;
// 文档只增不减, 任何阶段不得删除前序阶段写入的字段。
type JobPayload struct {
	Version int `json:"version"`

	// 提交时写入
	JobUUID     string        `json:"job_uuid"`
	Script      string        `json:"script"`
	UserUUID    string        `json:"user_uuid,omitempty"`
	ProjectUUID string        `json:"project_uuid,omitempty"`
	CompanyUUID string        `json:"company_uuid,omitempty"`
	Images      []ImageUpload `json:"images,omitempty"`

	// ssml-enhance阶段写入
	SSML        string       `json:"ssml,omitempty"`
	PlainScript string       `json:"plain_script,omitempty"`
	ImageSpans  []MarkedSpan `json:"image_spans,omitempty"`
	Citations   []MarkedSpan `json:"citations,omitempty"`
	Disclaimers []MarkedSpan `json:"disclaimers,omitempty"`

	// tts阶段写入
	TTSWavFileURL string `json:"tts_wav_file_url,omitempty"`

	// align阶段写入
	AudioDurationMs int64         `json:"audio_duration_ms,omitempty"`
	Rows            []Segment     `json:"rows,omitempty"`
	Sentences       []Segment     `json:"sentences,omitempty"`
	WordTimings     []Segment     `json:"word_timings,omitempty"`
	RowContexts     []TextContext `json:"row_contexts,omitempty"`
	SubtitleSrtURL  string        `json:"subtitle_srt_url,omitempty"`
	SubtitleCsvURL  string        `json:"subtitle_csv_url,omitempty"`

	// content-analysis阶段写入
	VideoSelections []VideoSelection `json:"video_selections,omitempty"`

	// music阶段写入
	MusicTrackURL string `json:"music_track_url,omitempty"`

	// composite阶段写入
	CompositeVideoURL string `json:"composite_video_url,omitempty"`

	// render阶段写入
	RenderedFiles FileList `json:"rendered_files,omitempty"`
}
