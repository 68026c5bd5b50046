package vo

// Stage 视频生命周期阶段
type Stage string

const (
	// StageDownloading 等待下载源视频
	StageDownloading Stage = "downloading"
	// StageCutting 等待本地剪切
	StageCutting Stage = "cutting"
	// StageRawUploading 原始切片正在上传
	StageRawUploading Stage = "raw_uploading"
	// StageTranscribing 等待转写完成
	StageTranscribing Stage = "transcribing"
	// StageTranslating 字幕翻译完成，等待压制
	StageTranslating Stage = "translating"
	// StageSubtitling 字幕压制中
	StageSubtitling Stage = "subtitling"
	// StageUploading 成品待发布
	StageUploading Stage = "uploading"
	// StageDone 终态
	StageDone Stage = "done"
)

// IsValid 检查阶段是否有效
func (s Stage) IsValid() bool {
	switch s {
	case StageDownloading, StageCutting, StageRawUploading, StageTranscribing,
		StageTranslating, StageSubtitling, StageUploading, StageDone:
		return true
	default:
		return false
	}
}

// String 返回阶段字符串
func (s Stage) String() string {
	return string(s)
}

// IsTerminal 检查是否为终态
func (s Stage) IsTerminal() bool {
	return s == StageDone
}

// order assigns each stage a monotone rank; transitions never move backward.
func (s Stage) order() int {
	switch s {
	case StageDownloading:
		return 0
	case StageCutting:
		return 1
	case StageRawUploading:
		return 2
	case StageTranscribing:
		return 3
	case StageTranslating:
		return 4
	case StageSubtitling:
		return 5
	case StageUploading:
		return 6
	case StageDone:
		return 7
	default:
		return -1
	}
}

// CanAdvanceTo 检查是否可以推进到目标阶段
func (s Stage) CanAdvanceTo(target Stage) bool {
	if !s.IsValid() || !target.IsValid() {
		return false
	}
	if s.IsTerminal() {
		return false
	}
	switch s {
	case StageDownloading:
		// 单段远程剪切下载可以直接越过本地剪切
		return target == StageCutting || target == StageRawUploading || target == StageTranscribing
	default:
		return target.order() == s.order()+1
	}
}

// After 判断当前阶段是否已经越过目标阶段
func (s Stage) After(target Stage) bool {
	return s.order() > target.order()
}

// NewStageFromString 从字符串解析阶段
func NewStageFromString(v string) (Stage, bool) {
	s := Stage(v)
	return s, s.IsValid()
}
