package vo

import (
	"fmt"
	"strings"
	"time"
)

// Sentence 转写服务返回的一条带时间轴的句子
type Sentence struct {
	Text    string `json:"text"`
	StartMs int64  `json:"start_ms"`
	EndMs   int64  `json:"end_ms"`
}

// ArtifactStage 物理制品对应的管道阶段
type ArtifactStage string

const (
	// ArtifactStageRaw 剪切后的原始切片
	ArtifactStageRaw ArtifactStage = "raw"
	// ArtifactStageProcessed 压制字幕后的成品
	ArtifactStageProcessed ArtifactStage = "processed"
)

func (s ArtifactStage) String() string { return string(s) }

// IsValid 检查制品阶段是否有效
func (s ArtifactStage) IsValid() bool {
	return s == ArtifactStageRaw || s == ArtifactStageProcessed
}

// BuildSRT 将句子序列渲染为SRT字幕文本
func BuildSRT(sentences []Sentence) string {
	var b strings.Builder
	for i, s := range sentences {
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n\n",
			i+1, srtTimestamp(s.StartMs), srtTimestamp(s.EndMs), strings.TrimSpace(s.Text))
	}
	return b.String()
}

func srtTimestamp(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms%1000)
}
