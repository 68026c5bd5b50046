package vo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStage_CanAdvanceTo_Sequential(t *testing.T) {
	order := []Stage{
		StageDownloading, StageCutting, StageRawUploading, StageTranscribing,
		StageTranslating, StageSubtitling, StageUploading, StageDone,
	}

	for i := 0; i < len(order)-1; i++ {
		assert.True(t, order[i].CanAdvanceTo(order[i+1]), "%s -> %s", order[i], order[i+1])
	}

	// 不允许回退
	for i := 1; i < len(order); i++ {
		assert.False(t, order[i].CanAdvanceTo(order[i-1]), "%s -> %s", order[i], order[i-1])
	}
}

func TestStage_CanAdvanceTo_DownloadShortcuts(t *testing.T) {
	// 单段远程剪切直接产出原始切片，跳过本地剪切
	assert.True(t, StageDownloading.CanAdvanceTo(StageRawUploading))
	assert.True(t, StageDownloading.CanAdvanceTo(StageTranscribing))

	assert.False(t, StageDownloading.CanAdvanceTo(StageTranslating))
	assert.False(t, StageDownloading.CanAdvanceTo(StageDone))
	assert.False(t, StageCutting.CanAdvanceTo(StageTranscribing))
}

func TestStage_Terminal(t *testing.T) {
	assert.True(t, StageDone.IsTerminal())
	assert.False(t, StageDone.CanAdvanceTo(StageDownloading))
	assert.False(t, StageDone.CanAdvanceTo(StageDone))

	for _, s := range []Stage{StageDownloading, StageCutting, StageRawUploading,
		StageTranscribing, StageTranslating, StageSubtitling, StageUploading} {
		assert.False(t, s.IsTerminal(), "%s", s)
	}
}

func TestStage_After(t *testing.T) {
	assert.True(t, StageTranscribing.After(StageCutting))
	assert.True(t, StageDone.After(StageUploading))
	assert.False(t, StageCutting.After(StageCutting))
	assert.False(t, StageCutting.After(StageTranscribing))
}

func TestNewStageFromString(t *testing.T) {
	s, ok := NewStageFromString("transcribing")
	assert.True(t, ok)
	assert.Equal(t, StageTranscribing, s)

	_, ok = NewStageFromString("rendering")
	assert.False(t, ok)

	_, ok = NewStageFromString("")
	assert.False(t, ok)
}
