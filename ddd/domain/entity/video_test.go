package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipflow-service/ddd/domain/vo"
)

func makeVideo(stage vo.Stage, start float64, end *float64) *VideoEntity {
	now := time.Now()
	return NewVideoEntity(101, "title", "", 1, 7, "en", stage, false,
		start, end, 11, "", "", now, now)
}

func TestVideoEntity_AdvanceStage(t *testing.T) {
	end := 42.5
	v := makeVideo(vo.StageCutting, 10, &end)

	require.NoError(t, v.AdvanceStage(vo.StageRawUploading))
	assert.Equal(t, vo.StageRawUploading, v.Stage())

	// 回退与跳跃都拒绝
	require.Error(t, v.AdvanceStage(vo.StageCutting))
	require.Error(t, v.AdvanceStage(vo.StageDone))
	assert.Equal(t, vo.StageRawUploading, v.Stage())
}

func TestVideoEntity_CutBounds(t *testing.T) {
	end := 42.5
	v := makeVideo(vo.StageDownloading, 10, &end)
	require.True(t, v.HasEndTime())
	start, stop := v.CutBounds()
	assert.Equal(t, 10.0, start)
	assert.Equal(t, 42.5, stop)

	open := makeVideo(vo.StageDownloading, 10, nil)
	assert.False(t, open.HasEndTime())
	start, stop = open.CutBounds()
	assert.Equal(t, 10.0, start)
	assert.Equal(t, 0.0, stop)

	// 右边界不大于起点时视为缺失
	bad := 5.0
	inverted := makeVideo(vo.StageDownloading, 10, &bad)
	assert.False(t, inverted.HasEndTime())
}

func TestVideoEntity_SetPublicURL(t *testing.T) {
	v := makeVideo(vo.StageUploading, 0, nil)
	require.Empty(t, v.PublicURL())

	v.SetPublicURL("yt-abc")
	assert.Equal(t, "yt-abc", v.PublicURL())
}
