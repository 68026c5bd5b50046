package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clipflow-service/ddd/domain/entity"
	"clipflow-service/ddd/domain/vo"
)

func subtitleFixture() (*fakeVideoRepo, *fakeArtifactRepo, *fakeTranslationRepo) {
	videoRepo := newFakeVideoRepo(testVideo(101, vo.StageTranslating, endTime(42.5)))
	artifactRepo := newFakeArtifactRepo()
	artifactRepo.put(entity.NewStorageArtifactEntity(101, vo.ArtifactStageRaw, "mp4", "videos/101/raw.mp4", 2048, "minio"))
	translationRepo := newFakeTranslationRepo()
	_ = translationRepo.CreateWithStageAdvance(context.Background(),
		entity.NewTranslationEntity(101, "fake-translator", "zh", "videos/101/subtitles.zh.srt"),
		testVideo(101, vo.StageTranscribing, endTime(42.5)), vo.StageTranslating)
	return videoRepo, artifactRepo, translationRepo
}

func TestSubtitleBurnHandler_BurnsAndStoresProcessedArtifact(t *testing.T) {
	videoRepo, artifactRepo, translationRepo := subtitleFixture()
	bucket := newFakeBucket()
	jobQueue := &fakeJobQueue{}

	h := NewSubtitleBurnHandler(videoRepo, artifactRepo, translationRepo, bucket,
		&fakeSubtitler{estimate: 120}, jobQueue, &fakeEvents{}, "minio", testConfig())

	err := h.Handle(context.Background(), &testMessage{id: "m-1"},
		&vo.TranslationReadyJob{VideoID: 101})
	require.NoError(t, err)

	// 原始切片和字幕都拉到本地
	assert.ElementsMatch(t, []string{"videos/101/raw.mp4", "videos/101/subtitles.zh.srt"}, bucket.downloads)

	// 压制前推进到subtitling，成品入库时推进到uploading
	assert.Equal(t, []vo.Stage{vo.StageSubtitling}, videoRepo.stageUpdates[101])
	processed, _ := artifactRepo.GetByVideoAndStage(context.Background(), 101, vo.ArtifactStageProcessed)
	require.NotNil(t, processed)
	assert.Equal(t, "videos/101/processed.mp4", processed.ObjectKey())

	sent := jobQueue.sentJobs()
	require.Len(t, sent, 1)
	assert.IsType(t, &vo.ProcessedUploadedJob{}, sent[0])
	assert.Equal(t, []string{"m-1"}, jobQueue.extended)
}

func TestSubtitleBurnHandler_AsyncService_RecordsExternalJob(t *testing.T) {
	videoRepo, artifactRepo, translationRepo := subtitleFixture()
	jobQueue := &fakeJobQueue{}

	h := NewSubtitleBurnHandler(videoRepo, artifactRepo, translationRepo, newFakeBucket(),
		&fakeSubtitler{estimate: 120, externalJobID: "burn-7"}, jobQueue, &fakeEvents{}, "minio", testConfig())

	err := h.Handle(context.Background(), &testMessage{id: "m-1"},
		&vo.TranslationReadyJob{VideoID: 101})
	require.NoError(t, err)

	// 外部异步压制：登记作业ID即返回，成品由回调触发
	assert.Equal(t, "burn-7", translationRepo.externalJobIDs[101])
	processed, _ := artifactRepo.GetByVideoAndStage(context.Background(), 101, vo.ArtifactStageProcessed)
	assert.Nil(t, processed)
	assert.Empty(t, jobQueue.sentJobs())
}

func TestSubtitleBurnHandler_ProcessedExists_ReenqueuesOnly(t *testing.T) {
	videoRepo, artifactRepo, translationRepo := subtitleFixture()
	artifactRepo.put(entity.NewStorageArtifactEntity(101, vo.ArtifactStageProcessed, "mp4", "videos/101/processed.mp4", 4096, "minio"))
	subtitler := &fakeSubtitler{}
	jobQueue := &fakeJobQueue{}
	bucket := newFakeBucket()

	h := NewSubtitleBurnHandler(videoRepo, artifactRepo, translationRepo, bucket,
		subtitler, jobQueue, &fakeEvents{}, "minio", testConfig())

	err := h.Handle(context.Background(), &testMessage{id: "m-1"},
		&vo.TranslationReadyJob{VideoID: 101})
	require.NoError(t, err)

	assert.Empty(t, bucket.downloads)
	sent := jobQueue.sentJobs()
	require.Len(t, sent, 1)
	assert.IsType(t, &vo.ProcessedUploadedJob{}, sent[0])
}

func TestSubtitleBurnHandler_RedeliveredInSubtitling_NoDoubleAdvance(t *testing.T) {
	videoRepo := newFakeVideoRepo(testVideo(101, vo.StageSubtitling, endTime(42.5)))
	artifactRepo := newFakeArtifactRepo()
	artifactRepo.put(entity.NewStorageArtifactEntity(101, vo.ArtifactStageRaw, "mp4", "videos/101/raw.mp4", 2048, "minio"))
	translationRepo := newFakeTranslationRepo()
	require.NoError(t, translationRepo.CreateWithStageAdvance(context.Background(),
		entity.NewTranslationEntity(101, "fake-translator", "zh", "videos/101/subtitles.zh.srt"),
		testVideo(101, vo.StageTranscribing, endTime(42.5)), vo.StageTranslating))

	h := NewSubtitleBurnHandler(videoRepo, artifactRepo, translationRepo, newFakeBucket(),
		&fakeSubtitler{estimate: 120}, &fakeJobQueue{}, &fakeEvents{}, "minio", testConfig())

	err := h.Handle(context.Background(), &testMessage{id: "m-1"},
		&vo.TranslationReadyJob{VideoID: 101})
	require.NoError(t, err)

	// 压制途中重投：阶段已是subtitling，不再重复推进
	assert.Empty(t, videoRepo.stageUpdates[101])
}

func TestSubtitleBurnHandler_MissingTranslation_IsFinal(t *testing.T) {
	videoRepo := newFakeVideoRepo(testVideo(101, vo.StageTranslating, endTime(42.5)))
	artifactRepo := newFakeArtifactRepo()
	artifactRepo.put(entity.NewStorageArtifactEntity(101, vo.ArtifactStageRaw, "mp4", "videos/101/raw.mp4", 2048, "minio"))

	h := NewSubtitleBurnHandler(videoRepo, artifactRepo, newFakeTranslationRepo(), newFakeBucket(),
		&fakeSubtitler{}, &fakeJobQueue{}, &fakeEvents{}, "minio", testConfig())

	err := h.Handle(context.Background(), &testMessage{id: "m-1"},
		&vo.TranslationReadyJob{VideoID: 101})
	require.Error(t, err)
	assert.True(t, vo.IsFinal(err))
	assert.Len(t, videoRepo.markedErrors[101], 1)
}
