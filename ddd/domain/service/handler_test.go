package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"clipflow-service/ddd/domain/entity"
	"clipflow-service/ddd/domain/gateway"
	"clipflow-service/ddd/domain/vo"
	"clipflow-service/pkg/config"
)

// 各处理器测试共享的内存桩实现

type testMessage struct {
	id string
}

func (m *testMessage) ID() string             { return m.id }
func (m *testMessage) Body() []byte           { return nil }
func (m *testMessage) ToJob() (vo.Job, error) { return nil, &vo.DecodeError{Reason: "stub"} }

func testConfig() *config.Config {
	return &config.Config{
		Pipeline: config.PipelineConfig{
			TempDir:         "/tmp",
			FFmpegTimeout:   10 * time.Minute,
			DownloadTimeout: 30 * time.Minute,
			DefaultFormat:   "mp4",
			PresignTTL:      time.Hour,
		},
		Translator: config.TranslatorConfig{
			Timeout:        time.Minute,
			TargetLanguage: "zh",
			BatchSize:      2,
		},
	}
}

func endTime(v float64) *float64 { return &v }

func testVideo(id uint64, stage vo.Stage, end *float64) *entity.VideoEntity {
	now := time.Now()
	return entity.NewVideoEntity(id, "title", "desc", 1, 7, "en", stage, false,
		10, end, 11, "tag-a,tag-b", "", now, now)
}

type markedError struct {
	stage   vo.Stage
	message string
}

type fakeVideoRepo struct {
	mu           sync.Mutex
	videos       map[uint64]*entity.VideoEntity
	stageUpdates map[uint64][]vo.Stage
	markedErrors map[uint64][]markedError
	published    map[uint64]string
	cleared      []uint64
	pendingCut   int64

	getErr    error
	updateErr error
}

func newFakeVideoRepo(videos ...*entity.VideoEntity) *fakeVideoRepo {
	r := &fakeVideoRepo{
		videos:       map[uint64]*entity.VideoEntity{},
		stageUpdates: map[uint64][]vo.Stage{},
		markedErrors: map[uint64][]markedError{},
		published:    map[uint64]string{},
	}
	for _, v := range videos {
		r.videos[v.ID()] = v
	}
	return r
}

func (r *fakeVideoRepo) GetVideo(_ context.Context, videoID uint64) (*entity.VideoEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.videos[videoID], nil
}

func (r *fakeVideoRepo) AdvanceStage(_ context.Context, video *entity.VideoEntity, target vo.Stage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return r.updateErr
	}
	if err := video.AdvanceStage(target); err != nil {
		return err
	}
	r.stageUpdates[video.ID()] = append(r.stageUpdates[video.ID()], target)
	return nil
}

func (r *fakeVideoRepo) MarkVideoError(_ context.Context, videoID uint64, stage vo.Stage, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.markedErrors[videoID] = append(r.markedErrors[videoID], markedError{stage: stage, message: message})
	return nil
}

func (r *fakeVideoRepo) ClearVideoError(_ context.Context, videoID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.cleared = append(r.cleared, videoID)
	return nil
}

func (r *fakeVideoRepo) SetPublished(_ context.Context, video *entity.VideoEntity, publicURL string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := video.AdvanceStage(vo.StageDone); err != nil {
		return err
	}
	video.SetPublicURL(publicURL)
	r.published[video.ID()] = publicURL
	return nil
}

func (r *fakeVideoRepo) CountPendingCut(_ context.Context, _ uint64) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pendingCut, nil
}

type fakeOriginalRepo struct {
	mu         sync.Mutex
	originals  map[uint64]*entity.OriginalVideoEntity
	localPaths map[uint64]string
	durations  map[uint64]float64
}

func newFakeOriginalRepo(originals ...*entity.OriginalVideoEntity) *fakeOriginalRepo {
	r := &fakeOriginalRepo{
		originals:  map[uint64]*entity.OriginalVideoEntity{},
		localPaths: map[uint64]string{},
		durations:  map[uint64]float64{},
	}
	for _, o := range originals {
		r.originals[o.ID()] = o
	}
	return r
}

func (r *fakeOriginalRepo) GetOriginalVideo(_ context.Context, id uint64) (*entity.OriginalVideoEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.originals[id], nil
}

func (r *fakeOriginalRepo) UpdateLocalPath(_ context.Context, id uint64, localPath string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.localPaths[id] = localPath
	return nil
}

func (r *fakeOriginalRepo) UpdateDuration(_ context.Context, id uint64, seconds float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.durations[id] = seconds
	return nil
}

type createdArtifact struct {
	artifact   *entity.StorageArtifactEntity
	videoStage vo.Stage
}

type fakeArtifactRepo struct {
	mu       sync.Mutex
	existing map[string]*entity.StorageArtifactEntity
	created  []createdArtifact

	getErr    error
	createErr error
}

func newFakeArtifactRepo() *fakeArtifactRepo {
	return &fakeArtifactRepo{existing: map[string]*entity.StorageArtifactEntity{}}
}

func artifactKey(videoID uint64, stage vo.ArtifactStage) string {
	return fmt.Sprintf("%d/%s", videoID, stage)
}

func (r *fakeArtifactRepo) put(a *entity.StorageArtifactEntity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.existing[artifactKey(a.VideoID(), a.Stage())] = a
}

func (r *fakeArtifactRepo) GetByVideoAndStage(_ context.Context, videoID uint64, stage vo.ArtifactStage) (*entity.StorageArtifactEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getErr != nil {
		return nil, r.getErr
	}
	return r.existing[artifactKey(videoID, stage)], nil
}

func (r *fakeArtifactRepo) CreateWithStageAdvance(_ context.Context, artifact *entity.StorageArtifactEntity, video *entity.VideoEntity, target vo.Stage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if err := video.AdvanceStage(target); err != nil {
		return err
	}
	r.existing[artifactKey(artifact.VideoID(), artifact.Stage())] = artifact
	r.created = append(r.created, createdArtifact{artifact: artifact, videoStage: target})
	return nil
}

type fakeTranscriptionRepo struct {
	mu           sync.Mutex
	records      map[uint64]*entity.TranscriptionEntity
	subtitleKeys map[uint64]string
}

func newFakeTranscriptionRepo() *fakeTranscriptionRepo {
	return &fakeTranscriptionRepo{
		records:      map[uint64]*entity.TranscriptionEntity{},
		subtitleKeys: map[uint64]string{},
	}
}

func (r *fakeTranscriptionRepo) CreateTranscription(_ context.Context, t *entity.TranscriptionEntity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records[t.VideoID()] = t
	return nil
}

func (r *fakeTranscriptionRepo) GetTranscriptionByVideo(_ context.Context, videoID uint64) (*entity.TranscriptionEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[videoID], nil
}

func (r *fakeTranscriptionRepo) SetSubtitleKey(_ context.Context, videoID uint64, subtitleKey string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subtitleKeys[videoID] = subtitleKey
	return nil
}

type fakeTranslationRepo struct {
	mu             sync.Mutex
	records        map[uint64]*entity.TranslationEntity
	advanceStages  map[uint64]vo.Stage
	externalJobIDs map[uint64]string
}

func newFakeTranslationRepo() *fakeTranslationRepo {
	return &fakeTranslationRepo{
		records:        map[uint64]*entity.TranslationEntity{},
		advanceStages:  map[uint64]vo.Stage{},
		externalJobIDs: map[uint64]string{},
	}
}

func (r *fakeTranslationRepo) CreateWithStageAdvance(_ context.Context, t *entity.TranslationEntity, video *entity.VideoEntity, target vo.Stage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := video.AdvanceStage(target); err != nil {
		return err
	}
	r.records[t.VideoID()] = t
	r.advanceStages[t.VideoID()] = target
	return nil
}

func (r *fakeTranslationRepo) GetTranslationByVideo(_ context.Context, videoID uint64) (*entity.TranslationEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.records[videoID], nil
}

func (r *fakeTranslationRepo) SetExternalJobID(_ context.Context, videoID uint64, externalJobID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.externalJobIDs[videoID] = externalJobID
	return nil
}

type fakeChannelRepo struct {
	mu       sync.Mutex
	channels map[uint64]*entity.ChannelEntity
	marked   []uint64
}

func newFakeChannelRepo(channels ...*entity.ChannelEntity) *fakeChannelRepo {
	r := &fakeChannelRepo{channels: map[uint64]*entity.ChannelEntity{}}
	for _, c := range channels {
		r.channels[c.ID()] = c
	}
	return r
}

func (r *fakeChannelRepo) GetChannel(_ context.Context, channelID uint64) (*entity.ChannelEntity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.channels[channelID], nil
}

func (r *fakeChannelRepo) MarkChannelError(_ context.Context, channelID uint64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.marked = append(r.marked, channelID)
	return nil
}

type fakeBucket struct {
	mu        sync.Mutex
	uploads   map[string][]byte
	fromLocal map[string]string
	downloads []string

	uploadErr error
}

func newFakeBucket() *fakeBucket {
	return &fakeBucket{uploads: map[string][]byte{}, fromLocal: map[string]string{}}
}

func (b *fakeBucket) UploadBytes(_ context.Context, objectKey string, data []byte, _ string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.uploadErr != nil {
		return b.uploadErr
	}
	b.uploads[objectKey] = data
	return nil
}

func (b *fakeBucket) UploadFromLocalPath(_ context.Context, objectKey, localPath string) (int64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.uploadErr != nil {
		return 0, b.uploadErr
	}
	b.fromLocal[objectKey] = localPath
	return 2048, nil
}

func (b *fakeBucket) DownloadBytes(_ context.Context, objectKey string) ([]byte, error) {
	return []byte("data:" + objectKey), nil
}

func (b *fakeBucket) DownloadToLocalPath(_ context.Context, objectKey, localPath string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.downloads = append(b.downloads, objectKey)
	return nil
}

func (b *fakeBucket) PresignDownload(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://bucket.local/" + objectKey + "?signed", nil
}

func (b *fakeBucket) PresignUpload(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	return "https://bucket.local/" + objectKey + "?upload", nil
}

// fakeJobQueue 记录发出的作业和可见性延长调用
type fakeJobQueue struct {
	mu       sync.Mutex
	sent     []vo.Job
	extended []string
	sendErr  error
}

func (q *fakeJobQueue) Receive(context.Context) ([]gateway.Message, error) { return nil, nil }

func (q *fakeJobQueue) Send(_ context.Context, job vo.Job) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.sendErr != nil {
		return q.sendErr
	}
	q.sent = append(q.sent, job)
	return nil
}

func (q *fakeJobQueue) Delete(context.Context, gateway.Message) error { return nil }

func (q *fakeJobQueue) ExtendVisibility(_ context.Context, msg gateway.Message, _ time.Duration) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.extended = append(q.extended, msg.ID())
	return nil
}

func (q *fakeJobQueue) sentJobs() []vo.Job {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]vo.Job, len(q.sent))
	copy(out, q.sent)
	return out
}

type stageEvent struct {
	videoID uint64
	jobType vo.JobType
	stage   vo.Stage
}

type fakeEvents struct {
	mu     sync.Mutex
	events []stageEvent
}

func (e *fakeEvents) PublishStageEvent(_ context.Context, videoID uint64, jobType vo.JobType, stage vo.Stage) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.events = append(e.events, stageEvent{videoID: videoID, jobType: jobType, stage: stage})
	return nil
}

type fakeDownloader struct {
	mu           sync.Mutex
	sections     []gateway.CutBounds
	fullCalls    int
	localPath    string
	duration     float64
	downloadErr  error
	sectionErr   error
	sectionsPath string
}

func (d *fakeDownloader) Download(context.Context, string, string) (string, float64, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.downloadErr != nil {
		return "", 0, d.downloadErr
	}
	d.fullCalls++
	return d.localPath, d.duration, nil
}

func (d *fakeDownloader) DownloadSection(_ context.Context, _ string, bounds gateway.CutBounds, _ string) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sectionErr != nil {
		return "", d.sectionErr
	}
	d.sections = append(d.sections, bounds)
	return d.sectionsPath, nil
}

type fakeCutter struct {
	mu     sync.Mutex
	cuts   []gateway.CutBounds
	cutErr error
}

func (c *fakeCutter) Cut(_ context.Context, _ string, bounds gateway.CutBounds, _ string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cutErr != nil {
		return c.cutErr
	}
	c.cuts = append(c.cuts, bounds)
	return nil
}

type fakeTranscriber struct {
	jobID        string
	sentences    []vo.Sentence
	kickoffErr   error
	sentencesErr error
}

func (t *fakeTranscriber) Transcribe(context.Context, string, string) (string, error) {
	if t.kickoffErr != nil {
		return "", t.kickoffErr
	}
	return t.jobID, nil
}

func (t *fakeTranscriber) GetSentences(context.Context, string) ([]vo.Sentence, error) {
	if t.sentencesErr != nil {
		return nil, t.sentencesErr
	}
	return t.sentences, nil
}

type fakeTranslator struct {
	mu      sync.Mutex
	batches [][]string
	err     error
	// mangle 可改写返回结果，用于模拟长度不一致
	mangle func(texts []string) []string
}

func (t *fakeTranslator) TranslateSentences(_ context.Context, texts []string, _ string) ([]string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.err != nil {
		return nil, t.err
	}
	batch := make([]string, len(texts))
	copy(batch, texts)
	t.batches = append(t.batches, batch)

	if t.mangle != nil {
		return t.mangle(texts), nil
	}
	out := make([]string, len(texts))
	for i, s := range texts {
		out[i] = "译:" + s
	}
	return out, nil
}

func (t *fakeTranslator) Name() string { return "fake-translator" }

type fakeSubtitler struct {
	estimate      int64
	externalJobID string
	subtitleErr   error
}

func (s *fakeSubtitler) EstimateTime(context.Context, *entity.StorageArtifactEntity) (int64, error) {
	return s.estimate, nil
}

func (s *fakeSubtitler) Subtitle(context.Context, string, string, string) (string, error) {
	if s.subtitleErr != nil {
		return "", s.subtitleErr
	}
	return s.externalJobID, nil
}

type fakePublisher struct {
	publicID  string
	healthErr error
	uploadErr error
}

func (p *fakePublisher) HealthCheck(context.Context, *entity.ChannelEntity) error {
	return p.healthErr
}

func (p *fakePublisher) Upload(context.Context, *entity.VideoEntity, *entity.StorageArtifactEntity, *entity.ChannelEntity) (string, error) {
	if p.uploadErr != nil {
		return "", p.uploadErr
	}
	return p.publicID, nil
}
