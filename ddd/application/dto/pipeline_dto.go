package dto

import "time"

// QueueStatsDTO 进程内队列指标
type QueueStatsDTO struct {
	EnqueueCount uint64 `json:"enqueue_count"`
	DequeueCount uint64 `json:"dequeue_count"`
	MaxSize      int    `json:"max_size"`
	CurrentSize  int    `json:"current_size"`
}

// WorkerStatsDTO 工作器指标
type WorkerStatsDTO struct {
	Running          bool   `json:"running"`
	ProcessedJobs    uint64 `json:"processed_jobs"`
	SuccessfulJobs   uint64 `json:"successful_jobs"`
	FinalFailedJobs  uint64 `json:"final_failed_jobs"`
	RetriedJobs      uint64 `json:"retried_jobs"`
	MalformedJobs    uint64 `json:"malformed_jobs"`
	CurrentlyRunning int    `json:"currently_running"`
	StartTime        string `json:"start_time"`
	LastJobTime      string `json:"last_job_time,omitempty"`
}

// PipelineStatsResponse 管道运行指标
type PipelineStatsResponse struct {
	WorkerID   string         `json:"worker_id"`
	Worker     WorkerStatsDTO `json:"worker"`
	LightQueue QueueStatsDTO  `json:"light_queue"`
	HeavyQueue QueueStatsDTO  `json:"heavy_queue"`
}

// VideoStatusResponse 视频管道状态
type VideoStatusResponse struct {
	VideoID   uint64 `json:"video_id"`
	Stage     string `json:"stage"`
	Error     bool   `json:"error"`
	PublicURL string `json:"public_url,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// RetryVideoResponse 运维重试结果
type RetryVideoResponse struct {
	VideoID uint64 `json:"video_id"`
	Stage   string `json:"stage"`
	JobType string `json:"job_type"`
	Message string `json:"message"`
}

// FormatTime 统一时间序列化格式
func FormatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}
