package errno

import "fmt"

// code=0 请求成功
// code=4xx 客户端请求错误
// code=5xx 服务器端错误
// code=2xxxx 业务处理错误码

type Errno struct {
	Code    int
	Message string
}

// Error 实现error接口
func (e *Errno) Error() string {
	return e.Message
}

var (
	OK = &Errno{Code: 200, Message: "Success"}

	ErrInvalidParam = &Errno{Code: 400, Message: "Invalid parameter"}
	ErrNotFound     = &Errno{Code: 404, Message: "Not found"}

	ErrInternalServer = &Errno{Code: 500, Message: "Internal server error"}
	ErrDatabase       = &Errno{Code: 501, Message: "Database error"}
	ErrUnknown        = &Errno{Code: 510, Message: "Unknown error"}

	// 业务错误码
	ErrVideoNotFound        = &Errno{Code: 20001, Message: "Video not found"}
	ErrVideoIDRequired      = &Errno{Code: 20002, Message: "Video id is required"}
	ErrVideoNotInError      = &Errno{Code: 20003, Message: "Video is not in error state"}
	ErrStageNotRetriable    = &Errno{Code: 20004, Message: "Video stage has no retriable job"}
	ErrQueueFull            = &Errno{Code: 20005, Message: "Job queue is full"}
	ErrEnqueueFailed        = &Errno{Code: 20006, Message: "Failed to enqueue job"}
	ErrOriginalNotFound     = &Errno{Code: 20007, Message: "Original video not found"}
	ErrArtifactNotFound     = &Errno{Code: 20008, Message: "Storage artifact not found"}
	ErrTranscriptionMissing = &Errno{Code: 20009, Message: "Transcription record not found"}
)

// BizError 业务错误，携带底层原因
type BizError struct {
	errno *Errno
	cause error
}

// NewBizError 包装底层错误为业务错误
func NewBizError(errno *Errno, cause error) *BizError {
	return &BizError{errno: errno, cause: cause}
}

func (e *BizError) Error() string {
	if e.cause == nil {
		return e.errno.Message
	}
	return fmt.Sprintf("%s: %v", e.errno.Message, e.cause)
}

func (e *BizError) Unwrap() error { return e.cause }

// Errno 返回错误码定义
func (e *BizError) Errno() *Errno { return e.errno }
