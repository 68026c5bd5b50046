package vo

import (
	"errors"
	"fmt"
)

// 处理结果分类：
//   - nil            成功，调度器删除消息
//   - RetrievableError 瞬时失败，消息留在队列等待可见性超时后重投
//   - FinalError       业务性失败，消息删除且视频打上error标记
//
// 未分类的错误按瞬时失败处理。

// RetrievableError 瞬时失败，可以通过重投恢复
type RetrievableError struct {
	Cause error
}

func (e *RetrievableError) Error() string {
	return fmt.Sprintf("retrievable: %v", e.Cause)
}

func (e *RetrievableError) Unwrap() error { return e.Cause }

// Retrievable 包装瞬时失败
func Retrievable(cause error) error {
	if cause == nil {
		return nil
	}
	return &RetrievableError{Cause: cause}
}

// FinalError 不可恢复失败；重试无意义，需要运维介入
type FinalError struct {
	Cause error
}

func (e *FinalError) Error() string {
	return fmt.Sprintf("final: %v", e.Cause)
}

func (e *FinalError) Unwrap() error { return e.Cause }

// Final 包装不可恢复失败
func Final(cause error) error {
	if cause == nil {
		return nil
	}
	return &FinalError{Cause: cause}
}

// Finalf 格式化不可恢复失败
func Finalf(format string, args ...interface{}) error {
	return &FinalError{Cause: fmt.Errorf(format, args...)}
}

// IsFinal 判断是否为不可恢复失败
func IsFinal(err error) bool {
	var fe *FinalError
	return errors.As(err, &fe)
}

// IsRetrievable 判断是否按瞬时失败处理（含未分类错误）
func IsRetrievable(err error) bool {
	if err == nil {
		return false
	}
	return !IsFinal(err) && !IsDecodeError(err)
}
