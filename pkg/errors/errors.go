// Package errors 定义打卡业务的错误分类
//
// 服务层的哨兵错误通过 New 创建并携带 Kind，处理器层只依赖 KindOf
// 将错误映射为 HTTP 状态码，不关心具体是哪个业务错误。
package errors

import (
	"errors"
	"fmt"
)

// Kind 错误类别
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindNotFound
	KindOutOfRange
	KindDuplicateEvent
	KindSequence
	KindStorageConflict
	KindForbidden
)

// String 返回类别名称，用于日志字段
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindOutOfRange:
		return "out_of_range"
	case KindDuplicateEvent:
		return "duplicate_event"
	case KindSequence:
		return "sequence"
	case KindStorageConflict:
		return "storage_conflict"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// Error 带类别的业务错误
// MessageID 对应 locales 中的翻译条目
type Error struct {
	Kind      Kind
	MessageID string
	Message   string
}

func (e *Error) Error() string { return e.Message }

// New 创建业务错误
func New(kind Kind, messageID, message string) *Error {
	return &Error{Kind: kind, MessageID: messageID, Message: message}
}

// KindOf 返回错误链上第一个业务错误的类别，非业务错误视为 KindInternal
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// MessageIDOf 返回错误链上第一个业务错误的翻译 ID
func MessageIDOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.MessageID
	}
	return ""
}

// ── 存储层 ──

// ErrUniqueViolation 唯一约束冲突（PostgreSQL 23505）
var ErrUniqueViolation = New(KindStorageConflict, "StorageConflict", "唯一约束冲突")

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = New(KindStorageConflict, "OptimisticLock", "数据已被其他操作修改，请刷新后重试")

// ── 携带上下文的错误 ──

// ErrOutOfRange 打卡坐标超出允许半径
var ErrOutOfRange = New(KindOutOfRange, "OutOfRange", "不在允许的打卡范围内")

// OutOfRangeError 携带允许半径与实际距离
type OutOfRangeError struct {
	RadiusMeters   int
	DistanceMeters float64
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("不在允许的打卡范围内（半径 %d 米）", e.RadiusMeters)
}

func (e *OutOfRangeError) Unwrap() error { return ErrOutOfRange }

// ErrDuplicateEvent 当天已存在同类型打卡
var ErrDuplicateEvent = New(KindDuplicateEvent, "DuplicateEvent", "当天已存在同类型打卡")

// DuplicateEventError 携带重复类型与下一次应打卡类型
type DuplicateEventError struct {
	Type string
	Next string
}

func (e *DuplicateEventError) Error() string {
	return fmt.Sprintf("当天已存在 %s 打卡，下一次应为 %s", e.Type, e.Next)
}

func (e *DuplicateEventError) Unwrap() error { return ErrDuplicateEvent }
