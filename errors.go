// Package stackaddr 定义栈地址的公共错误类型
//
// 本文件定义所有解析、构造、解析（resolve）阶段的错误。
// 所有错误都直接返回给调用方，不做吞咽、不做部分应用。
package stackaddr

import (
	"errors"
	"fmt"
)

// ============================================================================
//                              结构性错误
// ============================================================================

var (
	// ErrEmptyAddress 空地址输入
	ErrEmptyAddress = errors.New("empty stack address")

	// ErrNotStackAddrFormat 不是栈地址格式（必须以 "/" 开头）
	ErrNotStackAddrFormat = errors.New("not stackaddr format: must start with /")

	// ErrTrailingSegment 末尾存在不完整的段（尾随分隔符或空 token）
	ErrTrailingSegment = errors.New("trailing incomplete segment")

	// ErrMissingArgument 已注册的 tag 在输入末尾缺少参数
	ErrMissingArgument = errors.New("missing argument")
)

// ============================================================================
//                              参数错误
// ============================================================================

// ArgumentError 参数存在但未通过该 tag 的解码规则
//
// 携带 tag 名与失败原因（长度错误、字面量语法错误、端口越界等）。
// 任何参数解码失败都会导致整次解析失败，不产生部分结果。
type ArgumentError struct {
	// Tag 出错的 tag
	Tag Tag

	// Reason 失败原因描述
	Reason string

	// Err 底层错误（可为 nil）
	Err error
}

// Error 实现 error 接口
func (e *ArgumentError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid argument for /%s: %s: %v", e.Tag, e.Reason, e.Err)
	}
	return fmt.Sprintf("invalid argument for /%s: %s", e.Tag, e.Reason)
}

// Unwrap 返回底层错误
func (e *ArgumentError) Unwrap() error {
	return e.Err
}

// argErr 构造 ArgumentError 的内部快捷方式
func argErr(tag Tag, reason string, err error) error {
	return &ArgumentError{Tag: tag, Reason: reason, Err: err}
}

// ============================================================================
//                              解析（resolve）错误
// ============================================================================

var (
	// ErrNoHostPort 地址中不存在 host/port 传输组合
	//
	// 这是访问器层面的"缺失"，不是解析错误：
	// 只含身份或元数据的栈地址是合法的，只是无法导出 socket 地址。
	ErrNoHostPort = errors.New("no host/port in stack address")
)

// ResolutionError 系统名称解析失败
//
// 原样携带底层 resolver 错误（域名不存在、网络不可达等），
// 本库不对 OS resolver 错误做任何解释或补救。
type ResolutionError struct {
	// Host 解析失败的主机名
	Host string

	// Err 底层 resolver 错误
	Err error
}

// Error 实现 error 接口
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolve %q: %v", e.Host, e.Err)
}

// Unwrap 返回底层错误
func (e *ResolutionError) Unwrap() error {
	return e.Err
}
