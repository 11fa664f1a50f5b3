// Package stackaddr 实现栈地址文本的解析器
package stackaddr

import (
	"fmt"
	"strings"
)

// ============================================================================
//                              解析
// ============================================================================

// Parse 解析栈地址文本
//
// 单次从左到右扫描，按分隔符切分 token：
//   - token 命中已注册 tag 时，按其参数个数消耗后续 token 并解码；
//   - token 未命中任何 tag 时，作为不透明的 Path 段（不消耗后续 token）。
//
// 任何结构性错误（空输入、缺少前导分隔符、尾随分隔符、空 token、
// 末尾缺参数）或参数解码失败都会使整次解析失败，不产生部分结果。
//
// 示例：
//   - "/ip4/192.168.1.1/tcp/8080" → 成功
//   - "/mac/aa:bb:cc:dd:ee:ff/ip4/192.168.1.1/tcp/8080" → 成功
//   - "/meta/env/production" → 成功（单个元数据段）
//   - "ip4/1.2.3.4" → 错误（ErrNotStackAddrFormat）
//   - "/tcp" → 错误（ErrMissingArgument）
//   - "/tcp/70000" → 错误（ArgumentError）
func Parse(s string) (StackAddr, error) {
	if s == "" {
		return StackAddr{}, ErrEmptyAddress
	}
	if !strings.HasPrefix(s, Delimiter) {
		return StackAddr{}, fmt.Errorf("%w: got %q", ErrNotStackAddrFormat, s)
	}

	tokens := strings.Split(s[1:], Delimiter)
	segments := make([]Segment, 0, len(tokens))

	for i := 0; i < len(tokens); {
		tag := Tag(tokens[i])
		if tag == "" {
			// 尾随分隔符或连续分隔符产生空 token
			return StackAddr{}, ErrTrailingSegment
		}

		spec, ok := registry[tag]
		if !ok {
			// 未注册 tag：降级为 Path 段，不消耗后续 token
			p, err := NewPath(string(tag))
			if err != nil {
				return StackAddr{}, err
			}
			segments = append(segments, p)
			i++
			continue
		}

		if i+spec.arity > len(tokens)-1 {
			return StackAddr{}, fmt.Errorf("%w: /%s expects %d argument(s)", ErrMissingArgument, tag, spec.arity)
		}
		args := tokens[i+1 : i+1+spec.arity]
		for _, a := range args {
			if a == "" {
				return StackAddr{}, ErrTrailingSegment
			}
		}

		seg, err := spec.decode(args)
		if err != nil {
			return StackAddr{}, err
		}
		segments = append(segments, seg)
		i += 1 + spec.arity
	}

	return StackAddr{segments: segments}, nil
}

// MustParse 解析栈地址文本，失败时 panic
//
// 仅用于常量初始化或测试代码，生产代码应使用 Parse。
func MustParse(s string) StackAddr {
	a, err := Parse(s)
	if err != nil {
		panic(fmt.Sprintf("MustParse(%q): %v", s, err))
	}
	return a
}
