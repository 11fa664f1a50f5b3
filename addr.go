// Package stackaddr 定义 StackAddr 统一地址类型
package stackaddr

import (
	"net/netip"
)

// ============================================================================
//                              StackAddr - 栈地址
// ============================================================================

// StackAddr 栈地址（值对象）
//
// StackAddr 是一个不可变的有序段序列。不变式：
//   - 每个元素都在构造时完成校验（参数语法与语义对其类型正确）
//   - 序列本身不强制分层文法（各段独立良构即可）
//   - 相等性是顺序敏感的结构化序列相等
//
// 构造后可被任意多个调用方并发复制、共享、读取，无需同步；
// 在既有地址上"追加"会产生新实例，不存在原地修改。
//
// 格式示例：
//   - /ip4/192.168.1.1/tcp/8080
//   - /mac/aa:bb:cc:dd:ee:ff/ip4/192.168.1.1/tcp/8080
//   - /ip6/::1/udp/4433/quic
//   - /dns/example.com/tcp/443/tls/http
//   - /node/<base32>/meta/env/production
type StackAddr struct {
	segments []Segment
}

// ============================================================================
//                              构造
// ============================================================================

// New 从已校验的段创建栈地址
//
// 输入切片会被复制，调用方保留的切片不会影响新地址。
func New(segments ...Segment) StackAddr {
	if len(segments) == 0 {
		return StackAddr{}
	}
	segs := make([]Segment, len(segments))
	copy(segs, segments)
	return StackAddr{segments: segs}
}

// Empty 创建空栈地址
func Empty() StackAddr {
	return StackAddr{}
}

// WithIP 从 IP 地址创建栈地址
func WithIP(addr netip.Addr) (StackAddr, error) {
	p, err := FromIP(addr)
	if err != nil {
		return StackAddr{}, err
	}
	return New(p), nil
}

// WithName 从域名创建栈地址（IPv4/IPv6 均可解析）
func WithName(name string) (StackAddr, error) {
	p, err := DNS(name)
	if err != nil {
		return StackAddr{}, err
	}
	return New(p), nil
}

// WithNameV4 从域名创建栈地址（仅解析为 IPv4）
func WithNameV4(name string) (StackAddr, error) {
	p, err := DNS4(name)
	if err != nil {
		return StackAddr{}, err
	}
	return New(p), nil
}

// WithNameV6 从域名创建栈地址（仅解析为 IPv6）
func WithNameV6(name string) (StackAddr, error) {
	p, err := DNS6(name)
	if err != nil {
		return StackAddr{}, err
	}
	return New(p), nil
}

// UnspecifiedIPv4 创建含 0.0.0.0 的栈地址
func UnspecifiedIPv4() StackAddr {
	p, _ := IP4(netip.IPv4Unspecified())
	return New(p)
}

// UnspecifiedIPv6 创建含 :: 的栈地址
func UnspecifiedIPv6() StackAddr {
	p, _ := IP6(netip.IPv6Unspecified())
	return New(p)
}

// With 返回在末尾追加一个段的新栈地址
//
// 原地址保持不变；未变化的前缀在新旧实例间共享语义（复制切片头）。
func (a StackAddr) With(seg Segment) StackAddr {
	segs := make([]Segment, len(a.segments)+1)
	copy(segs, a.segments)
	segs[len(a.segments)] = seg
	return StackAddr{segments: segs}
}

// Append 返回在末尾追加多个段的新栈地址
func (a StackAddr) Append(segments ...Segment) StackAddr {
	if len(segments) == 0 {
		return a
	}
	segs := make([]Segment, 0, len(a.segments)+len(segments))
	segs = append(segs, a.segments...)
	segs = append(segs, segments...)
	return StackAddr{segments: segs}
}

// ============================================================================
//                              访问方法
// ============================================================================

// String 返回规范栈地址字符串（以 "/" 开头；空地址返回 ""）
func (a StackAddr) String() string {
	return Format(a.segments)
}

// Segments 返回段序列的副本
func (a StackAddr) Segments() []Segment {
	if len(a.segments) == 0 {
		return nil
	}
	segs := make([]Segment, len(a.segments))
	copy(segs, a.segments)
	return segs
}

// Len 返回段数
func (a StackAddr) Len() int {
	return len(a.segments)
}

// IsEmpty 是否为空地址
func (a StackAddr) IsEmpty() bool {
	return len(a.segments) == 0
}

// Protocols 返回协议段子序列（顺序保持）
func (a StackAddr) Protocols() []Protocol {
	var out []Protocol
	for _, seg := range a.segments {
		if p, ok := seg.(Protocol); ok {
			out = append(out, p)
		}
	}
	return out
}

// Identities 返回身份段子序列（顺序保持）
func (a StackAddr) Identities() []Identity {
	var out []Identity
	for _, seg := range a.segments {
		if id, ok := seg.(Identity); ok {
			out = append(out, id)
		}
	}
	return out
}

// Metadata 返回元数据段子序列（顺序保持）
func (a StackAddr) Metadata() []Metadata {
	var out []Metadata
	for _, seg := range a.segments {
		if m, ok := seg.(Metadata); ok {
			out = append(out, m)
		}
	}
	return out
}

// Paths 返回路径段子序列（顺序保持）
func (a StackAddr) Paths() []Path {
	var out []Path
	for _, seg := range a.segments {
		if p, ok := seg.(Path); ok {
			out = append(out, p)
		}
	}
	return out
}

// HostPort 提取主机与端口
//
// 扫描序列中第一个承载主机的协议段（IP 字面量或域名），
// 再从该位置向后找第一个承载端口的传输段（TCP/UDP）。
// 两者按此相对顺序都存在时返回 (主机文本, 端口, true)，
// 否则返回 ok=false —— 这不是错误：没有传输层的栈地址是合法的
// （例如纯身份地址或纯元数据地址）。
func (a StackAddr) HostPort() (host string, port uint16, ok bool) {
	hostIdx := -1
	for i, seg := range a.segments {
		p, isProto := seg.(Protocol)
		if !isProto {
			continue
		}
		if hostIdx < 0 {
			if !p.IsAddress() {
				continue
			}
			hostIdx = i
			switch p.kind {
			case KindIP4, KindIP6:
				host = p.addr.String()
			default:
				host = p.name
			}
			continue
		}
		if p.IsTransport() {
			return host, p.port, true
		}
	}
	return "", 0, false
}

// Port 返回端口号（HostPort 的第二元投影）
func (a StackAddr) Port() (uint16, bool) {
	_, port, ok := a.HostPort()
	return port, ok
}

// IP 返回第一个 IP 字面量段的地址
func (a StackAddr) IP() (netip.Addr, bool) {
	for _, p := range a.Protocols() {
		if p.kind == KindIP4 || p.kind == KindIP6 {
			return p.addr, true
		}
	}
	return netip.Addr{}, false
}

// Name 返回第一个域名段的名称
func (a StackAddr) Name() (string, bool) {
	for _, p := range a.Protocols() {
		switch p.kind {
		case KindDNS, KindDNS4, KindDNS6:
			return p.name, true
		}
	}
	return "", false
}

// Identity 返回第一个身份段的身份字节
func (a StackAddr) Identity() ([]byte, bool) {
	for _, id := range a.Identities() {
		return id.Bytes(), true
	}
	return nil, false
}

// Resolved 是否已含 IP 字面量（无需名称解析即可拨号）
func (a StackAddr) Resolved() bool {
	_, ok := a.IP()
	return ok
}

// ============================================================================
//                              查询与变换
// ============================================================================

// Equal 结构化序列相等比较（顺序敏感）
func (a StackAddr) Equal(other StackAddr) bool {
	if len(a.segments) != len(other.segments) {
		return false
	}
	for i, seg := range a.segments {
		if !seg.Equal(other.segments[i]) {
			return false
		}
	}
	return true
}

// Contains 是否包含与给定段完全相等的段
func (a StackAddr) Contains(seg Segment) bool {
	for _, s := range a.segments {
		if s.Equal(seg) {
			return true
		}
	}
	return false
}

// Supports 是否包含与给定段同类的段（忽略参数值）
//
// 协议段比较协议类型，身份段比较身份类型，
// 元数据段与路径段仅比较段种类。
func (a StackAddr) Supports(seg Segment) bool {
	for _, s := range a.segments {
		if sameKind(s, seg) {
			return true
		}
	}
	return false
}

// sameKind 两个段是否同类（忽略参数值）
func sameKind(x, y Segment) bool {
	switch xv := x.(type) {
	case Protocol:
		yv, ok := y.(Protocol)
		return ok && xv.kind == yv.kind
	case Identity:
		yv, ok := y.(Identity)
		return ok && xv.kind == yv.kind
	case Metadata:
		_, ok := y.(Metadata)
		return ok
	case Path:
		_, ok := y.(Path)
		return ok
	}
	return false
}

// Replace 返回将首个与 old 相等的段替换为 new 的新栈地址
//
// 第二个返回值报告是否发生了替换；未命中时返回原地址。
func (a StackAddr) Replace(old, new Segment) (StackAddr, bool) {
	for i, s := range a.segments {
		if s.Equal(old) {
			segs := make([]Segment, len(a.segments))
			copy(segs, a.segments)
			segs[i] = new
			return StackAddr{segments: segs}, true
		}
	}
	return a, false
}

// Without 返回移除所有与 target 相等的段的新栈地址
func (a StackAddr) Without(target Segment) StackAddr {
	out := make([]Segment, 0, len(a.segments))
	for _, s := range a.segments {
		if !s.Equal(target) {
			out = append(out, s)
		}
	}
	if len(out) == len(a.segments) {
		return a
	}
	if len(out) == 0 {
		return StackAddr{}
	}
	return StackAddr{segments: out}
}
