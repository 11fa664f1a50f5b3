// Package stackaddr 实现从栈地址到 socket 地址的推导
package stackaddr

import (
	"context"
	"net"
	"net/netip"

	"github.com/dep2p/go-stackaddr/pkg/lib/log"
)

var logger = log.Logger("stackaddr/resolve")

// ============================================================================
//                              Resolver 接口
// ============================================================================

// Resolver 从栈地址推导 socket 级地址
//
// 核心中唯一会阻塞的操作被隔离在这个窄接口后面：
// 嵌入方可以替换为非阻塞/带超时的实现，而不触碰解析与格式化核心。
// 每次调用相互独立、无状态；本库不做缓存、重试或超时，
// 需要时限的调用方应自行包裹 context 或并发机制。
type Resolver interface {
	// Resolve 推导栈地址的全部 socket 地址
	Resolve(ctx context.Context, addr StackAddr) ([]netip.AddrPort, error)
}

// ============================================================================
//                              SystemResolver 实现
// ============================================================================

// ResolverConfig 系统解析器配置
type ResolverConfig struct {
	// Resolver 底层名称解析器；nil 表示 net.DefaultResolver
	Resolver *net.Resolver
}

// DefaultResolverConfig 默认配置
func DefaultResolverConfig() ResolverConfig {
	return ResolverConfig{}
}

// SystemResolver 基于操作系统名称解析的 Resolver 实现
//
// 主机段是 IP 字面量时直接合成 socket 地址（不发起系统调用）；
// 主机段是域名时发起一次阻塞的系统名称解析，返回全部解析结果。
type SystemResolver struct {
	resolver *net.Resolver
}

// 确保 SystemResolver 实现 Resolver 接口
var _ Resolver = (*SystemResolver)(nil)

// NewSystemResolver 创建系统解析器
func NewSystemResolver(cfg ResolverConfig) *SystemResolver {
	r := cfg.Resolver
	if r == nil {
		r = net.DefaultResolver
	}
	return &SystemResolver{resolver: r}
}

// Resolve 推导栈地址的全部 socket 地址
//
// 失败情形：
//   - 地址中无 host/port 组合 → ErrNoHostPort
//   - 系统名称解析失败 → *ResolutionError（原样携带底层错误）
func (r *SystemResolver) Resolve(ctx context.Context, addr StackAddr) ([]netip.AddrPort, error) {
	host, port, ok := addr.HostPort()
	if !ok {
		return nil, ErrNoHostPort
	}

	// IP 字面量：直接合成，恒为单个结果
	if ip, err := netip.ParseAddr(host); err == nil {
		return []netip.AddrPort{netip.AddrPortFrom(ip, port)}, nil
	}

	// 域名：一次阻塞的系统名称解析
	network := lookupNetwork(addr)
	logger.Debug("resolving host", "host", host, "network", network)
	ips, err := r.resolver.LookupNetIP(ctx, network, host)
	if err != nil {
		return nil, &ResolutionError{Host: host, Err: err}
	}

	out := make([]netip.AddrPort, 0, len(ips))
	for _, ip := range ips {
		out = append(out, netip.AddrPortFrom(ip.Unmap(), port))
	}
	return out, nil
}

// lookupNetwork 根据域名段类型选择解析网络族
func lookupNetwork(addr StackAddr) string {
	for _, p := range addr.Protocols() {
		switch p.kind {
		case KindDNS4:
			return "ip4"
		case KindDNS6:
			return "ip6"
		case KindDNS:
			return "ip"
		}
	}
	return "ip"
}

// defaultResolver 包级默认解析器，供便捷方法使用
var defaultResolver = NewSystemResolver(DefaultResolverConfig())

// ============================================================================
//                              StackAddr 便捷方法
// ============================================================================

// SocketAddrs 用默认系统解析器推导全部 socket 地址
//
// 要求 HostPort 能提取出主机与端口，否则返回 ErrNoHostPort。
// 主机为域名时本调用会阻塞至 OS 级查询完成。
func (a StackAddr) SocketAddrs(ctx context.Context) ([]netip.AddrPort, error) {
	return defaultResolver.Resolve(ctx, a)
}

// NetAddrs 以 net.Addr 形式返回推导结果
//
// 按传输段类型适配：TCP → *net.TCPAddr，UDP → *net.UDPAddr。
// 与 SocketAddrs 相比不做任何额外解析，仅做类型适配，
// 便于对接"接受可解析地址"的通用调用点。
func (a StackAddr) NetAddrs(ctx context.Context) ([]net.Addr, error) {
	addrs, err := a.SocketAddrs(ctx)
	if err != nil {
		return nil, err
	}

	udp := false
	for _, p := range a.Protocols() {
		if p.IsTransport() {
			udp = p.kind == KindUDP
			break
		}
	}

	out := make([]net.Addr, 0, len(addrs))
	for _, ap := range addrs {
		if udp {
			out = append(out, net.UDPAddrFromAddrPort(ap))
		} else {
			out = append(out, net.TCPAddrFromAddrPort(ap))
		}
	}
	return out, nil
}
