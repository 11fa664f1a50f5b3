// Package stackaddr 定义 tag 注册表
//
// 注册表是一张构建期固定的封闭映射：tag → (参数个数, 解码规则)。
// 不存在运行时注册机制；任何未注册的 tag 一律走通用 Path 处理
// （0 参数、不透明 token、永不失败）。
package stackaddr

import (
	"net/netip"
	"strconv"

	"github.com/google/uuid"
)

// Delimiter 段分隔符，唯一的保留字符
const Delimiter = "/"

// Tag 段的文本关键字（不可变的小写标识符）
type Tag string

// 内置 tag
const (
	TagMAC          Tag = "mac"
	TagIP4          Tag = "ip4"
	TagIP6          Tag = "ip6"
	TagDNS          Tag = "dns"
	TagDNS4         Tag = "dns4"
	TagDNS6         Tag = "dns6"
	TagTCP          Tag = "tcp"
	TagUDP          Tag = "udp"
	TagQUIC         Tag = "quic"
	TagTLS          Tag = "tls"
	TagHTTP         Tag = "http"
	TagHTTPS        Tag = "https"
	TagWS           Tag = "ws"
	TagWSS          Tag = "wss"
	TagWebTransport Tag = "webtransport"
	TagWTR          Tag = "wtr" // webtransport 的短别名，输出时规范化为 webtransport
	TagCustom       Tag = "custom"
	TagNode         Tag = "node"
	TagPeer         Tag = "peer"
	TagIdentity     Tag = "identity"
	TagUUID         Tag = "uuid"
	TagMeta         Tag = "meta"
)

// ============================================================================
//                              注册表
// ============================================================================

// tagSpec 一个已注册 tag 的参数个数与解码规则
type tagSpec struct {
	// arity 该 tag 消耗的后续 token 数（0、1 或 2）
	arity int

	// decode 参数 token → 已校验的段；失败则整次解析失败
	decode func(args []string) (Segment, error)
}

// registry 构建期固定的封闭 tag 表
var registry = map[Tag]tagSpec{
	TagMAC: {1, func(args []string) (Segment, error) {
		return MAC(args[0])
	}},
	TagIP4: {1, func(args []string) (Segment, error) {
		addr, err := netip.ParseAddr(args[0])
		if err != nil {
			return nil, argErr(TagIP4, "bad IPv4 literal", err)
		}
		return IP4(addr)
	}},
	TagIP6: {1, func(args []string) (Segment, error) {
		addr, err := netip.ParseAddr(args[0])
		if err != nil {
			return nil, argErr(TagIP6, "bad IPv6 literal", err)
		}
		return IP6(addr)
	}},
	TagDNS: {1, func(args []string) (Segment, error) {
		return DNS(args[0])
	}},
	TagDNS4: {1, func(args []string) (Segment, error) {
		return DNS4(args[0])
	}},
	TagDNS6: {1, func(args []string) (Segment, error) {
		return DNS6(args[0])
	}},
	TagTCP: {1, func(args []string) (Segment, error) {
		port, err := decodePort(TagTCP, args[0])
		if err != nil {
			return nil, err
		}
		return TCP(port), nil
	}},
	TagUDP: {1, func(args []string) (Segment, error) {
		port, err := decodePort(TagUDP, args[0])
		if err != nil {
			return nil, err
		}
		return UDP(port), nil
	}},
	TagQUIC: {0, func([]string) (Segment, error) {
		return QUIC(), nil
	}},
	TagTLS: {0, func([]string) (Segment, error) {
		return TLS(), nil
	}},
	TagHTTP: {0, func([]string) (Segment, error) {
		return HTTP(), nil
	}},
	TagHTTPS: {0, func([]string) (Segment, error) {
		return HTTPS(), nil
	}},
	TagWS: {1, func(args []string) (Segment, error) {
		port, err := decodePort(TagWS, args[0])
		if err != nil {
			return nil, err
		}
		return WS(port), nil
	}},
	TagWSS: {1, func(args []string) (Segment, error) {
		port, err := decodePort(TagWSS, args[0])
		if err != nil {
			return nil, err
		}
		return WSS(port), nil
	}},
	TagWebTransport: {1, func(args []string) (Segment, error) {
		port, err := decodePort(TagWebTransport, args[0])
		if err != nil {
			return nil, err
		}
		return WebTransport(port), nil
	}},
	TagWTR: {1, func(args []string) (Segment, error) {
		port, err := decodePort(TagWTR, args[0])
		if err != nil {
			return nil, err
		}
		return WebTransport(port), nil
	}},
	TagCustom: {1, func(args []string) (Segment, error) {
		return Custom(args[0])
	}},
	TagNode: {1, func(args []string) (Segment, error) {
		id, err := decodeIdentityBytes(TagNode, args[0], identityIDLen)
		if err != nil {
			return nil, err
		}
		return NewNodeID(id)
	}},
	TagPeer: {1, func(args []string) (Segment, error) {
		id, err := decodeIdentityBytes(TagPeer, args[0], identityIDLen)
		if err != nil {
			return nil, err
		}
		return NewPeerID(id)
	}},
	TagIdentity: {2, func(args []string) (Segment, error) {
		id, err := decodeIdentityBytes(TagIdentity, args[1], 0)
		if err != nil {
			return nil, err
		}
		return NewIdentity(args[0], id)
	}},
	TagUUID: {1, func(args []string) (Segment, error) {
		u, err := uuid.Parse(args[0])
		if err != nil {
			return nil, argErr(TagUUID, "bad uuid literal", err)
		}
		return NewUUID(u), nil
	}},
	TagMeta: {2, func(args []string) (Segment, error) {
		return NewMeta(args[0], args[1])
	}},
}

// Registered 报告 tag 是否在注册表中
func Registered(t Tag) bool {
	_, ok := registry[t]
	return ok
}

// TagArity 返回已注册 tag 消耗的参数 token 数
func TagArity(t Tag) (int, bool) {
	spec, ok := registry[t]
	if !ok {
		return 0, false
	}
	return spec.arity, true
}

// decodePort 解码十进制端口参数（0-65535）
func decodePort(tag Tag, s string) (uint16, error) {
	port, err := strconv.ParseUint(s, 10, 16)
	if err != nil {
		return 0, argErr(tag, "port must be decimal 0-65535", err)
	}
	return uint16(port), nil
}
