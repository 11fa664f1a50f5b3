// Package stackaddr 实现栈地址的结构化序列化
//
// 文本与二进制两种编码都一一映射到同一规范段序列，不是独立格式：
//   - 文本编码即规范字符串（encoding.TextMarshaler/TextUnmarshaler，
//     encoding/json 等框架据此直接透传）
//   - 二进制编码为每段输出 varint 段码加定长或长度前缀的载荷
package stackaddr

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net/netip"

	"github.com/google/uuid"
	"github.com/multiformats/go-varint"
)

// ============================================================================
//                              段码
// ============================================================================

// 二进制段码（构建期固定，与 tag 注册表一一对应）
const (
	codeMAC      uint64 = 0x01
	codeIP4      uint64 = 0x02
	codeIP6      uint64 = 0x03
	codeDNS      uint64 = 0x04
	codeDNS4     uint64 = 0x05
	codeDNS6     uint64 = 0x06
	codeTCP      uint64 = 0x07
	codeUDP      uint64 = 0x08
	codeQUIC     uint64 = 0x09
	codeTLS      uint64 = 0x0a
	codeHTTP     uint64 = 0x0b
	codeHTTPS    uint64 = 0x0c
	codeWS       uint64 = 0x0d
	codeWSS      uint64 = 0x0e
	codeWTR      uint64 = 0x0f
	codeCustom   uint64 = 0x10
	codeNode     uint64 = 0x11
	codePeer     uint64 = 0x12
	codeIdentity uint64 = 0x13
	codeUUID     uint64 = 0x14
	codeMeta     uint64 = 0x15
	codePath     uint64 = 0x16
)

// protocolCodes 协议类型到段码的映射
var protocolCodes = map[ProtocolKind]uint64{
	KindMAC:          codeMAC,
	KindIP4:          codeIP4,
	KindIP6:          codeIP6,
	KindDNS:          codeDNS,
	KindDNS4:         codeDNS4,
	KindDNS6:         codeDNS6,
	KindTCP:          codeTCP,
	KindUDP:          codeUDP,
	KindQUIC:         codeQUIC,
	KindTLS:          codeTLS,
	KindHTTP:         codeHTTP,
	KindHTTPS:        codeHTTPS,
	KindWS:           codeWS,
	KindWSS:          codeWSS,
	KindWebTransport: codeWTR,
	KindCustom:       codeCustom,
}

// ErrTruncatedBinary 二进制载荷被截断
var ErrTruncatedBinary = errors.New("truncated binary stack address")

// ============================================================================
//                              文本编码
// ============================================================================

// MarshalText 实现 encoding.TextMarshaler（输出规范字符串）
func (a StackAddr) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (a *StackAddr) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// ============================================================================
//                              二进制编码
// ============================================================================

// MarshalBinary 实现 encoding.BinaryMarshaler
//
// 每段输出 varint 段码 + 载荷：
//   - IP/MAC/端口/UUID/node/peer 为定长原始字节
//   - 域名、自定义名、路径、元数据为 varint 长度前缀的 UTF-8
//
// 注意：IPv6 zone 不进入二进制形式。
func (a StackAddr) MarshalBinary() ([]byte, error) {
	var buf []byte
	for _, seg := range a.segments {
		switch s := seg.(type) {
		case Protocol:
			buf = append(buf, varint.ToUvarint(protocolCodes[s.kind])...)
			switch s.kind {
			case KindMAC:
				buf = append(buf, s.mac[:]...)
			case KindIP4:
				b := s.addr.As4()
				buf = append(buf, b[:]...)
			case KindIP6:
				b := s.addr.As16()
				buf = append(buf, b[:]...)
			case KindDNS, KindDNS4, KindDNS6, KindCustom:
				buf = appendBytes(buf, []byte(s.name))
			case KindTCP, KindUDP, KindWS, KindWSS, KindWebTransport:
				buf = binary.BigEndian.AppendUint16(buf, s.port)
			}
		case Identity:
			switch s.kind {
			case KindNode:
				buf = append(buf, varint.ToUvarint(codeNode)...)
				buf = append(buf, s.id...)
			case KindPeer:
				buf = append(buf, varint.ToUvarint(codePeer)...)
				buf = append(buf, s.id...)
			case KindUUID:
				buf = append(buf, varint.ToUvarint(codeUUID)...)
				buf = append(buf, s.uid[:]...)
			case KindIdentity:
				buf = append(buf, varint.ToUvarint(codeIdentity)...)
				buf = appendBytes(buf, []byte(s.name))
				buf = appendBytes(buf, []byte(s.id))
			}
		case Metadata:
			buf = append(buf, varint.ToUvarint(codeMeta)...)
			buf = appendBytes(buf, []byte(s.key))
			buf = appendBytes(buf, []byte(s.value))
		case Path:
			buf = append(buf, varint.ToUvarint(codePath)...)
			buf = appendBytes(buf, []byte(s.component))
		}
	}
	return buf, nil
}

// UnmarshalBinary 实现 encoding.BinaryUnmarshaler
//
// 所有段都经由与文本解析相同的构造校验，
// 二进制输入同样不会产生含非法段的 StackAddr。
func (a *StackAddr) UnmarshalBinary(data []byte) error {
	var segments []Segment
	for len(data) > 0 {
		code, n, err := varint.FromUvarint(data)
		if err != nil {
			return fmt.Errorf("bad segment code: %w", err)
		}
		data = data[n:]

		seg, rest, err := decodeBinarySegment(code, data)
		if err != nil {
			return err
		}
		data = rest
		segments = append(segments, seg)
	}
	*a = StackAddr{segments: segments}
	return nil
}

// decodeBinarySegment 解码一个二进制段，返回剩余字节
func decodeBinarySegment(code uint64, data []byte) (Segment, []byte, error) {
	switch code {
	case codeMAC:
		b, rest, err := takeBytes(data, 6)
		if err != nil {
			return nil, nil, err
		}
		hw := net6ToMAC(b)
		return hw, rest, nil

	case codeIP4:
		b, rest, err := takeBytes(data, 4)
		if err != nil {
			return nil, nil, err
		}
		seg, err := IP4(netip.AddrFrom4([4]byte(b)))
		return seg, rest, err

	case codeIP6:
		b, rest, err := takeBytes(data, 16)
		if err != nil {
			return nil, nil, err
		}
		seg, err := IP6(netip.AddrFrom16([16]byte(b)))
		return seg, rest, err

	case codeDNS, codeDNS4, codeDNS6, codeCustom:
		name, rest, err := readBytes(data)
		if err != nil {
			return nil, nil, err
		}
		var seg Segment
		switch code {
		case codeDNS:
			seg, err = DNS(string(name))
		case codeDNS4:
			seg, err = DNS4(string(name))
		case codeDNS6:
			seg, err = DNS6(string(name))
		default:
			seg, err = Custom(string(name))
		}
		return seg, rest, err

	case codeTCP, codeUDP, codeWS, codeWSS, codeWTR:
		b, rest, err := takeBytes(data, 2)
		if err != nil {
			return nil, nil, err
		}
		port := binary.BigEndian.Uint16(b)
		switch code {
		case codeTCP:
			return TCP(port), rest, nil
		case codeUDP:
			return UDP(port), rest, nil
		case codeWS:
			return WS(port), rest, nil
		case codeWSS:
			return WSS(port), rest, nil
		default:
			return WebTransport(port), rest, nil
		}

	case codeQUIC:
		return QUIC(), data, nil
	case codeTLS:
		return TLS(), data, nil
	case codeHTTP:
		return HTTP(), data, nil
	case codeHTTPS:
		return HTTPS(), data, nil

	case codeNode, codePeer:
		b, rest, err := takeBytes(data, identityIDLen)
		if err != nil {
			return nil, nil, err
		}
		var seg Segment
		if code == codeNode {
			seg, err = NewNodeID(b)
		} else {
			seg, err = NewPeerID(b)
		}
		return seg, rest, err

	case codeIdentity:
		kind, rest, err := readBytes(data)
		if err != nil {
			return nil, nil, err
		}
		id, rest, err := readBytes(rest)
		if err != nil {
			return nil, nil, err
		}
		seg, err := NewIdentity(string(kind), id)
		return seg, rest, err

	case codeUUID:
		b, rest, err := takeBytes(data, 16)
		if err != nil {
			return nil, nil, err
		}
		u, err := uuid.FromBytes(b)
		if err != nil {
			return nil, nil, err
		}
		return NewUUID(u), rest, nil

	case codeMeta:
		key, rest, err := readBytes(data)
		if err != nil {
			return nil, nil, err
		}
		value, rest, err := readBytes(rest)
		if err != nil {
			return nil, nil, err
		}
		seg, err := NewMeta(string(key), string(value))
		return seg, rest, err

	case codePath:
		c, rest, err := readBytes(data)
		if err != nil {
			return nil, nil, err
		}
		seg, err := NewPath(string(c))
		return seg, rest, err
	}

	return nil, nil, fmt.Errorf("unknown segment code 0x%x", code)
}

// net6ToMAC 从 6 字节构造链路层地址段
func net6ToMAC(b []byte) Protocol {
	var mac [6]byte
	copy(mac[:], b)
	return Protocol{kind: KindMAC, mac: mac}
}

// appendBytes 追加 varint 长度前缀的字节串
func appendBytes(buf, b []byte) []byte {
	buf = append(buf, varint.ToUvarint(uint64(len(b)))...)
	return append(buf, b...)
}

// takeBytes 取固定长度的字节
func takeBytes(data []byte, n int) ([]byte, []byte, error) {
	if len(data) < n {
		return nil, nil, ErrTruncatedBinary
	}
	return data[:n], data[n:], nil
}

// readBytes 读取 varint 长度前缀的字节串
func readBytes(data []byte) ([]byte, []byte, error) {
	n, sz, err := varint.FromUvarint(data)
	if err != nil {
		return nil, nil, fmt.Errorf("bad length prefix: %w", err)
	}
	data = data[sz:]
	if uint64(len(data)) < n {
		return nil, nil, ErrTruncatedBinary
	}
	return data[:n], data[n:], nil
}
