// Package stackaddr 定义段（Segment）模型
//
// Segment 是栈地址中的一个类型化单元，封闭变体，共四种：
//   - Protocol  协议段（链路层到应用层）
//   - Identity  身份段（节点/对等体标识、UUID、自定义身份）
//   - Metadata  元数据段（键值对）
//   - Path      路径段（不透明 token，未注册 tag 的兜底）
//
// 所有段都是不可变的纯值类型，构造时完成校验，
// 可被任意多个调用方并发读取、复制、共享，无需同步。
package stackaddr

import (
	"encoding/base32"
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
)

// base32NoPad RFC4648 无填充编码，身份字节的规范文本形式
var base32NoPad = base32.StdEncoding.WithPadding(base32.NoPadding)

// ============================================================================
//                              Segment 接口
// ============================================================================

// Segment 栈地址中的一个段
//
// 封闭变体：实现仅限本包内的 Protocol、Identity、Metadata、Path 四种。
// 外部包无法实现本接口（sealed）。
type Segment interface {
	// Tag 返回段的 tag（Path 段的 tag 即其 token 本身）
	Tag() Tag

	// String 返回段的规范文本形式（以 "/" 开头）
	String() string

	// Equal 结构化相等比较
	Equal(other Segment) bool

	// args 返回编码后的参数 token（不含 tag），Formatter 使用
	args() []string
}

// 确保四种段都实现 Segment 接口
var (
	_ Segment = Protocol{}
	_ Segment = Identity{}
	_ Segment = Metadata{}
	_ Segment = Path{}
)

// ============================================================================
//                              Protocol - 协议段
// ============================================================================

// ProtocolKind 协议段类型枚举
type ProtocolKind uint8

// 协议段类型
const (
	// KindMAC 链路层地址（6 字节，冒号十六进制）
	KindMAC ProtocolKind = iota + 1

	// KindIP4 IPv4 字面量
	KindIP4

	// KindIP6 IPv6 字面量
	KindIP6

	// KindDNS 域名（IPv4/IPv6 均可）
	KindDNS

	// KindDNS4 域名（仅解析为 IPv4）
	KindDNS4

	// KindDNS6 域名（仅解析为 IPv6）
	KindDNS6

	// KindTCP TCP 端口
	KindTCP

	// KindUDP UDP 端口
	KindUDP

	// KindQUIC QUIC 会话层
	KindQUIC

	// KindTLS TLS 会话层
	KindTLS

	// KindHTTP HTTP 应用层
	KindHTTP

	// KindHTTPS HTTPS 应用层
	KindHTTPS

	// KindWS WebSocket（带端口）
	KindWS

	// KindWSS WebSocket over TLS（带端口）
	KindWSS

	// KindWebTransport WebTransport（带端口）
	KindWebTransport

	// KindCustom 自定义命名协议
	KindCustom
)

// protocolTags 协议类型到 tag 的映射
var protocolTags = map[ProtocolKind]Tag{
	KindMAC:          TagMAC,
	KindIP4:          TagIP4,
	KindIP6:          TagIP6,
	KindDNS:          TagDNS,
	KindDNS4:         TagDNS4,
	KindDNS6:         TagDNS6,
	KindTCP:          TagTCP,
	KindUDP:          TagUDP,
	KindQUIC:         TagQUIC,
	KindTLS:          TagTLS,
	KindHTTP:         TagHTTP,
	KindHTTPS:        TagHTTPS,
	KindWS:           TagWS,
	KindWSS:          TagWSS,
	KindWebTransport: TagWebTransport,
	KindCustom:       TagCustom,
}

// Protocol 协议段（值对象，可比较）
//
// 仅与当前类型相关的字段有效：
//   - addr: KindIP4/KindIP6
//   - mac:  KindMAC
//   - name: KindDNS/KindDNS4/KindDNS6/KindCustom
//   - port: KindTCP/KindUDP/KindWS/KindWSS/KindWebTransport
type Protocol struct {
	kind ProtocolKind
	addr netip.Addr
	mac  [6]byte
	name string
	port uint16
}

// MAC 从冒号十六进制文本创建链路层地址段
//
// 仅接受 6 字节地址，如 "aa:bb:cc:dd:ee:ff"。
func MAC(s string) (Protocol, error) {
	hw, err := net.ParseMAC(s)
	if err != nil {
		return Protocol{}, argErr(TagMAC, "bad link address literal", err)
	}
	if len(hw) != 6 {
		return Protocol{}, argErr(TagMAC, fmt.Sprintf("link address must be 6 bytes, got %d", len(hw)), nil)
	}
	var mac [6]byte
	copy(mac[:], hw)
	return Protocol{kind: KindMAC, mac: mac}, nil
}

// IP4 从 netip.Addr 创建 IPv4 段
func IP4(addr netip.Addr) (Protocol, error) {
	if !addr.Is4() {
		return Protocol{}, argErr(TagIP4, fmt.Sprintf("not an IPv4 address: %s", addr), nil)
	}
	return Protocol{kind: KindIP4, addr: addr}, nil
}

// IP6 从 netip.Addr 创建 IPv6 段
func IP6(addr netip.Addr) (Protocol, error) {
	if !addr.Is6() || addr.Is4In6() {
		return Protocol{}, argErr(TagIP6, fmt.Sprintf("not an IPv6 address: %s", addr), nil)
	}
	return Protocol{kind: KindIP6, addr: addr}, nil
}

// FromIP 根据 IP 版本创建 ip4 或 ip6 段（4in6 映射回 IPv4）
func FromIP(addr netip.Addr) (Protocol, error) {
	if addr.Is4() || addr.Is4In6() {
		return IP4(addr.Unmap())
	}
	return IP6(addr)
}

// DNS 创建域名段（IPv4/IPv6 均可解析）
func DNS(name string) (Protocol, error) {
	if err := checkToken(TagDNS, name); err != nil {
		return Protocol{}, err
	}
	return Protocol{kind: KindDNS, name: name}, nil
}

// DNS4 创建仅解析为 IPv4 的域名段
func DNS4(name string) (Protocol, error) {
	if err := checkToken(TagDNS4, name); err != nil {
		return Protocol{}, err
	}
	return Protocol{kind: KindDNS4, name: name}, nil
}

// DNS6 创建仅解析为 IPv6 的域名段
func DNS6(name string) (Protocol, error) {
	if err := checkToken(TagDNS6, name); err != nil {
		return Protocol{}, err
	}
	return Protocol{kind: KindDNS6, name: name}, nil
}

// TCP 创建 TCP 端口段
func TCP(port uint16) Protocol {
	return Protocol{kind: KindTCP, port: port}
}

// UDP 创建 UDP 端口段
func UDP(port uint16) Protocol {
	return Protocol{kind: KindUDP, port: port}
}

// QUIC 创建 QUIC 段
func QUIC() Protocol {
	return Protocol{kind: KindQUIC}
}

// TLS 创建 TLS 段
func TLS() Protocol {
	return Protocol{kind: KindTLS}
}

// HTTP 创建 HTTP 段
func HTTP() Protocol {
	return Protocol{kind: KindHTTP}
}

// HTTPS 创建 HTTPS 段
func HTTPS() Protocol {
	return Protocol{kind: KindHTTPS}
}

// WS 创建 WebSocket 段
func WS(port uint16) Protocol {
	return Protocol{kind: KindWS, port: port}
}

// WSS 创建 WebSocket over TLS 段
func WSS(port uint16) Protocol {
	return Protocol{kind: KindWSS, port: port}
}

// WebTransport 创建 WebTransport 段
func WebTransport(port uint16) Protocol {
	return Protocol{kind: KindWebTransport, port: port}
}

// Custom 创建自定义命名协议段
func Custom(name string) (Protocol, error) {
	if err := checkToken(TagCustom, name); err != nil {
		return Protocol{}, err
	}
	return Protocol{kind: KindCustom, name: name}, nil
}

// Kind 返回协议类型
func (p Protocol) Kind() ProtocolKind {
	return p.kind
}

// Addr 返回 IP 字面量（仅 KindIP4/KindIP6 有效）
func (p Protocol) Addr() netip.Addr {
	return p.addr
}

// Name 返回域名或自定义协议名
func (p Protocol) Name() string {
	return p.name
}

// Port 返回端口号（仅带端口的类型有效）
func (p Protocol) Port() uint16 {
	return p.port
}

// HardwareAddr 返回链路层地址（仅 KindMAC 有效）
func (p Protocol) HardwareAddr() net.HardwareAddr {
	if p.kind != KindMAC {
		return nil
	}
	hw := make(net.HardwareAddr, 6)
	copy(hw, p.mac[:])
	return hw
}

// IsAddress 是否是承载主机的协议段（IP 字面量或域名）
func (p Protocol) IsAddress() bool {
	switch p.kind {
	case KindIP4, KindIP6, KindDNS, KindDNS4, KindDNS6:
		return true
	}
	return false
}

// IsTransport 是否是承载端口的传输段（TCP/UDP）
func (p Protocol) IsTransport() bool {
	return p.kind == KindTCP || p.kind == KindUDP
}

// Tag 返回协议段的 tag
func (p Protocol) Tag() Tag {
	return protocolTags[p.kind]
}

// args 返回编码后的参数 token
func (p Protocol) args() []string {
	switch p.kind {
	case KindMAC:
		return []string{p.HardwareAddr().String()}
	case KindIP4, KindIP6:
		return []string{p.addr.String()}
	case KindDNS, KindDNS4, KindDNS6, KindCustom:
		return []string{p.name}
	case KindTCP, KindUDP, KindWS, KindWSS, KindWebTransport:
		return []string{strconv.FormatUint(uint64(p.port), 10)}
	}
	return nil
}

// String 返回协议段的规范文本形式
func (p Protocol) String() string {
	return segmentString(p)
}

// Equal 结构化相等比较
func (p Protocol) Equal(other Segment) bool {
	o, ok := other.(Protocol)
	return ok && p == o
}

// ============================================================================
//                              Identity - 身份段
// ============================================================================

// IdentityKind 身份段类型枚举
type IdentityKind uint8

// 身份段类型
const (
	// KindNode 节点标识（32 字节，如 Ed25519 公钥）
	KindNode IdentityKind = iota + 1

	// KindPeer 对等体标识（32 字节）
	KindPeer

	// KindUUID 通用唯一标识符
	KindUUID

	// KindIdentity 自定义身份（显式 kind + 任意长度字节）
	KindIdentity
)

// identityIDLen node/peer 身份的固定字节长度
const identityIDLen = 32

// Identity 身份段（值对象，可比较）
//
// 身份字节以 string 持有，保证不可变与可比较性。
type Identity struct {
	kind IdentityKind
	id   string
	name string // 自定义身份的 kind 标签
	uid  uuid.UUID
}

// NewNodeID 从 32 字节创建节点身份段
func NewNodeID(id []byte) (Identity, error) {
	if len(id) != identityIDLen {
		return Identity{}, argErr(TagNode, fmt.Sprintf("node id must be %d bytes, got %d", identityIDLen, len(id)), nil)
	}
	return Identity{kind: KindNode, id: string(id)}, nil
}

// NewPeerID 从 32 字节创建对等体身份段
func NewPeerID(id []byte) (Identity, error) {
	if len(id) != identityIDLen {
		return Identity{}, argErr(TagPeer, fmt.Sprintf("peer id must be %d bytes, got %d", identityIDLen, len(id)), nil)
	}
	return Identity{kind: KindPeer, id: string(id)}, nil
}

// NewUUID 从 uuid.UUID 创建 UUID 身份段
func NewUUID(u uuid.UUID) Identity {
	return Identity{kind: KindUUID, uid: u}
}

// NewIdentity 创建自定义身份段（显式 kind + 身份字节）
func NewIdentity(kind string, id []byte) (Identity, error) {
	if err := checkToken(TagIdentity, kind); err != nil {
		return Identity{}, err
	}
	if len(id) == 0 {
		return Identity{}, argErr(TagIdentity, "empty identity bytes", nil)
	}
	return Identity{kind: KindIdentity, name: kind, id: string(id)}, nil
}

// Kind 返回身份类型
func (i Identity) Kind() IdentityKind {
	return i.kind
}

// KindName 返回自定义身份的 kind 标签（仅 KindIdentity 有效）
func (i Identity) KindName() string {
	return i.name
}

// UUID 返回 UUID（仅 KindUUID 有效）
func (i Identity) UUID() uuid.UUID {
	return i.uid
}

// Bytes 返回身份字节
//
// 对 KindUUID 返回规范的 16 字节表示。
func (i Identity) Bytes() []byte {
	if i.kind == KindUUID {
		b := i.uid
		return b[:]
	}
	return []byte(i.id)
}

// Base32 返回身份字节的 base32（RFC4648 无填充）编码
func (i Identity) Base32() string {
	return base32NoPad.EncodeToString(i.Bytes())
}

// Base58 返回身份字节的 base58（BTC 字母表）编码
func (i Identity) Base58() string {
	return base58.Encode(i.Bytes())
}

// Tag 返回身份段的 tag
func (i Identity) Tag() Tag {
	switch i.kind {
	case KindNode:
		return TagNode
	case KindPeer:
		return TagPeer
	case KindUUID:
		return TagUUID
	default:
		return TagIdentity
	}
}

// args 返回编码后的参数 token
func (i Identity) args() []string {
	switch i.kind {
	case KindUUID:
		return []string{i.uid.String()}
	case KindIdentity:
		return []string{i.name, i.Base32()}
	default:
		return []string{i.Base32()}
	}
}

// String 返回身份段的规范文本形式
func (i Identity) String() string {
	return segmentString(i)
}

// Equal 结构化相等比较
func (i Identity) Equal(other Segment) bool {
	o, ok := other.(Identity)
	return ok && i == o
}

// decodeIdentityBytes 解码身份参数 token
//
// 规范编码是 base32（RFC4648 无填充），base58（BTC 字母表）
// 作为备选输入编码被接受，输出时统一规范化为 base32。
// wantLen > 0 时要求解码结果恰好为该字节数，用于消除两种
// 编码在字符集交叠处的歧义。
func decodeIdentityBytes(tag Tag, s string, wantLen int) ([]byte, error) {
	if b, err := base32NoPad.DecodeString(s); err == nil {
		if wantLen == 0 || len(b) == wantLen {
			return b, nil
		}
	}
	if b, err := base58.Decode(s); err == nil {
		if wantLen == 0 || len(b) == wantLen {
			return b, nil
		}
	}
	if wantLen > 0 {
		return nil, argErr(tag, fmt.Sprintf("not a %d-byte base32/base58 identifier", wantLen), nil)
	}
	return nil, argErr(tag, "not base32 or base58", nil)
}

// ============================================================================
//                              Metadata - 元数据段
// ============================================================================

// Metadata 元数据段：任意键值对（值对象，可比较）
type Metadata struct {
	key   string
	value string
}

// NewMeta 创建元数据段
func NewMeta(key, value string) (Metadata, error) {
	if err := checkToken(TagMeta, key); err != nil {
		return Metadata{}, err
	}
	if err := checkToken(TagMeta, value); err != nil {
		return Metadata{}, err
	}
	return Metadata{key: key, value: value}, nil
}

// Key 返回键
func (m Metadata) Key() string {
	return m.key
}

// Value 返回值
func (m Metadata) Value() string {
	return m.value
}

// Tag 返回元数据段的 tag
func (m Metadata) Tag() Tag {
	return TagMeta
}

// args 返回编码后的参数 token
func (m Metadata) args() []string {
	return []string{m.key, m.value}
}

// String 返回元数据段的规范文本形式
func (m Metadata) String() string {
	return segmentString(m)
}

// Equal 结构化相等比较
func (m Metadata) Equal(other Segment) bool {
	o, ok := other.(Metadata)
	return ok && m == o
}

// ============================================================================
//                              Path - 路径段
// ============================================================================

// Path 路径段：一个不透明的 token
//
// 任何未注册的 tag 在解析时降级为 Path 段，而不是硬失败，
// 这让结构上合法的未知 token 仍能往返（round-trip）。
type Path struct {
	component string
}

// NewPath 创建路径段
//
// 组件不能为空、不能包含分隔符、不能与已注册 tag 同名
// （否则 parse(format(x)) == x 的往返保证会被破坏）。
func NewPath(component string) (Path, error) {
	if err := checkToken(Tag(component), component); err != nil {
		return Path{}, err
	}
	if Registered(Tag(component)) {
		return Path{}, argErr(Tag(component), "path component collides with a registered tag", nil)
	}
	return Path{component: component}, nil
}

// Component 返回路径组件
func (p Path) Component() string {
	return p.component
}

// Tag 路径段的 tag 即其组件本身
func (p Path) Tag() Tag {
	return Tag(p.component)
}

// args 路径段没有参数
func (p Path) args() []string {
	return nil
}

// String 返回路径段的规范文本形式
func (p Path) String() string {
	return segmentString(p)
}

// Equal 结构化相等比较
func (p Path) Equal(other Segment) bool {
	o, ok := other.(Path)
	return ok && p == o
}

// ============================================================================
//                              公共校验
// ============================================================================

// checkToken 校验一个文本 token：非空且不含分隔符
func checkToken(tag Tag, s string) error {
	if s == "" {
		return argErr(tag, "empty token", nil)
	}
	if strings.Contains(s, Delimiter) {
		return argErr(tag, fmt.Sprintf("token contains %q", Delimiter), nil)
	}
	return nil
}
