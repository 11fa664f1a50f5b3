package stackaddr

import (
	"bytes"
	"testing"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIDBytes(fill byte) []byte {
	id := make([]byte, 32)
	for i := range id {
		id[i] = fill + byte(i)
	}
	return id
}

func TestProtocolConstructors(t *testing.T) {
	mac, err := MAC("aa:bb:cc:dd:ee:ff")
	require.NoError(t, err)
	assert.Equal(t, "/mac/aa:bb:cc:dd:ee:ff", mac.String())

	_, err = MAC("aa:bb:cc:dd:ee")
	assert.Error(t, err)

	_, err = IP4(mustAddr(t, "::1"))
	assert.Error(t, err)

	_, err = IP6(mustAddr(t, "1.2.3.4"))
	assert.Error(t, err)

	ip, err := FromIP(mustAddr(t, "::ffff:1.2.3.4"))
	require.NoError(t, err)
	assert.Equal(t, KindIP4, ip.Kind()) // 4in6 映射回 IPv4

	_, err = DNS("")
	assert.Error(t, err)

	_, err = DNS("bad/name")
	assert.Error(t, err)

	_, err = Custom("")
	assert.Error(t, err)

	assert.Equal(t, "/tcp/8080", TCP(8080).String())
	assert.Equal(t, "/udp/53", UDP(53).String())
	assert.Equal(t, "/quic", QUIC().String())
	assert.Equal(t, "/tls", TLS().String())
	assert.Equal(t, "/http", HTTP().String())
	assert.Equal(t, "/https", HTTPS().String())
	assert.Equal(t, "/ws/8080", WS(8080).String())
	assert.Equal(t, "/wss/443", WSS(443).String())
	assert.Equal(t, "/webtransport/443", WebTransport(443).String())
}

func TestProtocolPredicates(t *testing.T) {
	ip, err := IP4(mustAddr(t, "1.2.3.4"))
	require.NoError(t, err)
	dns, err := DNS("example.com")
	require.NoError(t, err)

	assert.True(t, ip.IsAddress())
	assert.True(t, dns.IsAddress())
	assert.False(t, TCP(80).IsAddress())

	assert.True(t, TCP(80).IsTransport())
	assert.True(t, UDP(80).IsTransport())
	assert.False(t, QUIC().IsTransport())
	assert.False(t, ip.IsTransport())
}

func TestIdentitySegments(t *testing.T) {
	id := testIDBytes(0)

	node, err := NewNodeID(id)
	require.NoError(t, err)
	assert.Equal(t, KindNode, node.Kind())
	assert.Equal(t, id, node.Bytes())
	assert.Equal(t, "/node/"+node.Base32(), node.String())

	peer, err := NewPeerID(id)
	require.NoError(t, err)
	assert.Equal(t, KindPeer, peer.Kind())
	assert.False(t, node.Equal(peer)) // 同字节不同类型不相等

	// 长度约束
	_, err = NewNodeID(id[:31])
	assert.Error(t, err)
	_, err = NewPeerID(append(id, 0xff))
	assert.Error(t, err)

	custom, err := NewIdentity("some-p2p", id[:8])
	require.NoError(t, err)
	assert.Equal(t, "some-p2p", custom.KindName())
	assert.Equal(t, "/identity/some-p2p/"+custom.Base32(), custom.String())

	_, err = NewIdentity("kind", nil)
	assert.Error(t, err)
	_, err = NewIdentity("", id)
	assert.Error(t, err)

	u := uuid.MustParse("550e8400-e29b-41d4-a716-446655440000")
	uid := NewUUID(u)
	assert.Equal(t, "/uuid/550e8400-e29b-41d4-a716-446655440000", uid.String())
	assert.True(t, bytes.Equal(u[:], uid.Bytes()))
}

func TestIdentityParseRoundTrip(t *testing.T) {
	id := testIDBytes(7)
	node, err := NewNodeID(id)
	require.NoError(t, err)

	addr := New(node)
	parsed, err := Parse(addr.String())
	require.NoError(t, err)
	assert.True(t, addr.Equal(parsed))

	got := parsed.Identities()[0]
	assert.Equal(t, id, got.Bytes())
}

func TestIdentityBase58Input(t *testing.T) {
	// base58 作为备选输入编码被接受，输出规范化为 base32
	id := testIDBytes(31)
	encoded := base58.Encode(id)

	addr, err := Parse("/peer/" + encoded)
	require.NoError(t, err)

	peer := addr.Identities()[0]
	assert.Equal(t, id, peer.Bytes())
	assert.Equal(t, encoded, peer.Base58())
	assert.Equal(t, "/peer/"+peer.Base32(), addr.String())
}

func TestMetadataSegment(t *testing.T) {
	m, err := NewMeta("env", "production")
	require.NoError(t, err)
	assert.Equal(t, "/meta/env/production", m.String())
	assert.Equal(t, TagMeta, m.Tag())

	_, err = NewMeta("", "v")
	assert.Error(t, err)
	_, err = NewMeta("k", "a/b")
	assert.Error(t, err)
}

func TestPathSegment(t *testing.T) {
	p, err := NewPath("blocks")
	require.NoError(t, err)
	assert.Equal(t, "/blocks", p.String())
	assert.Equal(t, Tag("blocks"), p.Tag())

	// 与注册 tag 冲突的组件会破坏往返保证，构造时拒绝
	_, err = NewPath("tcp")
	assert.Error(t, err)
	_, err = NewPath("meta")
	assert.Error(t, err)

	_, err = NewPath("")
	assert.Error(t, err)
	_, err = NewPath("a/b")
	assert.Error(t, err)
}

func TestSegmentEqual(t *testing.T) {
	ip1, err := IP4(mustAddr(t, "1.2.3.4"))
	require.NoError(t, err)
	ip2, err := IP4(mustAddr(t, "1.2.3.4"))
	require.NoError(t, err)
	ip3, err := IP4(mustAddr(t, "4.3.2.1"))
	require.NoError(t, err)

	assert.True(t, ip1.Equal(ip2))
	assert.False(t, ip1.Equal(ip3))
	assert.False(t, ip1.Equal(TCP(80)))

	m1, _ := NewMeta("k", "v")
	m2, _ := NewMeta("k", "v2")
	assert.False(t, m1.Equal(m2))
	assert.False(t, m1.Equal(ip1))

	p1, _ := NewPath("x")
	p2, _ := NewPath("x")
	assert.True(t, p1.Equal(p2))
}
