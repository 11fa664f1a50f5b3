package stackaddr

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		// 有效地址
		{"ipv4 tcp", "/ip4/192.168.1.1/tcp/8080", false},
		{"ipv6 tcp", "/ip6/::1/tcp/8443", false},
		{"mac ipv4 tcp", "/mac/aa:bb:cc:dd:ee:ff/ip4/192.168.1.1/tcp/8080", false},
		{"dns tls http", "/dns/example.com/tcp/443/tls/http", false},
		{"udp quic", "/ip4/127.0.0.1/udp/4433/quic", false},
		{"dns4", "/dns4/example.com/tcp/80", false},
		{"dns6", "/dns6/example.com/tcp/80", false},
		{"ws", "/ip4/1.2.3.4/ws/8080", false},
		{"wss", "/dns/example.com/wss/443", false},
		{"webtransport", "/ip4/1.2.3.4/webtransport/443", false},
		{"wtr alias", "/ip4/1.2.3.4/wtr/443", false},
		{"https standalone", "/dns/example.com/tcp/443/https", false},
		{"custom protocol", "/custom/my-proto", false},
		{"metadata", "/meta/env/production", false},
		{"uuid", "/uuid/550e8400-e29b-41d4-a716-446655440000", false},
		{"bare path", "/some-opaque-token", false},
		{"path then known tag", "/opaque/tcp/80", false},
		{"port zero", "/ip4/0.0.0.0/tcp/0", false},
		{"port max", "/ip4/1.2.3.4/tcp/65535", false},

		// 结构性错误
		{"empty", "", true},
		{"no leading slash", "ip4/1.2.3.4/tcp/80", true},
		{"host:port format", "1.2.3.4:8080", true},
		{"only slash", "/", true},
		{"trailing slash", "/ip4/1.2.3.4/", true},
		{"double slash", "/ip4//tcp/80", true},
		{"tag missing argument", "/tcp", true},
		{"meta missing second argument", "/meta/env", true},
		{"identity missing argument", "/identity/kind", true},

		// 参数解码错误
		{"port out of range", "/ip4/1.2.3.4/tcp/70000", true},
		{"port not a number", "/ip4/1.2.3.4/tcp/http", true},
		{"port negative", "/ip4/1.2.3.4/tcp/-1", true},
		{"bad ipv4 literal", "/ip4/999.1.1.1/tcp/80", true},
		{"ipv6 literal under ip4 tag", "/ip4/::1/tcp/80", true},
		{"ipv4 literal under ip6 tag", "/ip6/1.2.3.4/tcp/80", true},
		{"odd mac hex", "/mac/aa:bb:cc:dd:ee:f/ip4/1.2.3.4", true},
		{"eight byte mac", "/mac/aa:bb:cc:dd:ee:ff:00:11/ip4/1.2.3.4", true},
		{"bad uuid", "/uuid/not-a-uuid", true},
		{"bad node encoding", "/node/@@@", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			addr, err := Parse(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				assert.True(t, addr.IsEmpty(), "failed parse must not produce partial address")
			} else {
				require.NoError(t, err)
				assert.False(t, addr.IsEmpty())
			}
		})
	}
}

func TestParseErrorKinds(t *testing.T) {
	_, err := Parse("")
	assert.ErrorIs(t, err, ErrEmptyAddress)

	_, err = Parse("ip4/1.2.3.4")
	assert.ErrorIs(t, err, ErrNotStackAddrFormat)

	_, err = Parse("/ip4/1.2.3.4/")
	assert.ErrorIs(t, err, ErrTrailingSegment)

	_, err = Parse("/tcp")
	assert.ErrorIs(t, err, ErrMissingArgument)

	_, err = Parse("/meta/env")
	assert.ErrorIs(t, err, ErrMissingArgument)

	// 参数错误携带 tag 与原因
	_, err = Parse("/tcp/70000")
	var argErr *ArgumentError
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, TagTCP, argErr.Tag)

	_, err = Parse("/mac/aa:bb:cc:dd:ee:f/ip4/1.2.3.4")
	argErr = nil
	require.ErrorAs(t, err, &argErr)
	assert.Equal(t, TagMAC, argErr.Tag)
}

func TestParseUnknownTagBecomesPath(t *testing.T) {
	addr, err := Parse("/opaque-token")
	require.NoError(t, err)
	require.Equal(t, 1, addr.Len())

	p, ok := addr.Segments()[0].(Path)
	require.True(t, ok)
	assert.Equal(t, "opaque-token", p.Component())

	// 未注册 tag 不消耗后续 token
	addr, err = Parse("/opaque/tcp/80")
	require.NoError(t, err)
	require.Equal(t, 2, addr.Len())
	assert.IsType(t, Path{}, addr.Segments()[0])
	assert.IsType(t, Protocol{}, addr.Segments()[1])
	_, hasPort := addr.Port()
	assert.False(t, hasPort) // 没有主机段，HostPort 不成立
}

func TestParseMetadata(t *testing.T) {
	addr, err := Parse("/meta/env/production")
	require.NoError(t, err)
	require.Equal(t, 1, addr.Len())

	m, ok := addr.Segments()[0].(Metadata)
	require.True(t, ok)
	assert.Equal(t, "env", m.Key())
	assert.Equal(t, "production", m.Value())

	_, _, ok = addr.HostPort()
	assert.False(t, ok)
}

func TestParseTypedSegments(t *testing.T) {
	addr := MustParse("/mac/aa:bb:cc:dd:ee:ff/ip4/192.168.1.1/tcp/8080")
	segs := addr.Segments()
	require.Len(t, segs, 3)

	mac := segs[0].(Protocol)
	assert.Equal(t, KindMAC, mac.Kind())
	assert.Equal(t, "aa:bb:cc:dd:ee:ff", mac.HardwareAddr().String())

	ip := segs[1].(Protocol)
	assert.Equal(t, KindIP4, ip.Kind())
	assert.Equal(t, "192.168.1.1", ip.Addr().String())

	tcp := segs[2].(Protocol)
	assert.Equal(t, KindTCP, tcp.Kind())
	assert.Equal(t, uint16(8080), tcp.Port())
}

func TestMustParse(t *testing.T) {
	assert.NotPanics(t, func() {
		addr := MustParse("/ip4/1.2.3.4/tcp/80")
		assert.Equal(t, "/ip4/1.2.3.4/tcp/80", addr.String())
	})

	assert.Panics(t, func() {
		MustParse("invalid")
	})
}

func TestParseDecodeFailureNoPartialResult(t *testing.T) {
	// 前两段合法、第三段非法：整次解析失败
	addr, err := Parse("/ip4/1.2.3.4/tcp/80/udp/70000")
	require.Error(t, err)
	assert.True(t, errors.As(err, new(*ArgumentError)))
	assert.Equal(t, 0, addr.Len())
}
