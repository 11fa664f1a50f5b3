// Package stackaddr 实现栈地址的规范文本编码
package stackaddr

import "strings"

// ============================================================================
//                              格式化
// ============================================================================

// Format 将有序段序列编码为规范文本
//
// 逐段输出分隔符、tag、以及（参数个数 ≥ 1 时）分隔符分隔的编码参数，
// 不含任何空白。编码规则做表示规范化：
//   - 十六进制字节序列（链路层地址、身份）输出小写/规范编码
//   - IP 字面量输出标准最小形式（IPv6 压缩零段）
//   - 端口输出最小十进制数字序列
//
// 往返保证：对任何经校验构造的 StackAddr x，Parse(Format(x)) == x。
// 反向 Format(Parse(s)) == s 仅在规范化意义下成立
// （大小写折叠、去前导零、IPv6 压缩），这是有意的规范化而非缺陷。
func Format(segments []Segment) string {
	var b strings.Builder
	for _, seg := range segments {
		appendSegment(&b, seg)
	}
	return b.String()
}

// appendSegment 追加一个段的文本形式
func appendSegment(b *strings.Builder, seg Segment) {
	b.WriteString(Delimiter)
	b.WriteString(string(seg.Tag()))
	for _, arg := range seg.args() {
		b.WriteString(Delimiter)
		b.WriteString(arg)
	}
}

// segmentString 单个段的规范文本形式
func segmentString(seg Segment) string {
	var b strings.Builder
	appendSegment(&b, seg)
	return b.String()
}
