// Package stackaddr 把网络地址表示为有序的类型化段栈
//
// 一个栈地址（StackAddr）是一串自描述的段（Segment），
// 覆盖链路层到应用层的协议跳、加密身份、元数据注解与路径组件，
// 不预设固定的地址形状（不同于普通 socket 地址）。
//
// 文本文法（唯一的线格式）：
//
//	address := ("/" segment)+
//	segment := tag ["/" argument]*    ; 参数个数由 tag 固定（0、1，meta/identity 为 2）
//
// 已注册 tag 获得严格的类型化校验；未注册 tag 降级为不透明的
// Path 段而不是硬失败，结构合法的未知 token 照样能往返。
//
// 基本用法：
//
//	addr, err := stackaddr.Parse("/ip4/192.168.1.1/tcp/8080")
//	if err != nil { ... }
//	host, port, ok := addr.HostPort() // "192.168.1.1", 8080, true
//
//	addrs, err := stackaddr.MustParse("/dns/example.com/tcp/443").
//		SocketAddrs(context.Background())
//
// 组合构造：
//
//	addr := stackaddr.Empty().
//		With(stackaddr.TCP(443)).
//		With(stackaddr.TLS()).
//		With(stackaddr.HTTP())
//
// StackAddr 与 Segment 都是不可变值类型，可被任意并发共享；
// 唯一会阻塞的操作是 Resolver 中的系统名称解析。
package stackaddr
