// Package stackaddr 提供 fx 模块装配
package stackaddr

import (
	"go.uber.org/fx"
)

// Module 返回 stackaddr fx 模块
//
// 提供默认的系统解析器。解析器是核心中唯一持有可注入依赖的组件，
// 嵌入应用可通过 fx.Replace/fx.Decorate 换成自己的 Resolver 实现。
var Module = fx.Module("stackaddr",
	fx.Provide(
		func() ResolverConfig { return DefaultResolverConfig() },
		NewSystemResolver,
		func(r *SystemResolver) Resolver { return r },
	),
)
