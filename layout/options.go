package layout

// Options 配置布局阶段的几何常量与字体。零值表示无边距、不绘制光标。
type Options struct {
	Border         float64 // 画布四周的统一内边距
	SeparatorWidth float64 // 分隔三角形的宽度
	StrokeWidth    float64 // 非活动分隔符的描边宽度
	BigFont        FontProfile
	SmallFont      FontProfile
	Caret          bool    // 单字段时以光标代替分隔符
	Background     *Bitmap // 可选背景位图，Dest 为空时铺满画布
}

// Measurer 是外部度量服务：给定文本、字体与约束框，返回宽高度量。
// 对相同输入必须给出相同结果。
type Measurer interface {
	Measure(text string, font FontProfile, maxWidth, maxHeight float64) (Metrics, error)
}

// CaretLocator 是可选能力：对文本布局的末尾边缘做命中测试。
type CaretLocator interface {
	HitTestTrailingEdge(text string, font FontProfile, maxWidth, maxHeight float64) (HitPoint, error)
}
