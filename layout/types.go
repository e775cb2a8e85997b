package layout

// 该文件定义布局结果（帧）与绘制指令，供布局计算、渲染回放与调试 JSON 共用。

// Frame 是一次布局得到的有序绘制指令序列，返回后不可变，仅用于一次渲染。
type Frame struct {
	Width        float64       `json:"width"`
	Height       float64       `json:"height"`
	Instructions []Instruction `json:"instructions"`
	Row          RowInfo       `json:"row"`
	Tiling       *TilingGrid   `json:"tiling,omitempty"`
	Skipped      []Skip        `json:"skipped,omitempty"`
}

// RowInfo 记录大字号行的几何信息。
type RowInfo struct {
	Y      float64 `json:"y"`
	Height float64 `json:"height"`
	Width  float64 `json:"width"` // 行内光标最终推进到的横坐标
}

// TilingGrid 记录平铺区域与网格参数，便于调试与测试。
type TilingGrid struct {
	Area      Rect    `json:"area"`
	CellW     float64 `json:"cellW"`
	CellH     float64 `json:"cellH"`
	Cols      int     `json:"cols"`
	Rows      int     `json:"rows"`
	OffsetX   float64 `json:"offsetX"`
	OffsetY   float64 `json:"offsetY"`
	TileCount int     `json:"tileCount"`
}

// Skip 描述本帧中因度量失败而被跳过的部分。
type Skip struct {
	Stage  string `json:"stage"` // "row" | "tiling" | "caret"
	Field  int    `json:"field"`
	Reason string `json:"reason"`
}

// InstructionKind 区分绘制指令类型。
type InstructionKind string

const (
	KindText   InstructionKind = "text"
	KindFill   InstructionKind = "fill"
	KindStroke InstructionKind = "stroke"
	KindBitmap InstructionKind = "bitmap"
)

// Instruction 是带类型标记的绘制指令，仅与 Kind 对应的字段有意义。
type Instruction struct {
	Kind    InstructionKind `json:"kind"`
	Text    *TextRun        `json:"text,omitempty"`
	Polygon *Polygon        `json:"polygon,omitempty"`
	Bitmap  *Bitmap         `json:"bitmap,omitempty"`
}

// ColorRole 是语义颜色，由渲染端映射为具体颜色。
type ColorRole string

const (
	RoleHighlight  ColorRole = "highlight"
	RoleDimmed     ColorRole = "dimmed"
	RoleSeparator  ColorRole = "separator"
	RoleCaret      ColorRole = "caret"
	RoleBackground ColorRole = "background"
)

// Point 是布局坐标系中的点，原点在左上角，y 轴向下。
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Rect 是轴对齐矩形。
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Empty 报告矩形是否退化（宽或高非正）。
func (r Rect) Empty() bool { return r.Width <= 0 || r.Height <= 0 }

// FontProfile 描述一种字号/字重组合；Size 与布局坐标同单位。
type FontProfile struct {
	Family string  `json:"family"`
	Size   float64 `json:"size"`
	Bold   bool    `json:"bold"`
}

// TextRun 是一段已定位的文本。Origin 为文本布局框左上角；
// MaxWidth/MaxHeight 为度量时使用的约束框，渲染端据此复现同样的折行。
type TextRun struct {
	Text      string      `json:"text"`
	Origin    Point       `json:"origin"`
	Font      FontProfile `json:"font"`
	Role      ColorRole   `json:"role"`
	MaxWidth  float64     `json:"maxWidth"`
	MaxHeight float64     `json:"maxHeight"`
}

// Polygon 是填充或描边的多边形（本项目中均为三角形）。
type Polygon struct {
	Points      []Point   `json:"points"`
	Role        ColorRole `json:"role"`
	StrokeWidth float64   `json:"strokeWidth,omitempty"` // 仅描边时有效
}

// Bitmap 描述一次位图绘制：Source 为文件路径或 built-in:<name> 资源名。
type Bitmap struct {
	Source string `json:"source"`
	Dest   Rect   `json:"dest"`
}

// Metrics 由度量服务给出，布局阶段视为权威输入。
type Metrics struct {
	Width                            float64 `json:"width"`
	WidthIncludingTrailingWhitespace float64 `json:"widthIncludingTrailingWhitespace"`
	Height                           float64 `json:"height"`
}

// HitPoint 是末尾插入点的命中测试结果。
type HitPoint struct {
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	LineHeight float64 `json:"lineHeight"`
}
