package fonts

import (
	"fmt"
	"strings"

	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Family 是内置字体族的名称。
const Family = "Go"

var builtin = map[string][]byte{
	"Go-Regular": goregular.TTF,
	"Go-Bold":    gobold.TTF,
}

// Load 返回内置字体的字节数据，name 可写为 "embed:Go-Bold" 或直接 "Go-Bold"。
func Load(name string) ([]byte, error) {
	clean := strings.TrimSuffix(strings.TrimPrefix(name, "embed:"), ".ttf")
	data, ok := builtin[clean]
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: 未找到", name)
	}
	return data, nil
}

// Regular 返回常规字重的内置字体。
func Regular() []byte { return goregular.TTF }

// Bold 返回粗体的内置字体。
func Bold() []byte { return gobold.TTF }
