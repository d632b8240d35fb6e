package node

import (
	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy = newHTMLPolicy()

// newHTMLPolicy 构建白名单策略，仅保留报告正文允许的内联标签
func newHTMLPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "i", "strong", "em", "u", "br", "p", "ul", "ol", "li", "span", "a")
	p.AllowAttrs("href", "title", "target", "rel").OnElements("a")
	p.AllowAttrs("style").OnElements("span")
	p.AllowURLSchemes("http", "https", "mailto")
	return p
}

// SanitizeHTML 按白名单清洗单个字符串
func SanitizeHTML(s string) string {
	return htmlPolicy.Sanitize(s)
}

// CleanseValue 递归清洗任意 JSON 值：字符串叶子做 HTML 清洗，
// map 和 slice 逐元素下钻，其余类型原样返回。
func CleanseValue(v any) any {
	switch t := v.(type) {
	case string:
		return htmlPolicy.Sanitize(t)
	case map[string]any:
		for k, vv := range t {
			t[k] = CleanseValue(vv)
		}
		return t
	case []any:
		for i := range t {
			t[i] = CleanseValue(t[i])
		}
		return t
	default:
		return v
	}
}
