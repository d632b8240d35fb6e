package retrieval

import (
	"strconv"
	"strings"
)

// BuildContext 将检索命中拼装为可直接嵌入提示词的文本块。
// 命中为空时仅保留头部，调用方按降级输入处理。
func BuildContext(matches []Match) string {
	snippets := make([]string, 0, len(matches))
	for _, m := range matches {
		var b strings.Builder
		b.WriteString("ID: ")
		b.WriteString(m.ID)
		b.WriteString("\nDistance: ")
		b.WriteString(strconv.FormatFloat(m.Distance, 'g', -1, 64))
		b.WriteString("\nContent:\n")
		b.WriteString(m.Text)
		b.WriteString("\n")
		snippets = append(snippets, b.String())
	}
	return "Relevant Context:\n" + strings.Join(snippets, "\n---\n")
}
