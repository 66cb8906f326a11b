package export

import (
	"strings"
	"unicode/utf16"
)

const (
	filePrefix    = "plano_de_aula_"
	fallbackTitle = "sem_titulo"
)

// SanitizeTitle 将标题转换为文件名片段：非 [a-z0-9] 字符（不区分大小写）替换为 _ 并转小写
//
// 替换按 UTF-16 编码单元计数，BMP 以外的字符产生两个下划线。
func SanitizeTitle(title string) string {
	if title == "" {
		return fallbackTitle
	}
	var sb strings.Builder
	sb.Grow(len(title))
	for _, r := range title {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			sb.WriteRune(r + ('a' - 'A'))
		default:
			n := utf16.RuneLen(r)
			if n < 1 {
				n = 1
			}
			sb.WriteString(strings.Repeat("_", n))
		}
	}
	return sb.String()
}

// FileName 返回导出文件名
func FileName(title, ext string) string {
	return filePrefix + SanitizeTitle(title) + "." + ext
}
