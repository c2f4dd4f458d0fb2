package utils

import (
	"errors"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// ErrUndecodableContent 表示所有候选字符集都无法解码内容
var ErrUndecodableContent = errors.New("无法识别内容的字符编码")

// legacy 系统（尤其是 ERP 导出）常见的候选字符集，按命中概率排序
var fallbackEncodings = []encoding.Encoding{
	charmap.Windows1253, // 希腊语 Windows 编码
	charmap.ISO8859_7,   // 希腊语 ISO 编码
	charmap.Windows1252, // 西欧 Windows 编码
}

// DecodeText 按 UTF-8 → windows-1253 → ISO-8859-7 → windows-1252 的顺序尝试解码
// 第一个产生合法 UTF-8 且不含替换符的结果胜出，全部失败时返回 ErrUndecodableContent
func DecodeText(data []byte) (string, error) {
	if utf8.Valid(data) {
		return string(data), nil
	}

	for _, enc := range fallbackEncodings {
		decoded, err := enc.NewDecoder().Bytes(data)
		if err != nil {
			continue
		}
		if utf8.Valid(decoded) && !containsReplacementRune(decoded) {
			return string(decoded), nil
		}
	}
	return "", ErrUndecodableContent
}

func containsReplacementRune(data []byte) bool {
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			return true
		}
		data = data[size:]
	}
	return false
}
