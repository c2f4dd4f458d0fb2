package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeTextUTF8Passthrough(t *testing.T) {
	input := "Τιμολόγιο αγοράς 2026 年采购发票"
	decoded, err := DecodeText([]byte(input))
	require.NoError(t, err)
	assert.Equal(t, input, decoded)
}

func TestDecodeTextWindows1253(t *testing.T) {
	// windows-1253 编码的希腊字母 αβγ，不是合法 UTF-8
	decoded, err := DecodeText([]byte{0xE1, 0xE2, 0xE3})
	require.NoError(t, err)
	assert.Equal(t, "αβγ", decoded)
}

func TestDecodeTextUndecodable(t *testing.T) {
	// 0x81 在 windows-1253/1252 未定义，0xD2 在 ISO-8859-7 未定义
	_, err := DecodeText([]byte{0x81, 0xD2})
	assert.ErrorIs(t, err, ErrUndecodableContent)
}

func TestDecodeTextEmpty(t *testing.T) {
	decoded, err := DecodeText(nil)
	require.NoError(t, err)
	assert.Equal(t, "", decoded)
}
