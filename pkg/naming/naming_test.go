package naming

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestFilenameForURL は、URLからファイル名への導出ルールを検証します。
func TestFilenameForURL(t *testing.T) {
	tests := []struct {
		name     string
		rawURL   string
		expected string
	}{
		{
			name:     "正常ケース_ファイル名セグメントあり",
			rawURL:   "http://ex.com/a/b.png",
			expected: "ex.com_a_b.png",
		},
		{
			name:     "正常ケース_ルートパス",
			rawURL:   "http://ex.com/",
			expected: "ex.com.html",
		},
		{
			name:     "正常ケース_パスが空",
			rawURL:   "http://ex.com",
			expected: "ex.com.html",
		},
		{
			name:     "正常ケース_深い階層のパス",
			rawURL:   "https://site.test/img/icons/logo.svg",
			expected: "site.test_img_icons_logo.svg",
		},
		{
			name:     "エッジケース_クエリ文字列は破棄される",
			rawURL:   "http://ex.com/a/b.png?size=large",
			expected: "ex.com_a_b.png",
		},
		{
			name:     "エッジケース_ポート番号はホスト名に含まれる",
			rawURL:   "http://ex.com:8080/pic.png",
			expected: "ex.com:8080_pic.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := url.Parse(tt.rawURL)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, FilenameForURL(u))
		})
	}
}

// TestFilenameForURL_Deterministic は、同一URLに対して常に同じ名前が返ることを検証します。
func TestFilenameForURL_Deterministic(t *testing.T) {
	u, err := url.Parse("http://ex.com/a/b.png")
	require.NoError(t, err)
	assert.Equal(t, FilenameForURL(u), FilenameForURL(u))
}
