package naming

import (
	"net/url"
	"strings"
)

// HTMLSuffix は、パス末尾のファイル名が特定できないURLに付与する拡張子です。
const HTMLSuffix = ".html"

// FilenameForURL は、URLからローカル保存用のファイル名を決定論的に導出します。
// パスに末尾のファイル名セグメントがある場合は「ホスト名＋パス（"/"を"_"に置換）」、
// パスが空またはルート ("/") の場合は「ホスト名.html」を返します。
//
// NOTE: 異なるURLが同一のファイル名に導出されることがあります（クエリ文字列は
// 破棄されるため）。その場合は後勝ちの上書きとなります。これは書き換え後の
// src属性値と、後続のアセットタスクが書き込むファイル名を一致させるための
// 意図的なポリシーです。
func FilenameForURL(u *url.URL) string {
	if u.Path == "" || u.Path == "/" {
		return u.Host + HTMLSuffix
	}
	return u.Host + strings.ReplaceAll(u.Path, "/", "_")
}
