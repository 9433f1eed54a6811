package filter

import (
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"

	"github.com/shouni/go-site-mirror/pkg/naming"
)

// rewriteImage は、img 要素の src 属性をローカルファイル名へ書き換えます。
//
// src の値はページ自身のURLを基準に絶対URLへ解決され（相対参照・プロトコル相対
// 参照を含む）、属性値は解決後URLから導出したローカルファイル名に置き換えられます。
// 戻り値は後続フェッチ対象の絶対URLです。src が存在しない場合、または解決に
// 失敗した場合は nil を返します。解決失敗はページ全体の失敗にはせず、
// 当該属性のみスキップして警告を記録します。
func (f *HTMLFilter) rewriteImage(pageURL *url.URL, s *goquery.Selection) *url.URL {
	src, ok := s.Attr("src")
	if !ok {
		return nil
	}

	assetURL, err := pageURL.Parse(src)
	if err != nil {
		logrus.Warnf("アセット参照の解決に失敗したためスキップします (ページ: %s, src: %q): %v", pageURL, src, err)
		return nil
	}
	if assetURL.Host == "" {
		// data: スキームなどホストを持たない参照はローカル名を導出できない
		logrus.Warnf("ホストを持たないアセット参照のためスキップします (ページ: %s, src: %q)", pageURL, src)
		return nil
	}

	dst := naming.FilenameForURL(assetURL)
	logrus.Infof("アセット参照を書き換えます: %s => %s", src, dst)
	s.SetAttr("src", dst)

	return assetURL
}
