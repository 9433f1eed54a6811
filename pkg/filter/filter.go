package filter

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/publicsuffix"
)

// ----------------------------------------------------------------------
// 定数とデータ型
// ----------------------------------------------------------------------

const (
	// htmlContentTypePrefix は、HTML解析の対象とするContent-Typeの接頭辞です。
	htmlContentTypePrefix = "text/html"

	// assetTag は書き換え対象のタグ名です。
	// script, link 等への拡張余地はありますが、現状は img のみを対象とします。
	assetTag = "img"
)

// Outcome は、フィルター処理の結果を保持します。
// Body は出力ファイルへそのまま書き込まれるバイト列、Assets は後続フェッチの
// 対象として発見されたアセットの絶対URLリスト（文書内の出現順）です。
type Outcome struct {
	Body   []byte
	Assets []*url.URL
}

// ----------------------------------------------------------------------
// パススルーフィルター
// ----------------------------------------------------------------------

// PassThrough はレスポンスボディを生のバイト列として読み込み、そのまま返します。
// メタデータ表示が無効な場合、およびアセットの後続タスクでは常にこちらが使われます。
func PassThrough(resp *http.Response) (*Outcome, error) {
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("レスポンスボディの読み込みに失敗しました: %w", err)
	}
	return &Outcome{Body: body}, nil
}

// ----------------------------------------------------------------------
// HTML対応フィルター
// ----------------------------------------------------------------------

// HTMLFilter は、HTMLレスポンスを解析してタグを集計し、必要に応じて
// 画像参照をローカルファイル名へ書き換えるフィルターです。
type HTMLFilter struct {
	rewriteAssets bool
	metaOut       io.Writer // メタデータサマリー行の出力先
	now           func() time.Time
}

// NewHTMLFilter は、新しいHTMLFilterを生成します。
// metaOut が nil の場合は標準エラー出力へメタデータを出力します。
func NewHTMLFilter(rewriteAssets bool, metaOut io.Writer) *HTMLFilter {
	if metaOut == nil {
		metaOut = os.Stderr
	}
	return &HTMLFilter{
		rewriteAssets: rewriteAssets,
		metaOut:       metaOut,
		now:           time.Now,
	}
}

// Apply は、pageURL から取得したレスポンスにHTML対応フィルターを適用します。
//
//  1. Content-Type が text/html で始まらない（または存在しない）場合は、
//     不透明なデータとして扱い、生のバイト列を返します（保存はされます）。
//  2. HTMLの場合は文書を解析し、階層を無視した一括走査でタグごとの出現数を
//     集計します。書き換えが有効なら img タグの src を書き換え、発見した
//     アセットURLを記録します。
//  3. 走査後、メタデータサマリー行を診断ストリームへ出力します。
//  4. 書き換えが有効な場合のみ文書を再シリアライズして返します。無効な場合は
//     解析結果を破棄し、元のバイト列を無変更で返します（意図しない正規化を
//     避けるため）。
func (f *HTMLFilter) Apply(pageURL *url.URL, resp *http.Response) (*Outcome, error) {
	contentType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(contentType, htmlContentTypePrefix) {
		logrus.Warnf("HTML以外のドキュメントのためスキップします (URL: %s, Content-Type: %q)", pageURL, contentType)
		return PassThrough(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("レスポンスボディの読み込みに失敗しました: %w", err)
	}
	if !utf8.Valid(body) {
		return nil, fmt.Errorf("レスポンスボディをUTF-8テキストとしてデコードできません (URL: %s)", pageURL)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("HTML解析に失敗しました (URL: %s): %w", pageURL, err)
	}

	counts := make(map[string]int)
	var assets []*url.URL

	// 階層は判断に使わないため、全要素を一括で走査する
	doc.Find("*").Each(func(i int, s *goquery.Selection) {
		tag := goquery.NodeName(s)
		counts[tag]++
		if f.rewriteAssets && tag == assetTag {
			if assetURL := f.rewriteImage(pageURL, s); assetURL != nil {
				assets = append(assets, assetURL)
			}
		}
	})

	fmt.Fprintf(f.metaOut, "site: %s\nnum_links: %d\nimages: %d\nlast_fetch: %s\n",
		registrableDomain(pageURL),
		counts["a"],
		counts["img"],
		f.now().Format(time.RFC1123Z),
	)

	if f.rewriteAssets {
		markup, err := goquery.OuterHtml(doc.Selection)
		if err != nil {
			return nil, fmt.Errorf("HTMLの再シリアライズに失敗しました (URL: %s): %w", pageURL, err)
		}
		return &Outcome{Body: []byte(markup), Assets: assets}, nil
	}

	// 書き換えなしの場合、解析は破棄して元のテキストをそのまま返す
	return &Outcome{Body: body}, nil
}

// registrableDomain は、メタデータ表示用の登録可能ドメイン (eTLD+1) を返します。
// IPアドレスやテスト用ホストなど eTLD+1 が定まらない場合はホスト名をそのまま返します。
func registrableDomain(u *url.URL) string {
	domain, err := publicsuffix.EffectiveTLDPlusOne(u.Hostname())
	if err != nil {
		return u.Hostname()
	}
	return domain
}
