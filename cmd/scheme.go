package cmd

import (
	"fmt"
	"net/url"
)

// ensureScheme は、URLのスキームが存在しない場合に https:// を補完します。
func ensureScheme(rawURL string) (string, error) {
	// 1. まず現在のURLをパース
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("URLのパースエラー: %w", err)
	}

	// 2. スキームが既に存在する場合のチェック
	if parsedURL.Scheme != "" {
		if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
			return "", fmt.Errorf("無効なURLスキームです。httpまたはhttpsを指定してください: %s", rawURL)
		}
		// 既存のスキームを尊重
		return rawURL, nil
	}

	// 3. スキームがない場合、HTTPSをデフォルトとして付与
	return "https://" + rawURL, nil
}

// parseSeedURL は、シードURL文字列を検証済みの絶対URLへ変換します。
// スキーム補完後にパースし、ホストを持たないURLは拒否します
// （ファイル名導出がホスト名を前提とするため）。
func parseSeedURL(rawURL string) (*url.URL, error) {
	processed, err := ensureScheme(rawURL)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(processed)
	if err != nil {
		return nil, fmt.Errorf("URLのパースエラー (%s): %w", rawURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("ホストを持たないURLは処理できません: %s", rawURL)
	}
	return u, nil
}
