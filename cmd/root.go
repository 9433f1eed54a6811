package cmd

import (
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shouni/go-site-mirror/pkg/httpclient"
)

// --- グローバル定数 ---

const (
	appName           = "site-mirror"
	defaultTimeoutSec = 10 // 秒
)

// --- グローバル変数とフラグ構造体 ---

// AppFlags はこのアプリケーション固有の永続フラグを保持
type AppFlags struct {
	TimeoutSec    int    // --timeout タイムアウト
	Verbose       int    // -v の出現回数 (0=Error, 1=Info, 2=Debug, 3以上=Trace)
	ShowMetadata  bool   // --metadata HTMLメタデータの表示
	RewriteAssets bool   // --rewrite アセットのダウンロードと参照書き換え
	OutDir        string // --out-dir 出力先ディレクトリ
}

var Flags AppFlags // アプリケーション固有フラグにアクセスするためのグローバル変数
var globalClient *httpclient.Client

var rootCmd = &cobra.Command{
	Use:   appName,
	Short: "複数URLの並列フェッチと画像アセットのローカルミラーリングツール",
	Long: `指定されたURL群を並列にフェッチしてローカルファイルへ保存します。
--metadata でHTMLページのタグ集計サマリーを表示し、--rewrite で
ページ内の画像参照をローカルファイル名へ書き換えたうえで、
発見した画像アセットを1階層だけ追加フェッチします。`,
	PersistentPreRunE: initAppPreRunE,
}

// --- 初期化とロジック ---

// verboseToLevel は、-v の出現回数をログレベルへ変換します。
func verboseToLevel(verbose int) logrus.Level {
	switch verbose {
	case 0:
		return logrus.ErrorLevel
	case 1:
		return logrus.InfoLevel
	case 2:
		return logrus.DebugLevel
	default:
		return logrus.TraceLevel
	}
}

// initAppPreRunE は、全サブコマンド共通の初期化処理です。
// ログレベルの設定と、共有HTTPクライアントの初期化を行います。
func initAppPreRunE(cmd *cobra.Command, args []string) error {
	logrus.SetLevel(verboseToLevel(Flags.Verbose))

	timeout := time.Duration(Flags.TimeoutSec) * time.Second
	logrus.Debugf("HTTPクライアントのタイムアウトを設定しました (Timeout: %s)", timeout)

	// 共有クライアントの初期化
	globalClient = httpclient.New(timeout)

	return nil
}

// GetGlobalClient は、初期化された共有HTTPクライアントを返す関数 (DIの代わり)
func GetGlobalClient() *httpclient.Client {
	return globalClient
}

// --- エントリポイント ---

// Execute は、rootCmd を実行するメイン関数です。
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().IntVar(
		&Flags.TimeoutSec,
		"timeout",
		defaultTimeoutSec,
		"HTTPリクエストのタイムアウト時間（秒）",
	)
	rootCmd.PersistentFlags().CountVarP(
		&Flags.Verbose,
		"verbose",
		"v",
		"ログの詳細度を上げる（-vvv まで指定可能）",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&Flags.ShowMetadata,
		"metadata",
		"m",
		false,
		"HTMLページのメタデータサマリーを表示する",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&Flags.RewriteAssets,
		"rewrite",
		"r",
		false,
		"画像アセットをダウンロードし、ページ内の参照をローカル名へ書き換える",
	)
	rootCmd.PersistentFlags().StringVarP(
		&Flags.OutDir,
		"out-dir",
		"o",
		".",
		"出力先ディレクトリ",
	)

	rootCmd.AddCommand(mirrorCmd, feedCmd)
}
