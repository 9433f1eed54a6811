package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/shouni/go-site-mirror/pkg/feed"
)

// フィードURLを保持するフラグ変数
var feedURL string

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "RSS/Atomフィードの記事URLをシードとして並列フェッチを実行します",
	Long: `指定されたURLからRSSまたはAtomフィードを取得・解析し、各記事のURLを
シードとして mirror と同じ並列フェッチを実行します。--metadata / --rewrite
スイッチも同様に適用されます。`,
	Args: cobra.NoArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		// 1. 依存性の初期化
		parser, err := feed.NewParser(GetGlobalClient())
		if err != nil {
			return fmt.Errorf("フィードパーサーの初期化エラー: %w", err)
		}

		// 2. フィードの取得とパース
		logrus.Infof("フィードを取得します: %s", feedURL)
		parsedFeed, err := parser.FetchAndParse(cmd.Context(), feedURL)
		if err != nil {
			return fmt.Errorf("フィード解析エラー: %w", err)
		}

		// 3. 記事URLの抽出
		links := feed.NewFeedAdapter(parsedFeed).GetLinks()
		if len(links) == 0 {
			fmt.Fprintln(os.Stderr, "フィードに記事URLが見つかりませんでした")
			return nil
		}
		logrus.Infof("フィード %q から %d 件のシードURLを抽出しました", parsedFeed.Title, len(links))

		// 4. シードタスクの生成とスケジューラーの実行
		seeds, err := buildSeedTasks(links)
		if err != nil {
			return err
		}

		return runMirrorPipeline(cmd, seeds)
	},
}

func init() {
	// サブコマンド固有のフラグ定義
	feedCmd.Flags().StringVarP(&feedURL, "url", "u", "", "解析対象のフィード (RSS/Atom) URL")

	// URLフラグを必須にする
	feedCmd.MarkFlagRequired("url")
}
