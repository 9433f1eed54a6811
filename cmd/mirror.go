package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/shouni/go-site-mirror/pkg/scheduler"
	"github.com/shouni/go-site-mirror/pkg/task"
	"github.com/shouni/go-site-mirror/pkg/types"
)

// buildSeedTasks は、URL文字列群を検証してシードタスク群へ変換します。
// 1つでも不正なURLがあれば全体をエラーにします（スケジューリング開始前の致命的エラー）。
func buildSeedTasks(rawURLs []string) ([]task.Task, error) {
	seeds := make([]task.Task, 0, len(rawURLs))
	for _, rawURL := range rawURLs {
		u, err := parseSeedURL(rawURL)
		if err != nil {
			return nil, fmt.Errorf("不正なシードURLです: %w", err)
		}
		seeds = append(seeds, task.New(u))
	}
	return seeds, nil
}

// runMirrorPipeline は、シードタスク群をスケジューラーで完了まで駆動し、結果を表示します。
func runMirrorPipeline(cmd *cobra.Command, seeds []task.Task) error {
	runner, err := task.NewRunner(GetGlobalClient(), Flags.OutDir, os.Stderr)
	if err != nil {
		return fmt.Errorf("Runnerの初期化エラー: %w", err)
	}

	s := scheduler.New(runner, Flags.ShowMetadata, Flags.RewriteAssets)
	results := s.Run(cmd.Context(), seeds)

	reportResults(results)
	return nil
}

// reportResults は、タスクごとの成否サマリーを表示します。
func reportResults(results []types.FetchResult) {
	successCount := 0
	errorCount := 0

	fmt.Println("--- フェッチ結果 ---")
	for i, res := range results {
		if res.Error != nil {
			errorCount++
			fmt.Printf("❌ [%d] %s\n", i+1, res.URL)
			fmt.Printf("     エラー: %v\n", res.Error)
		} else {
			successCount++
			fmt.Printf("✅ [%d] %s => %s\n", i+1, res.URL, res.OutName)
		}
	}
	fmt.Println("--------------------")
	fmt.Printf("完了: 成功 %d 件, 失敗 %d 件\n", successCount, errorCount)
}

var mirrorCmd = &cobra.Command{
	Use:   "mirror [URL...]",
	Short: "指定されたURL群を並列にフェッチし、ローカルファイルへ保存します",
	Long: `引数のURL群をシードとして並列フェッチを実行します。--metadata 有効時は
HTMLレスポンスを解析してタグ集計サマリーを表示し、さらに --rewrite 有効時は
img タグの参照をローカルファイル名へ書き換え、発見した画像アセットを
1階層だけ追加フェッチします（アセットからの再帰は行いません）。`,
	Args: cobra.ArbitraryArgs,

	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			fmt.Fprintln(os.Stderr, "処理対象のURLが指定されていません")
			return nil
		}

		// 不正なシードURLはスケジューリング開始前の致命的エラー
		seeds, err := buildSeedTasks(args)
		if err != nil {
			return err
		}

		return runMirrorPipeline(cmd, seeds)
	},
}
