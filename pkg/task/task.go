package task

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"github.com/shouni/go-site-mirror/pkg/filter"
	"github.com/shouni/go-site-mirror/pkg/naming"
)

// ----------------------------------------------------------------------
// 依存性の定義 (DIP)
// ----------------------------------------------------------------------

// Getter は、URLへGETリクエストを発行する機能のインターフェースを定義します。
// Runner は、この抽象に依存します。
type Getter interface {
	Get(ctx context.Context, url string) (*http.Response, error)
}

// ----------------------------------------------------------------------
// タスク
// ----------------------------------------------------------------------

// Task はスケジューリングの単位で、1つのURLと導出済みの出力ファイル名を束ねます。
// 生成後は不変であり、Schedulerによって一度だけ消費されます。
type Task struct {
	URL     *url.URL
	OutName string
}

// New は、URLから出力ファイル名を導出して新しいTaskを生成します。
func New(u *url.URL) Task {
	return Task{
		URL:     u,
		OutName: naming.FilenameForURL(u),
	}
}

// ----------------------------------------------------------------------
// ランナー
// ----------------------------------------------------------------------

// Runner は、単一タスクの「フェッチ→フィルター→永続化」の一連の処理を実行します。
type Runner struct {
	client  Getter
	outDir  string    // 出力先ディレクトリ
	metaOut io.Writer // メタデータサマリー行の出力先 (nilなら標準エラー出力)
}

// NewRunner は、新しいRunnerのインスタンスを生成します。
func NewRunner(client Getter, outDir string, metaOut io.Writer) (*Runner, error) {
	if client == nil {
		return nil, fmt.Errorf("task.NewRunner: Getter cannot be nil")
	}
	if outDir == "" {
		outDir = "."
	}
	return &Runner{
		client:  client,
		outDir:  outDir,
		metaOut: metaOut,
	}, nil
}

// Run は、1つのタスクを実行し、発見されたアセットごとの後続タスクを返します。
//
//  1. task.URL へGETリクエストを発行します。2xx以外は httpclient.StatusError で失敗します。
//  2. showMetadata に応じてHTML対応フィルターまたはパススルーフィルターを適用します。
//  3. フィルターが返したバイト列を出力ファイルへそのまま書き込みます（追加の変換なし）。
//  4. 発見されたアセットURLごとに後続タスクを生成して返します。後続タスクは
//     呼び出し側（Scheduler）でメタデータ・書き換えともに無効で実行されます。
func (r *Runner) Run(ctx context.Context, t Task, showMetadata, rewriteAssets bool) ([]Task, error) {
	logrus.Infof("フェッチします: %s => %s", t.URL, t.OutName)

	resp, err := r.client.Get(ctx, t.URL.String())
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var outcome *filter.Outcome
	if showMetadata {
		outcome, err = filter.NewHTMLFilter(rewriteAssets, r.metaOut).Apply(t.URL, resp)
	} else {
		outcome, err = filter.PassThrough(resp)
	}
	if err != nil {
		return nil, err
	}

	outPath := filepath.Join(r.outDir, t.OutName)
	if err := os.WriteFile(outPath, outcome.Body, 0o644); err != nil {
		return nil, fmt.Errorf("出力ファイルの書き込みに失敗しました (%s): %w", outPath, err)
	}

	subTasks := make([]Task, 0, len(outcome.Assets))
	for _, assetURL := range outcome.Assets {
		subTasks = append(subTasks, New(assetURL))
	}
	return subTasks, nil
}
