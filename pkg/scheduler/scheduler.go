package scheduler

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/shouni/go-site-mirror/pkg/task"
	"github.com/shouni/go-site-mirror/pkg/types"
)

// Runner は、Schedulerが駆動する単一タスク実行機能のインターフェースです。
// *task.Runner がこれを満たします。
type Runner interface {
	Run(ctx context.Context, t task.Task, showMetadata, rewriteAssets bool) ([]task.Task, error)
}

// Scheduler は、上限なしの並行フェッチタスク群を完了まで駆動します。
//
// シードタスクは即座に起動され、完了は到着順（順序保証なし）に消費されます。
// ページタスクが発見したアセットタスクは、メタデータ・書き換えともに無効の
// 状態で実行中集合へ注入されるため、再帰は深さ1で必ず打ち切られます。
// 単一タスクの失敗は記録されるだけで、兄弟タスクには影響しません。
type Scheduler struct {
	runner        Runner
	showMetadata  bool
	rewriteAssets bool
}

// New は、新しいSchedulerを生成します。
// showMetadata と rewriteAssets はシードタスクにのみ適用されます。
func New(runner Runner, showMetadata, rewriteAssets bool) *Scheduler {
	return &Scheduler{
		runner:        runner,
		showMetadata:  showMetadata,
		rewriteAssets: rewriteAssets,
	}
}

// completion は、1つのタスクの完了通知です。
type completion struct {
	task     task.Task
	subTasks []task.Task
	err      error
}

// Run は、シードタスク群とそこから派生するアセットタスク群をすべて実行し、
// タスクごとの結果を返します。実行中のタスクが尽きた時点で終了します。
func (s *Scheduler) Run(ctx context.Context, seeds []task.Task) []types.FetchResult {
	done := make(chan completion)
	inFlight := 0

	launch := func(t task.Task, showMetadata, rewriteAssets bool) {
		inFlight++
		go func() {
			subTasks, err := s.runner.Run(ctx, t, showMetadata, rewriteAssets)
			done <- completion{task: t, subTasks: subTasks, err: err}
		}()
	}

	for _, t := range seeds {
		launch(t, s.showMetadata, s.rewriteAssets)
	}

	var results []types.FetchResult
	for inFlight > 0 {
		c := <-done
		inFlight--

		if c.err != nil {
			logrus.Errorf("%v", c.err)
			results = append(results, types.FetchResult{
				URL:     c.task.URL.String(),
				OutName: c.task.OutName,
				Error:   c.err,
			})
			continue
		}

		results = append(results, types.FetchResult{
			URL:     c.task.URL.String(),
			OutName: c.task.OutName,
		})

		// 発見されたアセットは第2波としてフェッチのみ実行する
		for _, sub := range c.subTasks {
			launch(sub, false, false)
		}
	}

	return results
}
