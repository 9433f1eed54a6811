package types

// FetchResult は、1つのフェッチタスクの実行結果を保持します。
// これは、Schedulerの出力、CLIのサマリー表示の入力として利用されます。
type FetchResult struct {
	URL     string // 処理対象のURL
	OutName string // 書き込まれた（または予定されていた）出力ファイル名
	Error   error  // 処理中に発生したエラー
}
