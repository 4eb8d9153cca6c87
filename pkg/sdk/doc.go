// Package sdk is a Go client for the docqa HTTP API: upload one PDF, then ask
// questions answered from its content.
//
//	client, _ := sdk.New("http://localhost:8000",
//	    sdk.WithLogger(slog.Default()),
//	)
//	f, _ := os.Open("report.pdf")
//	info, _ := client.Upload(ctx, "report.pdf", f)
//	answer, err := client.Ask(ctx, "What is the capital of France?")
//	if errors.Is(err, sdk.ErrNotReady) {
//	    // nothing uploaded yet
//	}
package sdk
