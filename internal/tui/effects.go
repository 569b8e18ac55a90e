package tui

import (
	"context"
	"fmt"

	"github.com/MuhamedUsman/rmshelf/internal/domain"
	"github.com/MuhamedUsman/rmshelf/internal/session"
)

// spawn starts one background task per effect. Every task gets its own copy of
// the effect and reports back exactly once, a panic counts as a failure.
func (m MainModel) spawn(effects []session.Effect) {
	for _, eff := range effects {
		switch eff := eff.(type) {
		case session.Refresh:
			m.run(opList, eff.Folder, func(ctx context.Context) completion {
				entries, err := m.transport.List(ctx, eff.Folder)
				if err != nil {
					return operationFailedMsg{op: opList, folder: eff.Folder, err: err}
				}
				return listingReadyMsg{folder: eff.Folder, entries: entries}
			})

		case session.Download:
			m.run(opDownload, domain.Root, func(ctx context.Context) completion {
				path, res, err := m.engine.Download(ctx, eff.Entry, eff.Dest)
				if err != nil {
					return operationFailedMsg{op: opDownload, err: err}
				}
				return downloadDoneMsg{path: path, result: res}
			})

		case session.Upload:
			preflight := m.preflight
			m.run(opUpload, domain.Root, func(ctx context.Context) completion {
				if preflight {
					// the device files uploads under the folder it listed last
					if _, err := m.transport.List(ctx, eff.Folder); err != nil {
						return operationFailedMsg{op: opPreflight, err: err}
					}
				}
				if err := m.transport.Upload(ctx, eff.Path); err != nil {
					return operationFailedMsg{op: opUpload, err: err}
				}
				return uploadDoneMsg{path: eff.Path}
			})
		}
	}
}

func (m MainModel) run(op string, folder domain.FolderID, fn func(ctx context.Context) completion) {
	out := m.completions
	send := func(ctx context.Context, c completion) {
		select {
		case out <- c:
		case <-ctx.Done():
		}
	}
	m.tasks.Run(func(shutdownCtx context.Context) {
		send(shutdownCtx, fn(shutdownCtx))
	}, func(r any) {
		send(m.tasks.ShutdownCtx(), operationFailedMsg{op: op, folder: folder, err: fmt.Errorf("panic: %v", r)})
	})
}
