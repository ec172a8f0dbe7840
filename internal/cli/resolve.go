package cli

import (
	"context"
)

// resolveSessionID resolves a session identifier which can be:
//   - A full session UUID
//   - A unique UUID prefix, such as the short ID shown by session list
func resolveSessionID(ctx context.Context, app *App, input string) (string, error) {
	sess, err := app.Sessions.Resolve(ctx, input)
	if err != nil {
		return "", err
	}
	return sess.ID, nil
}
