package webdriver

import (
	"context"
	"errors"
	"fmt"
	"time"
)

const sessionCloseTimeout = time.Second * 10

// WithSession starts a session, passes it to fn, and ends the session however fn returns,
// including by panicking. An error from ending the session is returned only if fn itself
// succeeded.
func WithSession(ctx context.Context, c *Client, browser string, fn func(*Session) error) (err error) {
	s, err := c.NewSession(ctx, browser)
	if err != nil {
		return err
	}
	defer func() {
		closeErr := s.closeDetached(ctx)
		if closeErr != nil && err == nil {
			err = fmt.Errorf("ending session %s: %w", s.id, closeErr)
		}
	}()
	return fn(s)
}

// closeDetached ends the session even if ctx has already been cancelled, since a cancelled
// run must still release the browser.
func (s *Session) closeDetached(ctx context.Context) error {
	closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), sessionCloseTimeout)
	defer cancel()
	err := s.Close(closeCtx)
	var wdErr *Error
	if errors.As(err, &wdErr) && wdErr.Code == "invalid session id" {
		// the remote end already discarded it
		return nil
	}
	return err
}
