package ethereum

import (
	"context"
	"errors"
	"fmt"
	"net"
	"syscall"

	"github.com/goodnatureofminers/anchorstore/internal/anchor/model"
)

// classify marks transport failures as ErrNetworkUnreachable so callers can
// tell them apart from node-side rejections.
func classify(err error) error {
	if err == nil || errors.Is(err, model.ErrNetworkUnreachable) {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var netErr net.Error
	if errors.As(err, &netErr) || errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return fmt.Errorf("%w: %w", model.ErrNetworkUnreachable, err)
	}
	return err
}
