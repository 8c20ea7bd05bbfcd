package remote

import (
	"context"

	"golang.org/x/time/rate"
)

// Limited decorates an Accessor with a shared token-bucket limiter so a
// concurrent run cannot hammer the management endpoints.
type Limited struct {
	acc     Accessor
	limiter *rate.Limiter
}

// NewLimited caps the accessor at rps operations per second with a burst of
// twice the rate.
func NewLimited(acc Accessor, rps float64) *Limited {
	burst := int(rps * 2)
	if burst < 1 {
		burst = 1
	}
	return &Limited{acc: acc, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (l *Limited) wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

func (l *Limited) ListFilesystemDrives(ctx context.Context, host string) ([]string, error) {
	if err := l.wait(ctx); err != nil {
		return nil, err
	}
	return l.acc.ListFilesystemDrives(ctx, host)
}

func (l *Limited) PathExists(ctx context.Context, host, path string) (bool, error) {
	if err := l.wait(ctx); err != nil {
		return false, err
	}
	return l.acc.PathExists(ctx, host, path)
}

func (l *Limited) CreateDirectory(ctx context.Context, host, path string) error {
	if err := l.wait(ctx); err != nil {
		return err
	}
	return l.acc.CreateDirectory(ctx, host, path)
}

func (l *Limited) SetRegistryDWord(ctx context.Context, host, keyPath, name string, value uint32) error {
	if err := l.wait(ctx); err != nil {
		return err
	}
	return l.acc.SetRegistryDWord(ctx, host, keyPath, name, value)
}

func (l *Limited) RebootNow(ctx context.Context, host string) error {
	if err := l.wait(ctx); err != nil {
		return err
	}
	return l.acc.RebootNow(ctx, host)
}

func (l *Limited) Run(ctx context.Context, host, command string) (Output, error) {
	if err := l.wait(ctx); err != nil {
		return Output{}, err
	}
	return l.acc.Run(ctx, host, command)
}
