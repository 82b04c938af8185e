package stages

import (
	"context"

	"github.com/wwscc/distbuilder/internal/dist/models"
	derrors "github.com/wwscc/distbuilder/internal/errors"
)

// StageNotify announces the manifest on the message bus.
func StageNotify(ctx context.Context, bs *models.BuildState) error {
	n := bs.Notifier()
	if n == nil || bs.Manifest == nil {
		return nil
	}
	payload, err := bs.Manifest.ToJSON()
	if err != nil {
		return derrors.InternalError("encode manifest", err)
	}
	return n.Notify(ctx, payload)
}
