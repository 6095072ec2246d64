package cleanup

import (
	"context"

	"go.pilab.hu/idstore/entity"
)

// Notification observes records removed by the token cleanup. It is called
// synchronously after each committed batch with exactly the removed records.
// An error is logged; the batch still counts as removed.
type Notification interface {
	PersistedGrantsRemoved(ctx context.Context, grants []*entity.PersistedGrant) error
	DeviceCodesRemoved(ctx context.Context, codes []*entity.DeviceFlowCodes) error
}
