package notify

import (
	"context"
	"errors"

	"go.pilab.hu/idstore/cleanup"
	"go.pilab.hu/idstore/entity"
)

// Multi calls every observer in order. All observers run even when one
// fails; the failures are joined.
type Multi []cleanup.Notification

var _ cleanup.Notification = Multi(nil)

func (m Multi) PersistedGrantsRemoved(ctx context.Context, grants []*entity.PersistedGrant) error {
	var errs []error
	for _, n := range m {
		if err := n.PersistedGrantsRemoved(ctx, grants); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) DeviceCodesRemoved(ctx context.Context, codes []*entity.DeviceFlowCodes) error {
	var errs []error
	for _, n := range m {
		if err := n.DeviceCodesRemoved(ctx, codes); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
