// Package notify provides observers for records removed by the token cleanup.
package notify

import (
	"context"

	"go.pilab.hu/idstore/cleanup"
	"go.pilab.hu/idstore/entity"
	"go.pilab.hu/idstore/log"
)

// Logging writes one info line per removed batch.
type Logging struct {
	logger log.Logger
}

var _ cleanup.Notification = (*Logging)(nil)

// NewLogging logs removals at info level.
func NewLogging(logger log.Logger) *Logging {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Logging{logger: logger}
}

func (n *Logging) PersistedGrantsRemoved(ctx context.Context, grants []*entity.PersistedGrant) error {
	n.logger.Info(ctx, "expired persisted grants removed", log.Fields{
		"count":      len(grants),
		"client_ids": grantClientIDs(grants),
	})
	return nil
}

func (n *Logging) DeviceCodesRemoved(ctx context.Context, codes []*entity.DeviceFlowCodes) error {
	n.logger.Info(ctx, "expired device codes removed", log.Fields{
		"count":      len(codes),
		"client_ids": deviceClientIDs(codes),
	})
	return nil
}

func grantClientIDs(grants []*entity.PersistedGrant) []string {
	ids := make([]string, 0, len(grants))
	seen := make(map[string]struct{}, len(grants))
	for _, g := range grants {
		if _, ok := seen[g.ClientID]; ok {
			continue
		}
		seen[g.ClientID] = struct{}{}
		ids = append(ids, g.ClientID)
	}
	return ids
}

func deviceClientIDs(codes []*entity.DeviceFlowCodes) []string {
	ids := make([]string, 0, len(codes))
	seen := make(map[string]struct{}, len(codes))
	for _, c := range codes {
		if _, ok := seen[c.ClientID]; ok {
			continue
		}
		seen[c.ClientID] = struct{}{}
		ids = append(ids, c.ClientID)
	}
	return ids
}
