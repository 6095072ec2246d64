package mapper

import (
	"go.pilab.hu/idstore/domain"
	"go.pilab.hu/idstore/entity"
)

// PersistedGrantToEntity builds a fresh entity, see UpdatePersistedGrantEntity.
func PersistedGrantToEntity(g *domain.PersistedGrant) *entity.PersistedGrant {
	if g == nil {
		return nil
	}
	e := &entity.PersistedGrant{}
	UpdatePersistedGrantEntity(g, e)
	return e
}

// PersistedGrantToModel returns nil for a nil entity.
func PersistedGrantToModel(e *entity.PersistedGrant) *domain.PersistedGrant {
	if e == nil {
		return nil
	}
	return &domain.PersistedGrant{
		Key:          e.Key,
		Type:         e.Type,
		SubjectID:    e.SubjectID,
		SessionID:    e.SessionID,
		ClientID:     e.ClientID,
		Description:  e.Description,
		CreationTime: e.CreationTime,
		Expiration:   e.Expiration,
		ConsumedTime: e.ConsumedTime,
		Data:         e.Data,
	}
}

// UpdatePersistedGrantEntity copies every mapped field of g onto e in place.
func UpdatePersistedGrantEntity(g *domain.PersistedGrant, e *entity.PersistedGrant) {
	if g == nil || e == nil {
		return
	}
	e.Key = g.Key
	e.Type = g.Type
	e.SubjectID = g.SubjectID
	e.SessionID = g.SessionID
	e.ClientID = g.ClientID
	e.Description = g.Description
	e.CreationTime = g.CreationTime
	e.Expiration = g.Expiration
	e.ConsumedTime = g.ConsumedTime
	e.Data = g.Data
}
