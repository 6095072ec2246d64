package stores

import (
	"context"
	"fmt"

	"go.pilab.hu/idstore/docstore"
	"go.pilab.hu/idstore/domain"
	"go.pilab.hu/idstore/entity"
	"go.pilab.hu/idstore/log"
)

// DeviceFlowStore keeps device authorizations under generated ids. Both the
// device code and the user code are looked up by equality.
type DeviceFlowStore struct {
	store      docstore.Store
	collection string
	serializer domain.GrantSerializer
	logger     log.Logger
}

var _ domain.DeviceFlowStore = (*DeviceFlowStore)(nil)

// NewDeviceFlowStore stores device codes in cols.DeviceFlowCodes. serializer
// encodes the device code payload into the data field.
func NewDeviceFlowStore(store docstore.Store, cols docstore.Collections, serializer domain.GrantSerializer, logger log.Logger) *DeviceFlowStore {
	if logger == nil {
		logger = log.NewNop()
	}
	return &DeviceFlowStore{store: store, collection: cols.DeviceFlowCodes, serializer: serializer, logger: logger}
}

func (s *DeviceFlowStore) StoreDeviceAuthorization(ctx context.Context, deviceCode, userCode string, data *domain.DeviceCode) error {
	if data == nil {
		return fmt.Errorf("store device authorization: %w", domain.ErrNilArgument)
	}

	payload, err := s.serializer.Serialize(data)
	if err != nil {
		return err
	}

	expiration := data.ExpiresAt()
	e := &entity.DeviceFlowCodes{
		DeviceCode:   deviceCode,
		UserCode:     userCode,
		SubjectID:    data.Subject.ID(),
		SessionID:    data.SessionID,
		ClientID:     data.ClientID,
		Description:  data.Description,
		CreationTime: data.CreationTime,
		Expiration:   &expiration,
		Data:         payload,
	}

	if _, err := s.store.Add(ctx, s.collection, e); err != nil {
		return fmt.Errorf("store device authorization: %w", err)
	}

	s.logger.Debug(ctx, "device authorization stored", log.Fields{"client_id": data.ClientID, "user_code": userCode})
	return nil
}

// FindByUserCode returns nil, nil when the user code is unknown.
func (s *DeviceFlowStore) FindByUserCode(ctx context.Context, userCode string) (*domain.DeviceCode, error) {
	_, e, err := s.findOne(ctx, "user_code", userCode)
	if err != nil || e == nil {
		return nil, err
	}
	return s.toModel(e)
}

// FindByDeviceCode returns nil, nil when the device code is unknown.
func (s *DeviceFlowStore) FindByDeviceCode(ctx context.Context, deviceCode string) (*domain.DeviceCode, error) {
	_, e, err := s.findOne(ctx, "device_code", deviceCode)
	if err != nil || e == nil {
		return nil, err
	}
	return s.toModel(e)
}

// UpdateByUserCode records the approving subject and the new payload. The
// codes, client, creation time and expiration stay as stored.
func (s *DeviceFlowStore) UpdateByUserCode(ctx context.Context, userCode string, data *domain.DeviceCode) error {
	if data == nil {
		return fmt.Errorf("update device authorization: %w", domain.ErrNilArgument)
	}

	id, e, err := s.findOne(ctx, "user_code", userCode)
	if err != nil {
		return err
	}
	if e == nil {
		return fmt.Errorf("user code %s: %w", userCode, domain.ErrDeviceCodeNotFound)
	}

	payload, err := s.serializer.Serialize(data)
	if err != nil {
		return err
	}
	e.SubjectID = data.Subject.ID()
	e.Data = payload

	if err := s.store.Set(ctx, s.collection, id, e, docstore.Overwrite); err != nil {
		return fmt.Errorf("update device authorization: %w", err)
	}

	s.logger.Debug(ctx, "device authorization updated", log.Fields{"user_code": userCode, "subject_id": e.SubjectID})
	return nil
}

// RemoveByDeviceCode deletes the authorization. An unknown code is not an error.
func (s *DeviceFlowStore) RemoveByDeviceCode(ctx context.Context, deviceCode string) error {
	id, e, err := s.findOne(ctx, "device_code", deviceCode)
	if err != nil || e == nil {
		return err
	}

	if err := s.store.Batch(s.collection).Delete(id).Commit(ctx); err != nil {
		return fmt.Errorf("remove device authorization: %w", err)
	}

	s.logger.Debug(ctx, "device authorization removed", log.Fields{"device_code": deviceCode})
	return nil
}

// findOne returns the document id and entity matching field == value, or a
// nil entity when there is none.
func (s *DeviceFlowStore) findOne(ctx context.Context, field, value string) (string, *entity.DeviceFlowCodes, error) {
	docs, err := s.store.Query(ctx, s.collection, docstore.Query{
		Where: []docstore.Predicate{docstore.Eq(field, value)},
		Limit: 1,
	})
	if err != nil {
		return "", nil, fmt.Errorf("find device authorization by %s: %w", field, err)
	}
	if len(docs) == 0 {
		s.logger.Debug(ctx, "device authorization not found", log.Fields{field: value})
		return "", nil, nil
	}

	var e entity.DeviceFlowCodes
	if err := docs[0].DataTo(&e); err != nil {
		return "", nil, err
	}

	s.logger.Debug(ctx, "device authorization found", log.Fields{field: value})
	return docs[0].ID, &e, nil
}

func (s *DeviceFlowStore) toModel(e *entity.DeviceFlowCodes) (*domain.DeviceCode, error) {
	var code domain.DeviceCode
	if err := s.serializer.Deserialize(e.Data, &code); err != nil {
		return nil, err
	}
	return &code, nil
}
