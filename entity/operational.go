package entity

import "time"

// PersistedGrant is keyed by Key, which is also its document id.
type PersistedGrant struct {
	Key          string     `bson:"key"                     json:"key"`
	Type         string     `bson:"type"                    json:"type"`
	SubjectID    string     `bson:"subject_id,omitempty"    json:"subject_id,omitempty"`
	SessionID    string     `bson:"session_id,omitempty"    json:"session_id,omitempty"`
	ClientID     string     `bson:"client_id"               json:"client_id"`
	Description  string     `bson:"description,omitempty"   json:"description,omitempty"`
	CreationTime time.Time  `bson:"creation_time"           json:"creation_time"`
	Expiration   *time.Time `bson:"expiration,omitempty"    json:"expiration,omitempty"`
	ConsumedTime *time.Time `bson:"consumed_time,omitempty" json:"consumed_time,omitempty"`
	Data         string     `bson:"data"                    json:"data"`
}

// DeviceFlowCodes has a generated document id and is looked up by either code.
type DeviceFlowCodes struct {
	DeviceCode   string     `bson:"device_code"           json:"device_code"`
	UserCode     string     `bson:"user_code"             json:"user_code"`
	SubjectID    string     `bson:"subject_id,omitempty"  json:"subject_id,omitempty"`
	SessionID    string     `bson:"session_id,omitempty"  json:"session_id,omitempty"`
	ClientID     string     `bson:"client_id"             json:"client_id"`
	Description  string     `bson:"description,omitempty" json:"description,omitempty"`
	CreationTime time.Time  `bson:"creation_time"         json:"creation_time"`
	Expiration   *time.Time `bson:"expiration,omitempty"  json:"expiration,omitempty"`
	Data         string     `bson:"data"                  json:"data"`
}
