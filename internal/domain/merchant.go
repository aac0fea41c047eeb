package domain

import "errors"

// Merchant is the live state of a merchant entity that gets persisted.
type Merchant struct {
	InternalID          string
	Name                string
	GuildName           string
	Position            Position
	Heading             uint16
	Speed               int
	Realm               uint8
	Model               uint16
	Size                uint8
	Level               uint8
	Flags               uint32
	Gender              string
	AggroLevel          int
	AggroRange          int
	EquipmentTemplateID string
}

// DataObject is anything held by the persisted-object store.
type DataObject interface {
	ObjectID() string
}

// MobRecord is the persisted shape of a merchant.
type MobRecord struct {
	ID                  string
	Name                string
	Guild               string
	X                   int32
	Y                   int32
	Z                   int32
	Heading             uint16
	Speed               int
	Region              uint16
	Realm               uint8
	Model               uint16
	Size                uint8
	Level               uint8
	Flags               uint32
	Gender              string
	AggroLevel          int
	AggroRange          int
	ClassType           string
	EquipmentTemplateID string
	ItemsListTemplateID *string
}

func (r *MobRecord) ObjectID() string {
	return r.ID
}

var ErrRecordNotFound = errors.New("record not found")
